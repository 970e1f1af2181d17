package services

import (
	"context"
	"fmt"

	"clinic-queue/models"
	"clinic-queue/utils"

	pubnub "github.com/pubnub/go"
)

// Publisher pushes board changes to display screens. Screens still poll the
// board, so a lost event only delays them until the next poll.
type Publisher interface {
	PublishBoardEvent(ctx context.Context, ev models.BoardEvent) error
}

type NopPublisher struct{}

func (NopPublisher) PublishBoardEvent(context.Context, models.BoardEvent) error { return nil }

type PubNubPublisher struct {
	pn      *pubnub.PubNub
	channel string
	breaker *utils.CircuitBreaker
}

func NewPubNubPublisher(pn *pubnub.PubNub, channel string) *PubNubPublisher {
	return &PubNubPublisher{
		pn:      pn,
		channel: channel,
		breaker: utils.NewCircuitBreaker("pubnub-board"),
	}
}

func (p *PubNubPublisher) PublishBoardEvent(ctx context.Context, ev models.BoardEvent) error {
	return p.breaker.Execute(ctx, func() error {
		_, status, err := p.pn.Publish().
			Channel(p.channel).
			Message(ev).
			Execute()
		if err != nil {
			return err
		}
		if status.StatusCode >= 400 {
			return fmt.Errorf("pubnub publish to %s: status %d", p.channel, status.StatusCode)
		}
		return nil
	})
}
