package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"clinic-queue/config"
	"clinic-queue/internal/handlers"
	"clinic-queue/internal/services"
	"clinic-queue/internal/store"
	_ "clinic-queue/migrations"
	"clinic-queue/monitoring"
	"clinic-queue/security"
	"clinic-queue/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Redis is optional: without it reads are uncached and joins unthrottled
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := utils.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		redisClient = client
		defer redisClient.Close()
	}

	publisher, err := newPublisher(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: cfg.Environment == "development",
	})

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		st := newStore(app)

		var monitor *monitoring.Monitor
		if cfg.EnableMetrics {
			monitor = monitoring.NewMonitor(st, cfg.MetricsInterval)
			go monitor.Run(ctx)
		}

		svc := services.New(services.Options{
			Store:               st,
			Cache:               services.NewCache(redisClient, cfg.StatusCacheTTL, cfg.BoardCacheTTL),
			Publisher:           publisher,
			Monitor:             monitor,
			ConsultationMinutes: cfg.ConsultationMinutes,
		})

		go restoreDisplayBoard(ctx, svc.Display)

		queueHandler := handlers.NewQueueHandler(svc.Queue, svc.Query)
		doctorHandler := handlers.NewDoctorHandler(svc.Doctors, svc.Queue)
		displayHandler := handlers.NewDisplayHandler(svc.Display)
		adminHandler := handlers.NewAdminHandler(svc.Doctors, svc.Display, svc.Query)
		limiter := security.NewRateLimiter(redisClient, cfg.JoinRateLimit)

		api := se.Router.Group("/api/v1")

		// Patient endpoints
		api.POST("/queue/join", queueHandler.JoinQueue).BindFunc(limiter.Limit("join"))
		api.GET("/queue/status", queueHandler.GetQueueStatus)
		api.GET("/queue/patients/{patientId}", queueHandler.GetPatientQueueInfo)
		api.POST("/queue/entries/{entryId}/cancel", queueHandler.CancelQueueEntry)

		// Doctor endpoints
		api.GET("/doctors", doctorHandler.GetDoctors)
		api.POST("/doctors/{doctorId}/login", doctorHandler.Login)
		api.PUT("/doctors/{doctorId}/room", doctorHandler.SetRoom)
		api.POST("/doctors/{doctorId}/call-next", doctorHandler.CallNext)
		api.POST("/doctors/{doctorId}/complete", doctorHandler.Complete)

		// Public board
		api.GET("/display-board", displayHandler.GetDisplayBoard)

		// Admin endpoints
		admin := api.Group("/admin")
		admin.Bind(apis.RequireSuperuserAuth())
		admin.POST("/doctors", adminHandler.CreateDoctor)
		admin.POST("/display-board/reconcile", adminHandler.ReconcileBoard)
		admin.GET("/queue-dashboard", adminHandler.GetQueueDashboard)

		if cfg.EnableMetrics {
			se.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))
		}

		// Health check
		se.Router.GET("/health", func(e *core.RequestEvent) error {
			reqCtx := e.Request.Context()
			if err := utils.RedisHealthCheck(reqCtx, redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			if err := st.Ping(reqCtx); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return se.Next()
	})

	// Start server; errors go back to main so deferred cleanup still runs
	return app.Start()
}

// newStore binds the queue store to the PocketBase database so queue
// transactions share PocketBase's write connection.
func newStore(app core.App) *store.Store {
	return store.NewWithRunner(app.DB(), func(ctx context.Context, fn func(tx dbx.Builder) error) error {
		return app.RunInTransaction(func(txApp core.App) error {
			return fn(txApp.DB())
		})
	})
}

func newPublisher(cfg *config.Config) (services.Publisher, error) {
	if cfg.PubNubPublishKey == "" {
		log.Println("PubNub not configured, board feed disabled")
		return services.NopPublisher{}, nil
	}

	uuid, err := utils.GenerateCode(8)
	if err != nil {
		return nil, err
	}

	pnConfig := pubnub.NewConfig()
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey
	pnConfig.UUID = "clinic-queue-" + uuid

	return services.NewPubNubPublisher(pubnub.NewPubNub(pnConfig), cfg.BoardChannel), nil
}

// restoreDisplayBoard rebuilds the board from queue state on server restart
func restoreDisplayBoard(ctx context.Context, display *services.DisplayService) {
	log.Println("Restoring display board from queue entries...")

	rows, err := display.Reconcile(ctx)
	if err != nil {
		slog.Error("display.Reconcile()", "error", err)
		return
	}

	log.Printf("Display board restored with %d rows", rows)
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
