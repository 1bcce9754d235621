package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"talentpipe/ats-service/internal/availability"
	"talentpipe/ats-service/internal/booking"
	"talentpipe/ats-service/internal/calendar"
	"talentpipe/ats-service/internal/candidate"
	"talentpipe/ats-service/internal/config"
	"talentpipe/ats-service/internal/db"
	"talentpipe/ats-service/internal/events"
	"talentpipe/ats-service/internal/fanout"
	"talentpipe/ats-service/internal/googleauth"
	"talentpipe/ats-service/internal/mailer"
	"talentpipe/ats-service/internal/search"
	"talentpipe/ats-service/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	publisher := events.NewPublisher(rdb)
	dispatcher := fanout.NewDispatcher()

	google := googleauth.NewProvider(pool, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	if google == nil {
		log.Println("google oauth not configured, calendar and email side effects disabled")
	}

	// The interface fields must stay nil when the adapters are nil, so the
	// service's nil checks keep working. Assigning a typed nil pointer
	// into the interface would defeat them.
	var eventCreator booking.EventCreator
	if adapter := calendar.NewAdapter(google); adapter != nil {
		eventCreator = adapter
	}
	var bookingMailer booking.Mailer
	gmailer := mailer.NewMailer(pool, google)
	if gmailer != nil {
		bookingMailer = gmailer
	}

	bookingSvc := booking.NewService(
		booking.NewPgStore(pool), eventCreator, bookingMailer,
		publisher, dispatcher, cfg.PublicBaseURL,
	)
	candidateSvc := candidate.NewService(pool, publisher)
	availabilitySvc := availability.NewService(pool)

	var trigger search.WorkflowTrigger
	if wf := workflow.NewClient(cfg.WorkflowURL, cfg.WorkflowAPIKey); wf != nil {
		trigger = wf
	} else {
		log.Println("sourcing workflow not configured")
	}
	searchSvc := search.NewService(pool, trigger)

	sweepJobs := []fanout.SweepJob{
		{Name: "prune-expired-slots", Run: availabilitySvc.PruneExpired},
	}
	if gmailer != nil {
		sweepJobs = append(sweepJobs, fanout.SweepJob{Name: "retry-failed-emails", Run: gmailer.RetryFailed})
	}
	sweeper := fanout.NewSweeper("@every 10m", sweepJobs...)
	if err := sweeper.Start(ctx); err != nil {
		log.Fatalf("sweeper: %v", err)
	}

	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	corsCfg := cors.DefaultConfig()
	if cfg.AllowedOrigin != "" {
		corsCfg.AllowOrigins = []string{cfg.AllowedOrigin}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Api-Key"}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	booking.NewHandler(bookingSvc).RegisterRoutes(api)
	candidate.NewHandler(candidateSvc).RegisterRoutes(api)
	search.NewHandler(searchSvc, candidateSvc).RegisterRoutes(api)
	availability.NewHandler(availabilitySvc).RegisterRoutes(api)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("ats service listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	sweeper.Stop()
	dispatcher.Wait()
	log.Println("bye")
}
