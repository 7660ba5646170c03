package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "flightsurety/internal/config"
	router "flightsurety/internal/http"
	"flightsurety/internal/http/handlers"
	"flightsurety/internal/repositories"
	"flightsurety/internal/services"
	"flightsurety/internal/utils"
	"flightsurety/pkg/messaging"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		utils.Log.WithError(err).Fatal("server stopped with error")
	}
	utils.LogEvent("", "main", "shutdown", "server stopped cleanly")
}

func run() error {
	env, err := intconfig.LoadEnv()
	if err != nil {
		return err
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks := services.MultiSink{services.LogSink{}}
	var journal handlers.EventLister

	db, err := intconfig.ConnectDB(ctx, env.DBDSN)
	if err != nil {
		return err
	}
	if db != nil {
		defer intconfig.CloseDB()
		repo := repositories.JournalRepository{DB: db}
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, repo)
		journal = repo
	}

	var transferrer services.Transferrer = services.LogTransferrer{}
	if env.NatsURL != "" {
		nc, err := messaging.Connect(messaging.Config{URL: env.NatsURL})
		if err != nil {
			return err
		}
		defer nc.Close()
		sinks = append(sinks, messaging.EventPublisher{Client: nc})
		transferrer = messaging.Transferrer{Client: nc}
		utils.LogEvent("", "main", "nats", "publishing events to "+env.NatsURL)
	}

	engine, err := services.NewSurety(services.SuretyConfig{
		Owner:       env.OwnerPrincipal,
		Bootstrap:   env.BootstrapAirline,
		Params:      env.Params,
		Sink:        sinks,
		Transferrer: transferrer,
	})
	if err != nil {
		return err
	}

	r := router.NewRouter(env, &handlers.Handler{
		Engine:      engine,
		Journal:     journal,
		JWTSecret:   []byte(env.JWTSecret),
		Credentials: env.AuthCredentials,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.LogEvent("", "main", "listen", "server listening on "+env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.LogEvent("", "main", "shutdown", "stopping server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
