package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-outfit/config"
	_ "weather-outfit/docs"
	"weather-outfit/internal/bootstrap"
	v1 "weather-outfit/internal/controllers/http/v1"
	"weather-outfit/internal/jobs"
	"weather-outfit/internal/services/outfit"
	"weather-outfit/pkg/httpserver"
	"weather-outfit/pkg/logger"
	"weather-outfit/pkg/observe"
)

// @title Weather Outfit API
// @version 1.0.0
// @description Weather lookup, geocoding and outfit suggestions with a relay for generative backends.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Weather
// @tag.description Current weather, forecast and geocoding
// @tag.name Outfit
// @tag.description Outfit suggestions and deferred jobs
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cnf, err := config.NewConfig()
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}

	zone := sentryZone(cnf)
	hook := observe.NewSentryHook(zone, cnf.App.Name, 0, cnf.Sentry.Debug, cnf.Sentry.DSN)

	l := logger.NewZapLogger(cnf.App.Name, os.Stdout, hook).WithEnv(zone)
	l.SetLevel(cnf.Log.Level)
	hook.SetLogger(l)

	services, err := bootstrap.New(ctx, cnf, bootstrap.ClientDirect, l)
	if err != nil {
		l.Fatal("cannot initialise services", map[string]any{"err": err.Error()})
	}

	jobStore := jobs.NewStore[outfit.Result](cnf.Relay.JobTimeout, cnf.Relay.JobRetention, l)
	go jobStore.RunSweeper(ctx, time.Minute)

	app := httpserver.InitFiberServer(httpserver.Options{
		AppName:      cnf.App.Name,
		ReadTimeout:  time.Duration(cnf.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cnf.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cnf.Server.IdleTimeout) * time.Second,
	})

	v1.NewRouter(
		app,
		services.Weather,
		services.Resolver,
		jobStore,
		v1.Options{
			Deferred:   cnf.Relay.Mode == "deferred",
			AssetsDir:  cnf.Outfit.AssetsDir,
			AssetsBase: cnf.Outfit.AssetsBase,
		},
		l,
	)

	go func() {
		if err := app.Listen(":" + cnf.Server.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":      cnf.Server.Port,
		"relayMode": cnf.Relay.Mode,
		"version":   cnf.App.Version,
	})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		cancel()
		jobStore.Wait()
		_ = services.Close()
		hook.Flush()
		_ = l.Stop()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}

// sentryZone maps the app environment onto the zones the sentry hook reports for.
func sentryZone(cnf *config.Config) string {
	switch {
	case cnf.IsProduction():
		return "prod"
	case cnf.App.Env == "staging" || cnf.App.Env == "dev":
		return "dev"
	}
	return "local"
}
