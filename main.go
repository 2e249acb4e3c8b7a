package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spencer-p/trmnltides/pkg/config"
	"github.com/spencer-p/trmnltides/pkg/data"
	"github.com/spencer-p/trmnltides/pkg/handlers"
	"github.com/spencer-p/trmnltides/pkg/metrics"
	"github.com/spencer-p/trmnltides/pkg/report"
)

func main() {
	env, err := config.Load()
	if err != nil {
		log.Fatal(err.Error())
	}

	var ledger *data.Ledger
	var history handlers.History
	if env.DatabaseDSN != "" {
		ledger, err = data.Open(env.DatabaseDSN)
		if err != nil {
			log.Fatal(err.Error())
		}
		history = ledger
	}

	runner, err := report.New(env, ledger)
	if err != nil {
		log.Fatal(err.Error())
	}
	if !env.Deliver() {
		log.Printf("PLUGIN_UUID is not set, reports will not be delivered")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runner.Poll(ctx, env.Interval)

	r := mux.NewRouter().StrictSlash(true)
	s := r.PathPrefix(env.Prefix).Subrouter()
	handlers.Register(s, runner, env.Station, history)
	r.Handle("/metrics", promhttp.Handler())
	r.Use(metrics.LatencyHandler)
	r.NotFoundHandler = metrics.LatencyHandler(http.NotFoundHandler())

	srv := &http.Server{
		Handler:      r,
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	go func() {
		log.Printf("Listening and serving on %s/%s", srv.Addr, env.Prefix[1:])
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Got %s, shutting down", sig)
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 30*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shut down: %v\n", err)
	}
}
