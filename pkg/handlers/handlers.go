package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/spencer-p/trmnltides/pkg/cache"
	"github.com/spencer-p/trmnltides/pkg/data"
	"github.com/spencer-p/trmnltides/pkg/report"
)

const (
	// NOAA predictions are every six minutes, so a preview is good for about
	// that long.
	cacheTTL = 5 * time.Minute

	defaultDeliveries = 20
	maxDeliveries     = 200
)

// Builder makes a report without delivering it, usually a *report.Runner.
type Builder interface {
	Build(ctx context.Context) (*report.Report, error)
}

// History lists past deliveries, usually a *data.Ledger.
type History interface {
	Recent(ctx context.Context, station string, n int) ([]data.Delivery, error)
}

var (
	_ Builder = (*report.Runner)(nil)
	_ History = (*data.Ledger)(nil)
)

// Register adds the routes to r. The deliveries route is only added when
// history is not nil.
func Register(r *mux.Router, b Builder, station string, history History) {
	r.Handle("/", makeIndexHandler(station))
	r.Handle("/api/v1/report", makeServeReport(b))
	if history != nil {
		r.Handle("/api/v1/deliveries", makeServeDeliveries(station, history))
	}
}

func makeIndexHandler(station string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "text/plain")
		fmt.Fprintf(w, "hello world\ntides for station %s\n", station)
	})
}

func makeServeReport(b Builder) http.Handler {
	reportCache := cache.NewTimed(cacheTTL)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		outputFormat := reportFormat(r)
		key := cacheKey(r)
		contentType := "application/json"
		if outputFormat == "text" {
			contentType = "text/plain"
		}

		// serve cache version from memory if possible
		if cached, ok := reportCache.Get(key); ok {
			w.Header().Add("Content-Type", contentType)
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		rep, err := b.Build(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprintf(w, "Failed to build report: %v", err)
			log.Printf("Failed to build report: %v", err)
			return
		}

		// duplicate the http response onto a buffer for the cache
		var toCache bytes.Buffer
		mw := io.MultiWriter(w, &toCache)

		w.Header().Add("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		if outputFormat == "text" {
			fmt.Fprintf(mw, "%s\n", rep.Series.String())
		} else if err := json.NewEncoder(mw).Encode(rep.Payload); err != nil {
			log.Printf("Failed to encode JSON result: %v", err)
			return
		}

		// save the result asynchonously as the cache may block
		go func() {
			reportCache.Set(key, toCache.Bytes())
		}()
	})
}

// reportFormat is "text" when asked for and "json" otherwise.
func reportFormat(r *http.Request) string {
	if r.FormValue("o") == "text" {
		return "text"
	}
	return "json"
}

// cacheKey covers only what changes the response, so other query parameters
// share an entry.
func cacheKey(r *http.Request) string {
	return fmt.Sprintf("%s %s o=%s", r.Method, r.URL.Path, reportFormat(r))
}

func makeServeDeliveries(station string, history History) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := defaultDeliveries
		if raw := r.FormValue("n"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 || parsed > maxDeliveries {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprintf(w, "n must be between 1 and %d", maxDeliveries)
				return
			}
			n = parsed
		}

		deliveries, err := history.Recent(r.Context(), station, n)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "Failed to list deliveries: %v", err)
			log.Printf("Failed to list deliveries: %v", err)
			return
		}

		type entry struct {
			CycleID string    `json:"cycle_id"`
			Time    time.Time `json:"time"`
			Result  string    `json:"result"`
			Error   string    `json:"error,omitempty"`
			Samples int       `json:"samples"`
		}
		result := make([]entry, len(deliveries))
		for i, d := range deliveries {
			result[i] = entry{
				CycleID: d.CycleID,
				Time:    d.CreatedAt,
				Result:  d.Result,
				Error:   d.Error,
				Samples: d.Samples,
			}
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Printf("Failed to encode JSON result: %v", err)
		}
	})
}
