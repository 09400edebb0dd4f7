package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/kotrzina/meteoam/pkg/config"
	"github.com/kotrzina/meteoam/pkg/crawler"
	"github.com/kotrzina/meteoam/pkg/forecast"
	"github.com/kotrzina/meteoam/pkg/meteoam"
	"github.com/kotrzina/meteoam/pkg/prometheus"
	"github.com/kotrzina/meteoam/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	defaultSearchLimit = 20
	retryAfterBlocked  = "120" // seconds
)

type HandlerRepository struct {
	forecast *forecast.Service
	crawler  *crawler.Crawler
	config   *config.Config
	monitor  *prometheus.Monitor
	logger   *logrus.Logger
	ctx      context.Context // application context, crawls outlive requests
}

func (hr *HandlerRepository) forecastHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			http.Error(w, "Invalid location id", http.StatusBadRequest)
			return
		}

		result, err := hr.forecast.GetForecast(r.Context(), id)
		if err != nil {
			hr.writeError(w, id, err)
			return
		}

		hr.writeJSON(w, result)
	}
}

func (hr *HandlerRepository) summaryHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			http.Error(w, "Invalid location id", http.StatusBadRequest)
			return
		}

		summary, err := hr.forecast.GetSummary(r.Context(), id)
		if err != nil {
			hr.writeError(w, id, err)
			return
		}

		hr.writeJSON(w, summary)
	}
}

func (hr *HandlerRepository) locationsHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultSearchLimit
		if l := r.URL.Query().Get("limit"); l != "" {
			parsed, err := strconv.Atoi(l)
			if err != nil || parsed <= 0 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		locations, err := hr.forecast.SearchLocations(r.URL.Query().Get("q"), limit)
		if err != nil {
			hr.logger.Errorf("Could not search locations: %v", err)
			http.Error(w, "Could not search locations", http.StatusInternalServerError)
			return
		}

		hr.writeJSON(w, locations)
	}
}

func (hr *HandlerRepository) crawlHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth != hr.config.Password {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		type input struct {
			From uint64 `json:"from"`
			To   uint64 `json:"to"`
		}

		var data input
		err := json.NewDecoder(r.Body).Decode(&data)
		if err != nil {
			http.Error(w, "Could not read post body", http.StatusBadRequest)
			return
		}

		err = hr.crawler.Start(hr.ctx, data.From, data.To)
		switch {
		case errors.Is(err, crawler.ErrInvalidRange):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, crawler.ErrAlreadyRunning):
			http.Error(w, err.Error(), http.StatusConflict)
			return
		case err != nil:
			http.Error(w, "Could not start crawl", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, err = w.Write(utils.GetOkJSON())
		if err != nil {
			hr.logger.Errorf("Could not write response: %v", err)
		}
	}
}

func (hr *HandlerRepository) healthHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write(utils.GetOkJSON())
		if err != nil {
			hr.logger.Errorf("Could not write response: %v", err)
		}
	}
}

// metricsHandler returns HTTP handler for metrics endpoint
func (hr *HandlerRepository) metricsHandler() http.Handler {
	return promhttp.HandlerFor(
		hr.monitor.Registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			Registry:          hr.monitor.Registry,
		},
	)
}

// writeError maps forecast errors to HTTP statuses
func (hr *HandlerRepository) writeError(w http.ResponseWriter, id uint64, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, meteoam.ErrUnusedIdentifier):
		status = http.StatusNotFound
	case errors.Is(err, meteoam.ErrBlockedRequest):
		status = http.StatusServiceUnavailable
		w.Header().Set("Retry-After", retryAfterBlocked)
	case errors.Is(err, context.Canceled):
		status = http.StatusRequestTimeout
	}

	hr.logger.WithFields(logrus.Fields{
		"id":      id,
		"outcome": meteoam.Outcome(err),
		"status":  status,
	}).Warnf("Could not get forecast: %v", err)

	http.Error(w, err.Error(), status)
}

func (hr *HandlerRepository) writeJSON(w http.ResponseWriter, data interface{}) {
	output, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Could not marshal data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(output)
	if err != nil {
		hr.logger.Errorf("Could not write response: %v", err)
	}
}

func parseID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
}
