package main

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campuspulse/campuspulse/internal/app"
	"github.com/campuspulse/campuspulse/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to init service: %v", err)
	}
	defer service.Close()

	feedbackHandler := handlers.NewFeedbackHandler(service)
	analyticsHandler := handlers.NewAnalyticsHandler(service)

	http.HandleFunc("POST /api/v1/feedback/{token}", handlers.Instrument(feedbackHandler.HandleSubmit))
	http.HandleFunc("GET /api/v1/feedback/{token}/status", handlers.Instrument(feedbackHandler.HandleStatus))

	http.HandleFunc("GET /api/v1/analytics/overall", handlers.Instrument(analyticsHandler.HandleOverallRating))
	http.HandleFunc("GET /api/v1/analytics/subjects", handlers.Instrument(analyticsHandler.HandleSubjectRatings))
	http.HandleFunc("GET /api/v1/analytics/high-impact", handlers.Instrument(analyticsHandler.HandleHighImpactAreas))
	http.HandleFunc("GET /api/v1/analytics/trend/semesters", handlers.Instrument(analyticsHandler.HandleSemesterTrend))
	http.HandleFunc("GET /api/v1/analytics/trend/annual", handlers.Instrument(analyticsHandler.HandleAnnualTrend))
	http.HandleFunc("GET /api/v1/analytics/comparison/divisions", handlers.Instrument(analyticsHandler.HandleDivisionBatchComparison))
	http.HandleFunc("GET /api/v1/analytics/comparison/lecture-lab", handlers.Instrument(analyticsHandler.HandleLectureLabComparison))
	http.HandleFunc("GET /api/v1/analytics/faculty/{faculty_id}/matrix", handlers.Instrument(analyticsHandler.HandleFacultyMatrix))
	http.HandleFunc("GET /api/v1/analytics/faculty/matrix", handlers.Instrument(analyticsHandler.HandleAllFacultyMatrix))

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting campuspulse server on %s", service.Config.Server.Port)
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Campuspulse server failed: %v", err)
	}
}
