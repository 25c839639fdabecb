// Package metrics exposes Prometheus collectors for the frame pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "handtrack_frames_processed_total",
		Help: "Total number of frames run through the pipeline",
	})

	HandsDetectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "handtrack_hands_detected_total",
		Help: "Total number of hands returned by the landmark estimator, by handedness",
	}, []string{"handedness"})

	DetectionErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "handtrack_detection_errors_total",
		Help: "Frames on which the landmark estimator failed",
	})

	OffCanvasHandsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "handtrack_off_canvas_hands_total",
		Help: "Hands with at least one landmark outside the normalized frame",
	})

	FingersUpTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "handtrack_fingers_up_total",
		Help: "Per-finger count of hands where the finger was classified as up",
	}, []string{"finger"})

	HandsInFrame = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "handtrack_hands_in_frame",
		Help: "Number of hands in the most recent frame",
	})

	FrameDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "handtrack_frame_duration_seconds",
		Help:    "Time spent per frame, by stage",
		Buckets: []float64{0.001, 0.005, 0.01, 0.02, 0.033, 0.05, 0.1, 0.25, 0.5},
	}, []string{"stage"})
)

// ConnectedClients tracks live server subscribers by endpoint.
var ConnectedClients = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "handtrack_connected_clients",
	Help: "Clients currently attached to the live server",
}, []string{"endpoint"})
