package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "api",
			Name:      "registrations_total",
			Help:      "Photographer accounts created",
		},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "api",
			Name:      "logins_total",
			Help:      "Login attempts by result",
		},
		[]string{"result"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "api",
			Name:      "uploads_total",
			Help:      "Media uploads by kind and status",
		},
		[]string{"kind", "status"},
	)

	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "api",
			Name:      "upload_bytes_total",
			Help:      "Bytes accepted for upload",
		},
		[]string{"kind"},
	)

	ReviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "api",
			Name:      "reviews_total",
			Help:      "Reviews created by target",
		},
		[]string{"target"},
	)

	FeedSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "studio",
			Subsystem: "api",
			Name:      "feed_subscribers",
			Help:      "Open live-feed websocket connections",
		},
	)
)

// Handler exposes the default registry on a Fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
