package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietshop/checkout-backend/api/controllers"
	"github.com/vietshop/checkout-backend/api/middleware"
	checkoutsvc "github.com/vietshop/checkout-backend/internal/checkout"
	"github.com/vietshop/checkout-backend/pkg/config"
	"github.com/vietshop/checkout-backend/pkg/db"
	"github.com/vietshop/checkout-backend/pkg/logger"
	"github.com/vietshop/checkout-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/checkout", func(r chi.Router) {
		r.Post("/generateQRCode", controllers.CheckoutInitiate(checkoutService, logg))
		r.Post("/savedata", controllers.CheckoutConfirm(checkoutService, logg))
		r.Get("/orders", controllers.CheckoutOrders(checkoutService, logg))
	})

	return r
}
