package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/orderdesk-backend/api/controllers"
	ingestcontrollers "github.com/angelmondragon/orderdesk-backend/api/controllers/ingests"
	ordercontrollers "github.com/angelmondragon/orderdesk-backend/api/controllers/orders"
	webhookcontrollers "github.com/angelmondragon/orderdesk-backend/api/controllers/webhooks"
	"github.com/angelmondragon/orderdesk-backend/api/middleware"
	"github.com/angelmondragon/orderdesk-backend/internal/orders"
	"github.com/angelmondragon/orderdesk-backend/pkg/config"
	"github.com/angelmondragon/orderdesk-backend/pkg/db"
	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	"github.com/angelmondragon/orderdesk-backend/pkg/logger"
	"github.com/angelmondragon/orderdesk-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	inbound webhookcontrollers.InboundEmailProcessor,
	ordersSvc orders.Service,
	ledger ingestcontrollers.LedgerLister,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	readiness := map[string]controllers.Pinger{}
	if dbP != nil {
		readiness["db"] = dbP
	}
	if redisP != nil {
		readiness["redis"] = redisP
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Use(middleware.VerifyWebhook(middleware.NewWebhookVerifier(cfg.Webhook.SharedSecret), logg))
		r.Post("/inbound-email", webhookcontrollers.InboundEmail(inbound, cfg.Webhook.MaxBodyBytes, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRoles(logg, enums.StaffRoleAdmin, enums.StaffRoleStaff))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(ordersSvc, logg))
			r.With(middleware.RequireRoles(logg, enums.StaffRoleAdmin)).Post("/", ordercontrollers.Create(ordersSvc, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(ordersSvc, logg))
			r.Patch("/{orderId}/status", ordercontrollers.UpdateStatus(ordersSvc, logg))
		})

		r.With(middleware.RequireRoles(logg, enums.StaffRoleAdmin)).Get("/ingests", ingestcontrollers.List(ledger, logg))
	})

	return r
}
