package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rahulverma-dev/medstock-backend/api/controllers"
	grncontrollers "github.com/rahulverma-dev/medstock-backend/api/controllers/grn"
	purchasingcontrollers "github.com/rahulverma-dev/medstock-backend/api/controllers/purchasing"
	"github.com/rahulverma-dev/medstock-backend/api/middleware"
	grnsvc "github.com/rahulverma-dev/medstock-backend/internal/grn"
	internalpurchasing "github.com/rahulverma-dev/medstock-backend/internal/purchasing"
	"github.com/rahulverma-dev/medstock-backend/pkg/config"
	"github.com/rahulverma-dev/medstock-backend/pkg/db"
	"github.com/rahulverma-dev/medstock-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	metricsHandler http.Handler,
	grnService grnsvc.Service,
	purchasingRepo internalpurchasing.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.StoreContext(logg))
		r.Get("/ping", controllers.PrivatePing())

		r.Route("/purchase-orders/{purchaseOrderId}", func(r chi.Router) {
			r.Get("/", purchasingcontrollers.Get(purchasingRepo, logg))
			r.Post("/grn", grncontrollers.Initialize(grnService, logg))
		})

		r.Route("/grns", func(r chi.Router) {
			r.Get("/", grncontrollers.List(grnService, logg))
			r.Route("/{grnId}", func(r chi.Router) {
				r.Get("/", grncontrollers.Get(grnService, logg))
				r.Delete("/", grncontrollers.HardDelete(grnService, logg))
				r.Post("/complete", grncontrollers.Complete(grnService, logg))
				r.Post("/cancel", grncontrollers.Cancel(grnService, logg))

				r.Route("/items/{itemId}", func(r chi.Router) {
					r.Patch("/", grncontrollers.UpdateItem(grnService, logg))
					r.Delete("/", grncontrollers.DeleteItem(grnService, logg))
					r.Post("/split", grncontrollers.SplitItem(grnService, logg))
				})

				r.Route("/discrepancies", func(r chi.Router) {
					r.Post("/", grncontrollers.RecordDiscrepancy(grnService, logg))
					r.Post("/{discrepancyId}/resolve", grncontrollers.ResolveDiscrepancy(grnService, logg))
				})
			})
		})
	})

	return r
}
