// Package billing предоставляет маршруты сервиса биллинга.
package billing

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rkonweb/pre-school-sub006/internal/http/handlers/plan/plancreate"
	"github.com/rkonweb/pre-school-sub006/internal/http/handlers/plan/plandeactivate"
	"github.com/rkonweb/pre-school-sub006/internal/http/handlers/plan/planlist"
	"github.com/rkonweb/pre-school-sub006/internal/http/handlers/plan/planread"
	"github.com/rkonweb/pre-school-sub006/internal/http/handlers/plan/planupdate"
	"github.com/rkonweb/pre-school-sub006/internal/http/handlers/subscription/addonpurchase"
	"github.com/rkonweb/pre-school-sub006/internal/http/handlers/subscription/health"
	"github.com/rkonweb/pre-school-sub006/internal/http/handlers/subscription/invoicelist"
	"github.com/rkonweb/pre-school-sub006/internal/http/handlers/subscription/read"
	"github.com/rkonweb/pre-school-sub006/internal/http/handlers/subscription/switchplan"
	"github.com/rkonweb/pre-school-sub006/internal/http/handlers/subscription/usagereport"
	"github.com/rkonweb/pre-school-sub006/internal/http/middlewarectx"
	"github.com/rkonweb/pre-school-sub006/internal/lib/jwt"
	invoiceservice "github.com/rkonweb/pre-school-sub006/internal/services/invoice"
	planservice "github.com/rkonweb/pre-school-sub006/internal/services/plan"
	subservice "github.com/rkonweb/pre-school-sub006/internal/services/subscription"
	"github.com/rkonweb/pre-school-sub006/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты сервиса биллинга.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage, jwtMaker jwt.Maker,
	planService *planservice.Service, subscriptionService *subservice.Service,
	invoiceService *invoiceservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger, db).ServeHTTP)
		r.Get("/plans", planlist.New(logger, planService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/subscription", read.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscription/switch", switchplan.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscription/addons", addonpurchase.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscription/usage", usagereport.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscription/invoices", invoicelist.New(logger, invoiceService).ServeHTTP)

			// Управление каталогом планов доступно только роли admin
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole("admin", logger))
				r.Post("/plans", plancreate.New(logger, planService).ServeHTTP)
				r.Get("/plans/{id}", planread.New(logger, planService).ServeHTTP)
				r.Put("/plans/{id}", planupdate.New(logger, planService).ServeHTTP)
				r.Delete("/plans/{id}", plandeactivate.New(logger, planService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
