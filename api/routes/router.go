package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bodegonapp/storefront-backend/api/controllers"
	"github.com/bodegonapp/storefront-backend/api/middleware"
	"github.com/bodegonapp/storefront-backend/internal/cart"
	"github.com/bodegonapp/storefront-backend/internal/catalog"
	checkoutsvc "github.com/bodegonapp/storefront-backend/internal/checkout"
	"github.com/bodegonapp/storefront-backend/internal/reports"
	"github.com/bodegonapp/storefront-backend/internal/sales"
	"github.com/bodegonapp/storefront-backend/pkg/config"
	"github.com/bodegonapp/storefront-backend/pkg/enums"
	"github.com/bodegonapp/storefront-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	checks map[string]controllers.Pinger,
	registry *prometheus.Registry,
	catalogClient *catalog.Client,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	salesClient *sales.Client,
	reportsClient *reports.Client,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, checks))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(catalogClient, logg))
		r.Get("/products/{productId}", controllers.GetProduct(catalogClient, logg))
		r.Get("/categories", controllers.ListCategories(catalogClient, logg))
		r.Get("/promotions", controllers.ListPromotions(catalogClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Post("/items/decrement", controllers.CartDecrementItem(cartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
			r.Post("/promotions", controllers.CartAddPromotion(cartService, logg))
			r.Post("/promotions/decrement", controllers.CartDecrementPromotion(cartService, logg))
			r.Delete("/promotions/{promotionId}", controllers.CartRemovePromotion(cartService, logg))
		})

		r.With(middleware.Auth(cfg.JWT, logg)).Post("/checkout", controllers.Checkout(checkoutService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.AdminListSales(salesClient, logg))
			r.Get("/{saleId}", controllers.AdminGetSale(salesClient, logg))
			r.Patch("/{saleId}/status", controllers.AdminUpdateSaleStatus(salesClient, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/register-close", controllers.AdminRegisterCloseExport(reportsClient, logg))
			r.Get("/register-close/today", controllers.AdminRegisterCloseToday(reportsClient, logg))
			r.Get("/daily-detail", controllers.AdminDailyDetailReport(reportsClient, logg))
		})
	})

	return r
}
