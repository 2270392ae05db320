package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tienditahq/tiendita-backend/api/controllers"
	cartcontrollers "github.com/tienditahq/tiendita-backend/api/controllers/cart"
	"github.com/tienditahq/tiendita-backend/api/middleware"
	authsvc "github.com/tienditahq/tiendita-backend/internal/auth"
	"github.com/tienditahq/tiendita-backend/internal/orders"
	"github.com/tienditahq/tiendita-backend/internal/products"
	"github.com/tienditahq/tiendita-backend/pkg/auth/session"
	"github.com/tienditahq/tiendita-backend/pkg/config"
	"github.com/tienditahq/tiendita-backend/pkg/logger"
	redisclient "github.com/tienditahq/tiendita-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface: public auth and catalog reads,
// and the authenticated cart, checkout, and order routes.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redisclient.Client,
	sessions session.Checker,
	gatherer prometheus.Gatherer,
	authService authsvc.Service,
	productService products.Service,
	orderService orders.Service,
	cartStore cartcontrollers.Store,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	authed := middleware.Auth(cfg.JWT, sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.Register(authService, logg))
		r.Post("/refresh", controllers.Refresh(authService, cfg.JWT, logg))
		r.With(authed).Post("/logout", controllers.Logout(authService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(productService, logg))
		r.Get("/{productID}", controllers.ProductGet(productService, logg))
	})

	r.Route("/api/v1/supplier", func(r chi.Router) {
		r.Use(authed)
		r.Use(middleware.RequireRole(logg, "supplier"))
		r.Post("/products", controllers.ProductCreate(productService, logg))
		r.Patch("/products/{productID}", controllers.ProductUpdate(productService, logg))
		r.Delete("/products/{productID}", controllers.ProductDeactivate(productService, logg))
		r.Get("/orders", controllers.OrderListBySupplier(orderService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authed)

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(cartStore, logg))
			r.Delete("/", cartcontrollers.Clear(cartStore, logg))
			r.Post("/items", cartcontrollers.Add(cartStore, logg))
			r.Delete("/items/{productID}", cartcontrollers.Remove(cartStore, logg))
			r.Post("/items/{productID}/increase", cartcontrollers.Increase(cartStore, logg))
			r.Post("/items/{productID}/decrease", cartcontrollers.Decrease(cartStore, logg))
		})

		r.Post("/v1/checkout", controllers.OrderCheckout(orderService, logg))

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(orderService, logg))
			r.Get("/{orderID}", controllers.OrderGet(orderService, logg))
			r.With(middleware.RequireRole(logg, "supplier", "admin")).Patch("/{orderID}/status", controllers.OrderUpdateStatus(orderService, logg))
		})
	})

	return r
}
