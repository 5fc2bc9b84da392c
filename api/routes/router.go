package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/graamkart/graamkart-backend/api/controllers"
	"github.com/graamkart/graamkart-backend/api/middleware"
	"github.com/graamkart/graamkart-backend/internal/address"
	"github.com/graamkart/graamkart-backend/internal/cart"
	"github.com/graamkart/graamkart-backend/internal/catalog"
	"github.com/graamkart/graamkart-backend/internal/coupons"
	"github.com/graamkart/graamkart-backend/internal/favorites"
	"github.com/graamkart/graamkart-backend/internal/notifications"
	"github.com/graamkart/graamkart-backend/internal/orders"
	"github.com/graamkart/graamkart-backend/internal/products"
	"github.com/graamkart/graamkart-backend/internal/users"
	"github.com/graamkart/graamkart-backend/pkg/config"
	"github.com/graamkart/graamkart-backend/pkg/db"
	"github.com/graamkart/graamkart-backend/pkg/logger"
	"github.com/graamkart/graamkart-backend/pkg/metrics"
	"github.com/graamkart/graamkart-backend/pkg/redis"
)

// Services groups everything the router mounts.
type Services struct {
	Users         users.Service
	Cart          cart.Service
	Address       address.Service
	Favorites     favorites.Service
	Catalog       catalog.Service
	Products      products.Service
	Coupons       coupons.Service
	Orders        orders.Service
	Notifications notifications.Service
}

// NewRouter wires every route of the storefront API. Route shapes
// match what the mobile client already calls.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg, httpMetrics),
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

	requireAuth := middleware.Auth(cfg.JWT, logg)

	r.Get("/", controllers.HealthLive(cfg))
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, redisClient, logg))
	})
	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Route("/users", func(r chi.Router) {
		r.Get("/", controllers.UsersList(svcs.Users, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/register", controllers.UserRegister(svcs.Users, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.UserLogin(svcs.Users, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", controllers.UserProfile(svcs.Users, logg))
			r.Put("/profile", controllers.UserProfileUpdate(svcs.Users, logg))
			r.Put("/change-password", controllers.UserChangePassword(svcs.Users, logg))
			r.Put("/fcm-token", controllers.UserFCMToken(svcs.Users, logg))
		})

		r.Get("/{id}", controllers.UserGet(svcs.Users, logg))
		r.Delete("/{id}", controllers.UserDelete(svcs.Users, logg))
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.CartGet(svcs.Cart, logg))
		r.Post("/add", controllers.CartAdd(svcs.Cart, logg))
		r.Put("/update", controllers.CartUpdate(svcs.Cart, logg))
		r.Delete("/remove/{productId}", controllers.CartRemove(svcs.Cart, logg))
		r.Delete("/clear", controllers.CartClear(svcs.Cart, logg))
	})

	r.Route("/api/address", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.AddressList(svcs.Address, logg))
		r.Post("/", controllers.AddressCreate(svcs.Address, logg))
		r.Get("/{id}", controllers.AddressGet(svcs.Address, logg))
		r.Put("/{id}", controllers.AddressUpdate(svcs.Address, logg))
		r.Delete("/{id}", controllers.AddressDelete(svcs.Address, logg))
		r.Put("/{id}/set-default", controllers.AddressSetDefault(svcs.Address, logg))
	})

	r.Route("/favorites", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.FavoritesList(svcs.Favorites, logg))
		r.Post("/", controllers.FavoriteAdd(svcs.Favorites, logg))
		r.Get("/check/{productId}", controllers.FavoriteCheck(svcs.Favorites, logg))
		r.Delete("/{productId}", controllers.FavoriteRemove(svcs.Favorites, logg))
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", controllers.CategoriesList(svcs.Catalog, logg))
		r.Get("/{id}", controllers.CategoryGet(svcs.Catalog, logg))
		r.Post("/", controllers.CategoryCreate(svcs.Catalog, logg))
		r.Put("/{id}", controllers.CategoryUpdate(svcs.Catalog, logg))
		r.Delete("/{id}", controllers.CategoryDelete(svcs.Catalog, logg))
	})

	r.Route("/subCategories", func(r chi.Router) {
		r.Get("/", controllers.SubCategoriesList(svcs.Catalog, logg))
		r.Get("/{id}", controllers.SubCategoryGet(svcs.Catalog, logg))
		r.Post("/", controllers.SubCategoryCreate(svcs.Catalog, logg))
		r.Put("/{id}", controllers.SubCategoryUpdate(svcs.Catalog, logg))
		r.Delete("/{id}", controllers.SubCategoryDelete(svcs.Catalog, logg))
	})

	r.Route("/brands", func(r chi.Router) {
		r.Get("/", controllers.BrandsList(svcs.Catalog, logg))
		r.Get("/{id}", controllers.BrandGet(svcs.Catalog, logg))
		r.Post("/", controllers.BrandCreate(svcs.Catalog, logg))
		r.Put("/{id}", controllers.BrandUpdate(svcs.Catalog, logg))
		r.Delete("/{id}", controllers.BrandDelete(svcs.Catalog, logg))
	})

	r.Route("/variantTypes", func(r chi.Router) {
		r.Get("/", controllers.VariantTypesList(svcs.Catalog, logg))
		r.Get("/{id}", controllers.VariantTypeGet(svcs.Catalog, logg))
		r.Post("/", controllers.VariantTypeCreate(svcs.Catalog, logg))
		r.Put("/{id}", controllers.VariantTypeUpdate(svcs.Catalog, logg))
		r.Delete("/{id}", controllers.VariantTypeDelete(svcs.Catalog, logg))
	})

	r.Route("/variants", func(r chi.Router) {
		r.Get("/", controllers.VariantsList(svcs.Catalog, logg))
		r.Get("/{id}", controllers.VariantGet(svcs.Catalog, logg))
		r.Post("/", controllers.VariantCreate(svcs.Catalog, logg))
		r.Put("/{id}", controllers.VariantUpdate(svcs.Catalog, logg))
		r.Delete("/{id}", controllers.VariantDelete(svcs.Catalog, logg))
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(svcs.Products, logg))
		r.Get("/{id}", controllers.ProductGet(svcs.Products, logg))
		r.Post("/", controllers.ProductCreate(svcs.Products, logg))
		r.Put("/{id}", controllers.ProductUpdate(svcs.Products, logg))
		r.Delete("/{id}", controllers.ProductDelete(svcs.Products, logg))
	})

	r.Route("/couponCodes", func(r chi.Router) {
		r.Get("/", controllers.CouponsList(svcs.Coupons, logg))
		r.Get("/{id}", controllers.CouponGet(svcs.Coupons, logg))
		r.Post("/", controllers.CouponCreate(svcs.Coupons, logg))
		r.Put("/{id}", controllers.CouponUpdate(svcs.Coupons, logg))
		r.Delete("/{id}", controllers.CouponDelete(svcs.Coupons, logg))
		r.Post("/check-coupon", controllers.CouponCheck(svcs.Coupons, logg))
	})

	r.Route("/posters", func(r chi.Router) {
		r.Get("/", controllers.PostersList(svcs.Catalog, logg))
		r.Get("/{id}", controllers.PosterGet(svcs.Catalog, logg))
		r.Post("/", controllers.PosterCreate(svcs.Catalog, logg))
		r.Put("/{id}", controllers.PosterUpdate(svcs.Catalog, logg))
		r.Delete("/{id}", controllers.PosterDelete(svcs.Catalog, logg))
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", controllers.OrdersList(svcs.Orders, logg))
		r.With(requireAuth).Get("/orderByUserId/{userId}", controllers.OrdersByUser(svcs.Orders, logg))
		r.Get("/{id}", controllers.OrderGet(svcs.Orders, logg))
		r.With(requireAuth).Post("/", controllers.OrderCreate(svcs.Orders, logg))
		r.Put("/{id}", controllers.OrderUpdate(svcs.Orders, logg))
		r.Delete("/{id}", controllers.OrderDelete(svcs.Orders, logg))
	})

	r.Route("/notification", func(r chi.Router) {
		r.Post("/send-notification", controllers.NotificationSend(svcs.Notifications, logg))
		r.Get("/all-notification", controllers.NotificationsList(svcs.Notifications, logg))
		r.Get("/track-notification/{id}", controllers.NotificationTrack(svcs.Notifications, logg))
		r.Delete("/delete-notification/{id}", controllers.NotificationDelete(svcs.Notifications, logg))
	})

	return r
}
