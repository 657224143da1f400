package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"farmstore/internal/domain"
	"farmstore/internal/gate"
	authsvc "farmstore/internal/service/auth"
	cartsvc "farmstore/internal/service/cart"
	checkoutsvc "farmstore/internal/service/checkout"
	productsvc "farmstore/internal/service/product"
	usersvc "farmstore/internal/service/user"
	"farmstore/internal/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type sessionResolver interface {
	Resolve(ctx context.Context, token string) session.Session
}

type authService interface {
	Signup(ctx context.Context, in authsvc.SignupInput) (*domain.Profile, string, error)
	Login(ctx context.Context, email, password string) (*domain.Profile, string, error)
	Logout(ctx context.Context, token string) error
	CreateAdmin(ctx context.Context, in authsvc.AdminInput) (*domain.Profile, error)
	AccessTTLSeconds() int
}

type productService interface {
	ListAvailable(ctx context.Context, search, category string) ([]domain.Product, error)
	ListAll(ctx context.Context, search string) ([]domain.Product, error)
	GetAvailable(ctx context.Context, id string) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in productsvc.Input) (*domain.Product, error)
	Update(ctx context.Context, id string, in productsvc.Input) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type categoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	ListAll(ctx context.Context) ([]domain.Category, error)
}

type cartService interface {
	Get(ctx context.Context, userID string) (domain.Cart, error)
	Lines(ctx context.Context, userID string) ([]domain.CartLine, error)
	Add(ctx context.Context, userID string, in cartsvc.AddInput) (domain.Cart, error)
	ChangeQuantity(ctx context.Context, userID, lineID string, quantity int) (domain.Cart, error)
	Remove(ctx context.Context, userID, lineID string) (domain.Cart, error)
}

type checkoutService interface {
	Checkout(ctx context.Context, sess session.Session, lines []domain.CartLine, in checkoutsvc.Input) (*checkoutsvc.Result, error)
}

type orderService interface {
	History(ctx context.Context, userID string) ([]domain.Order, error)
	Count(ctx context.Context, userID string) (int, error)
	Get(ctx context.Context, sess session.Session, reference string) (*domain.Order, error)
	List(ctx context.Context, status, search string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
	Verify(ctx context.Context, sess session.Session, reference string) (*domain.Order, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

type userService interface {
	Get(ctx context.Context, id string) (*domain.Profile, error)
	UpdateOwn(ctx context.Context, userID string, in usersvc.ProfileInput) (*domain.Profile, error)
	List(ctx context.Context, search, state string) ([]domain.Profile, error)
	Edit(ctx context.Context, id string, in usersvc.EditInput) (*domain.Profile, error)
	Suspend(ctx context.Context, actorID, id, reason string) (*domain.Profile, error)
	Unsuspend(ctx context.Context, id string) (*domain.Profile, error)
	Delete(ctx context.Context, actorID, id string) error
}

type statsService interface {
	Stats(ctx context.Context) (domain.Stats, error)
}

// Deps holds everything the router serves. OrderFeed is optional.
type Deps struct {
	Sessions        sessionResolver
	AuthSvc         authService
	ProductSvc      productService
	CategorySvc     categoryService
	CartSvc         cartService
	CheckoutSvc     checkoutService
	OrderSvc        orderService
	UserSvc         userService
	StatsSvc        statsService
	OrderFeed       http.Handler
	AllowedOrigins  []string
	AdminServiceKey string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.Sessions == nil || deps.AuthSvc == nil || deps.ProductSvc == nil || deps.CategorySvc == nil ||
		deps.CartSvc == nil || deps.CheckoutSvc == nil || deps.OrderSvc == nil || deps.UserSvc == nil || deps.StatsSvc == nil {
		return nil, errors.New("httpserver: missing service dependency")
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(accessLog(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{logger: logger, deps: deps}

	router.POST("/internal/admins", h.createAdmin)
	router.POST("/payments/paystack/webhook", h.paystackWebhook)

	api := router.Group("/")
	api.Use(sessionMiddleware(deps.Sessions))

	api.GET("/session", h.currentSession)
	api.GET("/pages", h.listPages)
	api.GET("/pages/:page", h.page)

	api.POST("/auth/signup", h.signup)
	api.POST("/auth/login", h.login)
	api.POST("/auth/logout", h.logout)

	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/categories", h.listCategories)

	me := api.Group("/me", requireTier(gate.TierSession))
	me.GET("/profile", h.getProfile)
	me.PATCH("/profile", h.updateProfile)
	me.GET("/cart", h.getCart)
	me.POST("/cart/lines", h.addCartLine)
	me.PATCH("/cart/lines/:id", h.changeCartLine)
	me.DELETE("/cart/lines/:id", h.removeCartLine)
	me.POST("/checkout", h.checkout)
	me.GET("/orders", h.listMyOrders)
	me.GET("/orders/count", h.countMyOrders)
	me.GET("/orders/:reference", h.getMyOrder)
	me.POST("/orders/:reference/verify", h.verifyOrder)

	admin := api.Group("/admin", requireTier(gate.TierAdmin))
	admin.GET("/stats", h.adminStats)
	admin.GET("/users", h.adminListUsers)
	admin.PATCH("/users/:id", h.adminEditUser)
	admin.POST("/users/:id/suspend", h.adminSuspendUser)
	admin.POST("/users/:id/unsuspend", h.adminUnsuspendUser)
	admin.DELETE("/users/:id", h.adminDeleteUser)
	admin.GET("/orders", h.adminListOrders)
	admin.PATCH("/orders/:id/status", h.adminUpdateOrderStatus)
	admin.GET("/orders/export.xlsx", h.adminExportOrders)
	admin.GET("/products", h.adminListProducts)
	admin.POST("/products", h.adminCreateProduct)
	admin.PUT("/products/:id", h.adminUpdateProduct)
	admin.DELETE("/products/:id", h.adminDeleteProduct)
	admin.GET("/products/export.xlsx", h.adminExportProducts)
	admin.GET("/categories", h.adminListCategories)
	if deps.OrderFeed != nil {
		admin.GET("/orders/feed", gin.WrapH(deps.OrderFeed))
	}

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", idempotencyHeader},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

type handlers struct {
	logger *log.Logger
	deps   Deps
}
