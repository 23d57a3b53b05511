package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/config"
	custommiddleware "github.com/Chandresh-Kathiriya/m-desk-backend/internal/middleware"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/payments"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/service"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) (*Server, error) {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Redis client backs rate limiting on the auth endpoints
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	shippingPrice, err := decimal.NewFromString(cfg.Shop.DefaultShippingPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid default shipping price %q: %w", cfg.Shop.DefaultShippingPrice, err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	contactRepo := repository.NewContactRepository(db)
	productRepo := repository.NewProductRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	cartRepo := repository.NewCartRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	billRepo := repository.NewVendorBillRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	termRepo := repository.NewPaymentTermRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, contactRepo, refreshTokenRepo, cfg.JWT.Secret)
	settingsService := service.NewSettingsService(settingsRepo)
	catalogService := service.NewCatalogService(productRepo, ledgerRepo)
	cartService := service.NewCartService(cartRepo, productRepo, db)
	contactService := service.NewContactService(contactRepo)
	discountService := service.NewDiscountService(couponRepo, offerRepo, productRepo, contactRepo, userRepo)
	billingService := service.NewBillingService(db, invoiceRepo, billRepo, paymentRepo, termRepo, contactRepo)
	purchaseService := service.NewPurchaseService(db, poRepo, billRepo, productRepo, contactRepo)
	reportService := service.NewReportService(reportRepo)

	gateway := payments.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.Currency)
	orderService := service.NewOrderService(
		db,
		orderRepo,
		productRepo,
		cartRepo,
		couponRepo,
		invoiceRepo,
		termRepo,
		contactRepo,
		userRepo,
		discountService,
		settingsService,
		gateway,
		shippingPrice,
		logger,
	)

	// Load the settings singleton into memory before serving traffic
	if err := settingsService.Load(context.Background()); err != nil {
		return nil, err
	}

	// Create middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminOnly := custommiddleware.RequireAdmin(logger)
	authRateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 20,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:auth",
	}, logger)

	// Register routes
	authHandler := transport.NewAuthHandler(authService, logger)
	router.Group(func(r chi.Router) {
		r.Use(authRateLimit)
		authHandler.RegisterRoutes(r, authMiddleware)
	})

	transport.NewProductHandler(catalogService, logger).RegisterRoutes(router, authMiddleware, adminOnly)
	transport.NewCartHandler(cartService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewDiscountHandler(discountService, logger).RegisterRoutes(router, authMiddleware, adminOnly)
	transport.NewOrderHandler(orderService, logger).RegisterRoutes(router, authMiddleware, adminOnly)
	transport.NewPurchaseHandler(purchaseService, logger).RegisterRoutes(router, authMiddleware, adminOnly)
	transport.NewBillingHandler(billingService, logger).RegisterRoutes(router, authMiddleware, adminOnly)
	transport.NewReportHandler(reportService, logger).RegisterRoutes(router, authMiddleware, adminOnly)
	transport.NewSettingsHandler(settingsService, logger).RegisterRoutes(router, authMiddleware, adminOnly)
	transport.NewContactHandler(contactService, logger).RegisterRoutes(router, authMiddleware, adminOnly)

	// Master-data resources share one handler parameterized by descriptor
	lookups := []struct {
		resource string
		desc     repository.LookupDescriptor
	}{
		{"brands", repository.Brands},
		{"colors", repository.Colors},
		{"sizes", repository.Sizes},
		{"styles", repository.Styles},
		{"types", repository.Types},
		{"categories", repository.Categories},
	}
	for _, l := range lookups {
		lookupService := service.NewLookupService(repository.NewLookupRepository(db, l.desc))
		transport.NewLookupHandler(lookupService, l.resource, logger).RegisterRoutes(router, authMiddleware, adminOnly)
	}

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
