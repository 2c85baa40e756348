package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"opticsmarket-backend/internal/config"
	infraCache "opticsmarket-backend/internal/infrastructure/cache"
	"opticsmarket-backend/internal/infrastructure/database"
	"opticsmarket-backend/pkg/cache"
	"opticsmarket-backend/pkg/jwt"
	"opticsmarket-backend/pkg/logger"

	addressHandler "opticsmarket-backend/internal/domains/address/handler"
	addressRepo "opticsmarket-backend/internal/domains/address/repository"
	addressService "opticsmarket-backend/internal/domains/address/service"
	cartHandler "opticsmarket-backend/internal/domains/cart/handler"
	cartRepo "opticsmarket-backend/internal/domains/cart/repository"
	cartService "opticsmarket-backend/internal/domains/cart/service"
	couponHandler "opticsmarket-backend/internal/domains/coupon/handler"
	couponRepo "opticsmarket-backend/internal/domains/coupon/repository"
	couponService "opticsmarket-backend/internal/domains/coupon/service"
	escrowHandler "opticsmarket-backend/internal/domains/escrow/handler"
	escrowRepo "opticsmarket-backend/internal/domains/escrow/repository"
	escrowService "opticsmarket-backend/internal/domains/escrow/service"
	orderHandler "opticsmarket-backend/internal/domains/order/handler"
	orderRepo "opticsmarket-backend/internal/domains/order/repository"
	orderService "opticsmarket-backend/internal/domains/order/service"
	pointsHandler "opticsmarket-backend/internal/domains/points/handler"
	pointsRepo "opticsmarket-backend/internal/domains/points/repository"
	pointsService "opticsmarket-backend/internal/domains/points/service"
	productHandler "opticsmarket-backend/internal/domains/product/handler"
	productRepo "opticsmarket-backend/internal/domains/product/repository"
	productService "opticsmarket-backend/internal/domains/product/service"
	userHandler "opticsmarket-backend/internal/domains/user/handler"
	userRepo "opticsmarket-backend/internal/domains/user/repository"
	userService "opticsmarket-backend/internal/domains/user/service"
	walletHandler "opticsmarket-backend/internal/domains/wallet/handler"
	walletRepo "opticsmarket-backend/internal/domains/wallet/repository"
	walletService "opticsmarket-backend/internal/domains/wallet/service"
)

// Container wires the whole dependency graph: infrastructure first,
// then repositories, services and handlers, in that order.
type Container struct {
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client

	UserRepo    userRepo.UserRepository
	ProductRepo productRepo.ProductRepository
	CartRepo    cartRepo.CartRepository
	AddressRepo addressRepo.AddressRepository
	WalletRepo  walletRepo.WalletRepository
	CouponRepo  couponRepo.CouponRepository
	PointsRepo  pointsRepo.PointsRepository
	EscrowRepo  escrowRepo.EscrowRepository
	OrderRepo   orderRepo.OrderRepository

	UserService    userService.UserService
	ProductService productService.ProductService
	CartService    cartService.CartService
	AddressService addressService.AddressService
	WalletService  walletService.WalletService
	CouponService  couponService.CouponService
	PointsService  pointsService.PointsService
	EscrowService  escrowService.EscrowService
	OrderService   orderService.OrderService

	UserHandler    *userHandler.UserHandler
	ProductHandler *productHandler.ProductHandler
	CartHandler    *cartHandler.CartHandler
	AddressHandler *addressHandler.AddressHandler
	WalletHandler  *walletHandler.WalletHandler
	CouponHandler  *couponHandler.CouponHandler
	PointsHandler  *pointsHandler.PointsHandler
	EscrowHandler  *escrowHandler.EscrowHandler
	OrderHandler   *orderHandler.OrderHandler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	db := database.NewPostgresDB(&cfg.Database)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	redisClient := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Connect(context.Background()); err != nil {
		// Rule lookups fall back to the database when redis is down.
		logger.Warn("redis connection failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	c.Cache = infraCache.NewRedisCache(redisClient)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	platformFeeRate, err := decimal.NewFromString(cfg.Checkout.PlatformFeeRate)
	if err != nil {
		return nil, fmt.Errorf("invalid PLATFORM_FEE_RATE: %w", err)
	}

	// Repositories.
	pool := c.DB.Pool
	c.UserRepo = userRepo.NewPostgresUserRepository(pool)
	c.ProductRepo = productRepo.NewPostgresProductRepository(pool)
	c.CartRepo = cartRepo.NewPostgresCartRepository(pool)
	c.AddressRepo = addressRepo.NewPostgresAddressRepository(pool)
	c.WalletRepo = walletRepo.NewPostgresWalletRepository(pool)
	c.CouponRepo = couponRepo.NewPostgresCouponRepository(pool)
	c.PointsRepo = pointsRepo.NewPostgresPointsRepository(pool)
	c.EscrowRepo = escrowRepo.NewPostgresEscrowRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresOrderRepository(pool)

	// Services.
	c.ProductService = productService.NewProductService(c.ProductRepo)
	c.CartService = cartService.NewCartService(c.CartRepo, c.ProductRepo)
	c.AddressService = addressService.NewAddressService(c.AddressRepo)
	c.WalletService = walletService.NewWalletService(c.WalletRepo)
	c.CouponService = couponService.NewCouponService(c.CouponRepo)
	c.PointsService = pointsService.NewPointsService(c.PointsRepo, c.WalletRepo, c.Cache)
	c.EscrowService = escrowService.NewEscrowService(c.EscrowRepo, c.WalletService, c.PointsService, platformFeeRate)
	c.UserService = userService.NewUserService(c.UserRepo, c.PointsService, c.JWTManager)
	c.OrderService = orderService.NewOrderService(
		c.OrderRepo,
		c.CartRepo,
		c.ProductRepo,
		c.UserRepo,
		c.AddressService,
		c.CouponService,
		c.PointsService,
		c.EscrowService,
		c.AsynqClient,
		cfg.Checkout.DeliveryCodeLength,
	)

	// Handlers.
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)
	c.CartHandler = cartHandler.NewCartHandler(c.CartService)
	c.AddressHandler = addressHandler.NewAddressHandler(c.AddressService)
	c.WalletHandler = walletHandler.NewWalletHandler(c.WalletService, c.EscrowService)
	c.CouponHandler = couponHandler.NewCouponHandler(c.CouponService)
	c.PointsHandler = pointsHandler.NewPointsHandler(c.PointsService)
	c.EscrowHandler = escrowHandler.NewEscrowHandler(c.EscrowService, c.ProductRepo)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)

	return c, nil
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("failed to close asynq client", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
