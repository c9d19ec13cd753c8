package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/firestore"
	"storefront/internal/infra/kv"
	"storefront/internal/infra/payment"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/server"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// .env は無くてもよい（本番は環境変数）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewForEnvironment(cfg.GoEnv, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	//DB接続
	gormDB, err := db.Connect(cfg, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB, log); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	ids := usecase.UUIDGenerator{}
	clock := usecase.SystemClock{}

	cartStorage, err := newCartStorage(ctx, cfg, gormDB, log)
	if err != nil {
		return err
	}

	orderUC := usecase.NewOrderUsecase(txm, ids, clock)
	placer, err := newOrderPlacer(ctx, cfg, orderUC, log)
	if err != nil {
		return err
	}

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, ids, log)
	cartUC := usecase.NewCartUsecase(cartStorage, cfg.CartNamespace, productRepo, log)
	checkoutUC := usecase.NewCheckoutUsecase(
		cartUC,
		validator.NewCheckoutValidator(),
		payment.NewMockProcessor(cfg.PaymentDelay),
		placer,
		ids,
		clock,
		log,
	)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, clock, log)

	//Handler生成
	routes := server.Routes{
		Session: middleware.SessionConfig{
			Secret:       cfg.JWTSecret,
			TTL:          cfg.SessionTTL,
			CookieSecure: cfg.CookieSecure,
		},
		JWTSecret:     cfg.JWTSecret,
		Products:      handler.NewProductHandler(productUC),
		Cart:          handler.NewCartHandler(cartUC),
		Checkout:      handler.NewCheckoutHandler(checkoutUC),
		Orders:        handler.NewOrderHandler(orderUC),
		AdminProducts: handler.NewAdminProductHandler(productUC),
		AdminOrders:   handler.NewAdminOrderHandler(adminOrderUC),
	}

	e := server.New(server.Options{
		FEURL:  cfg.FEURL,
		Logger: log,
		HealthCheck: func(ctx context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}, routes)

	//Server起動
	return server.Start(ctx, e, cfg.Addr(), log)
}

// CART_STORAGE=db なら cart_snapshots テーブル、redis なら Redis
func newCartStorage(ctx context.Context, cfg config.Config, gormDB *gorm.DB, log *zap.Logger) (cart.Storage, error) {
	if cfg.CartStorage != "redis" {
		return infraRepo.NewCartSnapshotGormRepository(gormDB), nil
	}

	client, err := kv.NewRedisClient(ctx, kv.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	log.Info("cart storage: redis", zap.String("addr", cfg.RedisAddr))
	return kv.NewRedisCartStorage(client, cfg.CartTTL), nil
}

// ORDER_BACKEND=firestore なら BaaS に注文ドキュメントを作る
func newOrderPlacer(ctx context.Context, cfg config.Config, local *usecase.OrderUsecase, log *zap.Logger) (usecase.OrderPlacer, error) {
	if cfg.OrderBackend != "firestore" {
		return local, nil
	}

	client, err := firestore.NewClient(ctx, firestore.ClientConfig{
		ProjectID:    cfg.FirestoreProjectID,
		EmulatorHost: cfg.FirestoreEmulatorHost,
	})
	if err != nil {
		return nil, err
	}
	log.Info("order backend: firestore", zap.String("project", cfg.FirestoreProjectID))
	return firestore.NewOrderPlacer(client, cfg.FirestoreCollection), nil
}
