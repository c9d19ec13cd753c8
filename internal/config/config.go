package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string // サーバーポート（8080）
	GoEnv    string // development/production
	LogLevel string // debug/info/warn/error

	DBDriver    string // postgres / sqlite
	DatabaseURL string // あれば最優先
	SQLitePath  string // sqliteのファイル

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	JWTSecret    string        // セッション/管理者トークンの署名シークレット
	SessionTTL   time.Duration // ゲストセッションの有効期間
	CookieSecure bool

	CartStorage   string // db / redis
	CartNamespace string // カート保存キーの名前空間
	CartTTL       time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OrderBackend          string // db / firestore
	FirestoreProjectID    string
	FirestoreEmulatorHost string
	FirestoreCollection   string

	PaymentDelay time.Duration // 決済の疑似待ち時間

	FEURL string // フロントURL（CORSで使う）
}

// Loadは環境変数から読む
func Load() (Config, error) {
	cfg := Config{
		Port:     getenv("PORT", "8080"),
		GoEnv:    getenv("GO_ENV", "development"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getenv("SQLITE_PATH", "storefront.db"),

		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "storefront"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		CartStorage:   strings.ToLower(getenv("CART_STORAGE", "db")),
		CartNamespace: getenv("CART_NAMESPACE", "storefront-cart"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		OrderBackend:          strings.ToLower(getenv("ORDER_BACKEND", "db")),
		FirestoreProjectID:    os.Getenv("FIRESTORE_PROJECT_ID"),
		FirestoreEmulatorHost: os.Getenv("FIRESTORE_EMULATOR_HOST"),
		FirestoreCollection:   getenv("FIRESTORE_ORDERS_COLLECTION", "orders"),

		FEURL: getenv("FE_URL", "http://localhost:3000"),
	}

	var err error
	if cfg.PostgresPort, err = atoi("POSTGRES_PORT", 5432); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = atoi("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = duration("SESSION_TTL", 30*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.CartTTL, err = duration("CART_TTL", 30*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.PaymentDelay, err = duration("PAYMENT_DELAY", 1500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.CookieSecure, err = boolean("COOKIE_SECURE", cfg.IsProduction()); err != nil {
		return Config{}, err
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or sqlite: %q", cfg.DBDriver)
	}
	switch cfg.CartStorage {
	case "db", "redis":
	default:
		return Config{}, fmt.Errorf("CART_STORAGE must be db or redis: %q", cfg.CartStorage)
	}
	switch cfg.OrderBackend {
	case "db":
	case "firestore":
		if cfg.FirestoreProjectID == "" {
			return Config{}, fmt.Errorf("FIRESTORE_PROJECT_ID is required when ORDER_BACKEND=firestore")
		}
	default:
		return Config{}, fmt.Errorf("ORDER_BACKEND must be db or firestore: %q", cfg.OrderBackend)
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Addr は ":8080" 形式
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoi(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func boolean(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}
