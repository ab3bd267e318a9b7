package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shopEnvKeys = []string{
	"SHOP_APP_NAME",
	"SHOP_APP_ENV",
	"SHOP_APP_PORT",
	"SHOP_DATABASE_DRIVER",
	"SHOP_DATABASE_HOST",
	"SHOP_DATABASE_PORT",
	"SHOP_DATABASE_USER",
	"SHOP_DATABASE_PASSWORD",
	"SHOP_DATABASE_DBNAME",
	"SHOP_DATABASE_SSLMODE",
	"SHOP_DATABASE_MAX_OPEN_CONNS",
	"SHOP_DATABASE_MAX_IDLE_CONNS",
	"SHOP_JWT_SECRET",
	"SHOP_COOKIE_SECURE",
	"SHOP_COOKIE_SAME_SITE",
	"SHOP_HTTP_CORS_ALLOW_ORIGINS",
	"SHOP_VNPAY_TMN_CODE",
	"SHOP_VNPAY_HASH_SECRET",
	"SHOP_SWAGGER_ENABLED",
	"SHOP_SWAGGER_ALLOWED_IPS",
	"SHOP_SWAGGER_REQUIRE_AUTH",
	"SHOP_CHECKOUT_EXPRESS_SHIPPING_FEE",
	"SHOP_EVENT_KAFKA_BROKERS",
	"SHOP_TELEMETRY_LOGS_ENABLED",
	"SHOP_TELEMETRY_PROFILING_ENABLED",
	"SHOP_TELEMETRY_PROFILING_SERVER_ADDRESS",
}

// clearShopEnv unsets every SHOP_ variable for the duration of the test.
func clearShopEnv(t *testing.T) {
	t.Helper()
	for _, k := range shopEnvKeys {
		if old, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, old) })
		}
		os.Unsetenv(k)
	}
}

func setValidProduction(t *testing.T) {
	t.Helper()
	t.Setenv("SHOP_APP_ENV", "production")
	t.Setenv("SHOP_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
	t.Setenv("SHOP_DATABASE_PASSWORD", "secure-password")
	t.Setenv("SHOP_DATABASE_SSLMODE", "require")
	t.Setenv("SHOP_COOKIE_SECURE", "true")
	t.Setenv("SHOP_VNPAY_TMN_CODE", "DEMO1234")
	t.Setenv("SHOP_VNPAY_HASH_SECRET", "vnpay-secret")
	t.Setenv("SHOP_SWAGGER_ENABLED", "false")
}

func TestLoad_Defaults(t *testing.T) {
	clearShopEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secureshop", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.App.Timezone)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "secureshop", cfg.Database.DBName)
	assert.Equal(t, "refresh_token", cfg.Cookie.RefreshName)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, cfg.JWT.Secret, cfg.JWT.RefreshSecret)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxUploadSize)
	assert.False(t, cfg.Storage.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "2.1.0", cfg.VNPay.Version)
	assert.Equal(t, "pay", cfg.VNPay.Command)
	assert.Equal(t, "other", cfg.VNPay.OrderType)
	assert.Equal(t, "vn", cfg.VNPay.Locale)
	assert.Equal(t, 15*time.Minute, cfg.VNPay.Expiry)
	assert.True(t, decimal.NewFromInt(30000).Equal(cfg.Checkout.StandardShippingFee))
	assert.True(t, decimal.NewFromInt(50000).Equal(cfg.Checkout.ExpressShippingFee))
	assert.Equal(t, 24*time.Hour, cfg.Checkout.IdempotencyTTL)
	assert.Equal(t, 24*time.Hour, cfg.Mail.VerificationTTL)
	assert.Equal(t, "http://localhost:5173/confirm-order", cfg.Mail.OrderConfirmationBaseURL)
	assert.Equal(t, 24*time.Hour, cfg.Mail.OrderConfirmationTTL)
	assert.Empty(t, cfg.Event.KafkaBrokers)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Telemetry.LogsEnabled)
	assert.False(t, cfg.Telemetry.Profiling.Enabled)
	assert.Equal(t, []string{"cpu", "alloc_space", "inuse_space", "goroutines"}, cfg.Telemetry.Profiling.ProfileTypes)
	assert.Equal(t, time.Minute, cfg.Telemetry.MetricsInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearShopEnv(t)
	t.Setenv("SHOP_APP_NAME", "shop-test")
	t.Setenv("SHOP_APP_PORT", "9000")
	t.Setenv("SHOP_DATABASE_DRIVER", "mysql")
	t.Setenv("SHOP_DATABASE_HOST", "db.local")
	t.Setenv("SHOP_DATABASE_USER", "shop")
	t.Setenv("SHOP_DATABASE_PASSWORD", "pw")
	t.Setenv("SHOP_DATABASE_MAX_OPEN_CONNS", "50")
	t.Setenv("SHOP_DATABASE_MAX_IDLE_CONNS", "10")
	t.Setenv("SHOP_CHECKOUT_EXPRESS_SHIPPING_FEE", "65000")
	t.Setenv("SHOP_EVENT_KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("SHOP_TELEMETRY_LOGS_ENABLED", "true")
	t.Setenv("SHOP_TELEMETRY_PROFILING_ENABLED", "true")
	t.Setenv("SHOP_TELEMETRY_PROFILING_SERVER_ADDRESS", "http://pyroscope:4040")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shop-test", cfg.App.Name)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port, "mysql gets its own default port")
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.True(t, decimal.NewFromInt(65000).Equal(cfg.Checkout.ExpressShippingFee))
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Event.KafkaBrokers)
	assert.True(t, cfg.Telemetry.LogsEnabled)
	assert.True(t, cfg.Telemetry.Profiling.Enabled)
	assert.Equal(t, "http://pyroscope:4040", cfg.Telemetry.Profiling.ServerAddress)
	assert.Equal(t, "shop:pw@tcp(db.local:3306)/secureshop?charset=utf8mb4&parseTime=True&loc=UTC", cfg.Database.DSN())
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown driver",
			env:     map[string]string{"SHOP_DATABASE_DRIVER": "oracle"},
			wantErr: "database.driver must be one of",
		},
		{
			name: "idle above open",
			env: map[string]string{
				"SHOP_DATABASE_MAX_OPEN_CONNS": "10",
				"SHOP_DATABASE_MAX_IDLE_CONNS": "20",
			},
			wantErr: "cannot exceed",
		},
		{
			name:    "negative idle",
			env:     map[string]string{"SHOP_DATABASE_MAX_IDLE_CONNS": "-1"},
			wantErr: "max_idle_conns cannot be negative",
		},
		{
			name:    "profiling without server",
			env:     map[string]string{"SHOP_TELEMETRY_PROFILING_ENABLED": "true"},
			wantErr: "telemetry.profiling.server_address is required",
		},
		{
			name:    "samesite none without secure",
			env:     map[string]string{"SHOP_COOKIE_SAME_SITE": "none"},
			wantErr: "requires cookie.secure=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearShopEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ProductionValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "default jwt secret",
			env:     map[string]string{"SHOP_JWT_SECRET": DefaultJWTSecret},
			wantErr: "development default",
		},
		{
			name:    "short jwt secret",
			env:     map[string]string{"SHOP_JWT_SECRET": "short"},
			wantErr: "at least 32 characters",
		},
		{
			name:    "sslmode disable",
			env:     map[string]string{"SHOP_DATABASE_SSLMODE": "disable"},
			wantErr: "sslmode cannot be 'disable'",
		},
		{
			name:    "wildcard cors",
			env:     map[string]string{"SHOP_HTTP_CORS_ALLOW_ORIGINS": "*"},
			wantErr: "cannot be '*'",
		},
		{
			name:    "missing vnpay secret",
			env:     map[string]string{"SHOP_VNPAY_HASH_SECRET": ""},
			wantErr: "vnpay.tmn_code and vnpay.hash_secret",
		},
		{
			name:    "insecure cookie",
			env:     map[string]string{"SHOP_COOKIE_SECURE": "false"},
			wantErr: "cookie.secure must be true",
		},
		{
			name:    "open swagger",
			env:     map[string]string{"SHOP_SWAGGER_ENABLED": "true"},
			wantErr: "swagger endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearShopEnv(t)
			setValidProduction(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("valid production config", func(t *testing.T) {
		clearShopEnv(t)
		setValidProduction(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})

	t.Run("swagger with ip allow list", func(t *testing.T) {
		clearShopEnv(t)
		setValidProduction(t)
		t.Setenv("SHOP_SWAGGER_ENABLED", "true")
		t.Setenv("SHOP_SWAGGER_ALLOWED_IPS", "10.0.0.1")
		t.Setenv("SHOP_SWAGGER_REQUIRE_AUTH", "false")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.1"}, cfg.Swagger.AllowedIPs)
		assert.True(t, cfg.Swagger.RequireAuth, "production docs always need a token")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("postgres escapes password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}
		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
		assert.Contains(t, dsn, "sslmode=disable")
		assert.Equal(t, dsn, cfg.MigrateURL())
	})

	t.Run("sqlite uses path", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: "sqlite", Path: ":memory:"}
		assert.Equal(t, ":memory:", cfg.DSN())
	})

	t.Run("mysql migrate url enables multi statements", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: "mysql", Host: "h", Port: 3306, User: "u", Password: "p", DBName: "d"}
		assert.Equal(t, "mysql://u:p@tcp(h:3306)/d?multiStatements=true", cfg.MigrateURL())
	})
}
