package config

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/vault-client-go"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv     string `mapstructure:"APP_ENV"`
	AppName    string `mapstructure:"APP_NAME"`
	AppVersion string `mapstructure:"APP_VERSION"`
	Timezone   string `mapstructure:"TIMEZONE"`
	NodeID     int64  `mapstructure:"NODE_ID"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	TLS        struct {
		Enable   bool   `mapstructure:"ENABLE"`
		CertPath string `mapstructure:"CERT_PATH"`
		KeyPath  string `mapstructure:"KEY_PATH"`
	} `mapstructure:"TLS"`
	Otel struct {
		Addr        string  `mapstructure:"ADDR"`
		SampleRatio float64 `mapstructure:"SAMPLE_RATIO"`
	} `mapstructure:"OTEL"`
	Pyroscope struct {
		Addr string `mapstructure:"ADDR"`
	} `mapstructure:"PYROSCOPE"`
	Metrics struct {
		Enable bool `mapstructure:"ENABLE"`
	} `mapstructure:"METRICS"`
	Server struct {
		Addr         string        `mapstructure:"ADDR"`
		ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
		WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
		IdleTimeout  time.Duration `mapstructure:"IDLE_TIMEOUT"`
	} `mapstructure:"HTTP_SERVER"`
	Database struct {
		Type           string `mapstructure:"TYPE"`
		Host           string `mapstructure:"HOST"`
		Port           string `mapstructure:"PORT"`
		DBNAME         string `mapstructure:"DBNAME"`
		User           string `mapstructure:"USER"`
		Password       string `mapstructure:"PASSWORD"`
		SSLMode        string `mapstructure:"SSLMODE"`
		Timezone       string `mapstructure:"TIMEZONE"`
		ConnectionPool struct {
			MaxIdleConn     int           `mapstructure:"MAX_IDLE_CONN"`
			MaxOpenConns    int           `mapstructure:"MAX_OPEN_CONNS"`
			ConnMaxLifetime time.Duration `mapstructure:"CONN_MAX_LIFETIME"`
			ConnMaxIdleTime time.Duration `mapstructure:"CONN_MAX_IDLE_TIME"`
		} `mapstructure:"CONNECTION_POOL"`
	} `mapstructure:"DATABASE"`
	Redis struct {
		Addr        string        `mapstructure:"ADDR"`
		Password    string        `mapstructure:"PASSWORD"`
		DB          int           `mapstructure:"DB"`
		PoolSize    int           `mapstructure:"POOL_SIZE"`
		PoolTimeout time.Duration `mapstructure:"POOL_TIMEOUT"`
	} `mapstructure:"REDIS"`
	Worker struct {
		Concurrency int `mapstructure:"CONCURRENCY"`
	} `mapstructure:"WORKER"`
	AccessControl struct {
		Policy string `mapstructure:"POLICY"`
	} `mapstructure:"ACCESS_CONTROL"`
	Vault struct {
		Path      string `mapstructure:"PATH"`
		MountPath string `mapstructure:"MOUNT_PATH"`
	} `mapstructure:"VAULT"`
}

// Location returns the institution timezone used for date-only comparisons
// (voucher validity windows, fee due dates). Falls back to UTC.
func (c *Config) Location() *time.Location {
	if c == nil || c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

var Module = fx.Module("config", fx.Provide(LoadConfig))

type Params struct {
	fx.In
	Vault *vault.Client `optional:"true"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "admissions-backoffice")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("NODE_ID", 1)
	v.SetDefault("HTTP_SERVER.ADDR", "8080")
	v.SetDefault("HTTP_SERVER.READ_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_SERVER.WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_SERVER.IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("DATABASE.TYPE", "mysql")
	v.SetDefault("DATABASE.PORT", "3306")
	v.SetDefault("DATABASE.CONNECTION_POOL.MAX_IDLE_CONN", 5)
	v.SetDefault("DATABASE.CONNECTION_POOL.MAX_OPEN_CONNS", 20)
	v.SetDefault("DATABASE.CONNECTION_POOL.CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("REDIS.ADDR", "127.0.0.1:6379")
	v.SetDefault("REDIS.POOL_SIZE", 10)
	v.SetDefault("REDIS.POOL_TIMEOUT", 5*time.Second)
	v.SetDefault("VAULT.MOUNT_PATH", "secret")
	v.SetDefault("OTEL.SAMPLE_RATIO", 1.0)
	v.SetDefault("WORKER.CONCURRENCY", 5)
}

// Load reads config.yaml (optional) and the environment into a Config.
func Load(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load()

	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func LoadConfig(p Params) *Config {
	cfg, err := Load(viper.New())
	if err != nil {
		zap.L().Error("failed to load config", zap.Error(err))
		os.Exit(1)
	}

	if p.Vault != nil {
		if err := applyVaultSecrets(context.Background(), p.Vault, cfg); err != nil {
			zap.L().Error("failed get secret from vault", zap.Error(err))
			os.Exit(1)
		}
	}

	return cfg
}

func applyVaultSecrets(ctx context.Context, client *vault.Client, cfg *Config) error {
	path := cfg.Vault.Path
	if path == "" {
		path = cfg.AppEnv
	}

	zap.L().Info("Starting Get Secrets", zap.String("path", path))
	secret, err := client.Secrets.KvV2Read(ctx, path, vault.WithMountPath(cfg.Vault.MountPath))
	if err != nil {
		return err
	}
	zap.L().Info("Success Get Secret")

	get := func(key, fallback string) string {
		if val, ok := secret.Data.Data[key].(string); ok && val != "" {
			return val
		}
		return fallback
	}

	cfg.Database.User = get("database_user", cfg.Database.User)
	cfg.Database.Password = get("database_password", cfg.Database.Password)
	cfg.Redis.Password = get("redis_password", cfg.Redis.Password)

	return nil
}
