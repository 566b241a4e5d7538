package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values for database.driver.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	RPC      RPCConfig      `mapstructure:"rpc"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Rate     RateConfig     `mapstructure:"rate"`
	CORS     CORSConfig     `mapstructure:"cors"`
	OTEL     OTELConfig     `mapstructure:"otel"`
	S3       S3Config       `mapstructure:"s3"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	GinMode      string        `mapstructure:"gin_mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// RPCConfig configures the administrative gRPC listener used by the identity service.
type RPCConfig struct {
	Address string `mapstructure:"address"`
	// APIKeyHash is a bcrypt hash of the key callers send as x-api-key.
	// Empty disables the check.
	APIKeyHash string `mapstructure:"api_key_hash"`
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	URI        string `mapstructure:"uri"`
	Name       string `mapstructure:"name"`
	DSN        string `mapstructure:"dsn"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// JWTConfig defines how bearer tokens issued by the identity service are verified.
// Secret verifies HS256 tokens, PublicKeyPath (PEM) verifies RS256 tokens.
// At least one is required.
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	PublicKeyPath string `mapstructure:"public_key_path"`
	Issuer        string `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// RateConfig is the per-user token bucket for the HTTP API.
type RateConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OTELConfig defines OpenTelemetry tracing settings.
type OTELConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
}

// ArchiveConfig toggles snapshotting records to S3 before deprovisioning.
type ArchiveConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig reads configuration from path/config.yaml, a .env file and
// environment variables (server.address -> SERVER_ADDRESS).
func LoadConfig(path string) (config Config, err error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}

	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("rpc.address", ":9090")
	v.SetDefault("rpc.api_key_hash", "")

	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "workout_tracker")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.sqlite_path", "workouts.db")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.public_key_path", "")
	v.SetDefault("jwt.issuer", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("rate.rps", 10)
	v.SetDefault("rate.burst", 20)

	v.SetDefault("cors.allowed_origins", []string{})

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", "localhost:4317")
	v.SetDefault("otel.insecure", true)
	v.SetDefault("otel.service_name", "workout-tracker")
	v.SetDefault("otel.sample_ratio", 1.0)

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")

	v.SetDefault("archive.enabled", false)
}

// Validate checks settings the server cannot start without.
func (c Config) Validate() error {
	if c.JWT.Secret == "" && c.JWT.PublicKeyPath == "" {
		return errors.New("jwt.secret or jwt.public_key_path is required")
	}
	switch c.Database.Driver {
	case DriverMongo, DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if c.OTEL.SampleRatio < 0 || c.OTEL.SampleRatio > 1 {
		return fmt.Errorf("otel.sample_ratio must be within [0,1], got %v", c.OTEL.SampleRatio)
	}
	if c.Rate.RPS < 0 {
		return errors.New("rate.rps must be >= 0")
	}
	if c.Archive.Enabled && c.S3.BucketName == "" {
		return errors.New("s3.bucket_name is required when archive is enabled")
	}
	return nil
}
