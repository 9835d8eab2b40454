// Package config loads the service configuration from the environment, after merging an optional
// .env file. Variable names are the upper-cased path of envconfig tags, e.g. DB_POSTGRES_WRITE_HOST.
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Server struct {
	Env      string `envconfig:"ENV"`
	LogLevel string `envconfig:"LOG_LEVEL"`
	Port     string `envconfig:"PORT" default:"8080"`
	Host     string `envconfig:"HOST"`
	Timeout  struct {
		ReadSeconds  int `envconfig:"READ_SECONDS" default:"15"`
		WriteSeconds int `envconfig:"WRITE_SECONDS" default:"15"`
		IdleSeconds  int `envconfig:"IDLE_SECONDS" default:"60"`
	} `envconfig:"TIMEOUT"`
	Shutdown struct {
		CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"10"`
		GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS" default:"5"`
	} `envconfig:"SHUTDOWN"`
}

type CORS struct {
	AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
	AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
	AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
	AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
	Enable           bool     `envconfig:"ENABLE"`
	MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
}

type RateLimiter struct {
	Enable        bool `envconfig:"ENABLE"`
	MaxRequests   int  `envconfig:"MAX_REQUESTS" default:"120"`
	WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
}

type App struct {
	Name        string      `envconfig:"APP_NAME" default:"appointly"`
	Timezone    string      `envconfig:"TIMEZONE"`
	CORS        CORS        `envconfig:"CORS"`
	RateLimiter RateLimiter `envconfig:"RATE_LIMITER"`
}

type Redis struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB"`
}

type Cache struct {
	Redis struct {
		Primary Redis `envconfig:"PRIMARY"`
	} `envconfig:"REDIS"`
	TTL int `envconfig:"TTL" default:"300"`
}

// Booking bounds what clients may book.
type Booking struct {
	DefaultDurationMin int `envconfig:"DEFAULT_DURATION_MIN" default:"30"`
	MaxDaysAhead       int `envconfig:"MAX_DAYS_AHEAD" default:"90"`
	RescheduleMaxCount int `envconfig:"RESCHEDULE_MAX_COUNT" default:"5"`
}

type JWT struct {
	AccessSecret    string `envconfig:"ACCESS_SECRET"`
	AccessExpireMin int    `envconfig:"ACCESS_EXPIRE_MIN" default:"60"`
}

// PostgresNode is one side of the read/write split.
type PostgresNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT" default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Postgres struct {
	MaxRetry       int          `envconfig:"MAX_RETRY" default:"5"`
	RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME" default:"2"`
	MigrationTable string       `envconfig:"MIGRATION_TABLE"`
	AutoMigrate    bool         `envconfig:"AUTO_MIGRATE"`
	Prefix         string       `envconfig:"PREFIX"`
	Read           PostgresNode `envconfig:"READ"`
	Write          PostgresNode `envconfig:"WRITE"`
}

type Kafka struct {
	Enable  bool     `envconfig:"ENABLE"`
	Brokers []string `envconfig:"BROKERS"`
	Topics  struct {
		BookingEvents string `envconfig:"BOOKING_EVENTS" default:"booking.events"`
	} `envconfig:"TOPICS"`
	SASL struct {
		Username string `envconfig:"USERNAME"`
		Password string `envconfig:"PASSWORD"`
	} `envconfig:"SASL"`
}

type Config struct {
	Server  Server  `envconfig:"SERVER"`
	App     App     `envconfig:"APP"`
	Cache   Cache   `envconfig:"CACHE"`
	Booking Booking `envconfig:"BOOKING"`
	JWT     JWT     `envconfig:"JWT"`
	DB      struct {
		Postgres Postgres `envconfig:"POSTGRES"`
	} `envconfig:"DB"`
	Kafka    Kafka `envconfig:"KAFKA"`
	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
	} `envconfig:"EXTERNAL"`
}

const envProduction = "production"

var (
	ErrMissingJWTSecret = errors.New("JWT_ACCESS_SECRET is required in production")
	ErrBookingBounds    = errors.New("BOOKING_DEFAULT_DURATION_MIN and BOOKING_MAX_DAYS_AHEAD must be positive")
	ErrNoKafkaBrokers   = errors.New("KAFKA_BROKERS is required when KAFKA_ENABLE is set")
)

// Validate rejects settings the booking core cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.AccessSecret == "" && c.Server.Env == envProduction {
		errs = append(errs, ErrMissingJWTSecret)
	}

	if c.Booking.DefaultDurationMin <= 0 || c.Booking.MaxDaysAhead <= 0 || c.Booking.RescheduleMaxCount < 0 {
		errs = append(errs, ErrBookingBounds)
	}

	if c.Kafka.Enable && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, ErrNoKafkaBrokers)
	}

	return errors.Join(errs...)
}

// Load reads the environment into a fresh Config without touching the process-wide one.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return &cfg, nil
}

var (
	conf    *Config
	once    sync.Once
	errInit error
)

func Init() error {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		conf, errInit = Load()
		if errInit != nil {
			return
		}

		if errInit = conf.Validate(); errInit != nil {
			return
		}

		log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized successfully")
	})

	return errInit
}

func Get() *Config {
	if err := Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return conf
}
