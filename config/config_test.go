package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointly/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Booking.DefaultDurationMin)
	assert.Equal(t, 90, cfg.Booking.MaxDaysAhead)
	assert.Equal(t, 5, cfg.Booking.RescheduleMaxCount)
	assert.Equal(t, "booking.events", cfg.Kafka.Topics.BookingEvents)
	assert.Equal(t, "5432", cfg.DB.Postgres.Write.Port)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("JWT_ACCESS_SECRET", "s3cret")
	t.Setenv("DB_POSTGRES_WRITE_HOST", "db.internal")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("APP_RATE_LIMITER_MAX_REQUESTS", "10")
	t.Setenv("EXTERNAL_OTEL_ENDPOINT", "collector:4317")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, "db.internal", cfg.DB.Postgres.Write.Host)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10, cfg.App.RateLimiter.MaxRequests)
	assert.Equal(t, "collector:4317", cfg.External.Otel.Endpoint)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg := &config.Config{}
		cfg.Booking.DefaultDurationMin = 30
		cfg.Booking.MaxDaysAhead = 90

		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{name: "development without secret", mutate: func(*config.Config) {}},
		{name: "production without secret", mutate: func(c *config.Config) { c.Server.Env = "production" }, want: config.ErrMissingJWTSecret},
		{name: "zero duration", mutate: func(c *config.Config) { c.Booking.DefaultDurationMin = 0 }, want: config.ErrBookingBounds},
		{name: "kafka without brokers", mutate: func(c *config.Config) { c.Kafka.Enable = true }, want: config.ErrNoKafkaBrokers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.want)
		})
	}
}
