package configs

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"restaurantops_backend/internals/helpers/logger"
)

// Config is the process configuration read once at boot.
type Config struct {
	JWTSecret   string
	Port        string
	CORSOrigins string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBSSLMode  string

	AMQPURL     string
	NotifyQueue string

	MutationTimeout  time.Duration
	NotifyTimeout    time.Duration
	ReminderInterval time.Duration
	ReminderAfter    time.Duration
	ReminderBatch    int

	LogLevel  string
	LogPretty bool

	// EvaluationStore is "postgres" (default) or "memory".
	EvaluationStore string

	// RunSeeds loads the JSON seeds at boot. Always on for the memory store.
	RunSeeds bool
	RateMax  int

	// MutationRateMax is per user and per MutationRateWindow, draft saves included.
	MutationRateMax    int
	MutationRateWindow time.Duration
}

var JWTSecret string

// =======================
// ENV LOADER
// =======================
func LoadEnv() Config {
	log := logger.L()
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Info().Msg("no .env file, using process environment")
		} else {
			log.Info().Msg(".env loaded")
		}
	}

	cfg := FromEnv()
	JWTSecret = cfg.JWTSecret
	if cfg.JWTSecret == "" {
		log.Error().Msg("JWT_SECRET is not set")
	}
	return cfg
}

// FromEnv reads Config from the environment without touching .env files.
func FromEnv() Config {
	return Config{
		JWTSecret:   GetEnv("JWT_SECRET"),
		Port:        GetEnv("PORT", "3000"),
		CORSOrigins: GetEnv("CORS_ORIGINS"),

		DBUser:     GetEnv("DB_USER"),
		DBPassword: GetEnv("DB_PASSWORD"),
		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBName:     GetEnv("DB_NAME"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "require"),

		AMQPURL:     GetEnv("AMQP_URL"),
		NotifyQueue: GetEnv("NOTIFY_QUEUE", "evaluation_notifications"),

		MutationTimeout:  GetDuration("MUTATION_TIMEOUT", 30*time.Second),
		NotifyTimeout:    GetDuration("NOTIFY_TIMEOUT", 5*time.Second),
		ReminderInterval: GetDuration("REMINDER_INTERVAL", time.Hour),
		ReminderAfter:    GetDuration("REMINDER_AFTER", 72*time.Hour),
		ReminderBatch:    GetInt("REMINDER_BATCH", 100),

		LogLevel:  GetEnv("LOG_LEVEL", "info"),
		LogPretty: GetBool("LOG_PRETTY", false),

		EvaluationStore: strings.ToLower(GetEnv("EVALUATION_STORE", "postgres")),
		RunSeeds:        GetBool("RUN_SEEDS", false),
		RateMax:         GetInt("RATE_LIMIT_MAX", 100),

		MutationRateMax:    GetInt("MUTATION_RATE_LIMIT_MAX", 120),
		MutationRateWindow: GetDuration("MUTATION_RATE_WINDOW", time.Minute),
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logger.L().Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
		return def
	}
	return d
}

func GetInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.L().Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
		return def
	}
	return n
}

func GetBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
	Logger        zerolog.Logger
}

func NewGormLogger(log zerolog.Logger) gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
		Logger:        log,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		l.Logger.Info().Msgf(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		l.Logger.Warn().Msgf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		l.Logger.Error().Msgf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		l.Logger.Error().Err(err).Str("file", file).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case elapsed > l.SlowThreshold && l.SlowThreshold > 0 && l.LogLevel >= gormLogger.Warn:
		l.Logger.Warn().Str("file", file).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	case l.LogLevel >= gormLogger.Info:
		l.Logger.Debug().Str("file", file).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
