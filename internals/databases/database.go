package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"restaurantops_backend/internals/configs"
	emodel "restaurantops_backend/internals/features/evaluations/evaluations/model"
	tmodel "restaurantops_backend/internals/features/evaluations/templates/model"
	nmodel "restaurantops_backend/internals/features/home/notifications/model"
	umodel "restaurantops_backend/internals/features/users/user/model"
)

var DB *gorm.DB

// DSN builds the Postgres URL with a statement timeout matched to the HTTP guard.
func DSN(cfg configs.Config) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=restaurantops&options=-c%%20statement_timeout=5000",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode,
	)
}

func ConnectDB(cfg configs.Config, log zerolog.Logger) (*gorm.DB, error) {
	log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("connecting to PostgreSQL")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  DSN(cfg),
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{Logger: configs.NewGormLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	DB = db
	log.Info().Msg("db connected")
	return db, nil
}

func TunePool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	return db.AutoMigrate(
		&umodel.UserModel{},
		&tmodel.GradingScaleModel{},
		&tmodel.EvaluationTemplateModel{},
		&emodel.EvaluationModel{},
		&nmodel.NotificationModel{},
	)
}

// WarmUp pings once in the background so the pool holds a live connection.
func WarmUp(db *gorm.DB, log zerolog.Logger) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(context.Background(), db); err != nil {
			log.Warn().Err(err).Msg("warm-up ping failed")
		}
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
