// file: internals/features/home/notifications/service/dispatcher.go
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"restaurantops_backend/internals/features/home/notifications/model"
)

// Notification is a fire-and-forget message for one recipient.
type Notification struct {
	Kind         string     `json:"kind"`
	RecipientID  uuid.UUID  `json:"recipient_id"`
	EvaluationID *uuid.UUID `json:"evaluation_id,omitempty"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	Tags         []string   `json:"tags,omitempty"`
	SentAt       time.Time  `json:"sent_at"`
}

type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}

// InApp stores the notification for the recipient's inbox.
type InApp struct {
	DB *gorm.DB
}

func NewInApp(db *gorm.DB) *InApp { return &InApp{DB: db} }

func (d *InApp) Dispatch(ctx context.Context, n Notification) error {
	row := model.NotificationModel{
		NotificationUserID:       n.RecipientID,
		NotificationKind:         n.Kind,
		NotificationTitle:        n.Title,
		NotificationDescription:  n.Body,
		NotificationEvaluationID: n.EvaluationID,
		NotificationTags:         n.Tags,
	}
	return d.DB.WithContext(ctx).Create(&row).Error
}

// Log writes the notification to the logger only. Used when no transport is configured.
type Log struct {
	Logger zerolog.Logger
}

func (d Log) Dispatch(_ context.Context, n Notification) error {
	d.Logger.Info().
		Str("kind", n.Kind).
		Str("recipient", n.RecipientID.String()).
		Str("title", n.Title).
		Msg("notification")
	return nil
}

// Multi fans out to every dispatcher and joins the failures.
type Multi []Dispatcher

func (m Multi) Dispatch(ctx context.Context, n Notification) error {
	var errs []error
	for _, d := range m {
		if err := d.Dispatch(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BestEffort runs dispatches in the background with a timeout. A failure is
// logged and never reaches the caller.
type BestEffort struct {
	Dispatcher Dispatcher
	Timeout    time.Duration
	Logger     zerolog.Logger
	Now        func() time.Time

	wg sync.WaitGroup
}

func NewBestEffort(d Dispatcher, timeout time.Duration, log zerolog.Logger) *BestEffort {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BestEffort{Dispatcher: d, Timeout: timeout, Logger: log, Now: time.Now}
}

func (b *BestEffort) Send(n Notification) {
	if b == nil || b.Dispatcher == nil {
		return
	}
	if n.SentAt.IsZero() {
		n.SentAt = b.Now().UTC()
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				b.Logger.Error().Interface("panic", r).Str("kind", n.Kind).Msg("notification dispatch panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), b.Timeout)
		defer cancel()
		if err := b.Dispatcher.Dispatch(ctx, n); err != nil {
			b.Logger.Warn().Err(err).
				Str("kind", n.Kind).
				Str("recipient", n.RecipientID.String()).
				Msg("notification dispatch failed")
		}
	}()
}

// Wait blocks until in-flight dispatches finish. Called on shutdown and in tests.
func (b *BestEffort) Wait() {
	if b == nil {
		return
	}
	b.wg.Wait()
}
