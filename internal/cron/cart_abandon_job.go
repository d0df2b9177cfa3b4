package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/parkmarket/marketplace-backend/pkg/logger"
)

const (
	cartAbandonJobName     = "cart-abandon"
	defaultCartAbandonment = 72 * time.Hour
)

type staleCartRepo interface {
	AbandonStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// CartAbandonJobParams configure the abandoned cart sweep.
type CartAbandonJobParams struct {
	Logger     *logger.Logger
	Repository staleCartRepo
	After      time.Duration
	Now        func() time.Time
}

type cartAbandonJob struct {
	logg  *logger.Logger
	repo  staleCartRepo
	after time.Duration
	now   func() time.Time
}

// NewCartAbandonJob marks active carts idle for longer than After as abandoned.
func NewCartAbandonJob(params CartAbandonJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	after := params.After
	if after <= 0 {
		after = defaultCartAbandonment
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &cartAbandonJob{logg: params.Logger, repo: params.Repository, after: after, now: now}, nil
}

func (j *cartAbandonJob) Name() string { return cartAbandonJobName }

func (j *cartAbandonJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.after)
	rows, err := j.repo.AbandonStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("abandon stale carts: %w", err)
	}
	ctx = j.logg.WithFields(ctx, map[string]any{
		"cutoff":    cutoff.Format(time.RFC3339),
		"abandoned": rows,
	})
	j.logg.Info(ctx, "stale carts abandoned")
	return nil
}
