// Package services – HistoryService
//
// Read side of the request log: clamped, newest-first retrieval plus the
// count/max-timestamp pair used to build a weak ETag for GET /history.

package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-text-gateway/internal/domain"
	"github.com/tbourn/go-text-gateway/internal/repo"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// HistoryService reads the append-only request log.
type HistoryService struct {
	DB *gorm.DB
}

// List returns up to limit records, newest first. Limits outside [1, 100]
// are clamped; zero or negative falls back to the default of 10. A negative
// offset is treated as zero.
func (s *HistoryService) List(ctx context.Context, limit, offset int) ([]domain.Record, error) {
	tr := otel.Tracer("services/HistoryService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(
			attribute.Int("limit", limit),
			attribute.Int("offset", offset),
		),
	)
	defer span.End()

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, err := repo.ListRecentRecords(ctx, s.DB, limit, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Record{}
	}
	return items, nil
}

// Stats returns the record count and the newest created_at, for ETag use.
func (s *HistoryService) Stats(ctx context.Context) (int64, *time.Time, error) {
	return repo.HistoryStats(ctx, s.DB)
}
