// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Record
// model: the append-only request history log.
//
// All functions are context-aware and accept a *gorm.DB handle. They follow
// the "thin repository" approach: no business logic, only persistence and
// query composition.
//
// Error semantics:
//   - AppendRecord propagates the raw gorm error when the underlying medium
//     is unavailable; the record is either fully inserted or not at all
//     (single-row insert, atomic with respect to concurrent readers).
//   - ListRecentRecords returns newest-first, ordered by the autoincrement
//     primary key so ties on created_at resolve to insertion order.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-text-gateway/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// AppendRecord inserts a fully-formed history record and returns it with the
// assigned ID. CreatedAt is set to UTC at write time. The insert is atomic:
// concurrent readers either see the whole row or nothing.
func AppendRecord(ctx context.Context, db *gorm.DB, r *domain.Record) (*domain.Record, error) {
	r.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// CountRecords returns the total number of history records.
// On DB error, it returns the error.
func CountRecords(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Record{}).
		Count(&total).Error
	return total, err
}

// ListRecentRecords returns a slice of history records, newest first, bounded
// by limit and shifted by offset. Ordering is by primary key descending: the
// key is assigned in insertion order, so recency ties on created_at stay
// stable. The caller is responsible for clamping limit and offset.
func ListRecentRecords(ctx context.Context, db *gorm.DB, limit, offset int) ([]domain.Record, error) {
	var out []domain.Record
	err := db.WithContext(ctx).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetRecord fetches a single record by ID, or ErrNotFound if missing.
func GetRecord(ctx context.Context, db *gorm.DB, id int64) (*domain.Record, error) {
	var r domain.Record
	if err := db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}
