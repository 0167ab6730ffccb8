// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// Idempotency represents a recorded result of a previously dispatched request,
// keyed by (client_identity, mode, key). It enables safe retries for the POST
// mode endpoints by replaying the originally persisted record without calling
// the provider or appending a duplicate history entry.
type Idempotency struct {
	ID             string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	ClientIdentity string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_client_mode_key,priority:1"`
	Mode           Mode      `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_client_mode_key,priority:2"`
	Key            string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_client_mode_key,priority:3"`
	RecordID       int64     `gorm:"type:INTEGER NOT NULL"`
	Status         int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt      time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt      time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
