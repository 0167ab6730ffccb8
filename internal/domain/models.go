// Package domain defines the persistence models for the request history log.
// These types are mapped with GORM and form the core data layer of the
// gateway.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Mode identifies one of the supported text-transformation operations.
type Mode string

// Supported modes. The set is closed: anything else fails validation at the
// HTTP boundary and never reaches the provider or the history log.
const (
	ModeGenerate  Mode = "generate"
	ModeTitle     Mode = "title"
	ModeSummarize Mode = "summarize"
	ModeKeywords  Mode = "keywords"
)

// ParseMode validates a raw mode string against the closed set of modes.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeGenerate, ModeTitle, ModeSummarize, ModeKeywords:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// Record statuses. A record is written exactly once, already terminal.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Record represents one dispatched request and its terminal outcome. Records
// are append-only: they are inserted fully formed after the provider call
// resolves (success or classified failure) and never updated or deleted.
//
// Fields:
//   - ID: autoincrement primary key; monotonic with insertion order, which is
//     what newest-first history retrieval orders by (stable under CreatedAt ties).
//   - Mode: the requested operation; indexed for per-mode queries.
//   - InputText: the raw user-supplied text, immutable.
//   - ClientIdentity: the rate-limit bucket key this request was accounted to
//     (token digest or client IP). Informational only.
//   - Status: "ok" or "error".
//   - Response: terminal JSON payload — the provider result on success, an
//     error descriptor on failure.
//   - CreatedAt: UTC insertion timestamp assigned by the store.
type Record struct {
	ID             int64           `json:"id"              gorm:"primaryKey;autoIncrement"`
	Mode           Mode            `json:"mode"            gorm:"type:varchar(16);not null;index:idx_records_mode"`
	InputText      string          `json:"input_text"      gorm:"type:text;not null"`
	ClientIdentity string          `json:"client_identity" gorm:"type:varchar(128);not null"`
	Status         string          `json:"status"          gorm:"type:varchar(8);not null;check:status IN ('ok','error')"`
	Response       json.RawMessage `json:"response"        gorm:"type:text;not null"`
	CreatedAt      time.Time       `json:"created_at"      gorm:"index:idx_records_created"`
}

// TableName returns the database table name for Record.
func (Record) TableName() string { return "records" }
