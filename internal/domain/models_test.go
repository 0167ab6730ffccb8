package domain

import (
	"encoding/json"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"generate", "title", "summarize", "keywords"} {
		m, err := ParseMode(s)
		if err != nil {
			t.Fatalf("ParseMode(%q) error: %v", s, err)
		}
		if string(m) != s {
			t.Fatalf("ParseMode(%q) = %q", s, m)
		}
	}
	for _, s := range []string{"", "translate", "GENERATE", "Title "} {
		if _, err := ParseMode(s); err == nil {
			t.Fatalf("ParseMode(%q) should fail", s)
		}
	}
}

func TestTableNames(t *testing.T) {
	if (Record{}).TableName() != "records" {
		t.Fatalf("Record.TableName() = %q; want %q", (Record{}).TableName(), "records")
	}
	if (Idempotency{}).TableName() != "idempotency" {
		t.Fatalf("Idempotency.TableName() = %q; want %q", (Idempotency{}).TableName(), "idempotency")
	}
}

func TestMigrations_TablesAndIndexes(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&Record{}, &Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, tbl := range []any{&Record{}, &Idempotency{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}

	if !m.HasIndex(&Record{}, "idx_records_mode") {
		t.Fatalf("expected index idx_records_mode on records")
	}
	if !m.HasIndex(&Record{}, "idx_records_created") {
		t.Fatalf("expected index idx_records_created on records")
	}
	if !m.HasIndex(&Idempotency{}, "ux_client_mode_key") {
		t.Fatalf("expected unique index ux_client_mode_key on idempotency")
	}
}

func TestRecord_AutoincrementIDs_FollowInsertionOrder(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Record{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	now := time.Now().UTC()
	var ids []int64
	for i := 0; i < 3; i++ {
		r := Record{
			Mode:           ModeGenerate,
			InputText:      "hello",
			ClientIdentity: "ip:127.0.0.1",
			Status:         StatusOK,
			Response:       json.RawMessage(`{"text":"hi"}`),
			CreatedAt:      now, // identical timestamps on purpose
		}
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("create #%d: %v", i, err)
		}
		ids = append(ids, r.ID)
	}
	if !(ids[0] < ids[1] && ids[1] < ids[2]) {
		t.Fatalf("ids not monotonic with insertion order: %v", ids)
	}
}

func TestRecord_JSONShape(t *testing.T) {
	r := Record{
		ID:             7,
		Mode:           ModeKeywords,
		InputText:      "alpha beta",
		ClientIdentity: "token:deadbeef",
		Status:         StatusOK,
		Response:       json.RawMessage(`{"keywords":["alpha","beta"]}`),
		CreatedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"id", "mode", "input_text", "client_identity", "status", "response", "created_at"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("missing json key %q in %s", k, b)
		}
	}
	// Response must stay embedded JSON, not a quoted string.
	if _, ok := m["response"].(map[string]any); !ok {
		t.Fatalf("response should marshal as an object, got %T", m["response"])
	}
}
