package store

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// SessionFact is one persisted key/value pair of a player session's fact
// log.
type SessionFact struct {
	bun.BaseModel `bun:"table:session_facts,alias:sf"`

	SessionID string          `bun:"session_id,pk,notnull"`
	Key       string          `bun:"key,pk,notnull"`
	Value     json.RawMessage `bun:"value,type:jsonb,notnull"`
	UpdatedAt time.Time       `bun:"updated_at,notnull,default:current_timestamp"`
}
