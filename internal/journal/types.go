package journal

import (
	"time"

	"github.com/google/uuid"
)

// Rewrite statuses.
const (
	StatusRestored = "restored"
	StatusAborted  = "aborted"
)

// Run is one pipeline run over a module.
type Run struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Module      string `json:"module"`
	IRVersion   string `json:"ir_version"`
	ToolVersion string `json:"tool_version"`
	HashBefore  string `json:"hash_before"`
	HashAfter   string `json:"hash_after"`
	Restored    int    `json:"restored"`
	Aborted     int    `json:"aborted"`
}

// StartedAt recovers the start time embedded in a UUIDv7 run id.
// Returns false for ids that are not UUIDv7.
func (r Run) StartedAt() (time.Time, bool) {
	id, err := uuid.Parse(r.ID)
	if err != nil || id.Version() != 7 {
		return time.Time{}, false
	}
	sec, nsec := id.Time().UnixTime()
	return time.Unix(sec, nsec).UTC(), true
}

// Rewrite is one switch a pass restored or aborted during a run.
type Rewrite struct {
	RunID       string   `json:"run_id"`
	Seq         int64    `json:"seq"`
	Function    string   `json:"function"`
	Pass        string   `json:"pass"`
	Status      string   `json:"status"`
	Key         string   `json:"key"`
	Index       string   `json:"index,omitempty"`
	FieldType   string   `json:"field_type,omitempty"`
	FieldName   string   `json:"field_name,omitempty"`
	Values      []string `json:"values"`
	Relocated   int      `json:"relocated"`
	GuardErased bool     `json:"guard_erased"`
	Error       string   `json:"error,omitempty"`
}
