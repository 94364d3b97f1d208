package eventstream

import (
	"time"

	"github.com/quillardco/sensei/pkg/storage"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeTurnPersisted is emitted after a conversation turn is persisted.
	EventTypeTurnPersisted = "sensei.turn.persisted"
)

// TurnPersistedEvent is a transport-neutral event payload for a persisted turn.
type TurnPersistedEvent struct {
	SchemaVersion  int          `json:"schema_version"`
	EventType      string       `json:"event_type"`
	EventID        string       `json:"event_id"`
	EmittedAt      time.Time    `json:"emitted_at"`
	Classification string       `json:"classification"`
	Turn           storage.Turn `json:"turn"`
}
