package model

import (
	"time"

	"github.com/google/uuid"
)

type RepairOp string

const (
	RepairAppend RepairOp = "append"
	RepairRemove RepairOp = "remove"
)

// RepairTask records an index write that failed after its post table write succeeded.
type RepairTask struct {
	Op       RepairOp   `json:"op"`
	UserID   uuid.UUID  `json:"user_id"`
	Entry    IndexEntry `json:"entry"`
	Attempts int        `json:"attempts"`
	QueuedAt time.Time  `json:"queued_at"`
}
