package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// Entity ids are opaque prefixed strings, e.g. "task-6f1c…". The prefix makes
// ids self-describing in logs and in the audit trail.
const (
	PrefixUser    = "user"
	PrefixTask    = "task"
	PrefixComment = "c"
	PrefixHistory = "h"
)

// NewID generates a fresh unique id with the given prefix.
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}
