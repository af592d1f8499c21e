package utils

import (
	"strings"

	"github.com/google/uuid"
)

// Id prefixes keep identifiers self-describing in logs and wire payloads.
const (
	PrefixMessage      = "msg_"
	PrefixPrivate      = "pm_"
	PrefixRoom         = "room_"
	PrefixNotification = "notif_"
)

// NewID returns a unique identifier with the given prefix, e.g. "msg_".
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}
