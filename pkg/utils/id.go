package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// GenerateID generates a random ID with prefix
func GenerateID(prefix string) string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}

// GenerateConnectionID generates a unique connection ID
func GenerateConnectionID() string {
	return uuid.NewString()
}

// GenerateRequestID generates a unique request ID
func GenerateRequestID() string {
	timestamp := time.Now().UnixNano()
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", timestamp, hex.EncodeToString(b))
}

// CallRoomID derives the room identifier for a 1:1 call. The participant ids
// are sorted first so both ends compute the same room regardless of who dials.
func CallRoomID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return fmt.Sprintf("call_%s_%s", ids[0], ids[1])
}

// GroupCallRoomID derives the room identifier for a group call.
func GroupCallRoomID(groupID string) string {
	return fmt.Sprintf("group_call_%s", groupID)
}
