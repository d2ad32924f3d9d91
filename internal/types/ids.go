// internal/types/ids.go
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

// NewMessageID returns the deterministic index-based message identifier
// assigned when a source lacks native message IDs.
func NewMessageID(index int) string {
	return fmt.Sprintf("msg_%03d", index)
}

// NewChatID builds a chat identifier from the platform, a compacted UTC
// timestamp, and a fingerprint of the given content. With non-empty content
// the result is reproducible for identical input bytes; with no content to
// hash it falls back to a random shortuuid suffix and is not reproducible.
func NewChatID(platform Platform, ts time.Time, content string) string {
	stamp := ts.UTC().Format("20060102T150405")
	if content != "" {
		sum := sha256.Sum256([]byte(content))
		return fmt.Sprintf("%s_%s_%s", platform, stamp, hex.EncodeToString(sum[:6]))
	}
	return fmt.Sprintf("%s_%s_%s", platform, stamp, shortuuid.New())
}

// NewRunID returns a unique identifier for one conversion invocation,
// used to correlate log lines and batch outcomes.
func NewRunID() string {
	return uuid.New().String()
}
