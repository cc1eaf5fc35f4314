package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ArchiveContentType is the content type of archived model output.
const ArchiveContentType = "application/json"

// Archive stores raw generation output for later diagnosis. Objects are write-once.
type Archive interface {
	PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error
}

// GenerationKey lays archived outputs out by day so lifecycle rules can expire old
// prefixes, e.g. "generations/2025/01/31/<fingerprint>-<uuid>.json".
func GenerationKey(at time.Time, fingerprint string) string {
	return fmt.Sprintf("generations/%s/%s-%s.json", at.UTC().Format("2006/01/02"), fingerprint, uuid.NewString())
}

// Noop discards everything. Used when no bucket is configured.
type Noop struct{}

func (Noop) PutObject(context.Context, string, string, []byte) error { return nil }
