package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GenerationOutcome string

const (
	GenerationSucceeded GenerationOutcome = "success"
	GenerationFailed    GenerationOutcome = "failed"
)

// GenerationLog stores metadata about one call to the generation model.
// The raw model output itself lives in object storage under ArchiveKey.
type GenerationLog struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        string              `bson:"userId" json:"userId"`
	Fingerprint   string              `bson:"fingerprint" json:"fingerprint"`
	PromptVersion string              `bson:"promptVersion" json:"promptVersion"`
	Model         string              `bson:"model" json:"model"`
	Outcome       GenerationOutcome   `bson:"outcome" json:"outcome"`
	ErrorKind     string              `bson:"errorKind,omitempty" json:"errorKind,omitempty"`
	DurationMs    int64               `bson:"durationMs" json:"durationMs"`
	TokensUsed    int64               `bson:"tokensUsed,omitempty" json:"tokensUsed,omitempty"`
	ArchiveKey    string              `bson:"archiveKey,omitempty" json:"-"`
	PlanID        *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
}
