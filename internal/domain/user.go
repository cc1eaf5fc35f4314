package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can generate and track workouts.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Profile is the user's stored fitness profile. One per user.
type Profile struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID               string             `bson:"userId" json:"userId"`
	Experience           Experience         `bson:"experience" json:"experience"`
	Goals                []string           `bson:"goals,omitempty" json:"goals,omitempty"`
	Equipment            []string           `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Constraints          []string           `bson:"constraints,omitempty" json:"constraints,omitempty"`
	PreferredDurationMin int                `bson:"preferredDurationMin,omitempty" json:"preferredDurationMin,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}
