package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxIDLength mirrors the width of the identifier columns in storage
const MaxIDLength = 100

var (
	ErrEmptyID   = errors.New("id must not be empty")
	ErrIDTooLong = errors.New("id exceeds maximum length")
)

// ID represents a unique identifier
type ID string

// GenerateUUID creates a new UUID
func GenerateUUID() ID {
	return ID(uuid.New().String())
}

// NewID creates an ID from string. Producers choose their own identifier
// scheme, so any non-empty value that fits storage is accepted.
func NewID(id string) (ID, error) {
	if id == "" {
		return "", ErrEmptyID
	}
	if len(id) > MaxIDLength {
		return "", ErrIDTooLong
	}
	return ID(id), nil
}

// String returns string representation
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the ID is empty
func (id ID) IsZero() bool {
	return id == ""
}

// Timestamps represents creation and update times
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTimestamps creates timestamps anchored at the given instant
func NewTimestamps(now time.Time) Timestamps {
	return Timestamps{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch moves UpdatedAt forward, CreatedAt is kept
func (t Timestamps) Touch(now time.Time) Timestamps {
	t.UpdatedAt = now
	return t
}

// Version represents entity version for optimistic locking
type Version struct {
	Value int
}

// NewVersion creates new version
func NewVersion() Version {
	return Version{Value: 1}
}

// Update increments version
func (v Version) Update() Version {
	v.Value++
	return v
}

// Previous returns the version the stored row must hold for this one to be
// written. Zero means the row must not exist yet.
func (v Version) Previous() int {
	return v.Value - 1
}
