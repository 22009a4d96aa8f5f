package store

import (
	"context"

	"togaftutor.app/tutor/internal/model"
)

// ProfileStore persists user profiles.
type ProfileStore interface {
	// Get retrieves a profile by user ID. Returns ErrNotFound when the
	// user has no profile.
	Get(ctx context.Context, userID string) (*model.UserProfile, error)

	// Save writes a profile, replacing any existing one for the user.
	Save(ctx context.Context, profile *model.UserProfile) error

	// Delete removes a profile. Deleting a missing profile is not an error.
	Delete(ctx context.Context, userID string) error

	// ListUserIDs returns the IDs of all stored profiles.
	ListUserIDs(ctx context.Context) ([]string, error)
}

// SessionStore persists conversation sessions.
type SessionStore interface {
	// Get retrieves a session by ID. Returns ErrNotFound when missing.
	Get(ctx context.Context, sessionID string) (*model.ConversationSession, error)

	// Save writes a session, replacing any existing one with the same ID.
	Save(ctx context.Context, session *model.ConversationSession) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// ListByUser returns all sessions belonging to a user.
	ListByUser(ctx context.Context, userID string) ([]*model.ConversationSession, error)

	// List returns every stored session. Used by expiry cleanup.
	List(ctx context.Context) ([]*model.ConversationSession, error)
}

// LearningSessionStore persists completed learning-session records used
// for progress analytics.
type LearningSessionStore interface {
	// Append adds a record to the user's history.
	Append(ctx context.Context, record model.LearningSession) error

	// ListByUser returns a user's learning-session history in append order.
	ListByUser(ctx context.Context, userID string) ([]model.LearningSession, error)
}
