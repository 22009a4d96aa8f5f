package store

import (
	"fmt"
	"path/filepath"
)

// Stores bundles the persistence layer behind interface accessors so
// services depend on behavior, not the filesystem layout.
type Stores struct {
	profiles         ProfileStore
	sessions         SessionStore
	learningSessions LearningSessionStore
}

// NewLocalStores creates filesystem-backed stores under rootDir, one
// subdirectory per entity kind.
func NewLocalStores(rootDir string) (*Stores, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("data root directory is required")
	}

	profiles, err := NewLocalProfileStore(filepath.Join(rootDir, "profiles"))
	if err != nil {
		return nil, err
	}

	sessions, err := NewLocalSessionStore(filepath.Join(rootDir, "sessions"))
	if err != nil {
		return nil, err
	}

	learningSessions, err := NewLocalLearningSessionStore(filepath.Join(rootDir, "learning_sessions"))
	if err != nil {
		return nil, err
	}

	return &Stores{
		profiles:         profiles,
		sessions:         sessions,
		learningSessions: learningSessions,
	}, nil
}

// NewStores assembles a Stores from explicit implementations. Used by
// tests to inject fakes.
func NewStores(profiles ProfileStore, sessions SessionStore, learningSessions LearningSessionStore) *Stores {
	return &Stores{
		profiles:         profiles,
		sessions:         sessions,
		learningSessions: learningSessions,
	}
}

func (s *Stores) Profiles() ProfileStore {
	return s.profiles
}

func (s *Stores) Sessions() SessionStore {
	return s.sessions
}

func (s *Stores) LearningSessions() LearningSessionStore {
	return s.learningSessions
}
