package store

import (
	"context"
	"fmt"
	"path/filepath"

	"togaftutor.app/tutor/internal/model"
)

// LocalLearningSessionStore implements LearningSessionStore on the local
// filesystem, one JSON array per user under <root>/learning_sessions/.
// Records are append-only; analytics reads the whole history.
type LocalLearningSessionStore struct {
	dir string
}

// NewLocalLearningSessionStore creates a learning-session store rooted at dir.
func NewLocalLearningSessionStore(dir string) (*LocalLearningSessionStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("learning session directory is required")
	}
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &LocalLearningSessionStore{dir: dir}, nil
}

func (s *LocalLearningSessionStore) path(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

func (s *LocalLearningSessionStore) Append(ctx context.Context, record model.LearningSession) error {
	if err := validateID(record.UserID); err != nil {
		return err
	}

	records, err := s.ListByUser(ctx, record.UserID)
	if err != nil {
		return err
	}

	records = append(records, record)
	return writeJSONAtomic(s.path(record.UserID), records)
}

func (s *LocalLearningSessionStore) ListByUser(ctx context.Context, userID string) ([]model.LearningSession, error) {
	if err := validateID(userID); err != nil {
		return nil, err
	}

	var records []model.LearningSession
	if err := readJSONFile(s.path(userID), &records); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}
