package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"togaftutor.app/tutor/internal/model"
)

// LocalSessionStore implements SessionStore on the local filesystem,
// one JSON file per session under <root>/sessions/.
type LocalSessionStore struct {
	dir string
}

// NewLocalSessionStore creates a session store rooted at dir.
func NewLocalSessionStore(dir string) (*LocalSessionStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("session directory is required")
	}
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &LocalSessionStore{dir: dir}, nil
}

func (s *LocalSessionStore) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".json")
}

func (s *LocalSessionStore) Get(ctx context.Context, sessionID string) (*model.ConversationSession, error) {
	if err := validateID(sessionID); err != nil {
		return nil, err
	}

	var session model.ConversationSession
	if err := readJSONFile(s.path(sessionID), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *LocalSessionStore) Save(ctx context.Context, session *model.ConversationSession) error {
	if err := validateID(session.SessionID); err != nil {
		return err
	}
	return writeJSONAtomic(s.path(session.SessionID), session)
}

func (s *LocalSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := validateID(sessionID); err != nil {
		return err
	}

	if err := os.Remove(s.path(sessionID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *LocalSessionStore) ListByUser(ctx context.Context, userID string) ([]*model.ConversationSession, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var sessions []*model.ConversationSession
	for _, session := range all {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func (s *LocalSessionStore) List(ctx context.Context) ([]*model.ConversationSession, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	sessions := make([]*model.ConversationSession, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		var session model.ConversationSession
		if err := readJSONFile(filepath.Join(s.dir, name), &session); err != nil {
			// A session deleted between ReadDir and read is not an error.
			if err == ErrNotFound || os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, &session)
	}
	return sessions, nil
}
