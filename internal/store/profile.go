package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"togaftutor.app/tutor/internal/model"
)

// LocalProfileStore implements ProfileStore on the local filesystem,
// one JSON file per user under <root>/profiles/.
type LocalProfileStore struct {
	dir string
}

// NewLocalProfileStore creates a profile store rooted at dir.
func NewLocalProfileStore(dir string) (*LocalProfileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("profile directory is required")
	}
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &LocalProfileStore{dir: dir}, nil
}

func (s *LocalProfileStore) path(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

func (s *LocalProfileStore) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	if err := validateID(userID); err != nil {
		return nil, err
	}

	var profile model.UserProfile
	if err := readJSONFile(s.path(userID), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *LocalProfileStore) Save(ctx context.Context, profile *model.UserProfile) error {
	if err := validateID(profile.UserID); err != nil {
		return err
	}
	return writeJSONAtomic(s.path(profile.UserID), profile)
}

func (s *LocalProfileStore) Delete(ctx context.Context, userID string) error {
	if err := validateID(userID); err != nil {
		return err
	}

	if err := os.Remove(s.path(userID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting profile: %w", err)
	}
	return nil
}

func (s *LocalProfileStore) ListUserIDs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
