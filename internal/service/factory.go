package service

import (
	"togaftutor.app/tutor/internal/store"
)

type Services struct {
	stores *store.Stores
}

func NewServices(stores *store.Stores) *Services {
	return &Services{stores: stores}
}

func (s *Services) Profiles() ProfileService {
	return NewProfileService(s.stores.Profiles())
}

func (s *Services) Progress() ProgressService {
	return NewProgressService(s.stores.Profiles(), s.stores.LearningSessions())
}

func (s *Services) Sessions() SessionService {
	return NewSessionService(s.stores.Sessions(), s.stores.Profiles(), s.Progress())
}
