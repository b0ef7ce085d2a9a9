package store

import (
	"context"
	"sync"

	"github.com/gitward/gitward/internal/domain"
	"github.com/gitward/gitward/internal/pubsub"
)

// Profiles is the authoritative in-memory collection of git identity
// profiles. Like Accounts, mutations are serialized and atomic, with
// subscribers notified after each mutation has applied. At most one profile
// is default at a time, enforced by demotion.
type Profiles struct {
	mu          sync.RWMutex
	profiles    []domain.Profile
	assignments map[string]string // repository path -> profile id

	broker *pubsub.Broker[Change]
}

// NewProfiles creates an empty profile store.
func NewProfiles() *Profiles {
	return &Profiles{
		assignments: make(map[string]string),
		broker:      pubsub.NewBroker[Change](),
	}
}

// Subscribe returns a channel of change events scoped to ctx.
func (s *Profiles) Subscribe(ctx context.Context) <-chan pubsub.Event[Change] {
	return s.broker.Subscribe(ctx)
}

// SetProfiles replaces the whole profile list.
func (s *Profiles) SetProfiles(profiles []domain.Profile) {
	s.mu.Lock()
	s.profiles = make([]domain.Profile, len(profiles))
	for i, p := range profiles {
		s.profiles[i] = cloneProfile(p)
	}
	s.mu.Unlock()

	s.broker.Publish(pubsub.Replaced, Change{Entity: EntityProfile})
}

// Add appends a profile, demoting any existing default if the new profile
// is marked default.
func (s *Profiles) Add(profile domain.Profile) {
	s.mu.Lock()
	if profile.IsDefault {
		s.demoteOthers(profile.ID)
	}
	s.profiles = append(s.profiles, cloneProfile(profile))
	s.mu.Unlock()

	s.broker.Publish(pubsub.Created, Change{Entity: EntityProfile, ID: profile.ID})
}

// Update replaces the profile with a matching id, applying the same
// default-demotion rule as Add. Updating an unknown id is a no-op.
func (s *Profiles) Update(profile domain.Profile) {
	s.mu.Lock()
	idx := s.indexOf(profile.ID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	if profile.IsDefault {
		s.demoteOthers(profile.ID)
	}
	s.profiles[idx] = cloneProfile(profile)
	s.mu.Unlock()

	s.broker.Publish(pubsub.Updated, Change{Entity: EntityProfile, ID: profile.ID})
}

// Remove deletes the profile with the given id and drops every repository
// assignment pointing at it. No other profile is promoted to default.
// Removing an unknown id is a no-op.
func (s *Profiles) Remove(id string) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.profiles = append(s.profiles[:idx], s.profiles[idx+1:]...)
	for path, assigned := range s.assignments {
		if assigned == id {
			delete(s.assignments, path)
		}
	}
	s.mu.Unlock()

	s.broker.Publish(pubsub.Deleted, Change{Entity: EntityProfile, ID: id})
}

// AssignRepository maps a repository path to a profile id, overwriting any
// prior assignment for that path.
func (s *Profiles) AssignRepository(path, profileID string) {
	s.mu.Lock()
	s.assignments[path] = profileID
	s.mu.Unlock()

	s.broker.Publish(pubsub.Assigned, Change{Entity: EntityProfile, ID: profileID, RepoPath: path})
}

// UnassignRepository removes the assignment for a path. Unassigning a path
// with no assignment is a no-op.
func (s *Profiles) UnassignRepository(path string) {
	s.mu.Lock()
	_, ok := s.assignments[path]
	if ok {
		delete(s.assignments, path)
	}
	s.mu.Unlock()

	if ok {
		s.broker.Publish(pubsub.Unassigned, Change{Entity: EntityProfile, RepoPath: path})
	}
}

// ClearAccountRefs clears the DefaultAccounts entry for provider type t in
// every profile where it references accountID. Entries for other provider
// types are untouched even when they carry the same id string, and other
// profiles' unrelated entries are preserved. Called by the account store
// when an account is removed.
func (s *Profiles) ClearAccountRefs(t domain.IntegrationType, accountID string) {
	s.mu.Lock()
	var changed []string
	for i := range s.profiles {
		if s.profiles[i].DefaultAccounts[t] == accountID {
			delete(s.profiles[i].DefaultAccounts, t)
			changed = append(changed, s.profiles[i].ID)
		}
	}
	s.mu.Unlock()

	for _, id := range changed {
		s.broker.Publish(pubsub.Updated, Change{Entity: EntityProfile, ID: id, Type: t})
	}
}

// All returns a copy of the profile list in store order.
func (s *Profiles) All() []domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Profile, len(s.profiles))
	for i, p := range s.profiles {
		out[i] = cloneProfile(p)
	}
	return out
}

// ByID returns the profile with the given id, or nil.
func (s *Profiles) ByID(id string) *domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		p := cloneProfile(s.profiles[idx])
		return &p
	}
	return nil
}

// Default returns the default profile, or nil.
func (s *Profiles) Default() *domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.IsDefault {
			out := cloneProfile(p)
			return &out
		}
	}
	return nil
}

// ForRepository returns the explicitly assigned profile for a path, or nil.
func (s *Profiles) ForRepository(path string) *domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.assignments[path]
	if !ok {
		return nil
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	out := cloneProfile(s.profiles[idx])
	return &out
}

// AssignmentFor returns the raw assignment for a path, if any.
func (s *Profiles) AssignmentFor(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.assignments[path]
	return id, ok
}

// demoteOthers clears IsDefault on every profile except keep. Callers must
// hold the write lock.
func (s *Profiles) demoteOthers(keep string) {
	for i := range s.profiles {
		if s.profiles[i].ID != keep {
			s.profiles[i].IsDefault = false
		}
	}
}

// indexOf returns the position of a profile id, or -1. Callers must hold at
// least the read lock.
func (s *Profiles) indexOf(id string) int {
	for i := range s.profiles {
		if s.profiles[i].ID == id {
			return i
		}
	}
	return -1
}

// cloneProfile deep-copies a profile so callers and subscribers never share
// mutable state with the store.
func cloneProfile(p domain.Profile) domain.Profile {
	out := p
	if p.URLPatterns != nil {
		out.URLPatterns = append([]string(nil), p.URLPatterns...)
	}
	if p.DefaultAccounts != nil {
		out.DefaultAccounts = make(map[domain.IntegrationType]string, len(p.DefaultAccounts))
		for k, v := range p.DefaultAccounts {
			out.DefaultAccounts[k] = v
		}
	}
	return out
}
