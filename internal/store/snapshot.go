package store

import (
	"github.com/gitward/gitward/internal/domain"
	"github.com/gitward/gitward/internal/pubsub"
)

// AccountsSnapshot is the persistence shape for the account store: loaded
// once at startup and saved after mutations by a host-owned persistence
// layer. The store performs no I/O itself.
type AccountsSnapshot struct {
	Version               int               `json:"version"`
	Accounts              []domain.Account  `json:"accounts"`
	RepositoryAssignments map[string]string `json:"repository_assignments"`
}

// ProfilesSnapshot is the persistence shape for the profile store.
type ProfilesSnapshot struct {
	Version               int               `json:"version"`
	Profiles              []domain.Profile  `json:"profiles"`
	RepositoryAssignments map[string]string `json:"repository_assignments"`
}

// Snapshot captures the persistable state of the account store.
func (s *Accounts) Snapshot() AccountsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := AccountsSnapshot{
		Version:               SnapshotVersion,
		Accounts:              make([]domain.Account, len(s.accounts)),
		RepositoryAssignments: make(map[string]string, len(s.assignments)),
	}
	for i, a := range s.accounts {
		snap.Accounts[i] = cloneAccount(a)
	}
	for path, id := range s.assignments {
		snap.RepositoryAssignments[path] = id
	}
	return snap
}

// Restore replaces the store's accounts and assignments from a snapshot and
// clears any sticky error. Active references are reset.
func (s *Accounts) Restore(snap AccountsSnapshot) {
	s.mu.Lock()
	s.accounts = make([]domain.Account, len(snap.Accounts))
	for i, a := range snap.Accounts {
		s.accounts[i] = cloneAccount(a)
	}
	s.assignments = make(map[string]string, len(snap.RepositoryAssignments))
	for path, id := range snap.RepositoryAssignments {
		s.assignments[path] = id
	}
	s.active = make(map[domain.IntegrationType]*domain.Account)
	s.err = nil
	s.mu.Unlock()

	s.broker.Publish(pubsub.Replaced, Change{Entity: EntityAccount})
}

// Snapshot captures the persistable state of the profile store.
func (s *Profiles) Snapshot() ProfilesSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := ProfilesSnapshot{
		Version:               SnapshotVersion,
		Profiles:              make([]domain.Profile, len(s.profiles)),
		RepositoryAssignments: make(map[string]string, len(s.assignments)),
	}
	for i, p := range s.profiles {
		snap.Profiles[i] = cloneProfile(p)
	}
	for path, id := range s.assignments {
		snap.RepositoryAssignments[path] = id
	}
	return snap
}

// Restore replaces the store's profiles and assignments from a snapshot.
func (s *Profiles) Restore(snap ProfilesSnapshot) {
	s.mu.Lock()
	s.profiles = make([]domain.Profile, len(snap.Profiles))
	for i, p := range snap.Profiles {
		s.profiles[i] = cloneProfile(p)
	}
	s.assignments = make(map[string]string, len(snap.RepositoryAssignments))
	for path, id := range snap.RepositoryAssignments {
		s.assignments[path] = id
	}
	s.mu.Unlock()

	s.broker.Publish(pubsub.Replaced, Change{Entity: EntityProfile})
}

// SnapshotVersion is the current snapshot schema version.
const SnapshotVersion = 1
