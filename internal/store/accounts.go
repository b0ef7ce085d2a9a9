package store

import (
	"context"
	"sync"

	"github.com/gitward/gitward/internal/domain"
	"github.com/gitward/gitward/internal/pubsub"
)

// Accounts is the authoritative in-memory collection of integration
// accounts. All mutations are serialized behind a single lock and apply
// atomically; subscribers are notified after a mutation has fully applied.
//
// The only invariant Accounts enforces is "at most one default per provider
// type", maintained by demoting other accounts, plus referential cleanup on
// removal. It performs no shape validation: callers construct well-formed
// accounts before saving them.
type Accounts struct {
	mu          sync.RWMutex
	accounts    []domain.Account
	active      map[domain.IntegrationType]*domain.Account
	assignments map[string]string // repository path -> account id
	profiles    *Profiles         // optional cascade target, see BindProfiles
	loading     bool
	err         error

	broker *pubsub.Broker[Change]
}

// NewAccounts creates an empty account store.
func NewAccounts() *Accounts {
	return &Accounts{
		active:      make(map[domain.IntegrationType]*domain.Account),
		assignments: make(map[string]string),
		broker:      pubsub.NewBroker[Change](),
	}
}

// BindProfiles composes a profile store with this account store. Once bound,
// removing an account clears every profile default-account reference to it.
func (s *Accounts) BindProfiles(p *Profiles) {
	s.mu.Lock()
	s.profiles = p
	s.mu.Unlock()
}

// Subscribe returns a channel of change events scoped to ctx.
func (s *Accounts) Subscribe(ctx context.Context) <-chan pubsub.Event[Change] {
	return s.broker.Subscribe(ctx)
}

// SetAccounts replaces the whole account list and clears any sticky error.
// The active references and repository assignments are left untouched.
func (s *Accounts) SetAccounts(accounts []domain.Account) {
	s.mu.Lock()
	s.accounts = make([]domain.Account, len(accounts))
	for i, a := range accounts {
		s.accounts[i] = cloneAccount(a)
	}
	s.err = nil
	s.mu.Unlock()

	s.broker.Publish(pubsub.Replaced, Change{Entity: EntityAccount})
}

// Add appends an account. If the new account is marked default, every other
// account of the same provider type is demoted; accounts of other types are
// untouched.
func (s *Accounts) Add(account domain.Account) {
	s.mu.Lock()
	if account.IsDefault {
		s.demoteOthers(account.Type, account.ID)
	}
	s.accounts = append(s.accounts, cloneAccount(account))
	s.mu.Unlock()

	s.broker.Publish(pubsub.Created, Change{Entity: EntityAccount, ID: account.ID, Type: account.Type})
}

// Update replaces the account with a matching id, applying the same
// default-demotion rule as Add. If the account is the active one for its
// type, the active reference is refreshed so it never points at stale data.
// Updating an unknown id is a no-op.
func (s *Accounts) Update(account domain.Account) {
	s.mu.Lock()
	idx := s.indexOf(account.ID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	if account.IsDefault {
		s.demoteOthers(account.Type, account.ID)
	}
	s.accounts[idx] = cloneAccount(account)
	if act := s.active[account.Type]; act != nil && act.ID == account.ID {
		fresh := cloneAccount(account)
		s.active[account.Type] = &fresh
	}
	s.mu.Unlock()

	s.broker.Publish(pubsub.Updated, Change{Entity: EntityAccount, ID: account.ID, Type: account.Type})
}

// Remove deletes the account with the given id and cascades: the active
// reference for its type is cleared (no other account is promoted to
// default or active as a replacement), every repository assignment pointing
// at it is dropped, and any bound profile store clears matching
// default-account references. Removing an unknown id is a no-op.
func (s *Accounts) Remove(id string) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	removed := s.accounts[idx]
	s.accounts = append(s.accounts[:idx], s.accounts[idx+1:]...)

	if act := s.active[removed.Type]; act != nil && act.ID == id {
		s.active[removed.Type] = nil
	}
	for path, assigned := range s.assignments {
		if assigned == id {
			delete(s.assignments, path)
		}
	}
	profiles := s.profiles
	s.mu.Unlock()

	if profiles != nil {
		profiles.ClearAccountRefs(removed.Type, id)
	}

	s.broker.Publish(pubsub.Deleted, Change{Entity: EntityAccount, ID: id, Type: removed.Type})
}

// SetActive marks the account with the given id as the active one for its
// type. It reports whether the id was found.
func (s *Accounts) SetActive(id string) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	account := cloneAccount(s.accounts[idx])
	s.active[account.Type] = &account
	s.mu.Unlock()

	s.broker.Publish(pubsub.Updated, Change{Entity: EntityAccount, ID: id, Type: account.Type})
	return true
}

// ClearActive drops the active reference for a provider type.
func (s *Accounts) ClearActive(t domain.IntegrationType) {
	s.mu.Lock()
	s.active[t] = nil
	s.mu.Unlock()
}

// AssignRepository maps a repository path to an account id, overwriting any
// prior assignment for that path.
func (s *Accounts) AssignRepository(path, accountID string) {
	s.mu.Lock()
	s.assignments[path] = accountID
	s.mu.Unlock()

	s.broker.Publish(pubsub.Assigned, Change{Entity: EntityAccount, ID: accountID, RepoPath: path})
}

// UnassignRepository removes the assignment for a path. Unassigning a path
// with no assignment is a no-op.
func (s *Accounts) UnassignRepository(path string) {
	s.mu.Lock()
	_, ok := s.assignments[path]
	if ok {
		delete(s.assignments, path)
	}
	s.mu.Unlock()

	if ok {
		s.broker.Publish(pubsub.Unassigned, Change{Entity: EntityAccount, RepoPath: path})
	}
}

// SetLoading sets the transient loading flag.
func (s *Accounts) SetLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Loading reports the transient loading flag.
func (s *Accounts) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetError records a sticky error, cleared by the next SetAccounts.
func (s *Accounts) SetError(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Err returns the sticky error, if any.
func (s *Accounts) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// All returns a copy of the account list in store order.
func (s *Accounts) All() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, len(s.accounts))
	for i, a := range s.accounts {
		out[i] = cloneAccount(a)
	}
	return out
}

// ByType returns all accounts of the given type in store order.
func (s *Accounts) ByType(t domain.IntegrationType) []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Account
	for _, a := range s.accounts {
		if a.Type == t {
			out = append(out, cloneAccount(a))
		}
	}
	return out
}

// ByID returns the account with the given id, or nil.
func (s *Accounts) ByID(id string) *domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		a := cloneAccount(s.accounts[idx])
		return &a
	}
	return nil
}

// DefaultForType returns the single default account for a type, or nil.
func (s *Accounts) DefaultForType(t domain.IntegrationType) *domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Type == t && a.IsDefault {
			out := cloneAccount(a)
			return &out
		}
	}
	return nil
}

// ActiveForType returns the active account for a type, or nil.
func (s *Accounts) ActiveForType(t domain.IntegrationType) *domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	act := s.active[t]
	if act == nil {
		return nil
	}
	out := cloneAccount(*act)
	return &out
}

// ForRepository returns the explicitly assigned account for a path, filtered
// by type: if the assigned id belongs to an account of a different type, the
// assignment is ignored and nil is returned.
func (s *Accounts) ForRepository(path string, t domain.IntegrationType) *domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.assignments[path]
	if !ok {
		return nil
	}
	idx := s.indexOf(id)
	if idx < 0 || s.accounts[idx].Type != t {
		return nil
	}
	out := cloneAccount(s.accounts[idx])
	return &out
}

// AssignmentFor returns the raw assignment for a path, if any.
func (s *Accounts) AssignmentFor(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.assignments[path]
	return id, ok
}

// HasType reports whether any account of the given type exists.
func (s *Accounts) HasType(t domain.IntegrationType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Type == t {
			return true
		}
	}
	return false
}

// HasAny reports whether any account exists at all.
func (s *Accounts) HasAny() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts) > 0
}

// demoteOthers clears IsDefault on every account of type t except keep.
// Callers must hold the write lock.
func (s *Accounts) demoteOthers(t domain.IntegrationType, keep string) {
	for i := range s.accounts {
		if s.accounts[i].Type == t && s.accounts[i].ID != keep {
			s.accounts[i].IsDefault = false
		}
	}
}

// indexOf returns the position of an account id, or -1. Callers must hold
// at least the read lock.
func (s *Accounts) indexOf(id string) int {
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			return i
		}
	}
	return -1
}

// cloneAccount deep-copies an account so callers and subscribers never
// share mutable state with the store.
func cloneAccount(a domain.Account) domain.Account {
	out := a
	if a.URLPatterns != nil {
		out.URLPatterns = append([]string(nil), a.URLPatterns...)
	}
	if a.CachedUser != nil {
		user := *a.CachedUser
		out.CachedUser = &user
	}
	return out
}
