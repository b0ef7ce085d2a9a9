package store

import "github.com/gitward/gitward/internal/domain"

// Entity identifies which collection a change event refers to.
type Entity string

const (
	EntityAccount Entity = "account"
	EntityProfile Entity = "profile"
)

// Change is the payload published after every store mutation. ID is the
// affected entity id (empty for full replacements), Type the provider type
// for account changes, and RepoPath the repository for assignment changes.
type Change struct {
	Entity   Entity
	ID       string
	Type     domain.IntegrationType
	RepoPath string
}
