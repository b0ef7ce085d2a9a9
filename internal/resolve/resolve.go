// Package resolve answers which account and which identity profile apply to
// a repository, given its path and remotes. Resolution only ever touches
// in-memory store state: it never blocks, never errors, and never reaches
// for credentials.
package resolve

import (
	"strings"

	"github.com/gitward/gitward/internal/domain"
	"github.com/gitward/gitward/internal/store"
	"github.com/gitward/gitward/internal/urlmatch"
)

// Source labels why the active profile is considered applicable to a
// repository. It is informational only and does not itself select a profile.
type Source string

const (
	SourceManual     Source = "manual"
	SourceURLPattern Source = "url-pattern"
	SourceDefault    Source = "default"
	SourceNone       Source = "none"
)

// Engine composes the stores with URL matching and provider detection.
type Engine struct {
	accounts *store.Accounts
	profiles *store.Profiles
}

// New creates a resolution engine over the given stores.
func New(accounts *store.Accounts, profiles *store.Profiles) *Engine {
	return &Engine{accounts: accounts, profiles: profiles}
}

// BestAccount returns the account that applies to a repository for one
// provider type. Priority order, first tier producing a result wins:
//
//  1. explicit repository assignment (type-checked)
//  2. first account of the type, in store order, with a matching URL pattern
//  3. the default account for the type
//
// A nil result means no account is configured; callers surface a configure
// affordance, never an error.
func (e *Engine) BestAccount(path, remoteURL string, t domain.IntegrationType) *domain.Account {
	if assigned := e.accounts.ForRepository(path, t); assigned != nil {
		return assigned
	}
	for _, account := range e.accounts.ByType(t) {
		if urlmatch.MatchesAny(remoteURL, account.URLPatterns) {
			out := account
			return &out
		}
	}
	return e.accounts.DefaultForType(t)
}

// ProfileAssignmentSource explains why the active profile applies to a
// repository: manual if the repository is explicitly assigned to it,
// url-pattern if any of the profile's patterns matches any remote, default
// if the profile is the default, none otherwise.
func (e *Engine) ProfileAssignmentSource(repo domain.Repository, active *domain.Profile) Source {
	if active == nil {
		return SourceNone
	}
	if id, ok := e.profiles.AssignmentFor(repo.Path); ok && id == active.ID {
		return SourceManual
	}
	for _, remote := range repo.Remotes {
		if urlmatch.MatchesAny(remote.URL, active.URLPatterns) {
			return SourceURLPattern
		}
	}
	if active.IsDefault {
		return SourceDefault
	}
	return SourceNone
}

// ActiveProfile returns the profile in effect for a repository: the
// explicitly assigned one if present, else the default profile, else nil.
func (e *Engine) ActiveProfile(path string) *domain.Profile {
	if assigned := e.profiles.ForRepository(path); assigned != nil {
		return assigned
	}
	return e.profiles.Default()
}

// RelevantAccount resolves the account a profile implies for a provider
// type: the profile's default-account preference if it still exists, else
// any account of the type in store order, else nil (caller should offer to
// configure one).
func (e *Engine) RelevantAccount(profile *domain.Profile, t domain.IntegrationType) *domain.Account {
	return RelevantAccount(profile, e.accounts.All(), t)
}

// RelevantAccount is the pure form of Engine.RelevantAccount, resolving
// against an explicit account list.
func RelevantAccount(profile *domain.Profile, accounts []domain.Account, t domain.IntegrationType) *domain.Account {
	if profile != nil {
		if id, ok := profile.DefaultAccounts[t]; ok {
			for _, a := range accounts {
				if a.ID == id && a.Type == t {
					out := a
					return &out
				}
			}
		}
	}
	for _, a := range accounts {
		if a.Type == t {
			out := a
			return &out
		}
	}
	return nil
}

// DetectProvider scans remotes in order for a recognized host and returns
// the provider type of the first remote that matches. The bool is false
// when no remote names a known host.
func DetectProvider(remotes []domain.Remote) (domain.IntegrationType, bool) {
	for _, remote := range remotes {
		url := strings.ToLower(remote.URL)
		switch {
		case strings.Contains(url, "github.com"):
			return domain.GitHub, true
		case strings.Contains(url, "gitlab"):
			return domain.GitLab, true
		case strings.Contains(url, "dev.azure.com"), strings.Contains(url, "visualstudio.com"):
			return domain.AzureDevOps, true
		case strings.Contains(url, "bitbucket"):
			return domain.Bitbucket, true
		}
	}
	return "", false
}
