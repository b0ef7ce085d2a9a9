// Package provider talks to hosting provider APIs on behalf of the CLI.
// It is a collaborator of the resolution engine, never called during
// resolution itself: account queries stay purely in-memory.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogithub "github.com/google/go-github/v60/github"

	"github.com/gitward/gitward/internal/domain"
)

// ErrUnsupported is returned for provider types without API support for
// user lookup. Callers treat it as "nothing to refresh", not a failure.
var ErrUnsupported = errors.New("user lookup not supported for this provider")

// UserFetcher fetches the authenticated user's display information.
type UserFetcher interface {
	FetchUser(ctx context.Context, account domain.Account, token string) (*domain.CachedUser, error)
}

// GitHubFetcher fetches user info from the GitHub API. BaseURL overrides
// the API endpoint for GitHub Enterprise and tests; empty means github.com.
type GitHubFetcher struct {
	BaseURL string
}

// FetchUser returns the authenticated user for a GitHub account's token.
// Accounts of other provider types yield ErrUnsupported.
func (f *GitHubFetcher) FetchUser(ctx context.Context, account domain.Account, token string) (*domain.CachedUser, error) {
	if account.Type != domain.GitHub {
		return nil, ErrUnsupported
	}

	client := gogithub.NewClient(nil).WithAuthToken(token)

	baseURL := f.BaseURL
	if baseURL == "" && account.Config.GitHub != nil && account.Config.GitHub.Host != "" {
		baseURL = "https://" + account.Config.GitHub.Host + "/api/v3/"
	}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise endpoint: %w", err)
		}
	}

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("fetching authenticated user: %w", err)
	}

	return &domain.CachedUser{
		Username:    user.GetLogin(),
		DisplayName: user.GetName(),
		AvatarURL:   user.GetAvatarURL(),
		Email:       user.GetEmail(),
	}, nil
}
