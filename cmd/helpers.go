package cmd

import (
	"fmt"
	"strings"

	"github.com/gitward/gitward/internal/domain"
)

// parseIntegrationType validates a --type flag value.
func parseIntegrationType(s string) (domain.IntegrationType, error) {
	t := domain.IntegrationType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown provider type %q (expected github, gitlab, azure-devops, or bitbucket)", s)
	}
	return t, nil
}

// parseDefaultAccounts parses repeated "type=account-id" flag values into a
// profile's default-account map.
func parseDefaultAccounts(pairs []string) (map[domain.IntegrationType]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[domain.IntegrationType]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || value == "" {
			return nil, fmt.Errorf("invalid default-account %q (expected type=account-id)", pair)
		}
		t, err := parseIntegrationType(key)
		if err != nil {
			return nil, err
		}
		out[t] = value
	}
	return out, nil
}

// providerConfigFor assembles the provider-specific config union from the
// account add flags. Flags for other provider types are ignored.
func providerConfigFor(t domain.IntegrationType, host, instanceURL, organization, workspace string) domain.ProviderConfig {
	var cfg domain.ProviderConfig
	switch t {
	case domain.GitHub:
		cfg.GitHub = &domain.GitHubConfig{Host: host}
	case domain.GitLab:
		cfg.GitLab = &domain.GitLabConfig{InstanceURL: instanceURL}
	case domain.AzureDevOps:
		cfg.AzureDevOps = &domain.AzureDevOpsConfig{Organization: organization}
	case domain.Bitbucket:
		cfg.Bitbucket = &domain.BitbucketConfig{Workspace: workspace}
	}
	return cfg
}

// formatAccountLine renders one account for list output.
func formatAccountLine(a domain.Account) string {
	var flags []string
	if a.IsDefault {
		flags = append(flags, "default")
	}
	if a.CachedUser != nil && a.CachedUser.Username != "" {
		flags = append(flags, "@"+a.CachedUser.Username)
	}
	suffix := ""
	if len(flags) > 0 {
		suffix = " (" + strings.Join(flags, ", ") + ")"
	}
	return fmt.Sprintf("%s\t%s\t%s%s", a.ID, a.Type, a.Name, suffix)
}

// formatProfileLine renders one profile for list output.
func formatProfileLine(p domain.Profile) string {
	suffix := ""
	if p.IsDefault {
		suffix = " (default)"
	}
	return fmt.Sprintf("%s\t%s\t%s <%s>%s", p.ID, p.Name, p.GitName, p.GitEmail, suffix)
}
