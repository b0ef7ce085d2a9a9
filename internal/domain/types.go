package domain

// IntegrationType identifies a git hosting provider.
type IntegrationType string

const (
	GitHub      IntegrationType = "github"
	GitLab      IntegrationType = "gitlab"
	AzureDevOps IntegrationType = "azure-devops"
	Bitbucket   IntegrationType = "bitbucket"
)

// AllIntegrationTypes returns every supported provider type in a stable order.
func AllIntegrationTypes() []IntegrationType {
	return []IntegrationType{GitHub, GitLab, AzureDevOps, Bitbucket}
}

// Valid reports whether t is a known provider type.
func (t IntegrationType) Valid() bool {
	switch t {
	case GitHub, GitLab, AzureDevOps, Bitbucket:
		return true
	}
	return false
}

// GitHubConfig holds GitHub-specific account settings. Host is the GitHub
// Enterprise hostname; empty means github.com.
type GitHubConfig struct {
	Host string `json:"host,omitempty"`
}

// GitLabConfig holds GitLab-specific account settings. InstanceURL is the
// self-hosted instance URL; empty means gitlab.com.
type GitLabConfig struct {
	InstanceURL string `json:"instance_url,omitempty"`
}

// AzureDevOpsConfig holds Azure DevOps-specific account settings.
type AzureDevOpsConfig struct {
	Organization string `json:"organization,omitempty"`
}

// BitbucketConfig holds Bitbucket-specific account settings.
type BitbucketConfig struct {
	Workspace string `json:"workspace,omitempty"`
}

// ProviderConfig is a tagged union of provider-specific settings. Exactly one
// field should be set, matching the owning account's IntegrationType; the
// stores never inspect it.
type ProviderConfig struct {
	GitHub      *GitHubConfig      `json:"github,omitempty"`
	GitLab      *GitLabConfig      `json:"gitlab,omitempty"`
	AzureDevOps *AzureDevOpsConfig `json:"azure_devops,omitempty"`
	Bitbucket   *BitbucketConfig   `json:"bitbucket,omitempty"`
}

// CachedUser is display information fetched from a provider API and cached
// on the account. It is informational only and never consulted during
// resolution.
type CachedUser struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Account is a configured credential identity for one provider. IDs are
// opaque and assigned by the caller, never by the stores.
type Account struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        IntegrationType `json:"integration_type"`
	Config      ProviderConfig  `json:"config"`
	Color       string          `json:"color,omitempty"`
	CachedUser  *CachedUser     `json:"cached_user,omitempty"`
	URLPatterns []string        `json:"url_patterns,omitempty"`
	IsDefault   bool            `json:"is_default"`
}

// Profile is a git identity (name/email/signing key) bundled with
// per-provider default account preferences. DefaultAccounts maps a provider
// type to the id of the account this profile prefers for that provider;
// entries are sparse.
type Profile struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	GitName         string                     `json:"git_name"`
	GitEmail        string                     `json:"git_email"`
	SigningKey      string                     `json:"signing_key,omitempty"`
	URLPatterns     []string                   `json:"url_patterns,omitempty"`
	IsDefault       bool                       `json:"is_default"`
	Color           string                     `json:"color,omitempty"`
	DefaultAccounts map[IntegrationType]string `json:"default_accounts,omitempty"`
}

// Remote is a named git remote of a repository.
type Remote struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Repository is the per-repository input to resolution: its filesystem path
// (the assignment key) and its configured remotes.
type Repository struct {
	Path    string   `json:"path"`
	Remotes []Remote `json:"remotes,omitempty"`
}
