package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitward/gitward/internal/domain"
	"github.com/gitward/gitward/internal/resolve"
)

var (
	resolveRemotes []string
	resolveType    string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <repo-path>",
	Short: "Show which account and profile apply to a repository",
	Long: `Resolve reports the account and identity profile that apply to a
repository, along with how each was chosen: an explicit pin, a URL
pattern match, or a provider default. Remote URLs are used for provider
detection and pattern matching; pass them with --remote.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repoPath := args[0]

		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		remotes := make([]domain.Remote, 0, len(resolveRemotes))
		for i, url := range resolveRemotes {
			name := "origin"
			if i > 0 {
				name = fmt.Sprintf("remote-%d", i)
			}
			remotes = append(remotes, domain.Remote{Name: name, URL: url})
		}
		repo := domain.Repository{Path: repoPath, Remotes: remotes}

		var t domain.IntegrationType
		if resolveType != "" {
			t, err = parseIntegrationType(resolveType)
			if err != nil {
				return err
			}
		} else {
			detected, ok := resolve.DetectProvider(remotes)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "provider: unknown (pass --type or --remote)")
			}
			t = detected
		}

		remoteURL := ""
		if len(remotes) > 0 {
			remoteURL = remotes[0].URL
		}

		if t != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "provider: %s\n", t)
			account := c.Engine.BestAccount(repoPath, remoteURL, t)
			if account == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "account: none; run 'gitward accounts add --type %s'\n", t)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "account: %s (%s)\n", account.Name, account.ID)
			}
		}

		profile := c.Engine.ActiveProfile(repoPath)
		source := c.Engine.ProfileAssignmentSource(repo, profile)
		if profile == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "profile: none; run 'gitward profiles add'")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "profile: %s <%s> (%s, via %s)\n",
			profile.GitName, profile.GitEmail, profile.Name, source)
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringArrayVar(&resolveRemotes, "remote", nil, "remote URL of the repository (repeatable, first is primary)")
	resolveCmd.Flags().StringVar(&resolveType, "type", "", "provider type override (skips detection)")
	rootCmd.AddCommand(resolveCmd)
}
