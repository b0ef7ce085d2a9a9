package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gitward/gitward/internal/domain"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage git identity profiles",
}

var (
	profileAddName            string
	profileAddGitName         string
	profileAddGitEmail        string
	profileAddSigningKey      string
	profileAddColor           string
	profileAddPatterns        []string
	profileAddDefault         bool
	profileAddDefaultAccounts []string
)

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		profiles := c.Profiles.All()
		if len(profiles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no profiles configured; run 'gitward profiles add'")
			return nil
		}
		for _, p := range profiles {
			fmt.Fprintln(cmd.OutOrStdout(), formatProfileLine(p))
		}
		return nil
	},
}

var profilesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an identity profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaultAccounts, err := parseDefaultAccounts(profileAddDefaultAccounts)
		if err != nil {
			return err
		}

		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		profile := domain.Profile{
			ID:              uuid.NewString(),
			Name:            profileAddName,
			GitName:         profileAddGitName,
			GitEmail:        profileAddGitEmail,
			SigningKey:      profileAddSigningKey,
			URLPatterns:     profileAddPatterns,
			IsDefault:       profileAddDefault || len(c.Profiles.All()) == 0,
			Color:           profileAddColor,
			DefaultAccounts: defaultAccounts,
		}
		c.Profiles.Add(profile)
		if err := c.saveProfiles(); err != nil {
			return err
		}
		c.Logger.Info("profile added", "id", profile.ID, "name", profile.Name)

		fmt.Fprintf(cmd.OutOrStdout(), "added profile %s (%s)\n", profile.ID, profile.Name)
		return nil
	},
}

var profilesRemoveCmd = &cobra.Command{
	Use:   "remove <profile-id>",
	Short: "Remove a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		profile := c.Profiles.ByID(args[0])
		if profile == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "no profile with id %s\n", args[0])
			return nil
		}

		c.Profiles.Remove(profile.ID)
		if err := c.saveProfiles(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "removed profile %s (%s)\n", profile.ID, profile.Name)
		return nil
	},
}

var profilesSetDefaultCmd = &cobra.Command{
	Use:   "set-default <profile-id>",
	Short: "Make a profile the default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		profile := c.Profiles.ByID(args[0])
		if profile == nil {
			return fmt.Errorf("no profile with id %s", args[0])
		}

		profile.IsDefault = true
		c.Profiles.Update(*profile)
		if err := c.saveProfiles(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is now the default profile\n", profile.Name)
		return nil
	},
}

func init() {
	profilesAddCmd.Flags().StringVar(&profileAddName, "name", "", "display name for the profile")
	profilesAddCmd.Flags().StringVar(&profileAddGitName, "git-name", "", "git user.name for this identity")
	profilesAddCmd.Flags().StringVar(&profileAddGitEmail, "git-email", "", "git user.email for this identity")
	profilesAddCmd.Flags().StringVar(&profileAddSigningKey, "signing-key", "", "git signing key id")
	profilesAddCmd.Flags().StringVar(&profileAddColor, "color", "", "display color")
	profilesAddCmd.Flags().StringArrayVar(&profileAddPatterns, "pattern", nil, "URL glob pattern for auto-detection (repeatable)")
	profilesAddCmd.Flags().BoolVar(&profileAddDefault, "default", false, "make this the default profile")
	profilesAddCmd.Flags().StringArrayVar(&profileAddDefaultAccounts, "default-account", nil, "preferred account per provider, as type=account-id (repeatable)")
	profilesAddCmd.MarkFlagRequired("name")
	profilesAddCmd.MarkFlagRequired("git-name")
	profilesAddCmd.MarkFlagRequired("git-email")

	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesAddCmd)
	profilesCmd.AddCommand(profilesRemoveCmd)
	profilesCmd.AddCommand(profilesSetDefaultCmd)
	rootCmd.AddCommand(profilesCmd)
}
