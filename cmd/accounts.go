package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gitward/gitward/internal/credkey"
	"github.com/gitward/gitward/internal/domain"
	"github.com/gitward/gitward/internal/retry"
	"github.com/gitward/gitward/internal/secrets"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage integration accounts",
}

var (
	accountAddName         string
	accountAddType         string
	accountAddToken        string
	accountAddColor        string
	accountAddPatterns     []string
	accountAddDefault      bool
	accountAddHost         string
	accountAddInstanceURL  string
	accountAddOrganization string
	accountAddWorkspace    string
)

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		accounts := c.Accounts.All()
		if len(accounts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no accounts configured; run 'gitward accounts add'")
			return nil
		}
		for _, a := range accounts {
			fmt.Fprintln(cmd.OutOrStdout(), formatAccountLine(a))
		}
		return nil
	},
}

var accountsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an account for a provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseIntegrationType(accountAddType)
		if err != nil {
			return err
		}

		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		account := domain.Account{
			ID:          uuid.NewString(),
			Name:        accountAddName,
			Type:        t,
			Config:      providerConfigFor(t, accountAddHost, accountAddInstanceURL, accountAddOrganization, accountAddWorkspace),
			Color:       accountAddColor,
			URLPatterns: accountAddPatterns,
			IsDefault:   accountAddDefault || !c.Accounts.HasType(t),
		}
		c.Accounts.Add(account)
		if err := c.saveAccounts(); err != nil {
			return err
		}
		c.Logger.Info("account added", "id", account.ID, "type", account.Type, "name", account.Name)

		// Token storage is an independent failure domain: the account
		// exists even when the keyring write fails.
		if accountAddToken != "" {
			if err := c.Secrets.Set(credkey.Derive(t, account.ID), accountAddToken); err != nil {
				return fmt.Errorf("account %s created, but storing its token failed: %w", account.ID, err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "added account %s (%s)\n", account.ID, account.Name)
		return nil
	},
}

var accountsRemoveCmd = &cobra.Command{
	Use:   "remove <account-id>",
	Short: "Remove an account and its stored token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		account := c.Accounts.ByID(args[0])
		if account == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "no account with id %s\n", args[0])
			return nil
		}

		c.Accounts.Remove(account.ID)
		if err := c.saveAccounts(); err != nil {
			return err
		}
		// Removal may have cleared profile default-account references.
		if err := c.saveProfiles(); err != nil {
			return err
		}

		if err := c.Secrets.Delete(credkey.Derive(account.Type, account.ID)); err != nil {
			c.Logger.Warn("account removed, but deleting its token failed", "id", account.ID, "error", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "removed account %s (%s)\n", account.ID, account.Name)
		return nil
	},
}

var accountsSetDefaultCmd = &cobra.Command{
	Use:   "set-default <account-id>",
	Short: "Make an account the default for its provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		account := c.Accounts.ByID(args[0])
		if account == nil {
			return fmt.Errorf("no account with id %s", args[0])
		}

		account.IsDefault = true
		c.Accounts.Update(*account)
		if err := c.saveAccounts(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is now the default %s account\n", account.Name, account.Type)
		return nil
	},
}

var accountsRefreshCmd = &cobra.Command{
	Use:   "refresh <account-id>",
	Short: "Refresh an account's cached user info from the provider API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		account := c.Accounts.ByID(args[0])
		if account == nil {
			return fmt.Errorf("no account with id %s", args[0])
		}

		token, err := c.Secrets.Get(credkey.Derive(account.Type, account.ID))
		if errors.Is(err, secrets.ErrNotFound) {
			return fmt.Errorf("no token stored for account %s; add one with 'gitward accounts add'", account.ID)
		}
		if err != nil {
			return err
		}

		var user *domain.CachedUser
		err = retry.Do(cmd.Context(), retry.DefaultMaxAttempts, func(ctx context.Context) error {
			var fetchErr error
			user, fetchErr = c.Fetcher.FetchUser(ctx, *account, token)
			return fetchErr
		})
		if err != nil {
			return fmt.Errorf("refreshing user for account %s: %w", account.ID, err)
		}

		account.CachedUser = user
		c.Accounts.Update(*account)
		if err := c.saveAccounts(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "refreshed %s: @%s\n", account.Name, user.Username)
		return nil
	},
}

func init() {
	accountsAddCmd.Flags().StringVar(&accountAddName, "name", "", "display name for the account")
	accountsAddCmd.Flags().StringVar(&accountAddType, "type", "", "provider type: github, gitlab, azure-devops, or bitbucket")
	accountsAddCmd.Flags().StringVar(&accountAddToken, "token", "", "access token to store in the keyring")
	accountsAddCmd.Flags().StringVar(&accountAddColor, "color", "", "display color")
	accountsAddCmd.Flags().StringArrayVar(&accountAddPatterns, "pattern", nil, "URL glob pattern for auto-detection (repeatable)")
	accountsAddCmd.Flags().BoolVar(&accountAddDefault, "default", false, "make this the default account for its provider")
	accountsAddCmd.Flags().StringVar(&accountAddHost, "host", "", "GitHub Enterprise hostname")
	accountsAddCmd.Flags().StringVar(&accountAddInstanceURL, "instance-url", "", "self-hosted GitLab instance URL")
	accountsAddCmd.Flags().StringVar(&accountAddOrganization, "organization", "", "Azure DevOps organization")
	accountsAddCmd.Flags().StringVar(&accountAddWorkspace, "workspace", "", "Bitbucket workspace")
	accountsAddCmd.MarkFlagRequired("name")
	accountsAddCmd.MarkFlagRequired("type")

	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsRemoveCmd)
	accountsCmd.AddCommand(accountsSetDefaultCmd)
	accountsCmd.AddCommand(accountsRefreshCmd)
	rootCmd.AddCommand(accountsCmd)
}
