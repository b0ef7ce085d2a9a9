package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gitward/gitward/internal/domain"
	"github.com/gitward/gitward/internal/secrets"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate legacy single-account tokens to per-account keys",
	Long: `Migrate scans the keyring for legacy per-provider tokens (stored
before multiple accounts were supported), creates an account for each
one found, and re-keys the token under the account's own key. Providers
are migrated independently; a failure on one does not stop the rest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		factory := func(t domain.IntegrationType) domain.Account {
			return domain.Account{
				ID:        uuid.NewString(),
				Name:      fmt.Sprintf("Migrated %s account", t),
				Type:      t,
				IsDefault: !c.Accounts.HasType(t),
			}
		}

		migrated, migrateErr := secrets.MigrateLegacyTokens(
			c.Secrets, c.Accounts, domain.AllIntegrationTypes(), factory, c.Logger)

		if migrated > 0 {
			if err := c.saveAccounts(); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "migrated %d legacy token(s)\n", migrated)
		return migrateErr
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
