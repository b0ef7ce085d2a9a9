package secrets

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gitward/gitward/internal/credkey"
	"github.com/gitward/gitward/internal/domain"
	"github.com/gitward/gitward/internal/store"
)

// AccountFactory mints a new account for a provider type during migration.
// The factory assigns the id; the stores never do.
type AccountFactory func(t domain.IntegrationType) domain.Account

// MigrateLegacyTokens converts pre-multi-account storage to the namespaced
// scheme. For each provider type holding a legacy single token, it creates
// an account, re-keys the secret under the derived key, and deletes the
// legacy entry.
//
// Provider types are independent failure domains: an error on one type is
// collected and the rest proceed, and a failed secret write never mutates
// account state. Returns the number of migrated types and any collected
// errors joined.
func MigrateLegacyTokens(sec Store, accounts *store.Accounts, types []domain.IntegrationType, newAccount AccountFactory, logger *slog.Logger) (int, error) {
	migrated := 0
	var errs []error

	for _, t := range types {
		legacyKey := credkey.Legacy(t)
		token, err := sec.Get(legacyKey)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("reading legacy token for %s: %w", t, err))
			continue
		}

		account := newAccount(t)
		if err := sec.Set(credkey.Derive(t, account.ID), token); err != nil {
			errs = append(errs, fmt.Errorf("re-keying token for %s: %w", t, err))
			continue
		}
		accounts.Add(account)

		if err := sec.Delete(legacyKey); err != nil {
			// The token is safe under the new key; the stale legacy entry
			// is reported but does not fail the migration.
			errs = append(errs, fmt.Errorf("deleting legacy token for %s: %w", t, err))
		}
		logger.Info("migrated legacy token", "type", t, "account_id", account.ID)
		migrated++
	}

	return migrated, errors.Join(errs...)
}
