// Package credkey derives the namespaced keys under which account secrets
// are addressed in the secure store. Keys are pure functions of the
// (provider type, account id) pair; the package never touches storage.
package credkey

import (
	"strings"

	"github.com/gitward/gitward/internal/domain"
)

const tokenSuffix = "_token"

// Derive returns the secret-store key for an account's token. The result is
// injective over (t, accountID), stable, and always extends the legacy key
// with a separator so the two formats never collide.
func Derive(t domain.IntegrationType, accountID string) string {
	return Legacy(t) + "_" + accountID
}

// Legacy returns the pre-multi-account key that held a provider's single
// token. Only the migration path reads it; new secrets are always written
// under Derive keys.
func Legacy(t domain.IntegrationType) string {
	return string(t) + tokenSuffix
}

// IsLegacy reports whether key is a legacy single-token key for any known
// provider type.
func IsLegacy(key string) bool {
	for _, t := range domain.AllIntegrationTypes() {
		if key == Legacy(t) {
			return true
		}
	}
	return false
}

// AccountID extracts the account id from a key derived for type t. It
// returns false for legacy keys and keys belonging to other types.
func AccountID(t domain.IntegrationType, key string) (string, bool) {
	prefix := Legacy(t) + "_"
	if !strings.HasPrefix(key, prefix) || len(key) == len(prefix) {
		return "", false
	}
	return key[len(prefix):], true
}
