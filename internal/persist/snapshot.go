package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/gitward/gitward/internal/domain"
	"github.com/gitward/gitward/internal/store"
)

// LoadAccounts reads the account snapshot: accounts in saved order plus the
// repository assignment map.
func (d *DB) LoadAccounts() (store.AccountsSnapshot, error) {
	snap := store.AccountsSnapshot{
		Version:               store.SnapshotVersion,
		RepositoryAssignments: make(map[string]string),
	}

	rows, err := d.db.Query(
		`SELECT id, name, integration_type, config, color, cached_user, url_patterns, is_default
		 FROM accounts ORDER BY position`,
	)
	if err != nil {
		return snap, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a          domain.Account
			config     string
			color      sql.NullString
			cachedUser sql.NullString
			patterns   string
			isDefault  int
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &config, &color, &cachedUser, &patterns, &isDefault); err != nil {
			return snap, fmt.Errorf("scanning account: %w", err)
		}
		if err := json.Unmarshal([]byte(config), &a.Config); err != nil {
			return snap, fmt.Errorf("decoding config for account %s: %w", a.ID, err)
		}
		if err := json.Unmarshal([]byte(patterns), &a.URLPatterns); err != nil {
			return snap, fmt.Errorf("decoding url patterns for account %s: %w", a.ID, err)
		}
		if cachedUser.Valid && cachedUser.String != "" {
			a.CachedUser = &domain.CachedUser{}
			if err := json.Unmarshal([]byte(cachedUser.String), a.CachedUser); err != nil {
				return snap, fmt.Errorf("decoding cached user for account %s: %w", a.ID, err)
			}
		}
		a.Color = color.String
		a.IsDefault = isDefault != 0
		snap.Accounts = append(snap.Accounts, a)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("iterating accounts: %w", err)
	}

	if err := d.loadAssignments("account_assignments", "account_id", snap.RepositoryAssignments); err != nil {
		return snap, err
	}
	return snap, nil
}

// SaveAccounts replaces the stored account snapshot in one transaction.
func (d *DB) SaveAccounts(snap store.AccountsSnapshot) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clearing accounts: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM account_assignments`); err != nil {
		return fmt.Errorf("clearing account assignments: %w", err)
	}

	for i, a := range snap.Accounts {
		config, err := json.Marshal(a.Config)
		if err != nil {
			return fmt.Errorf("encoding config for account %s: %w", a.ID, err)
		}
		patterns, err := json.Marshal(patternsOrEmpty(a.URLPatterns))
		if err != nil {
			return fmt.Errorf("encoding url patterns for account %s: %w", a.ID, err)
		}
		var cachedUser any
		if a.CachedUser != nil {
			encoded, err := json.Marshal(a.CachedUser)
			if err != nil {
				return fmt.Errorf("encoding cached user for account %s: %w", a.ID, err)
			}
			cachedUser = string(encoded)
		}
		_, err = tx.Exec(
			`INSERT INTO accounts (id, name, integration_type, config, color, cached_user, url_patterns, is_default, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, string(a.Type), string(config), a.Color, cachedUser, string(patterns), boolToInt(a.IsDefault), i,
		)
		if err != nil {
			return fmt.Errorf("inserting account %s: %w", a.ID, err)
		}
	}

	for path, id := range snap.RepositoryAssignments {
		if _, err := tx.Exec(
			`INSERT INTO account_assignments (repo_path, account_id) VALUES (?, ?)`,
			path, id,
		); err != nil {
			return fmt.Errorf("inserting assignment for %s: %w", path, err)
		}
	}

	return tx.Commit()
}

// LoadProfiles reads the profile snapshot.
func (d *DB) LoadProfiles() (store.ProfilesSnapshot, error) {
	snap := store.ProfilesSnapshot{
		Version:               store.SnapshotVersion,
		RepositoryAssignments: make(map[string]string),
	}

	rows, err := d.db.Query(
		`SELECT id, name, git_name, git_email, signing_key, url_patterns, is_default, color, default_accounts
		 FROM profiles ORDER BY position`,
	)
	if err != nil {
		return snap, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p               domain.Profile
			signingKey      sql.NullString
			patterns        string
			isDefault       int
			color           sql.NullString
			defaultAccounts string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.GitName, &p.GitEmail, &signingKey, &patterns, &isDefault, &color, &defaultAccounts); err != nil {
			return snap, fmt.Errorf("scanning profile: %w", err)
		}
		if err := json.Unmarshal([]byte(patterns), &p.URLPatterns); err != nil {
			return snap, fmt.Errorf("decoding url patterns for profile %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(defaultAccounts), &p.DefaultAccounts); err != nil {
			return snap, fmt.Errorf("decoding default accounts for profile %s: %w", p.ID, err)
		}
		p.SigningKey = signingKey.String
		p.Color = color.String
		p.IsDefault = isDefault != 0
		snap.Profiles = append(snap.Profiles, p)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("iterating profiles: %w", err)
	}

	if err := d.loadAssignments("profile_assignments", "profile_id", snap.RepositoryAssignments); err != nil {
		return snap, err
	}
	return snap, nil
}

// SaveProfiles replaces the stored profile snapshot in one transaction.
func (d *DB) SaveProfiles(snap store.ProfilesSnapshot) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM profiles`); err != nil {
		return fmt.Errorf("clearing profiles: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM profile_assignments`); err != nil {
		return fmt.Errorf("clearing profile assignments: %w", err)
	}

	for i, p := range snap.Profiles {
		patterns, err := json.Marshal(patternsOrEmpty(p.URLPatterns))
		if err != nil {
			return fmt.Errorf("encoding url patterns for profile %s: %w", p.ID, err)
		}
		defaults := p.DefaultAccounts
		if defaults == nil {
			defaults = map[domain.IntegrationType]string{}
		}
		defaultAccounts, err := json.Marshal(defaults)
		if err != nil {
			return fmt.Errorf("encoding default accounts for profile %s: %w", p.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO profiles (id, name, git_name, git_email, signing_key, url_patterns, is_default, color, default_accounts, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.GitName, p.GitEmail, p.SigningKey, string(patterns), boolToInt(p.IsDefault), p.Color, string(defaultAccounts), i,
		)
		if err != nil {
			return fmt.Errorf("inserting profile %s: %w", p.ID, err)
		}
	}

	for path, id := range snap.RepositoryAssignments {
		if _, err := tx.Exec(
			`INSERT INTO profile_assignments (repo_path, profile_id) VALUES (?, ?)`,
			path, id,
		); err != nil {
			return fmt.Errorf("inserting assignment for %s: %w", path, err)
		}
	}

	return tx.Commit()
}

func (d *DB) loadAssignments(table, idColumn string, into map[string]string) error {
	rows, err := d.db.Query(fmt.Sprintf(`SELECT repo_path, %s FROM %s`, idColumn, table))
	if err != nil {
		return fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var path, id string
		if err := rows.Scan(&path, &id); err != nil {
			return fmt.Errorf("scanning %s: %w", table, err)
		}
		into[path] = id
	}
	return rows.Err()
}

func patternsOrEmpty(patterns []string) []string {
	if patterns == nil {
		return []string{}
	}
	return patterns
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
