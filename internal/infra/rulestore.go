// Package infra implements infrastructure concerns: the encrypted rule
// store, config loading, snapshot/replay bridges, and the foreground
// session tracker.
package infra

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	// Ensure sqlcipher driver is registered.
	_ "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/momentummm/screenguard/internal/domain"
	"github.com/momentummm/screenguard/internal/rules"
)

const rulesDBName = "rules.db"

// SQLRuleStore implements domain.RuleStore on a SQLCipher-encrypted SQLite
// database. The user's blocklist is personal data, so it gets the same
// at-rest encryption treatment as any other secret. The hot-path lookup is
// covered by an index on (target_package, enabled).
type SQLRuleStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLRuleStore opens (or creates) the encrypted rule database and seeds
// the default rule set when the table is empty. The key is the SQLCipher
// passphrase via PRAGMA key.
func NewSQLRuleStore(dataDir string, key []byte) (*SQLRuleStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, rulesDBName)
	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096",
		dbPath, hex.EncodeToString(key))

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open encrypted database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to encrypted database: %w", err)
	}

	store := &SQLRuleStore{db: db, dbPath: dbPath}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	if err := store.seedIfEmpty(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed default rules: %w", err)
	}
	return store, nil
}

func (s *SQLRuleStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS block_rules (
		rule_id TEXT PRIMARY KEY,
		target_package TEXT NOT NULL,
		app_name TEXT NOT NULL,
		feature_name TEXT NOT NULL,
		block_type TEXT NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_block_rules_package_enabled
		ON block_rules (target_package, enabled);
	`
	_, err := s.db.Exec(schema)
	return err
}

// seedIfEmpty installs the default rules on first run only; user edits are
// never overwritten.
func (s *SQLRuleStore) seedIfEmpty() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM block_rules`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, rule := range rules.DefaultRules() {
		if err := s.Upsert(context.Background(), rule); err != nil {
			return err
		}
	}
	return nil
}

// GetEnabledRulesForPackage returns enabled rules for pkg, ordered by rule
// ID ascending so first-match-wins is deterministic across calls.
func (s *SQLRuleStore) GetEnabledRulesForPackage(ctx context.Context, pkg string) ([]domain.BlockRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rule_id, target_package, app_name, feature_name, block_type, enabled
		FROM block_rules
		WHERE target_package = ? AND enabled = 1
		ORDER BY rule_id ASC`, pkg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRules(rows)
}

// GetAll returns every rule, enabled or not, ordered by rule ID.
func (s *SQLRuleStore) GetAll(ctx context.Context) ([]domain.BlockRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rule_id, target_package, app_name, feature_name, block_type, enabled
		FROM block_rules
		ORDER BY rule_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRules(rows)
}

func scanRules(rows *sql.Rows) ([]domain.BlockRule, error) {
	var out []domain.BlockRule
	for rows.Next() {
		var r domain.BlockRule
		var enabled int
		if err := rows.Scan(&r.RuleID, &r.TargetPackage, &r.AppName, &r.FeatureName, &r.BlockType, &enabled); err != nil {
			return nil, err
		}
		r.Enabled = enabled == 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// Upsert creates or replaces a rule.
func (s *SQLRuleStore) Upsert(ctx context.Context, rule domain.BlockRule) error {
	enabled := 0
	if rule.Enabled {
		enabled = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO block_rules
			(rule_id, target_package, app_name, feature_name, block_type, enabled)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(rule.RuleID), rule.TargetPackage, rule.AppName, rule.FeatureName,
		string(rule.BlockType), enabled)
	return err
}

// SetEnabled toggles a rule.
func (s *SQLRuleStore) SetEnabled(ctx context.Context, id domain.RuleID, enabled bool) error {
	val := 0
	if enabled {
		val = 1
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE block_rules SET enabled = ? WHERE rule_id = ?`, val, string(id))
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("rule not found: %s", id)
	}
	return nil
}

// Delete removes a rule.
func (s *SQLRuleStore) Delete(ctx context.Context, id domain.RuleID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM block_rules WHERE rule_id = ?`, string(id))
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("rule not found: %s", id)
	}
	return nil
}

// Close releases the database.
func (s *SQLRuleStore) Close() error {
	return s.db.Close()
}

// Ensure SQLRuleStore implements domain.RuleStore.
var _ domain.RuleStore = (*SQLRuleStore)(nil)
