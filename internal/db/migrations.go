package db

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/YahyaMS/sukari/migrations"
	"gorm.io/gorm"
)

const ledgerTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

type migrationFile struct {
	Version string
	Name    string
	SQL     string
}

// runMigrations applies every embedded migration not yet recorded in the
// schema_migrations ledger, in version order, one transaction per file.
// The SQL files are CREATE-only and forward-only; there is no rollback.
func runMigrations(database *gorm.DB) error {
	if err := database.Exec(ledgerTableSQL).Error; err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	files, err := readMigrationFiles()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(database)
	if err != nil {
		return err
	}

	for _, file := range files {
		if applied[file.Version] {
			continue
		}
		if err := applyMigrationFile(database, file); err != nil {
			return err
		}
	}
	return nil
}

// readMigrationFiles loads the embedded *.sql files. Names follow
// NNNN_description.sql; the numeric prefix is the version and fixes the
// apply order.
func readMigrationFiles() ([]migrationFile, error) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	files := make([]migrationFile, 0, len(entries))
	byVersion := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		version, ok := migrationVersion(name)
		if !ok {
			continue
		}
		if other, clash := byVersion[version]; clash {
			return nil, fmt.Errorf("migration version %s used by both %s and %s", version, other, name)
		}
		byVersion[version] = name

		contents, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		files = append(files, migrationFile{Version: version, Name: name, SQL: string(contents)})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

func migrationVersion(name string) (string, bool) {
	version, rest, found := strings.Cut(name, "_")
	if !found || version == "" || !strings.HasSuffix(rest, ".sql") {
		return "", false
	}
	for _, r := range version {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return version, true
}

type ledgerRow struct {
	Version string `gorm:"column:version"`
}

func appliedVersions(database *gorm.DB) (map[string]bool, error) {
	rows := make([]ledgerRow, 0)
	if err := database.Raw(`SELECT version FROM schema_migrations`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load schema_migrations: %w", err)
	}

	applied := make(map[string]bool, len(rows))
	for _, row := range rows {
		applied[row.Version] = true
	}
	return applied, nil
}

func applyMigrationFile(database *gorm.DB, file migrationFile) error {
	statements := splitStatements(file.SQL)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s has no statements", file.Name)
	}

	return database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range statements {
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("apply %s: %w", file.Name, err)
			}
		}
		return tx.Exec(
			`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
			file.Version, file.Name,
		).Error
	})
}

func splitStatements(sqlText string) []string {
	statements := make([]string, 0, 4)
	for _, part := range strings.Split(sqlText, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}
