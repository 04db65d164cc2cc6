package output

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// WriteSQLite stores t as the database table name in the SQLite database
// at dsn, replacing any table of that name. Column affinity is INTEGER,
// REAL or TEXT after the cells of the column; missing cells are NULL.
func WriteSQLite(ctx context.Context, dsn, name string, t *models.Table) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", name)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}

	defs := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		defs[j] = quoteIdent(c) + " " + columnAffinity(t, j)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(name), placeholders))
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range t.Rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func columnAffinity(t *models.Table, j int) string {
	affinity := ""
	for _, row := range t.Rows {
		switch row[j].(type) {
		case nil:
		case int64:
			if affinity == "" {
				affinity = "INTEGER"
			}
		case float64:
			if affinity != "TEXT" {
				affinity = "REAL"
			}
		default:
			return "TEXT"
		}
	}
	if affinity == "" {
		return "TEXT"
	}
	return affinity
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
