package sqlite

import (
	"fmt"
	"log"
)

// RunMigrations applies any pending database migrations
func (db *DB) RunMigrations() error {
	// Databases created before timestamps were tracked lack both columns
	if err := db.runTimestampMigration(); err != nil {
		return err
	}

	return nil
}

func (db *DB) runTimestampMigration() error {
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('kv')
		WHERE name IN ('created_at', 'updated_at')
	`).Scan(&count)

	if err != nil {
		return fmt.Errorf("checking for timestamp columns: %w", err)
	}

	if count >= 2 {
		return nil
	}

	log.Println("Running migration: Adding timestamp columns...")

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	// ALTER TABLE only accepts constant defaults, so existing rows are backfilled
	_, err = tx.Exec(`ALTER TABLE kv ADD COLUMN created_at DATETIME`)
	if err != nil && err.Error() != "duplicate column name: created_at" {
		return fmt.Errorf("adding created_at column: %w", err)
	}

	_, err = tx.Exec(`ALTER TABLE kv ADD COLUMN updated_at DATETIME`)
	if err != nil && err.Error() != "duplicate column name: updated_at" {
		return fmt.Errorf("adding updated_at column: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE kv
		SET created_at = COALESCE(created_at, CURRENT_TIMESTAMP),
		    updated_at = COALESCE(updated_at, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		return fmt.Errorf("backfilling timestamps: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}

	log.Println("Migration completed successfully")
	return nil
}
