package database

import (
	"log"

	"gorm.io/gorm"
)

// RunMigrations runs any custom data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	if err := normalizeTransactionFees(db); err != nil {
		return err
	}
	if err := cleanupSnapshotRows(db); err != nil {
		return err
	}
	return nil
}

// normalizeTransactionFees enforces the fees-are-absolute invariant on
// legacy rows that were written before the sign was stripped at input.
// Safe to run multiple times.
func normalizeTransactionFees(db *gorm.DB) error {
	if !db.Migrator().HasTable("holdings") {
		return nil
	}

	result := db.Exec(`UPDATE holdings SET transaction_fees = -transaction_fees WHERE transaction_fees < 0`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Normalized %d negative transaction_fees values", result.RowsAffected)
	}
	return nil
}

// cleanupSnapshotRows removes snapshot rows that cannot participate in
// the series: empty dates, and stale duplicates left behind by databases
// written before date became the primary key (newest timestamp wins).
func cleanupSnapshotRows(db *gorm.DB) error {
	if !db.Migrator().HasTable("snapshot_records") {
		return nil
	}

	result := db.Exec(`DELETE FROM snapshot_records WHERE date IS NULL OR date = ''`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Removed %d snapshot rows with no date", result.RowsAffected)
	}

	result = db.Exec(`
		DELETE FROM snapshot_records
		WHERE rowid NOT IN (
			SELECT MAX(rowid)
			FROM snapshot_records
			GROUP BY date
		)
	`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d duplicate snapshot rows", result.RowsAffected)
	}

	return nil
}
