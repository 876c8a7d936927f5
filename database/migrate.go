package database

import (
	"fmt"

	"hotel-backend/models"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - Money column types (NUMERIC)
// - CHECK constraints (date ordering, non-negative prices)
// - Overlap exclusion backstop for concurrent double bookings
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Room{},
			&models.RateSeason{},
			&models.Client{},
			&models.Reservation{},
			&models.Invoice{},
			&models.InvoiceLine{},
			&models.InvoiceVersion{},
			&models.NightAudit{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE rooms          ALTER COLUMN price_per_night TYPE numeric(8,2)`,
			`ALTER TABLE rate_seasons   ALTER COLUMN price           TYPE numeric(8,2)`,
			`ALTER TABLE reservations   ALTER COLUMN breakfast_price TYPE numeric(8,2)`,
			`ALTER TABLE invoices       ALTER COLUMN total           TYPE numeric(12,2)`,
			`ALTER TABLE invoice_lines  ALTER COLUMN quantity        TYPE numeric(8,2)`,
			`ALTER TABLE invoice_lines  ALTER COLUMN unit_price      TYPE numeric(10,2)`,
			`ALTER TABLE invoice_lines  ALTER COLUMN total_excl_vat  TYPE numeric(12,2)`,
			`ALTER TABLE invoice_lines  ALTER COLUMN vat_amount      TYPE numeric(12,2)`,
			`ALTER TABLE invoice_lines  ALTER COLUMN total           TYPE numeric(12,2)`,
			`ALTER TABLE night_audits   ALTER COLUMN revenue         TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Reservations: check_in strictly before check_out
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'reservations'::regclass
					  AND conname  = 'chk_reservations_check_in_before_check_out'
				) THEN
					ALTER TABLE reservations
					ADD CONSTRAINT chk_reservations_check_in_before_check_out
					CHECK (check_in < check_out);
				END IF;
			END $$;`,
			// Rate seasons: at least one target
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'rate_seasons'::regclass
					  AND conname  = 'chk_rate_seasons_target'
				) THEN
					ALTER TABLE rate_seasons
					ADD CONSTRAINT chk_rate_seasons_target
					CHECK (room_id IS NOT NULL OR room_type <> '');
				END IF;
			END $$;`,
			// Non-negative nightly price
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'rooms'::regclass
					  AND conname  = 'chk_rooms_price_nonneg'
				) THEN
					ALTER TABLE rooms
					ADD CONSTRAINT chk_rooms_price_nonneg
					CHECK (price_per_night >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		// --- Overlap exclusion backstop ---
		// The BeforeSave overlap check runs inside the writing transaction, but
		// two transactions can still interleave check and insert. The exclusion
		// constraint makes the second commit fail; the handler surfaces the
		// conflict as a retryable error.
		excl := `
DO $$
BEGIN
	CREATE EXTENSION IF NOT EXISTS btree_gist;
	IF NOT EXISTS (
		SELECT 1
		FROM pg_constraint
		WHERE conrelid = 'reservations'::regclass
		  AND conname  = 'excl_reservations_room_overlap'
	) THEN
		ALTER TABLE reservations
		ADD CONSTRAINT excl_reservations_room_overlap
		EXCLUDE USING gist (
			room_id WITH =,
			daterange(check_in::date, check_out::date, '[)') WITH &&
		) WHERE (status IN ('booked', 'checked_in'));
	END IF;
END $$;`
		if err := tx.Exec(excl).Error; err != nil {
			return fmt.Errorf("overlap exclusion migration failed: %w", err)
		}

		return nil
	})
}
