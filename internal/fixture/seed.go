package fixture

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Schema creates the fixture tables. Ids and dates are kept as text, exactly
// as they appear in the JSON exports; booking ids are the 1-based positions.
const Schema = `
CREATE TABLE IF NOT EXISTS rooming_lists (
	position        INTEGER PRIMARY KEY,
	rooming_list_id TEXT NOT NULL UNIQUE,
	event_name      TEXT NOT NULL DEFAULT '',
	rfp_name        TEXT NOT NULL,
	agreement_type  TEXT NOT NULL DEFAULT '',
	cut_off_date    TEXT NOT NULL,
	status          TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS bookings (
	id                 INTEGER PRIMARY KEY,
	guest_name         TEXT NOT NULL,
	guest_phone_number TEXT NOT NULL,
	check_in_date      TEXT NOT NULL,
	check_out_date     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS rooming_list_bookings (
	id              INTEGER PRIMARY KEY,
	rooming_list_id TEXT NOT NULL,
	booking_id      TEXT NOT NULL
);`

// Seed creates the schema and replaces the contents of the fixture tables with
// set inside one transaction, so seeding the same database again is safe.
func Seed(ctx context.Context, db *sql.DB, set *Set) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create fixture schema: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question).RunWith(tx)

	for _, table := range []string{JoinTable, BookingsTable, RoomingListsTable} {
		if _, err := psql.Delete(table).ExecContext(ctx); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, rl := range set.RoomingLists {
		_, err := psql.Insert(RoomingListsTable).
			Columns("position", "rooming_list_id", "event_name", "rfp_name", "agreement_type", "cut_off_date", "status").
			Values(i+1, string(rl.RoomingListID), rl.EventName, rl.RFPName, rl.AgreementType, rl.CutOffDate, rl.Status).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert rooming list %s: %w", rl.RoomingListID, err)
		}
	}

	for i, b := range set.Bookings {
		_, err := psql.Insert(BookingsTable).
			Columns("id", "guest_name", "guest_phone_number", "check_in_date", "check_out_date").
			Values(i+1, b.GuestName, b.GuestPhoneNumber, b.CheckInDate, b.CheckOutDate).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert booking %d: %w", i+1, err)
		}
	}

	for i, j := range set.Join {
		_, err := psql.Insert(JoinTable).
			Columns("id", "rooming_list_id", "booking_id").
			Values(i+1, string(j.RoomingListID), string(j.BookingID)).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert join row %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}
