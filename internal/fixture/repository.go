package fixture

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Table names shared by the SQL sources.
const (
	RoomingListsTable = "rooming_lists"
	BookingsTable     = "bookings"
	JoinTable         = "rooming_list_bookings"
)

// rowIterator is the subset of pgx.Rows and *sql.Rows the loader needs.
type rowIterator interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

type queryFunc func(ctx context.Context, query string, args ...any) (rowIterator, error)

// pgxRepository loads fixtures from Postgres. Date columns are stored as text
// so the ISO strings reach the oracle verbatim.
type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Source {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Load(ctx context.Context) (*Set, error) {
	query := func(ctx context.Context, q string, args ...any) (rowIterator, error) {
		rows, err := r.pool.Query(ctx, q, args...)
		if err != nil {
			return nil, mapPgError(err)
		}
		return rows, nil
	}
	return loadSet(ctx, query, squirrel.Dollar, func(col string) string { return col + "::text" })
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("%w: %s", ErrSchemaMissing, pgErr.Message)
	}
	return err
}

// sqliteRepository loads fixtures from a database/sql handle opened with the
// modernc.org/sqlite driver.
type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Source {
	return &sqliteRepository{db: db}
}

type sqlRows struct {
	*sql.Rows
}

func (r sqlRows) Close() { _ = r.Rows.Close() }

func (r *sqliteRepository) Load(ctx context.Context) (*Set, error) {
	query := func(ctx context.Context, q string, args ...any) (rowIterator, error) {
		rows, err := r.db.QueryContext(ctx, q, args...)
		if err != nil {
			return nil, err
		}
		return sqlRows{rows}, nil
	}
	return loadSet(ctx, query, squirrel.Question, func(col string) string { return "CAST(" + col + " AS TEXT)" })
}

func loadSet(ctx context.Context, query queryFunc, ph squirrel.PlaceholderFormat, asText func(string) string) (*Set, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(ph)
	set := &Set{}

	// Rooming lists, in load order
	q, args, err := psql.Select(
		asText("rooming_list_id"), "event_name", "rfp_name", "agreement_type", asText("cut_off_date"), "status",
	).
		From(RoomingListsTable).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build rooming lists query failed: %w", err)
	}
	err = scanAll(ctx, query, q, args, func(rows rowIterator) error {
		var rec RoomingListRecord
		var id string
		if err := rows.Scan(&id, &rec.EventName, &rec.RFPName, &rec.AgreementType, &rec.CutOffDate, &rec.Status); err != nil {
			return err
		}
		rec.RoomingListID = ID(id)
		set.RoomingLists = append(set.RoomingLists, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list rooming lists failed: %w", err)
	}

	// Bookings; id doubles as the positional identifier
	q, args, err = psql.Select("id", "guest_name", "guest_phone_number", "check_in_date", "check_out_date").
		From(BookingsTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build bookings query failed: %w", err)
	}
	err = scanAll(ctx, query, q, args, func(rows rowIterator) error {
		var rec BookingRecord
		var id int64
		if err := rows.Scan(&id, &rec.GuestName, &rec.GuestPhoneNumber, &rec.CheckInDate, &rec.CheckOutDate); err != nil {
			return err
		}
		if want := int64(len(set.Bookings) + 1); id != want {
			return fmt.Errorf("%w: got id %d at position %d", ErrNotContiguous, id, want)
		}
		set.Bookings = append(set.Bookings, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}

	// Join rows; id gives display order
	q, args, err = psql.Select(asText("rooming_list_id"), asText("booking_id")).
		From(JoinTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build join query failed: %w", err)
	}
	err = scanAll(ctx, query, q, args, func(rows rowIterator) error {
		var rlID, bID string
		if err := rows.Scan(&rlID, &bID); err != nil {
			return err
		}
		set.Join = append(set.Join, JoinRecord{RoomingListID: ID(rlID), BookingID: ID(bID)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list join rows failed: %w", err)
	}

	return set, nil
}

func scanAll(ctx context.Context, query queryFunc, q string, args []any, scan func(rowIterator) error) error {
	rows, err := query(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
