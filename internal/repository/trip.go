package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/govoyage/trip-sharing/internal/domain/trip"
)

// TripRepository is the PostgreSQL-backed implementation of trip.Repository.
// Membership mutations run in a single transaction with a row lock on the
// trip, so the seat counter and the member set never diverge.
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `id, name, start_point, end_point, departure_date,
	transport_type, total_seats, available_seats, status, creator_id,
	created_at, updated_at`

// Create creates a new trip
func (r *TripRepository) Create(ctx context.Context, t *trip.Trip) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO trips (
			id, name, start_point, end_point, departure_date,
			transport_type, total_seats, available_seats, status, creator_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, t.ID, t.Name, t.StartPoint, t.EndPoint, t.DepartureDate,
		t.TransportType, t.TotalSeats, t.AvailableSeats, t.Status, t.CreatorID,
	).Scan(&t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

// GetByID retrieves a trip with its member set
func (r *TripRepository) GetByID(ctx context.Context, id uuid.UUID) (*trip.Trip, error) {
	t, err := r.scanTrip(r.db.QueryRowContext(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM trip_members WHERE trip_id = $1 ORDER BY user_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID uuid.UUID
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		t.MemberIDs = append(t.MemberIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trip members: %w", err)
	}

	return t, nil
}

// List returns a filtered page of trips and the total match count
func (r *TripRepository) List(ctx context.Context, filter trip.Filter) ([]*trip.Trip, int, error) {
	where, args := buildTripFilter(filter)

	var count int
	countQuery := `SELECT COUNT(*) FROM trips` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	order := ` ORDER BY id`
	switch filter.Ordering {
	case trip.OrderDepartureAsc:
		order = ` ORDER BY departure_date ASC, id`
	case trip.OrderDepartureDesc:
		order = ` ORDER BY departure_date DESC, id`
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	query := fmt.Sprintf(`SELECT `+tripColumns+` FROM trips%s%s LIMIT $%d OFFSET $%d`,
		where, order, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*trip.Trip
	for rows.Next() {
		t, err := r.scanTrip(rows)
		if err != nil {
			return nil, 0, err
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read trip rows: %w", err)
	}

	return trips, count, nil
}

// Update updates a trip's editable fields
func (r *TripRepository) Update(ctx context.Context, t *trip.Trip) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE trips
		SET name = $1,
		    start_point = $2,
		    end_point = $3,
		    departure_date = $4,
		    transport_type = $5,
		    total_seats = $6,
		    available_seats = $7,
		    status = $8,
		    updated_at = NOW()
		WHERE id = $9
	`, t.Name, t.StartPoint, t.EndPoint, t.DepartureDate,
		t.TransportType, t.TotalSeats, t.AvailableSeats, t.Status, t.ID)

	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return trip.ErrTripNotFound
	}
	return nil
}

// Delete deletes a trip
func (r *TripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return trip.ErrTripNotFound
	}
	return nil
}

// ListByMember returns all trips the user has joined, stable by id
func (r *TripRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]*trip.Trip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.start_point, t.end_point, t.departure_date,
		       t.transport_type, t.total_seats, t.available_seats, t.status,
		       t.creator_id, t.created_at, t.updated_at
		FROM trips t
		JOIN trip_members m ON m.trip_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips by member: %w", err)
	}
	defer rows.Close()

	trips := []*trip.Trip{}
	for rows.Next() {
		t, err := r.scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trip rows: %w", err)
	}

	return trips, nil
}

// AddMember atomically adds the user and takes one seat.
//
// The trip row is locked for the duration of the transaction, so two joins
// racing for the last seat are serialized and exactly one succeeds. The
// conditional available_seats > 0 guard on the UPDATE backs up the locked
// read.
func (r *TripRepository) AddMember(ctx context.Context, tripID, userID uuid.UUID) (*trip.Trip, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var available int
	err = tx.QueryRowContext(ctx,
		`SELECT available_seats FROM trips WHERE id = $1 FOR UPDATE`, tripID,
	).Scan(&available)
	if err == sql.ErrNoRows {
		return nil, trip.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock trip row: %w", err)
	}

	var isMember bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM trip_members WHERE trip_id = $1 AND user_id = $2)`,
		tripID, userID,
	).Scan(&isMember)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if isMember {
		return nil, trip.ErrAlreadyMember
	}

	if available <= 0 {
		return nil, trip.ErrNoCapacity
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trip_members (trip_id, user_id) VALUES ($1, $2)`,
		tripID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE trips
		SET available_seats = available_seats - 1,
		    status = $2,
		    updated_at = NOW()
		WHERE id = $1 AND available_seats > 0
	`, tripID, trip.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to take seat: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, trip.ErrNoCapacity
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit join: %w", err)
	}

	return r.GetByID(ctx, tripID)
}

// RemoveMember atomically removes the user and frees one seat, capped at
// the trip's capacity.
func (r *TripRepository) RemoveMember(ctx context.Context, tripID, userID uuid.UUID) (*trip.Trip, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var available int
	err = tx.QueryRowContext(ctx,
		`SELECT available_seats FROM trips WHERE id = $1 FOR UPDATE`, tripID,
	).Scan(&available)
	if err == sql.ErrNoRows {
		return nil, trip.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock trip row: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM trip_members WHERE trip_id = $1 AND user_id = $2`,
		tripID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, trip.ErrNotMember
	}

	// LEAST keeps the freed seat from pushing the counter past capacity
	_, err = tx.ExecContext(ctx, `
		UPDATE trips
		SET available_seats = LEAST(available_seats + 1, total_seats),
		    updated_at = NOW()
		WHERE id = $1
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to free seat: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit leave: %w", err)
	}

	return r.GetByID(ctx, tripID)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *TripRepository) scanTrip(row rowScanner) (*trip.Trip, error) {
	var t trip.Trip
	var creatorID uuid.NullUUID
	err := row.Scan(
		&t.ID, &t.Name, &t.StartPoint, &t.EndPoint, &t.DepartureDate,
		&t.TransportType, &t.TotalSeats, &t.AvailableSeats, &t.Status,
		&creatorID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, trip.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan trip row: %w", err)
	}
	if creatorID.Valid {
		t.CreatorID = &creatorID.UUID
	}
	return &t, nil
}

func buildTripFilter(filter trip.Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.StartPoint != "" {
		conds = append(conds, "start_point = "+arg(filter.StartPoint))
	}
	if filter.EndPoint != "" {
		conds = append(conds, "end_point = "+arg(filter.EndPoint))
	}
	if filter.TransportType != "" {
		conds = append(conds, "transport_type = "+arg(filter.TransportType))
	}
	if filter.DepartureDate != nil {
		conds = append(conds, "departure_date::date = "+arg(filter.DepartureDate.Format("2006-01-02")))
	}
	if filter.Search != "" {
		pattern := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE %s OR start_point ILIKE %s OR end_point ILIKE %s)",
			pattern, pattern, pattern))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
