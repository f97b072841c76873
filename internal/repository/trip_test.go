package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govoyage/trip-sharing/internal/domain/trip"
)

func newTestTripRepo(t *testing.T) (*TripRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to create sqlmock")
	return NewTripRepository(db), mock, db
}

func tripRows(id uuid.UUID, totalSeats, availableSeats int, status trip.Status) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "start_point", "end_point", "departure_date",
		"transport_type", "total_seats", "available_seats", "status",
		"creator_id", "created_at", "updated_at",
	}).AddRow(id, "Weekend to the coast", "A", "B", now, "car",
		totalSeats, availableSeats, string(status), nil, now, now)
}

func expectReload(mock sqlmock.Sqlmock, tripID uuid.UUID, total, available int, members ...uuid.UUID) {
	mock.ExpectQuery("SELECT id, name, start_point").
		WithArgs(tripID).
		WillReturnRows(tripRows(tripID, total, available, trip.StatusInProgress))

	memberRows := sqlmock.NewRows([]string{"user_id"})
	for _, m := range members {
		memberRows.AddRow(m)
	}
	mock.ExpectQuery("SELECT user_id FROM trip_members").
		WithArgs(tripID).
		WillReturnRows(memberRows)
}

func TestAddMember_Success(t *testing.T) {
	repo, mock, db := newTestTripRepo(t)
	defer db.Close()

	tripID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM trips").
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(2))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(tripID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO trip_members").
		WithArgs(tripID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE trips").
		WithArgs(tripID, string(trip.StatusInProgress)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectReload(mock, tripID, 3, 1, userID)

	got, err := repo.AddMember(context.Background(), tripID, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableSeats)
	assert.Equal(t, trip.StatusInProgress, got.Status)
	assert.True(t, got.HasMember(userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMember_TripNotFound(t *testing.T) {
	repo, mock, db := newTestTripRepo(t)
	defer db.Close()

	tripID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM trips").
		WithArgs(tripID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.AddMember(context.Background(), tripID, uuid.New())
	assert.ErrorIs(t, err, trip.ErrTripNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMember_AlreadyMember(t *testing.T) {
	repo, mock, db := newTestTripRepo(t)
	defer db.Close()

	tripID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM trips").
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(2))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(tripID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.AddMember(context.Background(), tripID, userID)
	assert.ErrorIs(t, err, trip.ErrAlreadyMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMember_NoCapacity(t *testing.T) {
	repo, mock, db := newTestTripRepo(t)
	defer db.Close()

	tripID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM trips").
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(tripID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := repo.AddMember(context.Background(), tripID, userID)
	assert.ErrorIs(t, err, trip.ErrNoCapacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The conditional seat guard is the last line of defense if the counter
// changed between the locked read and the update.
func TestAddMember_SeatGuardRejectsRace(t *testing.T) {
	repo, mock, db := newTestTripRepo(t)
	defer db.Close()

	tripID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM trips").
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(tripID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO trip_members").
		WithArgs(tripID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE trips").
		WithArgs(tripID, string(trip.StatusInProgress)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.AddMember(context.Background(), tripID, userID)
	assert.ErrorIs(t, err, trip.ErrNoCapacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveMember_Success(t *testing.T) {
	repo, mock, db := newTestTripRepo(t)
	defer db.Close()

	tripID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM trips").
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(1))
	mock.ExpectExec("DELETE FROM trip_members").
		WithArgs(tripID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE trips").
		WithArgs(tripID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectReload(mock, tripID, 3, 2)

	got, err := repo.RemoveMember(context.Background(), tripID, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AvailableSeats)
	assert.False(t, got.HasMember(userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveMember_NotMember(t *testing.T) {
	repo, mock, db := newTestTripRepo(t)
	defer db.Close()

	tripID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM trips").
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(3))
	mock.ExpectExec("DELETE FROM trip_members").
		WithArgs(tripID, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.RemoveMember(context.Background(), tripID, userID)
	assert.ErrorIs(t, err, trip.ErrNotMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveMember_TripNotFound(t *testing.T) {
	repo, mock, db := newTestTripRepo(t)
	defer db.Close()

	tripID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM trips").
		WithArgs(tripID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.RemoveMember(context.Background(), tripID, uuid.New())
	assert.ErrorIs(t, err, trip.ErrTripNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newTestTripRepo(t)
	defer db.Close()

	tripID := uuid.New()

	mock.ExpectExec("DELETE FROM trips").
		WithArgs(tripID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), tripID)
	assert.ErrorIs(t, err, trip.ErrTripNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildTripFilter(t *testing.T) {
	departure := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    trip.Filter
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "no filters",
			filter:    trip.Filter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "start point only",
			filter:    trip.Filter{StartPoint: "A"},
			wantWhere: " WHERE start_point = $1",
			wantArgs:  []interface{}{"A"},
		},
		{
			name: "all equality filters",
			filter: trip.Filter{
				StartPoint:    "A",
				EndPoint:      "B",
				TransportType: "car",
				DepartureDate: &departure,
			},
			wantWhere: " WHERE start_point = $1 AND end_point = $2 AND transport_type = $3 AND departure_date::date = $4",
			wantArgs:  []interface{}{"A", "B", "car", "2024-06-01"},
		},
		{
			name:      "free-text search",
			filter:    trip.Filter{Search: "coast"},
			wantWhere: " WHERE (name ILIKE $1 OR start_point ILIKE $1 OR end_point ILIKE $1)",
			wantArgs:  []interface{}{"%coast%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildTripFilter(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
