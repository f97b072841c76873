package membership

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govoyage/trip-sharing/internal/domain/trip"
	"github.com/govoyage/trip-sharing/pkg/logger"
)

// memTripStore is an in-memory TripStore with the same atomicity
// guarantees as the Postgres repository: capacity check and seat change
// happen under one lock.
type memTripStore struct {
	mu      sync.Mutex
	trips   map[uuid.UUID]*trip.Trip
	members map[uuid.UUID]map[uuid.UUID]bool
}

func newMemTripStore() *memTripStore {
	return &memTripStore{
		trips:   make(map[uuid.UUID]*trip.Trip),
		members: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (s *memTripStore) add(t *trip.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.trips[t.ID] = &cp
	s.members[t.ID] = make(map[uuid.UUID]bool)
}

func (s *memTripStore) snapshot(id uuid.UUID) *trip.Trip {
	t := s.trips[id]
	cp := *t
	cp.MemberIDs = nil
	for userID := range s.members[id] {
		cp.MemberIDs = append(cp.MemberIDs, userID)
	}
	return &cp
}

func (s *memTripStore) GetByID(_ context.Context, id uuid.UUID) (*trip.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[id]; !ok {
		return nil, trip.ErrTripNotFound
	}
	return s.snapshot(id), nil
}

func (s *memTripStore) ListByMember(_ context.Context, userID uuid.UUID) ([]*trip.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*trip.Trip
	for id := range s.trips {
		if s.members[id][userID] {
			out = append(out, s.snapshot(id))
		}
	}
	return out, nil
}

func (s *memTripStore) AddMember(_ context.Context, tripID, userID uuid.UUID) (*trip.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trips[tripID]
	if !ok {
		return nil, trip.ErrTripNotFound
	}
	if s.members[tripID][userID] {
		return nil, trip.ErrAlreadyMember
	}
	if t.AvailableSeats <= 0 {
		return nil, trip.ErrNoCapacity
	}

	s.members[tripID][userID] = true
	t.AvailableSeats--
	t.Status = trip.StatusInProgress
	return s.snapshot(tripID), nil
}

func (s *memTripStore) RemoveMember(_ context.Context, tripID, userID uuid.UUID) (*trip.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trips[tripID]
	if !ok {
		return nil, trip.ErrTripNotFound
	}
	if !s.members[tripID][userID] {
		return nil, trip.ErrNotMember
	}

	delete(s.members[tripID], userID)
	if t.AvailableSeats < t.TotalSeats {
		t.AvailableSeats++
	}
	return s.snapshot(tripID), nil
}

func newTestService(t *testing.T) (*Service, *memTripStore) {
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	store := newMemTripStore()
	return NewService(store, nil, nil, log), store
}

func seedTrip(store *memTripStore, seats int) uuid.UUID {
	t := &trip.Trip{
		ID:             uuid.New(),
		Name:           "A to B",
		StartPoint:     "A",
		EndPoint:       "B",
		DepartureDate:  time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		TransportType:  "car",
		TotalSeats:     seats,
		AvailableSeats: seats,
		Status:         trip.StatusNew,
	}
	store.add(t)
	return t.ID
}

// TestJoin_Scenario walks the reference scenario: two seats, a repeat
// join, a fill-up and an overflow.
func TestJoin_Scenario(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	tripID := seedTrip(store, 2)
	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()

	got, err := svc.Join(ctx, tripID, u1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableSeats)
	assert.ElementsMatch(t, []uuid.UUID{u1}, got.MemberIDs)
	assert.Equal(t, trip.StatusInProgress, got.Status)

	_, err = svc.Join(ctx, tripID, u1)
	assert.ErrorIs(t, err, trip.ErrAlreadyMember)

	after, err := svc.trips.GetByID(ctx, tripID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.AvailableSeats, "seat must be taken only once per user")

	got, err = svc.Join(ctx, tripID, u2)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AvailableSeats)

	_, err = svc.Join(ctx, tripID, u3)
	assert.ErrorIs(t, err, trip.ErrNoCapacity)
}

func TestJoin_TripNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Join(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, trip.ErrTripNotFound)
}

// TestJoin_FullTripLeavesStateUnchanged checks the failed join has no
// side effects.
func TestJoin_FullTripLeavesStateUnchanged(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	tripID := seedTrip(store, 1)
	member := uuid.New()
	_, err := svc.Join(ctx, tripID, member)
	require.NoError(t, err)

	_, err = svc.Join(ctx, tripID, uuid.New())
	assert.ErrorIs(t, err, trip.ErrNoCapacity)

	after, err := svc.trips.GetByID(ctx, tripID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.AvailableSeats)
	assert.ElementsMatch(t, []uuid.UUID{member}, after.MemberIDs)
}

func TestLeave_FreesSeat(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	tripID := seedTrip(store, 2)
	member := uuid.New()

	_, err := svc.Join(ctx, tripID, member)
	require.NoError(t, err)

	got, err := svc.Leave(ctx, tripID, member)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AvailableSeats)
	assert.Empty(t, got.MemberIDs)
}

func TestLeave_NotMember(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	tripID := seedTrip(store, 2)

	_, err := svc.Leave(ctx, tripID, uuid.New())
	assert.ErrorIs(t, err, trip.ErrNotMember)

	after, err := svc.trips.GetByID(ctx, tripID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.AvailableSeats, "failed leave must not free a seat")
}

func TestLeave_TripNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Leave(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, trip.ErrTripNotFound)
}

// TestLeave_SeatNeverExceedsCapacity covers the cap on the freed seat
// even when the stored counter is already at capacity.
func TestLeave_SeatNeverExceedsCapacity(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	tripID := seedTrip(store, 2)

	// Force an inconsistent state: a member on the books while the
	// counter sits at capacity.
	member := uuid.New()
	store.mu.Lock()
	store.members[tripID][member] = true
	store.mu.Unlock()

	got, err := svc.Leave(ctx, tripID, member)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AvailableSeats, "available seats must be capped at capacity")
}

// TestRoundTrip_FillToCapacity joins N distinct users into an N-seat trip.
func TestRoundTrip_FillToCapacity(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	const seats = 5
	tripID := seedTrip(store, seats)

	users := make([]uuid.UUID, seats)
	for i := range users {
		users[i] = uuid.New()
		_, err := svc.Join(ctx, tripID, users[i])
		require.NoError(t, err, "join %d should succeed", i)
	}

	after, err := svc.trips.GetByID(ctx, tripID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.AvailableSeats)
	assert.ElementsMatch(t, users, after.MemberIDs)

	_, err = svc.Join(ctx, tripID, uuid.New())
	assert.ErrorIs(t, err, trip.ErrNoCapacity)
}

// TestConcurrentJoins_LastSeat races many joins for a single seat;
// exactly one may win.
func TestConcurrentJoins_LastSeat(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	tripID := seedTrip(store, 1)

	const contenders = 8
	errs := make([]error, contenders)

	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Join(ctx, tripID, uuid.New())
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, trip.ErrNoCapacity)
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent join may take the last seat")

	after, err := svc.trips.GetByID(ctx, tripID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.AvailableSeats)
	assert.Len(t, after.MemberIDs, 1)
}

func TestListMine(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	userID := uuid.New()

	trips, err := svc.ListMine(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, trips, "a user with no trips gets an empty slice")
	assert.NotNil(t, trips)

	first := seedTrip(store, 2)
	second := seedTrip(store, 2)
	_, err = svc.Join(ctx, first, userID)
	require.NoError(t, err)
	_, err = svc.Join(ctx, second, userID)
	require.NoError(t, err)

	trips, err = svc.ListMine(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, trips, 2)
}

// TestSeatInvariant_RandomisedJoinLeave hammers a trip with joins and
// leaves and checks the counter never escapes [0, capacity].
func TestSeatInvariant_RandomisedJoinLeave(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	const seats = 3
	tripID := seedTrip(store, seats)

	users := make([]uuid.UUID, 6)
	for i := range users {
		users[i] = uuid.New()
	}

	for round := 0; round < 50; round++ {
		u := users[round%len(users)]
		if round%3 == 0 {
			svc.Leave(ctx, tripID, u)
		} else {
			svc.Join(ctx, tripID, u)
		}

		after, err := svc.trips.GetByID(ctx, tripID)
		require.NoError(t, err)
		require.GreaterOrEqual(t, after.AvailableSeats, 0,
			fmt.Sprintf("round %d: seats went negative", round))
		require.LessOrEqual(t, after.AvailableSeats, seats,
			fmt.Sprintf("round %d: seats exceeded capacity", round))
		require.Equal(t, seats-len(after.MemberIDs), after.AvailableSeats,
			fmt.Sprintf("round %d: counter and member set diverged", round))
	}
}
