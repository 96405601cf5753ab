package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alsadi22/swaedfirebase-sub001/internal/actioncode"
	"github.com/alsadi22/swaedfirebase-sub001/internal/domain"
	"github.com/alsadi22/swaedfirebase-sub001/internal/repository"
)

var (
	// Downtown Dubai. ~30m and ~3.4km away respectively.
	testVenue   = domain.Coordinates{Latitude: 25.2048, Longitude: 55.2708}
	testNearby  = domain.Coordinates{Latitude: 25.2050, Longitude: 55.2710}
	testFarAway = domain.Coordinates{Latitude: 25.2348, Longitude: 55.2808}
)

type attendanceKey struct {
	eventID     uint
	volunteerID uint
}

// stubAttendanceRepo mirrors the conditional-write semantics of the real
// repository in memory so concurrency behavior can be exercised without a
// database.
type stubAttendanceRepo struct {
	mu      sync.Mutex
	records map[attendanceKey]domain.Attendance
	nextID  uint
}

func newStubAttendanceRepo() *stubAttendanceRepo {
	return &stubAttendanceRepo{
		records: make(map[attendanceKey]domain.Attendance),
	}
}

func (r *stubAttendanceRepo) CheckIn(_ context.Context, eventID, volunteerID uint, entry domain.CheckEntry) (domain.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attendanceKey{eventID: eventID, volunteerID: volunteerID}
	if _, ok := r.records[key]; ok {
		return domain.Attendance{}, repository.ErrAlreadyCheckedIn
	}

	r.nextID++
	in := entry
	attendance := domain.Attendance{
		ID:          r.nextID,
		EventID:     eventID,
		VolunteerID: volunteerID,
		Status:      domain.StatusCheckedIn,
		CheckIn:     &in,
	}
	r.records[key] = attendance

	return attendance, nil
}

func (r *stubAttendanceRepo) CheckOut(
	_ context.Context,
	eventID, volunteerID uint,
	entry domain.CheckEntry,
	hours func(checkInAt time.Time) float64,
) (domain.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attendanceKey{eventID: eventID, volunteerID: volunteerID}
	attendance, ok := r.records[key]
	if !ok {
		return domain.Attendance{}, repository.ErrNoCheckInRecord
	}
	if attendance.Status != domain.StatusCheckedIn {
		return domain.Attendance{}, repository.ErrAlreadyCheckedOut
	}

	out := entry
	attendance.Status = domain.StatusCheckedOut
	attendance.CheckOut = &out
	attendance.HoursCompleted = hours(attendance.CheckIn.Timestamp)
	r.records[key] = attendance

	return attendance, nil
}

func (r *stubAttendanceRepo) FindByEventAndVolunteer(_ context.Context, eventID, volunteerID uint) (domain.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	attendance, ok := r.records[attendanceKey{eventID: eventID, volunteerID: volunteerID}]
	if !ok {
		return domain.Attendance{}, repository.ErrAttendanceNotFound
	}

	return attendance, nil
}

func (r *stubAttendanceRepo) FindByVolunteerID(_ context.Context, volunteerID uint) ([]domain.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var attendances []domain.Attendance
	for _, a := range r.records {
		if a.VolunteerID == volunteerID {
			attendances = append(attendances, a)
		}
	}

	return attendances, nil
}

type stubEventRepo struct {
	events map[uint]domain.Event
}

func (r *stubEventRepo) FindByID(_ context.Context, id uint) (domain.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

type stubNotifier struct {
	mu            sync.Mutex
	notifications []domain.Notification
	err           error
}

func (n *stubNotifier) Notify(_ context.Context, notification domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	n.notifications = append(n.notifications, notification)

	return nil
}

func (n *stubNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.notifications)
}

func (n *stubNotifier) last() domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.notifications[len(n.notifications)-1]
}

func newTestEvent(id uint, geofence domain.Geofence) domain.Event {
	issuedAt := time.Date(2026, time.June, 1, 8, 0, 0, 0, time.UTC)

	return domain.Event{
		ID:            id,
		Title:         "Beach Cleanup",
		OrganizerID:   99,
		Venue:         testVenue,
		Geofence:      geofence,
		CheckInToken:  actioncode.Encode(actioncode.ActionCheckIn, id, issuedAt),
		CheckOutToken: actioncode.Encode(actioncode.ActionCheckOut, id, issuedAt),
	}
}

func newTestService(event domain.Event) (*AttendanceService, *stubAttendanceRepo, *stubNotifier) {
	repo := newStubAttendanceRepo()
	notifier := &stubNotifier{}
	svc := NewAttendanceService(repo, &stubEventRepo{events: map[uint]domain.Event{event.ID: event}}, notifier)

	return svc, repo, notifier
}

func TestAttendanceService_CheckIn(t *testing.T) {
	strictFence := domain.Geofence{RadiusMeters: 100, StrictMode: true}

	t.Run("succeeds inside the geofence", func(t *testing.T) {
		event := newTestEvent(1, strictFence)
		svc, _, notifier := newTestService(event)

		result, err := svc.CheckIn(context.Background(), 7, event.CheckInToken, &testNearby, false)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCheckedIn, result.Attendance.Status)
		require.NotNil(t, result.Attendance.CheckIn)
		assert.Equal(t, domain.MethodGPS, result.Attendance.CheckIn.Method)
		assert.Equal(t, testNearby, result.Attendance.CheckIn.Location)
		assert.InDelta(t, 30, result.DistanceMeters, 5)

		assert.Eventually(t, func() bool {
			return notifier.count() == 1
		}, time.Second, 10*time.Millisecond)
		notification := notifier.last()
		assert.Equal(t, domain.NotificationCheckedIn, notification.Type)
		assert.Equal(t, uint(1), notification.EventID)
		assert.Equal(t, uint(7), notification.VolunteerID)
		assert.NotEmpty(t, notification.ID)
	})

	t.Run("rejects a malformed code", func(t *testing.T) {
		event := newTestEvent(1, strictFence)
		svc, _, _ := newTestService(event)

		_, err := svc.CheckIn(context.Background(), 7, "not-a-code", &testNearby, false)

		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("rejects a check-out code presented at check-in", func(t *testing.T) {
		event := newTestEvent(1, strictFence)
		svc, _, _ := newTestService(event)

		_, err := svc.CheckIn(context.Background(), 7, event.CheckOutToken, &testNearby, false)

		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("rejects a code whose token does not match the event", func(t *testing.T) {
		event := newTestEvent(1, strictFence)
		svc, _, _ := newTestService(event)

		// Well-formed, right event ID, wrong issuance timestamp.
		forged := actioncode.Encode(actioncode.ActionCheckIn, event.ID, time.Date(2026, time.June, 2, 8, 0, 0, 0, time.UTC))
		_, err := svc.CheckIn(context.Background(), 7, forged, &testNearby, false)

		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("returns not found for an unknown event", func(t *testing.T) {
		event := newTestEvent(1, strictFence)
		svc, _, _ := newTestService(event)

		unknown := actioncode.Encode(actioncode.ActionCheckIn, 12345, time.Now())
		_, err := svc.CheckIn(context.Background(), 7, unknown, &testNearby, false)

		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("requires a location", func(t *testing.T) {
		event := newTestEvent(1, strictFence)
		svc, _, _ := newTestService(event)

		_, err := svc.CheckIn(context.Background(), 7, event.CheckInToken, nil, false)

		assert.ErrorIs(t, err, ErrLocationUnavailable)
	})

	t.Run("rejects a location outside the geofence", func(t *testing.T) {
		event := newTestEvent(1, strictFence)
		svc, repo, notifier := newTestService(event)

		_, err := svc.CheckIn(context.Background(), 7, event.CheckInToken, &testFarAway, false)

		var geofenceErr *GeofenceViolationError
		require.ErrorAs(t, err, &geofenceErr)
		assert.Greater(t, geofenceErr.DistanceMeters, 100.0)
		assert.Equal(t, 100.0, geofenceErr.RadiusMeters)

		_, err = repo.FindByEventAndVolunteer(context.Background(), 1, 7)
		assert.ErrorIs(t, err, ErrAttendanceNotFound)
		assert.Zero(t, notifier.count())
	})

	t.Run("strict mode ignores a requested override", func(t *testing.T) {
		event := newTestEvent(1, domain.Geofence{RadiusMeters: 100, StrictMode: true, AllowManualOverride: true})
		svc, _, _ := newTestService(event)

		_, err := svc.CheckIn(context.Background(), 7, event.CheckInToken, &testFarAway, true)

		var geofenceErr *GeofenceViolationError
		assert.ErrorAs(t, err, &geofenceErr)
	})

	t.Run("manual override is honored when the event permits it", func(t *testing.T) {
		event := newTestEvent(1, domain.Geofence{RadiusMeters: 100, AllowManualOverride: true})
		svc, _, _ := newTestService(event)

		result, err := svc.CheckIn(context.Background(), 7, event.CheckInToken, &testFarAway, true)

		require.NoError(t, err)
		assert.Equal(t, domain.MethodManual, result.Attendance.CheckIn.Method)
	})

	t.Run("override must be explicitly requested", func(t *testing.T) {
		event := newTestEvent(1, domain.Geofence{RadiusMeters: 100, AllowManualOverride: true})
		svc, _, _ := newTestService(event)

		_, err := svc.CheckIn(context.Background(), 7, event.CheckInToken, &testFarAway, false)

		var geofenceErr *GeofenceViolationError
		assert.ErrorAs(t, err, &geofenceErr)
	})

	t.Run("override is denied when the event does not permit it", func(t *testing.T) {
		event := newTestEvent(1, domain.Geofence{RadiusMeters: 100})
		svc, _, _ := newTestService(event)

		_, err := svc.CheckIn(context.Background(), 7, event.CheckInToken, &testFarAway, true)

		var geofenceErr *GeofenceViolationError
		assert.ErrorAs(t, err, &geofenceErr)
	})

	t.Run("a second check-in conflicts", func(t *testing.T) {
		event := newTestEvent(1, strictFence)
		svc, _, _ := newTestService(event)

		_, err := svc.CheckIn(context.Background(), 7, event.CheckInToken, &testNearby, false)
		require.NoError(t, err)

		_, err = svc.CheckIn(context.Background(), 7, event.CheckInToken, &testNearby, false)
		assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	})

	t.Run("concurrent check-ins admit exactly one", func(t *testing.T) {
		event := newTestEvent(1, strictFence)
		svc, _, _ := newTestService(event)

		const attempts = 16
		errs := make(chan error, attempts)

		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				_, err := svc.CheckIn(context.Background(), 7, event.CheckInToken, &testNearby, false)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var succeeded, conflicted int
		for err := range errs {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrAlreadyCheckedIn):
				conflicted++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}

		assert.Equal(t, 1, succeeded)
		assert.Equal(t, attempts-1, conflicted)
	})
}

func TestAttendanceService_CheckOut(t *testing.T) {
	fence := domain.Geofence{RadiusMeters: 100, StrictMode: true}

	checkInAt := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)

	setup := func(t *testing.T, event domain.Event) (*AttendanceService, *stubAttendanceRepo, *stubNotifier) {
		t.Helper()

		svc, repo, notifier := newTestService(event)
		svc.now = func() time.Time { return checkInAt }

		_, err := svc.CheckIn(context.Background(), 7, event.CheckInToken, &testNearby, false)
		require.NoError(t, err)

		return svc, repo, notifier
	}

	t.Run("credits the session hours", func(t *testing.T) {
		event := newTestEvent(1, fence)
		svc, _, notifier := setup(t, event)

		svc.now = func() time.Time { return checkInAt.Add(2 * time.Hour) }
		result, err := svc.CheckOut(context.Background(), 7, event.CheckOutToken, &testNearby, false)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCheckedOut, result.Attendance.Status)
		assert.Equal(t, 2.0, result.HoursCompleted)
		require.NotNil(t, result.Attendance.CheckOut)
		assert.Equal(t, domain.MethodGPS, result.Attendance.CheckOut.Method)

		assert.Eventually(t, func() bool {
			return notifier.count() == 2
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t, domain.NotificationCheckedOut, notifier.last().Type)
	})

	t.Run("clamps a negative interval to zero hours", func(t *testing.T) {
		event := newTestEvent(1, fence)
		svc, _, _ := setup(t, event)

		// Device clock skew: check-out timestamp earlier than check-in.
		svc.now = func() time.Time { return checkInAt.Add(-10 * time.Minute) }
		result, err := svc.CheckOut(context.Background(), 7, event.CheckOutToken, &testNearby, false)

		require.NoError(t, err)
		assert.Equal(t, 0.0, result.HoursCompleted)
		assert.Equal(t, domain.StatusCheckedOut, result.Attendance.Status)
	})

	t.Run("requires a prior check-in", func(t *testing.T) {
		event := newTestEvent(1, fence)
		svc, _, _ := newTestService(event)

		_, err := svc.CheckOut(context.Background(), 7, event.CheckOutToken, &testNearby, false)

		assert.ErrorIs(t, err, ErrNoCheckInRecord)
	})

	t.Run("a second check-out conflicts", func(t *testing.T) {
		event := newTestEvent(1, fence)
		svc, _, _ := setup(t, event)

		svc.now = func() time.Time { return checkInAt.Add(time.Hour) }
		_, err := svc.CheckOut(context.Background(), 7, event.CheckOutToken, &testNearby, false)
		require.NoError(t, err)

		_, err = svc.CheckOut(context.Background(), 7, event.CheckOutToken, &testNearby, false)
		assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
	})

	t.Run("a geofence violation leaves the volunteer checked in", func(t *testing.T) {
		event := newTestEvent(1, fence)
		svc, repo, _ := setup(t, event)

		svc.now = func() time.Time { return checkInAt.Add(time.Hour) }
		_, err := svc.CheckOut(context.Background(), 7, event.CheckOutToken, &testFarAway, false)

		var geofenceErr *GeofenceViolationError
		require.ErrorAs(t, err, &geofenceErr)

		attendance, err := repo.FindByEventAndVolunteer(context.Background(), 1, 7)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCheckedIn, attendance.Status)
		assert.Nil(t, attendance.CheckOut)

		// Still able to check out once back inside the fence.
		result, err := svc.CheckOut(context.Background(), 7, event.CheckOutToken, &testNearby, false)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCheckedOut, result.Attendance.Status)
	})

	t.Run("rejects a check-in code presented at check-out", func(t *testing.T) {
		event := newTestEvent(1, fence)
		svc, _, _ := setup(t, event)

		_, err := svc.CheckOut(context.Background(), 7, event.CheckInToken, &testNearby, false)

		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("notification failure does not fail the transition", func(t *testing.T) {
		event := newTestEvent(1, fence)
		repo := newStubAttendanceRepo()
		notifier := &stubNotifier{err: errors.New("broker unavailable")}
		svc := NewAttendanceService(repo, &stubEventRepo{events: map[uint]domain.Event{event.ID: event}}, notifier)
		svc.now = func() time.Time { return checkInAt }

		_, err := svc.CheckIn(context.Background(), 7, event.CheckInToken, &testNearby, false)
		require.NoError(t, err)

		svc.now = func() time.Time { return checkInAt.Add(time.Hour) }
		result, err := svc.CheckOut(context.Background(), 7, event.CheckOutToken, &testNearby, false)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCheckedOut, result.Attendance.Status)
	})
}

func TestAttendanceService_GetEventStatus(t *testing.T) {
	event := newTestEvent(1, domain.Geofence{RadiusMeters: 100, StrictMode: true})
	svc, _, _ := newTestService(event)

	// No record yet reads as the initial state, not an error.
	status, err := svc.GetEventStatus(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNotCheckedIn, status.Status)
	assert.Equal(t, uint(1), status.EventID)
	assert.Equal(t, uint(7), status.VolunteerID)

	_, err = svc.CheckIn(context.Background(), 7, event.CheckInToken, &testNearby, false)
	require.NoError(t, err)

	status, err = svc.GetEventStatus(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedIn, status.Status)
}

func TestAttendanceService_GetVolunteerAttendance(t *testing.T) {
	event := newTestEvent(1, domain.Geofence{RadiusMeters: 100, StrictMode: true})
	svc, _, _ := newTestService(event)

	attendances, err := svc.GetVolunteerAttendance(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, attendances)

	_, err = svc.CheckIn(context.Background(), 7, event.CheckInToken, &testNearby, false)
	require.NoError(t, err)

	attendances, err = svc.GetVolunteerAttendance(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, attendances, 1)
	assert.Equal(t, uint(1), attendances[0].EventID)
}

func TestSessionHours(t *testing.T) {
	start := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		checkOut time.Time
		want     float64
	}{
		{
			name:     "two hours",
			checkOut: start.Add(2 * time.Hour),
			want:     2.0,
		},
		{
			name:     "ninety minutes",
			checkOut: start.Add(90 * time.Minute),
			want:     1.5,
		},
		{
			name:     "rounds half up",
			checkOut: start.Add(121 * time.Minute),
			want:     2.02,
		},
		{
			name:     "sub-minute session",
			checkOut: start.Add(18 * time.Second),
			want:     0.01,
		},
		{
			name:     "zero interval",
			checkOut: start,
			want:     0,
		},
		{
			name:     "negative interval clamps to zero",
			checkOut: start.Add(-30 * time.Minute),
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SessionHours(start, tt.checkOut))
		})
	}
}
