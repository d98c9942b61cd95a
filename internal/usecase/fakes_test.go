package usecase

import (
	"context"
	"time"

	"fleet-booking/internal/data/entity"
	"fleet-booking/internal/data/repository"
	"fleet-booking/pkg/timeutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fixture is shared in-memory state behind the fake repositories.
type fixture struct {
	users       []*entity.User
	sessions    []*entity.Session
	vehicles    []*entity.Vehicle
	bookings    []*entity.Booking
	maintenance []*entity.MaintenanceSchedule
	schedules   []*entity.DriverSchedule

	// rejectCreate forces the guarded insert to report a lost race.
	rejectCreate bool

	// beforeUpdate runs at the top of the guarded booking update, so a
	// test can slip a conflicting row in between the service pre-checks
	// and the write.
	beforeUpdate func()
}

func newFixture() *fixture {
	return &fixture{}
}

func (f *fixture) repo() *repository.Repository {
	return &repository.Repository{
		User:           &fakeUserRepo{f: f},
		Session:        &fakeSessionRepo{f: f},
		Vehicle:        &fakeVehicleRepo{f: f},
		Booking:        &fakeBookingRepo{f: f},
		Maintenance:    &fakeMaintenanceRepo{f: f},
		DriverSchedule: &fakeDriverScheduleRepo{f: f},
	}
}

func (f *fixture) addVehicle(registration, make, model string, capacity int) *entity.Vehicle {
	v := &entity.Vehicle{
		Base:         entity.Base{ID: uuid.New()},
		Registration: registration,
		Make:         make,
		Model:        model,
		Capacity:     capacity,
		Status:       entity.VehicleStatusActive,
		FuelType:     "diesel",
	}
	f.vehicles = append(f.vehicles, v)
	return v
}

func (f *fixture) addDriver(name string) *entity.User {
	u := &entity.User{
		Base:     entity.Base{ID: uuid.New()},
		Name:     name,
		Email:    name + "@fleet.test",
		Role:     entity.RoleRequester,
		IsDriver: true,
		IsActive: true,
	}
	f.users = append(f.users, u)
	return u
}

func (f *fixture) addBooking(vehicleID uuid.UUID, driverID *uuid.UUID, status entity.BookingStatus, start, end time.Time) *entity.Booking {
	b := &entity.Booking{
		Base:        entity.Base{ID: uuid.New()},
		VehicleID:   vehicleID,
		RequesterID: uuid.New(),
		DriverID:    driverID,
		StartTime:   start,
		EndTime:     end,
		Purpose:     "site visit",
		Destination: "regional office",
		Passengers:  2,
		Status:      status,
		Priority:    entity.PriorityMedium,
	}
	f.bookings = append(f.bookings, b)
	return b
}

func (f *fixture) addMaintenance(vehicleID uuid.UUID, status entity.MaintenanceStatus, start, end time.Time) *entity.MaintenanceSchedule {
	m := &entity.MaintenanceSchedule{
		Base:           entity.Base{ID: uuid.New()},
		VehicleID:      vehicleID,
		Type:           "service",
		Status:         status,
		ScheduledStart: start,
		ScheduledEnd:   end,
	}
	f.maintenance = append(f.maintenance, m)
	return m
}

func (f *fixture) addSchedule(driverID uuid.UUID, typ entity.DriverScheduleType, start, end time.Time) *entity.DriverSchedule {
	s := &entity.DriverSchedule{
		Base:      entity.Base{ID: uuid.New()},
		DriverID:  driverID,
		Type:      typ,
		Status:    entity.DriverScheduleStatusActive,
		StartTime: start,
		EndTime:   end,
	}
	f.schedules = append(f.schedules, s)
	return s
}

// ---- booking ----

type fakeBookingRepo struct {
	f *fixture
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) (bool, error) {
	if r.f.rejectCreate {
		return false, nil
	}
	r.f.bookings = append(r.f.bookings, booking)
	return true, nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	for _, b := range r.f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByRequester(_ context.Context, requesterID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.f.bookings {
		if b.RequesterID == requesterID {
			out = append(out, b)
		}
	}
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByRequester(_ context.Context, requesterID uuid.UUID) (int64, error) {
	var n int64
	for _, b := range r.f.bookings {
		if b.RequesterID == requesterID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) FindOverlappingByVehicle(_ context.Context, vehicleID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.f.bookings {
		if b.VehicleID != vehicleID || !b.Status.Blocks() {
			continue
		}
		if exclude != nil && b.ID == *exclude {
			continue
		}
		if timeutil.Overlaps(b.StartTime, b.EndTime, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindOverlappingByDriver(_ context.Context, driverID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.f.bookings {
		if b.DriverID == nil || *b.DriverID != driverID || !b.Status.Blocks() {
			continue
		}
		if exclude != nil && b.ID == *exclude {
			continue
		}
		if timeutil.Overlaps(b.StartTime, b.EndTime, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindCommittedByDriver(_ context.Context, driverID uuid.UUID, weekStart, weekEnd time.Time) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.f.bookings {
		if b.DriverID == nil || *b.DriverID != driverID {
			continue
		}
		if b.Status != entity.BookingStatusApproved && b.Status != entity.BookingStatusCompleted {
			continue
		}
		if b.StartTime.Before(weekStart) || !b.StartTime.Before(weekEnd) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdatePending(_ context.Context, booking *entity.Booking) (bool, error) {
	if r.f.beforeUpdate != nil {
		r.f.beforeUpdate()
	}
	for i, b := range r.f.bookings {
		if b.ID != booking.ID {
			continue
		}
		if b.Status != entity.BookingStatusPending {
			return false, nil
		}
		// Mirrors the guarded SQL update: the new window must be clear of
		// sibling bookings, maintenance, and the driver's other commitments.
		for _, other := range r.f.bookings {
			if other.ID == booking.ID || !other.Status.Blocks() {
				continue
			}
			if !timeutil.Overlaps(other.StartTime, other.EndTime, booking.StartTime, booking.EndTime) {
				continue
			}
			if other.VehicleID == booking.VehicleID {
				return false, nil
			}
			if booking.DriverID != nil && other.DriverID != nil && *other.DriverID == *booking.DriverID {
				return false, nil
			}
		}
		for _, m := range r.f.maintenance {
			if m.VehicleID == booking.VehicleID && m.Status.Blocks() &&
				timeutil.Overlaps(m.ScheduledStart, m.ScheduledEnd, booking.StartTime, booking.EndTime) {
				return false, nil
			}
		}
		if booking.DriverID != nil {
			for _, s := range r.f.schedules {
				if s.DriverID == *booking.DriverID && s.Status == entity.DriverScheduleStatusActive &&
					timeutil.Overlaps(s.StartTime, s.EndTime, booking.StartTime, booking.EndTime) {
					return false, nil
				}
			}
		}
		r.f.bookings[i] = booking
		return true, nil
	}
	return false, nil
}

func (r *fakeBookingRepo) ApprovePending(_ context.Context, id, approverID uuid.UUID, at time.Time) (bool, error) {
	for _, b := range r.f.bookings {
		if b.ID != id {
			continue
		}
		if b.Status != entity.BookingStatusPending {
			return false, nil
		}
		// An already-approved overlapping sibling wins, mirroring the
		// guarded SQL update.
		for _, other := range r.f.bookings {
			if other.ID == id || other.VehicleID != b.VehicleID {
				continue
			}
			if other.Status == entity.BookingStatusApproved &&
				timeutil.Overlaps(other.StartTime, other.EndTime, b.StartTime, b.EndTime) {
				return false, nil
			}
		}
		b.Status = entity.BookingStatusApproved
		b.ApproverID = &approverID
		b.ApprovedAt = &at
		b.UpdatedAt = at
		return true, nil
	}
	return false, nil
}

func (r *fakeBookingRepo) RejectPending(_ context.Context, id, approverID uuid.UUID, reason string, at time.Time) (bool, error) {
	for _, b := range r.f.bookings {
		if b.ID == id {
			if b.Status != entity.BookingStatusPending {
				return false, nil
			}
			b.Status = entity.BookingStatusRejected
			b.ApproverID = &approverID
			b.RejectionReason = &reason
			b.UpdatedAt = at
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) CancelActive(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	for _, b := range r.f.bookings {
		if b.ID == id {
			if !b.Status.Blocks() {
				return false, nil
			}
			b.Status = entity.BookingStatusCancelled
			b.UpdatedAt = at
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) CompleteApproved(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	for _, b := range r.f.bookings {
		if b.ID == id {
			if b.Status != entity.BookingStatusApproved {
				return false, nil
			}
			b.Status = entity.BookingStatusCompleted
			b.UpdatedAt = at
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) CompleteExpired(_ context.Context, cutoff time.Time) ([]*entity.Booking, error) {
	var completed []*entity.Booking
	for _, b := range r.f.bookings {
		if b.Status == entity.BookingStatusApproved && b.EndTime.Before(cutoff) {
			b.Status = entity.BookingStatusCompleted
			completed = append(completed, b)
		}
	}
	return completed, nil
}

// ---- vehicle ----

type fakeVehicleRepo struct {
	f *fixture
}

func (r *fakeVehicleRepo) Create(_ context.Context, vehicle *entity.Vehicle) error {
	r.f.vehicles = append(r.f.vehicles, vehicle)
	return nil
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	for _, v := range r.f.vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}

func (r *fakeVehicleRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Vehicle, error) {
	out := r.f.vehicles
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeVehicleRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.f.vehicles)), nil
}

func (r *fakeVehicleRepo) FindActive(_ context.Context) ([]*entity.Vehicle, error) {
	var out []*entity.Vehicle
	for _, v := range r.f.vehicles {
		if v.Bookable() {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, vehicle *entity.Vehicle) error {
	for i, v := range r.f.vehicles {
		if v.ID == vehicle.ID {
			r.f.vehicles[i] = vehicle
			return nil
		}
	}
	return nil
}

// ---- maintenance ----

type fakeMaintenanceRepo struct {
	f *fixture
}

func (r *fakeMaintenanceRepo) Create(_ context.Context, schedule *entity.MaintenanceSchedule) error {
	r.f.maintenance = append(r.f.maintenance, schedule)
	return nil
}

func (r *fakeMaintenanceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.MaintenanceSchedule, error) {
	for _, m := range r.f.maintenance {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMaintenanceRepo) FindByVehicle(_ context.Context, vehicleID uuid.UUID) ([]*entity.MaintenanceSchedule, error) {
	var out []*entity.MaintenanceSchedule
	for _, m := range r.f.maintenance {
		if m.VehicleID == vehicleID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMaintenanceRepo) FindOverlapping(_ context.Context, vehicleID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]*entity.MaintenanceSchedule, error) {
	var out []*entity.MaintenanceSchedule
	for _, m := range r.f.maintenance {
		if m.VehicleID != vehicleID || !m.Status.Blocks() {
			continue
		}
		if exclude != nil && m.ID == *exclude {
			continue
		}
		if timeutil.Overlaps(m.ScheduledStart, m.ScheduledEnd, start, end) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMaintenanceRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.MaintenanceStatus) error {
	for _, m := range r.f.maintenance {
		if m.ID == id {
			m.Status = status
		}
	}
	return nil
}

// ---- driver schedule ----

type fakeDriverScheduleRepo struct {
	f *fixture
}

func (r *fakeDriverScheduleRepo) Create(_ context.Context, schedule *entity.DriverSchedule) error {
	r.f.schedules = append(r.f.schedules, schedule)
	return nil
}

func (r *fakeDriverScheduleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.DriverSchedule, error) {
	for _, s := range r.f.schedules {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeDriverScheduleRepo) FindByDriver(_ context.Context, driverID uuid.UUID) ([]*entity.DriverSchedule, error) {
	var out []*entity.DriverSchedule
	for _, s := range r.f.schedules {
		if s.DriverID == driverID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeDriverScheduleRepo) FindOverlapping(_ context.Context, driverID uuid.UUID, start, end time.Time) ([]*entity.DriverSchedule, error) {
	var out []*entity.DriverSchedule
	for _, s := range r.f.schedules {
		if s.DriverID != driverID || s.Status != entity.DriverScheduleStatusActive {
			continue
		}
		if timeutil.Overlaps(s.StartTime, s.EndTime, start, end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeDriverScheduleRepo) Cancel(_ context.Context, id uuid.UUID) error {
	for _, s := range r.f.schedules {
		if s.ID == id {
			s.Status = entity.DriverScheduleStatusCancelled
		}
	}
	return nil
}

// ---- user ----

type fakeUserRepo struct {
	f *fixture
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.f.users = append(r.f.users, user)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range r.f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindActiveDrivers(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.f.users {
		if u.IsDriver && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	for i, u := range r.f.users {
		if u.ID == user.ID {
			r.f.users[i] = user
		}
	}
	return nil
}

// ---- session ----

type fakeSessionRepo struct {
	f *fixture
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.f.sessions = append(r.f.sessions, session)
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	for _, s := range r.f.sessions {
		if s.Token.String() == token && s.RevokedAt == nil {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	for _, s := range r.f.sessions {
		if s.Token.String() == token {
			now := time.Now()
			s.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	for _, s := range r.f.sessions {
		if s.UserID == userID {
			now := time.Now()
			s.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(_ context.Context) (int64, error) {
	var kept []*entity.Session
	var n int64
	for _, s := range r.f.sessions {
		if s.ExpiresAt.Before(time.Now()) {
			n++
			continue
		}
		kept = append(kept, s)
	}
	r.f.sessions = kept
	return n, nil
}

// ---- notifier ----

type recordingNotifier struct {
	transitions []string
}

func (n *recordingNotifier) BookingStatusChanged(_ context.Context, booking *entity.Booking, oldStatus entity.BookingStatus, _ uuid.UUID) {
	n.transitions = append(n.transitions, string(oldStatus)+"->"+string(booking.Status))
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
