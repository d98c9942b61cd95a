package repository

import (
	"context"
	"fmt"
	"time"

	"fleet-booking/internal/data/entity"
	"fleet-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// Create inserts the booking unless a blocking record (pending/approved
	// booking, active maintenance, or for an assigned driver a busy window)
	// overlaps the requested window. Returns false when the guard rejected
	// the insert.
	Create(ctx context.Context, booking *entity.Booking) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByRequester(ctx context.Context, requesterID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByRequester(ctx context.Context, requesterID uuid.UUID) (int64, error)

	// Range queries used by availability checks. The overlap filter is
	// inclusive on both endpoints.
	FindOverlappingByVehicle(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]*entity.Booking, error)
	FindOverlappingByDriver(ctx context.Context, driverID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]*entity.Booking, error)
	FindCommittedByDriver(ctx context.Context, driverID uuid.UUID, weekStart, weekEnd time.Time) ([]*entity.Booking, error)

	// Guarded transitions. Each compares-and-swaps on the expected current
	// status so two concurrent callers cannot both succeed; false means the
	// stored row was not in the expected state (or, for approve/update, a
	// conflicting sibling appeared).
	UpdatePending(ctx context.Context, booking *entity.Booking) (bool, error)
	ApprovePending(ctx context.Context, id, approverID uuid.UUID, at time.Time) (bool, error)
	RejectPending(ctx context.Context, id, approverID uuid.UUID, reason string, at time.Time) (bool, error)
	CancelActive(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	CompleteApproved(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	// CompleteExpired closes approved bookings whose window ended before
	// cutoff and returns the affected rows so callers can fan out the
	// status-change notifications. Used by the housekeeping job.
	CompleteExpired(ctx context.Context, cutoff time.Time) ([]*entity.Booking, error)
}

const bookingColumns = `id, vehicle_id, requester_id, driver_id, start_time, end_time,
	       purpose, destination, passengers, status, priority,
	       approver_id, approved_at, rejection_reason, notes, created_at, updated_at`

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.VehicleID,
		&b.RequesterID,
		&b.DriverID,
		&b.StartTime,
		&b.EndTime,
		&b.Purpose,
		&b.Destination,
		&b.Passengers,
		&b.Status,
		&b.Priority,
		&b.ApproverID,
		&b.ApprovedAt,
		&b.RejectionReason,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) (bool, error) {
	// The NOT EXISTS guards make insert-vs-insert races lose instead of
	// double-booking: the overlap re-check and the write are one statement.
	query := `
		INSERT INTO bookings (id, vehicle_id, requester_id, driver_id, start_time, end_time,
		                      purpose, destination, passengers, status, priority, notes,
		                      created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		WHERE NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.vehicle_id = $2
			  AND b.status IN ('pending', 'approved')
			  AND b.start_time <= $6 AND b.end_time >= $5
		)
		AND NOT EXISTS (
			SELECT 1 FROM maintenance_schedules m
			WHERE m.vehicle_id = $2
			  AND m.status IN ('scheduled', 'in_progress')
			  AND m.scheduled_start <= $6 AND m.scheduled_end >= $5
		)
		AND ($4::uuid IS NULL OR NOT EXISTS (
			SELECT 1 FROM bookings db
			WHERE db.driver_id = $4
			  AND db.status IN ('pending', 'approved')
			  AND db.start_time <= $6 AND db.end_time >= $5
		))
		AND ($4::uuid IS NULL OR NOT EXISTS (
			SELECT 1 FROM driver_schedules ds
			WHERE ds.driver_id = $4
			  AND ds.status = 'active'
			  AND ds.start_time <= $6 AND ds.end_time >= $5
		))
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.VehicleID,
		booking.RequesterID,
		booking.DriverID,
		booking.StartTime,
		booking.EndTime,
		booking.Purpose,
		booking.Destination,
		booking.Passengers,
		booking.Status,
		booking.Priority,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("vehicle_id", booking.VehicleID.String()),
			zap.String("requester_id", booking.RequesterID.String()),
		)
		return false, fmt.Errorf("create booking for vehicle %s: %w", booking.VehicleID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByRequester(ctx context.Context, requesterID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE requester_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, requesterID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by requester",
			zap.Error(err),
			zap.String("requester_id", requesterID.String()),
		)
		return nil, fmt.Errorf("find bookings by requester %s: %w", requesterID.String(), err)
	}

	return collectBookings(rows)
}

func (r *bookingRepository) CountByRequester(ctx context.Context, requesterID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE requester_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, requesterID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by requester",
			zap.Error(err),
			zap.String("requester_id", requesterID.String()),
		)
		return 0, fmt.Errorf("count bookings by requester %s: %w", requesterID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindOverlappingByVehicle(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE vehicle_id = $1
		  AND status IN ('pending', 'approved')
		  AND start_time <= $3 AND end_time >= $2
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, vehicleID, start, end, exclude)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings for vehicle",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("find overlapping bookings for vehicle %s: %w", vehicleID.String(), err)
	}

	return collectBookings(rows)
}

func (r *bookingRepository) FindOverlappingByDriver(ctx context.Context, driverID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE driver_id = $1
		  AND status IN ('pending', 'approved')
		  AND start_time <= $3 AND end_time >= $2
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, driverID, start, end, exclude)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings for driver",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return nil, fmt.Errorf("find overlapping bookings for driver %s: %w", driverID.String(), err)
	}

	return collectBookings(rows)
}

func (r *bookingRepository) FindCommittedByDriver(ctx context.Context, driverID uuid.UUID, weekStart, weekEnd time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE driver_id = $1
		  AND status IN ('approved', 'completed')
		  AND start_time >= $2 AND start_time < $3
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, driverID, weekStart, weekEnd)
	if err != nil {
		r.log.Error("Failed to find committed bookings for driver",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return nil, fmt.Errorf("find committed bookings for driver %s: %w", driverID.String(), err)
	}

	return collectBookings(rows)
}

func (r *bookingRepository) UpdatePending(ctx context.Context, booking *entity.Booking) (bool, error) {
	// Same guards as Create, parameterized on the updated window, vehicle
	// and driver, so a rescheduled booking cannot race into a window a
	// concurrent insert just took.
	query := `
		UPDATE bookings
		SET vehicle_id = $2, driver_id = $3, start_time = $4, end_time = $5,
		    purpose = $6, destination = $7, passengers = $8, priority = $9,
		    notes = $10, updated_at = $11
		WHERE id = $1 AND status = 'pending'
		AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.vehicle_id = $2
			  AND b.id <> $1
			  AND b.status IN ('pending', 'approved')
			  AND b.start_time <= $5 AND b.end_time >= $4
		)
		AND NOT EXISTS (
			SELECT 1 FROM maintenance_schedules m
			WHERE m.vehicle_id = $2
			  AND m.status IN ('scheduled', 'in_progress')
			  AND m.scheduled_start <= $5 AND m.scheduled_end >= $4
		)
		AND ($3::uuid IS NULL OR NOT EXISTS (
			SELECT 1 FROM bookings db
			WHERE db.driver_id = $3
			  AND db.id <> $1
			  AND db.status IN ('pending', 'approved')
			  AND db.start_time <= $5 AND db.end_time >= $4
		))
		AND ($3::uuid IS NULL OR NOT EXISTS (
			SELECT 1 FROM driver_schedules ds
			WHERE ds.driver_id = $3
			  AND ds.status = 'active'
			  AND ds.start_time <= $5 AND ds.end_time >= $4
		))
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.VehicleID,
		booking.DriverID,
		booking.StartTime,
		booking.EndTime,
		booking.Purpose,
		booking.Destination,
		booking.Passengers,
		booking.Priority,
		booking.Notes,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return false, fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) ApprovePending(ctx context.Context, id, approverID uuid.UUID, at time.Time) (bool, error) {
	// CAS on status plus a sibling-overlap guard in the same statement:
	// of two concurrent approvals over overlapping windows, at most one
	// can flip its row to approved.
	query := `
		UPDATE bookings
		SET status = 'approved', approver_id = $2, approved_at = $3, updated_at = $3
		WHERE id = $1 AND status = 'pending'
		AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.vehicle_id = bookings.vehicle_id
			  AND b.id <> bookings.id
			  AND b.status = 'approved'
			  AND b.start_time <= bookings.end_time AND b.end_time >= bookings.start_time
		)
	`

	result, err := r.db.Exec(ctx, query, id, approverID, at)
	if err != nil {
		r.log.Error("Failed to approve booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("approve booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) RejectPending(ctx context.Context, id, approverID uuid.UUID, reason string, at time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'rejected', approver_id = $2, approved_at = $3,
		    rejection_reason = $4, updated_at = $3
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, id, approverID, at, reason)
	if err != nil {
		r.log.Error("Failed to reject booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("reject booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) CancelActive(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', updated_at = $2
		WHERE id = $1 AND status IN ('pending', 'approved')
	`

	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) CompleteApproved(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'completed', updated_at = $2
		WHERE id = $1 AND status = 'approved'
	`

	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to complete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("complete booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) CompleteExpired(ctx context.Context, cutoff time.Time) ([]*entity.Booking, error) {
	query := `
		UPDATE bookings
		SET status = 'completed', updated_at = $1
		WHERE status = 'approved' AND end_time < $1
		RETURNING ` + bookingColumns

	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		r.log.Error("Failed to complete expired bookings", zap.Error(err))
		return nil, fmt.Errorf("complete expired bookings: %w", err)
	}

	return collectBookings(rows)
}
