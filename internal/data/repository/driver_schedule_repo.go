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

type DriverScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.DriverSchedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.DriverSchedule, error)
	FindByDriver(ctx context.Context, driverID uuid.UUID) ([]*entity.DriverSchedule, error)

	// FindOverlapping returns active entries for the driver whose window
	// overlaps [start, end], inclusive.
	FindOverlapping(ctx context.Context, driverID uuid.UUID, start, end time.Time) ([]*entity.DriverSchedule, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

const driverScheduleColumns = `id, driver_id, type, status, start_time, end_time, description, created_at, updated_at`

type driverScheduleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDriverScheduleRepository(db database.PgxIface, log *zap.Logger) DriverScheduleRepository {
	return &driverScheduleRepository{
		db:  db,
		log: log.With(zap.String("repository", "driver_schedule")),
	}
}

func scanDriverSchedule(row pgx.Row) (*entity.DriverSchedule, error) {
	var s entity.DriverSchedule
	err := row.Scan(
		&s.ID,
		&s.DriverID,
		&s.Type,
		&s.Status,
		&s.StartTime,
		&s.EndTime,
		&s.Description,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *driverScheduleRepository) Create(ctx context.Context, schedule *entity.DriverSchedule) error {
	query := `
		INSERT INTO driver_schedules (id, driver_id, type, status, start_time, end_time, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		schedule.ID,
		schedule.DriverID,
		schedule.Type,
		schedule.Status,
		schedule.StartTime,
		schedule.EndTime,
		schedule.Description,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create driver schedule",
			zap.Error(err),
			zap.String("driver_id", schedule.DriverID.String()),
		)
		return fmt.Errorf("create driver schedule for driver %s: %w", schedule.DriverID.String(), err)
	}

	return nil
}

func (r *driverScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.DriverSchedule, error) {
	query := `SELECT ` + driverScheduleColumns + ` FROM driver_schedules WHERE id = $1`

	schedule, err := scanDriverSchedule(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find driver schedule by ID",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
		)
		return nil, fmt.Errorf("find driver schedule by ID %s: %w", id.String(), err)
	}

	return schedule, nil
}

func (r *driverScheduleRepository) FindByDriver(ctx context.Context, driverID uuid.UUID) ([]*entity.DriverSchedule, error) {
	query := `
		SELECT ` + driverScheduleColumns + `
		FROM driver_schedules
		WHERE driver_id = $1
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, driverID)
	if err != nil {
		r.log.Error("Failed to find driver schedules",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return nil, fmt.Errorf("find driver schedules for driver %s: %w", driverID.String(), err)
	}
	defer rows.Close()

	var schedules []*entity.DriverSchedule
	for rows.Next() {
		s, err := scanDriverSchedule(rows)
		if err != nil {
			r.log.Error("Failed to scan driver schedule row", zap.Error(err))
			return nil, fmt.Errorf("scan driver schedule row: %w", err)
		}
		schedules = append(schedules, s)
	}

	return schedules, rows.Err()
}

func (r *driverScheduleRepository) FindOverlapping(ctx context.Context, driverID uuid.UUID, start, end time.Time) ([]*entity.DriverSchedule, error) {
	query := `
		SELECT ` + driverScheduleColumns + `
		FROM driver_schedules
		WHERE driver_id = $1
		  AND status = 'active'
		  AND start_time <= $3 AND end_time >= $2
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, driverID, start, end)
	if err != nil {
		r.log.Error("Failed to find overlapping driver schedules",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("find overlapping driver schedules for driver %s: %w", driverID.String(), err)
	}
	defer rows.Close()

	var schedules []*entity.DriverSchedule
	for rows.Next() {
		s, err := scanDriverSchedule(rows)
		if err != nil {
			r.log.Error("Failed to scan driver schedule row", zap.Error(err))
			return nil, fmt.Errorf("scan driver schedule row: %w", err)
		}
		schedules = append(schedules, s)
	}

	return schedules, rows.Err()
}

func (r *driverScheduleRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE driver_schedules SET status = 'cancelled', updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to cancel driver schedule",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
		)
		return fmt.Errorf("cancel driver schedule %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("driver schedule %s not found", id.String())
	}

	return nil
}
