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

type MaintenanceRepository interface {
	Create(ctx context.Context, schedule *entity.MaintenanceSchedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.MaintenanceSchedule, error)
	FindByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entity.MaintenanceSchedule, error)

	// FindOverlapping returns blocking (scheduled or in-progress) entries
	// for the vehicle whose window overlaps [start, end], inclusive.
	FindOverlapping(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]*entity.MaintenanceSchedule, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MaintenanceStatus) error
}

const maintenanceColumns = `id, vehicle_id, type, status, scheduled_start, scheduled_end, notes, created_at, updated_at`

type maintenanceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMaintenanceRepository(db database.PgxIface, log *zap.Logger) MaintenanceRepository {
	return &maintenanceRepository{
		db:  db,
		log: log.With(zap.String("repository", "maintenance")),
	}
}

func scanMaintenance(row pgx.Row) (*entity.MaintenanceSchedule, error) {
	var m entity.MaintenanceSchedule
	err := row.Scan(
		&m.ID,
		&m.VehicleID,
		&m.Type,
		&m.Status,
		&m.ScheduledStart,
		&m.ScheduledEnd,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *maintenanceRepository) Create(ctx context.Context, schedule *entity.MaintenanceSchedule) error {
	query := `
		INSERT INTO maintenance_schedules (id, vehicle_id, type, status, scheduled_start, scheduled_end, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		schedule.ID,
		schedule.VehicleID,
		schedule.Type,
		schedule.Status,
		schedule.ScheduledStart,
		schedule.ScheduledEnd,
		schedule.Notes,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create maintenance schedule",
			zap.Error(err),
			zap.String("vehicle_id", schedule.VehicleID.String()),
		)
		return fmt.Errorf("create maintenance schedule for vehicle %s: %w", schedule.VehicleID.String(), err)
	}

	return nil
}

func (r *maintenanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.MaintenanceSchedule, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_schedules WHERE id = $1`

	schedule, err := scanMaintenance(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find maintenance schedule by ID",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
		)
		return nil, fmt.Errorf("find maintenance schedule by ID %s: %w", id.String(), err)
	}

	return schedule, nil
}

func (r *maintenanceRepository) FindByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entity.MaintenanceSchedule, error) {
	query := `
		SELECT ` + maintenanceColumns + `
		FROM maintenance_schedules
		WHERE vehicle_id = $1
		ORDER BY scheduled_start
	`

	rows, err := r.db.Query(ctx, query, vehicleID)
	if err != nil {
		r.log.Error("Failed to find maintenance schedules by vehicle",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, fmt.Errorf("find maintenance schedules for vehicle %s: %w", vehicleID.String(), err)
	}
	defer rows.Close()

	var schedules []*entity.MaintenanceSchedule
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			r.log.Error("Failed to scan maintenance row", zap.Error(err))
			return nil, fmt.Errorf("scan maintenance row: %w", err)
		}
		schedules = append(schedules, m)
	}

	return schedules, rows.Err()
}

func (r *maintenanceRepository) FindOverlapping(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]*entity.MaintenanceSchedule, error) {
	query := `
		SELECT ` + maintenanceColumns + `
		FROM maintenance_schedules
		WHERE vehicle_id = $1
		  AND status IN ('scheduled', 'in_progress')
		  AND scheduled_start <= $3 AND scheduled_end >= $2
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY scheduled_start
	`

	rows, err := r.db.Query(ctx, query, vehicleID, start, end, exclude)
	if err != nil {
		r.log.Error("Failed to find overlapping maintenance",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("find overlapping maintenance for vehicle %s: %w", vehicleID.String(), err)
	}
	defer rows.Close()

	var schedules []*entity.MaintenanceSchedule
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			r.log.Error("Failed to scan maintenance row", zap.Error(err))
			return nil, fmt.Errorf("scan maintenance row: %w", err)
		}
		schedules = append(schedules, m)
	}

	return schedules, rows.Err()
}

func (r *maintenanceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MaintenanceStatus) error {
	query := `UPDATE maintenance_schedules SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update maintenance status",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update maintenance schedule %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("maintenance schedule %s not found", id.String())
	}

	return nil
}
