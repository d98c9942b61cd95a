package repository

import (
	"fleet-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User           UserRepository
	Session        SessionRepository
	Vehicle        VehicleRepository
	Booking        BookingRepository
	Maintenance    MaintenanceRepository
	DriverSchedule DriverScheduleRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:           NewUserRepository(db, log),
		Session:        NewSessionRepository(db, log),
		Vehicle:        NewVehicleRepository(db, log),
		Booking:        NewBookingRepository(db, log),
		Maintenance:    NewMaintenanceRepository(db, log),
		DriverSchedule: NewDriverScheduleRepository(db, log),
	}
}
