package entity

type UserRole string

const (
	RoleRequester    UserRole = "requester"
	RoleFleetManager UserRole = "fleet_manager"
	RoleAdmin        UserRole = "admin"
)

// WeeklyDriverHourCap is the maximum number of booking hours a driver may be
// committed to within one Monday-Sunday week.
const WeeklyDriverHourCap = 60.0

// User is an account in the organization. IsDriver marks the driver
// capability; such users can be assigned to bookings.
type User struct {
	Base
	Name         string   `db:"name"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	Phone        *string  `db:"phone"`
	Role         UserRole `db:"role"`
	IsDriver     bool     `db:"is_driver"`
	IsActive     bool     `db:"is_active"`
}

// CanApprove reports whether the user may approve or reject bookings.
func (u *User) CanApprove() bool {
	return u.Role == RoleFleetManager || u.Role == RoleAdmin
}
