package model

import "time"

// Role identifies which side of a donation an organization sits on.
type Role string

const (
	// RoleDonor reports surplus food (restaurants).
	RoleDonor Role = "donor"
	// RoleReceiver accepts surplus food (NGOs).
	RoleReceiver Role = "receiver"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleReceiver
}

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies within the WGS84 bounds.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Organization is a registered donor or receiver.
// Capacity is only meaningful for receivers; donors always carry zero.
// PasswordHash never leaves the service layer.
type Organization struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	Location         Coordinate `json:"location"`
	Capacity         int        `json:"capacity"`
	OriginalCapacity int        `json:"original_capacity"`
	CreatedAt        time.Time  `json:"created_at"`
}

// IsReceiver is a shorthand for o.Role == RoleReceiver.
func (o *Organization) IsReceiver() bool {
	return o.Role == RoleReceiver
}

// Actor is the already-authenticated caller of a core operation.
type Actor struct {
	ID   string
	Role Role
}
