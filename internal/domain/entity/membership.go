package entity

import "time"

// Roles de un usuario dentro de un grupo económico.
const (
	RoleAdmin      = "ADMIN"
	RoleAccountant = "ACCOUNTANT"
	RoleOperative  = "OPERATIVE"
)

// Membership vínculo usuario-grupo con su rol. El creador de un grupo
// recibe automáticamente el rol ADMIN.
type Membership struct {
	ID        int64
	GroupID   int64
	UserID    int64
	Role      string
	CreatedAt time.Time
}
