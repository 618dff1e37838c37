package entity

import "time"

// User usuario del sistema, resuelto por el middleware de autenticación.
type User struct {
	ID        int64
	Email     string
	Name      string
	Active    bool
	CreatedAt time.Time
}
