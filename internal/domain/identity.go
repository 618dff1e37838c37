package domain

// UserContext identidad ya validada por el middleware de autenticación.
// Las capas siguientes la consumen sin volver a verificarla.
type UserContext struct {
	ID    int64
	Email string
	Name  string
	Role  string
}
