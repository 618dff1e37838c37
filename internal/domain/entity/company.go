package entity

import "time"

// Company empresa perteneciente a un grupo económico. En este corte solo
// interesa para el invariante "no eliminar grupos con empresas activas".
type Company struct {
	ID        int64
	GroupID   int64
	Name      string
	Country   string
	Currency  string
	Active    bool
	CreatedAt time.Time
}
