package entity

import "time"

// ChartOfAccounts plan de cuentas de un grupo económico (uno a uno).
// Nace junto con el grupo con un nombre derivado del nombre del grupo.
type ChartOfAccounts struct {
	ID        int64
	GroupID   int64
	Name      string
	Active    bool
	CreatedAt time.Time
}

// ChartName devuelve el nombre por defecto del plan de cuentas de un grupo.
func ChartName(groupName string) string {
	return "Plan de Cuentas - " + groupName
}
