package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tu-usuario/contable-pro/internal/domain"
)

// translateError convierte errores del driver PostgreSQL a la taxonomía de
// dominio. Es el único punto de acople con los códigos del motor: cambiar
// de base de datos solo requiere reemplazar esta tabla de traducción.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *domain.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return domain.NewDatabase(err.Error())
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return domain.NewConflict(fieldFromConstraint(pgErr.ConstraintName))
	case pgerrcode.ForeignKeyViolation:
		return domain.NewBusinessRule(
			domain.RuleRegistrosRelacionados,
			"la operación está bloqueada por registros relacionados",
		)
	default:
		return domain.NewDatabase(pgErr.Message)
	}
}

// fieldFromConstraint extrae el nombre de columna desde el nombre del
// constraint ("grupos_economicos_nombre_key" → "nombre").
func fieldFromConstraint(constraint string) string {
	if constraint == "" {
		return "desconocido"
	}
	name := constraint
	for _, suffix := range []string{"_key", "_idx", "_unique"} {
		name = strings.TrimSuffix(name, suffix)
	}
	for _, table := range []string{"grupos_economicos_", "configuraciones_contables_", "planes_cuentas_", "empresas_", "usuarios_grupos_", "usuarios_"} {
		if strings.HasPrefix(name, table) {
			return strings.TrimPrefix(name, table)
		}
	}
	return name
}
