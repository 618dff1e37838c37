package dto

import (
	"regexp"
	"strconv"

	"github.com/tu-usuario/contable-pro/internal/domain"
	"github.com/tu-usuario/contable-pro/internal/domain/entity"
)

var digitsPattern = regexp.MustCompile(`^\d+$`)

// ListGroupsQuery filtros de listado ya normalizados.
type ListGroupsQuery struct {
	Page           int
	Limit          int
	Search         string
	Active         *bool
	PrimaryCountry string
}

// ParseListQuery transforma y valida los query params crudos del listado.
// page y limit llegan como texto y se convierten a enteros; active solo se
// interpreta si es exactamente "true" o "false". Todas las violaciones se
// acumulan en un único error de validación.
func ParseListQuery(page, limit, search, active, paisPrincipal string) (ListGroupsQuery, error) {
	q := ListGroupsQuery{Search: search}
	details := map[string][]string{}

	if page == "" {
		page = "1"
	}
	if n, err := strconv.Atoi(page); err != nil || n <= 0 {
		details["page"] = append(details["page"], "debe ser un entero mayor a 0")
	} else {
		q.Page = n
	}

	if limit == "" {
		limit = "10"
	}
	if n, err := strconv.Atoi(limit); err != nil || n < 1 || n > 100 {
		details["limit"] = append(details["limit"], "debe ser un entero entre 1 y 100")
	} else {
		q.Limit = n
	}

	switch active {
	case "true":
		v := true
		q.Active = &v
	case "false":
		v := false
		q.Active = &v
	}

	if paisPrincipal != "" {
		if !entity.IsValidCountry(paisPrincipal) {
			details["paisPrincipal"] = append(details["paisPrincipal"], "código de país no soportado")
		} else {
			q.PrimaryCountry = paisPrincipal
		}
	}

	if len(details) > 0 {
		return ListGroupsQuery{}, domain.NewValidation(details)
	}
	return q, nil
}

// ParseID valida el parámetro de ruta :id (solo dígitos) y lo convierte.
func ParseID(raw string) (int64, error) {
	if !digitsPattern.MatchString(raw) {
		return 0, domain.NewValidation(map[string][]string{
			"id": {"debe ser un número entero positivo"},
		})
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.NewValidation(map[string][]string{
			"id": {"debe ser un número entero positivo"},
		})
	}
	return id, nil
}
