package domain

import "fmt"

// Códigos simbólicos de la taxonomía de errores.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeBusinessRule = "BUSINESS_RULE_VIOLATION"
	CodeDatabase     = "DATABASE_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// Identificadores de reglas de negocio.
const (
	RuleMonedaInvalidaPais    = "MONEDA_INVALIDA_PAIS"
	RuleEmpresasActivas       = "EMPRESAS_ACTIVAS"
	RuleRegistrosRelacionados = "REGISTROS_RELACIONADOS"
)

// Error es el error operacional de la aplicación. Cada variante lleva
// exactamente los datos que necesita: Details solo en VALIDATION_ERROR,
// Field solo en CONFLICT y Rule solo en BUSINESS_RULE_VIOLATION.
// Operational distingue fallas de dominio esperadas de defectos inesperados.
type Error struct {
	Code        string
	Message     string
	Status      int
	Operational bool
	Details     map[string][]string
	Field       string
	Rule        string
}

func (e *Error) Error() string { return e.Message }

// NewValidation agrupa todas las violaciones por campo en un solo error 400.
func NewValidation(details map[string][]string) *Error {
	return &Error{
		Code:        CodeValidation,
		Message:     "datos de entrada inválidos",
		Status:      400,
		Operational: true,
		Details:     details,
	}
}

// NewUnauthorized error 401.
func NewUnauthorized(message string) *Error {
	if message == "" {
		message = "no autorizado"
	}
	return &Error{Code: CodeUnauthorized, Message: message, Status: 401, Operational: true}
}

// NewForbidden error 403.
func NewForbidden(message string) *Error {
	if message == "" {
		message = "acceso denegado"
	}
	return &Error{Code: CodeForbidden, Message: message, Status: 403, Operational: true}
}

// NewNotFound error 404 para un recurso, con ID opcional (0 = sin ID).
func NewNotFound(resource string, id int64) *Error {
	msg := resource + " no encontrado"
	if id > 0 {
		msg = fmt.Sprintf("%s con id %d no encontrado", resource, id)
	}
	return &Error{Code: CodeNotFound, Message: msg, Status: 404, Operational: true}
}

// NewConflict error 409 por violación de unicidad sobre un campo.
func NewConflict(field string) *Error {
	return &Error{
		Code:        CodeConflict,
		Message:     fmt.Sprintf("ya existe un registro con el mismo valor en %q", field),
		Status:      409,
		Operational: true,
		Field:       field,
	}
}

// NewBusinessRule error 422 con el identificador de la regla violada.
func NewBusinessRule(rule, message string) *Error {
	return &Error{Code: CodeBusinessRule, Message: message, Status: 422, Operational: true, Rule: rule}
}

// NewDatabase error 500 de la capa de persistencia (no operacional).
func NewDatabase(message string) *Error {
	if message == "" {
		message = "error de base de datos"
	}
	return &Error{Code: CodeDatabase, Message: message, Status: 500}
}

// NewInternal error 500 genérico (no operacional).
func NewInternal(message string) *Error {
	if message == "" {
		message = "error interno del servidor"
	}
	return &Error{Code: CodeInternal, Message: message, Status: 500}
}
