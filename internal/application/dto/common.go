package dto

// Pagination metadatos de página en respuestas de listado.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// DataResponse envoltura estándar para respuestas con un solo recurso.
type DataResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// DeleteResponse envoltura de la baja lógica.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorBody detalle del error en el envelope uniforme de fallas.
type ErrorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
	Field   string              `json:"field,omitempty"`
	Rule    string              `json:"rule,omitempty"`
	Stack   string              `json:"stack,omitempty"`
}

// ErrorResponse cuerpo de error HTTP: { "error": { ... } }.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
