package dto

import (
	"strings"
	"time"

	"github.com/tu-usuario/contable-pro/internal/domain/entity"
)

// CreateGroupRequest entrada para crear un grupo económico.
type CreateGroupRequest struct {
	Nombre         string `json:"nombre" validate:"required,min=3,max=200"`
	RutControlante string `json:"rutControlante" validate:"omitempty,rut"`
	PaisPrincipal  string `json:"paisPrincipal" validate:"required,oneof=UY AR BR CL PY US"`
	MonedaBase     string `json:"monedaBase" validate:"required,oneof=UYU ARS BRL CLP PYG USD EUR"`
}

// Normalize recorta espacios antes de validar.
func (r *CreateGroupRequest) Normalize() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.RutControlante = strings.TrimSpace(r.RutControlante)
}

// UpdateGroupRequest entrada para actualizar un grupo (parche parcial:
// los campos ausentes no se modifican).
type UpdateGroupRequest struct {
	Nombre         *string `json:"nombre" validate:"omitempty,min=3,max=200"`
	RutControlante *string `json:"rutControlante" validate:"omitempty,rut"`
	PaisPrincipal  *string `json:"paisPrincipal" validate:"omitempty,oneof=UY AR BR CL PY US"`
	MonedaBase     *string `json:"monedaBase" validate:"omitempty,oneof=UYU ARS BRL CLP PYG USD EUR"`
	Activo         *bool   `json:"activo"`
}

// Normalize recorta espacios en los campos presentes.
func (r *UpdateGroupRequest) Normalize() {
	if r.Nombre != nil {
		v := strings.TrimSpace(*r.Nombre)
		r.Nombre = &v
	}
	if r.RutControlante != nil {
		v := strings.TrimSpace(*r.RutControlante)
		r.RutControlante = &v
	}
}

// ConfigResponse configuración contable del grupo.
type ConfigResponse struct {
	ID                    int64     `json:"id"`
	DecimalesImporte      int       `json:"decimalesImporte"`
	DecimalesTipoCambio   int       `json:"decimalesTipoCambio"`
	PermitePeriodoCerrado bool      `json:"permiteAsientosPeriodoCerrado"`
	RequiereAprobacion    bool      `json:"requiereAprobacionGlobal"`
	PermiteDesbalanceados bool      `json:"permiteAsientosDesbalanceados"`
	MontoMinimoAprobacion string    `json:"montoMinimoAprobacion"`
	FechaCreacion         time.Time `json:"fechaCreacion"`
}

// ChartResponse plan de cuentas del grupo.
type ChartResponse struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Activo bool   `json:"activo"`
}

// CompanyResponse proyección mínima de una empresa del grupo.
type CompanyResponse struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Pais   string `json:"pais"`
	Moneda string `json:"moneda"`
	Activo bool   `json:"activo"`
}

// GroupResponse salida de un grupo económico.
type GroupResponse struct {
	ID               int64             `json:"id"`
	Nombre           string            `json:"nombre"`
	RutControlante   *string           `json:"rutControlante"`
	PaisPrincipal    string            `json:"paisPrincipal"`
	MonedaBase       string            `json:"monedaBase"`
	Activo           bool              `json:"activo"`
	FechaCreacion    time.Time         `json:"fechaCreacion"`
	CantidadEmpresas *int              `json:"cantidadEmpresas,omitempty"`
	Empresas         []CompanyResponse `json:"empresas,omitempty"`
	PlanCuentas      *ChartResponse    `json:"planCuentas,omitempty"`
	Configuracion    *ConfigResponse   `json:"configuracion,omitempty"`
}

// GroupListResponse listado paginado de grupos.
type GroupListResponse struct {
	Data       []GroupResponse `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// GroupsResponse listado sin paginar (grupos del usuario actual).
type GroupsResponse struct {
	Data []GroupResponse `json:"data"`
}

// FromGroup mapea la entidad a su representación de salida.
func FromGroup(g *entity.EconomicGroup) GroupResponse {
	out := GroupResponse{
		ID:             g.ID,
		Nombre:         g.Name,
		RutControlante: g.ControllerTaxID,
		PaisPrincipal:  g.PrimaryCountry,
		MonedaBase:     g.BaseCurrency,
		Activo:         g.Active,
		FechaCreacion:  g.CreatedAt,
	}
	for _, e := range g.Companies {
		out.Empresas = append(out.Empresas, CompanyResponse{
			ID: e.ID, Nombre: e.Name, Pais: e.Country, Moneda: e.Currency, Activo: e.Active,
		})
	}
	if g.Chart != nil {
		out.PlanCuentas = &ChartResponse{ID: g.Chart.ID, Nombre: g.Chart.Name, Activo: g.Chart.Active}
	}
	if g.Config != nil {
		out.Configuracion = &ConfigResponse{
			ID:                    g.Config.ID,
			DecimalesImporte:      g.Config.AmountDecimals,
			DecimalesTipoCambio:   g.Config.ExchangeRateDecimals,
			PermitePeriodoCerrado: g.Config.AllowClosedPeriod,
			RequiereAprobacion:    g.Config.RequireGlobalApproval,
			PermiteDesbalanceados: g.Config.AllowUnbalanced,
			MontoMinimoAprobacion: g.Config.MinApprovalAmount.StringFixed(2),
			FechaCreacion:         g.Config.CreatedAt,
		}
	}
	return out
}

// FromGroupList mapea un listado incluyendo el conteo de empresas.
func FromGroupList(groups []*entity.EconomicGroup) []GroupResponse {
	out := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		item := FromGroup(g)
		count := g.CompanyCount
		item.CantidadEmpresas = &count
		out = append(out, item)
	}
	return out
}
