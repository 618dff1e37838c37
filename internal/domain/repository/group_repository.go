package repository

import (
	"context"

	"github.com/tu-usuario/contable-pro/internal/domain/entity"
)

// GroupFilters filtros de listado de grupos económicos.
type GroupFilters struct {
	Page           int
	Limit          int
	Search         string // subcadena sobre nombre o RUT (case-insensitive)
	Active         *bool
	PrimaryCountry string
}

// GroupPage resultado paginado del listado.
type GroupPage struct {
	Groups     []*entity.EconomicGroup
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// CreateGroupData datos ya validados para crear un grupo.
type CreateGroupData struct {
	Name            string
	ControllerTaxID *string
	PrimaryCountry  string
	BaseCurrency    string
}

// UpdateGroupData parche parcial: los campos nil no se tocan. Un
// ControllerTaxID apuntando a cadena vacía se persiste como NULL.
type UpdateGroupData struct {
	Name            *string
	ControllerTaxID *string
	PrimaryCountry  *string
	BaseCurrency    *string
	Active          *bool
}

// GroupRepository define el puerto de persistencia para EconomicGroup (DIP).
// La implementación vive en infrastructure. No aplica reglas de negocio ni
// produce errores de dominio propios: los ausentes se señalan con nil/false.
type GroupRepository interface {
	FindMany(ctx context.Context, filters GroupFilters) (*GroupPage, error)
	FindByID(ctx context.Context, id int64) (*entity.EconomicGroup, error)
	FindByUserID(ctx context.Context, userID int64) ([]*entity.EconomicGroup, error)
	// Create inserta grupo, membresía ADMIN del creador, configuración por
	// defecto y plan de cuentas en una única transacción.
	Create(ctx context.Context, data CreateGroupData, creatorID int64) (*entity.EconomicGroup, error)
	Update(ctx context.Context, id int64, patch UpdateGroupData) (*entity.EconomicGroup, error)
	// SoftDelete marca el grupo como inactivo; no existe borrado físico.
	SoftDelete(ctx context.Context, id int64) error
	VerifyUserAccess(ctx context.Context, groupID, userID int64) (bool, error)
	// MemberRole devuelve el rol del usuario en el grupo, o "" si no es miembro.
	MemberRole(ctx context.Context, groupID, userID int64) (string, error)
	Exists(ctx context.Context, id int64) (bool, error)
}
