package usecase

import (
	"context"
	"fmt"

	"github.com/tu-usuario/contable-pro/internal/application/dto"
	"github.com/tu-usuario/contable-pro/internal/domain"
	"github.com/tu-usuario/contable-pro/internal/domain/entity"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
)

// GroupUseCase aplica reglas de negocio y autorización para grupos
// económicos antes de delegar en el repositorio. Es la única capa que
// produce errores de dominio de negocio.
type GroupUseCase struct {
	repo repository.GroupRepository
}

// NewGroupUseCase construye el caso de uso con el puerto de persistencia.
func NewGroupUseCase(repo repository.GroupRepository) *GroupUseCase {
	return &GroupUseCase{repo: repo}
}

// List lista grupos con filtros y paginación. El listado no se restringe a
// los grupos accesibles del usuario: es una pantalla administrativa y el
// detalle sí exige membresía.
func (uc *GroupUseCase) List(ctx context.Context, q dto.ListGroupsQuery) (*dto.GroupListResponse, error) {
	page, err := uc.repo.FindMany(ctx, repository.GroupFilters{
		Page:           q.Page,
		Limit:          q.Limit,
		Search:         q.Search,
		Active:         q.Active,
		PrimaryCountry: q.PrimaryCountry,
	})
	if err != nil {
		return nil, err
	}
	return &dto.GroupListResponse{
		Data: dto.FromGroupList(page.Groups),
		Pagination: dto.Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	}, nil
}

// GetByID devuelve el grupo con sus relaciones. Falla con NOT_FOUND si no
// existe y con FORBIDDEN si el usuario no es miembro.
func (uc *GroupUseCase) GetByID(ctx context.Context, groupID, userID int64) (*dto.GroupResponse, error) {
	group, err := uc.repo.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.NewNotFound("Grupo económico", groupID)
	}
	if err := uc.requireAccess(ctx, groupID, userID); err != nil {
		return nil, err
	}
	out := dto.FromGroup(group)
	return &out, nil
}

// GetGroupsForUser lista los grupos donde el usuario tiene membresía.
func (uc *GroupUseCase) GetGroupsForUser(ctx context.Context, userID int64) (*dto.GroupsResponse, error) {
	groups, err := uc.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.FromGroup(g))
	}
	return &dto.GroupsResponse{Data: out}, nil
}

// Create valida las reglas cruzadas y persiste el grupo con su membresía,
// configuración y plan de cuentas.
func (uc *GroupUseCase) Create(ctx context.Context, in dto.CreateGroupRequest, userID int64) (*dto.GroupResponse, error) {
	if err := validateBusinessRules(in.Nombre, in.RutControlante, in.PaisPrincipal, in.MonedaBase); err != nil {
		return nil, err
	}
	data := repository.CreateGroupData{
		Name:           in.Nombre,
		PrimaryCountry: in.PaisPrincipal,
		BaseCurrency:   in.MonedaBase,
	}
	if in.RutControlante != "" {
		rut := in.RutControlante
		data.ControllerTaxID = &rut
	}
	group, err := uc.repo.Create(ctx, data, userID)
	if err != nil {
		return nil, err
	}
	out := dto.FromGroup(group)
	return &out, nil
}

// Update aplica un parche parcial. Exige existencia, membresía y rol ADMIN;
// las reglas cruzadas se reevalúan solo sobre los campos presentes.
func (uc *GroupUseCase) Update(ctx context.Context, groupID int64, in dto.UpdateGroupRequest, userID int64) (*dto.GroupResponse, error) {
	exists, err := uc.repo.Exists(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NewNotFound("Grupo económico", groupID)
	}
	if err := uc.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if in.Nombre != nil || in.PaisPrincipal != nil || in.MonedaBase != nil {
		if err := uc.validatePatchRules(ctx, groupID, in); err != nil {
			return nil, err
		}
	}
	group, err := uc.repo.Update(ctx, groupID, repository.UpdateGroupData{
		Name:            in.Nombre,
		ControllerTaxID: in.RutControlante,
		PrimaryCountry:  in.PaisPrincipal,
		BaseCurrency:    in.MonedaBase,
		Active:          in.Activo,
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromGroup(group)
	return &out, nil
}

// Delete baja lógica del grupo. Exige existencia, membresía y rol ADMIN, y
// la rechaza si el grupo conserva empresas activas. El grupo queda
// inactivo pero sigue siendo consultable.
func (uc *GroupUseCase) Delete(ctx context.Context, groupID, userID int64) error {
	group, err := uc.repo.FindByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return domain.NewNotFound("Grupo económico", groupID)
	}
	if err := uc.requireAdmin(ctx, groupID, userID); err != nil {
		return err
	}
	for _, e := range group.Companies {
		if e.Active {
			return domain.NewBusinessRule(
				domain.RuleEmpresasActivas,
				"no se puede eliminar un grupo con empresas activas",
			)
		}
	}
	return uc.repo.SoftDelete(ctx, groupID)
}

// requireAccess falla con FORBIDDEN si el usuario no es miembro del grupo.
func (uc *GroupUseCase) requireAccess(ctx context.Context, groupID, userID int64) error {
	ok, err := uc.repo.VerifyUserAccess(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewForbidden("no tiene acceso a este grupo económico")
	}
	return nil
}

// requireAdmin falla con FORBIDDEN si el usuario no es miembro o su rol en
// el grupo no es ADMIN.
func (uc *GroupUseCase) requireAdmin(ctx context.Context, groupID, userID int64) error {
	role, err := uc.repo.MemberRole(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return domain.NewForbidden("no tiene acceso a este grupo económico")
	}
	if role != entity.RoleAdmin {
		return domain.NewForbidden("se requiere rol ADMIN para modificar el grupo")
	}
	return nil
}

// validatePatchRules resuelve país y moneda efectivos del parche contra los
// valores actuales y reaplica las reglas cruzadas.
func (uc *GroupUseCase) validatePatchRules(ctx context.Context, groupID int64, in dto.UpdateGroupRequest) error {
	current, err := uc.repo.FindByID(ctx, groupID)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.NewNotFound("Grupo económico", groupID)
	}
	name := current.Name
	if in.Nombre != nil {
		name = *in.Nombre
	}
	country := current.PrimaryCountry
	if in.PaisPrincipal != nil {
		country = *in.PaisPrincipal
	}
	currency := current.BaseCurrency
	if in.MonedaBase != nil {
		currency = *in.MonedaBase
	}
	rut := ""
	if in.RutControlante != nil {
		rut = *in.RutControlante
	}
	return validateBusinessRules(name, rut, country, currency)
}

// validateBusinessRules reglas cruzadas de negocio. El largo del nombre y
// el formato del RUT se reverifican como defensa en profundidad aunque el
// validador de entrada ya los haya cubierto.
func validateBusinessRules(name, rut, country, currency string) error {
	details := map[string][]string{}
	if n := len([]rune(name)); n < 3 || n > 200 {
		details["nombre"] = append(details["nombre"], "debe tener entre 3 y 200 caracteres")
	}
	if rut != "" && !isTwelveDigits(rut) {
		details["rutControlante"] = append(details["rutControlante"], "debe tener exactamente 12 dígitos")
	}
	if len(details) > 0 {
		return domain.NewValidation(details)
	}
	if !entity.CurrencyAllowedForCountry(country, currency) {
		return domain.NewBusinessRule(
			domain.RuleMonedaInvalidaPais,
			fmt.Sprintf("la moneda %s no está permitida para el país %s", currency, country),
		)
	}
	return nil
}

func isTwelveDigits(s string) bool {
	if len(s) != 12 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
