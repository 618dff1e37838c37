package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/contable-pro/internal/application/dto"
	"github.com/tu-usuario/contable-pro/internal/application/usecase"
	"github.com/tu-usuario/contable-pro/internal/domain"
)

// GroupHandler maneja las peticiones HTTP para grupos económicos. No
// contiene lógica de negocio ni manejo de errores: todo error retorna y lo
// resuelve el error handler central.
type GroupHandler struct {
	uc *usecase.GroupUseCase
}

// NewGroupHandler construye el handler inyectando el caso de uso.
func NewGroupHandler(uc *usecase.GroupUseCase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

// List godoc
// @Summary      Listar grupos económicos
// @Tags         groups
// @Security     Bearer
// @Produce      json
// @Param        page           query  string  false  "Página"            default(1)
// @Param        limit          query  string  false  "Tamaño de página"  default(10)
// @Param        search         query  string  false  "Búsqueda por nombre o RUT"
// @Param        active         query  string  false  "true | false"
// @Param        paisPrincipal  query  string  false  "Código de país"
// @Success      200  {object}  dto.GroupListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/groups [get]
func (h *GroupHandler) List(c *fiber.Ctx) error {
	q, err := dto.ParseListQuery(
		c.Query("page"), c.Query("limit"), c.Query("search"),
		c.Query("active"), c.Query("paisPrincipal"),
	)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Mine godoc
// @Summary      Grupos del usuario actual
// @Tags         groups
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GroupsResponse
// @Router       /api/groups/mine [get]
func (h *GroupHandler) Mine(c *fiber.Ctx) error {
	out, err := h.uc.GetGroupsForUser(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener grupo por ID
// @Tags         groups
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del grupo"
// @Success      200  {object}  dto.DataResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/groups/{id} [get]
func (h *GroupHandler) GetByID(c *fiber.Ctx) error {
	id, err := dto.ParseID(c.Params("id"))
	if err != nil {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse{Data: out})
}

// Create godoc
// @Summary      Crear grupo económico
// @Tags         groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateGroupRequest  true  "Datos del grupo"
// @Success      201  {object}  dto.DataResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/groups [post]
func (h *GroupHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return domain.NewValidation(map[string][]string{"body": {"cuerpo JSON inválido"}})
	}
	in.Normalize()
	if err := dto.Validate(&in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in, GetUserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DataResponse{
		Data:    out,
		Message: "Grupo económico creado exitosamente",
	})
}

// Update godoc
// @Summary      Actualizar grupo económico
// @Tags         groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "ID del grupo"
// @Param        body  body  dto.UpdateGroupRequest  true  "Campos a modificar"
// @Success      200  {object}  dto.DataResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/groups/{id} [put]
func (h *GroupHandler) Update(c *fiber.Ctx) error {
	id, err := dto.ParseID(c.Params("id"))
	if err != nil {
		return err
	}
	var in dto.UpdateGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return domain.NewValidation(map[string][]string{"body": {"cuerpo JSON inválido"}})
	}
	in.Normalize()
	if err := dto.Validate(&in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in, GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse{
		Data:    out,
		Message: "Grupo económico actualizado exitosamente",
	})
}

// Delete godoc
// @Summary      Baja lógica de un grupo económico
// @Tags         groups
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del grupo"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/groups/{id} [delete]
func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	id, err := dto.ParseID(c.Params("id"))
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id, GetUserID(c)); err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{
		Success: true,
		Message: "Grupo económico desactivado exitosamente",
	})
}
