package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/contable-pro/internal/application/usecase"
)

// RouterDeps dependencias para el router, construidas explícitamente en
// main e inyectadas aquí (sin singletons de proceso).
type RouterDeps struct {
	GroupUC  *usecase.GroupUseCase
	Resolver IdentityResolver
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Grupos económicos (protegido: requiere identidad resuelta)
	groups := api.Group("/groups", AuthMiddleware(deps.Resolver))
	groupHandler := NewGroupHandler(deps.GroupUC)
	groups.Get("/", groupHandler.List)
	groups.Get("/mine", groupHandler.Mine)
	groups.Get("/:id", groupHandler.GetByID)
	groups.Post("/", groupHandler.Create)
	groups.Put("/:id", groupHandler.Update)
	groups.Delete("/:id", groupHandler.Delete)
}
