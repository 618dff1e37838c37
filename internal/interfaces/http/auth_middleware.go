package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/contable-pro/internal/domain"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
	"github.com/tu-usuario/contable-pro/pkg/jwt"
)

// Locals keys para la identidad en Fiber.
const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
	LocalUserName  = "user_name"
	LocalUserRole  = "user_role"
)

// IdentityResolver resuelve la identidad de la petición. Es una capacidad
// inyectada: el stub de desarrollo y el verificador real son
// intercambiables sin tocar rutas ni handlers.
type IdentityResolver interface {
	Resolve(c *fiber.Ctx) (*domain.UserContext, error)
}

// HeaderIdentityResolver stub de desarrollo: confía en el header
// X-Usuario-Email y lo resuelve contra la tabla de usuarios.
// TODO: reemplazar por el proveedor de identidad (tokens verificados)
// antes de cualquier despliegue productivo.
type HeaderIdentityResolver struct {
	users repository.UserRepository
}

// NewHeaderIdentityResolver construye el stub con el puerto de usuarios.
func NewHeaderIdentityResolver(users repository.UserRepository) *HeaderIdentityResolver {
	return &HeaderIdentityResolver{users: users}
}

// Resolve implementa IdentityResolver.
func (r *HeaderIdentityResolver) Resolve(c *fiber.Ctx) (*domain.UserContext, error) {
	email := strings.TrimSpace(c.Get("X-Usuario-Email"))
	if email == "" {
		return nil, domain.NewUnauthorized("header de identidad requerido")
	}
	user, err := r.users.GetByEmail(c.UserContext(), email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewUnauthorized("usuario no reconocido")
	}
	if !user.Active {
		return nil, domain.NewForbidden("usuario inactivo")
	}
	return &domain.UserContext{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

// JWTIdentityResolver valida un Bearer Token HS256 emitido por el proveedor
// de identidad y carga el usuario asociado.
type JWTIdentityResolver struct {
	secret string
	users  repository.UserRepository
}

// NewJWTIdentityResolver construye el verificador JWT.
func NewJWTIdentityResolver(secret string, users repository.UserRepository) *JWTIdentityResolver {
	return &JWTIdentityResolver{secret: secret, users: users}
}

// Resolve implementa IdentityResolver.
func (r *JWTIdentityResolver) Resolve(c *fiber.Ctx) (*domain.UserContext, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, domain.NewUnauthorized("Authorization header requerido")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, domain.NewUnauthorized("formato: Bearer <token>")
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil, domain.NewUnauthorized("token vacío")
	}
	userID, role, err := jwt.Parse(r.secret, tokenString)
	if err != nil {
		return nil, domain.NewUnauthorized("token inválido o expirado")
	}
	user, err := r.users.GetByID(c.UserContext(), userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewUnauthorized("usuario no reconocido")
	}
	if !user.Active {
		return nil, domain.NewForbidden("usuario inactivo")
	}
	return &domain.UserContext{ID: user.ID, Email: user.Email, Name: user.Name, Role: role}, nil
}

// AuthMiddleware resuelve la identidad y la deja en c.Locals para las
// rutas protegidas. Los errores del resolver propagan al error handler.
func AuthMiddleware(resolver IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolver.Resolve(c)
		if err != nil {
			return err
		}
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUserEmail, user.Email)
		c.Locals(LocalUserName, user.Name)
		c.Locals(LocalUserRole, user.Role)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) int64 {
	v := c.Locals(LocalUserID)
	if v == nil {
		return 0
	}
	id, _ := v.(int64)
	return id
}

// GetUserEmail devuelve el email del contexto.
func GetUserEmail(c *fiber.Ctx) string {
	v := c.Locals(LocalUserEmail)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
