package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderRequestID header de correlación de peticiones.
const HeaderRequestID = "X-Request-Id"

// LocalRequestID key del request id en c.Locals.
const LocalRequestID = "request_id"

// RequestID asigna un identificador de correlación a cada petición. Si el
// cliente ya envía uno se respeta; si no, se genera un UUID v4.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalRequestID, rid)
		c.Set(HeaderRequestID, rid)
		return c.Next()
	}
}

// GetRequestID devuelve el request id del contexto.
func GetRequestID(c *fiber.Ctx) string {
	v := c.Locals(LocalRequestID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
