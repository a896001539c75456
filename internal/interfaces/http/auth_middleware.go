package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain/permissions"
	"github.com/jhoicas/Produccion-api/pkg/jwt"
)

// Locals keys de la identidad del operador en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalName   = "name"
	LocalRole   = "role"
)

// AuthMiddleware valida el Bearer Token JWT y carga la identidad del operador en c.Locals.
func AuthMiddleware(jwtSecret, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		id, err := jwt.Parse(jwtSecret, issuer, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalEmail, id.Email)
		c.Locals(LocalName, id.Name)
		c.Locals(LocalRole, id.Role)
		return c.Next()
	}
}

func local(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return local(c, LocalUserID) }

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string { return local(c, LocalRole) }

// GetActor arma la identidad del operador para los casos de uso.
func GetActor(c *fiber.Ctx) dto.Actor {
	return dto.Actor{
		UserID: local(c, LocalUserID),
		Email:  local(c, LocalEmail),
		Name:   local(c, LocalName),
		Role:   local(c, LocalRole),
	}
}

// GetCapabilities capacidades del rol del token.
func GetCapabilities(c *fiber.Ctx) permissions.Capabilities {
	return permissions.For(GetRole(c))
}

// RequireCapability corta con 403 si el rol no tiene la capacidad. Usar después de AuthMiddleware.
// action describe la operación en el mensaje de error.
func RequireCapability(action string, allowed func(permissions.Capabilities) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
		}
		if !allowed(GetCapabilities(c)) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol '" + GetRole(c) + "' no puede " + action,
			})
		}
		return c.Next()
	}
}

// Capacidades usadas por el router.
func canCreateProductions(c permissions.Capabilities) bool { return c.CanCreateProductions }
func canDeleteProductions(c permissions.Capabilities) bool { return c.CanDeleteProductions }
func canDeleteMovements(c permissions.Capabilities) bool   { return c.CanDeleteMovements }
func canRegisterTransfers(c permissions.Capabilities) bool { return c.CanRegisterTransfers }
func canManageUsers(c permissions.Capabilities) bool       { return c.CanManageUsers }
func canAdjustStock(c permissions.Capabilities) bool       { return c.CanAdjustStock }
