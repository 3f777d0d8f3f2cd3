package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-tareas/internal/application/dto"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
	"github.com/jhoicas/gestor-tareas/pkg/jwt"
)

// Locals keys que deja AuthMiddleware en el contexto de Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "empresa_id"
	LocalRole      = "rol"
	LocalSessionID = "sid"
	LocalUser      = "usuario"
)

// currentUserLoader recarga el usuario del token; lo implementa *auth.AuthUseCase.
type currentUserLoader interface {
	CurrentUser(ctx context.Context, userID int) (*entity.User, error)
}

// AuthMiddleware valida el Bearer Token JWT y carga sus claims en c.Locals.
// Si users no es nil, además recarga el usuario (rechaza usuarios eliminados o inactivos)
// y toma el rol y la empresa del estado actual en lugar del token.
func AuthMiddleware(jwtSecret string, users currentUserLoader) fiber.Handler {
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
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}

		role, companyID := id.Role, id.CompanyID
		if users != nil {
			user, err := users.CurrentUser(c.UserContext(), id.UserID)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "usuario inexistente o inactivo"})
			}
			role, companyID = user.Role, user.CompanyID
			c.Locals(LocalUser, user)
		}

		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalCompanyID, companyID)
		c.Locals(LocalRole, role)
		c.Locals(LocalSessionID, id.SessionID)
		return c.Next()
	}
}

// RequireRole permite continuar solo si el rol del token es uno de roles.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no contiene rol"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para este recurso"})
	}
}

// GetUserID devuelve el UserID del contexto (0 si no pasó por AuthMiddleware).
func GetUserID(c *fiber.Ctx) int {
	v, _ := c.Locals(LocalUserID).(int)
	return v
}

// GetCompanyID devuelve la empresa del usuario; nil para el superadmin.
func GetCompanyID(c *fiber.Ctx) *int {
	v, _ := c.Locals(LocalCompanyID).(*int)
	return v
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalRole).(string)
	return v
}

// GetSessionID devuelve el id de sesión del token.
func GetSessionID(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalSessionID).(string)
	return v
}

// GetUser devuelve el usuario recargado por AuthMiddleware (nil si no se recargó).
func GetUser(c *fiber.Ctx) *entity.User {
	v, _ := c.Locals(LocalUser).(*entity.User)
	return v
}
