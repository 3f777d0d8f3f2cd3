package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-tareas/internal/application/access"
	"github.com/jhoicas/gestor-tareas/internal/application/dto"
	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// LocalProjectID key del proyecto ya autorizado por RequireProjectAccess.
const LocalProjectID = "proyecto_id"

// ActiveProjectParam valor de :id que se resuelve con el proyecto activo de la sesión.
const ActiveProjectParam = "activo"

// projectAuthorizer es el contrato mínimo que necesita el middleware; lo implementa *access.Authorizer.
type projectAuthorizer interface {
	Authorize(ctx context.Context, user *entity.User, res access.Resource, action access.Action) error
}

// activeProjectResolver lo implementa *access.ActiveProjects.
type activeProjectResolver interface {
	Get(ctx context.Context, sessionID string, user *entity.User) (int, error)
}

// RequireProjectAccess valida el parámetro :id de la ruta y que el usuario pueda ver el
// proyecto. Debe usarse DESPUÉS de AuthMiddleware (necesita LocalUser y LocalSessionID).
// Con :id = "activo" se usa el proyecto activo de la sesión (active puede ser nil si no
// hay selección de proyecto configurada).
//
// Comportamiento:
//   - 400 INVALID_ID        → :id no es un entero positivo ni "activo".
//   - 404 NOT_FOUND         → el proyecto no existe.
//   - 403 FORBIDDEN         → otra empresa, empresa inactiva o proyecto terminado.
//   - 409 NO_ACTIVE_PROJECT → "activo" sin proyecto seleccionado en la sesión.
func RequireProjectAccess(auth projectAuthorizer, active activeProjectResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Params("id") == ActiveProjectParam && active != nil {
			projectID, err := active.Get(c.UserContext(), GetSessionID(c), GetUser(c))
			if errors.Is(err, domain.ErrNotFound) {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_ACTIVE_PROJECT", Message: "no hay proyecto activo en la sesión"})
			}
			if err != nil {
				return respondError(c, err)
			}
			c.Locals(LocalProjectID, projectID)
			return c.Next()
		}

		projectID, err := c.ParamsInt("id")
		if err != nil || projectID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id de proyecto inválido"})
		}
		if err := auth.Authorize(c.UserContext(), GetUser(c), access.ProjectResource(projectID), access.ActionView); err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalProjectID, projectID)
		return c.Next()
	}
}

// GetProjectID devuelve el proyecto autorizado por RequireProjectAccess.
func GetProjectID(c *fiber.Ctx) int {
	v, _ := c.Locals(LocalProjectID).(int)
	return v
}
