package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-tareas/internal/application/access"
	"github.com/jhoicas/gestor-tareas/internal/application/dto"
	"github.com/jhoicas/gestor-tareas/internal/application/usecase"
)

// ProjectHandler maneja proyectos y la selección del proyecto activo de la sesión.
type ProjectHandler struct {
	uc     *usecase.ProjectUseCase
	active *access.ActiveProjects
}

// NewProjectHandler construye el handler.
func NewProjectHandler(uc *usecase.ProjectUseCase, active *access.ActiveProjects) *ProjectHandler {
	return &ProjectHandler{uc: uc, active: active}
}

// Create godoc
// @Summary      Crear proyecto
// @Tags         proyectos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateProjectRequest  true  "Nombre (y empresa si es superadmin)"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/proyectos [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProjectRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar proyectos accesibles
// @Tags         proyectos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ListResponse[dto.ProjectResponse]
// @Router       /api/proyectos [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// Terminate godoc
// @Summary      Terminar proyecto
// @Tags         proyectos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/terminar [post]
func (h *ProjectHandler) Terminate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	out, err := h.uc.Terminate(c.UserContext(), GetUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SelectActive godoc
// @Summary      Seleccionar el proyecto activo de la sesión
// @Tags         proyectos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.SelectProjectRequest  true  "proyecto_id"
// @Success      200   {object}  dto.ActiveProjectResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/proyectos/activo [post]
func (h *ProjectHandler) SelectActive(c *fiber.Ctx) error {
	var in dto.SelectProjectRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	if in.ProjectID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "proyecto_id es requerido"})
	}
	if err := h.active.Set(c.UserContext(), GetSessionID(c), GetUser(c), in.ProjectID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ActiveProjectResponse{ProjectID: in.ProjectID})
}

// GetActive godoc
// @Summary      Proyecto activo de la sesión
// @Tags         proyectos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ActiveProjectResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/proyectos/activo [get]
func (h *ProjectHandler) GetActive(c *fiber.Ctx) error {
	id, err := h.active.Get(c.UserContext(), GetSessionID(c), GetUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ActiveProjectResponse{ProjectID: id})
}

// ClearActive godoc
// @Summary      Quitar la selección de proyecto activo
// @Tags         proyectos
// @Security     BearerAuth
// @Success      204
// @Router       /api/proyectos/activo [delete]
func (h *ProjectHandler) ClearActive(c *fiber.Ctx) error {
	if err := h.active.Clear(c.UserContext(), GetSessionID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
