package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-tareas/internal/application/access"
	"github.com/jhoicas/gestor-tareas/internal/application/analytics"
	"github.com/jhoicas/gestor-tareas/internal/application/dto"
	"github.com/jhoicas/gestor-tareas/internal/application/tasks"
)

// TaskHandler maneja las tareas de un proyecto. Todas las rutas pasan antes por
// RequireProjectAccess, así que el proyecto ya existe y es visible para el usuario.
type TaskHandler struct {
	uc   *tasks.LifecycleUseCase
	auth *access.Authorizer
}

// NewTaskHandler construye el handler.
func NewTaskHandler(uc *tasks.LifecycleUseCase, auth *access.Authorizer) *TaskHandler {
	return &TaskHandler{uc: uc, auth: auth}
}

// List godoc
// @Summary      Listar tareas del proyecto (con filtros opcionales)
// @Tags         tareas
// @Produce      json
// @Security     BearerAuth
// @Param        id           path   string  true   "ID del proyecto o activo"
// @Param        centro       query  string  false  "Centro de responsabilidad o all"
// @Param        responsable  query  string  false  "Responsable o all"
// @Param        situacion    query  string  false  "Situación o all"
// @Param        plazo        query  string  false  "overdue | upcoming | noDeadline | all"
// @Success      200  {object}  dto.ListResponse[entity.Task]
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/tareas [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	var criteria analytics.Criteria
	if err := c.QueryParser(&criteria); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	list, err := h.uc.ListTasks(c.UserContext(), GetProjectID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(analytics.FilterTasks(list, criteria, time.Now())))
}

// Create godoc
// @Summary      Crear tarea
// @Tags         tareas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "ID del proyecto o activo"
// @Param        body  body  dto.CreateTaskRequest  true  "Datos de la tarea"
// @Success      201   {object}  entity.Task
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/tareas [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTaskRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	projectID := GetProjectID(c)
	if err := h.auth.Authorize(c.UserContext(), GetUser(c), access.ProjectResource(projectID), access.ActionEdit); err != nil {
		return respondError(c, err)
	}
	task, err := h.uc.CreateTask(c.UserContext(), projectID, tasks.CreateTaskInput{
		Text:           in.Text,
		Responsible:    in.Responsible,
		Center:         in.Center,
		Deadline:       in.Deadline,
		Observation:    in.Observation,
		Resources:      in.Resources,
		AssignedUserID: in.AssignedUserID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// Update godoc
// @Summary      Actualizar campos de una tarea (no cambia la situación)
// @Tags         tareas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                 true  "ID del proyecto o activo"
// @Param        tareaId  path  int                    true  "ID de la tarea"
// @Param        body     body  dto.UpdateTaskRequest  true  "Campos a modificar"
// @Success      200  {object}  entity.Task
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/tareas/{tareaId} [put]
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	taskID, ok := paramID(c, "tareaId")
	if !ok {
		return badID(c)
	}
	var in dto.UpdateTaskRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	projectID := GetProjectID(c)
	if err := h.auth.Authorize(c.UserContext(), GetUser(c), access.TaskResource(projectID, taskID), access.ActionEdit); err != nil {
		return respondError(c, err)
	}
	task, err := h.uc.UpdateTask(c.UserContext(), projectID, taskID, tasks.UpdateTaskInput{
		Text:           in.Text,
		Responsible:    in.Responsible,
		Center:         in.Center,
		Deadline:       in.Deadline,
		Observation:    in.Observation,
		Resources:      in.Resources,
		AssignedUserID: in.AssignedUserID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}

// ChangeStatus godoc
// @Summary      Cambiar la situación de una tarea
// @Tags         tareas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                   true  "ID del proyecto o activo"
// @Param        tareaId  path  int                      true  "ID de la tarea"
// @Param        body     body  dto.ChangeStatusRequest  true  "Nueva situación"
// @Success      200  {object}  entity.Task
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/tareas/{tareaId}/estado [post]
func (h *TaskHandler) ChangeStatus(c *fiber.Ctx) error {
	taskID, ok := paramID(c, "tareaId")
	if !ok {
		return badID(c)
	}
	var in dto.ChangeStatusRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	projectID := GetProjectID(c)
	user := GetUser(c)
	if err := h.auth.Authorize(c.UserContext(), user, access.TaskResource(projectID, taskID), access.ActionEdit); err != nil {
		return respondError(c, err)
	}
	task, err := h.uc.ChangeStatus(c.UserContext(), projectID, taskID, in.Status, user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}

// AttachDocument godoc
// @Summary      Registrar un documento adjunto
// @Tags         tareas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                     true  "ID del proyecto o activo"
// @Param        tareaId  path  int                        true  "ID de la tarea"
// @Param        body     body  dto.AttachDocumentRequest  true  "Nombre del archivo"
// @Success      200  {object}  entity.Task
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/tareas/{tareaId}/documentos [post]
func (h *TaskHandler) AttachDocument(c *fiber.Ctx) error {
	taskID, ok := paramID(c, "tareaId")
	if !ok {
		return badID(c)
	}
	var in dto.AttachDocumentRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	projectID := GetProjectID(c)
	if err := h.auth.Authorize(c.UserContext(), GetUser(c), access.TaskResource(projectID, taskID), access.ActionEdit); err != nil {
		return respondError(c, err)
	}
	task, err := h.uc.AttachDocument(c.UserContext(), projectID, taskID, in.Filename)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}
