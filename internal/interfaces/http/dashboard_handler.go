package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-tareas/internal/application/analytics"
	"github.com/jhoicas/gestor-tareas/internal/application/dto"
)

// DashboardHandler maneja el dashboard de un proyecto y su exportación a PDF.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Get devuelve estadísticas del proyecto y la lista de tareas filtrada.
// GET /api/proyectos/:id/dashboard?centro=&responsable=&situacion=&plazo=
//
// Las estadísticas siempre cubren todas las tareas; los filtros solo afectan a "tareas".
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	var criteria analytics.Criteria
	if err := c.QueryParser(&criteria); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	d, err := h.uc.Get(c.UserContext(), GetUser(c), GetProjectID(c), criteria, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(d)
}

// PDF descarga el mismo dashboard como documento PDF.
// GET /api/proyectos/:id/dashboard/pdf
func (h *DashboardHandler) PDF(c *fiber.Ctx) error {
	var criteria analytics.Criteria
	if err := c.QueryParser(&criteria); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	pdfBytes, filename, err := h.uc.Report(c.UserContext(), GetUser(c), GetProjectID(c), criteria, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdfBytes)
}

// CSV descarga las tareas filtradas del dashboard como CSV UTF-8 con BOM.
// GET /api/proyectos/:id/dashboard/csv
func (h *DashboardHandler) CSV(c *fiber.Ctx) error {
	var criteria analytics.Criteria
	if err := c.QueryParser(&criteria); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	data, filename, err := h.uc.ExportCSV(c.UserContext(), GetUser(c), GetProjectID(c), criteria, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
