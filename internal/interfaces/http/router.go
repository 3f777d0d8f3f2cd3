package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-tareas/internal/application/access"
	"github.com/jhoicas/gestor-tareas/internal/application/analytics"
	"github.com/jhoicas/gestor-tareas/internal/application/auth"
	"github.com/jhoicas/gestor-tareas/internal/application/tasks"
	"github.com/jhoicas/gestor-tareas/internal/application/usecase"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CompanyUC  *usecase.CompanyUseCase
	ProjectUC  *usecase.ProjectUseCase
	UserUC     *usecase.UserUseCase
	Lifecycle  *tasks.LifecycleUseCase
	Dashboard  *analytics.DashboardUseCase
	Authorizer *access.Authorizer
	Active     *access.ActiveProjects
	JWTSecret  string
	// LoginLimiter opcional; sin él el login no se limita.
	LoginLimiter fiber.Handler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	if deps.LoginLimiter != nil {
		api.Post("/auth/login", deps.LoginLimiter, authHandler.Login)
	} else {
		api.Post("/auth/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token de un usuario activo)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC))
	protected.Get("/auth/me", authHandler.Me)

	// Empresas: alta, edición y baja solo superadmin
	companies := protected.Group("/empresas")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Post("/", RequireRole(entity.RoleSuperadmin), companyHandler.Create)
	companies.Put("/:id", RequireRole(entity.RoleSuperadmin), companyHandler.Update)
	companies.Delete("/:id", RequireRole(entity.RoleSuperadmin), companyHandler.Delete)

	// Usuarios
	users := protected.Group("/usuarios")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", RequireRole(entity.RoleSuperadmin, entity.RoleSupervisor), userHandler.List)
	users.Post("/", RequireRole(entity.RoleSuperadmin, entity.RoleSupervisor), userHandler.Create)
	users.Put("/:id", userHandler.Update)

	// Proyectos y proyecto activo de la sesión
	projects := protected.Group("/proyectos")
	projectHandler := NewProjectHandler(deps.ProjectUC, deps.Active)
	projects.Get("/", projectHandler.List)
	projects.Post("/", RequireRole(entity.RoleSuperadmin, entity.RoleSupervisor), projectHandler.Create)
	projects.Get("/activo", projectHandler.GetActive)
	projects.Post("/activo", projectHandler.SelectActive)
	projects.Delete("/activo", projectHandler.ClearActive)
	projects.Post("/:id/terminar", RequireRole(entity.RoleSuperadmin, entity.RoleSupervisor), projectHandler.Terminate)

	// Tareas y dashboard de un proyecto
	// /proyectos/activo/... opera sobre el proyecto activo de la sesión.
	var active activeProjectResolver
	if deps.Active != nil {
		active = deps.Active
	}
	scope := RequireProjectAccess(deps.Authorizer, active)
	project := projects.Group("/:id")
	taskHandler := NewTaskHandler(deps.Lifecycle, deps.Authorizer)
	project.Get("/tareas", scope, taskHandler.List)
	project.Post("/tareas", scope, taskHandler.Create)
	project.Put("/tareas/:tareaId", scope, taskHandler.Update)
	project.Post("/tareas/:tareaId/estado", scope, taskHandler.ChangeStatus)
	project.Post("/tareas/:tareaId/documentos", scope, taskHandler.AttachDocument)

	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	project.Get("/dashboard", scope, dashboardHandler.Get)
	project.Get("/dashboard/pdf", scope, dashboardHandler.PDF)
	project.Get("/dashboard/csv", scope, dashboardHandler.CSV)
}
