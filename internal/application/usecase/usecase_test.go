package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-tareas/internal/application/access"
	"github.com/jhoicas/gestor-tareas/internal/application/dto"
	"github.com/jhoicas/gestor-tareas/internal/application/store"
	"github.com/jhoicas/gestor-tareas/internal/application/usecase"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
	"github.com/jhoicas/gestor-tareas/internal/infrastructure/filestore"
	"github.com/jhoicas/gestor-tareas/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	dir       string
	store     *store.EntityStore
	companies *usecase.CompanyUseCase
	projects  *usecase.ProjectUseCase
	users     *usecase.UserUseCase
	admin     *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	s := store.New(filestore.New(dir), logger.Nop())
	admin := entity.User{ID: 1, Name: "Admin", Email: "admin@sistema.com", Role: entity.RoleSuperadmin, Active: true}
	require.NoError(t, s.WriteUsers(context.Background(), &store.UserDocument{Users: []entity.User{admin}, NextID: 2}))

	auth := access.NewAuthorizer(s, access.Policy{})
	return &fixture{
		dir:       dir,
		store:     s,
		companies: usecase.NewCompanyUseCase(s, auth, logger.Nop()),
		projects:  usecase.NewProjectUseCase(s, auth, logger.Nop()),
		users:     usecase.NewUserUseCase(s, auth, logger.Nop()),
		admin:     &admin,
	}
}

func companyRequest(name, prefix string) dto.CreateCompanyRequest {
	return dto.CreateCompanyRequest{
		Name:       name,
		Supervisor: dto.SeedUserRequest{Name: "Sofía", Email: prefix + ".supervisor@correo.com", Password: "supervisor123"},
		Ejecutor:   dto.SeedUserRequest{Name: "Elena", Email: prefix + ".ejecutor@correo.com", Password: "ejecutor123"},
	}
}

func (f *fixture) setupCompany(t *testing.T, in dto.CreateCompanyRequest) *dto.CompanySetupResponse {
	t.Helper()
	out, err := f.companies.CreateCompanyWithProjectAndUsers(context.Background(), f.admin, in)
	require.NoError(t, err)
	return out
}

// user devuelve una copia del usuario persistido, para usarlo como actor.
func (f *fixture) user(t *testing.T, id int) *entity.User {
	t.Helper()
	u := f.store.ReadUsers(context.Background()).Find(id)
	require.NotNil(t, u)
	c := *u
	return &c
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
