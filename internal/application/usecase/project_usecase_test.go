package usecase_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-tareas/internal/application/dto"
	"github.com/jhoicas/gestor-tareas/internal/application/store"
	"github.com/jhoicas/gestor-tareas/internal/domain"
)

func TestProjectCreate_LimiteDeLicencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := companyRequest("Acme", "acme")
	req.MaxProjects = 2
	acme := f.setupCompany(t, req)
	sup := f.user(t, acme.Supervisor.ID)

	second, err := f.projects.Create(ctx, sup, dto.CreateProjectRequest{Name: " Oficina "})
	require.NoError(t, err)
	assert.Equal(t, "Oficina", second.Name)
	assert.Equal(t, acme.Company.ID, second.CompanyID)
	assert.Empty(t, f.store.ReadTasks(ctx, second.ID).Tasks)
	assert.FileExists(t, filepath.Join(f.dir, store.TaskKey(second.ID)+".json"))

	_, err = f.projects.Create(ctx, sup, dto.CreateProjectRequest{Name: "Tercero"})
	assert.ErrorIs(t, err, domain.ErrLicenseLimit)

	_, err = f.projects.Terminate(ctx, sup, second.ID)
	require.NoError(t, err)

	_, err = f.projects.Create(ctx, sup, dto.CreateProjectRequest{Name: "Tercero"})
	assert.NoError(t, err, "los proyectos terminados no cuentan para el límite")
}

func TestProjectCreate_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acme := f.setupCompany(t, companyRequest("Acme", "acme"))
	globex := f.setupCompany(t, companyRequest("Globex", "globex"))
	sup := f.user(t, acme.Supervisor.ID)

	_, err := f.projects.Create(ctx, sup, dto.CreateProjectRequest{CompanyID: intPtr(globex.Company.ID), Name: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.projects.Create(ctx, f.user(t, acme.Ejecutor.ID), dto.CreateProjectRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.projects.Create(ctx, f.admin, dto.CreateProjectRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el superadmin debe indicar la empresa")

	_, err = f.projects.Create(ctx, f.admin, dto.CreateProjectRequest{CompanyID: intPtr(99), Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.projects.Create(ctx, sup, dto.CreateProjectRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := f.projects.Create(ctx, f.admin, dto.CreateProjectRequest{CompanyID: intPtr(globex.Company.ID), Name: "Planta"})
	require.NoError(t, err)
	assert.Equal(t, globex.Company.ID, p.CompanyID)
}

func TestProjectTerminate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acme := f.setupCompany(t, companyRequest("Acme", "acme"))
	sup := f.user(t, acme.Supervisor.ID)
	eje := f.user(t, acme.Ejecutor.ID)

	_, err := f.projects.Terminate(ctx, eje, acme.Project.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := f.projects.Terminate(ctx, sup, acme.Project.ID)
	require.NoError(t, err)
	assert.True(t, got.Terminated)
	require.NotNil(t, got.TerminatedAt)

	_, err = f.projects.Terminate(ctx, sup, acme.Project.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "un proyecto terminado deja de ser visible para la empresa")

	_, err = f.projects.Terminate(ctx, f.admin, acme.Project.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	visible, err := f.projects.List(ctx, eje)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := f.projects.List(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Terminated, "los datos del proyecto se conservan")
}
