package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestor-tareas/internal/application/auth"
	"github.com/jhoicas/gestor-tareas/internal/application/dto"
	"github.com/jhoicas/gestor-tareas/internal/application/store"
	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
	"github.com/jhoicas/gestor-tareas/internal/infrastructure/filestore"
	"github.com/jhoicas/gestor-tareas/pkg/jwt"
	"github.com/jhoicas/gestor-tareas/pkg/logger"
)

const secret = "secreto-de-prueba"

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newAuth(t *testing.T) (*auth.AuthUseCase, *store.EntityStore) {
	t.Helper()
	s := store.New(filestore.New(t.TempDir()), logger.Nop())
	ctx := context.Background()
	one, two := 1, 2
	require.NoError(t, s.WriteCompanies(ctx, &store.CompanyDocument{
		Companies: []entity.Company{{ID: 1, Name: "Acme", Active: true}, {ID: 2, Name: "Cerrada", Active: false}},
		NextID:    3,
	}))
	require.NoError(t, s.WriteUsers(ctx, &store.UserDocument{
		Users: []entity.User{
			{ID: 1, Name: "Sofía", Email: "sofia@acme.com", PasswordHash: hash(t, "clave-sofia"), Role: entity.RoleSupervisor, CompanyID: &one, Active: true},
			{ID: 2, Name: "Baja", Email: "baja@acme.com", PasswordHash: hash(t, "clave-baja"), Role: entity.RoleEjecutor, CompanyID: &one, Active: false},
			{ID: 3, Name: "Otro", Email: "otro@cerrada.com", PasswordHash: hash(t, "clave-otro"), Role: entity.RoleEjecutor, CompanyID: &two, Active: true},
		},
		NextID: 4,
	}))
	uc := auth.NewAuthUseCase(s, auth.JWTConfig{Secret: secret, ExpMinutes: 30, Issuer: "test"}, logger.Nop())
	return uc, s
}

func TestValidateCredentials(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	u, err := uc.ValidateCredentials(ctx, " SOFIA@acme.com ", "clave-sofia")
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)

	tests := []struct {
		name, email, password string
	}{
		{"contraseña incorrecta", "sofia@acme.com", "otra"},
		{"usuario inexistente", "nadie@acme.com", "clave-sofia"},
		{"usuario inactivo", "baja@acme.com", "clave-baja"},
		{"empresa inactiva", "otro@cerrada.com", "clave-otro"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.ValidateCredentials(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, domain.ErrForbidden)
		})
	}
}

func TestLogin_EmiteTokenConSesion(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	first, err := uc.Login(ctx, dto.LoginRequest{Email: "sofia@acme.com", Password: "clave-sofia"})
	require.NoError(t, err)
	assert.Equal(t, "sofia@acme.com", first.User.Email)

	id, err := jwt.Parse(secret, first.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, id.UserID)
	assert.Equal(t, entity.RoleSupervisor, id.Role)
	assert.NotEmpty(t, id.SessionID)

	second, err := uc.Login(ctx, dto.LoginRequest{Email: "sofia@acme.com", Password: "clave-sofia"})
	require.NoError(t, err)
	id2, err := jwt.Parse(secret, second.Token)
	require.NoError(t, err)
	assert.NotEqual(t, id.SessionID, id2.SessionID, "cada login abre una sesión distinta")

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "sofia@acme.com", Password: "mal"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCurrentUser(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	u, err := uc.CurrentUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Sofía", u.Name)

	_, err = uc.CurrentUser(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = uc.CurrentUser(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestBootstrapSuperadmin(t *testing.T) {
	uc, s := newAuth(t)
	ctx := context.Background()

	created, err := uc.BootstrapSuperadmin(ctx, auth.SuperadminSeed{})
	require.NoError(t, err)
	assert.False(t, created, "sin email configurado no se crea")

	_, err = uc.BootstrapSuperadmin(ctx, auth.SuperadminSeed{Email: "sofia@acme.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	created, err = uc.BootstrapSuperadmin(ctx, auth.SuperadminSeed{Email: "Admin@Sistema.com", Password: "admin-inicial"})
	require.NoError(t, err)
	assert.True(t, created)

	admin := s.ReadUsers(ctx).FindByEmail("admin@sistema.com")
	require.NotNil(t, admin)
	assert.Equal(t, entity.RoleSuperadmin, admin.Role)
	assert.Nil(t, admin.CompanyID)
	assert.Equal(t, 4, admin.ID)

	created, err = uc.BootstrapSuperadmin(ctx, auth.SuperadminSeed{Email: "otro@sistema.com", Password: "x"})
	require.NoError(t, err)
	assert.False(t, created, "ya existe un superadmin")

	u, err := uc.ValidateCredentials(ctx, "admin@sistema.com", "admin-inicial")
	require.NoError(t, err)
	assert.True(t, u.IsSuperadmin())
}
