package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestor-tareas/internal/application/dto"
	"github.com/jhoicas/gestor-tareas/internal/application/store"
	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
	"github.com/jhoicas/gestor-tareas/pkg/jwt"
	"github.com/jhoicas/gestor-tareas/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// SuperadminSeed credenciales del superadmin inicial.
type SuperadminSeed struct {
	Email    string
	Password string
	Name     string
}

// AuthUseCase casos de uso de autenticación: credenciales, login y superadmin inicial.
type AuthUseCase struct {
	store  *store.EntityStore
	jwtCfg JWTConfig
	log    *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(s *store.EntityStore, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{store: s, jwtCfg: jwtCfg, log: log.Named("auth")}
}

// ValidateCredentials verifica email/password. Cualquier fallo (usuario inexistente, contraseña
// incorrecta, usuario inactivo o empresa inactiva) devuelve domain.ErrForbidden sin distinguir la causa.
func (uc *AuthUseCase) ValidateCredentials(ctx context.Context, identifier, password string) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(identifier))
	u := uc.store.ReadUsers(ctx).FindByEmail(email)
	if u == nil {
		return nil, domain.ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrForbidden
	}
	if !u.Active {
		return nil, domain.ErrForbidden
	}
	if u.CompanyID != nil {
		c := uc.store.ReadCompanies(ctx).Find(*u.CompanyID)
		if c == nil || !c.Active {
			return nil, domain.ErrForbidden
		}
	}
	user := *u
	return &user, nil
}

// Login valida credenciales y emite un JWT con un id de sesión nuevo.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.ValidateCredentials(ctx, in.Email, in.Password)
	if err != nil {
		uc.log.Warn().Str("email", in.Email).Msg("login rechazado")
		return nil, err
	}
	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      user.Role,
		SessionID: uuid.NewString(),
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.UserFromEntity(*user),
	}, nil
}

// CurrentUser recarga el usuario del token. domain.ErrUnauthenticated si ya no existe o
// fue desactivado.
func (uc *AuthUseCase) CurrentUser(ctx context.Context, userID int) (*entity.User, error) {
	u := uc.store.ReadUsers(ctx).Find(userID)
	if u == nil || !u.Active {
		return nil, domain.ErrUnauthenticated
	}
	user := *u
	return &user, nil
}

// BootstrapSuperadmin crea el superadmin inicial si no existe ninguno. Devuelve false si no
// hizo nada (sin credenciales configuradas o ya hay un superadmin).
func (uc *AuthUseCase) BootstrapSuperadmin(ctx context.Context, seed SuperadminSeed) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	if email == "" {
		return false, nil
	}
	if seed.Password == "" {
		return false, fmt.Errorf("superadmin inicial sin contraseña: %w", domain.ErrInvalidInput)
	}
	name := strings.TrimSpace(seed.Name)
	if name == "" {
		name = email
	}

	unlock := uc.store.LockAdmin()
	defer unlock()

	users, err := uc.store.ReadUsersForUpdate(ctx)
	if err != nil {
		return false, err
	}
	for _, u := range users.Users {
		if u.IsSuperadmin() {
			return false, nil
		}
	}
	if users.FindByEmail(email) != nil {
		return false, fmt.Errorf("%s: %w", email, domain.ErrEmailAlreadyExists)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	u := entity.User{
		ID:           users.AllocateID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleSuperadmin,
		Active:       true,
	}
	users.Users = append(users.Users, u)
	if err := uc.store.WriteUsers(ctx, users); err != nil {
		return false, err
	}
	uc.log.Info().Int("usuario", u.ID).Str("email", email).Msg("superadmin inicial creado")
	return true, nil
}
