package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestor-tareas/internal/application/access"
	"github.com/jhoicas/gestor-tareas/internal/application/dto"
	"github.com/jhoicas/gestor-tareas/internal/application/store"
	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
	"github.com/jhoicas/gestor-tareas/pkg/logger"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 8

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	store *store.EntityStore
	auth  *access.Authorizer
	log   *logger.Logger
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(s *store.EntityStore, auth *access.Authorizer, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{store: s, auth: auth, log: log.Named("usuarios")}
}

// Create crea un usuario. El email es único en todo el sistema; los usuarios de empresa
// cuentan para el límite de la licencia.
func (uc *UserUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	role := strings.TrimSpace(in.Role)
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("rol %q: %w", in.Role, domain.ErrInvalidInput)
	}
	u, err := newUser(in.Name, in.Email, in.Password, role)
	if err != nil {
		return nil, err
	}
	if role == entity.RoleSuperadmin {
		if err := requireSuperadmin(actor); err != nil {
			return nil, err
		}
		if in.CompanyID != nil {
			return nil, fmt.Errorf("un superadmin no pertenece a una empresa: %w", domain.ErrInvalidInput)
		}
	} else {
		companyID, err := targetCompany(actor, in.CompanyID)
		if err != nil {
			return nil, err
		}
		if err := uc.auth.Authorize(ctx, actor, access.CompanyResource(companyID), access.ActionManage); err != nil {
			return nil, err
		}
		u.CompanyID = intPtr(companyID)
	}

	unlock := uc.store.LockAdmin()
	defer unlock()

	users, err := uc.store.ReadUsersForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	if users.FindByEmail(u.Email) != nil {
		return nil, fmt.Errorf("%s: %w", u.Email, domain.ErrEmailAlreadyExists)
	}
	if u.CompanyID != nil {
		companies, err := uc.store.ReadCompaniesForUpdate(ctx)
		if err != nil {
			return nil, err
		}
		company := companies.Find(*u.CompanyID)
		if company == nil {
			return nil, domain.ErrNotFound
		}
		if n := users.CountByCompany(company.ID); !company.AllowsUsers(n) {
			return nil, fmt.Errorf("empresa %d con %d usuarios: %w", company.ID, n, domain.ErrLicenseLimit)
		}
	}
	u.ID = users.AllocateID()
	users.Users = append(users.Users, *u)
	if err := uc.store.WriteUsers(ctx, users); err != nil {
		return nil, err
	}
	uc.log.Info().Int("usuario", u.ID).Str("rol", u.Role).Int("actor", actor.ID).Msg("usuario creado")
	out := dto.UserFromEntity(*u)
	return &out, nil
}

// Update edita un usuario. Cada uno puede editar sus datos; rol y estado solo los cambia
// un supervisor o el superadmin.
func (uc *UserUseCase) Update(ctx context.Context, actor *entity.User, userID int, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := uc.auth.Authorize(ctx, actor, access.UserResource(userID), access.ActionEdit); err != nil {
		return nil, err
	}
	if (in.Role != nil || in.Active != nil) && !actor.CanValidate() {
		return nil, domain.ErrForbidden
	}
	var hash string
	if in.Password != nil {
		h, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	unlock := uc.store.LockAdmin()
	defer unlock()

	users, err := uc.store.ReadUsersForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	target := users.Find(userID)
	if target == nil {
		return nil, domain.ErrNotFound
	}
	updated := *target
	if in.Name != nil {
		updated.Name = strings.TrimSpace(*in.Name)
		if updated.Name == "" {
			return nil, fmt.Errorf("el nombre es obligatorio: %w", domain.ErrInvalidInput)
		}
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if other := users.FindByEmail(email); other != nil && other.ID != userID {
			return nil, fmt.Errorf("%s: %w", email, domain.ErrEmailAlreadyExists)
		}
		updated.Email = email
	}
	if hash != "" {
		updated.PasswordHash = hash
	}
	if in.Role != nil {
		role := strings.TrimSpace(*in.Role)
		if !entity.ValidRole(role) {
			return nil, fmt.Errorf("rol %q: %w", *in.Role, domain.ErrInvalidInput)
		}
		if (role == entity.RoleSuperadmin) != (updated.Role == entity.RoleSuperadmin) {
			return nil, fmt.Errorf("no se puede cambiar de o a superadmin: %w", domain.ErrInvalidInput)
		}
		updated.Role = role
	}
	if in.Active != nil {
		if userID == actor.ID && !*in.Active {
			return nil, fmt.Errorf("un usuario no puede desactivarse a sí mismo: %w", domain.ErrInvalidInput)
		}
		updated.Active = *in.Active
	}
	*target = updated
	if err := uc.store.WriteUsers(ctx, users); err != nil {
		return nil, err
	}
	out := dto.UserFromEntity(updated)
	return &out, nil
}

// List devuelve todos los usuarios al superadmin y los de su empresa a un supervisor.
func (uc *UserUseCase) List(ctx context.Context, actor *entity.User) ([]dto.UserResponse, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	users := uc.store.ReadUsers(ctx)
	items := []dto.UserResponse{}
	if actor.IsSuperadmin() {
		for _, u := range users.Users {
			items = append(items, dto.UserFromEntity(u))
		}
		return items, nil
	}
	if actor.CompanyID == nil {
		return nil, domain.ErrForbidden
	}
	if err := uc.auth.Authorize(ctx, actor, access.CompanyResource(*actor.CompanyID), access.ActionManage); err != nil {
		return nil, err
	}
	for _, u := range users.Users {
		if u.BelongsTo(*actor.CompanyID) {
			items = append(items, dto.UserFromEntity(u))
		}
	}
	return items, nil
}

// newUser valida y construye un usuario activo con la contraseña hasheada (bcrypt).
func newUser(name, email, password, role string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("el nombre es obligatorio: %w", domain.ErrInvalidInput)
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return "", fmt.Errorf("email %q: %w", raw, domain.ErrInvalidInput)
	}
	return email, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("la contraseña debe tener al menos %d caracteres: %w", MinPasswordLength, domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func requireSuperadmin(actor *entity.User) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if !actor.IsSuperadmin() {
		return domain.ErrForbidden
	}
	return nil
}

// targetCompany resuelve la empresa sobre la que actúa el usuario: el superadmin debe
// indicarla; el resto solo puede actuar sobre la suya.
func targetCompany(actor *entity.User, requested *int) (int, error) {
	if actor == nil {
		return 0, domain.ErrUnauthenticated
	}
	if actor.IsSuperadmin() {
		if requested == nil || *requested <= 0 {
			return 0, fmt.Errorf("empresa_id es obligatorio: %w", domain.ErrInvalidInput)
		}
		return *requested, nil
	}
	if actor.CompanyID == nil {
		return 0, domain.ErrForbidden
	}
	if requested != nil && *requested != *actor.CompanyID {
		return 0, domain.ErrForbidden
	}
	return *actor.CompanyID, nil
}

func intPtr(v int) *int { return &v }
