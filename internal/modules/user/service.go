package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"crowdfund/internal/domain"
	"crowdfund/internal/pkg/cache"
)

const cacheRegion = "users"

// Service contains all identity business logic: registration, login,
// profile maintenance and the admin role/password operations.
type Service struct {
	users UserRepositoryInterface
	jwt   jwtService
	cache cache.Cache
}

func NewService(users UserRepositoryInterface, jwt jwtService, c cache.Cache) *Service {
	return &Service{users: users, jwt: jwt, cache: c}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := s.validateUnique(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         domain.RoleUser,
		Enabled:      true,
	}

	if err := s.users.Create(ctx, u); err != nil {
		// the exists checks above race against concurrent registrations;
		// the unique index is the backstop
		return nil, mapUniqueViolation(err)
	}

	s.cache.EvictRegion(cacheRegion)
	u.PasswordHash = ""
	return u, nil
}

func (s *Service) Authenticate(ctx context.Context, req LoginRequest) (*JwtResponse, error) {
	u, err := s.users.GetByUsernameOrEmail(ctx, req.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !u.Enabled {
		return nil, ErrAccountDisabled
	}

	access, err := s.jwt.GenerateToken(u.ID, u.Username, string(u.Role))
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	return &JwtResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         string(u.Role),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	key := strconv.FormatInt(id, 10)
	if v, ok := s.cache.Get(cacheRegion, key); ok {
		return v.(*domain.User), nil
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, err
	}

	u.PasswordHash = ""
	s.cache.Set(cacheRegion, key, u)
	return u, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: email %s", ErrNotFound, email)
		}
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, total, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, err
	}

	newUsername := strings.TrimSpace(req.Username)
	newEmail := strings.ToLower(strings.TrimSpace(req.Email))

	if u.Username != newUsername {
		taken, err := s.users.ExistsByUsername(ctx, newUsername)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
	}
	if u.Email != newEmail {
		taken, err := s.users.ExistsByEmail(ctx, newEmail)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	u.Username = newUsername
	u.Email = newEmail
	u.FirstName = req.FirstName
	u.LastName = req.LastName

	if req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, mapUniqueViolation(err)
	}

	s.cache.EvictRegion(cacheRegion)
	u.PasswordHash = ""
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return err
	}
	s.cache.EvictRegion(cacheRegion)
	return nil
}

// UpdateRole parses the role token case-insensitively; an unknown token is
// rejected with the offending input in the message.
func (s *Service) UpdateRole(ctx context.Context, id int64, roleToken string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, err
	}

	role, ok := domain.ParseUserRole(roleToken)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, roleToken)
	}

	u.Role = role
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	s.cache.EvictRegion(cacheRegion)
	u.PasswordHash = ""
	return u, nil
}

func (s *Service) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash

	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	s.cache.Evict(cacheRegion, strconv.FormatInt(id, 10))
	return nil
}

func (s *Service) validateUnique(ctx context.Context, username, email string) error {
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return ErrEmailTaken
		}
		return ErrUsernameTaken
	}
	return err
}
