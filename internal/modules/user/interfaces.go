package user

import (
	"context"

	"crowdfund/internal/domain"
)

// UserRepositoryInterface — only the methods the user service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
}

type jwtService interface {
	GenerateToken(userID int64, username, role string) (string, error)
	GenerateRefreshToken(userID int64) (string, error)
}
