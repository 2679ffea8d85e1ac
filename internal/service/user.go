package service

import (
	"context"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Get(ctx context.Context, id int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) Update(ctx context.Context, user *domain.User) error {
	current, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	if user.Role == "" {
		user.Role = current.Role
	}
	if user.Role != domain.UserRoleAdmin && user.Role != domain.UserRoleMember {
		return domain.BadRequestError("role must be ADMIN or MEMBER")
	}
	return s.userRepo.Update(ctx, user)
}

func (s *userService) Delete(ctx context.Context, id int32) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("User deleted", "user_id", id)
	return nil
}
