package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reqtrack/internal/apperror"
	"reqtrack/internal/authz"
	"reqtrack/internal/model"
	"reqtrack/internal/repository"
)

type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	FullName    string `json:"full_name"`
	Role        string `json:"role" binding:"required"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

type UpdateUserRequest struct {
	FullName    *string `json:"full_name"`
	Role        *string `json:"role"`
	Department  *string `json:"department"`
	Designation *string `json:"designation"`
	IsActive    *bool   `json:"is_active"`
	Password    *string `json:"password"`
}

// UserService covers admin-side member management within one organization.
type UserService interface {
	CreateUser(ctx context.Context, actorID uuid.UUID, req CreateUserRequest) (*model.User, error)
	UpdateUser(ctx context.Context, actorID, id uuid.UUID, req UpdateUserRequest) (*model.User, error)
	GetUser(ctx context.Context, actorID, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context, actorID uuid.UUID) ([]model.User, error)
}

type userService struct {
	users      repository.UserRepository
	audits     repository.AuditRepository
	authorizer Authorizer
}

func NewUserService(users repository.UserRepository, audits repository.AuditRepository, authorizer Authorizer) UserService {
	return &userService{users: users, audits: audits, authorizer: authorizer}
}

// admin resolves the caller and checks the user-management grant.
func (s *userService) admin(ctx context.Context, actorID uuid.UUID) (*model.User, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !actor.IsActive {
		return nil, apperror.Forbidden("user account is deactivated")
	}
	allowed, err := s.authorizer.CanPerform(actor.Role, authz.ActManageUsers)
	if err != nil {
		return nil, fmt.Errorf("authorization check failed: %w", err)
	}
	if !allowed {
		return nil, apperror.Forbidden("only admins may manage users")
	}
	return actor, nil
}

func (s *userService) CreateUser(ctx context.Context, actorID uuid.UUID, req CreateUserRequest) (*model.User, error) {
	actor, err := s.admin(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if !model.ValidRole(req.Role) {
		return nil, apperror.Validation("invalid role " + req.Role)
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Conflict("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		OrganizationID: actor.OrganizationID,
		Email:          req.Email,
		PasswordHash:   string(hash),
		FullName:       req.FullName,
		Role:           req.Role,
		Department:     req.Department,
		Designation:    req.Designation,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	entry := model.AuditLog{
		OrganizationID: &actor.OrganizationID,
		UserID:         &actor.ID,
		Action:         model.ActionCreateUser,
		EntityID:       user.ID.String(),
		EntityName:     user.Email,
	}
	if err := s.audits.Create(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to write audit log: %w", err)
	}

	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, actorID, id uuid.UUID, req UpdateUserRequest) (*model.User, error) {
	actor, err := s.admin(ctx, actorID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.OrganizationID != actor.OrganizationID {
		return nil, apperror.NotFound("user not found")
	}

	if req.Role != nil {
		if !model.ValidRole(*req.Role) {
			return nil, apperror.Validation("invalid role " + *req.Role)
		}
		user.Role = *req.Role
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Designation != nil {
		user.Designation = *req.Designation
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	entry := model.AuditLog{
		OrganizationID: &actor.OrganizationID,
		UserID:         &actor.ID,
		Action:         model.ActionUpdateUser,
		EntityID:       user.ID.String(),
		EntityName:     user.Email,
	}
	if err := s.audits.Create(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to write audit log: %w", err)
	}

	return user, nil
}

func (s *userService) GetUser(ctx context.Context, actorID, id uuid.UUID) (*model.User, error) {
	actor, err := s.admin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.OrganizationID != actor.OrganizationID {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, actorID uuid.UUID) ([]model.User, error) {
	actor, err := s.admin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.ListByOrg(ctx, actor.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
