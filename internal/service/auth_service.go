package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reqtrack/internal/apperror"
	"reqtrack/internal/model"
	"reqtrack/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// DTOs

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// RegisterOrganizationRequest creates a tenant together with its first admin
// account in one shot.
type RegisterOrganizationRequest struct {
	Name              string `json:"name" binding:"required"`
	ContactEmail      string `json:"contact_email" binding:"required,email"`
	ContactPhone      string `json:"contact_phone"`
	Address           string `json:"address"`
	RequisitionPrefix string `json:"requisition_prefix"`

	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required"`
	AdminFullName string `json:"admin_full_name"`
}

type RegisterOrganizationResponse struct {
	Organization *model.Organization `json:"organization"`
	Admin        *model.User         `json:"admin"`
}

// AuthService handles login and tenant registration.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	RegisterOrganization(ctx context.Context, req RegisterOrganizationRequest) (*RegisterOrganizationResponse, error)
	CurrentOrganization(ctx context.Context, actorID uuid.UUID) (*model.Organization, error)
}

type authService struct {
	users     repository.UserRepository
	orgs      repository.OrganizationRepository
	audits    repository.AuditRepository
	tx        repository.TransactionManager
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	orgs repository.OrganizationRepository,
	audits repository.AuditRepository,
	tx repository.TransactionManager,
	jwtSecret string,
	logger *zap.Logger,
) AuthService {
	return &authService{
		users:     users,
		orgs:      orgs,
		audits:    audits,
		tx:        tx,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
		logger:    logger,
	}
}

// validatePassword enforces the minimum credential policy: at least 8
// characters with at least one letter and one digit.
func validatePassword(password string) error {
	if len(password) < 8 {
		return apperror.Validation("password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, c := range password {
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			hasLetter = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperror.Validation("password must contain at least one letter and one digit")
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperror.Validation("invalid email format")
	}
	return nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"org":  user.OrganizationID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		// Login still succeeds; losing the timestamp is acceptable.
		s.logger.Warn("failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	return &TokenResponse{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) RegisterOrganization(ctx context.Context, req RegisterOrganizationRequest) (*RegisterOrganizationResponse, error) {
	if err := validateEmail(req.AdminEmail); err != nil {
		return nil, err
	}
	if err := validatePassword(req.AdminPassword); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.AdminEmail); err == nil {
		return nil, apperror.Conflict("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	org := &model.Organization{
		Name:              req.Name,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      req.ContactPhone,
		Address:           req.Address,
		RequisitionPrefix: req.RequisitionPrefix,
		IsActive:          true,
		SubscriptionPlan:  model.PlanFree,
	}
	admin := &model.User{
		Email:        req.AdminEmail,
		PasswordHash: string(hash),
		FullName:     req.AdminFullName,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.orgs.Create(txCtx, org); createErr != nil {
			return fmt.Errorf("failed to create organization: %w", createErr)
		}
		admin.OrganizationID = org.ID
		if createErr := s.users.Create(txCtx, admin); createErr != nil {
			return fmt.Errorf("failed to create admin user: %w", createErr)
		}
		entry := model.AuditLog{
			OrganizationID: &org.ID,
			UserID:         &admin.ID,
			Action:         model.ActionRegisterOrg,
			EntityID:       org.ID.String(),
			EntityName:     org.Name,
		}
		if auditErr := s.audits.Create(txCtx, &entry); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RegisterOrganizationResponse{Organization: org, Admin: admin}, nil
}

// CurrentOrganization returns the caller's own organization.
func (s *authService) CurrentOrganization(ctx context.Context, actorID uuid.UUID) (*model.Organization, error) {
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
	org, err := s.orgs.GetByID(ctx, actor.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("organization not found")
		}
		return nil, fmt.Errorf("failed to load organization: %w", err)
	}
	return org, nil
}

// ParseUserID is a convenience for handlers converting the JWT subject claim.
func ParseUserID(sub string) (uuid.UUID, error) {
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("invalid token subject")
	}
	return id, nil
}
