package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reqtrack/internal/apperror"
	"reqtrack/internal/authz"
	"reqtrack/internal/model"
	"reqtrack/internal/repository/mock"
	"reqtrack/internal/service"
)

func newUserService(t *testing.T) (*mock.MockUserRepository, *mock.MockAuditRepository, service.UserService) {
	ctrl := gomock.NewController(t)
	users := mock.NewMockUserRepository(ctrl)
	audits := mock.NewMockAuditRepository(ctrl)

	table, err := authz.NewTable()
	require.NoError(t, err)

	return users, audits, service.NewUserService(users, audits, table)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	admin := newUser(orgID, model.RoleAdmin)

	t.Run("success", func(t *testing.T) {
		users, audits, svc := newUserService(t)

		users.EXPECT().GetByID(gomock.Any(), admin.ID).Return(admin, nil)
		users.EXPECT().GetByEmail(gomock.Any(), "new@example.com").Return(nil, gorm.ErrRecordNotFound)

		var created *model.User
		users.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *model.User) error {
				created = u
				return nil
			})
		audits.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		user, err := svc.CreateUser(ctx, admin.ID, service.CreateUserRequest{
			Email:    "new@example.com",
			Password: "secret1pass",
			FullName: "New Member",
			Role:     model.RoleAccountant,
		})

		require.NoError(t, err)
		assert.Equal(t, orgID, user.OrganizationID)
		assert.Equal(t, model.RoleAccountant, user.Role)
		assert.True(t, user.IsActive)
		require.NotNil(t, created)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret1pass")))
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		users, _, svc := newUserService(t)
		manager := newUser(orgID, model.RoleManager)

		users.EXPECT().GetByID(gomock.Any(), manager.ID).Return(manager, nil)

		_, err := svc.CreateUser(ctx, manager.ID, service.CreateUserRequest{
			Email:    "new@example.com",
			Password: "secret1pass",
			Role:     model.RolePurchaser,
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
	})

	t.Run("invalid role", func(t *testing.T) {
		users, _, svc := newUserService(t)

		users.EXPECT().GetByID(gomock.Any(), admin.ID).Return(admin, nil)

		_, err := svc.CreateUser(ctx, admin.ID, service.CreateUserRequest{
			Email:    "new@example.com",
			Password: "secret1pass",
			Role:     "SUPERVISOR",
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})

	t.Run("weak password", func(t *testing.T) {
		users, _, svc := newUserService(t)

		users.EXPECT().GetByID(gomock.Any(), admin.ID).Return(admin, nil)

		_, err := svc.CreateUser(ctx, admin.ID, service.CreateUserRequest{
			Email:    "new@example.com",
			Password: "short",
			Role:     model.RolePurchaser,
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})

	t.Run("digits-only password", func(t *testing.T) {
		users, _, svc := newUserService(t)

		users.EXPECT().GetByID(gomock.Any(), admin.ID).Return(admin, nil)

		_, err := svc.CreateUser(ctx, admin.ID, service.CreateUserRequest{
			Email:    "new@example.com",
			Password: "1234567890",
			Role:     model.RolePurchaser,
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})

	t.Run("duplicate email", func(t *testing.T) {
		users, _, svc := newUserService(t)

		users.EXPECT().GetByID(gomock.Any(), admin.ID).Return(admin, nil)
		users.EXPECT().GetByEmail(gomock.Any(), "taken@example.com").Return(&model.User{}, nil)

		_, err := svc.CreateUser(ctx, admin.ID, service.CreateUserRequest{
			Email:    "taken@example.com",
			Password: "secret1pass",
			Role:     model.RolePurchaser,
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	admin := newUser(orgID, model.RoleAdmin)

	t.Run("deactivate member", func(t *testing.T) {
		users, audits, svc := newUserService(t)
		target := newUser(orgID, model.RolePurchaser)

		users.EXPECT().GetByID(gomock.Any(), admin.ID).Return(admin, nil)
		users.EXPECT().GetByID(gomock.Any(), target.ID).Return(target, nil)
		users.EXPECT().Update(gomock.Any(), target).Return(nil)
		audits.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		inactive := false
		user, err := svc.UpdateUser(ctx, admin.ID, target.ID, service.UpdateUserRequest{IsActive: &inactive})

		require.NoError(t, err)
		assert.False(t, user.IsActive)
	})

	t.Run("cross-tenant target looks missing", func(t *testing.T) {
		users, _, svc := newUserService(t)
		target := newUser(uuid.New(), model.RolePurchaser) // different org

		users.EXPECT().GetByID(gomock.Any(), admin.ID).Return(admin, nil)
		users.EXPECT().GetByID(gomock.Any(), target.ID).Return(target, nil)

		_, err := svc.UpdateUser(ctx, admin.ID, target.ID, service.UpdateUserRequest{})
		assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
	})
}
