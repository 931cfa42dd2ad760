package service_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reqtrack/internal/apperror"
	"reqtrack/internal/model"
	"reqtrack/internal/repository/mock"
	"reqtrack/internal/service"
)

const testSecret = "test-jwt-secret"

type authFixture struct {
	users  *mock.MockUserRepository
	orgs   *mock.MockOrganizationRepository
	audits *mock.MockAuditRepository
	tx     *mock.MockTransactionManager
	svc    service.AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	ctrl := gomock.NewController(t)
	f := &authFixture{
		users:  mock.NewMockUserRepository(ctrl),
		orgs:   mock.NewMockOrganizationRepository(ctrl),
		audits: mock.NewMockAuditRepository(ctrl),
		tx:     mock.NewMockTransactionManager(ctrl),
	}
	f.svc = service.NewAuthService(f.users, f.orgs, f.audits, f.tx, testSecret, zap.NewNop())
	return f
}

func hashOf(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns signed token with claims", func(t *testing.T) {
		f := newAuthFixture(t)
		user := newUser(uuid.New(), model.RoleManager)
		user.PasswordHash = hashOf(t, "secret1pass")

		f.users.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		f.users.EXPECT().Update(gomock.Any(), user).Return(nil)

		resp, err := f.svc.Login(ctx, service.LoginRequest{Email: user.Email, Password: "secret1pass"})

		require.NoError(t, err)
		require.NotEmpty(t, resp.Token)
		assert.NotNil(t, user.LastLogin)

		token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, user.ID.String(), claims["sub"])
		assert.Equal(t, user.OrganizationID.String(), claims["org"])
		assert.Equal(t, model.RoleManager, claims["role"])
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		user := newUser(uuid.New(), model.RoleManager)
		user.PasswordHash = hashOf(t, "secret1pass")

		f.users.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)

		_, err := f.svc.Login(ctx, service.LoginRequest{Email: user.Email, Password: "wrong"})
		assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
	})

	t.Run("unknown email reads the same as wrong password", func(t *testing.T) {
		f := newAuthFixture(t)

		f.users.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := f.svc.Login(ctx, service.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
		assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
	})

	t.Run("deactivated account", func(t *testing.T) {
		f := newAuthFixture(t)
		user := newUser(uuid.New(), model.RoleManager)
		user.PasswordHash = hashOf(t, "secret1pass")
		user.IsActive = false

		f.users.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)

		_, err := f.svc.Login(ctx, service.LoginRequest{Email: user.Email, Password: "secret1pass"})
		assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
	})
}

func TestRegisterOrganization(t *testing.T) {
	ctx := context.Background()

	t.Run("creates tenant and admin in one transaction", func(t *testing.T) {
		f := newAuthFixture(t)

		f.users.EXPECT().GetByEmail(gomock.Any(), "boss@acme.com").Return(nil, gorm.ErrRecordNotFound)
		f.tx.EXPECT().
			RunInTx(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
				return fn(ctx)
			})
		f.orgs.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, org *model.Organization) error {
				org.ID = uuid.New()
				return nil
			})
		f.users.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *model.User) error {
				assert.Equal(t, model.RoleAdmin, u.Role)
				assert.NotEmpty(t, u.OrganizationID)
				return nil
			})
		f.audits.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := f.svc.RegisterOrganization(ctx, service.RegisterOrganizationRequest{
			Name:              "Acme Industrial",
			ContactEmail:      "info@acme.com",
			RequisitionPrefix: "ACM",
			AdminEmail:        "boss@acme.com",
			AdminPassword:     "secret1pass",
		})

		require.NoError(t, err)
		assert.Equal(t, resp.Organization.ID, resp.Admin.OrganizationID)
		assert.Equal(t, model.PlanFree, resp.Organization.SubscriptionPlan)
	})

	t.Run("duplicate admin email", func(t *testing.T) {
		f := newAuthFixture(t)

		f.users.EXPECT().GetByEmail(gomock.Any(), "boss@acme.com").Return(&model.User{}, nil)

		_, err := f.svc.RegisterOrganization(ctx, service.RegisterOrganizationRequest{
			Name:          "Acme",
			ContactEmail:  "info@acme.com",
			AdminEmail:    "boss@acme.com",
			AdminPassword: "secret1pass",
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
	})

	t.Run("bad email format", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.svc.RegisterOrganization(ctx, service.RegisterOrganizationRequest{
			Name:          "Acme",
			AdminEmail:    "not-an-email",
			AdminPassword: "secret1pass",
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})

	t.Run("weak password", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.svc.RegisterOrganization(ctx, service.RegisterOrganizationRequest{
			Name:          "Acme",
			AdminEmail:    "boss@acme.com",
			AdminPassword: "short",
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})
}

func TestCurrentOrganization(t *testing.T) {
	ctx := context.Background()

	t.Run("returns caller organization", func(t *testing.T) {
		f := newAuthFixture(t)
		orgID := uuid.New()
		actor := newUser(orgID, model.RolePurchaser)
		org := &model.Organization{ID: orgID, Name: "Acme"}

		f.users.EXPECT().GetByID(gomock.Any(), actor.ID).Return(actor, nil)
		f.orgs.EXPECT().GetByID(gomock.Any(), orgID).Return(org, nil)

		got, err := f.svc.CurrentOrganization(ctx, actor.ID)
		require.NoError(t, err)
		assert.Equal(t, org, got)
	})

	t.Run("deactivated caller is forbidden", func(t *testing.T) {
		f := newAuthFixture(t)
		actor := newUser(uuid.New(), model.RolePurchaser)
		actor.IsActive = false

		f.users.EXPECT().GetByID(gomock.Any(), actor.ID).Return(actor, nil)

		_, err := f.svc.CurrentOrganization(ctx, actor.ID)
		assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
	})

	t.Run("unknown caller", func(t *testing.T) {
		f := newAuthFixture(t)
		id := uuid.New()

		f.users.EXPECT().GetByID(gomock.Any(), id).Return(nil, gorm.ErrRecordNotFound)

		_, err := f.svc.CurrentOrganization(ctx, id)
		assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
	})
}
