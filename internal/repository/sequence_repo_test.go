package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestSequenceNext(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSequenceRepository(db)

	orgID := uuid.New()
	scope := "ORB/25/P"

	mock.ExpectQuery("INSERT INTO requisition_counters").
		WithArgs(orgID, scope, orgID, scope).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(int64(8)))

	next, err := repo.Next(context.Background(), orgID, scope)

	require.NoError(t, err)
	assert.Equal(t, int64(8), next)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequenceNextSeedsFreshScope(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSequenceRepository(db)

	orgID := uuid.New()
	scope := "ACM/26/P"

	// First allocation for a scope starts at max(existing)+1; with no prior
	// requisitions that is 1.
	mock.ExpectQuery("INSERT INTO requisition_counters").
		WithArgs(orgID, scope, orgID, scope).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(int64(1)))

	next, err := repo.Next(context.Background(), orgID, scope)

	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestSequenceNextPropagatesError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSequenceRepository(db)

	orgID := uuid.New()

	mock.ExpectQuery("INSERT INTO requisition_counters").
		WillReturnError(gorm.ErrInvalidDB)

	_, err := repo.Next(context.Background(), orgID, "ORB/25/P")
	assert.Error(t, err)
}

func TestGetDBPrefersTransaction(t *testing.T) {
	rootDB, _ := newMockDB(t)
	txDB, _ := newMockDB(t)

	ctx := context.WithValue(context.Background(), txKey, txDB)

	got := GetDB(ctx, rootDB)
	assert.Same(t, txDB.Statement.ConnPool, got.Statement.ConnPool)

	got = GetDB(context.Background(), rootDB)
	assert.Same(t, rootDB.Statement.ConnPool, got.Statement.ConnPool)
}
