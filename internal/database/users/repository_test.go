package users

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/doclabel/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_users_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func createUser(t *testing.T, repo *Repository, username string) *entities.User {
	t.Helper()
	user := &entities.User{Username: username, Email: username + "@example.com", PasswordHash: "hash", Role: entities.UserRoleAnnotator}
	require.NoError(t, repo.CreateUser(user))
	return user
}

func TestRepository_GetUserByLogin(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created := createUser(t, repo, "alice")

	byName, err := repo.GetUserByLogin("alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := repo.GetUserByLogin("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetUserByLogin("nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_CreateUser_Duplicate(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	createUser(t, repo, "bob")
	err := repo.CreateUser(&entities.User{Username: "bob", Email: "other@example.com"})
	assert.Error(t, err)
}

func TestRepository_LoginBookkeeping(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createUser(t, repo, "carol")

	user.FailedLoginCount = 5
	lockedUntil := time.Now().Add(time.Hour)
	require.NoError(t, repo.RecordFailedLogin(user, &lockedUntil))

	stored, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.FailedLoginCount)
	require.NotNil(t, stored.LockedUntil)

	require.NoError(t, repo.RecordLogin(stored, time.Now()))

	stored, err = repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.FailedLoginCount)
	assert.Nil(t, stored.LockedUntil)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestRepository_TokenHash(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createUser(t, repo, "dave")
	now := time.Now()

	affected, err := repo.SetTokenHash(user.ID, "abc123", &now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	found, err := repo.GetUserByTokenHash("abc123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	affected, err = repo.SetTokenHash(9999, "zzz", &now)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestRepository_CountAndList(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	count, err := repo.CountUsers()
	require.NoError(t, err)
	assert.Zero(t, count)

	createUser(t, repo, "zed")
	createUser(t, repo, "amy")
	require.NoError(t, repo.CreateUser(&entities.User{Username: "anonymous", Email: "anonymous@doclabel.local"}))

	count, err = repo.CountLoginUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	users, err := repo.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "amy", users[0].Username)
}
