package identity_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"learnhub/apperrors"
	"learnhub/database"
	"learnhub/models"
	"learnhub/services/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:identity%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	return db
}

func TestCreateUser(t *testing.T) {
	svc := identity.NewService(setupTestDB(t))

	user, err := svc.CreateUser(identity.CreateUserInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NotEqual(t, "hunter22", user.Password) // stored hashed

	require.NoError(t, svc.CheckPassword(user.ID, "hunter22"))
	assert.True(t, apperrors.IsValidation(svc.CheckPassword(user.ID, "wrong")))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := identity.NewService(setupTestDB(t))

	_, err := svc.CreateUser(identity.CreateUserInput{Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.CreateUser(identity.CreateUserInput{Email: "ada@example.com", Password: "other-pass"})
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreateUserValidation(t *testing.T) {
	svc := identity.NewService(setupTestDB(t))

	_, err := svc.CreateUser(identity.CreateUserInput{Email: "not-an-email", Password: "hunter22"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateUser(identity.CreateUserInput{Email: "ada@example.com", Password: "short"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateUser(identity.CreateUserInput{Email: "ada@example.com", Password: "hunter22", Role: "SUPERUSER"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateUserUnknownGroup(t *testing.T) {
	svc := identity.NewService(setupTestDB(t))

	missing := uint(42)
	_, err := svc.CreateUser(identity.CreateUserInput{
		Email:           "ada@example.com",
		Password:        "hunter22",
		TeachingGroupID: &missing,
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTeachingGroups(t *testing.T) {
	svc := identity.NewService(setupTestDB(t))

	group, err := svc.CreateTeachingGroup("cohort-2026")
	require.NoError(t, err)

	_, err = svc.CreateTeachingGroup("cohort-2026")
	assert.True(t, apperrors.IsConflict(err))

	teacher, err := svc.CreateUser(identity.CreateUserInput{
		Name:            "Grace",
		Email:           "grace@example.com",
		Password:        "hunter22",
		Role:            models.RoleTeacher,
		TeachingGroupID: &group.ID,
	})
	require.NoError(t, err)

	users, err := svc.ListGroupUsers(group.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, teacher.ID, users[0].ID)
}
