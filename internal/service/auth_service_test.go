package service

import (
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := setupTestDB(t)
	repos := newTestRepos(db)
	return NewAuthService(repos.User, repos.Activity, config.JWTConfig{
		Secret:     "test-secret-test-secret-test-secret",
		ExpireTime: time.Hour,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newAuthService(t)

	user, err := auth.Register("student1", "password123", model.Student)
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
	assert.NotEqual(t, "password123", user.Password)

	token, loggedIn, err := auth.Login("student1", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := util.ParseJWT(token, "test-secret-test-secret-test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Student, claims.Role)
	assert.Equal(t, "student1", claims.Username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	auth := newAuthService(t)

	_, err := auth.Register("student1", "password123", model.Student)
	require.NoError(t, err)

	_, err = auth.Register("student1", "other", model.Student)
	assert.ErrorIs(t, err, util.ErrUsernameTaken)
}

func TestRegisterUnknownRoleDefaultsToStudent(t *testing.T) {
	auth := newAuthService(t)

	user, err := auth.Register("someone", "password123", model.UserRole("admin"))
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	auth := newAuthService(t)

	_, err := auth.Register("student1", "password123", model.Student)
	require.NoError(t, err)

	_, _, err = auth.Login("student1", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = auth.Login("nobody", "password123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginRecordsActivity(t *testing.T) {
	auth := newAuthService(t)

	user, err := auth.Register("student1", "password123", model.Student)
	require.NoError(t, err)

	_, _, err = auth.Login("student1", "password123")
	require.NoError(t, err)
	_, _, err = auth.Login("student1", "password123")
	require.NoError(t, err)

	count, err := auth.ActivityRepo.CountByUserAndAction(user.ID, model.ActionLogin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
