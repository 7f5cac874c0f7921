package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/campuskit/membership-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT,
  first_name TEXT,
  last_name TEXT,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  student_id TEXT UNIQUE,
  global_role TEXT NOT NULL DEFAULT 'student',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  preferences TEXT,
  current_team_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func uniqueEmail() string {
	return fmt.Sprintf("user_%s@example.edu", uuid.NewString())
}

func TestCreateAppliesFactoryDefaults(t *testing.T) {
	repo := NewRepository(setupUserTestDB(t))
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{
		Email:        uniqueEmail(),
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleStudent, user.GlobalRole)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, uuid.Nil, user.ID)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	repo := NewRepository(setupUserTestDB(t))
	ctx := context.Background()

	email := uniqueEmail()
	_, err := repo.Create(ctx, CreateUserDTO{Email: email, PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserDTO{Email: email, PasswordHash: "hash"})
	require.Error(t, err, "duplicate email must be rejected")
}

func TestFindByStudentID(t *testing.T) {
	repo := NewRepository(setupUserTestDB(t))
	ctx := context.Background()

	studentID := "S" + uuid.NewString()[:12]
	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        uniqueEmail(),
		PasswordHash: "hash",
		StudentID:    &studentID,
	})
	require.NoError(t, err)

	found, err := repo.FindByStudentID(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByStudentID(ctx, "no-such-id")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateLastLoginAndCurrentTeam(t *testing.T) {
	repo := NewRepository(setupUserTestDB(t))
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Email: uniqueEmail(), PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Nil(t, user.LastLoginAt)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

	teamID := uuid.New()
	require.NoError(t, repo.SetCurrentTeam(ctx, user.ID, &teamID))

	loaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.LastLoginAt)
	require.NotNil(t, loaded.CurrentTeamID)
	assert.Equal(t, teamID, *loaded.CurrentTeamID)

	require.NoError(t, repo.SetCurrentTeam(ctx, user.ID, nil))
	loaded, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.CurrentTeamID)
}

func TestPreferenceRoundTrip(t *testing.T) {
	repo := NewRepository(setupUserTestDB(t))
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Email: uniqueEmail(), PasswordHash: "hash"})
	require.NoError(t, err)

	_, found, err := repo.GetPreference(ctx, user.ID, "theme")
	require.NoError(t, err)
	assert.False(t, found)

	ok, err := repo.SetPreference(ctx, user.ID, "theme", "dark")
	require.NoError(t, err)
	assert.True(t, ok)

	value, found, err := repo.GetPreference(ctx, user.ID, "theme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "dark", value)

	ok, err = repo.SetPreference(ctx, uuid.New(), "theme", "dark")
	require.NoError(t, err)
	assert.False(t, ok, "missing user affects nothing")
}

func TestListPartitions(t *testing.T) {
	repo := NewRepository(setupUserTestDB(t))
	ctx := context.Background()

	inactive := false
	adminRole := enums.UserRoleDepartmentAdmin
	_, err := repo.Create(ctx, CreateUserDTO{Email: uniqueEmail(), PasswordHash: "hash", IsActive: &inactive})
	require.NoError(t, err)
	admin, err := repo.Create(ctx, CreateUserDTO{Email: uniqueEmail(), PasswordHash: "hash", GlobalRole: &adminRole})
	require.NoError(t, err)

	inactives, err := repo.ListInactive(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, inactives)
	for _, u := range inactives {
		assert.False(t, u.IsActive)
	}

	admins, err := repo.ListByGlobalRole(ctx, enums.UserRoleDepartmentAdmin)
	require.NoError(t, err)
	found := false
	for _, u := range admins {
		if u.ID == admin.ID {
			found = true
		}
		assert.Equal(t, enums.UserRoleDepartmentAdmin, u.GlobalRole)
	}
	assert.True(t, found)
}
