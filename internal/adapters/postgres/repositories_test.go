package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/thermotrap/identity-service/internal/domain"
)

func newReposWithMock(t *testing.T) (Repositories, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return NewRepositories(db), mock
}

var userColumns = []string{"id", "email", "password_hash", "name", "role", "is_activated", "created_at", "updated_at"}

func TestUserFindByEmail(t *testing.T) {
	repos, mock := newReposWithMock(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE LOWER\(email\) = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id.String(), "a@b.com", "hash", "Ada", "user", true, now, now))

	got, err := repos.Users.FindByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, domain.RoleUser, got.Role)
	assert.Equal(t, domain.PartitionUsers, got.Partition)
	assert.Equal(t, "Ada", got.DisplayName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindByEmailNotFound(t *testing.T) {
	repos, mock := newReposWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repos.Users.FindByEmail(context.Background(), "nobody@b.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminFindByIDAlwaysAdminRole(t *testing.T) {
	repos, mock := newReposWithMock(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "admins" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "created_at", "updated_at"}).
			AddRow(id.String(), "root@b.com", "hash", "Root", now, now))

	got, err := repos.Admins.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Equal(t, domain.PartitionAdmins, got.Partition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePasswordHash(t *testing.T) {
	repos, mock := newReposWithMock(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repos.Users.UpdatePasswordHash(context.Background(), id, "new-hash", time.Now().UTC()))

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	err := repos.Users.UpdatePasswordHash(context.Background(), id, "new-hash", time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResetStateGetMissingReturnsNil(t *testing.T) {
	repos, mock := newReposWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "password_resets" WHERE principal_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"principal_id", "otp", "expires_at", "updated_at"}))

	state, err := repos.ResetStates.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, state)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResetStateGet(t *testing.T) {
	repos, mock := newReposWithMock(t)
	id := uuid.New()
	expires := time.Date(2026, 1, 1, 12, 15, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "password_resets"`).
		WillReturnRows(sqlmock.NewRows([]string{"principal_id", "otp", "expires_at", "updated_at"}).
			AddRow(id.String(), "123456", expires, expires.Add(-15*time.Minute)))

	state, err := repos.ResetStates.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "123456", state.OTP)
	assert.True(t, state.ExpiresAt.Equal(expires))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResetStateUpsertUsesOnConflict(t *testing.T) {
	repos, mock := newReposWithMock(t)
	now := time.Now().UTC()

	mock.ExpectExec(`INSERT INTO "password_resets" .* ON CONFLICT \("principal_id"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repos.ResetStates.Upsert(context.Background(), domain.ResetState{
		PrincipalID: uuid.New(),
		OTP:         "654321",
		ExpiresAt:   now.Add(15 * time.Minute),
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResetStateDeleteAndSweep(t *testing.T) {
	repos, mock := newReposWithMock(t)

	mock.ExpectExec(`DELETE FROM "password_resets" WHERE principal_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repos.ResetStates.Delete(context.Background(), uuid.New()))

	mock.ExpectExec(`DELETE FROM "password_resets" WHERE expires_at < \$1`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := repos.ResetStates.DeleteExpired(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	mock.ExpectExec(`DELETE FROM "password_resets"`).WillReturnError(errors.New("db down"))
	_, err = repos.ResetStates.DeleteExpired(context.Background(), time.Now().UTC())
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrationNamesSorted(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_identity.sql", names[0])
	assert.IsNonDecreasing(t, names)
}

func TestDialectorUsesSimpleProtocol(t *testing.T) {
	d, ok := newDialector("postgres://identity@localhost/identity").(*postgres.Dialector)
	require.True(t, ok)
	assert.True(t, d.PreferSimpleProtocol)
	assert.Equal(t, "postgres://identity@localhost/identity", d.DSN)
}
