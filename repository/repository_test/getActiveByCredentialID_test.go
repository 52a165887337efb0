package repository_test_test

import (
	"testing"

	"passkey_mfa_ms/repository"
	"passkey_mfa_ms/repository/repository_test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestGetActiveByCredentialID_SQLMock(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "employee_id", "credential_id", "sign_count", "active"}).
		AddRow(3, 1, "cred-abc", 7, true)

	mock.ExpectQuery(`SELECT \* FROM "employee_passkeys" WHERE employee_id = \$1 AND credential_id = \$2 AND active = \$3 ORDER BY "employee_passkeys"\."id" LIMIT \$4`).
		WithArgs(1, "cred-abc", true, 1).
		WillReturnRows(rows)

	repo := repository.NewPasskeyRepository()
	passkey, err := repo.GetActiveByCredentialID(conn, 1, "cred-abc")

	assert.NoError(t, err)
	assert.NotNil(t, passkey)
	assert.Equal(t, "cred-abc", passkey.CredentialID)
	assert.Equal(t, uint32(7), passkey.SignCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveByCredentialID_NoMatch(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "employee_passkeys" WHERE employee_id = \$1 AND credential_id = \$2 AND active = \$3 ORDER BY "employee_passkeys"\."id" LIMIT \$4`).
		WithArgs(1, "cred-unknown", true, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := repository.NewPasskeyRepository()
	passkey, err := repo.GetActiveByCredentialID(conn, 1, "cred-unknown")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, passkey)
	assert.NoError(t, mock.ExpectationsWereMet())
}
