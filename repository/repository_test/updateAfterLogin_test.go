package repository_test_test

import (
	"testing"
	"time"

	"passkey_mfa_ms/repository"
	"passkey_mfa_ms/repository/repository_test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestUpdateAfterLogin_SQLMock(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "employee_passkeys" SET "last_used_at"=\$1,"sign_count"=\$2,"updated_at"=\$3 WHERE id = \$4`).
		WithArgs(now, 9, now, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := repository.NewPasskeyRepository()
	err := repo.UpdateAfterLogin(conn, 3, 9, now)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
