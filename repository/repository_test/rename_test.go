package repository_test_test

import (
	"testing"

	"passkey_mfa_ms/repository"
	"passkey_mfa_ms/repository/repository_test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestRename_SQLMock(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "employee_passkeys" SET "label"=\$1,"updated_at"=\$2 WHERE id = \$3 AND employee_id = \$4`).
		WithArgs("Work laptop", sqlmock.AnyArg(), 3, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := repository.NewPasskeyRepository()
	err := repo.Rename(conn, 1, 3, "Work laptop")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An update scoped to the wrong owner touches zero rows and must surface
// as not-found, never as a silent success.
func TestRename_WrongOwnerIsNotFound(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "employee_passkeys" SET "label"=\$1,"updated_at"=\$2 WHERE id = \$3 AND employee_id = \$4`).
		WithArgs("Work laptop", sqlmock.AnyArg(), 3, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	repo := repository.NewPasskeyRepository()
	err := repo.Rename(conn, 2, 3, "Work laptop")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
