package repository_test_test

import (
	"testing"

	"passkey_mfa_ms/repository"
	"passkey_mfa_ms/repository/repository_test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestGetEmployeeByEmail_SQLMock(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "email"}).
		AddRow(1, "emma@example.com")

	mock.ExpectQuery(`SELECT \* FROM "employees" WHERE email = \$1 ORDER BY "employees"\."id" LIMIT \$2`).
		WithArgs("emma@example.com", 1).
		WillReturnRows(rows)

	repo := repository.NewEmployeeRepository()
	employee, err := repo.GetByEmail(conn, "emma@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, employee)
	assert.Equal(t, "emma@example.com", employee.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEmployeeByEmail_NotFound(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "employees" WHERE email = \$1 ORDER BY "employees"\."id" LIMIT \$2`).
		WithArgs("ghost@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := repository.NewEmployeeRepository()
	employee, err := repo.GetByEmail(conn, "ghost@example.com")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, employee)
	assert.NoError(t, mock.ExpectationsWereMet())
}
