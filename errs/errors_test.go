package errs

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusPerKind(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, HTTPStatus(InvalidRequest("bad", "t1", nil)))
	assert.Equal(t, fiber.StatusNotFound, HTTPStatus(NotFound("missing", "t1", nil)))
	assert.Equal(t, fiber.StatusUnauthorized, HTTPStatus(Unauthorized("denied", "t1", nil)))
	assert.Equal(t, fiber.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("row not found")
	err := NotFound("passkey not found", "t1", cause)

	assert.ErrorIs(t, err, cause)

	e := AsError(err)
	require.NotNil(t, e)
	assert.Equal(t, KindNotFound, e.Kind)
	assert.Equal(t, "t1", e.TraceID)
}

func TestAsErrorOnForeignError(t *testing.T) {
	assert.Nil(t, AsError(errors.New("plain")))
}
