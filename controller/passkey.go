package controller

import (
	"net/http"
	"strconv"

	"passkey_mfa_ms/dtos/request"
	"passkey_mfa_ms/errs"
	"passkey_mfa_ms/middleware"
	"passkey_mfa_ms/services"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

type IPasskeyController interface {
	List(c *fiber.Ctx) error
	Status(c *fiber.Ctx) error
	RegisterStart(c *fiber.Ctx) error
	RegisterFinish(c *fiber.Ctx) error
	LoginStart(c *fiber.Ctx) error
	LoginFinish(c *fiber.Ctx) error
	Rename(c *fiber.Ctx) error
	Deactivate(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
}

type PasskeyController struct {
	service services.IPasskeyService
}

func NewPasskeyController(service services.IPasskeyService) IPasskeyController {
	return &PasskeyController{service: service}
}

func (pc *PasskeyController) List(c *fiber.Ctx) error {
	employeeID, ok := employeeIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authenticated employee"})
	}
	summaries, err := pc.service.List(employeeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summaries)
}

func (pc *PasskeyController) Status(c *fiber.Ctx) error {
	employeeID, ok := employeeIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authenticated employee"})
	}
	status, err := pc.service.Status(employeeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

func (pc *PasskeyController) RegisterStart(c *fiber.Ctx) error {
	employeeID, ok := employeeIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authenticated employee"})
	}
	body, ok := c.Locals("body").(*request.StartPasskeyRegistrationRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	resp, err := pc.service.RegisterStart(employeeID, body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (pc *PasskeyController) RegisterFinish(c *fiber.Ctx) error {
	employeeID, ok := employeeIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authenticated employee"})
	}

	// The body is the raw WebAuthn attestation response, so the optional
	// label travels as a query parameter.
	label := c.Query("label")

	req := new(http.Request)
	if err := fasthttpadaptor.ConvertRequest(c.Context(), req, true); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to convert request"})
	}

	resp, err := pc.service.RegisterFinish(employeeID, label, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (pc *PasskeyController) LoginStart(c *fiber.Ctx) error {
	body, ok := c.Locals("body").(*request.StartPasskeyLoginRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	resp, err := pc.service.LoginStart(body.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (pc *PasskeyController) LoginFinish(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email is required"})
	}

	req := new(http.Request)
	if err := fasthttpadaptor.ConvertRequest(c.Context(), req, true); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to convert request"})
	}

	resp, err := pc.service.LoginFinish(email, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (pc *PasskeyController) Rename(c *fiber.Ctx) error {
	employeeID, ok := employeeIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authenticated employee"})
	}
	passkeyID, ok := passkeyIDFromParams(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid passkey id"})
	}
	body, ok := c.Locals("body").(*request.RenamePasskeyRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	summary, err := pc.service.Rename(employeeID, passkeyID, body.Label)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

func (pc *PasskeyController) Deactivate(c *fiber.Ctx) error {
	employeeID, ok := employeeIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authenticated employee"})
	}
	passkeyID, ok := passkeyIDFromParams(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid passkey id"})
	}
	if err := pc.service.Deactivate(employeeID, passkeyID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (pc *PasskeyController) Delete(c *fiber.Ctx) error {
	employeeID, ok := employeeIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authenticated employee"})
	}
	passkeyID, ok := passkeyIDFromParams(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid passkey id"})
	}
	if err := pc.service.Delete(employeeID, passkeyID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func employeeIDFromContext(c *fiber.Ctx) (uint, bool) {
	employeeID, ok := c.Locals(middleware.EmployeeIDKey).(uint)
	return employeeID, ok
}

func passkeyIDFromParams(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.Atoi(c.Params("passkeyId"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// respondError maps the service error taxonomy onto HTTP statuses. Causes
// stay in the logs, only the user-safe message and trace id go out.
func respondError(c *fiber.Ctx, err error) error {
	if e := errs.AsError(err); e != nil {
		return c.Status(errs.HTTPStatus(e)).JSON(fiber.Map{
			"error":    e.Message,
			"trace_id": e.TraceID,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
