package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/exam-compliance/internal/api/dto"
	"github.com/spec-kit/exam-compliance/internal/auth"
	"github.com/spec-kit/exam-compliance/internal/domain"
	"github.com/spec-kit/exam-compliance/internal/service"
)

// RolesHandler serves the per-role analysis and the authorization workflow.
type RolesHandler struct {
	roles    *service.RoleService
	sessions *service.SessionService
	clock    service.Clock
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roles *service.RoleService, sessions *service.SessionService, clock service.Clock) *RolesHandler {
	return &RolesHandler{roles: roles, sessions: sessions, clock: clock}
}

// List handles GET /api/roles: roles with at least one expired employee.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	roles, err := h.roles.RolesWithExpired(c.UserContext(), h.clock())
	return respondOrWarn(c, roles, []string{}, err)
}

// Detail handles GET /api/roles/:role.
func (h *RolesHandler) Detail(c *fiber.Ctx) error {
	role, err := roleParam(c)
	if err != nil {
		return err
	}
	detail, err := h.roles.RoleDetail(c.UserContext(), role, h.clock())
	if err != nil {
		return respondOrWarn(c, nil, dto.RoleDetailResponse{
			Role:             role,
			RequiredExams:    []string{},
			PendingEmployees: []dto.PendingEmployeeResponse{},
		}, err)
	}

	pending := make([]dto.PendingEmployeeResponse, 0, len(detail.PendingEmployees))
	for _, rec := range detail.PendingEmployees {
		pending = append(pending, dto.NewPendingEmployeeResponse(rec))
	}
	return respondOrWarn(c, dto.RoleDetailResponse{
		Role:             detail.Role,
		RequiredExams:    detail.RequiredExams,
		Mapped:           detail.Mapped,
		PendingEmployees: pending,
	}, nil, nil)
}

// Select handles POST /api/session/role.
func (h *RolesHandler) Select(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SelectRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	sess, err := h.sessions.SelectRole(c.UserContext(), principal, req.Role, h.clock())
	if err != nil {
		return respondOrWarn(c, nil, nil, err)
	}
	return c.JSON(fiber.Map{"data": sessionResponse(sess)})
}

// Generate handles POST /api/authorizations.
func (h *RolesHandler) Generate(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.GenerateAuthorizationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}
	authz, err := h.sessions.Generate(c.UserContext(), principal, req.Role, h.clock())
	if err != nil {
		return respondOrWarn(c, nil, nil, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AuthorizationResponse{
		Role:      authz.Role,
		Text:      authz.Text,
		Employees: authz.Employees,
		Exams:     authz.Exams,
	}})
}

// Current handles GET /api/authorizations/current. With Accept: text/plain
// the bare document is returned for copying.
func (h *RolesHandler) Current(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	sess, err := h.sessions.Current(c.UserContext(), principal)
	if err != nil {
		return err
	}
	if !sess.HasAuthorization() {
		return fiber.NewError(http.StatusNotFound, "no authorization generated")
	}
	if c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextPlain) == fiber.MIMETextPlain {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(sess.AuthorizationText)
	}
	return c.JSON(fiber.Map{"data": sessionResponse(sess)})
}

// Clear handles DELETE /api/authorizations/current.
func (h *RolesHandler) Clear(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.sessions.ClearAuthorization(c.UserContext(), principal); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Refresh handles POST /api/refresh.
func (h *RolesHandler) Refresh(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Refresh(c.UserContext(), principal); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "refreshed"}})
}

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return principal, nil
}

func roleParam(c *fiber.Ctx) (string, error) {
	role, err := url.PathUnescape(c.Params("role"))
	if err != nil || strings.TrimSpace(role) == "" {
		return "", fiber.NewError(http.StatusBadRequest, "invalid role")
	}
	return role, nil
}

func sessionResponse(sess *domain.Session) dto.SessionResponse {
	return dto.SessionResponse{
		SelectedRole:      sess.SelectedRole,
		AuthorizationText: sess.AuthorizationText,
		UpdatedAt:         sess.UpdatedAt,
	}
}
