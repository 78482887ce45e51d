package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-auth/internal/api/dto"
	"github.com/spec-kit/staff-auth/internal/auth"
	"github.com/spec-kit/staff-auth/internal/service"
	apperrors "github.com/spec-kit/staff-auth/pkg/util"
)

// StaffHandler exposes staff login endpoints.
type StaffHandler struct {
	authenticator *service.Authenticator
	tokens        *auth.TokenManager
	logger        *zap.Logger
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authenticator *service.Authenticator, tokens *auth.TokenManager, logger *zap.Logger) *StaffHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffHandler{authenticator: authenticator, tokens: tokens, logger: logger}
}

// Login handles POST /auth/staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return loginFailure(c, http.StatusBadRequest, dto.LoginFailureResponse{Message: "invalid payload"})
	}

	result := h.authenticator.Login(c.UserContext(), service.LoginRequest{
		StaffID:    req.StaffID,
		Department: req.Department,
		Password:   req.Password,
	})

	if !result.Success {
		resp := dto.LoginFailureResponse{Message: result.PublicMessage()}
		if result.Reason == service.ReasonMissingFields {
			resp.MissingFields = service.LoginRequest{
				StaffID:    req.StaffID,
				Department: req.Department,
				Password:   req.Password,
			}.MissingFields()
		}
		if result.Kind() == service.KindLockout {
			resp.Lockout = true
			resp.RetryAfterSeconds = result.RetryAfterSeconds()
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(resp.RetryAfterSeconds))
		}
		return loginFailure(c, statusForKind(result.Kind()), resp)
	}

	session, err := h.tokens.GenerateToken(*result.Staff)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.String("staff_id", result.Staff.StaffID), zap.Error(err))
		return loginFailure(c, http.StatusInternalServerError, dto.LoginFailureResponse{Message: service.MessageSystemError})
	}

	return c.JSON(dto.LoginSuccessResponse{
		Success: true,
		Message: result.PublicMessage(),
		Staff:   dto.NewStaffResponse(session.Staff),
		Auth:    dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
	})
}

// Me handles GET /auth/staff/me.
func (h *StaffHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffResponse(principal.Staff)})
}

// Departments handles GET /auth/departments.
func (h *StaffHandler) Departments(c *fiber.Ctx) error {
	names, err := h.authenticator.Departments().List(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(dto.DepartmentsResponse{Departments: names})
}

func loginFailure(c *fiber.Ctx, status int, resp dto.LoginFailureResponse) error {
	resp.Success = false
	return c.Status(status).JSON(resp)
}

func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindClientInput:
		return http.StatusBadRequest
	case service.KindAuthFailure:
		return http.StatusUnauthorized
	case service.KindAuthorizationDenied:
		return http.StatusForbidden
	case service.KindLockout:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
