package handler

import (
	"time"

	"go-invoicehub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an unverified account and mails a verification code
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	challenge, err := h.authService.Register(&req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Registration successful, please verify your email",
		"data":    challenge,
	})
}

// VerifyOTPRequest represents the verification request body
type VerifyOTPRequest struct {
	UserID uuid.UUID `json:"user_id"`
	OTP    string    `json:"otp"`
}

// VerifyOTP confirms the emailed code and logs the user in
// POST /api/v1/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.UserID == uuid.Nil || req.OTP == "" {
		return c.Status(400).JSON(fiber.Map{"error": "user_id and otp are required"})
	}

	response, err := h.authService.VerifyOTP(req.UserID, req.OTP)
	if err != nil {
		return fail(c, err)
	}

	setAuthCookies(c, response.AccessToken, response.RefreshToken)
	return c.JSON(response)
}

// ResendOTPRequest represents the resend request body
type ResendOTPRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ResendOTP issues a fresh verification code
// POST /api/v1/auth/resend-otp
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	challenge, err := h.authService.ResendOTP(req.Username, req.Email)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "OTP sent successfully",
		"data":    challenge,
	})
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Password is required"})
	}

	response, err := h.authService.Login(req.Username, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	setAuthCookies(c, response.AccessToken, response.RefreshToken)
	return c.JSON(response)
}

// Logout clears the stored refresh token and auth cookies
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(userID); err != nil {
		return fail(c, err)
	}

	clearAuthCookies(c)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// ChangePasswordRequest represents the change password request body
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword updates the password of the authenticated user
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		return c.Status(400).JSON(fiber.Map{"error": "old_password and new_password are required"})
	}

	if err := h.authService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// ForgotPasswordRequest represents the reset challenge request body
type ForgotPasswordRequest struct {
	Username string `json:"username"`
}

// ForgotPassword mails a reset code and returns a masked email hint
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	challenge, err := h.authService.RequestPasswordReset(req.Username)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Password reset code sent",
		"data":    challenge,
	})
}

// ResetPasswordRequest represents the reset request body
type ResetPasswordRequest struct {
	UserID      uuid.UUID `json:"user_id"`
	OTP         string    `json:"otp"`
	NewPassword string    `json:"new_password"`
}

// ResetPassword sets a new password after code verification
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.UserID == uuid.Nil {
		return c.Status(400).JSON(fiber.Map{"error": "user_id is required"})
	}

	if err := h.authService.ResetPassword(req.UserID, req.OTP, req.NewPassword); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}

func setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func clearAuthCookies(c *fiber.Ctx) {
	c.ClearCookie("access_token", "refresh_token")
}
