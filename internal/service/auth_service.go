package service

import (
	"strings"
	"time"

	"go-invoicehub/internal/apperr"
	"go-invoicehub/internal/mailer"
	"go-invoicehub/internal/model"
	"go-invoicehub/internal/repository"
	"go-invoicehub/pkg/jwt"
	"go-invoicehub/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// otpTTL is how long a verification code stays valid.
const otpTTL = 10 * time.Minute

type AuthService interface {
	Register(req *RegisterRequest) (*OTPChallenge, error)
	VerifyOTP(userID uuid.UUID, otp string) (*LoginResponse, error)
	ResendOTP(username, email string) (*OTPChallenge, error)
	Login(username, email, password string) (*LoginResponse, error)
	Logout(userID uuid.UUID) error
	ChangePassword(userID uuid.UUID, oldPassword, newPassword string) error
	RequestPasswordReset(username string) (*OTPChallenge, error)
	ResetPassword(userID uuid.UUID, otp, newPassword string) error
}

type RegisterRequest struct {
	Username            string `json:"username" validate:"required"`
	Email               string `json:"email" validate:"required,email"`
	Password            string `json:"password" validate:"required,min=6"`
	BusinessName        string `json:"business_name" validate:"required"`
	BusinessCategory    string `json:"business_category"`
	BusinessDescription string `json:"business_description"`
}

// OTPChallenge tells the client which user record to verify next.
type OTPChallenge struct {
	UserID    uuid.UUID `json:"user_id"`
	EmailHint string    `json:"email_hint"`
}

type LoginResponse struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	User         model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	mail     mailer.Mailer
	log      *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, mail mailer.Mailer, log *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		mail:     mail,
		log:      log,
	}
}

func (s *authService) Register(req *RegisterRequest) (*OTPChallenge, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.InvalidInput("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Username and email are checked separately: either field colliding
	// with a verified account blocks registration outright.
	byUsername, _ := s.userRepo.FindByUsername(username)
	byEmail, _ := s.userRepo.FindByEmail(email)
	stale := map[uuid.UUID]bool{}
	for _, existing := range []*model.User{byUsername, byEmail} {
		if existing == nil {
			continue
		}
		if existing.IsVerified {
			return nil, apperr.AlreadyExists("user already exists, please login")
		}
		stale[existing.ID] = true
	}
	// Stale unverified accounts are replaced, not resurrected.
	for id := range stale {
		if err := s.userRepo.HardDelete(id); err != nil {
			return nil, err
		}
	}

	code, err := model.RandomNumericCode(6)
	if err != nil {
		return nil, err
	}
	expiry := time.Now().Add(otpTTL)

	user := &model.User{
		Username:            username,
		Email:               email,
		BusinessName:        req.BusinessName,
		BusinessCategory:    req.BusinessCategory,
		BusinessDescription: req.BusinessDescription,
		IsVerified:          false,
		OTP:                 code,
		OTPExpiry:           &expiry,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// Best-effort dispatch; the client can request a resend.
	go func() {
		if err := s.mail.Send(user.Email, "Verify your account", mailer.OTPBody(code)); err != nil {
			s.log.Error("otp email failed", zap.String("email", user.Email), zap.Error(err))
		}
	}()

	return &OTPChallenge{UserID: user.ID, EmailHint: maskEmail(user.Email)}, nil
}

func (s *authService) VerifyOTP(userID uuid.UUID, otp string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	if user.IsVerified {
		return nil, apperr.AlreadyExists("user already verified")
	}

	if err := checkOTP(user, otp); err != nil {
		return nil, err
	}

	user.IsVerified = true
	user.OTP = ""
	user.OTPExpiry = nil

	return s.issueTokens(user)
}

func (s *authService) ResendOTP(username, email string) (*OTPChallenge, error) {
	if username == "" && email == "" {
		return nil, apperr.InvalidInput("email or username is required")
	}

	user, err := s.userRepo.FindByUsernameOrEmail(strings.ToLower(username), strings.ToLower(email))
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	if user.IsVerified {
		return nil, apperr.AlreadyExists("user is already verified")
	}

	return s.issueOTP(user, "Verify your account")
}

func (s *authService) Login(username, email, password string) (*LoginResponse, error) {
	if username == "" && email == "" {
		return nil, apperr.InvalidInput("username or email is required")
	}

	user, err := s.userRepo.FindByUsernameOrEmail(strings.ToLower(username), strings.ToLower(email))
	if err != nil {
		return nil, apperr.NotFound("user does not exist")
	}

	if !user.IsVerified {
		return nil, apperr.Unauthorized("account not verified, please verify your email")
	}
	if !user.CheckPassword(password) {
		return nil, apperr.Unauthorized("invalid user credentials")
	}

	return s.issueTokens(user)
}

func (s *authService) Logout(userID uuid.UUID) error {
	return s.userRepo.UpdateRefreshToken(userID, "")
}

func (s *authService) ChangePassword(userID uuid.UUID, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return apperr.InvalidInput("new password must be at least 6 characters")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperr.NotFound("user not found")
	}
	if !user.CheckPassword(oldPassword) {
		return apperr.Unauthorized("invalid old password")
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.userRepo.Update(user)
}

func (s *authService) RequestPasswordReset(username string) (*OTPChallenge, error) {
	if username == "" {
		return nil, apperr.InvalidInput("username is required")
	}

	user, err := s.userRepo.FindByUsername(strings.ToLower(username))
	if err != nil {
		return nil, apperr.NotFound("user with this username does not exist")
	}

	return s.issueOTP(user, "Your password reset code")
}

func (s *authService) ResetPassword(userID uuid.UUID, otp, newPassword string) error {
	if otp == "" || newPassword == "" {
		return apperr.InvalidInput("OTP and new password are required")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperr.NotFound("user not found")
	}

	if err := checkOTP(user, otp); err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	user.OTP = ""
	user.OTPExpiry = nil

	return s.userRepo.Update(user)
}

// issueOTP persists a fresh code and emails it. A mail failure clears the
// stored code so a half-issued challenge cannot linger.
func (s *authService) issueOTP(user *model.User, subject string) (*OTPChallenge, error) {
	code, err := model.RandomNumericCode(6)
	if err != nil {
		return nil, err
	}
	expiry := time.Now().Add(otpTTL)

	user.OTP = code
	user.OTPExpiry = &expiry
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if err := s.mail.Send(user.Email, subject, mailer.OTPBody(code)); err != nil {
		s.log.Error("otp email failed", zap.String("email", user.Email), zap.Error(err))
		user.OTP = ""
		user.OTPExpiry = nil
		if uerr := s.userRepo.Update(user); uerr != nil {
			return nil, uerr
		}
		return nil, apperr.Upstream("failed to send OTP email, please try again")
	}

	return &OTPChallenge{UserID: user.ID, EmailHint: maskEmail(user.Email)}, nil
}

// checkOTP enforces match and expiry. The stored code is single-use; callers
// clear it after a successful check.
func checkOTP(user *model.User, otp string) error {
	if user.OTP == "" || user.OTP != otp || user.OTPExpiry == nil || time.Now().After(*user.OTPExpiry) {
		return apperr.InvalidInput("invalid or expired OTP")
	}
	return nil
}

func (s *authService) issueTokens(user *model.User) (*LoginResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Username, "")
	if err != nil {
		return nil, apperr.Upstream("failed to generate token")
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperr.Upstream("failed to generate token")
	}

	user.RefreshToken = refreshToken
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	}, nil
}

// maskEmail keeps the first three characters of the local part,
// e.g. "johndoe@mail.com" -> "joh***@mail.com".
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	local := email[:at]
	if len(local) > 3 {
		local = local[:3]
	}
	return local + "***" + email[at:]
}
