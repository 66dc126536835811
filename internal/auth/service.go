package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riderhub/riderhub-backend/internal/users"
	pkgAuth "github.com/riderhub/riderhub-backend/pkg/auth"
	"github.com/riderhub/riderhub-backend/pkg/config"
	"github.com/riderhub/riderhub-backend/pkg/db"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/logger"
	"github.com/riderhub/riderhub-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	verificationCodeDigits    = 6
	verificationTTL           = 24 * time.Hour
	resetTokenTTL             = time.Hour
	forgotPasswordCooldown    = 2 * time.Minute
	forgotPasswordScope       = "forgot_password"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*models.User, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, token string, req ResetPasswordRequest) error
	Me(ctx context.Context, userID uint) (*models.User, error)
}

// Notifier delivers the account lifecycle emails.
type Notifier interface {
	SendVerification(ctx context.Context, to, name, code string) error
	SendPasswordReset(ctx context.Context, to, name, resetLink string) error
	SendPasswordResetSuccess(ctx context.Context, to, name string) error
	SendWelcome(ctx context.Context, to, name, dashboardLink string) error
}

// Cooldowns guards repeated password reset requests. Optional.
type Cooldowns interface {
	AcquireCooldown(ctx context.Context, scope, subject string, ttl time.Duration) (bool, error)
	ReleaseCooldown(ctx context.Context, scope, subject string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users          *users.Repository
	Notifier       Notifier
	Cooldowns      Cooldowns
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	FrontendURL    string
	Logger         *logger.Logger
	Now            func() time.Time
}

type service struct {
	users       *users.Repository
	notifier    Notifier
	cooldowns   Cooldowns
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	frontendURL string
	logg        *logger.Logger
	now         func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if strings.TrimSpace(params.JWTConfig.Secret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		users:       params.Users,
		notifier:    params.Notifier,
		cooldowns:   params.Cooldowns,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		frontendURL: strings.TrimRight(params.FrontendURL, "/"),
		logg:        params.Logger,
		now:         now,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	email := users.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}
	if len(req.Password) < security.MinPasswordLength {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "password must be at least %d characters", security.MinPasswordLength)
	}

	userType := req.UserType
	if userType == "" {
		userType = enums.UserTypeCustomer
	}
	if !userType.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid userType %q", userType)
	}
	if userType == enums.UserTypeAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin accounts cannot self-register")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	code, err := security.NewVerificationCode(verificationCodeDigits)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification code")
	}
	expires := s.now().Add(verificationTTL)

	user := &models.User{
		Name:                name,
		Email:               email,
		PasswordHash:        hash,
		UserType:            userType,
		IsApproved:          userType == enums.UserTypeCustomer,
		VerificationCode:    &code,
		VerificationExpires: &expires,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, err
	}

	if err := s.notifier.SendVerification(ctx, user.Email, user.Name, code); err != nil {
		s.warn(ctx, "auth.register.verification_email_failed", err)
	}
	return user, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if user.UserType.IsStaff() && user.UserType != enums.UserTypeAdmin && !user.IsApproved {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is awaiting approval")
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID:   user.ID,
		Email:    user.Email,
		UserType: user.UserType,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		Token:     token,
		ExpiresIn: s.jwtCfg.ExpirationMinutes * 60,
		User:      user,
	}, nil
}

func (s *service) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*models.User, error) {
	user, err := s.users.FindByVerificationCode(ctx, req.Email, strings.TrimSpace(req.Code), s.now())
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired verification code")
		}
		return nil, err
	}

	updated, err := s.users.Update(ctx, user.ID, map[string]any{
		"is_verified":          true,
		"verification_code":    nil,
		"verification_expires": nil,
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendWelcome(ctx, updated.Email, updated.Name, s.link("/dashboard")); err != nil {
		s.warn(ctx, "auth.verify.welcome_email_failed", err)
	}
	return updated, nil
}

// ForgotPassword never reveals whether the email exists.
func (s *service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	email := users.NormalizeEmail(req.Email)
	if s.cooldowns != nil {
		ok, err := s.cooldowns.AcquireCooldown(ctx, forgotPasswordScope, security.DigestToken(email), forgotPasswordCooldown)
		if err != nil {
			s.warn(ctx, "auth.forgot_password.cooldown_unavailable", err)
		} else if !ok {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "a reset link was sent recently, please check your email")
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil
		}
		return err
	}

	token, digest, err := security.NewResetToken()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}
	if _, err := s.users.Update(ctx, user.ID, map[string]any{
		"reset_password_token":   digest,
		"reset_password_expires": s.now().Add(resetTokenTTL),
	}); err != nil {
		return err
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Email, user.Name, s.link("/reset-password/"+token)); err != nil {
		// a failed send must not lock the user out of retrying
		if s.cooldowns != nil {
			if relErr := s.cooldowns.ReleaseCooldown(ctx, forgotPasswordScope, security.DigestToken(email)); relErr != nil {
				s.warn(ctx, "auth.forgot_password.cooldown_release_failed", relErr)
			}
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unable to send reset email")
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, token string, req ResetPasswordRequest) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reset token is required")
	}
	if len(req.Password) < security.MinPasswordLength {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "password must be at least %d characters", security.MinPasswordLength)
	}

	user, err := s.users.FindByResetDigest(ctx, security.DigestToken(token), s.now())
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired reset token")
		}
		return err
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if _, err := s.users.Update(ctx, user.ID, map[string]any{
		"password":               hash,
		"reset_password_token":   nil,
		"reset_password_expires": nil,
	}); err != nil {
		return err
	}

	if err := s.notifier.SendPasswordResetSuccess(ctx, user.Email, user.Name); err != nil {
		s.warn(ctx, "auth.reset_password.confirmation_email_failed", err)
	}
	return nil
}

func (s *service) Me(ctx context.Context, userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return s.users.FindByID(ctx, userID)
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, err
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) link(path string) string {
	return s.frontendURL + path
}

func (s *service) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
}
