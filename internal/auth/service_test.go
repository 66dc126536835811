package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riderhub/riderhub-backend/internal/users"
	pkgAuth "github.com/riderhub/riderhub-backend/pkg/auth"
	"github.com/riderhub/riderhub-backend/pkg/config"
	"github.com/riderhub/riderhub-backend/pkg/db/dbtest"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	kind, to, value string
}

type recordingNotifier struct {
	mu       sync.Mutex
	sent     []sentMail
	resetErr error
}

func (r *recordingNotifier) record(kind, to, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMail{kind: kind, to: to, value: value})
	return nil
}

func (r *recordingNotifier) SendVerification(_ context.Context, to, _, code string) error {
	return r.record("verification", to, code)
}

func (r *recordingNotifier) SendPasswordReset(_ context.Context, to, _, link string) error {
	if r.resetErr != nil {
		return r.resetErr
	}
	return r.record("reset", to, link)
}

func (r *recordingNotifier) SendPasswordResetSuccess(_ context.Context, to, _ string) error {
	return r.record("reset_success", to, "")
}

func (r *recordingNotifier) SendWelcome(_ context.Context, to, _, link string) error {
	return r.record("welcome", to, link)
}

func (r *recordingNotifier) last(kind string) (sentMail, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.sent) - 1; i >= 0; i-- {
		if r.sent[i].kind == kind {
			return r.sent[i], true
		}
	}
	return sentMail{}, false
}

type fakeCooldowns struct {
	held map[string]bool
}

func (f *fakeCooldowns) AcquireCooldown(_ context.Context, scope, subject string, _ time.Duration) (bool, error) {
	key := scope + ":" + subject
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeCooldowns) ReleaseCooldown(_ context.Context, scope, subject string) error {
	delete(f.held, scope+":"+subject)
	return nil
}

var testJWT = config.JWTConfig{Secret: "auth-test-secret", Issuer: "riderhub", ExpirationMinutes: 60}

func newTestService(t *testing.T) (Service, *recordingNotifier, *users.Repository) {
	t.Helper()
	client := dbtest.Open(t)
	repo := users.NewRepository(client.DB())
	notifier := &recordingNotifier{}
	svc, err := NewService(ServiceParams{
		Users:          repo,
		Notifier:       notifier,
		Cooldowns:      &fakeCooldowns{held: map[string]bool{}},
		JWTConfig:      testJWT,
		PasswordConfig: config.PasswordConfig{ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
		FrontendURL:    "https://shop.riderhub.co.ke/",
	})
	require.NoError(t, err)
	return svc, notifier, repo
}

func TestRegisterLoginAndMe(t *testing.T) {
	svc, notifier, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Name: "Otieno", Email: " Otieno@Example.com ", Password: "boda-boda-1"})
	require.NoError(t, err)
	assert.Equal(t, "otieno@example.com", user.Email)
	assert.Equal(t, enums.UserTypeCustomer, user.UserType)
	assert.True(t, user.IsApproved)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "boda-boda-1", user.PasswordHash)

	mail, ok := notifier.last("verification")
	require.True(t, ok)
	assert.Len(t, mail.value, 6)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Dup", Email: "otieno@example.com", Password: "boda-boda-1"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	resp, err := svc.Login(ctx, LoginRequest{Email: "OTIENO@example.com", Password: "boda-boda-1"})
	require.NoError(t, err)
	require.NotNil(t, resp.User.LastLoginAt)
	assert.Equal(t, 3600, resp.ExpiresIn)

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	me, err := svc.Me(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Otieno", me.Name)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Name: "Kamau", Email: "kamau@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "kamau@example.com", Password: "wrong-horse"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "wrong-horse"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestStaffRegistrationAwaitsApproval(t *testing.T) {
	svc, _, repo := newTestService(t)
	ctx := context.Background()

	driver, err := svc.Register(ctx, RegisterRequest{Name: "Mwangi", Email: "driver@example.com", Password: "deliveries", UserType: enums.UserTypeDriver})
	require.NoError(t, err)
	assert.False(t, driver.IsApproved)

	_, err = svc.Login(ctx, LoginRequest{Email: "driver@example.com", Password: "deliveries"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = repo.Update(ctx, driver.ID, map[string]any{"is_approved": true})
	require.NoError(t, err)
	_, err = svc.Login(ctx, LoginRequest{Email: "driver@example.com", Password: "deliveries"})
	assert.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Root", Email: "root@example.com", Password: "superuser", UserType: enums.UserTypeAdmin})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestVerifyEmail(t *testing.T) {
	svc, notifier, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Name: "Njeri", Email: "njeri@example.com", Password: "helmet-on"})
	require.NoError(t, err)
	mail, _ := notifier.last("verification")

	wrong := "000000"
	if mail.value == wrong {
		wrong = "111111"
	}
	_, err = svc.VerifyEmail(ctx, VerifyEmailRequest{Email: "njeri@example.com", Code: wrong})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	verified, err := svc.VerifyEmail(ctx, VerifyEmailRequest{Email: "njeri@example.com", Code: mail.value})
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Nil(t, verified.VerificationCode)

	welcome, ok := notifier.last("welcome")
	require.True(t, ok)
	assert.Equal(t, "https://shop.riderhub.co.ke/dashboard", welcome.value)
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, notifier, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Name: "Akinyi", Email: "akinyi@example.com", Password: "old-password"})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: "akinyi@example.com"}))
	mail, ok := notifier.last("reset")
	require.True(t, ok)
	prefix := "https://shop.riderhub.co.ke/reset-password/"
	require.True(t, strings.HasPrefix(mail.value, prefix))
	token := strings.TrimPrefix(mail.value, prefix)

	// a second request inside the cooldown is throttled
	err = svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: "akinyi@example.com"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeRateLimit))

	err = svc.ResetPassword(ctx, "not-the-token", ResetPasswordRequest{Password: "new-password"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, svc.ResetPassword(ctx, token, ResetPasswordRequest{Password: "new-password"}))
	_, ok = notifier.last("reset_success")
	assert.True(t, ok)

	_, err = svc.Login(ctx, LoginRequest{Email: "akinyi@example.com", Password: "new-password"})
	assert.NoError(t, err)

	// tokens are single use
	err = svc.ResetPassword(ctx, token, ResetPasswordRequest{Password: "another-one"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	svc, notifier, _ := newTestService(t)
	require.NoError(t, svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "ghost@example.com"}))
	_, ok := notifier.last("reset")
	assert.False(t, ok)
}

func TestForgotPasswordReleasesCooldownWhenSendFails(t *testing.T) {
	svc, notifier, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Name: "Mwangi", Email: "mwangi@example.com", Password: "boda-boda-2"})
	require.NoError(t, err)

	notifier.resetErr = errors.New("smtp down")
	err = svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: "mwangi@example.com"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	notifier.resetErr = nil
	require.NoError(t, svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: "mwangi@example.com"}))
	_, ok := notifier.last("reset")
	assert.True(t, ok)
}
