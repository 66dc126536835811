package routes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/riderhub/riderhub-backend/api/controllers"
	"github.com/riderhub/riderhub-backend/internal/auth"
	"github.com/riderhub/riderhub-backend/internal/contacts"
	"github.com/riderhub/riderhub-backend/internal/payments"
	"github.com/riderhub/riderhub-backend/internal/products"
	"github.com/riderhub/riderhub-backend/internal/rentals"
	pkgAuth "github.com/riderhub/riderhub-backend/pkg/auth"
	"github.com/riderhub/riderhub-backend/pkg/config"
	"github.com/riderhub/riderhub-backend/pkg/db/dbtest"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/logger"
	"github.com/riderhub/riderhub-backend/pkg/metrics"
	"github.com/riderhub/riderhub-backend/pkg/storage"
	"github.com/riderhub/riderhub-backend/pkg/types"
	"gorm.io/gorm"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubAuthService struct{ auth.Service }

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

type memoryCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (c *memoryCounter) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int64{}
	}
	c.counts[key]++
	return c.counts[key], nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "riderhub-test",
			ExpirationMinutes: 60,
		},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:  time.Minute,
			LoginIPLimit: 2,
		},
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test-routing", Output: io.Discard})
}

func newTestRouter(t *testing.T, cfg *config.Config, infra Infra) http.Handler {
	t.Helper()
	router, _ := newTestStack(t, cfg, infra)
	return router
}

// newTestStack wires the real catalog, rental, payment and contact services
// over one in-memory database and returns the handle for seeding.
func newTestStack(t *testing.T, cfg *config.Config, infra Infra) (http.Handler, *gorm.DB) {
	t.Helper()
	client := dbtest.Open(t)
	conn := client.DB()
	logg := testLogger()

	contactSvc, err := contacts.NewService(conn)
	require.NoError(t, err)
	productSvc, err := products.NewService(products.ServiceParams{
		Repo:   products.NewRepository(conn),
		Images: storage.NewMemoryStore("http://localhost/assets", "products", 1<<20),
		Logger: logg,
	})
	require.NoError(t, err)
	rentalSvc, err := rentals.NewService(conn)
	require.NoError(t, err)
	paymentSvc, err := payments.NewService(conn, client, logg)
	require.NoError(t, err)

	return NewRouter(cfg, logg, infra, Services{
		Auth:     stubAuthService{},
		Products: productSvc,
		Rentals:  rentalSvc,
		Payments: paymentSvc,
		Contacts: contactSvc,
	}), conn
}

// tokenUserID is the subject of every token minted by buildToken.
const tokenUserID = 7

func buildToken(t *testing.T, cfg *config.Config, userType enums.UserType) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   tokenUserID,
		Email:    "rider@example.com",
		UserType: userType,
		JTI:      "test-jti",
	})
	require.NoError(t, err)
	return token
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, testConfig(), Infra{})
	resp := serve(router, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "test", resp.Header().Get("X-RiderHub-Env"))
}

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	router := newTestRouter(t, testConfig(), Infra{Health: map[string]controllers.Pinger{
		"db":    stubPinger{},
		"redis": stubPinger{err: errors.New("connection refused")},
	}})
	resp := serve(router, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	require.Contains(t, resp.Body.String(), string(pkgerrors.CodeDependency))
}

func TestHealthReadySkipsNilDependencies(t *testing.T) {
	router := newTestRouter(t, testConfig(), Infra{Health: map[string]controllers.Pinger{
		"db":    stubPinger{},
		"redis": nil,
	}})
	resp := serve(router, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"db":"ok"`)
}

func TestProtectedRouteRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(t, testConfig(), Infra{})
	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestProtectedRouteRejectsBadJWT(t *testing.T) {
	router := newTestRouter(t, testConfig(), Infra{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp := serve(router, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUsersRequireAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg, Infra{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeFinanceManager))
	resp := serve(router, req)
	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestProductWritesRequireSupplierRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg, Infra{})
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/1", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeCustomer))
	resp := serve(router, req)
	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestContactsPublicCreateAndStaffList(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg, Infra{})

	body := `{"name":"Wanjiru","email":"Wanjiru@Example.com","message":"Do you stock size 44 boots?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := serve(router, req)
	require.Equal(t, http.StatusCreated, resp.Code)
	require.Contains(t, resp.Body.String(), "wanjiru@example.com")

	customer := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeCustomer))
	require.Equal(t, http.StatusForbidden, serve(router, customer).Code)

	staff := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeServiceManager))
	resp = serve(router, staff)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "size 44 boots")
}

func TestLoginRateLimitedByIP(t *testing.T) {
	router := newTestRouter(t, testConfig(), Infra{RateCounter: &memoryCounter{}})

	login := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"rider@example.com","password":"wrong-password"}`))
		req.Header.Set("Content-Type", "application/json")
		return serve(router, req)
	}

	require.Equal(t, http.StatusUnauthorized, login().Code)
	require.Equal(t, http.StatusUnauthorized, login().Code)

	resp := login()
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	require.NotEmpty(t, resp.Header().Get("Retry-After"))
}

func TestLoginWithoutCounterIsNotLimited(t *testing.T) {
	router := newTestRouter(t, testConfig(), Infra{})
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"rider@example.com","password":"wrong-password"}`))
		req.Header.Set("Content-Type", "application/json")
		require.Equal(t, http.StatusUnauthorized, serve(router, req).Code)
	}
}

func TestMetricsEndpointExposesRequestCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := newTestRouter(t, testConfig(), Infra{
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
	})

	serve(router, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	resp := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "/health/live")
}

func seedUser(t *testing.T, conn *gorm.DB, id uint, email string) *models.User {
	t.Helper()
	user := &models.User{ID: id, Name: "Rider", Email: email, PasswordHash: "x", UserType: enums.UserTypeCustomer}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func TestPublicCatalogIsServed(t *testing.T) {
	router, conn := newTestStack(t, testConfig(), Infra{})
	require.NoError(t, conn.Create(&models.Product{Name: "Trail Helmet", Price: types.MoneyFromInt(4500), Category: enums.ProductCategoryHelmet, StockQuantity: 3}).Error)

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Trail Helmet")
}

func TestCustomerCannotDeleteAnotherRidersRental(t *testing.T) {
	cfg := testConfig()
	router, conn := newTestStack(t, cfg, Infra{})
	owner := seedUser(t, conn, 1, "owner@example.com")
	bike := &models.Product{Name: "Commuter 150", Price: types.MoneyFromInt(1500), Category: enums.ProductCategoryMotorcycle, StockQuantity: 1}
	require.NoError(t, conn.Create(bike).Error)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rental := &models.Rental{UserID: owner.ID, ProductID: bike.ID, RentStart: start, RentEnd: start.Add(24 * time.Hour), Status: enums.RentalStatusPending}
	require.NoError(t, conn.Create(rental).Error)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/rentals/%d", rental.ID), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeCustomer))
	require.Equal(t, http.StatusNotFound, serve(router, req).Code)

	var left int64
	require.NoError(t, conn.Model(&models.Rental{}).Where("id = ?", rental.ID).Count(&left).Error)
	require.Equal(t, int64(1), left)
}

func TestOwnerDeleteAnswersWithEnvelope(t *testing.T) {
	cfg := testConfig()
	router, conn := newTestStack(t, cfg, Infra{})
	rider := seedUser(t, conn, tokenUserID, "rider@example.com")
	bike := &models.Product{Name: "Commuter 150", Price: types.MoneyFromInt(1500), Category: enums.ProductCategoryMotorcycle, StockQuantity: 1}
	require.NoError(t, conn.Create(bike).Error)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rental := &models.Rental{UserID: rider.ID, ProductID: bike.ID, RentStart: start, RentEnd: start.Add(24 * time.Hour), Status: enums.RentalStatusPending}
	require.NoError(t, conn.Create(rental).Error)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/rentals/%d", rental.ID), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeCustomer))
	resp := serve(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, fmt.Sprintf(`{"success":true,"data":{"id":%d,"deleted":true}}`, rental.ID), resp.Body.String())
}

func TestCustomerCannotSettleOrderWithForgedCheckout(t *testing.T) {
	cfg := testConfig()
	router, conn := newTestStack(t, cfg, Infra{})
	owner := seedUser(t, conn, 1, "owner@example.com")
	seedUser(t, conn, tokenUserID, "rider@example.com")
	order := &models.Order{UserID: owner.ID, TotalPrice: types.MoneyFromInt(5000), OrderStatus: enums.OrderStatusPending, PaymentStatus: enums.OrderPaymentPending}
	require.NoError(t, conn.Create(order).Error)
	token := "Bearer " + buildToken(t, cfg, enums.UserTypeCustomer)

	forged := fmt.Sprintf(`{"orderId":%d,"amount":"1","phoneNumber":"0712345678","checkoutRequestId":"forged"}`, order.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(forged))
	req.Header.Set("Authorization", token)
	require.Equal(t, http.StatusForbidden, serve(router, req).Code)

	foreign := fmt.Sprintf(`{"orderId":%d,"amount":"1","phoneNumber":"0712345678"}`, order.ID)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(foreign))
	req.Header.Set("Authorization", token)
	require.Equal(t, http.StatusNotFound, serve(router, req).Code)

	callback := `{"Body":{"stkCallback":{"MerchantRequestID":"m-1","CheckoutRequestID":"forged","ResultCode":0,"ResultDesc":"ok"}}}`
	resp := serve(router, httptest.NewRequest(http.MethodPost, "/api/v1/payments/mpesa/callback", strings.NewReader(callback)))
	require.Equal(t, http.StatusNotFound, resp.Code)

	var reloaded models.Order
	require.NoError(t, conn.First(&reloaded, order.ID).Error)
	require.Equal(t, enums.OrderPaymentPending, reloaded.PaymentStatus)
}
