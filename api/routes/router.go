package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riderhub/riderhub-backend/api/controllers"
	"github.com/riderhub/riderhub-backend/api/middleware"
	"github.com/riderhub/riderhub-backend/internal/addresses"
	"github.com/riderhub/riderhub-backend/internal/auth"
	"github.com/riderhub/riderhub-backend/internal/bookings"
	"github.com/riderhub/riderhub-backend/internal/cart"
	"github.com/riderhub/riderhub-backend/internal/contacts"
	"github.com/riderhub/riderhub-backend/internal/dispatches"
	"github.com/riderhub/riderhub-backend/internal/feedbacks"
	"github.com/riderhub/riderhub-backend/internal/fines"
	"github.com/riderhub/riderhub-backend/internal/inventories"
	"github.com/riderhub/riderhub-backend/internal/orders"
	"github.com/riderhub/riderhub-backend/internal/payments"
	"github.com/riderhub/riderhub-backend/internal/products"
	"github.com/riderhub/riderhub-backend/internal/rentals"
	"github.com/riderhub/riderhub-backend/internal/reports"
	"github.com/riderhub/riderhub-backend/internal/services"
	"github.com/riderhub/riderhub-backend/internal/users"
	"github.com/riderhub/riderhub-backend/pkg/config"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	"github.com/riderhub/riderhub-backend/pkg/logger"
	"github.com/riderhub/riderhub-backend/pkg/metrics"
)

// Services bundles the domain services mounted by the router.
type Services struct {
	Auth        auth.Service
	Users       users.Service
	Addresses   addresses.Service
	Products    products.Service
	Cart        cart.Service
	Orders      orders.Service
	Rentals     rentals.Service
	Fines       fines.Service
	Services    services.Service
	Bookings    bookings.Service
	Dispatches  dispatches.Service
	Inventories inventories.Service
	Payments    payments.Service
	Feedbacks   feedbacks.Service
	Reports     reports.Service
	Contacts    contacts.Service
}

// Infra carries the optional collaborators used by the ambient routes.
// Nil fields disable the feature they back.
type Infra struct {
	Health      map[string]controllers.Pinger
	RateCounter middleware.RateCounter
	FormLimiter middleware.WindowLimiter
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Metrics(infra.HTTPMetrics),
		middleware.Logging(logg),
		middleware.CORS(cfg.Frontend.Origins()),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		int64(cfg.AuthRateLimit.LoginIPLimit),
		int64(cfg.AuthRateLimit.LoginEmailLimit),
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		int64(cfg.AuthRateLimit.RegisterIPLimit),
		int64(cfg.AuthRateLimit.RegisterEmailLimit),
	)
	maxUpload := cfg.Storage.MaxUploadBytes()

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, infra.Health, logg))
	})
	if infra.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, infra.RateCounter, logg)).Post("/register", controllers.AuthRegister(svc.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, infra.RateCounter, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
			r.Post("/verify-email", controllers.AuthVerifyEmail(svc.Auth, logg))
			r.Post("/forgot-password", controllers.AuthForgotPassword(svc.Auth, logg))
			r.Post("/reset-password/{token}", controllers.AuthResetPassword(svc.Auth, logg))
			r.With(middleware.Auth(cfg.JWT, logg)).Get("/me", controllers.AuthMe(svc.Auth, logg))
		})

		// Public catalogue, reviews and contact intake.
		r.Get("/products", controllers.ListProducts(svc.Products, logg))
		r.Get("/products/{id}", controllers.GetProduct(svc.Products, logg))
		r.Post("/products/search", controllers.SearchProducts(svc.Products, logg))
		r.Get("/services", controllers.ListServices(svc.Services, logg))
		r.Get("/services/{id}", controllers.GetService(svc.Services, logg))
		r.Get("/feedbacks", controllers.ListFeedbacks(svc.Feedbacks, logg))
		r.Get("/feedbacks/{id}", controllers.GetFeedback(svc.Feedbacks, logg))
		r.With(middleware.FormRateLimit("contact", cfg.FormRateLimit.IPLimit, cfg.FormRateLimit.Window, infra.FormLimiter, logg)).
			Post("/contacts", controllers.CreateContact(svc.Contacts, logg))
		r.Post("/payments/mpesa/callback", controllers.MpesaCallback(svc.Payments, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg))
				r.Get("/", controllers.ListUsers(svc.Users, logg))
				r.Get("/{id}", controllers.GetUser(svc.Users, logg))
				r.Put("/{id}", controllers.UpdateUser(svc.Users, logg))
				r.Delete("/{id}", controllers.DeleteUser(svc.Users, logg))
				r.Post("/{id}/approve", controllers.ApproveUser(svc.Users, logg))
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Post("/", controllers.CreateAddress(svc.Addresses, logg))
				r.Get("/", controllers.ListAddresses(svc.Addresses, logg))
				r.Get("/{id}", controllers.GetAddress(svc.Addresses, logg))
				r.Put("/{id}", controllers.UpdateAddress(svc.Addresses, logg))
				r.Delete("/{id}", controllers.DeleteAddress(svc.Addresses, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserTypeSupplier, enums.UserTypeInventoryManager))
				r.Post("/products", controllers.CreateProduct(svc.Products, maxUpload, logg))
				r.Put("/products/{id}", controllers.UpdateProduct(svc.Products, maxUpload, logg))
				r.Delete("/products/{id}", controllers.DeleteProduct(svc.Products, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(svc.Cart, logg))
				r.Delete("/", controllers.ClearCart(svc.Cart, logg))
				r.Post("/items", controllers.AddCartItem(svc.Cart, logg))
				r.Put("/items/{id}", controllers.UpdateCartItem(svc.Cart, logg))
				r.Delete("/items/{id}", controllers.RemoveCartItem(svc.Cart, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.CreateOrder(svc.Orders, logg))
				r.Get("/", controllers.ListOrders(svc.Orders, logg))
				r.Get("/{id}", controllers.GetOrder(svc.Orders, logg))
				r.Delete("/{id}", controllers.DeleteOrder(svc.Orders, logg))
				r.With(middleware.RequireStaff(logg)).Put("/{id}", controllers.UpdateOrder(svc.Orders, logg))
			})

			r.Route("/rentals", func(r chi.Router) {
				r.Post("/", controllers.CreateRental(svc.Rentals, logg))
				r.Get("/", controllers.ListRentals(svc.Rentals, logg))
				r.Get("/{id}", controllers.GetRental(svc.Rentals, logg))
				r.Delete("/{id}", controllers.DeleteRental(svc.Rentals, logg))
				r.With(middleware.RequireStaff(logg)).Put("/{id}", controllers.UpdateRental(svc.Rentals, logg))
			})

			r.Route("/fines", func(r chi.Router) {
				finance := middleware.RequireRole(logg, enums.UserTypeFinanceManager)
				r.Get("/", controllers.ListFines(svc.Fines, logg))
				r.Get("/{id}", controllers.GetFine(svc.Fines, logg))
				r.With(finance).Post("/", controllers.CreateFine(svc.Fines, logg))
				r.With(finance).Put("/{id}", controllers.UpdateFine(svc.Fines, logg))
				r.With(finance).Delete("/{id}", controllers.DeleteFine(svc.Fines, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserTypeServiceManager, enums.UserTypeTechnicianManager))
				r.Post("/services", controllers.CreateService(svc.Services, logg))
				r.Put("/services/{id}", controllers.UpdateService(svc.Services, logg))
				r.Delete("/services/{id}", controllers.DeleteService(svc.Services, logg))
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Post("/", controllers.CreateBooking(svc.Bookings, logg))
				r.Get("/", controllers.ListBookings(svc.Bookings, logg))
				r.Get("/{id}", controllers.GetBooking(svc.Bookings, logg))
				r.Delete("/{id}", controllers.DeleteBooking(svc.Bookings, logg))
				r.With(middleware.RequireRole(logg, enums.UserTypeServiceManager, enums.UserTypeTechnicianManager)).
					Put("/{id}", controllers.UpdateBooking(svc.Bookings, logg))
			})

			r.Route("/dispatches", func(r chi.Router) {
				manager := middleware.RequireRole(logg, enums.UserTypeDispatchManager)
				r.Use(middleware.RequireRole(logg, enums.UserTypeDispatchManager, enums.UserTypeDriver))
				r.Get("/", controllers.ListDispatches(svc.Dispatches, logg))
				r.Get("/{id}", controllers.GetDispatch(svc.Dispatches, logg))
				r.Put("/{id}", controllers.UpdateDispatch(svc.Dispatches, logg))
				r.With(manager).Post("/", controllers.CreateDispatch(svc.Dispatches, logg))
				r.With(manager).Delete("/{id}", controllers.DeleteDispatch(svc.Dispatches, logg))
			})

			r.Route("/inventories", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserTypeInventoryManager, enums.UserTypeSupplier))
				r.Post("/", controllers.CreateInventoryEntry(svc.Inventories, logg))
				r.Get("/", controllers.ListInventoryEntries(svc.Inventories, logg))
				r.Get("/{id}", controllers.GetInventoryEntry(svc.Inventories, logg))
				r.Put("/{id}", controllers.UpdateInventoryEntry(svc.Inventories, logg))
				r.Delete("/{id}", controllers.DeleteInventoryEntry(svc.Inventories, logg))
			})

			r.Post("/payments", controllers.CreatePayment(svc.Payments, logg))
			r.Get("/payments", controllers.ListPayments(svc.Payments, logg))
			r.Get("/payments/{id}", controllers.GetPayment(svc.Payments, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserTypeFinanceManager))
				r.Put("/payments/{id}", controllers.UpdatePayment(svc.Payments, logg))
				r.Delete("/payments/{id}", controllers.DeletePayment(svc.Payments, logg))
				r.Post("/payments/{id}/approve", controllers.ApprovePayment(svc.Payments, logg))
			})

			r.Post("/feedbacks", controllers.CreateFeedback(svc.Feedbacks, logg))
			r.Put("/feedbacks/{id}", controllers.UpdateFeedback(svc.Feedbacks, logg))
			r.Delete("/feedbacks/{id}", controllers.DeleteFeedback(svc.Feedbacks, logg))

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequireStaff(logg))
				r.Post("/", controllers.CreateReport(svc.Reports, logg))
				r.Post("/generate", controllers.GenerateReport(svc.Reports, logg))
				r.Get("/", controllers.ListReports(svc.Reports, logg))
				r.Get("/{id}", controllers.GetReport(svc.Reports, logg))
				r.Put("/{id}", controllers.UpdateReport(svc.Reports, logg))
				r.Delete("/{id}", controllers.DeleteReport(svc.Reports, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff(logg))
				r.Get("/contacts", controllers.ListContacts(svc.Contacts, logg))
				r.Get("/contacts/{id}", controllers.GetContact(svc.Contacts, logg))
				r.Put("/contacts/{id}", controllers.UpdateContact(svc.Contacts, logg))
				r.Delete("/contacts/{id}", controllers.DeleteContact(svc.Contacts, logg))
			})
		})
	})

	return r
}
