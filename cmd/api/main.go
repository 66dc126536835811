package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/riderhub/riderhub-backend/api/controllers"
	"github.com/riderhub/riderhub-backend/api/middleware"
	"github.com/riderhub/riderhub-backend/api/routes"
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
	"github.com/riderhub/riderhub-backend/pkg/db"
	"github.com/riderhub/riderhub-backend/pkg/logger"
	"github.com/riderhub/riderhub-backend/pkg/mail"
	"github.com/riderhub/riderhub-backend/pkg/metrics"
	"github.com/riderhub/riderhub-backend/pkg/migrate"
	"github.com/riderhub/riderhub-backend/pkg/redis"
	"github.com/riderhub/riderhub-backend/pkg/storage"
	"github.com/riderhub/riderhub-backend/pkg/storage/s3store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	health := map[string]controllers.Pinger{"db": dbClient}
	var (
		rateCounter middleware.RateCounter
		formLimiter middleware.WindowLimiter
		cooldowns   auth.Cooldowns
	)
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		health["redis"] = redisClient
		rateCounter = redisClient
		formLimiter = redisClient
		cooldowns = redisClient
	} else {
		logg.Warn(ctx, "redis not configured, auth and form rate limits and email cooldowns disabled")
	}

	var images storage.ImageStore
	if cfg.Storage.Bucket != "" {
		store, err := s3store.New(ctx, cfg.Storage, logg)
		if err != nil {
			return err
		}
		health["storage"] = store
		images = store
	} else {
		logg.Warn(ctx, "object storage not configured, product images kept in memory")
		images = storage.NewMemoryStore("http://localhost:"+cfg.App.Port+"/assets", cfg.Storage.KeyPrefix, cfg.Storage.MaxUploadBytes())
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mailer := mail.NewMailer(mail.NewSender(cfg.SMTP, logg))
	svc, err := buildServices(cfg, logg, dbClient, images, metrics.NewImageMetrics(reg), mailer, cooldowns)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Infra{
			Health:      health,
			RateCounter: rateCounter,
			FormLimiter: formLimiter,
			HTTPMetrics: metrics.NewHTTPMetrics(reg),
			Gatherer:    reg,
		}, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr})
	logg.Info(logCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	images storage.ImageStore,
	imageMetrics *metrics.ImageMetrics,
	mailer *mail.Mailer,
	cooldowns auth.Cooldowns,
) (routes.Services, error) {
	conn := dbClient.DB()
	var out routes.Services
	var err error

	usersRepo := users.NewRepository(conn)
	if out.Auth, err = auth.NewService(auth.ServiceParams{
		Users:          usersRepo,
		Notifier:       mailer,
		Cooldowns:      cooldowns,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		FrontendURL:    cfg.Frontend.BaseURL,
		Logger:         logg,
	}); err != nil {
		return out, err
	}
	if out.Users, err = users.NewService(usersRepo); err != nil {
		return out, err
	}
	if out.Addresses, err = addresses.NewService(conn); err != nil {
		return out, err
	}
	if out.Products, err = products.NewService(products.ServiceParams{
		Repo:    products.NewRepository(conn),
		Images:  images,
		Metrics: imageMetrics,
		Logger:  logg,
	}); err != nil {
		return out, err
	}
	if out.Cart, err = cart.NewService(cart.NewRepository(conn), dbClient); err != nil {
		return out, err
	}
	if out.Orders, err = orders.NewService(orders.ServiceParams{
		Repo:        orders.NewRepository(conn),
		Tx:          dbClient,
		Notifier:    mailer,
		FrontendURL: cfg.Frontend.BaseURL,
		Logger:      logg,
	}); err != nil {
		return out, err
	}
	if out.Rentals, err = rentals.NewService(conn); err != nil {
		return out, err
	}
	if out.Fines, err = fines.NewService(conn, dbClient); err != nil {
		return out, err
	}
	if out.Services, err = services.NewService(conn); err != nil {
		return out, err
	}
	if out.Bookings, err = bookings.NewService(conn); err != nil {
		return out, err
	}
	if out.Dispatches, err = dispatches.NewService(conn); err != nil {
		return out, err
	}
	if out.Inventories, err = inventories.NewService(conn); err != nil {
		return out, err
	}
	if out.Payments, err = payments.NewService(conn, dbClient, logg); err != nil {
		return out, err
	}
	if out.Feedbacks, err = feedbacks.NewService(conn); err != nil {
		return out, err
	}
	if out.Reports, err = reports.NewService(conn); err != nil {
		return out, err
	}
	if out.Contacts, err = contacts.NewService(conn); err != nil {
		return out, err
	}
	return out, nil
}
