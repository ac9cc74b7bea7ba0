package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	myPostgresRepo "github.com/Miraines/hoops-auth/internal/adapters/db/postgres"
	myRedisRepo "github.com/Miraines/hoops-auth/internal/adapters/db/redis"
	httpapi "github.com/Miraines/hoops-auth/internal/adapters/transport/http"
	"github.com/Miraines/hoops-auth/internal/adapters/transport/http/dto"
	httpmw "github.com/Miraines/hoops-auth/internal/adapters/transport/http/middleware"
	"github.com/Miraines/hoops-auth/internal/app/auth/google"
	"github.com/Miraines/hoops-auth/internal/app/auth/jwt"
	"github.com/Miraines/hoops-auth/internal/app/auth/password"
	appsvc "github.com/Miraines/hoops-auth/internal/app/auth/service"
	"github.com/Miraines/hoops-auth/internal/infra/metrics"
	"github.com/Miraines/hoops-auth/internal/infra/migrate"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on start")
	return cmd
}

func serve(parent context.Context, skipMigrations bool) error {
	cfg, zapLog, err := bootstrap()
	if err != nil {
		return err
	}
	defer zapLog.Sync()

	db, err := openDB(cfg.DatabaseURL)
	if err != nil {
		zapLog.Error("failed to connect to database", zap.Error(err))
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if !skipMigrations {
		if err := migrate.Up(sqlDB); err != nil {
			zapLog.Error("run migrations", zap.Error(err))
			return err
		}
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userRepo := myPostgresRepo.NewPostgresUserRepo(db)
	tokenRepo := myRedisRepo.NewRedisTokenRepo(redisCli)

	jwtUtil, err := jwt.NewJWTUtil(cfg)
	if err != nil {
		zapLog.Error("failed to init JWT util", zap.Error(err))
		return err
	}
	verifier, err := google.NewVerifier(ctx, cfg.GoogleClientID, cfg.GoogleVerifyTimeout, zapLog)
	if err != nil {
		zapLog.Error("failed to init google verifier", zap.Error(err))
		return err
	}
	validate := dto.NewValidator()
	hasher := password.NewHasher(cfg.PasswordPepper)

	authSvc := appsvc.NewAuthService(userRepo, tokenRepo, jwtUtil, hasher, cfg, validate, zapLog)
	googleSvc := appsvc.NewGoogleAuthService(userRepo, tokenRepo, jwtUtil, verifier, cfg, validate, zapLog)
	userSvc := appsvc.NewUserService(userRepo)

	m := metrics.New()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.RequestLogger(zapLog, m))
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	httpapi.NewHandler(authSvc, googleSvc, userSvc, map[string]httpapi.Pinger{
		"postgres": userRepo,
		"redis":    tokenRepo,
	}, m, zapLog).Register(router, httpmw.Principal(jwtUtil))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLog.Info("http server listening", zap.String("addr", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zapLog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
		return err
	}
	return nil
}
