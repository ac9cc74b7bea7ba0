package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Miraines/hoops-auth/internal/adapters/transport/http/dto"
	"github.com/Miraines/hoops-auth/internal/adapters/transport/http/middleware"
	customErrors "github.com/Miraines/hoops-auth/internal/domain/auth/errors"
	"github.com/Miraines/hoops-auth/internal/domain/auth/model"
	"github.com/Miraines/hoops-auth/internal/infra/metrics"
)

type AuthService interface {
	Signup(ctx context.Context, in dto.SignupDTO) (model.AuthResponse, error)
	Login(ctx context.Context, in dto.LoginDTO) (model.AuthResponse, error)
	Refresh(ctx context.Context, in dto.RefreshDTO) (model.AuthResponse, error)
	Logout(ctx context.Context, userID int64, in dto.LogoutDTO) error
}

type GoogleService interface {
	Authenticate(ctx context.Context, in dto.GoogleLoginDTO) (model.AuthResponse, error)
}

type UserService interface {
	Me(ctx context.Context, userID int64) (model.UserProfile, error)
	CheckEmailAvailability(ctx context.Context, email string) (bool, error)
	CheckNicknameAvailability(ctx context.Context, nickname string) (bool, error)
}

// Pinger is a backing store the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OperationRecorder counts operations by outcome.
type OperationRecorder interface {
	Observe(operation, outcome string)
}

const healthTimeout = 2 * time.Second

type Handler struct {
	auth    AuthService
	google  GoogleService
	users   UserService
	checks  map[string]Pinger
	metrics OperationRecorder
	log     *zap.Logger
}

func NewHandler(
	auth AuthService,
	google GoogleService,
	users UserService,
	checks map[string]Pinger,
	rec OperationRecorder,
	log *zap.Logger,
) *Handler {
	return &Handler{
		auth:    auth,
		google:  google,
		users:   users,
		checks:  checks,
		metrics: rec,
		log:     log,
	}
}

// Register mounts the auth API under /api/auth and GET /health on r.
func (h *Handler) Register(r gin.IRouter, principal gin.HandlerFunc) {
	r.GET("/health", h.health)

	api := r.Group("/api/auth", principal)
	api.POST("/signup", h.signup)
	api.POST("/login", h.login)
	api.POST("/google", h.googleLogin)
	api.POST("/refresh", h.refresh)
	api.POST("/logout", h.logout)
	api.GET("/me", h.me)
	api.GET("/check-email", h.checkEmail)
	api.GET("/check-nickname", h.checkNickname)
}

func (h *Handler) done(c *gin.Context, op string, err error) bool {
	if err == nil {
		h.metrics.Observe(op, metrics.OutcomeSuccess)
		return true
	}
	kind := errorResponse(c, err)
	h.metrics.Observe(op, kind.Code)
	return false
}

func bind[T any](c *gin.Context) (T, error) {
	var body T
	if err := c.ShouldBindJSON(&body); err != nil {
		return body, customErrors.NewInvalidArgument("malformed request body")
	}
	return body, nil
}

func (h *Handler) signup(c *gin.Context) {
	var resp model.AuthResponse
	body, err := bind[dto.SignupDTO](c)
	if err == nil {
		resp, err = h.auth.Signup(c.Request.Context(), body)
	}
	if h.done(c, "signup", err) {
		respond(c, http.StatusCreated, resp, "signed up")
	}
}

func (h *Handler) login(c *gin.Context) {
	var resp model.AuthResponse
	body, err := bind[dto.LoginDTO](c)
	if err == nil {
		resp, err = h.auth.Login(c.Request.Context(), body)
	}
	if h.done(c, "login", err) {
		respond(c, http.StatusOK, resp, "logged in")
	}
}

func (h *Handler) googleLogin(c *gin.Context) {
	var resp model.AuthResponse
	body, err := bind[dto.GoogleLoginDTO](c)
	if err == nil {
		resp, err = h.google.Authenticate(c.Request.Context(), body)
	}
	if h.done(c, "google", err) {
		respond(c, http.StatusOK, resp, "logged in with google")
	}
}

func (h *Handler) refresh(c *gin.Context) {
	var resp model.AuthResponse
	body, err := bind[dto.RefreshDTO](c)
	if err == nil {
		resp, err = h.auth.Refresh(c.Request.Context(), body)
	}
	if h.done(c, "refresh", err) {
		respond(c, http.StatusOK, resp, "token refreshed")
	}
}

func (h *Handler) logout(c *gin.Context) {
	uid, authed := middleware.UserID(c)
	if !authed {
		h.done(c, "logout", customErrors.ErrUnauthorized)
		return
	}
	body, err := bind[dto.LogoutDTO](c)
	if err == nil {
		err = h.auth.Logout(c.Request.Context(), uid, body)
	}
	if h.done(c, "logout", err) {
		respond(c, http.StatusOK, nil, "logged out")
	}
}

func (h *Handler) me(c *gin.Context) {
	uid, authed := middleware.UserID(c)
	if !authed {
		h.done(c, "me", customErrors.ErrUnauthorized)
		return
	}
	profile, err := h.users.Me(c.Request.Context(), uid)
	if h.done(c, "me", err) {
		respond(c, http.StatusOK, profile, "")
	}
}

func (h *Handler) checkEmail(c *gin.Context) {
	free, err := h.users.CheckEmailAvailability(c.Request.Context(), c.Query("email"))
	if h.done(c, "check_email", err) {
		respond(c, http.StatusOK, model.Availability{Available: free}, "")
	}
}

func (h *Handler) checkNickname(c *gin.Context) {
	free, err := h.users.CheckNicknameAvailability(c.Request.Context(), c.Query("nickname"))
	if h.done(c, "check_nickname", err) {
		respond(c, http.StatusOK, model.Availability{Available: free}, "")
	}
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	report := gin.H{}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.log.Warn("health check failed", zap.String("component", name), zap.Error(err))
			report[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		report[name] = "up"
	}
	report["time"] = time.Now().Unix()
	c.JSON(status, gin.H{"success": status == http.StatusOK, "data": report})
}
