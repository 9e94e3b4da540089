package api

import (
	"net/http"

	"vamo_backend/internal/model"
	"vamo_backend/internal/service"
	"vamo_backend/pkg/auth"
	"vamo_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type userRoutes struct {
	us *service.UserService
	a  *auth.SessionAuth
}

// NewUserRoutes mounts the account endpoints. The auth group is public
// (rate limited by the caller), the profile group requires a session.
func NewUserRoutes(handler *gin.RouterGroup, us *service.UserService, a *auth.SessionAuth, public gin.HandlerFunc) {
	r := &userRoutes{us: us, a: a}

	h := handler.Group("/auth")
	if public != nil {
		h.Use(public)
	}
	{
		h.POST("/signup", r.Signup)
		h.POST("/login", r.Login)
		h.POST("/verify-email", r.VerifyEmail)
		h.POST("/resend-verification", r.ResendVerification)
		h.POST("/forgot-password", r.ForgotPassword)
		h.POST("/reset-password", r.ResetPassword)
	}

	p := handler.Group("/profile")
	p.Use(a.SessionMiddleware())
	{
		p.GET("/", r.GetProfile)
		p.PATCH("/", r.UpdateProfile)
	}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *userRoutes) Signup(c *gin.Context) {
	log := logger.Logger()

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := r.us.Signup(c.Request.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		log.Error("failed to sign up user", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id":               u.ID,
		"message":               "User created successfully. Please check your email to verify your account.",
		"requires_verification": true,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *userRoutes) Login(c *gin.Context) {
	log := logger.Logger()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := r.us.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		log.Info("login failed", zap.String("email", req.Email))
		respondServiceError(c, err)
		return
	}

	token, err := r.a.IssueToken(u.ID)
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    u.ID,
			"name":  u.Name,
			"email": u.Email,
			"image": u.Image,
		},
	})
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

func (r *userRoutes) VerifyEmail(c *gin.Context) {
	log := logger.Logger()

	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := r.us.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		log.Info("email verification failed", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true})
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

func (r *userRoutes) ResendVerification(c *gin.Context) {
	log := logger.Logger()

	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := r.us.ResendVerification(c.Request.Context(), req.Email); err != nil {
		log.Error("failed to resend verification", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": true})
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *userRoutes) ForgotPassword(c *gin.Context) {
	log := logger.Logger()

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := r.us.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		log.Error("failed to process password reset request", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	// Same body whether or not the email exists, so the endpoint cannot be
	// used to enumerate accounts.
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r *userRoutes) ResetPassword(c *gin.Context) {
	log := logger.Logger()

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := r.us.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		log.Info("password reset failed", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reset": true})
}

func (r *userRoutes) GetProfile(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	u, err := r.us.GetProfile(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to get profile", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             u.ID,
		"name":           u.Name,
		"email":          u.Email,
		"image":          u.Image,
		"email_verified": u.EmailVerified != nil,
	})
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

func (r *userRoutes) UpdateProfile(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := r.us.UpdateProfile(c.Request.Context(), userID, &model.UserPatch{
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		log.Error("failed to update profile", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"image": u.Image,
	})
}
