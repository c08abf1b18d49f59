package controllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parkpulse/survey-server/config"
	"github.com/parkpulse/survey-server/middleware"
	"github.com/parkpulse/survey-server/models"
	"github.com/parkpulse/survey-server/utils"
)

type registerReq struct {
	Name     string `json:"name" binding:"required,min=1"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register handles POST /api/auth/register. Guarded by ADMIN_SIGNUP_TOKEN so
// the endpoint can bootstrap the first account without being open signup.
func Register(c *gin.Context) {
	if want := os.Getenv("ADMIN_SIGNUP_TOKEN"); want == "" || c.GetHeader("X-Signup-Token") != want {
		c.JSON(http.StatusForbidden, gin.H{"message": "Signup is disabled"})
		return
	}

	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var count int64
	config.DB.Model(&models.AdminUser{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
		return
	}

	user := models.AdminUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		},
	})
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login.
func Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var user models.AdminUser
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// Same reply for unknown email and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(strconv.FormatUint(uint64(user.ID), 10), user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"id": user.ID, "name": user.Name, "email": user.Email},
	})
}

type googleLoginReq struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleLogin handles POST /api/auth/google/login: exchange a verified Google
// ID token for a session. Accounts are created on first sign-in so the team
// can be onboarded by sharing the OAuth client, not passwords.
func GoogleLogin(c *gin.Context) {
	var req googleLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	gu, err := utils.VerifyGoogleIDToken(c.Request.Context(), req.IDToken, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Google token"})
		return
	}

	var user models.AdminUser
	err = config.DB.Where("email = ?", gu.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.AdminUser{Name: gu.Name, Email: gu.Email}
		err = config.DB.Create(&user).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to resolve account"})
		return
	}

	token, err := utils.GenerateToken(strconv.FormatUint(uint64(user.ID), 10), user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"id": user.ID, "name": user.Name, "email": user.Email},
	})
}

// Me handles GET /api/me, the session echo the admin shell renders (email
// in the nav bar).
func Me(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.AdminUser)
	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}
