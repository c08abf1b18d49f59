package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parkpulse/survey-server/config"
	"github.com/parkpulse/survey-server/models"
	"github.com/parkpulse/survey-server/validation"
)

type submitSurveyReq struct {
	LocationSlug string `json:"locationSlug"`
	validation.SurveyInput
}

// SubmitSurvey handles POST /api/survey/submit. The payload carries the
// location slug beside the survey fields; everything is re-validated here
// regardless of what the wizard already checked.
func SubmitSurvey(c *gin.Context) {
	var req submitSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid survey data"})
		return
	}

	if errs := validation.Validate(req.SurveyInput); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid survey data", "fields": errs})
		return
	}

	var location models.Location
	if err := config.DB.Where("slug = ?", req.LocationSlug).First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location"})
			return
		}
		log.Printf("failed to resolve location %q: %v", req.LocationSlug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit survey"})
		return
	}

	response := models.SurveyResponse{
		LocationID:           location.ID,
		TravelerType:         req.TravelerType,
		ParkingPreference:    req.ParkingPreference,
		UsageFrequency:       req.UsageFrequency,
		ExitMethod:           req.ExitMethod,
		ExitTime:             req.ExitTime,
		CashierEfficient:     req.CashierEfficient,
		CleanlinessSurface:   req.CleanlinessSurface,
		CleanlinessStairs:    req.CleanlinessStairs,
		CleanlinessElevators: req.CleanlinessElevators,
		OverallExperience:    req.OverallExperience,
		Comments:             optionalString(req.Comments),
		FirstName:            req.FirstName,
		Phone:                optionalString(req.Phone),
		Email:                optionalString(req.Email),
		IPAddress:            submitterIP(c),
	}

	if err := config.DB.Create(&response).Error; err != nil {
		log.Printf("failed to insert survey response: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit survey"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Survey submitted successfully",
	})
}

// optionalString maps an unset optional field to NULL instead of "".
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// submitterIP reads the proxy forwarding headers directly. The stored
// ip_address column keeps the raw forwarded value, with "unknown" as the
// sentinel when no header survived the hop.
func submitterIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if real := c.GetHeader("X-Real-Ip"); real != "" {
		return strings.TrimSpace(real)
	}
	return "unknown"
}
