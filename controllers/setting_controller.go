package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/parkpulse/survey-server/config"
	"github.com/parkpulse/survey-server/models"
	"github.com/parkpulse/survey-server/utils"
)

const fallbackBaseURL = "http://localhost:3000"

// qrBaseURL resolves the configured QR base URL. A missing row (or a missing
// settings table on a fresh install) is recoverable: fall back to the
// APP_BASE_URL env default and log once per lookup.
func qrBaseURL() string {
	var setting models.Setting
	err := config.DB.First(&setting, "key = ?", models.SettingQRBaseURL).Error
	if err == nil && setting.Value != "" {
		return setting.Value
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("settings lookup failed, using default base URL: %v", err)
	}

	if env := os.Getenv("APP_BASE_URL"); env != "" {
		return env
	}
	return fallbackBaseURL
}

// ListSettings handles GET /api/admin/settings.
func ListSettings(c *gin.Context) {
	var settings []models.Setting
	if err := config.DB.Order("key").Find(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetSetting handles GET /api/admin/settings/:key. For qr_base_url the
// response always carries a usable value plus a warning flag when it still
// points at a host visitors can't reach.
func GetSetting(c *gin.Context) {
	key := c.Param("key")

	if key == models.SettingQRBaseURL {
		value := qrBaseURL()
		c.JSON(http.StatusOK, gin.H{
			"key":       key,
			"value":     value,
			"nonPublic": utils.IsNonPublicBaseURL(value),
		})
		return
	}

	var setting models.Setting
	if err := config.DB.First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Setting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch setting"})
		return
	}
	c.JSON(http.StatusOK, setting)
}

type upsertSettingReq struct {
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}

// UpsertSetting handles PUT /api/admin/settings/:key: insert or overwrite
// keyed on the setting name.
func UpsertSetting(c *gin.Context) {
	key := c.Param("key")

	var req upsertSettingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	setting := models.Setting{
		Key:         key,
		Value:       req.Value,
		Description: req.Description,
	}
	err := config.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		log.Printf("failed to upsert setting %q: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save setting"})
		return
	}

	resp := gin.H{"key": setting.Key, "value": setting.Value}
	if key == models.SettingQRBaseURL && utils.IsNonPublicBaseURL(req.Value) {
		log.Printf("qr_base_url %q is not publicly reachable", req.Value)
		resp["warning"] = "Base URL is not publicly reachable; printed QR codes will not resolve"
	}
	c.JSON(http.StatusOK, resp)
}
