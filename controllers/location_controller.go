package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkpulse/survey-server/config"
	"github.com/parkpulse/survey-server/models"
)

// GetLocationBySlug handles GET /api/locations/:slug, the public lookup the
// wizard calls on mount to show the facility name.
func GetLocationBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var location models.Location
	if err := config.DB.Where("slug = ?", slug).First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
			return
		}
		log.Printf("failed to fetch location %q: %v", slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, location)
}

// ListLocations handles GET /api/admin/locations, alphabetical by name.
func ListLocations(c *gin.Context) {
	var locations []models.Location
	if err := config.DB.Order("name").Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list locations"})
		return
	}
	c.JSON(http.StatusOK, locations)
}

type createLocationReq struct {
	Name string `json:"name" binding:"required,min=1"`
	Slug string `json:"slug" binding:"required,min=1"`
}

// CreateLocation handles POST /api/admin/locations.
func CreateLocation(c *gin.Context) {
	var req createLocationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var count int64
	config.DB.Model(&models.Location{}).Where("slug = ?", req.Slug).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Slug already in use"})
		return
	}

	location := models.Location{Name: req.Name, Slug: req.Slug}
	if err := config.DB.Create(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create location"})
		return
	}

	c.JSON(http.StatusCreated, location)
}

// DeleteLocation handles DELETE /api/admin/locations/:id. Responses for the
// location go with it; the dashboard confirms before calling.
func DeleteLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location id"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("location_id = ?", id).Delete(&models.SurveyResponse{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Location{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
			return
		}
		log.Printf("failed to delete location %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
