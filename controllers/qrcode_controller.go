package controllers

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkpulse/survey-server/config"
	"github.com/parkpulse/survey-server/models"
	"github.com/parkpulse/survey-server/utils"
)

// qrFetchStagger spaces out calls to the external QR service during bulk
// downloads. A politeness delay, not a correctness requirement.
const qrFetchStagger = 250 * time.Millisecond

var qrHTTPClient = &http.Client{Timeout: 20 * time.Second}

func qrServiceURL() string {
	if env := os.Getenv("QR_SERVICE_URL"); env != "" {
		return env
	}
	return utils.DefaultQRServiceURL
}

func loadLocation(c *gin.Context) (*models.Location, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location id"})
		return nil, false
	}

	var location models.Location
	if err := config.DB.First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch location"})
		return nil, false
	}
	return &location, true
}

// GetLocationQR handles GET /api/admin/locations/:id/qr?size=300. It derives
// the survey URL from the configured base and hands back the external image
// URL for preview; no image bytes move through this endpoint.
func GetLocationQR(c *gin.Context) {
	location, ok := loadLocation(c)
	if !ok {
		return
	}

	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(utils.DefaultQRSize)))
	base := qrBaseURL()
	surveyURL := utils.SurveyURL(base, location.Slug)

	c.JSON(http.StatusOK, gin.H{
		"location_id":  location.ID,
		"slug":         location.Slug,
		"survey_url":   surveyURL,
		"qr_image_url": utils.QRImageURL(qrServiceURL(), surveyURL, size),
		"qr_code_url":  location.QRCodeURL,
		"nonPublic":    utils.IsNonPublicBaseURL(base),
	})
}

func fetchQRPNG(imageURL string) ([]byte, error) {
	resp, err := qrHTTPClient.Get(imageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("qr service returned %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// GenerateLocationQR handles POST /api/admin/locations/:id/qr: render the
// code via the external service, store the PNG in the storage bucket and
// persist the public URL on the location record.
func GenerateLocationQR(c *gin.Context) {
	location, ok := loadLocation(c)
	if !ok {
		return
	}

	surveyURL := utils.SurveyURL(qrBaseURL(), location.Slug)
	png, err := fetchQRPNG(utils.QRImageURL(qrServiceURL(), surveyURL, utils.DefaultQRSize))
	if err != nil {
		log.Printf("qr fetch failed for %s: %v", location.Slug, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate QR code"})
		return
	}

	publicURL, err := utils.UploadQRCode(location.Slug, png)
	if err != nil {
		log.Printf("qr upload failed for %s: %v", location.Slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store QR code"})
		return
	}

	if err := config.DB.Model(location).Update("qr_code_url", publicURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save QR code URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"location_id": location.ID,
		"qr_code_url": publicURL,
	})
}

// DownloadQRArchive handles GET /api/admin/qr/archive: one zip with a PNG per
// location, fetched sequentially with a fixed delay between requests.
func DownloadQRArchive(c *gin.Context) {
	var locations []models.Location
	if err := config.DB.Order("name").Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list locations"})
		return
	}
	if len(locations) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No locations to export"})
		return
	}

	base := qrBaseURL()
	service := qrServiceURL()

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=qr-codes-%s.zip", time.Now().Format("2006-01-02")))

	zw := zip.NewWriter(c.Writer)
	defer zw.Close()

	for i, location := range locations {
		if i > 0 {
			time.Sleep(qrFetchStagger)
		}

		surveyURL := utils.SurveyURL(base, location.Slug)
		png, err := fetchQRPNG(utils.QRImageURL(service, surveyURL, utils.DefaultQRSize))
		if err != nil {
			// Keep going; one unreachable render shouldn't sink the batch.
			log.Printf("skipping %s in QR archive: %v", location.Slug, err)
			continue
		}

		entry, err := zw.Create(location.Slug + "-qr-code.png")
		if err != nil {
			log.Printf("zip write failed: %v", err)
			return
		}
		if _, err := entry.Write(png); err != nil {
			log.Printf("zip write failed: %v", err)
			return
		}
	}
}
