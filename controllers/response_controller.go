package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/parkpulse/survey-server/config"
	"github.com/parkpulse/survey-server/models"
)

const csvTimeLayout = "2006-01-02 15:04:05"

// responseCSVHeader is the fixed export column order. Changing it breaks the
// spreadsheets admins have built on top of the export, so don't.
var responseCSVHeader = []string{
	"Date",
	"Location",
	"Traveler Type",
	"Parking Preference",
	"Usage Frequency",
	"Exit Method",
	"Exit Time",
	"Cashier Efficient",
	"Cleanliness Surface",
	"Cleanliness Stairs",
	"Cleanliness Elevators",
	"Overall Experience",
	"Comments",
	"First Name",
	"Phone",
	"Email",
}

// responseCSVRecord flattens one response (with Location preloaded) into a
// row matching responseCSVHeader. Absent optionals become empty cells.
func responseCSVRecord(r models.SurveyResponse) []string {
	cashier := ""
	if r.CashierEfficient != nil {
		cashier = strconv.FormatBool(*r.CashierEfficient)
	}
	return []string{
		r.CreatedAt.Format(csvTimeLayout),
		r.Location.Name,
		r.TravelerType,
		r.ParkingPreference,
		r.UsageFrequency,
		r.ExitMethod,
		r.ExitTime,
		cashier,
		strconv.Itoa(r.CleanlinessSurface),
		strconv.Itoa(r.CleanlinessStairs),
		strconv.Itoa(r.CleanlinessElevators),
		strconv.Itoa(r.OverallExperience),
		deref(r.Comments),
		r.FirstName,
		deref(r.Phone),
		deref(r.Email),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// responsesQuery builds the base query: newest first, location joined,
// optionally narrowed to one location slug.
func responsesQuery(locationSlug string) (*gorm.DB, error) {
	q := config.DB.Model(&models.SurveyResponse{}).Preload("Location").Order("created_at DESC")
	if locationSlug != "" {
		var location models.Location
		if err := config.DB.Where("slug = ?", locationSlug).First(&location).Error; err != nil {
			return nil, err
		}
		q = q.Where("location_id = ?", location.ID)
	}
	return q, nil
}

// ListResponses handles GET /api/admin/responses?location=slug.
func ListResponses(c *gin.Context) {
	q, err := responsesQuery(c.Query("location"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list responses"})
		return
	}

	var responses []models.SurveyResponse
	if err := q.Find(&responses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list responses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     len(responses),
		"responses": responses,
	})
}

// GetResponseDetail handles GET /api/admin/responses/:id. The payload always
// carries cashier_efficient; showing the cashier question only for cashier
// exits is the dashboard's rendering concern.
func GetResponseDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid response id"})
		return
	}

	var response models.SurveyResponse
	if err := config.DB.Preload("Location").First(&response, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Response not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch response"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// DeleteResponse handles DELETE /api/admin/responses/:id.
func DeleteResponse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid response id"})
		return
	}

	res := config.DB.Delete(&models.SurveyResponse{}, "id = ?", id)
	if res.Error != nil {
		log.Printf("failed to delete response %s: %v", id, res.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete response"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Response not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

type bulkDeleteReq struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// BulkDeleteResponses handles POST /api/admin/responses/bulk-delete. Exactly
// the selected ids are removed; the reply reports the count so the dashboard
// can prune its list without a re-fetch.
func BulkDeleteResponses(c *gin.Context) {
	var req bulkDeleteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	res := config.DB.Delete(&models.SurveyResponse{}, "id IN ?", req.IDs)
	if res.Error != nil {
		log.Printf("bulk delete failed: %v", res.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete responses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": res.RowsAffected})
}

// ExportResponses handles GET /api/admin/responses/export?location=slug&format=csv|xlsx
// as a direct streaming download of the filtered set.
func ExportResponses(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format"})
		return
	}

	q, err := responsesQuery(c.Query("location"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export responses"})
		return
	}

	var responses []models.SurveyResponse
	if err := q.Find(&responses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export responses"})
		return
	}

	filename := fmt.Sprintf("survey-responses-%s.%s", time.Now().Format("2006-01-02"), format)

	if format == "xlsx" {
		buf, err := buildResponsesXLSX(responses)
		if err != nil {
			log.Printf("xlsx export failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export responses"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "text/csv")
	w := csv.NewWriter(c.Writer)
	w.Write(responseCSVHeader)
	for _, r := range responses {
		w.Write(responseCSVRecord(r))
	}
	w.Flush()
}

func buildResponsesXLSX(responses []models.SurveyResponse) ([]byte, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for col, h := range responseCSVHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, r := range responses {
		for col, v := range responseCSVRecord(r) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
