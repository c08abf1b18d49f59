package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkpulse/survey-server/config"
	"github.com/parkpulse/survey-server/models"
)

type exportRequest struct {
	Format       string  `json:"format"`
	LocationSlug *string `json:"location_slug,omitempty"`
	RangeFrom    *string `json:"range_from,omitempty"`
	RangeTo      *string `json:"range_to,omitempty"`
}

// CreateExport handles POST /api/admin/exports: queue a background export of
// the (optionally filtered) response set and return the job id. Large
// facilities poll GET /api/admin/exports/:job_id for the file.
func CreateExport(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid export request"})
		return
	}
	if req.Format == "" {
		req.Format = "csv"
	}
	if req.Format != "csv" && req.Format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format"})
		return
	}

	var locationID *uuid.UUID
	if req.LocationSlug != nil && *req.LocationSlug != "" {
		var location models.Location
		if err := config.DB.Where("slug = ?", *req.LocationSlug).First(&location).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue export"})
			return
		}
		locationID = &location.ID
	}

	var fromPtr, toPtr *time.Time
	if req.RangeFrom != nil {
		if t, err := time.Parse(time.RFC3339, *req.RangeFrom); err == nil {
			fromPtr = &t
		}
	}
	if req.RangeTo != nil {
		if t, err := time.Parse(time.RFC3339, *req.RangeTo); err == nil {
			toPtr = &t
		}
	}

	jobID := uuid.New().String()
	job := models.ExportJob{
		JobID:      jobID,
		LocationID: locationID,
		Format:     req.Format,
		RangeFrom:  fromPtr,
		RangeTo:    toPtr,
		Status:     "queued",
	}
	if err := config.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue export"})
		return
	}

	go processExportJob(jobID)

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": jobID,
		"status": "queued",
	})
}

// GetExport handles GET /api/admin/exports/:job_id. A finished job streams
// the file; otherwise the current status comes back as JSON.
func GetExport(c *gin.Context) {
	jobID := c.Param("job_id")
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Export job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch export job"})
		return
	}

	if job.Status == "done" && job.FilePath != nil {
		c.FileAttachment(*job.FilePath, path.Base(*job.FilePath))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": job.JobID,
		"status": job.Status,
		"error":  job.ErrorMsg,
	})
}

func failExportJob(job *models.ExportJob, err error) {
	em := err.Error()
	config.DB.Model(job).Updates(map[string]interface{}{"status": "failed", "error_msg": em})
}

func processExportJob(jobID string) {
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		return
	}
	config.DB.Model(&job).Update("status", "processing")

	outDir := "./exports"
	os.MkdirAll(outDir, 0755)

	q := config.DB.Preload("Location").Model(&models.SurveyResponse{}).Order("created_at DESC")
	if job.LocationID != nil {
		q = q.Where("location_id = ?", job.LocationID)
	}
	if job.RangeFrom != nil {
		q = q.Where("created_at >= ?", job.RangeFrom)
	}
	if job.RangeTo != nil {
		q = q.Where("created_at <= ?", job.RangeTo)
	}

	var responses []models.SurveyResponse
	if err := q.Find(&responses).Error; err != nil {
		failExportJob(&job, err)
		return
	}

	filename := fmt.Sprintf("export_%s.%s", job.JobID, job.Format)
	outPath := path.Join(outDir, filename)

	if job.Format == "xlsx" {
		buf, err := buildResponsesXLSX(responses)
		if err != nil {
			failExportJob(&job, err)
			return
		}
		if err := os.WriteFile(outPath, buf, 0644); err != nil {
			failExportJob(&job, err)
			return
		}
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			failExportJob(&job, err)
			return
		}
		defer f.Close()

		w := csv.NewWriter(f)
		w.Write(responseCSVHeader)
		for _, r := range responses {
			w.Write(responseCSVRecord(r))
		}
		w.Flush()
		if err := w.Error(); err != nil {
			failExportJob(&job, err)
			return
		}
	}

	config.DB.Model(&job).Updates(map[string]interface{}{"status": "done", "file_path": outPath})
}
