// Package httpapi exposes the ingestion, query, analytics and export
// operations over HTTP.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/profiledb/internal/common"
	"github.com/avolkov/profiledb/internal/export"
	"github.com/avolkov/profiledb/internal/server/models"
	"github.com/avolkov/profiledb/internal/server/services"
)

const defaultTopLimit = 10

type Handler struct {
	Ingest    *services.IngestService
	Profiles  *services.ProfileService
	Analytics *services.AnalyticsService
	Exporter  *export.Exporter
}

// Routes registers all API endpoints under /api.
func (h *Handler) Routes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/profiles", h.IngestProfile)
		api.GET("/profiles", h.SearchProfiles)
		api.GET("/profile", h.GetProfile)
		api.GET("/profile/history", h.GetHistory)
		api.DELETE("/profile", h.DeactivateProfile)
		api.GET("/analytics/companies", h.TopCompanies)
		api.GET("/analytics/locations", h.TopLocations)
		api.GET("/analytics/titles", h.TopJobTitles)
		api.GET("/analytics/education", h.EducationStats)
		api.GET("/stats", h.Stats)
		api.GET("/export/json", h.ExportJSON)
		api.GET("/export/csv", h.ExportCSV)
	}
}

func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) IngestProfile(c *gin.Context) {
	var rec models.ProfileRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trackChanges, err := strconv.ParseBool(c.DefaultQuery("track_changes", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid track_changes value"})
		return
	}

	person, created, deltas, err := h.Ingest.Ingest(c.Request.Context(), &rec, trackChanges)
	if err != nil {
		abortWithError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	if deltas == nil {
		deltas = []models.Delta{}
	}
	c.JSON(status, gin.H{
		"person":  person,
		"created": created,
		"changes": deltas,
	})
}

func (h *Handler) SearchProfiles(c *gin.Context) {
	list, err := h.Profiles.Search(c.Request.Context(),
		c.Query("q"), c.Query("company"), c.Query("location"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if list == nil {
		list = []*models.Person{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetProfile(c *gin.Context) {
	person, err := h.Profiles.Get(c.Request.Context(), c.Query("url"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

func (h *Handler) GetHistory(c *gin.Context) {
	var sinceDays *int
	if raw := c.Query("since_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since_days value"})
			return
		}
		sinceDays = &n
	}

	changes, err := h.Profiles.History(c.Request.Context(), c.Query("url"), sinceDays)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if changes == nil {
		changes = []*models.ChangeRecord{}
	}
	c.JSON(http.StatusOK, changes)
}

func (h *Handler) DeactivateProfile(c *gin.Context) {
	if err := h.Profiles.Deactivate(c.Request.Context(), c.Query("url")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

func (h *Handler) topLimit(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("limit", strconv.Itoa(defaultTopLimit))
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit value"})
		return 0, false
	}
	return n, true
}

func (h *Handler) groupCounts(c *gin.Context, result []models.GroupCount, err error) {
	if err != nil {
		abortWithError(c, err)
		return
	}
	if result == nil {
		result = []models.GroupCount{}
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) TopCompanies(c *gin.Context) {
	limit, ok := h.topLimit(c)
	if !ok {
		return
	}
	result, err := h.Analytics.TopCompanies(c.Request.Context(), limit)
	h.groupCounts(c, result, err)
}

func (h *Handler) TopLocations(c *gin.Context) {
	limit, ok := h.topLimit(c)
	if !ok {
		return
	}
	result, err := h.Analytics.TopLocations(c.Request.Context(), limit)
	h.groupCounts(c, result, err)
}

func (h *Handler) TopJobTitles(c *gin.Context) {
	limit, ok := h.topLimit(c)
	if !ok {
		return
	}
	result, err := h.Analytics.TopJobTitles(c.Request.Context(), limit)
	h.groupCounts(c, result, err)
}

func (h *Handler) EducationStats(c *gin.Context) {
	result, err := h.Analytics.EducationStats(c.Request.Context())
	h.groupCounts(c, result, err)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.Profiles.Stats(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) ExportJSON(c *gin.Context) {
	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", `attachment; filename="profiles.json"`)
	if err := h.Exporter.WriteJSON(c.Request.Context(), c.Writer); err != nil {
		abortWithError(c, err)
	}
}

func (h *Handler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="profiles.csv"`)
	if err := h.Exporter.WriteCSV(c.Request.Context(), c.Writer); err != nil {
		abortWithError(c, err)
	}
}
