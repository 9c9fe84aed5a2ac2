package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appreport "github.com/pos/backend/internal/application/report"
)

// ReportHandler serves sales figures computed from the local mirror
type ReportHandler struct {
	BaseHandler
	reports *appreport.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *appreport.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Today handles GET /api/v1/reports/today
func (h *ReportHandler) Today(c *gin.Context) {
	report, err := h.reports.Today(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Sales handles GET /api/v1/reports/sales. The range comes from either a
// period preset (today, week, month) or explicit from/to timestamps.
func (h *ReportHandler) Sales(c *gin.Context) {
	from, to, err := h.resolveRange(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, rangeErr := h.reports.Range(c.Request.Context(), from, to)
	if rangeErr != nil {
		h.HandleError(c, rangeErr)
		return
	}
	h.Success(c, report)
}

func (h *ReportHandler) resolveRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	switch c.Query("period") {
	case "today":
		return midnight(now), now, nil
	case "week":
		return midnight(now).AddDate(0, 0, -6), now, nil
	case "month":
		return midnight(now).AddDate(0, -1, 0), now, nil
	case "":
	default:
		return time.Time{}, time.Time{}, errInvalidPeriod
	}

	from, err := parseTimeParam(c.Query("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseTimeParam(c.Query("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		return time.Time{}, time.Time{}, errMissingFrom
	}
	return from, to, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseTimeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, errInvalidTime
}

var (
	errInvalidPeriod = paramError("period must be one of today, week, month")
	errMissingFrom   = paramError("from is required when no period is given")
	errInvalidTime   = paramError("timestamps must be RFC 3339 or YYYY-MM-DD")
)

type paramError string

func (e paramError) Error() string { return string(e) }
