package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pos/backend/internal/interfaces/http/dto"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	db        Pinger
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{db: db, startTime: time.Now()}
}

// HealthResponse reports the service status and its dependencies
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// Health handles GET /api/v1/system/health. A failing database check
// turns the whole response into 503 so load balancers stop routing here.
func (h *SystemHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:   "ok",
		Database: "ok",
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			response.Status = "degraded"
			response.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(response))
			return
		}
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo handles GET /api/v1/system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "POS Backend API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	h.Success(c, info)
}
