package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-registration/pkg/response"
)

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type SystemHandler struct {
	Storage Pinger
	Logger  *logrus.Logger
	AppName string
	Env     string
	Version string
	Timeout time.Duration
}

func NewSystemHandler(storage Pinger, logger *logrus.Logger, appName, env, version string) *SystemHandler {
	return &SystemHandler{Storage: storage, Logger: logger, AppName: appName, Env: env, Version: version, Timeout: 2 * time.Second}
}

type healthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment,omitempty"`
	Storage     string    `json:"storage"`
}

func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	st := healthStatus{Status: "OK", Timestamp: time.Now().UTC(), Environment: h.Env, Storage: "up"}
	if err := h.Storage.Ping(ctx); err != nil {
		h.Logger.WithError(err).Warn("health check: storage unreachable")
		st.Status, st.Storage = "DEGRADED", "down"
		c.JSON(http.StatusServiceUnavailable, st)
		return
	}
	c.JSON(http.StatusOK, st)
}

type apiIndex struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func (h *SystemHandler) Index(c *gin.Context) {
	response.Success(c, http.StatusOK, apiIndex{
		Name:    h.AppName,
		Version: h.Version,
		Endpoints: map[string]string{
			"POST /api/register":    "Register a new user",
			"GET /api/users":        "Get all users",
			"GET /api/users/:id":    "Get user by ID",
			"PUT /api/users/:id":    "Update user by ID",
			"DELETE /api/users/:id": "Delete user by ID",
			"GET /health":           "Health check",
			"GET /metrics":          "Prometheus metrics",
		},
	}, "Registration API", nil)
}

// NotFound answers unmatched routes with the standard envelope.
func (h *SystemHandler) NotFound(c *gin.Context) {
	response.Error[any](c, http.StatusNotFound, "Route not found: "+c.Request.Method+" "+c.Request.URL.RequestURI(), nil)
}
