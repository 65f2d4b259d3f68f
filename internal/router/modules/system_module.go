package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	handlers "github.com/oksasatya/go-user-registration/internal/interface/http"
)

type SystemModule struct {
	Handler  *handlers.SystemHandler
	Gatherer prometheus.Gatherer
	Metrics  bool
}

func NewSystemModule(h *handlers.SystemHandler, g prometheus.Gatherer, metricsEnabled bool) *SystemModule {
	return &SystemModule{Handler: h, Gatherer: g, Metrics: metricsEnabled}
}

func (m *SystemModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Handler.Health)
	rg.GET("/api", m.Handler.Index)

	if m.Metrics && m.Gatherer != nil {
		rg.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Gatherer, promhttp.HandlerOpts{})))
	}
}
