package server

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	bytesPerMB  = 1024 * 1024
	nsPerMilli  = 1e6
	gcPauseRing = 256
)

// HealthStatusHealthy is the only status this service reports: /health never
// calls out to the content store.
const HealthStatusHealthy = "healthy"

// HealthResponse is the /health body.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Service string `json:"service"`
	Version string `json:"version"`
	Uptime  string `json:"uptime,omitempty"`
}

// MemoryHealth is the /health/memory body.
type MemoryHealth struct {
	Timestamp     time.Time `json:"timestamp"`
	HeapAllocMB   float64   `json:"heap_alloc_mb"`
	HeapInuseMB   float64   `json:"heap_inuse_mb"`
	HeapIdleMB    float64   `json:"heap_idle_mb"`
	StackInuseMB  float64   `json:"stack_inuse_mb"`
	NumGC         uint32    `json:"num_gc"`
	LastGCPauseMs float64   `json:"last_gc_pause_ms,omitempty"`
	NumGoroutine  int       `json:"num_goroutine"`
	GOMaxProcs    int       `json:"gomaxprocs"`
}

// RegisterHealthRoutes adds:
//   - GET /health: status, message, service, version and uptime
//   - HEAD /health: bare 200 for load balancers
//   - GET /health/memory: runtime memory statistics
func RegisterHealthRoutes(router *gin.Engine, cfg *Config, startedAt time.Time) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  HealthStatusHealthy,
			Message: cfg.HealthMessage,
			Service: cfg.ServiceName,
			Version: cfg.ServiceVersion,
			Uptime:  formatUptime(time.Since(startedAt)),
		})
	})
	router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/health/memory", memoryHandler)
}

func memoryHandler(c *gin.Context) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	health := MemoryHealth{
		Timestamp:    time.Now().UTC(),
		HeapAllocMB:  float64(stats.Alloc) / bytesPerMB,
		HeapInuseMB:  float64(stats.HeapInuse) / bytesPerMB,
		HeapIdleMB:   float64(stats.HeapIdle) / bytesPerMB,
		StackInuseMB: float64(stats.StackInuse) / bytesPerMB,
		NumGC:        stats.NumGC,
		NumGoroutine: runtime.NumGoroutine(),
		GOMaxProcs:   runtime.GOMAXPROCS(0),
	}
	if stats.NumGC > 0 {
		health.LastGCPauseMs = float64(stats.PauseNs[(stats.NumGC+gcPauseRing-1)%gcPauseRing]) / nsPerMilli
	}

	c.JSON(http.StatusOK, health)
}

// formatUptime renders a duration as "1d 2h 3m", "2h 3m", "3m 4s" or "4s".
func formatUptime(d time.Duration) string {
	const hoursPerDay = 24

	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
