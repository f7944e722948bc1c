package health

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const checkTimeout = 5 * time.Second

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// Probe reports a dependency failure as a non-nil error.
type Probe func(ctx context.Context) error

type namedProbe struct {
	name  string
	probe Probe
}

// Checker performs readiness checks against the scheduler's dependencies.
type Checker struct {
	probes  []namedProbe
	version string
}

func NewChecker(redisClient *redis.Client, version string) *Checker {
	c := &Checker{version: version}
	if redisClient != nil {
		c.AddProbe("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	return c
}

// AddProbe registers an extra readiness check. A later probe with the same
// name replaces the earlier one.
func (c *Checker) AddProbe(name string, probe Probe) {
	c.probes = slices.DeleteFunc(c.probes, func(p namedProbe) bool { return p.name == name })
	c.probes = append(c.probes, namedProbe{name: name, probe: probe})
}

func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult, len(c.probes)),
	}

	for _, p := range c.probes {
		start := time.Now()
		if err := p.probe(checkCtx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[p.name] = CheckResult{
				Status: StatusUnhealthy,
				Error:  err.Error(),
			}
			continue
		}
		status.Checks[p.name] = CheckResult{
			Status:    StatusHealthy,
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}

	return status
}

func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}

func (c *Checker) Register(r gin.IRoutes) {
	r.GET("/health/live", c.LiveHandler())
	r.GET("/health/ready", c.ReadyHandler())
}
