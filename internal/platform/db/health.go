package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStatus is the slice of pool statistics exposed on /health/db. The
// acquire counters matter most here: a growing empty-acquire count means
// the pool is undersized for instrument-interface load.
type PoolStatus struct {
	InUse             int32 `json:"in_use"`
	Idle              int32 `json:"idle"`
	Total             int32 `json:"total"`
	Max               int32 `json:"max"`
	EmptyAcquireCount int64 `json:"empty_acquire_count"`
}

// DBHealth is the /health/db response body.
type DBHealth struct {
	Status      string     `json:"status"`
	PingLatency string     `json:"ping_latency,omitempty"`
	Error       string     `json:"error,omitempty"`
	Pool        PoolStatus `json:"pool"`
}

func poolStatus(stat *pgxpool.Stat) PoolStatus {
	return PoolStatus{
		InUse:             stat.AcquiredConns(),
		Idle:              stat.IdleConns(),
		Total:             stat.TotalConns(),
		Max:               stat.MaxConns(),
		EmptyAcquireCount: stat.EmptyAcquireCount(),
	}
}

func dbHealth(pingErr error, latency time.Duration, pool PoolStatus) (int, DBHealth) {
	if pingErr != nil {
		return http.StatusServiceUnavailable, DBHealth{
			Status: "unhealthy",
			Error:  pingErr.Error(),
			Pool:   pool,
		}
	}
	return http.StatusOK, DBHealth{
		Status:      "healthy",
		PingLatency: latency.String(),
		Pool:        pool,
	}
}

// HealthHandler serves the database readiness check. The ping is bounded so
// a stalled database reports unhealthy instead of hanging the probe.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		start := time.Now()
		err := pool.Ping(ctx)

		code, body := dbHealth(err, time.Since(start), poolStatus(pool.Stat()))
		return c.JSON(code, body)
	}
}
