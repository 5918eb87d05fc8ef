package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/store"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/utils"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	DocumentHost string            `json:"documentHost"`
	SessionDB    string            `json:"sessionDb"`
	MediaHost    string            `json:"mediaHost,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck probes the remote document host and the local session database.
// mediaURL, when configured, is probed too but never flips the overall status:
// media uploads fall back to inlining, so an unreachable media host degrades
// quality without taking the service down.
func HealthCheck(ctx context.Context, client store.Client, sessions *gorm.DB, mediaURL string, logger *zap.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := client.Fetch(probeCtx); err != nil {
		result.Status = "unhealthy"
		result.DocumentHost = "unreachable"
		result.Details["document_host_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Document host fetch failed: %v", err)
		logger.Warn("health check failed - document host", zap.Error(err))
	} else {
		result.DocumentHost = "ok"
	}

	sqlDB, err := sessions.DB()
	if err == nil {
		err = sqlDB.PingContext(probeCtx)
	}
	if err != nil {
		result.Status = "unhealthy"
		result.SessionDB = "unreachable"
		result.Details["session_db_error"] = err.Error()
		if result.ErrorMessage == "" {
			result.ErrorMessage = fmt.Sprintf("Session DB ping failed: %v", err)
		} else {
			result.ErrorMessage += fmt.Sprintf("; Session DB ping failed: %v", err)
		}
		logger.Warn("health check failed - session db", zap.Error(err))
	} else {
		result.SessionDB = "ok"
	}

	if mediaURL != "" {
		if err := utils.PingService(mediaURL, 3*time.Second); err != nil {
			result.MediaHost = "unreachable"
			result.Details["media_host_error"] = err.Error()
			logger.Warn("health check - media host unreachable", zap.Error(err))
		} else {
			result.MediaHost = "ok"
		}
	}

	return result
}
