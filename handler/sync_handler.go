package handler

import (
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func GetSyncStatusHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}

	utils.Success(c, gin.H{"sync_status": engine.SyncStatus()})
}

// StartSyncHandler bootstraps the user's engine: bulk load plus channel
// subscription. Safe to call repeatedly; an active engine is a no-op.
func StartSyncHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.Unauthorized(c, "Authentication required")
		return
	}

	engine, err := registry.Ensure(c.Request.Context(), userID)
	if err != nil {
		utils.ServiceUnavailable(c, "Failed to start sync")
		return
	}

	utils.Success(c, gin.H{"sync_status": engine.SyncStatus()})
}

// StopSyncHandler tears the user's engine down (logout analogue).
func StopSyncHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.Unauthorized(c, "Authentication required")
		return
	}

	registry.Stop(userID)
	utils.Success(c, gin.H{"message": "Sync stopped"})
}

// RefreshNotesHandler forces a new bulk load without tearing down the
// subscription.
func RefreshNotesHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}

	if err := engine.Refresh(c.Request.Context()); err != nil {
		utils.ServiceUnavailable(c, "Refresh failed")
		return
	}

	utils.Success(c, gin.H{
		"notes":       engine.Notes(),
		"sync_status": engine.SyncStatus(),
	})
}

// GetNotificationsHandler drains pending user-visible notifications.
func GetNotificationsHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}

	utils.Success(c, gin.H{"notifications": engine.Notifications()})
}
