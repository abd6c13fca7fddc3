package handler

import (
	"context"
	"time"

	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthHandler reports reachability of the note store and the change
// feed plus basic host load.
func HealthHandler(c *gin.Context, client *mongo.Client, feed *services.RedisChangeFeed) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	storeStatus := "ok"
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		storeStatus = "unreachable"
	}

	feedStatus := "ok"
	if err := feed.Ping(ctx); err != nil {
		feedStatus = "unreachable"
	}

	health := gin.H{
		"store":     storeStatus,
		"feed":      feedStatus,
		"cpu_usage": utils.GetCPUUsage(),
	}

	if storeStatus != "ok" || feedStatus != "ok" {
		c.JSON(503, health)
		return
	}
	utils.Success(c, health)
}
