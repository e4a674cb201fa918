package handlers

import (
	"collabhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the global logger tagged with the request id when one was assigned.
func getLogger(c *gin.Context) *zap.Logger {
	logger := utils.GetLogger()
	if id := c.GetString("requestID"); id != "" {
		return logger.With(zap.String("requestID", id))
	}
	return logger
}
