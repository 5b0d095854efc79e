package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	HeaderDelivery = "X-GitHub-Delivery"

	ContextKeyDeliveryID = "delivery_id"
)

// RequestLogger tags each request with a delivery id and logs it once served.
// GitHub's delivery header is reused when present.
func RequestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		deliveryID := c.GetHeader(HeaderDelivery)
		if deliveryID == "" {
			deliveryID = uuid.NewString()
		}
		c.Set(ContextKeyDeliveryID, deliveryID)

		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"delivery": deliveryID,
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"latency":  time.Since(start),
		})
		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Warn("request served with errors")
			return
		}
		entry.Info("request served")
	}
}

// GetDeliveryID retrieves the delivery id set by RequestLogger
func GetDeliveryID(c *gin.Context) string {
	return c.GetString(ContextKeyDeliveryID)
}
