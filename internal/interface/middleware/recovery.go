package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-registration/pkg/apperror"
	"github.com/oksasatya/go-user-registration/pkg/response"
)

// Recovery turns a panic into the standard 500 envelope and logs it with the
// request id.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		logger.WithFields(logrus.Fields{
			"panic":      rec,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(RequestIDKey),
		}).Error("panic recovered")
		response.Abort(c, http.StatusInternalServerError, apperror.InternalMessage)
	})
}
