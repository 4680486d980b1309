package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/koicare/pondflow/internal/interface/http/response"
	"github.com/koicare/pondflow/internal/logger"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

// ErrorHandler logs errors recorded on the context and answers any request
// that ended without a response. Handler panics become INTERNAL_ERROR.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.WithFields(logrus.Fields{
					"panic":  r,
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).Error("Handler panic")
				if !c.Writer.Written() {
					response.Error(c, apperror.New(apperror.ErrCodeInternal, "internal server error"))
				}
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		status := apperror.HTTPStatusOf(last.Err)
		entry := logger.Log.WithFields(logrus.Fields{
			"error":  last.Error(),
			"code":   apperror.CodeOf(last.Err),
			"path":   c.FullPath(),
			"method": c.Request.Method,
			"status": status,
		})
		if status >= http.StatusInternalServerError {
			entry.Error("Request failed")
		} else {
			entry.Debug("Request rejected")
		}

		if !c.Writer.Written() {
			response.Error(c, last.Err)
		}
	}
}
