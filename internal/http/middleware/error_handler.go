package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/proposalflow/backend/internal/http/response"
	"github.com/proposalflow/backend/internal/logger"
	"github.com/proposalflow/backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно.
// AppError разворачивается в конверт {success:false, error:{code, message}},
// всё остальное маскируется как внутренняя ошибка.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Возможно, хендлер уже отправил ответ сам
		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")

			var appErr *apperror.AppError
			if errors.As(err.Err, &appErr) {
				response.Error(c, appErr)
				return
			}

			// Сообщение без внутренних деталей можно показать клиенту
			errStr := err.Error()
			if errStr != "" && !containsInternalKeywords(errStr) {
				response.BadRequest(c, errStr)
				return
			}

			response.InternalError(c, "")
		}
	}
}

// containsInternalKeywords проверяет, содержит ли строка ключевые слова внутренних ошибок.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"connection",
		"timeout",
		"internal",
		"panic",
		"runtime",
	}

	for _, keyword := range keywords {
		if contains(s, keyword) {
			return true
		}
	}
	return false
}

// contains проверяет, содержит ли строка подстроку (case-insensitive).
func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
