package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JavierCodely/sistema-educativo/internal/middleware"
	"github.com/JavierCodely/sistema-educativo/internal/models"
	appErrors "github.com/JavierCodely/sistema-educativo/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// studentIDFromContext returns the authenticated student or an unauthorized error.
func studentIDFromContext(c *gin.Context) (string, error) {
	claims := claimsFromContext(c)
	if claims == nil || claims.StudentID() == "" {
		return "", appErrors.ErrUnauthorized
	}
	return claims.StudentID(), nil
}

// yearQuery parses the optional ?year= filter; zero means every year.
func yearQuery(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("year"))
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "year must be a positive integer")
	}
	return year, nil
}
