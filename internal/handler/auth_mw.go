package handler

import (
	"net/http"
	"strings"

	"github.com/Lee-sungheon/Loopin/internal/dto"
	"github.com/Lee-sungheon/Loopin/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userIDKey = "user-id"

// authMiddleware resolves the caller from a Bearer token whose "sub" claim is the user id.
func (h *Handler) authMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		return
	}

	accessToken := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if accessToken == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		return
	}

	claims, err := utils.DecodeJWT(accessToken, h.accessSecret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		return
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		return
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		return
	}

	c.Set(userIDKey, userID)

	c.Next()
}

func (h *Handler) getUserIDFromRequest(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	return userID, ok
}
