package handler

import (
	"net/http"

	"github.com/Lee-sungheon/Loopin/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) usersGetMyPosts(c *gin.Context) {
	userID, ok := h.getUserIDFromRequest(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		return
	}

	entries, err := h.services.FindUserPosts(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, dto.UserPostsResponse{
		UserID: userID,
		Posts:  entries,
	})
}
