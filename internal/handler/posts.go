package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Lee-sungheon/Loopin/internal/dto"
	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/Lee-sungheon/Loopin/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) postsLoad(c *gin.Context) {
	category, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	cached := c.Query("cached") == "true"

	switch category {
	case model.CategoryClub:
		respondLoad(c, h.services.Club, cached)
	case model.CategoryChallenge:
		respondLoad(c, h.services.Challenge, cached)
	case model.CategoryLounge:
		respondLoad(c, h.services.Lounge, cached)
	case model.CategorySocialing:
		respondLoad(c, h.services.Socialing, cached)
	}
}

func (h *Handler) postsCreateClub(c *gin.Context) {
	userID, ok := h.getUserIDFromRequest(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		return
	}

	var input dto.CreateClubPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	createdPost, err := h.services.CreateClubPost(c.Request.Context(), input, userID)
	respondCreated(c, createdPost, err)
}

func (h *Handler) postsCreateChallenge(c *gin.Context) {
	userID, ok := h.getUserIDFromRequest(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		return
	}

	var input dto.CreateChallengePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	createdPost, err := h.services.CreateChallengePost(c.Request.Context(), input, userID)
	respondCreated(c, createdPost, err)
}

func (h *Handler) postsCreateLounge(c *gin.Context) {
	userID, ok := h.getUserIDFromRequest(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		return
	}

	var input dto.CreateLoungePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	createdPost, err := h.services.CreateLoungePost(c.Request.Context(), input, userID)
	respondCreated(c, createdPost, err)
}

func (h *Handler) postsCreateSocialing(c *gin.Context) {
	userID, ok := h.getUserIDFromRequest(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		return
	}

	var input dto.CreateSocialingPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	createdPost, err := h.services.CreateSocialingPost(c.Request.Context(), input, userID)
	respondCreated(c, createdPost, err)
}

func (h *Handler) postsGet(c *gin.Context) {
	category, postID, ok := parsePostPath(c)
	if !ok {
		return
	}

	switch category {
	case model.CategoryClub:
		respondGet(c, h.services.Club, postID)
	case model.CategoryChallenge:
		respondGet(c, h.services.Challenge, postID)
	case model.CategoryLounge:
		respondGet(c, h.services.Lounge, postID)
	case model.CategorySocialing:
		respondGet(c, h.services.Socialing, postID)
	}
}

func (h *Handler) postsUpdate(c *gin.Context) {
	userID, ok := h.getUserIDFromRequest(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		return
	}

	category, postID, ok := parsePostPath(c)
	if !ok {
		return
	}

	var patch model.Patch
	if err := c.ShouldBindJSON(&patch); err != nil || patch == nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errInvalidPatch))
		return
	}

	switch category {
	case model.CategoryClub:
		respondUpdate(c, h.services.Club, postID, userID, patch)
	case model.CategoryChallenge:
		respondUpdate(c, h.services.Challenge, postID, userID, patch)
	case model.CategoryLounge:
		respondUpdate(c, h.services.Lounge, postID, userID, patch)
	case model.CategorySocialing:
		respondUpdate(c, h.services.Socialing, postID, userID, patch)
	}
}

func (h *Handler) postsDelete(c *gin.Context) {
	userID, ok := h.getUserIDFromRequest(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		return
	}

	category, postID, ok := parsePostPath(c)
	if !ok {
		return
	}

	switch category {
	case model.CategoryClub:
		respondDelete(c, h.services.Club, postID, userID)
	case model.CategoryChallenge:
		respondDelete(c, h.services.Challenge, postID, userID)
	case model.CategoryLounge:
		respondDelete(c, h.services.Lounge, postID, userID)
	case model.CategorySocialing:
		respondDelete(c, h.services.Socialing, postID, userID)
	}
}

func parsePostPath(c *gin.Context) (model.Category, int64, bool) {
	category, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return "", 0, false
	}

	postIDString := strings.TrimSpace(c.Param("postID"))
	postID, err := strconv.ParseInt(postIDString, 10, 64)
	if err != nil || postID <= 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errInvalidPostID))
		return "", 0, false
	}

	return category, postID, true
}

func respondLoad[T model.Post](c *gin.Context, ledger *service.Ledger[T], cached bool) {
	if cached {
		c.JSON(http.StatusOK, ledger.Cached())
		return
	}

	posts, err := ledger.Load(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, posts)
}

// respondCreated answers 201 whenever the row exists, flagging drift when the index step failed.
func respondCreated[T model.Post](c *gin.Context, createdPost *T, err error) {
	if createdPost == nil {
		if err == nil {
			err = service.ErrInternal
		}
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedResponse[T]{
		Post:  *createdPost,
		Drift: errors.Is(err, service.ErrConsistencyDrift),
	})
}

func respondGet[T model.Post](c *gin.Context, ledger *service.Ledger[T], postID int64) {
	post, err := ledger.Get(c.Request.Context(), postID)
	if err != nil {
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, post)
}

func respondUpdate[T model.Post](c *gin.Context, ledger *service.Ledger[T], postID int64, userID uuid.UUID, patch model.Patch) {
	updatedPost, err := ledger.Update(c.Request.Context(), postID, userID, patch)
	if err != nil {
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, updatedPost)
}

func respondDelete[T model.Post](c *gin.Context, ledger *service.Ledger[T], postID int64, userID uuid.UUID) {
	err := ledger.Delete(c.Request.Context(), postID, userID)
	if err != nil && !errors.Is(err, service.ErrConsistencyDrift) {
		c.JSON(statusFor(err), dto.NewErrorResponse(err))
		return
	}

	if err != nil {
		c.JSON(http.StatusOK, dto.NewBasicResponse(true, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}
