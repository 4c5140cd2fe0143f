package dto

import (
	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/google/uuid"
)

type UserPostsResponse struct {
	UserID uuid.UUID          `json:"user_id"`
	Posts  []model.IndexEntry `json:"posts"`
}
