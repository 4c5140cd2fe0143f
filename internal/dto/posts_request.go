package dto

import "encoding/json"

// Place and Time arrive either as a plain string or as a nested object.
type CreateClubPostRequest struct {
	Title       string          `json:"title" binding:"required,min=2"`
	Description string          `json:"description"`
	Subject     string          `json:"subject"`
	Category    string          `json:"category"`
	Fee         string          `json:"fee"`
	FeeInfo     []string        `json:"fee_info"`
	AgeLimit    []int32         `json:"age_limit"`
	Gender      string          `json:"gender"`
	MaxPeople   int32           `json:"max_people"`
	Place       json.RawMessage `json:"place"`
	Images      []string        `json:"images"`
}

type CreateChallengePostRequest struct {
	Title        string   `json:"title" binding:"required,min=2"`
	Description  string   `json:"description"`
	Subject      string   `json:"subject"`
	Category     string   `json:"category"`
	Fee          string   `json:"fee"`
	FeeInfo      []string `json:"fee_info"`
	StartDate    string   `json:"start_date" binding:"required"`
	EndDate      string   `json:"end_date" binding:"required"`
	MaxPeople    int32    `json:"max_people"`
	TimesPerWeek int32    `json:"times_per_week"`
	Images       []string `json:"images"`
}

type CreateLoungePostRequest struct {
	Content string   `json:"content" binding:"required,min=1"`
	Images  []string `json:"images"`
}

type CreateSocialingPostRequest struct {
	Title       string          `json:"title" binding:"required,min=2"`
	Description string          `json:"description"`
	Subject     string          `json:"subject"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Fee         string          `json:"fee"`
	FeeInfo     []string        `json:"fee_info"`
	AgeLimit    []int32         `json:"age_limit"`
	Gender      string          `json:"gender"`
	MaxPeople   int32           `json:"max_people"`
	Place       json.RawMessage `json:"place"`
	Time        json.RawMessage `json:"time"`
	Date        string          `json:"date" binding:"required"`
	Images      []string        `json:"images"`
}
