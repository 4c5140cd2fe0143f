package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/Lee-sungheon/Loopin/internal/dto"
	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/google/uuid"
)

// Columns holding a nested object flattened to its JSON text.
var nestedColumns = map[string]bool{
	"place": true,
	"time":  true,
}

func NewClubPost(req dto.CreateClubPostRequest, userID uuid.UUID) (model.ClubPost, error) {
	place, err := encodeNested(req.Place)
	if err != nil {
		return model.ClubPost{}, err
	}

	return model.ClubPost{
		Title:        req.Title,
		Description:  req.Description,
		Subject:      req.Subject,
		Category:     req.Category,
		Fee:          req.Fee,
		FeeInfo:      plain(req.FeeInfo),
		AgeLimit:     plain(req.AgeLimit),
		Gender:       req.Gender,
		MaxPeople:    req.MaxPeople,
		Place:        place,
		Images:       plain(req.Images),
		Participants: []uuid.UUID{userID},
	}, nil
}

func NewChallengePost(req dto.CreateChallengePostRequest, userID uuid.UUID) (model.ChallengePost, error) {
	startDate, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return model.ChallengePost{}, err
	}
	endDate, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return model.ChallengePost{}, err
	}

	return model.ChallengePost{
		Title:        req.Title,
		Description:  req.Description,
		Subject:      req.Subject,
		Category:     req.Category,
		Fee:          req.Fee,
		FeeInfo:      plain(req.FeeInfo),
		StartDate:    startDate,
		EndDate:      endDate,
		MaxPeople:    req.MaxPeople,
		TimesPerWeek: req.TimesPerWeek,
		Images:       plain(req.Images),
		Participants: []uuid.UUID{userID},
	}, nil
}

func NewLoungePost(req dto.CreateLoungePostRequest, userID uuid.UUID) (model.LoungePost, error) {
	return model.LoungePost{
		Content:      req.Content,
		Images:       plain(req.Images),
		Likes:        []uuid.UUID{},
		Participants: []uuid.UUID{userID},
	}, nil
}

func NewSocialingPost(req dto.CreateSocialingPostRequest, userID uuid.UUID) (model.SocialingPost, error) {
	place, err := encodeNested(req.Place)
	if err != nil {
		return model.SocialingPost{}, err
	}
	meetingTime, err := encodeNested(req.Time)
	if err != nil {
		return model.SocialingPost{}, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return model.SocialingPost{}, err
	}

	return model.SocialingPost{
		Title:        req.Title,
		Description:  req.Description,
		Subject:      req.Subject,
		Category:     req.Category,
		Type:         req.Type,
		Fee:          req.Fee,
		FeeInfo:      plain(req.FeeInfo),
		AgeLimit:     plain(req.AgeLimit),
		Gender:       req.Gender,
		MaxPeople:    req.MaxPeople,
		Place:        place,
		Time:         meetingTime,
		Date:         date,
		Images:       plain(req.Images),
		Participants: []uuid.UUID{userID},
	}, nil
}

// plain returns a fresh, never-nil copy of s.
func plain[E any](s []E) []E {
	if s == nil {
		return []E{}
	}
	return slices.Clone(s)
}

func parseDate(field string, value string) (model.Date, error) {
	date, err := model.ParseDate(value)
	if err != nil {
		return model.Date{}, fmt.Errorf("%w: %s must be a date, got %q", ErrInvalidInput, field, value)
	}
	return date, nil
}

// encodeNested keeps a JSON string as is and flattens anything else to compact JSON text.
func encodeNested(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return "", nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
		return s, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	return buf.String(), nil
}

func encodeNestedValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.RawMessage:
		return encodeNested(v)
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	return string(encoded), nil
}
