package model

import (
	"time"

	"github.com/google/uuid"
)

// Post is the set of row types stored in a post table.
type Post interface {
	ClubPost | ChallengePost | LoungePost | SocialingPost

	PostID() int64
	Created() time.Time
	Kind() Category
	// Owner is the creator, kept as the first participant.
	Owner() uuid.UUID
	// Record returns the writable columns of the row keyed by column name.
	Record() map[string]any
}

// Patch is a partial update keyed by column name.
type Patch map[string]any

type ClubPost struct {
	ID           int64       `json:"id" db:"id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	Title        string      `json:"title" db:"title"`
	Description  string      `json:"description" db:"description"`
	Subject      string      `json:"subject" db:"subject"`
	Category     string      `json:"category" db:"category"`
	Fee          string      `json:"fee" db:"fee"`
	FeeInfo      []string    `json:"fee_info" db:"fee_info"`
	AgeLimit     []int32     `json:"age_limit" db:"age_limit"`
	Gender       string      `json:"gender" db:"gender"`
	MaxPeople    int32       `json:"max_people" db:"max_people"`
	Place        string      `json:"place" db:"place"`
	Images       []string    `json:"images" db:"images"`
	Participants []uuid.UUID `json:"participants" db:"participants"`
}

func (p ClubPost) PostID() int64      { return p.ID }
func (p ClubPost) Created() time.Time { return p.CreatedAt }
func (ClubPost) Kind() Category       { return CategoryClub }
func (p ClubPost) Owner() uuid.UUID   { return owner(p.Participants) }

func (p ClubPost) Record() map[string]any {
	return map[string]any{
		"title":        p.Title,
		"description":  p.Description,
		"subject":      p.Subject,
		"category":     p.Category,
		"fee":          p.Fee,
		"fee_info":     p.FeeInfo,
		"age_limit":    p.AgeLimit,
		"gender":       p.Gender,
		"max_people":   p.MaxPeople,
		"place":        p.Place,
		"images":       p.Images,
		"participants": p.Participants,
	}
}

type ChallengePost struct {
	ID           int64       `json:"id" db:"id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	Title        string      `json:"title" db:"title"`
	Description  string      `json:"description" db:"description"`
	Subject      string      `json:"subject" db:"subject"`
	Category     string      `json:"category" db:"category"`
	Fee          string      `json:"fee" db:"fee"`
	FeeInfo      []string    `json:"fee_info" db:"fee_info"`
	StartDate    Date        `json:"start_date" db:"start_date"`
	EndDate      Date        `json:"end_date" db:"end_date"`
	MaxPeople    int32       `json:"max_people" db:"max_people"`
	TimesPerWeek int32       `json:"times_per_week" db:"times_per_week"`
	Images       []string    `json:"images" db:"images"`
	Participants []uuid.UUID `json:"participants" db:"participants"`
}

func (p ChallengePost) PostID() int64      { return p.ID }
func (p ChallengePost) Created() time.Time { return p.CreatedAt }
func (ChallengePost) Kind() Category       { return CategoryChallenge }
func (p ChallengePost) Owner() uuid.UUID   { return owner(p.Participants) }

func (p ChallengePost) Record() map[string]any {
	return map[string]any{
		"title":          p.Title,
		"description":    p.Description,
		"subject":        p.Subject,
		"category":       p.Category,
		"fee":            p.Fee,
		"fee_info":       p.FeeInfo,
		"start_date":     p.StartDate,
		"end_date":       p.EndDate,
		"max_people":     p.MaxPeople,
		"times_per_week": p.TimesPerWeek,
		"images":         p.Images,
		"participants":   p.Participants,
	}
}

type LoungePost struct {
	ID           int64       `json:"id" db:"id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	Content      string      `json:"content" db:"content"`
	Images       []string    `json:"images" db:"images"`
	Likes        []uuid.UUID `json:"likes" db:"likes"`
	Participants []uuid.UUID `json:"participants" db:"participants"`
}

func (p LoungePost) PostID() int64      { return p.ID }
func (p LoungePost) Created() time.Time { return p.CreatedAt }
func (LoungePost) Kind() Category       { return CategoryLounge }
func (p LoungePost) Owner() uuid.UUID   { return owner(p.Participants) }

func (p LoungePost) Record() map[string]any {
	return map[string]any{
		"content":      p.Content,
		"images":       p.Images,
		"likes":        p.Likes,
		"participants": p.Participants,
	}
}

type SocialingPost struct {
	ID           int64       `json:"id" db:"id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	Title        string      `json:"title" db:"title"`
	Description  string      `json:"description" db:"description"`
	Subject      string      `json:"subject" db:"subject"`
	Category     string      `json:"category" db:"category"`
	Type         string      `json:"type" db:"type"`
	Fee          string      `json:"fee" db:"fee"`
	FeeInfo      []string    `json:"fee_info" db:"fee_info"`
	AgeLimit     []int32     `json:"age_limit" db:"age_limit"`
	Gender       string      `json:"gender" db:"gender"`
	MaxPeople    int32       `json:"max_people" db:"max_people"`
	Place        string      `json:"place" db:"place"`
	Time         string      `json:"time" db:"time"`
	Date         Date        `json:"date" db:"date"`
	Images       []string    `json:"images" db:"images"`
	Participants []uuid.UUID `json:"participants" db:"participants"`
}

func (p SocialingPost) PostID() int64      { return p.ID }
func (p SocialingPost) Created() time.Time { return p.CreatedAt }
func (SocialingPost) Kind() Category       { return CategorySocialing }
func (p SocialingPost) Owner() uuid.UUID   { return owner(p.Participants) }

func (p SocialingPost) Record() map[string]any {
	return map[string]any{
		"title":        p.Title,
		"description":  p.Description,
		"subject":      p.Subject,
		"category":     p.Category,
		"type":         p.Type,
		"fee":          p.Fee,
		"fee_info":     p.FeeInfo,
		"age_limit":    p.AgeLimit,
		"gender":       p.Gender,
		"max_people":   p.MaxPeople,
		"place":        p.Place,
		"time":         p.Time,
		"date":         p.Date,
		"images":       p.Images,
		"participants": p.Participants,
	}
}

func owner(participants []uuid.UUID) uuid.UUID {
	if len(participants) == 0 {
		return uuid.Nil
	}
	return participants[0]
}

// KindOf returns the category of T without needing a value.
func KindOf[T Post]() Category {
	var zero T
	return zero.Kind()
}

// Seed returns p with userID as its only participant.
func Seed[T Post](p T, userID uuid.UUID) T {
	participants := []uuid.UUID{userID}

	switch v := any(&p).(type) {
	case *ClubPost:
		v.Participants = participants
	case *ChallengePost:
		v.Participants = participants
	case *LoungePost:
		v.Participants = participants
	case *SocialingPost:
		v.Participants = participants
	}

	return p
}
