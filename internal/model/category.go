package model

import (
	"slices"
	"strings"
)

// Category names a post table. The value doubles as the index entry type.
type Category string

const (
	CategoryClub      Category = "club_posts"
	CategoryChallenge Category = "challenge_posts"
	CategoryLounge    Category = "lounge_posts"
	CategorySocialing Category = "socialing_posts"
)

var Categories = []Category{
	CategoryClub,
	CategoryChallenge,
	CategoryLounge,
	CategorySocialing,
}

// ParseCategory accepts either the table name or its short form ("club", "social", ...).
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "club", "clubs", string(CategoryClub):
		return CategoryClub, nil
	case "challenge", "challenges", string(CategoryChallenge):
		return CategoryChallenge, nil
	case "lounge", string(CategoryLounge):
		return CategoryLounge, nil
	case "social", "socialing", string(CategorySocialing):
		return CategorySocialing, nil
	}
	return "", ErrUnknownCategory
}

func (c Category) Table() string {
	return string(c)
}

func (c Category) Short() string {
	return strings.TrimSuffix(string(c), "_posts")
}

// Valid reports whether c is one of the table names. Short forms are not valid stored values.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}
