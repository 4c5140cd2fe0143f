package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

type UserInfo struct {
	ID    uuid.UUID `json:"id"`
	Posts PostIndex `json:"posts"`
}

// IndexEntry references a post created by a user. It is not an ownership edge.
type IndexEntry struct {
	ID   int64    `json:"id"`
	Type Category `json:"type"`
}

func (e IndexEntry) Encode() (string, error) {
	if !e.Type.Valid() {
		return "", ErrInvalidIndexEntry
	}

	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func DecodeIndexEntry(s string) (IndexEntry, error) {
	var e IndexEntry
	if err := json.Unmarshal([]byte(s), &e); err != nil {
		return IndexEntry{}, ErrInvalidIndexEntry
	}
	if !e.Type.Valid() {
		return IndexEntry{}, ErrInvalidIndexEntry
	}
	return e, nil
}

// PostIndex is the raw userinfo.posts column: one encoded IndexEntry per element.
// Elements that fail to decode are carried through rewrites untouched.
type PostIndex []string

func (idx PostIndex) Entries() []IndexEntry {
	entries := make([]IndexEntry, 0, len(idx))
	for _, raw := range idx {
		e, err := DecodeIndexEntry(raw)
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

func (idx PostIndex) Contains(e IndexEntry) bool {
	for _, entry := range idx.Entries() {
		if entry == e {
			return true
		}
	}
	return false
}

// With returns a copy of idx with e appended.
func (idx PostIndex) With(e IndexEntry) (PostIndex, error) {
	encoded, err := e.Encode()
	if err != nil {
		return nil, err
	}

	out := make(PostIndex, 0, len(idx)+1)
	out = append(out, idx...)
	return append(out, encoded), nil
}

// Without returns a copy of idx lacking every element that decodes to e, and how many were dropped.
func (idx PostIndex) Without(e IndexEntry) (PostIndex, int) {
	out := make(PostIndex, 0, len(idx))
	removed := 0
	for _, raw := range idx {
		entry, err := DecodeIndexEntry(raw)
		if err == nil && entry == e {
			removed++
			continue
		}
		out = append(out, raw)
	}
	return out, removed
}
