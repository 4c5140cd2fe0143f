package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexEntry_Encode(t *testing.T) {
	encoded, err := IndexEntry{ID: 7, Type: CategoryClub}.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"id":7,"type":"club_posts"}`, encoded)

	_, err = IndexEntry{ID: 7, Type: "userinfo"}.Encode()
	assert.ErrorIs(t, err, ErrInvalidIndexEntry)
}

func TestDecodeIndexEntry(t *testing.T) {
	e, err := DecodeIndexEntry(`{"id":3,"type":"lounge_posts"}`)
	require.NoError(t, err)
	assert.Equal(t, IndexEntry{ID: 3, Type: CategoryLounge}, e)

	_, err = DecodeIndexEntry(`{"id":3}`)
	assert.ErrorIs(t, err, ErrInvalidIndexEntry)

	_, err = DecodeIndexEntry(`garbage`)
	assert.ErrorIs(t, err, ErrInvalidIndexEntry)
}

func TestIndexEntry_ShortFormType(t *testing.T) {
	_, err := IndexEntry{ID: 2, Type: "club"}.Encode()
	assert.ErrorIs(t, err, ErrInvalidIndexEntry)

	_, err = DecodeIndexEntry(`{"id":2,"type":"club"}`)
	assert.ErrorIs(t, err, ErrInvalidIndexEntry)

	idx := PostIndex{`{"id":2,"type":"club"}`}
	assert.Empty(t, idx.Entries(), "a short-form entry is not a stored entry")
	_, removed := idx.Without(IndexEntry{ID: 2, Type: CategoryClub})
	assert.Zero(t, removed)
}

func TestPostIndex_WithAndWithout(t *testing.T) {
	idx := PostIndex{`{"id":1,"type":"club_posts"}`, `not json`}

	next, err := idx.With(IndexEntry{ID: 1, Type: CategoryChallenge})
	require.NoError(t, err)
	assert.Len(t, idx, 2, "With must not modify the receiver")
	assert.Equal(t, PostIndex{
		`{"id":1,"type":"club_posts"}`,
		`not json`,
		`{"id":1,"type":"challenge_posts"}`,
	}, next)

	// same numeric id in another table stays
	pruned, removed := next.Without(IndexEntry{ID: 1, Type: CategoryClub})
	assert.Equal(t, 1, removed)
	assert.Equal(t, PostIndex{`not json`, `{"id":1,"type":"challenge_posts"}`}, pruned)

	_, removed = pruned.Without(IndexEntry{ID: 99, Type: CategoryClub})
	assert.Zero(t, removed)
}

func TestPostIndex_Entries(t *testing.T) {
	idx := PostIndex{`{"id":1,"type":"club_posts"}`, `{}`, `{"id":2,"type":"socialing_posts"}`}

	assert.Equal(t, []IndexEntry{
		{ID: 1, Type: CategoryClub},
		{ID: 2, Type: CategorySocialing},
	}, idx.Entries())
	assert.True(t, idx.Contains(IndexEntry{ID: 2, Type: CategorySocialing}))
	assert.False(t, idx.Contains(IndexEntry{ID: 2, Type: CategoryClub}))
}
