package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSeed(t *testing.T) {
	userID := uuid.New()
	other := uuid.New()

	post := Seed(LoungePost{Content: "hi", Participants: []uuid.UUID{other}}, userID)

	assert.Equal(t, []uuid.UUID{userID}, post.Participants)
	assert.Equal(t, "hi", post.Content)
}

func TestRecord_ExcludesServerColumns(t *testing.T) {
	records := []map[string]any{
		ClubPost{}.Record(),
		ChallengePost{}.Record(),
		LoungePost{}.Record(),
		SocialingPost{}.Record(),
	}

	for _, record := range records {
		assert.NotContains(t, record, "id")
		assert.NotContains(t, record, "created_at")
		assert.Contains(t, record, "participants")
	}
}

func TestOwner(t *testing.T) {
	creator, joined := uuid.New(), uuid.New()

	assert.Equal(t, creator, ClubPost{Participants: []uuid.UUID{creator, joined}}.Owner())
	assert.Equal(t, creator, Seed(SocialingPost{}, creator).Owner())
	assert.Equal(t, uuid.Nil, ChallengePost{}.Owner(), "a row without participants has no owner")
}
