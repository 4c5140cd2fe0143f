package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain day", "2024-05-01", "2024-05-01"},
		{"utc timestamp", "2024-05-01T23:30:00Z", "2024-05-01"},
		{"offset shifts to utc day", "2024-05-01T01:00:00+09:00", "2024-04-30"},
		{"slashes", "2024/05/01", "2024-05-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDate("not a date")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(time.Date(2024, 7, 9, 15, 0, 0, 0, time.UTC))

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-07-09"`, string(b))

	var decoded Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-07-09T10:00:00Z"`), &decoded))
	assert.True(t, decoded.Equal(d.Time))

	var empty Date
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.True(t, empty.IsZero())

	b, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestDate_Pgtype(t *testing.T) {
	d := NewDate(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	v, err := d.DateValue()
	require.NoError(t, err)
	assert.True(t, v.Valid)

	var scanned Date
	require.NoError(t, scanned.ScanDate(v))
	assert.Equal(t, "2024-01-02", scanned.String())

	require.NoError(t, scanned.ScanDate(pgtype.Date{}))
	assert.True(t, scanned.IsZero())
}
