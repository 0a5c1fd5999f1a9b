package store

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, in := range []string{"active", "Active", " ACTIVE "} {
		s, err := ParseStatus(in)
		require.NoError(t, err)
		assert.Equal(t, StatusActive, s)
	}

	s, err := ParseStatus("canceled")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, s)

	_, err = ParseStatus("pending")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestStatusSet(t *testing.T) {
	var set StatusSet
	assert.True(t, set.IsEmpty())
	assert.True(t, set.Accepts(StatusClosed), "empty set means no filter")

	set = set.With(StatusActive).With(StatusClosed)
	assert.Equal(t, []Status{StatusActive, StatusClosed}, set.Statuses())
	assert.False(t, set.Accepts(StatusCancelled))
	assert.Equal(t, 2, set.Len())

	assert.Equal(t, set, set.Toggle(StatusCancelled).Toggle(StatusCancelled))
	assert.Equal(t, NewStatusSet(StatusClosed), set.Without(StatusActive))
	assert.Equal(t, "{Active, Closed}", set.String())
}

func TestStatusSetJSON(t *testing.T) {
	data, err := json.Marshal(NewStatusSet(StatusCancelled, StatusActive))
	require.NoError(t, err)
	assert.JSONEq(t, `["Active","Cancelled"]`, string(data))

	var set StatusSet
	require.NoError(t, json.Unmarshal([]byte(`["closed"," "]`), &set))
	assert.Equal(t, NewStatusSet(StatusClosed), set)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2025-10-10T00:00:00.000Z", "10/10/2025", false},
		{"2025-01-05", "01/05/2025", false},
		{"2025-1-5T23:59:59-07:00", "01/05/2025", false},
		{"2025-10-09T23:30:00+09:00", "10/09/2025", false},
		{"2025/10/10", "", true},
		{"2025-13-01", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidData)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.US())
		})
	}
}
