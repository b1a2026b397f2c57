package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReal_Now(t *testing.T) {
	before := time.Now().UTC()
	got := Real{}.Now()
	after := time.Now().UTC()

	assert.True(t, !got.Before(before) && !got.After(after))
	assert.Equal(t, time.UTC, got.Location())
}

func TestFixed(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewFixed(start)

	assert.Equal(t, start, c.Now())

	c.Advance(30 * time.Minute)
	assert.Equal(t, start.Add(30*time.Minute), c.Now())

	reset := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	c.Set(reset)
	assert.Equal(t, reset, c.Now())
}

func TestFixed_NormalizesToUTC(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available in this environment")
	}
	local := time.Date(2026, 3, 1, 9, 0, 0, 0, loc)
	c := NewFixed(local)

	assert.Equal(t, time.UTC, c.Now().Location())
	assert.True(t, c.Now().Equal(local))
}
