package router

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTryFastPath_timeInKnownCity(t *testing.T) {
	lookup := NewTimezoneLookup()
	now := fixedClock(time.Date(2026, time.August, 1, 3, 0, 0, 0, time.UTC))

	reply, ok := TryFastPath("what time is it in Tokyo?", "America/Chicago", lookup, now)
	require.True(t, ok)
	assert.Contains(t, reply, "It's ")
	assert.Contains(t, reply, "Tokyo")
	assert.True(t, strings.Contains(reply, "JST") || strings.Contains(reply, "+09"))
}

func TestTryFastPath_timeNoLocationUsesClientTZ(t *testing.T) {
	lookup := NewTimezoneLookup()
	now := fixedClock(time.Date(2026, time.August, 1, 3, 0, 0, 0, time.UTC))

	reply, ok := TryFastPath("what time is it?", "America/Chicago", lookup, now)
	require.True(t, ok)
	assert.Contains(t, reply, "It's ")
}

func TestTryFastPath_unknownCityFallsThrough(t *testing.T) {
	lookup := NewTimezoneLookup()
	now := fixedClock(time.Now())

	_, ok := TryFastPath("what time is it in Narnia?", "", lookup, now)
	assert.False(t, ok)
}

func TestTryFastPath_dateQuery(t *testing.T) {
	lookup := NewTimezoneLookup()
	now := fixedClock(time.Date(2026, time.August, 1, 3, 0, 0, 0, time.UTC))

	reply, ok := TryFastPath("what day is it?", "", lookup, now)
	require.True(t, ok)
	assert.Contains(t, reply, "Today is")
}

func TestTryFastPath_nonMatchingQueryFallsThrough(t *testing.T) {
	lookup := NewTimezoneLookup()
	now := fixedClock(time.Now())

	_, ok := TryFastPath("what's the weather in Tokyo?", "", lookup, now)
	assert.False(t, ok)
}

func TestTimezoneLookup_resolvesAliasAndLeaf(t *testing.T) {
	lookup := NewTimezoneLookup()

	loc, ok := lookup.Resolve("tokyo")
	require.True(t, ok)
	assert.Equal(t, "Asia/Tokyo", loc.String())

	loc, ok = lookup.Resolve("Japan")
	require.True(t, ok)
	assert.Equal(t, "Asia/Tokyo", loc.String())

	loc, ok = lookup.Resolve("Texas")
	require.True(t, ok)
	assert.Equal(t, "America/Chicago", loc.String())
}
