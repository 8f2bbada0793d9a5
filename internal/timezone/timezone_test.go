package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationFallback(t *testing.T) {
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Mars/Olympus"))

	assert.Equal(t, "UTC", Location("UTC").String())
	assert.NotNil(t, Location("Mars/Olympus"))
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	late := time.Date(2030, 5, 2, 1, 30, 0, 0, time.UTC)

	got := Today(late, loc)
	assert.Equal(t, time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC), got)
}
