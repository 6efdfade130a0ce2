package updates

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResultStringWithoutDate(t *testing.T) {
	res := &Result{
		CrateName:        "serde",
		RunningVersion:   "1.0.150",
		AvailableVersion: "1.0.200",
	}
	assert.Equal(t,
		"Version 1.0.150 of serde is outdated. Version 1.0.200 is available.",
		res.String())
}

func TestResultStringRecentDate(t *testing.T) {
	released := time.Now().Add(-3 * 24 * time.Hour)
	res := &Result{
		CrateName:        "serde",
		RunningVersion:   "1.0.150",
		AvailableVersion: "1.0.200",
		ReleaseDate:      &released,
	}
	s := res.String()
	assert.True(t, strings.HasPrefix(s,
		"Version 1.0.150 of serde is outdated. Version 1.0.200 was released "), s)
	assert.Contains(t, s, "days ago")
}

func TestResultStringOldDateShowsFullDate(t *testing.T) {
	released := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	res := &Result{
		CrateName:        "serde",
		RunningVersion:   "1.0.150",
		AvailableVersion: "1.0.200",
		ReleaseDate:      &released,
	}
	assert.Contains(t, res.String(), "Jun 15, 2024")
}

func TestNewResultParsesRFC3339(t *testing.T) {
	res := newResult("serde", "1.0.0", "1.2.0", "2026-02-01T10:00:00+02:00")
	if assert.NotNil(t, res.ReleaseDate) {
		assert.True(t, res.ReleaseDate.Equal(time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)))
	}

	res = newResult("serde", "1.0.0", "1.2.0", "02/01/2026")
	assert.Nil(t, res.ReleaseDate)
}
