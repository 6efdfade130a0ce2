package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cache.json")
}

func TestPutThenGet(t *testing.T) {
	c := New(testPath(t), DefaultTTL)

	released := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := &Record{
		CrateName:        "serde",
		RunningVersion:   "1.0.150",
		AvailableVersion: "1.0.200",
		ReleaseDate:      &released,
	}
	c.Put("serde", "1.0.150", rec)

	got, ok := c.Get("serde", "1.0.150")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, "1.0.200", got.AvailableVersion)
	assert.Equal(t, released, *got.ReleaseDate)
}

func TestGetMiss(t *testing.T) {
	c := New(testPath(t), DefaultTTL)

	got, ok := c.Get("serde", "1.0.150")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestAbsentOutcomeIsCached(t *testing.T) {
	c := New(testPath(t), DefaultTTL)

	// "no update" is a result too; a fresh nil must not look like a miss.
	c.Put("serde", "1.0.200", nil)

	got, ok := c.Get("serde", "1.0.200")
	assert.True(t, ok)
	assert.Nil(t, got)
}

func TestExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := New(testPath(t), DefaultTTL, WithClock(func() time.Time { return now }))

	c.Put("serde", "1.0.150", &Record{AvailableVersion: "1.0.200"})

	now = now.Add(DefaultTTL - time.Second)
	_, ok := c.Get("serde", "1.0.150")
	assert.True(t, ok, "entry should still be fresh one second before the window closes")

	now = now.Add(2 * time.Second)
	_, ok = c.Get("serde", "1.0.150")
	assert.False(t, ok, "entry past the window must read as absent")

	// The stale entry still occupies storage until overwritten.
	c.mu.Lock()
	_, present := c.entries[Key{Name: "serde", Version: "1.0.150"}]
	c.mu.Unlock()
	assert.True(t, present)
}

func TestPutOverwrites(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := New(testPath(t), DefaultTTL, WithClock(func() time.Time { return now }))

	c.Put("serde", "1.0.150", &Record{AvailableVersion: "1.0.200"})

	now = now.Add(2 * DefaultTTL)
	c.Put("serde", "1.0.150", &Record{AvailableVersion: "1.0.205"})

	got, ok := c.Get("serde", "1.0.150")
	require.True(t, ok, "overwrite must refresh the timestamp")
	assert.Equal(t, "1.0.205", got.AvailableVersion)
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := testPath(t)
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }

	released := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := New(path, DefaultTTL, WithClock(clock))
	first.Put("serde", "1.0.150", &Record{
		CrateName:        "serde",
		RunningVersion:   "1.0.150",
		AvailableVersion: "1.0.200",
		ReleaseDate:      &released,
	})
	first.Put("tokio", "1.28.0", nil)
	first.Save()

	second := New(path, DefaultTTL, WithClock(clock))

	got, ok := second.Get("serde", "1.0.150")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, "1.0.200", got.AvailableVersion)
	assert.True(t, released.Equal(*got.ReleaseDate))

	got, ok = second.Get("tokio", "1.28.0")
	assert.True(t, ok)
	assert.Nil(t, got)

	// Timestamps survive the round trip: advance past the window and the
	// restored entries expire too.
	now = now.Add(DefaultTTL + time.Second)
	_, ok = second.Get("serde", "1.0.150")
	assert.False(t, ok)
}

func TestRestoreToleratesCorruptFile(t *testing.T) {
	path := testPath(t)
	require.NoError(t, os.WriteFile(path, []byte("not json{{"), 0o600))

	c := New(path, DefaultTTL)
	_, ok := c.Get("serde", "1.0.150")
	assert.False(t, ok)

	// The cache still works in-memory and can overwrite the bad file.
	c.Put("serde", "1.0.150", nil)
	c.Save()
	again := New(path, DefaultTTL)
	_, ok = again.Get("serde", "1.0.150")
	assert.True(t, ok)
}

func TestSaveSwallowsWriteFailure(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "missing", "dir", "cache.json"), DefaultTTL)
	c.Put("serde", "1.0.150", nil)
	c.Save() // must not panic or report

	_, ok := c.Get("serde", "1.0.150")
	assert.True(t, ok, "in-memory state survives a failed persist")
}

func TestConcurrentAccess(t *testing.T) {
	c := New(testPath(t), DefaultTTL)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				c.Put("serde", "1.0.150", &Record{AvailableVersion: "1.0.200"})
				c.Get("serde", "1.0.150")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
