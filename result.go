package updates

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rly0nheart/updates/internal/cache"
)

// Result describes an available update for a crate. It is only produced when
// the registry's best candidate is strictly newer than the running version.
type Result struct {
	// CrateName is the crate that was checked.
	CrateName string `json:"crate_name"`
	// RunningVersion is the version currently in use.
	RunningVersion string `json:"running_version"`
	// AvailableVersion is the newest eligible published version.
	AvailableVersion string `json:"available_version"`
	// ReleaseDate is when AvailableVersion was published, if the registry
	// reported a parsable timestamp.
	ReleaseDate *time.Time `json:"release_date,omitempty"`
}

// newResult builds a Result, parsing the registry's RFC3339 release
// timestamp. An unparsable date yields a Result without one rather than a
// failed check.
func newResult(name, running, available, createdAt string) *Result {
	res := &Result{
		CrateName:        name,
		RunningVersion:   running,
		AvailableVersion: available,
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		utc := t.UTC()
		res.ReleaseDate = &utc
	}
	return res
}

// String renders the outcome as a single notice line, for example:
//
//	Version 1.0.0 of serde is outdated. Version 1.2.0 was released 3 days ago.
func (r *Result) String() string {
	head := fmt.Sprintf("Version %s of %s is outdated. Version %s ",
		r.RunningVersion, r.CrateName, r.AvailableVersion)
	if r.ReleaseDate == nil {
		return head + "is available."
	}
	return head + fmt.Sprintf("was released %s.", prettyDate(*r.ReleaseDate))
}

// prettyDate formats t relative to now ("3 days ago", "in 2 hours") and
// falls back to the full date once it is more than a week in the past.
func prettyDate(t time.Time) string {
	if time.Since(t) > 7*24*time.Hour {
		return t.Format("Jan 2, 2006 15:04:05")
	}
	return humanize.Time(t)
}

func resultFromRecord(rec *cache.Record) *Result {
	if rec == nil {
		return nil
	}
	return &Result{
		CrateName:        rec.CrateName,
		RunningVersion:   rec.RunningVersion,
		AvailableVersion: rec.AvailableVersion,
		ReleaseDate:      rec.ReleaseDate,
	}
}

func recordFromResult(res *Result) *cache.Record {
	if res == nil {
		return nil
	}
	return &cache.Record{
		CrateName:        res.CrateName,
		RunningVersion:   res.RunningVersion,
		AvailableVersion: res.AvailableVersion,
		ReleaseDate:      res.ReleaseDate,
	}
}
