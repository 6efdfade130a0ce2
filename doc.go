// Package updates tells a command-line tool when a newer version of itself
// (or of any crate it cares about) is published on crates.io.
//
// It is built for the "you're out of date" notice at startup: one call, no
// error to handle, and a shared one-hour result cache so frequent
// invocations don't pay network latency.
//
// The simplest integration is the package-level Check:
//
//	func main() {
//		updates.Check("my-tool", "1.0.0", false)
//		// rest of the application
//	}
//
// If an update exists it prints a single line to stderr:
//
//	Version 1.0.0 of my-tool is outdated. Version 1.2.0 was released 3 days ago.
//
// For more control construct a Checker:
//
//	checker := updates.New(false)
//	if res := checker.Check("serde", "1.0.150"); res != nil {
//		fmt.Println("update to", res.AvailableVersion)
//	}
//
// # Failure policy
//
// A check never fails its caller. Network errors, timeouts, a missing or
// corrupt cache file, unparsable release dates: all degrade to "no update"
// (or a result without a date) rather than an error. Pass a zap logger via
// WithLogger to observe what was swallowed.
//
// # Caching
//
// Outcomes are cached per (crate, version) pair for one hour, in memory and
// in a JSON file under the system temp directory shared by every process
// using the library. Construct with bypass true to always query the
// registry, e.g. in CI.
package updates
