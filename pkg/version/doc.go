// Package version orders arbitrary version strings without requiring them to
// conform to a strict grammar.
//
// Real-world version strings are messy: "1.0.0", "1.0", "2.0.0-rc1",
// "0.3.0-alpha.2", "1.2.3.dev4". Strict SemVer parsers reject half of them,
// and plain string comparison orders the rest wrongly ("0.10.0" < "0.9.0").
// This package tokenizes any ASCII version string into a comparable key so
// that every pair of versions has a defined order:
//
//   - numeric runs compare numerically ("0.10.0" > "0.9.0")
//   - trailing zero components are insignificant ("1.0" == "1.0.0")
//   - pre-release tags sort before their release: dev < alpha < beta <
//     rc/pre/preview < final ("1.0.0-rc1" < "1.0.0")
//
// The ordering is total: for any two accepted strings exactly one of
// less-than, equal, or greater-than holds. Malformed input degrades to a
// short key instead of an error, so comparison never fails.
package version
