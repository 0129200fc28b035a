// Package tuning holds the reference string table and the tolerance-band
// comparison that turns a pitch estimate into a tuning verdict.
package tuning
