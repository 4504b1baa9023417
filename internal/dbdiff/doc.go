// Package dbdiff runs one comparison of a candidate case database against
// a gold case database.
//
// A run normalizes both databases into two dumps each (the non-blackboard
// dump and the blackboard dump), sorts them, and compares each pair. The
// two comparisons are independent: a mismatch in one never stops the other.
// Mismatches are reported in the Result; only setup, extraction and I/O
// failures are returned as *Error.
//
// Usage:
//
//	res, err := dbdiff.Run(ctx, dbdiff.Options{
//	    OutputDB:  "output/autopsy.db",
//	    GoldDB:    "gold/autopsy.db",
//	    OutputDir: ".",
//	})
//	if dbdiff.IsSetupError(err) { ... }
//	if !res.Passed() { ... }
package dbdiff
