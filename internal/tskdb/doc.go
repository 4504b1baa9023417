// Package tskdb provides read-only access to TSK/Autopsy case databases.
//
// A case database is never opened for writing. Handles are opened with
// SQLite's mode=ro URI parameter and PRAGMA query_only, so the gold and
// candidate files handed to a comparison run are left untouched.
//
// # Logical Export
//
// Export produces the classic SQL dump statement stream: BEGIN
// TRANSACTION, each table's CREATE statement followed by one INSERT per
// row, then indexes, triggers and views, then COMMIT. Existing gold dumps
// were produced in this format, so it must not drift. Row literals are rendered by SQLite's quote() so both
// sides of a comparison format values identically.
//
// Tables can be excluded at export time. The blackboard tables are dumped
// separately by package blackboard, so the non-blackboard dump filters them
// here instead of dropping them from a scratch copy of the file.
package tskdb
