// Package textdiff sorts normalized dumps and compares a candidate dump
// with its gold counterpart, leaving a diff and a copy of the gold file
// next to the candidate when they differ.
package textdiff
