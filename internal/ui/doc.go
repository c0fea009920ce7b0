// Package ui renders human-facing progress for mirror runs: a live status
// line on interactive terminals, per-owner summary lines, itemized errors and
// a closing summary table.
package ui
