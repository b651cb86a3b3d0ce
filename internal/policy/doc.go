// Package policy adjudicates extension nodes that a consumer may not
// recognize. Every node passes through Engine.Handle, which turns "I don't
// recognize this" into exactly one of four outcomes (preserved, migrated,
// warned, rejected) according to a caller-supplied policy. Handle never
// returns a Go error; callers branch on the Result.
package policy
