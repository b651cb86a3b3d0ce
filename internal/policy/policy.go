package policy

import "github.com/cardplay/canon/internal/extension"

// Behavior selects how an unrecognized node is treated once validation and
// migration have been exhausted.
type Behavior string

const (
	BehaviorReject   Behavior = "reject"
	BehaviorWarn     Behavior = "warn"
	BehaviorPreserve Behavior = "preserve"
)

// Policy configures one call site's tolerance for unknown nodes. It is
// supplied per call, not stored on nodes: a strict importer and a lenient
// playback path can adjudicate the same node differently.
type Policy struct {
	Behavior                Behavior `json:"behavior" yaml:"behavior"`
	AttemptMigration        bool     `json:"attemptMigration" yaml:"attemptMigration"`
	PreserveInSerialization bool     `json:"preserveInSerialization" yaml:"preserveInSerialization"`
}

// Strict rejects unknown nodes outright. Used by importers that must not
// carry unintelligible content forward.
func Strict() Policy {
	return Policy{Behavior: BehaviorReject}
}

// Lenient warns about unknown nodes but keeps them in serialized output,
// attempting migration first.
func Lenient() Policy {
	return Policy{
		Behavior:                BehaviorWarn,
		AttemptMigration:        true,
		PreserveInSerialization: true,
	}
}

// Outcome is the four-way verdict of Engine.Handle.
type Outcome string

const (
	OutcomeRejected  Outcome = "rejected"
	OutcomeWarned    Outcome = "warned"
	OutcomePreserved Outcome = "preserved"
	OutcomeMigrated  Outcome = "migrated"
)

// Result is the value returned by Engine.Handle. Node is nil when the
// adjudication drops the node (rejected, or warned without
// preserveInSerialization); otherwise it carries the node to keep, which
// for a migrated outcome is a new node at the migrated version.
type Result struct {
	Outcome     Outcome         `json:"outcome"`
	Node        *extension.Node `json:"node,omitempty"`
	Message     string          `json:"message"`
	Suggestions []string        `json:"suggestions,omitempty"`
}
