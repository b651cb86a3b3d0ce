// Package checker runs the canon-check pass over serialized extension
// nodes: every line of input is decoded, validated against the registry,
// adjudicated under the configured policy, and cross-checked against the
// installed extension table. Findings are collected into a report; nothing
// stops at the first problem.
package checker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cardplay/canon/internal/compat"
	"github.com/cardplay/canon/internal/extension"
	"github.com/cardplay/canon/internal/log"
	"github.com/cardplay/canon/internal/paramtype"
	"github.com/cardplay/canon/internal/policy"
	"github.com/cardplay/canon/internal/schema"
	"github.com/cardplay/canon/internal/tracing"
)

// Checker adjudicates serialized nodes against a registry, a policy, and
// an installed extension table.
type Checker struct {
	registry  *schema.Registry
	engine    *policy.Engine
	policy    policy.Policy
	installed map[string]string
	tracer    trace.Tracer
}

// New creates a checker. installed maps extension namespace to version.
func New(reg *schema.Registry, p policy.Policy, installed map[string]string, tracer trace.Tracer) *Checker {
	return &Checker{
		registry:  reg,
		engine:    policy.NewEngine(reg),
		policy:    p,
		installed: installed,
		tracer:    tracer,
	}
}

// Finding is the verdict for one input line.
type Finding struct {
	Source  string          `json:"source"`
	Line    int             `json:"line"`
	Node    *extension.Node `json:"node,omitempty"`
	Outcome policy.Outcome  `json:"outcome"`
	Message string          `json:"message"`

	Suggestions []string          `json:"suggestions,omitempty"`
	Issues      []paramtype.Issue `json:"issues,omitempty"`
	Compat      *compat.Result    `json:"compat,omitempty"`
}

// Report aggregates findings across one check run.
type Report struct {
	Findings []Finding `json:"findings"`

	Checked   int `json:"checked"`
	Preserved int `json:"preserved"`
	Migrated  int `json:"migrated"`
	Warned    int `json:"warned"`
	Rejected  int `json:"rejected"`
	Malformed int `json:"malformed"`
}

// Clean reports whether the run produced no rejections and no malformed input.
func (r *Report) Clean() bool {
	return r.Rejected == 0 && r.Malformed == 0
}

// CheckReader decodes one serialized node per non-blank line of r and
// adjudicates each. Malformed lines become rejected findings rather than
// aborting the run, so one bad node never hides the rest.
func (c *Checker) CheckReader(ctx context.Context, r io.Reader, source string) (*Report, error) {
	ctx, span := c.tracer.Start(ctx, tracing.SpanPrefixCheck+"run",
		trace.WithAttributes(attribute.String("check.source", source)))
	defer span.End()

	report := &Report{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		report.add(c.checkLine(ctx, line, source, lineNo))
	}
	if err := scanner.Err(); err != nil {
		span.SetAttributes(attribute.String(tracing.AttrErrorMessage, err.Error()))
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	span.SetAttributes(
		attribute.Int("check.nodes", report.Checked),
		attribute.Int("check.rejected", report.Rejected),
	)
	log.Info(log.CatPolicy, "check run complete", "source", source,
		"checked", report.Checked, "rejected", report.Rejected, "warned", report.Warned)
	return report, nil
}

func (c *Checker) checkLine(ctx context.Context, line, source string, lineNo int) Finding {
	ctx, span := c.tracer.Start(ctx, tracing.SpanPrefixCheck+"node")
	defer span.End()

	node, ok := extension.Deserialize(line)
	if !ok {
		span.SetAttributes(attribute.String(tracing.AttrErrorType, "malformed-line"))
		return Finding{
			Source:  source,
			Line:    lineNo,
			Outcome: policy.OutcomeRejected,
			Message: "not a serialized extension node",
		}
	}

	span.SetAttributes(
		attribute.String(tracing.AttrNodeType, node.Type),
		attribute.String(tracing.AttrNodeNamespace, node.Namespace),
		attribute.String(tracing.AttrSchemaID, node.SchemaID),
		attribute.String(tracing.AttrSchemaVersion, node.SchemaVersion),
		attribute.String(tracing.AttrPolicyBehavior, string(c.policy.Behavior)),
	)

	finding := Finding{Source: source, Line: lineNo}

	res := c.engine.Handle(ctx, *node, c.policy)
	finding.Node = res.Node
	finding.Outcome = res.Outcome
	finding.Message = res.Message
	finding.Suggestions = res.Suggestions

	span.SetAttributes(attribute.String(tracing.AttrOutcome, string(res.Outcome)))
	if res.Outcome == policy.OutcomeMigrated && res.Node != nil {
		span.SetAttributes(attribute.String(tracing.AttrTargetVersion, res.Node.SchemaVersion))
	}

	// Attach the validation detail when the payload was the problem, so a
	// report can point at the exact offending field.
	if res.Outcome != policy.OutcomeMigrated {
		if vres := c.registry.ValidateNode(*node); !vres.Valid {
			finding.Issues = vres.Errors
		}
	}

	compatRes := compat.Check(*node, c.installed)
	finding.Compat = &compatRes

	return finding
}

func (r *Report) add(f Finding) {
	r.Findings = append(r.Findings, f)
	r.Checked++
	switch {
	case f.Node == nil && f.Outcome == policy.OutcomeRejected && f.Compat == nil:
		r.Malformed++
	case f.Outcome == policy.OutcomeRejected:
		r.Rejected++
	case f.Outcome == policy.OutcomeWarned:
		r.Warned++
	case f.Outcome == policy.OutcomeMigrated:
		r.Migrated++
	case f.Outcome == policy.OutcomePreserved:
		r.Preserved++
	}
}
