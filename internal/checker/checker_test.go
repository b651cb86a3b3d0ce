package checker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cardplay/canon/internal/extension"
	"github.com/cardplay/canon/internal/policy"
	"github.com/cardplay/canon/internal/testutil"
	"github.com/cardplay/canon/internal/tracing"
)

func newChecker(t *testing.T, p policy.Policy, installed map[string]string) *Checker {
	t.Helper()
	reg := testutil.NewRegistryBuilder(t).WithGritAxisPack().Build()
	return New(reg, p, installed, noop.NewTracerProvider().Tracer("test"))
}

func serialize(t *testing.T, nodes ...extension.Node) string {
	t.Helper()
	var lines []string
	for _, n := range nodes {
		text, err := extension.Serialize(n)
		require.NoError(t, err)
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n")
}

func TestChecker_CleanRun(t *testing.T) {
	c := newChecker(t, policy.Strict(), map[string]string{"my-pack": "1.0.0"})

	input := serialize(t,
		testutil.GritAxisNode("1.0.0", 0.7),
		testutil.GritAxisNode("1.1.0", 0.2),
	)
	report, err := c.CheckReader(context.Background(), strings.NewReader(input), "stdin")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 2, report.Preserved)
	assert.True(t, report.Clean())
	for _, f := range report.Findings {
		require.NotNil(t, f.Compat)
		assert.True(t, f.Compat.Compatible)
	}
}

func TestChecker_RejectsInvalidPayload(t *testing.T) {
	c := newChecker(t, policy.Strict(), map[string]string{"my-pack": "1.0.0"})

	// amount out of range at the latest version, so migration cannot save it
	input := serialize(t, testutil.GritAxisNode("1.1.0", 1.5))
	report, err := c.CheckReader(context.Background(), strings.NewReader(input), "stdin")
	require.NoError(t, err)

	assert.False(t, report.Clean())
	assert.Equal(t, 1, report.Rejected)
	f := report.Findings[0]
	assert.Equal(t, policy.OutcomeRejected, f.Outcome)
	assert.NotEmpty(t, f.Suggestions)
	require.NotEmpty(t, f.Issues)
	assert.Equal(t, "$.amount", f.Issues[0].Path)
}

func TestChecker_MigratesOldNodes(t *testing.T) {
	c := newChecker(t, policy.Lenient(), map[string]string{"my-pack": "1.0.0"})

	// Valid 1.0.0 payload but 1.1.0 renamed the key; under a lenient
	// policy the old shape rides through via migration once it stops
	// validating. A still-valid 1.0.0 node is simply preserved.
	node := testutil.GritAxisNode("1.0.0", 0.5)
	node.Payload = map[string]any{"axis": "grit", "amount": 0.5} // 1.1.0 shape under 1.0.0 tag
	input := serialize(t, node)

	report, err := c.CheckReader(context.Background(), strings.NewReader(input), "stdin")
	require.NoError(t, err)

	require.Equal(t, 1, report.Migrated)
	f := report.Findings[0]
	require.NotNil(t, f.Node)
	assert.Equal(t, "1.1.0", f.Node.SchemaVersion)
}

func TestChecker_MalformedLines(t *testing.T) {
	c := newChecker(t, policy.Strict(), nil)

	input := strings.Join([]string{
		"{ invalid json }",
		`{"some":"data"}`,
		"",
		serialize(t, testutil.GritAxisNode("1.0.0", 0.7)),
	}, "\n")

	report, err := c.CheckReader(context.Background(), strings.NewReader(input), "nodes.jsonl")
	require.NoError(t, err)

	assert.Equal(t, 3, report.Checked) // blank line skipped
	assert.Equal(t, 2, report.Malformed)
	assert.Equal(t, 1, report.Preserved)
	assert.False(t, report.Clean())

	assert.Equal(t, 1, report.Findings[0].Line)
	assert.Equal(t, 2, report.Findings[1].Line)
	assert.Equal(t, "not a serialized extension node", report.Findings[0].Message)
}

func TestChecker_MissingExtensionReported(t *testing.T) {
	c := newChecker(t, policy.Strict(), map[string]string{})

	input := serialize(t, testutil.GritAxisNode("1.0.0", 0.7))
	report, err := c.CheckReader(context.Background(), strings.NewReader(input), "stdin")
	require.NoError(t, err)

	f := report.Findings[0]
	// Validation passes, but the consumer has nothing installed for it.
	assert.Equal(t, policy.OutcomePreserved, f.Outcome)
	require.NotNil(t, f.Compat)
	assert.False(t, f.Compat.Compatible)
	require.Len(t, f.Compat.Requires, 1)
	assert.Equal(t, "my-pack", f.Compat.Requires[0].Namespace)
}

func TestChecker_EmitsNodeSpans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	cfg := tracing.DefaultConfig()
	cfg.Enabled = true
	cfg.Exporter = "file"
	cfg.FilePath = path
	provider, err := tracing.NewProvider(cfg)
	require.NoError(t, err)

	reg := testutil.NewRegistryBuilder(t).WithGritAxisPack().Build()
	c := New(reg, policy.Strict(), map[string]string{"my-pack": "1.0.0"}, provider.Tracer())

	input := serialize(t, testutil.GritAxisNode("1.1.0", 0.4))
	_, err = c.CheckReader(context.Background(), strings.NewReader(input), "stdin")
	require.NoError(t, err)
	require.NoError(t, provider.Shutdown(context.Background()))

	data, err := os.ReadFile(path) //nolint:gosec // G304: temp file
	require.NoError(t, err)

	var nodeSpan *tracing.SpanRecord
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var record tracing.SpanRecord
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		if record.Name == "check.node" {
			nodeSpan = &record
		}
	}
	require.NotNil(t, nodeSpan, "expected a check.node span")

	assert.Equal(t, "my-pack:grit-axis", nodeSpan.Attributes["schema.id"])
	assert.Equal(t, "1.1.0", nodeSpan.Attributes["schema.version"])
	assert.Equal(t, "reject", nodeSpan.Attributes["policy.behavior"])
	assert.Equal(t, "preserved", nodeSpan.Attributes["policy.outcome"])
}
