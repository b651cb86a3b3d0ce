package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cardplay/canon/internal/checker"
	"github.com/cardplay/canon/internal/config"
	"github.com/cardplay/canon/internal/log"
	"github.com/cardplay/canon/internal/policy"
	"github.com/cardplay/canon/internal/tracing"
	"github.com/cardplay/canon/internal/watcher"
)

var (
	checkBehavior string
	checkMigrate  bool
	checkJSON     bool
	checkWatch    bool
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Validate serialized extension nodes against the registered schemas",
	Long: `Check reads serialized extension nodes (one JSON object per line),
validates each against the schemas declared in the configured pack
directories, and adjudicates unknown nodes under the configured policy.
With no file arguments, nodes are read from stdin.

The exit status is non-zero when any node is rejected or malformed.

Examples:
  # Check a document export
  canon check project-nodes.jsonl

  # Check from stdin with a lenient policy
  cat nodes.jsonl | canon check --behavior warn

  # Re-run automatically when a pack manifest changes
  canon check project-nodes.jsonl --watch

  # Machine-readable report
  canon check nodes.jsonl --json | jq '.findings[] | select(.outcome == "rejected")'`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkBehavior, "behavior", "",
		"override the policy behavior: reject, warn, or preserve")
	checkCmd.Flags().BoolVar(&checkMigrate, "migrate", false,
		"attempt migrating unknown nodes to the latest schema version")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false,
		"emit the report as JSON")
	checkCmd.Flags().BoolVar(&checkWatch, "watch", false,
		"watch pack directories and re-run on changes")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	p := checkPolicy()

	provider, err := tracing.NewProvider(tracingConfig())
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	ctx := cmd.Context()
	defer func() { _ = provider.Shutdown(ctx) }()

	if checkWatch {
		if len(args) == 0 {
			return fmt.Errorf("--watch requires file arguments (stdin cannot be re-read)")
		}
		return watchAndCheck(ctx, args, p, provider)
	}

	report, err := runCheckOnce(ctx, args, p, provider)
	if err != nil {
		return err
	}
	if !report.Clean() {
		return fmt.Errorf("%d of %d nodes failed the check", report.Rejected+report.Malformed, report.Checked)
	}
	return nil
}

func runCheckOnce(ctx context.Context, args []string, p policy.Policy, provider *tracing.Provider) (*checker.Report, error) {
	reg, loaded, err := loadRegistry()
	if err != nil {
		return nil, err
	}
	c := checker.New(reg, p, installedTable(loaded), provider.Tracer())

	merged := &checker.Report{}
	if len(args) == 0 {
		report, err := c.CheckReader(ctx, os.Stdin, "stdin")
		if err != nil {
			return nil, err
		}
		merged = report
	} else {
		for _, path := range args {
			f, err := os.Open(path) //nolint:gosec // G304: user-supplied input file
			if err != nil {
				return nil, fmt.Errorf("opening %s: %w", path, err)
			}
			report, err := c.CheckReader(ctx, f, path)
			_ = f.Close()
			if err != nil {
				return nil, err
			}
			mergeReports(merged, report)
		}
	}

	if err := printReport(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func watchAndCheck(ctx context.Context, args []string, p policy.Policy, provider *tracing.Provider) error {
	w, err := watcher.New(watcher.DefaultConfig(cfg.PackDirs))
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// Mirror log entries to stderr so reload activity is visible while
	// the watch loop idles.
	streamCtx, stopStream := context.WithCancel(ctx)
	defer stopStream()
	go streamLogEvents(streamCtx)

	for {
		if _, err := runCheckOnce(ctx, args, p, provider); err != nil {
			fmt.Fprintf(os.Stderr, "check failed: %v\n", err)
		}
		fmt.Fprintln(os.Stderr, "watching pack directories; Ctrl-C to stop")

		select {
		case <-onChange:
			fmt.Fprintln(os.Stderr, "pack change detected, re-running")
		case <-sigs:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// streamLogEvents copies log entries to stderr until ctx is cancelled. It
// is a no-op when logging is not initialized (no --debug, no CANON_DEBUG).
func streamLogEvents(ctx context.Context) {
	listener := log.NewListener(ctx)
	if listener == nil {
		return
	}
	for {
		event, ok := listener.Next()
		if !ok {
			return
		}
		fmt.Fprint(os.Stderr, event.Payload)
	}
}

// checkPolicy resolves the effective policy: config defaults overridden by
// command flags.
func checkPolicy() policy.Policy {
	p := cfg.Policy.Policy()
	if checkBehavior != "" {
		p.Behavior = policy.Behavior(checkBehavior)
	}
	if checkMigrate {
		p.AttemptMigration = true
	}
	return p
}

func tracingConfig() tracing.Config {
	tc := tracing.DefaultConfig()
	tc.Enabled = cfg.Tracing.Enabled
	if cfg.Tracing.Exporter != "" {
		tc.Exporter = cfg.Tracing.Exporter
	}
	tc.FilePath = cfg.Tracing.FilePath
	if tc.FilePath == "" {
		tc.FilePath = config.DefaultTracesFilePath()
	}
	if cfg.Tracing.OTLPEndpoint != "" {
		tc.OTLPEndpoint = cfg.Tracing.OTLPEndpoint
	}
	if cfg.Tracing.SampleRate > 0 {
		tc.SampleRate = cfg.Tracing.SampleRate
	}
	return tc
}

func mergeReports(dst, src *checker.Report) {
	dst.Findings = append(dst.Findings, src.Findings...)
	dst.Checked += src.Checked
	dst.Preserved += src.Preserved
	dst.Migrated += src.Migrated
	dst.Warned += src.Warned
	dst.Rejected += src.Rejected
	dst.Malformed += src.Malformed
}

func printReport(report *checker.Report) error {
	if checkJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, f := range report.Findings {
		fmt.Printf("%s:%d [%s] %s\n", f.Source, f.Line, f.Outcome, f.Message)
		for _, issue := range f.Issues {
			fmt.Printf("    %s (%s): %s\n", issue.Path, issue.Rule, issue.Message)
		}
		for _, s := range f.Suggestions {
			fmt.Printf("    suggestion: %s\n", s)
		}
		if f.Compat != nil && !f.Compat.Compatible {
			for _, req := range f.Compat.Requires {
				fmt.Printf("    requires extension %s@%s\n", req.Namespace, req.Version)
			}
		}
		if f.Compat != nil {
			for _, warning := range f.Compat.Warnings {
				fmt.Printf("    %s\n", warning)
			}
		}
	}
	fmt.Printf("checked %d: %d preserved, %d migrated, %d warned, %d rejected, %d malformed\n",
		report.Checked, report.Preserved, report.Migrated, report.Warned,
		report.Rejected, report.Malformed)
	return nil
}
