// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trust-engine/pkg/types"
)

var assessCmd = &cobra.Command{
	Use:   "assess [query...]",
	Short: "Assess the trustworthiness of a software product",
	Long: `Assess resolves the query to a known entity, serves a cached trust
report when one exists, and otherwise runs the streaming research backend
to completion, printing phase progress as it arrives. The final report is
cached for subsequent lookups.`,
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().String("user", "", "user ID for access history recording")
	assessCmd.Flags().String("endpoint", "", "research backend URL")
	assessCmd.Flags().String("registry", "entities.yaml", "known-entity registry file")
	assessCmd.Flags().String("data-dir", defaultDataDir, "base directory for cache storage")
	assessCmd.Flags().String("model", "", "AI model for entity extraction")
	assessCmd.Flags().Duration("timeout", 0, "research stream timeout (default 120s)")
	assessCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a product name, vendor, or file hash to assess")
	}
	query := strings.Join(args, " ")

	cfg := engineConfig(cmd)
	runner, store, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	userID, _ := cmd.Flags().GetString("user")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Research.Timeout)
	defer cancel()

	progress := newProgressPrinter(os.Stderr)
	result, err := runner.Assess(ctx, userID, query, progress.update)
	if err != nil {
		return err
	}

	switch {
	case result.Cached:
		fmt.Fprintf(os.Stderr, "Cached report (%s, cached %s)\n",
			result.Entry.Key, result.Entry.CachedAt.Format("2006-01-02 15:04"))
	case result.Attached:
		fmt.Fprintf(os.Stderr, "Joined in-flight research for %s\n", result.Entry.Key)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Entry)
	}
	printReport(result.Entry.Report)
	return nil
}

// progressPrinter renders phase transitions as they happen, one line
// per change, without repeating unchanged state.
type progressPrinter struct {
	out  *os.File
	last map[types.Phase]types.PhaseStatus
}

func newProgressPrinter(out *os.File) *progressPrinter {
	return &progressPrinter{out: out, last: make(map[types.Phase]types.PhaseStatus)}
}

func (p *progressPrinter) update(prog types.Progress) {
	for _, ps := range prog.Phases {
		if p.last[ps.Phase] == ps.Status {
			continue
		}
		p.last[ps.Phase] = ps.Status
		switch ps.Status {
		case types.PhaseActive:
			fmt.Fprintf(p.out, "  ... %s\n", ps.Phase)
		case types.PhaseComplete:
			fmt.Fprintf(p.out, "  [x] %s\n", ps.Phase)
		}
	}
}

// printReport writes a human-readable report summary to stdout.
func printReport(r *types.Report) {
	fmt.Printf("%s", r.ProductName)
	if r.Vendor != "" {
		fmt.Printf(" (%s)", r.Vendor)
	}
	fmt.Println()
	fmt.Printf("Trust score: %d/100 (%s confidence, %d sources)\n",
		r.TrustScore.Score, r.TrustScore.Confidence, r.TrustScore.SourceCount)
	if r.ExecutiveSummary != "" {
		fmt.Printf("\n%s\n", r.ExecutiveSummary)
	}

	if len(r.CVEs) > 0 {
		fmt.Printf("\nKnown vulnerabilities (%d):\n", len(r.CVEs))
		for _, cve := range r.CVEs {
			line := "  " + cve.ID
			if cve.Severity != "" {
				line += fmt.Sprintf(" [%s]", cve.Severity)
			}
			if cve.Title != "" {
				line += " " + cve.Title
			}
			fmt.Println(line)
		}
	}

	if len(r.Compliance) > 0 {
		fmt.Println("\nCompliance:")
		for _, c := range r.Compliance {
			line := "  " + c.Cert
			if c.Expires != "" {
				line += fmt.Sprintf(" (expires %s)", c.Expires)
			}
			fmt.Println(line)
		}
	}

	if len(r.Sources) > 0 {
		fmt.Printf("\nSources (%d):\n", len(r.Sources))
		for _, s := range r.Sources {
			fmt.Printf("  %s\n", s.URL)
		}
	}
}
