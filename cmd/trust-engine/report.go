// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trust-engine/internal/cache"
	"github.com/pdiddy/trust-engine/internal/entity"
	"github.com/pdiddy/trust-engine/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect cached trust reports and access history",
}

// --- get subcommand ---

var reportGetCmd = &cobra.Command{
	Use:   "get [entity...]",
	Short: "Fetch a cached trust report",
	Long: `Get normalizes the entity, checks the registry for candidate cache keys,
and prints the cached report. It never triggers research; a miss is an
error.`,
	RunE: runReportGet,
}

func runReportGet(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide an entity name or hash")
	}
	query := strings.Join(args, " ")

	cfg := engineConfig(cmd)
	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	registry, err := entity.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		return err
	}

	// Resolution without the extractor: normalization plus registry only.
	res, err := entity.Resolve(cmd.Context(), query, registry, nil)
	if err != nil {
		return err
	}

	entry, err := store.LookupByEntity(cmd.Context(), res.Entity)
	if err != nil {
		return err
	}
	if entry == nil {
		if entry, err = store.Lookup(cmd.Context(), res.Key); err != nil {
			return err
		}
	}
	if entry == nil {
		return fmt.Errorf("no cached report for %q: %w", res.Key, types.ErrNotFound)
	}

	if userID, _ := cmd.Flags().GetString("user"); userID != "" {
		if err := store.RecordAccess(cmd.Context(), userID, entry.Key); err != nil {
			return err
		}
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}
	fmt.Fprintf(os.Stderr, "Cached %s\n", entry.CachedAt.Format("2006-01-02 15:04"))
	printReport(entry.Report)
	return nil
}

// --- history subcommand ---

var reportHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a user's report access history",
	RunE:  runReportHistory,
}

func runReportHistory(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	if userID == "" {
		return fmt.Errorf("--user is required")
	}

	cfg := engineConfig(cmd)
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		cfg.Cache.MaxHistory = limit
	}

	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.History(cmd.Context(), userID)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No access history.")
		return nil
	}
	for _, r := range records {
		name := r.ProductName
		if name == "" {
			name = r.EntityKey
		}
		fmt.Printf("%s  %-30s  score %d\n",
			r.AccessedAt.Format("2006-01-02 15:04"), name, r.TrustScore)
	}
	return nil
}

func init() {
	reportCmd.PersistentFlags().String("data-dir", defaultDataDir, "base directory for cache storage")
	reportCmd.PersistentFlags().Bool("json", false, "output as JSON")

	reportGetCmd.Flags().String("registry", "entities.yaml", "known-entity registry file")
	reportGetCmd.Flags().String("user", "", "record this access under a user ID")

	reportHistoryCmd.Flags().String("user", "", "user ID whose history to show")
	reportHistoryCmd.Flags().Int("limit", 0, "maximum records (0 = use default)")

	reportCmd.AddCommand(reportGetCmd)
	reportCmd.AddCommand(reportHistoryCmd)

	rootCmd.AddCommand(reportCmd)
}
