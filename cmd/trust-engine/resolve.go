// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trust-engine/internal/entity"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [query...]",
	Short: "Resolve a query to a known entity without running research",
	Long: `Resolve normalizes the query, detects file hashes, optionally extracts
the canonical product name through the AI model, and matches the result
against the known-entity registry. No report is fetched or generated.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("registry", "entities.yaml", "known-entity registry file")
	resolveCmd.Flags().String("model", "", "AI model for entity extraction")
	resolveCmd.Flags().Bool("no-ai", false, "skip AI extraction, use normalization and registry only")
	resolveCmd.Flags().Bool("json", false, "output the resolution as JSON")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a product name, vendor, or file hash to resolve")
	}
	query := strings.Join(args, " ")

	cfg := engineConfig(cmd)

	registry, err := entity.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		return err
	}

	var extractor entity.Extractor
	if noAI, _ := cmd.Flags().GetBool("no-ai"); !noAI {
		extractor = newExtractor(cfg)
	}

	res, err := entity.Resolve(cmd.Context(), query, registry, extractor)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Printf("Key:  %s\n", res.Key)
	if res.Hash {
		fmt.Println("Type: file hash")
	}
	if res.Extracted != "" {
		fmt.Printf("Extracted: %s\n", res.Extracted)
	}
	if res.Entity != nil {
		fmt.Printf("Matched: %s (%s)\n", res.Entity.Name, res.Entity.ID)
	} else {
		fmt.Println("No registry match.")
	}
	return nil
}
