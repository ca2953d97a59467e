// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trust-engine/internal/cache"
	"github.com/pdiddy/trust-engine/internal/entity"
	"github.com/pdiddy/trust-engine/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask <entity> <question...>",
	Short: "Ask a question about a cached trust report",
	Long: `Ask answers a question grounded strictly in the cached report for the
entity. The answer never introduces facts from outside the report; when
the report cannot answer, the response says so explicitly.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("registry", "entities.yaml", "known-entity registry file")
	askCmd.Flags().String("data-dir", defaultDataDir, "base directory for cache storage")
	askCmd.Flags().String("model", "", "AI model for answering")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: trust-engine ask <entity> <question...>")
	}
	entityQuery := args[0]
	question := strings.Join(args[1:], " ")

	cfg := engineConfig(cmd)

	answerer, err := newAnswerer(cfg)
	if err != nil {
		return err
	}

	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	registry, err := entity.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		return err
	}

	res, err := entity.Resolve(cmd.Context(), entityQuery, registry, nil)
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
		return fmt.Errorf("no cached report for %q — run assess first: %w", res.Key, types.ErrNotFound)
	}

	response, err := answerer.Answer(cmd.Context(), entry.Report, question)
	if err != nil {
		return err
	}
	fmt.Println(response)
	return nil
}
