package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tradesphere/quote-engine/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and manage the service catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog services and their synonyms",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		services, err := env.Provider.Services(ctx)
		if err != nil {
			return err
		}
		synonyms, err := env.Provider.Synonyms(ctx)
		if err != nil {
			return err
		}

		phrasesByService := make(map[string][]string, len(synonyms))
		for _, entry := range synonyms {
			phrasesByService[entry.Service] = entry.Phrases
		}

		for _, svc := range services {
			special := ""
			if svc.IsSpecial {
				special = " [special]"
			}
			fmt.Printf("%3d  %-24s %-12s%s\n", svc.Row, svc.Name, svc.Unit, special)
			for _, phrase := range phrasesByService[svc.Name] {
				fmt.Printf("     - %s\n", phrase)
			}
		}
		return nil
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [file.xlsx]",
	Short: "Replace the stored catalog from a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Store == nil {
			return eris.New("catalog import requires a sqlite or postgres store driver")
		}

		services, synonyms, err := catalog.ImportXLSX(args[0])
		if err != nil {
			return err
		}

		if err := env.Store.ReplaceCatalog(ctx, services, synonyms); err != nil {
			return err
		}
		env.Provider.Invalidate()

		zap.L().Info("catalog imported",
			zap.String("file", args[0]),
			zap.Int("services", len(services)),
			zap.Int("synonym_entries", len(synonyms)),
		)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	rootCmd.AddCommand(catalogCmd)
}
