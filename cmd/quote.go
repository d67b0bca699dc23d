package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tradesphere/quote-engine/internal/model"
	"github.com/tradesphere/quote-engine/internal/pricing"
)

var (
	quoteCompany    string
	quoteJSON       bool
	quotePrice      bool
	quoteSelections map[string]string
)

var quoteCmd = &cobra.Command{
	Use:   "quote [message]",
	Short: "Turn a customer message into recognized services and a quote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Collect(ctx, args[0], quoteCompany)
		if err != nil {
			return err
		}

		var priced *model.PricingResult
		if quotePrice {
			if result.Status != model.StatusReadyForPricing {
				return &pricing.NotReadyError{Missing: result.MissingInfo}
			}
			vc, err := env.Pipeline.VariableConfig(ctx, quoteCompany)
			if err != nil {
				return err
			}
			priced, err = env.Engine.Price(result.Services, *vc, quoteSelections, result.Confidence)
			if err != nil {
				return err
			}
		}

		if quoteJSON {
			out := struct {
				*model.CollectionResult
				Pricing *model.PricingResult `json:"pricing,omitempty"`
			}{result, priced}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		printCollection(result)
		if priced != nil {
			printPricing(priced)
		}
		return nil
	},
}

func printCollection(result *model.CollectionResult) {
	fmt.Printf("Quote %s (%s, confidence %.2f)\n", result.QuoteID, result.Status, result.Confidence)

	for _, svc := range result.Services {
		marker := " "
		if !svc.IsComplete {
			marker = "?"
		}
		fmt.Printf("  [%s] %s: %g %s (confidence %.2f)\n",
			marker, svc.Name, svc.Quantity, svc.Unit, svc.Confidence)
	}
	if len(result.UnmappedText) > 0 {
		fmt.Printf("  unmapped: %s\n", strings.Join(result.UnmappedText, "; "))
	}
	for _, q := range result.ClarifyingQuestions {
		fmt.Printf("  - %s\n", q)
	}
	if result.SuggestedResponse != "" {
		fmt.Printf("\n%s\n", result.SuggestedResponse)
	}
}

func printPricing(p *model.PricingResult) {
	fmt.Printf("\nEstimate:\n")
	fmt.Printf("  man-hours     %.1f (%.1f days)\n", p.Tier1.TotalManHours, p.Tier1.TotalDays)
	fmt.Printf("  labor         $%.2f\n", p.Tier2.LaborCost)
	fmt.Printf("  materials     $%.2f\n", p.Tier2.MaterialCost)
	fmt.Printf("  equipment     $%.2f\n", p.Tier2.EquipmentCost)
	fmt.Printf("  additions     $%.2f\n", p.Tier2.FlatAdditions)
	fmt.Printf("  subtotal      $%.2f\n", p.Tier2.Subtotal)
	fmt.Printf("  profit        $%.2f\n", p.Tier2.Profit)
	fmt.Printf("  total         $%.2f\n", p.Tier2.Total)
}

func init() {
	quoteCmd.Flags().StringVar(&quoteCompany, "company", "", "company ID for variable configuration")
	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "emit JSON instead of human-readable output")
	quoteCmd.Flags().BoolVar(&quotePrice, "price", false, "run the pricing tiers when collection is complete")
	quoteCmd.Flags().StringToStringVar(&quoteSelections, "select", nil, "variable selections as path=option pairs")
	rootCmd.AddCommand(quoteCmd)
}
