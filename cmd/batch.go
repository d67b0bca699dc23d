package main

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tradesphere/quote-engine/internal/model"
)

var batchCompany string

// batchLine pairs an input message with its collection result so output
// order matches input order regardless of completion order.
type batchLine struct {
	Message string                  `json:"message"`
	Result  *model.CollectionResult `json:"result,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Run collection over a file of customer messages, one per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrap(err, "open batch file")
		}
		defer f.Close()

		var messages []string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			messages = append(messages, line)
		}
		if err := scanner.Err(); err != nil {
			return eris.Wrap(err, "read batch file")
		}

		lines := make([]batchLine, len(messages))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.MaxConcurrent)

		for i, msg := range messages {
			g.Go(func() error {
				result, err := env.Pipeline.Collect(gctx, msg, batchCompany)
				lines[i] = batchLine{Message: msg, Result: result}
				if err != nil {
					// One bad message should not abort the batch.
					lines[i].Error = err.Error()
					zap.L().Warn("batch: collection failed",
						zap.String("message", msg),
						zap.Error(err),
					)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		for _, line := range lines {
			if err := enc.Encode(line); err != nil {
				return eris.Wrap(err, "write batch output")
			}
		}

		ready := 0
		for _, line := range lines {
			if line.Result != nil && line.Result.Status == model.StatusReadyForPricing {
				ready++
			}
		}
		zap.L().Info("batch complete",
			zap.Int("messages", len(messages)),
			zap.Int("ready_for_pricing", ready),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchCompany, "company", "", "company ID for variable configuration")
	rootCmd.AddCommand(batchCmd)
}
