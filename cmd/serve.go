package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tradesphere/quote-engine/internal/model"
	"github.com/tradesphere/quote-engine/internal/pipeline"
	"github.com/tradesphere/quote-engine/internal/pricing"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the quote API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/api/quote", env.handleQuote)
		r.Post("/api/price", env.handlePrice)
		r.Post("/api/catalog/invalidate", env.handleInvalidate)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownServer(srv)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// shutdownServer drains in-flight requests. The signal context is already
// canceled by the time we get here, so the drain needs its own deadline.
func shutdownServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Warn("server shutdown incomplete", zap.Error(err))
	}
}

type quoteRequest struct {
	Message    string            `json:"message"`
	CompanyID  string            `json:"company_id"`
	Selections map[string]string `json:"selections,omitempty"`
}

func (e *env) handleQuote(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuoteRequest(w, r)
	if !ok {
		return
	}

	result, err := e.Pipeline.Collect(r.Context(), req.Message, req.CompanyID)
	if err != nil {
		writeCollectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (e *env) handlePrice(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuoteRequest(w, r)
	if !ok {
		return
	}

	result, err := e.Pipeline.Collect(r.Context(), req.Message, req.CompanyID)
	if err != nil {
		writeCollectError(w, err)
		return
	}

	if result.Status != model.StatusReadyForPricing {
		// Not an error: the client gets the questions to ask the customer.
		writeJSON(w, http.StatusOK, map[string]any{"collection": result})
		return
	}

	vc, err := e.Pipeline.VariableConfig(r.Context(), req.CompanyID)
	if err != nil {
		writeCollectError(w, err)
		return
	}

	priced, err := e.Engine.Price(result.Services, *vc, req.Selections, result.Confidence)
	if err != nil {
		if pricing.IsNotReady(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		zap.L().Error("price request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "pricing failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"collection": result,
		"pricing":    priced,
	})
}

// handleInvalidate drops the catalog cache so edits to services, synonyms,
// or variable configs take effect without a restart.
func (e *env) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	e.Provider.Invalidate()
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func decodeQuoteRequest(w http.ResponseWriter, r *http.Request) (quoteRequest, bool) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return req, false
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return req, false
	}
	return req, true
}

func writeCollectError(w http.ResponseWriter, err error) {
	if pipeline.IsConfigUnavailable(err) {
		zap.L().Error("configuration source unavailable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "configuration unavailable"})
		return
	}
	zap.L().Error("quote request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "quote failed"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
