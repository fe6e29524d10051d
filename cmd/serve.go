package main

import (
	"context"
	"encoding/json"
	"errors"
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

	"github.com/interleads/radar-cli/internal/queryparse"
	"github.com/interleads/radar-cli/internal/radar"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		orch, err := initOrchestrator(st)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(orch, st),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

type searchRequest struct {
	Query string `json:"query"`
	Niche string `json:"niche"`
	City  string `json:"city"`
}

type errorResponse struct {
	Error       string   `json:"error"`
	Suggestion  string   `json:"suggestion,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// buildRouter assembles the API routes. Split out so handler tests can run
// against fakes without a listening socket.
func buildRouter(orch *radar.Orchestrator, catalog radar.CatalogReader) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/locations", func(w http.ResponseWriter, req *http.Request) {
		locations, err := catalog.ListLocations(req.Context())
		if err != nil {
			zap.L().Error("list locations failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Erro ao buscar cidades disponíveis"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"locations": locations})
	})

	r.Post("/api/search", func(w http.ResponseWriter, req *http.Request) {
		var body searchRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "corpo da requisição inválido"})
			return
		}

		nicheInput, cityInput := body.Niche, body.City
		if nicheInput == "" || cityInput == "" {
			parser := queryparse.NewParser(queryparse.Gazetteer())
			result := parser.Parse(body.Query)
			if !result.Success {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: result.Error, Suggestion: result.Suggestion})
				return
			}
			nicheInput, cityInput = result.Niche, result.City
		}

		report, err := orch.Execute(req.Context(), nicheInput, cityInput)
		if err != nil {
			writeSearchError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	})

	return r
}

// writeSearchError maps pipeline errors to HTTP statuses, keeping the
// user-facing Portuguese message as the error body.
func writeSearchError(w http.ResponseWriter, err error) {
	var (
		notFound     *radar.CityNotFoundError
		catalog      *radar.CatalogUnavailableError
		provider     *radar.ProviderError
		insufficient *radar.InsufficientDataError
	)
	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:       fmt.Sprintf("Cidade %q não encontrada", notFound.City),
			Suggestions: notFound.Suggestions,
		})
	case errors.As(err, &catalog):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: catalog.Error()})
	case errors.As(err, &provider):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: provider.Error()})
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: insufficient.Error()})
	default:
		zap.L().Error("search failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "erro interno"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
