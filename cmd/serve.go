package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pontoedu/apostila-review/internal/catalog"
	"github.com/pontoedu/apostila-review/internal/docx"
	"github.com/pontoedu/apostila-review/internal/linkcheck"
	"github.com/pontoedu/apostila-review/internal/model"
	"github.com/pontoedu/apostila-review/internal/review"
	"github.com/pontoedu/apostila-review/internal/store"
)

var servePort int

// maxUploadBytes caps multipart document uploads.
const maxUploadBytes = 32 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for document analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initAnalysis()
		if err != nil {
			return err
		}

		// The store is optional for serve: without it the ementa routes
		// report a configuration error and analysis runs unparametrized.
		var st store.Store
		if cfg.Store.DSN != "" {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(env, st),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(env *analysisEnv, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/ementas", handleListEmentas(st))
		r.Get("/ementas/{id}", handleGetEmenta(st))
		r.Post("/analyze-links", handleAnalyzeLinks(env))
		r.Post("/analyze", handleAnalyze(env, st))
		r.Post("/reports/override", handleOverride())
	})

	return r
}

func handleListEmentas(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeError(w, http.StatusInternalServerError, "datastore is not configured")
			return
		}
		ementas, err := st.ListEmentas(r.Context())
		if err != nil {
			zap.L().Error("list ementas failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list ementas")
			return
		}
		if ementas == nil {
			ementas = []model.Ementa{}
		}
		writeJSON(w, http.StatusOK, ementas)
	}
}

func handleGetEmenta(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeError(w, http.StatusInternalServerError, "datastore is not configured")
			return
		}
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid ementa id")
			return
		}
		e, err := st.GetEmenta(r.Context(), id)
		if err != nil {
			if eris.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "ementa not found")
				return
			}
			zap.L().Error("get ementa failed", zap.Int("id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load ementa")
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

func handleAnalyzeLinks(env *analysisEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Links []string `json:"links"`
			Text  string   `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		links := req.Links
		if len(links) == 0 && req.Text != "" {
			links = linkcheck.ExtractURLs(req.Text)
		}
		if len(links) == 0 {
			writeError(w, http.StatusBadRequest, "a non-empty list of links is required")
			return
		}

		report := env.analyzer.Analyze(r.Context(), links)
		writeJSON(w, http.StatusOK, report)
	}
}

func handleAnalyze(env *analysisEnv, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, catalogName, ementaID, err := decodeAnalyzeRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(text) == "" {
			writeError(w, http.StatusBadRequest, "document text is required")
			return
		}

		cat, err := catalog.Load(catalogName)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var ementa *model.Ementa
		if ementaID > 0 {
			if st == nil {
				writeError(w, http.StatusInternalServerError, "datastore is not configured")
				return
			}
			ementa, err = st.GetEmenta(r.Context(), ementaID)
			if err != nil {
				if eris.Is(err, store.ErrNotFound) {
					writeError(w, http.StatusNotFound, "ementa not found")
					return
				}
				zap.L().Error("get ementa failed", zap.Int("id", ementaID), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "failed to load ementa")
				return
			}
		}

		linkReport := env.analyzer.Analyze(r.Context(), linkcheck.ExtractURLs(text))

		report, err := env.evaluator.Evaluate(r.Context(), review.PromptInput{
			Catalog:      cat,
			Ementa:       ementa,
			DocumentText: text,
			LinkReport:   linkReport,
		})
		if err != nil {
			zap.L().Error("analysis failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "analysis failed")
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

// decodeAnalyzeRequest accepts either a JSON body with pre-extracted text or
// a multipart upload carrying the .docx itself.
func decodeAnalyzeRequest(r *http.Request) (text, catalogName string, ementaID int, err error) {
	catalogName = "estudante"

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return "", "", 0, eris.New("invalid multipart body")
		}
		if v := r.FormValue("catalog"); v != "" {
			catalogName = v
		}
		if v := r.FormValue("ementa_id"); v != "" {
			ementaID, err = strconv.Atoi(v)
			if err != nil {
				return "", "", 0, eris.New("invalid ementa_id")
			}
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", "", 0, eris.New("a 'file' field with the document is required")
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			return "", "", 0, eris.New("failed to read uploaded file")
		}
		text, err = docx.ExtractText(data)
		if err != nil {
			return "", "", 0, eris.New("unsupported document format; send a .docx file")
		}
		return text, catalogName, ementaID, nil
	}

	var req struct {
		Text     string `json:"text"`
		Catalog  string `json:"catalog"`
		EmentaID int    `json:"ementa_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", "", 0, eris.New("invalid request body")
	}
	if req.Catalog != "" {
		catalogName = req.Catalog
	}
	return req.Text, catalogName, req.EmentaID, nil
}

func handleOverride() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Report    model.AnalysisReport `json:"report"`
			Catalog   string               `json:"catalog"`
			Criterion int                  `json:"criterio"`
			Status    model.Status         `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Catalog == "" {
			req.Catalog = "estudante"
		}

		cat, err := catalog.Load(req.Catalog)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := review.Override(cat, &req.Report, req.Criterion, req.Status); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, req.Report)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
