package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/blackwell-systems/basketmine/internal/dataset"
	"github.com/blackwell-systems/basketmine/internal/itemset"
	"github.com/blackwell-systems/basketmine/internal/logging"
	"github.com/blackwell-systems/basketmine/internal/miner"
	"github.com/blackwell-systems/basketmine/internal/output"
	"github.com/blackwell-systems/basketmine/internal/store"
)

// maxBodyBytes bounds API request bodies.
const maxBodyBytes = 1 << 20

type pageData struct {
	Database   string
	MinSupport string
	Prune      string
	Rules      []miner.Rule
	Submitted  bool
	RunID      string
	Error      string
}

// rulesRequest is the body of POST /api/rules.
type rulesRequest struct {
	Database       string `json:"database"`
	MinSupport     *int   `json:"min_support"`
	PruneReference string `json:"prune_reference"`
	Trace          bool   `json:"trace"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, http.StatusOK, pageData{MinSupport: strconv.Itoa(s.cfg.MinSupport)})
}

func (s *Server) handleMineForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, badRequest("form", "invalid form submission", err))
		return
	}

	name := strings.TrimSpace(r.PostFormValue("database"))
	minSup, err := parseMinSupport(r.PostFormValue("min_support"), s.cfg.MinSupport)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	report, err := s.mine(r.Context(), name, minSup, s.cfg.Prune, "form")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.renderIndex(w, http.StatusOK, pageData{
		Database:   name,
		MinSupport: strconv.Itoa(minSup),
		Prune:      report.Prune.String(),
		Rules:      report.Rules,
		Submitted:  true,
		RunID:      report.RunID,
	})
}

func (s *Server) handleRulesAPI(w http.ResponseWriter, r *http.Request) {
	var req rulesRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, r, badRequest("body", "request body must be a JSON object", err))
		return
	}

	minSup := s.cfg.MinSupport
	if req.MinSupport != nil {
		minSup = *req.MinSupport
	}

	prune := s.cfg.Prune
	if req.PruneReference != "" {
		ref, err := miner.ParsePruneReference(req.PruneReference)
		if err != nil {
			s.respondError(w, r, badRequest("prune_reference", err.Error(), err))
			return
		}
		prune = ref
	}

	report, err := s.mine(r.Context(), strings.TrimSpace(req.Database), minSup, prune, "api")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, output.NewReportDoc(report, req.Trace))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// mine loads the named dataset and runs the miner over it.
func (s *Server) mine(ctx context.Context, name string, minSup int, prune miner.PruneReference, endpoint string) (*miner.Report, error) {
	txs, err := s.load(name)
	if err != nil {
		return nil, err
	}

	logger := logging.WithFields(ctx, "dataset", name)
	report := miner.New(minSup,
		miner.WithPruneReference(prune),
		miner.WithLogger(logger),
	).Rules(txs)

	s.metrics.observeRun(endpoint, report.Duration, len(report.Rules))
	return report, nil
}

// load reads {DatasetsDir}/{name}-out1.csv, falling back to the configured
// source when no such file exists.
func (s *Server) load(name string) ([]itemset.Transaction, error) {
	path, err := dataset.WebPath(s.cfg.DatasetsDir, name)
	if err != nil {
		return nil, badRequest("dataset_name", "invalid dataset name", err)
	}

	txs, err := dataset.Load(path)
	if err == nil {
		return txs, nil
	}

	var fae *dataset.FileAccessError
	if !errors.As(err, &fae) || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load dataset %s: %w", name, err)
	}

	if s.cfg.Source != nil {
		txs, serr := s.cfg.Source.LoadTransactions(name)
		switch {
		case serr == nil:
			return txs, nil
		case !errors.Is(serr, store.ErrDatasetNotFound) && !errors.Is(serr, store.ErrNotInitialized):
			return nil, fmt.Errorf("failed to load dataset %s: %w", name, serr)
		}
	}

	return nil, notFound("dataset_not_found", fmt.Sprintf("dataset %q not found", name), err)
}

func parseMinSupport(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("min_support", "min_support must be an integer", err)
	}
	return n, nil
}

// renderIndex executes the page template into a buffer so a template error
// never leaves a half-written page.
func (s *Server) renderIndex(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		slog.Error("template error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
