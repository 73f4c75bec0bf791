package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/orgchart/internal/datasource"
	"github.com/vanderheijden86/orgchart/pkg/export"
	"github.com/vanderheijden86/orgchart/pkg/loader"
	"github.com/vanderheijden86/orgchart/pkg/model"
	"github.com/vanderheijden86/orgchart/pkg/orgtree"
	"github.com/vanderheijden86/orgchart/pkg/stats"
	"github.com/vanderheijden86/orgchart/pkg/view"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("warning: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// viewFor materializes the current forest for the request's q and open
// parameters. open accepts repeated values and comma-separated lists.
func (s *Server) viewFor(r *http.Request) view.DisplayTree {
	q := r.URL.Query()
	var open []string
	for _, v := range q["open"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				open = append(open, id)
			}
		}
	}
	return s.opts.Materializer.Materialize(s.Forest(), q.Get("q"), view.NewOpenSet(open...))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	body := map[string]any{
		"status": "ok",
		"nodes":  orgtree.CountNodes(s.forest),
		"loaded": s.loaded,
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, export.NewTreeDocument(s.viewFor(r)))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	report, err := stats.Compute(s.Forest(), stats.Options{Sections: s.opts.Materializer.Sections()})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.opts.Source.Load(r.Context())
	switch {
	case errors.Is(err, datasource.ErrNoData):
		records = []model.PersonRecord{}
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleChart(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := export.SnapshotOptions{
			Title:   s.opts.Title,
			Palette: s.opts.Palette,
			Tree:    s.viewFor(r),
		}
		var buf bytes.Buffer
		var err error
		if format == "png" {
			w.Header().Set("Content-Type", "image/png")
			err = export.WritePNG(&buf, opts)
		} else {
			w.Header().Set("Content-Type", "image/svg+xml")
			err = export.WriteSVG(&buf, opts)
		}
		if err != nil {
			w.Header().Del("Content-Type")
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		_, _ = w.Write(buf.Bytes())
	}
}

// handleUpload replaces the records with an uploaded table. The body is the
// raw file, or a multipart form with a "file" field.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	body, name, err := uploadBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := loader.ParseOptions{Columns: s.opts.Columns}
	var records []model.PersonRecord
	if isXLSX(r, name) {
		records, err = loader.ParseXLSX(bytes.NewReader(body), opts)
	} else {
		records, err = loader.ParseCSV(bytes.NewReader(body), opts)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parsing upload: %w", err))
		return
	}
	if len(records) == 0 {
		writeError(w, http.StatusBadRequest, datasource.ErrNoData)
		return
	}

	if err := s.opts.Source.Replace(r.Context(), records); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	forest := orgtree.Build(records, s.opts.Build)
	s.setForest(forest)
	writeJSON(w, http.StatusOK, map[string]int{
		"records": len(records),
		"nodes":   orgtree.CountNodes(forest),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	records, err := s.opts.Source.Reset(r.Context())
	if err != nil && !errors.Is(err, datasource.ErrNoData) {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	forest := orgtree.Build(records, s.opts.Build)
	s.setForest(forest)
	writeJSON(w, http.StatusOK, map[string]int{"nodes": orgtree.CountNodes(forest)})
}

func uploadBody(r *http.Request) ([]byte, string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("reading form file: %w", err)
		}
		defer f.Close()
		b, err := io.ReadAll(f)
		return b, hdr.Filename, err
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading body: %w", err)
	}
	return b, "", nil
}

func isXLSX(r *http.Request, name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	}
	if r.URL.Query().Get("format") == "xlsx" {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "spreadsheetml")
}
