package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/mindengage-batches/internal/auth/middleware"
	"github.com/mind-engage/mindengage-batches/internal/export"
	"github.com/mind-engage/mindengage-batches/internal/logging"
	"github.com/mind-engage/mindengage-batches/internal/plan"
	"github.com/mind-engage/mindengage-batches/internal/roster"
	"github.com/mind-engage/mindengage-batches/internal/storage"
	"github.com/mind-engage/mindengage-batches/internal/topics"
)

const (
	maxUploadBytes   = 32 << 20
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	assignmentsFile  = "student_batch_topics.csv"
	batchArchiveFile = "batches.zip"
)

// PlanHandlers serves plan creation and the plan read/export endpoints.
type PlanHandlers struct {
	Service      *plan.Service
	Topics       topics.Resolver
	DefaultWeeks int
	Blobs        storage.BlobStore // optional; archives outputs under plans/<id>/
	Logger       logging.Logger
}

type rowErrorView struct {
	File   string `json:"file"`
	Row    int    `json:"row"`
	Column string `json:"column,omitempty"`
	Raw    string `json:"raw,omitempty"`
	Error  string `json:"error"`
}

type fileView struct {
	Name     string `json:"name"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
	Error    string `json:"error,omitempty"`
}

type warningView struct {
	File  string  `json:"file"`
	Row   int     `json:"row"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type planView struct {
	*plan.Plan
	Header    []string       `json:"header"`
	Files     []fileView     `json:"files"`
	RowErrors []rowErrorView `json:"row_errors"`
	Warnings  []warningView  `json:"warnings"`
	Artifacts []string       `json:"artifacts,omitempty"`
}

func newPlanView(p *plan.Plan) planView {
	v := planView{
		Plan:      p,
		Header:    plan.Header(p.Weeks),
		Files:     []fileView{},
		RowErrors: []rowErrorView{},
		Warnings:  []warningView{},
	}
	if p.Report == nil {
		return v
	}
	for _, f := range p.Report.Files {
		fv := fileView{Name: f.Name, Accepted: f.Accepted, Rejected: f.Rejected}
		if f.Err != nil {
			fv.Error = f.Err.Error()
		}
		v.Files = append(v.Files, fv)
	}
	for _, e := range p.Report.RowErrors {
		v.RowErrors = append(v.RowErrors, rowErrorView{
			File: e.File, Row: e.Row, Column: e.Column, Raw: e.Raw, Error: e.Err.Error(),
		})
	}
	for _, w := range p.Report.Warnings {
		v.Warnings = append(v.Warnings, warningView{File: w.File, Row: w.Row, Name: w.Name, Score: w.Score})
	}
	return v
}

// POST /plans (multipart: files=<roster>..., weeks=N, topics=[...], composition={...})
func (h PlanHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "multipart form required", http.StatusBadRequest)
			return
		}
		sources, err := readSources(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		req := plan.Request{Sources: sources, Weeks: h.DefaultWeeks}
		if v := strings.TrimSpace(r.FormValue("weeks")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "weeks must be an integer", http.StatusBadRequest)
				return
			}
			req.Weeks = n
		}
		if v := strings.TrimSpace(r.FormValue("composition")); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Composition); err != nil {
				http.Error(w, "composition: "+err.Error(), http.StatusBadRequest)
				return
			}
		}
		explicit, err := decodeTopics(r.FormValue("topics"))
		if err != nil {
			http.Error(w, "topics: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Topics, err = h.Topics.Resolve(r.Context(), explicit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		p, err := h.Service.Generate(r.Context(), req)
		if err != nil {
			respondRunError(w, err)
			return
		}

		h.logger().Info("plan requested",
			"plan", p.ID, "by", auth.SubjectFromContext(r.Context()), "files", len(sources))

		view := newPlanView(p)
		if h.Blobs != nil {
			keys, err := archivePlan(h.Blobs, p)
			if err != nil {
				h.logger().Warn("archive plan outputs", "plan", p.ID, "error", err)
			}
			view.Artifacts = keys
		}
		respondJSON(w, http.StatusCreated, view)
	}
}

// GET /plans/{planID}
func (h PlanHandlers) Get() http.HandlerFunc {
	return h.withPlan(func(w http.ResponseWriter, r *http.Request, p *plan.Plan) {
		respondJSON(w, http.StatusOK, newPlanView(p))
	})
}

// GET /plans/{planID}/assignments.csv
func (h PlanHandlers) AssignmentsCSV() http.HandlerFunc {
	return h.withPlan(func(w http.ResponseWriter, r *http.Request, p *plan.Plan) {
		var buf bytes.Buffer
		if err := export.WriteAssignmentsCSV(&buf, p); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		serveAttachment(w, r, assignmentsFile, "text/csv; charset=utf-8", buf.Bytes(), p.CreatedAt)
	})
}

// GET /plans/{planID}/batches.zip
func (h PlanHandlers) BatchesZip() http.HandlerFunc {
	return h.withPlan(func(w http.ResponseWriter, r *http.Request, p *plan.Plan) {
		data, err := export.BuildBatchArchive(p.Batches)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		serveAttachment(w, r, batchArchiveFile, "application/zip", data, p.CreatedAt)
	})
}

// GET /plans/{planID}/batches.xlsx
func (h PlanHandlers) BatchesXLSX() http.HandlerFunc {
	return h.withPlan(func(w http.ResponseWriter, r *http.Request, p *plan.Plan) {
		data, err := export.BuildBatchWorkbook(p)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		serveAttachment(w, r, "batches.xlsx", xlsxContentType, data, p.CreatedAt)
	})
}

func (h PlanHandlers) withPlan(fn func(http.ResponseWriter, *http.Request, *plan.Plan)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.Service.Lookup(chi.URLParam(r, "planID"))
		if !ok {
			http.Error(w, "plan not found or expired", http.StatusNotFound)
			return
		}
		fn(w, r, p)
	}
}

func (h PlanHandlers) logger() logging.Logger {
	if h.Logger == nil {
		return logging.Nop()
	}
	return h.Logger
}

func readSources(r *http.Request) ([]roster.Source, error) {
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		return nil, fmt.Errorf("at least one roster file is required in field \"files\"")
	}
	out := make([]roster.Source, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		out = append(out, roster.Source{Name: fh.Filename, Data: data})
	}
	return out, nil
}

// decodeTopics accepts either ["Title", ...] or [{"title": ...}, ...].
func decodeTopics(raw string) ([]topics.Topic, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var list []topics.Topic
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list, nil
	}
	var titles []string
	if err := json.Unmarshal([]byte(raw), &titles); err != nil {
		return nil, fmt.Errorf("expected a JSON array of titles or topic objects")
	}
	list = make([]topics.Topic, 0, len(titles))
	for _, t := range titles {
		list = append(list, topics.Topic{Title: t})
	}
	return list, nil
}

// archivePlan stores the combined table and the batch archive under
// plans/<id>/ and returns the keys written.
func archivePlan(bs storage.BlobStore, p *plan.Plan) ([]string, error) {
	var csvBuf bytes.Buffer
	if err := export.WriteAssignmentsCSV(&csvBuf, p); err != nil {
		return nil, err
	}
	zipData, err := export.BuildBatchArchive(p.Batches)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, a := range []struct {
		name string
		data []byte
	}{
		{assignmentsFile, csvBuf.Bytes()},
		{batchArchiveFile, zipData},
	} {
		key, err := bs.Put(PlanArtifactKey(p.ID, a.name), bytes.NewReader(a.data))
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func PlanArtifactKey(planID, name string) string {
	return fmt.Sprintf("plans/%s/%s", planID, name)
}
