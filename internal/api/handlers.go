package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dbccheck/pkg/buildinfo"
	dbcerrors "github.com/matzehuels/dbccheck/pkg/errors"
	"github.com/matzehuels/dbccheck/pkg/observability"
	"github.com/matzehuels/dbccheck/pkg/pipeline"
	"github.com/matzehuels/dbccheck/pkg/store"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    dbcerrors.Code `json:"code"`
	Message string         `json:"message"`
}

type healthBody struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handlePrecheck(w http.ResponseWriter, r *http.Request) {
	res, ok := s.precheck(w, r)
	if !ok {
		return
	}
	s.writeReport(w, http.StatusOK, res)
}

func (s *Server) handleGate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.precheck(w, r)
	if !ok {
		return
	}
	status := http.StatusOK
	if pipeline.Gate(res.Report) != nil {
		status = http.StatusConflict
	}
	s.writeReport(w, status, res)
}

// precheck runs the request body through the runner. It writes the error
// response itself and reports false on failure.
func (s *Server) precheck(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	opts, err := s.options(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	res, err := s.Runner.Run(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	if s.Store != nil {
		if err := s.Store.Record(r.Context(), store.FromResult(res, store.SourceAPI, opts.Extreme)); err != nil {
			s.Logger.Warn("record history", "run_id", res.RunID, "err", err)
		}
	}
	return res, true
}

func (s *Server) options(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	q := r.URL.Query()
	if v := q.Get("extreme"); v != "" {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, dbcerrors.New(dbcerrors.ErrCodeInvalidExtreme, "extreme %q is not a number", v)
		}
		opts.Extreme = x
	}
	opts.Refresh = q.Get("refresh") == "1" || q.Get("refresh") == "true"

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.MaxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return opts, dbcerrors.New(dbcerrors.ErrCodeInvalidInput, "design exceeds %d bytes", s.MaxBodyBytes)
		}
		return opts, dbcerrors.Wrap(dbcerrors.ErrCodeInvalidInput, err, "read body")
	}
	if len(body) == 0 {
		return opts, dbcerrors.New(dbcerrors.ErrCodeInvalidInput, "request body must contain a design")
	}
	opts.Data = body
	opts.Logger = s.Logger
	return opts, nil
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		s.writeError(w, r, dbcerrors.New(dbcerrors.ErrCodeStorage, "history is not configured"))
		return
	}
	q := r.URL.Query()
	opts := store.ListOptions{
		TemplateID: q.Get("template"),
		OnlyFailed: q.Get("failed") == "1" || q.Get("failed") == "true",
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, dbcerrors.New(dbcerrors.ErrCodeInvalidInput, "limit %q is not a non-negative integer", v))
			return
		}
		opts.Limit = n
	}
	recs, err := s.Store.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, dbcerrors.Wrap(dbcerrors.ErrCodeStorage, err, "list history"))
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleHistoryRecord(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		s.writeError(w, r, dbcerrors.New(dbcerrors.ErrCodeStorage, "history is not configured"))
		return
	}
	id := chi.URLParam(r, "id")
	rec, err := s.Store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, dbcerrors.New(dbcerrors.ErrCodeNotFound, "run %s not found", id))
		return
	}
	if err != nil {
		s.writeError(w, r, dbcerrors.Wrap(dbcerrors.ErrCodeStorage, err, "get run %s", id))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) writeReport(w http.ResponseWriter, status int, res *pipeline.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Run-ID", res.RunID)
	if res.CacheInfo.ReportHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(status)
	if err := res.Report.Write(w); err != nil {
		s.Logger.Warn("write report", "run_id", res.RunID, "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := dbcerrors.GetCode(err)
	if code == "" {
		code = dbcerrors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: dbcerrors.UserMessage(err)}})
}

func statusFor(code dbcerrors.Code) int {
	switch code {
	case dbcerrors.ErrCodeInvalidInput, dbcerrors.ErrCodeInvalidExtreme, dbcerrors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case dbcerrors.ErrCodeNotFound, dbcerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case dbcerrors.ErrCodeInvalidDesign, dbcerrors.ErrCodeMissingSection,
		dbcerrors.ErrCodeMalformedFeature, dbcerrors.ErrCodeInconsistentPlacement:
		return http.StatusUnprocessableEntity
	case dbcerrors.ErrCodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
