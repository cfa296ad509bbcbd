package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/exhyte/internal/apperr"
	"github.com/starford/exhyte/internal/paperservice"
)

const maxBodyBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *paperservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *paperservice.Service) *Handler {
	return &Handler{svc: svc}
}

// topics collects the topic parameter, repeated or comma separated.
func topics(r *http.Request) []string {
	var out []string
	for _, v := range r.URL.Query()["topic"] {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// intParam parses an optional non-negative integer query parameter.
func intParam(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", apperr.ErrInvalidArgument, name)
	}
	return n, nil
}

func decodeSelection(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return nil, false
	}
	return req.IDs, true
}

func etag(checksum string) string { return `"` + checksum + `"` }

// ListPapers handles GET /api/papers.
//
//	@Summary		List papers filtered by topic and keyword
//	@Tags			papers
//	@Produce		json
//	@Param			topic	query		[]string	false	"Topic filter (repeatable or comma separated)"
//	@Param			q		query		string		false	"Keyword, matched case-insensitively against the whole record"
//	@Param			sort	query		string		false	"Sort key"	Enums(title, date)
//	@Param			limit	query		int			false	"Page size"
//	@Param			offset	query		int			false	"Page offset"
//	@Success		200		{object}	PaperListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/papers [get]
func (h *Handler) ListPapers(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		writeError(w, "list papers", err)
		return
	}
	offset, err := intParam(r, "offset")
	if err != nil {
		writeError(w, "list papers", err)
		return
	}

	res, err := h.svc.List(r.Context(), paperservice.ListQuery{
		Topics:  topics(r),
		Keyword: r.URL.Query().Get("q"),
		Sort:    r.URL.Query().Get("sort"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeError(w, "list papers", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetPaper handles GET /api/papers/{id}.
//
//	@Summary		Get a single paper with its raw record
//	@Tags			papers
//	@Produce		json
//	@Param			id				path		string	true	"Paper id (file name stem)"
//	@Param			If-None-Match	header		string	false	"Checksum from a previous ETag"
//	@Success		200				{object}	PaperDetail
//	@Success		304				"Not modified"
//	@Failure		404				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/papers/{id} [get]
func (h *Handler) GetPaper(w http.ResponseWriter, r *http.Request) {
	paper, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get paper", err)
		return
	}
	tag := etag(paper.Checksum)
	w.Header().Set("ETag", tag)
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, paper)
}

// GetPaperRaw handles GET /api/papers/{id}/raw.
//
//	@Summary		Get the verbatim source file of a paper
//	@Tags			papers
//	@Produce		json
//	@Param			id	path	string	true	"Paper id"
//	@Success		200	"Source bytes"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/papers/{id}/raw [get]
func (h *Handler) GetPaperRaw(w http.ResponseWriter, r *http.Request) {
	raw, checksum, err := h.svc.Raw(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get raw paper", err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("ETag", etag(checksum))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// Topics handles GET /api/topics.
//
//	@Summary		List topics with paper counts
//	@Tags			papers
//	@Produce		json
//	@Success		200	{object}	TopicsResponse
//	@Security		BearerAuth
//	@Router			/topics [get]
func (h *Handler) Topics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TopicsResponse{Topics: h.svc.Topics(r.Context())})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across papers
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		writeError(w, "search", err)
		return
	}
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Status handles GET /api/status.
//
//	@Summary		Catalog status and load warnings
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Security		BearerAuth
//	@Router			/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Status(r.Context())
	if err != nil {
		writeError(w, "status", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Reload handles POST /api/reload.
//
//	@Summary		Re-scan the paper directory
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	ReloadResponse
//	@Security		BearerAuth
//	@Router			/reload [post]
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ReloadResponse{Changes: h.svc.Reload(r.Context())})
}

// SurveyBundle handles POST /api/survey/bundle.
//
//	@Summary		Concatenate the selected papers as sent to the survey model
//	@Tags			survey
//	@Accept			json
//	@Produce		plain
//	@Param			body	body		SelectionRequest	true	"Selected paper ids"
//	@Success		200		{string}	string
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/survey/bundle [post]
func (h *Handler) SurveyBundle(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeSelection(w, r)
	if !ok {
		return
	}
	text, err := h.svc.SurveyBundle(r.Context(), ids)
	if err != nil {
		writeError(w, "survey bundle", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// GenerateSurvey handles POST /api/survey.
//
//	@Summary		Generate a survey of the selected papers
//	@Tags			survey
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SelectionRequest	true	"Selected paper ids"
//	@Success		200		{object}	survey.Result
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Failure		503		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/survey [post]
func (h *Handler) GenerateSurvey(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeSelection(w, r)
	if !ok {
		return
	}
	res, err := h.svc.GenerateSurvey(r.Context(), ids)
	if err != nil {
		writeError(w, "generate survey", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
