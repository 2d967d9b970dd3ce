// Package chi serves crawl and query operations over HTTP using
// github.com/go-chi/chi/v5.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fwojciec/siteindex"
	"github.com/fwojciec/siteindex/crawl"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxRequestBytes caps JSON request bodies.
const maxRequestBytes = 64 << 10

// Handler routes HTTP requests to a Crawler and an Asker.
type Handler struct {
	router  chi.Router
	crawler siteindex.Crawler
	asker   siteindex.Asker
	logger  *slog.Logger
}

// NewHandler creates a Handler. metrics, when non-nil, is mounted at /metrics.
func NewHandler(crawler siteindex.Crawler, asker siteindex.Asker, metrics http.Handler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		router:  chi.NewRouter(),
		crawler: crawler,
		asker:   asker,
		logger:  logger,
	}

	h.router.Use(middleware.RequestID)
	h.router.Use(middleware.Recoverer)

	h.router.Get("/healthz", h.handleHealth)
	h.router.Post("/crawl", h.handleCrawl)
	h.router.Get("/ask", h.handleAsk)
	h.router.Post("/crawl-ask", h.handleCrawlAsk)
	if metrics != nil {
		h.router.Method(http.MethodGet, "/metrics", metrics)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

type crawlRequest struct {
	MaxPages siteindex.FlexInt `json:"max_pages"`
	MaxDepth siteindex.FlexInt `json:"max_depth"`
}

func (r crawlRequest) limits() siteindex.CrawlLimits {
	return siteindex.CrawlLimits{
		MaxPages: r.MaxPages.Or(siteindex.DefaultPageCap),
		MaxDepth: r.MaxDepth.Or(siteindex.DefaultDepthCap),
	}
}

type crawlAskRequest struct {
	crawlRequest
	Question string            `json:"question"`
	TopK     siteindex.FlexInt `json:"top_k"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// handleCrawl runs a crawl.
// POST /crawl {"max_pages": 10, "max_depth": 1}
func (h *Handler) handleCrawl(w http.ResponseWriter, r *http.Request) {
	var req crawlRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.crawler.Crawl(r.Context(), req.limits())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAsk answers a question against the current index.
// GET /ask?q=pricing&top_k=3
func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	topK := siteindex.DefaultTopK
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			topK = n
		}
	}

	answer, err := h.asker.Ask(r.Context(), r.URL.Query().Get("q"), topK)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeText(w, answer)
}

// handleCrawlAsk crawls and then answers.
// POST /crawl-ask {"question": "pricing", "max_pages": 10}
func (h *Handler) handleCrawlAsk(w http.ResponseWriter, r *http.Request) {
	var req crawlAskRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := crawl.CrawlThenAsk(r.Context(), h.crawler, h.asker, req.Question, req.limits(), req.TopK.Or(siteindex.DefaultTopK))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeText(w, out)
}

// decodeBody decodes a JSON body. An empty body decodes as an empty object.
func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		return siteindex.Errorf(siteindex.EINVALID, "read body: %v", err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return siteindex.Errorf(siteindex.EINVALID, "invalid request body: %v", err)
	}
	return nil
}

// errorStatus maps application error codes to HTTP status codes.
var errorStatus = map[string]int{
	siteindex.EINVALID:     http.StatusBadRequest,
	siteindex.ENOTFOUND:    http.StatusNotFound,
	siteindex.ENOINDEX:     http.StatusConflict,
	siteindex.EUNAVAILABLE: http.StatusServiceUnavailable,
	siteindex.EINTERNAL:    http.StatusInternalServerError,
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := siteindex.ErrorCode(err)
	status, ok := errorStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	var appErr *siteindex.Error
	if !errors.As(err, &appErr) {
		h.logger.Error("http request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"err", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": siteindex.ErrorMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, text)
}
