package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/alnah/go-mdview"
)

// Error codes returned in the "error" field.
const (
	codeInvalidBody   = "invalid_body"
	codeRenderFailed  = "render_failed"
	codeExtractFailed = "extract_failed"
)

type contentRequest struct {
	Content string `json:"content"`
}

type pageRequest struct {
	Content string `json:"content"`
	Title   string `json:"title"`
	ShowTOC bool   `json:"show_toc"`
	Style   string `json:"style"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type tocResponse struct {
	TOC []mdview.TOCEntry `json:"toc"`
}

type codeBlocksResponse struct {
	CodeBlocks []mdview.CodeBlock `json:"code_blocks"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.renderer.Render(r.Context(), mdview.RenderRequest{Content: req.Content})
	if err != nil {
		s.fail(w, r, http.StatusUnprocessableEntity, codeRenderFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !s.decode(w, r, &req) {
		return
	}
	toc, err := s.renderer.ExtractTOC(r.Context(), req.Content)
	if err != nil {
		s.fail(w, r, http.StatusUnprocessableEntity, codeExtractFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, tocResponse{TOC: nonNil(toc)})
}

func (s *Server) handleCodeBlocks(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !s.decode(w, r, &req) {
		return
	}
	blocks, err := s.renderer.ExtractCodeBlocks(r.Context(), req.Content)
	if err != nil {
		s.fail(w, r, http.StatusUnprocessableEntity, codeExtractFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, codeBlocksResponse{CodeBlocks: nonNil(blocks)})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if !s.decode(w, r, &req) {
		return
	}
	page, err := s.renderer.Page(r.Context(), req.Content, mdview.PageOptions{
		Title:   req.Title,
		ShowTOC: req.ShowTOC,
		Style:   req.Style,
	})
	if err != nil {
		s.fail(w, r, http.StatusUnprocessableEntity, codeRenderFailed, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, page.HTML)
}

// decode reads a JSON body into v, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		s.fail(w, r, http.StatusBadRequest, codeInvalidBody, err)
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	s.cfg.Logger.Debug("request failed", "path", r.URL.Path, "status", status, "error", err)
	writeJSON(w, status, errorResponse{Error: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// nonNil makes empty results encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func newStdLogger(w io.Writer) *log.Logger {
	return log.New(w, "", log.LstdFlags)
}
