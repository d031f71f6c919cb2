package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-cheatmark"
	"github.com/alnah/go-cheatmark/internal/fileutil"
	"github.com/alnah/go-cheatmark/internal/logging"
)

// File name parts for path requests.
const (
	markdownExt    = "md"
	pdfExt         = "pdf"
	errorLogSuffix = "_errors"
	errorLogExt    = "log"
	inlineFilename = "cheatsheet.pdf"
)

// Success response text.
const (
	statusSuccess     = "success"
	messageConverted  = "PDF conversion completed"
	statusHealthy     = "healthy"
	messageBadRequest = "exactly one of path or markdown is required"
)

// Response headers on inline conversions.
const (
	WarningsHeader = "X-Cheatmark-Warnings" // number of toolchain log lines
	CacheHeader    = "X-Cheatmark-Cache"    // "hit" when served from the cache
)

// convertRequest is the POST /convert body.
type convertRequest struct {
	Path           string                    `json:"path"`
	Markdown       string                    `json:"markdown"`
	TemplateConfig *cheatmark.TemplateConfig `json:"template_config"`
}

// convertResponse answers a path request.
type convertResponse struct {
	Status         string                    `json:"status"`
	Message        string                    `json:"message"`
	OutputPath     string                    `json:"output_path"`
	ErrorLogPath   string                    `json:"error_log_path,omitempty"`
	TemplateConfig *cheatmark.TemplateConfig `json:"template_config"`
	Cached         bool                      `json:"cached"`
	RequestID      string                    `json:"request_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": statusHealthy})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeConvert(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.TemplateConfig.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Markdown != "" {
		s.convertInline(w, r, req)
		return
	}
	s.convertPath(w, r, req)
}

// decodeConvert reads the body over a default TemplateConfig, so omitted
// fields keep their defaults.
func (s *Server) decodeConvert(w http.ResponseWriter, r *http.Request) (*convertRequest, error) {
	req := &convertRequest{TemplateConfig: cheatmark.DefaultTemplateConfig()}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid request body: trailing data")
	}

	if (req.Path == "") == (req.Markdown == "") {
		return nil, errors.New(messageBadRequest)
	}
	if req.TemplateConfig == nil {
		req.TemplateConfig = cheatmark.DefaultTemplateConfig()
	}
	return req, nil
}

func (s *Server) convertInline(w http.ResponseWriter, r *http.Request, req *convertRequest) {
	res, err := s.conv.Convert(r.Context(), cheatmark.Input{
		Markdown: req.Markdown,
		Config:   req.TemplateConfig,
	})
	if err != nil {
		s.writeConvertError(w, r, err)
		return
	}
	if res.Log != "" {
		w.Header().Set(WarningsHeader, strconv.Itoa(strings.Count(res.Log, "\n")+1))
	}
	if res.Cached {
		w.Header().Set(CacheHeader, "hit")
	}
	writePDF(w, inlineFilename, res.PDF)
}

// convertPath converts <dataDir>/<base>.md into <dataDir>/<base>.pdf.
// A non-empty toolchain log goes to <dataDir>/<base>_errors.log; a stale
// one from an earlier run is removed.
func (s *Server) convertPath(w http.ResponseWriter, r *http.Request, req *convertRequest) {
	base, err := fileutil.BaseName(req.Path)
	if err != nil || !filepath.IsLocal(base) {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid path %q", req.Path))
		return
	}

	mdPath := filepath.Join(s.opts.DataDir, base+"."+markdownExt)
	content, err := os.ReadFile(mdPath) // #nosec G304 -- base is a local file name
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("markdown file not found: %s", mdPath))
			return
		}
		writeError(w, r, http.StatusInternalServerError, fmt.Sprintf("reading markdown: %v", err))
		return
	}

	res, err := s.conv.Convert(r.Context(), cheatmark.Input{
		Markdown:  string(content),
		SourceDir: s.opts.DataDir,
		Config:    req.TemplateConfig,
	})
	if err != nil {
		s.writeConvertError(w, r, err)
		return
	}

	pdfPath, _ := fileutil.SiblingPath(mdPath, "", "", pdfExt)
	logPath, _ := fileutil.SiblingPath(mdPath, "", errorLogSuffix, errorLogExt)

	if err := fileutil.WriteFile(pdfPath, res.PDF, 0o644); err != nil {
		writeError(w, r, http.StatusInternalServerError, fmt.Sprintf("writing PDF: %v", err))
		return
	}

	resp := convertResponse{
		Status:         statusSuccess,
		Message:        messageConverted,
		OutputPath:     pdfPath,
		TemplateConfig: req.TemplateConfig,
		Cached:         res.Cached,
		RequestID:      RequestIDFrom(r.Context()),
	}
	if res.Log != "" {
		if err := fileutil.WriteFile(logPath, []byte(res.Log+"\n"), 0o644); err != nil {
			logging.FromContext(r.Context(), s.logger).Warn("writing error log", "path", logPath, "err", err)
		} else {
			resp.ErrorLogPath = logPath
		}
	} else if err := os.Remove(logPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.FromContext(r.Context(), s.logger).Warn("removing stale error log", "path", logPath, "err", err)
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeConvertError maps conversion errors to status codes:
// 400 for input and skeleton errors, 422 for tool failures,
// 504 for timeouts, 503 for a missing tool.
func (s *Server) writeConvertError(w http.ResponseWriter, r *http.Request, err error) {
	var failure *cheatmark.ConversionFailure
	switch {
	case cheatmark.IsTimeout(err):
		writeError(w, r, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &failure):
		code := failure.ExitCode
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Status:    "error",
			Message:   err.Error(),
			RequestID: RequestIDFrom(r.Context()),
			Stage:     failure.Stage,
			ExitCode:  &code,
			Log:       failure.Log,
		})
	case errors.Is(err, cheatmark.ErrToolNotFound):
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
	case isInputError(err):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		logging.FromContext(r.Context(), s.logger).Error("conversion failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "conversion failed")
	}
}

func isInputError(err error) bool {
	for _, target := range []error{
		cheatmark.ErrEmptyMarkdown,
		cheatmark.ErrMissingVariable,
		cheatmark.ErrUnterminatedConditional,
		cheatmark.ErrUnsupportedValue,
		cheatmark.ErrDiagramRender,
		cheatmark.ErrInvalidOrientation,
		cheatmark.ErrInvalidFontSize,
		cheatmark.ErrInvalidLineSpacing,
		cheatmark.ErrInvalidColumnNum,
		cheatmark.ErrInvalidLength,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
