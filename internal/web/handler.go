package web

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/analyzer"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
	"resume-analyzer/internal/shared/util"
)

// DefaultMaxUpload caps request bodies when no limit is configured.
const DefaultMaxUpload = 10 << 20 // 10MB

// Handler serves the upload page and the JSON API.
type Handler struct {
	Pipeline  *Pipeline
	MaxUpload int64
}

// NewHandler constructs a Handler. A non-positive maxUpload uses DefaultMaxUpload.
func NewHandler(p *Pipeline, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	return &Handler{Pipeline: p, MaxUpload: maxUpload}
}

// RegisterPages attaches the HTML routes.
func (h *Handler) RegisterPages(rg *gin.RouterGroup) {
	rg.GET("/", h.index)
	rg.POST("/analyze", h.analyzeForm)
}

// RegisterRoutes attaches the JSON API routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/options", h.options)
	rg.POST("/analyses", h.analyzeAPI)
	rg.POST("/extract", h.extractAPI)
}

type pageData struct {
	Options   analyzer.Options
	Selected  Selection
	FileName  string
	Result    string
	Error     string
	RequestID string
}

func (h *Handler) index(c *gin.Context) {
	opts := analyzer.Catalog()
	respond.HTML(c, http.StatusOK, indexTemplate, pageData{
		Options: opts,
		Selected: Selection{
			Designation: opts.Designations[0],
			Experience:  opts.ExperienceLevels[0],
			Domain:      opts.Domains[0],
		},
	})
}

func (h *Handler) analyzeForm(c *gin.Context) {
	data := pageData{
		Options:   analyzer.Catalog(),
		RequestID: middleware.RequestIDFromContext(c),
	}
	result, fileName, sel, err := h.analyze(c)
	data.Selected = sel
	data.FileName = fileName
	if err != nil {
		f := h.fail(c, err)
		data.Error = f.message
		respond.LogError(c, f.status, f.code, f.message)
		respond.HTML(c, f.status, indexTemplate, data)
		return
	}
	data.Result = result
	respond.HTML(c, http.StatusOK, indexTemplate, data)
}

type analysisResponse struct {
	Analysis  string    `json:"analysis"`
	FileName  string    `json:"fileName"`
	Selection Selection `json:"selection"`
}

func (h *Handler) analyzeAPI(c *gin.Context) {
	result, fileName, sel, err := h.analyze(c)
	if err != nil {
		f := h.fail(c, err)
		respond.Error(c, f.status, f.code, f.message, nil)
		return
	}
	respond.OK(c, analysisResponse{Analysis: result, FileName: fileName, Selection: sel})
}

type extractResponse struct {
	Text      string `json:"text"`
	Extension string `json:"extension"`
	FileName  string `json:"fileName"`
}

func (h *Handler) extractAPI(c *gin.Context) {
	fh, release, err := h.upload(c)
	defer release()
	if err != nil {
		f := h.fail(c, err)
		respond.Error(c, f.status, f.code, f.message, nil)
		return
	}
	text, ext, err := h.Pipeline.ExtractText(c.Request.Context(), fh)
	if err != nil {
		f := h.fail(c, err)
		respond.Error(c, f.status, f.code, f.message, nil)
		return
	}
	respond.OK(c, extractResponse{Text: text, Extension: ext, FileName: util.SanitizeFileName(fh.Filename)})
}

func (h *Handler) options(c *gin.Context) {
	respond.OK(c, analyzer.Catalog())
}

// analyze runs the full pipeline for the request and records metrics.
func (h *Handler) analyze(c *gin.Context) (result, fileName string, sel Selection, err error) {
	fh, release, err := h.upload(c)
	defer release()
	sel = Selection{
		Designation: c.PostForm("designation"),
		Experience:  c.PostForm("experience"),
		Domain:      c.PostForm("domain"),
	}.trimmed()
	if err != nil {
		return "", "", sel, err
	}

	metrics.IncAnalysisStarted()
	start := time.Now()
	result, err = h.Pipeline.Analyze(c.Request.Context(), fh, sel)
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	fileName = util.SanitizeFileName(fh.Filename)
	if err != nil {
		metrics.IncAnalysisFailed(classify(err).code)
		return "", fileName, sel, err
	}
	metrics.IncAnalysisCompleted()
	return result, fileName, sel, nil
}

func (h *Handler) upload(c *gin.Context) (*multipart.FileHeader, func(), error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload)
	fh, release, err := formFile(c.Request)
	if fh != nil {
		c.Set(middleware.UploadExtKey, extract.ExtensionOf(fh.Filename))
		c.Set(middleware.UploadSizeKey, fh.Size)
	}
	return fh, release, err
}

func (h *Handler) fail(c *gin.Context, err error) failure {
	f := classify(err)
	c.Set(middleware.ErrorCodeKey, f.code)
	return f
}
