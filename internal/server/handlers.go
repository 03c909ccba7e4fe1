package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/vitalrisk/internal/batch"
	"github.com/Skufu/vitalrisk/internal/history"
	"github.com/Skufu/vitalrisk/internal/report"
	"github.com/Skufu/vitalrisk/internal/session"
	"github.com/Skufu/vitalrisk/internal/store"
	"github.com/Skufu/vitalrisk/internal/triage"
)

type handlers struct {
	opts Options
}

func (h *handlers) catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"symptoms":       triage.SymptomCatalog,
		"medicalHistory": triage.ConditionCatalog,
		"medications":    triage.MedicationCatalog,
		"diseases":       triage.DiseaseOrder,
		"defaults":       triage.DefaultSubject(),
	})
}

func (h *handlers) predict(c *gin.Context) {
	in := triage.DefaultSubject()
	if !bindSubject(c, &in) {
		return
	}
	if err := in.Normalize(); err != nil {
		validationFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, triage.Assess(in))
}

type interactionsRequest struct {
	Medications []triage.Medication `json:"medications"`
}

func (h *handlers) interactions(c *gin.Context) {
	var req interactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	for _, m := range req.Medications {
		if !m.Valid() {
			validationFailed(c, fmt.Errorf("medication %q: %w", string(m), triage.ErrUnknownSelection))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"interactions": triage.CheckInteractions(req.Medications),
		"messages":     triage.InteractionMessages(req.Medications),
		"schedule":     triage.MedicationSchedule(req.Medications),
	})
}

func (h *handlers) batch(c *gin.Context) {
	rows, ok := ingestUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, batch.Analyze(rows))
}

func (h *handlers) batchExport(c *gin.Context) {
	rows, ok := ingestUpload(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := batch.WriteCSV(&buf, rows); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", batch.ExportFilename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ingestUpload accepts either a multipart "file" field or a raw text body.
// Any other content type is read as raw text, so form parsing never consumes
// the body.
func ingestUpload(c *gin.Context) ([]batch.Row, bool) {
	var src io.Reader = c.Request.Body
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload"})
			return nil, false
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload"})
			return nil, false
		}
		defer f.Close()
		src = f
	}

	rows, err := batch.Ingest(src)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return rows, true
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
	case errors.Is(err, batch.ErrEmptyTable):
		validationFailed(c, err)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
	}
	return nil, false
}

type createSessionRequest struct {
	UserID string `json:"userId"`
}

func (h *handlers) createSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
	}
	s := h.opts.Sessions.Create(req.UserID)
	c.JSON(http.StatusCreated, gin.H{
		"sessionId": s.ID,
		"userId":    s.UserID,
		"draft":     s.Draft(),
	})
}

// sessionPredict predicts from the request body laid over the session draft.
// An empty body predicts the draft as is.
func (h *handlers) sessionPredict(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	in := s.Draft()
	if c.Request.ContentLength != 0 && !bindSubject(c, &in) {
		return
	}
	out, err := s.Predict(in)
	if err != nil {
		validationFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) sessionHistory(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries":      s.History(),
		"distribution": s.Distribution(),
	})
}

func (h *handlers) sessionEnrichment(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"generation": s.Generation(),
		"enrichment": s.Enrichment(),
		"draft":      s.Draft(),
	})
}

func (h *handlers) sessionEvolution(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	ev, ok := s.Evolution()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true, "evolution": ev})
}

func (h *handlers) sessionReport(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	now := time.Now()
	r, err := report.FromSession(s, now)
	if errors.Is(err, report.ErrNoPrediction) {
		c.JSON(http.StatusConflict, gin.H{"error": "no_prediction"})
		return
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, r); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(now)))
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}

func (h *handlers) userTrends(c *gin.Context) {
	limit := store.DefaultTrendLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	records, err := h.opts.Trends.ListTrends(c.Request.Context(), c.Param("uid"), limit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trends unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"records":      records,
		"distribution": history.TrendDistribution(records),
	})
}

func (h *handlers) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.opts.Sessions.Get(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		return s, true
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session_not_found"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
	}
	return nil, false
}

func bindSubject(c *gin.Context, in *triage.SubjectInput) bool {
	if err := c.ShouldBindJSON(in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return false
	}
	return true
}

func validationFailed(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "validation_failed",
		"details": err.Error(),
	})
}
