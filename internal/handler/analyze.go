package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nhasan/nutriai/internal/analyzer"
	"github.com/nhasan/nutriai/internal/apperror"
	"github.com/nhasan/nutriai/internal/imageproc"
	"github.com/nhasan/nutriai/internal/model"
)

// maxUploadBytes caps meal photo uploads. 10MB comfortably covers phone
// camera output; anything bigger is rejected before preprocessing.
const maxUploadBytes = 10 << 20

// AnalyzeHandler drives the AI meal analysis flow: preprocess the photo
// (or take the text description), call the analyzer, hand the estimate
// back for the user to review and edit. Nothing is written to the ledger
// here — committing the (possibly edited) estimate is a normal
// POST /api/meals.
//
// The analyzer may be nil when GEMINI_API_KEY isn't configured; both
// endpoints then fail fast with a configuration error before any upload
// processing or external call.
type AnalyzeHandler struct {
	analyzer analyzer.Analyzer
	logger   *slog.Logger
}

// NewAnalyzeHandler creates an AnalyzeHandler. analyzer may be nil (see
// type comment).
func NewAnalyzeHandler(az analyzer.Analyzer, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: az, logger: logger}
}

// imageAnalysisResponse pairs the estimate with the compressed preview the
// client shows next to it.
type imageAnalysisResponse struct {
	Estimate *model.Estimate `json:"estimate"`
	Preview  string          `json:"preview"` // data: URL of the compressed JPEG
}

type textAnalysisRequest struct {
	Description string `json:"description"`
}

// HandleImage analyzes an uploaded meal photo.
//
// HTTP: POST /api/analyze/image (multipart/form-data, field "image")
func (h *AnalyzeHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	if h.analyzer == nil {
		writeError(w, apperror.NotConfigured("meal analysis is not configured — set GEMINI_API_KEY"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperror.ValidationFailed("image", "an image file is required in the \"image\" form field"))
		return
	}
	defer file.Close()

	processed, err := imageproc.Process(file, imageproc.Options{})
	if err != nil {
		h.logger.Warn("image preprocessing failed", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("image", "could not decode image — use JPEG, PNG, GIF, or WEBP"))
		return
	}

	estimate, err := h.analyzer.AnalyzeImage(r.Context(), processed.JPEG)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, imageAnalysisResponse{
		Estimate: estimate,
		Preview:  processed.DataURL(),
	})
}

// HandleText analyzes a free-text meal description.
//
// HTTP: POST /api/analyze/text
// BODY: {"description": "two eggs, toast with butter, orange juice"}
func (h *AnalyzeHandler) HandleText(w http.ResponseWriter, r *http.Request) {
	if h.analyzer == nil {
		writeError(w, apperror.NotConfigured("meal analysis is not configured — set GEMINI_API_KEY"))
		return
	}

	var req textAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}
	if req.Description == "" {
		writeError(w, apperror.ValidationFailed("description", "a meal description is required"))
		return
	}

	estimate, err := h.analyzer.AnalyzeText(r.Context(), req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, estimate)
}
