package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/photo-analyzer/internal/analyzer"
	"github.com/kozaktomas/photo-analyzer/internal/constants"
	"github.com/kozaktomas/photo-analyzer/internal/imageproc"
	"github.com/kozaktomas/photo-analyzer/internal/logging"
	"github.com/kozaktomas/photo-analyzer/internal/pose"
)

// AnalyzeHandler handles the photo analysis endpoints.
type AnalyzeHandler struct {
	analyzer *analyzer.Analyzer
	fetcher  analyzer.ImageFetcher
	validate *validator.Validate
	logger   logrus.FieldLogger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(a *analyzer.Analyzer, fetcher analyzer.ImageFetcher, logger logrus.FieldLogger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: a,
		fetcher:  fetcher,
		validate: newValidator(),
		logger:   logger,
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// PhotoAnalysisRequest is the body of POST /analyze-photo.
type PhotoAnalysisRequest struct {
	PhotoID   string `json:"photo_id" validate:"required"`
	View      string `json:"view" validate:"required"`
	ImageData string `json:"image_data,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// AnalysisResult is the response of POST /analyze-photo.
type AnalysisResult struct {
	PhotoID  string             `json:"photo_id"`
	Success  bool               `json:"success"`
	Analysis *analyzer.Analysis `json:"analysis,omitempty"`
	Error    string             `json:"error,omitempty"`
	TraceID  string             `json:"trace_id,omitempty"`
}

// FileAnalysisResult is the response of POST /analyze-photo-file.
type FileAnalysisResult struct {
	Success  bool               `json:"success"`
	Analysis *analyzer.Analysis `json:"analysis,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// validationMessage turns validator errors into a single client-facing message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// AnalyzePhoto analyses a photo given as base64 data or by URL.
//
// Client input problems are HTTP errors. A photo without a person and internal failures are
// reported in the body with success=false; internal failure details are only logged.
func (h *AnalyzeHandler) AnalyzePhoto(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, http.StatusRequestEntityTooLarge, errBodyTooLarge)
			return
		}
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	var req PhotoAnalysisRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, errInvalidRequestBody)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	logger := h.logger.WithFields(logrus.Fields{
		"photo_id":   sanitizeForLog(req.PhotoID),
		"view":       sanitizeForLog(req.View),
		"request_id": middleware.GetReqID(r.Context()),
	})

	source := analyzer.ImageSource{Data: req.ImageData, URL: req.ImageURL}
	data, err := source.Resolve(r.Context(), h.fetcher)
	if err != nil {
		h.respondInputError(w, logger, err)
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), data, req.View)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, AnalysisResult{
			PhotoID:  req.PhotoID,
			Success:  true,
			Analysis: analysis,
		})
	case errors.Is(err, pose.ErrNoPose):
		respondJSON(w, http.StatusOK, AnalysisResult{
			PhotoID: req.PhotoID,
			Success: false,
			Error:   constants.MsgNoPose,
		})
	case isInputError(err):
		h.respondInputError(w, logger, err)
	default:
		traceID := logging.ErrorWithTraceID(logger, nil, err, "photo analysis failed")
		respondJSON(w, http.StatusOK, AnalysisResult{
			PhotoID: req.PhotoID,
			Success: false,
			Error:   constants.MsgAnalysisFailed,
			TraceID: traceID,
		})
	}
}

// AnalyzePhotoFile analyses an uploaded image file. The view comes from the "view" form field
// or query parameter and defaults to front.
func (h *AnalyzeHandler) AnalyzePhotoFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, http.StatusRequestEntityTooLarge, errBodyTooLarge)
			return
		}
		respondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, constants.MsgNoImage)
		return
	}
	defer file.Close()

	if !imageproc.IsImageContentType(header.Header.Get("Content-Type")) {
		respondError(w, http.StatusBadRequest, constants.MsgNotAnImage)
		return
	}

	view := r.PostFormValue("view")
	if view == "" {
		view = r.URL.Query().Get("view")
	}
	if view == "" {
		view = constants.DefaultView
	}

	logger := h.logger.WithFields(logrus.Fields{
		"filename":   sanitizeForLog(header.Filename),
		"view":       sanitizeForLog(view),
		"request_id": middleware.GetReqID(r.Context()),
	})

	data, err := io.ReadAll(file)
	if err != nil {
		traceID := logging.ErrorWithTraceID(logger, nil, err, "failed to read uploaded file")
		respondTracedError(w, http.StatusInternalServerError, constants.MsgAnalysisFailed, traceID)
		return
	}
	if len(data) == 0 {
		respondError(w, http.StatusBadRequest, constants.MsgNoImage)
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), data, view)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, FileAnalysisResult{Success: true, Analysis: analysis})
	case errors.Is(err, pose.ErrNoPose):
		respondJSON(w, http.StatusOK, FileAnalysisResult{Success: false, Error: constants.MsgNoPoseShort})
	case isInputError(err):
		h.respondInputError(w, logger, err)
	default:
		traceID := logging.ErrorWithTraceID(logger, nil, err, "uploaded photo analysis failed")
		respondTracedError(w, http.StatusInternalServerError, constants.MsgAnalysisFailed, traceID)
	}
}

func isInputError(err error) bool {
	var inputErr *analyzer.InputError
	return errors.As(err, &inputErr)
}

// respondInputError answers 400 for input errors. Anything else is logged and hidden.
func (h *AnalyzeHandler) respondInputError(w http.ResponseWriter, logger logrus.FieldLogger, err error) {
	if !isInputError(err) {
		traceID := logging.ErrorWithTraceID(logger, nil, err, "failed to load image")
		respondTracedError(w, http.StatusInternalServerError, constants.MsgAnalysisFailed, traceID)
		return
	}

	logger.WithError(err).Info("rejected image input")
	respondError(w, http.StatusBadRequest, err.Error())
}
