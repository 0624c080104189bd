package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"speech-analyzer-service/internal/api/view"
	"speech-analyzer-service/internal/app"
	"speech-analyzer-service/internal/models"
	"speech-analyzer-service/internal/schema"
	"speech-analyzer-service/internal/service/analysis"
	"speech-analyzer-service/internal/service/audio"
)

// multipartOverhead allows for form boundaries and fields around the file.
const multipartOverhead = 1 << 20

// TextRequest is the body of POST /v1/analyses/text.
type TextRequest struct {
	InteractionID string `json:"interactionId" validate:"omitempty,max=128"`
	Text          string `json:"text" validate:"required,max=10000"`
}

// RecordRequest is the body of POST /v1/analyses/record.
type RecordRequest struct {
	InteractionID string `json:"interactionId" validate:"omitempty,max=128"`
	Seconds       int    `json:"seconds" validate:"gte=0"`
}

type handlers struct {
	app       *app.Application
	validator *schema.Validator
}

// NewRouter constructs the HTTP router for the service.
func NewRouter(application *app.Application) http.Handler {
	h := &handlers{app: application, validator: schema.New()}
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		// Health endpoints
		r.Get("/liveness", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		r.Get("/readiness", func(w http.ResponseWriter, _ *http.Request) {
			if !application.Ready() {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("loading"))
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
		})

		// API routes
		r.Get("/intents", h.listIntents)
		r.Route("/analyses", func(r chi.Router) {
			r.Use(h.requireReady)
			r.Post("/upload", h.analyzeUpload)
			r.Post("/record", h.analyzeRecording)
			r.Post("/text", h.analyzeText)
		})
	})

	return r
}

func (h *handlers) requireReady(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.app.Ready() {
			writeJSON(w, http.StatusServiceUnavailable, view.ErrorResponse{Error: "models are loading"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handlers) listIntents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, view.PresentRules())
}

func (h *handlers) analyzeUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.app.Cfg.Audio.MaxUploadBytes+multipartOverhead)
	file, header, err := r.FormFile("audio")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, audio.ErrTooLarge)
			return
		}
		writeJSON(w, http.StatusBadRequest, view.ErrorResponse{Error: "multipart field 'audio' is required"})
		return
	}
	defer file.Close()

	interactionID := r.FormValue("interactionId")
	res, err := h.app.Analyzer.AnalyzeAudio(r.Context(), interactionID, models.SourceUpload,
		func(ctx context.Context) (*audio.Clip, error) {
			return h.app.Uploader.Save(header.Filename, file)
		})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Present(res))
}

func (h *handlers) analyzeRecording(w http.ResponseWriter, r *http.Request) {
	if h.app.Recorder == nil {
		writeJSON(w, http.StatusServiceUnavailable, view.ErrorResponse{Error: "recording is not available on this host"})
		return
	}

	var req RecordRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.app.Analyzer.AnalyzeAudio(r.Context(), req.InteractionID, models.SourceRecord,
		func(ctx context.Context) (*audio.Clip, error) {
			return h.app.Recorder.Record(ctx, req.Seconds)
		})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Present(res))
}

func (h *handlers) analyzeText(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.app.Analyzer.AnalyzeText(r.Context(), req.InteractionID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Present(res))
}

// decode reads and validates a JSON body. An empty body decodes to the zero value.
func (h *handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, multipartOverhead)).Decode(v); err != nil {
			writeJSON(w, http.StatusBadRequest, view.ErrorResponse{Error: "invalid JSON body: " + err.Error()})
			return false
		}
	}
	if err := h.validator.Validate(v); err != nil {
		writeJSON(w, http.StatusBadRequest, view.ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

// StatusFor maps a run error to an HTTP status. Context errors win over the
// stage that observed them.
func StatusFor(err error) int {
	var stageErr *analysis.StageError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case analysis.IsInputError(err):
		return http.StatusBadRequest
	case errors.As(err, &stageErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	body := view.ErrorResponse{Error: err.Error()}
	var stageErr *analysis.StageError
	if errors.As(err, &stageErr) {
		body.Stage = stageErr.Stage
		body.Provider = stageErr.Provider
	}
	writeJSON(w, StatusFor(err), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		event := log.Info()
		if ww.Status() >= http.StatusInternalServerError {
			event = log.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Str("requestId", middleware.GetReqID(r.Context())).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}
