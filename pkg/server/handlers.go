package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/blockgen/pkg/buildinfo"
	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/export"
	"github.com/matzehuels/blockgen/pkg/generate"
	"github.com/matzehuels/blockgen/pkg/pipeline"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// GenerateRequest is the body of POST /api/v1/generate.
type GenerateRequest struct {
	Text    *string `json:"text" validate:"required"`
	Refresh bool    `json:"refresh,omitempty"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "%s", formatValidationError(err)))
		return
	}

	d, err := s.runner.Generate(r.Context(), pipeline.Options{
		Text:       *req.Text,
		Refresh:    req.Refresh,
		Vocabulary: s.opts.Vocabulary,
		Logger:     s.logger,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.FormatJSON.ContentType())
	if err := export.WriteJSON(w, d.Nodes, d.Edges); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	d, err := export.ReadJSON(r.Body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	artifacts, err := s.runner.Export(r.Context(), d, pipeline.Options{
		Formats: []string{string(f)},
		Logger:  s.logger,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data := artifacts[f]
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+f.Filename())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleVocabulary(w http.ResponseWriter, _ *http.Request) {
	vocab := s.opts.Vocabulary
	if vocab == nil {
		vocab = generate.DefaultVocabulary()
	}
	out := make(map[string]string, len(vocab))
	for k, c := range vocab {
		out[k] = c.String()
	}
	respondJSON(w, http.StatusOK, out)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		default:
			msgs = append(msgs, field+" failed "+fe.Tag()+" check")
		}
	}
	return strings.Join(msgs, "; ")
}
