package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "typesanitizer/pkg/errors"
	httputil "typesanitizer/pkg/http"
	"typesanitizer/pkg/logger"
	"typesanitizer/pkg/middleware"
	"typesanitizer/pkg/sanitizer"
)

// SanitizeRequest is the body of POST /api/v1/sanitize. Exactly one of
// Fields and Type must be set. Fields is either a list of {"name","type"}
// objects or an object mapping names to tokens. Data may also be a JSON
// string holding the document.
type SanitizeRequest struct {
	Data   json.RawMessage `json:"data"`
	Fields json.RawMessage `json:"fields,omitempty"`
	Type   string          `json:"type,omitempty"`
	Policy string          `json:"policy,omitempty"`
}

type TypeInfo struct {
	Name   string           `json:"name"`
	Fields sanitizer.Fields `json:"fields,omitempty"`
}

type SanitizeHandler struct {
	sanitizer *sanitizer.Sanitizer
	log       *logger.Logger
}

func NewSanitizeHandler(s *sanitizer.Sanitizer, log *logger.Logger) *SanitizeHandler {
	return &SanitizeHandler{
		sanitizer: s,
		log:       log,
	}
}

func (h *SanitizeHandler) Sanitize(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req SanitizeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	spec, err := specFromRequest(&req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	data, err := dataFromRequest(req.Data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	policy := h.sanitizer.Policy()
	if req.Policy != "" {
		if policy, err = sanitizer.ParsePolicy(req.Policy); err != nil {
			h.writeError(w, r, apperrors.InvalidInput(err.Error()))
			return
		}
	}

	res, err := h.sanitizer.SanitizeWith(data, spec, policy)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WriteSuccess(w, res.Value()); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Sanitize", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SanitizeHandler) Types(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	registry := h.sanitizer.Registry()
	withFields := httputil.QueryFlag(r, "fields")

	names := registry.Names()
	types := make([]TypeInfo, 0, len(names))
	for _, name := range names {
		info := TypeInfo{Name: name}
		if withFields {
			schema, err := registry.Lookup(name)
			if err != nil {
				continue
			}
			info.Fields = schema.Fields()
		}
		types = append(types, info)
	}

	if err := httputil.WriteSuccess(w, types); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Types", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SanitizeHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/sanitize", h.Sanitize)
	router.GET("/api/v1/types", h.Types)
}

func (h *SanitizeHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.log.Error("sanitize request failed",
			"request_id", middleware.RequestID(r.Context()),
			"code", appErr.Code,
			"error", err,
		)
	} else {
		h.log.Warn("sanitize request rejected",
			"request_id", middleware.RequestID(r.Context()),
			"code", appErr.Code,
			"details", appErr.Details,
		)
	}

	if writeErr := httputil.WriteError(w, appErr); writeErr != nil {
		h.log.Error("failed to write JSON response", "operation", "WriteError", "error", writeErr)
	}
}

func specFromRequest(req *SanitizeRequest) (sanitizer.Spec, error) {
	fields := bytes.TrimSpace(req.Fields)
	hasFields := len(fields) > 0 && !bytes.Equal(fields, []byte("null"))

	switch {
	case hasFields && req.Type != "":
		return nil, apperrors.InvalidInput("give either fields or type, not both")
	case req.Type != "":
		return sanitizer.TypeName(req.Type), nil
	case !hasFields:
		return nil, apperrors.InvalidInput("fields or type is required")
	}

	switch fields[0] {
	case '[':
		var list sanitizer.Fields
		if err := json.Unmarshal(fields, &list); err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("fields: %v", err))
		}
		for i, f := range list {
			if f.Name == "" {
				return nil, apperrors.InvalidInput(fmt.Sprintf("fields[%d]: name is required", i))
			}
		}
		return list, nil
	case '{':
		var m sanitizer.FieldMap
		if err := json.Unmarshal(fields, &m); err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("fields: %v", err))
		}
		return m, nil
	default:
		return nil, apperrors.InvalidInput("fields must be a list or an object")
	}
}

func dataFromRequest(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, apperrors.InvalidInput("data is required")
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, apperrors.Parse(err)
		}
		return text, nil
	}
	return raw, nil
}
