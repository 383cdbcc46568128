package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"talib-mcp-server/internal/tool"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", slog.Any("err", err))
	}
}

// statusFor maps an error kind to its HTTP status.
func statusFor(k tool.Kind) int {
	switch k {
	case tool.KindUnauthorized:
		return http.StatusUnauthorized
	case tool.KindUnknownTool:
		return http.StatusNotFound
	case tool.KindInvalidInput, tool.KindInvalidParameters:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	kind := tool.KindOf(err)
	resp := ErrorResponse{Error: string(kind), Message: err.Error(), Param: tool.ParamOf(err)}
	if kind == tool.KindInternal {
		resp.Message = "internal error"
	}
	return statusFor(kind), resp
}

func writeError(w http.ResponseWriter, err error) {
	code, resp := errorResponse(err)
	writeJSON(w, code, resp)
}

// handleTools serves GET /tools.
func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ToolsResponse{Tools: s.registry.List()})
}

// handleCall serves POST /call.
func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := decodeBody(w, r, s.maxBody, &req); err != nil {
		writeJSON(w, statusForDecode(err), ErrorResponse{
			Error:   string(tool.KindInvalidInput),
			Message: err.Error(),
		})
		return
	}

	result, err := s.call(r.Context(), req.Name, req.Arguments)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CallResponse{Name: req.Name, Result: result})
}

var errBodyTooLarge = errors.New("request body too large")

func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return errBodyTooLarge
		}
		return errors.New("malformed request body: " + err.Error())
	}
	if dec.More() {
		return errors.New("malformed request body: trailing data")
	}
	return nil
}

func statusForDecode(err error) int {
	if errors.Is(err, errBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
