package responses

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// WriteJSONBytes writes already encoded JSON
func WriteJSONBytes(w http.ResponseWriter, HTTPStatusCode int, JSONBytes []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusCode) // Response Header Sent & Frozen
	if _, err := w.Write(JSONBytes); err != nil {
		zap.L().Error("writing JSON to response", zap.String("component", "responses"), zap.Error(err))
	}
}

// EncodeWriteJSON encodes payload as a JSON stream into the response
func EncodeWriteJSON(w http.ResponseWriter, HTTPStatusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusCode) // Response Header Sent & Frozen
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("failed to write JSON stream to response", zap.String("component", "responses"), zap.Error(err))
	}
}

// WriteSimpleErrorJSON wraps msg into an error Message without app logic code
func WriteSimpleErrorJSON(w http.ResponseWriter, HTTPStatusCode int, msg string) {
	EncodeWriteJSON(w, HTTPStatusCode, Message{Type: "error", Message: msg})
}

// WriteErrorJSON is WriteSimpleErrorJSON with an app logic code
func WriteErrorJSON(w http.ResponseWriter, HTTPStatusCode int, code int, msg string) {
	EncodeWriteJSON(w, HTTPStatusCode, Message{Type: "error", Message: msg, Code: code})
}

func WriteOK(w http.ResponseWriter) {
	EncodeWriteJSON(w, http.StatusOK, Message{Type: "ok"})
}
