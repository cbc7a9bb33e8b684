package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-insights/components/insights"
	"github.com/goliatone/go-insights/components/insights/commands"
)

// ActionPayload is the request body for selection endpoints. Value is the
// generic field sent by the bundled page script.
type ActionPayload struct {
	Value    string `json:"value"`
	Tab      string `json:"tab,omitempty"`
	Encoding string `json:"encoding,omitempty"`
	Action   string `json:"action,omitempty"`
}

// Pick returns the first non empty of specific and Value.
func (p ActionPayload) Pick(specific string) string {
	if strings.TrimSpace(specific) != "" {
		return specific
	}
	return p.Value
}

// DecodeActionPayload parses body, accepting an empty body.
func DecodeActionPayload(body []byte) (ActionPayload, error) {
	var payload ActionPayload
	if len(strings.TrimSpace(string(body))) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request body").
			WithCode(goerrors.CodeBadRequest).
			WithTextCode("INVALID_BODY")
	}
	return payload, nil
}

// StatusFor maps an error to an HTTP status from its go-errors category.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case goerrors.IsCategory(err, goerrors.CategoryBadInput), goerrors.IsCategory(err, goerrors.CategoryValidation):
		return http.StatusBadRequest
	case goerrors.IsCategory(err, goerrors.CategoryNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error    string `json:"error"`
	TextCode string `json:"text_code,omitempty"`
}

// NewErrorBody builds the envelope for err.
func NewErrorBody(err error) ErrorBody {
	body := ErrorBody{Error: err.Error()}
	var typed *goerrors.Error
	if errors.As(err, &typed) {
		body.Error = typed.Message
		body.TextCode = typed.TextCode
	}
	return body
}

// Handlers exposes net/http endpoints backed by the shared executor.
// Session path segments are signed handles when Codec is set.
type Handlers struct {
	API       Executor
	Codec     *insights.SessionCodec
	Broadcast *insights.BroadcastHook
}

// Mount registers the handlers on mux under base.
func (h *Handlers) Mount(mux *http.ServeMux, base string) {
	base = strings.TrimRight(base, "/")
	mux.HandleFunc("POST "+base+"/sessions", h.HandleOpenSession)
	mux.HandleFunc("GET "+base+"/sessions/{session}/_view", h.HandleView)
	mux.HandleFunc("POST "+base+"/sessions/{session}/tab", h.HandleSelectTab)
	mux.HandleFunc("POST "+base+"/sessions/{session}/chart", h.HandleSelectChart)
	mux.HandleFunc("POST "+base+"/sessions/{session}/tour", h.HandleTour)
	mux.HandleFunc("POST "+base+"/sessions/{session}/toggles/{id}", h.HandleToggle)
	if h.Broadcast != nil {
		mux.HandleFunc("GET "+base+"/ws", h.resolveStream(h.Broadcast.ServeWebSocket))
		mux.HandleFunc("GET "+base+"/events", h.resolveStream(h.Broadcast.ServeSSE))
	}
}

func (h *Handlers) HandleOpenSession(w http.ResponseWriter, r *http.Request) {
	result, err := h.API.OpenSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	handle, err := h.encode(result.SessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"session": handle, "state": result.State})
}

func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request) {
	sessionID, err := h.decode(r.PathValue("session"))
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.API.View(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) HandleSelectTab(w http.ResponseWriter, r *http.Request) {
	sessionID, payload, ok := h.readAction(w, r)
	if !ok {
		return
	}
	h.respond(w, r, sessionID, h.API.SelectTab(r.Context(), commands.SelectTabInput{
		SessionID: sessionID,
		Tab:       payload.Pick(payload.Tab),
	}))
}

func (h *Handlers) HandleSelectChart(w http.ResponseWriter, r *http.Request) {
	sessionID, payload, ok := h.readAction(w, r)
	if !ok {
		return
	}
	h.respond(w, r, sessionID, h.API.SelectChart(r.Context(), commands.SelectChartInput{
		SessionID: sessionID,
		Encoding:  payload.Pick(payload.Encoding),
	}))
}

func (h *Handlers) HandleTour(w http.ResponseWriter, r *http.Request) {
	sessionID, payload, ok := h.readAction(w, r)
	if !ok {
		return
	}
	h.respond(w, r, sessionID, h.API.Tour(r.Context(), commands.TourInput{
		SessionID: sessionID,
		Action:    payload.Pick(payload.Action),
	}))
}

func (h *Handlers) HandleToggle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := h.decode(r.PathValue("session"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, r, sessionID, h.API.Toggle(r.Context(), commands.ToggleSettingInput{
		SessionID: sessionID,
		ID:        r.PathValue("id"),
	}))
}

func (h *Handlers) readAction(w http.ResponseWriter, r *http.Request) (string, ActionPayload, bool) {
	sessionID, err := h.decode(r.PathValue("session"))
	if err != nil {
		writeError(w, err)
		return "", ActionPayload{}, false
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, err)
		return "", ActionPayload{}, false
	}
	payload, err := DecodeActionPayload(body)
	if err != nil {
		writeError(w, err)
		return "", ActionPayload{}, false
	}
	return sessionID, payload, true
}

// respond writes the post transition state for a command result.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.API.View(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.State)
}

// resolveStream rewrites the "session" query handle into a session id
// before the stream subscribes.
func (h *Handlers) resolveStream(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if handle := query.Get("session"); handle != "" {
			sessionID, err := h.decode(handle)
			if err != nil {
				writeError(w, err)
				return
			}
			query.Set("session", sessionID)
			r.URL.RawQuery = query.Encode()
		}
		next(w, r)
	}
}

func (h *Handlers) encode(sessionID string) (string, error) {
	if h.Codec == nil {
		return sessionID, nil
	}
	return h.Codec.Encode(sessionID)
}

func (h *Handlers) decode(handle string) (string, error) {
	if h.Codec == nil {
		return handle, nil
	}
	return h.Codec.Decode(handle)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), NewErrorBody(err))
}
