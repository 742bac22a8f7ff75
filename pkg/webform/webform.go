// Package webform adapts the wizard controller to net/http: it parses
// inbound form requests, negotiates structured versus templated
// responses, and maps response kinds to status codes.
package webform

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/petrijr/stepform/pkg/api"
)

// SessionCookie is the cookie carrying the session id used to scope the
// session store.
const SessionCookie = "stepform_session"

// StoreProvider opens the request's session store handle, typically from
// a session id cookie.
type StoreProvider func(r *http.Request) (api.Store, error)

// ControllerFactory builds the per-request controller around the opened
// store. Controllers are cheap: all durable state lives in the store.
type ControllerFactory func(store api.Store) api.Controller

// Handler is an http.Handler driving one wizard form. Store and
// controller faults are logged before the client sees a bare 500; the
// response body never carries the cause.
type Handler struct {
	factory  ControllerFactory
	provider StoreProvider
	logger   *slog.Logger
}

var _ http.Handler = (*Handler)(nil)

// NewHandler creates a Handler from a controller factory and a store
// provider, logging faults via slog.Default().
func NewHandler(factory ControllerFactory, provider StoreProvider) *Handler {
	return &Handler{
		factory:  factory,
		provider: provider,
		logger:   slog.Default(),
	}
}

// WithLogger replaces the fault logger and returns h.
func (h *Handler) WithLogger(logger *slog.Logger) *Handler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	store, err := h.provider(r)
	if err != nil {
		h.logger.Error("wizard session store unavailable",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	req, err := DecodeRequest(r)
	if err != nil {
		http.Error(w, "malformed form input", http.StatusBadRequest)
		return
	}

	resp, err := h.factory(store).Handle(r.Context(), req)
	if err != nil {
		h.logger.Error("wizard request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	WriteResponse(w, r, resp)
}

// DecodeRequest maps an *http.Request onto the transport-independent
// request contract. GET and HEAD are reads; everything else submits.
func DecodeRequest(r *http.Request) (api.Request, error) {
	if err := r.ParseForm(); err != nil {
		return api.Request{}, err
	}

	fields := make(map[string]string, len(r.Form))
	for name := range r.Form {
		fields[name] = r.Form.Get(name)
	}

	return api.Request{
		Read:       r.Method == http.MethodGet || r.Method == http.MethodHead,
		Fields:     fields,
		PreferJSON: wantsJSON(r),
	}, nil
}

// WriteResponse writes a controller response back over HTTP.
//
//   - Rendered pages go out as text/html.
//   - Structured payloads and validation failures go out as JSON
//     (failures with 422).
//   - Redirect-to-self becomes a 303 See Other back to the request URI.
func WriteResponse(w http.ResponseWriter, r *http.Request, resp *api.Response) {
	switch resp.Kind {
	case api.Rendered:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(resp.Body)

	case api.Structured:
		writeJSON(w, http.StatusOK, resp.Payload)

	case api.RedirectSelf:
		target := resp.Location
		if target == "" {
			target = r.URL.RequestURI()
		}
		http.Redirect(w, r, target, http.StatusSeeOther)

	case api.ValidationFailed:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": resp.Errors.Fields,
		})

	default:
		http.Error(w, "unhandled response kind", http.StatusInternalServerError)
	}
}

// EnsureSessionID returns the request's session id, minting and setting
// the cookie when absent.
func EnsureSessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
