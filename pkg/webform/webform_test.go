package webform_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/petrijr/stepform"
	"github.com/petrijr/stepform/pkg/api"
	"github.com/petrijr/stepform/pkg/rules"
	"github.com/petrijr/stepform/pkg/webform"
)

func newWizardHandler(store api.Store) *webform.Handler {
	wiz := stepform.New("checkout").
		Step(1, stepform.StepConfig{Rules: map[string]string{"email": "required,email"}}).
		Step(2, stepform.StepConfig{Rules: map[string]string{"address": "required"}})

	factory := func(store api.Store) api.Controller {
		return wiz.Controller(store, rules.New())
	}
	provider := func(r *http.Request) (api.Store, error) {
		return store, nil
	}
	return webform.NewHandler(factory, provider)
}

func postForm(h http.Handler, fields url.Values, acceptJSON bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(fields.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if acceptJSON {
		req.Header.Set("Accept", "application/json")
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestDecodeRequest(t *testing.T) {
	get := httptest.NewRequest(http.MethodGet, "/checkout?form_step=2", nil)
	get.Header.Set("Accept", "text/html")

	req, err := webform.DecodeRequest(get)
	if err != nil {
		t.Fatalf("DecodeRequest failed: %v", err)
	}
	if !req.Read {
		t.Fatalf("GET must decode as a read")
	}
	if req.Field("form_step") != "2" {
		t.Fatalf("query parameters must be visible as fields: %v", req.Fields)
	}
	if req.PreferJSON {
		t.Fatalf("text/html accept must not prefer JSON")
	}

	post := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader("email=a%40b.c"))
	post.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	post.Header.Set("Accept", "application/json")

	req, err = webform.DecodeRequest(post)
	if err != nil {
		t.Fatalf("DecodeRequest failed: %v", err)
	}
	if req.Read {
		t.Fatalf("POST must decode as a submission")
	}
	if req.Field("email") != "a@b.c" {
		t.Fatalf("form body missing: %v", req.Fields)
	}
	if !req.PreferJSON {
		t.Fatalf("application/json accept must prefer JSON")
	}
}

func TestHandler_ReadReturnsStructuredJSON(t *testing.T) {
	h := newWizardHandler(stepform.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var payload struct {
		Form map[string]any `json:"form"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if payload.Form["form_step"] != float64(1) {
		t.Fatalf("expected step 1, got %v", payload.Form)
	}
}

func TestHandler_FormPostRedirectsToSelf(t *testing.T) {
	h := newWizardHandler(stepform.NewMemoryStore())

	w := postForm(h, url.Values{"email": {"ada@example.com"}, "form_step": {"1"}}, false)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/checkout" {
		t.Fatalf("expected redirect to self, got %q", loc)
	}
}

func TestHandler_JSONPostReturnsAdvancedForm(t *testing.T) {
	store := stepform.NewMemoryStore()
	h := newWizardHandler(store)

	w := postForm(h, url.Values{"email": {"ada@example.com"}, "form_step": {"1"}}, true)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var payload struct {
		Form map[string]any `json:"form"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if payload.Form["form_step"] != float64(2) {
		t.Fatalf("expected post-advance step 2, got %v", payload.Form)
	}
	if payload.Form["email"] != "ada@example.com" {
		t.Fatalf("saved field missing: %v", payload.Form)
	}
}

func TestHandler_ValidationFailureReturns422(t *testing.T) {
	h := newWizardHandler(stepform.NewMemoryStore())

	w := postForm(h, url.Values{"email": {"broken"}, "form_step": {"1"}}, true)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	var payload struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(payload.Errors["email"]) == 0 {
		t.Fatalf("expected messages on email, got %v", payload.Errors)
	}
}

func TestHandler_StoreProviderFailureLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	wiz := stepform.New("checkout")
	h := webform.NewHandler(
		func(store api.Store) api.Controller { return wiz.Controller(store, rules.New()) },
		func(r *http.Request) (api.Store, error) { return nil, errors.New("session backend down") },
	).WithLogger(logger)

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if out := buf.String(); !strings.Contains(out, "session backend down") {
		t.Fatalf("provider fault must be logged, got:\n%s", out)
	}
}

// brokenStore fails every read so controller faults can be provoked.
type brokenStore struct{}

func (brokenStore) Get(key string, def any) (any, error) { return nil, errors.New("disk on fire") }
func (brokenStore) Put(key string, value any) error      { return nil }
func (brokenStore) Increment(key string) error           { return nil }
func (brokenStore) Save() error                          { return nil }

func TestHandler_ControllerFaultLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	wiz := stepform.New("checkout").
		Step(1, stepform.StepConfig{Rules: map[string]string{"email": "required,email"}})
	h := webform.NewHandler(
		func(store api.Store) api.Controller { return wiz.Controller(store, rules.New()) },
		func(r *http.Request) (api.Store, error) { return brokenStore{}, nil },
	).WithLogger(logger)

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if body := w.Body.String(); strings.Contains(body, "disk on fire") {
		t.Fatalf("fault detail must not leak to the client: %s", body)
	}

	out := buf.String()
	if !strings.Contains(out, "wizard request failed") || !strings.Contains(out, "disk on fire") {
		t.Fatalf("controller fault must be logged, got:\n%s", out)
	}
}

func TestEnsureSessionID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	w := httptest.NewRecorder()

	id, err := webform.EnsureSessionID(w, req)
	if err != nil {
		t.Fatalf("EnsureSessionID failed: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a minted session id")
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != webform.SessionCookie || cookies[0].Value != id {
		t.Fatalf("expected the session cookie to be set, got %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}

	// A request already carrying the cookie keeps its id and sets nothing.
	req2 := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	req2.AddCookie(&http.Cookie{Name: webform.SessionCookie, Value: id})
	w2 := httptest.NewRecorder()

	id2, err := webform.EnsureSessionID(w2, req2)
	if err != nil {
		t.Fatalf("EnsureSessionID failed: %v", err)
	}
	if id2 != id {
		t.Fatalf("expected the existing id %q, got %q", id, id2)
	}
	if len(w2.Result().Cookies()) != 0 {
		t.Fatalf("no cookie should be re-set for an existing session")
	}
}
