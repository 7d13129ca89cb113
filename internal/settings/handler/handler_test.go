package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"confgate/internal/audit"
	"confgate/internal/hosting"
	"confgate/internal/hosting/catalog"
	"confgate/internal/settings/models"
	"confgate/internal/settings/notify"
	"confgate/internal/settings/service"
	"confgate/pkg/platform/middleware/admin"
)

const (
	adminToken    = "ops-token"
	initialFolder = "/data/resources"
	nextFolder    = "/data/staging"
	initialIdle   = "00:10:00"
)

func TestAdminTokenRequired(t *testing.T) {
	router := newConfigRouter(t)

	rec := postConfig(router, `{"idle":"01:00:00"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when admin token missing, got %d", rec.Code)
	}

	rec = postConfig(router, `{"idle":"01:00:00"}`, "wrong-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong admin token, got %d", rec.Code)
	}

	rec = getPath(router, "/config/changes")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 listing changes without token, got %d", rec.Code)
	}

	// The read surface stays open.
	rec = getPath(router, "/config")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 reading configuration without token, got %d", rec.Code)
	}

	rec = postConfig(router, `{"idle":"01:00:00"}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with admin token, got %d", rec.Code)
	}
}

func TestUpdateAndReadViaHandlers(t *testing.T) {
	router := newConfigRouter(t)

	rec := postConfig(router, `{"folder":"`+nextFolder+`","accent":"teal"}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating configuration, got %d (body %q)", rec.Code, rec.Body.String())
	}

	var typesResp struct {
		Types []string `json:"types"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&typesResp); err != nil {
		t.Fatalf("failed to decode types response: %v", err)
	}
	want := []string{"certificate", "claim"}
	if len(typesResp.Types) != len(want) {
		t.Fatalf("expected %d resource types, got %v", len(want), typesResp.Types)
	}
	for i, typ := range want {
		if typesResp.Types[i] != typ {
			t.Fatalf("expected resource types %v, got %v", want, typesResp.Types)
		}
	}

	rec = getPath(router, "/config")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 reading configuration, got %d", rec.Code)
	}
	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode configuration: %v", err)
	}
	wantConfig := map[string]string{
		"folder": nextFolder,
		"idle":   initialIdle,
		"accent": "teal",
	}
	if !maps.Equal(got, wantConfig) {
		t.Fatalf("expected configuration %v, got %v", wantConfig, got)
	}
}

func TestUpdateWithoutFolderChangeAnswersEmpty(t *testing.T) {
	router := newConfigRouter(t)

	rec := postConfig(router, `{"idle":"01:30:00"}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating idle, got %d (body %q)", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body when folder is unchanged, got %q", rec.Body.String())
	}

	// An empty override set is a no-op update.
	rec = postConfig(router, `{}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty update, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body for empty update, got %q", rec.Body.String())
	}

	rec = getPath(router, "/config")
	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode configuration: %v", err)
	}
	if got["idle"] != "01:30:00" {
		t.Fatalf("expected idle 01:30:00 after update, got %q", got["idle"])
	}
	if got["folder"] != initialFolder {
		t.Fatalf("expected folder unchanged, got %q", got["folder"])
	}
}

func TestUpdateRejectsInvalidValue(t *testing.T) {
	router := newConfigRouter(t)

	rec := postConfig(router, `{"idle":"banana"}`, adminToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unparseable idle, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected plain-text rejection, got Content-Type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "idle") {
		t.Fatalf("expected rejection reason to name the offending setting, got %q", rec.Body.String())
	}

	// The published configuration is untouched.
	rec = getPath(router, "/config")
	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode configuration: %v", err)
	}
	wantConfig := map[string]string{
		"folder": initialFolder,
		"idle":   initialIdle,
	}
	if !maps.Equal(got, wantConfig) {
		t.Fatalf("expected configuration %v after rejection, got %v", wantConfig, got)
	}
}

func TestUpdateRejectsMalformedBody(t *testing.T) {
	router := newConfigRouter(t)

	for _, body := range []string{`{"idle": 600}`, `["folder"]`, `{not json`} {
		rec := postConfig(router, body, adminToken)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for body %q, got %d", body, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "flat JSON object") {
			t.Fatalf("expected decode failure reason for body %q, got %q", body, rec.Body.String())
		}
	}
}

func TestUpdateAnswersUnavailableWhenBindFails(t *testing.T) {
	oldFolder := t.TempDir()
	router := newRouterWithBinder(t, oldFolder, hosting.FolderBinder{})

	missing := filepath.Join(oldFolder, "does-not-exist")
	rec := postConfig(router, `{"folder":"`+missing+`"}`, adminToken)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when the domain cannot bind, got %d (body %q)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode unavailable response: %v", err)
	}
	if resp.Error != "domain_unavailable" {
		t.Fatalf("expected error domain_unavailable, got %q", resp.Error)
	}
	if resp.Message == "" {
		t.Fatalf("expected a failure message in the response")
	}

	// The rejected folder never became visible.
	rec = getPath(router, "/config")
	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode configuration: %v", err)
	}
	if got["folder"] != oldFolder {
		t.Fatalf("expected previous folder %q retained, got %q", oldFolder, got["folder"])
	}
}

func TestDomainEndpointBindsLazily(t *testing.T) {
	router := newConfigRouter(t)

	rec := getPath(router, "/config/domain")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 reading domain, got %d (body %q)", rec.Code, rec.Body.String())
	}
	var first struct {
		Domain string `json:"domain"`
		Folder string `json:"folder"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&first); err != nil {
		t.Fatalf("failed to decode domain response: %v", err)
	}
	if !strings.HasPrefix(first.Domain, "domain-") {
		t.Fatalf("expected a derived domain name, got %q", first.Domain)
	}
	if first.Folder != initialFolder {
		t.Fatalf("expected domain bound to %q, got %q", initialFolder, first.Folder)
	}

	// A second read returns the same live domain.
	rec = getPath(router, "/config/domain")
	var second struct {
		Domain string `json:"domain"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&second); err != nil {
		t.Fatalf("failed to decode domain response: %v", err)
	}
	if second.Domain != first.Domain {
		t.Fatalf("expected stable domain identity, got %q then %q", first.Domain, second.Domain)
	}

	// A folder change retires the identity; the next read binds a new one.
	rec = postConfig(router, `{"folder":"`+nextFolder+`"}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 changing folder, got %d", rec.Code)
	}
	rec = getPath(router, "/config/domain")
	var rebound struct {
		Domain string `json:"domain"`
		Folder string `json:"folder"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&rebound); err != nil {
		t.Fatalf("failed to decode domain response: %v", err)
	}
	if rebound.Domain == first.Domain {
		t.Fatalf("expected a fresh domain after the folder change, still %q", rebound.Domain)
	}
	if rebound.Folder != nextFolder {
		t.Fatalf("expected rebound domain folder %q, got %q", nextFolder, rebound.Folder)
	}
}

func TestChangesJournalEndpoints(t *testing.T) {
	router := newConfigRouter(t)

	rec := postConfig(router, `{"idle":"02:00:00"}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating configuration, got %d", rec.Code)
	}

	rec = getJournal(router, "/config/changes")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing changes, got %d (body %q)", rec.Code, rec.Body.String())
	}
	var listing struct {
		Changes []struct {
			ID     string `json:"id"`
			Action string `json:"action"`
		} `json:"changes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listing); err != nil {
		t.Fatalf("failed to decode changes listing: %v", err)
	}
	if len(listing.Changes) == 0 {
		t.Fatalf("expected the update to be journaled")
	}
	if listing.Changes[0].Action != "config_updated" {
		t.Fatalf("expected newest change config_updated, got %q", listing.Changes[0].Action)
	}
	if listing.Changes[0].ID == "" {
		t.Fatalf("expected a change ID in the listing")
	}

	rec = getJournal(router, "/config/changes?limit=1")
	var limited struct {
		Changes []json.RawMessage `json:"changes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&limited); err != nil {
		t.Fatalf("failed to decode limited listing: %v", err)
	}
	if len(limited.Changes) != 1 {
		t.Fatalf("expected 1 change with limit=1, got %d", len(limited.Changes))
	}

	for _, limit := range []string{"0", "-3", "many"} {
		rec = getJournal(router, "/config/changes?limit="+limit)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for limit %q, got %d", limit, rec.Code)
		}
	}

	rec = getJournal(router, "/config/changes/"+listing.Changes[0].ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching change, got %d", rec.Code)
	}
	var change struct {
		ID     string `json:"id"`
		Action string `json:"action"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&change); err != nil {
		t.Fatalf("failed to decode change: %v", err)
	}
	if change.ID != listing.Changes[0].ID || change.Action != "config_updated" {
		t.Fatalf("expected change %s, got %+v", listing.Changes[0].ID, change)
	}

	rec = getJournal(router, "/config/changes/"+uuid.New().String())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown change, got %d", rec.Code)
	}

	rec = getJournal(router, "/config/changes/not-a-change-id")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed change ID, got %d", rec.Code)
	}
}

func newConfigRouter(t *testing.T) http.Handler {
	t.Helper()
	return newRouterWithBinder(t, initialFolder, hosting.NoopBinder{})
}

func newRouterWithBinder(t *testing.T, folder string, binder hosting.Binder) http.Handler {
	t.Helper()

	idle, err := models.ParseDuration(initialIdle)
	if err != nil {
		t.Fatalf("failed to parse initial idle: %v", err)
	}
	initial, err := models.New(folder, idle)
	if err != nil {
		t.Fatalf("failed to build initial snapshot: %v", err)
	}

	manager, err := hosting.NewManager(binder)
	if err != nil {
		t.Fatalf("failed to build domain manager: %v", err)
	}
	types := catalog.NewInMemory()
	types.SetTypes(nextFolder, "claim", "certificate")

	journal, err := audit.NewPublisher(audit.NewInMemoryStore(0))
	if err != nil {
		t.Fatalf("failed to build journal: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	gateway, err := service.NewGateway(initial, notify.New(), manager, types,
		service.WithLogger(logger),
		service.WithAuditPublisher(journal),
	)
	if err != nil {
		t.Fatalf("failed to build gateway: %v", err)
	}

	h := New(gateway, journal, logger)
	r := chi.NewRouter()
	h.Register(r)
	r.Group(func(gr chi.Router) {
		gr.Use(admin.RequireAdminToken(adminToken, logger))
		h.RegisterAdmin(gr)
	})
	return r
}

func postConfig(router http.Handler, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/config", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Admin-Token", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func getPath(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func getJournal(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
