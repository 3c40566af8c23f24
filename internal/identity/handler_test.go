package identity_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trusthub/trusthub/internal/identity"
	"github.com/trusthub/trusthub/internal/orgs"
	"github.com/trusthub/trusthub/internal/rbac"
)

type recordedSession struct {
	id     string
	userID int64
}

type sessionRecorderStub struct {
	recorded []recordedSession
}

func (s *sessionRecorderStub) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	s.recorded = append(s.recorded, recordedSession{id: id, userID: userID})
	return nil
}

func newHandlerFixture(t *testing.T, resolver *stubResolver) (*identity.Handler, *identity.Builder, *sessionRecorderStub) {
	t.Helper()
	builder := newBuilder(t, resolver)
	sessions := &sessionRecorderStub{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := identity.NewHandler(logger, builder, orgs.NewResolver(nil), sessions, nil)
	return handler, builder, sessions
}

func authedRequest(t *testing.T, method, target string, body []byte, id identity.SessionIdentity) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(identity.ContextWith(req.Context(), id, "jti-old"))
}

func TestSwitchOrganizationEndpoint(t *testing.T) {
	resolver := &stubResolver{
		memberships: entityMemberships(),
		orgsByID: map[int64]*orgs.Organization{
			20: {ID: 20, Name: "Beta Fund", Slug: "beta-fund"},
		},
	}
	handler, builder, sessions := newHandlerFixture(t, resolver)
	r := chi.NewRouter()
	handler.MountRoutes(r)

	id, err := builder.Build(context.Background(), 7, rbac.RoleEntityAdmin, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	body, _ := json.Marshal(map[string]int64{"org_id": 20})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/switch-organization", body, id))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success      bool `json:"success"`
		Organization struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Slug string `json:"slug"`
		} `json:"organization"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Organization.ID != 20 || resp.Organization.Slug != "beta-fund" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Token == "" {
		t.Fatalf("switch must return a reissued token")
	}

	switched, jti, err := builder.Refresh(resp.Token)
	if err != nil {
		t.Fatalf("refresh reissued token: %v", err)
	}
	if switched.CurrentOrgID == nil || *switched.CurrentOrgID != 20 {
		t.Fatalf("reissued token must carry the new org")
	}
	if len(sessions.recorded) != 1 || sessions.recorded[0].id != jti {
		t.Fatalf("new session row must be registered under the reissued jti")
	}
}

func TestSwitchOrganizationEndpointDenied(t *testing.T) {
	resolver := &stubResolver{memberships: entityMemberships()}
	handler, builder, sessions := newHandlerFixture(t, resolver)
	r := chi.NewRouter()
	handler.MountRoutes(r)

	id, err := builder.Build(context.Background(), 7, rbac.RoleEntityUser, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	body, _ := json.Marshal(map[string]int64{"org_id": 99})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/switch-organization", body, id))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if len(sessions.recorded) != 0 {
		t.Fatalf("denied switch must not register a session")
	}
}

func TestSwitchOrganizationEndpointValidation(t *testing.T) {
	resolver := &stubResolver{memberships: entityMemberships()}
	handler, builder, _ := newHandlerFixture(t, resolver)
	r := chi.NewRouter()
	handler.MountRoutes(r)

	id, err := builder.Build(context.Background(), 7, rbac.RoleEntityAdmin, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, body := range []string{`{}`, `{"org_id": -1}`, `not json`} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/switch-organization", []byte(body), id))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestMeEndpoint(t *testing.T) {
	resolver := &stubResolver{memberships: entityMemberships()}
	handler, builder, _ := newHandlerFixture(t, resolver)
	r := chi.NewRouter()
	handler.MountRoutes(r)

	id, err := builder.Build(context.Background(), 7, rbac.RoleEntityAdmin, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/me", nil, id))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got identity.SessionIdentity
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode identity: %v", err)
	}
	if got.UserID != 7 || len(got.Memberships) != 2 {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestListOrganizationsEntitySeesOwnMemberships(t *testing.T) {
	resolver := &stubResolver{memberships: entityMemberships()}
	handler, builder, _ := newHandlerFixture(t, resolver)
	r := chi.NewRouter()
	handler.MountRoutes(r)

	id, err := builder.Build(context.Background(), 7, rbac.RoleEntityAdmin, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/organizations", nil, id))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []struct {
		ID   int64  `json:"id"`
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode organizations: %v", err)
	}
	if len(got) != 2 || got[0].Slug != "alfa-bank" {
		t.Fatalf("unexpected organizations: %+v", got)
	}
}
