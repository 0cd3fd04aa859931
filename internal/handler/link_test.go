package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagonlink/tagonlink/internal/handler/dto"
	"github.com/tagonlink/tagonlink/internal/repository"
)

func (e *testEnv) createLink(t *testing.T, ownerID string, req dto.LinkRequest) dto.LinkResponse {
	t.Helper()

	rec := httptest.NewRecorder()
	e.links.Create(rec, asUser(jsonRequest(t, http.MethodPost, "/api/links", req), ownerID, nil))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.LinkResponse
	decode(t, rec, &resp)
	return resp
}

func (e *testEnv) listLinks(t *testing.T, ownerID string) []dto.LinkResponse {
	t.Helper()

	rec := httptest.NewRecorder()
	e.links.List(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/links", nil), ownerID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.LinkResponse
	decode(t, rec, &resp)
	return resp
}

func TestLinkHandler_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "ana@example.com").User.ID

	first := env.createLink(t, owner, dto.LinkRequest{Title: "Go", URL: "https://go.dev"})
	second := env.createLink(t, owner, dto.LinkRequest{Title: "Chi", URL: "https://go-chi.io", Description: "router", Tags: "go,http"})

	assert.Equal(t, owner, first.UserID)
	assert.Equal(t, "", first.Description)
	assert.Equal(t, "", first.Tags)
	assert.Equal(t, "go,http", second.Tags)

	links := env.listLinks(t, owner)
	require.Len(t, links, 2)
	assert.Equal(t, second.ID, links[0].ID, "newest first")
	assert.Equal(t, first.ID, links[1].ID)
}

func TestLinkHandler_List_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "ana@example.com").User.ID

	rec := httptest.NewRecorder()
	env.links.List(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/links", nil), owner, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestLinkHandler_List_ScopedToCaller(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com").User.ID
	bob := env.register(t, "bob@example.com").User.ID

	env.createLink(t, alice, dto.LinkRequest{Title: "A", URL: "https://a.example"})

	assert.Empty(t, env.listLinks(t, bob))
	assert.Len(t, env.listLinks(t, alice), 1)
}

func TestLinkHandler_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "ana@example.com").User.ID

	tests := []struct {
		name     string
		body     any
		wantCode string
	}{
		{name: "missing title", body: dto.LinkRequest{URL: "https://go.dev"}, wantCode: "VALIDATION_ERROR"},
		{name: "missing url", body: dto.LinkRequest{Title: "Go"}, wantCode: "VALIDATION_ERROR"},
		{name: "relative url", body: dto.LinkRequest{Title: "Go", URL: "go.dev/doc"}, wantCode: "VALIDATION_ERROR"},
		{name: "malformed json", body: `[1,2`, wantCode: "INVALID_JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.links.Create(rec, asUser(jsonRequest(t, http.MethodPost, "/api/links", tt.body), owner, nil))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, errorBody(t, rec).Code)
		})
	}
}

func TestLinkHandler_Create_OwnerGone(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.links.Create(rec, asUser(jsonRequest(t, http.MethodPost, "/api/links",
		dto.LinkRequest{Title: "Go", URL: "https://go.dev"}), "deleted-user", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := errorBody(t, rec)
	assert.Equal(t, "OWNER_NOT_FOUND", body.Code)
	assert.Equal(t, "owner not found, log in again", body.Error)
}

func TestLinkHandler_Create_StoreErrors(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
		wantCode string
	}{
		{name: "duplicate", storeErr: repository.ErrDuplicateLink, wantCode: "DUPLICATE_LINK"},
		{name: "schema missing", storeErr: repository.ErrSchemaMissing, wantCode: "TABLE_NOT_FOUND"},
		{name: "unexpected", storeErr: assert.AnError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.store.Err = tt.storeErr

			rec := httptest.NewRecorder()
			env.links.Create(rec, asUser(jsonRequest(t, http.MethodPost, "/api/links",
				dto.LinkRequest{Title: "Go", URL: "https://go.dev"}), "user-1", nil))

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.wantCode, errorBody(t, rec).Code)
		})
	}
}

func TestLinkHandler_Update(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "ana@example.com").User.ID
	link := env.createLink(t, owner, dto.LinkRequest{Title: "Go", URL: "https://go.dev", Tags: "lang"})

	rec := httptest.NewRecorder()
	env.links.Update(rec, asUser(jsonRequest(t, http.MethodPut, "/api/links/"+link.ID,
		dto.LinkRequest{Title: "Go docs", URL: "https://go.dev/doc"}), owner, map[string]string{"id": link.ID}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated dto.LinkResponse
	decode(t, rec, &updated)

	assert.Equal(t, link.ID, updated.ID)
	assert.Equal(t, "Go docs", updated.Title)
	assert.Equal(t, "https://go.dev/doc", updated.URL)
	assert.Equal(t, "", updated.Tags, "omitted fields reset to empty")
	assert.Equal(t, link.CreatedAt, updated.CreatedAt)
}

func TestLinkHandler_Update_Errors(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com").User.ID
	bob := env.register(t, "bob@example.com").User.ID
	link := env.createLink(t, alice, dto.LinkRequest{Title: "A", URL: "https://a.example"})

	valid := dto.LinkRequest{Title: "B", URL: "https://b.example"}

	tests := []struct {
		name       string
		caller     string
		id         string
		body       dto.LinkRequest
		wantStatus int
	}{
		{name: "other owner", caller: bob, id: link.ID, body: valid, wantStatus: http.StatusForbidden},
		{name: "unknown id", caller: alice, id: "missing", body: valid, wantStatus: http.StatusNotFound},
		{name: "missing title", caller: alice, id: link.ID, body: dto.LinkRequest{URL: "https://b.example"}, wantStatus: http.StatusBadRequest},
		{name: "invalid url", caller: alice, id: link.ID, body: dto.LinkRequest{Title: "B", URL: "nope"}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.links.Update(rec, asUser(jsonRequest(t, http.MethodPut, "/api/links/"+tt.id, tt.body),
				tt.caller, map[string]string{"id": tt.id}))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	// Rejected updates leave the row untouched.
	links := env.listLinks(t, alice)
	require.Len(t, links, 1)
	assert.Equal(t, "A", links[0].Title)
}

func TestLinkHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com").User.ID
	bob := env.register(t, "bob@example.com").User.ID
	link := env.createLink(t, alice, dto.LinkRequest{Title: "A", URL: "https://a.example"})

	del := func(caller string) int {
		rec := httptest.NewRecorder()
		env.links.Delete(rec, asUser(httptest.NewRequest(http.MethodDelete, "/api/links/"+link.ID, nil),
			caller, map[string]string{"id": link.ID}))
		return rec.Code
	}

	assert.Equal(t, http.StatusNotFound, del(bob), "other owners see not found")
	assert.Len(t, env.listLinks(t, alice), 1)

	assert.Equal(t, http.StatusNoContent, del(alice))
	assert.Equal(t, http.StatusNotFound, del(alice), "second delete")
	assert.Empty(t, env.listLinks(t, alice))

	snap := env.metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.LinksDeleted)
}

func TestLinkHandler_RequiresCaller(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.links.List(rec, httptest.NewRequest(http.MethodGet, "/api/links", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
