package guestlist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestlisteditor/internal/domain"
)

const guestListBody = `{
  "validated": true,
  "event": {"id": 42, "public_id": "evt-1", "title": "Wedding"},
  "total_guests": 2,
  "allUsers": [
    {"id": 1, "name": "Ana", "email": "ana@example.com", "phone": null, "point_of_contact": true,
     "group": "Family", "group_id": 10, "group_status_id": 3, "guest_type": "Single", "guest_limit": null,
     "rsvp_status": {"Ceremony": {"subevent_id": 1, "status_id": 3, "status_name": "attending", "response": 2}}},
    {"id": 2, "name": "Ben", "email": null, "phone": "555", "point_of_contact": false,
     "group": "Family", "group_id": 10, "group_status_id": 3, "rsvp_status": {}}
  ]
}`

func TestFetchGuestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/evt-1/guestList", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(guestListBody))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", srv.Client())
	snap, err := c.FetchGuestList(context.Background(), "tok", "evt-1")
	require.NoError(t, err)

	assert.Equal(t, domain.Event{ID: "evt-1", Title: "Wedding"}, snap.Event)
	require.Len(t, snap.Guests, 2)
	ana := snap.Guests[0]
	assert.Equal(t, "Ana", ana.Name)
	assert.True(t, ana.PointOfContact)
	require.NotNil(t, ana.GroupID)
	assert.Equal(t, domain.ID(10), *ana.GroupID)
	inv := ana.Invitations["Ceremony"]
	require.NotNil(t, inv.SubeventID)
	assert.Equal(t, int64(1), *inv.SubeventID)
	assert.Equal(t, 2, inv.ResponseCount)
	assert.Nil(t, snap.Guests[1].Email)

	require.Len(t, snap.Groups, 1)
	assert.Equal(t, domain.Group{ID: 10, Title: "Family", SizeLimit: -1, StatusID: 3, EventID: "evt-1"}, snap.Groups[0])
}

func TestFetchGuestList_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "unauthorized", status: 401, body: `{"validated":false,"message":"No auth token"}`, wantErr: domain.ErrAuthRequired},
		{name: "access denied", status: 200, body: `{"validated":false,"message":"Access denied"}`, wantErr: domain.ErrAuthRequired},
		{name: "event not found", status: 404, body: `{"error":"Event not found"}`, wantErr: domain.ErrNotFound},
		{name: "server error", status: 500, body: `{"error":"database unavailable"}`, wantErr: domain.ErrUpstreamFailure},
		{name: "html error page", status: 502, body: `<html>Bad Gateway</html>`, wantErr: domain.ErrUpstreamFailure},
		{name: "malformed body", status: 200, body: `{"validated":`, wantErr: domain.ErrUpstreamFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL, srv.Client()).FetchGuestList(context.Background(), "tok", "evt-1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFetchGuestList_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url, nil).FetchGuestList(context.Background(), "tok", "evt-1")
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
}

func TestCommitGuestList(t *testing.T) {
	var got map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/evt-1/guestList", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"validated":true,"message":"Guest list updated successfully"}`))
	}))
	defer srv.Close()

	group := domain.ID(-1)
	req := &domain.CommitRequest{
		GuestList:     []domain.Guest{{ID: -2, Name: "Dee", GroupID: &group}},
		Groups:        []domain.Group{{ID: -1, Title: "Neighbours", SizeLimit: -1, StatusID: 2}},
		Event:         domain.Event{ID: "evt-1"},
		RSVPsToDelete: []domain.RSVPDeletion{{GuestID: 1, SubeventID: 1}},
	}
	resp, err := NewHTTPClient(srv.URL, srv.Client()).CommitGuestList(context.Background(), "tok", "evt-1", req)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "Guest list updated successfully", resp.Message)

	assert.Contains(t, got, "guestList")
	assert.Contains(t, got, "groups")
	assert.Contains(t, got, "rsvpsToDelete")
	assert.JSONEq(t, `{"id":"evt-1"}`, string(got["event"]))
	assert.JSONEq(t, `[{"guest_id":1,"subevent_id":1}]`, string(got["rsvpsToDelete"]))
}

func TestCommitGuestList_Responses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantOK  bool
		wantMsg string
		wantErr error
	}{
		{name: "rejected", status: 200, body: `{"validated":false,"message":"Failed to update"}`, wantMsg: "Failed to update"},
		{name: "forbidden", status: 403, body: `{"validated":false,"message":"Access denied"}`, wantMsg: "Access denied"},
		{name: "html error page", status: 502, body: `<html>bad gateway</html>`},
		{name: "unauthorized", status: 401, body: `{"validated":false,"message":"No auth token"}`, wantErr: domain.ErrAuthRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp, err := NewHTTPClient(srv.URL, srv.Client()).CommitGuestList(context.Background(), "tok", "evt-1", &domain.CommitRequest{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, resp.OK())
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestDeleteGuest(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "deleted", status: 200, body: `{"success":true,"message":"Guest deleted successfully"}`},
		{name: "not found", status: 404, body: `{"error":"Guest not found"}`, wantErr: domain.ErrNotFound},
		{name: "forbidden", status: 403, body: `{"error":"Access denied"}`, wantErr: domain.ErrDeleteRejected},
		{name: "server error", status: 500, body: `{"error":"Failed to delete guest"}`, wantErr: domain.ErrDeleteRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/evt-1/guests/7", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewHTTPClient(srv.URL, srv.Client()).DeleteGuest(context.Background(), "tok", "evt-1", 7)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
