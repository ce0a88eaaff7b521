// Package guestlist is the HTTP client of the storage service that durably
// owns event guest lists.
package guestlist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"guestlisteditor/internal/domain"
)

type guestListHTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient returns a GuestListClient calling the storage service at baseURL.
func NewHTTPClient(baseURL string, client *http.Client) domain.GuestListClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &guestListHTTPClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type wireEvent struct {
	Title string `json:"title"`
}

type wireGuest struct {
	domain.Guest
	GroupStatusID *int `json:"group_status_id"`
}

type guestListResponse struct {
	Validated bool           `json:"validated"`
	Message   string         `json:"message"`
	Error     string         `json:"error"`
	AllUsers  []wireGuest    `json:"allUsers"`
	Groups    []domain.Group `json:"groups"`
	Event     wireEvent      `json:"event"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *guestListHTTPClient) endpoint(eventID string, parts ...string) string {
	segs := []string{c.baseURL, url.PathEscape(eventID)}
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	return strings.Join(segs, "/")
}

func (c *guestListHTTPClient) do(ctx context.Context, method, target, token string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}
	return resp, nil
}

// FetchGuestList loads the authoritative guest list. When the response carries
// no group list the groups are derived from the guests' group fields.
func (c *guestListHTTPClient) FetchGuestList(ctx context.Context, token, eventID string) (*domain.Snapshot, error) {
	resp, err := c.do(ctx, http.MethodGet, c.endpoint(eventID, "guestList"), token, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch guest list: %w", err)
	}
	defer resp.Body.Close()

	var data guestListResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&data)
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("fetch guest list: %s: %w", data.Message, domain.ErrAuthRequired)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetch guest list: event %s: %w", eventID, domain.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("fetch guest list: status %d: %s: %w", resp.StatusCode, firstNonEmpty(data.Message, data.Error, http.StatusText(resp.StatusCode)), domain.ErrUpstreamFailure)
	case decodeErr != nil:
		return nil, fmt.Errorf("failed to decode guest list: %w: %w", domain.ErrUpstreamFailure, decodeErr)
	case !data.Validated:
		return nil, fmt.Errorf("fetch guest list: %s: %w", firstNonEmpty(data.Message, "access denied"), domain.ErrAuthRequired)
	}

	snap := &domain.Snapshot{
		Event:  domain.Event{ID: eventID, Title: data.Event.Title},
		Guests: make([]domain.Guest, 0, len(data.AllUsers)),
		Groups: data.Groups,
	}
	for _, g := range data.AllUsers {
		if g.Invitations == nil {
			g.Invitations = domain.Invitations{}
		}
		snap.Guests = append(snap.Guests, g.Guest)
	}
	if snap.Groups == nil {
		snap.Groups = deriveGroups(eventID, data.AllUsers)
	}
	return snap, nil
}

// deriveGroups collects the distinct groups referenced by the guests, in
// order of first appearance.
func deriveGroups(eventID string, guests []wireGuest) []domain.Group {
	seen := make(map[domain.ID]struct{})
	groups := []domain.Group{}
	for _, g := range guests {
		if g.GroupID == nil {
			continue
		}
		if _, ok := seen[*g.GroupID]; ok {
			continue
		}
		seen[*g.GroupID] = struct{}{}
		grp := domain.NewGroup(eventID)
		grp.ID = *g.GroupID
		grp.Title = g.GroupTitle
		if g.GroupStatusID != nil {
			grp.StatusID = *g.GroupStatusID
		}
		groups = append(groups, grp)
	}
	return groups
}

// CommitGuestList posts one batch. Only transport failures and missing
// credentials are errors; a rejection is reported through the response.
func (c *guestListHTTPClient) CommitGuestList(ctx context.Context, token, eventID string, body *domain.CommitRequest) (*domain.CommitResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, c.endpoint(eventID, "guestList"), token, body)
	if err != nil {
		return nil, fmt.Errorf("commit guest list: %w", err)
	}
	defer resp.Body.Close()

	out := &domain.CommitResponse{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		// Non-JSON error pages count as a rejection without a message.
		out.Validated = false
	}
	out.StatusCode = resp.StatusCode
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("commit guest list: %s: %w", out.Message, domain.ErrAuthRequired)
	}
	return out, nil
}

func (c *guestListHTTPClient) DeleteGuest(ctx context.Context, token, eventID string, guestID domain.ID) error {
	resp, err := c.do(ctx, http.MethodDelete, c.endpoint(eventID, "guests", guestID.String()), token, nil)
	if err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	defer resp.Body.Close()

	var data deleteResponse
	_ = json.NewDecoder(resp.Body).Decode(&data)
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("delete guest: %s: %w", data.Error, domain.ErrAuthRequired)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("delete guest %s: %w", guestID, domain.ErrNotFound)
	case resp.StatusCode >= 200 && resp.StatusCode <= 299 && data.Success:
		return nil
	}
	return fmt.Errorf("delete guest %s: %s: %w", guestID, firstNonEmpty(data.Error, data.Message, http.StatusText(resp.StatusCode)), domain.ErrDeleteRejected)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
