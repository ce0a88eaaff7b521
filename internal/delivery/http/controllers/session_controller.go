package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"guestlisteditor/internal/delivery/http/helpers"
	"guestlisteditor/internal/delivery/http/middleware"
	"guestlisteditor/internal/domain"
)

// SessionController exposes guest-list editing sessions over HTTP.
type SessionController struct {
	Logger  *slog.Logger
	Service domain.EditSessionService
}

func NewSessionController(logger *slog.Logger, svc domain.EditSessionService) *SessionController {
	return &SessionController{
		Logger:  logger,
		Service: svc,
	}
}

// fail writes the envelope for err. Only unexpected failures are logged at error level.
func (c *SessionController) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := helpers.StatusForError(err)
	if status >= http.StatusInternalServerError {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	} else {
		c.Logger.DebugContext(r.Context(), "request rejected", "path", r.URL.Path, "method", r.Method, "status", status, "err", err)
	}
	helpers.WriteDomainError(w, err)
}

// caller returns the session id path value and the authenticated user. It writes
// the error response and returns ok=false when either is missing.
func (c *SessionController) caller(w http.ResponseWriter, r *http.Request) (sessionID, userID string, ok bool) {
	sessionID = r.PathValue("sessionID")
	if sessionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sessionID")
		return "", "", false
	}
	userID, ok = middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", "", false
	}
	return sessionID, userID, true
}

func (c *SessionController) token(w http.ResponseWriter, r *http.Request) (string, bool) {
	tok, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return tok, ok
}

// SessionSuccessResponse is the success response envelope for session state.
type SessionSuccessResponse struct {
	Data  *domain.SessionView `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// OpenSession godoc
// @Summary Open an editing session
// @Description Fetches the event's guest list from the storage service and opens an editing session on it. A draft saved by an earlier session of the same user is restored. Opening a second session for the same event replaces the first.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event public ID"
// @Success 201 {object} controllers.SessionSuccessResponse "data contains the session state"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /events/{eventID}/sessions [post]
func (c *SessionController) OpenSession(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	token, ok := c.token(w, r)
	if !ok {
		return
	}
	view, err := c.Service.Open(r.Context(), userID, token, eventID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, view)
}

// GetSession godoc
// @Summary Get session state
// @Description Returns the working guest list, the groups, the staged change-log and the open editors.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} controllers.SessionSuccessResponse "data contains the session state"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sessions/{sessionID} [get]
func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	view, err := c.Service.Get(r.Context(), sessionID, userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// StatusResponse is the data payload for actions that return no entity.
type StatusResponse struct {
	Status string `json:"status"`
}

// CloseSession godoc
// @Summary Close an editing session
// @Description Drops the session. With discard=true the saved draft is deleted too; otherwise it is kept for the next session.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Param discard query bool false "Delete the saved draft"
// @Success 200 {object} helpers.APIResponse "data.status: closed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sessions/{sessionID} [delete]
func (c *SessionController) CloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	discard := false
	if s := r.URL.Query().Get("discard"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "discard must be a boolean")
			return
		}
		discard = v
	}
	if err := c.Service.Close(r.Context(), sessionID, userID, discard); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "closed"})
}

// ListGuestsResponse is the data payload for GET /sessions/{sessionID}/guests (200).
type ListGuestsResponse struct {
	Items      []domain.Guest         `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListGuestsSuccessResponse is the success response envelope for GET /sessions/{sessionID}/guests (200).
type ListGuestsSuccessResponse struct {
	Data  ListGuestsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListGuests godoc
// @Summary List working guests
// @Description Returns a page of the session's working guest list, staged edits included. Optional search matches name, email, phone or group title (case-insensitive); group_id keeps one group.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param search query string false "Search text"
// @Param group_id query int false "Group ID"
// @Success 200 {object} controllers.ListGuestsSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sessions/{sessionID}/guests [get]
func (c *SessionController) ListGuests(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	filter, err := helpers.ParseGuestFilter(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	params := helpers.ParsePagination(r)
	list, total, err := c.Service.ListGuests(r.Context(), sessionID, userID, filter, params)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Guest{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListGuestsResponse{Items: list, Pagination: meta})
}

// DeleteGuest godoc
// @Summary Delete a guest
// @Description Deletes one guest. A guest that was never committed is only dropped from the change-log; a stored guest is deleted at the storage service and the list is refreshed.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Param guestID path int true "Guest ID"
// @Success 200 {object} helpers.APIResponse "data.status: deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /sessions/{sessionID}/guests/{guestID} [delete]
func (c *SessionController) DeleteGuest(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	guestID, err := domain.ParseID(r.PathValue("guestID"))
	if err != nil || guestID.IsZero() {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid guestID")
		return
	}
	token, ok := c.token(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteGuest(r.Context(), sessionID, userID, token, guestID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "deleted"})
}
