package controllers

import (
	"net/http"

	"guestlisteditor/internal/delivery/http/helpers"
	"guestlisteditor/internal/domain"
)

// OpenGuestEditorRequest is the optional body for POST /sessions/{sessionID}/guest-editor.
// Omit guest_id (or send 0) to start a new guest.
type OpenGuestEditorRequest struct {
	GuestID domain.ID `json:"guest_id"`
}

// GuestEditorSuccessResponse is the success response envelope for guest editor actions.
type GuestEditorSuccessResponse struct {
	Data  *domain.GuestEditorView `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// OpenGuestEditor godoc
// @Summary Open the guest editor
// @Description Opens the guest form on an existing guest, or on a blank guest when guest_id is omitted.
// @Tags guest-editor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Param body body OpenGuestEditorRequest false "Guest to edit"
// @Success 200 {object} controllers.GuestEditorSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (editor already open)"
// @Router /sessions/{sessionID}/guest-editor [post]
func (c *SessionController) OpenGuestEditor(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	var req OpenGuestEditorRequest
	if !helpers.DecodeOptionalAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.OpenGuestEditor(r.Context(), sessionID, userID, req.GuestID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// UpdateGuestEditor godoc
// @Summary Edit guest form fields
// @Description Applies field edits to the open guest form. Setting point_of_contact while another guest holds the role leaves the transfer pending confirmation.
// @Tags guest-editor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Param patch body domain.GuestPatch true "Changed fields"
// @Success 200 {object} controllers.GuestEditorSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (editor not open)"
// @Router /sessions/{sessionID}/guest-editor [patch]
func (c *SessionController) UpdateGuestEditor(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	var patch domain.GuestPatch
	if !helpers.DecodeAndValidate(w, r, &patch) {
		return
	}
	view, err := c.Service.UpdateGuestEditor(r.Context(), sessionID, userID, patch)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// ResolvePOCRequest is the body for POST /sessions/{sessionID}/guest-editor/poc.
type ResolvePOCRequest struct {
	Confirm *bool `json:"confirm"`
}

// Validate implements Validator.
func (p ResolvePOCRequest) Validate() []string {
	if p.Confirm == nil {
		return []string{"confirm is required"}
	}
	return nil
}

// ResolvePOC godoc
// @Summary Confirm or cancel a point-of-contact transfer
// @Description Answers a pending point-of-contact transfer. Confirming makes the edited guest the group's point of contact; the current one is demoted when the guest is saved.
// @Tags guest-editor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Param body body ResolvePOCRequest true "Decision"
// @Success 200 {object} controllers.GuestEditorSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /sessions/{sessionID}/guest-editor/poc [post]
func (c *SessionController) ResolvePOC(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	var req ResolvePOCRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.ResolvePOC(r.Context(), sessionID, userID, *req.Confirm)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// GuestSuccessResponse is the success response envelope for a saved guest.
type GuestSuccessResponse struct {
	Data  *domain.Guest     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SaveGuestEditor godoc
// @Summary Save the guest form
// @Description Validates the form and stages the guest in the change-log. Removed invitations are recorded for deletion. Nothing is sent to the storage service until commit.
// @Tags guest-editor
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} controllers.GuestSuccessResponse "data contains the staged guest"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed (error.details lists the fields)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (error.details names the current point of contact)"
// @Router /sessions/{sessionID}/guest-editor/save [post]
func (c *SessionController) SaveGuestEditor(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	guest, err := c.Service.SaveGuestEditor(r.Context(), sessionID, userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guest)
}

// CancelGuestEditor godoc
// @Summary Close the guest form without saving
// @Tags guest-editor
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} helpers.APIResponse "data.status: cancelled"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (editor not open)"
// @Router /sessions/{sessionID}/guest-editor [delete]
func (c *SessionController) CancelGuestEditor(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	if err := c.Service.CancelGuestEditor(r.Context(), sessionID, userID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "cancelled"})
}

// OpenGroupEditorRequest is the optional body for POST /sessions/{sessionID}/group-editor.
type OpenGroupEditorRequest struct {
	GroupID domain.ID `json:"group_id"`
}

// GroupEditorSuccessResponse is the success response envelope for group editor actions.
type GroupEditorSuccessResponse struct {
	Data  *domain.GroupEditorView `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// OpenGroupEditor godoc
// @Summary Open the group editor
// @Description Opens the group form on an existing group, or on a blank group when group_id is omitted.
// @Tags group-editor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Param body body OpenGroupEditorRequest false "Group to edit"
// @Success 200 {object} controllers.GroupEditorSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (editor already open)"
// @Router /sessions/{sessionID}/group-editor [post]
func (c *SessionController) OpenGroupEditor(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	var req OpenGroupEditorRequest
	if !helpers.DecodeOptionalAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.OpenGroupEditor(r.Context(), sessionID, userID, req.GroupID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// UpdateGroupEditor godoc
// @Summary Edit group form fields
// @Tags group-editor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Param patch body domain.GroupPatch true "Changed fields"
// @Success 200 {object} controllers.GroupEditorSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (editor not open)"
// @Router /sessions/{sessionID}/group-editor [patch]
func (c *SessionController) UpdateGroupEditor(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	var patch domain.GroupPatch
	if !helpers.DecodeAndValidate(w, r, &patch) {
		return
	}
	view, err := c.Service.UpdateGroupEditor(r.Context(), sessionID, userID, patch)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// GroupSuccessResponse is the success response envelope for a saved group.
type GroupSuccessResponse struct {
	Data  *domain.Group     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SaveGroupEditor godoc
// @Summary Save the group form
// @Description Validates the form and stages the group. New groups get a pending id that guests can reference before commit.
// @Tags group-editor
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} controllers.GroupSuccessResponse "data contains the staged group"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (editor not open)"
// @Router /sessions/{sessionID}/group-editor/save [post]
func (c *SessionController) SaveGroupEditor(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	group, err := c.Service.SaveGroupEditor(r.Context(), sessionID, userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, group)
}

// CancelGroupEditor godoc
// @Summary Close the group form without saving
// @Tags group-editor
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} helpers.APIResponse "data.status: cancelled"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (editor not open)"
// @Router /sessions/{sessionID}/group-editor [delete]
func (c *SessionController) CancelGroupEditor(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	if err := c.Service.CancelGroupEditor(r.Context(), sessionID, userID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "cancelled"})
}
