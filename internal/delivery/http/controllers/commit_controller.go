package controllers

import (
	"fmt"
	"net/http"

	"guestlisteditor/internal/delivery/http/helpers"
	"guestlisteditor/internal/domain"
)

// ReviewSuccessResponse is the success response envelope for GET /sessions/{sessionID}/review.
type ReviewSuccessResponse struct {
	Data  *domain.ChangeReview `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ReviewTextResponse is the data payload for GET /sessions/{sessionID}/review?format=text.
type ReviewTextResponse struct {
	Text string `json:"text"`
}

// Review godoc
// @Summary Review staged changes
// @Description Lists new and updated guests and groups and the invitations that will be removed. With format=text the review is rendered as plain text.
// @Tags commit
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Param format query string false "json (default) or text"
// @Success 200 {object} controllers.ReviewSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sessions/{sessionID}/review [get]
func (c *SessionController) Review(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		review, err := c.Service.Review(r.Context(), sessionID, userID)
		if err != nil {
			c.fail(w, r, err)
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, review)
	case "text":
		text, err := c.Service.RenderReview(r.Context(), sessionID, userID)
		if err != nil {
			c.fail(w, r, err)
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, ReviewTextResponse{Text: text})
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, fmt.Sprintf("unknown format %q", format))
	}
}

// CommitRequest is the optional body for POST /sessions/{sessionID}/commit.
// Unsaved answers an open editor with unsaved edits: cancel, discard or save.
type CommitRequest struct {
	Unsaved domain.UnsavedDecision `json:"unsaved"`
}

// Validate implements Validator.
func (c CommitRequest) Validate() []string {
	if !c.Unsaved.Valid() {
		return []string{"unsaved must be one of cancel, discard, save"}
	}
	return nil
}

// CommitSuccessResponse is the success response envelope for POST /sessions/{sessionID}/commit.
type CommitSuccessResponse struct {
	Data  *domain.CommitResult `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Commit godoc
// @Summary Commit staged changes
// @Description Sends the whole change-log to the storage service in one request. On success the log is cleared and the guest list refreshed; on failure the log is kept so the commit can be retried. An open editor with unsaved edits needs an unsaved decision first.
// @Tags commit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Param body body CommitRequest false "Unsaved-change decision"
// @Success 200 {object} controllers.CommitSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (nothing to commit)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (rejected, in flight or unsaved edits)"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /sessions/{sessionID}/commit [post]
func (c *SessionController) Commit(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := c.caller(w, r)
	if !ok {
		return
	}
	var req CommitRequest
	if !helpers.DecodeOptionalAndValidate(w, r, &req) {
		return
	}
	token, ok := c.token(w, r)
	if !ok {
		return
	}
	result, err := c.Service.Commit(r.Context(), sessionID, userID, token, req.Unsaved)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
