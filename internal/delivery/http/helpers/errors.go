package helpers

import (
	"errors"
	"net/http"

	"guestlisteditor/internal/domain"
)

// POCConflictDetails is the error detail sent when a point-of-contact transfer
// needs confirmation.
type POCConflictDetails struct {
	GroupID       domain.ID `json:"group_id"`
	IncumbentID   domain.ID `json:"incumbent_id"`
	IncumbentName string    `json:"incumbent_name"`
}

// StatusForError maps a domain error to an HTTP status and API error code.
// Unknown errors map to 500.
func StatusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ErrCodeValidationFailed
	case errors.Is(err, domain.ErrMissingEvent), errors.Is(err, domain.ErrNothingToCommit):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, domain.ErrAuthRequired):
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, domain.ErrCommitRejected),
		errors.Is(err, domain.ErrCommitInFlight),
		errors.Is(err, domain.ErrPOCConfirmationRequired),
		errors.Is(err, domain.ErrEditorClosed),
		errors.Is(err, domain.ErrEditorOpen),
		errors.Is(err, domain.ErrUnsavedChanges),
		errors.Is(err, domain.ErrDeleteRejected):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, domain.ErrNetworkFailure), errors.Is(err, domain.ErrUpstreamFailure):
		return http.StatusBadGateway, ErrCodeBadGateway
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// WriteDomainError writes the envelope for err. Validation failures carry the
// failing fields; rejected commits carry the storage service message; POC
// conflicts carry the incumbent.
func WriteDomainError(w http.ResponseWriter, err error) {
	status, code := StatusForError(err)

	var validation *domain.ValidationError
	var rejected *domain.CommitRejectedError
	var poc *domain.POCConflictError
	switch {
	case errors.As(err, &validation):
		WriteJSONErrorDetails(w, status, code, err.Error(), validation.Fields)
	case errors.As(err, &rejected):
		WriteJSONError(w, status, code, rejected.Message)
	case errors.As(err, &poc):
		WriteJSONErrorDetails(w, status, code, err.Error(), POCConflictDetails{
			GroupID:       poc.GroupID,
			IncumbentID:   poc.Incumbent.ID,
			IncumbentName: poc.Incumbent.Name,
		})
	default:
		WriteJSONError(w, status, code, err.Error())
	}
}
