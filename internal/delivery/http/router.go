package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"guestlisteditor/internal/delivery/http/controllers"
	"guestlisteditor/internal/delivery/http/middleware"
	"guestlisteditor/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(sessionController *controllers.SessionController, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Sessions
	mux.HandleFunc("POST /events/{eventID}/sessions", auth(sessionController.OpenSession))
	mux.HandleFunc("GET /sessions/{sessionID}", auth(sessionController.GetSession))
	mux.HandleFunc("DELETE /sessions/{sessionID}", auth(sessionController.CloseSession))
	mux.HandleFunc("GET /sessions/{sessionID}/guests", auth(sessionController.ListGuests))
	mux.HandleFunc("DELETE /sessions/{sessionID}/guests/{guestID}", auth(sessionController.DeleteGuest))

	// Guest editor
	mux.HandleFunc("POST /sessions/{sessionID}/guest-editor", auth(sessionController.OpenGuestEditor))
	mux.HandleFunc("PATCH /sessions/{sessionID}/guest-editor", auth(sessionController.UpdateGuestEditor))
	mux.HandleFunc("POST /sessions/{sessionID}/guest-editor/poc", auth(sessionController.ResolvePOC))
	mux.HandleFunc("POST /sessions/{sessionID}/guest-editor/save", auth(sessionController.SaveGuestEditor))
	mux.HandleFunc("DELETE /sessions/{sessionID}/guest-editor", auth(sessionController.CancelGuestEditor))

	// Group editor
	mux.HandleFunc("POST /sessions/{sessionID}/group-editor", auth(sessionController.OpenGroupEditor))
	mux.HandleFunc("PATCH /sessions/{sessionID}/group-editor", auth(sessionController.UpdateGroupEditor))
	mux.HandleFunc("POST /sessions/{sessionID}/group-editor/save", auth(sessionController.SaveGroupEditor))
	mux.HandleFunc("DELETE /sessions/{sessionID}/group-editor", auth(sessionController.CancelGroupEditor))

	// Review and commit
	mux.HandleFunc("GET /sessions/{sessionID}/review", auth(sessionController.Review))
	mux.HandleFunc("POST /sessions/{sessionID}/commit", auth(sessionController.Commit))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with CORS and request logging.
func NewHandler(mux http.Handler, allowedOrigins []string, logger *slog.Logger) http.Handler {
	return middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux))
}
