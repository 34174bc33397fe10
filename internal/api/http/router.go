package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"localloop-backend/internal/security"
	"localloop-backend/internal/service"
)

// Services bundles everything the HTTP surface needs.
type Services struct {
	Auth         service.AuthService
	Users        service.UserService
	Items        service.ItemService
	Transactions service.TransactionService
	Reviews      service.ReviewService
	Tokens       security.TokenManager
}

// NewRouter builds the full API router. Auth endpoints are public; everything
// else under /api/v1 requires a bearer token.
func NewRouter(s Services) *mux.Router {
	root := mux.NewRouter()
	root.Use(LoggingMiddleware)

	root.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	public := root.PathPrefix("/api/v1").Subrouter()
	NewAuthHandler(s.Auth).RegisterRoutes(public)

	protected := root.PathPrefix("/api/v1").Subrouter()
	protected.Use(AuthMiddleware(s.Tokens))
	NewUserHandler(s.Users).RegisterRoutes(protected)
	NewItemHandler(s.Items).RegisterRoutes(protected)
	NewTransactionHandler(s.Transactions).RegisterRoutes(protected)
	NewReviewHandler(s.Reviews).RegisterRoutes(protected)

	return root
}
