package adapthttp

import (
	"net/http"
	"path/filepath"

	"todolist/internal/app"

	"github.com/gorilla/mux"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	creds  *app.CredentialService
	tokens *app.TokenService
	gate   *app.SessionGate
	tasks  *app.TaskService
	webDir string

	cookieSecure bool
	oidcConfig   OIDCConfig
	views        *views
}

// New creates a Server wired to the given application services.
func New(creds *app.CredentialService, tokens *app.TokenService, gate *app.SessionGate, tasks *app.TaskService, webDir string) *Server {
	return &Server{
		creds:  creds,
		tokens: tokens,
		gate:   gate,
		tasks:  tasks,
		webDir: webDir,
		views:  mustParseViews(),
	}
}

// WithSecureCookies marks the session cookie Secure.
func (s *Server) WithSecureCookies(secure bool) *Server {
	s.cookieSecure = secure
	return s
}

// WithOIDC enables the SSO login routes.
func (s *Server) WithOIDC(cfg OIDCConfig) *Server {
	s.oidcConfig = cfg
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)

	r.HandleFunc("/login", s.handleLoginPage).Methods(http.MethodGet)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)
	r.HandleFunc("/login-post", s.handleLoginPost).Methods(http.MethodPost)
	r.HandleFunc("/sso/login", s.handleSSOLogin).Methods(http.MethodGet)
	r.HandleFunc("/sso/callback", s.handleSSOCallback).Methods(http.MethodGet)

	// Pages send anonymous visitors to the login form; actions bounce them
	// back to the list, which in turn redirects to the login form.
	r.Handle("/", s.requireSession("/login", s.handleList)).Methods(http.MethodGet)
	r.Handle("/add", s.requireSession("/login", s.handleAddPage)).Methods(http.MethodGet)
	r.Handle("/edit/{id:[0-9]+}", s.requireSession("/login", s.handleEditPage)).Methods(http.MethodGet)
	r.Handle("/create-todo", s.requireSession("/", s.handleCreate)).Methods(http.MethodPost)
	r.Handle("/update-todo/{id:[0-9]+}", s.requireSession("/", s.handleUpdate)).Methods(http.MethodPost)
	r.Handle("/delete/{id:[0-9]+}/", s.requireSession("/", s.handleDelete)).Methods(http.MethodGet)

	static := http.FileServer(http.Dir(filepath.Join(s.webDir, "static")))
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", static))

	return withNoCache(r)
}
