package adapthttp

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"todolist/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const dateLayout = "02.01.2006 15:04"

type views struct {
	tmpl *template.Template
}

func mustParseViews() *views {
	funcs := template.FuncMap{
		"datetime": func(t time.Time) string { return t.Local().Format(dateLayout) },
	}
	tmpl := template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
	return &views{tmpl: tmpl}
}

type loginView struct {
	SSOEnabled bool
}

type listView struct {
	LoggedAs string
	Tasks    []domain.Task
	Search   string
	Top      int
	Order    string
	Reverse  bool
}

type formView struct {
	LoggedAs   string
	Task       domain.Task
	Statuses   []domain.Status
	Priorities []domain.Priority
}

func newFormView(user *domain.User, task *domain.Task) formView {
	v := formView{
		LoggedAs:   user.Login,
		Statuses:   []domain.Status{domain.StatusWaiting, domain.StatusInProgress, domain.StatusDone},
		Priorities: []domain.Priority{domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh},
	}
	if task != nil {
		v.Task = *task
	}
	return v
}

// render executes a page into a buffer first so a template error never
// leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.views.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
