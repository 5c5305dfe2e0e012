package adapthttp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	adapthttp "todolist/internal/adapter/http"
	"todolist/internal/adapter/memory"
	"todolist/internal/app"
	"todolist/internal/config"
	"todolist/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// ---------------------------------------------------------------------------
// Test-server helper
// ---------------------------------------------------------------------------

type testEnv struct {
	handler http.Handler
	db      *memory.DB
	admin   *domain.User
	other   *domain.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db := memory.New()
	creds := app.NewCredentialService(db).WithCost(bcrypt.MinCost)
	admin, err := creds.RegisterUser(ctx, "admin", "12345")
	if err != nil {
		t.Fatal(err)
	}
	other, err := creds.RegisterUser(ctx, "user2", "qwerty")
	if err != nil {
		t.Fatal(err)
	}

	tokens, err := app.NewTokenService(config.Token{
		Key:       "test-signing-key",
		Issuer:    "todolist",
		Algorithm: "HS512",
		Lifetime:  time.Hour,
	})
	if err != nil {
		t.Fatal(err)
	}

	webDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(webDir, "static"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(webDir, "static", "style.css"), []byte("body{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	srv := adapthttp.New(creds, tokens, app.NewSessionGate(tokens, db), app.NewTaskService(db), webDir)
	return &testEnv{handler: srv.Handler(), db: db, admin: admin, other: other}
}

func (e *testEnv) do(t *testing.T, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, login, password string) *http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/login-post", url.Values{"login": {login}, "password": {password}})
	c := jwtCookie(rec)
	if c == nil {
		t.Fatalf("login %s: no JWT cookie (status %d)", login, rec.Code)
	}
	return c
}

func (e *testEnv) seedTask(t *testing.T, owner *domain.User, title string, p domain.Priority, createdAt time.Time) int64 {
	t.Helper()
	id, err := e.db.CreateTask(context.Background(), owner.ID, domain.TaskInput{
		Title:    title,
		Status:   domain.StatusWaiting,
		Priority: p,
	}, createdAt)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func (e *testEnv) tasksOf(t *testing.T, owner *domain.User) []domain.Task {
	t.Helper()
	tasks, err := e.db.ListTasks(context.Background(), owner.ID, domain.TaskQuery{})
	if err != nil {
		t.Fatal(err)
	}
	return tasks
}

func jwtCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "JWT" {
			return c
		}
	}
	return nil
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d; want 302", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != want {
		t.Fatalf("Location = %q; want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/health", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
}

func TestAnonymousRequestsAreRedirected(t *testing.T) {
	e := newTestEnv(t)
	id := e.seedTask(t, e.admin, "keep", domain.PriorityLow, time.Now())
	form := url.Values{"title": {"x"}, "description": {"y"}, "status": {"0"}, "priority": {"0"}}

	tests := []struct {
		method, path string
		form         url.Values
		want         string
	}{
		{http.MethodGet, "/", nil, "/login"},
		{http.MethodGet, "/add", nil, "/login"},
		{http.MethodGet, "/edit/1", nil, "/login"},
		{http.MethodPost, "/create-todo", form, "/"},
		{http.MethodPost, "/update-todo/1", form, "/"},
		{http.MethodGet, "/delete/1/", nil, "/"},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			assertRedirect(t, e.do(t, tc.method, tc.path, tc.form), tc.want)
		})
	}

	tasks := e.tasksOf(t, e.admin)
	if len(tasks) != 1 || tasks[0].ID != id || tasks[0].Title != "keep" {
		t.Fatalf("anonymous requests changed data: %+v", tasks)
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/login-post", url.Values{"login": {"admin"}, "password": {"12345"}})
	assertRedirect(t, rec, "/")

	c := jwtCookie(rec)
	if c == nil {
		t.Fatal("no JWT cookie")
	}
	if !c.HttpOnly || c.Path != "/" || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie attributes = %+v", c)
	}
	if c.MaxAge != 3600 {
		t.Errorf("MaxAge = %d; want 3600", c.MaxAge)
	}

	page := e.do(t, http.MethodGet, "/", nil, c)
	if page.Code != http.StatusOK {
		t.Fatalf("list status = %d", page.Code)
	}
	if !strings.Contains(page.Body.String(), "admin") {
		t.Error("list page does not show the logged-in login")
	}
}

func TestLoginFailureIsSilent(t *testing.T) {
	e := newTestEnv(t)
	for name, form := range map[string]url.Values{
		"wrong password": {"login": {"admin"}, "password": {"1234"}},
		"unknown login":  {"login": {"nobody"}, "password": {"12345"}},
		"other's pass":   {"login": {"admin"}, "password": {"qwerty"}},
		"empty":          {"login": {""}, "password": {""}},
	} {
		t.Run(name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/login-post", form)
			assertRedirect(t, rec, "/")
			if c := jwtCookie(rec); c != nil {
				t.Fatalf("failed login set a cookie: %+v", c)
			}
		})
	}
}

func TestInvalidSessionFailsClosed(t *testing.T) {
	e := newTestEnv(t)
	good := e.login(t, "admin", "12345")

	tampered := *good
	tampered.Value = good.Value[:len(good.Value)-4] + "AAAA"
	if tampered.Value == good.Value {
		tampered.Value = good.Value[:len(good.Value)-4] + "BBBB"
	}

	for name, c := range map[string]*http.Cookie{
		"tampered": &tampered,
		"garbage":  {Name: "JWT", Value: "not-a-token"},
		"empty":    {Name: "JWT", Value: ""},
	} {
		t.Run(name, func(t *testing.T) {
			assertRedirect(t, e.do(t, http.MethodGet, "/", nil, c), "/login")
		})
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	e := newTestEnv(t)
	c := e.login(t, "admin", "12345")

	rec := e.do(t, http.MethodGet, "/logout", nil, c)
	assertRedirect(t, rec, "/")
	cleared := jwtCookie(rec)
	if cleared == nil || cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Fatalf("logout cookie = %+v; want an expired empty JWT cookie", cleared)
	}
}

func TestCreateTask(t *testing.T) {
	e := newTestEnv(t)
	c := e.login(t, "admin", "12345")

	rec := e.do(t, http.MethodPost, "/create-todo", url.Values{
		"title": {"Buy milk"}, "description": {"2 liters"}, "status": {"1"}, "priority": {"2"},
	}, c)
	assertRedirect(t, rec, "/")

	tasks := e.tasksOf(t, e.admin)
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks; want 1", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Buy milk" || got.Description != "2 liters" ||
		got.Status != domain.StatusInProgress || got.Priority != domain.PriorityHigh {
		t.Errorf("created %+v", got)
	}
	if len(e.tasksOf(t, e.other)) != 0 {
		t.Error("task leaked to another owner")
	}
}

func TestCreateTask_InvalidEnumsAreIgnored(t *testing.T) {
	e := newTestEnv(t)
	c := e.login(t, "admin", "12345")

	for name, form := range map[string]url.Values{
		"status":   {"title": {"x"}, "status": {"7"}, "priority": {"0"}},
		"priority": {"title": {"x"}, "status": {"0"}, "priority": {"urgent"}},
		"missing":  {"title": {"x"}},
	} {
		t.Run(name, func(t *testing.T) {
			assertRedirect(t, e.do(t, http.MethodPost, "/create-todo", form, c), "/")
		})
	}
	if n := len(e.tasksOf(t, e.admin)); n != 0 {
		t.Fatalf("invalid forms created %d tasks", n)
	}
}

func TestListPage(t *testing.T) {
	e := newTestEnv(t)
	c := e.login(t, "admin", "12345")
	created := time.Date(2024, 3, 9, 14, 5, 0, 0, time.Local)

	e.seedTask(t, e.admin, "alpha", domain.PriorityLow, created)
	e.seedTask(t, e.admin, "bravo", domain.PriorityHigh, created)
	e.seedTask(t, e.admin, "charlie", domain.PriorityMedium, created)
	e.seedTask(t, e.admin, "delta", domain.PriorityHigh, created)
	e.seedTask(t, e.other, "foreign", domain.PriorityHigh, created)

	body := func(target string) string {
		t.Helper()
		rec := e.do(t, http.MethodGet, target, nil, c)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: status %d", target, rec.Code)
		}
		return rec.Body.String()
	}
	assertOrder := func(page string, titles ...string) {
		t.Helper()
		last := -1
		for _, title := range titles {
			i := strings.Index(page, "<td>"+title+"</td>")
			if i < 0 {
				t.Fatalf("%q missing from page", title)
			}
			if i < last {
				t.Fatalf("%q out of order in %v", title, titles)
			}
			last = i
		}
	}

	page := body("/")
	assertOrder(page, "alpha", "bravo", "charlie", "delta")
	if strings.Contains(page, "foreign") {
		t.Error("list shows another owner's task")
	}
	if !strings.Contains(page, "09.03.2024 14:05") {
		t.Error("created date not rendered as dd.mm.yyyy hh:mm")
	}

	assertOrder(body("/?order=title&reverse=true"), "delta", "charlie", "bravo", "alpha")

	top := body("/?top=2&order=title&reverse=true")
	assertOrder(top, "bravo", "delta")
	if strings.Contains(top, "<td>alpha</td>") || strings.Contains(top, "<td>charlie</td>") {
		t.Error("top=2 returned more than two tasks")
	}

	search := body("/?search=a&top=1")
	assertOrder(search, "bravo")
	if strings.Contains(search, "<td>delta</td>") {
		t.Error("search combined with top returned too many tasks")
	}

	if got := body("/?order=password&reverse=maybe&top=-3"); !strings.Contains(got, "<td>alpha</td>") {
		t.Error("bad query values should fall back to defaults")
	}
}

func TestEditPage(t *testing.T) {
	e := newTestEnv(t)
	c := e.login(t, "admin", "12345")
	mine := e.seedTask(t, e.admin, "mine", domain.PriorityLow, time.Now())
	theirs := e.seedTask(t, e.other, "theirs", domain.PriorityLow, time.Now())

	rec := e.do(t, http.MethodGet, "/edit/"+itoa(mine), nil, c)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `value="mine"`) {
		t.Fatalf("own task edit: status %d", rec.Code)
	}

	for _, id := range []int64{theirs, 999} {
		rec := e.do(t, http.MethodGet, "/edit/"+itoa(id), nil, c)
		if rec.Code != http.StatusNotFound {
			t.Errorf("edit %d: status %d; want 404", id, rec.Code)
		}
		if strings.Contains(rec.Body.String(), "theirs") {
			t.Error("not-found page leaked another owner's task")
		}
	}

	if rec := e.do(t, http.MethodGet, "/edit/abc", nil, c); rec.Code != http.StatusNotFound {
		t.Errorf("non-numeric id: status %d; want 404", rec.Code)
	}
}

func TestUpdateTask(t *testing.T) {
	e := newTestEnv(t)
	c := e.login(t, "admin", "12345")
	mine := e.seedTask(t, e.admin, "mine", domain.PriorityLow, time.Now())
	theirs := e.seedTask(t, e.other, "theirs", domain.PriorityLow, time.Now())
	form := url.Values{"title": {"changed"}, "description": {"d"}, "status": {"2"}, "priority": {"1"}}

	assertRedirect(t, e.do(t, http.MethodPost, "/update-todo/"+itoa(mine), form, c), "/")
	assertRedirect(t, e.do(t, http.MethodPost, "/update-todo/"+itoa(theirs), form, c), "/")
	assertRedirect(t, e.do(t, http.MethodPost, "/update-todo/999", form, c), "/")

	got := e.tasksOf(t, e.admin)[0]
	if got.Title != "changed" || got.Status != domain.StatusDone || got.Priority != domain.PriorityMedium {
		t.Errorf("own task after update = %+v", got)
	}
	if other := e.tasksOf(t, e.other)[0]; other.Title != "theirs" {
		t.Errorf("another owner's task was modified: %+v", other)
	}
}

func TestDeleteTask(t *testing.T) {
	e := newTestEnv(t)
	c := e.login(t, "admin", "12345")
	mine := e.seedTask(t, e.admin, "mine", domain.PriorityLow, time.Now())
	theirs := e.seedTask(t, e.other, "theirs", domain.PriorityLow, time.Now())

	assertRedirect(t, e.do(t, http.MethodGet, "/delete/"+itoa(theirs)+"/", nil, c), "/")
	assertRedirect(t, e.do(t, http.MethodGet, "/delete/999/", nil, c), "/")
	if len(e.tasksOf(t, e.other)) != 1 {
		t.Fatal("deleted another owner's task")
	}

	assertRedirect(t, e.do(t, http.MethodGet, "/delete/"+itoa(mine)+"/", nil, c), "/")
	if len(e.tasksOf(t, e.admin)) != 0 {
		t.Fatal("own task not deleted")
	}
}

func TestSSODisabled(t *testing.T) {
	e := newTestEnv(t)
	for _, path := range []string{"/sso/login", "/sso/callback"} {
		if rec := e.do(t, http.MethodGet, path, nil); rec.Code != http.StatusNotFound {
			t.Errorf("%s: status %d; want 404", path, rec.Code)
		}
	}
	if strings.Contains(e.do(t, http.MethodGet, "/login", nil).Body.String(), "/sso/login") {
		t.Error("login page offers SSO while it is disabled")
	}
}

func TestStaticFiles(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/static/style.css", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "body{}" {
		t.Fatalf("static: status %d body %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("missing Cache-Control: no-store")
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
