package adapthttp

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"todolist/internal/app"
	"todolist/internal/domain"

	"github.com/gorilla/mux"
)

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	q := domain.TaskQuery{
		Order:   domain.ParseOrderField(r.URL.Query().Get("order")),
		Reverse: boolQuery(r, "reverse"),
		Search:  r.URL.Query().Get("search"),
		Top:     intQuery(r, "top", 0),
	}

	tasks, err := s.tasks.List(r.Context(), user.ID, q)
	if err != nil {
		log.Printf("list tasks for %s: %v", user.Login, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, http.StatusOK, "todos.html", listView{
		LoggedAs: user.Login,
		Tasks:    tasks,
		Search:   q.Search,
		Top:      q.Top,
		Order:    q.Order.String(),
		Reverse:  q.Reverse,
	})
}

func (s *Server) handleAddPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "add.html", newFormView(userFromContext(r), nil))
}

func (s *Server) handleEditPage(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	id, ok := taskID(r)
	if !ok {
		s.render(w, http.StatusNotFound, "not_found.html", nil)
		return
	}

	task, err := s.tasks.Get(r.Context(), user.ID, id)
	if errors.Is(err, app.ErrTaskNotFound) {
		s.render(w, http.StatusNotFound, "not_found.html", nil)
		return
	}
	if err != nil {
		log.Printf("get task %d: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, http.StatusOK, "edit.html", newFormView(user, task))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	in, err := taskInputFromForm(r)
	if err != nil {
		log.Printf("create task: %v", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if _, err := s.tasks.Create(r.Context(), user.ID, in); err != nil {
		log.Printf("create task: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	id, ok := taskID(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	in, err := taskInputFromForm(r)
	if err != nil {
		log.Printf("update task %d: %v", id, err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err := s.tasks.Update(r.Context(), user.ID, id, in); err != nil {
		log.Printf("update task %d: %v", id, err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	if id, ok := taskID(r); ok {
		if err := s.tasks.Delete(r.Context(), user.ID, id); err != nil {
			log.Printf("delete task %d: %v", id, err)
		}
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func taskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func taskInputFromForm(r *http.Request) (domain.TaskInput, error) {
	status, err := domain.ParseStatus(r.PostFormValue("status"))
	if err != nil {
		return domain.TaskInput{}, err
	}
	priority, err := domain.ParsePriority(r.PostFormValue("priority"))
	if err != nil {
		return domain.TaskInput{}, err
	}
	return domain.TaskInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Status:      status,
		Priority:    priority,
	}, nil
}
