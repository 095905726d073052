package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sandeepkv93/nexusflow/internal/httputil"
	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/service"
)

func (h *handlers) taskRoutes(r *mux.Router) {
	r.HandleFunc("", h.listTasks).Methods(http.MethodGet)
	r.HandleFunc("", h.createTask).Methods(http.MethodPost)
	r.HandleFunc("/{id}", h.getTask).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.updateTask).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/{id}", h.deleteTask).Methods(http.MethodDelete)
}

func (h *handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	filter := service.TaskFilter{Status: model.TaskStatus(r.URL.Query().Get("status"))}
	tasks, err := h.svc.Tasks.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tasks)
}

func (h *handlers) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.svc.Tasks.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *handlers) createTask(w http.ResponseWriter, r *http.Request) {
	var in model.TaskInput
	if !decodeJSON(w, r, &in) {
		return
	}
	task, err := h.svc.Tasks.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, task)
}

func (h *handlers) updateTask(w http.ResponseWriter, r *http.Request) {
	var patch model.TaskPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	task, err := h.svc.Tasks.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *handlers) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Tasks.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
