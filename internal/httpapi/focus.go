package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sandeepkv93/nexusflow/internal/httputil"
	"github.com/sandeepkv93/nexusflow/internal/model"
)

func (h *handlers) focusRoutes(r *mux.Router) {
	r.HandleFunc("", h.listFocusSessions).Methods(http.MethodGet)
	r.HandleFunc("", h.createFocusSession).Methods(http.MethodPost)
	r.HandleFunc("/stats", h.focusStats).Methods(http.MethodPost)

	presets := r.PathPrefix("/presets").Subrouter()
	presets.HandleFunc("", h.listPresets).Methods(http.MethodGet)
	presets.HandleFunc("", h.createPreset).Methods(http.MethodPost)
	presets.HandleFunc("/{id}", h.getPreset).Methods(http.MethodGet)
	presets.HandleFunc("/{id}", h.updatePreset).Methods(http.MethodPut, http.MethodPatch)
	presets.HandleFunc("/{id}", h.deletePreset).Methods(http.MethodDelete)

	r.HandleFunc("/{id}", h.getFocusSession).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.updateFocusSession).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/{id}", h.deleteFocusSession).Methods(http.MethodDelete)
	r.HandleFunc("/{id}/complete", h.completeFocusSession).Methods(http.MethodPost)
}

func (h *handlers) listFocusSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.Focus.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessions)
}

func (h *handlers) getFocusSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.Focus.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *handlers) createFocusSession(w http.ResponseWriter, r *http.Request) {
	var in model.FocusSessionInput
	if !decodeJSON(w, r, &in) {
		return
	}
	session, err := h.svc.Focus.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, session)
}

func (h *handlers) updateFocusSession(w http.ResponseWriter, r *http.Request) {
	var patch model.FocusSessionPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	session, err := h.svc.Focus.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *handlers) deleteFocusSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Focus.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true})
}

func (h *handlers) completeFocusSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.Focus.Complete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *handlers) focusStats(w http.ResponseWriter, r *http.Request) {
	var dr model.DateRange
	if !decodeJSON(w, r, &dr) {
		return
	}
	stats, err := h.svc.Focus.Stats(r.Context(), dr)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *handlers) listPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := h.svc.Focus.ListPresets(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, presets)
}

func (h *handlers) getPreset(w http.ResponseWriter, r *http.Request) {
	preset, err := h.svc.Focus.GetPreset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, preset)
}

func (h *handlers) createPreset(w http.ResponseWriter, r *http.Request) {
	var in model.FocusPresetInput
	if !decodeJSON(w, r, &in) {
		return
	}
	preset, err := h.svc.Focus.CreatePreset(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, preset)
}

func (h *handlers) updatePreset(w http.ResponseWriter, r *http.Request) {
	var patch model.FocusPresetPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	preset, err := h.svc.Focus.UpdatePreset(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, preset)
}

func (h *handlers) deletePreset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Focus.DeletePreset(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true})
}
