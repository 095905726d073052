package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sandeepkv93/nexusflow/internal/httputil"
	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/service"
)

func (h *handlers) inventoryRoutes(r *mux.Router) {
	r.HandleFunc("", h.listInventory).Methods(http.MethodGet)
	r.HandleFunc("", h.createInventory).Methods(http.MethodPost)
	// bulk is registered before /{id} so it is not taken as an id
	r.HandleFunc("/bulk", h.bulkCreateInventory).Methods(http.MethodPost)
	r.HandleFunc("/bulk", h.bulkUpdateInventory).Methods(http.MethodPatch)
	r.HandleFunc("/bulk", h.bulkDeleteInventory).Methods(http.MethodDelete)
	r.HandleFunc("/{id}", h.getInventory).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.updateInventory).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/{id}", h.deleteInventory).Methods(http.MethodDelete)
}

func (h *handlers) listInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Inventory.List(r.Context(), service.InventoryFilter{Category: r.URL.Query().Get("category")})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *handlers) getInventory(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Inventory.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, item)
}

func (h *handlers) createInventory(w http.ResponseWriter, r *http.Request) {
	var in model.InventoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	item, err := h.svc.Inventory.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, item)
}

func (h *handlers) updateInventory(w http.ResponseWriter, r *http.Request) {
	var patch model.InventoryPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	item, err := h.svc.Inventory.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, item)
}

func (h *handlers) deleteInventory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Inventory.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true})
}

func (h *handlers) bulkCreateInventory(w http.ResponseWriter, r *http.Request) {
	var in []model.InventoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	items, err := h.svc.Inventory.BulkCreate(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, items)
}

func (h *handlers) bulkUpdateInventory(w http.ResponseWriter, r *http.Request) {
	var updates []model.InventoryUpdate
	if !decodeJSON(w, r, &updates) {
		return
	}
	items, err := h.svc.Inventory.BulkUpdate(r.Context(), updates)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *handlers) bulkDeleteInventory(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.Inventory.BulkDelete(r.Context(), req.IDs); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true})
}
