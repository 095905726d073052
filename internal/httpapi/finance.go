package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sandeepkv93/nexusflow/internal/httputil"
	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/service"
)

func (h *handlers) financeRoutes(r *mux.Router) {
	r.HandleFunc("", h.listTransactions).Methods(http.MethodGet)
	r.HandleFunc("", h.createTransaction).Methods(http.MethodPost)
	r.HandleFunc("/stats", h.financeStats).Methods(http.MethodPost)
	r.HandleFunc("/{id}", h.getTransaction).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.updateTransaction).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/{id}", h.deleteTransaction).Methods(http.MethodDelete)
}

// listTransactions accepts optional type, from and to query parameters.
func (h *handlers) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseTimeParam(q.Get("from"))
	if err != nil {
		writeServiceError(w, r, service.Invalid("from", err.Error()))
		return
	}
	to, err := parseTimeParam(q.Get("to"))
	if err != nil {
		writeServiceError(w, r, service.Invalid("to", err.Error()))
		return
	}
	txs, err := h.svc.Finance.List(r.Context(), service.TransactionFilter{
		Type: model.TransactionType(q.Get("type")),
		From: from,
		To:   to,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, txs)
}

func (h *handlers) getTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.svc.Finance.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tx)
}

func (h *handlers) createTransaction(w http.ResponseWriter, r *http.Request) {
	var in model.TransactionInput
	if !decodeJSON(w, r, &in) {
		return
	}
	tx, err := h.svc.Finance.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tx)
}

func (h *handlers) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var patch model.TransactionPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	tx, err := h.svc.Finance.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tx)
}

func (h *handlers) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Finance.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true})
}

func (h *handlers) financeStats(w http.ResponseWriter, r *http.Request) {
	var dr model.DateRange
	if !decodeJSON(w, r, &dr) {
		return
	}
	stats, err := h.svc.Finance.Stats(r.Context(), dr)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
