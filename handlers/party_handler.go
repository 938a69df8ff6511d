package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/service"
	"github.com/sirupsen/logrus"
)

// PartyHandler serves parties (who are billed) and suppliers (who are
// paid through memos).
type PartyHandler struct {
	Service *service.BookService
	Logger  *logrus.Logger
}

func (h *PartyHandler) ListParties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.Service.ListParties(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ListParties", err)
		return
	}
	if parties == nil {
		parties = []models.Party{}
	}
	writeOK(w, http.StatusOK, "", parties)
}

func (h *PartyHandler) GetParty(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetParty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "GetParty", err)
		return
	}
	writeOK(w, http.StatusOK, "", p)
}

func (h *PartyHandler) PartyBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.Service.BillsByParty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "PartyBills", err)
		return
	}
	if bills == nil {
		bills = []models.Bill{}
	}
	writeOK(w, http.StatusOK, "", bills)
}

func (h *PartyHandler) CreateParty(w http.ResponseWriter, r *http.Request) {
	var p models.Party
	if !decodeJSON(w, r, &p) {
		return
	}
	created, err := h.Service.CreateParty(r.Context(), p)
	if err != nil {
		writeError(w, h.Logger, "CreateParty", err)
		return
	}
	writeOK(w, http.StatusCreated, "Party created", created)
}

func (h *PartyHandler) UpdateParty(w http.ResponseWriter, r *http.Request) {
	var p models.Party
	if !decodeJSON(w, r, &p) {
		return
	}
	updated, err := h.Service.UpdateParty(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		writeError(w, h.Logger, "UpdateParty", err)
		return
	}
	writeOK(w, http.StatusOK, "Party updated", updated)
}

func (h *PartyHandler) DeleteParty(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteParty(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, "DeleteParty", err)
		return
	}
	writeOK(w, http.StatusOK, "Party deleted", nil)
}

func (h *PartyHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.Service.ListSuppliers(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ListSuppliers", err)
		return
	}
	if suppliers == nil {
		suppliers = []models.Supplier{}
	}
	writeOK(w, http.StatusOK, "", suppliers)
}

func (h *PartyHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	sp, err := h.Service.GetSupplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "GetSupplier", err)
		return
	}
	writeOK(w, http.StatusOK, "", sp)
}

func (h *PartyHandler) SupplierMemos(w http.ResponseWriter, r *http.Request) {
	memos, err := h.Service.MemosBySupplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "SupplierMemos", err)
		return
	}
	if memos == nil {
		memos = []models.Memo{}
	}
	writeOK(w, http.StatusOK, "", memos)
}

func (h *PartyHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var sp models.Supplier
	if !decodeJSON(w, r, &sp) {
		return
	}
	created, err := h.Service.CreateSupplier(r.Context(), sp)
	if err != nil {
		writeError(w, h.Logger, "CreateSupplier", err)
		return
	}
	writeOK(w, http.StatusCreated, "Supplier created", created)
}

func (h *PartyHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var sp models.Supplier
	if !decodeJSON(w, r, &sp) {
		return
	}
	updated, err := h.Service.UpdateSupplier(r.Context(), chi.URLParam(r, "id"), sp)
	if err != nil {
		writeError(w, h.Logger, "UpdateSupplier", err)
		return
	}
	writeOK(w, http.StatusOK, "Supplier updated", updated)
}

func (h *PartyHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteSupplier(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, "DeleteSupplier", err)
		return
	}
	writeOK(w, http.StatusOK, "Supplier deleted", nil)
}
