package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/service"
	"github.com/sirupsen/logrus"
)

// BankHandler serves bank entries and loading slips.
type BankHandler struct {
	Service *service.BookService
	Logger  *logrus.Logger
}

func (h *BankHandler) ListBankEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.ListBankEntries(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ListBankEntries", err)
		return
	}
	if entries == nil {
		entries = []models.BankEntry{}
	}
	writeOK(w, http.StatusOK, "", entries)
}

func (h *BankHandler) GetBankEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.GetBankEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "GetBankEntry", err)
		return
	}
	writeOK(w, http.StatusOK, "", e)
}

func (h *BankHandler) CreateBankEntry(w http.ResponseWriter, r *http.Request) {
	var e models.BankEntry
	if !decodeJSON(w, r, &e) {
		return
	}
	created, err := h.Service.CreateBankEntry(r.Context(), e)
	if err != nil {
		writeError(w, h.Logger, "CreateBankEntry", err)
		return
	}
	writeOK(w, http.StatusCreated, "Bank entry created", created)
}

func (h *BankHandler) UpdateBankEntry(w http.ResponseWriter, r *http.Request) {
	var e models.BankEntry
	if !decodeJSON(w, r, &e) {
		return
	}
	updated, err := h.Service.UpdateBankEntry(r.Context(), chi.URLParam(r, "id"), e)
	if err != nil {
		writeError(w, h.Logger, "UpdateBankEntry", err)
		return
	}
	writeOK(w, http.StatusOK, "Bank entry updated", updated)
}

func (h *BankHandler) DeleteBankEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteBankEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, "DeleteBankEntry", err)
		return
	}
	writeOK(w, http.StatusOK, "Bank entry deleted", nil)
}

func (h *BankHandler) ListLoadingSlips(w http.ResponseWriter, r *http.Request) {
	slips, err := h.Service.ListLoadingSlips(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ListLoadingSlips", err)
		return
	}
	if slips == nil {
		slips = []models.LoadingSlip{}
	}
	writeOK(w, http.StatusOK, "", slips)
}

func (h *BankHandler) GetLoadingSlip(w http.ResponseWriter, r *http.Request) {
	sl, err := h.Service.GetLoadingSlip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "GetLoadingSlip", err)
		return
	}
	writeOK(w, http.StatusOK, "", sl)
}

func (h *BankHandler) CreateLoadingSlip(w http.ResponseWriter, r *http.Request) {
	var sl models.LoadingSlip
	if !decodeJSON(w, r, &sl) {
		return
	}
	created, err := h.Service.CreateLoadingSlip(r.Context(), sl)
	if err != nil {
		writeError(w, h.Logger, "CreateLoadingSlip", err)
		return
	}
	writeOK(w, http.StatusCreated, "Loading slip created", created)
}

func (h *BankHandler) UpdateLoadingSlip(w http.ResponseWriter, r *http.Request) {
	var sl models.LoadingSlip
	if !decodeJSON(w, r, &sl) {
		return
	}
	updated, err := h.Service.UpdateLoadingSlip(r.Context(), chi.URLParam(r, "id"), sl)
	if err != nil {
		writeError(w, h.Logger, "UpdateLoadingSlip", err)
		return
	}
	writeOK(w, http.StatusOK, "Loading slip updated", updated)
}

func (h *BankHandler) DeleteLoadingSlip(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteLoadingSlip(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, "DeleteLoadingSlip", err)
		return
	}
	writeOK(w, http.StatusOK, "Loading slip deleted", nil)
}
