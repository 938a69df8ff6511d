package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/service"
	"github.com/sirupsen/logrus"
)

type BillHandler struct {
	Service *service.BookService
	Logger  *logrus.Logger
}

func (h *BillHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.Service.ListBills(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ListBills", err)
		return
	}
	if bills == nil {
		bills = []models.Bill{}
	}
	writeOK(w, http.StatusOK, "", bills)
}

func (h *BillHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.GetBill(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "GetBill", err)
		return
	}
	writeOK(w, http.StatusOK, "", b)
}

func (h *BillHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var b models.Bill
	if !decodeJSON(w, r, &b) {
		return
	}
	created, err := h.Service.CreateBill(r.Context(), b)
	if err != nil {
		writeError(w, h.Logger, "CreateBill", err)
		return
	}
	writeOK(w, http.StatusCreated, "Bill created", created)
}

func (h *BillHandler) UpdateBill(w http.ResponseWriter, r *http.Request) {
	var b models.Bill
	if !decodeJSON(w, r, &b) {
		return
	}
	updated, err := h.Service.UpdateBill(r.Context(), chi.URLParam(r, "id"), b)
	if err != nil {
		writeError(w, h.Logger, "UpdateBill", err)
		return
	}
	writeOK(w, http.StatusOK, "Bill updated", updated)
}

func (h *BillHandler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteBill(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, "DeleteBill", err)
		return
	}
	writeOK(w, http.StatusOK, "Bill deleted", nil)
}

func (h *BillHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	var form models.PaymentForm
	if !decodeJSON(w, r, &form) {
		return
	}
	res, err := h.Service.ApplyPayment(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		writeError(w, h.Logger, "ApplyPayment", err)
		return
	}
	writeOK(w, http.StatusCreated, "Payment recorded", map[string]interface{}{
		"payment":        res.Payment,
		"updated_bill":   res.UpdatedBill,
		"ledger_entries": res.LedgerEntries,
	})
}

func (h *BillHandler) AddAdvance(w http.ResponseWriter, r *http.Request) {
	var adv models.Advance
	if !decodeJSON(w, r, &adv) {
		return
	}
	b, err := h.Service.AddBillAdvance(r.Context(), chi.URLParam(r, "id"), adv)
	if err != nil {
		writeError(w, h.Logger, "AddAdvance", err)
		return
	}
	writeOK(w, http.StatusCreated, "Advance added", b)
}

func (h *BillHandler) RemoveAdvance(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.RemoveBillAdvance(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "advanceId"))
	if err != nil {
		writeError(w, h.Logger, "RemoveAdvance", err)
		return
	}
	writeOK(w, http.StatusOK, "Advance removed", b)
}

func (h *BillHandler) MarkReceived(w http.ResponseWriter, r *http.Request) {
	var form models.ReceivedForm
	if !decodeJSON(w, r, &form) {
		return
	}
	b, err := h.Service.MarkReceived(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		writeError(w, h.Logger, "MarkReceived", err)
		return
	}
	writeOK(w, http.StatusOK, "Bill marked as received", b)
}
