package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/service"
	"github.com/sirupsen/logrus"
)

type MemoHandler struct {
	Service *service.BookService
	Logger  *logrus.Logger
}

func (h *MemoHandler) ListMemos(w http.ResponseWriter, r *http.Request) {
	memos, err := h.Service.ListMemos(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ListMemos", err)
		return
	}
	if memos == nil {
		memos = []models.Memo{}
	}
	writeOK(w, http.StatusOK, "", memos)
}

func (h *MemoHandler) GetMemo(w http.ResponseWriter, r *http.Request) {
	m, err := h.Service.GetMemo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "GetMemo", err)
		return
	}
	writeOK(w, http.StatusOK, "", m)
}

func (h *MemoHandler) CreateMemo(w http.ResponseWriter, r *http.Request) {
	var m models.Memo
	if !decodeJSON(w, r, &m) {
		return
	}
	created, err := h.Service.CreateMemo(r.Context(), m)
	if err != nil {
		writeError(w, h.Logger, "CreateMemo", err)
		return
	}
	writeOK(w, http.StatusCreated, "Memo created", created)
}

func (h *MemoHandler) UpdateMemo(w http.ResponseWriter, r *http.Request) {
	var m models.Memo
	if !decodeJSON(w, r, &m) {
		return
	}
	updated, err := h.Service.UpdateMemo(r.Context(), chi.URLParam(r, "id"), m)
	if err != nil {
		writeError(w, h.Logger, "UpdateMemo", err)
		return
	}
	writeOK(w, http.StatusOK, "Memo updated", updated)
}

func (h *MemoHandler) DeleteMemo(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteMemo(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, "DeleteMemo", err)
		return
	}
	writeOK(w, http.StatusOK, "Memo deleted", nil)
}

func (h *MemoHandler) AddAdvance(w http.ResponseWriter, r *http.Request) {
	var adv models.Advance
	if !decodeJSON(w, r, &adv) {
		return
	}
	m, err := h.Service.AddMemoAdvance(r.Context(), chi.URLParam(r, "id"), adv)
	if err != nil {
		writeError(w, h.Logger, "AddAdvance", err)
		return
	}
	writeOK(w, http.StatusCreated, "Advance added", m)
}

func (h *MemoHandler) RemoveAdvance(w http.ResponseWriter, r *http.Request) {
	m, err := h.Service.RemoveMemoAdvance(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "advanceId"))
	if err != nil {
		writeError(w, h.Logger, "RemoveAdvance", err)
		return
	}
	writeOK(w, http.StatusOK, "Advance removed", m)
}

func (h *MemoHandler) PayMemo(w http.ResponseWriter, r *http.Request) {
	var form models.MemoPaymentForm
	if !decodeJSON(w, r, &form) {
		return
	}
	m, err := h.Service.PayMemo(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		writeError(w, h.Logger, "PayMemo", err)
		return
	}
	writeOK(w, http.StatusOK, "Memo payment recorded", m)
}
