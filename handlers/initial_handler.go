package handlers

import (
	"net/http"

	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/service"
	"github.com/sirupsen/logrus"
)

type InitialHandler struct {
	Service *service.BookService
	Logger  *logrus.Logger
}

func (h *InitialHandler) SaveInitial(w http.ResponseWriter, r *http.Request) {
	var initial models.InitialSetup
	if !decodeJSON(w, r, &initial) {
		return
	}

	saved, err := h.Service.SaveInitial(r.Context(), initial)
	if err != nil {
		writeError(w, h.Logger, "SaveInitial", err)
		return
	}
	writeOK(w, http.StatusCreated, "Company details saved", saved)
}

func (h *InitialHandler) GetInitial(w http.ResponseWriter, r *http.Request) {
	initial, err := h.Service.GetInitial(r.Context())
	if err != nil {
		writeError(w, h.Logger, "GetInitial", err)
		return
	}
	writeOK(w, http.StatusOK, "", initial)
}
