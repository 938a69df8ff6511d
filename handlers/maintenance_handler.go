package handlers

import (
	"net/http"

	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/service"
	"github.com/sirupsen/logrus"
)

type MaintenanceHandler struct {
	Service *service.BookService
	Logger  *logrus.Logger
}

func (h *MaintenanceHandler) FixBalances(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.FixAllBalances(r.Context())
	if err != nil {
		writeError(w, h.Logger, "FixBalances", err)
		return
	}
	writeOK(w, http.StatusOK, "Balances recomputed", report)
}

func (h *MaintenanceHandler) ValidateBalances(w http.ResponseWriter, r *http.Request) {
	corrections, err := h.Service.ValidateBalances(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ValidateBalances", err)
		return
	}
	if corrections == nil {
		corrections = []service.BalanceCorrection{}
	}
	writeOK(w, http.StatusOK, "Balances validated", corrections)
}

func (h *MaintenanceHandler) ReconcileLedgers(w http.ResponseWriter, r *http.Request) {
	reports, err := h.Service.ReconcileLedgers(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ReconcileLedgers", err)
		return
	}
	if reports == nil {
		reports = []ledger.MigrationReport{}
	}
	writeOK(w, http.StatusOK, "Ledgers reconciled", reports)
}

func (h *MaintenanceHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	issues, err := h.Service.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, h.Logger, "CheckConsistency", err)
		return
	}
	if issues == nil {
		issues = []ledger.Issue{}
	}
	writeOK(w, http.StatusOK, "", issues)
}

func (h *MaintenanceHandler) RepairConsistency(w http.ResponseWriter, r *http.Request) {
	results, err := h.Service.RepairConsistency(r.Context())
	if err != nil {
		writeError(w, h.Logger, "RepairConsistency", err)
		return
	}
	if results == nil {
		results = []service.RepairResult{}
	}
	writeOK(w, http.StatusOK, "Consistency repair finished", results)
}
