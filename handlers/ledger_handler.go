package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/service"
	"github.com/hariomtransport/books/utils"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LedgerHandler serves the running accounts under /ledgers/{kind}/{id},
// where kind is party or supplier.
type LedgerHandler struct {
	Service *service.BookService
	Logger  *logrus.Logger
}

func ownerKind(r *http.Request) (models.OwnerKind, bool) {
	switch kind := models.OwnerKind(chi.URLParam(r, "kind")); kind {
	case models.OwnerParty, models.OwnerSupplier:
		return kind, true
	}
	return "", false
}

func loadLedger(ctx context.Context, svc *service.BookService, kind models.OwnerKind, id string) (models.Ledger, error) {
	if kind == models.OwnerSupplier {
		return svc.SupplierLedger(ctx, id)
	}
	return svc.PartyLedger(ctx, id)
}

func writeUnknownKind(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, ApiResponse{Success: false, Message: "unknown ledger kind"})
}

func (h *LedgerHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	kind, ok := ownerKind(r)
	if !ok {
		writeUnknownKind(w)
		return
	}
	l, err := loadLedger(r.Context(), h.Service, kind, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "GetLedger", err)
		return
	}
	writeOK(w, http.StatusOK, "", l)
}

func (h *LedgerHandler) RebuildLedger(w http.ResponseWriter, r *http.Request) {
	kind, ok := ownerKind(r)
	if !ok {
		writeUnknownKind(w)
		return
	}

	var (
		l      models.Ledger
		report ledger.MigrationReport
		err    error
	)
	id := chi.URLParam(r, "id")
	if kind == models.OwnerSupplier {
		l, report, err = h.Service.RebuildSupplierLedger(r.Context(), id)
	} else {
		l, report, err = h.Service.RebuildPartyLedger(r.Context(), id)
	}
	if err != nil {
		writeError(w, h.Logger, "RebuildLedger", err)
		return
	}
	writeOK(w, http.StatusOK, "Ledger rebuilt", map[string]interface{}{
		"ledger": l,
		"report": report,
	})
}

func (h *LedgerHandler) LedgerXLSX(w http.ResponseWriter, r *http.Request) {
	kind, ok := ownerKind(r)
	if !ok {
		writeUnknownKind(w)
		return
	}
	l, err := loadLedger(r.Context(), h.Service, kind, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "LedgerXLSX", err)
		return
	}

	data, err := utils.LedgerXLSX(l)
	if err != nil {
		writeError(w, h.Logger, "LedgerXLSX", err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileSafe("ledger_"+l.Name)+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// fileSafe keeps letters, digits, dash and underscore.
func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ' || r == '/':
			return '_'
		}
		return -1
	}, s)
}
