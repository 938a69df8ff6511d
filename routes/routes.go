package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hariomtransport/books/handlers"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Party       *handlers.PartyHandler
	Bill        *handlers.BillHandler
	Memo        *handlers.MemoHandler
	Bank        *handlers.BankHandler
	Ledger      *handlers.LedgerHandler
	Maintenance *handlers.MaintenanceHandler
	Initial     *handlers.InitialHandler
	PDF         *handlers.PDFHandler
}

func SetupRoutes(h Handlers, allowedOrigins []string, logger *logrus.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(handlers.RecoverWrapper(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/parties", func(r chi.Router) {
		r.Get("/", h.Party.ListParties)
		r.Post("/", h.Party.CreateParty)
		r.Get("/{id}", h.Party.GetParty)
		r.Put("/{id}", h.Party.UpdateParty)
		r.Delete("/{id}", h.Party.DeleteParty)
		r.Get("/{id}/bills", h.Party.PartyBills)
	})

	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", h.Party.ListSuppliers)
		r.Post("/", h.Party.CreateSupplier)
		r.Get("/{id}", h.Party.GetSupplier)
		r.Put("/{id}", h.Party.UpdateSupplier)
		r.Delete("/{id}", h.Party.DeleteSupplier)
		r.Get("/{id}/memos", h.Party.SupplierMemos)
	})

	r.Route("/bills", func(r chi.Router) {
		r.Get("/", h.Bill.ListBills)
		r.Post("/", h.Bill.CreateBill)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Bill.GetBill)
			r.Put("/", h.Bill.UpdateBill)
			r.Delete("/", h.Bill.DeleteBill)
			r.Post("/payments", h.Bill.ApplyPayment)
			r.Post("/advances", h.Bill.AddAdvance)
			r.Delete("/advances/{advanceId}", h.Bill.RemoveAdvance)
			r.Post("/received", h.Bill.MarkReceived)
			r.Get("/pdf", h.PDF.BillPDF)
		})
	})

	r.Route("/memos", func(r chi.Router) {
		r.Get("/", h.Memo.ListMemos)
		r.Post("/", h.Memo.CreateMemo)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Memo.GetMemo)
			r.Put("/", h.Memo.UpdateMemo)
			r.Delete("/", h.Memo.DeleteMemo)
			r.Post("/advances", h.Memo.AddAdvance)
			r.Delete("/advances/{advanceId}", h.Memo.RemoveAdvance)
			r.Post("/pay", h.Memo.PayMemo)
			r.Get("/pdf", h.PDF.MemoPDF)
		})
	})

	r.Route("/bank-entries", func(r chi.Router) {
		r.Get("/", h.Bank.ListBankEntries)
		r.Post("/", h.Bank.CreateBankEntry)
		r.Get("/{id}", h.Bank.GetBankEntry)
		r.Put("/{id}", h.Bank.UpdateBankEntry)
		r.Delete("/{id}", h.Bank.DeleteBankEntry)
	})

	r.Route("/loading-slips", func(r chi.Router) {
		r.Get("/", h.Bank.ListLoadingSlips)
		r.Post("/", h.Bank.CreateLoadingSlip)
		r.Get("/{id}", h.Bank.GetLoadingSlip)
		r.Put("/{id}", h.Bank.UpdateLoadingSlip)
		r.Delete("/{id}", h.Bank.DeleteLoadingSlip)
	})

	// kind is party or supplier
	r.Route("/ledgers/{kind}/{id}", func(r chi.Router) {
		r.Get("/", h.Ledger.GetLedger)
		r.Post("/rebuild", h.Ledger.RebuildLedger)
		r.Get("/pdf", h.PDF.LedgerPDF)
		r.Get("/xlsx", h.Ledger.LedgerXLSX)
	})

	r.Route("/maintenance", func(r chi.Router) {
		r.Post("/fix-balances", h.Maintenance.FixBalances)
		r.Post("/validate", h.Maintenance.ValidateBalances)
		r.Post("/reconcile", h.Maintenance.ReconcileLedgers)
		r.Get("/consistency", h.Maintenance.CheckConsistency)
		r.Post("/consistency", h.Maintenance.RepairConsistency)
	})

	r.Route("/initial", func(r chi.Router) {
		r.Get("/", h.Initial.GetInitial)
		r.Post("/", h.Initial.SaveInitial)
	})

	return r
}
