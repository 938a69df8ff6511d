package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hariomtransport/books/config"
	"github.com/hariomtransport/books/service"
	"github.com/hariomtransport/books/utils"
	"github.com/sirupsen/logrus"
)

type PDFHandler struct {
	Service   *service.BookService
	Generator *utils.PDFGenerator
	// Uploader is optional; when set, saved documents are also pushed to R2.
	Uploader *utils.R2Uploader
	SavePath string
	Logger   *logrus.Logger
	Now      func() time.Time
}

func (h *PDFHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *PDFHandler) BillPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pdfBytes, err := h.Generator.BillPDF(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, "BillPDF", err)
		return
	}
	if len(pdfBytes) == 0 {
		writeJSON(w, http.StatusNotFound, ApiResponse{Success: false, Message: "no bill found"})
		return
	}
	h.deliver(w, r, "bill_"+fileSafe(id), pdfBytes)
}

func (h *PDFHandler) MemoPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pdfBytes, err := h.Generator.MemoPDF(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, "MemoPDF", err)
		return
	}
	if len(pdfBytes) == 0 {
		writeJSON(w, http.StatusNotFound, ApiResponse{Success: false, Message: "no memo found"})
		return
	}
	h.deliver(w, r, "memo_"+fileSafe(id), pdfBytes)
}

func (h *PDFHandler) LedgerPDF(w http.ResponseWriter, r *http.Request) {
	kind, ok := ownerKind(r)
	if !ok {
		writeUnknownKind(w)
		return
	}
	l, err := loadLedger(r.Context(), h.Service, kind, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "LedgerPDF", err)
		return
	}
	pdfBytes, err := h.Generator.LedgerPDF(r.Context(), l)
	if err != nil {
		writeError(w, h.Logger, "LedgerPDF", err)
		return
	}
	h.deliver(w, r, "ledger_"+fileSafe(l.Name), pdfBytes)
}

// deliver streams the document when ?download=1 is set. Otherwise it is
// written under SavePath, uploaded when an uploader is configured, and the
// file name and public URL are returned.
func (h *PDFHandler) deliver(w http.ResponseWriter, r *http.Request, base string, pdfBytes []byte) {
	filename := fmt.Sprintf("%s_%d.pdf", base, h.now().Unix())

	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdfBytes)
		return
	}

	saveDir := h.SavePath
	if saveDir == "" {
		saveDir = "./pdfs"
	}
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		writeError(w, h.Logger, "deliver", fmt.Errorf("create save directory: %w", err))
		return
	}
	if err := os.WriteFile(filepath.Join(saveDir, filename), pdfBytes, 0644); err != nil {
		writeError(w, h.Logger, "deliver", fmt.Errorf("save pdf: %w", err))
		return
	}

	data := map[string]string{"file": filename}
	if h.Uploader != nil {
		url, err := h.upload(r.Context(), filename, pdfBytes)
		if err != nil {
			// The local copy is already saved.
			config.LogError(h.Logger, moduleName, "deliver", "r2 upload failed", logrus.Fields{"file": filename}, err)
		} else {
			data["url"] = url
		}
	}
	writeOK(w, http.StatusOK, "PDF generated", data)
}

func (h *PDFHandler) upload(ctx context.Context, filename string, pdfBytes []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return h.Uploader.Upload(ctx, pdfBytes, filename, "application/pdf")
}
