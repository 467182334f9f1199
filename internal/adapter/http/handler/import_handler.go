package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/iho/bankrecon/internal/adapter/http/dto"
	"github.com/iho/bankrecon/internal/usecase"
)

// DefaultMaxStatementBytes caps an import request body.
const DefaultMaxStatementBytes = 10 << 20

// ImportService defines the behavior needed by ImportHandler.
type ImportService interface {
	Preview(ctx context.Context, input usecase.ImportInput) (*usecase.ImportPreview, error)
	Confirm(ctx context.Context, input usecase.ImportInput) (*usecase.ImportReport, error)
}

// ImportHandler handles statement imports.
type ImportHandler struct {
	importUC ImportService
	maxBytes int64
}

// NewImportHandler creates a new ImportHandler. A non-positive maxBytes
// uses DefaultMaxStatementBytes.
func NewImportHandler(importUC ImportService, maxBytes int64) *ImportHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxStatementBytes
	}
	return &ImportHandler{importUC: importUC, maxBytes: maxBytes}
}

// Preview parses and balances a statement without storing anything.
func (h *ImportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}

	preview, err := h.importUC.Preview(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to preview import", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PreviewFromUseCase(preview))
}

// Confirm imports a statement into the ledger.
func (h *ImportHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}

	report, err := h.importUC.Confirm(r.Context(), input)
	if err != nil {
		var halted *usecase.SubmissionError
		if errors.As(err, &halted) && report != nil {
			writeJSON(w, http.StatusBadGateway, dto.ErrorResponse{
				Error:   "import halted",
				Message: err.Error(),
				Report:  dto.ImportReportFromUseCase(report),
			})
			return
		}
		writeDomainError(w, "failed to import statement", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ImportReportFromUseCase(report))
}

// decode reads either a JSON body or a multipart form whose "statement"
// part is the file and whose other fields mirror the JSON keys.
func (h *ImportHandler) decode(w http.ResponseWriter, r *http.Request) (usecase.ImportInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	var req dto.ImportRequest
	var err error

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		err = decodeMultipart(r, h.maxBytes, &req)
	} else {
		err = json.NewDecoder(r.Body).Decode(&req)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "statement too large",
				fmt.Sprintf("limit is %d bytes", h.maxBytes))
			return usecase.ImportInput{}, false
		}
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return usecase.ImportInput{}, false
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid import settings", err.Error())
		return usecase.ImportInput{}, false
	}

	return input, true
}

func decodeMultipart(r *http.Request, maxBytes int64, req *dto.ImportRequest) error {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return err
	}

	req.CompanyID = r.FormValue("company_id")
	req.FiscalYearID = r.FormValue("fiscal_year_id")
	req.Mode = r.FormValue("mode")
	req.CounterpartAccount = r.FormValue("counterpart_account")
	req.Delimiter = r.FormValue("delimiter")

	if raw := r.FormValue("assignments"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Assignments); err != nil {
			return fmt.Errorf("assignments: %w", err)
		}
	}

	file, _, err := r.FormFile("statement")
	if err != nil {
		return fmt.Errorf("statement: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	req.Statement = string(data)

	return nil
}
