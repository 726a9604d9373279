package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"loan-emi/domain"
	"loan-emi/export"
	"loan-emi/service"
)

// Defaults for the query form of the schedule endpoint.
const (
	defaultAmount = 50_000.0
	defaultRate   = 10.0
	defaultMonths = 60.0
)

var errBadParameter = errors.New("invalid query parameter")

type LoanHandler struct {
	service *service.LoanService
	money   *export.Money
}

func NewLoanHandler(service *service.LoanService, money *export.Money) *LoanHandler {
	return &LoanHandler{service: service, money: money}
}

// CalculateLoan accepts loan terms as JSON and returns the dated schedule
// with its yearly summary. Dates start at today unless start is set.
func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var input domain.LoanInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.DatedSchedule(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, view)
}

// GetSchedule is the shareable form: all inputs come from the query string
// and missing ones fall back to the calculator defaults. Without view and
// format the full schedule view is returned as JSON; otherwise the monthly
// or yearly report is rendered in the requested format.
//
//	GET /loan/schedule?amount=500000&rate=9.99&months=60&start=2025-01-31&view=yearly&format=csv
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input, err := loanInputFromQuery(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := export.ParseView(q.Get("view"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadParameter, err))
		return
	}
	format := export.FormatJSON
	if f := q.Get("format"); f != "" {
		if format, err = export.ParseFormat(f); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", errBadParameter, err))
			return
		}
	}

	schedule, err := h.service.DatedSchedule(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if format == export.FormatJSON && q.Get("view") == "" {
		writeJSON(w, r, http.StatusOK, schedule)
		return
	}

	var buf bytes.Buffer
	if err := export.NewWriter(format, h.money).Write(&buf, export.NewReport(schedule, view)); err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format == export.FormatCSV || format == export.FormatPDF {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("amortization-%s.%s", view, format)))
	}
	if _, err := buf.WriteTo(w); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write response")
	}
}

func loanInputFromQuery(q url.Values) (domain.LoanInput, error) {
	input := domain.LoanInput{
		Mode:      q.Get("mode"),
		StartDate: q.Get("start"),
	}

	var err error
	if input.Amount, err = floatParam(q, "amount", defaultAmount); err != nil {
		return input, err
	}
	if input.InterestRate, err = floatParam(q, "rate", defaultRate); err != nil {
		return input, err
	}
	if input.TermMonths, err = floatParam(q, "months", defaultMonths); err != nil {
		return input, err
	}
	if input.TermYears, err = floatParam(q, "years", input.TermMonths/12); err != nil {
		return input, err
	}
	return input, nil
}

func floatParam(q url.Values, name string, fallback float64) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errBadParameter, name, raw)
	}
	return v, nil
}
