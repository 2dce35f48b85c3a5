package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"finance-cycles/internal/amortization"
	"finance-cycles/internal/calendar"
	"finance-cycles/internal/currency"
	"finance-cycles/internal/cycle"
	"finance-cycles/internal/domain"
	"finance-cycles/internal/period"
)

type handler struct {
	settings domain.Settings
	now      func() time.Time
}

func newHandler(deps Dependencies) *handler {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &handler{settings: deps.Settings, now: now}
}

type cycleRequest struct {
	Today             string `json:"today"`
	CutoffDay         int    `json:"cutoff_day"`
	PaymentDueDay     int    `json:"payment_due_day"`
	PaymentWindowDays int    `json:"payment_window_days"`
}

type cycleResponse struct {
	Start    string          `json:"start"`
	End      string          `json:"end"`
	Deadline string          `json:"deadline"`
	Progress decimal.Decimal `json:"progress"`
}

type nextDueRequest struct {
	Today      string          `json:"today"`
	Kind       domain.RuleKind `json:"kind"`
	Day        int             `json:"day"`
	WindowDays int             `json:"window_days"`
}

type nextDueResponse struct {
	NextDue  string `json:"next_due"`
	DaysLeft int    `json:"days_left"`
	DueSoon  bool   `json:"due_soon"`
}

type amortizationRequest struct {
	domain.AmortizationInput
	StartDate string `json:"start_date,omitempty"`
}

type amortizationResponse struct {
	domain.AmortizationResult
	Schedule []domain.AmortizationEntry `json:"schedule,omitempty"`
}

type periodsRequest struct {
	FinancialStartDay *int                 `json:"financial_start_day,omitempty"`
	Transactions      []domain.Transaction `json:"transactions"`
}

type periodResponse struct {
	Start        string               `json:"start"`
	End          string               `json:"end"`
	Total        decimal.Decimal      `json:"total"`
	Currency     domain.Currency      `json:"currency"`
	Transactions []domain.Transaction `json:"transactions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) ResolveCycle(w http.ResponseWriter, r *http.Request) {
	var req cycleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	today, err := h.today(req.Today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rule, err := domain.NewCardCycleRule(req.CutoffDay, req.PaymentDueDay, req.PaymentWindowDays)
	if err != nil {
		writeError(w, r, err)
		return
	}

	window := cycle.Resolve(today, rule)
	writeJSON(w, r, http.StatusOK, cycleResponse{
		Start:    window.Start.Format(time.DateOnly),
		End:      window.End.Format(time.DateOnly),
		Deadline: window.Deadline.Format(time.DateOnly),
		Progress: window.Progress,
	})
}

func (h *handler) NextDue(w http.ResponseWriter, r *http.Request) {
	var req nextDueRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	today, err := h.today(req.Today)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var rule domain.RecurrenceRule
	switch req.Kind {
	case domain.RuleRelativeWindow:
		rule, err = domain.NewRelativeWindowRule(req.Day, req.WindowDays)
	case domain.RuleFixedDay, "":
		rule, err = domain.NewFixedDayRule(req.Day)
	default:
		err = fmt.Errorf("%w: unknown rule kind %q", domain.ErrInvalidInput, req.Kind)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	due := cycle.NextOccurrence(today, rule)
	threshold := h.settings.DueSoonDays
	if threshold <= 0 {
		threshold = domain.DefaultDueSoonDays
	}
	writeJSON(w, r, http.StatusOK, nextDueResponse{
		NextDue:  due.Format(time.DateOnly),
		DaysLeft: calendar.DaysBetween(today, due),
		DueSoon:  calendar.DueWithin(today, due, threshold),
	})
}

func (h *handler) Amortize(w http.ResponseWriter, r *http.Request) {
	var req amortizationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := amortization.Calculate(req.AmortizationInput)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := amortizationResponse{AmortizationResult: result.Rounded()}

	if req.StartDate != "" {
		start, err := parseDay(req.StartDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.Schedule, err = amortization.Schedule(req.AmortizationInput, start)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *handler) Periods(w http.ResponseWriter, r *http.Request) {
	var req periodsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	startDay := h.settings.FinancialStartDay
	if req.FinancialStartDay != nil {
		startDay = *req.FinancialStartDay
	}
	startDay, err := period.ResolveStartDay(startDay)
	if err != nil {
		writeError(w, r, err)
		return
	}
	conv, err := currency.NewConverter(h.settings.ReportingCurrency, h.settings.ExchangeRates)
	if err != nil {
		writeError(w, r, err)
		return
	}

	groups := period.Bucket(req.Transactions, startDay)
	resp := make([]periodResponse, 0, len(groups))
	for _, g := range groups {
		total, err := currency.Sum(conv, g.Items)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp = append(resp, periodResponse{
			Start:        g.Period.Start.Format(time.DateOnly),
			End:          g.Period.End.Format(time.DateOnly),
			Total:        domain.RoundDisplay(total),
			Currency:     conv.Reporting,
			Transactions: g.Items,
		})
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *handler) today(raw string) (time.Time, error) {
	if raw == "" {
		return calendar.DateOnly(h.now()), nil
	}
	return parseDay(raw)
}

func parseDay(raw string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must use YYYY-MM-DD", domain.ErrInvalidInput, raw)
	}
	return t, nil
}

func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, currency.ErrMissingRate) {
		status = http.StatusBadRequest
	}
	zerolog.Ctx(r.Context()).Warn().Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
