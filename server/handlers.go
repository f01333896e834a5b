package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	tracker "github.com/matias9477/btc-investment-tracker"
	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/matias9477/btc-investment-tracker/numeric"
	"github.com/matias9477/btc-investment-tracker/store"
	"github.com/sirupsen/logrus"
)

// text is a value as the user typed it. Numbers are accepted too.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected a string or a number, got %s", b)
	}
	*t = text(n)
	return nil
}

// optional is a text that can be absent, null or empty. Null and empty both clear the value.
type optional struct {
	set   bool
	value text
}

func (o *optional) UnmarshalJSON(b []byte) error {
	o.set = true
	return o.value.UnmarshalJSON(b)
}

func (o optional) clear() bool { return strings.TrimSpace(string(o.value)) == "" }

// purchaseRequest is the body of POST and PUT on purchases.
type purchaseRequest struct {
	Date   text `json:"date"` // DD/MM/YYYY, today when empty
	Price  text `json:"price"`
	Amount text `json:"amount"`
	Spent  text `json:"spent"`
}

// settingsRequest is the body of PUT on settings, absent fields are left unchanged.
type settingsRequest struct {
	InterestEnabled    *bool    `json:"interestEnabled"`
	AnnualInterestRate optional `json:"annualInterestRate"`
	ManualBalance      optional `json:"manualBalance"`
}

type dashboardResponse struct {
	Quote     tracker.Quote    `json:"quote"`
	Metrics   tracker.Metrics  `json:"metrics"`
	Settings  tracker.Settings `json:"settings"`
	Purchases int              `json:"purchases"`
}

type priceResponse struct {
	Date  date.Date     `json:"date"`
	Price tracker.Money `json:"price"`
}

// errBadRequest wraps malformed bodies and parameters.
var errBadRequest = errors.New("bad request")

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// status maps an error to the HTTP status reporting it.
func status(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, tracker.ErrNoPrice):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, tracker.ErrInvalidDate),
		errors.Is(err, tracker.ErrInvalidPrice),
		errors.Is(err, tracker.ErrInvalidAmount),
		errors.Is(err, tracker.ErrInvalidSpent),
		errors.Is(err, tracker.ErrInvalidSettings),
		errors.Is(err, numeric.ErrNotANumber):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) reply(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("cannot write response")
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.log.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).WithError(err).Error("internal error")
	}
	s.reply(w, code, map[string]string{"error": err.Error()})
}

func (s *Server) failErr(w http.ResponseWriter, r *http.Request, err error) {
	s.fail(w, r, status(err), err)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	purchases, err := s.store.Purchases(ctx)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	settings, err := s.store.Settings(ctx)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	quote, err := s.prices.Latest(ctx)
	if err != nil {
		s.fail(w, r, http.StatusBadGateway, err)
		return
	}
	s.reply(w, http.StatusOK, dashboardResponse{
		Quote:     quote,
		Metrics:   tracker.ComputeMetrics(purchases, &settings, quote.Price),
		Settings:  settings,
		Purchases: len(purchases),
	})
}

// price returns the live quote, or the price on the day given by the "on" parameter.
func (s *Server) price(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw := r.URL.Query().Get("on")
	if raw == "" {
		quote, err := s.prices.Latest(ctx)
		if err != nil {
			s.fail(w, r, http.StatusBadGateway, err)
			return
		}
		s.reply(w, http.StatusOK, quote)
		return
	}

	d, ok := date.ParseInputAsOf(raw, s.today())
	if !ok {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("%w: %q is not a DD/MM/YYYY day between 1900 and today", tracker.ErrInvalidDate, raw))
		return
	}
	price, err := s.prices.On(ctx, d)
	switch {
	case errors.Is(err, tracker.ErrNoPrice):
		s.fail(w, r, http.StatusNotFound, err)
	case err != nil:
		s.fail(w, r, http.StatusBadGateway, err)
	default:
		s.reply(w, http.StatusOK, priceResponse{Date: d, Price: price})
	}
}

func (s *Server) listPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := s.store.Purchases(r.Context())
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	if purchases == nil {
		purchases = []tracker.Purchase{}
	}
	s.reply(w, http.StatusOK, purchases)
}

func (s *Server) getPurchase(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Purchase(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, p)
}

// parsePurchase reads a purchase request body.
func (s *Server) parsePurchase(r *http.Request) (tracker.Purchase, error) {
	var req purchaseRequest
	if err := decode(r, &req); err != nil {
		return tracker.Purchase{}, err
	}
	today := s.today()
	on := string(req.Date)
	if strings.TrimSpace(on) == "" {
		on = today.InputFormat()
	}
	return tracker.ParsePurchaseAsOf(on, string(req.Price), string(req.Amount), string(req.Spent), today)
}

func (s *Server) addPurchase(w http.ResponseWriter, r *http.Request) {
	p, err := s.parsePurchase(r)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	added, err := s.store.AddPurchase(r.Context(), p)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.reply(w, http.StatusCreated, added)
}

// updatePurchase replaces every field of a purchase but its identity.
func (s *Server) updatePurchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.parsePurchase(r)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	p.ID = mux.Vars(r)["id"]
	if err := s.store.UpdatePurchase(ctx, p); err != nil {
		s.failErr(w, r, err)
		return
	}
	updated, err := s.store.Purchase(ctx, p.ID)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, updated)
}

func (s *Server) deletePurchase(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePurchase(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.failErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.Settings(r.Context())
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, settings)
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req settingsRequest
	if err := decode(r, &req); err != nil {
		s.failErr(w, r, err)
		return
	}
	settings, err := s.store.Settings(ctx)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	settings, err = applySettings(settings, req, s.now())
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	if err := s.store.UpdateSettings(ctx, settings); err != nil {
		s.failErr(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, settings)
}

// applySettings returns settings with the fields of req applied.
func applySettings(settings tracker.Settings, req settingsRequest, now time.Time) (tracker.Settings, error) {
	if req.InterestEnabled != nil {
		settings = settings.WithInterest(*req.InterestEnabled, now)
	}
	if o := req.AnnualInterestRate; o.set {
		var rate *tracker.Percent
		if !o.clear() {
			p, err := tracker.ParsePercent(string(o.value))
			if err != nil {
				return settings, fmt.Errorf("annual interest rate: %w", err)
			}
			rate = &p
		}
		settings = settings.WithInterestRate(rate, now)
	}
	if o := req.ManualBalance; o.set {
		var balance *tracker.Quantity
		if !o.clear() {
			q, err := tracker.ParseQuantity(string(o.value))
			if err != nil {
				return settings, fmt.Errorf("manual balance: %w", err)
			}
			balance = &q
		}
		settings = settings.WithManualBalance(balance, now)
	}
	return settings, settings.Validate()
}
