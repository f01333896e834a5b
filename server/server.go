// Package server serves the purchases, the settings and the dashboard as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	tracker "github.com/matias9477/btc-investment-tracker"
	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/matias9477/btc-investment-tracker/store"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultRefreshSchedule refreshes the bitcoin price every minute, the price source cooldown.
const DefaultRefreshSchedule = "@every 1m"

// Prices is the bitcoin price source.
type Prices interface {
	Latest(ctx context.Context) (tracker.Quote, error)
	Refresh(ctx context.Context, force bool) (tracker.Quote, error)
	On(ctx context.Context, d date.Date) (tracker.Money, error)
}

// Server is the HTTP API. It implements http.Handler.
type Server struct {
	store  store.Store
	prices Prices
	log    logrus.FieldLogger
	router *mux.Router
	today  func() date.Date
	now    func() time.Time
}

// New returns the API over s and prices.
func New(s store.Store, prices Prices, log logrus.FieldLogger) *Server {
	srv := &Server{
		store:  s,
		prices: prices,
		log:    log,
		router: mux.NewRouter(),
		today:  date.Today,
		now:    time.Now,
	}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.logRequests)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, http.StatusNotFound, errors.New("not found"))
	})

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", s.dashboard).Methods(http.MethodGet)
	api.HandleFunc("/price", s.price).Methods(http.MethodGet)
	api.HandleFunc("/purchases", s.listPurchases).Methods(http.MethodGet)
	api.HandleFunc("/purchases", s.addPurchase).Methods(http.MethodPost)
	api.HandleFunc("/purchases/{id}", s.getPurchase).Methods(http.MethodGet)
	api.HandleFunc("/purchases/{id}", s.updatePurchase).Methods(http.MethodPut)
	api.HandleFunc("/purchases/{id}", s.deletePurchase).Methods(http.MethodDelete)
	api.HandleFunc("/settings", s.getSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.updateSettings).Methods(http.MethodPut)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Schedule adds the price refresh to c on spec, a cron expression.
func (s *Server) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.prices.Refresh(ctx, false); err != nil {
			s.log.WithError(err).Warn("scheduled price refresh failed")
		}
	})
}

// ListenAndServe serves the API on addr and refreshes the price on schedule
// until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr, schedule string) error {
	c := cron.New()
	if _, err := s.Schedule(c, schedule); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	server := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdown); err != nil {
			s.log.WithError(err).Warn("shutdown")
		}
	}()

	s.log.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
