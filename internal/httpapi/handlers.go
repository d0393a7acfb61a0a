package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/la-lenera/internal/compose"
	"github.com/Veraticus/la-lenera/internal/cooldown"
	"github.com/Veraticus/la-lenera/internal/hours"
	"github.com/Veraticus/la-lenera/internal/model"
	"github.com/Veraticus/la-lenera/internal/order"
	"github.com/Veraticus/la-lenera/internal/sequencer"
	"github.com/Veraticus/la-lenera/internal/testimonials"
	"github.com/Veraticus/la-lenera/internal/tui/themes"
)

const requestTimeout = 2 * time.Second

// Order request errors.
var (
	errUnknownBundle  = errors.New("unknown bundle")
	errInvalidZone    = errors.New("zone must be chosen from the suggestions")
	errInvalidPayment = errors.New("unknown payment method")
	errCoolingDown    = errors.New("cooling down")
)

type statusResponse struct {
	Schedule   model.Schedule `json:"schedule"`
	Label      string         `json:"label"`
	Commitment string         `json:"commitment"`
	City       string         `json:"city"`
	Open       bool           `json:"open"`
}

type suggestionsResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
	Valid       bool     `json:"valid"`
}

type validationResponse struct {
	Checkpoints []sequencer.Checkpoint `json:"checkpoints"`
	IntervalMS  int64                  `json:"interval_ms"`
}

type composeRequest struct {
	Bundle   string `json:"bundle"`
	Zone     string `json:"zone"`
	Payment  string `json:"payment"`
	Attempt  string `json:"attempt,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

type attemptResponse struct {
	Attempt            string                 `json:"attempt"`
	AttemptID          string                 `json:"attempt_id"`
	Bundle             string                 `json:"bundle"`
	Zone               string                 `json:"zone"`
	Payment            string                 `json:"payment"`
	Commitment         string                 `json:"commitment"`
	Upsell             string                 `json:"upsell"`
	Checkpoints        []sequencer.Checkpoint `json:"checkpoints"`
	Estimate           order.Estimate         `json:"estimate"`
	IntervalMS         int64                  `json:"interval_ms"`
	ProcessingMS       int64                  `json:"processing_ms"`
	ReservationSeconds int                    `json:"reservation_seconds"`
	Open               bool                   `json:"open"`
}

type attemptStatus struct {
	AttemptID   string               `json:"attempt_id"`
	Checkpoint  sequencer.Checkpoint `json:"checkpoint"`
	Reservation int                  `json:"reservation"`
	Complete    bool                 `json:"complete"`
}

type composeResponse struct {
	Text            string `json:"text"`
	URL             string `json:"url"`
	Commitment      string `json:"commitment"`
	CooldownSeconds int    `json:"cooldown_seconds"`
	Open            bool   `json:"open"`
}

type errorResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// pageData feeds templates/page.gohtml.
type pageData struct {
	Labels       buttonLabels
	City         string
	Status       string
	Commitment   string
	Selected     string
	Button       string
	Sentinel     string
	Bundles      []model.Bundle
	Payments     []model.PaymentMethod
	Neighborhood []string
	Testimonials []model.Testimonial
	RotateMS     int64
	Cooldown     int
	Open         bool
}

// buttonLabels are the captions the page script switches between.
type buttonLabels struct {
	Idle       string
	Busy       string
	Validating string
	Confirm    string
}

var labels = buttonLabels{
	Idle:       order.Snapshot{}.ButtonLabel(),
	Busy:       order.Snapshot{Status: model.StatusCalculating}.ButtonLabel(),
	Validating: order.Snapshot{}.ConfirmLabel(),
	Confirm:    order.Snapshot{Checkpoint: sequencer.Checkpoint{Progress: 100}}.ConfirmLabel(),
}

// confirmData feeds templates/confirm.gohtml, the no-script validation step.
type confirmData struct {
	City        string
	BundleTitle string
	Payment     string
	Confirm     string
	Attempt     attemptResponse
	WaitSeconds int
}

// orderInput is a composeRequest checked against the catalog.
type orderInput struct {
	bundle  model.Bundle
	zone    string
	payment model.PaymentMethod
}

func bundleIcon(id string) string {
	return themes.GetBundleIcon(id)
}

func (s *Server) pageHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if !allowMethod(w, r, http.MethodGet) {
			return
		}

		st := s.current()
		now := s.clock.Now()
		open := st.hours.IsOpen(now)
		secs, _ := s.gate(w, r).Remaining(r.Context(), now)

		button := labels.Idle
		if secs > 0 {
			button = order.Snapshot{Status: model.StatusCooldown, Cooldown: secs}.ButtonLabel()
		}

		s.rngMu.Lock()
		quotes := testimonials.New(st.catalog.Testimonials, s.rng).Items()
		s.rngMu.Unlock()

		data := pageData{
			Labels:       labels,
			City:         st.catalog.City,
			Status:       hours.StatusLabel(open),
			Commitment:   hours.DeliveryCommitment(open),
			Bundles:      st.catalog.Bundles,
			Selected:     st.catalog.DefaultBundle().ID,
			Button:       button,
			Payments:     model.PaymentMethods,
			Neighborhood: st.catalog.Neighborhoods,
			Testimonials: quotes,
			Sentinel:     st.matcher.Sentinel(),
			RotateMS:     testimonials.RotateEvery.Milliseconds(),
			Cooldown:     secs,
			Open:         open,
		}
		s.render(w, http.StatusOK, "page.gohtml", data)
	})
}

func (s *Server) statusEndpoint() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		st := s.current()
		open := st.hours.IsOpen(s.clock.Now())
		s.writeJSON(w, http.StatusOK, statusResponse{
			Open:       open,
			Label:      hours.StatusLabel(open),
			Commitment: hours.DeliveryCommitment(open),
			Schedule:   st.catalog.Schedule,
			City:       st.catalog.City,
		})
	})
}

func (s *Server) bundlesEndpoint() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		s.writeJSON(w, http.StatusOK, s.current().catalog.Bundles)
	})
}

func (s *Server) suggestionsEndpoint() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		st := s.current()
		q := r.URL.Query().Get("q")
		resp := suggestionsResponse{Query: q, Valid: st.matcher.IsValid(q)}
		if !resp.Valid {
			resp.Suggestions = st.matcher.Suggest(q)
		}
		if resp.Suggestions == nil {
			resp.Suggestions = []string{}
		}
		s.writeJSON(w, http.StatusOK, resp)
	})
}

func (s *Server) validationEndpoint() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		s.writeJSON(w, http.StatusOK, validationResponse{
			IntervalMS:  sequencer.Interval.Milliseconds(),
			Checkpoints: s.seq.Script(),
		})
	})
}

// attemptEndpoint starts a validation run (POST) or reports where a run
// stands (GET ?attempt=). A new run always begins at the first checkpoint.
func (s *Server) attemptEndpoint() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet, http.MethodPost) {
			return
		}
		if r.Method == http.MethodGet {
			at, err := s.attempts.parse(r.URL.Query().Get("attempt"))
			if err != nil {
				s.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
				return
			}
			elapsed := s.clock.Now().Sub(at.Started)
			cp := s.seq.At(elapsed)
			s.writeJSON(w, http.StatusOK, attemptStatus{
				AttemptID:   at.ID,
				Checkpoint:  cp,
				Reservation: max(order.ReservationSeconds-int(elapsed/time.Second), 0),
				Complete:    elapsed >= s.seq.Duration(),
			})
			return
		}

		req, err := decodeCompose(r)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		resp, retry, err := s.startAttempt(ctx, w, r, req)
		s.respond(w, resp, retry, err)
	})
}

func (s *Server) composeEndpoint() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodPost) {
			return
		}
		req, err := decodeCompose(r)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		resp, retry, err := s.compose(ctx, w, r, req)
		s.respond(w, resp, retry, err)
	})
}

// respond writes v, or the JSON error for err with the status it maps to.
func (s *Server) respond(w http.ResponseWriter, v any, retry int, err error) {
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, v)
	case errors.Is(err, errCoolingDown):
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		s.writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: err.Error(), RetryAfter: retry})
	case isAttemptErr(err):
		if retry > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(retry))
		}
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), RetryAfter: retry})
	default:
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
}

// orderRedirect is the no-script path. A form without an attempt starts the
// validation and renders the confirm step; posting that form once validation
// has finished sends the browser to the deep link.
func (s *Server) orderRedirect() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet, http.MethodPost) {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		req := composeRequest{
			Bundle:  r.Form.Get("bundle"),
			Zone:    r.Form.Get("zone"),
			Payment: r.Form.Get("payment"),
			Attempt: r.Form.Get("attempt"),
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		if req.Attempt == "" {
			resp, retry, err := s.startAttempt(ctx, w, r, req)
			if err != nil {
				s.orderError(w, retry, err)
				return
			}
			st := s.current()
			bundle, _ := st.catalog.Bundle(resp.Bundle)
			payment, _ := model.ParsePaymentMethod(resp.Payment)
			s.render(w, http.StatusOK, "confirm.gohtml", confirmData{
				City:        st.catalog.City,
				BundleTitle: bundle.Title,
				Payment:     payment.Label(),
				Confirm:     labels.Confirm,
				Attempt:     resp,
				WaitSeconds: int((s.seq.Duration() + time.Second - 1) / time.Second),
			})
			return
		}

		resp, retry, err := s.compose(ctx, w, r, req)
		if err != nil {
			s.orderError(w, retry, err)
			return
		}
		http.Redirect(w, r, resp.URL, http.StatusSeeOther)
	})
}

func (s *Server) orderError(w http.ResponseWriter, retry int, err error) {
	switch {
	case errors.Is(err, errCoolingDown):
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		http.Error(w, fmt.Sprintf("Espera %ds antes de volver a solicitar.", retry), http.StatusTooManyRequests)
	case errors.Is(err, errValidating):
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		http.Error(w, fmt.Sprintf("Validación en curso. Confirma en %ds.", retry), http.StatusConflict)
	case isAttemptErr(err):
		http.Error(w, "La validación no es válida. Vuelve a preparar el pedido.", http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func isAttemptErr(err error) bool {
	return errors.Is(err, errNoAttempt) || errors.Is(err, errBadAttempt) || errors.Is(err, errValidating)
}

// parseOrder checks req against the catalog. An empty bundle is the default.
func (st *site) parseOrder(req composeRequest) (orderInput, error) {
	bundle, ok := st.catalog.Bundle(req.Bundle)
	if req.Bundle == "" {
		bundle, ok = st.catalog.DefaultBundle(), true
	}
	if !ok {
		return orderInput{}, fmt.Errorf("%w: %q", errUnknownBundle, req.Bundle)
	}
	zoneName, ok := st.matcher.Resolve(req.Zone)
	if !ok {
		return orderInput{}, errInvalidZone
	}
	payment, err := model.ParsePaymentMethod(req.Payment)
	if err != nil {
		return orderInput{}, fmt.Errorf("%w: %q", errInvalidPayment, req.Payment)
	}
	return orderInput{bundle: bundle, zone: zoneName, payment: payment}, nil
}

// startAttempt begins a validation run for a valid order. Nothing is armed:
// the cooldown starts only when the run is confirmed through compose.
func (s *Server) startAttempt(ctx context.Context, w http.ResponseWriter, r *http.Request, req composeRequest) (attemptResponse, int, error) {
	st := s.current()
	in, err := st.parseOrder(req)
	if err != nil {
		return attemptResponse{}, 0, err
	}

	now := s.clock.Now()
	if secs, _ := s.gate(w, r).Remaining(ctx, now); secs > 0 {
		return attemptResponse{}, secs, errCoolingDown
	}

	at := attempt{ID: uuid.NewString(), Started: now}
	open := st.hours.IsOpen(now)

	s.rngMu.Lock()
	est := order.NewEstimate(s.rng, st.matcher.IsSentinel(in.zone))
	s.rngMu.Unlock()

	s.logger.Info("validation started",
		"attempt_id", at.ID,
		"bundle", in.bundle.ID,
		"zone", in.zone)

	return attemptResponse{
		Attempt:            s.attempts.issue(at),
		AttemptID:          at.ID,
		Bundle:             in.bundle.ID,
		Zone:               in.zone,
		Payment:            string(in.payment),
		Commitment:         hours.DeliveryCommitment(open),
		Upsell:             order.Upsell(in.bundle.ID),
		Checkpoints:        s.seq.Script(),
		Estimate:           est,
		IntervalMS:         sequencer.Interval.Milliseconds(),
		ProcessingMS:       order.ProcessingDelay.Milliseconds(),
		ReservationSeconds: order.ReservationSeconds,
		Open:               open,
	}, 0, nil
}

// compose confirms a finished validation run: it checks the visitor's
// cooldown, builds the message and only then arms the cooldown. retry is the
// wait in seconds for a locked visitor or an unfinished run.
func (s *Server) compose(ctx context.Context, w http.ResponseWriter, r *http.Request, req composeRequest) (composeResponse, int, error) {
	st := s.current()
	in, err := st.parseOrder(req)
	if err != nil {
		return composeResponse{}, 0, err
	}

	at, err := s.attempts.parse(req.Attempt)
	if err != nil {
		return composeResponse{}, 0, err
	}
	now := s.clock.Now()
	if left := at.Started.Add(s.seq.Duration()).Sub(now); left > 0 {
		return composeResponse{}, cooldown.Seconds(now.Add(left), now), errValidating
	}

	gate := s.gate(w, r)
	if secs, _ := gate.Remaining(ctx, now); secs > 0 {
		return composeResponse{}, secs, errCoolingDown
	}

	open := st.hours.IsOpen(now)
	msg := st.composer.Compose(compose.Order{
		Zone:    in.zone,
		Payment: in.payment,
		Bundle:  in.bundle,
		Open:    open,
	}, s.viewerTime(st, now, req.Timezone))

	limit := s.rateLimit(st)
	if err := gate.Arm(ctx, now, limit); err != nil {
		s.logger.Warn("arm cooldown", "error", err)
	}

	s.logger.Info("order composed",
		"attempt_id", at.ID,
		"bundle", in.bundle.ID,
		"zone", in.zone,
		"payment", string(in.payment),
		"open", open)

	return composeResponse{
		Text:            msg.Text,
		URL:             msg.URL,
		Commitment:      hours.DeliveryCommitment(open),
		CooldownSeconds: cooldown.Seconds(now.Add(limit), now),
		Open:            open,
	}, 0, nil
}

// viewerTime places now in the visitor's timezone for the greeting. Without
// a usable zone the business timezone stands in.
func (s *Server) viewerTime(st *site, now time.Time, tz string) time.Time {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return now.In(loc)
		}
		s.logger.Debug("ignoring visitor timezone", "timezone", tz)
	}
	return now.In(st.hours.Location())
}

func decodeCompose(r *http.Request) (composeRequest, error) {
	var req composeRequest
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, fmt.Errorf("invalid JSON body: %w", err)
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("invalid form: %w", err)
	}
	req.Bundle = r.PostForm.Get("bundle")
	req.Zone = r.PostForm.Get("zone")
	req.Payment = r.PostForm.Get("payment")
	req.Attempt = r.PostForm.Get("attempt")
	req.Timezone = r.PostForm.Get("timezone")
	return req, nil
}

func allowMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("render template", "template", name, "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}
