package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"realty-subscription/internal/domain"
	"realty-subscription/internal/domain/model"
	"realty-subscription/internal/usecase"
)

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg, Retryable: code == http.StatusServiceUnavailable})
}

// writeDomainError surfaces the reason verbatim so an admin can correct a
// wrong transaction id instead of guessing at a generic failure.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrUnknownPlan):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrVerifyInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ===== response shapes =====

type paymentResponse struct {
	ID            string     `json:"id"`
	SubscriberID  string     `json:"subscriber_id"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	Plan          string     `json:"plan"`
	TransactionID *string    `json:"transaction_id,omitempty"`
	Status        string     `json:"status"`
	FailureReason *string    `json:"failure_reason,omitempty"`
	RetryCount    int        `json:"retry_count"`
	AdminNotes    *string    `json:"admin_notes,omitempty"`
	PaymentMethod string     `json:"payment_method"`
	CreatedAt     time.Time  `json:"created_at"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	FailedAt      *time.Time `json:"failed_at,omitempty"`
}

func toPaymentResponse(p *model.PaymentRecord) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		SubscriberID:  p.SubscriberID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Plan:          string(p.Plan),
		TransactionID: p.TransactionID,
		Status:        string(p.Status),
		FailureReason: p.FailureReason,
		RetryCount:    p.RetryCount,
		AdminNotes:    p.AdminNotes,
		PaymentMethod: p.PaymentMethod,
		CreatedAt:     p.CreatedAt,
		VerifiedAt:    p.VerifiedAt,
		FailedAt:      p.FailedAt,
	}
}

type subscriptionResponse struct {
	SubscriberID     string    `json:"subscriber_id"`
	Plan             string    `json:"plan"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
	Active           bool      `json:"active"`
	DaysRemaining    int       `json:"days_remaining"`
	PaymentMethod    string    `json:"payment_method,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
}

func toSubscriptionResponse(s *model.SubscriptionRecord, now time.Time) subscriptionResponse {
	return subscriptionResponse{
		SubscriberID:     s.SubscriberID,
		Plan:             string(s.Plan),
		CurrentPeriodEnd: s.CurrentPeriodEnd,
		Active:           s.Active(now),
		DaysRemaining:    s.DaysRemaining(now),
		PaymentMethod:    s.PaymentMethod,
		Notes:            s.Notes,
	}
}

// ===== payments =====

type submitPaymentRequest struct {
	Plan          string `json:"plan"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method"`
}

func (s *Server) handleSubmitPayment(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())

	var req submitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	plan, err := model.ParsePlan(req.Plan)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	p, err := s.verifyUC.Submit(r.Context(), sess.SubscriberID, plan, req.Amount, req.Currency, req.PaymentMethod)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(p))
}

type verifyRequest struct {
	TransactionID string `json:"transaction_id"`
	Notes         string `json:"notes"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := s.verifyUC.Verify(r.Context(), chi.URLParam(r, "id"), req.TransactionID, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub, time.Now()))
}

type markFailedRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleMarkFailed(w http.ResponseWriter, r *http.Request) {
	var req markFailedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.verifyUC.MarkFailed(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

func (s *Server) handleListPending(w http.ResponseWriter, r *http.Request) {
	s.listPayments(w, r, s.expiryUC.ListPending)
}

func (s *Server) handleListFailed(w http.ResponseWriter, r *http.Request) {
	s.listPayments(w, r, s.expiryUC.ListFailed)
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request, list func(ctx context.Context) ([]*model.PaymentRecord, error)) {
	payments, err := list(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// ===== subscriptions =====

type renewRequest struct {
	Plan          string `json:"plan"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

func (s *Server) handleRenew(w http.ResponseWriter, r *http.Request) {
	var req renewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	plan, err := model.ParsePlan(req.Plan)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sub, err := s.renewalUC.Renew(r.Context(), chi.URLParam(r, "subscriberID"), usecase.RenewCommand{
		Plan:          plan,
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub, time.Now()))
}

type expiredSubscriptionResponse struct {
	subscriptionResponse
	DaysOverdue int `json:"days_overdue"`
}

func (s *Server) handleListExpired(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	expired, err := s.expiryUC.ListExpired(r.Context(), now)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]expiredSubscriptionResponse, 0, len(expired))
	for _, e := range expired {
		out = append(out, expiredSubscriptionResponse{
			subscriptionResponse: toSubscriptionResponse(e.SubscriptionRecord, now),
			DaysOverdue:          e.DaysOverdue,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type statusResponse struct {
	Active        bool      `json:"active"`
	ExpiresAt     time.Time `json:"expires_at"`
	DaysRemaining int       `json:"days_remaining"`
}

func (s *Server) handleSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())

	st, err := s.expiryUC.Status(r.Context(), sess.SubscriberID, time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Active:        st.Active,
		ExpiresAt:     st.ExpiresAt,
		DaysRemaining: st.DaysRemaining,
	})
}

// ===== referrals =====

type referralResponse struct {
	ID          string    `json:"id"`
	ReferrerID  string    `json:"referrer_id"`
	RefereeID   string    `json:"referee_id"`
	RefereeKind string    `json:"referee_kind"`
	CreatedAt   time.Time `json:"created_at"`
}

func toReferralResponse(ref *model.ReferralRecord) referralResponse {
	return referralResponse{
		ID:          ref.ID,
		ReferrerID:  ref.ReferrerID,
		RefereeID:   ref.RefereeID,
		RefereeKind: string(ref.RefereeKind),
		CreatedAt:   ref.CreatedAt,
	}
}

type recordReferralRequest struct {
	ReferrerID string `json:"referrer_id"`
	RefereeID  string `json:"referee_id"`
	Kind       string `json:"kind"`
}

func (s *Server) handleRecordReferral(w http.ResponseWriter, r *http.Request) {
	var req recordReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ref, err := s.commissionUC.Record(r.Context(), req.ReferrerID, req.RefereeID, model.RefereeKind(req.Kind))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReferralResponse(ref))
}

func (s *Server) handleReferredAgents(w http.ResponseWriter, r *http.Request) {
	s.listReferred(w, r, model.RefereeKindAgent)
}

func (s *Server) handleReferredProviders(w http.ResponseWriter, r *http.Request) {
	s.listReferred(w, r, model.RefereeKindProvider)
}

func (s *Server) listReferred(w http.ResponseWriter, r *http.Request, kind model.RefereeKind) {
	sess, _ := SessionFrom(r.Context())

	refs, err := s.commissionUC.ListReferred(r.Context(), sess.SubscriberID, kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]referralResponse, 0, len(refs))
	for _, ref := range refs {
		out = append(out, toReferralResponse(ref))
	}
	writeJSON(w, http.StatusOK, out)
}

type earningsResponse struct {
	AgentCount    int   `json:"agent_count"`
	ProviderCount int   `json:"provider_count"`
	Total         int64 `json:"total"`
}

func (s *Server) handleEarnings(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())

	e, err := s.commissionUC.Earnings(r.Context(), sess.SubscriberID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, earningsResponse{
		AgentCount:    e.AgentCount,
		ProviderCount: e.ProviderCount,
		Total:         e.Total,
	})
}
