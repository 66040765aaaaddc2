package payout

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"rental-service/config"

	"github.com/goccy/go-json"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Doer is satisfied by *http.Client and the circuit breaker HTTP client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type PayPal struct {
	cfg    *config.PayPalConfig
	client Doer
	log    *otelzap.Logger

	mu          sync.RWMutex
	token       string
	tokenExpiry time.Time
}

func NewPayPal(cfg *config.PayPalConfig, client Doer, log *otelzap.Logger) *PayPal {
	return &PayPal{cfg: cfg, client: client, log: log}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type payoutAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type payoutItem struct {
	RecipientType string       `json:"recipient_type"`
	Amount        payoutAmount `json:"amount"`
	Note          string       `json:"note,omitempty"`
	SenderItemID  string       `json:"sender_item_id"`
	Receiver      string       `json:"receiver"`
}

type senderBatchHeader struct {
	SenderBatchID string `json:"sender_batch_id"`
	EmailSubject  string `json:"email_subject"`
}

type payoutRequest struct {
	SenderBatchHeader senderBatchHeader `json:"sender_batch_header"`
	Items             []payoutItem      `json:"items"`
}

type payoutResponse struct {
	BatchHeader struct {
		PayoutBatchID string `json:"payout_batch_id"`
		BatchStatus   string `json:"batch_status"`
	} `json:"batch_header"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Details []struct {
		Issue string `json:"issue"`
	} `json:"details"`
}

const duplicateBatchIssue = "SENDER_BATCH_ID_ALREADY_EXISTS"

// ProcessPayout creates a single item payout batch keyed by the request's batch id.
// Repeating the call with the same batch id never pays twice.
func (p *PayPal) ProcessPayout(ctx context.Context, req Request) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	token, err := p.accessToken(ctx)
	if err != nil {
		p.log.Ctx(ctx).Error("error get paypal access token", zap.Error(err))
		return Result{}, ErrUnavailable
	}

	body, err := json.Marshal(payoutRequest{
		SenderBatchHeader: senderBatchHeader{
			SenderBatchID: req.batchID(),
			EmailSubject:  "You have a payout",
		},
		Items: []payoutItem{{
			RecipientType: "EMAIL",
			Amount: payoutAmount{
				Value:    req.Amount.String(),
				Currency: strings.ToUpper(req.Currency),
			},
			Note:         req.Note,
			SenderItemID: req.batchID(),
			Receiver:     req.Receiver,
		}},
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal payout: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v1/payments/payouts", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build payout request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("PayPal-Request-Id", req.batchID())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.log.Ctx(ctx).Warn("paypal payout call failed", zap.String("withdrawal_id", req.WithdrawalID), zap.Error(err))
		return Result{}, ErrUnavailable
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
		var out payoutResponse
		if err := json.Unmarshal(respBody, &out); err != nil {
			return Result{}, ErrUnavailable
		}
		return batchResult(out)
	case resp.StatusCode == http.StatusUnauthorized:
		p.invalidateToken()
		return Result{}, ErrUnavailable
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return Result{}, ErrUnavailable
	}

	var perr errorResponse
	_ = json.Unmarshal(respBody, &perr)
	if perr.hasIssue(duplicateBatchIssue) {
		return p.existingBatch(ctx, token, req)
	}

	p.log.Ctx(ctx).Warn("paypal rejected payout",
		zap.String("withdrawal_id", req.WithdrawalID),
		zap.Int("status", resp.StatusCode),
		zap.String("name", perr.Name),
		zap.String("message", perr.Message),
	)
	return Result{Status: perr.Name}, fmt.Errorf("%w: %s", ErrRejected, perr.Message)
}

// batchResult maps a batch status to an outcome. PENDING and PROCESSING mean
// PayPal accepted the batch and owns delivery from here on.
func batchResult(out payoutResponse) (Result, error) {
	res := Result{ProviderReference: out.BatchHeader.PayoutBatchID, Status: out.BatchHeader.BatchStatus}
	switch out.BatchHeader.BatchStatus {
	case "SUCCESS", "PENDING", "PROCESSING":
		return res, nil
	case "DENIED", "CANCELED":
		return res, fmt.Errorf("%w: batch %s", ErrRejected, strings.ToLower(res.Status))
	default:
		return res, ErrUnavailable
	}
}

// existingBatch resolves a batch id PayPal has already seen. Without a known
// payout_batch_id the outcome stays unknown.
func (p *PayPal) existingBatch(ctx context.Context, token string, req Request) (Result, error) {
	if req.ProviderReference == "" {
		p.log.Ctx(ctx).Warn("paypal batch already exists but its reference is unknown",
			zap.String("withdrawal_id", req.WithdrawalID),
			zap.String("sender_batch_id", req.batchID()))
		return Result{}, ErrUnavailable
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/v1/payments/payouts/"+req.ProviderReference, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build payout lookup: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.log.Ctx(ctx).Warn("paypal payout lookup failed", zap.String("withdrawal_id", req.WithdrawalID), zap.Error(err))
		return Result{}, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, ErrUnavailable
	}

	var out payoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, ErrUnavailable
	}
	return batchResult(out)
}

func (e errorResponse) hasIssue(issue string) bool {
	if e.Name == issue {
		return true
	}
	for _, d := range e.Details {
		if d.Issue == issue {
			return true
		}
	}
	return false
}

func (p *PayPal) accessToken(ctx context.Context) (string, error) {
	p.mu.RLock()
	if p.token != "" && time.Now().Before(p.tokenExpiry) {
		token := p.token
		p.mu.RUnlock()
		return token, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.tokenExpiry) {
		return p.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v1/oauth2/token", strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(p.cfg.ClientID, p.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token endpoint returned %s", resp.Status)
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}

	p.token = tokenResp.AccessToken
	// refresh a minute early
	p.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)

	return p.token, nil
}

func (p *PayPal) invalidateToken() {
	p.mu.Lock()
	p.token = ""
	p.mu.Unlock()
}
