package payout_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"rental-service/config"
	log_internal "rental-service/internal/pkg/log"
	"rental-service/internal/pkg/payout"

	"github.com/goccy/go-json"
	circuit "github.com/rubyist/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayPal(t *testing.T, payoutHandler http.HandlerFunc) (*payout.PayPal, *int32) {
	t.Helper()
	var tokenCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client", user)
		assert.Equal(t, "secret", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	})
	mux.HandleFunc("/v1/payments/payouts", payoutHandler)
	mux.HandleFunc("/v1/payments/payouts/", payoutHandler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := &config.PayPalConfig{
		BaseURL:      srv.URL,
		ClientID:     "client",
		ClientSecret: "secret",
		Timeout:      time.Second,
	}
	client := circuit.NewHTTPClient(time.Second, 5, &http.Client{})

	return payout.NewPayPal(cfg, client, log_internal.Setup()), &tokenCalls
}

func TestPayPalProcessPayout(t *testing.T) {
	req := payout.Request{
		WithdrawalID: "wd-1",
		Amount:       5000,
		Currency:     "usd",
		Receiver:     "host@example.com",
	}

	t.Run("success", func(t *testing.T) {
		pp, tokenCalls := newPayPal(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			assert.Equal(t, "wd-1", r.Header.Get("PayPal-Request-Id"))

			raw, _ := io.ReadAll(r.Body)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(raw, &body))
			items := body["items"].([]interface{})
			amount := items[0].(map[string]interface{})["amount"].(map[string]interface{})
			assert.Equal(t, "50.00", amount["value"])
			assert.Equal(t, "USD", amount["currency"])

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"batch_header":{"payout_batch_id":"BATCH-1","batch_status":"PENDING"}}`))
		})

		res, err := pp.ProcessPayout(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "BATCH-1", res.ProviderReference)

		// token is cached between calls
		_, err = pp.ProcessPayout(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(tokenCalls))
	})

	t.Run("rejected by provider", func(t *testing.T) {
		pp, _ := newPayPal(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"name":"INSUFFICIENT_FUNDS","message":"Sender does not have sufficient funds."}`))
		})

		_, err := pp.ProcessPayout(context.Background(), req)
		assert.ErrorIs(t, err, payout.ErrRejected)
	})

	t.Run("denied batch is rejected", func(t *testing.T) {
		pp, _ := newPayPal(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"batch_header":{"payout_batch_id":"BATCH-9","batch_status":"DENIED"}}`))
		})

		res, err := pp.ProcessPayout(context.Background(), req)
		assert.ErrorIs(t, err, payout.ErrRejected)
		assert.Equal(t, "BATCH-9", res.ProviderReference)
	})

	t.Run("duplicate batch with known reference uses the batch status", func(t *testing.T) {
		pp, _ := newPayPal(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				assert.Equal(t, "/v1/payments/payouts/BATCH-7", r.URL.Path)
				_, _ = w.Write([]byte(`{"batch_header":{"payout_batch_id":"BATCH-7","batch_status":"SUCCESS"}}`))
				return
			}
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"name":"USER_BUSINESS_ERROR","details":[{"issue":"SENDER_BATCH_ID_ALREADY_EXISTS"}]}`))
		})

		known := req
		known.ProviderReference = "BATCH-7"
		res, err := pp.ProcessPayout(context.Background(), known)
		require.NoError(t, err)
		assert.Equal(t, "BATCH-7", res.ProviderReference)
	})

	t.Run("duplicate batch without reference is unknown", func(t *testing.T) {
		pp, _ := newPayPal(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"name":"USER_BUSINESS_ERROR","details":[{"issue":"SENDER_BATCH_ID_ALREADY_EXISTS"}]}`))
		})

		_, err := pp.ProcessPayout(context.Background(), req)
		assert.ErrorIs(t, err, payout.ErrUnavailable)
	})

	t.Run("server error is unavailable", func(t *testing.T) {
		pp, _ := newPayPal(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := pp.ProcessPayout(context.Background(), req)
		assert.ErrorIs(t, err, payout.ErrUnavailable)
	})
}

func TestPayPalRetryAfterDenial(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	fundedBatches := map[string]bool{"wd-1-1": true}

	pp, _ := newPayPal(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SenderBatchHeader struct {
				SenderBatchID string `json:"sender_batch_id"`
			} `json:"sender_batch_header"`
		}
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		batchID := body.SenderBatchHeader.SenderBatchID
		assert.Equal(t, batchID, r.Header.Get("PayPal-Request-Id"))

		mu.Lock()
		defer mu.Unlock()
		if seen[batchID] {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"name":"USER_BUSINESS_ERROR","details":[{"issue":"SENDER_BATCH_ID_ALREADY_EXISTS"}]}`))
			return
		}
		seen[batchID] = true

		status := "DENIED"
		if fundedBatches[batchID] {
			status = "SUCCESS"
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"batch_header":{"payout_batch_id":"PB-` + batchID + `","batch_status":"` + status + `"}}`))
	})

	first := payout.Request{WithdrawalID: "wd-1", BatchID: "wd-1", Amount: 5000, Currency: "usd", Receiver: "host@example.com"}
	_, err := pp.ProcessPayout(context.Background(), first)
	require.ErrorIs(t, err, payout.ErrRejected)

	// resending the denied batch id never reports success
	_, err = pp.ProcessPayout(context.Background(), first)
	assert.Error(t, err)

	retry := first
	retry.BatchID = "wd-1-1"
	res, err := pp.ProcessPayout(context.Background(), retry)
	require.NoError(t, err)
	assert.Equal(t, "PB-wd-1-1", res.ProviderReference)
}
