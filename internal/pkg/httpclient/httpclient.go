package httpclient

import (
	"net/http"

	"rental-service/config"

	circuit "github.com/rubyist/circuitbreaker"
)

const (
	BreakerConsecutive = "consecutive"
	BreakerThreshold   = "threshold"
)

func InitCircuitBreaker(cfg *config.HttpClientConfig, breakerType string) *circuit.Breaker {
	switch breakerType {
	case BreakerThreshold:
		return circuit.NewThresholdBreaker(cfg.Threshold)
	default:
		return circuit.NewConsecutiveBreaker(cfg.Threshold)
	}
}

func InitHttpClient(cfg *config.HttpClientConfig, cb *circuit.Breaker) *circuit.HTTPClient {
	return circuit.NewHTTPClientWithBreaker(cb, cfg.Timeout, &http.Client{Timeout: cfg.Timeout})
}
