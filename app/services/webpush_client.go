package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
)

// SendOutcome classifies the result of one push attempt
type SendOutcome string

const (
	OutcomeSuccess             SendOutcome = "success"
	OutcomeExpired             SendOutcome = "expired"
	OutcomeInvalidSubscription SendOutcome = "invalid_subscription"
	OutcomePayloadTooLarge     SendOutcome = "payload_too_large"
	OutcomeAuthError           SendOutcome = "auth_error"
	OutcomeBadRequest          SendOutcome = "bad_request"
	OutcomeFailed              SendOutcome = "failed"
)

// IsAbortive reports whether the outcome signals a systemic problem that
// makes further sends with the same credentials pointless
func (o SendOutcome) IsAbortive() bool {
	return o == OutcomeAuthError
}

// SendResult is the classified result of one push attempt
type SendResult struct {
	Outcome    SendOutcome
	StatusCode int
	Err        error
}

// PushSender delivers an encrypted payload to one subscription endpoint
type PushSender interface {
	Send(ctx context.Context, subscriber *models.Subscriber, payload []byte) SendResult
}

// WebPushConfig holds VAPID credentials and delivery tuning
type WebPushConfig struct {
	Subject         string
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	TTL             int
	SendTimeout     time.Duration
}

// WebPushClient implements PushSender against the web push protocol
type WebPushClient struct {
	config WebPushConfig
	client *http.Client
}

// NewWebPushClient creates a new web push client
func NewWebPushClient(config WebPushConfig) (*WebPushClient, error) {
	if config.VAPIDPublicKey == "" || config.VAPIDPrivateKey == "" {
		return nil, fmt.Errorf("VAPID key pair is required")
	}
	if config.Subject == "" {
		return nil, fmt.Errorf("VAPID subject is required")
	}
	if config.TTL <= 0 {
		config.TTL = 86400
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = 10 * time.Second
	}

	return &WebPushClient{
		config: config,
		client: &http.Client{Timeout: config.SendTimeout},
	}, nil
}

// Send delivers the payload to the subscriber's endpoint and classifies the
// result. Subscriptions missing endpoint or keys are rejected without a
// network round trip.
func (c *WebPushClient) Send(ctx context.Context, subscriber *models.Subscriber, payload []byte) SendResult {
	if !subscriber.HasValidKeys() {
		return SendResult{
			Outcome: OutcomeInvalidSubscription,
			Err:     errors.New("subscription is missing endpoint or encryption keys"),
		}
	}

	sub := &webpush.Subscription{
		Endpoint: subscriber.Endpoint,
		Keys: webpush.Keys{
			P256dh: subscriber.P256dh,
			Auth:   subscriber.AuthKey,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.SendTimeout)
	defer cancel()

	resp, err := webpush.SendNotificationWithContext(ctx, payload, sub, &webpush.Options{
		HTTPClient:      c.client,
		Subscriber:      c.config.Subject,
		VAPIDPublicKey:  c.config.VAPIDPublicKey,
		VAPIDPrivateKey: c.config.VAPIDPrivateKey,
		TTL:             c.config.TTL,
	})
	if err != nil {
		return SendResult{
			Outcome: OutcomeFailed,
			Err:     fmt.Errorf("push request failed: %w", err),
		}
	}
	defer resp.Body.Close()

	return classifyResponse(resp.StatusCode)
}

// classifyResponse maps a push-service HTTP status to a send outcome
func classifyResponse(status int) SendResult {
	result := SendResult{StatusCode: status}

	switch {
	case status >= 200 && status < 300:
		result.Outcome = OutcomeSuccess
	case status == http.StatusGone, status == http.StatusNotFound:
		// The push service no longer knows this endpoint
		result.Outcome = OutcomeExpired
		result.Err = fmt.Errorf("subscription expired: push service returned %d", status)
	case status == http.StatusRequestEntityTooLarge:
		result.Outcome = OutcomePayloadTooLarge
		result.Err = fmt.Errorf("payload rejected: push service returned %d", status)
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		result.Outcome = OutcomeAuthError
		result.Err = fmt.Errorf("VAPID credentials rejected: push service returned %d", status)
	case status == http.StatusBadRequest:
		result.Outcome = OutcomeBadRequest
		result.Err = fmt.Errorf("malformed push request: push service returned %d", status)
	default:
		result.Outcome = OutcomeFailed
		result.Err = fmt.Errorf("push service returned %d", status)
	}

	return result
}
