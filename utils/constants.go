package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for admin access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// AccessTokenTTLSeconds is the time-to-live for admin access tokens in seconds
	AccessTokenTTLSeconds = 86400
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Push payload constants
const (
	// DefaultNotificationIcon is used when a campaign message has no icon
	DefaultNotificationIcon = "/icon-192x192.png"

	// DefaultNotificationBadge is used when a campaign message has no badge
	DefaultNotificationBadge = "/badge-72x72.png"

	// MaxNotificationActions is the action-button limit imposed by browsers
	MaxNotificationActions = 2

	// AdvisoryTitleLength flags titles that desktop browsers will ellipsize
	AdvisoryTitleLength = 100

	// AdvisoryBodyLength flags bodies that desktop browsers will ellipsize
	AdvisoryBodyLength = 255

	// AdvisoryPayloadBytes flags encoded payloads near the push-service cap
	AdvisoryPayloadBytes = 4096
)

// Dispatch constants
const (
	// DefaultDispatchWorkers is the per-campaign send concurrency
	DefaultDispatchWorkers = 16

	// DefaultCounterFlushSize is how many outcomes accumulate before counters are flushed
	DefaultCounterFlushSize = 50

	// DefaultSendTimeout bounds a single push-service request
	DefaultSendTimeout = 10 * time.Second
)

// Cache TTL constants
const (
	// CampaignStatsCacheTTL bounds staleness of the cached per-campaign stats
	CampaignStatsCacheTTL = 10 * time.Second

	// AudienceEstimateCacheTTL bounds staleness of cached audience-size estimates
	AudienceEstimateCacheTTL = 30 * time.Second
)
