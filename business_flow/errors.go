// Package businessflow contains the core business logic and use cases for campaign workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Campaign-related errors
	ErrCampaignNotFound         = errors.New("campaign not found")
	ErrCampaignNameRequired     = errors.New("campaign name is required")
	ErrCampaignTitleRequired    = errors.New("campaign title is required")
	ErrCampaignMessageRequired  = errors.New("campaign message is required")
	ErrCampaignNotEditable      = errors.New("campaign can no longer be edited")
	ErrCampaignNotDispatchable  = errors.New("campaign is not in a dispatchable state")
	ErrCampaignAlreadyActive    = errors.New("campaign dispatch already started")
	ErrScheduleTimeNotPresent   = errors.New("schedule time is not present")
	ErrScheduleTimeInPast       = errors.New("schedule time is in the past")
	ErrInvalidCampaignStatus    = errors.New("invalid campaign status")
	ErrInvalidStatusTransition  = errors.New("invalid campaign status transition")
	ErrInvalidTargetType        = errors.New("invalid target type")
	ErrTargetLandingRequired    = errors.New("target landing page is required for landing targeting")
	ErrTargetLandingNotFound    = errors.New("target landing page not found")
	ErrVAPIDCredentialsRejected = errors.New("push service rejected the VAPID credentials")

	// Subscriber-related errors
	ErrSubscriberNotFound       = errors.New("subscriber not found")
	ErrEndpointRequired         = errors.New("subscription endpoint is required")
	ErrSubscriptionKeysRequired = errors.New("subscription encryption keys are required")
	ErrInvalidAccessStatus      = errors.New("invalid access status")

	// Tracking-related errors
	ErrInvalidTrackingEvent = errors.New("invalid tracking event")

	// Landing page errors
	ErrLandingPageNotFound = errors.New("landing page not found")
	ErrLandingPageExists   = errors.New("landing page already exists for this domain and identifier")

	// Template errors
	ErrTemplateNotFound   = errors.New("template not found")
	ErrTemplateNameExists = errors.New("template name already exists")

	// Admin auth errors
	ErrAdminNotFound     = errors.New("admin not found")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignNotEditable(err error) bool {
	return errors.Is(err, ErrCampaignNotEditable)
}

func IsCampaignNotDispatchable(err error) bool {
	return errors.Is(err, ErrCampaignNotDispatchable)
}

func IsCampaignAlreadyActive(err error) bool {
	return errors.Is(err, ErrCampaignAlreadyActive)
}

func IsScheduleTimeInPast(err error) bool {
	return errors.Is(err, ErrScheduleTimeInPast)
}

func IsInvalidStatusTransition(err error) bool {
	return errors.Is(err, ErrInvalidStatusTransition)
}

func IsInvalidTargetType(err error) bool {
	return errors.Is(err, ErrInvalidTargetType)
}

func IsTargetLandingNotFound(err error) bool {
	return errors.Is(err, ErrTargetLandingNotFound)
}

func IsSubscriberNotFound(err error) bool {
	return errors.Is(err, ErrSubscriberNotFound)
}

func IsEndpointRequired(err error) bool {
	return errors.Is(err, ErrEndpointRequired)
}

func IsSubscriptionKeysRequired(err error) bool {
	return errors.Is(err, ErrSubscriptionKeysRequired)
}

func IsInvalidAccessStatus(err error) bool {
	return errors.Is(err, ErrInvalidAccessStatus)
}

func IsInvalidTrackingEvent(err error) bool {
	return errors.Is(err, ErrInvalidTrackingEvent)
}

func IsLandingPageNotFound(err error) bool {
	return errors.Is(err, ErrLandingPageNotFound)
}

func IsLandingPageExists(err error) bool {
	return errors.Is(err, ErrLandingPageExists)
}

func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

func IsTemplateNameExists(err error) bool {
	return errors.Is(err, ErrTemplateNameExists)
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
