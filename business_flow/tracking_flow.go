package businessflow

import (
	"context"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	"github.com/affiliatesimran0007/push-notification-app-sub001/app/services"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/repository"
	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
)

// Tracking event names accepted from service-worker callbacks
const (
	TrackingEventDelivered = "delivered"
	TrackingEventClicked   = "clicked"
	TrackingEventDismissed = "dismissed"
)

// TrackingFlow handles notification lifecycle callbacks from service workers
type TrackingFlow interface {
	// TrackEvent records one delivered/clicked/dismissed callback. Each
	// event kind counts at most once per (campaign, subscriber) pair;
	// replays acknowledge without counting.
	TrackEvent(ctx context.Context, req *dto.TrackEventRequest, metadata *ClientMetadata) (*dto.TrackEventResponse, error)
}

// TrackingFlowImpl implements the tracking business flow
type TrackingFlowImpl struct {
	campaignRepo repository.CampaignRepository
	deliveryRepo repository.DeliveryRecordRepository
	eventBus     services.EventBus
}

// NewTrackingFlow creates a new tracking flow instance
func NewTrackingFlow(
	campaignRepo repository.CampaignRepository,
	deliveryRepo repository.DeliveryRecordRepository,
	eventBus services.EventBus,
) TrackingFlow {
	return &TrackingFlowImpl{
		campaignRepo: campaignRepo,
		deliveryRepo: deliveryRepo,
		eventBus:     eventBus,
	}
}

// TrackEvent records one notification lifecycle callback
func (s *TrackingFlowImpl) TrackEvent(ctx context.Context, req *dto.TrackEventRequest, metadata *ClientMetadata) (*dto.TrackEventResponse, error) {
	campaign, err := s.campaignRepo.ByID(ctx, req.CampaignID)
	if err != nil {
		return nil, NewBusinessError("TRACKING_CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("TRACKING_CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}

	now := utils.UTCNow()

	var counted bool
	var delta models.CampaignCounterDelta

	switch req.Event {
	case TrackingEventDelivered:
		counted, err = s.deliveryRepo.MarkDelivered(ctx, req.CampaignID, req.SubscriberID, now)
		delta.Delivered = 1
	case TrackingEventClicked:
		counted, err = s.deliveryRepo.MarkClicked(ctx, req.CampaignID, req.SubscriberID, now)
		delta.Clicked = 1
	case TrackingEventDismissed:
		counted, err = s.deliveryRepo.MarkDismissed(ctx, req.CampaignID, req.SubscriberID, now)
		delta.Dismissed = 1
	default:
		return nil, NewBusinessError("TRACKING_VALIDATION_FAILED", "Invalid tracking event", ErrInvalidTrackingEvent)
	}
	if err != nil {
		return nil, NewBusinessError("TRACKING_RECORD_FAILED", "Failed to record tracking event", err)
	}

	// Replayed callbacks acknowledge without touching the counters
	if !counted {
		return &dto.TrackEventResponse{
			Message: "Event already recorded",
			Counted: false,
		}, nil
	}

	if err := s.campaignRepo.IncrementCounters(ctx, campaign.ID, delta); err != nil {
		return nil, NewBusinessError("TRACKING_COUNTER_FAILED", "Failed to update campaign counters", err)
	}

	s.publishStats(ctx, campaign.ID)

	return &dto.TrackEventResponse{
		Message: "Event recorded successfully",
		Counted: true,
	}, nil
}

// publishStats pushes a fresh stats snapshot onto the event stream
func (s *TrackingFlowImpl) publishStats(ctx context.Context, campaignID uint) {
	fresh, err := s.campaignRepo.ByID(ctx, campaignID)
	if err != nil || fresh == nil {
		return
	}

	s.eventBus.Publish(services.Event{
		Type: services.EventStatsUpdated,
		Data: map[string]any{
			"uuid":  fresh.UUID.String(),
			"stats": ToCampaignStatsDTO(fresh),
		},
	})
}
