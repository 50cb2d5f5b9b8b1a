package businessflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/services"
	"github.com/affiliatesimran0007/push-notification-app-sub001/config"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/repository"
	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DispatchSummary reports what happened during one campaign dispatch.
// Sent counts attempts; Failed marks the subset that never reached the
// push service.
type DispatchSummary struct {
	CampaignID uint
	Recipients int
	Sent       int64
	Failed     int64
	Aborted    bool
	AbortErr   error
	Advisories []string
}

// DispatchFlow pushes a campaign's message to its resolved audience
type DispatchFlow interface {
	// DispatchCampaign claims the campaign, fans sends out across the worker
	// pool, flushes counters incrementally, and completes the campaign. The
	// claim is a guarded status transition, so concurrent triggers for the
	// same campaign collapse to a single dispatch.
	DispatchCampaign(ctx context.Context, campaignID uint) (*DispatchSummary, error)
}

// Push send attempts partitioned by classified outcome
var sendOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "push_sends_total",
	Help: "Push send attempts by outcome",
}, []string{"outcome"})

// DispatchFlowImpl implements the dispatch business flow
type DispatchFlowImpl struct {
	campaignRepo   repository.CampaignRepository
	subscriberRepo repository.SubscriberRepository
	deliveryRepo   repository.DeliveryRecordRepository
	payloadBuilder services.PayloadBuilder
	pushSender     services.PushSender
	eventBus       services.EventBus
	dispatchConfig config.DispatchConfig
}

// NewDispatchFlow creates a new dispatch flow instance
func NewDispatchFlow(
	campaignRepo repository.CampaignRepository,
	subscriberRepo repository.SubscriberRepository,
	deliveryRepo repository.DeliveryRecordRepository,
	payloadBuilder services.PayloadBuilder,
	pushSender services.PushSender,
	eventBus services.EventBus,
	dispatchConfig config.DispatchConfig,
) DispatchFlow {
	if dispatchConfig.Workers <= 0 {
		dispatchConfig.Workers = utils.DefaultDispatchWorkers
	}
	if dispatchConfig.CounterFlushSize <= 0 {
		dispatchConfig.CounterFlushSize = utils.DefaultCounterFlushSize
	}

	return &DispatchFlowImpl{
		campaignRepo:   campaignRepo,
		subscriberRepo: subscriberRepo,
		deliveryRepo:   deliveryRepo,
		payloadBuilder: payloadBuilder,
		pushSender:     pushSender,
		eventBus:       eventBus,
		dispatchConfig: dispatchConfig,
	}
}

// sendResult pairs one subscriber with the classified outcome of their send
type sendResult struct {
	subscriber *models.Subscriber
	result     services.SendResult
}

// DispatchCampaign runs the full dispatch pipeline for one campaign
func (s *DispatchFlowImpl) DispatchCampaign(ctx context.Context, campaignID uint) (*DispatchSummary, error) {
	campaign, err := s.campaignRepo.ByID(ctx, campaignID)
	if err != nil {
		return nil, NewBusinessError("DISPATCH_CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("DISPATCH_CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}
	if !campaign.IsDispatchable() {
		return nil, NewBusinessError("DISPATCH_NOT_ALLOWED", "Campaign is not in a dispatchable state", ErrCampaignNotDispatchable)
	}

	// Claim the campaign. Losing the race means another dispatcher owns it.
	claimed, err := s.campaignRepo.UpdateStatusIf(ctx, campaign.ID, campaign.Status, models.CampaignStatusActive)
	if err != nil {
		return nil, NewBusinessError("DISPATCH_CLAIM_FAILED", "Failed to claim campaign", err)
	}
	if !claimed {
		return nil, NewBusinessError("DISPATCH_ALREADY_CLAIMED", "Campaign dispatch already started", ErrCampaignAlreadyActive)
	}

	s.eventBus.Publish(services.Event{
		Type: services.EventStatusChanged,
		Data: map[string]any{"uuid": campaign.UUID.String(), "status": models.CampaignStatusActive},
	})

	recipients, err := resolveRecipients(ctx, s.subscriberRepo, campaign)
	if err != nil {
		return nil, NewBusinessError("DISPATCH_AUDIENCE_FAILED", "Failed to resolve campaign audience", err)
	}

	summary := &DispatchSummary{
		CampaignID: campaign.ID,
		Recipients: len(recipients),
	}

	payload, advisories := s.payloadBuilder.Build(campaign)
	summary.Advisories = advisories

	// An empty audience completes immediately with zero counters
	if len(recipients) == 0 {
		if err := s.complete(ctx, campaign); err != nil {
			return summary, err
		}
		return summary, nil
	}

	sendCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan *models.Subscriber)
	results := make(chan sendResult)

	var wg sync.WaitGroup
	for i := 0; i < s.dispatchConfig.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for subscriber := range jobs {
				encoded, _, err := s.payloadBuilder.Encode(payload, subscriber.ID)
				var result services.SendResult
				if err != nil {
					result = services.SendResult{Outcome: services.OutcomeFailed, Err: err}
				} else {
					result = s.pushSender.Send(sendCtx, subscriber, encoded)
				}

				select {
				case results <- sendResult{subscriber: subscriber, result: result}:
				case <-sendCtx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, subscriber := range recipients {
			select {
			case jobs <- subscriber:
			case <-sendCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var delta models.CampaignCounterDelta
	pendingInDelta := 0

	flush := func() {
		if delta.IsZero() {
			return
		}
		if err := s.campaignRepo.IncrementCounters(ctx, campaign.ID, delta); err == nil {
			summary.Sent += delta.Sent
			summary.Failed += delta.Failed
			delta = models.CampaignCounterDelta{}
			pendingInDelta = 0
			s.publishStats(ctx, campaign)
		}
	}

	for r := range results {
		sendOutcomes.WithLabelValues(string(r.result.Outcome)).Inc()
		s.recordOutcome(ctx, campaign, r)

		// sent counts attempts; failed additionally marks the ones that
		// never reached the push service
		delta.Sent++
		if r.result.Outcome != services.OutcomeSuccess {
			delta.Failed++
		}
		pendingInDelta++

		if r.result.Outcome.IsAbortive() && !summary.Aborted {
			// Every remaining send would fail the same way. Stop the pool
			// and leave the campaign active so the operator can retry after
			// rotating credentials.
			summary.Aborted = true
			summary.AbortErr = fmt.Errorf("%w: %v", ErrVAPIDCredentialsRejected, r.result.Err)
			cancel()
		}

		if pendingInDelta >= s.dispatchConfig.CounterFlushSize {
			flush()
		}
	}

	flush()

	if summary.Aborted {
		return summary, NewBusinessError("DISPATCH_ABORTED", "Dispatch aborted on credential rejection", summary.AbortErr)
	}

	if err := s.complete(ctx, campaign); err != nil {
		return summary, err
	}

	return summary, nil
}

// recordOutcome persists the per-subscriber consequences of one send
func (s *DispatchFlowImpl) recordOutcome(ctx context.Context, campaign *models.Campaign, r sendResult) {
	record := &models.DeliveryRecord{
		CampaignID:   campaign.ID,
		SubscriberID: r.subscriber.ID,
	}

	switch r.result.Outcome {
	case services.OutcomeSuccess:
		record.Status = models.DeliveryStatusPending
	case services.OutcomeExpired:
		record.Status = models.DeliveryStatusFailed
		record.FailureReason = utils.ToPtr(r.result.Err.Error())
		// The push service forgot this endpoint; stop targeting it
		_ = s.subscriberRepo.UpdateAccessStatus(ctx, r.subscriber.ID, models.SubscriberStatusBlocked)
	default:
		record.Status = models.DeliveryStatusFailed
		if r.result.Err != nil {
			record.FailureReason = utils.ToPtr(r.result.Err.Error())
		}
	}

	_ = s.deliveryRepo.Upsert(ctx, record)
}

// complete moves the campaign to completed and announces it
func (s *DispatchFlowImpl) complete(ctx context.Context, campaign *models.Campaign) error {
	changed, err := s.campaignRepo.UpdateStatusIf(ctx, campaign.ID, models.CampaignStatusActive, models.CampaignStatusCompleted)
	if err != nil {
		return NewBusinessError("DISPATCH_COMPLETE_FAILED", "Failed to complete campaign", err)
	}
	if changed {
		s.eventBus.Publish(services.Event{
			Type: services.EventStatusChanged,
			Data: map[string]any{"uuid": campaign.UUID.String(), "status": models.CampaignStatusCompleted},
		})
		s.publishStats(ctx, campaign)
	}
	return nil
}

// publishStats pushes a fresh stats snapshot onto the event stream
func (s *DispatchFlowImpl) publishStats(ctx context.Context, campaign *models.Campaign) {
	fresh, err := s.campaignRepo.ByID(ctx, campaign.ID)
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
