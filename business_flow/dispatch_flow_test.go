package businessflow

import (
	"testing"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/services"
	"github.com/affiliatesimran0007/push-notification-app-sub001/config"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatchFixture(t *testing.T, campaign *models.Campaign, subscribers []*models.Subscriber, sender *fakePushSender) (DispatchFlow, *fakeCampaignRepo, *fakeSubscriberRepo, *fakeDeliveryRepo) {
	t.Helper()

	campaignRepo := newFakeCampaignRepo(campaign)
	subscriberRepo := newFakeSubscriberRepo(subscribers...)
	deliveryRepo := newFakeDeliveryRepo()

	flow := NewDispatchFlow(
		campaignRepo,
		subscriberRepo,
		deliveryRepo,
		services.NewPayloadBuilder("https://push.example.com"),
		sender,
		services.NewEventBus(16),
		config.DispatchConfig{Workers: 4, CounterFlushSize: 2},
	)

	return flow, campaignRepo, subscriberRepo, deliveryRepo
}

func draftCampaign(id uint) *models.Campaign {
	return &models.Campaign{
		ID:     id,
		UUID:   uuid.New(),
		Name:   "Launch announcement",
		Status: models.CampaignStatusDraft,
		Message: models.CampaignMessage{
			Title:   "Big launch",
			Message: "We shipped something new",
		},
		TargetType:       models.TargetTypeAll,
		TargetBrowserAll: true,
		TargetOSAll:      true,
	}
}

func grantedSubscribers(n int) []*models.Subscriber {
	subs := make([]*models.Subscriber, 0, n)
	for i := 0; i < n; i++ {
		subs = append(subs, &models.Subscriber{
			ID:           uint(i + 1),
			Endpoint:     "https://push.example.net/" + uuid.NewString(),
			P256dh:       "p256dh-key",
			AuthKey:      "auth-key",
			Browser:      "Chrome",
			OS:           "Linux",
			AccessStatus: models.SubscriberStatusGranted,
		})
	}
	return subs
}

func TestDispatchCampaign(t *testing.T) {
	ctx := t.Context()

	t.Run("AllSendsSucceed", func(t *testing.T) {
		sender := &fakePushSender{sendFn: func(*models.Subscriber) services.SendResult {
			return services.SendResult{Outcome: services.OutcomeSuccess, StatusCode: 201}
		}}
		flow, campaignRepo, _, deliveryRepo := newDispatchFixture(t, draftCampaign(1), grantedSubscribers(5), sender)

		summary, err := flow.DispatchCampaign(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 5, summary.Recipients)
		assert.Equal(t, int64(5), summary.Sent)
		assert.Equal(t, int64(0), summary.Failed)
		assert.False(t, summary.Aborted)

		campaign, err := campaignRepo.ByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.CampaignStatusCompleted, campaign.Status)
		assert.Equal(t, int64(5), campaign.SentCount)

		records, err := deliveryRepo.ByFilter(ctx, models.DeliveryRecordFilter{}, "", 0, 0)
		require.NoError(t, err)
		assert.Len(t, records, 5)
	})

	t.Run("CountConservation", func(t *testing.T) {
		// sent counts every attempt; failed marks the subset that never
		// reached the push service
		sender := &fakePushSender{sendFn: func(s *models.Subscriber) services.SendResult {
			if s.ID%2 == 0 {
				return services.SendResult{Outcome: services.OutcomeFailed, StatusCode: 500}
			}
			return services.SendResult{Outcome: services.OutcomeSuccess, StatusCode: 201}
		}}
		flow, campaignRepo, _, _ := newDispatchFixture(t, draftCampaign(1), grantedSubscribers(9), sender)

		summary, err := flow.DispatchCampaign(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(9), summary.Sent)
		assert.Equal(t, int64(4), summary.Failed)

		campaign, err := campaignRepo.ByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(9), campaign.SentCount)
		assert.Equal(t, int64(4), campaign.FailedCount)
		assert.LessOrEqual(t, campaign.DeliveredCount+campaign.FailedCount, campaign.SentCount)
	})

	t.Run("ExpiredSubscriptionBlocksSubscriber", func(t *testing.T) {
		sender := &fakePushSender{sendFn: func(s *models.Subscriber) services.SendResult {
			if s.ID == 2 {
				return classifiedExpired()
			}
			return services.SendResult{Outcome: services.OutcomeSuccess, StatusCode: 201}
		}}
		flow, _, subscriberRepo, _ := newDispatchFixture(t, draftCampaign(1), grantedSubscribers(3), sender)

		summary, err := flow.DispatchCampaign(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(3), summary.Sent)
		assert.Equal(t, int64(1), summary.Failed)

		blocked, err := subscriberRepo.ByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, models.SubscriberStatusBlocked, blocked.AccessStatus)
	})

	t.Run("AuthErrorAbortsAndLeavesCampaignActive", func(t *testing.T) {
		sender := &fakePushSender{sendFn: func(*models.Subscriber) services.SendResult {
			return services.SendResult{
				Outcome:    services.OutcomeAuthError,
				StatusCode: 403,
				Err:        ErrVAPIDCredentialsRejected,
			}
		}}
		flow, campaignRepo, _, _ := newDispatchFixture(t, draftCampaign(1), grantedSubscribers(50), sender)

		summary, err := flow.DispatchCampaign(ctx, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrVAPIDCredentialsRejected)
		require.NotNil(t, summary)
		assert.True(t, summary.Aborted)
		// The pool stops early; not every recipient gets an attempt
		assert.Less(t, sender.sendCount(), 50)

		// The operator retries after rotating credentials
		campaign, lookupErr := campaignRepo.ByID(ctx, 1)
		require.NoError(t, lookupErr)
		assert.Equal(t, models.CampaignStatusActive, campaign.Status)
	})

	t.Run("EmptyAudienceCompletesImmediately", func(t *testing.T) {
		sender := &fakePushSender{sendFn: func(*models.Subscriber) services.SendResult {
			return services.SendResult{Outcome: services.OutcomeSuccess}
		}}
		flow, campaignRepo, _, _ := newDispatchFixture(t, draftCampaign(1), nil, sender)

		summary, err := flow.DispatchCampaign(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Recipients)
		assert.Equal(t, 0, sender.sendCount())

		campaign, err := campaignRepo.ByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.CampaignStatusCompleted, campaign.Status)
	})

	t.Run("CampaignNotFound", func(t *testing.T) {
		sender := &fakePushSender{sendFn: func(*models.Subscriber) services.SendResult {
			return services.SendResult{Outcome: services.OutcomeSuccess}
		}}
		flow, _, _, _ := newDispatchFixture(t, draftCampaign(1), nil, sender)

		_, err := flow.DispatchCampaign(ctx, 42)
		assert.True(t, IsCampaignNotFound(err))
	})

	t.Run("CompletedCampaignNotDispatchable", func(t *testing.T) {
		campaign := draftCampaign(1)
		campaign.Status = models.CampaignStatusCompleted
		sender := &fakePushSender{sendFn: func(*models.Subscriber) services.SendResult {
			return services.SendResult{Outcome: services.OutcomeSuccess}
		}}
		flow, _, _, _ := newDispatchFixture(t, campaign, grantedSubscribers(1), sender)

		_, err := flow.DispatchCampaign(ctx, 1)
		assert.True(t, IsCampaignNotDispatchable(err))
	})

	t.Run("ActiveCampaignNotDispatchable", func(t *testing.T) {
		campaign := draftCampaign(1)
		campaign.Status = models.CampaignStatusActive
		sender := &fakePushSender{sendFn: func(*models.Subscriber) services.SendResult {
			return services.SendResult{Outcome: services.OutcomeSuccess}
		}}
		flow, _, _, _ := newDispatchFixture(t, campaign, grantedSubscribers(1), sender)

		_, err := flow.DispatchCampaign(ctx, 1)
		assert.True(t, IsCampaignNotDispatchable(err))
	})
}

func classifiedExpired() services.SendResult {
	return services.SendResult{
		Outcome:    services.OutcomeExpired,
		StatusCode: 410,
		Err:        assert.AnError,
	}
}
