package businessflow

import (
	"testing"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	"github.com/affiliatesimran0007/push-notification-app-sub001/app/services"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrackingFixture(t *testing.T) (TrackingFlow, *fakeCampaignRepo, *fakeDeliveryRepo) {
	t.Helper()

	campaign := &models.Campaign{
		ID:     1,
		UUID:   uuid.New(),
		Name:   "Weekly digest",
		Status: models.CampaignStatusCompleted,
	}
	campaignRepo := newFakeCampaignRepo(campaign)
	deliveryRepo := newFakeDeliveryRepo()

	flow := NewTrackingFlow(campaignRepo, deliveryRepo, services.NewEventBus(16))
	return flow, campaignRepo, deliveryRepo
}

func TestTrackEvent(t *testing.T) {
	ctx := t.Context()
	metadata := NewClientMetadata("203.0.113.9", "test-agent")

	t.Run("DeliveredCountsOnce", func(t *testing.T) {
		flow, campaignRepo, _ := newTrackingFixture(t)
		req := &dto.TrackEventRequest{CampaignID: 1, SubscriberID: 10, Event: TrackingEventDelivered}

		resp, err := flow.TrackEvent(ctx, req, metadata)
		require.NoError(t, err)
		assert.True(t, resp.Counted)

		// Replay acknowledges without counting
		resp, err = flow.TrackEvent(ctx, req, metadata)
		require.NoError(t, err)
		assert.False(t, resp.Counted)

		campaign, err := campaignRepo.ByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), campaign.DeliveredCount)
	})

	t.Run("EachEventKindCountsIndependently", func(t *testing.T) {
		flow, campaignRepo, _ := newTrackingFixture(t)

		for _, event := range []string{TrackingEventDelivered, TrackingEventClicked, TrackingEventDismissed} {
			resp, err := flow.TrackEvent(ctx, &dto.TrackEventRequest{
				CampaignID: 1, SubscriberID: 10, Event: event,
			}, metadata)
			require.NoError(t, err)
			assert.True(t, resp.Counted)
		}

		campaign, err := campaignRepo.ByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), campaign.DeliveredCount)
		assert.Equal(t, int64(1), campaign.ClickedCount)
		assert.Equal(t, int64(1), campaign.DismissedCount)
	})

	t.Run("DistinctSubscribersCountSeparately", func(t *testing.T) {
		flow, campaignRepo, _ := newTrackingFixture(t)

		for _, subscriberID := range []uint{10, 11, 12} {
			_, err := flow.TrackEvent(ctx, &dto.TrackEventRequest{
				CampaignID: 1, SubscriberID: subscriberID, Event: TrackingEventClicked,
			}, metadata)
			require.NoError(t, err)
		}

		campaign, err := campaignRepo.ByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(3), campaign.ClickedCount)
	})

	t.Run("CallbackBeforeDeliveryRecordExists", func(t *testing.T) {
		// Tracking callbacks may arrive before the dispatcher persisted the
		// record; the record is created lazily
		flow, _, deliveryRepo := newTrackingFixture(t)

		resp, err := flow.TrackEvent(ctx, &dto.TrackEventRequest{
			CampaignID: 1, SubscriberID: 99, Event: TrackingEventClicked,
		}, metadata)
		require.NoError(t, err)
		assert.True(t, resp.Counted)

		record, err := deliveryRepo.ByCampaignAndSubscriber(ctx, 1, 99)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.NotNil(t, record.ClickedAt)
	})

	t.Run("EarlyCallbackSurvivesOutcomeWrite", func(t *testing.T) {
		// The delivered callback lands first, then the dispatcher persists
		// its pending outcome for the same pair. The stamp must survive and
		// a replayed callback must not count again.
		flow, campaignRepo, deliveryRepo := newTrackingFixture(t)
		req := &dto.TrackEventRequest{CampaignID: 1, SubscriberID: 10, Event: TrackingEventDelivered}

		resp, err := flow.TrackEvent(ctx, req, metadata)
		require.NoError(t, err)
		assert.True(t, resp.Counted)

		require.NoError(t, deliveryRepo.Upsert(ctx, &models.DeliveryRecord{
			CampaignID:   1,
			SubscriberID: 10,
			Status:       models.DeliveryStatusPending,
		}))

		record, err := deliveryRepo.ByCampaignAndSubscriber(ctx, 1, 10)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.NotNil(t, record.DeliveredAt)
		assert.Equal(t, models.DeliveryStatusDelivered, record.Status)

		resp, err = flow.TrackEvent(ctx, req, metadata)
		require.NoError(t, err)
		assert.False(t, resp.Counted)

		campaign, err := campaignRepo.ByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), campaign.DeliveredCount)
	})

	t.Run("UnknownEvent", func(t *testing.T) {
		flow, _, _ := newTrackingFixture(t)
		_, err := flow.TrackEvent(ctx, &dto.TrackEventRequest{
			CampaignID: 1, SubscriberID: 10, Event: "opened",
		}, metadata)
		assert.True(t, IsInvalidTrackingEvent(err))
	})

	t.Run("CampaignNotFound", func(t *testing.T) {
		flow, _, _ := newTrackingFixture(t)
		_, err := flow.TrackEvent(ctx, &dto.TrackEventRequest{
			CampaignID: 404, SubscriberID: 10, Event: TrackingEventDelivered,
		}, metadata)
		assert.True(t, IsCampaignNotFound(err))
	})
}
