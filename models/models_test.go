package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignStatus(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.True(t, CampaignStatusDraft.Valid())
		assert.True(t, CampaignStatusScheduled.Valid())
		assert.True(t, CampaignStatusActive.Valid())
		assert.True(t, CampaignStatusCompleted.Valid())
		assert.False(t, CampaignStatus("paused").Valid())
		assert.False(t, CampaignStatus("").Valid())
	})

	t.Run("ValueRejectsInvalid", func(t *testing.T) {
		_, err := CampaignStatus("paused").Value()
		assert.Error(t, err)

		v, err := CampaignStatusActive.Value()
		require.NoError(t, err)
		assert.Equal(t, "active", v)
	})

	t.Run("Scan", func(t *testing.T) {
		var s CampaignStatus
		require.NoError(t, s.Scan("scheduled"))
		assert.Equal(t, CampaignStatusScheduled, s)

		require.NoError(t, s.Scan([]byte("draft")))
		assert.Equal(t, CampaignStatusDraft, s)

		require.NoError(t, s.Scan(nil))
		assert.Equal(t, CampaignStatus(""), s)

		assert.Error(t, s.Scan(42))
	})
}

func TestCampaignTransitions(t *testing.T) {
	t.Run("Editable", func(t *testing.T) {
		assert.True(t, (&Campaign{Status: CampaignStatusDraft}).IsEditable())
		assert.True(t, (&Campaign{Status: CampaignStatusScheduled}).IsEditable())
		assert.False(t, (&Campaign{Status: CampaignStatusActive}).IsEditable())
		assert.False(t, (&Campaign{Status: CampaignStatusCompleted}).IsEditable())
	})

	t.Run("Dispatchable", func(t *testing.T) {
		assert.True(t, (&Campaign{Status: CampaignStatusDraft}).IsDispatchable())
		assert.True(t, (&Campaign{Status: CampaignStatusScheduled}).IsDispatchable())
		assert.False(t, (&Campaign{Status: CampaignStatusActive}).IsDispatchable())
		assert.False(t, (&Campaign{Status: CampaignStatusCompleted}).IsDispatchable())
	})

	t.Run("CanTransitionTo", func(t *testing.T) {
		draft := &Campaign{Status: CampaignStatusDraft}
		assert.True(t, draft.CanTransitionTo(CampaignStatusScheduled))
		assert.True(t, draft.CanTransitionTo(CampaignStatusActive))
		assert.False(t, draft.CanTransitionTo(CampaignStatusCompleted))

		scheduled := &Campaign{Status: CampaignStatusScheduled}
		assert.True(t, scheduled.CanTransitionTo(CampaignStatusDraft))
		assert.True(t, scheduled.CanTransitionTo(CampaignStatusActive))

		active := &Campaign{Status: CampaignStatusActive}
		assert.True(t, active.CanTransitionTo(CampaignStatusCompleted))
		assert.False(t, active.CanTransitionTo(CampaignStatusDraft))

		completed := &Campaign{Status: CampaignStatusCompleted}
		assert.False(t, completed.CanTransitionTo(CampaignStatusActive))
	})
}

func TestCampaignFilterFields(t *testing.T) {
	status := CampaignStatusScheduled
	targetType := TargetTypeLanding
	landingID := uint(3)

	filter := CampaignFilter{
		Status:          &status,
		TargetType:      &targetType,
		TargetLandingID: &landingID,
	}

	require.NotNil(t, filter.TargetType)
	assert.Equal(t, TargetTypeLanding, *filter.TargetType)
	assert.Equal(t, CampaignStatusScheduled, *filter.Status)
	assert.Equal(t, uint(3), *filter.TargetLandingID)
}

func TestCampaignMessageJSONB(t *testing.T) {
	msg := CampaignMessage{
		Title:   "Flash sale",
		Message: "Today only",
		URL:     "https://example.com/sale",
		Actions: []MessageAction{{Action: "open", Title: "Shop now"}},
	}

	v, err := msg.Value()
	require.NoError(t, err)

	raw, ok := v.([]byte)
	require.True(t, ok)
	assert.True(t, json.Valid(raw))

	var decoded CampaignMessage
	require.NoError(t, decoded.Scan(raw))
	assert.Equal(t, msg, decoded)

	require.NoError(t, decoded.Scan(nil))
	assert.Equal(t, CampaignMessage{}, decoded)
}

func TestSubscriberStatus(t *testing.T) {
	assert.True(t, SubscriberStatusGranted.Valid())
	assert.True(t, SubscriberStatusAllowed.Valid())
	assert.True(t, SubscriberStatusBlocked.Valid())
	assert.False(t, SubscriberStatus("denied").Valid())

	_, err := SubscriberStatus("denied").Value()
	assert.Error(t, err)
}

func TestSubscriberHasValidKeys(t *testing.T) {
	complete := &Subscriber{
		Endpoint: "https://push.example.net/abc",
		P256dh:   "p256dh",
		AuthKey:  "auth",
	}
	assert.True(t, complete.HasValidKeys())

	assert.False(t, (&Subscriber{P256dh: "p", AuthKey: "a"}).HasValidKeys())
	assert.False(t, (&Subscriber{Endpoint: "e", AuthKey: "a"}).HasValidKeys())
	assert.False(t, (&Subscriber{Endpoint: "e", P256dh: "p"}).HasValidKeys())
}

func TestDeliveryStatus(t *testing.T) {
	assert.True(t, DeliveryStatusPending.Valid())
	assert.True(t, DeliveryStatusDelivered.Valid())
	assert.True(t, DeliveryStatusFailed.Valid())
	assert.True(t, DeliveryStatusDismissed.Valid())
	assert.False(t, DeliveryStatus("queued").Valid())
}

func TestCampaignCounterDelta(t *testing.T) {
	assert.True(t, CampaignCounterDelta{}.IsZero())
	assert.False(t, CampaignCounterDelta{Sent: 1}.IsZero())
	assert.False(t, CampaignCounterDelta{Dismissed: 1}.IsZero())
}
