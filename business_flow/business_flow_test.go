package businessflow

import (
	"testing"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRate(t *testing.T) {
	t.Run("ZeroDenominator", func(t *testing.T) {
		assert.Equal(t, "0.0", FormatRate(5, 0))
	})

	t.Run("Percentage", func(t *testing.T) {
		assert.Equal(t, "50.0", FormatRate(1, 2))
		assert.Equal(t, "33.3", FormatRate(1, 3))
		assert.Equal(t, "100.0", FormatRate(10, 10))
	})
}

func TestToCampaignStatsDTO(t *testing.T) {
	campaign := &models.Campaign{
		SentCount:      200,
		DeliveredCount: 150,
		ClickedCount:   50,
		DismissedCount: 10,
		FailedCount:    5,
	}

	stats := ToCampaignStatsDTO(campaign)
	assert.Equal(t, int64(200), stats.SentCount)
	assert.Equal(t, "25.0", stats.CTR)
	assert.Equal(t, "75.0", stats.DeliveryRate)
}

func TestMatchesBrowserOS(t *testing.T) {
	chromeLinux := &models.Subscriber{Browser: "Chrome", OS: "Linux"}
	firefoxMac := &models.Subscriber{Browser: "Firefox", OS: "macOS"}

	t.Run("AllFlagsMatchEverybody", func(t *testing.T) {
		campaign := &models.Campaign{TargetBrowserAll: true, TargetOSAll: true}
		assert.True(t, MatchesBrowserOS(chromeLinux, campaign))
		assert.True(t, MatchesBrowserOS(firefoxMac, campaign))
	})

	t.Run("BrowserIncludeList", func(t *testing.T) {
		campaign := &models.Campaign{
			TargetBrowsers: []string{"Chrome"},
			TargetOSAll:    true,
		}
		assert.True(t, MatchesBrowserOS(chromeLinux, campaign))
		assert.False(t, MatchesBrowserOS(firefoxMac, campaign))
	})

	t.Run("CaseInsensitiveSubstring", func(t *testing.T) {
		chromeMobile := &models.Subscriber{Browser: "Chrome Mobile", OS: "Android"}
		campaign := &models.Campaign{
			TargetBrowsers: []string{"chrome"},
			TargetOSAll:    true,
		}
		assert.True(t, MatchesBrowserOS(chromeLinux, campaign))
		assert.True(t, MatchesBrowserOS(chromeMobile, campaign))
		assert.False(t, MatchesBrowserOS(firefoxMac, campaign))
	})

	t.Run("OSIncludeList", func(t *testing.T) {
		campaign := &models.Campaign{
			TargetBrowserAll: true,
			TargetOSes:       []string{"macos"},
		}
		assert.False(t, MatchesBrowserOS(chromeLinux, campaign))
		assert.True(t, MatchesBrowserOS(firefoxMac, campaign))
	})

	t.Run("EmptyIncludeListMatchesNobody", func(t *testing.T) {
		campaign := &models.Campaign{TargetOSAll: true}
		assert.False(t, MatchesBrowserOS(chromeLinux, campaign))
	})

	t.Run("BothDimensionsMustMatch", func(t *testing.T) {
		campaign := &models.Campaign{
			TargetBrowsers: []string{"Chrome"},
			TargetOSes:     []string{"macOS"},
		}
		assert.False(t, MatchesBrowserOS(chromeLinux, campaign))
		assert.False(t, MatchesBrowserOS(firefoxMac, campaign))
	})
}

func TestTargetingFromDTO(t *testing.T) {
	t.Run("NilTargetingDefaultsToAll", func(t *testing.T) {
		campaign := &models.Campaign{}
		require.NoError(t, targetingFromDTO(campaign, nil))
		assert.Equal(t, models.TargetTypeAll, campaign.TargetType)
		assert.True(t, campaign.TargetBrowserAll)
		assert.True(t, campaign.TargetOSAll)
	})

	t.Run("InvalidTargetType", func(t *testing.T) {
		campaign := &models.Campaign{}
		err := targetingFromDTO(campaign, &dto.TargetingDTO{TargetType: "segment"})
		assert.True(t, IsInvalidTargetType(err))
	})

	t.Run("LandingRequiresID", func(t *testing.T) {
		campaign := &models.Campaign{}
		err := targetingFromDTO(campaign, &dto.TargetingDTO{TargetType: "landing"})
		assert.ErrorIs(t, err, ErrTargetLandingRequired)
	})

	t.Run("LandingTargeting", func(t *testing.T) {
		campaign := &models.Campaign{}
		landingID := uint(7)
		require.NoError(t, targetingFromDTO(campaign, &dto.TargetingDTO{
			TargetType:      "landing",
			TargetLandingID: &landingID,
		}))
		assert.Equal(t, models.TargetTypeLanding, campaign.TargetType)
		require.NotNil(t, campaign.TargetLandingID)
		assert.Equal(t, uint(7), *campaign.TargetLandingID)
	})

	t.Run("FilterTargeting", func(t *testing.T) {
		campaign := &models.Campaign{}
		require.NoError(t, targetingFromDTO(campaign, &dto.TargetingDTO{
			TargetType:       "filter",
			TargetBrowsers:   []string{"Chrome", "Firefox"},
			TargetBrowserAll: utils.ToPtr(false),
			TargetOSAll:      utils.ToPtr(true),
		}))
		assert.Equal(t, models.TargetTypeFilter, campaign.TargetType)
		assert.False(t, campaign.TargetBrowserAll)
		assert.True(t, campaign.TargetOSAll)
		assert.Len(t, campaign.TargetBrowsers, 2)
	})

	t.Run("LandingIDClearedForNonLandingTypes", func(t *testing.T) {
		campaign := &models.Campaign{}
		landingID := uint(3)
		require.NoError(t, targetingFromDTO(campaign, &dto.TargetingDTO{
			TargetType:      "all",
			TargetLandingID: &landingID,
		}))
		assert.Nil(t, campaign.TargetLandingID)
	})

	t.Run("UnsetAllFlagsDefaultTrue", func(t *testing.T) {
		campaign := &models.Campaign{}
		require.NoError(t, targetingFromDTO(campaign, &dto.TargetingDTO{TargetType: "all"}))
		assert.True(t, campaign.TargetBrowserAll)
		assert.True(t, campaign.TargetOSAll)
	})
}

func TestResolveRecipients(t *testing.T) {
	ctx := t.Context()
	landingID := uint(1)

	subscribers := []*models.Subscriber{
		{ID: 1, Browser: "Chrome", OS: "Linux", AccessStatus: models.SubscriberStatusGranted},
		{ID: 2, Browser: "Firefox", OS: "macOS", AccessStatus: models.SubscriberStatusGranted, LandingPageID: &landingID},
		{ID: 3, Browser: "Chrome", OS: "Windows", AccessStatus: models.SubscriberStatusBlocked},
	}

	t.Run("AllIncludesBlocked", func(t *testing.T) {
		repo := newFakeSubscriberRepo(subscribers...)
		campaign := &models.Campaign{TargetType: models.TargetTypeAll}
		recipients, err := resolveRecipients(ctx, repo, campaign)
		require.NoError(t, err)
		assert.Len(t, recipients, 3)
	})

	t.Run("LandingDimension", func(t *testing.T) {
		repo := newFakeSubscriberRepo(subscribers...)
		campaign := &models.Campaign{
			TargetType:      models.TargetTypeLanding,
			TargetLandingID: &landingID,
		}
		recipients, err := resolveRecipients(ctx, repo, campaign)
		require.NoError(t, err)
		require.Len(t, recipients, 1)
		assert.Equal(t, uint(2), recipients[0].ID)
	})

	t.Run("LandingWithoutIDIsEmptyAudience", func(t *testing.T) {
		repo := newFakeSubscriberRepo(subscribers...)
		campaign := &models.Campaign{TargetType: models.TargetTypeLanding}
		recipients, err := resolveRecipients(ctx, repo, campaign)
		require.NoError(t, err)
		assert.Empty(t, recipients)
	})

	t.Run("UnknownRuleTypeIsEmptyAudience", func(t *testing.T) {
		repo := newFakeSubscriberRepo(subscribers...)
		campaign := &models.Campaign{TargetType: models.TargetType("segment")}
		recipients, err := resolveRecipients(ctx, repo, campaign)
		require.NoError(t, err)
		assert.Empty(t, recipients)
	})

	t.Run("FilterExcludesBlocked", func(t *testing.T) {
		repo := newFakeSubscriberRepo(subscribers...)
		campaign := &models.Campaign{
			TargetType:       models.TargetTypeFilter,
			TargetBrowserAll: true,
			TargetOSAll:      true,
		}
		recipients, err := resolveRecipients(ctx, repo, campaign)
		require.NoError(t, err)
		assert.Len(t, recipients, 2)
	})

	t.Run("FilterDimension", func(t *testing.T) {
		repo := newFakeSubscriberRepo(subscribers...)
		campaign := &models.Campaign{
			TargetType:     models.TargetTypeFilter,
			TargetBrowsers: []string{"Chrome"},
			TargetOSAll:    true,
		}
		recipients, err := resolveRecipients(ctx, repo, campaign)
		require.NoError(t, err)
		require.Len(t, recipients, 1)
		assert.Equal(t, uint(1), recipients[0].ID)
	})
}
