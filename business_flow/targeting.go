package businessflow

import (
	"context"
	"strings"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/repository"
	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
)

// MatchesBrowserOS reports whether a subscriber satisfies the browser and OS
// dimensions of a filter targeting rule. Matching is case-insensitive and
// substring based, so "chrome" matches both "Chrome" and "Chrome Mobile".
// A dimension with its "all" flag set is not filtered; dimensions AND.
func MatchesBrowserOS(subscriber *models.Subscriber, campaign *models.Campaign) bool {
	if !campaign.TargetBrowserAll {
		if !containsFold(subscriber.Browser, campaign.TargetBrowsers) {
			return false
		}
	}
	if !campaign.TargetOSAll {
		if !containsFold(subscriber.OS, campaign.TargetOSes) {
			return false
		}
	}
	return true
}

// containsFold reports whether value case-insensitively contains any of the
// selected entries. An empty selection matches nobody.
func containsFold(value string, selected []string) bool {
	lowered := strings.ToLower(value)
	for _, s := range selected {
		if s == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// resolveRecipients materializes the audience of a campaign. The `all` rule
// includes every subscriber regardless of access status; landing and filter
// rules skip blocked subscribers. A malformed rule resolves to an empty
// audience rather than an error, so dispatch completes with zero recipients.
func resolveRecipients(ctx context.Context, subscriberRepo repository.SubscriberRepository, campaign *models.Campaign) ([]*models.Subscriber, error) {
	filter := models.SubscriberFilter{}

	switch campaign.TargetType {
	case models.TargetTypeAll:
		// no extra dimensions
	case models.TargetTypeLanding:
		if campaign.TargetLandingID == nil {
			return []*models.Subscriber{}, nil
		}
		filter.LandingPageID = campaign.TargetLandingID
	case models.TargetTypeFilter:
		// browser/OS matching happens below
	default:
		return []*models.Subscriber{}, nil
	}

	subscribers, err := subscriberRepo.ByFilter(ctx, filter, "id ASC", 0, 0)
	if err != nil {
		return nil, err
	}

	recipients := make([]*models.Subscriber, 0, len(subscribers))
	for _, s := range subscribers {
		if campaign.TargetType != models.TargetTypeAll &&
			s.AccessStatus == models.SubscriberStatusBlocked {
			continue
		}
		if campaign.TargetType == models.TargetTypeFilter && !MatchesBrowserOS(s, campaign) {
			continue
		}
		recipients = append(recipients, s)
	}

	return recipients, nil
}

// targetingFromDTO applies a targeting DTO onto a campaign model
func targetingFromDTO(campaign *models.Campaign, t *dto.TargetingDTO) error {
	if t == nil {
		campaign.TargetType = models.TargetTypeAll
		campaign.TargetBrowserAll = true
		campaign.TargetOSAll = true
		return nil
	}

	targetType := models.TargetType(t.TargetType)
	switch targetType {
	case models.TargetTypeAll, models.TargetTypeLanding, models.TargetTypeFilter:
	default:
		return ErrInvalidTargetType
	}

	if targetType == models.TargetTypeLanding && t.TargetLandingID == nil {
		return ErrTargetLandingRequired
	}

	campaign.TargetType = targetType
	campaign.TargetLandingID = t.TargetLandingID
	campaign.TargetBrowsers = t.TargetBrowsers
	campaign.TargetBrowserAll = t.TargetBrowserAll == nil || utils.IsTrue(t.TargetBrowserAll)
	campaign.TargetOSes = t.TargetOSes
	campaign.TargetOSAll = t.TargetOSAll == nil || utils.IsTrue(t.TargetOSAll)

	if targetType != models.TargetTypeLanding {
		campaign.TargetLandingID = nil
	}

	return nil
}
