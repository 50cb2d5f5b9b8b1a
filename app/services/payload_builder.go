package services

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
)

// PushPayload is the JSON document delivered to the service worker
type PushPayload struct {
	Title   string                 `json:"title"`
	Body    string                 `json:"body"`
	Icon    string                 `json:"icon"`
	Badge   string                 `json:"badge"`
	Image   string                 `json:"image,omitempty"`
	Tag     string                 `json:"tag"`
	Actions []models.MessageAction `json:"actions,omitempty"`
	Data    PushPayloadData        `json:"data"`
	// Duplicated from data for older service-worker consumers
	TrackingURL string `json:"trackingUrl,omitempty"`
}

// PushPayloadData carries the identifiers the service worker echoes back on
// tracking callbacks, plus the click destination. Extras are caller-supplied
// fields merged alongside; reserved keys always win.
type PushPayloadData struct {
	CampaignID   uint           `json:"campaignId"`
	SubscriberID uint           `json:"subscriberId"`
	URL          string         `json:"url"`
	TrackingURL  string         `json:"trackingUrl,omitempty"`
	Timestamp    int64          `json:"timestamp"`
	Extras       map[string]any `json:"-"`
}

// MarshalJSON flattens extras into the data block
func (d PushPayloadData) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extras)+5)
	for k, v := range d.Extras {
		out[k] = v
	}
	out["campaignId"] = d.CampaignID
	out["subscriberId"] = d.SubscriberID
	out["url"] = d.URL
	if d.TrackingURL != "" {
		out["trackingUrl"] = d.TrackingURL
	}
	out["timestamp"] = d.Timestamp
	return json.Marshal(out)
}

// PayloadBuilder assembles push payloads from campaign content
type PayloadBuilder interface {
	// Build produces the campaign-wide payload skeleton plus any advisory
	// issues with the content. Advisories never block a send.
	Build(campaign *models.Campaign) (*PushPayload, []string)
	// Encode personalizes the skeleton for one subscriber and serializes it
	Encode(payload *PushPayload, subscriberID uint) ([]byte, []string, error)
}

// PayloadBuilderImpl implements PayloadBuilder
type PayloadBuilderImpl struct {
	trackingBaseURL string
}

// NewPayloadBuilder creates a new payload builder. trackingBaseURL is the
// externally reachable endpoint the service worker posts callbacks to.
func NewPayloadBuilder(trackingBaseURL string) PayloadBuilder {
	return &PayloadBuilderImpl{
		trackingBaseURL: trackingBaseURL,
	}
}

// Build produces the campaign-wide payload skeleton plus advisory issues
func (b *PayloadBuilderImpl) Build(campaign *models.Campaign) (*PushPayload, []string) {
	var advisories []string

	msg := campaign.Message

	icon := msg.Icon
	if icon == "" {
		icon = utils.DefaultNotificationIcon
	}

	// A caller-supplied tag lets a campaign replace its own earlier
	// notification; the generated fallback never collides
	tag := msg.Tag
	if tag == "" {
		tag = generateTag()
	}

	url := msg.URL
	if url == "" {
		url = "/"
	}

	actions := msg.Actions
	if len(actions) > utils.MaxNotificationActions {
		advisories = append(advisories,
			fmt.Sprintf("message has %d actions; browsers show at most %d, extras were dropped",
				len(actions), utils.MaxNotificationActions))
		actions = actions[:utils.MaxNotificationActions]
	}

	if len(msg.Title) > utils.AdvisoryTitleLength {
		advisories = append(advisories,
			fmt.Sprintf("title is %d characters; most browsers truncate past %d",
				len(msg.Title), utils.AdvisoryTitleLength))
	}
	if len(msg.Message) > utils.AdvisoryBodyLength {
		advisories = append(advisories,
			fmt.Sprintf("body is %d characters; most browsers truncate past %d",
				len(msg.Message), utils.AdvisoryBodyLength))
	}

	payload := &PushPayload{
		Title:       msg.Title,
		Body:        msg.Message,
		Icon:        icon,
		Badge:       utils.DefaultNotificationBadge,
		Image:       msg.Image,
		Tag:         tag,
		Actions:     actions,
		TrackingURL: b.trackingBaseURL,
		Data: PushPayloadData{
			CampaignID:  campaign.ID,
			URL:         url,
			TrackingURL: b.trackingBaseURL,
			Timestamp:   utils.UTCNow().UnixMilli(),
			Extras:      msg.Extras,
		},
	}

	return payload, advisories
}

// Encode personalizes the skeleton for one subscriber and serializes it
func (b *PayloadBuilderImpl) Encode(payload *PushPayload, subscriberID uint) ([]byte, []string, error) {
	personalized := *payload
	personalized.Data.SubscriberID = subscriberID

	encoded, err := json.Marshal(personalized)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode push payload: %w", err)
	}

	var advisories []string
	if len(encoded) > utils.AdvisoryPayloadBytes {
		advisories = append(advisories,
			fmt.Sprintf("encoded payload is %d bytes; push services reject payloads past %d",
				len(encoded), utils.AdvisoryPayloadBytes))
	}

	return encoded, advisories, nil
}

// generateTag combines the current time with a random suffix
func generateTag() string {
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return fmt.Sprintf("%d-%s", utils.UTCNow().UnixMilli(), hex.EncodeToString(suffix))
}
