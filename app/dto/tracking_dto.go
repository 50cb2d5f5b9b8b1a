package dto

// TrackEventRequest is a service-worker callback reporting a notification event
type TrackEventRequest struct {
	CampaignID   uint   `json:"campaignId" validate:"required"`
	SubscriberID uint   `json:"subscriberId" validate:"required"`
	Event        string `json:"event" validate:"required,oneof=delivered clicked dismissed"`
	Action       string `json:"action,omitempty" validate:"omitempty,max=64"`
}

// TrackEventResponse acknowledges a tracking callback
type TrackEventResponse struct {
	Message string `json:"message"`
	Counted bool   `json:"counted"`
}

// CampaignStatsResponse carries the current stats of one campaign
type CampaignStatsResponse struct {
	Message string           `json:"message"`
	UUID    string           `json:"uuid"`
	Status  string           `json:"status"`
	Stats   CampaignStatsDTO `json:"stats"`
}
