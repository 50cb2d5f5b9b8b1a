// Package businessflow contains the core business logic and use cases for campaign workflows
package businessflow

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	"github.com/affiliatesimran0007/push-notification-app-sub001/app/services"
	"github.com/affiliatesimran0007/push-notification-app-sub001/config"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/repository"
	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CampaignFlow handles the campaign business logic
type CampaignFlow interface {
	CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error)
	UpdateCampaign(ctx context.Context, req *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.UpdateCampaignResponse, error)
	GetCampaign(ctx context.Context, uuid string) (*dto.GetCampaignResponse, error)
	ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error)
	DeleteCampaign(ctx context.Context, uuid string) error
	SendCampaign(ctx context.Context, uuid string) (*dto.SendCampaignResponse, error)
	GetCampaignStats(ctx context.Context, uuid string) (*dto.CampaignStatsResponse, error)
	EstimateAudience(ctx context.Context, req *dto.EstimateAudienceRequest) (*dto.EstimateAudienceResponse, error)
}

// CampaignFlowImpl implements the campaign business flow
type CampaignFlowImpl struct {
	campaignRepo   repository.CampaignRepository
	subscriberRepo repository.SubscriberRepository
	landingRepo    repository.LandingPageRepository
	templateRepo   repository.TemplateRepository
	dispatchFlow   DispatchFlow
	payloadBuilder services.PayloadBuilder
	eventBus       services.EventBus
	cacheConfig    *config.CacheConfig
	rc             *redis.Client
	db             *gorm.DB
}

// NewCampaignFlow creates a new campaign flow instance
func NewCampaignFlow(
	campaignRepo repository.CampaignRepository,
	subscriberRepo repository.SubscriberRepository,
	landingRepo repository.LandingPageRepository,
	templateRepo repository.TemplateRepository,
	dispatchFlow DispatchFlow,
	payloadBuilder services.PayloadBuilder,
	eventBus services.EventBus,
	db *gorm.DB,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) CampaignFlow {
	return &CampaignFlowImpl{
		campaignRepo:   campaignRepo,
		subscriberRepo: subscriberRepo,
		landingRepo:    landingRepo,
		templateRepo:   templateRepo,
		dispatchFlow:   dispatchFlow,
		payloadBuilder: payloadBuilder,
		eventBus:       eventBus,
		cacheConfig:    cacheConfig,
		rc:             rc,
		db:             db,
	}
}

// CreateCampaign handles the complete campaign creation process
func (s *CampaignFlowImpl) CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error) {
	message, err := s.resolveMessage(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.validateMessage(&message); err != nil {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
	}

	campaign := &models.Campaign{
		Name:    req.Name,
		Message: message,
		Status:  models.CampaignStatusDraft,
	}

	if err := targetingFromDTO(campaign, req.Targeting); err != nil {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
	}

	if req.ScheduledAt != nil {
		scheduled := req.ScheduledAt.UTC()
		if !scheduled.After(utils.UTCNow()) {
			return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", ErrScheduleTimeInPast)
		}
		campaign.ScheduledAt = &scheduled
		campaign.Status = models.CampaignStatusScheduled
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.verifyTargetLanding(txCtx, campaign); err != nil {
			return err
		}
		return s.campaignRepo.Save(txCtx, campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_CREATION_FAILED", "Campaign creation failed", err)
	}

	s.eventBus.Publish(services.Event{
		Type: services.EventCampaignCreated,
		Data: map[string]any{"uuid": campaign.UUID.String(), "name": campaign.Name},
	})

	if req.SendNow {
		s.startDispatch(ctx, campaign.ID)
	}

	return &dto.CreateCampaignResponse{
		Message:   "Campaign created successfully",
		UUID:      campaign.UUID.String(),
		Status:    campaign.Status.String(),
		CreatedAt: campaign.CreatedAt.Format(time.RFC3339),
	}, nil
}

// UpdateCampaign handles the campaign update process. Only draft and
// scheduled campaigns accept edits.
func (s *CampaignFlowImpl) UpdateCampaign(ctx context.Context, req *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.UpdateCampaignResponse, error) {
	campaign, err := s.getCampaign(ctx, req.UUID)
	if err != nil {
		return nil, err
	}

	if !campaign.IsEditable() {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_NOT_ALLOWED", "Campaign can no longer be edited", ErrCampaignNotEditable)
	}

	if req.Name != nil {
		campaign.Name = *req.Name
	}
	if req.Message != nil {
		message := req.Message.ToModelMessage()
		if err := s.validateMessage(&message); err != nil {
			return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
		}
		campaign.Message = message
	}
	if req.Targeting != nil {
		if err := targetingFromDTO(campaign, req.Targeting); err != nil {
			return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
		}
	}

	if req.ClearSchedule {
		campaign.ScheduledAt = nil
		campaign.Status = models.CampaignStatusDraft
	} else if req.ScheduledAt != nil {
		scheduled := req.ScheduledAt.UTC()
		if !scheduled.After(utils.UTCNow()) {
			return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", ErrScheduleTimeInPast)
		}
		campaign.ScheduledAt = &scheduled
		campaign.Status = models.CampaignStatusScheduled
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.verifyTargetLanding(txCtx, campaign); err != nil {
			return err
		}
		return s.campaignRepo.Update(txCtx, *campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_FAILED", "Campaign update failed", err)
	}

	return &dto.UpdateCampaignResponse{
		Message: "Campaign updated successfully",
	}, nil
}

// GetCampaign retrieves a single campaign by UUID
func (s *CampaignFlowImpl) GetCampaign(ctx context.Context, uuid string) (*dto.GetCampaignResponse, error) {
	campaign, err := s.getCampaign(ctx, uuid)
	if err != nil {
		return nil, err
	}

	resp := ToCampaignDTO(campaign)
	return &resp, nil
}

// ListCampaigns retrieves a paginated campaign list, newest first by default
func (s *CampaignFlowImpl) ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error) {
	page, limit, err := normalizePagination(req.Page, req.Limit)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_VALIDATION_FAILED", "Invalid pagination", err)
	}

	filter := models.CampaignFilter{}
	if req.Filter != nil {
		filter.Name = req.Filter.Name
		if req.Filter.Status != nil {
			status := models.CampaignStatus(*req.Filter.Status)
			if !status.Valid() {
				return nil, NewBusinessError("CAMPAIGN_LIST_VALIDATION_FAILED", "Invalid status filter", ErrInvalidCampaignStatus)
			}
			filter.Status = &status
		}
	}

	orderBy := "created_at DESC"
	if req.OrderBy == "oldest" {
		orderBy = "created_at ASC"
	}

	total, err := s.campaignRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to count campaigns", err)
	}

	campaigns, err := s.campaignRepo.ByFilter(ctx, filter, orderBy, limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}

	items := make([]dto.GetCampaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		items = append(items, ToCampaignDTO(c))
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &dto.ListCampaignsResponse{
		Message: "Campaigns retrieved successfully",
		Items:   items,
		Pagination: dto.PaginationInfo{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

// DeleteCampaign removes a campaign and its delivery records
func (s *CampaignFlowImpl) DeleteCampaign(ctx context.Context, uuid string) error {
	campaign, err := s.getCampaign(ctx, uuid)
	if err != nil {
		return err
	}

	if err := s.campaignRepo.Delete(ctx, campaign.ID); err != nil {
		return NewBusinessError("CAMPAIGN_DELETE_FAILED", "Campaign deletion failed", err)
	}

	s.eventBus.Publish(services.Event{
		Type: services.EventCampaignDeleted,
		Data: map[string]any{"uuid": campaign.UUID.String()},
	})

	return nil
}

// SendCampaign kicks off dispatch for a campaign immediately. Dispatch runs
// in the background; the response reports the resolved audience size.
func (s *CampaignFlowImpl) SendCampaign(ctx context.Context, uuid string) (*dto.SendCampaignResponse, error) {
	campaign, err := s.getCampaign(ctx, uuid)
	if err != nil {
		return nil, err
	}

	if !campaign.IsDispatchable() {
		return nil, NewBusinessError("DISPATCH_NOT_ALLOWED", "Campaign is not in a dispatchable state", ErrCampaignNotDispatchable)
	}

	recipients, err := resolveRecipients(ctx, s.subscriberRepo, campaign)
	if err != nil {
		return nil, NewBusinessError("DISPATCH_AUDIENCE_FAILED", "Failed to resolve campaign audience", err)
	}

	_, advisories := s.payloadBuilder.Build(campaign)

	s.startDispatch(ctx, campaign.ID)

	return &dto.SendCampaignResponse{
		Message:    "Campaign dispatch started",
		UUID:       campaign.UUID.String(),
		Status:     models.CampaignStatusActive.String(),
		Recipients: len(recipients),
		Advisories: advisories,
	}, nil
}

// GetCampaignStats returns the current counters of a campaign, served from
// cache when a recent snapshot exists
func (s *CampaignFlowImpl) GetCampaignStats(ctx context.Context, uuid string) (*dto.CampaignStatsResponse, error) {
	cacheKey := redisKey(*s.cacheConfig, "campaign:stats:"+uuid)

	if s.rc != nil {
		if bs, err := s.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var out dto.CampaignStatsResponse
			if err := json.Unmarshal(bs, &out); err == nil {
				return &out, nil
			}
		}
	}

	campaign, err := s.getCampaign(ctx, uuid)
	if err != nil {
		return nil, err
	}

	out := &dto.CampaignStatsResponse{
		Message: "Campaign stats retrieved successfully",
		UUID:    campaign.UUID.String(),
		Status:  campaign.Status.String(),
		Stats:   ToCampaignStatsDTO(campaign),
	}

	if s.rc != nil {
		if bs, err := json.Marshal(out); err == nil {
			_ = s.rc.Set(ctx, cacheKey, bs, utils.CampaignStatsCacheTTL).Err()
		}
	}

	return out, nil
}

// EstimateAudience counts the subscribers a targeting rule would reach.
// Estimates are cached briefly keyed on the rule itself.
func (s *CampaignFlowImpl) EstimateAudience(ctx context.Context, req *dto.EstimateAudienceRequest) (*dto.EstimateAudienceResponse, error) {
	trial := &models.Campaign{}
	if err := targetingFromDTO(trial, &req.Targeting); err != nil {
		return nil, NewBusinessError("AUDIENCE_ESTIMATE_VALIDATION_FAILED", "Invalid targeting rule", err)
	}

	cacheKey := s.estimateCacheKey(&req.Targeting)
	if s.rc != nil {
		if v, err := s.rc.Get(ctx, cacheKey).Result(); err == nil {
			if estimate, err := strconv.ParseInt(v, 10, 64); err == nil {
				return &dto.EstimateAudienceResponse{
					Message:  "Audience estimate retrieved from cache",
					Estimate: estimate,
				}, nil
			}
		}
	}

	recipients, err := resolveRecipients(ctx, s.subscriberRepo, trial)
	if err != nil {
		return nil, NewBusinessError("AUDIENCE_ESTIMATE_FAILED", "Failed to estimate audience", err)
	}
	estimate := int64(len(recipients))

	if s.rc != nil {
		_ = s.rc.Set(ctx, cacheKey, strconv.FormatInt(estimate, 10), utils.AudienceEstimateCacheTTL).Err()
	}

	return &dto.EstimateAudienceResponse{
		Message:  "Audience estimate calculated successfully",
		Estimate: estimate,
	}, nil
}

// startDispatch launches dispatch detached from the request lifecycle
func (s *CampaignFlowImpl) startDispatch(ctx context.Context, campaignID uint) {
	bg := context.WithoutCancel(ctx)
	go func() {
		if _, err := s.dispatchFlow.DispatchCampaign(bg, campaignID); err != nil {
			if !IsCampaignAlreadyActive(err) {
				log.Printf("campaign %d dispatch failed: %v", campaignID, err)
			}
		}
	}()
}

// getCampaign loads a campaign by UUID or returns a not-found business error
func (s *CampaignFlowImpl) getCampaign(ctx context.Context, uuid string) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}
	return campaign, nil
}

// verifyTargetLanding checks the referenced landing page exists
func (s *CampaignFlowImpl) verifyTargetLanding(ctx context.Context, campaign *models.Campaign) error {
	if campaign.TargetType != models.TargetTypeLanding || campaign.TargetLandingID == nil {
		return nil
	}

	page, err := s.landingRepo.ByID(ctx, *campaign.TargetLandingID)
	if err != nil {
		return err
	}
	if page == nil {
		return ErrTargetLandingNotFound
	}
	return nil
}

// resolveMessage produces the campaign message from the request, a template,
// or both. Request fields override the template's where set.
func (s *CampaignFlowImpl) resolveMessage(ctx context.Context, req *dto.CreateCampaignRequest) (models.CampaignMessage, error) {
	if req.TemplateID == nil {
		if req.Message == nil {
			return models.CampaignMessage{}, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", ErrCampaignMessageRequired)
		}
		return req.Message.ToModelMessage(), nil
	}

	template, err := s.templateRepo.ByID(ctx, *req.TemplateID)
	if err != nil {
		return models.CampaignMessage{}, NewBusinessError("CAMPAIGN_CREATION_FAILED", "Failed to load template", err)
	}
	if template == nil {
		return models.CampaignMessage{}, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", ErrTemplateNotFound)
	}

	message := template.Message
	if req.Message != nil {
		overlayMessage(&message, req.Message)
	}
	return message, nil
}

// overlayMessage applies the set fields of an override onto a base message
func overlayMessage(base *models.CampaignMessage, override *dto.CampaignMessageDTO) {
	m := override.ToModelMessage()
	if m.Title != "" {
		base.Title = m.Title
	}
	if m.Message != "" {
		base.Message = m.Message
	}
	if m.Icon != "" {
		base.Icon = m.Icon
	}
	if m.Image != "" {
		base.Image = m.Image
	}
	if m.URL != "" {
		base.URL = m.URL
	}
	if m.Tag != "" {
		base.Tag = m.Tag
	}
	if len(m.Actions) > 0 {
		base.Actions = m.Actions
	}
	if len(m.Extras) > 0 {
		base.Extras = m.Extras
	}
}

// validateMessage enforces the hard content rules
func (s *CampaignFlowImpl) validateMessage(msg *models.CampaignMessage) error {
	if msg.Title == "" {
		return ErrCampaignTitleRequired
	}
	if msg.Message == "" {
		return ErrCampaignMessageRequired
	}
	return nil
}

// estimateCacheKey derives a stable cache key from a targeting rule
func (s *CampaignFlowImpl) estimateCacheKey(t *dto.TargetingDTO) string {
	bs, _ := json.Marshal(t)
	sum := sha256.Sum256(bs)
	return redisKey(*s.cacheConfig, fmt.Sprintf("audience:estimate:%x", sum[:8]))
}
