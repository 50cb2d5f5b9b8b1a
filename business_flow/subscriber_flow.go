package businessflow

import (
	"context"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/repository"
	"gorm.io/gorm"
)

// SubscriberFlow handles the subscriber registry business logic
type SubscriberFlow interface {
	// RegisterSubscriber handles the browser handshake: upsert keyed on the
	// endpoint, landing attribution on first sight only.
	RegisterSubscriber(ctx context.Context, req *dto.RegisterSubscriberRequest, metadata *ClientMetadata) (*dto.RegisterSubscriberResponse, error)
	ListSubscribers(ctx context.Context, req *dto.ListSubscribersRequest) (*dto.ListSubscribersResponse, error)
	GetSubscriber(ctx context.Context, id uint) (*dto.GetSubscriberResponse, error)
	UpdateSubscriberStatus(ctx context.Context, req *dto.UpdateSubscriberStatusRequest) (*dto.UpdateSubscriberStatusResponse, error)
	DeleteSubscriber(ctx context.Context, id uint) error
	ListBrowsers(ctx context.Context) ([]string, error)
}

// SubscriberFlowImpl implements the subscriber business flow
type SubscriberFlowImpl struct {
	subscriberRepo repository.SubscriberRepository
	landingRepo    repository.LandingPageRepository
	db             *gorm.DB
}

// NewSubscriberFlow creates a new subscriber flow instance
func NewSubscriberFlow(
	subscriberRepo repository.SubscriberRepository,
	landingRepo repository.LandingPageRepository,
	db *gorm.DB,
) SubscriberFlow {
	return &SubscriberFlowImpl{
		subscriberRepo: subscriberRepo,
		landingRepo:    landingRepo,
		db:             db,
	}
}

// RegisterSubscriber handles the browser handshake
func (s *SubscriberFlowImpl) RegisterSubscriber(ctx context.Context, req *dto.RegisterSubscriberRequest, metadata *ClientMetadata) (*dto.RegisterSubscriberResponse, error) {
	if req.Endpoint == "" {
		return nil, NewBusinessError("SUBSCRIBER_VALIDATION_FAILED", "Subscriber validation failed", ErrEndpointRequired)
	}
	if req.Keys.P256dh == "" || req.Keys.Auth == "" {
		return nil, NewBusinessError("SUBSCRIBER_VALIDATION_FAILED", "Subscriber validation failed", ErrSubscriptionKeysRequired)
	}

	accessStatus := models.SubscriberStatusGranted
	if req.AccessStatus != "" {
		accessStatus = models.SubscriberStatus(req.AccessStatus)
		if !accessStatus.Valid() {
			return nil, NewBusinessError("SUBSCRIBER_VALIDATION_FAILED", "Subscriber validation failed", ErrInvalidAccessStatus)
		}
	}

	subscriber := &models.Subscriber{
		Endpoint:       req.Endpoint,
		P256dh:         req.Keys.P256dh,
		AuthKey:        req.Keys.Auth,
		Browser:        req.Browser,
		BrowserVersion: req.BrowserVersion,
		OS:             req.OS,
		Device:         req.Device,
		AccessStatus:   accessStatus,
	}
	if metadata != nil {
		subscriber.IPAddress = metadata.IPAddress
	}

	var landing *models.LandingPage
	if req.LandingDomain != "" && req.LandingID != "" {
		var err error
		landing, err = s.landingRepo.ByDomainAndIdentifier(ctx, req.LandingDomain, req.LandingID)
		if err != nil {
			return nil, NewBusinessError("SUBSCRIBER_LANDING_LOOKUP_FAILED", "Failed to lookup landing page", err)
		}
	}

	var created bool
	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if landing != nil {
			subscriber.LandingPageID = &landing.ID
		}

		var err error
		created, err = s.subscriberRepo.Upsert(txCtx, subscriber)
		if err != nil {
			return err
		}

		// Landing attribution is first-touch only
		if created && landing != nil {
			if err := s.landingRepo.IncrementSubscribers(txCtx, landing.ID, 1); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, NewBusinessError("SUBSCRIBER_REGISTRATION_FAILED", "Subscriber registration failed", err)
	}

	resp := &dto.RegisterSubscriberResponse{
		Message:      "Subscription registered successfully",
		SubscriberID: subscriber.ID,
		Created:      created,
	}
	if landing != nil {
		resp.RedirectURL = landing.RedirectURL
	}

	return resp, nil
}

// ListSubscribers retrieves a paginated subscriber list
func (s *SubscriberFlowImpl) ListSubscribers(ctx context.Context, req *dto.ListSubscribersRequest) (*dto.ListSubscribersResponse, error) {
	page, limit, err := normalizePagination(req.Page, req.Limit)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIBER_LIST_VALIDATION_FAILED", "Invalid pagination", err)
	}

	filter := models.SubscriberFilter{}
	if req.Filter != nil {
		filter.LandingPageID = req.Filter.LandingPageID
		filter.Browser = req.Filter.Browser
		filter.OS = req.Filter.OS
		if req.Filter.AccessStatus != nil {
			status := models.SubscriberStatus(*req.Filter.AccessStatus)
			if !status.Valid() {
				return nil, NewBusinessError("SUBSCRIBER_LIST_VALIDATION_FAILED", "Invalid status filter", ErrInvalidAccessStatus)
			}
			filter.AccessStatus = &status
		}
	}

	orderBy := "created_at DESC"
	if req.OrderBy == "oldest" {
		orderBy = "created_at ASC"
	}

	total, err := s.subscriberRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIBER_LIST_FAILED", "Failed to count subscribers", err)
	}

	subscribers, err := s.subscriberRepo.ByFilter(ctx, filter, orderBy, limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIBER_LIST_FAILED", "Failed to list subscribers", err)
	}

	items := make([]dto.GetSubscriberResponse, 0, len(subscribers))
	for _, sub := range subscribers {
		items = append(items, ToSubscriberDTO(sub))
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &dto.ListSubscribersResponse{
		Message: "Subscribers retrieved successfully",
		Items:   items,
		Pagination: dto.PaginationInfo{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

// GetSubscriber retrieves a single subscriber by ID
func (s *SubscriberFlowImpl) GetSubscriber(ctx context.Context, id uint) (*dto.GetSubscriberResponse, error) {
	subscriber, err := s.subscriberRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIBER_LOOKUP_FAILED", "Failed to lookup subscriber", err)
	}
	if subscriber == nil {
		return nil, NewBusinessError("SUBSCRIBER_NOT_FOUND", "Subscriber not found", ErrSubscriberNotFound)
	}

	resp := ToSubscriberDTO(subscriber)
	return &resp, nil
}

// UpdateSubscriberStatus changes the access-status flag of a subscriber
func (s *SubscriberFlowImpl) UpdateSubscriberStatus(ctx context.Context, req *dto.UpdateSubscriberStatusRequest) (*dto.UpdateSubscriberStatusResponse, error) {
	status := models.SubscriberStatus(req.AccessStatus)
	if !status.Valid() {
		return nil, NewBusinessError("SUBSCRIBER_VALIDATION_FAILED", "Subscriber validation failed", ErrInvalidAccessStatus)
	}

	subscriber, err := s.subscriberRepo.ByID(ctx, req.SubscriberID)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIBER_LOOKUP_FAILED", "Failed to lookup subscriber", err)
	}
	if subscriber == nil {
		return nil, NewBusinessError("SUBSCRIBER_NOT_FOUND", "Subscriber not found", ErrSubscriberNotFound)
	}

	if err := s.subscriberRepo.UpdateAccessStatus(ctx, subscriber.ID, status); err != nil {
		return nil, NewBusinessError("SUBSCRIBER_UPDATE_FAILED", "Failed to update subscriber", err)
	}

	return &dto.UpdateSubscriberStatusResponse{
		Message: "Subscriber status updated successfully",
	}, nil
}

// DeleteSubscriber removes a subscriber and its delivery records
func (s *SubscriberFlowImpl) DeleteSubscriber(ctx context.Context, id uint) error {
	subscriber, err := s.subscriberRepo.ByID(ctx, id)
	if err != nil {
		return NewBusinessError("SUBSCRIBER_LOOKUP_FAILED", "Failed to lookup subscriber", err)
	}
	if subscriber == nil {
		return NewBusinessError("SUBSCRIBER_NOT_FOUND", "Subscriber not found", ErrSubscriberNotFound)
	}

	if err := s.subscriberRepo.Delete(ctx, id); err != nil {
		return NewBusinessError("SUBSCRIBER_DELETE_FAILED", "Subscriber deletion failed", err)
	}

	return nil
}

// ListBrowsers lists distinct browser names for targeting filter options
func (s *SubscriberFlowImpl) ListBrowsers(ctx context.Context) ([]string, error) {
	browsers, err := s.subscriberRepo.DistinctBrowsers(ctx)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIBER_BROWSER_LIST_FAILED", "Failed to list browsers", err)
	}
	return browsers, nil
}
