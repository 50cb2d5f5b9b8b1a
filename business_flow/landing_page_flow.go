package businessflow

import (
	"context"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/repository"
)

// LandingPageFlow handles the landing page business logic
type LandingPageFlow interface {
	CreateLandingPage(ctx context.Context, req *dto.CreateLandingPageRequest) (*dto.CreateLandingPageResponse, error)
	UpdateLandingPage(ctx context.Context, req *dto.UpdateLandingPageRequest) (*dto.UpdateLandingPageResponse, error)
	GetLandingPage(ctx context.Context, id uint) (*dto.GetLandingPageResponse, error)
	ListLandingPages(ctx context.Context) (*dto.ListLandingPagesResponse, error)
	DeleteLandingPage(ctx context.Context, id uint) error
}

// LandingPageFlowImpl implements the landing page business flow
type LandingPageFlowImpl struct {
	landingRepo repository.LandingPageRepository
}

// NewLandingPageFlow creates a new landing page flow instance
func NewLandingPageFlow(landingRepo repository.LandingPageRepository) LandingPageFlow {
	return &LandingPageFlowImpl{
		landingRepo: landingRepo,
	}
}

// CreateLandingPage creates a new landing page
func (s *LandingPageFlowImpl) CreateLandingPage(ctx context.Context, req *dto.CreateLandingPageRequest) (*dto.CreateLandingPageResponse, error) {
	existing, err := s.landingRepo.ByDomainAndIdentifier(ctx, req.Domain, req.Identifier)
	if err != nil {
		return nil, NewBusinessError("LANDING_PAGE_LOOKUP_FAILED", "Failed to lookup landing page", err)
	}
	if existing != nil {
		return nil, NewBusinessError("LANDING_PAGE_EXISTS", "Landing page already exists", ErrLandingPageExists)
	}

	page := &models.LandingPage{
		Identifier:  req.Identifier,
		Domain:      req.Domain,
		Title:       req.Title,
		RedirectURL: req.RedirectURL,
		IsActive:    true,
	}

	if err := s.landingRepo.Save(ctx, page); err != nil {
		return nil, NewBusinessError("LANDING_PAGE_CREATION_FAILED", "Landing page creation failed", err)
	}

	return &dto.CreateLandingPageResponse{
		Message: "Landing page created successfully",
		ID:      page.ID,
	}, nil
}

// UpdateLandingPage updates an existing landing page
func (s *LandingPageFlowImpl) UpdateLandingPage(ctx context.Context, req *dto.UpdateLandingPageRequest) (*dto.UpdateLandingPageResponse, error) {
	page, err := s.landingRepo.ByID(ctx, req.ID)
	if err != nil {
		return nil, NewBusinessError("LANDING_PAGE_LOOKUP_FAILED", "Failed to lookup landing page", err)
	}
	if page == nil {
		return nil, NewBusinessError("LANDING_PAGE_NOT_FOUND", "Landing page not found", ErrLandingPageNotFound)
	}

	if req.Title != nil {
		page.Title = *req.Title
	}
	if req.RedirectURL != nil {
		page.RedirectURL = *req.RedirectURL
	}
	if req.IsActive != nil {
		page.IsActive = *req.IsActive
	}

	if err := s.landingRepo.Update(ctx, *page); err != nil {
		return nil, NewBusinessError("LANDING_PAGE_UPDATE_FAILED", "Landing page update failed", err)
	}

	return &dto.UpdateLandingPageResponse{
		Message: "Landing page updated successfully",
	}, nil
}

// GetLandingPage retrieves a single landing page by ID
func (s *LandingPageFlowImpl) GetLandingPage(ctx context.Context, id uint) (*dto.GetLandingPageResponse, error) {
	page, err := s.landingRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("LANDING_PAGE_LOOKUP_FAILED", "Failed to lookup landing page", err)
	}
	if page == nil {
		return nil, NewBusinessError("LANDING_PAGE_NOT_FOUND", "Landing page not found", ErrLandingPageNotFound)
	}

	resp := ToLandingPageDTO(page)
	return &resp, nil
}

// ListLandingPages lists all landing pages
func (s *LandingPageFlowImpl) ListLandingPages(ctx context.Context) (*dto.ListLandingPagesResponse, error) {
	pages, err := s.landingRepo.ByFilter(ctx, models.LandingPageFilter{}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("LANDING_PAGE_LIST_FAILED", "Failed to list landing pages", err)
	}

	items := make([]dto.GetLandingPageResponse, 0, len(pages))
	for _, p := range pages {
		items = append(items, ToLandingPageDTO(p))
	}

	return &dto.ListLandingPagesResponse{
		Message: "Landing pages retrieved successfully",
		Items:   items,
	}, nil
}

// DeleteLandingPage removes a landing page
func (s *LandingPageFlowImpl) DeleteLandingPage(ctx context.Context, id uint) error {
	page, err := s.landingRepo.ByID(ctx, id)
	if err != nil {
		return NewBusinessError("LANDING_PAGE_LOOKUP_FAILED", "Failed to lookup landing page", err)
	}
	if page == nil {
		return NewBusinessError("LANDING_PAGE_NOT_FOUND", "Landing page not found", ErrLandingPageNotFound)
	}

	if err := s.landingRepo.Delete(ctx, id); err != nil {
		return NewBusinessError("LANDING_PAGE_DELETE_FAILED", "Landing page deletion failed", err)
	}

	return nil
}
