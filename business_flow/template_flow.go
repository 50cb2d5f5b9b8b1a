package businessflow

import (
	"context"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/repository"
)

// TemplateFlow handles the message template business logic
type TemplateFlow interface {
	CreateTemplate(ctx context.Context, req *dto.CreateTemplateRequest) (*dto.CreateTemplateResponse, error)
	UpdateTemplate(ctx context.Context, req *dto.UpdateTemplateRequest) (*dto.UpdateTemplateResponse, error)
	GetTemplate(ctx context.Context, id uint) (*dto.GetTemplateResponse, error)
	ListTemplates(ctx context.Context) (*dto.ListTemplatesResponse, error)
	DeleteTemplate(ctx context.Context, id uint) error
}

// TemplateFlowImpl implements the template business flow
type TemplateFlowImpl struct {
	templateRepo repository.TemplateRepository
}

// NewTemplateFlow creates a new template flow instance
func NewTemplateFlow(templateRepo repository.TemplateRepository) TemplateFlow {
	return &TemplateFlowImpl{
		templateRepo: templateRepo,
	}
}

// CreateTemplate creates a new message template
func (s *TemplateFlowImpl) CreateTemplate(ctx context.Context, req *dto.CreateTemplateRequest) (*dto.CreateTemplateResponse, error) {
	if req.Message.Title == "" {
		return nil, NewBusinessError("TEMPLATE_VALIDATION_FAILED", "Template validation failed", ErrCampaignTitleRequired)
	}
	if req.Message.Message == "" {
		return nil, NewBusinessError("TEMPLATE_VALIDATION_FAILED", "Template validation failed", ErrCampaignMessageRequired)
	}

	existing, err := s.templateRepo.ByName(ctx, req.Name)
	if err != nil {
		return nil, NewBusinessError("TEMPLATE_LOOKUP_FAILED", "Failed to lookup template", err)
	}
	if existing != nil {
		return nil, NewBusinessError("TEMPLATE_NAME_EXISTS", "Template name already exists", ErrTemplateNameExists)
	}

	template := &models.Template{
		Name:    req.Name,
		Message: req.Message.ToModelMessage(),
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, NewBusinessError("TEMPLATE_CREATION_FAILED", "Template creation failed", err)
	}

	return &dto.CreateTemplateResponse{
		Message: "Template created successfully",
		ID:      template.ID,
	}, nil
}

// UpdateTemplate updates an existing template
func (s *TemplateFlowImpl) UpdateTemplate(ctx context.Context, req *dto.UpdateTemplateRequest) (*dto.UpdateTemplateResponse, error) {
	template, err := s.templateRepo.ByID(ctx, req.ID)
	if err != nil {
		return nil, NewBusinessError("TEMPLATE_LOOKUP_FAILED", "Failed to lookup template", err)
	}
	if template == nil {
		return nil, NewBusinessError("TEMPLATE_NOT_FOUND", "Template not found", ErrTemplateNotFound)
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Message != nil {
		template.Message = req.Message.ToModelMessage()
	}

	if err := s.templateRepo.Update(ctx, *template); err != nil {
		return nil, NewBusinessError("TEMPLATE_UPDATE_FAILED", "Template update failed", err)
	}

	return &dto.UpdateTemplateResponse{
		Message: "Template updated successfully",
	}, nil
}

// GetTemplate retrieves a single template by ID
func (s *TemplateFlowImpl) GetTemplate(ctx context.Context, id uint) (*dto.GetTemplateResponse, error) {
	template, err := s.templateRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("TEMPLATE_LOOKUP_FAILED", "Failed to lookup template", err)
	}
	if template == nil {
		return nil, NewBusinessError("TEMPLATE_NOT_FOUND", "Template not found", ErrTemplateNotFound)
	}

	resp := ToTemplateDTO(template)
	return &resp, nil
}

// ListTemplates lists all templates
func (s *TemplateFlowImpl) ListTemplates(ctx context.Context) (*dto.ListTemplatesResponse, error) {
	templates, err := s.templateRepo.ByFilter(ctx, models.TemplateFilter{}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("TEMPLATE_LIST_FAILED", "Failed to list templates", err)
	}

	items := make([]dto.GetTemplateResponse, 0, len(templates))
	for _, t := range templates {
		items = append(items, ToTemplateDTO(t))
	}

	return &dto.ListTemplatesResponse{
		Message: "Templates retrieved successfully",
		Items:   items,
	}, nil
}

// DeleteTemplate removes a template
func (s *TemplateFlowImpl) DeleteTemplate(ctx context.Context, id uint) error {
	template, err := s.templateRepo.ByID(ctx, id)
	if err != nil {
		return NewBusinessError("TEMPLATE_LOOKUP_FAILED", "Failed to lookup template", err)
	}
	if template == nil {
		return NewBusinessError("TEMPLATE_NOT_FOUND", "Template not found", ErrTemplateNotFound)
	}

	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return NewBusinessError("TEMPLATE_DELETE_FAILED", "Template deletion failed", err)
	}

	return nil
}
