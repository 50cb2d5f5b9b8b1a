package businessflow

import (
	"testing"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMessage(t *testing.T) {
	ctx := t.Context()

	digest := &models.Template{
		ID:   1,
		Name: "weekly-digest",
		Message: models.CampaignMessage{
			Title:   "Weekly digest",
			Message: "Here is what you missed",
			Icon:    "https://cdn.example.com/digest.png",
			Tag:     "weekly-digest",
		},
	}

	t.Run("DirectMessage", func(t *testing.T) {
		flow := &CampaignFlowImpl{templateRepo: newFakeTemplateRepo()}
		message, err := flow.resolveMessage(ctx, &dto.CreateCampaignRequest{
			Message: &dto.CampaignMessageDTO{Title: "Hello", Message: "World"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Hello", message.Title)
		assert.Equal(t, "World", message.Message)
	})

	t.Run("MissingMessage", func(t *testing.T) {
		flow := &CampaignFlowImpl{templateRepo: newFakeTemplateRepo()}
		_, err := flow.resolveMessage(ctx, &dto.CreateCampaignRequest{})
		assert.ErrorIs(t, err, ErrCampaignMessageRequired)
	})

	t.Run("TemplateOnly", func(t *testing.T) {
		flow := &CampaignFlowImpl{templateRepo: newFakeTemplateRepo(digest)}
		message, err := flow.resolveMessage(ctx, &dto.CreateCampaignRequest{
			TemplateID: utils.ToPtr(uint(1)),
		})
		require.NoError(t, err)
		assert.Equal(t, digest.Message, message)
	})

	t.Run("RequestFieldsOverrideTemplate", func(t *testing.T) {
		flow := &CampaignFlowImpl{templateRepo: newFakeTemplateRepo(digest)}
		message, err := flow.resolveMessage(ctx, &dto.CreateCampaignRequest{
			TemplateID: utils.ToPtr(uint(1)),
			Message:    &dto.CampaignMessageDTO{Title: "Special edition"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Special edition", message.Title)
		assert.Equal(t, "Here is what you missed", message.Message)
		assert.Equal(t, "weekly-digest", message.Tag)
	})

	t.Run("TemplateNotFound", func(t *testing.T) {
		flow := &CampaignFlowImpl{templateRepo: newFakeTemplateRepo()}
		_, err := flow.resolveMessage(ctx, &dto.CreateCampaignRequest{
			TemplateID: utils.ToPtr(uint(99)),
		})
		assert.True(t, IsTemplateNotFound(err))
	})
}
