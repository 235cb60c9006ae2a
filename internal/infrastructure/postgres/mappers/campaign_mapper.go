package mappers

import (
	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/models"
)

func ToDomainCampaign(m *models.VideoCampaignModel) *domain.VideoCampaign {
	c := &domain.VideoCampaign{
		ID:               m.ID,
		VideoID:          m.VideoID,
		ScheduledAt:      m.ScheduledAt,
		CountdownSeconds: m.CountdownSeconds,
		Status:           domain.CampaignStatus(m.Status),
		StartedAt:        m.StartedAt,
		CompletedAt:      m.CompletedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.HighlightProductID != nil && m.HighlightPrice != nil {
		duration := 0
		if m.HighlightDurationSeconds != nil {
			duration = *m.HighlightDurationSeconds
		}
		c.Highlight = &domain.Highlight{
			ProductID:        *m.HighlightProductID,
			PromotionalPrice: *m.HighlightPrice,
			DurationSeconds:  duration,
		}
	}
	return c
}

func ToGORMCampaign(c *domain.VideoCampaign) *models.VideoCampaignModel {
	m := &models.VideoCampaignModel{
		ID:               c.ID,
		VideoID:          c.VideoID,
		ScheduledAt:      c.ScheduledAt,
		CountdownSeconds: c.CountdownSeconds,
		Status:           string(c.Status),
		StartedAt:        c.StartedAt,
		CompletedAt:      c.CompletedAt,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if c.Highlight != nil {
		m.HighlightProductID = &c.Highlight.ProductID
		m.HighlightPrice = &c.Highlight.PromotionalPrice
		m.HighlightDurationSeconds = &c.Highlight.DurationSeconds
	}
	return m
}

func ToDomainVideo(m *models.VideoModel) *domain.Video {
	return &domain.Video{
		ID:              m.ID,
		Prompt:          m.Prompt,
		Status:          domain.VideoStatus(m.Status),
		URL:             m.URL,
		DurationSeconds: m.DurationSeconds,
		ErrorMessage:    m.ErrorMessage,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func ToGORMVideo(v *domain.Video) *models.VideoModel {
	return &models.VideoModel{
		ID:              v.ID,
		Prompt:          v.Prompt,
		Status:          string(v.Status),
		URL:             v.URL,
		DurationSeconds: v.DurationSeconds,
		ErrorMessage:    v.ErrorMessage,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func ToDomainQuickAd(m *models.QuickAdModel) *domain.QuickAd {
	return &domain.QuickAd{
		ID:               m.ID,
		Name:             m.Name,
		ProductID:        m.ProductID,
		PromotionalPrice: m.PromotionalPrice,
		Text:             m.Text,
		Price:            m.Price,
		DurationSeconds:  m.DurationSeconds,
		LastPlayedAt:     m.LastPlayedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func ToGORMQuickAd(a *domain.QuickAd) *models.QuickAdModel {
	return &models.QuickAdModel{
		ID:               a.ID,
		Name:             a.Name,
		ProductID:        a.ProductID,
		PromotionalPrice: a.PromotionalPrice,
		Text:             a.Text,
		Price:            a.Price,
		DurationSeconds:  a.DurationSeconds,
		LastPlayedAt:     a.LastPlayedAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
