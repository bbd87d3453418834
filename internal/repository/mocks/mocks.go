package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// ContentRepository is a mock for repository.ContentRepository.
type ContentRepository struct {
	mock.Mock
}

func (m *ContentRepository) LoadWebsites(ctx context.Context) ([]*content.Website, error) {
	args := m.Called(ctx)
	if websites, ok := args.Get(0).([]*content.Website); ok {
		return websites, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContentRepository) HasWebsites(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *ContentRepository) ImportWebsite(ctx context.Context, website *content.Website) error {
	args := m.Called(ctx, website)
	return args.Error(0)
}

func (m *ContentRepository) DeleteWebsite(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
