package service

import (
	"context"
	"log"
	"strings"

	"github.com/notekeep/backend/internal/access"
	"github.com/notekeep/backend/internal/events"
	"github.com/notekeep/backend/internal/model"
	"github.com/notekeep/backend/internal/pagination"
)

type categoryStore interface {
	CreateCategory(ctx context.Context, category model.Category) (*model.Category, error)
	ListCategories(ctx context.Context, callerID int64, page pagination.PageRequest) ([]model.Category, int64, error)
}

type CategoryService struct {
	repo      categoryStore
	pages     *pagination.Resolver
	publisher events.Publisher
}

func NewCategoryService(repo categoryStore, pages *pagination.Resolver, publisher events.Publisher) *CategoryService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &CategoryService{repo: repo, pages: pages, publisher: publisher}
}

func (s *CategoryService) Create(ctx context.Context, callerID int64, input model.CategoryRequest) (*model.Category, error) {
	if err := access.RequireCaller(callerID); err != nil {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(input.Label) == "" {
		verr := &ValidationError{}
		verr.add("label", "The label field is required.")
		return nil, verr
	}

	category := access.StampOwner(&model.Category{Label: input.Label}, callerID)
	created, err := s.repo.CreateCategory(ctx, *category)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.New(events.CategoryCreated, callerID, created.ID)); err != nil {
		log.Printf("[Categories] Failed to publish %s: %v", events.CategoryCreated, err)
	}
	return created, nil
}

func (s *CategoryService) List(ctx context.Context, callerID int64, rawPage, rawPerPage *int) (*model.Page[model.Category], error) {
	if err := access.RequireCaller(callerID); err != nil {
		return nil, ErrUnauthenticated
	}

	req := s.pages.Resolve(rawPage, rawPerPage)
	categories, total, err := s.repo.ListCategories(ctx, callerID, req)
	if err != nil {
		return nil, err
	}

	return &model.Page[model.Category]{
		Items:    categories,
		Page:     req.Page,
		PerPage:  req.PerPage,
		Total:    total,
		LastPage: req.LastPage(total),
	}, nil
}
