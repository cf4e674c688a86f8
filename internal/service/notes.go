package service

import (
	"context"
	"log"
	"strings"

	"github.com/notekeep/backend/internal/access"
	"github.com/notekeep/backend/internal/db"
	"github.com/notekeep/backend/internal/events"
	"github.com/notekeep/backend/internal/model"
	"github.com/notekeep/backend/internal/pagination"
)

type noteStore interface {
	CreateNote(ctx context.Context, note model.Note) (*model.Note, error)
	ListNotes(ctx context.Context, callerID int64, page pagination.PageRequest) ([]model.Note, int64, error)
	GetNote(ctx context.Context, noteID, callerID int64) (*model.Note, error)
	UpdateNoteBody(ctx context.Context, noteID, callerID int64, body string) (*model.Note, error)
	DeleteNote(ctx context.Context, noteID, callerID int64) (int64, error)
}

// NoteService serves a single caller's notes. Absent and foreign notes are
// both reported as ErrNotFound.
type NoteService struct {
	repo      noteStore
	pages     *pagination.Resolver
	publisher events.Publisher
}

func NewNoteService(repo noteStore, pages *pagination.Resolver, publisher events.Publisher) *NoteService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &NoteService{repo: repo, pages: pages, publisher: publisher}
}

func (s *NoteService) Create(ctx context.Context, callerID int64, input model.NoteRequest) (*model.Note, error) {
	if err := access.RequireCaller(callerID); err != nil {
		return nil, ErrUnauthenticated
	}
	if err := validateNote(input); err != nil {
		return nil, err
	}

	note := access.StampOwner(&model.Note{Body: input.Body}, callerID)
	created, err := s.repo.CreateNote(ctx, *note)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.NoteCreated, callerID, created.ID))
	return created, nil
}

func (s *NoteService) List(ctx context.Context, callerID int64, rawPage, rawPerPage *int) (*model.Page[model.Note], error) {
	if err := access.RequireCaller(callerID); err != nil {
		return nil, ErrUnauthenticated
	}

	req := s.pages.Resolve(rawPage, rawPerPage)
	notes, total, err := s.repo.ListNotes(ctx, callerID, req)
	if err != nil {
		return nil, err
	}

	return &model.Page[model.Note]{
		Items:    notes,
		Page:     req.Page,
		PerPage:  req.PerPage,
		Total:    total,
		LastPage: req.LastPage(total),
	}, nil
}

func (s *NoteService) Get(ctx context.Context, callerID, noteID int64) (*model.Note, error) {
	if err := access.RequireCaller(callerID); err != nil {
		return nil, ErrUnauthenticated
	}

	note, err := s.repo.GetNote(ctx, noteID, callerID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return note, nil
}

// Update replaces the body of a note the caller owns.
func (s *NoteService) Update(ctx context.Context, callerID, noteID int64, input model.NoteRequest) (*model.Note, error) {
	if err := access.RequireCaller(callerID); err != nil {
		return nil, ErrUnauthenticated
	}
	if err := validateNote(input); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateNoteBody(ctx, noteID, callerID, input.Body)
	if err != nil {
		return nil, notFoundOr(err)
	}

	s.publish(ctx, events.New(events.NoteUpdated, callerID, updated.ID))
	return updated, nil
}

func (s *NoteService) Delete(ctx context.Context, callerID, noteID int64) error {
	if err := access.RequireCaller(callerID); err != nil {
		return ErrUnauthenticated
	}

	if _, err := s.repo.GetNote(ctx, noteID, callerID); err != nil {
		return notFoundOr(err)
	}

	deleted, err := s.repo.DeleteNote(ctx, noteID, callerID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}

	s.publish(ctx, events.New(events.NoteDeleted, callerID, noteID))
	return nil
}

func (s *NoteService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("[Notes] Failed to publish %s: %v", event.Type, err)
	}
}

func validateNote(input model.NoteRequest) error {
	verr := &ValidationError{}
	if strings.TrimSpace(input.Body) == "" {
		verr.add("body", "The body field is required.")
	}
	return verr.orNil()
}

func notFoundOr(err error) error {
	if db.IsNoRows(err) {
		return ErrNotFound
	}
	return err
}
