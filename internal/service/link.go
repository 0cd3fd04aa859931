package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/tagonlink/tagonlink/internal/metrics"
	"github.com/tagonlink/tagonlink/internal/model"
	"github.com/tagonlink/tagonlink/internal/repository"
)

// Link validation errors.
var (
	ErrLinkFieldsRequired = newValidationError("title and url are required")
	ErrInvalidURL         = newValidationError("url must be an absolute URL")
)

// Link errors.
var (
	ErrLinkNotFound  = errors.New("link not found")
	ErrLinkForbidden = errors.New("link belongs to another user")
	ErrOwnerNotFound = errors.New("owner not found, log in again")
	ErrDuplicateLink = errors.New("link already exists")
	ErrSchemaMissing = errors.New("database tables missing")
)

// LinkService handles link business logic. Every operation is scoped to
// the calling owner.
type LinkService struct {
	links   LinkStore
	metrics metrics.Recorder
}

// NewLinkService creates a new LinkService.
func NewLinkService(links LinkStore, recorder metrics.Recorder) *LinkService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &LinkService{
		links:   links,
		metrics: recorder,
	}
}

// LinkInput carries the client-editable fields of a link.
type LinkInput struct {
	Title       string
	URL         string
	Description string
	Tags        string
}

func (in LinkInput) validate() error {
	if isBlank(in.Title) || isBlank(in.URL) {
		return ErrLinkFieldsRequired
	}
	if !isAbsoluteURL(in.URL) {
		return ErrInvalidURL
	}
	return nil
}

// ListLinks returns the owner's links, newest first.
func (s *LinkService) ListLinks(ctx context.Context, ownerID string) ([]*model.Link, error) {
	links, err := s.links.ListLinksByOwner(ctx, ownerID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return links, nil
}

// CreateLink stores a new link owned by ownerID.
func (s *LinkService) CreateLink(ctx context.Context, ownerID string, input LinkInput) (*model.Link, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	link := &model.Link{
		ID:          newID(),
		Title:       input.Title,
		URL:         input.URL,
		Description: input.Description,
		Tags:        input.Tags,
		UserID:      ownerID,
	}

	if err := s.links.CreateLink(ctx, link); err != nil {
		return nil, translateStoreError(err)
	}

	s.metrics.IncLinkCreated()

	return link, nil
}

// UpdateLink overwrites a link the caller owns. A link owned by someone
// else yields ErrLinkForbidden; the ownership check and the update are
// separate statements, so a link deleted in between yields ErrLinkNotFound.
func (s *LinkService) UpdateLink(ctx context.Context, ownerID, id string, input LinkInput) (*model.Link, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.links.GetLinkByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if !existing.OwnedBy(ownerID) {
		return nil, ErrLinkForbidden
	}

	link := &model.Link{
		ID:          id,
		Title:       input.Title,
		URL:         input.URL,
		Description: input.Description,
		Tags:        input.Tags,
		UserID:      ownerID,
	}
	if err := s.links.UpdateOwnedLink(ctx, link); err != nil {
		return nil, translateStoreError(err)
	}

	s.metrics.IncLinkUpdated()

	return link, nil
}

// DeleteLink removes a link the caller owns. Links owned by others are
// reported as not found.
func (s *LinkService) DeleteLink(ctx context.Context, ownerID, id string) error {
	if err := s.links.DeleteOwnedLink(ctx, id, ownerID); err != nil {
		return translateStoreError(err)
	}

	s.metrics.IncLinkDeleted()

	return nil
}

// isAbsoluteURL reports whether raw parses with both a scheme and a host.
func isAbsoluteURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}

func translateStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrLinkNotFound):
		return ErrLinkNotFound
	case errors.Is(err, repository.ErrOwnerNotFound):
		return ErrOwnerNotFound
	case errors.Is(err, repository.ErrDuplicateLink):
		return fmt.Errorf("%w: %v", ErrDuplicateLink, err)
	case errors.Is(err, repository.ErrSchemaMissing):
		return fmt.Errorf("%w: %v", ErrSchemaMissing, err)
	default:
		return err
	}
}
