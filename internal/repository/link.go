package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tagonlink/tagonlink/internal/model"
)

// Common errors for link repository operations.
var (
	ErrLinkNotFound  = errors.New("link not found")
	ErrOwnerNotFound = errors.New("link owner not found")
	ErrDuplicateLink = errors.New("link already exists")
)

const linkColumns = `id, title, url, description, tags, user_id, created_at`

// ListLinksByOwner returns every link owned by ownerID, newest first.
func (r *Repository) ListLinksByOwner(ctx context.Context, ownerID string) ([]*model.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", translateLinkError(err))
	}
	defer rows.Close()

	links := make([]*model.Link, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	return links, nil
}

// CreateLink inserts a new link. CreatedAt is assigned by the database.
func (r *Repository) CreateLink(ctx context.Context, link *model.Link) error {
	query := `
		INSERT INTO links (id, title, url, description, tags, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		link.ID,
		link.Title,
		link.URL,
		link.Description,
		link.Tags,
		link.UserID,
	).Scan(&link.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create link: %w", translateLinkError(err))
	}

	return nil
}

// GetLinkByID retrieves a link by its ID regardless of owner.
// Callers enforce ownership.
func (r *Repository) GetLinkByID(ctx context.Context, id string) (*model.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = $1`

	link, err := scanLink(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link by ID: %w", translateLinkError(err))
	}

	return link, nil
}

// UpdateOwnedLink overwrites the mutable fields of the link whose id and
// owner both match. The stored row is scanned back into link.
func (r *Repository) UpdateOwnedLink(ctx context.Context, link *model.Link) error {
	query := `
		UPDATE links
		SET title = $1, url = $2, description = $3, tags = $4
		WHERE id = $5 AND user_id = $6
		RETURNING ` + linkColumns

	updated, err := scanLink(r.pool.QueryRow(ctx, query,
		link.Title,
		link.URL,
		link.Description,
		link.Tags,
		link.ID,
		link.UserID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLinkNotFound
		}
		return fmt.Errorf("failed to update link: %w", translateLinkError(err))
	}

	*link = *updated
	return nil
}

// DeleteOwnedLink removes the link whose id and owner both match.
func (r *Repository) DeleteOwnedLink(ctx context.Context, id, ownerID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM links WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", translateLinkError(err))
	}

	if tag.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}

// scanLink scans a link from a row or rows cursor.
func scanLink(row pgx.Row) (*model.Link, error) {
	var link model.Link
	err := row.Scan(
		&link.ID,
		&link.Title,
		&link.URL,
		&link.Description,
		&link.Tags,
		&link.UserID,
		&link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// translateLinkError maps constraint and schema errors to sentinels.
func translateLinkError(err error) error {
	switch {
	case isForeignKeyViolation(err):
		return ErrOwnerNotFound
	case isUniqueViolation(err):
		return ErrDuplicateLink
	case isUndefinedTable(err):
		return ErrSchemaMissing
	default:
		return err
	}
}
