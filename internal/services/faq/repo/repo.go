// Package repo implements the faq repository over a PostgREST data API
package repo

import (
	"context"
	"fmt"

	"vfaq/internal/adapters/pgrest"
	perr "vfaq/internal/platform/errors"
	"vfaq/internal/services/faq/domain"
)

const (
	tableTopics  = "faqs"
	tableHistory = "history"
)

// Rest drives the two remote tables through a pgrest client
type Rest struct {
	c *pgrest.Client
}

// New builds a Rest repo over the given client
func New(c *pgrest.Client) *Rest {
	if c == nil {
		panic("repo: pgrest client is required")
	}
	return &Rest{c: c}
}

var _ domain.RepoPort = (*Rest)(nil)

// ListActive fetches the full active topic set
func (r *Rest) ListActive(ctx context.Context) ([]domain.Topic, error) {
	var rows []domain.Topic
	if err := r.c.Select(ctx, tableTopics, "active=is.true", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts one topic and returns the repository's representation,
// id and timestamps assigned
func (r *Rest) Create(ctx context.Context, row domain.NewTopic) (domain.Topic, error) {
	var out domain.Topic
	if err := r.c.InsertSingle(ctx, tableTopics, row, &out); err != nil {
		return domain.Topic{}, err
	}
	return out, nil
}

// Patch updates the named fields on one active topic and returns the updated
// representation. The active filter keeps deleted rows untouchable.
func (r *Rest) Patch(ctx context.Context, id int, fields map[string]any) (domain.Topic, error) {
	var out domain.Topic
	q := fmt.Sprintf("active=is.true&id=eq.%d", id)
	if err := r.c.UpdateSingle(ctx, tableTopics, q, fields, &out); err != nil {
		return domain.Topic{}, err
	}
	return out, nil
}

// AppendHistory writes one audit record. Anything but a created
// acknowledgement is an audit failure, which callers treat as fatal for the
// mutation they were about to make.
func (r *Rest) AppendHistory(ctx context.Context, entry domain.NewHistory) error {
	if err := r.c.Insert(ctx, tableHistory, entry); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeAudit, "append history for topic %d", entry.FAQ)
	}
	return nil
}

// HistoryForTopic lists all audit records for one topic, oldest first
func (r *Rest) HistoryForTopic(ctx context.Context, faq int) ([]domain.History, error) {
	var rows []domain.History
	q := fmt.Sprintf("faq=eq.%d&order=id.asc", faq)
	if err := r.c.Select(ctx, tableHistory, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// HistoryEntry fetches one audit record by its own id
func (r *Rest) HistoryEntry(ctx context.Context, id int) (domain.History, error) {
	var out domain.History
	if err := r.c.SelectSingle(ctx, tableHistory, fmt.Sprintf("id=eq.%d", id), &out); err != nil {
		return domain.History{}, err
	}
	return out, nil
}
