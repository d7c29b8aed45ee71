package domain

import (
	"context"

	"github.com/google/uuid"
)

// RepoPort is the remote repository surface the store drives
type RepoPort interface {
	ListActive(ctx context.Context) ([]Topic, error)
	Create(ctx context.Context, row NewTopic) (Topic, error)
	Patch(ctx context.Context, id int, fields map[string]any) (Topic, error)
	AppendHistory(ctx context.Context, entry NewHistory) error
	HistoryForTopic(ctx context.Context, faq int) ([]History, error)
	HistoryEntry(ctx context.Context, id int) (History, error)
}

// ServicePort is the interface implemented by the topic store
type ServicePort interface {
	List(ctx context.Context) ([]Topic, error)
	FindByID(ctx context.Context, id int) (Topic, error)
	FindByNameOrAlias(ctx context.Context, query string) (Topic, error)

	Create(ctx context.Context, name string, author uuid.UUID) (Topic, error)
	Rename(ctx context.Context, id int, name string, author uuid.UUID) (Topic, error)
	SetContent(ctx context.Context, id int, content string, author uuid.UUID) (Topic, error)
	SetPreface(ctx context.Context, id int, preface string, author uuid.UUID) (Topic, error)
	SetGroup(ctx context.Context, id int, group string, author uuid.UUID) (Topic, error)
	AddAlias(ctx context.Context, id int, alias string, author uuid.UUID) (Topic, error)
	RemoveAlias(ctx context.Context, id int, alias string, author uuid.UUID) (Topic, error)
	SetPosition(ctx context.Context, id int, pos Pos, author uuid.UUID) (Topic, error)
	Delete(ctx context.Context, id int, author uuid.UUID) error

	HistoryForTopic(ctx context.Context, id int) ([]History, error)
	HistoryEntry(ctx context.Context, id int) (History, error)
}
