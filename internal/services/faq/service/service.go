// Package service implements the topic store: the audited read/write facade
// over the remote repository, fronted by a single-slot snapshot cache.
//
// Every mutation writes its audit record before the mutating request goes
// out; if the audit write fails, the mutation is not attempted. Creation is
// the one exception: the new id is unknown until the insert succeeds, so its
// audit record trails the insert (see Create).
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vfaq/internal/core/namekey"
	"vfaq/internal/platform/cache"
	perr "vfaq/internal/platform/errors"
	"vfaq/internal/platform/logger"
	"vfaq/internal/services/faq/domain"
)

// Option tweaks service construction
type Option func(*service)

// WithClock overrides the wall clock used for tombstone names
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	repo domain.RepoPort
	snap *cache.Single[[]domain.Topic]
	now  func() time.Time
	log  *zerolog.Logger
}

// New builds the topic store over repo, caching the active snapshot for ttl
func New(repo domain.RepoPort, ttl time.Duration, opts ...Option) domain.ServicePort {
	s := &service{
		repo: repo,
		now:  time.Now,
		log:  logger.Named("faq"),
	}
	for _, o := range opts {
		o(s)
	}
	s.snap = cache.New(func(ctx context.Context) ([]domain.Topic, error) {
		rows, err := repo.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
		return rows, nil
	}, ttl, cache.Reject(func(rows []domain.Topic) bool { return rows == nil }))
	return s
}

// List returns the cached active snapshot, refreshing it on expiry
func (s *service) List(ctx context.Context) ([]domain.Topic, error) {
	return s.snap.Get(ctx)
}

// FindByID resolves one topic against a fresh snapshot. Callers reach for
// this right before mutating, so staleness is not acceptable here.
func (s *service) FindByID(ctx context.Context, id int) (domain.Topic, error) {
	rows, err := s.snap.InvalidateAndGet(ctx)
	if err != nil {
		return domain.Topic{}, err
	}
	return pick(rows, id)
}

// FindByNameOrAlias resolves a lookup key case-insensitively against the
// cached snapshot, considering only topics with a body. An exact name or
// alias match wins; failing that, a prefix match is accepted only when it is
// unique. Ambiguity is reported as not found, never auto-resolved.
func (s *service) FindByNameOrAlias(ctx context.Context, query string) (domain.Topic, error) {
	rows, err := s.snap.Get(ctx)
	if err != nil {
		return domain.Topic{}, err
	}

	for _, t := range rows {
		if t.Incomplete() {
			continue
		}
		for _, k := range t.Keys() {
			if namekey.Equal(k, query) {
				return t, nil
			}
		}
	}

	var hit domain.Topic
	hits := 0
	for _, t := range rows {
		if t.Incomplete() {
			continue
		}
		for _, k := range t.Keys() {
			if namekey.HasPrefix(k, query) {
				hit = t
				hits++
				break
			}
		}
	}
	if hits == 1 {
		return hit, nil
	}
	return domain.Topic{}, perr.NotFoundf("no topic matches %q", query)
}

// Create mints a new, empty topic. The name is pre-checked against a fresh
// snapshot; the audit record trails the insert because the id does not exist
// until the repository assigns it. An audit failure at that point leaves the
// topic standing and is surfaced rather than hidden.
func (s *service) Create(ctx context.Context, name string, author uuid.UUID) (domain.Topic, error) {
	rows, err := s.snap.InvalidateAndGet(ctx)
	if err != nil {
		return domain.Topic{}, err
	}
	if taken(rows, name, 0) {
		return domain.Topic{}, perr.Conflictf("name %q already in use", name)
	}

	created, err := s.repo.Create(ctx, domain.NewTopic{Topic: name, Content: "", Author: author})
	if err != nil {
		return domain.Topic{}, err
	}
	s.snap.Invalidate()

	entry := domain.Entry(created.ID, author, domain.MethodCreate, domain.TextChange(domain.FieldTopic, "", name))
	if err := s.repo.AppendHistory(ctx, entry); err != nil {
		s.log.Error().Err(err).Int("topic", created.ID).Msg("created topic has no audit record")
		return created, err
	}
	return created, nil
}

// Rename changes a topic's name after a collision pre-check
func (s *service) Rename(ctx context.Context, id int, name string, author uuid.UUID) (domain.Topic, error) {
	rows, err := s.snap.InvalidateAndGet(ctx)
	if err != nil {
		return domain.Topic{}, err
	}
	cur, err := pick(rows, id)
	if err != nil {
		return domain.Topic{}, err
	}
	if taken(rows, name, id) {
		return domain.Topic{}, perr.Conflictf("name %q already in use", name)
	}
	return s.patch(ctx, cur, author, domain.TextChange(domain.FieldTopic, cur.Topic, name),
		map[string]any{"topic": name})
}

// SetContent replaces the body text
func (s *service) SetContent(ctx context.Context, id int, content string, author uuid.UUID) (domain.Topic, error) {
	return s.setText(ctx, id, domain.FieldContent, "content", content, author)
}

// SetPreface replaces the short-form excerpt
func (s *service) SetPreface(ctx context.Context, id int, preface string, author uuid.UUID) (domain.Topic, error) {
	return s.setText(ctx, id, domain.FieldPreface, "preface", preface, author)
}

// SetGroup moves a topic to another visibility partition
func (s *service) SetGroup(ctx context.Context, id int, group string, author uuid.UUID) (domain.Topic, error) {
	return s.setText(ctx, id, domain.FieldGroup, "group", group, author)
}

func (s *service) setText(ctx context.Context, id int, f domain.Field, col, value string, author uuid.UUID) (domain.Topic, error) {
	cur, err := s.FindByID(ctx, id)
	if err != nil {
		return domain.Topic{}, err
	}
	before := textOf(cur, f)
	return s.patch(ctx, cur, author, domain.TextChange(f, before, value), map[string]any{col: value})
}

// AddAlias appends one alias after checking it collides with nothing.
// The audit record names just the added element; the repository still
// receives the whole replacement array.
func (s *service) AddAlias(ctx context.Context, id int, alias string, author uuid.UUID) (domain.Topic, error) {
	rows, err := s.snap.InvalidateAndGet(ctx)
	if err != nil {
		return domain.Topic{}, err
	}
	cur, err := pick(rows, id)
	if err != nil {
		return domain.Topic{}, err
	}
	if taken(rows, alias, id) {
		return domain.Topic{}, perr.Conflictf("alias %q already in use", alias)
	}
	next := append(append([]string{}, cur.Alias...), alias)
	return s.patch(ctx, cur, author, domain.AliasAdded(alias), map[string]any{"alias": next})
}

// RemoveAlias drops the exact (case-sensitive) alias string
func (s *service) RemoveAlias(ctx context.Context, id int, alias string, author uuid.UUID) (domain.Topic, error) {
	cur, err := s.FindByID(ctx, id)
	if err != nil {
		return domain.Topic{}, err
	}
	next := make([]string, 0, len(cur.Alias))
	found := false
	for _, a := range cur.Alias {
		if a == alias {
			found = true
			continue
		}
		next = append(next, a)
	}
	if !found {
		return domain.Topic{}, perr.NotFoundf("topic %d has no alias %q", id, alias)
	}
	return s.patch(ctx, cur, author, domain.AliasRemoved(alias), map[string]any{"alias": next})
}

// SetPosition pins the topic to an explicit placement, or (0,0) to return it
// to automatic flow
func (s *service) SetPosition(ctx context.Context, id int, pos domain.Pos, author uuid.UUID) (domain.Topic, error) {
	cur, err := s.FindByID(ctx, id)
	if err != nil {
		return domain.Topic{}, err
	}
	return s.patch(ctx, cur, author, domain.PosChange(cur.Pos, pos), map[string]any{"pos": pos})
}

// Delete soft-deletes a topic: three audit records wiping name, content and
// preface, then one patch flipping active off and tombstoning the name so it
// becomes immediately reusable.
func (s *service) Delete(ctx context.Context, id int, author uuid.UUID) error {
	cur, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	wipes := []domain.Change{
		domain.TextChange(domain.FieldTopic, cur.Topic, ""),
		domain.TextChange(domain.FieldContent, cur.Content, ""),
		domain.TextChange(domain.FieldPreface, cur.Preface, ""),
	}
	for _, ch := range wipes {
		if err := s.repo.AppendHistory(ctx, domain.Entry(id, author, domain.MethodDelete, ch)); err != nil {
			return err
		}
	}

	tombstone := fmt.Sprintf("~.%d.%s", s.now().UnixMilli(), cur.Topic)
	if _, err := s.repo.Patch(ctx, id, map[string]any{"active": false, "topic": tombstone}); err != nil {
		return err
	}
	s.snap.Invalidate()
	return nil
}

// HistoryForTopic lists the audit trail for one topic
func (s *service) HistoryForTopic(ctx context.Context, id int) ([]domain.History, error) {
	return s.repo.HistoryForTopic(ctx, id)
}

// HistoryEntry fetches one audit record
func (s *service) HistoryEntry(ctx context.Context, id int) (domain.History, error) {
	return s.repo.HistoryEntry(ctx, id)
}

// patch is the shared audit-then-commit tail of every field edit: the record
// goes out first and a failure there aborts the mutation outright
func (s *service) patch(ctx context.Context, cur domain.Topic, author uuid.UUID, ch domain.Change, fields map[string]any) (domain.Topic, error) {
	if err := s.repo.AppendHistory(ctx, domain.Entry(cur.ID, author, domain.MethodPatch, ch)); err != nil {
		return domain.Topic{}, err
	}
	updated, err := s.repo.Patch(ctx, cur.ID, fields)
	if err != nil {
		return domain.Topic{}, err
	}
	s.snap.Invalidate()
	return updated, nil
}

func pick(rows []domain.Topic, id int) (domain.Topic, error) {
	for _, t := range rows {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Topic{}, perr.NotFoundf("no topic with id %d", id)
}

// taken reports whether key collides case-insensitively with any active
// topic's name or alias, ignoring the topic being edited
func taken(rows []domain.Topic, key string, excludeID int) bool {
	for _, t := range rows {
		if t.ID == excludeID {
			continue
		}
		for _, k := range t.Keys() {
			if namekey.Equal(k, key) {
				return true
			}
		}
	}
	return false
}

func textOf(t domain.Topic, f domain.Field) string {
	switch f {
	case domain.FieldTopic:
		return t.Topic
	case domain.FieldContent:
		return t.Content
	case domain.FieldPreface:
		return t.Preface
	case domain.FieldGroup:
		return t.Group
	default:
		return ""
	}
}
