// Package store implements the paginated data-access engine shared by every
// record kind. A Store runs a fixed pipeline (filter, count, sort, window) and
// delegates the kind-specific parts to Hooks.
package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/fleetbase/internal/domain"
	"github.com/simp-lee/fleetbase/internal/pkg"
)

// Scope narrows a query. Finders pass scopes to List, Count and FindOne.
type Scope = func(*gorm.DB) *gorm.DB

// Hooks supplies the search predicate and sort-key table of one record kind.
type Hooks interface {
	// Search narrows db to records matching term. term is never blank.
	Search(db *gorm.DB, term string) *gorm.DB
	// SortKey maps a lower-cased field name to a column. ok is false for
	// names the kind does not recognise.
	SortKey(name string) (col clause.Column, ok bool)
}

// DeleteGuard is implemented by Hooks that must veto a delete. BeforeDelete
// runs in the delete transaction; a non-nil error aborts it.
type DeleteGuard interface {
	BeforeDelete(tx *gorm.DB, id uint) error
}

// Observer receives the outcome of every store operation.
type Observer interface {
	ObserveStoreOperation(table, op string, elapsed time.Duration, err error)
}

// NoHooks leaves the candidate set untouched and recognises no sort keys, so
// listings fall back to identifier order.
type NoHooks struct{}

func (NoHooks) Search(db *gorm.DB, _ string) *gorm.DB { return db }

func (NoHooks) SortKey(string) (clause.Column, bool) { return clause.Column{}, false }

// Option configures a Store.
type Option func(*options)

type options struct {
	name     string
	join     Scope
	preloads []string
	observer Observer
}

// WithName sets the singular record name used in error messages.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithJoin adds a join applied to every listing and count, so search and sort
// may reference the joined table.
func WithJoin(join Scope) Option {
	return func(o *options) { o.join = join }
}

// WithPreload eager-loads the named associations on every read.
func WithPreload(associations ...string) Option {
	return func(o *options) { o.preloads = append(o.preloads, associations...) }
}

// WithObserver reports operation timings and errors to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// Store is the generic engine for records of type T.
type Store[T domain.Entity] struct {
	db    *gorm.DB
	hooks Hooks
	table string
	opts  options
}

// New creates a Store over db. A nil hooks value means NoHooks.
func New[T domain.Entity](db *gorm.DB, hooks Hooks, opts ...Option) *Store[T] {
	if hooks == nil {
		hooks = NoHooks{}
	}
	var zero T
	s := &Store[T]{
		db:    db,
		hooks: hooks,
		table: zero.TableName(),
	}
	s.opts.name = s.table
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

// Table returns the table backing T.
func (s *Store[T]) Table() string { return s.table }

// Column returns name qualified with the table of T.
func (s *Store[T]) Column(name string) clause.Column {
	return clause.Column{Table: s.table, Name: name}
}

// List returns one page of records. The pipeline is: base set (plus join),
// caller scopes, search, count, order, window. Count and window run in one
// transaction so the total always agrees with the page. A page past the end
// yields no items and correct totals.
func (s *Store[T]) List(ctx context.Context, params domain.QueryParams, scopes ...Scope) (page *domain.Page[T], err error) {
	defer s.observe("list", time.Now(), &err)

	params = params.Normalize()

	var (
		total int64
		items []T
	)
	err = pkg.WithTx(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := s.filtered(tx, params.SearchTerm, scopes).Count(&total).Error; err != nil {
			return err
		}
		pages := (total + int64(params.PageSize) - 1) / int64(params.PageSize)
		if int64(params.PageNumber-1) >= pages {
			return nil
		}
		q := s.order(s.filtered(tx, params.SearchTerm, scopes), params)
		q = s.preload(q).Scopes(pkg.Paginate(params))
		return q.Find(&items).Error
	}, pkg.SnapshotTxOptions(s.db))
	if err != nil {
		return nil, MapError(err)
	}

	return domain.NewPage(items, params.PageNumber, params.PageSize, total), nil
}

// GetByID returns the record with id or a not-found error.
func (s *Store[T]) GetByID(ctx context.Context, id uint) (entity *T, err error) {
	defer s.observe("get", time.Now(), &err)
	return s.first(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: s.Column("id"), Value: id})
	})
}

// FindOne returns the first record, by identifier, matching scopes.
func (s *Store[T]) FindOne(ctx context.Context, scopes ...Scope) (entity *T, err error) {
	defer s.observe("find", time.Now(), &err)
	return s.first(ctx, scopes...)
}

// Add persists a new record; the store assigns its identifier.
// Associations on entity are never written.
func (s *Store[T]) Add(ctx context.Context, entity *T) (err error) {
	defer s.observe("add", time.Now(), &err)

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return MapError(err)
	}
	return nil
}

// Update overwrites every column of an existing record. A record that does
// not exist yields a not-found error rather than an insert.
func (s *Store[T]) Update(ctx context.Context, entity *T) (err error) {
	defer s.observe("update", time.Now(), &err)

	if (*entity).PrimaryKey() == 0 {
		return s.notFound()
	}

	result := s.db.WithContext(ctx).
		Model(entity).
		Select("*").
		Omit(clause.Associations).
		Updates(entity)
	if result.Error != nil {
		return MapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return s.notFound()
	}
	return nil
}

// Delete removes the record with id. It reports false when there was nothing
// to delete. Records that are still referenced are never removed; the
// attempt fails with a conflict.
func (s *Store[T]) Delete(ctx context.Context, id uint) (deleted bool, err error) {
	defer s.observe("delete", time.Now(), &err)

	err = pkg.WithTx(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if guard, ok := s.hooks.(DeleteGuard); ok {
			if err := guard.BeforeDelete(tx, id); err != nil {
				return err
			}
		}
		result := tx.Where(clause.Eq{Column: s.Column("id"), Value: id}).Delete(new(T))
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, mapDeleteError(err)
	}
	return deleted, nil
}

// Exists reports whether a record with id is stored.
func (s *Store[T]) Exists(ctx context.Context, id uint) (exists bool, err error) {
	defer s.observe("exists", time.Now(), &err)

	n, err := s.count(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: s.Column("id"), Value: id})
	})
	return n > 0, err
}

// Count returns the number of records matching scopes.
func (s *Store[T]) Count(ctx context.Context, scopes ...Scope) (n int64, err error) {
	defer s.observe("count", time.Now(), &err)
	return s.count(ctx, scopes...)
}

func (s *Store[T]) count(ctx context.Context, scopes ...Scope) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Count(&n).Error; err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

func (s *Store[T]) first(ctx context.Context, scopes ...Scope) (*T, error) {
	var entity T
	q := s.preload(s.db.WithContext(ctx).Model(new(T)).Scopes(scopes...))
	if err := q.Order(clause.OrderByColumn{Column: s.Column("id")}).Take(&entity).Error; err != nil {
		mapped := MapError(err)
		if domain.IsNotFound(mapped) {
			return nil, s.notFound()
		}
		return nil, mapped
	}
	return &entity, nil
}

func (s *Store[T]) filtered(tx *gorm.DB, term string, scopes []Scope) *gorm.DB {
	q := tx.Model(new(T))
	if s.opts.join != nil {
		q = s.opts.join(q)
	}
	q = q.Scopes(scopes...)
	if term != "" {
		q = s.hooks.Search(q, term)
	}
	return q
}

// order applies the requested sort key, falling back to identifier order for
// blank or unrecognised keys. The identifier is always the final tie-breaker.
func (s *Store[T]) order(q *gorm.DB, params domain.QueryParams) *gorm.DB {
	if params.SortBy != "" {
		if col, ok := s.hooks.SortKey(strings.ToLower(params.SortBy)); ok {
			q = q.Order(clause.OrderByColumn{Column: col, Desc: params.Descending()})
		}
	}
	return q.Order(clause.OrderByColumn{Column: s.Column("id")})
}

func (s *Store[T]) preload(q *gorm.DB) *gorm.DB {
	for _, assoc := range s.opts.preloads {
		q = q.Preload(assoc)
	}
	return q
}

func (s *Store[T]) notFound() error {
	return domain.NewAppError(domain.CodeNotFound, s.opts.name+" not found", nil)
}

func (s *Store[T]) observe(op string, start time.Time, errp *error) {
	if s.opts.observer == nil {
		return
	}
	s.opts.observer.ObserveStoreOperation(s.table, op, time.Since(start), *errp)
}
