package persistence

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/payments-example/internal/domain/aggregates"
	"github.com/yungbote/payments-example/internal/domain/entity"
	"github.com/yungbote/payments-example/internal/platform/ctxutil"
	"github.com/yungbote/payments-example/internal/platform/dbctx"
	"github.com/yungbote/payments-example/internal/platform/logger"
)

// Criteria is a set of column = value equality filters.
type Criteria map[string]any

type PageRequest struct {
	Page  int
	Limit int
}

type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

type Option func(*options)

type options struct {
	name   string
	hooks  Hooks
	runner TxRunner
}

// WithName sets the operation prefix used in errors, logs and metrics.
func WithName(name string) Option { return func(o *options) { o.name = strings.TrimSpace(name) } }

func WithHooks(h Hooks) Option { return func(o *options) { o.hooks = h } }

func WithTxRunner(r TxRunner) Option { return func(o *options) { o.runner = r } }

// Repository is a generic gorm repository for rows R that embed Base.
// Reads never see soft-deleted rows.
type Repository[D any, R any] struct {
	db     *gorm.DB
	log    *logger.Logger
	mapper Mapper[D, R]
	name   string
	hooks  Hooks
	runner TxRunner
}

func NewRepository[D any, R any](db *gorm.DB, baseLog *logger.Logger, mapper Mapper[D, R], opts ...Option) *Repository[D, R] {
	o := options{name: "repository"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.hooks == nil {
		o.hooks = noopHooks{}
	}
	if o.runner == nil {
		o.runner = NewGormTxRunner(db)
	}
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &Repository[D, R]{
		db:     db,
		log:    baseLog.With("repo", o.name),
		mapper: mapper,
		name:   o.name,
		hooks:  o.hooks,
		runner: o.runner,
	}
}

// FindOne returns the first live row matching criteria. found is false when nothing matches.
func (r *Repository[D, R]) FindOne(ctx context.Context, criteria Criteria) (loaded entity.Loaded[D], found bool, err error) {
	op := r.op("find_one")
	defer r.observe(ctx, op, time.Now(), &err)

	var row R
	if err = r.query(dbctx.Context{Ctx: ctx}, criteria).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Loaded[D]{}, false, nil
		}
		return entity.Loaded[D]{}, false, MapError(op, err)
	}
	loaded, err = r.mapper.ToDomain(row)
	if err != nil {
		return entity.Loaded[D]{}, false, corruptRow(op, err)
	}
	return loaded, true, nil
}

// FindWithPagination returns one page of live rows, newest first. Total counts every match.
func (r *Repository[D, R]) FindWithPagination(ctx context.Context, criteria Criteria, req PageRequest) (page Page[entity.Loaded[D]], err error) {
	op := r.op("find_page")
	defer r.observe(ctx, op, time.Now(), &err)

	if req.Page < 1 {
		return Page[entity.Loaded[D]]{}, domainagg.Validation(op, "page must be >= 1, got %d", req.Page)
	}
	if req.Limit < 1 {
		return Page[entity.Loaded[D]]{}, domainagg.Validation(op, "limit must be >= 1, got %d", req.Limit)
	}

	dbc := dbctx.Context{Ctx: ctx}
	var total int64
	if err = r.query(dbc, criteria).Count(&total).Error; err != nil {
		return Page[entity.Loaded[D]]{}, MapError(op, err)
	}

	// the offset would overflow int, so the page is past any reachable row
	if req.Page-1 > math.MaxInt/req.Limit {
		return Page[entity.Loaded[D]]{Items: []entity.Loaded[D]{}, Total: total, Page: req.Page, Limit: req.Limit}, nil
	}

	var rows []R
	err = r.query(dbc, criteria).
		Order("created_at DESC").
		Order("id ASC").
		Offset((req.Page - 1) * req.Limit).
		Limit(req.Limit).
		Find(&rows).Error
	if err != nil {
		return Page[entity.Loaded[D]]{}, MapError(op, err)
	}
	items, err := MapRows(r.mapper, rows)
	if err != nil {
		return Page[entity.Loaded[D]]{}, corruptRow(op, err)
	}
	return Page[entity.Loaded[D]]{Items: items, Total: total, Page: req.Page, Limit: req.Limit}, nil
}

// Save inserts a transient entity or updates the live row of a loaded one.
func (r *Repository[D, R]) Save(ctx context.Context, e entity.Entity[D]) (saved entity.Loaded[D], err error) {
	meta, persisted := entity.Identity(e)
	if !persisted {
		return r.insert(ctx, e)
	}

	op := r.op("update")
	defer r.observe(ctx, op, time.Now(), &err)

	row, err := r.mapper.ToPersistence(e)
	if err != nil {
		return entity.Loaded[D]{}, MapError(op, err)
	}
	err = r.runner.InTx(ctx, func(dbc dbctx.Context) error {
		res := dbc.DB(r.db).
			Model(&row).
			Select("*").
			Omit("id", "created_at", "deleted_at").
			Updates(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("row %s not found", meta.ID()), nil)
		}
		var fresh R
		if err := dbc.DB(r.db).Where("id = ?", meta.ID()).Take(&fresh).Error; err != nil {
			return err
		}
		loaded, err := r.mapper.ToDomain(fresh)
		if err != nil {
			return corruptRow(op, err)
		}
		saved = loaded
		return nil
	})
	if err != nil {
		return entity.Loaded[D]{}, MapError(op, err)
	}
	return saved, nil
}

func (r *Repository[D, R]) insert(ctx context.Context, e entity.Entity[D]) (saved entity.Loaded[D], err error) {
	op := r.op("insert")
	defer r.observe(ctx, op, time.Now(), &err)

	row, err := r.mapper.ToPersistence(e)
	if err != nil {
		return entity.Loaded[D]{}, MapError(op, err)
	}
	if err = (dbctx.Context{Ctx: ctx}).DB(r.db).Create(&row).Error; err != nil {
		return entity.Loaded[D]{}, MapError(op, err)
	}
	saved, err = r.mapper.ToDomain(row)
	if err != nil {
		return entity.Loaded[D]{}, corruptRow(op, err)
	}
	return saved, nil
}

// corruptRow reports a stored row the mapper cannot rebuild as a persistence failure,
// whatever code the mapper gave it.
func corruptRow(op string, err error) error {
	return domainagg.Wrap(domainagg.CodePersistence, op, fmt.Errorf("corrupt stored row: %w", err))
}

func (r *Repository[D, R]) query(dbc dbctx.Context, criteria Criteria) *gorm.DB {
	q := dbc.DB(r.db).Model(new(R))
	if len(criteria) > 0 {
		q = q.Where(map[string]interface{}(criteria))
	}
	return q
}

func (r *Repository[D, R]) op(name string) string {
	return r.name + "." + name
}

func (r *Repository[D, R]) observe(ctx context.Context, op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	dur := time.Since(start)
	r.hooks.ObserveOperation(op, statusOf(err), dur)
	if err == nil {
		return
	}
	fields := append([]interface{}{"op", op, "duration_ms", dur.Milliseconds(), "error", err}, ctxutil.LogFields(ctx)...)
	switch domainagg.CodeOf(err) {
	case domainagg.CodeValidation, domainagg.CodeNotFound:
		r.log.Debug("repository operation rejected", fields...)
	default:
		r.log.Error("repository operation failed", fields...)
	}
}
