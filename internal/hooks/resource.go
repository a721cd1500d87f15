package hooks

import (
	"context"

	"github.com/fatla/fatla-admin/internal/models"
	"github.com/fatla/fatla-admin/internal/query"
	"github.com/fatla/fatla-admin/internal/service"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Resource is the cached binding of one CRUD resource.
type Resource[T any] struct {
	binder *Binder
	svc    *service.Resource[T]
	label  string
	also   []string
}

// NewResource binds svc; label is the human name used in fallback messages.
// also names further roots that a write to this resource makes stale.
func NewResource[T any](b *Binder, svc *service.Resource[T], label string, also ...string) *Resource[T] {
	return &Resource[T]{
		binder: b,
		svc:    svc,
		label:  label,
		also:   also,
	}
}

func (r *Resource[T]) Name() string {
	return r.svc.Name
}

func (r *Resource[T]) Label() string {
	return r.label
}

func (r *Resource[T]) roots() []string {
	return append([]string{r.svc.Name}, r.also...)
}

// List serves the previous page content while a stale list refetches.
func (r *Resource[T]) List(ctx context.Context, req Request, q models.ListQuery) (models.Page[T], error) {
	q = q.Normalize()
	lang := req.lang()
	key := query.ListKey(r.svc.Name, lang, q.Page, q.PageSize, q.Search)
	opts := query.ReadOptions{StaleTime: r.binder.cfg.StaleTime, Background: true}

	return query.Read(ctx, r.binder.queries, key, opts, func(ctx context.Context) (models.Page[T], error) {
		return r.svc.List(ctx, req.API, lang, q)
	})
}

func (r *Resource[T]) Detail(ctx context.Context, req Request, id string) (T, error) {
	lang := req.lang()
	key := query.DetailKey(r.svc.Name, id, lang)
	opts := query.ReadOptions{StaleTime: r.binder.cfg.StaleTime}

	return query.Read(ctx, r.binder.queries, key, opts, func(ctx context.Context) (T, error) {
		return r.svc.Get(ctx, req.API, lang, id)
	})
}

func (r *Resource[T]) Create(ctx context.Context, req Request, payload any) error {
	return r.binder.mutate(ctx, req, r.svc.Name, ActionCreate, "", "Failed to create "+r.label, r.roots(),
		func(ctx context.Context) error {
			return r.svc.Create(ctx, req.API, req.lang(), payload)
		})
}

func (r *Resource[T]) Update(ctx context.Context, req Request, id string, payload any) error {
	return r.binder.mutate(ctx, req, r.svc.Name, ActionUpdate, id, "Failed to update "+r.label, r.roots(),
		func(ctx context.Context) error {
			return r.svc.Update(ctx, req.API, req.lang(), id, payload)
		})
}

func (r *Resource[T]) Delete(ctx context.Context, req Request, id string) error {
	return r.binder.mutate(ctx, req, r.svc.Name, ActionDelete, id, "Failed to delete "+r.label, r.roots(),
		func(ctx context.Context) error {
			return r.svc.Delete(ctx, req.API, req.lang(), id)
		})
}

// Supports reports whether the backend exposes action for this resource.
func (r *Resource[T]) Supports(action string) bool {
	switch action {
	case ActionCreate:
		return r.svc.Descriptor.Create.Defined()
	case ActionUpdate:
		return r.svc.Descriptor.Update.Defined()
	case ActionDelete:
		return r.svc.Descriptor.Delete.Defined()
	}
	return false
}

// Singleton is the cached binding of a one-record resource.
type Singleton[T any] struct {
	binder *Binder
	svc    *service.Singleton[T]
	label  string
}

func NewSingleton[T any](b *Binder, svc *service.Singleton[T], label string) *Singleton[T] {
	return &Singleton[T]{
		binder: b,
		svc:    svc,
		label:  label,
	}
}

func (s *Singleton[T]) Name() string {
	return s.svc.Name
}

func (s *Singleton[T]) Label() string {
	return s.label
}

func (s *Singleton[T]) Get(ctx context.Context, req Request) (T, error) {
	lang := req.lang()
	key := query.ItemKey(s.svc.Name, lang)
	opts := query.ReadOptions{StaleTime: s.binder.cfg.StaleTime}

	return query.Read(ctx, s.binder.queries, key, opts, func(ctx context.Context) (T, error) {
		return s.svc.Get(ctx, req.API, lang)
	})
}

func (s *Singleton[T]) Update(ctx context.Context, req Request, payload any) error {
	return s.binder.mutate(ctx, req, s.svc.Name, ActionUpdate, "", "Failed to update "+s.label, []string{s.svc.Name},
		func(ctx context.Context) error {
			return s.svc.Update(ctx, req.API, req.lang(), payload)
		})
}

// Dashboard caches the landing statistics with their own, shorter stale time.
type Dashboard struct {
	binder *Binder
	svc    *service.DashboardService
}

func NewDashboard(b *Binder, svc *service.DashboardService) *Dashboard {
	return &Dashboard{binder: b, svc: svc}
}

func (d *Dashboard) Stats(ctx context.Context, req Request) (models.DashboardStats, error) {
	lang := req.lang()
	key := query.ItemKey(service.ResourceDashboard, lang)
	opts := query.ReadOptions{StaleTime: d.binder.cfg.DashboardStaleTime, Background: true}

	return query.Read(ctx, d.binder.queries, key, opts, func(ctx context.Context) (models.DashboardStats, error) {
		return d.svc.Stats(ctx, req.API, lang)
	})
}
