package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fatla/fatla-admin/internal/apiclient"
	"github.com/fatla/fatla-admin/internal/models"
)

var ErrUnsupported = errors.New("operation not supported for this resource")

// Endpoint is one backend action. Verbs differ between resources and are
// kept exactly as the backend exposes them.
type Endpoint struct {
	Method string
	Action string
	Form   bool
}

func (e Endpoint) Defined() bool {
	return e.Action != ""
}

// Descriptor names a resource and its backend actions. Name doubles as the
// cache root.
type Descriptor struct {
	Name    string
	Segment string
	List    Endpoint
	Detail  Endpoint
	Create  Endpoint
	Update  Endpoint
	Delete  Endpoint
}

func (d Descriptor) path(lang string, ep Endpoint) string {
	return apiclient.Path(lang, d.Segment, ep.Action)
}

func callOptions(ep Endpoint, q url.Values) []apiclient.CallOption {
	var opts []apiclient.CallOption
	if ep.Form {
		opts = append(opts, apiclient.AsForm())
	}
	if len(q) > 0 {
		opts = append(opts, apiclient.WithQuery(q))
	}
	return opts
}

// Resource is the CRUD service of one backend entity.
type Resource[T any] struct {
	Descriptor
}

func NewResource[T any](d Descriptor) *Resource[T] {
	return &Resource[T]{Descriptor: d}
}

func (r *Resource[T]) List(ctx context.Context, api apiclient.Caller, lang string, q models.ListQuery) (models.Page[T], error) {
	var page models.Page[T]
	if !r.Descriptor.List.Defined() {
		return page, ErrUnsupported
	}

	q = q.Normalize()
	params := url.Values{
		"pageNumber": {strconv.Itoa(q.Page)},
		"pageSize":   {strconv.Itoa(q.PageSize)},
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	ep := r.Descriptor.List
	if err := api.Call(ctx, methodOr(ep, http.MethodGet), r.path(lang, ep), nil, &page, callOptions(ep, params)...); err != nil {
		return page, fmt.Errorf("failed to list %s: %w", r.Name, err)
	}
	return page, nil
}

func (r *Resource[T]) Get(ctx context.Context, api apiclient.Caller, lang, id string) (T, error) {
	var item T
	if !r.Detail.Defined() {
		return item, ErrUnsupported
	}

	ep := r.Detail
	if err := api.Call(ctx, methodOr(ep, http.MethodGet), r.path(lang, ep), nil, &item, callOptions(ep, url.Values{"id": {id}})...); err != nil {
		return item, fmt.Errorf("failed to get %s %s: %w", r.Name, id, err)
	}
	return item, nil
}

// Create sends payload as JSON, or as multipart when the endpoint is a form
// endpoint (payload must then be *apiclient.FormData).
func (r *Resource[T]) Create(ctx context.Context, api apiclient.Caller, lang string, payload any) error {
	if !r.Descriptor.Create.Defined() {
		return ErrUnsupported
	}

	ep := r.Descriptor.Create
	if err := api.Call(ctx, methodOr(ep, http.MethodPost), r.path(lang, ep), payload, nil, callOptions(ep, nil)...); err != nil {
		return fmt.Errorf("failed to create %s: %w", r.Name, err)
	}
	return nil
}

func (r *Resource[T]) Update(ctx context.Context, api apiclient.Caller, lang, id string, payload any) error {
	if !r.Descriptor.Update.Defined() {
		return ErrUnsupported
	}

	ep := r.Descriptor.Update
	if err := api.Call(ctx, methodOr(ep, http.MethodPut), r.path(lang, ep), payload, nil, callOptions(ep, url.Values{"id": {id}})...); err != nil {
		return fmt.Errorf("failed to update %s %s: %w", r.Name, id, err)
	}
	return nil
}

func (r *Resource[T]) Delete(ctx context.Context, api apiclient.Caller, lang, id string) error {
	if !r.Descriptor.Delete.Defined() {
		return ErrUnsupported
	}

	ep := r.Descriptor.Delete
	if err := api.Call(ctx, methodOr(ep, http.MethodDelete), r.path(lang, ep), nil, nil, callOptions(ep, url.Values{"id": {id}})...); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", r.Name, id, err)
	}
	return nil
}

// Singleton serves resources that have exactly one record per language.
type Singleton[T any] struct {
	Descriptor
}

func NewSingleton[T any](d Descriptor) *Singleton[T] {
	return &Singleton[T]{Descriptor: d}
}

func (s *Singleton[T]) Get(ctx context.Context, api apiclient.Caller, lang string) (T, error) {
	var item T
	ep := s.Detail
	if err := api.Call(ctx, methodOr(ep, http.MethodGet), s.path(lang, ep), nil, &item, callOptions(ep, nil)...); err != nil {
		return item, fmt.Errorf("failed to get %s: %w", s.Name, err)
	}
	return item, nil
}

func (s *Singleton[T]) Update(ctx context.Context, api apiclient.Caller, lang string, payload any) error {
	ep := s.Descriptor.Update
	if err := api.Call(ctx, methodOr(ep, http.MethodPut), s.path(lang, ep), payload, nil, callOptions(ep, nil)...); err != nil {
		return fmt.Errorf("failed to update %s: %w", s.Name, err)
	}
	return nil
}

func methodOr(ep Endpoint, fallback string) string {
	if ep.Method != "" {
		return ep.Method
	}
	return fallback
}
