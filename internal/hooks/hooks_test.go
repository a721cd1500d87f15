package hooks

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fatla/fatla-admin/internal/apiclient"
	"github.com/fatla/fatla-admin/internal/models"
	"github.com/fatla/fatla-admin/internal/query"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// colorBackend serves a mutable color list and counts hits per path.
type colorBackend struct {
	mu      sync.Mutex
	colors  []string
	hits    map[string]int
	failAdd bool
}

func (b *colorBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hits[r.URL.Path]++
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/api/en/Color/GetAllColors":
		items := ""
		for i, code := range b.colors {
			if i > 0 {
				items += ","
			}
			items += `{"id":` + string(rune('1'+i)) + `,"nameEn":"c","colorCode":"` + code + `"}`
		}
		_, _ = io.WriteString(w, `{"success":true,"data":{"items":[`+items+`],"totalCount":1,"pageNumber":1,"pageSize":10}}`)
	case "/api/en/Color/AddColor":
		if b.failAdd {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"success":false,"message":"Color already exists"}`)
			return
		}
		b.colors = append(b.colors, "#1A2B3C")
		_, _ = io.WriteString(w, `{"success":true}`)
	case "/api/en/Dashboard/GetStatistics":
		_, _ = io.WriteString(w, `{"success":true,"data":{"totalOrders":1}}`)
	case "/api/en/AboutUs/GetAboutUs":
		_, _ = io.WriteString(w, `{"success":true,"data":{"contentEn":"About"}}`)
	default:
		_, _ = io.WriteString(w, `{"success":true}`)
	}
}

func (b *colorBackend) count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

type recorder struct {
	mu      sync.Mutex
	entries []*models.AuditEntry
}

func (r *recorder) Record(_ context.Context, entry *models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func setup(t *testing.T) (*Set, *colorBackend, *recorder, Request) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	backend := &colorBackend{colors: []string{"#000000"}, hits: map[string]int{}}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	audit := &recorder{}
	queries := query.NewClient(query.NewMemoryStore(), logger, query.WithRetry(0, 0))
	binder := NewBinder(queries, audit, logger, Config{StaleTime: 5 * time.Minute, DashboardStaleTime: 2 * time.Minute})
	api := apiclient.NewFactory(srv.URL, 5*time.Second, logger).New(nil)
	return NewSet(binder), backend, audit, Request{API: api, Lang: "en", Actor: "+201234567890"}
}

const listColors = "/api/en/Color/GetAllColors"

func TestColorCreateInvalidatesList(t *testing.T) {
	set, backend, audit, req := setup(t)
	ctx := context.Background()

	before, err := set.Colors.List(ctx, req, models.ListQuery{})
	require.NoError(t, err)
	_, err = set.Colors.List(ctx, req, models.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.count(listColors))

	require.NoError(t, set.Colors.Create(ctx, req, map[string]string{"nameEn": "Navy", "colorCode": "#1A2B3C"}))

	after, err := set.Colors.List(ctx, req, models.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, backend.count(listColors))
	assert.Len(t, before.Items, 1)
	require.Len(t, after.Items, 2)
	assert.Equal(t, "#1A2B3C", after.Items[1].ColorCode)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "colors", audit.entries[0].Resource)
	assert.Equal(t, ActionCreate, audit.entries[0].Action)
	assert.Equal(t, "+201234567890", audit.entries[0].Actor)
	assert.NotEmpty(t, audit.entries[0].ID)
}

func TestFailedCreateKeepsCache(t *testing.T) {
	set, backend, audit, req := setup(t)
	backend.mu.Lock()
	backend.failAdd = true
	backend.mu.Unlock()
	ctx := context.Background()

	_, err := set.Colors.List(ctx, req, models.ListQuery{})
	require.NoError(t, err)

	err = set.Colors.Create(ctx, req, map[string]string{"nameEn": "Navy"})
	var mutErr *query.MutationError
	require.True(t, errors.As(err, &mutErr))
	assert.Equal(t, "Color already exists", mutErr.Message)

	_, err = set.Colors.List(ctx, req, models.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.count(listColors))
	assert.Empty(t, audit.entries)
}

func TestFailedMutationFallsBackToLabel(t *testing.T) {
	set, _, _, req := setup(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	req.API = apiclient.NewFactory("http://127.0.0.1:1", time.Second, logger).New(nil)

	err := set.Brands.Delete(context.Background(), req, "4")
	var mutErr *query.MutationError
	require.True(t, errors.As(err, &mutErr))
	assert.Equal(t, "Failed to delete brand", mutErr.Message)
}

func TestOrderUpdateExpiresDashboard(t *testing.T) {
	set, backend, _, req := setup(t)
	ctx := context.Background()
	const stats = "/api/en/Dashboard/GetStatistics"

	_, err := set.Dashboard.Stats(ctx, req)
	require.NoError(t, err)
	_, err = set.Dashboard.Stats(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.count(stats))

	require.NoError(t, set.Orders.Update(ctx, req, "9", map[string]string{"status": "Shipped"}))

	_, err = set.Dashboard.Stats(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.count(stats))
}

func TestSingletonCachesPerLanguage(t *testing.T) {
	set, backend, _, req := setup(t)
	ctx := context.Background()
	const about = "/api/en/AboutUs/GetAboutUs"

	page, err := set.AboutUs.Get(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "About", page.ContentEn)
	_, err = set.AboutUs.Get(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.count(about))

	require.NoError(t, set.AboutUs.Update(ctx, req, models.StaticPage{ContentEn: "New"}))
	_, err = set.AboutUs.Get(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.count(about))
}

func TestSupports(t *testing.T) {
	set, _, _, _ := setup(t)

	assert.True(t, set.Colors.Supports(ActionCreate))
	assert.False(t, set.Orders.Supports(ActionCreate))
	assert.False(t, set.Orders.Supports(ActionDelete))
	assert.True(t, set.Clients.Supports(ActionUpdate))
	assert.False(t, set.Notifications.Supports(ActionUpdate))
}
