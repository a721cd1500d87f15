package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/fatla/fatla-admin/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialog(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  DialogState
	}{
		{name: "nothing", query: "", want: Idle()},
		{name: "create", query: "dialog=create", want: Creating()},
		{name: "create ignores id", query: "dialog=create&id=4", want: Creating()},
		{name: "edit", query: "dialog=edit&id=4", want: Editing("4")},
		{name: "edit without id", query: "dialog=edit", want: Idle()},
		{name: "delete", query: "dialog=delete&id=9", want: ConfirmingDelete("9")},
		{name: "delete with blank id", query: "dialog=delete&id=%20", want: Idle()},
		{name: "unknown", query: "dialog=archive&id=1", want: Idle()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ParseDialog(q))
		})
	}
}

func TestDialogStateIsExclusive(t *testing.T) {
	for _, d := range []DialogState{Idle(), Creating(), Editing("1"), ConfirmingDelete("1")} {
		open := 0
		for _, on := range []bool{d.IsIdle(), d.IsCreating(), d.IsEditing(), d.IsConfirmingDelete()} {
			if on {
				open++
			}
		}
		assert.Equal(t, 1, open, "state %+v", d)
	}
}

func TestToastIsShownOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	setToast(rec, ToastSuccess, "Color created | 1")

	req := httptest.NewRequest(http.MethodGet, "/colors", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	next := httptest.NewRecorder()
	toast := takeToast(next, req)
	require.NotNil(t, toast)
	assert.Equal(t, ToastSuccess, toast.Kind)
	assert.Equal(t, "Color created | 1", toast.Message)

	cleared := next.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, ToastCookie, cleared[0].Name)
	assert.Less(t, cleared[0].MaxAge, 0)
}

func TestToastUnknownKindIsError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ToastCookie, Value: url.QueryEscape("bogus|Oops")})

	toast := takeToast(httptest.NewRecorder(), req)
	require.NotNil(t, toast)
	assert.Equal(t, ToastError, toast.Kind)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, takeToast(httptest.NewRecorder(), req))
}

func TestRequestLang(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?lang=ar", nil)
	assert.Equal(t, "ar", requestLang(rec, req))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, LangCookie, cookies[0].Name)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	assert.Equal(t, "ar", requestLang(httptest.NewRecorder(), req))

	req = httptest.NewRequest(http.MethodGet, "/?lang=fr", nil)
	assert.Equal(t, "en", requestLang(httptest.NewRecorder(), req))
}

func TestImageAllowed(t *testing.T) {
	allowed := map[string]bool{"cdn.fatla.test": true}

	assert.True(t, imageAllowed(allowed, "/uploads/brand.png"))
	assert.True(t, imageAllowed(allowed, "https://CDN.fatla.test/a.png"))
	assert.False(t, imageAllowed(allowed, "https://evil.test/a.png"))
	assert.False(t, imageAllowed(allowed, "javascript:alert(1)"))
	assert.False(t, imageAllowed(allowed, "uploads/brand.png"))
	assert.False(t, imageAllowed(allowed, ""))
}

func TestNewFormView(t *testing.T) {
	values := url.Values{"nameEn": {"Navy"}, "isVisible": {"true"}}
	errs := validation.Errors{"nameAr": "This field is required"}

	fv := newFormView("/brands", "Create", []field{
		text("nameEn", "Name (EN)"),
		text("nameAr", "Name (AR)"),
		checkbox("isVisible", "Visible"),
		file("image", "Logo"),
	}, values, errs)

	require.Len(t, fv.Fields, 4)
	assert.True(t, fv.Multipart)
	assert.Equal(t, "Navy", fv.Fields[0].Value)
	assert.Equal(t, "This field is required", fv.Fields[1].Error)
	assert.True(t, fv.Fields[2].Checked)
	assert.Empty(t, fv.Fields[3].Value)
}

func TestDecodeForm(t *testing.T) {
	body := url.Values{"order": {"3"}, "isVisible": {"on"}, "nameEn": {"Shirts"}, "unknown": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var f categoryForm
	values, err := decodeForm(req, &f)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Order)
	assert.True(t, f.IsVisible)
	assert.Equal(t, "Shirts", f.NameEn)
	assert.Equal(t, "true", values.Get("isVisible"))
}

func TestDecodeFormConversionErrors(t *testing.T) {
	body := url.Values{"order": {"first"}, "nameEn": {"Shirts"}}
	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var f categoryForm
	values, err := decodeForm(req, &f)
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "Invalid value", errs["order"])
	assert.Equal(t, "first", values.Get("order"))
}

func multipartRequest(t *testing.T, fields map[string]string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", "logo.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/brands", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestMultipartPayload(t *testing.T) {
	req := multipartRequest(t, map[string]string{"nameEn": "Acme", "nameAr": "أكمي"}, []byte("png-bytes"))

	var f brandForm
	_, err := decodeForm(req, &f)
	require.NoError(t, err)

	fd, err := multipartPayload(req, &f, "", "image", true)
	require.NoError(t, err)
	name, ok := fd.Value("nameEn")
	assert.True(t, ok)
	assert.Equal(t, "Acme", name)
	_, hasID := fd.Value("id")
	assert.False(t, hasID)
	require.Len(t, fd.Files(), 1)
	assert.Equal(t, "logo.png", fd.Files()[0].Filename)
	assert.Equal(t, []byte("png-bytes"), fd.Files()[0].Content)
}

func TestMultipartPayloadRequiresFileOnCreate(t *testing.T) {
	req := multipartRequest(t, map[string]string{"nameEn": "Acme", "nameAr": "أكمي"}, nil)

	var f brandForm
	_, err := decodeForm(req, &f)
	require.NoError(t, err)

	_, err = multipartPayload(req, &f, "", "image", true)
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "image")

	fd, err := multipartPayload(req, &f, "7", "image", false)
	require.NoError(t, err)
	id, _ := fd.Value("id")
	assert.Equal(t, "7", id)
	assert.Empty(t, fd.Files())
}

func TestViewsRenderEveryPage(t *testing.T) {
	views, err := NewViews(nil)
	require.NoError(t, err)

	for _, page := range pageNames {
		t.Run(page, func(t *testing.T) {
			var content any
			switch page {
			case "login", "request_otp", "verify_otp", "reset_password":
				content = authPage{Form: newFormView("/login", "Go", loginFields, nil, nil)}
			case "dashboard":
				content = dashboardPage{}
			case "list":
				content = listPage{Title: "Colors", Headers: []string{"Name"}, Query: listQuery(nil), TotalPages: 1}
			case "detail":
				content = detailPage{Title: "Order #1"}
			case "singleton":
				content = singletonPage{Title: "Terms", Form: newFormView("/pages/terms", "Save", staticPageFields, nil, nil)}
			case "error":
				content = errorPage{Message: "boom"}
			}

			var buf bytes.Buffer
			require.NoError(t, views.Render(&buf, page, pageData{Title: "T", Lang: "en", Content: content}))
			assert.Contains(t, buf.String(), "<main>")
		})
	}

	assert.Error(t, views.Render(&bytes.Buffer{}, "missing", pageData{}))
}
