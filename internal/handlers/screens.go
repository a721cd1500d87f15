package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fatla/fatla-admin/internal/models"
	"github.com/gorilla/mux"
)

type brandForm struct {
	NameAr    string `schema:"nameAr" json:"nameAr" validate:"required"`
	NameEn    string `schema:"nameEn" json:"nameEn" validate:"required"`
	IsVisible bool   `schema:"isVisible" json:"isVisible"`
}

type categoryForm struct {
	NameAr    string `schema:"nameAr" json:"nameAr" validate:"required"`
	NameEn    string `schema:"nameEn" json:"nameEn" validate:"required"`
	ParentID  int    `schema:"parentId" json:"parentId,omitempty" validate:"gte=0"`
	Order     int    `schema:"order" json:"order" validate:"gte=0"`
	IsVisible bool   `schema:"isVisible" json:"isVisible"`
}

type colorForm struct {
	NameAr    string `schema:"nameAr" json:"nameAr" validate:"required"`
	NameEn    string `schema:"nameEn" json:"nameEn" validate:"required"`
	ColorCode string `schema:"colorCode" json:"colorCode" validate:"required,hexcolor"`
}

type sizeForm struct {
	Name  string `schema:"name" json:"name" validate:"required"`
	Order int    `schema:"order" json:"order" validate:"gte=0"`
}

type productForm struct {
	NameAr        string  `schema:"nameAr" json:"nameAr" validate:"required"`
	NameEn        string  `schema:"nameEn" json:"nameEn" validate:"required"`
	DescriptionAr string  `schema:"descriptionAr" json:"descriptionAr"`
	DescriptionEn string  `schema:"descriptionEn" json:"descriptionEn"`
	Price         float64 `schema:"price" json:"price" validate:"gt=0"`
	Stock         int     `schema:"stock" json:"stock" validate:"gte=0"`
	BrandID       int     `schema:"brandId" json:"brandId" validate:"required"`
	CategoryID    int     `schema:"categoryId" json:"categoryId" validate:"required"`
	IsVisible     bool    `schema:"isVisible" json:"isVisible"`
}

type sliderForm struct {
	TitleAr   string `schema:"titleAr" json:"titleAr"`
	TitleEn   string `schema:"titleEn" json:"titleEn"`
	Link      string `schema:"link" json:"link" validate:"omitempty,url"`
	Order     int    `schema:"order" json:"order" validate:"gte=0"`
	IsVisible bool   `schema:"isVisible" json:"isVisible"`
}

type faqForm struct {
	QuestionAr string `schema:"questionAr" json:"questionAr" validate:"required"`
	QuestionEn string `schema:"questionEn" json:"questionEn" validate:"required"`
	AnswerAr   string `schema:"answerAr" json:"answerAr" validate:"required"`
	AnswerEn   string `schema:"answerEn" json:"answerEn" validate:"required"`
	Order      int    `schema:"order" json:"order" validate:"gte=0"`
}

type clientStatusForm struct {
	IsActive bool `schema:"isActive" json:"isActive"`
}

type orderStatusForm struct {
	Status string `schema:"status" json:"status" validate:"required,oneof=Pending Confirmed Shipped Delivered Cancelled"`
}

type returnStatusForm struct {
	Status string `schema:"status" json:"status" validate:"required,oneof=Requested Approved Rejected Refunded"`
}

type notificationForm struct {
	TitleAr  string `schema:"titleAr" json:"titleAr"`
	TitleEn  string `schema:"titleEn" json:"titleEn" validate:"required"`
	BodyAr   string `schema:"bodyAr" json:"bodyAr"`
	BodyEn   string `schema:"bodyEn" json:"bodyEn" validate:"required"`
	Audience string `schema:"audience" json:"audience" validate:"required,oneof=all active inactive"`
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func visibleBadge(b bool) string {
	if b {
		return "success"
	}
	return "muted"
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func orderStatusOptions() []string {
	out := make([]string, len(models.OrderStatuses))
	for i, s := range models.OrderStatuses {
		out[i] = string(s)
	}
	return out
}

func returnStatusOptions() []string {
	out := make([]string, len(models.ReturnStatuses))
	for i, s := range models.ReturnStatuses {
		out[i] = string(s)
	}
	return out
}

// imageUpload sends the form as multipart with the file under field. The
// file is required when creating.
func imageUpload[F any](field string) func(r *http.Request, f *F, id string) (any, error) {
	return func(r *http.Request, f *F, id string) (any, error) {
		return multipartPayload(r, f, id, field, id == "")
	}
}

// mountScreens registers every CRUD screen on router.
func (h *Handlers) mountScreens(router *mux.Router) {
	set := h.hooks

	(&screen[models.Brand, brandForm]{
		h: h, hook: set.Brands, path: "/brands", title: "Brands",
		id: func(b models.Brand) int { return b.ID },
		columns: []column[models.Brand]{
			{Header: "Image", Image: func(b models.Brand) string { return b.ImageURL }},
			{Header: "Name (EN)", Text: func(b models.Brand) string { return b.NameEn }},
			{Header: "Name (AR)", Text: func(b models.Brand) string { return b.NameAr }},
			{Header: "Visible", Text: func(b models.Brand) string { return yesNo(b.IsVisible) },
				Badge: func(b models.Brand) string { return visibleBadge(b.IsVisible) }},
		},
		fields: []field{
			text("nameEn", "Name (EN)"),
			text("nameAr", "Name (AR)"),
			checkbox("isVisible", "Visible"),
			file("image", "Logo"),
		},
		toForm: func(b models.Brand) brandForm {
			return brandForm{NameAr: b.NameAr, NameEn: b.NameEn, IsVisible: b.IsVisible}
		},
		payload: imageUpload[brandForm]("image"),
	}).mount(router)

	(&screen[models.Category, categoryForm]{
		h: h, hook: set.Categories, path: "/categories", title: "Categories",
		id: func(c models.Category) int { return c.ID },
		columns: []column[models.Category]{
			{Header: "Name (EN)", Text: func(c models.Category) string { return c.NameEn }},
			{Header: "Name (AR)", Text: func(c models.Category) string { return c.NameAr }},
			{Header: "Order", Text: func(c models.Category) string { return strconv.Itoa(c.Order) }},
			{Header: "Visible", Text: func(c models.Category) string { return yesNo(c.IsVisible) },
				Badge: func(c models.Category) string { return visibleBadge(c.IsVisible) }},
		},
		fields: []field{
			text("nameEn", "Name (EN)"),
			text("nameAr", "Name (AR)"),
			number("parentId", "Parent category id"),
			number("order", "Order"),
			checkbox("isVisible", "Visible"),
		},
		toForm: func(c models.Category) categoryForm {
			f := categoryForm{NameAr: c.NameAr, NameEn: c.NameEn, Order: c.Order, IsVisible: c.IsVisible}
			if c.ParentID != nil {
				f.ParentID = *c.ParentID
			}
			return f
		},
	}).mount(router)

	(&screen[models.Color, colorForm]{
		h: h, hook: set.Colors, path: "/colors", title: "Colors",
		id: func(c models.Color) int { return c.ID },
		columns: []column[models.Color]{
			{Header: "Name (EN)", Text: func(c models.Color) string { return c.NameEn }},
			{Header: "Name (AR)", Text: func(c models.Color) string { return c.NameAr }},
			{Header: "Code", Text: func(c models.Color) string { return c.ColorCode }},
		},
		fields: []field{
			text("nameEn", "Name (EN)"),
			text("nameAr", "Name (AR)"),
			text("colorCode", "Color code"),
		},
		toForm: func(c models.Color) colorForm {
			return colorForm{NameAr: c.NameAr, NameEn: c.NameEn, ColorCode: c.ColorCode}
		},
	}).mount(router)

	(&screen[models.Size, sizeForm]{
		h: h, hook: set.Sizes, path: "/sizes", title: "Sizes",
		id: func(s models.Size) int { return s.ID },
		columns: []column[models.Size]{
			{Header: "Name", Text: func(s models.Size) string { return s.Name }},
			{Header: "Order", Text: func(s models.Size) string { return strconv.Itoa(s.Order) }},
		},
		fields: []field{
			text("name", "Name"),
			number("order", "Order"),
		},
		toForm: func(s models.Size) sizeForm {
			return sizeForm{Name: s.Name, Order: s.Order}
		},
	}).mount(router)

	(&screen[models.Product, productForm]{
		h: h, hook: set.Products, path: "/products", title: "Products",
		id: func(p models.Product) int { return p.ID },
		columns: []column[models.Product]{
			{Header: "Image", Image: func(p models.Product) string { return p.ImageURL }},
			{Header: "Name (EN)", Text: func(p models.Product) string { return p.NameEn }},
			{Header: "Price", Text: func(p models.Product) string { return money(p.Price) }},
			{Header: "Stock", Text: func(p models.Product) string { return strconv.Itoa(p.Stock) }},
			{Header: "Visible", Text: func(p models.Product) string { return yesNo(p.IsVisible) },
				Badge: func(p models.Product) string { return visibleBadge(p.IsVisible) }},
		},
		fields: []field{
			text("nameEn", "Name (EN)"),
			text("nameAr", "Name (AR)"),
			textarea("descriptionEn", "Description (EN)"),
			textarea("descriptionAr", "Description (AR)"),
			number("price", "Price"),
			number("stock", "Stock"),
			number("brandId", "Brand id"),
			number("categoryId", "Category id"),
			checkbox("isVisible", "Visible"),
			file("image", "Image"),
		},
		toForm: func(p models.Product) productForm {
			return productForm{
				NameAr:        p.NameAr,
				NameEn:        p.NameEn,
				DescriptionAr: p.DescriptionAr,
				DescriptionEn: p.DescriptionEn,
				Price:         p.Price,
				Stock:         p.Stock,
				BrandID:       p.BrandID,
				CategoryID:    p.CategoryID,
				IsVisible:     p.IsVisible,
			}
		},
		payload: imageUpload[productForm]("image"),
	}).mount(router)

	(&screen[models.Slider, sliderForm]{
		h: h, hook: set.Sliders, path: "/sliders", title: "Sliders",
		id: func(s models.Slider) int { return s.ID },
		columns: []column[models.Slider]{
			{Header: "Image", Image: func(s models.Slider) string { return s.ImageURL }},
			{Header: "Title (EN)", Text: func(s models.Slider) string { return s.TitleEn }},
			{Header: "Order", Text: func(s models.Slider) string { return strconv.Itoa(s.Order) }},
			{Header: "Visible", Text: func(s models.Slider) string { return yesNo(s.IsVisible) },
				Badge: func(s models.Slider) string { return visibleBadge(s.IsVisible) }},
		},
		fields: []field{
			text("titleEn", "Title (EN)"),
			text("titleAr", "Title (AR)"),
			withKind("url", text("link", "Link")),
			number("order", "Order"),
			checkbox("isVisible", "Visible"),
			file("image", "Image"),
		},
		toForm: func(s models.Slider) sliderForm {
			return sliderForm{TitleAr: s.TitleAr, TitleEn: s.TitleEn, Link: s.Link, Order: s.Order, IsVisible: s.IsVisible}
		},
		payload: imageUpload[sliderForm]("image"),
	}).mount(router)

	(&screen[models.FAQ, faqForm]{
		h: h, hook: set.FAQs, path: "/faqs", title: "FAQs",
		id: func(q models.FAQ) int { return q.ID },
		columns: []column[models.FAQ]{
			{Header: "Question (EN)", Text: func(q models.FAQ) string { return q.QuestionEn }},
			{Header: "Question (AR)", Text: func(q models.FAQ) string { return q.QuestionAr }},
			{Header: "Order", Text: func(q models.FAQ) string { return strconv.Itoa(q.Order) }},
		},
		fields: []field{
			text("questionEn", "Question (EN)"),
			text("questionAr", "Question (AR)"),
			textarea("answerEn", "Answer (EN)"),
			textarea("answerAr", "Answer (AR)"),
			number("order", "Order"),
		},
		toForm: func(q models.FAQ) faqForm {
			return faqForm{QuestionAr: q.QuestionAr, QuestionEn: q.QuestionEn, AnswerAr: q.AnswerAr, AnswerEn: q.AnswerEn, Order: q.Order}
		},
	}).mount(router)

	(&screen[models.Client, clientStatusForm]{
		h: h, hook: set.Clients, path: "/clients", title: "Clients",
		id: func(c models.Client) int { return c.ID },
		columns: []column[models.Client]{
			{Header: "Name", Text: func(c models.Client) string { return c.FullName }},
			{Header: "Mobile", Text: func(c models.Client) string { return c.Mobile }},
			{Header: "Orders", Text: func(c models.Client) string { return strconv.Itoa(c.OrdersCount) }},
			{Header: "Active", Text: func(c models.Client) string { return yesNo(c.IsActive) },
				Badge: func(c models.Client) string { return visibleBadge(c.IsActive) }},
		},
		fields: []field{
			checkbox("isActive", "Active"),
		},
		toForm: func(c models.Client) clientStatusForm {
			return clientStatusForm{IsActive: c.IsActive}
		},
		details: func(c models.Client) []detailRow {
			return []detailRow{
				{Label: "Name", Value: c.FullName},
				{Label: "Mobile", Value: c.Mobile},
				{Label: "Email", Value: c.Email},
				{Label: "Orders", Value: strconv.Itoa(c.OrdersCount)},
				{Label: "Active", Value: yesNo(c.IsActive)},
				{Label: "Joined", Value: c.CreatedAt.Format("2006-01-02")},
			}
		},
	}).mount(router)

	(&screen[models.Order, orderStatusForm]{
		h: h, hook: set.Orders, path: "/orders", title: "Orders",
		id: func(o models.Order) int { return o.ID },
		columns: []column[models.Order]{
			{Header: "#", Text: func(o models.Order) string { return strconv.Itoa(o.ID) }},
			{Header: "Client", Text: func(o models.Order) string { return o.ClientName }},
			{Header: "Total", Text: func(o models.Order) string { return money(o.Total) }},
			{Header: "Status", Text: func(o models.Order) string { return string(o.Status) },
				Badge: func(o models.Order) string { return o.Status.Badge() }},
		},
		fields: []field{
			selectField("status", "Status", orderStatusOptions()...),
		},
		toForm: func(o models.Order) orderStatusForm {
			return orderStatusForm{Status: string(o.Status)}
		},
		details: orderDetails,
	}).mount(router)

	(&screen[models.Return, returnStatusForm]{
		h: h, hook: set.Returns, path: "/returns", title: "Returns",
		id: func(rt models.Return) int { return rt.ID },
		columns: []column[models.Return]{
			{Header: "#", Text: func(rt models.Return) string { return strconv.Itoa(rt.ID) }},
			{Header: "Order", Text: func(rt models.Return) string { return strconv.Itoa(rt.OrderID) }},
			{Header: "Client", Text: func(rt models.Return) string { return rt.ClientName }},
			{Header: "Amount", Text: func(rt models.Return) string { return money(rt.Amount) }},
			{Header: "Status", Text: func(rt models.Return) string { return string(rt.Status) },
				Badge: func(rt models.Return) string { return rt.Status.Badge() }},
		},
		fields: []field{
			selectField("status", "Status", returnStatusOptions()...),
		},
		toForm: func(rt models.Return) returnStatusForm {
			return returnStatusForm{Status: string(rt.Status)}
		},
		details: func(rt models.Return) []detailRow {
			return []detailRow{
				{Label: "Order", Value: "#" + strconv.Itoa(rt.OrderID)},
				{Label: "Client", Value: rt.ClientName},
				{Label: "Reason", Value: rt.Reason},
				{Label: "Amount", Value: money(rt.Amount)},
				{Label: "Status", Value: string(rt.Status)},
				{Label: "Requested", Value: rt.CreatedAt.Format("2006-01-02 15:04")},
			}
		},
	}).mount(router)

	(&screen[models.Notification, notificationForm]{
		h: h, hook: set.Notifications, path: "/notifications", title: "Notifications",
		id: func(n models.Notification) int { return n.ID },
		columns: []column[models.Notification]{
			{Header: "Title (EN)", Text: func(n models.Notification) string { return n.TitleEn }},
			{Header: "Audience", Text: func(n models.Notification) string { return n.Audience }},
			{Header: "Sent", Text: func(n models.Notification) string { return n.SentAt.Format("2006-01-02 15:04") }},
		},
		fields: []field{
			text("titleEn", "Title (EN)"),
			text("titleAr", "Title (AR)"),
			textarea("bodyEn", "Message (EN)"),
			textarea("bodyAr", "Message (AR)"),
			selectField("audience", "Audience", "all", "active", "inactive"),
		},
	}).mount(router)
}

func orderDetails(o models.Order) []detailRow {
	rows := []detailRow{
		{Label: "Client", Value: o.ClientName},
		{Label: "Mobile", Value: o.Mobile},
		{Label: "Address", Value: o.Address},
		{Label: "Total", Value: money(o.Total)},
		{Label: "Status", Value: string(o.Status)},
		{Label: "Placed", Value: o.CreatedAt.Format("2006-01-02 15:04")},
	}
	for i, item := range o.Items {
		var variant []string
		for _, v := range []string{item.Color, item.Size} {
			if v != "" {
				variant = append(variant, v)
			}
		}
		line := fmt.Sprintf("%s × %d @ %s", item.ProductName, item.Quantity, money(item.UnitPrice))
		if len(variant) > 0 {
			line += " (" + strings.Join(variant, ", ") + ")"
		}
		rows = append(rows, detailRow{Label: fmt.Sprintf("Item %d", i+1), Value: line})
	}
	return rows
}
