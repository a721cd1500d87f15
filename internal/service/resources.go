package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fatla/fatla-admin/internal/apiclient"
	"github.com/fatla/fatla-admin/internal/models"
)

// Cache roots, one per resource.
const (
	ResourceBrands        = "brands"
	ResourceCategories    = "categories"
	ResourceColors        = "colors"
	ResourceSizes         = "sizes"
	ResourceProducts      = "products"
	ResourceSliders       = "sliders"
	ResourceFAQs          = "faqs"
	ResourceClients       = "clients"
	ResourceOrders        = "orders"
	ResourceReturns       = "returns"
	ResourceNotifications = "notifications"
	ResourceContact       = "contact"
	ResourceAboutUs       = "about-us"
	ResourcePrivacy       = "privacy-policy"
	ResourceTerms         = "terms"
	ResourceDashboard     = "dashboard"
)

func get(action string) Endpoint {
	return Endpoint{Method: http.MethodGet, Action: action}
}

func post(action string) Endpoint {
	return Endpoint{Method: http.MethodPost, Action: action}
}

func put(action string) Endpoint {
	return Endpoint{Method: http.MethodPut, Action: action}
}

func del(action string) Endpoint {
	return Endpoint{Method: http.MethodDelete, Action: action}
}

func postForm(action string) Endpoint {
	return Endpoint{Method: http.MethodPost, Action: action, Form: true}
}

var (
	Brands = NewResource[models.Brand](Descriptor{
		Name: ResourceBrands, Segment: "Brand",
		List: get("GetAllBrands"), Detail: get("GetBrandById"),
		Create: postForm("AddBrand"), Update: postForm("EditBrand"), Delete: del("DeleteBrand"),
	})
	Categories = NewResource[models.Category](Descriptor{
		Name: ResourceCategories, Segment: "Category",
		List: get("GetAllCategories"), Detail: get("GetCategoryById"),
		Create: post("AddCategory"), Update: put("UpdateCategory"), Delete: del("DeleteCategory"),
	})
	Colors = NewResource[models.Color](Descriptor{
		Name: ResourceColors, Segment: "Color",
		List: get("GetAllColors"), Detail: get("GetColorById"),
		Create: post("AddColor"), Update: put("UpdateColor"), Delete: post("DeleteColor"),
	})
	Sizes = NewResource[models.Size](Descriptor{
		Name: ResourceSizes, Segment: "Size",
		List: get("GetAllSizes"), Detail: get("GetSizeById"),
		Create: post("AddSize"), Update: put("UpdateSize"), Delete: del("DeleteSize"),
	})
	Products = NewResource[models.Product](Descriptor{
		Name: ResourceProducts, Segment: "Product",
		List: get("GetAllProducts"), Detail: get("GetProductById"),
		Create: postForm("AddProduct"), Update: postForm("EditProduct"), Delete: del("DeleteProduct"),
	})
	Sliders = NewResource[models.Slider](Descriptor{
		Name: ResourceSliders, Segment: "Slider",
		List: get("GetAllSliders"), Detail: get("GetSliderById"),
		Create: postForm("AddSlider"), Update: postForm("EditSlider"), Delete: post("DeleteSlider"),
	})
	FAQs = NewResource[models.FAQ](Descriptor{
		Name: ResourceFAQs, Segment: "FAQ",
		List: get("GetAllFAQs"), Detail: get("GetFAQById"),
		Create: post("AddFAQ"), Update: put("UpdateFAQ"), Delete: del("DeleteFAQ"),
	})
	Clients = NewResource[models.Client](Descriptor{
		Name: ResourceClients, Segment: "Client",
		List: get("GetAllClients"), Detail: get("GetClientById"),
		Update: post("ToggleClientStatus"), Delete: del("DeleteClient"),
	})
	Orders = NewResource[models.Order](Descriptor{
		Name: ResourceOrders, Segment: "Order",
		List: get("GetAllOrders"), Detail: get("GetOrderById"),
		Update: put("UpdateOrderStatus"),
	})
	Returns = NewResource[models.Return](Descriptor{
		Name: ResourceReturns, Segment: "Return",
		List: get("GetAllReturns"), Detail: get("GetReturnById"),
		Update: put("UpdateReturnStatus"),
	})
	Notifications = NewResource[models.Notification](Descriptor{
		Name: ResourceNotifications, Segment: "Notification",
		List: get("GetAllNotifications"),
		Create: post("SendNotification"), Delete: del("DeleteNotification"),
	})

	Contact = NewSingleton[models.ContactInfo](Descriptor{
		Name: ResourceContact, Segment: "ContactUs",
		Detail: get("GetContactInfo"), Update: put("UpdateContactInfo"),
	})
	AboutUs = NewSingleton[models.StaticPage](Descriptor{
		Name: ResourceAboutUs, Segment: "AboutUs",
		Detail: get("GetAboutUs"), Update: put("UpdateAboutUs"),
	})
	PrivacyPolicy = NewSingleton[models.StaticPage](Descriptor{
		Name: ResourcePrivacy, Segment: "PrivacyPolicy",
		Detail: get("GetPrivacyPolicy"), Update: put("UpdatePrivacyPolicy"),
	})
	Terms = NewSingleton[models.StaticPage](Descriptor{
		Name: ResourceTerms, Segment: "TermsConditions",
		Detail: get("GetTermsConditions"), Update: put("UpdateTermsConditions"),
	})
)

// Dashboard serves the statistics shown on the landing screen.
var Dashboard = &DashboardService{segment: "Dashboard", action: "GetStatistics"}

type DashboardService struct {
	segment string
	action  string
}

func (s *DashboardService) Stats(ctx context.Context, api apiclient.Caller, lang string) (models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := api.Call(ctx, http.MethodGet, apiclient.Path(lang, s.segment, s.action), nil, &stats); err != nil {
		return stats, fmt.Errorf("failed to get dashboard statistics: %w", err)
	}
	return stats, nil
}
