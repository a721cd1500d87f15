package hooks

import (
	"github.com/fatla/fatla-admin/internal/models"
	"github.com/fatla/fatla-admin/internal/service"
)

// Set is every binding the screens use.
type Set struct {
	Brands        *Resource[models.Brand]
	Categories    *Resource[models.Category]
	Colors        *Resource[models.Color]
	Sizes         *Resource[models.Size]
	Products      *Resource[models.Product]
	Sliders       *Resource[models.Slider]
	FAQs          *Resource[models.FAQ]
	Clients       *Resource[models.Client]
	Orders        *Resource[models.Order]
	Returns       *Resource[models.Return]
	Notifications *Resource[models.Notification]

	Contact       *Singleton[models.ContactInfo]
	AboutUs       *Singleton[models.StaticPage]
	PrivacyPolicy *Singleton[models.StaticPage]
	Terms         *Singleton[models.StaticPage]

	Dashboard *Dashboard
}

// NewSet binds the package-level services. Writes that move the dashboard
// counters also expire the dashboard.
func NewSet(b *Binder) *Set {
	dash := service.ResourceDashboard
	return &Set{
		Brands:        NewResource(b, service.Brands, "brand"),
		Categories:    NewResource(b, service.Categories, "category"),
		Colors:        NewResource(b, service.Colors, "color"),
		Sizes:         NewResource(b, service.Sizes, "size"),
		Products:      NewResource(b, service.Products, "product", dash),
		Sliders:       NewResource(b, service.Sliders, "slider"),
		FAQs:          NewResource(b, service.FAQs, "FAQ"),
		Clients:       NewResource(b, service.Clients, "client", dash),
		Orders:        NewResource(b, service.Orders, "order", dash),
		Returns:       NewResource(b, service.Returns, "return", dash),
		Notifications: NewResource(b, service.Notifications, "notification"),

		Contact:       NewSingleton(b, service.Contact, "contact info"),
		AboutUs:       NewSingleton(b, service.AboutUs, "about us"),
		PrivacyPolicy: NewSingleton(b, service.PrivacyPolicy, "privacy policy"),
		Terms:         NewSingleton(b, service.Terms, "terms and conditions"),

		Dashboard: NewDashboard(b, service.Dashboard),
	}
}
