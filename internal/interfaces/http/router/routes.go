package router

import (
	"net/http"

	"github.com/catalogue/backend/internal/interfaces/http/handler"
)

// Handlers bundles the HTTP handlers of the catalogue API
type Handlers struct {
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Import   *handler.ImportHandler
	Cart     *handler.CartHandler
	Enquiry  *handler.EnquiryHandler
	User     *handler.UserHandler
	Content  *handler.ContentHandler
	Health   *handler.HealthHandler
}

// CatalogueRoutes returns the route groups of the catalogue API. Catalogue
// and content reads are public; everything else needs a caller.
func CatalogueRoutes(h Handlers) []Group {
	return []Group{
		{Name: "catalog", Prefix: "/catalog", Routes: []Route{
			{http.MethodGet, "/categories", Public, h.Category.List},
			{http.MethodGet, "/categories/:name/products", Public, h.Category.ListProducts},
			{http.MethodGet, "/products", Public, h.Product.List},
			{http.MethodGet, "/products/:id", Public, h.Product.GetByID},
			{http.MethodPost, "/categories", Admin, h.Category.Create},
			{http.MethodPost, "/products", Admin, h.Product.Create},
			{http.MethodPost, "/products/import", Admin, h.Import.ImportProducts},
			{http.MethodPatch, "/products/:id", Admin, h.Product.Update},
			{http.MethodPut, "/products/:id/status", Admin, h.Product.UpdateStatus},
			{http.MethodDelete, "/products/:id", Admin, h.Product.Delete},
			{http.MethodPost, "/products/:id/images", Admin, h.Product.AddImages},
			{http.MethodDelete, "/products/:id/images/:imageId", Admin, h.Product.RemoveImage},
		}},
		{Name: "cart", Prefix: "/cart", Access: Authenticated, Routes: []Route{
			{http.MethodGet, "", Authenticated, h.Cart.Get},
			{http.MethodPost, "/items", Authenticated, h.Cart.AddItem},
			{http.MethodDelete, "/items/:productId", Authenticated, h.Cart.RemoveItem},
		}},
		{Name: "enquiry", Prefix: "/enquiries", Routes: []Route{
			{http.MethodPost, "", Authenticated, h.Enquiry.Create},
			{http.MethodGet, "", Admin, h.Enquiry.List},
			{http.MethodPut, "/:id/status", Admin, h.Enquiry.UpdateStatus},
		}},
		{Name: "identity", Prefix: "/users", Access: Authenticated, Routes: []Route{
			{http.MethodGet, "", Admin, h.User.List},
			{http.MethodGet, "/:id", Authenticated, h.User.GetByID},
		}},
		{Name: "content", Prefix: "/content", Routes: []Route{
			{http.MethodGet, "/social-links", Public, h.Content.ListSocialLinks},
			{http.MethodPost, "/social-links", Admin, h.Content.CreateSocialLink},
			{http.MethodPut, "/social-links/:id", Admin, h.Content.UpdateSocialLink},
			{http.MethodDelete, "/social-links/:id", Admin, h.Content.DeleteSocialLink},
			{http.MethodGet, "/banners", Public, h.Content.ListBanners},
			{http.MethodPost, "/banners", Admin, h.Content.CreateBanner},
			{http.MethodDelete, "/banners/:id", Admin, h.Content.DeleteBanner},
			{http.MethodGet, "/terms", Public, h.Content.GetTerms},
			{http.MethodPut, "/terms", Admin, h.Content.SaveTerms},
		}},
		{Name: "system", Routes: []Route{
			{http.MethodGet, "/health", Public, h.Health.Check},
		}},
	}
}
