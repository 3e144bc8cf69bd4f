package query

import (
	"testing"
	"time"

	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/catalogue/backend/internal/domain/enquiry"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productView(categoryID uuid.UUID, categoryName string, status catalog.ProductStatus) catalog.ProductView {
	return catalog.ProductView{
		Product: catalog.Product{
			BaseEntity: shared.NewBaseEntity(),
			Status:     status,
			CategoryID: categoryID,
		},
		CategoryName: categoryName,
	}
}

func enquiryView(name, city string, createdAt time.Time) enquiry.View {
	e := enquiry.Enquiry{BaseEntity: shared.NewBaseEntity(), Status: enquiry.StatusYetToContact}
	e.CreatedAt = createdAt
	return enquiry.View{Enquiry: e, Requester: enquiry.Requester{Name: name, City: city}}
}

func day(s string) *time.Time {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestFilterProducts(t *testing.T) {
	tablets, syrups := uuid.New(), uuid.New()
	items := []catalog.ProductView{
		productView(tablets, "Tablets", catalog.ProductStatusAvailable),
		productView(tablets, "Tablets", catalog.ProductStatusOutOfStock),
		productView(syrups, "Syrups", catalog.ProductStatusAvailable),
	}

	tests := []struct {
		name   string
		filter ProductFilter
		want   []int
	}{
		{"empty filter matches all", ProductFilter{}, []int{0, 1, 2}},
		{"by category id", ProductFilter{Category: tablets.String()}, []int{0, 1}},
		{"by category name", ProductFilter{Category: "syrups"}, []int{2}},
		{"by status", ProductFilter{Status: catalog.ProductStatusAvailable}, []int{0, 2}},
		{"category and status", ProductFilter{Category: "Tablets", Status: catalog.ProductStatusOutOfStock}, []int{1}},
		{"unknown category", ProductFilter{Category: "capsules"}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterProducts(items, tt.filter)
			require.Len(t, got, len(tt.want))
			for i, idx := range tt.want {
				assert.Equal(t, items[idx].ID, got[i].ID)
			}
		})
	}
}

func TestFilterProducts_DoesNotMutateSource(t *testing.T) {
	items := []catalog.ProductView{
		productView(uuid.New(), "A", catalog.ProductStatusAvailable),
		productView(uuid.New(), "B", catalog.ProductStatusOutOfStock),
	}
	before := append([]catalog.ProductView(nil), items...)

	first := FilterProducts(items, ProductFilter{Status: catalog.ProductStatusOutOfStock})
	second := FilterProducts(items, ProductFilter{Status: catalog.ProductStatusOutOfStock})

	assert.Equal(t, before, items)
	assert.Equal(t, first, second)
}

func TestFilterEnquiries_CityAndDateRange(t *testing.T) {
	items := []enquiry.View{
		enquiryView("Asha", "Pune", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		enquiryView("Ravi", "Pune", time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)),
		enquiryView("Meera", "Pune", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		enquiryView("Kiran", "Mumbai", time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)),
		enquiryView("Dev", "pune", time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)),
		enquiryView("Old", "Pune", time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)),
	}

	got := FilterEnquiries(items, EnquiryFilter{City: "Pune", From: day("2024-01-01"), To: day("2024-01-31")})
	require.Len(t, got, 2)
	assert.Equal(t, "Asha", got[0].Requester.Name)
	assert.Equal(t, "Ravi", got[1].Requester.Name)
	for _, v := range got {
		assert.Equal(t, "Pune", v.Requester.City)
	}
}

func TestFilterEnquiries_HalfOpenRangeIsIgnored(t *testing.T) {
	items := []enquiry.View{
		enquiryView("A", "Pune", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
		enquiryView("B", "Pune", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	assert.Len(t, FilterEnquiries(items, EnquiryFilter{From: day("2024-01-01")}), 2)
	assert.Len(t, FilterEnquiries(items, EnquiryFilter{To: day("2024-01-01")}), 2)
	assert.Len(t, FilterEnquiries(items, EnquiryFilter{From: day("2024-01-01"), To: day("2025-12-31")}), 1)
}

func TestFilterEnquiries_NameAndStatus(t *testing.T) {
	a := enquiryView("Asha", "Pune", time.Now())
	b := enquiryView("Asha", "Delhi", time.Now())
	b.Status = enquiry.StatusDND
	items := []enquiry.View{a, b}

	assert.Len(t, FilterEnquiries(items, EnquiryFilter{Name: "Asha"}), 2)
	assert.Len(t, FilterEnquiries(items, EnquiryFilter{Name: "asha"}), 0)
	got := FilterEnquiries(items, EnquiryFilter{Name: "Asha", Status: enquiry.StatusDND})
	require.Len(t, got, 1)
	assert.Equal(t, "Delhi", got[0].Requester.City)
}

func TestParseDay(t *testing.T) {
	got, err := ParseDay("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseDay("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, 31, got.Day())

	_, err = ParseDay("31/01/2024")
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
}
