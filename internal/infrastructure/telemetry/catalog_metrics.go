package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// CatalogMetrics holds business counters for the catalogue.
// A nil *CatalogMetrics is safe to use and records nothing.
type CatalogMetrics struct {
	enquiriesCreated metric.Int64Counter
	enquiryProducts  metric.Int64Histogram
	cartItemsAdded   metric.Int64Counter
	importRows       metric.Int64Counter
	cleanupFailures  metric.Int64Counter
	logger           *zap.Logger
}

// NewCatalogMetrics creates the catalogue counters on meter.
func NewCatalogMetrics(meter metric.Meter, logger *zap.Logger) (*CatalogMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &CatalogMetrics{logger: logger}
	var err error
	if m.enquiriesCreated, err = meter.Int64Counter("enquiry_created_total",
		metric.WithDescription("Total number of submitted enquiries"),
		metric.WithUnit("{enquiry}")); err != nil {
		return nil, err
	}
	if m.enquiryProducts, err = meter.Int64Histogram("enquiry_products",
		metric.WithDescription("Number of products per enquiry"),
		metric.WithUnit("{product}"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 20, 50)); err != nil {
		return nil, err
	}
	if m.cartItemsAdded, err = meter.Int64Counter("cart_item_added_total",
		metric.WithDescription("Total number of products added to carts"),
		metric.WithUnit("{item}")); err != nil {
		return nil, err
	}
	if m.importRows, err = meter.Int64Counter("product_import_rows_total",
		metric.WithDescription("Rows processed by bulk product import"),
		metric.WithUnit("{row}")); err != nil {
		return nil, err
	}
	if m.cleanupFailures, err = meter.Int64Counter("asset_cleanup_failure_total",
		metric.WithDescription("Asset deletions that failed after their owner was removed"),
		metric.WithUnit("{asset}")); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordEnquiryCreated counts one enquiry with productCount products.
func (m *CatalogMetrics) RecordEnquiryCreated(ctx context.Context, productCount int) {
	if m == nil {
		return
	}
	m.enquiriesCreated.Add(ctx, 1)
	m.enquiryProducts.Record(ctx, int64(productCount))
}

// RecordCartItemAdded counts one cart addition.
func (m *CatalogMetrics) RecordCartItemAdded(ctx context.Context) {
	if m == nil {
		return
	}
	m.cartItemsAdded.Add(ctx, 1)
}

// RecordImportRows counts imported and skipped rows of one import run.
func (m *CatalogMetrics) RecordImportRows(ctx context.Context, imported, skipped int) {
	if m == nil {
		return
	}
	if imported > 0 {
		m.importRows.Add(ctx, int64(imported), metric.WithAttributes(AttrOutcome.String("imported")))
	}
	if skipped > 0 {
		m.importRows.Add(ctx, int64(skipped), metric.WithAttributes(AttrOutcome.String("skipped")))
	}
}

// RecordAssetCleanupFailure counts one failed asset deletion.
func (m *CatalogMetrics) RecordAssetCleanupFailure(ctx context.Context, aggregateType string) {
	if m == nil {
		return
	}
	m.cleanupFailures.Add(ctx, 1, metric.WithAttributes(AttrAggregateType.String(aggregateType)))
	m.logger.Debug("asset cleanup failure recorded", zap.String("aggregate_type", aggregateType))
}
