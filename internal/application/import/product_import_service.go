// Package importapp implements bulk product import from uploaded sheets
package importapp

import (
	"context"
	"errors"
	"fmt"
	"io"

	appcatalog "github.com/catalogue/backend/internal/application/catalog"
	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/catalogue/backend/internal/domain/shared"
	tabular "github.com/catalogue/backend/internal/infrastructure/import"
	"github.com/catalogue/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DefaultMaxRows bounds an upload when no limit is configured
const DefaultMaxRows = 5000

const maxReportedErrors = 500

// Column names of the product sheet
const (
	ColumnName        = "name"
	ColumnDescription = "description"
	ColumnComposition = "composition"
	ColumnCategory    = "category"
	ColumnSKU         = "sku"
	ColumnTags        = "tags"
)

// Metrics records import outcomes
type Metrics interface {
	RecordImportRows(ctx context.Context, imported, skipped int)
}

// ProductImportResult represents the result of a product import operation
type ProductImportResult struct {
	TotalRows         int                          `json:"totalRows"`
	SuccessfulUploads int                          `json:"successfulUploads"`
	SkippedRows       int                          `json:"skippedRows"`
	Products          []appcatalog.ProductResponse `json:"products"`
	Errors            []tabular.RowError           `json:"errors"`
	IsTruncated       bool                         `json:"isTruncated,omitempty"`
	TotalErrors       int                          `json:"totalErrors,omitempty"`
}

// ProductImportService handles product bulk import operations
type ProductImportService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	maxRows      int
	metrics      Metrics
}

// NewProductImportService creates a new ProductImportService. A maxRows of
// zero uses DefaultMaxRows; metrics may be nil.
func NewProductImportService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	maxRows int,
	metrics Metrics,
) *ProductImportService {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &ProductImportService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		maxRows:      maxRows,
		metrics:      metrics,
	}
}

// productColumns returns a checker for the columns of the product sheet
func productColumns() *tabular.RowChecker {
	return tabular.NewRowChecker(
		tabular.Column{Name: ColumnName, Required: true, MaxLen: 200},
		tabular.Column{Name: ColumnCategory, Required: true, MaxLen: 100},
		tabular.Column{Name: ColumnSKU, MaxLen: 64, Distinct: true},
	)
}

// Import creates one product per row of the uploaded sheet. Row failures
// are collected and never abort the batch; only an unreadable file or a
// missing required column fails the whole request.
func (s *ProductImportService) Import(ctx context.Context, caller shared.Identity, filename string, r io.Reader) (*ProductImportResult, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	sheet, err := tabular.Parse(filename, r, s.maxRows)
	if err != nil {
		return nil, translateParseError(err, s.maxRows)
	}
	checker := productColumns()
	if missing := sheet.MissingHeaders(checker.RequiredColumns()); len(missing) > 0 {
		return nil, shared.InvalidArgumentf("Missing required columns: %v", missing).WithDetail("missing_columns", missing)
	}

	categories, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}
	taken, err := s.takenSKUs(ctx, sheet.Rows)
	if err != nil {
		return nil, err
	}

	errs := tabular.NewErrorLog(maxReportedErrors)
	result := &ProductImportResult{
		TotalRows: len(sheet.Rows),
		Products:  make([]appcatalog.ProductResponse, 0, len(sheet.Rows)),
	}

	for _, row := range sheet.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if failed := checker.Check(row); failed != nil {
			errs.Add(failed...)
			result.SkippedRows++
			continue
		}

		view, rowErr := s.importRow(ctx, row, categories, taken)
		if rowErr != nil {
			errs.Add(*rowErr)
			result.SkippedRows++
			continue
		}
		result.SuccessfulUploads++
		result.Products = append(result.Products, appcatalog.ToProductResponse(*view))
	}

	result.Errors = errs.Errors()
	result.IsTruncated = errs.Truncated()
	result.TotalErrors = errs.Total()

	if s.metrics != nil {
		s.metrics.RecordImportRows(ctx, result.SuccessfulUploads, result.SkippedRows)
	}
	logger.FromContext(ctx).Info("product import finished",
		zap.String("file", filename),
		zap.Int("total_rows", result.TotalRows),
		zap.Int("imported", result.SuccessfulUploads),
		zap.Int("skipped", result.SkippedRows),
	)
	return result, nil
}

func (s *ProductImportService) importRow(
	ctx context.Context,
	row *tabular.Row,
	categories map[string]catalog.Category,
	taken map[string]struct{},
) (*catalog.ProductView, *tabular.RowError) {
	categoryName := row.Get(ColumnCategory)
	category, ok := categories[catalog.CategoryNameKey(categoryName)]
	if !ok {
		return nil, &tabular.RowError{
			Row: row.LineNumber, Field: ColumnCategory, Code: shared.CodeNotFound, Value: categoryName,
			Message: fmt.Sprintf("category '%s' not found", categoryName),
		}
	}

	sku := row.Get(ColumnSKU)
	if _, dup := taken[sku]; sku != "" && dup {
		return nil, &tabular.RowError{
			Row: row.LineNumber, Field: ColumnSKU, Code: shared.CodeConflict, Value: sku,
			Message: fmt.Sprintf("sku '%s' already exists", sku),
		}
	}

	product, err := catalog.NewProduct(catalog.NewProductInput{
		Name:        row.Get(ColumnName),
		Description: row.Get(ColumnDescription),
		Composition: row.Get(ColumnComposition),
		SKU:         sku,
		Tags:        tabular.SplitList(row.Get(ColumnTags)),
		CategoryID:  category.ID,
	})
	if err != nil {
		e := tabular.RowErrorFrom(row.LineNumber, "", err)
		return nil, &e
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		field := ""
		if shared.CodeOf(err) == shared.CodeConflict {
			field = ColumnSKU
		} else {
			logger.FromContext(ctx).Warn("failed to import product row",
				zap.Int("row", row.LineNumber),
				zap.Error(err),
			)
		}
		e := tabular.RowErrorFrom(row.LineNumber, field, err)
		return nil, &e
	}
	if sku != "" {
		taken[sku] = struct{}{}
	}
	return &catalog.ProductView{Product: *product, CategoryName: category.Name}, nil
}

// categoryIndex loads every category keyed by its folded name
func (s *ProductImportService) categoryIndex(ctx context.Context) (map[string]catalog.Category, error) {
	all, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]catalog.Category, len(all))
	for _, c := range all {
		index[c.NameKey()] = c
	}
	return index, nil
}

// takenSKUs returns the SKUs of the sheet that already exist in the store
func (s *ProductImportService) takenSKUs(ctx context.Context, rows []*tabular.Row) (map[string]struct{}, error) {
	skus := make([]string, 0, len(rows))
	for _, row := range rows {
		if sku := row.Get(ColumnSKU); sku != "" {
			skus = append(skus, sku)
		}
	}
	taken := make(map[string]struct{})
	if len(skus) == 0 {
		return taken, nil
	}
	existing, err := s.productRepo.ExistingSKUs(ctx, skus)
	if err != nil {
		return nil, err
	}
	for _, sku := range existing {
		taken[sku] = struct{}{}
	}
	return taken, nil
}

func translateParseError(err error, maxRows int) error {
	switch {
	case errors.Is(err, tabular.ErrTooManyRows):
		return shared.NewDomainError(shared.CodeLimitExceeded,
			fmt.Sprintf("An import can contain at most %d rows", maxRows))
	case errors.Is(err, tabular.ErrUnsupportedFormat),
		errors.Is(err, tabular.ErrEmptyFile),
		errors.Is(err, tabular.ErrMissingHeader),
		errors.Is(err, tabular.ErrInvalidEncoding),
		errors.Is(err, tabular.ErrInvalidWorkbook):
		return shared.WrapDomainError(shared.CodeInvalidArgument, "Invalid upload: "+err.Error(), err)
	}
	return shared.WrapDomainError(shared.CodeInvalidArgument, "The uploaded file could not be parsed", err)
}
