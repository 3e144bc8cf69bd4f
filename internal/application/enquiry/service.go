// Package enquiry implements enquiry submission and the admin follow-up of
// submitted enquiries.
package enquiry

import (
	"context"
	"fmt"

	"github.com/catalogue/backend/internal/application/query"
	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/catalogue/backend/internal/domain/enquiry"
	"github.com/catalogue/backend/internal/domain/identity"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/logger"
	"github.com/catalogue/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Metrics records enquiry outcomes
type Metrics interface {
	RecordEnquiryCreated(ctx context.Context, productCount int)
}

// ServiceOption configures optional collaborators of Service
type ServiceOption func(*Service)

// WithIdempotency enables Idempotency-Key handling on Create
func WithIdempotency(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) ServiceOption {
	return func(s *Service) {
		s.idempotency = store
		s.idempotencyCfg = cfg
	}
}

// WithMetrics attaches a metrics recorder
func WithMetrics(m Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service handles enquiry submission, listing and status changes
type Service struct {
	scope          TransactionScope
	enquiryRepo    enquiry.Repository
	productRepo    catalog.ProductRepository
	users          identity.UserDirectory
	idempotency    shared.IdempotencyStore
	idempotencyCfg shared.IdempotencyConfig
	metrics        Metrics
}

// NewService creates a new enquiry Service
func NewService(
	scope TransactionScope,
	enquiryRepo enquiry.Repository,
	productRepo catalog.ProductRepository,
	users identity.UserDirectory,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		scope:       scope,
		enquiryRepo: enquiryRepo,
		productRepo: productRepo,
		users:       users,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create submits an enquiry for the caller and clears the caller's cart in
// the same transaction. Every product must exist or nothing is written.
//
// When the enquiry is stored but the cart cannot be cleared, both the
// enquiry and an INCONSISTENCY error are returned.
func (s *Service) Create(ctx context.Context, caller shared.Identity, req CreateEnquiryRequest, idempotencyKey string) (*EnquiryResponse, error) {
	if err := caller.RequireUser(); err != nil {
		return nil, err
	}

	price := decimal.Zero
	if req.Price != nil {
		price = *req.Price
	}
	draft, err := enquiry.NewEnquiry(caller.UserID, req.ProductIDs, price)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, caller.UserID); err != nil {
		return nil, err
	}
	if err := s.resolveAll(ctx, draft.ProductIDs); err != nil {
		return nil, err
	}

	key := s.idempotencyKey(caller.UserID, idempotencyKey)
	if key != "" {
		replay, err := s.reserve(ctx, key)
		if err != nil || replay != nil {
			return replay, err
		}
	}

	response, err := s.submit(ctx, draft)
	if key != "" {
		s.settle(ctx, key, response)
	}
	return response, err
}

func (s *Service) submit(ctx context.Context, draft *enquiry.Enquiry) (_ *EnquiryResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "enquiry", "submit",
		attribute.String("enquiry.id", draft.ID.String()),
		attribute.Int("enquiry.products", len(draft.ProductIDs)),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	log := logger.FromContext(ctx)

	var clearErr error
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.EnquiryRepo().Create(ctx, draft); err != nil {
			return err
		}
		clearErr = repos.Isolated(func(inner TransactionalRepositories) error {
			return inner.CartRepo().Clear(ctx, draft.UserID)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordEnquiryCreated(ctx, len(draft.ProductIDs))
	}
	response := ToEnquiryResponse(draft)

	if clearErr != nil {
		log.Error("enquiry created but cart clear failed",
			zap.String("enquiry_id", draft.ID.String()),
			zap.String("user_id", draft.UserID.String()),
			zap.Error(clearErr),
		)
		return &response, shared.WrapDomainError(shared.CodeInconsistency,
			"Enquiry created but the cart could not be cleared", clearErr).
			WithDetail("enquiry_id", draft.ID.String())
	}

	log.Info("enquiry created",
		zap.String("enquiry_id", draft.ID.String()),
		zap.String("user_id", draft.UserID.String()),
		zap.Int("products", len(draft.ProductIDs)),
	)
	return &response, nil
}

// resolveAll fails with NOT_FOUND unless every id resolves to a product
func (s *Service) resolveAll(ctx context.Context, ids []uuid.UUID) error {
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(products) == len(ids) {
		return nil
	}
	found := make(map[uuid.UUID]struct{}, len(products))
	for _, p := range products {
		found[p.ID] = struct{}{}
	}
	missing := make([]string, 0, len(ids)-len(products))
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	return shared.NotFoundf("%d of %d products not found", len(missing), len(ids)).
		WithDetail("missing_product_ids", missing)
}

func (s *Service) idempotencyKey(userID uuid.UUID, key string) string {
	if key == "" || s.idempotency == nil || !s.idempotencyCfg.Enabled {
		return ""
	}
	return fmt.Sprintf("enquiry:%s:%s", userID, key)
}

// reserve claims key. It returns the original enquiry when key already
// completed, or CONFLICT while another request holds it.
func (s *Service) reserve(ctx context.Context, key string) (*EnquiryResponse, error) {
	ok, err := s.idempotency.Reserve(ctx, key, s.idempotencyCfg.TTL)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeDependencyFailure, "Idempotency store unavailable", err)
	}
	if ok {
		return nil, nil
	}

	result, done, err := s.idempotency.Result(ctx, key)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeDependencyFailure, "Idempotency store unavailable", err)
	}
	if !done {
		return nil, shared.Conflictf("A request with this idempotency key is still in progress")
	}
	id, err := uuid.Parse(result)
	if err != nil {
		return nil, fmt.Errorf("corrupt idempotency result for %s: %w", key, err)
	}
	existing, err := s.enquiryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToEnquiryResponse(existing)
	response.Replayed = true
	return &response, nil
}

// settle records the enquiry id under key, or frees key when nothing was
// stored
func (s *Service) settle(ctx context.Context, key string, response *EnquiryResponse) {
	var err error
	if response == nil {
		err = s.idempotency.Release(ctx, key)
	} else {
		err = s.idempotency.Complete(ctx, key, response.ID.String(), s.idempotencyCfg.TTL)
	}
	if err != nil {
		logger.FromContext(ctx).Warn("failed to settle idempotency key",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// List returns enquiries joined with requester detail and product names,
// narrowed by the admin filter and then paginated
func (s *Service) List(ctx context.Context, caller shared.Identity, filter ListFilter) (shared.Paginated[EnquiryViewResponse], error) {
	if err := caller.RequireAdmin(); err != nil {
		return shared.Paginated[EnquiryViewResponse]{}, err
	}
	criteria, err := parseFilter(filter)
	if err != nil {
		return shared.Paginated[EnquiryViewResponse]{}, err
	}

	views, err := s.views(ctx)
	if err != nil {
		return shared.Paginated[EnquiryViewResponse]{}, err
	}
	matched := query.FilterEnquiries(views, criteria)

	out := make([]EnquiryViewResponse, len(matched))
	for i := range matched {
		out[i] = ToEnquiryViewResponse(matched[i])
	}
	return shared.Paginate(out, shared.Page{Page: filter.Page, PageSize: filter.PageSize}), nil
}

// UpdateStatus sets the follow-up status. Any known status may replace any
// other.
func (s *Service) UpdateStatus(ctx context.Context, caller shared.Identity, id uuid.UUID, status string) (*EnquiryResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	parsed, err := enquiry.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	e, err := s.enquiryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := e.Status
	if err := e.SetStatus(parsed); err != nil {
		return nil, err
	}
	if err := s.enquiryRepo.UpdateStatus(ctx, id, parsed); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("enquiry status updated",
		zap.String("enquiry_id", id.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(parsed)),
	)
	response := ToEnquiryResponse(e)
	return &response, nil
}

// views composes enquiries with their requesters and product names using
// one lookup per referenced collection
func (s *Service) views(ctx context.Context) ([]enquiry.View, error) {
	enquiries, err := s.enquiryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(enquiries))
	productIDs := make([]uuid.UUID, 0, len(enquiries))
	seenUsers := make(map[uuid.UUID]struct{})
	seenProducts := make(map[uuid.UUID]struct{})
	for _, e := range enquiries {
		if _, ok := seenUsers[e.UserID]; !ok {
			seenUsers[e.UserID] = struct{}{}
			userIDs = append(userIDs, e.UserID)
		}
		for _, pid := range e.ProductIDs {
			if _, ok := seenProducts[pid]; !ok {
				seenProducts[pid] = struct{}{}
				productIDs = append(productIDs, pid)
			}
		}
	}

	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	byUser := identity.IndexByID(users)
	names := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	views := make([]enquiry.View, len(enquiries))
	for i, e := range enquiries {
		u := byUser[e.UserID]
		productNames := make([]string, 0, len(e.ProductIDs))
		for _, pid := range e.ProductIDs {
			if name, ok := names[pid]; ok {
				productNames = append(productNames, name)
			}
		}
		views[i] = enquiry.View{
			Enquiry: e,
			Requester: enquiry.Requester{
				UserID:     e.UserID,
				Name:       u.Name,
				Mobile:     u.Mobile,
				City:       u.City,
				Clinic:     u.Clinic,
				Speciality: u.Speciality,
			},
			ProductNames: productNames,
		}
	}
	return views, nil
}

func parseFilter(f ListFilter) (query.EnquiryFilter, error) {
	from, err := query.ParseDay(f.From)
	if err != nil {
		return query.EnquiryFilter{}, err
	}
	to, err := query.ParseDay(f.To)
	if err != nil {
		return query.EnquiryFilter{}, err
	}
	criteria := query.EnquiryFilter{From: from, To: to, City: f.City, Name: f.Name}
	if f.Status != "" {
		status, err := enquiry.ParseStatus(f.Status)
		if err != nil {
			return query.EnquiryFilter{}, err
		}
		criteria.Status = status
	}
	return criteria, nil
}
