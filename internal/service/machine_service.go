package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"brewbox/internal/catalog"
	"brewbox/internal/maintenance"
	"brewbox/internal/metrics"
	"brewbox/internal/model"
	"brewbox/internal/payment"
	"brewbox/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultMaxSugarPackets caps the packets handed out with one order.
const DefaultMaxSugarPackets = 10

// reasonCancelled labels orders the customer walked away from.
const reasonCancelled = "CANCELLED"

// Options tunes the engine.
type Options struct {
	MaxSugarPackets int64
	Now             func() time.Time
}

// machineService implements MachineService.
type machineService struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	ledger   Ledger
	monitor  *maintenance.Monitor
	journal  repository.SaleRepository
	metrics  *metrics.Recorder
	maxSugar int64
	now      func() time.Time
	logger   zerolog.Logger

	order   *model.Order
	recipe  model.Recipe
	payment *payment.Session
}

// NewMachineService creates the order engine. recorder may be nil.
func NewMachineService(
	cat *catalog.Catalog,
	ledger Ledger,
	journal repository.SaleRepository,
	recorder *metrics.Recorder,
	opts Options,
	logger zerolog.Logger,
) MachineService {
	if opts.MaxSugarPackets <= 0 {
		opts.MaxSugarPackets = DefaultMaxSugarPackets
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &machineService{
		catalog:  cat,
		ledger:   ledger,
		monitor:  maintenance.NewMonitor(cat, ledger),
		journal:  journal,
		metrics:  recorder,
		maxSugar: opts.MaxSugarPackets,
		now:      opts.Now,
		logger:   logger.With().Str("service", "machine").Logger(),
	}
	s.publishStock()

	return s
}

// SelectProduct opens an order for the named product.
func (s *machineService) SelectProduct(ctx context.Context, product string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.selectProduct(product); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

// SelectSize picks a size and checks that stock covers it.
func (s *machineService) SelectSize(ctx context.Context, size string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.selectSize(size); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

// ChooseAddOn sets the sticker option and opens payment.
func (s *machineService) ChooseAddOn(ctx context.Context, sticker bool) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.chooseAddOn(sticker); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

// SubmitTender adds one batch of coins. Once the total is covered the drink
// is dispensed and the order waits for the sugar request.
func (s *machineService) SubmitTender(ctx context.Context, batch model.CoinTender) (model.PaymentStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(model.StatePaymentPending, "submit tender"); err != nil {
		return model.PaymentStatus{}, err
	}

	if err := s.gate(); err != nil {
		status := s.payment.Status()
		return status, s.abort(err)
	}

	status, err := s.payment.Submit(batch)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", s.order.ID.String()).
			Msg("tender rejected")
		return status, err
	}
	s.order.Paid = status.Paid

	s.logger.Debug().
		Str("order_id", s.order.ID.String()).
		Str("paid", status.Paid.String()).
		Str("remaining", status.Remaining.String()).
		Msg("tender accepted")

	if !status.Complete {
		return status, nil
	}

	if err := s.dispense(); err != nil {
		return status, err
	}
	return status, nil
}

// SubmitAddOnRequest dispenses sugar packets and closes the order.
func (s *machineService) SubmitAddOnRequest(ctx context.Context, count int64) (*model.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.finish(ctx, count)
}

// Cancel aborts the order in flight and returns everything tendered.
func (s *machineService) Cancel(ctx context.Context) (model.Cents, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.order == nil {
		return 0, model.NewDomainError(model.ErrCodeInvalidState, "no order in progress")
	}
	if s.order.State == model.StateFulfilled {
		return 0, model.NewDomainError(model.ErrCodeInvalidState, "order has already been dispensed")
	}

	refund := s.order.Paid
	s.reject(reasonCancelled)
	return refund, nil
}

// CurrentOrder returns a copy of the order in flight.
func (s *machineService) CurrentOrder() (*model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.order == nil {
		return nil, false
	}
	return s.snapshot(), true
}

// PlaceOrder drives a whole order from req. Tenders are consumed in order
// until the total is covered; if they run out first the order is aborted
// and everything tendered is refunded. Batches left over once the total is
// covered count towards paid and come back as change.
func (s *machineService) PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.Receipt, error) {
	if req == nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidInput, "order request is nil")
	}
	if req.SugarPackets < 0 {
		return nil, model.NewDomainError(model.ErrCodeInvalidInput, "sugar packets must not be negative")
	}
	tendered, err := payment.Sum(req.Tenders...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.selectProduct(req.Product); err != nil {
		return nil, err
	}
	if err := s.selectSize(req.Size); err != nil {
		s.discard(err)
		return nil, err
	}
	if err := s.chooseAddOn(req.Sticker); err != nil {
		s.discard(err)
		return nil, err
	}

	// One-shot orders pay as a whole, so the session is replaced by a
	// reconcile pass over the recorded tenders.
	s.payment = nil
	src := payment.NewSliceSource(req.Tenders...)
	paid, change, err := payment.Reconcile(ctx, s.order.Total, src)
	if err == nil && src.Remaining() > 0 {
		paid, change = tendered, tendered-s.order.Total
	}
	s.order.Paid = paid
	if err != nil {
		if errors.Is(err, payment.ErrTenderExhausted) {
			err = model.NewDomainError(model.ErrCodeInsufficientFunds,
				fmt.Sprintf("tendered %s of %s", paid, s.order.Total))
		}
		return nil, s.abort(err)
	}

	s.logger.Debug().
		Str("order_id", s.order.ID.String()).
		Str("paid", paid.String()).
		Str("change", change.String()).
		Msg("payment reconciled")

	if err := s.gate(); err != nil {
		return nil, s.abort(err)
	}
	if err := s.dispense(); err != nil {
		return nil, err
	}

	return s.finish(ctx, req.SugarPackets)
}

// ListProducts returns the menu.
func (s *machineService) ListProducts(ctx context.Context) []model.MenuEntry {
	return s.catalog.Entries()
}

// CheckAvailability reports whether a product size can be made now.
func (s *machineService) CheckAvailability(ctx context.Context, product, size string) (*model.Availability, error) {
	recipe, err := s.catalog.Recipe(product, size)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shortages := s.ledger.Shortages(withAddOn(recipe.Requirements))
	return &model.Availability{
		Product:   recipe.Product,
		Size:      recipe.Size,
		Available: len(shortages) == 0,
		Shortages: shortages,
	}, nil
}

// Refill adds amount of kind to the ledger.
func (s *machineService) Refill(ctx context.Context, kind model.ResourceKind, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quantity, err := s.ledger.Replenish(kind, amount)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("resource", string(kind)).
			Int64("amount", amount).
			Msg("refill rejected")
		return 0, err
	}

	s.logger.Info().
		Str("resource", string(kind)).
		Int64("amount", amount).
		Int64("quantity", quantity).
		Msg("resource refilled")

	s.publishStock()
	return quantity, nil
}

// MaintenanceStatus reports the machine's stock health.
func (s *machineService) MaintenanceStatus(ctx context.Context) model.MaintenanceStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.monitor.Status()
}

// InventoryReport returns the quantity of every resource.
func (s *machineService) InventoryReport(ctx context.Context) model.InventoryReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Report()
}

// GetReceipt retrieves a journaled receipt.
func (s *machineService) GetReceipt(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	receipt, err := s.journal.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get receipt")
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	if receipt == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("receipt not found")
		return nil, model.ErrNotFound
	}

	return receipt, nil
}

// ListReceipts returns journaled receipts, newest first.
func (s *machineService) ListReceipts(ctx context.Context, limit, offset int) ([]model.Receipt, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	receipts, err := s.journal.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list receipts")
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}

	return receipts, nil
}

func (s *machineService) StickerPrice() model.Cents {
	return s.catalog.StickerPrice()
}

func (s *machineService) MaxSugarPackets() int64 {
	return s.maxSugar
}

func (s *machineService) selectProduct(product string) error {
	if s.order != nil {
		return model.NewDomainError(model.ErrCodeInvalidState,
			fmt.Sprintf("order %s is already in progress", s.order.ID))
	}

	if err := s.gate(); err != nil {
		s.metrics.OrderRejected(model.ErrCodeMaintenanceMode, 0)
		return err
	}

	name, err := s.catalog.FindProduct(product)
	if err != nil {
		s.logger.Debug().Str("product", product).Msg("unknown product selected")
		return err
	}

	s.order = &model.Order{
		ID:        uuid.New(),
		Product:   name,
		State:     model.StateProductSelected,
		StartedAt: s.now(),
	}

	s.logger.Debug().
		Str("order_id", s.order.ID.String()).
		Str("product", name).
		Msg("product selected")

	return nil
}

func (s *machineService) selectSize(size string) error {
	if err := s.expect(model.StateProductSelected, "select size"); err != nil {
		return err
	}

	recipe, err := s.catalog.Recipe(s.order.Product, size)
	if err != nil {
		return err
	}

	if shortages := s.ledger.Shortages(withAddOn(recipe.Requirements)); len(shortages) > 0 {
		s.logger.Info().
			Str("order_id", s.order.ID.String()).
			Str("product", recipe.Product).
			Str("size", recipe.Size).
			Int("shortages", len(shortages)).
			Msg("insufficient stock for order")
		s.reject(model.ErrCodeInsufficientStock)
		return &model.StockError{Shortages: shortages}
	}

	s.recipe = recipe
	s.order.Size = recipe.Size
	s.order.Price = recipe.Price
	s.order.Total = recipe.Price
	s.order.State = model.StateResourceChecked

	return nil
}

func (s *machineService) chooseAddOn(sticker bool) error {
	if err := s.expect(model.StateResourceChecked, "choose add-on"); err != nil {
		return err
	}

	s.order.Sticker = sticker
	if sticker {
		s.order.Surcharge = s.catalog.StickerPrice()
	}
	s.order.Total = s.order.Price + s.order.Surcharge
	s.order.State = model.StateAddOnSelected

	s.payment = payment.NewSession(s.order.Total)
	s.order.State = model.StatePaymentPending

	s.logger.Debug().
		Str("order_id", s.order.ID.String()).
		Bool("sticker", sticker).
		Str("total", s.order.Total.String()).
		Msg("awaiting payment")

	return nil
}

// dispense takes the recipe out of stock. Stock was checked at size
// selection, so a failure here means it changed underneath the order.
func (s *machineService) dispense() error {
	if err := s.ledger.Deduct(s.recipe.Requirements); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", s.order.ID.String()).
			Msg("stock changed before dispensing")
		return s.abort(fmt.Errorf("%w: %w", model.ErrFulfillmentRace, err))
	}

	s.order.Change = s.order.Paid - s.order.Total
	s.order.Consumed = s.recipe.Requirements.Clone()
	s.order.State = model.StateFulfilled

	s.logger.Info().
		Str("order_id", s.order.ID.String()).
		Str("product", s.order.Product).
		Str("size", s.order.Size).
		Str("change", s.order.Change.String()).
		Msg("drink dispensed")

	s.publishStock()
	return nil
}

func (s *machineService) finish(ctx context.Context, count int64) (*model.Receipt, error) {
	if err := s.expect(model.StateFulfilled, "request sugar"); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, model.NewDomainError(model.ErrCodeInvalidInput, "sugar packets must not be negative")
	}

	accepted := min(count, s.maxSugar, s.ledger.Available(model.SugarPacket))
	if accepted > 0 {
		if err := s.ledger.Deduct(model.Requirements{model.SugarPacket: accepted}); err != nil {
			s.logger.Warn().
				Err(err).
				Str("order_id", s.order.ID.String()).
				Msg("sugar could not be dispensed")
			accepted = 0
		}
	}

	consumed := s.order.Consumed.Clone()
	if accepted > 0 {
		consumed[model.SugarPacket] += accepted
	}

	receipt := &model.Receipt{
		ID:           s.order.ID,
		Product:      s.order.Product,
		Size:         s.order.Size,
		Sticker:      s.order.Sticker,
		Price:        s.order.Price,
		Surcharge:    s.order.Surcharge,
		Total:        s.order.Total,
		Paid:         s.order.Paid,
		Change:       s.order.Change,
		SugarPackets: accepted,
		Consumed:     consumed,
		CreatedAt:    s.now(),
	}

	if err := s.journal.RecordSale(ctx, receipt); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", receipt.ID.String()).
			Msg("failed to journal sale")
	}

	s.metrics.OrderFulfilled(receipt)
	s.publishStock()
	s.clear()

	s.logger.Info().
		Str("order_id", receipt.ID.String()).
		Int64("sugar_packets", accepted).
		Msg("order complete")

	return receipt, nil
}

// gate refuses service while any catalog entry cannot be made.
func (s *machineService) gate() error {
	if missing := s.monitor.BlockingShortages(); len(missing) > 0 {
		return &model.MaintenanceError{Missing: missing}
	}
	return nil
}

func (s *machineService) expect(state model.OrderState, action string) error {
	if s.order == nil {
		return model.NewDomainError(model.ErrCodeInvalidState,
			fmt.Sprintf("cannot %s: no order in progress", action))
	}
	if s.order.State != state {
		return model.NewDomainError(model.ErrCodeInvalidState,
			fmt.Sprintf("cannot %s while order is %s", action, s.order.State))
	}
	return nil
}

// abort ends a paid-into order with err and refunds everything tendered.
func (s *machineService) abort(err error) error {
	abortErr := &AbortError{OrderID: s.order.ID, Refund: s.order.Paid, Err: err}
	s.reject(errorCode(err))
	return abortErr
}

// discard ends an order that took no money.
func (s *machineService) discard(err error) {
	if s.order != nil {
		s.reject(errorCode(err))
	}
}

func (s *machineService) reject(reason string) {
	refund := s.order.Paid
	if s.payment != nil {
		refund = s.payment.Refund()
	}
	s.order.State = model.StateRejected

	s.logger.Info().
		Str("order_id", s.order.ID.String()).
		Str("reason", reason).
		Str("refund", refund.String()).
		Msg("order rejected")

	s.metrics.OrderRejected(reason, refund)
	s.clear()
}

func (s *machineService) clear() {
	s.order = nil
	s.recipe = model.Recipe{}
	s.payment = nil
}

func (s *machineService) snapshot() *model.Order {
	order := *s.order
	if order.Consumed != nil {
		order.Consumed = order.Consumed.Clone()
	}
	return &order
}

func (s *machineService) publishStock() {
	s.metrics.StockChanged(s.ledger.Report(), len(s.monitor.BlockingShortages()) > 0)
}

// withAddOn adds the one sugar packet an order must be able to offer.
func withAddOn(req model.Requirements) model.Requirements {
	out := req.Clone()
	if out[model.SugarPacket] < 1 {
		out[model.SugarPacket] = 1
	}
	return out
}

func errorCode(err error) string {
	var domainErr *model.DomainError
	switch {
	case errors.Is(err, model.ErrFulfillmentRace):
		return model.ErrCodeFulfillmentRace
	case errors.Is(err, model.ErrMaintenanceMode):
		return model.ErrCodeMaintenanceMode
	case errors.Is(err, model.ErrInsufficientStock):
		return model.ErrCodeInsufficientStock
	case errors.As(err, &domainErr):
		return domainErr.Code
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return reasonCancelled
	default:
		return model.ErrCodeInternalError
	}
}
