package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gomovements/internal/domain"
	"github.com/iho/gomovements/internal/infrastructure/metrics"
)

// defaultTaxCacheTTL bounds how long a resolved tax may be served from cache.
const defaultTaxCacheTTL = 5 * time.Minute

// PostingUseCase turns a submitted movement into a consistent set of
// persisted records: the movement itself, its computed totals and tax,
// an optional ledger posting for direct payments, and a history
// snapshot when an existing movement is edited. Every flow commits its
// whole write set atomically or not at all.
type PostingUseCase struct {
	txManager    TransactionManager
	movementRepo MovementRepository
	ledgerRepo   LedgerRepository
	historyRepo  HistoryRepository
	taxRepo      TaxRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	taxCache     TaxCache
	taxCacheTTL  time.Duration
	retrier      Retrier
	updateHook   UpdateHook
	metrics      *metrics.Metrics
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	movementRepo MovementRepository,
	ledgerRepo LedgerRepository,
	historyRepo HistoryRepository,
	taxRepo TaxRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:    txManager,
		movementRepo: movementRepo,
		ledgerRepo:   ledgerRepo,
		historyRepo:  historyRepo,
		taxRepo:      taxRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
	}
}

// WithTaxCache enables caching of resolved taxes. A non-positive ttl
// falls back to the default.
func (uc *PostingUseCase) WithTaxCache(cache TaxCache, ttl time.Duration) *PostingUseCase {
	if ttl <= 0 {
		ttl = defaultTaxCacheTTL
	}
	uc.taxCache = cache
	uc.taxCacheTTL = ttl
	return uc
}

// WithRetrier retries the atomic write set on transient storage errors.
func (uc *PostingUseCase) WithRetrier(retrier Retrier) *PostingUseCase {
	uc.retrier = retrier
	return uc
}

// WithUpdateHook installs a service-level hook applied during updates.
func (uc *PostingUseCase) WithUpdateHook(hook UpdateHook) *PostingUseCase {
	uc.updateHook = hook
	return uc
}

// WithMetrics enables posting instrumentation.
func (uc *PostingUseCase) WithMetrics(m *metrics.Metrics) *PostingUseCase {
	uc.metrics = m
	return uc
}

// LineItemInput is one detail row of a submission.
type LineItemInput struct {
	ItemID   string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Subtotal decimal.Decimal
}

// CreateMovementInput carries the full attribute set for a new movement.
type CreateMovementInput struct {
	Kind          string
	RefNumber     string
	Date          time.Time
	DueDate       *time.Time
	ContactID     string
	Currency      string
	ExchangeRate  decimal.Decimal
	ProjectID     *string
	TaxID         *string
	Description   string
	Reference     string
	DirectPayment bool
	AccountToID   *string
	Items         []LineItemInput
}

// UpdateMovementInput carries the updatable attribute subset. The
// counterparty is immutable once created, so no contact field exists
// here; nil fields stay untouched.
type UpdateMovementInput struct {
	RefNumber     *string
	Date          *time.Time
	DueDate       *time.Time
	Currency      *string
	ExchangeRate  *decimal.Decimal
	ProjectID     *string
	TaxID         *string
	Description   *string
	Reference     *string
	DirectPayment *bool
	AccountToID   *string
	Items         []LineItemInput
}

// PostResult is the outcome of a successful posting attempt.
type PostResult struct {
	Movement *domain.Movement
	Ledger   *domain.LedgerEntry
}

// CreateMovement runs the create flow: copy attributes, compute
// totals, conditionally build the ledger posting, validate everything,
// then persist the whole write set in one transaction.
func (uc *PostingUseCase) CreateMovement(ctx context.Context, input CreateMovementInput) (*PostResult, error) {
	items := toLineItems(input.Items)

	tax, err := uc.resolveTax(ctx, input.TaxID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	movement := uc.buildMovement(input, now)

	applyTotals(movement, items, tax)

	var ledger *domain.LedgerEntry
	if movement.DirectPayment {
		movement.State = domain.StatePaid
		ledger = domain.BuildLedgerEntry(uc.idGen.Generate(), movement, now)
		movement.Balance = decimal.Zero
	}

	if errs := uc.validate(movement, items, ledger); !errs.Empty() {
		uc.countValidationErrors(errs)
		return nil, errs.WithoutDetailFields()
	}

	commit := func() error {
		return uc.commitCreate(ctx, movement, ledger, now)
	}

	if err := uc.run(ctx, commit); err != nil {
		uc.countPostingError("create")
		return nil, persistenceErrors(err)
	}

	uc.recordPosting(movement, ledger, now, false)

	return &PostResult{Movement: movement, Ledger: ledger}, nil
}

// UpdateMovement runs the update flow: snapshot the pre-update state,
// apply the allow-listed attributes, recompute totals, validate, then
// persist history, movement and optional ledger atomically.
func (uc *PostingUseCase) UpdateMovement(ctx context.Context, id string, input UpdateMovementInput) (*PostResult, error) {
	movement, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	// The snapshot must capture state strictly before mutation.
	snapshot, err := domain.NewHistorySnapshot(uc.idGen.Generate(), movement, now)
	if err != nil {
		return nil, err
	}

	applyUpdate(movement, input, now)

	if uc.updateHook != nil {
		if err := uc.updateHook(ctx, movement); err != nil {
			return nil, err
		}
	}

	items := toLineItems(input.Items)

	// An attribute-only submission keeps the stored totals: with no
	// resubmitted items there is nothing to recompute from, and the
	// stored total reflects the line items persisted at creation.
	if input.Items != nil {
		tax, err := uc.resolveTax(ctx, movement.TaxID)
		if err != nil {
			return nil, err
		}

		applyTotals(movement, items, tax)
	}

	var ledger *domain.LedgerEntry
	if movement.DirectPayment {
		movement.State = domain.StatePaid
		ledger = domain.BuildLedgerEntry(uc.idGen.Generate(), movement, now)
		movement.Balance = decimal.Zero
	}

	if errs := uc.validate(movement, items, ledger); !errs.Empty() {
		uc.countValidationErrors(errs)
		return nil, errs.WithoutDetailFields()
	}

	commit := func() error {
		return uc.commitUpdate(ctx, snapshot, movement, ledger, now)
	}

	if err := uc.run(ctx, commit); err != nil {
		uc.countPostingError("update")
		return nil, persistenceErrors(err)
	}

	uc.recordPosting(movement, ledger, now, true)

	return &PostResult{Movement: movement, Ledger: ledger}, nil
}

// validate aggregates the submission's own rules, the movement's
// rules and, for direct payments, the ledger's postability check.
// Every check runs so the caller sees a complete error set.
func (uc *PostingUseCase) validate(m *domain.Movement, items []domain.LineItem, ledger *domain.LedgerEntry) domain.FieldErrors {
	errs := domain.FieldErrors{}

	errs.Merge(domain.ValidateUniqueItemIDs(items))
	errs.Merge(m.Validate())

	if ledger != nil {
		// deferred account fields stay unset until the movement has a
		// persisted identifier; only the rest can block posting
		errs.Merge(ledger.Validate().Without(domain.DeferredLedgerFields...))
	}

	return errs
}

func (uc *PostingUseCase) commitCreate(ctx context.Context, m *domain.Movement, ledger *domain.LedgerEntry, now time.Time) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.movementRepo.Create(ctx, tx, m); err != nil {
		return err
	}

	if err := uc.postLedger(ctx, tx, m, ledger); err != nil {
		return err
	}

	if err := uc.outboxRepo.Create(ctx, tx, uc.postedEvent(m, domain.EventTypeMovementCreated, now)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (uc *PostingUseCase) commitUpdate(ctx context.Context, snapshot *domain.HistorySnapshot, m *domain.Movement, ledger *domain.LedgerEntry, now time.Time) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.historyRepo.Create(ctx, tx, snapshot); err != nil {
		return err
	}

	if err := uc.movementRepo.Update(ctx, tx, m); err != nil {
		return err
	}

	if err := uc.postLedger(ctx, tx, m, ledger); err != nil {
		return err
	}

	if err := uc.outboxRepo.Create(ctx, tx, uc.postedEvent(m, domain.EventTypeMovementUpdated, now)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// postLedger resolves the entry's deferred account identifier against
// the now-persisted movement and writes it inside the transaction.
func (uc *PostingUseCase) postLedger(ctx context.Context, tx Transaction, m *domain.Movement, ledger *domain.LedgerEntry) error {
	if ledger == nil {
		return nil
	}

	ledger.Post(m.ID)

	return uc.ledgerRepo.Create(ctx, tx, ledger)
}

func (uc *PostingUseCase) run(ctx context.Context, commit func() error) error {
	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, commit)
	}

	return commit()
}

// resolveTax looks up the movement's tax. An absent tax contributes a
// zero percentage rather than failing the posting.
func (uc *PostingUseCase) resolveTax(ctx context.Context, taxID *string) (*domain.Tax, error) {
	if taxID == nil || *taxID == "" {
		return nil, nil
	}

	if uc.taxCache != nil {
		if tax, err := uc.taxCache.Get(ctx, *taxID); err == nil && tax != nil {
			return tax, nil
		}
	}

	tax, err := uc.taxRepo.GetByID(ctx, *taxID)
	if err != nil {
		if errors.Is(err, domain.ErrTaxNotFound) {
			return nil, nil
		}

		return nil, err
	}

	if uc.taxCache != nil {
		_ = uc.taxCache.Set(ctx, tax, uc.taxCacheTTL)
	}

	return tax, nil
}

func (uc *PostingUseCase) buildMovement(input CreateMovementInput, now time.Time) *domain.Movement {
	rate := input.ExchangeRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}

	return &domain.Movement{
		ID:            uc.idGen.Generate(),
		Kind:          input.Kind,
		RefNumber:     input.RefNumber,
		Date:          input.Date,
		DueDate:       input.DueDate,
		ContactID:     input.ContactID,
		Currency:      normalizeCurrency(input.Currency),
		ExchangeRate:  rate,
		ProjectID:     input.ProjectID,
		TaxID:         input.TaxID,
		State:         domain.StatePending,
		DirectPayment: input.DirectPayment,
		AccountToID:   input.AccountToID,
		Description:   input.Description,
		Reference:     input.Reference,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// applyUpdate copies only the allow-listed attributes onto the
// movement. ContactID and Kind never change after creation.
func applyUpdate(m *domain.Movement, input UpdateMovementInput, now time.Time) {
	if input.RefNumber != nil {
		m.RefNumber = *input.RefNumber
	}
	if input.Date != nil {
		m.Date = *input.Date
	}
	if input.DueDate != nil {
		m.DueDate = input.DueDate
	}
	if input.Currency != nil {
		m.Currency = normalizeCurrency(*input.Currency)
	}
	if input.ExchangeRate != nil {
		m.ExchangeRate = *input.ExchangeRate
	}
	if input.ProjectID != nil {
		m.ProjectID = optional(*input.ProjectID)
	}
	if input.TaxID != nil {
		m.TaxID = optional(*input.TaxID)
	}
	if input.Description != nil {
		m.Description = *input.Description
	}
	if input.Reference != nil {
		m.Reference = *input.Reference
	}
	if input.DirectPayment != nil {
		m.DirectPayment = *input.DirectPayment
	}
	if input.AccountToID != nil {
		m.AccountToID = optional(*input.AccountToID)
	}

	m.UpdatedAt = now
}

// applyTotals computes total = sum of subtotals increased by the tax
// fraction when a tax resolves, and sets balance to the total. Direct
// payment overrides the balance afterwards.
func applyTotals(m *domain.Movement, items []domain.LineItem, tax *domain.Tax) {
	total := domain.SumSubtotals(items)

	if tax != nil {
		total = total.Add(total.Mul(tax.Percentage))
		m.TaxPercentage = tax.Percentage
	} else {
		m.TaxPercentage = decimal.Zero
	}

	m.Total = total
	m.Balance = total
}

func (uc *PostingUseCase) postedEvent(m *domain.Movement, eventType string, now time.Time) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   m.ID,
		AggregateType: domain.AggregateTypeMovement,
		EventType:     eventType,
		Payload: map[string]any{
			"movement_id":    m.ID,
			"kind":           m.Kind,
			"contact_id":     m.ContactID,
			"currency":       m.Currency,
			"total":          m.Total.String(),
			"balance":        m.Balance.String(),
			"state":          m.State,
			"direct_payment": m.DirectPayment,
		},
		CreatedAt: now,
	}
}

func (uc *PostingUseCase) recordPosting(m *domain.Movement, ledger *domain.LedgerEntry, start time.Time, update bool) {
	if uc.metrics == nil {
		return
	}

	if update {
		uc.metrics.MovementsUpdated.Inc()
		uc.metrics.HistorySnapshots.Inc()
	} else {
		uc.metrics.MovementsCreated.Inc()
	}

	if m.DirectPayment {
		uc.metrics.DirectPayments.Inc()
	}
	if ledger != nil {
		uc.metrics.LedgerEntries.Inc()
	}

	total, _ := m.Total.Float64()
	uc.metrics.MovementTotal.Observe(total)
	uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
}

func (uc *PostingUseCase) countValidationErrors(errs domain.FieldErrors) {
	if uc.metrics == nil {
		return
	}

	for field := range errs {
		uc.metrics.ValidationErrors.WithLabelValues(field).Inc()
	}
}

func (uc *PostingUseCase) countPostingError(op string) {
	if uc.metrics != nil {
		uc.metrics.PostingErrors.WithLabelValues(op).Inc()
	}
}

// persistenceErrors converts a failed commit into the caller-visible
// field-keyed collection, with detail-field suppression applied.
func persistenceErrors(err error) domain.FieldErrors {
	errs := domain.FieldErrors{}
	errs.Add("base", err.Error())

	return errs.WithoutDetailFields()
}

func toLineItems(inputs []LineItemInput) []domain.LineItem {
	items := make([]domain.LineItem, len(inputs))
	for i, in := range inputs {
		items[i] = domain.LineItem{
			ItemID:   in.ItemID,
			Quantity: in.Quantity,
			Price:    in.Price,
			Subtotal: in.Subtotal,
		}
	}

	return items
}

func normalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
