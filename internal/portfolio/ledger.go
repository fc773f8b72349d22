// Package portfolio tracks holdings and their server-computed profit/loss.
package portfolio

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/internal/lifecycle"
	"github.com/dyike/ForecastGo/models"
)

// Source is the portfolio half of the backend.
type Source interface {
	Portfolio(ctx context.Context) (models.PortfolioOutput, error)
	AddHolding(ctx context.Context, in models.HoldingInput) (models.HoldingCreated, error)
	DeleteHolding(ctx context.Context, id models.HoldingID) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

type MutationKind int

const (
	AddMutation MutationKind = iota
	DeleteMutation
)

// Mutation is a started add or delete call.
type Mutation struct {
	Token lifecycle.Token
	Kind  MutationKind
	Input models.HoldingInput
	ID    models.HoldingID
}

// Banner is a dismissible message. Error banners stay until replaced.
type Banner struct {
	ID      uint64
	Text    string
	IsError bool
}

// Ledger holds the last fetched holdings and summary. Both are replaced
// wholesale by every successful refresh and never derived locally.
type Ledger struct {
	refresh  *lifecycle.Lifecycle
	mutation *lifecycle.Lifecycle

	holdings   []models.Holding
	summary    models.PortfolioSummary
	loaded     bool
	refreshErr string

	pendingDelete *models.HoldingID
	banner        *Banner
	bannerSeq     uint64

	log zerolog.Logger
}

func NewLedger(log zerolog.Logger) *Ledger {
	log = log.With().Str("component", "portfolio").Logger()
	return &Ledger{
		refresh:  lifecycle.New("portfolio-refresh", log),
		mutation: lifecycle.New("portfolio-mutation", log),
		log:      log,
	}
}

func (l *Ledger) Lifecycles() (refresh, mutation *lifecycle.Lifecycle) {
	return l.refresh, l.mutation
}

// Validate checks a new holding before anything is sent.
func Validate(asset string, amount, purchasePrice decimal.Decimal) (models.HoldingInput, error) {
	asset = strings.ToUpper(strings.TrimSpace(asset))
	switch {
	case asset == "":
		return models.HoldingInput{}, models.NewValidationError("asset", consts.MsgSelectAsset)
	case !amount.IsPositive():
		return models.HoldingInput{}, models.NewValidationError("amount", consts.MsgAmountPositive)
	case !purchasePrice.IsPositive():
		return models.HoldingInput{}, models.NewValidationError("purchase_price", consts.MsgPricePositive)
	}
	return models.HoldingInput{Asset: asset, Amount: amount, PurchasePrice: purchasePrice}, nil
}

// ParseInput validates a holding typed as text.
func ParseInput(asset, amount, purchasePrice string) (models.HoldingInput, error) {
	a, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return models.HoldingInput{}, models.NewValidationError("amount", consts.MsgInvalidAmount)
	}
	p, err := decimal.NewFromString(strings.TrimSpace(purchasePrice))
	if err != nil {
		return models.HoldingInput{}, models.NewValidationError("purchase_price", consts.MsgInvalidPrice)
	}
	return Validate(asset, a, p)
}

// BeginRefresh starts a refresh, superseding one still in flight.
func (l *Ledger) BeginRefresh() lifecycle.Token {
	return l.refresh.Restart()
}

// CompleteRefresh applies a refresh result. Failure keeps the previous data.
func (l *Ledger) CompleteRefresh(tok lifecycle.Token, out models.PortfolioOutput, err error) bool {
	if !l.refresh.Resolve(tok, err) {
		return false
	}
	if err != nil {
		l.refreshErr = models.UserMessage(err, consts.MsgPortfolioFailed)
		l.log.Warn().Err(err).Msg("portfolio refresh failed")
		return true
	}
	l.holdings = append([]models.Holding(nil), out.Holdings...)
	l.summary = out.PortfolioSummary
	l.loaded = true
	l.refreshErr = ""
	return true
}

// Refresh fetches and applies the portfolio synchronously.
func (l *Ledger) Refresh(ctx context.Context, src Source) error {
	tok := l.BeginRefresh()
	out, err := src.Portfolio(ctx)
	l.CompleteRefresh(tok, out, err)
	return err
}

// BeginAdd starts adding a holding. Invalid input fails locally.
func (l *Ledger) BeginAdd(in models.HoldingInput) (Mutation, error) {
	in, err := Validate(in.Asset, in.Amount, in.PurchasePrice)
	if err != nil {
		l.Reject(err)
		return Mutation{}, err
	}
	tok, ok := l.mutation.Begin()
	if !ok {
		l.setBanner(consts.MsgPortfolioBusy, true)
		return Mutation{}, lifecycle.ErrBusy
	}
	return Mutation{Token: tok, Kind: AddMutation, Input: in}, nil
}

// BeginDelete starts removing a holding. Callers confirm first; see
// RequestDelete and ConfirmDelete.
func (l *Ledger) BeginDelete(id models.HoldingID) (Mutation, error) {
	if id == "" {
		err := models.NewValidationError("id", consts.MsgHoldingRequired)
		l.Reject(err)
		return Mutation{}, err
	}
	tok, ok := l.mutation.Begin()
	if !ok {
		l.setBanner(consts.MsgPortfolioBusy, true)
		return Mutation{}, lifecycle.ErrBusy
	}
	return Mutation{Token: tok, Kind: DeleteMutation, ID: id}, nil
}

// Reject records a local validation failure as an error banner.
func (l *Ledger) Reject(err error) {
	msg := models.UserMessage(err, err.Error())
	l.mutation.Reject(msg)
	l.setBanner(msg, true)
}

// CompleteMutation applies the outcome of m. It reports whether the
// portfolio must be refreshed.
func (l *Ledger) CompleteMutation(m Mutation, err error) bool {
	if !l.mutation.Resolve(m.Token, err) {
		return false
	}
	if err != nil {
		fallback := consts.MsgAddFailed
		if m.Kind == DeleteMutation {
			fallback = consts.MsgDeleteFailed
		}
		l.setBanner(models.UserMessage(err, fallback), true)
		l.log.Warn().Err(err).Str("id", m.ID.String()).Msg("portfolio mutation failed")
		return false
	}
	if m.Kind == DeleteMutation {
		l.setBanner(consts.MsgHoldingRemoved, false)
	} else {
		l.setBanner(consts.MsgHoldingAdded, false)
	}
	return true
}

// RequestDelete records that id is awaiting confirmation.
func (l *Ledger) RequestDelete(id models.HoldingID) error {
	if id == "" {
		err := models.NewValidationError("id", consts.MsgHoldingRequired)
		l.Reject(err)
		return err
	}
	l.pendingDelete = &id
	return nil
}

// PendingDelete returns the holding awaiting confirmation.
func (l *Ledger) PendingDelete() (models.HoldingID, bool) {
	if l.pendingDelete == nil {
		return "", false
	}
	return *l.pendingDelete, true
}

// ConfirmDelete resolves a pending confirmation. The delete starts only on
// yes; started is false when declined or when nothing was pending. A yes
// while another change is in flight keeps the confirmation open and returns
// lifecycle.ErrBusy.
func (l *Ledger) ConfirmDelete(yes bool) (m Mutation, started bool, err error) {
	if l.pendingDelete == nil {
		return Mutation{}, false, nil
	}
	if yes && l.mutation.Pending() {
		l.setBanner(consts.MsgPortfolioBusy, true)
		return Mutation{}, false, lifecycle.ErrBusy
	}
	id := *l.pendingDelete
	l.pendingDelete = nil
	if !yes {
		return Mutation{}, false, nil
	}
	m, err = l.BeginDelete(id)
	if err != nil {
		return Mutation{}, false, err
	}
	return m, true, nil
}

// Add runs an add and the follow-up refresh synchronously.
func (l *Ledger) Add(ctx context.Context, src Source, in models.HoldingInput) (models.HoldingCreated, error) {
	m, err := l.BeginAdd(in)
	if err != nil {
		return models.HoldingCreated{}, err
	}
	created, err := src.AddHolding(ctx, m.Input)
	if l.CompleteMutation(m, err) {
		if rerr := l.Refresh(ctx, src); rerr != nil {
			l.log.Warn().Err(rerr).Msg("refresh after add")
		}
	}
	return created, err
}

// Remove asks c for confirmation and, on yes, deletes id and refreshes.
func (l *Ledger) Remove(ctx context.Context, src Source, c Confirmer, id models.HoldingID) (bool, error) {
	if err := l.RequestDelete(id); err != nil {
		return false, err
	}
	yes, err := c.Confirm(consts.ConfirmDeletePrompt)
	if err != nil {
		l.pendingDelete = nil
		return false, err
	}
	m, started, err := l.ConfirmDelete(yes)
	if err != nil || !started {
		return false, err
	}
	err = src.DeleteHolding(ctx, m.ID)
	if l.CompleteMutation(m, err) {
		if rerr := l.Refresh(ctx, src); rerr != nil {
			l.log.Warn().Err(rerr).Msg("refresh after delete")
		}
	}
	return err == nil, err
}

func (l *Ledger) setBanner(text string, isError bool) {
	l.bannerSeq++
	l.banner = &Banner{ID: l.bannerSeq, Text: text, IsError: isError}
}

// Banner returns the visible banner.
func (l *Ledger) Banner() (Banner, bool) {
	if l.banner == nil {
		return Banner{}, false
	}
	return *l.banner, true
}

// DismissBanner hides the banner with the given id if it is still the
// visible one and is not an error.
func (l *Ledger) DismissBanner(id uint64) bool {
	if l.banner == nil || l.banner.ID != id || l.banner.IsError {
		return false
	}
	l.banner = nil
	return true
}

// ClearBanner hides whatever banner is visible.
func (l *Ledger) ClearBanner() {
	l.banner = nil
}

func (l *Ledger) Holdings() []models.Holding {
	return append([]models.Holding(nil), l.holdings...)
}

func (l *Ledger) Summary() models.PortfolioSummary {
	return l.summary
}
