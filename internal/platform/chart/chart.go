// Package chart loads a chart of accounts, with optional opening balances, from YAML
// and seeds it into the ledger.
package chart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/core/sources"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"gopkg.in/yaml.v3"
)

// Chart is the YAML document. Parents must be listed before their children.
type Chart struct {
	Accounts        []AccountSpec `yaml:"accounts"`
	OpeningBalances *OpeningSpec  `yaml:"opening_balances,omitempty"`
}

type AccountSpec struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Type        domain.AccountType `yaml:"type"`
	Parent      string             `yaml:"parent,omitempty"`
	Description string             `yaml:"description,omitempty"`
}

type OpeningSpec struct {
	BatchID     string             `yaml:"batch_id"`
	AsOf        string             `yaml:"as_of"` // YYYY-MM-DD
	Description string             `yaml:"description,omitempty"`
	Entries     []OpeningEntrySpec `yaml:"entries"`
}

type OpeningEntrySpec struct {
	Account string `yaml:"account"`
	Debit   string `yaml:"debit,omitempty"`
	Credit  string `yaml:"credit,omitempty"`
}

// Load decodes and checks a chart. Unknown keys are rejected so typos do not silently drop data.
func Load(r io.Reader) (*Chart, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Chart
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode chart of accounts: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Chart) validate() error {
	if len(c.Accounts) == 0 {
		return apperrors.NewValidationError("chart of accounts is empty")
	}
	seen := make(map[string]bool, len(c.Accounts))
	for i, a := range c.Accounts {
		if a.ID == "" || a.Name == "" {
			return apperrors.NewValidationError("account #%d needs an id and a name", i+1)
		}
		if !a.Type.IsValid() {
			return apperrors.NewValidationError("account %s has unknown type %q", a.ID, a.Type)
		}
		if seen[a.ID] {
			return apperrors.NewValidationError("account %s is listed twice", a.ID)
		}
		if a.Parent != "" && !seen[a.Parent] {
			return apperrors.NewValidationError("account %s refers to parent %s, which is not listed before it", a.ID, a.Parent)
		}
		seen[a.ID] = true
	}
	return nil
}

// OpeningBalance converts the opening balances section to a source document.
func (o *OpeningSpec) OpeningBalance() (sources.OpeningBalance, error) {
	asOf, err := time.Parse(time.DateOnly, o.AsOf)
	if err != nil {
		return sources.OpeningBalance{}, apperrors.NewValidationError("opening balances as_of %q is not a YYYY-MM-DD date", o.AsOf)
	}
	entries := make([]sources.OpeningBalanceEntry, len(o.Entries))
	for i, e := range o.Entries {
		debit, err := parseAmount(e.Debit)
		if err != nil {
			return sources.OpeningBalance{}, fmt.Errorf("opening balance of %s: %w", e.Account, err)
		}
		credit, err := parseAmount(e.Credit)
		if err != nil {
			return sources.OpeningBalance{}, fmt.Errorf("opening balance of %s: %w", e.Account, err)
		}
		entries[i] = sources.OpeningBalanceEntry{AccountID: e.Account, Debit: debit, Credit: credit}
	}
	return sources.OpeningBalance{
		BatchID:     o.BatchID,
		AsOf:        asOf,
		Description: o.Description,
		Entries:     entries,
	}, nil
}

func parseAmount(s string) (domain.Money, error) {
	if s == "" {
		return domain.ZeroMoney(), nil
	}
	return domain.AmountFromString(s)
}

// SeedResult counts what a seed run changed.
type SeedResult struct {
	Created        int
	Skipped        int    // accounts that already existed
	OpeningJournal string // id of the posted opening entry, if any
}

// Seed creates every missing account and posts the opening balances once. Running it
// again is harmless: existing accounts are skipped and the opening entry is idempotent.
func Seed(ctx context.Context, c *Chart, accounts portssvc.AccountWriterSvc, documents portssvc.DocumentPostingSvc, actor string) (*SeedResult, error) {
	res := &SeedResult{}
	for _, a := range c.Accounts {
		req := dto.CreateAccountRequest{
			AccountID:   a.ID,
			Name:        a.Name,
			AccountType: a.Type,
			Description: a.Description,
		}
		if a.Parent != "" {
			parent := a.Parent
			req.ParentAccountID = &parent
		}
		_, err := accounts.CreateAccount(ctx, req, actor)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, apperrors.ErrDuplicate):
			res.Skipped++
		default:
			return res, fmt.Errorf("failed to create account %s: %w", a.ID, err)
		}
	}

	if c.OpeningBalances == nil {
		return res, nil
	}
	doc, err := c.OpeningBalances.OpeningBalance()
	if err != nil {
		return res, err
	}
	entry, err := documents.Submit(ctx, doc, portssvc.PostImmediately, actor)
	switch {
	case err == nil:
		res.OpeningJournal = entry.JournalID
	case errors.Is(err, apperrors.ErrDuplicatePosting):
		slog.InfoContext(ctx, "Opening balances already posted", slog.String("batch_id", doc.BatchID))
	default:
		return res, fmt.Errorf("failed to post opening balances: %w", err)
	}
	return res, nil
}
