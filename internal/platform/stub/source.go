// Package stub provides a deterministic account data source for tests.
package stub

import (
	"context"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/platform"
)

// Source returns fixed in-memory samples keyed by account ID.
// Implements platform.AccountDataSource.
type Source struct {
	samples map[string]*domain.AccountSample
	errs    map[string]error
}

// NewSource creates a stub source with the given samples.
func NewSource(samples map[string]*domain.AccountSample) *Source {
	if samples == nil {
		samples = make(map[string]*domain.AccountSample)
	}
	return &Source{samples: samples, errs: make(map[string]error)}
}

// SetSample sets or replaces the sample for one account.
func (s *Source) SetSample(accountID string, sample *domain.AccountSample) {
	s.samples[accountID] = sample
}

// FailWith makes Fetch return err for one account.
func (s *Source) FailWith(accountID string, err error) {
	s.errs[accountID] = err
}

// Fetch returns a copy of the configured sample for the account.
func (s *Source) Fetch(_ context.Context, account *domain.Account) (*domain.AccountSample, error) {
	if err, exists := s.errs[account.ID]; exists {
		return nil, err
	}

	sample, exists := s.samples[account.ID]
	if !exists {
		return nil, platform.ErrNoSample
	}

	cp := *sample
	cp.Trades = append([]domain.PlatformTrade(nil), sample.Trades...)
	return &cp, nil
}

var _ platform.AccountDataSource = (*Source)(nil)
