// Package platform supplies account balance/equity/trade data from the
// trading platform. The real integration protocol is not defined here;
// implementations only honor the sample shape the monitoring core expects.
package platform

import (
	"context"
	"errors"

	"challenge-monitor/internal/domain"
)

// ErrNoSample is returned when no data is available for an account.
var ErrNoSample = errors.New("no sample available for account")

// AccountDataSource fetches the current data sample for one account.
type AccountDataSource interface {
	Fetch(ctx context.Context, account *domain.Account) (*domain.AccountSample, error)
}
