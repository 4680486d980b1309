package valueobject

import (
	"fmt"

	"github.com/koicare/pondflow/internal/pkg/apperror"
)

const DefaultCurrency = "VND"

// Money holds an amount in minor currency units.
type Money struct {
	Amount   int64
	Currency string
}

func NewMoney(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "amount cannot be negative")
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: amount, Currency: currency}, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Amount, m.Currency)
}

// Pricing is the contracted price of a project. The deposit is always below the total.
type Pricing struct {
	Total   Money
	Deposit Money
}

func NewPricing(total, deposit, minDeposit int64) (Pricing, error) {
	if total <= 0 {
		return Pricing{}, apperror.New(apperror.ErrCodeValidation, "total price must be positive")
	}
	if deposit < minDeposit {
		return Pricing{}, apperror.Newf(apperror.ErrCodeValidation, "deposit must be at least %d", minDeposit)
	}
	if deposit >= total {
		return Pricing{}, apperror.New(apperror.ErrCodeValidation, "deposit must be less than the total price")
	}

	totalMoney, _ := NewMoney(total, DefaultCurrency)
	depositMoney, _ := NewMoney(deposit, DefaultCurrency)

	return Pricing{Total: totalMoney, Deposit: depositMoney}, nil
}

// Remaining is the amount due on final settlement.
func (p Pricing) Remaining() int64 {
	return p.Total.Amount - p.Deposit.Amount
}

func (p Pricing) String() string {
	return fmt.Sprintf("%s (deposit %d)", p.Total, p.Deposit.Amount)
}
