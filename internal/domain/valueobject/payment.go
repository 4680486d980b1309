package valueobject

import "github.com/koicare/pondflow/internal/pkg/apperror"

type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "UNPAID"
	PaymentDepositPaid PaymentStatus = "DEPOSIT_PAID"
	PaymentFullyPaid   PaymentStatus = "FULLY_PAID"
)

// paymentOrder ranks the milestones; payment only ever moves one step forward.
var paymentOrder = map[PaymentStatus]int{
	PaymentUnpaid:      0,
	PaymentDepositPaid: 1,
	PaymentFullyPaid:   2,
}

func (s PaymentStatus) IsValid() bool {
	_, ok := paymentOrder[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	from, ok := paymentOrder[s]
	if !ok {
		return false
	}
	to, ok := paymentOrder[next]
	if !ok {
		return false
	}
	return to == from+1
}

func (s PaymentStatus) IsFullyPaid() bool {
	return s == PaymentFullyPaid
}

func NewPaymentStatus(status string) (PaymentStatus, error) {
	s := PaymentStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "invalid payment status")
	}
	return s, nil
}

// AmountKind is what a gateway callback reports as settled.
type AmountKind string

const (
	AmountDeposit AmountKind = "deposit"
	AmountFinal   AmountKind = "final"
)

func NewAmountKind(kind string) (AmountKind, error) {
	switch AmountKind(kind) {
	case AmountDeposit:
		return AmountDeposit, nil
	case AmountFinal:
		return AmountFinal, nil
	}
	return "", apperror.New(apperror.ErrCodeValidation, "amount kind must be deposit or final")
}

// Target returns the payment status a settled amount leads to.
func (k AmountKind) Target() PaymentStatus {
	if k == AmountFinal {
		return PaymentFullyPaid
	}
	return PaymentDepositPaid
}
