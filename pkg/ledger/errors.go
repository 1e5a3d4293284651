package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrWouldOverdraw     = errors.New("the change would overdraw the envelope")
	ErrValidation        = errors.New("invalid value")
	ErrAccountIDRequired = errors.New("account ID required")
)

// notFound returns an error for a missing record of the given kind.
func notFound(kind, id string) error {
	return fmt.Errorf("%s %w: %s", kind, ErrNotFound, id)
}

// invalid returns a validation error for a field.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// FundsSource tells which pool of money ran short.
type FundsSource int

const (
	// Unallocated income when funding envelopes.
	SourceAvailable FundsSource = iota
	// Unallocated income when applying a funding template.
	SourceTemplate
	// The balance of a single envelope.
	SourceEnvelope
)

// InsufficientFundsError is returned when an amount exceeds what is available.
type InsufficientFundsError struct {
	Source    FundsSource
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	switch e.Source {
	case SourceEnvelope:
		return fmt.Sprintf("Insufficient funds in envelope. Balance: %s", Money(e.Available))
	case SourceTemplate:
		return fmt.Sprintf("Template requires %s but only %s is available.", Money(e.Requested), Money(e.Available))
	default:
		return fmt.Sprintf("Cannot allocate %s. Only %s available.", Money(e.Requested), Money(e.Available))
	}
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// Shortfall is the amount that is missing.
func (e *InsufficientFundsError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

// OverdraftError is returned by edits that would leave an envelope with a
// negative balance when overdrafts have not been confirmed.
type OverdraftError struct {
	EnvelopeID string
	Balance    decimal.Decimal // Balance after the edit
}

func (e *OverdraftError) Error() string {
	return fmt.Sprintf("This will overdraw the envelope by %s. Balance: %s", Money(e.Balance.Abs()), Money(e.Balance))
}

func (e *OverdraftError) Unwrap() error {
	return ErrWouldOverdraw
}

var printer = message.NewPrinter(language.AmericanEnglish)

// Money formats an amount in dollars with two decimals, for example "-$1,250.00".
func Money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + Money(d.Neg())
	}
	return printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}
