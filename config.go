package caixa

import "github.com/shopspring/decimal"

// Defaults matching the reference deployment: a six-till lottery agency
// operating in BRL.
const (
	DefaultTillCount = 6
	DefaultCurrency  = "BRL"
)

// defaultTolerance is the business allowance for manual-entry rounding:
// |machineCount - expected| above it raises the divergence flag.
var defaultTolerance = decimal.New(1, -2) // 0.01

// Config carries the deployment-specific values injected into a Book. The
// core has no compiled-in constants: the confirmation phrase in particular is
// plain configuration, a shared "are you sure" gate rather than a credential.
type Config struct {
	// TillCount is the number of tills, numbered 1..TillCount.
	TillCount int

	// Currency is the ISO code all amounts are recorded in.
	Currency string

	// ConfirmationPhrase guards the void operation.
	ConfirmationPhrase string

	// Tolerance overrides the divergence allowance. Zero means the
	// default of 0.01 currency units.
	Tolerance Money
}

func (c Config) withDefaults() Config {
	if c.TillCount == 0 {
		c.TillCount = DefaultTillCount
	}
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	if c.Tolerance.IsZero() {
		c.Tolerance = M(defaultTolerance, c.Currency)
	}
	return c
}
