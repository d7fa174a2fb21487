// Package numerator provides domain contracts for document auto-numbering.
package numerator

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPDATE ... RETURNING for every number.
	// Guarantees sequential numbers without gaps.
	// Slower, suitable for invoices and accounting documents.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Much faster, but may produce gaps if application restarts.
	// Suitable for internal documents (orders, shipments).
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	// Strategy to use for number generation
	Strategy Strategy
	// RangeSize is the number of IDs to allocate at once in Cached strategy.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "PO", "JE", "AST-CW")
	Prefix string

	// IncludeYear adds year to the number (JE-2026-0001)
	IncludeYear bool

	// IncludeDate adds the full YYYYMMDD date (PO-20260831-001).
	// Takes precedence over IncludeYear.
	IncludeDate bool

	// PadWidth is the minimum number width (default 5)
	PadWidth int

	// ResetPeriod: "day", "year", "month", "never"
	ResetPeriod string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}

// DailyConfig numbers documents within a business day (PO-20260831-001).
func DailyConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeDate: true,
		PadWidth:    3,
		ResetPeriod: "day",
	}
}
