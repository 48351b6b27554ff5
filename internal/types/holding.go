package types

import (
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// Holding is one open position of the externally owned ledger.
type Holding struct {
	Symbol   string  `yaml:"symbol" json:"symbol" validate:"required,len=6,numeric"`
	Name     string  `yaml:"name,omitempty" json:"name,omitempty"`
	Quantity int64   `yaml:"quantity" json:"quantity" validate:"gt=0"`
	AvgCost  float64 `yaml:"avg_cost" json:"avg_cost" validate:"gt=0"`
}

func (h Holding) Validate() error {
	if err := validator.New().Struct(h); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid holding", err)
	}

	return nil
}

// Holdings is a read-only snapshot of open positions.
type Holdings []Holding

// Has reports whether symbol is currently held.
func (h Holdings) Has(symbol string) bool {
	for _, holding := range h {
		if holding.Symbol == symbol {
			return true
		}
	}

	return false
}
