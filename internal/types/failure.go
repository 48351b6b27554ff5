package types

import (
	"fmt"

	"github.com/MGmoket/stock-assistant/pkg/errors"
)

// Failure records a per-instrument error inside a batch.
type Failure struct {
	Symbol  string `yaml:"symbol" json:"symbol"`
	Message string `yaml:"error" json:"error"`
	Err     error  `yaml:"-" json:"-"`
}

func NewFailure(symbol string, err error) Failure {
	return Failure{Symbol: symbol, Message: err.Error(), Err: err}
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Symbol, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Code returns the error code of the underlying error.
func (f Failure) Code() errors.ErrorCode {
	return errors.GetCode(f.Err)
}
