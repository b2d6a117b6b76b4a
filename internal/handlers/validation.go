package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	registerValidatorsOnce sync.Once
	registerValidatorsErr  error
)

// RegisterValidators teaches gin's validator to compare Money and decimal fields as numbers
// and adds the "amount" tag for strictly positive money values. The result of the first
// call is returned to every caller.
func RegisterValidators() error {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerValidatorsErr = errors.New("gin binding engine is not a go-playground validator")
			return
		}
		registerValidatorsErr = registerValidators(v)
	})
	return registerValidatorsErr
}

func registerValidators(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(numericValue, domain.Money{}, decimal.Decimal{})
	if err := v.RegisterValidation("amount", positiveAmount); err != nil {
		return fmt.Errorf("failed to register amount validator: %w", err)
	}
	return nil
}

func positiveAmount(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.Float64 && fl.Field().Float() > 0
}

// numericValue converts decimal-backed values to float64 for comparison tags only;
// the amounts themselves are never computed in floating point.
func numericValue(field reflect.Value) any {
	switch v := field.Interface().(type) {
	case domain.Money:
		f, _ := v.Decimal().Float64()
		return f
	case decimal.Decimal:
		f, _ := v.Float64()
		return f
	}
	return nil
}
