// Package validator envuelve go-playground/validator con las reglas propias de la API
// (decimales exactos y mensajes en español).
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator valida structs de request.
type Validator interface {
	Validate(s any) error
}

// DefaultValidator implementación basada en go-playground/validator.
type DefaultValidator struct {
	v *validator.Validate
}

// New construye el validador. Los campos decimal.Decimal se comparan como números,
// así que las reglas gte/gt/lte funcionan sobre montos y pesos.
func New() *DefaultValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &DefaultValidator{v: v}
}

// Validate devuelve nil o un error legible con el primer campo inválido.
func (d *DefaultValidator) Validate(s any) error {
	err := d.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Field()+": "+Message(fe))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return err
}

// Message traduce la regla que falló.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "uuid", "uuid4":
		return "debe ser un UUID válido"
	case "min":
		return fmt.Sprintf("debe tener al menos %s", fe.Param())
	case "max":
		return fmt.Sprintf("debe tener como máximo %s", fe.Param())
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("debe ser uno de [%s]", fe.Param())
	case "url":
		return "debe ser una URL válida"
	case "email":
		return "debe ser un email válido"
	default:
		return "es inválido"
	}
}

func decimalValue(field reflect.Value) any {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}
