package customer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// Customer is a single customer record. Name is the natural key used for
// duplicate detection; ID is the primary key of the stored document.
type Customer struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	Name    string    `json:"name" validate:"required,notblank"`
	Address string    `json:"address"`
}

var ErrInvalid = errors.New("invalid record")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	if err != nil {
		panic(err)
	}
	return v
}

// Parse decodes a serialized customer. A null document, malformed JSON and a
// record without a name are all reported as ErrInvalid.
func Parse(data []byte) (*Customer, error) {
	var c *Customer
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c == nil {
		return nil, ErrInvalid
	}
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return c, nil
}
