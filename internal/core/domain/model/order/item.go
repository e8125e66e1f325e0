package order

import (
	"errors"
	"fmt"
	"strings"

	"tracking/internal/pkg/errs"
)

// Item is one order line. Quantity is stored in milli-units.
type Item struct {
	code           string
	productName    string
	quantityMilli  int64
	unitPriceCents int64
}

// NewItem validates and builds an order line.
func NewItem(code, productName string, quantityMilli, unitPriceCents int64) (Item, error) {
	var err error
	if strings.TrimSpace(code) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("item code"))
	}
	if quantityMilli < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is negative", quantityMilli)))
	}
	if unitPriceCents < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("unit price", fmt.Errorf("%d is negative", unitPriceCents)))
	}
	if err != nil {
		return Item{}, err
	}

	return Item{
		code:           strings.TrimSpace(code),
		productName:    strings.TrimSpace(productName),
		quantityMilli:  quantityMilli,
		unitPriceCents: unitPriceCents,
	}, nil
}

func (i Item) Code() string {
	return i.code
}

func (i Item) ProductName() string {
	return i.productName
}

func (i Item) QuantityMilli() int64 {
	return i.quantityMilli
}

// Quantity converts milli-units to units.
func (i Item) Quantity() float64 {
	return float64(i.quantityMilli) / 1000
}

func (i Item) UnitPriceCents() int64 {
	return i.unitPriceCents
}
