package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// UnmarshalJSON accepts qty and price either as JSON numbers or numeric strings.
func (i *OrderItem) UnmarshalJSON(data []byte) error {
	type plain OrderItem
	aux := struct {
		*plain
		Qty   *decimal.Decimal `json:"qty"`
		Price *decimal.Decimal `json:"price"`
	}{plain: (*plain)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.Qty != nil {
		if !aux.Qty.IsInteger() {
			return fmt.Errorf("qty %s is not a whole number", aux.Qty)
		}
		i.Qty = int(aux.Qty.IntPart())
	}
	if aux.Price != nil {
		i.Price = aux.Price.InexactFloat64()
	}
	return nil
}

// UnmarshalJSON accepts shippingPrice and totalPrice either as JSON numbers or numeric strings.
func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	aux := struct {
		*plain
		ShippingPrice *decimal.Decimal `json:"shippingPrice"`
		TotalPrice    *decimal.Decimal `json:"totalPrice"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.ShippingPrice != nil {
		o.ShippingPrice = aux.ShippingPrice.InexactFloat64()
	}
	if aux.TotalPrice != nil {
		o.TotalPrice = aux.TotalPrice.InexactFloat64()
	}
	return nil
}
