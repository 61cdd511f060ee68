package grn

import (
	"github.com/shopspring/decimal"

	"github.com/rahulverma-dev/medstock-backend/pkg/db/models"
	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
)

var percentBase = decimal.NewFromInt(100)

// LineTotals is the priced breakdown of a single receiving line.
type LineTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// GRNTotals aggregates leaf lines into the cached GRN-level amounts.
type GRNTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// CalculateLine prices one line under its discount ordering mode.
//
// BEFORE_TAX discounts the goods value first and taxes the net;
// AFTER_TAX taxes the gross and then discounts the taxed amount, with the
// discount distributed proportionally across the goods and tax components so
// that subtotal + tax always equals total exactly.
func CalculateLine(item models.GRNItem) LineTotals {
	qty := decimal.NewFromInt(int64(item.ReceivedQty))
	gross := qty.Mul(item.UnitPrice)
	discountRatio := decimal.NewFromInt(1).Sub(item.DiscountPercent.Div(percentBase))
	taxRate := item.GSTPercent.Div(percentBase)

	switch item.DiscountMode {
	case enums.DiscountModeAfterTax:
		tax := gross.Mul(taxRate)
		subtotal := gross.Mul(discountRatio)
		taxShare := tax.Mul(discountRatio)
		return LineTotals{
			Subtotal: subtotal,
			Tax:      taxShare,
			Total:    subtotal.Add(taxShare),
		}
	default: // BEFORE_TAX
		net := gross.Mul(discountRatio)
		tax := net.Mul(taxRate)
		return LineTotals{
			Subtotal: net,
			Tax:      tax,
			Total:    net.Add(tax),
		}
	}
}

// CalculateTotals aggregates the GRN-level subtotal/tax/total from leaf items
// only. Split parents contribute nothing; their children do.
func CalculateTotals(items []models.GRNItem) GRNTotals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, item := range items {
		if item.IsSplit {
			continue
		}
		line := CalculateLine(item)
		subtotal = subtotal.Add(line.Subtotal)
		tax = tax.Add(line.Tax)
	}
	subtotal = subtotal.Round(2)
	tax = tax.Round(2)
	return GRNTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
