package star

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Cents is the number of fractional digits carried by every money value.
const Cents = 2

// roundMoney rounds half-to-even to cents.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(Cents)
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func toNullNumeric(d decimal.NullDecimal) pgtype.Numeric {
	if !d.Valid {
		return pgtype.Numeric{}
	}
	return toNumeric(d.Decimal)
}

func fromNumeric(n pgtype.Numeric) decimal.NullDecimal {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromBigInt(n.Int, n.Exp), Valid: true}
}

// formatMoney renders an amount with a currency prefix and exactly two decimals.
func formatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(Cents)
}
