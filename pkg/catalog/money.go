package catalog

import "fmt"

// Money is an amount in minor currency units (pence).
type Money int64

func Pounds(p int64) Money {
	return Money(p * 100)
}

// String renders the amount with two decimals, e.g. "585.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Percent returns pct percent of m rounded half away from zero to the penny.
func (m Money) Percent(pct int) Money {
	v := int64(m) * int64(pct)
	if v >= 0 {
		return Money((v + 50) / 100)
	}
	return Money((v - 50) / 100)
}
