package logic

import (
	"github.com/shopspring/decimal"
)

// 平台手续费梯度，按客户-自由职业者累计收入区间计费
var (
	tier1Upper = decimal.NewFromInt(500)
	tier2Upper = decimal.NewFromInt(5000)

	tier1Rate = decimal.NewFromFloat(0.20) // [0, 500)
	tier2Rate = decimal.NewFromFloat(0.15) // [500, 5000)
	tier3Rate = decimal.NewFromFloat(0.10) // [5000, ∞)
)

// PlatformFee 计算半开区间 [prior, prior+amount) 上的梯度手续费，保留两位小数
func PlatformFee(amount, priorEarnings float64) float64 {
	amt := decimal.NewFromFloat(amount)
	lo := decimal.NewFromFloat(priorEarnings)
	hi := lo.Add(amt)

	fee := tierOverlap(lo, hi, decimal.Zero, tier1Upper).Mul(tier1Rate)
	fee = fee.Add(tierOverlap(lo, hi, tier1Upper, tier2Upper).Mul(tier2Rate))

	// 第三档没有上限
	if hi.GreaterThan(tier2Upper) {
		start := decimal.Max(lo, tier2Upper)
		fee = fee.Add(hi.Sub(start).Mul(tier3Rate))
	}

	return fee.Round(2).InexactFloat64()
}

// tierOverlap 计算 [lo, hi) 与 [a, b) 的重叠长度
func tierOverlap(lo, hi, a, b decimal.Decimal) decimal.Decimal {
	start := decimal.Max(lo, a)
	end := decimal.Min(hi, b)
	if end.LessThanOrEqual(start) {
		return decimal.Zero
	}
	return end.Sub(start)
}

// round2 金额统一保留两位小数
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
