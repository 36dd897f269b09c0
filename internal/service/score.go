package service

import (
	"github.com/shopspring/decimal"
)

// ── 分数计算（定点十进制，保留 2 位小数） ──

var hundred = decimal.NewFromInt(100)

// round2 四舍五入到 2 位小数
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// percentageOf 得分率（0-100）；满分为 0 时返回 0
func percentageOf(score, maxScore float64) decimal.Decimal {
	full := decimal.NewFromFloat(maxScore)
	if full.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromFloat(score).Div(full).Mul(hundred)
}

// averageOf 算术平均；空集合返回 0
func averageOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return round2(sum.Div(decimal.NewFromInt(int64(len(values)))))
}

// letterGrade 百分比 → 等级
func letterGrade(percentage decimal.Decimal) string {
	switch {
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(90)):
		return "A"
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(80)):
		return "B"
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(70)):
		return "C"
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(60)):
		return "D"
	default:
		return "F"
	}
}

// gradePoints 百分比 → 4 分制绩点
func gradePoints(percentage decimal.Decimal) decimal.Decimal {
	switch {
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(90)):
		return decimal.NewFromInt(4)
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(80)):
		return decimal.NewFromInt(3)
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(70)):
		return decimal.NewFromInt(2)
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(60)):
		return decimal.NewFromInt(1)
	default:
		return decimal.Zero
	}
}

// gpaEntry 参与 GPA 计算的一条成绩
type gpaEntry struct {
	score    float64
	maxScore float64
	credits  int
}

// computeGPA 按学分加权的 4 分制 GPA；空集合或总学分为 0 时 GPA 为 0
func computeGPA(entries []gpaEntry) (gpa float64, totalCredits int) {
	points := decimal.Zero
	for _, e := range entries {
		pct := percentageOf(e.score, e.maxScore)
		points = points.Add(gradePoints(pct).Mul(decimal.NewFromInt(int64(e.credits))))
		totalCredits += e.credits
	}
	if totalCredits == 0 {
		return 0, 0
	}
	return round2(points.Div(decimal.NewFromInt(int64(totalCredits)))), totalCredits
}
