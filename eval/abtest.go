package eval

import (
	"fmt"
	"math"

	"github.com/rushteam/recmine/core"
)

// ABResult 是两个实验臂命中率差异的显著性检验结论。
type ABResult struct {
	ControlRate   float64 // 对照臂命中率
	TreatmentRate float64 // 实验臂命中率
	AbsoluteLift  float64 // 绝对提升（treatment - control）
	RelativeLift  float64 // 相对提升（对照率为 0 时为 0）
	ChiSquare     float64 // Pearson 卡方统计量（不做 Yates 修正）
	PValue        float64 // 自由度 1 的卡方 p 值
	Significant   bool    // PValue < alpha
	Alpha         float64
}

// DefaultAlpha 是显著性水平的默认值。
const DefaultAlpha = 0.05

// CompareArms 对 2x2 列联表（臂 x 命中/未命中）做 Pearson 卡方检验。
//
// 任一行和或列和为零（某臂无样本，或两臂全命中/全未命中）时统计量
// 无定义，返回 UNDEFINED 领域错误，不静默产出 NaN。
func CompareArms(controlHits, controlTotal, treatmentHits, treatmentTotal int, alpha float64) (*ABResult, error) {
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultAlpha
	}
	if controlHits < 0 || treatmentHits < 0 || controlHits > controlTotal || treatmentHits > treatmentTotal {
		return nil, core.NewDomainError(core.ModuleEval, core.ErrorCodeInvalidInput,
			fmt.Sprintf("abtest: invalid counts: control %d/%d, treatment %d/%d",
				controlHits, controlTotal, treatmentHits, treatmentTotal))
	}

	// 列联表：a/b 对照臂命中/未命中，c/d 实验臂命中/未命中
	a := float64(controlHits)
	b := float64(controlTotal - controlHits)
	c := float64(treatmentHits)
	d := float64(treatmentTotal - treatmentHits)
	n := a + b + c + d

	rowA, rowB := a+b, c+d
	colHit, colMiss := a+c, b+d
	if rowA == 0 || rowB == 0 || colHit == 0 || colMiss == 0 {
		return nil, core.NewDomainError(core.ModuleEval, core.ErrorCodeUndefined,
			"abtest: degenerate contingency table: zero row or column sum")
	}

	chi2 := n * (a*d - b*c) * (a*d - b*c) / (rowA * rowB * colHit * colMiss)
	p := chiSquarePValue(chi2)

	result := &ABResult{
		ControlRate:   a / rowA,
		TreatmentRate: c / rowB,
		ChiSquare:     chi2,
		PValue:        p,
		Significant:   p < alpha,
		Alpha:         alpha,
	}
	result.AbsoluteLift = result.TreatmentRate - result.ControlRate
	if result.ControlRate > 0 {
		result.RelativeLift = result.AbsoluteLift / result.ControlRate
	}
	return result, nil
}

// CompareReports 用两份评估报告的前 10 命中指示做显著性检验。
// 任一报告未评估（StatusNotEvaluated）时返回 UNDEFINED。
func CompareReports(control, treatment Report, alpha float64) (*ABResult, error) {
	if control.Status != StatusOK || treatment.Status != StatusOK {
		return nil, core.NewDomainError(core.ModuleEval, core.ErrorCodeUndefined,
			fmt.Sprintf("abtest: cannot compare %q (%s) with %q (%s)",
				control.Model, control.Status, treatment.Model, treatment.Status))
	}
	return CompareArms(
		countHits(control.Hits10), len(control.Hits10),
		countHits(treatment.Hits10), len(treatment.Hits10),
		alpha,
	)
}

func countHits(hits map[int64]bool) int {
	n := 0
	for _, hit := range hits {
		if hit {
			n++
		}
	}
	return n
}

// chiSquarePValue 计算自由度 1 的卡方分布右尾概率。
// df=1 时卡方变量是标准正态的平方，P(X > x) = erfc(sqrt(x/2))。
func chiSquarePValue(chi2 float64) float64 {
	if chi2 <= 0 {
		return 1
	}
	return math.Erfc(math.Sqrt(chi2 / 2))
}
