package eval

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/recmine/core"
	"github.com/rushteam/recmine/filter"
)

// 评估结论状态。
const (
	StatusOK           = "ok"
	StatusNotEvaluated = "not evaluated"
)

// Report 是单个模型的离线评估结论。
// 缺失的模型（快照不存在）以 StatusNotEvaluated 报告，不算错误，
// 指标字段全为零值。
type Report struct {
	Model           string
	Status          string
	Users           int     // 参与评估的用户数（留出集中有真值的用户）
	HitRate5        float64 // 前 5 命中率
	HitRate10       float64 // 前 10 命中率
	Precision10     float64 // 前 10 精确率
	Coverage        float64 // 拿到非空推荐列表的用户占比
	CatalogCoverage float64 // 去重后的推荐物品对目录的覆盖率

	// Hits10 记录每个用户的前 10 命中指示（A/B 显著性检验的输入）
	Hits10 map[int64]bool
}

// Harness 是离线评估执行器：对每个注册模型跑同一份留出集，
// 产出可并排比较的 Report。
type Harness struct {
	// Heldout 提供留出集真值
	Heldout core.HeldoutStore

	// CatalogSize 是候选目录大小（目录覆盖率分母）；为 0 时目录覆盖率报 0
	CatalogSize int

	// TopN 是每个用户请求的推荐条数，默认 10
	TopN int

	// Filters 在打分之后、算指标之前应用（黑名单、已交互剔除等）
	Filters []filter.Filter
}

// Evaluate 评估一组模型。recommenders 的 value 为 nil 表示该模型缺失，
// 报告为 StatusNotEvaluated。返回结果按模型名排序。
func (h *Harness) Evaluate(ctx context.Context, recommenders map[string]core.Recommender) ([]Report, error) {
	truth, err := h.Heldout.HeldoutInteractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("eval: load heldout: %w", err)
	}

	userIDs := make([]int64, 0, len(truth))
	for userID := range truth {
		userIDs = append(userIDs, userID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	names := make([]string, 0, len(recommenders))
	for name := range recommenders {
		names = append(names, name)
	}
	sort.Strings(names)

	reports := make([]Report, 0, len(names))
	for _, name := range names {
		rec := recommenders[name]
		if rec == nil {
			reports = append(reports, Report{Model: name, Status: StatusNotEvaluated})
			continue
		}
		report, err := h.evaluateOne(ctx, name, rec, userIDs, truth)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (h *Harness) evaluateOne(
	ctx context.Context,
	name string,
	rec core.Recommender,
	userIDs []int64,
	truth map[int64][]int64,
) (Report, error) {
	topN := h.TopN
	if topN <= 0 {
		topN = 10
	}

	var hit5, hit10, usersWithRecs int
	var precisionSum float64
	var allRecommended []int64
	hits10 := make(map[int64]bool, len(userIDs))

	for _, userID := range userIDs {
		items, err := rec.Recommend(ctx, userID, topN)
		if err != nil {
			return Report{}, fmt.Errorf("eval: %s recommend user %d: %w", name, userID, err)
		}
		items, err = filter.Apply(ctx, h.Filters, userID, items)
		if err != nil {
			return Report{}, fmt.Errorf("eval: %s filter user %d: %w", name, userID, err)
		}

		recs := core.ItemIDs(items)
		if len(recs) > 0 {
			usersWithRecs++
		}
		allRecommended = append(allRecommended, recs...)

		want := truth[userID]
		if HitAtK(recs, want, 5) {
			hit5++
		}
		h10 := HitAtK(recs, want, 10)
		if h10 {
			hit10++
		}
		hits10[userID] = h10
		precisionSum += PrecisionAtK(recs, want, 10)
	}

	report := Report{
		Model:           name,
		Status:          StatusOK,
		Users:           len(userIDs),
		Coverage:        CoverageOf(usersWithRecs, len(userIDs)),
		CatalogCoverage: CatalogCoverageOf(allRecommended, h.CatalogSize),
		Hits10:          hits10,
	}
	if len(userIDs) > 0 {
		n := float64(len(userIDs))
		report.HitRate5 = float64(hit5) / n
		report.HitRate10 = float64(hit10) / n
		report.Precision10 = precisionSum / n
	}
	return report, nil
}
