package model

import (
	"context"

	"github.com/rushteam/recmine/core"
	"github.com/rushteam/recmine/pkg/sparse"
	"github.com/rushteam/recmine/pkg/topk"
	"github.com/rushteam/recmine/pkg/utils"
)

// CategoryCF 是类目粒度的协同过滤（u2u → 类目 → 物品）。
//
// 物品空间远大于类目空间（数十万物品 vs 千级类目），类目粒度的
// 用户×类目矩阵密度高得多，相似度信号更稳定——这是物品 CF 在极稀疏
// 数据上失效时的替代方案。
//
// 算法流程：
//  1. (user, category) 交互次数 >= MinInteractions 的对进入加权矩阵
//  2. 计算用户-用户余弦相似度（对称、稀疏）
//  3. 每个类目预计算购买量 Top 热门物品（无购买时回退到浏览量）
//  4. 出数：取 TopK 相似邻居加权累加类目分，剔除用户已有偏好的类目，
//     从得分最高的新类目中取热门物品
//
// 目标是发现"新"类目，而不是强化已知偏好，所以用户自己的正权重类目
// 会被清零后再选 Top。
type CategoryCF struct {
	// NeighborK 出数时考虑的相似邻居数；<= 0 时取默认值 30。
	// 出数与评估共用同一个值（评估直接调用 Recommend）。
	NeighborK int

	// TopCategories 每次出数选取的新类目数；<= 0 时取默认值 5
	TopCategories int

	// ItemsPerCategory 每个类目最多取的物品数；<= 0 时取默认值 10
	ItemsPerCategory int

	// PopularPerCategory 每个类目预计算的热门物品数；<= 0 时取默认值 30
	PopularPerCategory int

	// MinInteractions (user, category) 对进入矩阵的最小交互次数；<= 0 时取默认值 2
	MinInteractions int

	matrix  *sparse.Matrix    // 用户×类目加权交互矩阵
	userSim []map[int]float64 // 用户相似度，索引与矩阵行对齐
	popular map[int64][]int64 // 类目 -> 热门物品（购买量优先，浏览量兜底）
}

func (m *CategoryCF) Name() string { return "category_cf" }

// Train 从交互数据构建用户×类目矩阵、用户相似度和类目热门索引。
// 相似度是主要开销（用户数的平方量级），调用方应通过 ctx 设置截止时间。
func (m *CategoryCF) Train(ctx context.Context, loader core.InteractionStore) error {
	interactions, err := loader.Interactions(ctx)
	if err != nil {
		return err
	}
	categories, err := loader.ItemCategories(ctx)
	if err != nil {
		return err
	}

	minInteractions := m.MinInteractions
	if minInteractions <= 0 {
		minInteractions = 2
	}

	// (user, category) 聚合：次数用于支持度过滤，权重和进入矩阵
	type userCat struct{ user, cat int64 }
	counts := make(map[userCat]int)
	weights := make(map[userCat]float64)
	order := make([]userCat, 0) // 首次出现顺序，保证矩阵编号可复现
	for _, in := range interactions {
		cat, ok := categories[in.ItemID]
		if !ok {
			continue
		}
		k := userCat{in.UserID, cat}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
		weights[k] += in.Event.Weight()
	}

	mat := sparse.NewMatrix()
	for _, k := range order {
		if counts[k] < minInteractions {
			continue
		}
		mat.Add(k.user, k.cat, weights[k])
	}
	m.matrix = mat

	sim, err := sparse.RowSimilarity(ctx, mat)
	if err != nil {
		return err
	}
	m.userSim = sim

	m.popular = m.buildCategoryPopular(interactions, categories)
	return nil
}

// buildCategoryPopular 为每个类目预计算热门物品：按购买量排序取 TopN，
// 类目内没有任何购买时回退到浏览/加购总次数。
func (m *CategoryCF) buildCategoryPopular(interactions []core.Interaction, categories map[int64]int64) map[int64][]int64 {
	topN := m.PopularPerCategory
	if topN <= 0 {
		topN = 30
	}

	purchases := make(map[int64]map[int64]int) // 类目 -> 物品 -> 购买次数
	views := make(map[int64]map[int64]int)     // 类目 -> 物品 -> 全部事件次数
	for _, in := range interactions {
		cat, ok := categories[in.ItemID]
		if !ok {
			continue
		}
		if views[cat] == nil {
			views[cat] = make(map[int64]int)
		}
		views[cat][in.ItemID]++
		if in.Event == core.EventPurchase {
			if purchases[cat] == nil {
				purchases[cat] = make(map[int64]int)
			}
			purchases[cat][in.ItemID]++
		}
	}

	popular := make(map[int64][]int64, len(views))
	for cat, counts := range views {
		source := counts
		if p, ok := purchases[cat]; ok && len(p) > 0 {
			source = p
		}
		scored := make([]topk.Scored, 0, len(source))
		for itemID, c := range source {
			scored = append(scored, topk.Scored{ID: itemID, Score: float64(c)})
		}
		scored = topk.Top(scored, topN)
		items := make([]int64, 0, len(scored))
		for _, s := range scored {
			items = append(items, s.ID)
		}
		popular[cat] = items
	}
	return popular
}

// Recommend 为用户生成跨类目发现式推荐。
// 未知用户返回空列表（冷启动约定）。
func (m *CategoryCF) Recommend(_ context.Context, userID int64, n int) ([]*core.Item, error) {
	if m.matrix == nil {
		return nil, nil
	}
	ui, ok := m.matrix.RowIndex(userID)
	if !ok {
		return nil, nil
	}

	neighborK := m.NeighborK
	if neighborK <= 0 {
		neighborK = 30
	}
	topCategories := m.TopCategories
	if topCategories <= 0 {
		topCategories = 5
	}
	itemsPerCategory := m.ItemsPerCategory
	if itemsPerCategory <= 0 {
		itemsPerCategory = 10
	}

	// TopK 相似邻居（排除自身；同分按用户 ID 破平，保证全序）
	simRow := m.userSim[ui]
	neighbors := make([]topk.Scored, 0, len(simRow))
	for j, s := range simRow {
		if s <= 0 {
			continue
		}
		neighbors = append(neighbors, topk.Scored{ID: m.matrix.RowID(j), Score: s})
	}
	neighbors = topk.Top(neighbors, neighborK)

	// 类目分 = Σ(相似度 × 邻居的类目权重)
	catScores := make(map[int]float64)
	for _, nb := range neighbors {
		nj, ok := m.matrix.RowIndex(nb.ID)
		if !ok {
			continue
		}
		for ci, w := range m.matrix.Row(nj) {
			catScores[ci] += nb.Score * w
		}
	}

	// 清零用户已有偏好的类目：目标是发现新类目
	for ci, w := range m.matrix.Row(ui) {
		if w > 0 {
			delete(catScores, ci)
		}
	}

	scored := make([]topk.Scored, 0, len(catScores))
	for ci, s := range catScores {
		if s <= 0 {
			continue
		}
		scored = append(scored, topk.Scored{ID: m.matrix.ColID(ci), Score: s})
	}
	scored = topk.Top(scored, topCategories)

	// 按类目分降序取各类目热门物品，去重保序后截断
	seen := make(map[int64]struct{})
	out := make([]*core.Item, 0, n)
	for _, cat := range scored {
		for _, itemID := range firstN(m.popular[cat.ID], itemsPerCategory) {
			if _, dup := seen[itemID]; dup {
				continue
			}
			seen[itemID] = struct{}{}
			it := core.NewItem(itemID)
			it.Score = cat.Score
			it.PutLabel("recall_source", utils.Label{Value: m.Name(), Source: "model"})
			out = append(out, it)
			if n > 0 && len(out) >= n {
				return out, nil
			}
		}
	}
	return out, nil
}

func firstN(items []int64, n int) []int64 {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// Snapshot 导出不可变快照。
func (m *CategoryCF) Snapshot() *CategoryCFSnapshot {
	return &CategoryCFSnapshot{
		Kind:                 KindCategoryCF,
		Version:              SnapshotVersion,
		UserIDs:              m.matrix.RowIDs(),
		CategoryIDs:          m.matrix.ColIDs(),
		WeightedMatrix:       matrixRows(m.matrix),
		UserSimilarity:       m.userSim,
		CategoryPopularItems: m.popular,
	}
}

// LoadSnapshot 从快照恢复模型。
func (m *CategoryCF) LoadSnapshot(s *CategoryCFSnapshot) {
	m.matrix = rebuildMatrix(s.UserIDs, s.CategoryIDs, s.WeightedMatrix)
	m.userSim = s.UserSimilarity
	m.popular = s.CategoryPopularItems
}

var _ core.Recommender = (*CategoryCF)(nil)
