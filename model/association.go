package model

import (
	"context"
	"sort"

	"github.com/rushteam/recmine/core"
	"github.com/rushteam/recmine/pkg/utils"
)

// AssociationModel 是基于购买篮共现的关联规则推荐（"买了 X 的人也买了 Y"）。
//
// 算法流程：
//  1. 按用户聚合购买事件为篮（Basket）
//  2. 对每个篮内的无序物品对 {A,B}，双向计数各 +1（每篮每对只计一次）
//  3. 过滤支持度低于 MinSupport 的方向对
//  4. 按源物品分组，组内按共现次数降序（同次数按首次发现顺序）
//
// 共现计数是对称的：count(A→B) == count(B→A)。
// 有方向的"先买 X 后买 Y"序列模式不在此模型表达。
type AssociationModel struct {
	// MinSupport 是保留一个方向对所需的最小共现篮数；<= 0 时取默认值 3
	MinSupport int

	pairs map[int64][]PairCount
}

// PairCount 是一条关联记录：关联物品及其共现篮数。
type PairCount struct {
	ItemID int64 `json:"item_id"`
	Count  int   `json:"count"`
}

func (m *AssociationModel) Name() string { return "association" }

type directedPair struct {
	a, b int64
}

// Train 从购买篮构建共现表。少于 2 个物品的篮被跳过。
func (m *AssociationModel) Train(baskets []core.Basket) {
	minSupport := m.MinSupport
	if minSupport <= 0 {
		minSupport = 3
	}

	counts := make(map[directedPair]int)
	order := make([]directedPair, 0) // 方向对的首次发现顺序，用于稳定破平

	for _, basket := range baskets {
		if len(basket) < 2 {
			continue
		}
		seen := make(map[directedPair]struct{}) // 同一篮内同一对只计一次
		for i := 0; i < len(basket); i++ {
			for j := i + 1; j < len(basket); j++ {
				a, b := basket[i], basket[j]
				if a == b {
					continue
				}
				ab := directedPair{a, b}
				if _, dup := seen[ab]; dup {
					continue
				}
				ba := directedPair{b, a}
				seen[ab] = struct{}{}
				seen[ba] = struct{}{}
				if _, known := counts[ab]; !known {
					order = append(order, ab, ba)
				}
				counts[ab]++
				counts[ba]++
			}
		}
	}

	pairs := make(map[int64][]PairCount)
	for _, d := range order {
		c := counts[d]
		if c < minSupport {
			continue
		}
		pairs[d.a] = append(pairs[d.a], PairCount{ItemID: d.b, Count: c})
	}
	for item := range pairs {
		list := pairs[item]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Count > list[j].Count
		})
	}
	m.pairs = pairs
}

// Recommend 返回与 item 最常共同购买的前 n 个物品。
// 未知物品返回空列表（冷启动约定，不是错误）。
func (m *AssociationModel) Recommend(itemID int64, n int) []*core.Item {
	list, ok := m.pairs[itemID]
	if !ok {
		return nil
	}
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	out := make([]*core.Item, 0, len(list))
	for _, p := range list {
		it := core.NewItem(p.ItemID)
		it.Score = float64(p.Count)
		it.PutLabel("recall_source", utils.Label{Value: m.Name(), Source: "model"})
		out = append(out, it)
	}
	return out
}

// RecommendForBasket 基于多个物品（如购物车）推荐：累加各物品关联表的共现分，
// 排除已在篮内的候选，按累积分降序（同分保持累加先后顺序）。
// 空篮或全部物品未知时返回空列表。
func (m *AssociationModel) RecommendForBasket(basket []int64, n int) []*core.Item {
	if len(basket) == 0 {
		return nil
	}
	inBasket := make(map[int64]struct{}, len(basket))
	for _, id := range basket {
		inBasket[id] = struct{}{}
	}

	scores := make(map[int64]float64)
	candidates := make([]int64, 0) // 首次出现顺序
	for _, id := range basket {
		for _, p := range m.pairs[id] {
			if _, own := inBasket[p.ItemID]; own {
				continue
			}
			if _, ok := scores[p.ItemID]; !ok {
				candidates = append(candidates, p.ItemID)
			}
			scores[p.ItemID] += float64(p.Count)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i]] > scores[candidates[j]]
	})
	if n > 0 && len(candidates) > n {
		candidates = candidates[:n]
	}

	out := make([]*core.Item, 0, len(candidates))
	for _, id := range candidates {
		it := core.NewItem(id)
		it.Score = scores[id]
		it.PutLabel("recall_source", utils.Label{Value: m.Name(), Source: "model"})
		out = append(out, it)
	}
	return out
}

// Snapshot 导出不可变快照。
func (m *AssociationModel) Snapshot() *AssociationSnapshot {
	minSupport := m.MinSupport
	if minSupport <= 0 {
		minSupport = 3
	}
	return &AssociationSnapshot{
		Kind:       KindAssociation,
		Version:    SnapshotVersion,
		MinSupport: minSupport,
		ItemPairs:  m.pairs,
	}
}

// LoadSnapshot 从快照恢复模型。
func (m *AssociationModel) LoadSnapshot(s *AssociationSnapshot) {
	m.MinSupport = s.MinSupport
	m.pairs = s.ItemPairs
}

// AssociationUserRecommender 把篮推荐适配成按用户出数的 Recommender，
// 用用户的训练期购买篮作为查询输入（评估路径使用）。
type AssociationUserRecommender struct {
	Model   *AssociationModel
	Baskets map[int64]core.Basket // 用户 -> 训练期购买篮
}

func (r *AssociationUserRecommender) Name() string { return r.Model.Name() }

func (r *AssociationUserRecommender) Recommend(_ context.Context, userID int64, n int) ([]*core.Item, error) {
	basket, ok := r.Baskets[userID]
	if !ok {
		return nil, nil
	}
	return r.Model.RecommendForBasket(basket, n), nil
}

var _ core.Recommender = (*AssociationUserRecommender)(nil)
