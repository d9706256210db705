package model

import (
	"context"

	"github.com/rushteam/recmine/core"
	"github.com/rushteam/recmine/pkg/sparse"
	"github.com/rushteam/recmine/pkg/topk"
	"github.com/rushteam/recmine/pkg/utils"
)

// ItemCF 是基于物品的协同过滤（Item-based Collaborative Filtering, i2i）。
//
// 核心思想："被同一批用户喜欢的物品，相互相似"
//
// 算法流程：
//  1. 交互事件按隐式评分加权（view=1 / addtocart=3 / transaction=5），
//     按 (user, item) 求和，得到稀疏的用户×物品矩阵
//  2. 在矩阵列方向计算物品-物品余弦相似度（对称、稀疏）
//  3. 对用户历史物品累加相似度行，剔除已交互物品后取 TopN
//
// 非负输入下相似度落在 [0,1]；累积分非正的候选一律不出。
type ItemCF struct {
	matrix  *sparse.Matrix      // 用户×物品加权交互矩阵
	itemSim []map[int]float64   // 物品相似度，索引与矩阵列对齐
}

func (m *ItemCF) Name() string { return "item_cf" }

// BuildMatrix 把交互记录聚合成用户×物品加权矩阵。
// 行列编号保持数据源顺序，重复 (user, item) 的权重求和。
func (m *ItemCF) BuildMatrix(interactions []core.Interaction) {
	mat := sparse.NewMatrix()
	for _, in := range interactions {
		w := in.Event.Weight()
		if w == 0 {
			continue
		}
		mat.Add(in.UserID, in.ItemID, w)
	}
	m.matrix = mat
}

// Train 计算物品-物品余弦相似度。
// 相似度是一次性批量计算，调用方应通过 ctx 设置截止时间。
func (m *ItemCF) Train(ctx context.Context) error {
	if m.matrix == nil {
		m.matrix = sparse.NewMatrix()
	}
	sim, err := sparse.RowSimilarity(ctx, m.matrix.Transpose())
	if err != nil {
		return err
	}
	m.itemSim = sim
	return nil
}

// Recommend 为用户生成推荐。
// 未知用户或无正权重交互的用户返回空列表（冷启动约定）。
func (m *ItemCF) Recommend(_ context.Context, userID int64, n int) ([]*core.Item, error) {
	if m.matrix == nil {
		return nil, nil
	}
	ui, ok := m.matrix.RowIndex(userID)
	if !ok {
		return nil, nil
	}
	userRow := m.matrix.Row(ui)

	owned := make(map[int]struct{}, len(userRow))
	for ci, w := range userRow {
		if w > 0 {
			owned[ci] = struct{}{}
		}
	}
	if len(owned) == 0 {
		return nil, nil
	}

	// 对用户每个历史物品，把它的相似度行累加进候选分
	scores := make(map[int]float64)
	for ci := range owned {
		for cj, s := range m.itemSim[ci] {
			if _, own := owned[cj]; own {
				continue
			}
			scores[cj] += s
		}
	}

	scored := make([]topk.Scored, 0, len(scores))
	for cj, s := range scores {
		if s <= 0 {
			continue
		}
		scored = append(scored, topk.Scored{ID: m.matrix.ColID(cj), Score: s})
	}
	scored = topk.Top(scored, n)

	out := make([]*core.Item, 0, len(scored))
	for _, s := range scored {
		it := core.NewItem(s.ID)
		it.Score = s.Score
		it.PutLabel("recall_source", utils.Label{Value: m.Name(), Source: "model"})
		out = append(out, it)
	}
	return out, nil
}

// Snapshot 导出不可变快照。
func (m *ItemCF) Snapshot() *ItemCFSnapshot {
	return &ItemCFSnapshot{
		Kind:           KindItemCF,
		Version:        SnapshotVersion,
		UserIDs:        m.matrix.RowIDs(),
		ItemIDs:        m.matrix.ColIDs(),
		WeightedMatrix: matrixRows(m.matrix),
		ItemSimilarity: m.itemSim,
	}
}

// LoadSnapshot 从快照恢复模型。
func (m *ItemCF) LoadSnapshot(s *ItemCFSnapshot) {
	m.matrix = rebuildMatrix(s.UserIDs, s.ItemIDs, s.WeightedMatrix)
	m.itemSim = s.ItemSimilarity
}

var _ core.Recommender = (*ItemCF)(nil)
