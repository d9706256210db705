package model

import (
	"context"
	"strconv"

	"github.com/rushteam/recmine/core"
	"github.com/rushteam/recmine/pkg/topk"
	"github.com/rushteam/recmine/pkg/utils"
)

// PopularityModel 是带类目特化的热门基线。
//
//   - 全局榜：有成交记录的物品按预计算的 popularity_score 取 Top 100
//   - 类目榜：同一打分按类目分组取 Top 30
//
// 出数策略：已知用户偏好类目且类目榜非空时出类目榜，否则出全局榜。
// 无上下文的用户永远能拿到全局榜（全局榜为空时除外），冷启动友好。
type PopularityModel struct {
	// TopN 全局榜长度；<= 0 时取默认值 100
	TopN int

	// PerCategory 类目榜长度；<= 0 时取默认值 30
	PerCategory int

	// Features 用于出数时查询用户偏好类目；为 nil 时只出全局榜
	Features core.FeatureStore

	popular         []int64
	categoryPopular map[int64][]int64
}

func (m *PopularityModel) Name() string { return "popularity" }

// Train 从物品特征聚合构建全局榜与类目榜。
func (m *PopularityModel) Train(ctx context.Context, features core.FeatureStore) error {
	feats, err := features.ItemFeatures(ctx)
	if err != nil {
		return err
	}

	topN := m.TopN
	if topN <= 0 {
		topN = 100
	}
	perCategory := m.PerCategory
	if perCategory <= 0 {
		perCategory = 30
	}

	global := make([]topk.Scored, 0, len(feats))
	byCategory := make(map[int64][]topk.Scored)
	for _, f := range feats {
		if f.Transactions <= 0 {
			continue
		}
		s := topk.Scored{ID: f.ItemID, Score: f.PopularityScore}
		global = append(global, s)
		if f.CategoryID != 0 {
			byCategory[f.CategoryID] = append(byCategory[f.CategoryID], s)
		}
	}

	m.popular = scoredIDs(topk.Top(global, topN))
	m.categoryPopular = make(map[int64][]int64, len(byCategory))
	for cat, scored := range byCategory {
		m.categoryPopular[cat] = scoredIDs(topk.Top(scored, perCategory))
	}
	return nil
}

// Recommend 为用户出热门推荐。
// 偏好类目未知、或其类目榜为空时回退到全局榜，而不是返回空列表。
func (m *PopularityModel) Recommend(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	list := m.popular
	source := "global"

	if m.Features != nil && userID != 0 {
		cat, ok, err := m.Features.FavoriteCategory(ctx, userID)
		if err != nil {
			return nil, err
		}
		if ok {
			if catList, has := m.categoryPopular[cat]; has && len(catList) > 0 {
				list = catList
				source = "category:" + strconv.FormatInt(cat, 10)
			}
		}
	}

	return m.toItems(firstN(list, n), source), nil
}

func (m *PopularityModel) toItems(ids []int64, source string) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for rank, id := range ids {
		it := core.NewItem(id)
		it.Score = float64(len(ids) - rank) // 名次分，越靠前越高
		it.PutLabel("recall_source", utils.Label{Value: m.Name(), Source: "model"})
		it.PutLabel("popularity_list", utils.Label{Value: source, Source: "model"})
		out = append(out, it)
	}
	return out
}

// Publish 把全局榜写入有序集合，供在线热门召回按 ZRange 读取。
// 分数为名次分（榜首最高），与快照内容解耦。
func (m *PopularityModel) Publish(ctx context.Context, kv core.KeyValueStore, key string) error {
	for rank, id := range m.popular {
		score := float64(len(m.popular) - rank)
		if err := kv.ZAdd(ctx, key, score, strconv.FormatInt(id, 10)); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot 导出不可变快照。
func (m *PopularityModel) Snapshot() *PopularitySnapshot {
	return &PopularitySnapshot{
		Kind:            KindPopularity,
		Version:         SnapshotVersion,
		PopularItems:    m.popular,
		CategoryPopular: m.categoryPopular,
	}
}

// LoadSnapshot 从快照恢复模型。
func (m *PopularityModel) LoadSnapshot(s *PopularitySnapshot) {
	m.popular = s.PopularItems
	m.categoryPopular = s.CategoryPopular
}

func scoredIDs(scored []topk.Scored) []int64 {
	out := make([]int64, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.ID)
	}
	return out
}

var _ core.Recommender = (*PopularityModel)(nil)
