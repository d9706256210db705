package model

import (
	"context"
	"strconv"

	"github.com/rushteam/recmine/core"
	"github.com/rushteam/recmine/pkg/topk"
	"github.com/rushteam/recmine/pkg/utils"
)

// TrendingModel 是时间衰减的趋势榜：只看数据集尾部时间窗内的事件，
// 且越新的事件权重越高。
//
// 打分规则：
//   - 时间窗：[cutoff, max_ts]，cutoff 取整个时间范围的 80 分位点
//   - 事件分 = 事件权重(1/3/5) × 线性新近因子 (ts - min_ts)/(max_ts - min_ts)
//   - 按物品求和得趋势分；事件权重的未衰减和 <= MinScore 的物品被过滤（噪声）
//   - 全局取 Top 100，按类目取 Top 20
//
// 单一时刻数据集（max_ts == min_ts）时新近因子退化为常数 1，除法有保护。
type TrendingModel struct {
	// TopN 全局榜长度；<= 0 时取默认值 100
	TopN int

	// PerCategory 类目榜长度；<= 0 时取默认值 20
	PerCategory int

	// MinScore 物品进榜所需的未衰减事件权重和（严格大于）；<= 0 时取默认值 10
	MinScore float64

	// Features 用于出数时查询用户偏好类目；为 nil 时只出全局榜
	Features core.FeatureStore

	trending         []int64
	categoryTrending map[int64][]int64
}

func (m *TrendingModel) Name() string { return "trending" }

// Train 从交互事件计算全局与类目趋势榜。
// 空事件集不是错误：榜单为空，出数返回空列表。
func (m *TrendingModel) Train(_ context.Context, interactions []core.Interaction, categories map[int64]int64) error {
	if len(interactions) == 0 {
		m.trending = nil
		m.categoryTrending = map[int64][]int64{}
		return nil
	}

	topN := m.TopN
	if topN <= 0 {
		topN = 100
	}
	perCategory := m.PerCategory
	if perCategory <= 0 {
		perCategory = 20
	}
	minScore := m.MinScore
	if minScore <= 0 {
		minScore = 10
	}

	minTS, maxTS := interactions[0].Timestamp, interactions[0].Timestamp
	for _, in := range interactions {
		if in.Timestamp < minTS {
			minTS = in.Timestamp
		}
		if in.Timestamp > maxTS {
			maxTS = in.Timestamp
		}
	}
	span := maxTS - minTS
	cutoff := float64(minTS) + float64(span)*0.8

	weighted := make(map[int64]float64) // 物品 -> 衰减后的趋势分
	raw := make(map[int64]float64)      // 物品 -> 未衰减的事件权重和（噪声过滤）
	catWeighted := make(map[int64]map[int64]float64)
	catRaw := make(map[int64]map[int64]float64)

	for _, in := range interactions {
		if float64(in.Timestamp) < cutoff {
			continue
		}
		w := in.Event.Weight()
		if w == 0 {
			continue
		}
		recency := 1.0
		if span > 0 {
			recency = float64(in.Timestamp-minTS) / float64(span)
		}
		weighted[in.ItemID] += w * recency
		raw[in.ItemID] += w

		if cat, ok := categories[in.ItemID]; ok {
			if catWeighted[cat] == nil {
				catWeighted[cat] = make(map[int64]float64)
				catRaw[cat] = make(map[int64]float64)
			}
			catWeighted[cat][in.ItemID] += w * recency
			catRaw[cat][in.ItemID] += w
		}
	}

	m.trending = rankTrending(weighted, raw, minScore, topN)
	m.categoryTrending = make(map[int64][]int64, len(catWeighted))
	for cat, scores := range catWeighted {
		if items := rankTrending(scores, catRaw[cat], minScore, perCategory); len(items) > 0 {
			m.categoryTrending[cat] = items
		}
	}
	return nil
}

func rankTrending(weighted, raw map[int64]float64, minScore float64, n int) []int64 {
	scored := make([]topk.Scored, 0, len(weighted))
	for itemID, s := range weighted {
		if raw[itemID] <= minScore {
			continue
		}
		scored = append(scored, topk.Scored{ID: itemID, Score: s})
	}
	return scoredIDs(topk.Top(scored, n))
}

// Recommend 为用户出趋势推荐；偏好类目已知且类目榜非空时出类目榜，否则全局榜。
func (m *TrendingModel) Recommend(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	list := m.trending
	source := "global"

	if m.Features != nil && userID != 0 {
		cat, ok, err := m.Features.FavoriteCategory(ctx, userID)
		if err != nil {
			return nil, err
		}
		if ok {
			if catList, has := m.categoryTrending[cat]; has && len(catList) > 0 {
				list = catList
				source = "category:" + strconv.FormatInt(cat, 10)
			}
		}
	}

	return m.toItems(firstN(list, n), source), nil
}

// RecommendCategory 按类目出趋势榜；类目无榜时回退全局榜。
func (m *TrendingModel) RecommendCategory(categoryID int64, n int) []*core.Item {
	if list, ok := m.categoryTrending[categoryID]; ok && len(list) > 0 {
		return m.toItems(firstN(list, n), "category:"+strconv.FormatInt(categoryID, 10))
	}
	return m.toItems(firstN(m.trending, n), "global")
}

func (m *TrendingModel) toItems(ids []int64, source string) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for rank, id := range ids {
		it := core.NewItem(id)
		it.Score = float64(len(ids) - rank)
		it.PutLabel("recall_source", utils.Label{Value: m.Name(), Source: "model"})
		it.PutLabel("trending_list", utils.Label{Value: source, Source: "model"})
		out = append(out, it)
	}
	return out
}

// Publish 把全局趋势榜写入有序集合，供在线召回按 ZRange 读取。
func (m *TrendingModel) Publish(ctx context.Context, kv core.KeyValueStore, key string) error {
	for rank, id := range m.trending {
		score := float64(len(m.trending) - rank)
		if err := kv.ZAdd(ctx, key, score, strconv.FormatInt(id, 10)); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot 导出不可变快照。
func (m *TrendingModel) Snapshot() *TrendingSnapshot {
	return &TrendingSnapshot{
		Kind:             KindTrending,
		Version:          SnapshotVersion,
		TrendingItems:    m.trending,
		CategoryTrending: m.categoryTrending,
	}
}

// LoadSnapshot 从快照恢复模型。
func (m *TrendingModel) LoadSnapshot(s *TrendingSnapshot) {
	m.trending = s.TrendingItems
	m.categoryTrending = s.CategoryTrending
}

var _ core.Recommender = (*TrendingModel)(nil)
