package loader

import (
	"context"
	"sort"

	"github.com/rushteam/recmine/core"
)

// MemoryLoader 用内存中的交互/特征数据实现装载接口，用于测试与示例。
// 购买篮、留出集等派生视图从 Interactions/Heldout 字段即时推导。
type MemoryLoader struct {
	Data       []core.Interaction
	Categories map[int64]int64      // item -> category
	Heldout    []core.Interaction   // 评估留出集（原始事件，取强意图去重）
	Features   []core.ItemFeature   // 物品特征聚合
	Favorites  map[int64]int64      // user -> favorite category
}

func (l *MemoryLoader) Interactions(_ context.Context) ([]core.Interaction, error) {
	return l.Data, nil
}

func (l *MemoryLoader) PurchaseBaskets(_ context.Context) ([]core.UserBasket, error) {
	byUser := make(map[int64]core.Basket)
	var order []int64
	for _, it := range l.Data {
		if it.Event != core.EventPurchase {
			continue
		}
		if _, ok := byUser[it.UserID]; !ok {
			order = append(order, it.UserID)
		}
		byUser[it.UserID] = append(byUser[it.UserID], it.ItemID)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	baskets := make([]core.UserBasket, 0, len(order))
	for _, userID := range order {
		baskets = append(baskets, core.UserBasket{UserID: userID, Items: byUser[userID]})
	}
	return baskets, nil
}

func (l *MemoryLoader) ItemCategories(_ context.Context) (map[int64]int64, error) {
	return l.Categories, nil
}

func (l *MemoryLoader) HeldoutInteractions(_ context.Context) (map[int64][]int64, error) {
	seen := make(map[int64]map[int64]bool)
	out := make(map[int64][]int64)
	for _, it := range l.Heldout {
		if it.Event != core.EventAddToCart && it.Event != core.EventPurchase {
			continue
		}
		if seen[it.UserID] == nil {
			seen[it.UserID] = make(map[int64]bool)
		}
		if seen[it.UserID][it.ItemID] {
			continue
		}
		seen[it.UserID][it.ItemID] = true
		out[it.UserID] = append(out[it.UserID], it.ItemID)
	}
	for _, items := range out {
		sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	}
	return out, nil
}

func (l *MemoryLoader) FavoriteCategory(_ context.Context, userID int64) (int64, bool, error) {
	categoryID, ok := l.Favorites[userID]
	return categoryID, ok, nil
}

func (l *MemoryLoader) ItemFeatures(_ context.Context) ([]core.ItemFeature, error) {
	return l.Features, nil
}

var (
	_ core.InteractionStore = (*MemoryLoader)(nil)
	_ core.HeldoutStore     = (*MemoryLoader)(nil)
	_ core.FeatureStore     = (*MemoryLoader)(nil)
)
