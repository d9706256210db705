package filter

import (
	"context"

	"github.com/rushteam/recmine/core"
)

// SeenFilter 过滤掉用户在训练期已经交互过的物品。
// 推荐已买过/看过的东西会虚高命中率，评估前统一剔除。
//
// 交互历史来源二选一：内存映射（评估批量路径）或 Store
// （key 为 {KeyPrefix}:{userID} 的 JSON ID 列表）。
type SeenFilter struct {
	// Seen 是内存中的 user -> 已交互物品集合
	Seen map[int64][]int64

	// Store 用于从存储中读取交互历史（可选）
	Store SeenStore

	// KeyPrefix 是 Store 中的 key 前缀，默认 "user:seen"
	KeyPrefix string
}

// SeenStore 是用户交互历史存储接口。
type SeenStore interface {
	// GetSeenItems 获取用户已交互的物品 ID 列表
	GetSeenItems(ctx context.Context, keyPrefix string, userID int64) ([]int64, error)
}

// NewSeenFilter 从内存映射创建已交互过滤器。
func NewSeenFilter(seen map[int64][]int64) *SeenFilter {
	return &SeenFilter{Seen: seen}
}

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

func (f *SeenFilter) ShouldFilter(ctx context.Context, userID int64, item *core.Item) (bool, error) {
	if item == nil {
		return true, nil
	}

	for _, id := range f.Seen[userID] {
		if item.ID == id {
			return true, nil
		}
	}

	if f.Store != nil {
		prefix := f.KeyPrefix
		if prefix == "" {
			prefix = "user:seen"
		}
		ids, err := f.Store.GetSeenItems(ctx, prefix, userID)
		if err != nil {
			if core.IsStoreNotFound(err) {
				return false, nil
			}
			return false, err
		}
		for _, id := range ids {
			if item.ID == id {
				return true, nil
			}
		}
	}

	return false, nil
}

var _ Filter = (*SeenFilter)(nil)
