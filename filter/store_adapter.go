package filter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/recmine/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
// 黑名单与交互历史都存为 JSON 编码的 int64 列表。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBlacklist 从 Store 读取黑名单。
func (a *StoreAdapter) GetBlacklist(ctx context.Context, key string) ([]int64, error) {
	return a.readIDs(ctx, key)
}

// GetSeenItems 从 Store 读取用户交互历史。
func (a *StoreAdapter) GetSeenItems(ctx context.Context, keyPrefix string, userID int64) ([]int64, error) {
	return a.readIDs(ctx, fmt.Sprintf("%s:%d", keyPrefix, userID))
}

func (a *StoreAdapter) readIDs(ctx context.Context, key string) ([]int64, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("filter: decode id list at %q: %w", key, err)
	}
	return ids, nil
}

var (
	_ BlacklistStore = (*StoreAdapter)(nil)
	_ SeenStore      = (*StoreAdapter)(nil)
)
