package filter

import (
	"context"

	"github.com/rushteam/recmine/core"
)

// Filter 是过滤器的抽象接口，用于判断一个 Item 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
// 评估路径用它在打分之后、算指标之前清洗候选列表。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, userID int64, item *core.Item) (bool, error)
}

// Apply 依次应用过滤器，返回保留下来的 item（保持原有顺序）。
func Apply(ctx context.Context, filters []Filter, userID int64, items []*core.Item) ([]*core.Item, error) {
	if len(filters) == 0 {
		return items, nil
	}
	kept := make([]*core.Item, 0, len(items))
next:
	for _, item := range items {
		for _, f := range filters {
			drop, err := f.ShouldFilter(ctx, userID, item)
			if err != nil {
				return nil, err
			}
			if drop {
				continue next
			}
		}
		kept = append(kept, item)
	}
	return kept, nil
}
