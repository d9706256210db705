package core

import "context"

// Recommender 是按用户出推荐列表的统一契约。
// 离线评估与在线出数走同一个实现，保证指标反映真实出数行为。
//
// 冷启动约定：未知用户返回空列表和 nil 错误，而不是报错。
type Recommender interface {
	Name() string
	Recommend(ctx context.Context, userID int64, n int) ([]*Item, error)
}
