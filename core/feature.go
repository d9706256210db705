package core

import "context"

// ItemFeature 是特征生产方预计算的物品聚合，popularity 模型的输入。
type ItemFeature struct {
	ItemID          int64
	CategoryID      int64 // 0 表示无类目
	PopularityScore float64
	Transactions    int64
}

// FeatureStore 是用户/物品特征的只读领域接口。
// user_features / item_features 表由特征生成方维护，此处只消费。
//
// 实现：
//   - loader.PostgresLoader（批量，关系表）
//   - feature.FeastStore（在线，Feast Feature Server；仅支持用户特征）
type FeatureStore interface {
	// FavoriteCategory 返回用户最偏好的类目；无记录时 ok 为 false（冷启动，不是错误）
	FavoriteCategory(ctx context.Context, userID int64) (categoryID int64, ok bool, err error)

	// ItemFeatures 返回全部物品特征聚合
	ItemFeatures(ctx context.Context) ([]ItemFeature, error)
}
