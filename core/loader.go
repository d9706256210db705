package core

import "context"

// InteractionStore 是交互数据装载的领域接口，屏蔽 ETL 侧关系表的细节。
// 训练路径只读：events/train_set 由上游数据管道维护。
//
// 实现：
//   - loader.PostgresLoader（线上，pgx 连接池）
//   - loader.MemoryLoader（测试/原型）
type InteractionStore interface {
	// Interactions 返回训练集的全部交互记录
	Interactions(ctx context.Context) ([]Interaction, error)

	// PurchaseBaskets 返回按用户分组、按时间排序的购买篮（按 userID 排序，保证确定性）
	PurchaseBaskets(ctx context.Context) ([]UserBasket, error)

	// ItemCategories 返回 item -> category 映射（categoryid 为空的物品不出现）
	ItemCategories(ctx context.Context) (map[int64]int64, error)
}

// HeldoutStore 提供离线评估用的留出集（时间切分的后 20%）。
// 只保留强意图事件（加购/购买）作为真值。
type HeldoutStore interface {
	// HeldoutInteractions 返回留出集中每个用户的真值物品集合
	HeldoutInteractions(ctx context.Context) (map[int64][]int64, error)
}
