// Package recmine 是一个离线推荐挖掘与评估工具包（Recommendation Miner）。
//
// 设计要点：
// - Snapshot-first: 训练产出不可变快照（JSON），评估与出数只读加载
// - 多策略并排: 关联规则 / 物品 CF / 类目 CF / 热门 / 趋势共用同一评估口径
// - 统一口径: Hit-Rate@K、Precision@K、Coverage 加卡方显著性检验
package recmine

import "github.com/rushteam/recmine/core"

// 轻量 facade：便于用户直接 import "recmine" 使用核心抽象。
type Recommender = core.Recommender
type Interaction = core.Interaction
type Item = core.Item

const (
	EventView      = core.EventView
	EventAddToCart = core.EventAddToCart
	EventPurchase  = core.EventPurchase
)
