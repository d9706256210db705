package model

import (
	"github.com/rushteam/recmine/pkg/sparse"
)

// SnapshotVersion 是当前快照格式版本；加载时校验，不做跨版本迁移。
const SnapshotVersion = 1

// 模型种类标识，同时用作 ModelStore 的 key 后缀。
const (
	KindAssociation = "association"
	KindItemCF      = "item_cf"
	KindCategoryCF  = "category_cf"
	KindPopularity  = "popularity"
	KindTrending    = "trending"
)

// 快照是模型训练产出的不可变持久化单元：训练完成后写入一次，
// 评估与出数路径只读加载，写入后不再有任何就地修改。
// 每种模型的字段集固定且显式，替代无 schema 的二进制 blob。

// AssociationSnapshot 是关联规则模型的快照。
type AssociationSnapshot struct {
	Kind       string                `json:"kind"`
	Version    int                   `json:"version"`
	MinSupport int                   `json:"min_support"`
	ItemPairs  map[int64][]PairCount `json:"item_pairs"`
}

// ItemCFSnapshot 是物品协同过滤模型的快照。
// WeightedMatrix/ItemSimilarity 的行索引分别与 UserIDs/ItemIDs 对齐，
// 行内 key 是列索引（稀疏，零值不存）。
type ItemCFSnapshot struct {
	Kind           string            `json:"kind"`
	Version        int               `json:"version"`
	UserIDs        []int64           `json:"user_ids"`
	ItemIDs        []int64           `json:"item_ids"`
	WeightedMatrix []map[int]float64 `json:"weighted_matrix"`
	ItemSimilarity []map[int]float64 `json:"item_similarity"`
}

// CategoryCFSnapshot 是类目协同过滤模型的快照。
type CategoryCFSnapshot struct {
	Kind                 string            `json:"kind"`
	Version              int               `json:"version"`
	UserIDs              []int64           `json:"user_ids"`
	CategoryIDs          []int64           `json:"category_ids"`
	WeightedMatrix       []map[int]float64 `json:"weighted_matrix"`
	UserSimilarity       []map[int]float64 `json:"user_similarity"`
	CategoryPopularItems map[int64][]int64 `json:"category_popular_items"`
}

// PopularitySnapshot 是热门基线的快照。
type PopularitySnapshot struct {
	Kind            string            `json:"kind"`
	Version         int               `json:"version"`
	PopularItems    []int64           `json:"popular_items"`
	CategoryPopular map[int64][]int64 `json:"category_popular"`
}

// TrendingSnapshot 是趋势榜的快照。
type TrendingSnapshot struct {
	Kind             string            `json:"kind"`
	Version          int               `json:"version"`
	TrendingItems    []int64           `json:"trending_items"`
	CategoryTrending map[int64][]int64 `json:"category_trending"`
}

func matrixRows(m *sparse.Matrix) []map[int]float64 {
	rows := make([]map[int]float64, m.Rows())
	for i := 0; i < m.Rows(); i++ {
		rows[i] = m.Row(i)
	}
	return rows
}

func rebuildMatrix(rowIDs, colIDs []int64, rows []map[int]float64) *sparse.Matrix {
	return sparse.FromRows(rowIDs, colIDs, rows)
}
