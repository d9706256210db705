package loader

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rushteam/recmine/core"
)

// PostgresLoader 从关系库读取训练/评估数据，实现 core.InteractionStore、
// core.HeldoutStore 与 core.FeatureStore。
//
// 依赖的表由上游 ETL 维护：
//   - train_set / test_set：按时间 80/20 切分的事件
//   - item_properties：物品属性（categoryid）
//   - user_features / item_features：特征生产方的预聚合
type PostgresLoader struct {
	pool *pgxpool.Pool
}

func NewPostgresLoader(ctx context.Context, dsn string) (*PostgresLoader, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres loader: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, core.NewDomainError(core.ModuleLoader, core.ErrorCodeUnavailable,
			fmt.Sprintf("postgres loader: ping: %v", err))
	}
	return &PostgresLoader{pool: pool}, nil
}

func (l *PostgresLoader) Close() {
	l.pool.Close()
}

// Interactions 返回训练集全部交互。未知事件类型保留原样，权重在模型侧归零。
func (l *PostgresLoader) Interactions(ctx context.Context) ([]core.Interaction, error) {
	const q = `
		SELECT visitorid, itemid, event, timestamp
		FROM train_set
		ORDER BY timestamp, visitorid, itemid`
	rows, err := l.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres loader: interactions: %w", err)
	}
	defer rows.Close()

	var out []core.Interaction
	for rows.Next() {
		var it core.Interaction
		var event string
		if err := rows.Scan(&it.UserID, &it.ItemID, &event, &it.Timestamp); err != nil {
			return nil, fmt.Errorf("postgres loader: interactions scan: %w", err)
		}
		it.Event = core.EventKind(event)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres loader: interactions rows: %w", err)
	}
	return out, nil
}

// PurchaseBaskets 把训练集的购买事件按用户聚成篮，篮内按时间排序。
func (l *PostgresLoader) PurchaseBaskets(ctx context.Context) ([]core.UserBasket, error) {
	const q = `
		SELECT visitorid, itemid
		FROM train_set
		WHERE event = 'transaction'
		ORDER BY visitorid, timestamp, itemid`
	rows, err := l.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres loader: purchase baskets: %w", err)
	}
	defer rows.Close()

	var baskets []core.UserBasket
	for rows.Next() {
		var userID, itemID int64
		if err := rows.Scan(&userID, &itemID); err != nil {
			return nil, fmt.Errorf("postgres loader: purchase baskets scan: %w", err)
		}
		if n := len(baskets); n > 0 && baskets[n-1].UserID == userID {
			baskets[n-1].Items = append(baskets[n-1].Items, itemID)
			continue
		}
		baskets = append(baskets, core.UserBasket{UserID: userID, Items: core.Basket{itemID}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres loader: purchase baskets rows: %w", err)
	}
	return baskets, nil
}

// ItemCategories 返回 item -> category 映射；同一物品取最新一条属性记录。
func (l *PostgresLoader) ItemCategories(ctx context.Context) (map[int64]int64, error) {
	const q = `
		SELECT DISTINCT ON (itemid) itemid, value::bigint
		FROM item_properties
		WHERE property = 'categoryid'
		ORDER BY itemid, timestamp DESC`
	rows, err := l.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres loader: item categories: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]int64)
	for rows.Next() {
		var itemID, categoryID int64
		if err := rows.Scan(&itemID, &categoryID); err != nil {
			return nil, fmt.Errorf("postgres loader: item categories scan: %w", err)
		}
		out[itemID] = categoryID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres loader: item categories rows: %w", err)
	}
	return out, nil
}

// HeldoutInteractions 返回留出集中每个用户的真值物品集合。
// 只取强意图事件（加购/购买），物品去重后按 ID 排序。
func (l *PostgresLoader) HeldoutInteractions(ctx context.Context) (map[int64][]int64, error) {
	const q = `
		SELECT DISTINCT visitorid, itemid
		FROM test_set
		WHERE event IN ('addtocart', 'transaction')`
	rows, err := l.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres loader: heldout: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]int64)
	for rows.Next() {
		var userID, itemID int64
		if err := rows.Scan(&userID, &itemID); err != nil {
			return nil, fmt.Errorf("postgres loader: heldout scan: %w", err)
		}
		out[userID] = append(out[userID], itemID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres loader: heldout rows: %w", err)
	}
	for _, items := range out {
		sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	}
	return out, nil
}

// FavoriteCategory 返回用户最偏好的类目；无记录时 ok=false（冷启动）。
func (l *PostgresLoader) FavoriteCategory(ctx context.Context, userID int64) (int64, bool, error) {
	const q = `
		SELECT favorite_category
		FROM user_features
		WHERE visitorid = $1 AND favorite_category IS NOT NULL`
	var categoryID int64
	err := l.pool.QueryRow(ctx, q, userID).Scan(&categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("postgres loader: favorite category: %w", err)
	}
	return categoryID, true, nil
}

// ItemFeatures 返回全部物品特征聚合。
func (l *PostgresLoader) ItemFeatures(ctx context.Context) ([]core.ItemFeature, error) {
	const q = `
		SELECT itemid, COALESCE(categoryid, 0), popularity_score, transactions
		FROM item_features
		ORDER BY itemid`
	rows, err := l.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres loader: item features: %w", err)
	}
	defer rows.Close()

	var out []core.ItemFeature
	for rows.Next() {
		var f core.ItemFeature
		if err := rows.Scan(&f.ItemID, &f.CategoryID, &f.PopularityScore, &f.Transactions); err != nil {
			return nil, fmt.Errorf("postgres loader: item features scan: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres loader: item features rows: %w", err)
	}
	return out, nil
}

var (
	_ core.InteractionStore = (*PostgresLoader)(nil)
	_ core.HeldoutStore     = (*PostgresLoader)(nil)
	_ core.FeatureStore     = (*PostgresLoader)(nil)
)
