package model

import (
	"context"
	"testing"

	"github.com/rushteam/recmine/core"
)

func TestTrendingModel_WindowAndRecency(t *testing.T) {
	// 时间范围 [0, 100]，窗口从 80 分位点开始：
	// ts=0 的爆量物品 1 被排除，窗口内的物品 2、3 按衰减分排序
	interactions := []core.Interaction{
		{UserID: 1, ItemID: 1, Event: core.EventPurchase, Timestamp: 0},
		{UserID: 2, ItemID: 1, Event: core.EventPurchase, Timestamp: 0},
		{UserID: 1, ItemID: 2, Event: core.EventPurchase, Timestamp: 90},
		{UserID: 2, ItemID: 3, Event: core.EventPurchase, Timestamp: 100},
	}

	m := &TrendingModel{MinScore: 1}
	if err := m.Train(context.Background(), interactions, map[int64]int64{1: 10, 2: 10, 3: 20}); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	// 物品 3 在 ts=100（新近因子 1.0）胜过物品 2 在 ts=90（0.9）
	want := []int64{3, 2}
	if len(m.trending) != len(want) {
		t.Fatalf("trending = %v, want %v", m.trending, want)
	}
	for i := range want {
		if m.trending[i] != want[i] {
			t.Fatalf("trending = %v, want %v", m.trending, want)
		}
	}

	if got := m.categoryTrending[10]; len(got) != 1 || got[0] != 2 {
		t.Fatalf("categoryTrending[10] = %v, want [2]", got)
	}
	if got := m.categoryTrending[20]; len(got) != 1 || got[0] != 3 {
		t.Fatalf("categoryTrending[20] = %v, want [3]", got)
	}
}

func TestTrendingModel_MinScoreFilter(t *testing.T) {
	// 窗口内单次浏览（未衰减权重和 1）低于默认阈值 10
	interactions := []core.Interaction{
		{UserID: 1, ItemID: 1, Event: core.EventView, Timestamp: 100},
	}

	m := &TrendingModel{}
	if err := m.Train(context.Background(), interactions, nil); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if len(m.trending) != 0 {
		t.Fatalf("trending = %v, want empty (below min score)", m.trending)
	}
}

func TestTrendingModel_SingleInstant(t *testing.T) {
	// 所有事件同一时刻：时间跨度为零，新近因子退化为 1，不得出现 NaN
	interactions := []core.Interaction{
		{UserID: 1, ItemID: 1, Event: core.EventPurchase, Timestamp: 50},
		{UserID: 2, ItemID: 1, Event: core.EventPurchase, Timestamp: 50},
		{UserID: 3, ItemID: 1, Event: core.EventPurchase, Timestamp: 50},
	}

	m := &TrendingModel{MinScore: 1}
	if err := m.Train(context.Background(), interactions, nil); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if len(m.trending) != 1 || m.trending[0] != 1 {
		t.Fatalf("trending = %v, want [1]", m.trending)
	}
}

func TestTrendingModel_EmptyInput(t *testing.T) {
	m := &TrendingModel{}
	if err := m.Train(context.Background(), nil, nil); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	items, err := m.Recommend(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("Recommend() = %v, want empty", itemIDs(items))
	}
}

func TestTrendingModel_FavoriteCategoryList(t *testing.T) {
	interactions := []core.Interaction{
		{UserID: 1, ItemID: 1, Event: core.EventPurchase, Timestamp: 100},
		{UserID: 1, ItemID: 2, Event: core.EventPurchase, Timestamp: 100},
	}
	features := &stubFeatures{favorites: map[int64]int64{7: 20}}

	m := &TrendingModel{MinScore: 1, Features: features}
	if err := m.Train(context.Background(), interactions, map[int64]int64{1: 10, 2: 20}); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	items, err := m.Recommend(context.Background(), 7, 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	got := itemIDs(items)
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("Recommend(favorite 20) = %v, want [2]", got)
	}

	// 未知用户：全局榜
	items, err = m.Recommend(context.Background(), 42, 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := itemIDs(items); len(got) != 2 {
		t.Fatalf("Recommend(global) = %v, want both items", got)
	}
}

func TestTrendingModel_SnapshotRoundtrip(t *testing.T) {
	interactions := []core.Interaction{
		{UserID: 1, ItemID: 1, Event: core.EventPurchase, Timestamp: 100},
	}

	m := &TrendingModel{MinScore: 1}
	if err := m.Train(context.Background(), interactions, map[int64]int64{1: 10}); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	restored := &TrendingModel{}
	restored.LoadSnapshot(m.Snapshot())

	items, err := restored.Recommend(context.Background(), 0, 5)
	if err != nil {
		t.Fatalf("restored Recommend() error = %v", err)
	}
	if got := itemIDs(items); len(got) != 1 || got[0] != 1 {
		t.Fatalf("restored Recommend() = %v, want [1]", got)
	}
}
