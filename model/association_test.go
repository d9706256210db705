package model

import (
	"context"
	"testing"

	"github.com/rushteam/recmine/core"
)

func itemIDs(items []*core.Item) []int64 {
	return core.ItemIDs(items)
}

func TestAssociationModel_Train(t *testing.T) {
	m := &AssociationModel{MinSupport: 2}
	m.Train([]core.Basket{
		{1, 2, 3},
		{1, 2},
		{4, 5},
	})

	// {1,2} 共现 2 次达到支持度，其余对只有 1 次
	got := itemIDs(m.Recommend(1, 5))
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("Recommend(1) = %v, want [2]", got)
	}

	// 共现计数对称
	got = itemIDs(m.Recommend(2, 5))
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("Recommend(2) = %v, want [1]", got)
	}
	if s := m.Recommend(2, 5)[0].Score; s != 2 {
		t.Fatalf("pair count = %v, want 2", s)
	}

	// 未达支持度的物品没有任何关联
	if got := m.Recommend(4, 5); len(got) != 0 {
		t.Fatalf("Recommend(4) = %v, want empty", itemIDs(got))
	}
}

func TestAssociationModel_UnknownItem(t *testing.T) {
	m := &AssociationModel{MinSupport: 1}
	m.Train([]core.Basket{{1, 2}})

	if got := m.Recommend(99, 5); len(got) != 0 {
		t.Fatalf("Recommend(99) = %v, want empty", itemIDs(got))
	}
}

func TestAssociationModel_SingletonBasketsIgnored(t *testing.T) {
	m := &AssociationModel{MinSupport: 1}
	m.Train([]core.Basket{{1}, {2}, {3}})

	for _, id := range []int64{1, 2, 3} {
		if got := m.Recommend(id, 5); len(got) != 0 {
			t.Fatalf("Recommend(%d) = %v, want empty", id, itemIDs(got))
		}
	}
}

func TestAssociationModel_DuplicatePairCountedOncePerBasket(t *testing.T) {
	m := &AssociationModel{MinSupport: 1}
	m.Train([]core.Basket{{1, 2, 1, 2}})

	items := m.Recommend(1, 5)
	if len(items) != 1 || items[0].Score != 1 {
		t.Fatalf("Recommend(1) = %v, want single pair with count 1", items)
	}
}

func TestAssociationModel_RecommendForBasket(t *testing.T) {
	m := &AssociationModel{MinSupport: 1}
	m.Train([]core.Basket{
		{1, 3},
		{2, 3},
		{1, 4},
	})

	// 候选 3 从 1 和 2 各得 1 分，4 只从 1 得 1 分；篮内物品被排除
	got := itemIDs(m.RecommendForBasket([]int64{1, 2}, 5))
	want := []int64{3, 4}
	if len(got) != len(want) {
		t.Fatalf("RecommendForBasket() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RecommendForBasket() = %v, want %v", got, want)
		}
	}

	if got := m.RecommendForBasket(nil, 5); got != nil {
		t.Fatalf("RecommendForBasket(nil) = %v, want nil", itemIDs(got))
	}
}

func TestAssociationModel_SnapshotRoundtrip(t *testing.T) {
	m := &AssociationModel{MinSupport: 1}
	m.Train([]core.Basket{{1, 2}, {1, 2}, {2, 3}})

	snap := m.Snapshot()
	if snap.Kind != KindAssociation || snap.Version != SnapshotVersion {
		t.Fatalf("snapshot header = %s/%d", snap.Kind, snap.Version)
	}

	restored := &AssociationModel{}
	restored.LoadSnapshot(snap)

	want := itemIDs(m.Recommend(2, 5))
	got := itemIDs(restored.Recommend(2, 5))
	if len(got) != len(want) {
		t.Fatalf("restored Recommend(2) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("restored Recommend(2) = %v, want %v", got, want)
		}
	}
}

func TestAssociationUserRecommender(t *testing.T) {
	m := &AssociationModel{MinSupport: 1}
	m.Train([]core.Basket{{1, 2}, {2, 3}})

	rec := &AssociationUserRecommender{
		Model:   m,
		Baskets: map[int64]core.Basket{7: {1}},
	}

	items, err := rec.Recommend(context.Background(), 7, 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := itemIDs(items); len(got) != 1 || got[0] != 2 {
		t.Fatalf("Recommend(user 7) = %v, want [2]", got)
	}

	// 无训练期购买篮的用户：空结果，不是错误
	items, err = rec.Recommend(context.Background(), 42, 5)
	if err != nil || len(items) != 0 {
		t.Fatalf("Recommend(user 42) = %v, %v; want empty, nil", items, err)
	}
}
