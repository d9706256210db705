package model

import (
	"context"
	"testing"

	"github.com/rushteam/recmine/core"
	"github.com/rushteam/recmine/store"
)

// stubFeatures 是测试用的特征源：固定的物品聚合与用户偏好类目。
type stubFeatures struct {
	items     []core.ItemFeature
	favorites map[int64]int64
}

func (s *stubFeatures) FavoriteCategory(_ context.Context, userID int64) (int64, bool, error) {
	cat, ok := s.favorites[userID]
	return cat, ok, nil
}

func (s *stubFeatures) ItemFeatures(_ context.Context) ([]core.ItemFeature, error) {
	return s.items, nil
}

func testFeatures() *stubFeatures {
	return &stubFeatures{
		items: []core.ItemFeature{
			{ItemID: 1, CategoryID: 100, PopularityScore: 9, Transactions: 10},
			{ItemID: 2, CategoryID: 100, PopularityScore: 7, Transactions: 5},
			{ItemID: 3, CategoryID: 200, PopularityScore: 8, Transactions: 3},
			{ItemID: 4, CategoryID: 200, PopularityScore: 6, Transactions: 0}, // 无成交，不进榜
			{ItemID: 5, CategoryID: 0, PopularityScore: 5, Transactions: 2},   // 无类目，只进全局榜
		},
		favorites: map[int64]int64{
			7: 200, // 偏好类目有榜
			8: 999, // 偏好类目无榜：回退全局
		},
	}
}

func trainPopularity(t *testing.T, features core.FeatureStore) *PopularityModel {
	t.Helper()
	m := &PopularityModel{Features: features}
	if err := m.Train(context.Background(), features); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return m
}

func TestPopularityModel_GlobalRanking(t *testing.T) {
	m := trainPopularity(t, testFeatures())

	want := []int64{1, 3, 2, 5}
	if len(m.popular) != len(want) {
		t.Fatalf("popular = %v, want %v", m.popular, want)
	}
	for i := range want {
		if m.popular[i] != want[i] {
			t.Fatalf("popular = %v, want %v", m.popular, want)
		}
	}
	if _, ok := m.categoryPopular[0]; ok {
		t.Fatal("category 0 must not have a ranking")
	}
}

func TestPopularityModel_FavoriteCategory(t *testing.T) {
	m := trainPopularity(t, testFeatures())

	items, err := m.Recommend(context.Background(), 7, 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	got := itemIDs(items)
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("Recommend(user with favorite 200) = %v, want [3]", got)
	}
}

func TestPopularityModel_FallbackToGlobal(t *testing.T) {
	m := trainPopularity(t, testFeatures())

	tests := []struct {
		name   string
		userID int64
	}{
		{name: "favorite category has no ranking", userID: 8},
		{name: "user without favorite category", userID: 42},
		{name: "anonymous user", userID: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := m.Recommend(context.Background(), tt.userID, 2)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			got := itemIDs(items)
			if len(got) != 2 || got[0] != 1 || got[1] != 3 {
				t.Fatalf("Recommend() = %v, want [1 3] (global head)", got)
			}
		})
	}
}

func TestPopularityModel_Publish(t *testing.T) {
	m := trainPopularity(t, testFeatures())

	kv := store.NewMemoryStore()
	defer kv.Close()

	ctx := context.Background()
	if err := m.Publish(ctx, kv, "rank:popular"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	members, err := kv.ZRange(ctx, "rank:popular", 0, 1)
	if err != nil {
		t.Fatalf("ZRange() error = %v", err)
	}
	if len(members) != 2 || members[0] != "1" || members[1] != "3" {
		t.Fatalf("ZRange() = %v, want [1 3]", members)
	}

	score, err := kv.ZScore(ctx, "rank:popular", "1")
	if err != nil {
		t.Fatalf("ZScore() error = %v", err)
	}
	if score != 4 {
		t.Fatalf("ZScore(head) = %v, want 4 (rank score)", score)
	}
}

func TestPopularityModel_SnapshotRoundtrip(t *testing.T) {
	m := trainPopularity(t, testFeatures())

	restored := &PopularityModel{}
	restored.LoadSnapshot(m.Snapshot())

	items, err := restored.Recommend(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("restored Recommend() error = %v", err)
	}
	got := itemIDs(items)
	want := []int64{1, 3, 2, 5}
	if len(got) != len(want) {
		t.Fatalf("restored Recommend() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("restored Recommend() = %v, want %v", got, want)
		}
	}
}
