package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/recmine/core"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()

	if err := ms.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := ms.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get() = %q, %v", got, err)
	}

	if err := ms.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := ms.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Fatalf("Get(deleted) error = %v, want store not found", err)
	}
}

func TestMemoryStore_BatchGet(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()

	ms.Set(ctx, "a", []byte("1"))
	ms.Set(ctx, "b", []byte("2"))

	got, err := ms.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BatchGet() error = %v", err)
	}
	want := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BatchGet() = %v, want %v", got, want)
	}
}

func TestMemoryStore_ZSet(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()

	ms.ZAdd(ctx, "rank", 3, "c")
	ms.ZAdd(ctx, "rank", 1, "a")
	ms.ZAdd(ctx, "rank", 2, "b")
	ms.ZAdd(ctx, "rank", 2, "b2") // 同分按成员名破平

	got, err := ms.ZRange(ctx, "rank", 0, -1)
	if err != nil {
		t.Fatalf("ZRange() error = %v", err)
	}
	want := []string{"c", "b", "b2", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ZRange() = %v, want %v", got, want)
	}

	// 区间截断
	got, _ = ms.ZRange(ctx, "rank", 0, 1)
	if !reflect.DeepEqual(got, []string{"c", "b"}) {
		t.Fatalf("ZRange(0,1) = %v, want [c b]", got)
	}

	score, err := ms.ZScore(ctx, "rank", "c")
	if err != nil || score != 3 {
		t.Fatalf("ZScore(c) = %v, %v", score, err)
	}
	if _, err := ms.ZScore(ctx, "rank", "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("ZScore(missing) error = %v, want store not found", err)
	}

	// 不存在的 zset：空结果
	got, err = ms.ZRange(ctx, "missing", 0, -1)
	if err != nil || len(got) != 0 {
		t.Fatalf("ZRange(missing) = %v, %v", got, err)
	}
}
