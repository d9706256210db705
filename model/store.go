package model

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/recmine/core"
)

// ModelStore 在 core.Store 之上持久化模型快照。
// 每种模型一个 key（{prefix}:{kind}），值为 JSON 编码的快照。
//
// 原子性由 Store 实现保证：FileStore 先写临时文件再 rename，
// 崩溃不会留下能被加载的半成品制品。
type ModelStore struct {
	store  core.Store
	prefix string
}

// NewModelStore 创建模型快照存储；prefix 为空时使用 "model"。
func NewModelStore(s core.Store, prefix string) *ModelStore {
	if prefix == "" {
		prefix = "model"
	}
	return &ModelStore{store: s, prefix: prefix}
}

func (ms *ModelStore) key(kind string) string {
	return ms.prefix + ":" + kind
}

// snapshotHeader 用于加载时先行校验 kind 与 version。
type snapshotHeader struct {
	Kind    string `json:"kind"`
	Version int    `json:"version"`
}

// Save 序列化并写入一个模型快照。
func (ms *ModelStore) Save(ctx context.Context, kind string, snapshot any) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("model store: marshal %s snapshot: %w", kind, err)
	}
	if err := ms.store.Set(ctx, ms.key(kind), data); err != nil {
		return fmt.Errorf("model store: save %s snapshot: %w", kind, err)
	}
	return nil
}

// Load 读取并反序列化一个模型快照。
// 快照不存在时返回 NOT_FOUND（评估路径据此跳过该模型，而不是中止）；
// kind/version 不匹配返回 INVALID_INPUT。
func (ms *ModelStore) Load(ctx context.Context, kind string, out any) error {
	data, err := ms.store.Get(ctx, ms.key(kind))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return core.NewDomainError(core.ModuleModel, core.ErrorCodeNotFound,
				fmt.Sprintf("model store: no snapshot for %q", kind))
		}
		return fmt.Errorf("model store: load %s snapshot: %w", kind, err)
	}

	var head snapshotHeader
	if err := json.Unmarshal(data, &head); err != nil {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("model store: corrupt snapshot for %q: %v", kind, err))
	}
	if head.Kind != kind {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("model store: snapshot kind mismatch: want %q, got %q", kind, head.Kind))
	}
	if head.Version != SnapshotVersion {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("model store: snapshot version mismatch for %q: want %d, got %d", kind, SnapshotVersion, head.Version))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("model store: decode snapshot for %q: %v", kind, err))
	}
	return nil
}
