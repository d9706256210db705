package feature

import (
	"context"
	"fmt"
	"time"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/recmine/core"
)

// 默认的 Feast 特征引用与实体键，与特征生产方的 feature view 约定一致。
const (
	defaultEntityKey       = "visitorid"
	defaultFavoriteFeature = "user_features:favorite_category"
)

// FeastStore 通过 Feast Feature Server（gRPC）读取在线用户特征，
// 实现 core.FeatureStore 的用户侧能力。
//
// 物品特征聚合是批量数据，不走在线通道，ItemFeatures 返回 NOT_SUPPORTED；
// 批量路径使用 loader.PostgresLoader。
type FeastStore struct {
	client  *feastsdk.GrpcClient
	project string

	// EntityKey/FavoriteFeature 允许按部署覆盖特征引用
	EntityKey       string
	FavoriteFeature string

	// Timeout 单次在线查询超时
	Timeout time.Duration
}

// NewFeastStore 连接 Feast Feature Server；port 为 0 时使用默认 6565。
func NewFeastStore(host string, port int, project string) (*FeastStore, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable,
			fmt.Sprintf("feast: connect %s:%d: %v", host, port, err))
	}
	return &FeastStore{
		client:          client,
		project:         project,
		EntityKey:       defaultEntityKey,
		FavoriteFeature: defaultFavoriteFeature,
		Timeout:         3 * time.Second,
	}, nil
}

// FavoriteCategory 在线查询用户最偏好类目。
// 特征缺失（新用户尚未物化）返回 ok=false，不视为错误。
func (s *FeastStore) FavoriteCategory(ctx context.Context, userID int64) (int64, bool, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	req := &feastsdk.OnlineFeaturesRequest{
		Features: []string{s.FavoriteFeature},
		Entities: []feastsdk.Row{
			{s.EntityKey: feastsdk.Int64Val(userID)},
		},
		Project: s.project,
	}
	resp, err := s.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return 0, false, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable,
			fmt.Sprintf("feast: get online features: %v", err))
	}

	return s.favoriteFromRows(resp.Rows())
}

// favoriteFromRows 从在线查询结果中取出类目 id。
// 特征缺失或值为空表示冷启动（ok=false），非整型值是特征定义错配。
func (s *FeastStore) favoriteFromRows(rows []feastsdk.Row) (int64, bool, error) {
	if len(rows) != 1 {
		return 0, false, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInternalError,
			fmt.Sprintf("feast: want 1 row, got %d", len(rows)))
	}
	val, ok := rows[0][s.FavoriteFeature]
	if !ok || val == nil || val.GetVal() == nil {
		return 0, false, nil
	}
	switch v := val.GetVal().(type) {
	case *feasttypes.Value_Int64Val:
		return v.Int64Val, true, nil
	case *feasttypes.Value_Int32Val:
		return int64(v.Int32Val), true, nil
	default:
		return 0, false, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInternalError,
			fmt.Sprintf("feast: unexpected value type %T for %s", v, s.FavoriteFeature))
	}
}

// ItemFeatures 不支持在线通道，批量读取请使用 loader.PostgresLoader。
func (s *FeastStore) ItemFeatures(_ context.Context) ([]core.ItemFeature, error) {
	return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotSupported,
		"feast: item feature aggregates are batch-only")
}

var _ core.FeatureStore = (*FeastStore)(nil)
