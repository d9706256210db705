package filter

import (
	"context"

	"github.com/rushteam/recmine/core"
	"github.com/rushteam/recmine/pkg/dsl"
)

// RuleFilter 是规则过滤器，用 CEL 表达式描述过滤条件。
// 表达式返回 true 表示过滤该 item，例如：
//   - `item.score < 1.0`
//   - `label.recall_source == "popularity" && item.score < 10.0`
type RuleFilter struct {
	expr string
	prg  *dsl.Program
}

// NewRuleFilter 编译表达式并创建规则过滤器。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{expr: expr, prg: prg}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(_ context.Context, userID int64, item *core.Item) (bool, error) {
	if item == nil {
		return true, nil
	}
	return f.prg.Evaluate(userID, item)
}

var _ Filter = (*RuleFilter)(nil)
