package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/recmine/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("user_id", cel.IntType),
	)
	return env, err
}

func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Program 是编译后的规则表达式，可对多个 item 复用。
// 表达式使用 CEL (Common Expression Language) 语法：
//   - 数值：item.score > 0.7
//   - 标签：label.recall_source == "item_cf"
//   - 逻辑：label.recall_source == "trending" && item.score > 10.0
//   - 存在性：label.recall_source != null
type Program struct {
	prg cel.Program
}

// Compile 编译一条规则表达式。空表达式非法。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return nil, fmt.Errorf("dsl: empty expression")
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("dsl: env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("dsl: compile error: %v", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program error: %v", err)
	}
	return &Program{prg: prg}, nil
}

// Evaluate 对单个 item 执行表达式，返回布尔结果。
// 访问不存在的 label key 会报错，存在性检查请用 label.key != null。
func (p *Program) Evaluate(userID int64, item *core.Item) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(userID, item))
	if err != nil {
		return false, fmt.Errorf("dsl: eval error: %v", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据。
// label 提供标签值的顶层访问（label.recall_source 直接取 value）。
func buildInput(userID int64, item *core.Item) map[string]interface{} {
	labels := make(map[string]interface{}, len(item.Labels))
	labelValues := make(map[string]interface{}, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = map[string]interface{}{
			"value":  v.Value,
			"source": v.Source,
		}
		labelValues[k] = v.Value
	}

	return map[string]interface{}{
		"item": map[string]interface{}{
			"id":     item.ID,
			"score":  item.Score,
			"labels": labels,
		},
		"label":   labelValues,
		"user_id": userID,
	}
}
