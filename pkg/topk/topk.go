// Package topk 提供出数与评估共用的排序/截断逻辑。
// 出数路径与离线评估必须调用同一套排序，避免指标与真实行为漂移。
package topk

import "sort"

// Scored 是一个待排序的候选（物品/类目/用户皆可）。
type Scored struct {
	ID    int64
	Score float64
}

// Sort 按分数降序排序；同分时按 ID 升序，保证重复运行结果可复现。
func Sort(s []Scored) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		return s[i].ID < s[j].ID
	})
}

// SortStable 按分数降序稳定排序，同分保持输入顺序。
// 用于“按首次发现顺序破平”的场景（共现对按发现序）。
func SortStable(s []Scored) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Score > s[j].Score
	})
}

// Top 返回确定性排序后的前 n 个；n <= 0 或超过长度时返回全部。
func Top(s []Scored, n int) []Scored {
	Sort(s)
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
