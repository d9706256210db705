package eval

// 离线指标都是纯函数：输入推荐列表与真值集合，不做任何 IO。

// HitAtK 判断前 K 个推荐中是否至少命中一个真值物品。
func HitAtK(recs []int64, truth []int64, k int) bool {
	if k <= 0 || len(recs) == 0 || len(truth) == 0 {
		return false
	}
	if k > len(recs) {
		k = len(recs)
	}
	truthSet := make(map[int64]bool, len(truth))
	for _, id := range truth {
		truthSet[id] = true
	}
	for _, id := range recs[:k] {
		if truthSet[id] {
			return true
		}
	}
	return false
}

// PrecisionAtK 返回前 K 个推荐中命中真值的比例。
// 分母固定为 K（推荐不足 K 个按缺失计），K 非法或真值为空时为 0。
func PrecisionAtK(recs []int64, truth []int64, k int) float64 {
	if k <= 0 || len(truth) == 0 {
		return 0
	}
	truthSet := make(map[int64]bool, len(truth))
	for _, id := range truth {
		truthSet[id] = true
	}
	n := k
	if n > len(recs) {
		n = len(recs)
	}
	hits := 0
	for _, id := range recs[:n] {
		if truthSet[id] {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

// CoverageOf 返回拿到非空推荐列表的用户占评估用户的比例（用户触达率），
// 始终落在 [0,1]。
func CoverageOf(usersWithRecs, totalUsers int) float64 {
	if totalUsers <= 0 {
		return 0
	}
	return float64(usersWithRecs) / float64(totalUsers)
}

// CatalogCoverageOf 返回推荐物品集合对候选目录的覆盖率。
// recommended 为各用户推荐列表的并集即可，内部会去重。
func CatalogCoverageOf(recommended []int64, catalogSize int) float64 {
	if catalogSize <= 0 {
		return 0
	}
	distinct := make(map[int64]bool, len(recommended))
	for _, id := range recommended {
		distinct[id] = true
	}
	return float64(len(distinct)) / float64(catalogSize)
}
