package sparse

import (
	"context"
	"math"
)

// Matrix 是坐标表形式的稀疏矩阵，行列均带显式 id→index 映射。
// 行列 ID 按首次出现顺序编号（保持数据源顺序），零值单元不存储。
//
// 用途：
//   - 用户×物品 / 用户×类目 加权交互矩阵
//   - 相似度计算的输入（见 RowSimilarity）
//
// 非负约束：交互权重求和恒为非负；Matrix 本身不做检查，由写入方保证。
type Matrix struct {
	rowIDs []int64
	colIDs []int64

	rowIndex map[int64]int
	colIndex map[int64]int

	rows []map[int]float64 // 行索引 -> (列索引 -> 累积权重)
	nnz  int
}

func NewMatrix() *Matrix {
	return &Matrix{
		rowIndex: make(map[int64]int),
		colIndex: make(map[int64]int),
	}
}

// Add 向 (rowID, colID) 单元累加权重，必要时登记新行/新列。
func (m *Matrix) Add(rowID, colID int64, v float64) {
	ri, ok := m.rowIndex[rowID]
	if !ok {
		ri = len(m.rowIDs)
		m.rowIndex[rowID] = ri
		m.rowIDs = append(m.rowIDs, rowID)
		m.rows = append(m.rows, nil)
	}
	ci, ok := m.colIndex[colID]
	if !ok {
		ci = len(m.colIDs)
		m.colIndex[colID] = ci
		m.colIDs = append(m.colIDs, colID)
	}
	if m.rows[ri] == nil {
		m.rows[ri] = make(map[int]float64)
	}
	if _, exists := m.rows[ri][ci]; !exists {
		m.nnz++
	}
	m.rows[ri][ci] += v
}

// Rows 返回行数
func (m *Matrix) Rows() int { return len(m.rowIDs) }

// Cols 返回列数
func (m *Matrix) Cols() int { return len(m.colIDs) }

// NNZ 返回非零单元数
func (m *Matrix) NNZ() int { return m.nnz }

// RowID 返回行索引对应的 ID
func (m *Matrix) RowID(i int) int64 { return m.rowIDs[i] }

// ColID 返回列索引对应的 ID
func (m *Matrix) ColID(i int) int64 { return m.colIDs[i] }

// RowIDs 返回行 ID 列表（首次出现顺序）；调用方不得修改。
func (m *Matrix) RowIDs() []int64 { return m.rowIDs }

// ColIDs 返回列 ID 列表（首次出现顺序）；调用方不得修改。
func (m *Matrix) ColIDs() []int64 { return m.colIDs }

// RowIndex 返回行 ID 的索引
func (m *Matrix) RowIndex(id int64) (int, bool) {
	i, ok := m.rowIndex[id]
	return i, ok
}

// ColIndex 返回列 ID 的索引
func (m *Matrix) ColIndex(id int64) (int, bool) {
	i, ok := m.colIndex[id]
	return i, ok
}

// Row 返回行的稀疏向量（列索引 -> 权重）；调用方不得修改。
func (m *Matrix) Row(i int) map[int]float64 {
	if i < 0 || i >= len(m.rows) {
		return nil
	}
	return m.rows[i]
}

// Transpose 返回转置矩阵（物品 CF 在列方向算相似度时使用）。
// 行列映射同序复制：转置后的行顺序 = 原列顺序，列顺序 = 原行顺序。
func (m *Matrix) Transpose() *Matrix {
	t := NewMatrix()
	for _, colID := range m.colIDs {
		t.rowIndex[colID] = len(t.rowIDs)
		t.rowIDs = append(t.rowIDs, colID)
		t.rows = append(t.rows, nil)
	}
	for _, rowID := range m.rowIDs {
		t.colIndex[rowID] = len(t.colIDs)
		t.colIDs = append(t.colIDs, rowID)
	}
	for ri, row := range m.rows {
		for ci, v := range row {
			if t.rows[ci] == nil {
				t.rows[ci] = make(map[int]float64)
			}
			t.rows[ci][ri] = v
			t.nnz++
		}
	}
	return t
}

// FromRows 从行向量与 id 列表重建矩阵（快照加载路径）。
// rows[i] 的 key 是列索引，必须与 colIDs 对齐。
func FromRows(rowIDs, colIDs []int64, rows []map[int]float64) *Matrix {
	m := NewMatrix()
	for _, id := range rowIDs {
		m.rowIndex[id] = len(m.rowIDs)
		m.rowIDs = append(m.rowIDs, id)
	}
	for _, id := range colIDs {
		m.colIndex[id] = len(m.colIDs)
		m.colIDs = append(m.colIDs, id)
	}
	m.rows = make([]map[int]float64, len(rowIDs))
	copy(m.rows, rows)
	for _, row := range rows {
		m.nnz += len(row)
	}
	return m
}

// Cosine 计算两个稀疏向量的余弦相似度。
// 非负输入时结果落在 [0,1]；任一向量为零向量时返回 0。
func Cosine(a, b map[int]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// 遍历较短的向量
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for k, av := range a {
		if bv, ok := b[k]; ok {
			dot += av * bv
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (norm(a) * norm(b))
}

func norm(v map[int]float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

// RowSimilarity 批量计算全部行对的余弦相似度，结果为对称稀疏结构。
// sim[i][j] 只存非零相似度；对角线不存（查询路径始终排除自身）。
//
// 通过列倒排表只访问共享列的行对，代价与共现数成正比而不是行数平方。
// 行数大时耗时仍然可观，调用方应通过 ctx 设置截止时间；
// 计算过程按行检查取消信号，取消时返回 ctx.Err()。
func RowSimilarity(ctx context.Context, m *Matrix) ([]map[int]float64, error) {
	n := m.Rows()
	sim := make([]map[int]float64, n)

	norms := make([]float64, n)
	for i := 0; i < n; i++ {
		norms[i] = norm(m.rows[i])
	}

	// 列倒排表：列索引 -> 含该列的行索引（升序）
	inverted := make([][]int, m.Cols())
	for i := 0; i < n; i++ {
		for ci := range m.rows[i] {
			inverted[ci] = append(inverted[ci], i)
		}
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := m.rows[i]
		var dots map[int]float64
		for ci, vi := range row {
			for _, j := range inverted[ci] {
				if j <= i {
					continue
				}
				if dots == nil {
					dots = make(map[int]float64)
				}
				dots[j] += vi * m.rows[j][ci]
			}
		}
		for j, dot := range dots {
			if dot == 0 || norms[i] == 0 || norms[j] == 0 {
				continue
			}
			s := dot / (norms[i] * norms[j])
			if sim[i] == nil {
				sim[i] = make(map[int]float64)
			}
			if sim[j] == nil {
				sim[j] = make(map[int]float64)
			}
			sim[i][j] = s
			sim[j][i] = s
		}
	}
	return sim, nil
}
