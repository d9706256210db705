package core

// EventKind 是用户行为事件类型，与 ETL 侧 events 表的 event 枚举一致。
type EventKind string

const (
	EventView      EventKind = "view"
	EventAddToCart EventKind = "addtocart"
	EventPurchase  EventKind = "transaction"
)

// Weight 返回事件的隐式评分权重（implicit rating）。
// 购买 > 加购 > 浏览，未知事件权重为 0（不参与打分）。
func (e EventKind) Weight() float64 {
	switch e {
	case EventPurchase:
		return 5
	case EventAddToCart:
		return 3
	case EventView:
		return 1
	default:
		return 0
	}
}

// Interaction 是一条用户-物品交互记录，模型训练的唯一事实来源。
// 抽取后不可变；Timestamp 为毫秒级 Unix 时间戳（事件表原始格式）。
type Interaction struct {
	UserID    int64
	ItemID    int64
	Event     EventKind
	Timestamp int64
}

// Basket 是单个用户的购买物品序列（按时间排序），共现挖掘的基本单位。
// 每次训练从交易事件重新推导，不做持久化。
type Basket []int64

// UserBasket 把购买篮和归属用户绑定在一起（评估路径按用户取篮）。
type UserBasket struct {
	UserID int64
	Items  Basket
}
