package util

const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

// 每个任务固定的子题数量
const SubQuestionCount = 5

const DefaultBadgeURIPrefix = "ipfs://math_quest"
