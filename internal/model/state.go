package model

// ContractStateID 合约全局状态只有一行
const ContractStateID = 1

type ContractState struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	Owner      string `gorm:"size:128;not null" json:"owner"`
	TokenCount uint64 `gorm:"not null;default:0" json:"token_count"`
}

func (ContractState) TableName() string {
	return "contract_states"
}
