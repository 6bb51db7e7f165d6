package model

import (
	"slices"

	"github.com/shopspring/decimal"
)

// EntryStatus 历史记录的争议状态
type EntryStatus string

const (
	EntryStatusActive      EntryStatus = "ACTIVE"
	EntryStatusDisputed    EntryStatus = "DISPUTED"
	EntryStatusChargedBack EntryStatus = "CHARGED_BACK"
)

// ValidEntryTransitions 合法状态流转
//
//	ACTIVE <-> DISPUTED -> CHARGED_BACK（终态，记录随即删除）
var ValidEntryTransitions = map[EntryStatus][]EntryStatus{
	EntryStatusActive:   {EntryStatusDisputed},
	EntryStatusDisputed: {EntryStatusActive, EntryStatusChargedBack},
}

// CanTransitionTo 终态和未知状态没有出边
func CanTransitionTo(from, to EntryStatus) bool {
	return slices.Contains(ValidEntryTransitions[from], to)
}

// HistoryEntry 可争议的充值记录
// 通过 ClientID 弱引用所属账户，不持有账户指针
type HistoryEntry struct {
	ClientID ClientID
	Amount   decimal.Decimal
	Status   EntryStatus
}

func NewHistoryEntry(clientID ClientID, amount decimal.Decimal) *HistoryEntry {
	return &HistoryEntry{
		ClientID: clientID,
		Amount:   amount,
		Status:   EntryStatusActive,
	}
}

func (e *HistoryEntry) Disputed() bool {
	return e.Status == EntryStatusDisputed
}
