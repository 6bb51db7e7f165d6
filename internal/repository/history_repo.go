package repository

import (
	"ledgerreplay/internal/model"
)

// HistoryRepository 可争议充值记录，按交易ID索引
type HistoryRepository struct {
	entries map[model.TransactionID]*model.HistoryEntry
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{entries: make(map[model.TransactionID]*model.HistoryEntry)}
}

// Save 写入记录，同ID已存在时覆盖并返回 true
func (r *HistoryRepository) Save(id model.TransactionID, entry *model.HistoryEntry) bool {
	_, replaced := r.entries[id]
	r.entries[id] = entry
	return replaced
}

func (r *HistoryRepository) GetByID(id model.TransactionID) (*model.HistoryEntry, bool) {
	entry, ok := r.entries[id]
	return entry, ok
}

func (r *HistoryRepository) Delete(id model.TransactionID) {
	delete(r.entries, id)
}

func (r *HistoryRepository) Count() int {
	return len(r.entries)
}
