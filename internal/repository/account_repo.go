package repository

import (
	"errors"

	"ledgerreplay/internal/model"
)

var ErrAccountNotFound = errors.New("账户不存在")

// AccountRepository 内存账户表，按 ClientID 索引
// 单线程使用，不加锁
type AccountRepository struct {
	accounts map[model.ClientID]*model.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[model.ClientID]*model.Account)}
}

func (r *AccountRepository) GetByClientID(clientID model.ClientID) (*model.Account, error) {
	account, ok := r.accounts[clientID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// GetOrCreate 首次引用时创建零余额、未锁定的账户
func (r *AccountRepository) GetOrCreate(clientID model.ClientID) *model.Account {
	account, err := r.GetByClientID(clientID)
	if err == nil {
		return account
	}

	account = model.NewAccount()
	r.accounts[clientID] = account
	return account
}

// List 返回所有账户，顺序不确定
func (r *AccountRepository) List() map[model.ClientID]*model.Account {
	out := make(map[model.ClientID]*model.Account, len(r.accounts))
	for id, account := range r.accounts {
		out[id] = account
	}
	return out
}

func (r *AccountRepository) Count() int {
	return len(r.accounts)
}
