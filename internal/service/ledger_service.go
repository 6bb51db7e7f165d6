package service

import (
	"fmt"

	"ledgerreplay/internal/model"
	"ledgerreplay/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ledger 账户管理器
// 持有账户表和充值历史，负责把争议类操作关联到原始充值再修改账户
//
// 每个操作要么完整生效，要么不改动任何状态
type Ledger struct {
	accountRepo *repository.AccountRepository
	historyRepo *repository.HistoryRepository
	logger      *zap.Logger
}

func NewLedger(logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		accountRepo: repository.NewAccountRepository(),
		historyRepo: repository.NewHistoryRepository(),
		logger:      logger.Named("ledger"),
	}
}

// ApplyDeposit 充值并记录可争议历史
// 同一交易ID重复充值时覆盖旧记录，不视为错误
func (l *Ledger) ApplyDeposit(txID model.TransactionID, clientID model.ClientID, amount decimal.Decimal) {
	l.accountRepo.GetOrCreate(clientID).Deposit(amount)

	if l.historyRepo.Save(txID, model.NewHistoryEntry(clientID, amount)) {
		l.logger.Warn("交易ID重复，覆盖历史记录",
			zap.Uint32("tx", uint32(txID)),
			zap.Uint16("client", uint16(clientID)),
		)
	}
}

// ApplyWithdrawal 提现，不进入历史（提现不可争议）
func (l *Ledger) ApplyWithdrawal(clientID model.ClientID, amount decimal.Decimal) error {
	return l.accountRepo.GetOrCreate(clientID).Withdraw(amount)
}

// ApplyDispute 对一笔充值发起争议
// 账户拒绝（余额不足/已锁定）时错误原样返回，记录保持未争议
func (l *Ledger) ApplyDispute(txID model.TransactionID, clientID model.ClientID) error {
	entry, err := l.authorizedEntry(txID, clientID)
	if err != nil {
		return err
	}
	if !model.CanTransitionTo(entry.Status, model.EntryStatusDisputed) {
		return &AlreadyDisputedError{ID: txID}
	}

	if err := l.accountRepo.GetOrCreate(clientID).Dispute(entry.Amount); err != nil {
		return err
	}
	entry.Status = model.EntryStatusDisputed
	return nil
}

// ApplyResolve 解除争议，资金回到可用
func (l *Ledger) ApplyResolve(txID model.TransactionID, clientID model.ClientID) error {
	entry, err := l.authorizedEntry(txID, clientID)
	if err != nil {
		return err
	}
	if !model.CanTransitionTo(entry.Status, model.EntryStatusActive) {
		return &UndisputedError{ID: txID}
	}

	l.accountRepo.GetOrCreate(clientID).Resolve(entry.Amount)
	entry.Status = model.EntryStatusActive
	return nil
}

// ApplyChargeback 拒付：冻结资金离开系统，锁定账户，删除历史记录
func (l *Ledger) ApplyChargeback(txID model.TransactionID, clientID model.ClientID) error {
	entry, err := l.authorizedEntry(txID, clientID)
	if err != nil {
		return err
	}
	if !model.CanTransitionTo(entry.Status, model.EntryStatusChargedBack) {
		return &UndisputedError{ID: txID}
	}

	l.accountRepo.GetOrCreate(clientID).Chargeback(entry.Amount)
	entry.Status = model.EntryStatusChargedBack
	l.historyRepo.Delete(txID)
	return nil
}

// Dispatch 按交易类型分发
// 充值/提现缺少金额时直接跳过，视为成功
func (l *Ledger) Dispatch(tx model.Transaction) error {
	switch tx.Action {
	case model.ActionDeposit:
		if tx.Amount != nil {
			l.ApplyDeposit(tx.ID, tx.ClientID, *tx.Amount)
		}
		return nil
	case model.ActionWithdrawal:
		if tx.Amount == nil {
			return nil
		}
		return l.ApplyWithdrawal(tx.ClientID, *tx.Amount)
	case model.ActionDispute:
		return l.ApplyDispute(tx.ID, tx.ClientID)
	case model.ActionResolve:
		return l.ApplyResolve(tx.ID, tx.ClientID)
	case model.ActionChargeback:
		return l.ApplyChargeback(tx.ID, tx.ClientID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, tx.Action)
	}
}

// Accounts 返回账户快照（值拷贝），顺序不确定，需要稳定输出的调用方自行排序
func (l *Ledger) Accounts() map[model.ClientID]*model.Account {
	accounts := l.accountRepo.List()
	snapshot := make(map[model.ClientID]*model.Account, len(accounts))
	for id, account := range accounts {
		cp := *account
		snapshot[id] = &cp
	}
	return snapshot
}

// HistorySize 当前可争议的充值记录数
func (l *Ledger) HistorySize() int {
	return l.historyRepo.Count()
}

func (l *Ledger) authorizedEntry(txID model.TransactionID, clientID model.ClientID) (*model.HistoryEntry, error) {
	entry, ok := l.historyRepo.GetByID(txID)
	if !ok {
		return nil, &TransactionNotFoundError{ID: txID}
	}
	if entry.ClientID != clientID {
		return nil, &UnauthorizedError{ClientID: clientID, OwnerID: entry.ClientID}
	}
	return entry, nil
}
