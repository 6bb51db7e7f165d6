package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrLocked = errors.New("账户已锁定")

// InsufficientFundsError 可用余额不足
type InsufficientFundsError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("余额不足: 请求 %s, 可用 %s", e.Requested, e.Available)
}

// Account 客户账户
// 只维护资金桶（可用/冻结）和锁定标记，不关心交易ID和历史
//
// 【资金守恒】
//
//	total = available + held
//	只有充值、提现、拒付会改变 total；争议/解除争议只在两个桶之间搬钱
type Account struct {
	available decimal.Decimal // 可用余额
	held      decimal.Decimal // 争议冻结金额
	locked    bool            // 发生拒付后永久锁定
}

func NewAccount() *Account {
	return &Account{
		available: decimal.Zero,
		held:      decimal.Zero,
	}
}

// Deposit 充值，锁定账户也允许入账
func (a *Account) Deposit(amount decimal.Decimal) {
	a.available = a.available.Add(amount)
}

// Withdraw 提现
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := a.checkLocked(); err != nil {
		return err
	}
	if err := a.checkSufficientFunds(amount); err != nil {
		return err
	}

	a.available = a.available.Sub(amount)
	return nil
}

// Dispute 争议：可用 -> 冻结
// 争议金额已经被花掉时拒绝，可用余额不能变成负数
func (a *Account) Dispute(amount decimal.Decimal) error {
	if err := a.checkLocked(); err != nil {
		return err
	}
	if err := a.checkSufficientFunds(amount); err != nil {
		return err
	}

	a.available = a.available.Sub(amount)
	a.held = a.held.Add(amount)
	return nil
}

// Resolve 解除争议：冻结 -> 可用
func (a *Account) Resolve(amount decimal.Decimal) {
	a.available = a.available.Add(amount)
	a.held = a.held.Sub(amount)
}

// Chargeback 拒付：冻结资金离开系统，账户锁定且不再解锁
func (a *Account) Chargeback(amount decimal.Decimal) {
	a.held = a.held.Sub(amount)
	a.locked = true
}

func (a *Account) Available() decimal.Decimal {
	return a.available
}

func (a *Account) Held() decimal.Decimal {
	return a.held
}

func (a *Account) Total() decimal.Decimal {
	return a.available.Add(a.held)
}

func (a *Account) Locked() bool {
	return a.locked
}

func (a *Account) checkLocked() error {
	if a.locked {
		return ErrLocked
	}
	return nil
}

func (a *Account) checkSufficientFunds(requested decimal.Decimal) error {
	if requested.GreaterThan(a.available) {
		return &InsufficientFundsError{
			Requested: requested,
			Available: a.available,
		}
	}
	return nil
}
