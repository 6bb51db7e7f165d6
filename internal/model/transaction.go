package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	ClientID      uint16
	TransactionID uint32
)

// Action 交易动作，集合是封闭的
type Action string

// ============================================================================
// 交易类型常量
// ============================================================================

const (
	ActionDeposit    Action = "deposit"    // 充值
	ActionWithdrawal Action = "withdrawal" // 提现
	ActionDispute    Action = "dispute"    // 发起争议
	ActionResolve    Action = "resolve"    // 解除争议
	ActionChargeback Action = "chargeback" // 拒付
)

var actions = map[string]Action{
	string(ActionDeposit):    ActionDeposit,
	string(ActionWithdrawal): ActionWithdrawal,
	string(ActionDispute):    ActionDispute,
	string(ActionResolve):    ActionResolve,
	string(ActionChargeback): ActionChargeback,
}

// ParseAction 解析交易动作（忽略大小写和首尾空白）
func ParseAction(s string) (Action, error) {
	action, ok := actions[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("未知交易类型: %q", s)
	}
	return action, nil
}

// CarriesAmount 只有充值和提现带金额
func (a Action) CarriesAmount() bool {
	return a == ActionDeposit || a == ActionWithdrawal
}

// Transaction 输入流中的一条交易记录
// 争议/解除争议/拒付通过 ID 引用之前的充值，不带金额
type Transaction struct {
	Action   Action
	ClientID ClientID
	ID       TransactionID
	Amount   *decimal.Decimal
}
