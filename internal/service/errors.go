package service

import (
	"errors"
	"fmt"

	"ledgerreplay/internal/model"
)

var ErrUnknownAction = errors.New("未知交易类型")

// TransactionNotFoundError 交易不存在（或已拒付删除）
type TransactionNotFoundError struct {
	ID model.TransactionID
}

func (e *TransactionNotFoundError) Error() string {
	return fmt.Sprintf("交易 %d 不存在", e.ID)
}

// UnauthorizedError 客户引用了别人的交易
type UnauthorizedError struct {
	ClientID model.ClientID
	OwnerID  model.ClientID
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("无权操作: 客户 %d 不能修改客户 %d 的交易", e.ClientID, e.OwnerID)
}

// UndisputedError 交易未处于争议中
type UndisputedError struct {
	ID model.TransactionID
}

func (e *UndisputedError) Error() string {
	return fmt.Sprintf("交易 %d 未处于争议状态", e.ID)
}

// AlreadyDisputedError 交易已处于争议中
type AlreadyDisputedError struct {
	ID model.TransactionID
}

func (e *AlreadyDisputedError) Error() string {
	return fmt.Sprintf("交易 %d 已处于争议状态", e.ID)
}

// 拒绝原因，用于日志和监控标签
const (
	ReasonInsufficientFunds   = "insufficient_funds"
	ReasonLocked              = "locked"
	ReasonTransactionNotFound = "transaction_not_found"
	ReasonUnauthorized        = "unauthorized"
	ReasonUndisputed          = "undisputed"
	ReasonAlreadyDisputed     = "already_disputed"
	ReasonUnknownAction       = "unknown_action"
	ReasonOther               = "other"
)

// Reason 把错误归类成稳定的原因码
func Reason(err error) string {
	var (
		insufficient *model.InsufficientFundsError
		notFound     *TransactionNotFoundError
		unauthorized *UnauthorizedError
		undisputed   *UndisputedError
		disputed     *AlreadyDisputedError
	)

	switch {
	case errors.As(err, &insufficient):
		return ReasonInsufficientFunds
	case errors.Is(err, model.ErrLocked):
		return ReasonLocked
	case errors.As(err, &notFound):
		return ReasonTransactionNotFound
	case errors.As(err, &unauthorized):
		return ReasonUnauthorized
	case errors.As(err, &undisputed):
		return ReasonUndisputed
	case errors.As(err, &disputed):
		return ReasonAlreadyDisputed
	case errors.Is(err, ErrUnknownAction):
		return ReasonUnknownAction
	default:
		return ReasonOther
	}
}
