package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"ledgerreplay/internal/config"
	"ledgerreplay/internal/infrastructure/csvsource"
	"ledgerreplay/internal/infrastructure/metrics"
	"ledgerreplay/internal/model"
	"ledgerreplay/internal/service"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ReasonMalformed 输入行无法解析
const ReasonMalformed = "malformed"

// ErrReadFailed 读取输入失败（非单行错误），回放终止
var ErrReadFailed = errors.New("读取交易记录失败")

// RecordSource 交易记录来源，读完返回 io.EOF
// 返回 *csvsource.RowError 表示单行错误，其余错误终止回放
type RecordSource interface {
	Next() (model.Transaction, error)
	Line() int
}

// RecordError 某条记录处理失败
type RecordError struct {
	Line     int
	Action   model.Action
	ClientID model.ClientID
	TxID     model.TransactionID
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("第 %d 行 %s client=%d tx=%d: %v", e.Line, e.Action, e.ClientID, e.TxID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

type Summary struct {
	Processed int
	Applied   int
	Rejected  int
}

// ReplayJob 顺序回放交易流
// 一条记录处理完才读下一条，取消只在记录之间生效
type ReplayJob struct {
	ledger  *service.Ledger
	policy  config.ErrorPolicy
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewReplayJob(ledger *service.Ledger, policy config.ErrorPolicy, m *metrics.Metrics, logger *zap.Logger) *ReplayJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	if !policy.Valid() {
		policy = config.ErrorPolicySkip
	}
	return &ReplayJob{
		ledger:  ledger,
		policy:  policy,
		metrics: m,
		logger:  logger.Named("replay"),
	}
}

// Run 回放直到输入结束
//
//	skip:    记录失败只打日志，返回 nil
//	abort:   第一条失败立即返回
//	collect: 全部处理完后返回所有失败的汇总
func (j *ReplayJob) Run(ctx context.Context, src RecordSource) (Summary, error) {
	start := time.Now()
	j.logger.Info("回放任务启动", zap.String("policy", string(j.policy)))

	var (
		summary Summary
		errs    error
	)
	defer func() {
		j.finish(summary, start)
	}()

	for {
		select {
		case <-ctx.Done():
			j.logger.Warn("收到停止信号，回放中断", zap.Int("processed", summary.Processed))
			return summary, multierr.Append(errs, ctx.Err())
		default:
		}

		tx, err := src.Next()
		if errors.Is(err, io.EOF) {
			return summary, errs
		}

		var failure error
		if err != nil {
			var rowErr *csvsource.RowError
			if !errors.As(err, &rowErr) {
				return summary, multierr.Append(errs, fmt.Errorf("%w: %w", ErrReadFailed, err))
			}
			summary.Processed++
			summary.Rejected++
			j.metrics.ObserveRejected("unknown", ReasonMalformed)
			j.logger.Warn("无法解析的记录", zap.Int("line", rowErr.Line), zap.Error(rowErr.Err))
			failure = rowErr
		} else {
			summary.Processed++
			failure = j.apply(src.Line(), tx, &summary)
		}

		if failure == nil {
			continue
		}
		switch j.policy {
		case config.ErrorPolicyAbort:
			return summary, failure
		case config.ErrorPolicyCollect:
			errs = multierr.Append(errs, failure)
		}
	}
}

func (j *ReplayJob) apply(line int, tx model.Transaction, summary *Summary) error {
	err := j.ledger.Dispatch(tx)
	if err == nil {
		summary.Applied++
		j.metrics.ObserveApplied(string(tx.Action))
		return nil
	}

	summary.Rejected++
	reason := service.Reason(err)
	j.metrics.ObserveRejected(string(tx.Action), reason)
	j.logger.Warn("记录被拒绝",
		zap.Int("line", line),
		zap.String("action", string(tx.Action)),
		zap.Uint16("client", uint16(tx.ClientID)),
		zap.Uint32("tx", uint32(tx.ID)),
		zap.String("reason", reason),
		zap.Error(err),
	)

	return &RecordError{
		Line:     line,
		Action:   tx.Action,
		ClientID: tx.ClientID,
		TxID:     tx.ID,
		Err:      err,
	}
}

func (j *ReplayJob) finish(summary Summary, start time.Time) {
	accounts := j.ledger.Accounts()
	locked := 0
	for _, account := range accounts {
		if account.Locked() {
			locked++
		}
	}

	elapsed := time.Since(start)
	j.metrics.SetAccounts(len(accounts), locked)
	j.metrics.ObserveDuration(elapsed)

	j.logger.Info("回放任务结束",
		zap.Int("processed", summary.Processed),
		zap.Int("applied", summary.Applied),
		zap.Int("rejected", summary.Rejected),
		zap.Int("accounts", len(accounts)),
		zap.Int("locked", locked),
		zap.Duration("elapsed", elapsed),
	)
}
