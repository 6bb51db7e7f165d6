package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ledgerreplay/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingColumn  = errors.New("缺少必需的列")
	ErrNegativeAmount = errors.New("金额不能为负数")
)

// RowError 单行数据错误，不影响后续行的读取
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("第 %d 行: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

const (
	colType   = "type"
	colClient = "client"
	colTx     = "tx"
	colAmount = "amount"

	utf8BOM = "\ufeff"
)

// Reader 逐行读取交易记录
//
//	type,client,tx,amount
//	deposit,1,1,1.0
//	dispute,1,1
//
// 字段两端空白会被去掉，金额列可以省略
// 引号字段的右引号后面不能再跟空白，这样的行按数据错误处理
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
	line    int
}

func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("读取表头失败: 输入为空")
		}
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}

	// Excel 等工具导出的 UTF-8 文件带 BOM
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range []string{colType, colClient, colTx} {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	return &Reader{csv: cr, columns: columns, line: 1}, nil
}

// Next 返回下一条记录，读完返回 io.EOF
// 数据错误返回 *RowError，其他错误（I/O）应当终止读取
func (r *Reader) Next() (model.Transaction, error) {
	record, err := r.csv.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			r.line = parseErr.Line
			return model.Transaction{}, &RowError{Line: parseErr.Line, Err: parseErr.Err}
		}
		return model.Transaction{}, err
	}
	r.line, _ = r.csv.FieldPos(0)

	tx, err := r.parse(record)
	if err != nil {
		return model.Transaction{}, &RowError{Line: r.line, Err: err}
	}
	return tx, nil
}

// Line 最近一次读取的行号（从 1 开始，表头为第 1 行）
func (r *Reader) Line() int {
	return r.line
}

func (r *Reader) field(record []string, name string) string {
	i, ok := r.columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (r *Reader) parse(record []string) (model.Transaction, error) {
	action, err := model.ParseAction(r.field(record, colType))
	if err != nil {
		return model.Transaction{}, err
	}

	clientID, err := strconv.ParseUint(r.field(record, colClient), 10, 16)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("无效的客户ID: %w", err)
	}

	txID, err := strconv.ParseUint(r.field(record, colTx), 10, 32)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("无效的交易ID: %w", err)
	}

	tx := model.Transaction{
		Action:   action,
		ClientID: model.ClientID(clientID),
		ID:       model.TransactionID(txID),
	}

	// 争议类记录即使带了金额也忽略
	if raw := r.field(record, colAmount); raw != "" && action.CarriesAmount() {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("无效的金额 %q: %w", raw, err)
		}
		if amount.IsNegative() {
			return model.Transaction{}, ErrNegativeAmount
		}
		tx.Amount = &amount
	}
	return tx, nil
}
