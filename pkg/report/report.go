package report

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"ledgerreplay/internal/model"
)

// Precision 输出金额保留的小数位数
const Precision = 4

var header = []string{"client", "available", "held", "total", "locked"}

// Write 输出账户快照，按客户ID升序
//
//	client,available,held,total,locked
//	1,1.5000,0.0000,1.5000,false
func Write(w io.Writer, accounts map[model.ClientID]*model.Account) error {
	ids := make([]model.ClientID, 0, len(accounts))
	for id := range accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, id := range ids {
		account := accounts[id]
		row := []string{
			strconv.FormatUint(uint64(id), 10),
			account.Available().StringFixed(Precision),
			account.Held().StringFixed(Precision),
			account.Total().StringFixed(Precision),
			strconv.FormatBool(account.Locked()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
