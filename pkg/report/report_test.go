package report

import (
	"bytes"
	"errors"
	"testing"

	"ledgerreplay/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSortsByClientAndFormats(t *testing.T) {
	locked := model.NewAccount()
	locked.Deposit(decimal.RequireFromString("2"))
	require.NoError(t, locked.Dispute(decimal.RequireFromString("2")))
	locked.Chargeback(decimal.RequireFromString("2"))

	held := model.NewAccount()
	held.Deposit(decimal.RequireFromString("3.5"))
	require.NoError(t, held.Dispute(decimal.RequireFromString("1.25")))

	precise := model.NewAccount()
	precise.Deposit(decimal.RequireFromString("0.123456"))

	accounts := map[model.ClientID]*model.Account{
		10: precise,
		2:  locked,
		1:  held,
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, accounts))

	want := "client,available,held,total,locked\n" +
		"1,2.2500,1.2500,3.5000,false\n" +
		"2,0.0000,0.0000,0.0000,true\n" +
		"10,0.1235,0.0000,0.1235,false\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))

	assert.Equal(t, "client,available,held,total,locked\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWritePropagatesWriterError(t *testing.T) {
	err := Write(failingWriter{}, map[model.ClientID]*model.Account{1: model.NewAccount()})

	assert.Error(t, err)
}
