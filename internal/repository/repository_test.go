package repository

import (
	"testing"

	"ledgerreplay/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepositoryGetOrCreate(t *testing.T) {
	repo := NewAccountRepository()

	_, err := repo.GetByClientID(1)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	created := repo.GetOrCreate(1)
	created.Deposit(decimal.NewFromInt(5))

	again := repo.GetOrCreate(1)
	assert.Same(t, created, again)
	assert.True(t, again.Available().Equal(decimal.NewFromInt(5)))

	found, err := repo.GetByClientID(1)
	require.NoError(t, err)
	assert.Same(t, created, found)
	assert.Equal(t, 1, repo.Count())
}

func TestAccountRepositoryListIsACopy(t *testing.T) {
	repo := NewAccountRepository()
	repo.GetOrCreate(1)
	repo.GetOrCreate(2)

	list := repo.List()
	delete(list, 1)

	assert.Len(t, list, 1)
	assert.Equal(t, 2, repo.Count())
}

func TestHistoryRepository(t *testing.T) {
	repo := NewHistoryRepository()

	_, ok := repo.GetByID(10)
	assert.False(t, ok)

	assert.False(t, repo.Save(10, model.NewHistoryEntry(1, decimal.NewFromInt(1))))
	assert.True(t, repo.Save(10, model.NewHistoryEntry(2, decimal.NewFromInt(3))))

	entry, ok := repo.GetByID(10)
	require.True(t, ok)
	assert.Equal(t, model.ClientID(2), entry.ClientID)
	assert.Equal(t, 1, repo.Count())

	repo.Delete(10)
	_, ok = repo.GetByID(10)
	assert.False(t, ok)
	assert.Equal(t, 0, repo.Count())
}
