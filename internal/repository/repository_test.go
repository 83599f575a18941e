package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDirectory(t *testing.T) {
	repo, err := NewRepository()
	require.NoError(t, err)

	banks := repo.ListBanks()
	require.Len(t, banks, 4)
	assert.Equal(t, "AU00001", banks[0].ID)
	assert.Equal(t, "NAB", banks[0].Name)
	assert.Equal(t, "ANZ", banks[3].Name)

	cba, ok := repo.FindBankByID("AU00003")
	require.True(t, ok)
	assert.Equal(t, "CommBank", cba.Name)

	_, ok = repo.FindBankByID("AU99999")
	assert.False(t, ok)
}

func TestListBanksReturnsCopy(t *testing.T) {
	repo, err := NewRepository()
	require.NoError(t, err)

	banks := repo.ListBanks()
	banks[0].Name = "changed"
	assert.Equal(t, "NAB", repo.ListBanks()[0].Name)
}

func TestNewRepositoryFromYAMLRejectsDuplicates(t *testing.T) {
	_, err := NewRepositoryFromYAML([]byte("banks:\n  - {id: X, name: A}\n  - {id: X, name: B}\n"))
	assert.Error(t, err)
}

func TestNewRepositoryFromYAMLRejectsIncompleteEntry(t *testing.T) {
	_, err := NewRepositoryFromYAML([]byte("banks:\n  - {id: X}\n"))
	assert.Error(t, err)
}
