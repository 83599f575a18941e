package repository

import (
	_ "embed"
	"fmt"

	"github.com/Dan9191/bank-onboarding/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed data/banks.yaml
var defaultBanks []byte

// Repository provides lookups over the static bank directory
type Repository struct {
	banks []models.Bank
	byID  map[string]models.Bank
}

// NewRepository loads the bank directory compiled into the binary
func NewRepository() (*Repository, error) {
	return NewRepositoryFromYAML(defaultBanks)
}

// NewRepositoryFromYAML builds a repository from a YAML bank list
func NewRepositoryFromYAML(data []byte) (*Repository, error) {
	var doc struct {
		Banks []models.Bank `yaml:"banks"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse bank directory: %w", err)
	}

	r := &Repository{byID: make(map[string]models.Bank, len(doc.Banks))}
	for _, b := range doc.Banks {
		if b.ID == "" || b.Name == "" {
			return nil, fmt.Errorf("bank directory entry is missing id or name: %+v", b)
		}
		if _, dup := r.byID[b.ID]; dup {
			return nil, fmt.Errorf("duplicate bank id %q", b.ID)
		}
		r.byID[b.ID] = b
		r.banks = append(r.banks, b)
	}
	return r, nil
}

// ListBanks returns banks in directory order
func (r *Repository) ListBanks() []models.Bank {
	out := make([]models.Bank, len(r.banks))
	copy(out, r.banks)
	return out
}

// FindBankByID retrieves a bank by its institution id
func (r *Repository) FindBankByID(id string) (models.Bank, bool) {
	b, ok := r.byID[id]
	return b, ok
}
