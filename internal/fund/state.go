package fund

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"PortfolioSentinel/internal/model"
)

// LoadState reads the ledger from a JSON file. Returns an empty ledger if the file doesn't exist.
func LoadState(filePath string) (*model.LedgerState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.LedgerState{}, nil
		}
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	var state model.LedgerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	return &state, nil
}

// SaveState writes the ledger to a JSON file.
func SaveState(filePath string, state *model.LedgerState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
