package ports

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatasetError(t *testing.T) {
	t.Run("with path", func(t *testing.T) {
		err := NewDatasetError("json", "data/medals.json", ErrMalformedDataset)

		assert.Equal(t, "dataset error: source=json, path=data/medals.json, err=malformed dataset", err.Error())
		assert.True(t, errors.Is(err, ErrMalformedDataset))
		assert.False(t, err.IsRetryable())
	})

	t.Run("without path", func(t *testing.T) {
		err := NewDatasetError("memory", "", ErrDatasetUnavailable)

		assert.Equal(t, "dataset error: source=memory, err=dataset unavailable", err.Error())
	})

	t.Run("retryable errors", func(t *testing.T) {
		wrapped := fmt.Errorf("%w: open: no such file", ErrDatasetUnavailable)
		assert.True(t, NewDatasetError("csv", "x.csv", wrapped).IsRetryable())
		assert.False(t, NewDatasetError("csv", "x.csv", ErrUnsupportedFormat).IsRetryable())
	})
}

func TestStoreError(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		operation string
		err       error
		wantMsg   string
	}{
		{
			name:      "read failure",
			key:       "dark_mode",
			operation: "DarkMode",
			err:       ErrStoreUnavailable,
			wantMsg:   "store error: operation=DarkMode, key=dark_mode, err=store unavailable",
		},
		{
			name:      "write failure",
			key:       "dark_mode",
			operation: "SetDarkMode",
			err:       errors.New("database is locked"),
			wantMsg:   "store error: operation=SetDarkMode, key=dark_mode, err=database is locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewStoreError(tt.key, tt.operation, tt.err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("dataset.paths", ErrConfigNotFound)

	assert.Equal(t, "config error: key=dataset.paths, err=configuration not found", err.Error())
	assert.True(t, errors.Is(err, ErrConfigNotFound))

	var target *ConfigError
	assert.True(t, errors.As(fmt.Errorf("load: %w", err), &target))
	assert.Equal(t, "dataset.paths", target.ConfigKey)
}
