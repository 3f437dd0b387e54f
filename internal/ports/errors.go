package ports

import (
	"errors"
	"fmt"
)

// Common infrastructure errors.
var (
	// ErrDatasetUnavailable indicates that a dataset file could not be read.
	ErrDatasetUnavailable = errors.New("dataset unavailable")

	// ErrMalformedDataset indicates that a dataset file is not valid JSON or CSV.
	ErrMalformedDataset = errors.New("malformed dataset")

	// ErrUnsupportedFormat indicates a dataset format without a registered source.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")

	// ErrStoreUnavailable indicates that the preference store cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrConfigNotFound indicates that required configuration is missing.
	ErrConfigNotFound = errors.New("configuration not found")
)

// DatasetError represents an error while loading the medal dataset.
type DatasetError struct {
	// Source is the name of the RecordSource that failed.
	Source string

	// Path is the file being read, if any.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for DatasetError.
func (e *DatasetError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("dataset error: source=%s, err=%v", e.Source, e.Err)
	}
	return fmt.Sprintf("dataset error: source=%s, path=%s, err=%v", e.Source, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DatasetError) Unwrap() error { return e.Err }

// IsRetryable returns true if reloading may succeed without changing the
// dataset, i.e. the file was unreachable rather than malformed.
func (e *DatasetError) IsRetryable() bool {
	return errors.Is(e.Err, ErrDatasetUnavailable)
}

// NewDatasetError creates a new DatasetError with the given details.
func NewDatasetError(source, path string, err error) *DatasetError {
	return &DatasetError{
		Source: source,
		Path:   path,
		Err:    err,
	}
}

// StoreError represents an error from the preference store.
type StoreError struct {
	// Key is the preference key involved in the failed operation.
	Key string

	// Operation is the name of the store operation that failed.
	Operation string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: operation=%s, key=%s, err=%v", e.Operation, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError creates a new StoreError with the given details.
func NewStoreError(key, operation string, err error) *StoreError {
	return &StoreError{
		Key:       key,
		Operation: operation,
		Err:       err,
	}
}

// ConfigError represents an error from configuration operations.
type ConfigError struct {
	// ConfigKey is the configuration key that was involved in the failed
	// operation.
	ConfigKey string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: key=%s, err=%v", e.ConfigKey, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError with the given details.
func NewConfigError(key string, err error) *ConfigError {
	return &ConfigError{
		ConfigKey: key,
		Err:       err,
	}
}
