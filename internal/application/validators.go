package application

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"github.com/ahrav/go-medals/internal/domain"
)

// registerCustomValidators registers the config-specific validation
// functions referenced in struct tags.
func registerCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}
	if err := v.RegisterValidation("locale", validateLocale); err != nil {
		return fmt.Errorf("failed to register locale validator: %w", err)
	}
	if err := v.RegisterValidation("listenaddr", validateListenAddr); err != nil {
		return fmt.Errorf("failed to register listenaddr validator: %w", err)
	}
	if err := v.RegisterValidation("criterion", validateCriterion); err != nil {
		return fmt.Errorf("failed to register criterion validator: %w", err)
	}
	return nil
}

// NewValidator returns a validator with the custom tags registered.
func NewValidator() (*validator.Validate, error) {
	v := validator.New()
	if err := registerCustomValidators(v); err != nil {
		return nil, err
	}
	return v, nil
}

// validateSemver validates that a string follows semantic versioning
// format (X.Y.Z where X, Y, Z are non-negative integers).
func validateSemver(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	var major, minor, patch int
	n, err := fmt.Sscanf(value, "%d.%d.%d", &major, &minor, &patch)
	return err == nil && n == 3 && major >= 0 && minor >= 0 && patch >= 0
}

// validateLocale accepts any well-formed BCP 47 tag.
func validateLocale(fl validator.FieldLevel) bool {
	_, err := language.Parse(fl.Field().String())
	return err == nil
}

// validateListenAddr accepts host:port with an optional host, e.g. ":8000".
func validateListenAddr(fl validator.FieldLevel) bool {
	_, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil {
		return false
	}
	p, err := strconv.Atoi(port)
	return err == nil && p >= 0 && p <= 65535
}

// validateCriterion accepts the top list criteria understood by
// domain.ParseCriterion.
func validateCriterion(fl validator.FieldLevel) bool {
	_, err := domain.ParseCriterion(fl.Field().String())
	return err == nil
}

// validateSemantics checks rules that struct tags cannot express.
func validateSemantics(cfg *Config) error {
	ve := domain.NewValidationError("config")

	seen := make(map[string]struct{}, len(cfg.Dataset.Paths))
	for _, p := range cfg.Dataset.Paths {
		clean := filepath.Clean(p)
		if _, dup := seen[clean]; dup {
			ve.AddError(fmt.Sprintf("dataset path %q listed twice", p))
		}
		seen[clean] = struct{}{}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(clean)), ".")
		if ext != "" && ext != cfg.Dataset.Format {
			ve.AddError(fmt.Sprintf("dataset path %q does not match format %s", p, cfg.Dataset.Format))
		}
	}

	if strings.EqualFold(cfg.ColorScale.Low, cfg.ColorScale.High) {
		ve.AddError("color_scale low and high must differ")
	}

	if cfg.Server.RateLimit.RequestsPerSecond > 0 && cfg.Server.RateLimit.Burst < 1 {
		ve.AddError("rate_limit burst must be at least 1 when limiting is enabled")
	}

	if ve.HasErrors() {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, ve)
	}
	return nil
}
