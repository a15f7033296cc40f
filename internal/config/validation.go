package config

import (
	"fmt"
	"strings"
)

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors.
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// Add appends a validation error.
func (ve *ValidationErrors) Add(field, message string) {
	*ve = append(*ve, ValidationError{Field: field, Message: message})
}

var validGrafanaLogLevels = map[string]bool{
	"debug":    true,
	"info":     true,
	"warn":     true,
	"error":    true,
	"critical": true,
}

// Validate checks the configuration for values the operator cannot work
// with. It returns nil when the config is usable.
func (c Config) Validate() error {
	var errs ValidationErrors

	if c.Grafana.Port <= 0 || c.Grafana.Port > 65535 {
		errs.Add("grafana.port", fmt.Sprintf("must be between 1 and 65535, got %d", c.Grafana.Port))
	}
	if !validGrafanaLogLevels[c.Grafana.LogLevel] {
		errs.Add("grafana.logLevel", fmt.Sprintf("unknown level %q", c.Grafana.LogLevel))
	}
	if c.Grafana.ProvisioningPath == "" {
		errs.Add("grafana.provisioningPath", "is required")
	}
	if c.Grafana.ConfigFilePath == "" {
		errs.Add("grafana.configFilePath", "is required")
	}
	if c.Workload.ServiceName == "" {
		errs.Add("workload.serviceName", "is required")
	}

	switch c.Operator.Mode {
	case WatchModeKubernetes:
		if c.Operator.Namespace == "" {
			errs.Add("operator.namespace", "is required in kubernetes mode")
		}
	case WatchModeStandalone:
	default:
		errs.Add("operator.mode", fmt.Sprintf("must be %q or %q, got %q",
			WatchModeKubernetes, WatchModeStandalone, c.Operator.Mode))
	}
	if c.Operator.AppName == "" {
		errs.Add("operator.appName", "is required")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
