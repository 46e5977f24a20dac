package config

import (
	"fmt"

	"github.com/casekit/caseflow/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Workflow.ReminderThresholdHours <= 0 {
		return fmt.Errorf("workflow.reminder_threshold_hours must be > 0 (got %d)",
			c.Workflow.ReminderThresholdHours)
	}
	if c.Workflow.LeaseTTL <= 0 {
		return fmt.Errorf("workflow.lease_ttl must be > 0 (got %v)", c.Workflow.LeaseTTL)
	}

	if _, err := c.ManufacturerRegistry(); err != nil {
		return err
	}

	return nil
}

// ManufacturerRegistry builds the registry from configured manufacturers,
// falling back to the built-in entries when the list is empty.
func (c *Config) ManufacturerRegistry() (*domain.ManufacturerRegistry, error) {
	if len(c.Manufacturers) == 0 {
		return domain.NewManufacturerRegistry(domain.DefaultManufacturers())
	}

	entries := make([]domain.Manufacturer, 0, len(c.Manufacturers))
	for _, m := range c.Manufacturers {
		entries = append(entries, domain.Manufacturer{
			ID:     m.ID,
			Name:   m.Name,
			Email:  m.Email,
			APIURL: m.APIURL,
		})
	}
	return domain.NewManufacturerRegistry(entries)
}
