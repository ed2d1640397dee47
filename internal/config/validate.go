package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.ImagesDir == "" {
		return errors.New("paths.images_dir must be set")
	}
	if c.Paths.ImagesDir == c.Paths.DataDir {
		return errors.New("paths.images_dir must differ from paths.data_dir")
	}
	return nil
}

func (c *Config) validateReport() error {
	if err := ensurePositiveMap(map[string]int{
		"report.image_max_width":  c.Report.ImageMaxWidth,
		"report.image_max_height": c.Report.ImageMaxHeight,
	}); err != nil {
		return err
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
