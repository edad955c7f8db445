// Runs the external data-extraction process that refreshes the metric
// store before a report. The process may need a rendered config file;
// that file is transient and always removed afterwards.
package extractor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"text/template"
	"time"
)

type Command struct {
	Path string
	Args []string

	// When ConfigTemplate is set it is rendered with the TemplateData
	// to ConfigPath before the run and removed after.
	ConfigTemplate string
	ConfigPath     string
	TemplateData   any

	Timeout time.Duration
}

func (c *Command) Run(ctx context.Context) error {
	if c.Path == "" {
		return fmt.Errorf("no extraction command configured")
	}

	if c.ConfigTemplate != "" {
		if err := c.renderConfig(); err != nil {
			return fmt.Errorf("render extraction config: %w", err)
		}
		defer os.Remove(c.ConfigPath)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("extraction exited with code %d", exitErr.ExitCode())
		}
		return fmt.Errorf("extraction failed to run: %w", err)
	}
	return nil
}

func (c *Command) renderConfig() error {
	tmpl, err := template.New("extract_config").Parse(c.ConfigTemplate)
	if err != nil {
		return err
	}

	file, err := os.Create(c.ConfigPath)
	if err != nil {
		return err
	}
	defer file.Close()
	return tmpl.Execute(file, c.TemplateData)
}
