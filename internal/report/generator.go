package report

import (
	"fmt"
	"io"
	"time"

	"github.com/IvanShishkin/csr/internal/config"
	"github.com/IvanShishkin/csr/pkg/models"
	"go.uber.org/zap"
)

// Timestamp layouts
const (
	tableTimeLayout = "2006-01-02 15:04:05"
	isoTimeLayout   = time.RFC3339
)

// sizeUnits are the binary-prefixed units used by FormatSize
var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize formats a byte count with a binary prefix and one decimal place
func FormatSize(size uint64) string {
	value := float64(size)
	for _, unit := range sizeUnits {
		if value < 1024 {
			return fmt.Sprintf("%.1f%s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1fTB", value)
}

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.2fs", mins, secs)
}

// Generator renders search results in one of the output formats
type Generator struct {
	format string
	out    io.Writer
	logger *zap.Logger
}

// NewGenerator creates a new report generator writing to out
func NewGenerator(format string, out io.Writer, logger *zap.Logger) (*Generator, error) {
	if !config.IsValidOutput(format) {
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		format: format,
		out:    out,
		logger: logger,
	}, nil
}

// Generate renders the results
func (g *Generator) Generate(results []*models.ResultRecord) error {
	g.logger.Debug("Rendering results",
		zap.String("format", g.format),
		zap.Int("count", len(results)))

	var err error
	switch g.format {
	case config.OutputTable:
		err = g.generateTable(results)
	case config.OutputList:
		err = g.generateList(results)
	case config.OutputJSON:
		err = g.generateJSON(results)
	case config.OutputYAML:
		err = g.generateYAML(results)
	}

	if err != nil {
		return fmt.Errorf("failed to render %s output: %w", g.format, err)
	}
	return nil
}
