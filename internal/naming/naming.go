// Package naming builds timestamped names for output workbooks and log files.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // zone database for hosts without one

	"github.com/jonboulle/clockwork"
	"github.com/lestrrat-go/strftime"
)

const (
	// DefaultTimestampFormat stamps output workbook names.
	DefaultTimestampFormat = "%Y%m%d%H%M%S"
	// LogTimestampFormat stamps log file names.
	LogTimestampFormat = "%Y%m%d_%H%M%S"
	// OutputExtension is appended to every output workbook name.
	OutputExtension = ".xlsx"
)

// Namer derives file names from the current time of its clock.
type Namer struct {
	clock    clockwork.Clock
	location *time.Location
	pattern  *strftime.Strftime
}

// NewNamer creates a Namer stamping names in the given zone with the given
// strftime format. An empty zone means UTC, an empty format the default.
func NewNamer(clock clockwork.Clock, zone, format string) (*Namer, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", zone, err)
	}
	if format == "" {
		format = DefaultTimestampFormat
	}
	pattern, err := strftime.New(format)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp format %q: %w", format, err)
	}
	return &Namer{clock: clock, location: loc, pattern: pattern}, nil
}

// Timestamp returns the clock's current time rendered in the namer's zone.
func (n *Namer) Timestamp() string {
	return n.pattern.FormatString(n.clock.Now().In(n.location))
}

// OutputPath returns the workbook path for an input file:
// <outputDir>/<input base name without .json>_<timestamp>.xlsx
func (n *Namer) OutputPath(outputDir, inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, base+"_"+n.Timestamp()+OutputExtension)
}

// LogFilePath returns errors_<local timestamp>.log inside dir.
func LogFilePath(clock clockwork.Clock, dir string) (string, error) {
	stamp, err := strftime.Format(LogTimestampFormat, clock.Now())
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "errors_"+stamp+".log"), nil
}
