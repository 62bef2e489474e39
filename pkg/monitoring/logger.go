// Package monitoring is where the sensor core sends its diagnostics. Feed and
// Get never return errors, so discarded packets, truncated lines and glitches
// are only ever reported here.
package monitoring

import "log"

// Printer formats and emits one diagnostic line.
type Printer func(format string, v ...any)

var printer Printer = log.Printf

func Logf(format string, v ...any) {
	printer(format, v...)
}

// SetLogger sends diagnostics to p until restore is called. A nil p drops
// them.
func SetLogger(p Printer) (restore func()) {
	prev := printer
	if p == nil {
		p = func(string, ...any) {}
	}
	printer = p
	return func() { printer = prev }
}
