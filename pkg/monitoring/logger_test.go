package monitoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	var got []string
	restore := SetLogger(func(format string, v ...any) {
		got = append(got, fmt.Sprintf(format, v...))
	})
	Logf("range %.1f", 1.5)

	restoreMuted := SetLogger(nil)
	assert.NotPanics(t, func() { Logf("muted %d", 1) })
	restoreMuted()

	Logf("range %.1f", 2.5)
	restore()
	assert.Equal(t, []string{"range 1.5", "range 2.5"}, got)
}
