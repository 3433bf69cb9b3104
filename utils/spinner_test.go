package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpinner_StageAndStop(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("tracing", time.Hour, false)
	s.w = &buf

	s.Start()
	s.Start() // no-op while running
	s.Stage("fitting %s", Count(3, "shape"))
	s.StopMsg = "done"
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "tracing")
	assert.Contains(t, out, "fitting 3 shapes")
	assert.True(t, strings.HasSuffix(out, "done"))

	// Stopping again only prints the message.
	buf.Reset()
	s.Stop()
	assert.Equal(t, "done", buf.String())

	var nilSpinner *Spinner
	assert.NotPanics(t, func() { nilSpinner.Stage("segmenting") })
}
