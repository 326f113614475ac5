package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	cl := CronLogger{Entry: l.WithField("component", "cron")}
	cl.Info("wake", "now", "10:05", "dangling")
	cl.Error(errors.New("boom"), "job panicked", "entry", 1)

	out := buf.String()
	assert.Contains(t, out, "msg=wake")
	assert.Contains(t, out, "now=\"10:05\"")
	assert.NotContains(t, out, "dangling")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "entry=1")
	assert.Contains(t, out, "level=error")
}
