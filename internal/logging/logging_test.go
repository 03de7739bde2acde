package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		format        string
		expectedLevel logrus.Level
		expectJSON    bool
	}{
		{name: "defaults", expectedLevel: logrus.InfoLevel},
		{name: "debug json", level: "debug", format: "json", expectedLevel: logrus.DebugLevel, expectJSON: true},
		{name: "case insensitive", level: "WARN", format: "JSON", expectedLevel: logrus.WarnLevel, expectJSON: true},
		{name: "invalid level falls back to info", level: "loud", format: "text", expectedLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithOutput(&buf, tt.level, tt.format)
			assert.Equal(t, tt.expectedLevel, log.GetLevel())

			buf.Reset()
			log.WithField("season", 2021).Error("season load failed")
			out := strings.TrimSpace(buf.String())
			if tt.expectJSON {
				var m map[string]any
				require.NoError(t, json.Unmarshal([]byte(out), &m))
				assert.Equal(t, "season load failed", m["msg"])
				assert.EqualValues(t, 2021, m["season"])
			} else {
				assert.Contains(t, out, "season=2021")
			}
		})
	}
}

func TestQuiet(t *testing.T) {
	log := Quiet()
	assert.Equal(t, logrus.PanicLevel, log.GetLevel())
}
