package logrus

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLogger_JSONFields(t *testing.T) {
	var buffer bytes.Buffer

	logger, err := NewLogger(&buffer, "json", "info")
	if err != nil {
		t.Fatal(err)
	}

	logger.WithField("account", "a1").
		WithFields(map[string]interface{}{"symbol": "ABC"}).
		Infof("executed trade [%v]", 1)

	var record map[string]interface{}
	if err := json.Unmarshal(buffer.Bytes(), &record); err != nil {
		t.Fatal(err)
	}

	expected := map[string]string{
		"severity": "info",
		"message":  "executed trade [1]",
		"account":  "a1",
		"symbol":   "ABC",
	}

	for key, value := range expected {
		if record[key] != value {
			t.Errorf(
				"unexpected value of [%v]\n"+
					"expected: [%v]\n"+
					"actual:   [%v]",
				key,
				value,
				record[key],
			)
		}
	}
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buffer bytes.Buffer

	logger, err := NewLogger(&buffer, "text", "warning")
	if err != nil {
		t.Fatal(err)
	}

	logger.Debugf("hidden")
	logger.Infof("hidden")

	if buffer.Len() != 0 {
		t.Errorf("unexpected output below warning level: [%v]", buffer.String())
	}

	logger.Warningf("visible")

	if buffer.Len() == 0 {
		t.Errorf("expected warning to be written")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	var buffer bytes.Buffer

	if _, err := NewLogger(&buffer, "text", "loud"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}
