package metrics

import (
	"testing"

	"github.com/kilianp07/rakeplan/core/factory"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name  string
		sinks []factory.ModuleConfig
		ok    bool
	}{
		{"empty", nil, true},
		{"two types", []factory.ModuleConfig{{Type: "prometheus"}, {Type: "influx"}}, true},
		{"missing type", []factory.ModuleConfig{{Conf: map[string]any{"url": "x"}}}, false},
		{"duplicate", []factory.ModuleConfig{{Type: "nop"}, {Type: "nop"}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Config{Sinks: tc.sinks}.Validate()
			if (err == nil) != tc.ok {
				t.Fatalf("unexpected result %v", err)
			}
		})
	}
}

func TestNewSinkEmpty(t *testing.T) {
	s, err := NewSink(nil)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}
}
