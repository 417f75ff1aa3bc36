package synth

import (
	"errors"
	"strings"
	"testing"
)

func TestParseConfigPriority(t *testing.T) {
	tests := []struct {
		config string
		want   Strategy
	}{
		{"", Default()},
		{"   ", Default()},
		{"row = in1", CountFromField(1)},
		{"row=in0", CountFromField(0)},
		{"row = 3", FixedCount(3)},
		{"row = 0", FixedCount(0)},
		{"row = n", CountFromVariable("n")},
		{"row = rows_2", CountFromVariable("rows_2")},
		{"row =", Default()},
		{"column = 2", Default()},
		{"column = 2, row = 4", FixedCount(4)},
		{" row = 4 , column = x ", FixedCount(4)},
		{"row = 2, row = in3", FixedCount(2)},
		{"arrow = 3", Default()},
	}
	for _, tt := range tests {
		t.Run(tt.config, func(t *testing.T) {
			got, err := ParseConfig(tt.config)
			if err != nil {
				t.Fatalf("ParseConfig(%q) error: %v", tt.config, err)
			}
			if got != tt.want {
				t.Errorf("ParseConfig(%q) = %v; want %v", tt.config, got, tt.want)
			}
		})
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		config string
		errMsg string
	}{
		{"row = inX", `invalid input reference inX, format is "in<digit>"`},
		{"row = in12", "invalid input reference in12"},
		{"row = input", "invalid input reference input"},
		{"row = in", "invalid input reference in,"},
		{"row = -1", "must not be negative"},
		{"row = 3x", "invalid row count 3x"},
		{"row = a-b", `invalid row value "a-b"`},
		{"row 3", "expected key = value"},
		{"row = 3,", "expected key = value"},
		{"= 3", `invalid key ""`},
		{"1row = 3", `invalid key "1row"`},
	}
	for _, tt := range tests {
		t.Run(tt.config, func(t *testing.T) {
			_, err := ParseConfig(tt.config)
			if err == nil {
				t.Fatalf("ParseConfig(%q) succeeded; want error containing %q", tt.config, tt.errMsg)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("ParseConfig(%q) error %T is not a *ConfigError", tt.config, err)
			}
			if ce.Config != tt.config {
				t.Errorf("ConfigError.Config = %q; want %q", ce.Config, tt.config)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("ParseConfig(%q) error = %q; want it to contain %q", tt.config, err, tt.errMsg)
			}
		})
	}
}

func TestParseEntries(t *testing.T) {
	entries, err := ParseEntries(" row = 3 , column=  ")
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{{Key: "row", Value: "3"}, {Key: "column", Value: ""}}
	if len(entries) != len(want) {
		t.Fatalf("ParseEntries returned %d entries; want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v; want %+v", i, entries[i], want[i])
		}
	}
}

func TestStrategyString(t *testing.T) {
	tests := []struct {
		s    Strategy
		want string
	}{
		{Default(), "Default"},
		{FixedCount(3), "FixedCount(3)"},
		{CountFromField(1), "CountFromField(1)"},
		{CountFromVariable("n"), "CountFromVariable(n)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q; want %q", got, tt.want)
		}
	}
}
