package main

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/matsen/refenrich/internal/config"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short", "Smith 2019", 20, "Smith 2019"},
		{"exact", "abcde", 5, "abcde"},
		{"long", "abcdefghij", 8, "abcde..."},
		{"multibyte", "Öffentlichkeit", 8, "Öffen..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateString(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestApplyExtractionFlags(t *testing.T) {
	tests := []struct {
		name        string
		set         map[string]string
		wantContext int
		wantTag     string
	}{
		{
			name:        "unset flags keep config",
			wantContext: 7,
			wantTag:     "custom",
		},
		{
			name:        "context flag",
			set:         map[string]string{"context": "1"},
			wantContext: 1,
			wantTag:     "custom",
		},
		{
			name:        "tag flag strips hash",
			set:         map[string]string{"tag": "#cite"},
			wantContext: 7,
			wantTag:     "cite",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var contextLines int
			var tag string
			cmd := &cobra.Command{Use: "test"}
			addExtractionFlags(cmd, &contextLines, &tag)
			for k, v := range tt.set {
				if err := cmd.Flags().Set(k, v); err != nil {
					t.Fatalf("setting %s: %v", k, err)
				}
			}

			cfg := config.Default()
			cfg.ContextLines = 7
			cfg.MarkerTag = "custom"
			applyExtractionFlags(cmd, cfg, contextLines, tag)

			if cfg.ContextLines != tt.wantContext {
				t.Errorf("ContextLines = %d, want %d", cfg.ContextLines, tt.wantContext)
			}
			if cfg.MarkerTag != tt.wantTag {
				t.Errorf("MarkerTag = %q, want %q", cfg.MarkerTag, tt.wantTag)
			}
		})
	}
}

func TestNonNil(t *testing.T) {
	if got := nonNil(nil); got == nil || len(got) != 0 {
		t.Errorf("nonNil(nil) = %#v", got)
	}
	in := []string{"a"}
	if got := nonNil(in); len(got) != 1 || got[0] != "a" {
		t.Errorf("nonNil(%v) = %v", in, got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"enrich", "scan", "match", "check", "config"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
	for _, sub := range []string{"show", "path", "init"} {
		cmd, _, err := rootCmd.Find([]string{"config", sub})
		if err != nil || cmd.Name() != sub {
			t.Errorf("config subcommand %q not registered", sub)
		}
	}
}
