package cli

import (
	"io"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommand_Subcommands(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	want := map[string]bool{
		"build":      false,
		"validate":   false,
		"layout":     false,
		"render":     false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats("", "json"); !reflect.DeepEqual(got, []string{"json"}) {
		t.Errorf("parseFormats(empty) = %v, want [json]", got)
	}
	if got := parseFormats("svg,png", "json"); !reflect.DeepEqual(got, []string{"svg", "png"}) {
		t.Errorf("parseFormats(svg,png) = %v, want [svg png]", got)
	}
}

func TestArtifactBasePath(t *testing.T) {
	cases := []struct {
		output string
		input  string
		want   string
	}{
		{"", "flows/menu.toml", "flows/menu"},
		{"out.json", "menu.toml", "out"},
		{"out.svg", "menu.toml", "out"},
		{"out", "menu.toml", "out"},
		{"archive.tar", "menu.toml", "archive.tar"},
	}
	for _, tc := range cases {
		if got := artifactBasePath(tc.output, tc.input); got != tc.want {
			t.Errorf("artifactBasePath(%q, %q) = %q, want %q", tc.output, tc.input, got, tc.want)
		}
	}
}
