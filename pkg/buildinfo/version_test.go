package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	embedded := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}
	read := func() (*debug.BuildInfo, bool) { return embedded, true }
	none := func() (*debug.BuildInfo, bool) { return nil, false }
	devel := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
	}

	tests := []struct {
		name                  string
		version, commit, date string
		read                  func() (*debug.BuildInfo, bool)
		want                  Info
	}{
		{
			name:    "unstamped uses embedded",
			version: "dev", commit: "none", date: "unknown",
			read:    read,
			want:    Info{Version: "v0.3.1", Commit: "abc123", Date: "2026-01-02T03:04:05Z"},
		},
		{
			name:    "stamped wins",
			version: "v1.0.0", commit: "def456", date: "2026-05-01",
			read:    read,
			want:    Info{Version: "v1.0.0", Commit: "def456", Date: "2026-05-01"},
		},
		{
			name:    "no embedded info",
			version: "dev", commit: "none", date: "unknown",
			read:    none,
			want:    Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
		{
			name:    "devel module keeps dev",
			version: "dev", commit: "none", date: "unknown",
			read:    devel,
			want:    Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolve(tt.version, tt.commit, tt.date, tt.read)
			if got.GoVersion == "" {
				t.Error("GoVersion is empty")
			}
			got.GoVersion = ""
			if got != tt.want {
				t.Errorf("resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	for _, want := range []string{"{{.Name}}", "commit:", "built:", "go:"} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() missing %q:\n%s", want, tmpl)
		}
	}
	if !strings.Contains(Get().String(), "version: ") {
		t.Errorf("String() = %q", Get().String())
	}
}
