package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphpos/pkg/errors"
	"github.com/matzehuels/graphpos/pkg/graph"
	"github.com/matzehuels/graphpos/pkg/observability"
	"github.com/matzehuels/graphpos/pkg/pipeline"
)

const chainJSON = `{
  "nodes": [{"id": "a"}, {"id": "b"}, {"id": "c"}],
  "edges": [{"source": "a", "target": "b"}, {"source": "b", "target": "c"}]
}`

// isolate points the config and cache directories at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func writeGraph(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func point(t *testing.T, n graph.Node) graph.Point {
	t.Helper()
	p, ok := n.Position.Point()
	if !ok {
		t.Fatalf("node %s has no position", n.ID)
	}
	return p
}

func TestLayoutCommand(t *testing.T) {
	dir := isolate(t)
	in := writeGraph(t, dir, "chain.json", chainJSON)
	out := filepath.Join(dir, "out.json")

	if _, err := execute(t, "layout", in, "-o", out, "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	g, err := graph.ReadGraphFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]graph.Point{"a": {X: 0, Y: 0}, "b": {X: 0, Y: 150}, "c": {X: 0, Y: 300}}
	for _, n := range g.Nodes {
		if got := point(t, n); got != want[n.ID] {
			t.Errorf("%s = %v, want %v", n.ID, got, want[n.ID])
		}
	}
	if len(g.Edges) != 2 {
		t.Errorf("edges = %d, want 2", len(g.Edges))
	}
}

func TestLayoutCommandDefaultOutput(t *testing.T) {
	dir := isolate(t)
	in := writeGraph(t, dir, "chain.json", chainJSON)

	if _, err := execute(t, "layout", in, "--direction", "lr"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	g, err := graph.ReadGraphFile(filepath.Join(dir, "chain.layout.json"))
	if err != nil {
		t.Fatal(err)
	}
	a, b := point(t, g.Nodes[0]), point(t, g.Nodes[1])
	if a.Y != b.Y || b.X <= a.X {
		t.Errorf("LR layout should advance along x: a=%v b=%v", a, b)
	}
}

func TestLayoutCommandResultFormat(t *testing.T) {
	dir := isolate(t)
	in := writeGraph(t, dir, "chain.json", chainJSON)
	out := filepath.Join(dir, "result.json")

	if _, err := execute(t, "layout", in, "-o", out, "-f", "result", "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var res pipeline.LayoutResult
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if res.Ranks["c"] != 2 || len(res.Layers) != 3 || res.Crossings != 0 {
		t.Errorf("unexpected result: ranks=%v layers=%v crossings=%d", res.Ranks, res.Layers, res.Crossings)
	}
}

func TestLayoutCommandBatch(t *testing.T) {
	dir := isolate(t)
	in1 := writeGraph(t, dir, "one.json", chainJSON)
	in2 := writeGraph(t, dir, "two.dot", "digraph { x -> y }")

	if _, err := execute(t, "layout", in1, in2); err != nil {
		t.Fatalf("layout: %v", err)
	}
	for _, name := range []string{"one.layout.json", "two.layout.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	dir := isolate(t)
	in := writeGraph(t, dir, "chain.json", chainJSON)
	dup := writeGraph(t, dir, "dup.json", `{"nodes":[{"id":"a"},{"id":"a"}]}`)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad direction", []string{"layout", in, "--direction", "up"}, errors.ErrCodeInvalidDirection},
		{"bad alignment", []string{"layout", in, "--alignment", "middle"}, errors.ErrCodeInvalidAlignment},
		{"negative spacing", []string{"layout", in, "--node-spacing", "-1"}, errors.ErrCodeInvalidOptions},
		{"bad format", []string{"layout", in, "-f", "svg"}, errors.ErrCodeInvalidInput},
		{"output with batch", []string{"layout", in, in, "-o", "x.json"}, errors.ErrCodeInvalidInput},
		{"missing file", []string{"layout", filepath.Join(dir, "nope.json")}, errors.ErrCodeFileNotFound},
		{"duplicate ids", []string{"layout", dup, "--no-cache"}, errors.ErrCodeInvalidGraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLayoutCommandUsesConfig(t *testing.T) {
	dir := isolate(t)
	in := writeGraph(t, dir, "chain.json", chainJSON)
	cfg := writeGraph(t, dir, "graphpos.toml", "[layout]\nrank_spacing = 10\n\n[cache]\nbackend = \"none\"\n")
	out := filepath.Join(dir, "out.json")

	if _, err := execute(t, "--config", cfg, "layout", in, "-o", out); err != nil {
		t.Fatalf("layout: %v", err)
	}
	g, err := graph.ReadGraphFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if p := point(t, g.Nodes[1]); p.Y != 60 {
		t.Errorf("b.Y = %v, want 60 with rank_spacing 10", p.Y)
	}

	// Flags win over the file.
	if _, err := execute(t, "--config", cfg, "layout", in, "-o", out, "--rank-spacing", "50"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	g, _ = graph.ReadGraphFile(out)
	if p := point(t, g.Nodes[1]); p.Y != 100 {
		t.Errorf("b.Y = %v, want 100 with --rank-spacing 50", p.Y)
	}
}

func TestSimulateCommand(t *testing.T) {
	dir := isolate(t)
	in := writeGraph(t, dir, "chain.json", chainJSON)
	out := filepath.Join(dir, "sim.json")

	if _, err := execute(t, "simulate", in, "-o", out, "-f", "result", "--max-ticks", "40", "--link-distance", "60"); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var res pipeline.SimulateResult
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if res.Ticks != 40 || res.Settled {
		t.Errorf("ticks = %d settled = %v, want 40 unsettled", res.Ticks, res.Settled)
	}
	for _, n := range res.Nodes {
		p := point(t, n)
		if !graph.Finite(p.X) || !graph.Finite(p.Y) {
			t.Errorf("%s = %v", n.ID, p)
		}
	}
}

func TestSimulateCommandErrors(t *testing.T) {
	dir := isolate(t)
	in := writeGraph(t, dir, "chain.json", chainJSON)

	tests := []struct {
		name string
		args []string
	}{
		{"negative budget", []string{"simulate", in, "--max-ticks", "-1"}},
		{"decay above one", []string{"simulate", in, "--alpha-decay", "1.5"}},
		{"stream fps", []string{"simulate", in, "--stream", "--fps", "-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, errors.ErrCodeInvalidOptions) {
				t.Errorf("error = %v, want INVALID_OPTIONS", err)
			}
		})
	}
}

func TestCacheCommands(t *testing.T) {
	dir := isolate(t)
	in := writeGraph(t, dir, "chain.json", chainJSON)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	cache := strings.TrimSpace(out)
	if cache != filepath.Join(dir, "cache", appName) {
		t.Errorf("cache path = %q", cache)
	}

	if _, err := execute(t, "layout", in, "-o", filepath.Join(dir, "out.json")); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if countEntries(cache) != 1 {
		t.Fatalf("cache entries = %d, want 1", countEntries(cache))
	}

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if n := countEntries(cache); n != 0 {
		t.Errorf("cache entries after clear = %d", n)
	}
}

func TestConfigShow(t *testing.T) {
	isolate(t)
	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `backend = "file"`) || !strings.Contains(out, "[server]") {
		t.Errorf("config show output:\n%s", out)
	}
}

func TestEnableDebugHooks(t *testing.T) {
	defer observability.Reset()

	var buf bytes.Buffer
	c := New(&buf, LogDebug)
	c.EnableDebugHooks()

	ctx := context.Background()
	observability.Layout().OnLayoutStart(ctx, "run-1", 3, 2)
	observability.Cache().OnCacheHit(ctx, "layout")
	observability.HTTP().OnResponse(ctx, "POST", "/v1/layout", 200, 0)

	for _, want := range []string{"layout start", "run-1", "cache hit", "response", "/v1/layout"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log missing %q:\n%s", want, buf.String())
		}
	}
}

func TestDebugHooksSilentAtInfo(t *testing.T) {
	defer observability.Reset()

	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	c.EnableDebugHooks()
	observability.Simulation().OnSimulationStart(context.Background(), "run", 1, 0)
	if buf.Len() != 0 {
		t.Errorf("debug hooks logged at info level: %s", buf.String())
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, appName) {
			t.Errorf("completion %s does not mention %s", shell, appName)
		}
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh: want error")
	}

	out, err := execute(t, "__complete", "layout", "--direction", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"TB", "LR"} {
		if !strings.Contains(out, want) {
			t.Errorf("direction completions missing %s:\n%s", want, out)
		}
	}
}

func TestLayoutCommandPrintsSummary(t *testing.T) {
	dir := isolate(t)
	in := writeGraph(t, dir, "chain.json", chainJSON)

	out, err := execute(t, "layout", in, "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Layout complete", "chain.layout.json", "3 nodes", "3 ranks"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLayoutCommandStdout(t *testing.T) {
	dir := isolate(t)
	in := writeGraph(t, dir, "chain.json", chainJSON)

	out, err := execute(t, "layout", in, "-o", "-", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	var g graph.Graph
	if err := json.Unmarshal([]byte(out), &g); err != nil {
		t.Fatalf("stdout is not a graph: %v\n%s", err, out)
	}
	if len(g.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(g.Nodes))
	}
}
