package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/graphpos/pkg/force"
	"github.com/matzehuels/graphpos/pkg/graph"
	"github.com/matzehuels/graphpos/pkg/pipeline"
)

func watchGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []graph.Edge{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}},
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m WatchModel, msg tea.Msg) (WatchModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	wm, ok := next.(WatchModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return wm, cmd
}

func frame() tea.Msg { return frameMsg(time.Now()) }

func TestWatchModelAdvances(t *testing.T) {
	m := NewWatchModel("g", watchGraph(), pipeline.SimulateOptions{}, 0)
	if m.Interval != time.Second/force.DefaultFPS {
		t.Errorf("Interval = %v", m.Interval)
	}
	if !m.State.Running {
		t.Fatal("simulation should start running")
	}

	m, cmd := update(t, m, frame())
	if m.State.Ticks != 1 {
		t.Errorf("Ticks = %d, want 1", m.State.Ticks)
	}
	if cmd == nil {
		t.Error("frame should schedule the next frame")
	}
}

func TestWatchModelPause(t *testing.T) {
	m := NewWatchModel("g", watchGraph(), pipeline.SimulateOptions{}, 60)
	m, _ = update(t, m, key("p"))
	if !m.Paused {
		t.Fatal("p should pause")
	}
	m, _ = update(t, m, frame())
	if m.State.Ticks != 0 {
		t.Errorf("paused model ticked: %d", m.State.Ticks)
	}
	if !strings.Contains(m.View(), "paused") {
		t.Error("view should show paused state")
	}

	m, _ = update(t, m, key("p"))
	m, _ = update(t, m, frame())
	if m.State.Ticks != 1 {
		t.Errorf("resumed model Ticks = %d, want 1", m.State.Ticks)
	}
}

func TestWatchModelSettleAndReheat(t *testing.T) {
	m := NewWatchModel("g", watchGraph(), pipeline.SimulateOptions{}, 60)
	for i := 0; i < 2000 && m.State.Running; i++ {
		m, _ = update(t, m, frame())
	}
	if m.State.Running || !m.State.Settled() {
		t.Fatalf("simulation did not settle: %+v", m.State)
	}
	ticks := m.State.Ticks
	m, _ = update(t, m, frame())
	if m.State.Ticks != ticks {
		t.Error("settled simulation should not tick")
	}
	if !strings.Contains(m.View(), "settled") {
		t.Error("view should show settled state")
	}

	m, _ = update(t, m, key(" "))
	if !m.State.Running || m.State.Alpha < force.DefaultReheatTarget {
		t.Errorf("reheat: running=%v alpha=%v", m.State.Running, m.State.Alpha)
	}

	m, _ = update(t, m, key("c"))
	if m.State.Options.AlphaTarget != 0 {
		t.Errorf("cool should reset the alpha target, got %v", m.State.Options.AlphaTarget)
	}
}

func TestWatchModelAmbient(t *testing.T) {
	m := NewWatchModel("g", watchGraph(), pipeline.SimulateOptions{}, 60)
	m, _ = update(t, m, key("a"))
	if !m.Ambient {
		t.Fatal("a should enable ambient motion")
	}
	for range 5 {
		m, _ = update(t, m, frame())
	}
	if m.phase == 0 {
		t.Error("ambient phase should advance with frames")
	}
	for _, n := range m.State.Nodes {
		if !graph.Finite(n.X) || !graph.Finite(n.Y) {
			t.Errorf("node %s not finite: %+v", n.ID, n)
		}
	}
}

func TestWatchModelQuit(t *testing.T) {
	m := NewWatchModel("g", watchGraph(), pipeline.SimulateOptions{}, 60)
	for _, k := range []string{"q", "esc"} {
		var msg tea.Msg = key(k)
		if k == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		}
		_, cmd := update(t, m, msg)
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should quit", k)
		}
	}
}

func TestWatchModelView(t *testing.T) {
	m := NewWatchModel("graph.json", watchGraph(), pipeline.SimulateOptions{}, 60)
	m, _ = update(t, m, frame())
	view := m.View()
	for _, want := range []string{"graph.json", "ticks", "alpha", "a", "b", "c", "3 nodes, 2 links"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestWatchModelScroll(t *testing.T) {
	g := graph.Graph{}
	for _, id := range []string{"n1", "n2", "n3", "n4", "n5", "n6", "n7", "n8"} {
		g.Nodes = append(g.Nodes, graph.Node{ID: id})
	}
	m := NewWatchModel("g", g, pipeline.SimulateOptions{}, 60)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 1})
	if m.Height != 5 {
		t.Fatalf("Height = %d, want minimum 5", m.Height)
	}
	for range 10 {
		m, _ = update(t, m, key("j"))
	}
	if m.Offset != 3 {
		t.Errorf("Offset = %d, want 3", m.Offset)
	}
	if strings.Contains(m.View(), "n1") {
		t.Error("scrolled view should hide the first node")
	}
	m, _ = update(t, m, key("k"))
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
}
