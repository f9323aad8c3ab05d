package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphpos/pkg/force"
	"github.com/matzehuels/graphpos/pkg/graph"
	"github.com/matzehuels/graphpos/pkg/pipeline"
)

// Watch styles
var (
	watchLabelStyle   = lipgloss.NewStyle().Foreground(colorGray)
	watchRunningStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	watchSettledStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	watchPausedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	watchBarStyle     = lipgloss.NewStyle().Foreground(colorCyan)
	watchDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	watchBarWidth = 30
	ambientStep   = 0.15
)

// =============================================================================
// WatchModel - Interactive force simulation
// =============================================================================

// frameMsg asks the model to advance one frame.
type frameMsg time.Time

// WatchModel is the bubbletea model that drives a force simulation one
// frame per tea.Tick and shows its energy and node positions.
type WatchModel struct {
	Title string
	Sim   *force.Simulation
	State force.State

	// Interval is the frame period.
	Interval time.Duration
	Paused   bool
	// Ambient adds a breathing motion to every free node each frame.
	Ambient bool
	Height  int
	Offset  int

	sched *force.ManualScheduler
	phase float64
}

// NewWatchModel builds a model over g. The simulation starts immediately.
func NewWatchModel(title string, g graph.Graph, opts pipeline.SimulateOptions, fps int) WatchModel {
	if fps <= 0 {
		fps = force.DefaultFPS
	}
	sched := force.NewManualScheduler()
	sim := pipeline.NewSimulation(g, opts, sched)
	sim.Start(nil)
	return WatchModel{
		Title:    title,
		Sim:      sim,
		State:    sim.State(),
		Interval: time.Second / time.Duration(fps),
		Height:   15,
		sched:    sched,
	}
}

func (m WatchModel) Init() tea.Cmd {
	return m.nextFrame()
}

func (m WatchModel) nextFrame() tea.Cmd {
	return tea.Tick(m.Interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if !m.Paused {
			opts := m.Sim.Options()
			m.Sim.SyncAnchor(opts.CenterX, opts.CenterY)
			if m.Ambient {
				m.phase += ambientStep
				m.Sim.PulseAmbient(m.phase)
			}
			m.sched.Step()
		}
		m.State = m.Sim.State()
		return m, m.nextFrame()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.Sim.ReheatDefault()
			m.Paused = false
		case "c":
			m.Sim.SetAlphaTarget(0)
		case "p":
			m.Paused = !m.Paused
		case "a":
			m.Ambient = !m.Ambient
			if m.Ambient {
				m.Sim.Reheat(m.Sim.Options().AlphaMin * 10)
			}
		case "up", "k":
			if m.Offset > 0 {
				m.Offset--
			}
		case "down", "j":
			if m.Offset < len(m.State.Nodes)-m.Height {
				m.Offset++
			}
		}
		m.State = m.Sim.State()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

// status names the simulation's current phase.
func (m WatchModel) status() string {
	switch {
	case m.Paused:
		return watchPausedStyle.Render("paused")
	case m.State.Running:
		return watchRunningStyle.Render("running")
	default:
		return watchSettledStyle.Render("settled")
	}
}

// energyBar renders alpha as a bar relative to the initial energy.
func (m WatchModel) energyBar() string {
	full := m.State.Options.Alpha
	if full <= 0 {
		full = 1
	}
	n := int(min(m.State.Alpha/full, 1) * watchBarWidth)
	return watchBarStyle.Render(strings.Repeat("█", n)) + watchDimStyle.Render(strings.Repeat("░", watchBarWidth-n))
}

func (m WatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(watchDimStyle.Render("space reheat  c cool  p pause  a ambient  ↑/↓ scroll  q quit"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %s   %s %d   %s %s %.4f\n\n",
		watchLabelStyle.Render("state"), m.status(),
		watchLabelStyle.Render("ticks"), m.State.Ticks,
		watchLabelStyle.Render("alpha"), m.energyBar(), m.State.Alpha)

	end := min(m.Offset+m.Height, len(m.State.Nodes))
	rows := make([][]string, 0, end-m.Offset)
	for _, n := range m.State.Nodes[m.Offset:end] {
		pin := ""
		if n.Pinned() {
			pin = "●"
		}
		rows = append(rows, []string{
			n.ID,
			fmt.Sprintf("%.1f", n.X),
			fmt.Sprintf("%.1f", n.Y),
			fmt.Sprintf("%.2f", n.VX),
			fmt.Sprintf("%.2f", n.VY),
			pin,
		})
	}
	b.WriteString(newTable("Node", "X", "Y", "VX", "VY", "Pin").Rows(rows...).Render())
	b.WriteString("\n\n")
	b.WriteString(watchDimStyle.Render(fmt.Sprintf("  [%d nodes, %d links]", len(m.State.Nodes), len(m.State.Links))))

	return b.String()
}

// =============================================================================
// watch command
// =============================================================================

// watchCommand creates the interactive simulation command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		fps    int
		output string
		flags  forceFlags
	)

	cmd := &cobra.Command{
		Use:   "watch [graph.json|graph.dot]",
		Short: "Run a force simulation interactively",
		Long: `Run a force simulation interactively in the terminal.

The simulation advances one tick per frame. Press space to reheat it, c to
let a reheated simulation cool down again, p to pause and a to toggle an
ambient breathing motion. With --output the final positions are written
when the view is closed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.Simulation
			flags.apply(cmd.Flags(), &opts)
			if err := (pipeline.StreamOptions{SimulateOptions: opts, FPS: fps}).Validate(); err != nil {
				return err
			}

			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			if err := graph.Validate(g); err != nil {
				return err
			}

			m := NewWatchModel(args[0], g, opts, fps)
			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("run watch: %w", err)
			}
			wm, ok := final.(WatchModel)
			if !ok || output == "" {
				return nil
			}
			res := graph.Graph{Nodes: wm.Sim.State().Apply(g.Nodes), Edges: g.Edges}
			if err := writeJSON(cmd.OutOrStdout(), output, res); err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.success("Positions written")
			p.file(output)
			return nil
		},
	}

	cmd.Flags().IntVar(&fps, "fps", force.DefaultFPS, "frames per second")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write final positions on exit")
	flags.register(cmd.Flags(), false)
	registerEnumCompletions(cmd, nil)

	return cmd
}
