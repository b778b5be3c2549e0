// Command demo is a terminal walkthrough of pkg/rtree: it builds a
// tree from random points and steps through a bounding-box search, a
// nearest-neighbor search, and a merge/diff update, rendering progress
// and results as it goes.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/kass/go-geo-index/pkg/models"
	"github.com/kass/go-geo-index/pkg/rtree"
)

const (
	numPoints = 200000
	capacity  = 16
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF79C6")).
			Background(lipgloss.Color("#282A36")).
			Padding(0, 1).
			MarginTop(1).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BE9FD"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
	statStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB86C"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BD93F9")).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

type stage int

const (
	stageBuilding stage = iota
	stageBuildDone
	stageSearching
	stageSearchDone
	stageNearest
	stageNearestDone
	stageUpdating
	stageDone
)

type buildDoneMsg struct {
	tree     rtree.Tree[models.POI]
	duration time.Duration
}
type searchDoneMsg struct {
	hits     int
	duration time.Duration
}
type nearestDoneMsg struct {
	entry    rtree.Entry[models.POI]
	distance float64
}
type updateDoneMsg struct {
	before, after int
}

type model struct {
	stage   stage
	spinner spinner.Model
	tree    rtree.Tree[models.POI]

	buildTime      time.Duration
	searchHits     int
	searchTime     time.Duration
	nearestEntry   rtree.Entry[models.POI]
	nearestDist    float64
	updateBefore   int
	updateAfter    int
}

func initialModel() model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))
	return model{stage: stageBuilding, spinner: s}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, buildTree())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case buildDoneMsg:
		m.tree = msg.tree
		m.buildTime = msg.duration
		m.stage = stageBuildDone
		return m, tea.Tick(400*time.Millisecond, func(time.Time) tea.Msg {
			return advanceMsg{}
		})
	case searchDoneMsg:
		m.searchHits = msg.hits
		m.searchTime = msg.duration
		m.stage = stageSearchDone
		return m, tea.Tick(400*time.Millisecond, func(time.Time) tea.Msg { return advanceMsg{} })
	case nearestDoneMsg:
		m.nearestEntry = msg.entry
		m.nearestDist = msg.distance
		m.stage = stageNearestDone
		return m, tea.Tick(400*time.Millisecond, func(time.Time) tea.Msg { return advanceMsg{} })
	case updateDoneMsg:
		m.updateBefore = msg.before
		m.updateAfter = msg.after
		m.stage = stageDone
		return m, nil
	case advanceMsg:
		switch m.stage {
		case stageBuildDone:
			m.stage = stageSearching
			return m, runSearch(m.tree)
		case stageSearchDone:
			m.stage = stageNearest
			return m, runNearest(m.tree)
		case stageNearestDone:
			m.stage = stageUpdating
			return m, runUpdate(m.tree)
		}
	}
	return m, nil
}

type advanceMsg struct{}

func (m model) View() string {
	var out string
	out += titleStyle.Render("Go Geo-Index Demo") + "\n\n"

	switch m.stage {
	case stageBuilding:
		out += subtitleStyle.Render("Building tree") + "\n\n"
		out += m.spinner.View() + fmt.Sprintf(" bulk-loading %s points...\n", statStyle.Render(fmt.Sprintf("%d", numPoints)))
	case stageBuildDone:
		out += boxStyle.Render(successStyle.Render("Build complete!\n\n") + fmt.Sprintf(
			"entries: %s\ndepth: %s\nelapsed: %s",
			statStyle.Render(fmt.Sprintf("%d", m.tree.Size())),
			statStyle.Render(fmt.Sprintf("%d", m.tree.Depth())),
			statStyle.Render(m.buildTime.String()),
		))
	case stageSearching:
		out += subtitleStyle.Render("Bounding-box search") + "\n\n" + m.spinner.View() + " searching...\n"
	case stageSearchDone:
		out += boxStyle.Render(successStyle.Render("Search complete!\n\n") + fmt.Sprintf(
			"hits: %s\nelapsed: %s",
			statStyle.Render(fmt.Sprintf("%d", m.searchHits)),
			statStyle.Render(m.searchTime.String()),
		))
	case stageNearest:
		out += subtitleStyle.Render("Nearest-neighbor search") + "\n\n" + m.spinner.View() + " searching...\n"
	case stageNearestDone:
		out += boxStyle.Render(successStyle.Render("Nearest complete!\n\n") + fmt.Sprintf(
			"closest: %s\ndistance: %s km",
			statStyle.Render(fmt.Sprintf("%v", m.nearestEntry.Payload)),
			statStyle.Render(fmt.Sprintf("%.2f", m.nearestDist)),
		))
	case stageUpdating:
		out += subtitleStyle.Render("Merge + diff update") + "\n\n" + m.spinner.View() + " rebuilding...\n"
	case stageDone:
		out += boxStyle.Render(successStyle.Render("Demo complete!\n\n") + fmt.Sprintf(
			"entries before update: %s\nentries after update: %s",
			statStyle.Render(fmt.Sprintf("%d", m.updateBefore)),
			statStyle.Render(fmt.Sprintf("%d", m.updateAfter)),
		))
	}

	out += "\n\n" + dimStyle.Render("Press 'q' to quit")
	return out
}

func buildTree() tea.Cmd {
	return func() tea.Msg {
		entries := randomEntries(numPoints)
		start := time.Now()
		tree, err := rtree.Build(entries, capacity)
		if err != nil {
			log.Fatalf("build tree: %v", err)
		}
		return buildDoneMsg{tree: tree, duration: time.Since(start)}
	}
}

func runSearch(tree rtree.Tree[models.POI]) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		hits := tree.SearchAllRect(rtree.MBR{X1: 40, Y1: -10, X2: 55, Y2: 10})
		return searchDoneMsg{hits: len(hits), duration: time.Since(start)}
	}
}

func runNearest(tree rtree.Tree[models.POI]) tea.Cmd {
	return func() tea.Msg {
		entry, dist, _ := tree.Nearest(48.85, 2.35, rtree.SphericalEarth)
		return nearestDoneMsg{entry: entry, distance: dist}
	}
}

func runUpdate(tree rtree.Tree[models.POI]) tea.Cmd {
	return func() tea.Msg {
		before := tree.Size()
		removals := tree.SearchAllRect(rtree.MBR{X1: 30, Y1: -130, X2: 45, Y2: -115})
		insertions := randomEntries(len(removals))
		updated, err := rtree.Update(tree, removals, insertions, capacity)
		if err != nil {
			log.Fatalf("update tree: %v", err)
		}
		return updateDoneMsg{before: before, after: updated.Size()}
	}
}

func randomEntries(n int) []rtree.Entry[models.POI] {
	entries := make([]rtree.Entry[models.POI], n)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < n; i++ {
		lat := r.Float64()*180 - 90
		lon := r.Float64()*360 - 180
		x, y := float32(lat), float32(lon)
		entries[i] = rtree.Entry[models.POI]{
			MBR:     rtree.MBR{X1: x, Y1: y, X2: x, Y2: y},
			Payload: models.POI{ID: uuid.NewString()},
		}
	}
	return entries
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
