package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/shazow/wifiselect/wifi"
)

const ssidColumnWidth = 30

// RSSI range mapped onto the signal gradient.
const (
	signalFloor = -90
	signalCeil  = -30
)

// networkItem is one (SSID, protection) group from the latest scan.
type networkItem struct {
	wifi.ScanResult
	// best is set when the selected candidate is one of this group's BSSs.
	best bool
}

func (i networkItem) Title() string {
	if i.SSID == "" {
		return "<hidden>"
	}
	return string(i.SSID)
}

func (i networkItem) Description() string {
	return fmt.Sprintf("%4d dBm  %d BSS  %s", i.StrongestRSSI(), len(i.Entries), i.Protection)
}

func (i networkItem) FilterValue() string { return i.Title() }

// signalColor blends the theme's signal colors by RSSI.
func signalColor(rssi int8) lipgloss.Color {
	p := float64(int(rssi)-signalFloor) / float64(signalCeil-signalFloor)
	p = min(max(p, 0), 1)
	start, _ := colorful.Hex(CurrentTheme.SignalLow.hex())
	end, _ := colorful.Hex(CurrentTheme.SignalHigh.hex())
	return lipgloss.Color(start.BlendRgb(end, p).Hex())
}

// itemDelegate is our custom list delegate
type itemDelegate struct {
	list.DefaultDelegate
}

func newItemDelegate() itemDelegate {
	d := itemDelegate{DefaultDelegate: list.NewDefaultDelegate()}
	d.ShowDescription = false
	d.SetSpacing(0)
	return d
}

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(networkItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, listItem)
		return
	}

	icon := "🔒 "
	switch i.Protection {
	case wifi.ProtectionOpen:
		icon = "🔓 "
	case wifi.ProtectionUnknown:
		icon = "❓ "
	}
	title := []rune(icon + i.Title())
	if len(title) > ssidColumnWidth {
		title = append(title[:ssidColumnWidth-1], '…')
	}
	padding := strings.Repeat(" ", ssidColumnWidth-len(title))

	var titleStyle lipgloss.Style
	switch {
	case i.best:
		titleStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Success).Bold(true)
	case !i.Compatible:
		titleStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Disabled)
	default:
		titleStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
	}

	desc := lipgloss.NewStyle().Foreground(signalColor(i.StrongestRSSI())).Render(i.Description())
	if i.best {
		desc += lipgloss.NewStyle().Foreground(CurrentTheme.Success).Render(" (best)")
	}

	line := titleStyle.Render(string(title)) + padding + " " + desc
	lineStyle := lipgloss.NewStyle().PaddingLeft(1)
	if index == m.Index() {
		lineStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true). // Left border
			BorderForeground(CurrentTheme.Primary)
	}
	fmt.Fprint(w, lineStyle.Render(line))
}

// ListModel shows the latest scan results.
type ListModel struct {
	list          list.Model
	results       []wifi.ScanResult
	best          *wifi.ConnectionCandidate
	width, height int
}

func NewListModel() *ListModel {
	l := list.New([]list.Item{}, newItemDelegate(), 0, 0)
	l.Title = fmt.Sprintf("%-31s %s", "WiFi Network", "Signal")
	l.SetShowStatusBar(false)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scan")),
			key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
			key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "logs")),
		}
	}
	l.KeyMap.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
	l.Styles.FilterPrompt = lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
	l.Styles.FilterCursor = lipgloss.NewStyle().Foreground(CurrentTheme.Primary)

	return &ListModel{list: l}
}

func (m *ListModel) Init() tea.Cmd {
	return nil
}

func (m *ListModel) Resize(width, height int) {
	h, v := lipgloss.NewStyle().Margin(1, 2).GetFrameSize()
	bh, bv := lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).GetFrameSize()
	extraVerticalSpace := 4
	m.list.SetSize(max(width-h-bh, 0), max(height-v-bv-extraVerticalSpace, 0))
	m.width, m.height = width, height
}

func (m *ListModel) setItems() {
	items := make([]list.Item, len(m.results))
	for i, r := range m.results {
		item := networkItem{ScanResult: r}
		if m.best != nil && r.SSID == m.best.Network.SSID {
			for _, e := range r.Entries {
				if e.BSSID == m.best.BSSID {
					item.best = true
				}
			}
		}
		items[i] = item
	}
	m.list.SetItems(items)
}

func (m *ListModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case scanResultsMsg:
		m.results = []wifi.ScanResult(msg)
		wifi.SortByStrength(m.results)
		m.setItems()
	case selectionMsg:
		if msg.err == nil {
			m.best = msg.candidate
			m.setItems()
		}
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "s":
			cmds = append(cmds, func() tea.Msg { return scanMsg{} })
		case "l":
			cmds = append(cmds, push(NewLogViewModel()))
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *ListModel) View() string {
	var viewBuilder strings.Builder
	listBorderStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(CurrentTheme.Border)
	viewBuilder.WriteString(listBorderStyle.Render(m.list.View()))

	statusText := ""
	if len(m.list.Items()) > 0 {
		statusText = fmt.Sprintf("%d/%d", m.list.Index()+1, len(m.list.Items()))
	}
	viewBuilder.WriteString("\n")
	viewBuilder.WriteString(statusText)
	return lipgloss.NewStyle().Margin(1, 2).Render(viewBuilder.String())
}
