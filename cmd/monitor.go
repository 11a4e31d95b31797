// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/internal/source"
	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/pkg/fardriver"
)

var monitorShowAll bool

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live dashboard for a connected controller",
	Long: `Full-screen dashboard showing the merged telemetry state: speed, RPM,
gear, voltage, current, power, temperatures, battery charge and throttle,
together with stream statistics and an event log.

By default only errors and anomalies are logged. Use --show-all to log
every decoded frame.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&monitorShowAll, "show-all", false, "Log all frames (not just errors)")
}

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

type monitorLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

type monitorModel struct {
	srcName string
	calc    fardriver.Calculator

	state *fardriver.Sample
	stats *fardriver.Statistics

	log        []monitorLogEntry
	maxLog     int
	logView    viewport.Model
	logChanged bool

	width        int
	height       int
	quitting     bool
	sourceClosed bool
	sourceErr    error
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type monitorTickMsg time.Time

type monitorFrameMsg struct {
	result    fardriver.Result
	anomalies []fardriver.ValidationError
}

type monitorClosedMsg struct {
	err error
}

//////////////////////////////////////////////////////////////
// Model
//////////////////////////////////////////////////////////////

func initialMonitorModel(srcName string, calc fardriver.Calculator) monitorModel {
	vp := viewport.New(76, 8)
	return monitorModel{
		srcName: srcName,
		calc:    calc,
		state:   &fardriver.Sample{},
		stats:   fardriver.NewStatistics(),
		log:     make([]monitorLogEntry, 0),
		maxLog:  200,
		logView: vp,
		width:   80,
		height:  24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		monitorTickCmd(),
		tea.EnterAltScreen,
	)
}

func monitorTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.stats.Reset()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width - 4
		logHeight := msg.Height - 16
		if logHeight < 4 {
			logHeight = 4
		}
		m.logView.Height = logHeight

	case monitorTickMsg:
		m.stats.CalculateRates()
		return m, monitorTickCmd()

	case monitorFrameMsg:
		m.applyFrame(msg)

	case monitorClosedMsg:
		m.sourceClosed = true
		m.sourceErr = msg.err
		m.addLogEntry("connection closed", msg.err != nil)
	}

	if m.logChanged {
		m.logView.SetContent(m.renderLog())
		m.logView.GotoBottom()
		m.logChanged = false
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m *monitorModel) applyFrame(msg monitorFrameMsg) {
	m.stats.Update(msg.result, msg.anomalies)

	if msg.result.Err != nil {
		m.addLogEntry(msg.result.Err.Error(), true)
		return
	}
	for _, a := range msg.anomalies {
		m.addLogEntry(a.Message, true)
	}

	if msg.result.Sample != nil {
		m.state.Merge(msg.result.Sample)
		m.calc.Derive(m.state)
		if monitorShowAll && len(msg.anomalies) == 0 {
			m.addLogEntry(fmt.Sprintf("%s (valid)", msg.result.Group), false)
		}
	}
}

func (m *monitorModel) addLogEntry(message string, isError bool) {
	m.log = append(m.log, monitorLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})
	if len(m.log) > m.maxLog {
		m.log = m.log[len(m.log)-m.maxLog:]
	}
	m.logChanged = true
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

var (
	monTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	monHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	monLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	monValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	monErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	monWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	monBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder
	s.WriteString(monTitleStyle.Render("FARDRIVER MONITOR"))
	s.WriteString("\n")
	s.WriteString(monHeaderStyle.Render(fmt.Sprintf("%s | Press 'q' to quit, 'r' to reset stats", m.srcName)))
	s.WriteString("\n\n")

	if m.sourceClosed {
		if m.sourceErr != nil {
			s.WriteString(monErrorStyle.Render(fmt.Sprintf("✗ Connection lost: %v", m.sourceErr)))
		} else {
			s.WriteString(monWarnStyle.Render("Connection closed"))
		}
		s.WriteString("\n\n")
	}

	s.WriteString(monBoxStyle.Render(m.renderTelemetry()))
	s.WriteString("\n\n")
	s.WriteString(monBoxStyle.Render(m.renderStats()))
	s.WriteString("\n\n")
	s.WriteString(monLabelStyle.Render("Recent Events:"))
	s.WriteString("\n")
	s.WriteString(monBoxStyle.Width(m.width - 4).Render(m.logView.View()))

	return s.String()
}

func (m monitorModel) renderTelemetry() string {
	var b strings.Builder

	line := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", monLabelStyle.Render(label), monValueStyle.Render(value)))
	}

	if m.state.SpeedKmh != nil {
		line("Speed:      ", fmt.Sprintf("%5.1f km/h", *m.state.SpeedKmh))
	}
	if m.state.RPM != nil {
		line("RPM:        ", fmt.Sprintf("%5d", *m.state.RPM))
	}
	if m.state.Gear != nil {
		line("Gear:       ", fardriver.FormatGearName(*m.state.Gear))
	}
	if m.state.VoltageV != nil {
		line("Voltage:    ", fmt.Sprintf("%5.1f V", *m.state.VoltageV))
	}
	if m.state.CurrentA != nil {
		value := fmt.Sprintf("%6.2f A", *m.state.CurrentA)
		if m.state.Regenerating != nil && *m.state.Regenerating {
			value += monWarnStyle.Render("  (regen)")
		}
		line("Current:    ", value)
	}
	if m.state.PowerW != nil {
		line("Power:      ", fmt.Sprintf("%6.0f W", *m.state.PowerW))
	}
	if m.state.ControllerTempC != nil {
		line("Ctrl temp:  ", fmt.Sprintf("%d°C", *m.state.ControllerTempC))
	}
	if m.state.MotorTempC != nil {
		line("Motor temp: ", fmt.Sprintf("%d (raw)", *m.state.MotorTempC))
	}
	if m.state.SOCPercent != nil {
		line("Battery:    ", fmt.Sprintf("%d%%", *m.state.SOCPercent))
	}
	if m.state.ThrottleRaw != nil {
		line("Throttle:   ", fmt.Sprintf("%d / %d", *m.state.ThrottleRaw, fardriver.ThrottleMax))
	}

	if b.Len() == 0 {
		return monHeaderStyle.Render("Waiting for telemetry...")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m monitorModel) renderStats() string {
	var validPercent float64
	if m.stats.TotalFrames > 0 {
		validPercent = float64(m.stats.ValidFrames) * 100.0 / float64(m.stats.TotalFrames)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s",
		monLabelStyle.Render("Frames:"), monValueStyle.Render(fmt.Sprintf("%d", m.stats.TotalFrames)),
		monLabelStyle.Render("Valid:"), monValueStyle.Render(fmt.Sprintf("%d (%.1f%%)", m.stats.ValidFrames, validPercent)),
		monLabelStyle.Render("Rate:"), monValueStyle.Render(fmt.Sprintf("%.1f fps", m.stats.FrameRate)),
	))

	errorCount := m.stats.CRCErrors + m.stats.LengthErrors + m.stats.DecodeErrors + m.stats.AnomalousValues
	if errorCount > 0 || m.stats.UnknownIdents > 0 {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s",
			monLabelStyle.Render("CRC errors:"), monErrorStyle.Render(fmt.Sprintf("%d", m.stats.CRCErrors)),
			monLabelStyle.Render("Unknown idents:"), monWarnStyle.Render(fmt.Sprintf("%d", m.stats.UnknownIdents)),
			monLabelStyle.Render("Anomalous:"), monWarnStyle.Render(fmt.Sprintf("%d", m.stats.AnomalousValues)),
		))
	}
	return b.String()
}

func (m monitorModel) renderLog() string {
	if len(m.log) == 0 {
		return monHeaderStyle.Render("  (no events yet)")
	}
	var b strings.Builder
	for _, entry := range m.log {
		timestamp := entry.timestamp.Format("15:04:05.000")
		if entry.isError {
			b.WriteString(fmt.Sprintf("%s %s\n",
				monHeaderStyle.Render(timestamp),
				monErrorStyle.Render("✗ "+entry.message),
			))
		} else {
			b.WriteString(fmt.Sprintf("%s %s\n",
				monHeaderStyle.Render(timestamp),
				monValueStyle.Render("ℹ "+entry.message),
			))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

//////////////////////////////////////////////////////////////
// Command
//////////////////////////////////////////////////////////////

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	src, err := OpenSource(cfg)
	if err != nil {
		return err
	}
	if err := src.Connect(); err != nil {
		return err
	}
	defer src.Close()

	calc := buildCalculator(cfg)
	p := tea.NewProgram(initialMonitorModel(src.Name(), calc))

	go pumpFrames(p, src, calc)

	_, err = p.Run()
	return err
}

// pumpFrames decodes source chunks and forwards the results to the TUI.
func pumpFrames(p *tea.Program, src source.Source, calc fardriver.Calculator) {
	stream := fardriver.NewStream(calc)
	for chunk := range src.Chunks() {
		for _, res := range stream.Feed(chunk) {
			var anomalies []fardriver.ValidationError
			if res.Sample != nil {
				anomalies = fardriver.ValidateSample(res.Sample)
			}
			p.Send(monitorFrameMsg{result: res, anomalies: anomalies})
		}
	}
	p.Send(monitorClosedMsg{err: src.Err()})
}
