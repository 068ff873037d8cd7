package lambvoice

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rapidmidiex/lambvoice/config"
	"github.com/rapidmidiex/lambvoice/historyui"
	"github.com/rapidmidiex/lambvoice/keymap"
	"github.com/rapidmidiex/lambvoice/knobui"
	"github.com/rapidmidiex/lambvoice/latency"
	"github.com/rapidmidiex/lambvoice/mirror"
	"github.com/rapidmidiex/lambvoice/scaleui"
	"github.com/rapidmidiex/lambvoice/selector"
	"github.com/rapidmidiex/lambvoice/styles"
	"github.com/rapidmidiex/lambvoice/synth"
	"github.com/rapidmidiex/lambvoice/voice"
	"github.com/rapidmidiex/lambvoice/voiceui"
	"github.com/rapidmidiex/lambvoice/voxerr"
	"github.com/rapidmidiex/lambvoice/wsmsg"
)

// ********
// Code heavily based on "Project Journal"
// https://github.com/bashbunni/pjs
// https://www.youtube.com/watch?v=uJ2egAkSkjg&t=319s
// ********

type (
	appView int

	// The audio backend as seen by the UI.
	player interface {
		voiceui.SubLeveler
		Toggle() bool
	}

	// remote is the part of the mirror the UI listens to.
	remote interface {
		Next() (wsmsg.Envelope, error)
	}

	remoteMsg struct {
		env wsmsg.Envelope
	}

	mainModel struct {
		curView  appView
		selector *selector.Selector
		voices   []voiceui.Model
		scales   tea.Model
		history  tea.Model
		help     help.Model
		player   player
		remote   remote
		server   string

		// Index into the focus ring: two knobs per voice, then root and scale.
		focus   int
		playing bool

		// Mouse drag state
		dragging bool
		dragY    int

		// Latest gesture handling times.
		updateTimes []time.Duration
		stats       latency.CalcMsg

		// Last moved voice and its note, ex: "A C#3"
		lastPitch string

		curError string
		log      *log.Logger
	}
)

const (
	voicesView appView = iota
	scalesView
)

func newModel(sel *selector.Selector, p player, r remote, cfg config.Config) mainModel {
	m := mainModel{
		curView:  voicesView,
		selector: sel,
		scales:   scaleui.New(cfg.Bounds().MinPitch, cfg.Bounds().MaxPitch),
		history:  historyui.New(styles.Width, 4),
		help:     help.New(),
		player:   p,
		remote:   r,
		server:   cfg.Server,
		log:      log.Default(),
	}
	for _, v := range sel.Voices() {
		m.voices = append(m.voices, voiceui.New(v, p))
	}
	m.setFocus(0)
	return m
}

func (m mainModel) Init() tea.Cmd {
	return tea.Batch(
		m.history.Init(),
		m.listenRemote(),
	)
}

func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd
	start := time.Now()

	switch msg := msg.(type) {
	case voxerr.ErrMsg:
		m.curError = msg.Error()
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.scales, cmd = m.scales.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keymap.DefaultMapping.Quit):
			return m, tea.Quit
		case key.Matches(msg, keymap.DefaultMapping.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, keymap.DefaultMapping.PlayStop):
			if m.player != nil {
				m.playing = m.player.Toggle()
			}
			return m, nil
		}
		if m.curView == scalesView {
			m.scales, cmd = m.scales.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, keymap.DefaultMapping.Scales):
			m.curView = scalesView
			m.scales = m.scales.(scaleui.Model).Focus(m.selector.Shared().Scale)
			return m, nil
		case key.Matches(msg, keymap.DefaultMapping.CycleFocus):
			m.setFocus(m.focus + 1)
			return m, nil
		case key.Matches(msg, keymap.DefaultMapping.CycleBack):
			m.setFocus(m.focus - 1)
			return m, nil
		case key.Matches(msg, keymap.DefaultMapping.GoBack):
			m.curError = ""
			return m, nil
		}
		cmds = append(cmds, m.gesture(msg))

	case tea.MouseMsg:
		switch msg.Type {
		case tea.MouseWheelUp:
			cmds = append(cmds, m.gesture(voiceui.NudgeMsg{Delta: knobui.FineStep}))
		case tea.MouseWheelDown:
			cmds = append(cmds, m.gesture(voiceui.NudgeMsg{Delta: -knobui.FineStep}))
		case tea.MouseLeft:
			m.dragging = true
			m.dragY = msg.Y
		case tea.MouseMotion:
			if m.dragging {
				// dragging up turns the knob up
				delta := float64(m.dragY-msg.Y) * knobui.DragStep
				m.dragY = msg.Y
				cmds = append(cmds, m.gesture(voiceui.NudgeMsg{Delta: delta}))
			}
		case tea.MouseRelease:
			m.dragging = false
		}

	case scaleui.ScaleSelected:
		m.curView = voicesView
		cmds = append(cmds, m.sharedChanged(m.selector.SetScale(msg.Name)))
	case scaleui.Closed:
		m.curView = voicesView

	case voiceui.PitchChangedMsg:
		m.lastPitch = msg.Voice + " " + msg.Output.Label
		m.log.Printf("voice %s: %s, sub %.2f Hz", msg.Voice, msg.Output.Label, msg.Output.SubFrequency)
		return m, nil

	case remoteMsg:
		cmds = append(cmds, m.handleRemote(msg.env), m.listenRemote())

	case historyui.AppendMsg:
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case latency.CalcMsg:
		m.stats = msg
		return m, nil
	}

	if len(cmds) > 0 {
		took := time.Since(start)
		m.updateTimes = latency.Record(m.updateTimes, took)
		cmds = append(cmds, latency.CalcStats(took, m.updateTimes))
	}
	return m, tea.Batch(cmds...)
}

func (m mainModel) View() string {
	physicalWidth, _, _ := term.GetSize(int(os.Stdout.Fd()))
	docStyle := styles.DocStyle
	if physicalWidth > 0 {
		docStyle = docStyle.MaxWidth(physicalWidth)
	}

	doc := strings.Builder{}
	if m.curView == scalesView {
		doc.WriteString(m.scales.View())
	} else {
		panels := make([]string, 0, len(m.voices)+1)
		for _, v := range m.voices {
			panels = append(panels, v.View())
		}
		panels = append(panels, m.globalView())
		doc.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...))
	}
	doc.WriteString("\n" + m.history.View() + "\n")
	doc.WriteString(m.statusBar())
	if m.curError != "" {
		doc.WriteString("\n" + styles.RenderError(m.curError))
	}
	doc.WriteString("\n" + styles.HelpMenu.Render(m.help.View(keymap.DefaultMapping)))
	return docStyle.Render(doc.String())
}

// Run builds the engine, sinks and voices for cfg and runs the program until quit.
func Run(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "lambvoice")
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	engine := synth.New(synth.Opts{
		Voices:     cfg.Voices,
		SampleRate: cfg.SampleRate,
		VolumeDB:   synth.DefaultVolumeDB,
	})
	if cfg.Audio {
		if err := engine.Start(); err != nil {
			return err
		}
	}
	defer engine.Close()
	sinks := voice.Sinks{engine}

	var mir *mirror.Mirror
	if cfg.Server != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var err error
		mir, err = mirror.Dial(ctx, cfg.Server)
		if err != nil {
			return err
		}
		defer mir.Close()
		sinks = append(sinks, mir)
	}

	shared := voice.Shared{Scale: cfg.Scale, Root: cfg.Root}
	voices := make([]*voice.Controller, cfg.Voices)
	for i := range voices {
		voices[i] = voice.New(i, sinks, shared, voice.WithBounds(cfg.Bounds()))
	}
	sel := selector.New(voices, shared)

	var r remote
	if mir != nil {
		sel.Observe(mir.SetShared)
		mir.SetShared(sel.Shared())
		r = mir
	}

	p := tea.NewProgram(newModel(sel, engine, r, cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	log.Printf("bye, %d mirror updates dropped", dropped(mir))
	return nil
}

func dropped(m *mirror.Mirror) int64 {
	if m == nil {
		return 0
	}
	return m.Dropped()
}

func (m mainModel) focusCount() int {
	return 2*len(m.voices) + 2
}

func (m mainModel) rootFocused() bool {
	return m.focus == 2*len(m.voices)
}

func (m mainModel) scaleFocused() bool {
	return m.focus == 2*len(m.voices)+1
}

// setFocus moves focus to the i-th control, wrapping around.
func (m *mainModel) setFocus(i int) {
	n := m.focusCount()
	m.focus = ((i % n) + n) % n
	for j := range m.voices {
		part := voiceui.NoFocus
		if m.focus/2 == j {
			part = voiceui.PitchFocus + voiceui.Part(m.focus%2)
		}
		m.voices[j] = m.voices[j].Focus(part)
	}
}

// gesture routes a key or nudge to the focused control.
func (m *mainModel) gesture(msg tea.Msg) tea.Cmd {
	if !m.rootFocused() && !m.scaleFocused() {
		i := m.focus / 2
		next, cmd := m.voices[i].Update(msg)
		m.voices[i] = next.(voiceui.Model)
		return cmd
	}

	delta, reset := gestureDelta(msg)
	if delta == 0 && !reset {
		return nil
	}
	before := m.selector.Shared()
	var after voice.Shared
	switch {
	case m.rootFocused() && reset:
		after = m.selector.ResetRoot()
	case m.rootFocused():
		after = m.selector.DragRoot(delta)
	case reset:
		after = m.selector.ResetScale()
	default:
		after = m.selector.DragScale(delta)
	}
	if after == before {
		return nil
	}
	return m.sharedChanged(after)
}

func gestureDelta(msg tea.Msg) (delta float64, reset bool) {
	switch msg := msg.(type) {
	case voiceui.NudgeMsg:
		return msg.Delta, false
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keymap.DefaultMapping.Increase):
			return knobui.FineStep, false
		case key.Matches(msg, keymap.DefaultMapping.Decrease):
			return -knobui.FineStep, false
		case key.Matches(msg, keymap.DefaultMapping.CoarseUp):
			return knobui.CoarseStep, false
		case key.Matches(msg, keymap.DefaultMapping.CoarseDown):
			return -knobui.CoarseStep, false
		case key.Matches(msg, keymap.DefaultMapping.Reset):
			return 0, true
		}
	}
	return 0, false
}

func (m mainModel) sharedChanged(shared voice.Shared) tea.Cmd {
	return historyui.Append(fmt.Sprintf("scale %s, root %s", shared.Scale, m.selector.RootLabel()))
}

// handleRemote applies a scale message from the mirror peer like a local gesture.
func (m *mainModel) handleRemote(env wsmsg.Envelope) tea.Cmd {
	if env.Typ != wsmsg.SCALE {
		return nil
	}
	var sm wsmsg.ScaleMsg
	if err := env.Unwrap(&sm); err != nil {
		return func() tea.Msg {
			return voxerr.ErrMsg{Err: fmt.Errorf("unmarshal ScaleMsg: %+v\n%w", env, err)}
		}
	}
	shared := m.selector.Set(voice.Shared{Scale: sm.Scale, Root: sm.Root})
	return func() tea.Msg {
		return historyui.AppendMsg{
			Line:   fmt.Sprintf("scale %s, root %s", shared.Scale, m.selector.RootLabel()),
			Remote: true,
		}
	}
}

// listenRemote reads one envelope from the mirror peer.
func (m mainModel) listenRemote() tea.Cmd {
	if m.remote == nil {
		return nil
	}
	// https://github.com/charmbracelet/bubbletea/issues/25#issuecomment-732339162
	return func() tea.Msg {
		env, err := m.remote.Next()
		if err != nil {
			return voxerr.ErrMsg{Err: err}
		}
		return remoteMsg{env: env}
	}
}

func (m mainModel) globalView() string {
	sh := m.selector.Shared()
	root := knobui.Render(m.selector.RootKnob(), "root", m.selector.RootLabel(), m.rootFocused())
	sc := knobui.Render(m.selector.ScaleKnob(), "scale", sh.Scale, m.scaleFocused())
	return styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.PanelTitle.Render("GLOBAL"),
		lipgloss.JoinHorizontal(lipgloss.Top, root, sc),
	))
}

func (m mainModel) statusBar() string {
	state := styles.StoppedStyle.Render("STOPPED")
	if m.playing {
		state = styles.PlayingStyle.Render("PLAYING")
	}
	mirrorLine := "local"
	if m.server != "" {
		mirrorLine = "mirror " + m.server
	}
	lat := styles.LatencyStyle.Render(fmt.Sprintf("update %v min %v avg %v max %v",
		m.stats.Latest, m.stats.Min, m.stats.Avg, m.stats.Max))

	used := lipgloss.Width(state) + lipgloss.Width(lat)
	if m.lastPitch != "" {
		mirrorLine = m.lastPitch + " | " + mirrorLine
	}
	text := styles.StatusText.Copy().Width(max(0, styles.Width-used)).Render(" " + mirrorLine)
	return styles.StatusBarStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, state, text, lat))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
