package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rflkt/warriorchat/internal/conversation"
	"github.com/rflkt/warriorchat/internal/observability"
	"github.com/rflkt/warriorchat/internal/provider"
)

// style constants
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	headerBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#7D56F4")).
			MarginBottom(1)

	providerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	systemMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")).
			Italic(true)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	typingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Italic(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#B58900")).
			Padding(0, 1).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginTop(1)
)

// engineEvent wraps a conversation event for the Bubble Tea update loop.
type engineEvent conversation.Event

// chatModel is the Bubble Tea model for a running session.
type chatModel struct {
	ctx      context.Context
	eng      *conversation.Engine
	settings provider.Settings

	messages []conversation.Message
	typing   string // speaker ID mid-turn, "" when idle
	paused   bool
	notice   string
	input    []rune
	width    int
	height   int
	quitting bool

	labels map[string]lipgloss.Style // speaker ID -> colored name style
}

func newChatModel(ctx context.Context, eng *conversation.Engine, src provider.Source) chatModel {
	labels := map[string]lipgloss.Style{}
	for _, w := range eng.ActiveWarriors() {
		labels[w.ID] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(w.Color))
	}
	if eng.Mode() == conversation.ModePhrase {
		labels[conversation.SpeakerPhrase] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	}
	return chatModel{
		ctx:      ctx,
		eng:      eng,
		settings: src.Active(),
		labels:   labels,
		width:    80,
		height:   24,
	}
}

func waitEvent(ch <-chan conversation.Event) tea.Cmd {
	return func() tea.Msg {
		return engineEvent(<-ch)
	}
}

func (m chatModel) Init() tea.Cmd {
	return waitEvent(m.eng.Events())
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case engineEvent:
		switch msg.Kind {
		case conversation.EventMessage:
			m.messages = append(m.messages, msg.Message)
			m.notice = ""
		case conversation.EventTyping:
			m.typing = msg.Speaker
		case conversation.EventTypingDone:
			if m.typing == msg.Speaker {
				m.typing = ""
			}
		case conversation.EventNotice:
			m.notice = msg.Notice
		case conversation.EventPause:
			m.paused = msg.Paused
		}
		return m, waitEvent(m.eng.Events())

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m chatModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		m.eng.Close()
		return m, tea.Quit

	case tea.KeyEnter:
		text := strings.TrimSpace(string(m.input))
		if text == "" {
			return m, nil
		}
		m.input = nil
		if err := m.eng.Send(m.ctx, text); err != nil {
			if errors.Is(err, conversation.ErrBusy) {
				m.notice = "Hold on, a response is being written."
			} else {
				m.notice = err.Error()
			}
		}
		return m, nil

	case tea.KeyCtrlP:
		m.paused = m.eng.TogglePause()
		return m, nil

	case tea.KeyCtrlR:
		if err := m.eng.Refocus(m.ctx); err != nil {
			if errors.Is(err, conversation.ErrBusy) {
				m.notice = "Hold on, a response is being written."
			} else {
				m.notice = err.Error()
			}
		}
		return m, nil

	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil

	case tea.KeySpace:
		m.input = append(m.input, ' ')
		return m, nil

	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
		return m, nil
	}
	return m, nil
}

func (m chatModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "Warrior Chat"
	switch m.eng.Mode() {
	case conversation.ModeWarriors:
		title = fmt.Sprintf("Warrior Chat — %s", m.eng.Topic())
	case conversation.ModePhrase:
		if name, ok := m.eng.DisplayName(conversation.SpeakerPhrase); ok {
			title = fmt.Sprintf("Phrase — %s", name)
		}
	}
	header := titleStyle.Render(title) + "\n" +
		providerStyle.Render(fmt.Sprintf("%s / %s", m.settings.Provider, m.settings.Model))
	b.WriteString(headerBorder.Width(m.width).Render(header))
	b.WriteString("\n")

	wrap := lipgloss.NewStyle().Width(m.width)
	var lines []string
	for _, msg := range m.messages {
		lines = append(lines, strings.Split(wrap.Render(m.renderMessage(msg)), "\n")...)
		lines = append(lines, "")
	}

	// Keep the tail of the transcript visible above the fixed footer rows.
	avail := m.height - 9
	if avail < 3 {
		avail = 3
	}
	if len(lines) > avail {
		lines = lines[len(lines)-avail:]
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")

	if m.typing != "" {
		name := m.typing
		if display, ok := m.eng.DisplayName(m.typing); ok {
			name = display
		}
		b.WriteString(typingStyle.Render(fmt.Sprintf("%s is typing…", name)))
	}
	b.WriteString("\n")

	if m.paused {
		b.WriteString(pausedStyle.Render("PAUSED"))
		b.WriteString(" ")
	}
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
	}
	b.WriteString("\n")

	b.WriteString(promptStyle.Render("> "))
	b.WriteString(string(m.input))
	b.WriteString("█\n")

	b.WriteString(helpStyle.Render("enter send · ctrl+p pause/resume · ctrl+r refocus · esc quit"))
	return b.String()
}

func (m chatModel) renderMessage(msg conversation.Message) string {
	switch msg.Speaker {
	case conversation.SpeakerSystem:
		return systemMsgStyle.Render(msg.Content)
	case conversation.SpeakerUser:
		return userLabelStyle.Render("You: ") + msg.Content
	}
	name := msg.Speaker
	if display, ok := m.eng.DisplayName(msg.Speaker); ok {
		name = display
	}
	if style, ok := m.labels[msg.Speaker]; ok {
		return style.Render(name+": ") + msg.Content
	}
	return name + ": " + msg.Content
}

// runChatTUI starts the session and hands the terminal to Bubble Tea.
func runChatTUI(ctx context.Context, eng *conversation.Engine, src provider.Source, log *slog.Logger) error {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		tp, err := observability.InitTracer(ctx, "warriorchat", Version)
		if err != nil {
			log.Warn("tracing disabled", "error", err)
		} else {
			defer tp.Shutdown(context.Background())
		}
	}

	defer eng.Close()
	if err := eng.Start(ctx); err != nil {
		return err
	}

	p := tea.NewProgram(newChatModel(ctx, eng, src), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
