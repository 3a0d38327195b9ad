package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// keyBinding is one selectable filter in the console.
type keyBinding struct {
	key   string
	label string
}

// Console keys in display order.
var keyBindings = []keyBinding{
	{"n", "None"},
	{"r", "Invert"},
	{"m", "Threshold"},
	{"e", "Hue Shift"},
	{"d", "Saturation"},
	{"b", "Brightness"},
	{"c", "Gamma Correction"},
	{"a", "Contrast"},
}

const quitKey = "x"

type sentMsg struct {
	token string
	err   error
}

type statusMsg struct {
	status modeStatus
	err    error
}

type tickMsg time.Time

// consoleModel is the bubbletea model of the operator console.
type consoleModel struct {
	addr    string
	timeout time.Duration
	status  *statusClient
	send    func(ctx context.Context, addr, token string, timeout time.Duration) error

	lastSent string
	lastErr  error
	sent     int

	current   modeStatus
	statusErr error

	quitting bool
}

func newConsoleModel(addr string, timeout time.Duration, status *statusClient) *consoleModel {
	return &consoleModel{
		addr:    addr,
		timeout: timeout,
		status:  status,
		send:    sendToken,
	}
}

func (m *consoleModel) Init() tea.Cmd {
	if m.status == nil {
		return nil
	}
	return tea.Batch(m.fetchStatus(), tickEvery(time.Second))
}

func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case quitKey, "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		if isBound(key) {
			return m, m.sendCmd(key)
		}

	case sentMsg:
		m.lastSent = msg.token
		m.lastErr = msg.err
		if msg.err == nil {
			m.sent++
			if m.status != nil {
				return m, m.fetchStatus()
			}
		}

	case statusMsg:
		m.statusErr = msg.err
		if msg.err == nil {
			m.current = msg.status
		}

	case tickMsg:
		if m.quitting || m.status == nil {
			return m, nil
		}
		return m, tea.Batch(m.fetchStatus(), tickEvery(time.Second))
	}

	return m, nil
}

func (m *consoleModel) View() string {
	if m.quitting {
		return "Bye.\n"
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Tint console"))
	b.WriteString(MutedStyle.Render(" " + m.addr))
	b.WriteString("\n\n")

	var rows strings.Builder
	for _, kb := range keyBindings {
		line := fmt.Sprintf("%s  %s", KeyStyle.Render(kb.key), kb.label)
		if m.current.Token == kb.key {
			line = fmt.Sprintf("%s  %s", KeyStyle.Render(kb.key), ActiveStyle.Render(kb.label+" ●"))
		}
		rows.WriteString(line + "\n")
	}
	rows.WriteString(fmt.Sprintf("%s  %s", KeyStyle.Render(quitKey), "Quit"))
	b.WriteString(PanelStyle.Render(rows.String()))
	b.WriteString("\n")

	switch {
	case m.lastErr != nil:
		b.WriteString(ErrorStyle.Render("send failed: " + m.lastErr.Error()))
	case m.lastSent != "":
		b.WriteString(MutedStyle.Render(fmt.Sprintf("sent %q (%d total)", m.lastSent, m.sent)))
	}
	b.WriteString("\n")

	if m.status != nil {
		if m.statusErr != nil {
			b.WriteString(ErrorStyle.Render("status: " + m.statusErr.Error()))
		} else if m.current.Label != "" {
			b.WriteString("active: " + ActiveStyle.Render(m.current.Label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *consoleModel) sendCmd(token string) tea.Cmd {
	send, addr, timeout := m.send, m.addr, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return sentMsg{token: token, err: send(ctx, addr, token, timeout)}
	}
}

func (m *consoleModel) fetchStatus() tea.Cmd {
	client, timeout := m.status, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		status, err := client.fetch(ctx)
		return statusMsg{status: status, err: err}
	}
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func isBound(key string) bool {
	for _, kb := range keyBindings {
		if kb.key == key {
			return true
		}
	}
	return false
}
