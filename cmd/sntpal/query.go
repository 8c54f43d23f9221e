package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/AndrewLester/sntpal/internal/ui"
	"github.com/AndrewLester/sntpal/pkg/sntp"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

var errInterrupted = errors.New("interrupted")

type queryModel struct {
	spinner  spinner.Model
	settings *settings
	logger   *zap.Logger
	cancel   context.CancelFunc
	ctx      context.Context

	outcomes []sntp.Outcome
	err      error
}

type queryDoneMessage []sntp.Outcome

func newQueryModel(s *settings, logger *zap.Logger) queryModel {
	ctx, cancel := context.WithCancel(context.Background())
	return queryModel{
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.Accent)),
		settings: s,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func queryCommand(m queryModel) tea.Cmd {
	return func() tea.Msg {
		return queryDoneMessage(measure(m.ctx, m.settings, m.logger))
	}
}

func (m queryModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, queryCommand(m))
}

func (m queryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancel()
			m.err = errInterrupted
			return m, tea.Quit
		}
		return m, nil
	case queryDoneMessage:
		m.cancel()
		m.outcomes = msg
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m queryModel) View() (s string) {
	if m.err != nil || m.outcomes != nil {
		return
	}

	s += ui.TitleStyle("sntpal") + "\n\n"
	s += fmt.Sprintf("%s Querying %s\n\n", m.spinner.View(), serverList(m.settings.servers))
	s += ui.HelpStyle("q: exit\n")
	return
}

func (m queryModel) GetError() error {
	return m.err
}

func serverList(servers []string) string {
	if len(servers) == 1 {
		return servers[0]
	}
	return fmt.Sprintf("%d servers", len(servers))
}
