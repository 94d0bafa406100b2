// Package study implements the interactive quiz screen: one card at a time,
// scored on submit, with a verdict overlay between cards.
package study

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/daehan/histudy/internal/card"
	"github.com/daehan/histudy/internal/router"
	"github.com/daehan/histudy/internal/screen"
	"github.com/daehan/histudy/internal/screens/summary"
	sess "github.com/daehan/histudy/internal/study"
	"github.com/daehan/histudy/internal/ui/layout"
)

// AnswerLogger records scored submissions, typically the store's event repo.
type AnswerLogger interface {
	LogAnswer(ctx context.Context, sessionID, cardID string, cardType card.Type, prompt string, correct bool)
}

// StudyScreen implements screen.Screen for an active pass.
type StudyScreen struct {
	session  *sess.Session
	logger   AnswerLogger
	renderer cardRenderer

	showingFeedback    bool
	showingQuitConfirm bool
	lastCorrect        bool
	errMsg             string
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)
var _ screen.HeaderInfoProvider = (*StudyScreen)(nil)

// New creates a StudyScreen over a session. logger may be nil.
func New(session *sess.Session, logger AnswerLogger) *StudyScreen {
	return &StudyScreen{
		session:  session,
		logger:   logger,
		renderer: newRenderer(session.Active().Card),
	}
}

func (s *StudyScreen) Init() tea.Cmd {
	return s.renderer.Init()
}

func (s *StudyScreen) Title() string {
	return s.session.Title()
}

// HeaderInfo supplies the card position and running score for the header.
func (s *StudyScreen) HeaderInfo() (string, string) {
	return fmt.Sprintf("Card %d/%d", s.session.Index()+1, s.session.Len()),
		fmt.Sprintf("✓ %d", s.session.Score())
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	if s.showingQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.showingFeedback {
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *StudyScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.showingQuitConfirm {
		return renderQuitConfirm(width)
	}
	if s.showingFeedback {
		return s.renderFeedback(width)
	}
	return s.renderCardView(width)
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case feedbackDoneMsg:
		return s.handleFeedbackDone()

	case passEndMsg:
		return s.handlePassEnd()

	case restartMsg:
		return s.handleRestart()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.renderer, cmd = s.renderer.Update(msg)
	return s, cmd
}

func (s *StudyScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			s.session.Close()
			return s, tea.Quit
		case "n", "N", "esc":
			s.showingQuitConfirm = false
		}
		return s, nil
	}

	// Verdict overlay — any key moves on.
	if s.showingFeedback {
		return s, func() tea.Msg { return feedbackDoneMsg{} }
	}

	switch key {
	case "esc":
		s.showingQuitConfirm = true
		return s, nil
	case "enter":
		return s.submitAnswer()
	}

	var cmd tea.Cmd
	s.renderer, cmd = s.renderer.Update(msg)
	return s, cmd
}

// submitAnswer scores the renderer's submission against the active card.
func (s *StudyScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	sub, ready := s.renderer.Submission()
	if !ready {
		return s, nil
	}

	active := s.session.Active().Card
	correct := card.Evaluate(active, sub)
	if !s.session.Submit(correct) {
		return s, nil
	}

	if s.logger != nil {
		s.logger.LogAnswer(context.Background(), s.session.ID(),
			active.ID, active.Type, active.Prompt(), correct)
	}

	s.lastCorrect = correct
	s.renderer.Reveal(correct)
	s.showingFeedback = true
	return s, nil
}

func (s *StudyScreen) handleFeedbackDone() (screen.Screen, tea.Cmd) {
	s.showingFeedback = false
	s.session.Advance()

	if s.session.Completed() {
		return s, func() tea.Msg { return passEndMsg{} }
	}

	s.renderer = newRenderer(s.session.Active().Card)
	return s, s.renderer.Init()
}

// handlePassEnd pushes the summary screen. Its restart command pops back
// here and resets the pass.
func (s *StudyScreen) handlePassEnd() (screen.Screen, tea.Cmd) {
	restart := tea.Sequence(
		func() tea.Msg { return router.PopScreenMsg{} },
		func() tea.Msg { return restartMsg{} },
	)
	sum := sess.BuildSummary(s.session)
	return s, func() tea.Msg {
		return router.PushScreenMsg{Screen: summary.New(sum, restart)}
	}
}

func (s *StudyScreen) handleRestart() (screen.Screen, tea.Cmd) {
	s.session.Restart()
	s.showingFeedback = false
	s.lastCorrect = false
	s.renderer = newRenderer(s.session.Active().Card)
	return s, s.renderer.Init()
}
