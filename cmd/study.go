package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/daehan/histudy/internal/app"
	"github.com/daehan/histudy/internal/card"
	"github.com/daehan/histudy/internal/deck"
	studyscreen "github.com/daehan/histudy/internal/screens/study"
	"github.com/daehan/histudy/internal/store"
	"github.com/daehan/histudy/internal/study"
	"github.com/daehan/histudy/internal/syncx"
)

var studyCmd = &cobra.Command{
	Use:   "study [deck.json]",
	Short: "Study a quiz deck",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resumeID, _ := cmd.Flags().GetString("resume")
		if resumeID == "" && len(args) == 0 {
			return fmt.Errorf("a deck file or --resume is required")
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		logger, closeLog, err := newLogger(dbPath)
		if err != nil {
			return err
		}
		defer closeLog()

		sessions := st.Sessions()

		var (
			sessionID string
			title     string
			cards     []*study.SessionCard
			tags      []string
		)
		if resumeID != "" {
			rec, err := sessions.Get(cmd.Context(), resumeID)
			if err != nil {
				return fmt.Errorf("resume session %s: %w", resumeID, err)
			}
			sessionID = rec.ID
			title = rec.Title
			cards = study.FromStates(rec.Cards)
			tags = rec.Tags
		} else {
			d, err := deck.Load(args[0])
			if err != nil {
				return err
			}
			sessionID = uuid.New().String()
			title = d.Title
			cards = study.Wrap(d.Cards)
			tags = d.Tags()
			if err := sessions.Create(cmd.Context(), sessionID, title, initialStates(d), tags); err != nil {
				return fmt.Errorf("create session: %w", err)
			}
		}

		// Local store first in the fan-out would win the summary echo;
		// the remote's reward metadata should take priority.
		adapters := []syncx.Adapter{}
		if remote := remoteAdapter(cmd); remote != nil {
			adapters = append(adapters, remote)
		}
		adapters = append(adapters, sessions)

		session, err := study.New(cards,
			study.WithID(sessionID),
			study.WithTitle(title),
			study.WithTags(tags),
			study.WithAdapter(syncx.NewMulti(adapters...)),
			study.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		defer session.Close()

		events := &eventLogger{events: st.Events(), logger: logger}
		return app.Run(studyscreen.New(session, events))
	},
}

func init() {
	studyCmd.Flags().String("server", os.Getenv("HISTUDY_SERVER"), "Base URL of the study-session API")
	studyCmd.Flags().String("api-key", os.Getenv("HISTUDY_API_KEY"), "API key for the study-session API")
	studyCmd.Flags().String("resume", "", "Resume a saved session by id instead of loading a deck")
}

// remoteAdapter builds the HTTP sync adapter when a server is configured.
func remoteAdapter(cmd *cobra.Command) syncx.Adapter {
	server, _ := cmd.Flags().GetString("server")
	if server == "" {
		return nil
	}
	apiKey, _ := cmd.Flags().GetString("api-key")
	return syncx.NewHTTPAdapter(server, apiKey)
}

func initialStates(d *deck.Deck) []syncx.CardState {
	states := make([]syncx.CardState, len(d.Cards))
	for i, c := range d.Cards {
		states[i] = syncx.CardState{Card: c}
	}
	return states
}

// newLogger writes structured logs next to the database so warnings never
// corrupt the alt-screen TUI.
func newLogger(dbPath string) (*slog.Logger, func(), error) {
	logPath := filepath.Join(filepath.Dir(dbPath), "histudy.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return logger, func() { _ = f.Close() }, nil
}

// eventLogger appends scored submissions to the local answer log.
type eventLogger struct {
	events *store.EventRepo
	logger *slog.Logger
}

func (l *eventLogger) LogAnswer(ctx context.Context, sessionID, cardID string, cardType card.Type, prompt string, correct bool) {
	err := l.events.AppendAnswer(ctx, store.AnswerEventData{
		SessionID: sessionID,
		CardID:    cardID,
		CardType:  cardType,
		Prompt:    prompt,
		Correct:   correct,
	})
	if err != nil {
		l.logger.Warn("append answer event failed", "session_id", sessionID, "card_id", cardID, "error", err)
	}
}
