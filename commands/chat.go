package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tripkit-ai/tripkit/storage"
	"github.com/tripkit-ai/tripkit/trip"
)

func chatCmd() *cobra.Command {
	var (
		destination string
		days        int
		activity    int
		dates       string
		preference  string
		sessionID   string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Plan a trip interactively",
		Long: `Chat starts an interactive planning conversation. Each message is a
turn: the assistant searches for places, fills days, and schedules
timelines as the conversation progresses. The session is saved after
every turn, so an interrupted chat can be resumed with --session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			sess, err := openSession(ctx, app, sessionID, destination, days, activity, dates, preference)
			if err != nil {
				return err
			}

			return runChat(ctx, app, sess)
		},
	}

	cmd.Flags().StringVarP(&destination, "destination", "d", "", "Trip destination (required for a new session)")
	cmd.Flags().IntVar(&days, "days", 2, "Trip length in days")
	cmd.Flags().IntVar(&activity, "activity", 3, "Target stops per day")
	cmd.Flags().StringVar(&dates, "dates", "", "Travel dates, free form")
	cmd.Flags().StringVar(&preference, "preference", "", "Travel style or interests")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Resume an existing session by ID")

	return cmd
}

func openSession(ctx context.Context, app *App, sessionID, destination string, days, activity int, dates, preference string) (*trip.Session, error) {
	if sessionID != "" {
		sess, err := app.Store.Load(ctx, sessionID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("session %s not found", sessionID)
		}
		if err != nil {
			return nil, err
		}
		fmt.Printf("Resuming %s trip (session %s)\n", sess.Destination, sess.ID)
		return sess, nil
	}

	if destination == "" {
		return nil, fmt.Errorf("--destination is required for a new session")
	}

	sess := trip.NewSession(destination, days, activity)
	sess.Dates = dates
	sess.Preference = preference
	fmt.Printf("Planning a %d-day trip to %s (session %s)\n", sess.TotalDays, sess.Destination, sess.ID)
	return sess, nil
}

func runChat(ctx context.Context, app *App, sess *trip.Session) error {
	fmt.Println(`Type your requests; "exit" ends the chat.`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		if ctx.Err() != nil {
			break
		}

		reply, err := app.Engine.HandleTurn(ctx, sess, line)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(reply.Text)
		fmt.Println()

		if err := app.Store.Save(ctx, sess); err != nil {
			app.logger.Warn("session save failed", "session", sess.ID, "error", err)
		}

		if reply.DownloadReady {
			fmt.Printf("The plan is ready to export: tripkit export %s\n\n", sess.ID)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	fmt.Printf("Session saved as %s\n", sess.ID)
	return nil
}
