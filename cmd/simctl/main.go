// Command simctl is the simulation service control CLI.
//
// Usage:
//
//	simctl simulate <game-id>
//	simctl start <game-id> [game-id...]
//	simctl tick
//	simctl state
//	simctl stop
//	simctl schedule
//	simctl games --status scheduled
//	simctl standings
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var addr string

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	defaultAddr := os.Getenv("SIM_ADDR")
	if defaultAddr == "" {
		defaultAddr = "http://localhost:4000"
	}

	root := &cobra.Command{
		Use:           "simctl",
		Short:         "Control the game simulation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", defaultAddr, "Service base URL")

	root.AddCommand(simulateCmd())
	root.AddCommand(startCmd())
	root.AddCommand(tickCmd())
	root.AddCommand(stateCmd())
	root.AddCommand(stopCmd())
	root.AddCommand(scheduleCmd())
	root.AddCommand(gamesCmd())
	root.AddCommand(standingsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func simulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate <game-id>",
		Short: "Simulate a scheduled game from start to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/simulation/game/"+url.PathEscape(args[0]), nil)
		},
	}
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <game-id> [game-id...]",
		Short: "Start real-time simulation for scheduled games",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/simulation/start", map[string]any{"game_ids": args})
		},
	}
}

func tickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Advance all active games by one simulated minute",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/simulation/update", nil)
		},
	}
}

func stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the current simulation state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/simulation/state", nil)
		},
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the active simulation and finalize its games",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/simulation/stop", nil)
		},
	}
}

func scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Schedule next week's games for the active season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/games/schedule-next-week", nil)
		},
	}
}

func gamesCmd() *cobra.Command {
	var status, seasonID string
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List games",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if status != "" {
				q.Set("status", status)
			}
			if seasonID != "" {
				q.Set("season_id", seasonID)
			}
			path := "/games"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			return call(http.MethodGet, path, nil)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (scheduled, in_progress, completed)")
	cmd.Flags().StringVar(&seasonID, "season", "", "Filter by season ID")
	return cmd
}

func standingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings",
		Short: "Show active season standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/standings", nil)
		},
	}
}

// call issues a request against the service and pretty-prints the JSON response.
func call(method, path string, body any) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, 5*time.Minute)
	defer cancelTimeout()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(addr, "/")+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(raw))
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	return nil
}
