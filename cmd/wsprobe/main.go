// Command wsprobe is a manual integration check for the booking server's
// real-time path. It connects two WebSocket clients, subscribes them as
// separate users, selects a seat from the first, and reports whether the
// resulting SEAT_UPDATE fanned out to the second.
//
// Usage:
//
//	wsprobe                              # probe ws://localhost:3000/ws, seat G7
//	wsprobe --url ws://host:3000/ws --seat B4 --rounds 5
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/concert-booking/probe"
)

func main() {
	cmd := &cli.Command{
		Name:  "wsprobe",
		Usage: "check real-time seat-update fan-out against a running booking server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Value: "ws://localhost:3000/ws",
				Usage: "WebSocket endpoint to probe",
			},
			&cli.StringFlag{
				Name:  "seat",
				Value: probe.DefaultSeatID,
				Usage: "seat to select from the first connection",
			},
			&cli.StringFlag{
				Name:  "user1",
				Value: "user1",
				Usage: "user subscribed on connection 1 (the selector)",
			},
			&cli.StringFlag{
				Name:  "user2",
				Value: "user2",
				Usage: "user subscribed on connection 2 (the observer)",
			},
			&cli.IntFlag{
				Name:  "rounds",
				Value: probe.DefaultRounds,
				Usage: "maximum collection rounds",
			},
			&cli.DurationFlag{
				Name:  "round-timeout",
				Value: probe.DefaultRoundTimeout,
				Usage: "per-round read timeout",
			},
			&cli.DurationFlag{
				Name:  "setup-timeout",
				Value: probe.DefaultSetupTimeout,
				Usage: "timeout for the initial welcome/snapshot messages",
			},
		},
		Action: runProbe,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func runProbe(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := probe.New(probe.Options{
		URL:          cmd.String("url"),
		Users:        [2]string{cmd.String("user1"), cmd.String("user2")},
		SeatID:       cmd.String("seat"),
		Rounds:       int(cmd.Int("rounds")),
		RoundTimeout: cmd.Duration("round-timeout"),
		SetupTimeout: cmd.Duration("setup-timeout"),
		Logf: func(format string, args ...interface{}) {
			color.Cyan(format, args...)
		},
	})

	started := time.Now()
	report, err := p.Run(ctx)

	if errors.Is(err, context.Canceled) {
		fmt.Println()
		color.Yellow("Probe interrupted by user")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println()
	color.White("Probe summary (%v):", time.Since(started).Round(time.Millisecond))
	fmt.Print(report.Summary())

	if report.FanOutObserved() {
		color.Green("WebSocket real-time probe complete: fan-out observed")
	} else {
		color.Yellow("WebSocket real-time probe complete: fan-out NOT observed")
	}
	return nil
}
