package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/jokerforbots/internal/bot"
	"github.com/lox/jokerforbots/internal/simulator"
	"github.com/lox/jokerforbots/joker"
)

type SimulateCmd struct {
	Config   string        `short:"c" type:"existingfile" help:"HCL simulation config; replaces the other flags"`
	Games    int           `default:"100" help:"Number of games to simulate"`
	Seats    []string      `default:"hard,normal,normal,easy" help:"Profile per seat: easy, normal, hard, random or a custom profile"`
	Profiles string        `type:"existingfile" help:"HCL file with custom profiles"`
	Seed     int64         `default:"0" help:"RNG seed (0 draws one from crypto/rand)"`
	Workers  int           `default:"0" help:"Games played concurrently (0 for one per CPU)"`
	Timeout  time.Duration `default:"30s" help:"Timeout for a single game"`
	Output   string        `short:"o" help:"Write a JSON report to this file"`
}

func (c *SimulateCmd) Run(logger *log.Logger) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = joker.RandomSeed()
	}
	cfg.Logger = logger

	sim, err := simulator.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg = sim.Config()
	fmt.Printf("Simulating %d games, %d players, seed %d, %d workers\n",
		cfg.Games, cfg.Players, cfg.Seed, cfg.Workers)

	report, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println(renderReport(cfg, report))

	if c.Output != "" {
		if err := simulator.WriteReport(c.Output, cfg, report); err != nil {
			return err
		}
		logger.Info("Wrote report", "file", c.Output)
	}
	return nil
}

func (c *SimulateCmd) config() (simulator.Config, error) {
	if c.Config != "" {
		return simulator.LoadConfig(c.Config)
	}

	cfg := simulator.Config{
		Games:    c.Games,
		Profiles: c.Seats,
		Seed:     c.Seed,
		Workers:  c.Workers,
		Timeout:  c.Timeout,
	}
	if c.Profiles != "" {
		custom, err := bot.LoadProfiles(c.Profiles)
		if err != nil {
			return simulator.Config{}, err
		}
		cfg.Custom = custom
	}
	return cfg, cfg.Validate()
}

func renderReport(cfg simulator.Config, report *simulator.Report) string {
	stats := report.Stats
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("RESULTS BY PROFILE"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%-12s %6s %9s %21s %8s %7s %9s %10s\n",
		"profile", "seats", "mean", "95% CI", "median", "win%", "premiums", "penalties")
	for _, name := range stats.ProfileNames() {
		ps := stats.Profiles[name]
		low, high := ps.ConfidenceInterval95()
		fmt.Fprintf(&sb, "%-12s %6d %s %21s %8.0f %6.1f%% %9d %10d\n",
			name, ps.N,
			renderScore(ps.Mean(), "%9.1f"),
			fmt.Sprintf("[%.1f, %.1f]", low, high),
			ps.Median(),
			ps.WinRate()*100,
			ps.Premiums,
			ps.PenaltiesTaken)
	}

	sb.WriteString("\n")
	sb.WriteString(headerStyle.Render("RESULTS BY SEAT"))
	sb.WriteString("\n")
	for seat := range stats.Seats {
		s := &stats.Seats[seat]
		fmt.Fprintf(&sb, "%s %s  (sd %.1f)\n",
			labelStyle.Render(fmt.Sprintf("seat %d", seat+1)),
			renderScore(s.Mean(), "%9.1f"),
			s.StdDev())
	}

	sb.WriteString("\n")
	perSec := float64(cfg.Games) / max(report.Elapsed.Seconds(), 1e-9)
	sb.WriteString(infoStyle.Render(fmt.Sprintf(
		"%d games in %.1fs (%.0f/sec), seed %d, %d fallbacks, run %s",
		stats.Games, report.Elapsed.Seconds(), perSec, cfg.Seed, report.Fallbacks, report.ID)))
	return sb.String()
}
