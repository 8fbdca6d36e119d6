package simulator

import (
	"github.com/lox/jokerforbots/internal/fileutil"
	"github.com/lox/jokerforbots/internal/statistics"
)

// ProfileSummary is one profile's row in a saved report.
type ProfileSummary struct {
	Name           string  `json:"name"`
	Seats          int     `json:"seats"`
	Mean           float64 `json:"mean"`
	StdDev         float64 `json:"std_dev"`
	CILow          float64 `json:"ci95_low"`
	CIHigh         float64 `json:"ci95_high"`
	Median         float64 `json:"median"`
	WinRate        float64 `json:"win_rate"`
	Premiums       int     `json:"premiums"`
	PenaltiesTaken int     `json:"penalties_taken"`
}

// ReportFile is the JSON layout written by WriteReport.
type ReportFile struct {
	ID        string                  `json:"id"`
	Seed      int64                   `json:"seed"`
	Games     int                     `json:"games"`
	Players   int                     `json:"players"`
	Fallbacks int                     `json:"fallbacks"`
	ElapsedMS int64                   `json:"elapsed_ms"`
	Profiles  []ProfileSummary        `json:"profiles"`
	SeatMeans []float64               `json:"seat_means"`
	Results   []statistics.GameResult `json:"results"`
}

// Summarize flattens a report for saving. Profiles are ordered best first.
func Summarize(cfg Config, report *Report) ReportFile {
	stats := report.Stats
	out := ReportFile{
		ID:        report.ID,
		Seed:      cfg.Seed,
		Games:     stats.Games,
		Players:   stats.Players,
		Fallbacks: report.Fallbacks,
		ElapsedMS: report.Elapsed.Milliseconds(),
		Results:   report.Results,
	}
	for _, name := range stats.ProfileNames() {
		ps := stats.Profiles[name]
		low, high := ps.ConfidenceInterval95()
		out.Profiles = append(out.Profiles, ProfileSummary{
			Name:           name,
			Seats:          ps.N,
			Mean:           ps.Mean(),
			StdDev:         ps.StdDev(),
			CILow:          low,
			CIHigh:         high,
			Median:         ps.Median(),
			WinRate:        ps.WinRate(),
			Premiums:       ps.Premiums,
			PenaltiesTaken: ps.PenaltiesTaken,
		})
	}
	for seat := range stats.Seats {
		out.SeatMeans = append(out.SeatMeans, stats.Seats[seat].Mean())
	}
	return out
}

// WriteReport saves the report summary as JSON.
func WriteReport(filename string, cfg Config, report *Report) error {
	return fileutil.WriteJSON(filename, Summarize(cfg, report))
}
