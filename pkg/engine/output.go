package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"
)

// GenerationStat summarizes one completed generation. Everything except
// DegenerateSelections describes the population as it was scored, before
// culling.
type GenerationStat struct {
	Generation           int     `json:"generation"`
	AverageGain          float64 `json:"average_gain"`
	MeanOffer            float64 `json:"mean_offer"`
	MeanMinAccept        float64 `json:"mean_min_accept"`
	Encounters           int     `json:"encounters"`
	Accepted             int     `json:"accepted"`
	DegenerateSelections int     `json:"degenerate_selections,omitempty"`
}

// AcceptanceRate returns the share of encounters that ended in a deal.
func (s GenerationStat) AcceptanceRate() float64 {
	if s.Encounters == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.Encounters)
}

// Strategy is the decoded gene of one agent.
type Strategy struct {
	Gene      uint16  `json:"gene"`
	Offer     float64 `json:"offer"`
	MinAccept float64 `json:"min_accept"`
}

// Snapshot is what renderers and drivers see of an engine.
type Snapshot struct {
	Generation int              `json:"generation"`
	Population []Strategy       `json:"population"`
	History    []GenerationStat `json:"history"`
}

// Means returns the average offer and minimum-accept fraction of the
// population in the snapshot.
func (s Snapshot) Means() (offer, minAccept float64) {
	if len(s.Population) == 0 {
		return 0, 0
	}
	for _, st := range s.Population {
		offer += st.Offer
		minAccept += st.MinAccept
	}
	n := float64(len(s.Population))
	return offer / n, minAccept / n
}

// FinalReport summarizes an entire run.
type FinalReport struct {
	RunID           string           `json:"run_id"`
	Seed            int64            `json:"seed"`
	Config          Config           `json:"config"`
	Generations     int              `json:"generations"`
	Interrupted     bool             `json:"interrupted,omitempty"`
	Final           GenerationStat   `json:"final"`
	BestAverageGain float64          `json:"best_average_gain"`
	BestAtGen       int              `json:"best_at_gen"`
	MeanOffer       float64          `json:"mean_offer"`
	MeanMinAccept   float64          `json:"mean_min_accept"`
	History         []GenerationStat `json:"history,omitempty"`
	Population      []Strategy       `json:"population,omitempty"`
	Timestamp       time.Time        `json:"timestamp"`
}

// NewFinalReport summarizes snap. History and population are kept only when
// verbose is set.
func NewFinalReport(runID string, seed int64, cfg Config, snap Snapshot, verbose bool) FinalReport {
	r := FinalReport{
		RunID:       runID,
		Seed:        seed,
		Config:      cfg,
		Generations: snap.Generation,
		Timestamp:   time.Now().UTC(),
	}
	r.MeanOffer, r.MeanMinAccept = snap.Means()

	for i, s := range snap.History {
		if i == 0 || s.AverageGain > r.BestAverageGain {
			r.BestAverageGain = s.AverageGain
			r.BestAtGen = s.Generation
		}
	}
	if len(snap.History) > 0 {
		r.Final = snap.History[len(snap.History)-1]
	}

	if verbose {
		r.History = snap.History
		r.Population = snap.Population
	}
	return r
}

// WriteTextReport writes a generation report in human-readable format.
func WriteTextReport(w io.Writer, s GenerationStat) {
	fmt.Fprintf(w, "Gen %4d | Avg gain: %6.3f | Offer: %.3f | Min accept: %.3f | Accepted: %5.1f%%\n",
		s.Generation, s.AverageGain, s.MeanOffer, s.MeanMinAccept, 100*s.AcceptanceRate())
}

// sortByFinalGain returns a copy of reports sorted by final average gain
// descending.
func sortByFinalGain(reports []FinalReport) []FinalReport {
	sorted := make([]FinalReport, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Final.AverageGain > sorted[j].Final.AverageGain
	})
	return sorted
}

// WriteReplicateSummary writes replicate runs ranked by final average gain.
func WriteReplicateSummary(w io.Writer, reports []FinalReport) {
	sorted := sortByFinalGain(reports)
	fmt.Fprintln(w, "\n--- Replicates ---")
	for i, r := range sorted {
		fmt.Fprintf(w, "  #%d: [seed %d, %d gens] avg gain %6.3f | offer %.3f | min accept %.3f\n",
			i+1, r.Seed, r.Generations, r.Final.AverageGain, r.MeanOffer, r.MeanMinAccept)
	}
}

// WriteTextFinal writes the final report in human-readable format.
func WriteTextFinal(w io.Writer, r FinalReport) {
	fmt.Fprintln(w, "\n========== FINAL RESULT ==========")
	fmt.Fprintf(w, "Run:         %s\n", r.RunID)
	fmt.Fprintf(w, "Seed:        %d\n", r.Seed)
	fmt.Fprintf(w, "Population:  %d\n", r.Config.PopulationSize)
	fmt.Fprintf(w, "Generations: %d\n", r.Generations)
	if r.Interrupted {
		fmt.Fprintln(w, "Interrupted: yes")
	}
	fmt.Fprintf(w, "Avg gain:    %.3f\n", r.Final.AverageGain)
	fmt.Fprintf(w, "Best gain:   %.3f (gen %d)\n", r.BestAverageGain, r.BestAtGen)
	fmt.Fprintf(w, "Offer:       %.3f\n", r.MeanOffer)
	fmt.Fprintf(w, "Min accept:  %.3f\n", r.MeanMinAccept)
	fmt.Fprintln(w, "==================================")
}

// WriteJSONFinal writes v, a report or a slice of reports, as JSON.
func WriteJSONFinal(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
