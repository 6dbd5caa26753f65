// Package usage summarizes the LLM calls recorded in the session event
// log: token counts per purpose, estimated cost per model, and the call
// list with full request/response detail.
package usage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/dpt/internal/llm"
	"github.com/abhisek/dpt/internal/store"
)

// ModelLine is the usage of one model with its estimated cost.
type ModelLine struct {
	store.LLMModelUsage
	Cost   float64
	Priced bool
}

// Report aggregates everything recorded so far.
type Report struct {
	Purposes     []store.LLMPurposeUsage
	Models       []ModelLine
	Calls        int
	InputTokens  int
	OutputTokens int
	Cost         float64
	Unpriced     []string
}

// Partial reports whether some models had no known price.
func (r *Report) Partial() bool {
	return len(r.Unpriced) > 0
}

// Build aggregates the usage in repo.
func Build(ctx context.Context, repo store.EventRepo) (*Report, error) {
	purposes, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	models, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("query model usage: %w", err)
	}

	r := &Report{Purposes: purposes}
	for _, p := range purposes {
		r.Calls += p.Calls
		r.InputTokens += p.InputTokens
		r.OutputTokens += p.OutputTokens
	}
	for _, m := range models {
		line := ModelLine{LLMModelUsage: m}
		line.Cost, line.Priced = llm.EstimateCost(m.Model, m.InputTokens, m.OutputTokens)
		if line.Priced {
			r.Cost += line.Cost
		} else {
			r.Unpriced = append(r.Unpriced, m.Model)
		}
		r.Models = append(r.Models, line)
	}
	return r, nil
}

// FormatCost renders a USD amount, keeping sub-cent precision.
func FormatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

// Truncate cuts s to max bytes.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

var rule = strings.Repeat("─", 72)

// WriteReport prints the usage tables.
func WriteReport(w io.Writer, r *Report) {
	if r.Calls == 0 {
		fmt.Fprintln(w, "No LLM usage recorded.")
		return
	}

	fmt.Fprintln(w, "Usage by Purpose")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	fmt.Fprintln(w, rule)
	for _, p := range r.Purposes {
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			p.Purpose, p.Calls, p.InputTokens, p.OutputTokens, p.InputTokens+p.OutputTokens, p.AvgLatencyMs)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n",
		"TOTAL", r.Calls, r.InputTokens, r.OutputTokens, r.InputTokens+r.OutputTokens)

	if len(r.Models) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated Cost (USD)")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(w, rule)
	for _, m := range r.Models {
		cost := "?"
		if m.Priced {
			cost = FormatCost(m.Cost)
		}
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
			Truncate(m.Model, 32), m.Calls, m.InputTokens, m.OutputTokens, cost)
	}
	fmt.Fprintln(w, rule)
	label := "TOTAL"
	if r.Partial() {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", FormatCost(r.Cost))
	if r.Partial() {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(r.Unpriced, ", "))
	}
}

// WriteEvents prints one line per recorded call.
func WriteEvents(w io.Writer, events []store.LLMEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM events recorded.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-8s  %-16s  %-24s  %-6s  %-6s  %-6s  %s\n",
		"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 90))
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(w, "%-4d  %-8s  %-16s  %-24s  %-6d  %-6d  %-6d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("15:04:05"),
			Truncate(e.Purpose, 16),
			Truncate(e.Model, 24),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			ok,
		)
	}
}

// WriteEvent prints the full request and response of one call.
func WriteEvent(w io.Writer, e *store.LLMEvent) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(w, "ID:        %d\n", e.ID)
	fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Provider:  %s\n", e.Provider)
	fmt.Fprintf(w, "Model:     %s\n", e.Model)
	fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
	fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
	fmt.Fprintf(w, "Success:   %v\n", e.Success)
	if e.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
	}

	for _, part := range []struct{ name, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, part.name)
		fmt.Fprintln(w, sep)
		if part.body != "" {
			fmt.Fprintln(w, part.body)
		} else {
			fmt.Fprintln(w, "(not captured)")
		}
	}
}
