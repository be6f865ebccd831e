package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/basketmine/internal/itemset"
	"github.com/blackwell-systems/basketmine/internal/miner"
)

// Supported report formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ReportDoc is the serialized form of a mining report.
type ReportDoc struct {
	RunID        string     `json:"run_id" yaml:"run_id"`
	MinSupport   int        `json:"min_support" yaml:"min_support"`
	Prune        string     `json:"prune_reference" yaml:"prune_reference"`
	Transactions int        `json:"transactions" yaml:"transactions"`
	DurationMS   int64      `json:"duration_ms" yaml:"duration_ms"`
	Rules        []RuleDoc  `json:"rules" yaml:"rules"`
	Frequent     [][]string `json:"frequent" yaml:"frequent"`
	Rounds       []RoundDoc `json:"rounds,omitempty" yaml:"rounds,omitempty"`
}

// RuleDoc is one serialized display entry.
type RuleDoc struct {
	Items   []string `json:"items" yaml:"items,flow"`
	Support int      `json:"support" yaml:"support"`
}

// RoundDoc is one serialized mining round.
type RoundDoc struct {
	Index      int `json:"index" yaml:"index"`
	Candidates int `json:"candidates" yaml:"candidates"`
	Pruned     int `json:"pruned" yaml:"pruned"`
	Frequent   int `json:"frequent" yaml:"frequent"`
}

// NewReportDoc converts a report for serialization. Rounds are included
// only when withRounds is set.
func NewReportDoc(report *miner.Report, withRounds bool) ReportDoc {
	doc := ReportDoc{
		RunID:        report.RunID,
		MinSupport:   report.MinSupport,
		Prune:        report.Prune.String(),
		Transactions: report.Transactions,
		DurationMS:   report.Duration.Milliseconds(),
		Rules:        make([]RuleDoc, 0, len(report.Rules)),
		Frequent:     itemLists(report.Frequent),
	}

	for _, r := range report.Rules {
		doc.Rules = append(doc.Rules, RuleDoc{Items: r.Itemset.Items(), Support: r.Support})
	}

	if withRounds {
		for _, r := range report.Rounds {
			doc.Rounds = append(doc.Rounds, RoundDoc(r))
		}
	}

	return doc
}

func itemLists(sets []itemset.Itemset) [][]string {
	out := make([][]string, 0, len(sets))
	for _, s := range sets {
		out = append(out, s.Items())
	}
	return out
}

// Encode writes report to w in the given format.
func Encode(w io.Writer, format string, report *miner.Report, withRounds bool) error {
	switch format {
	case FormatTable, "":
		if withRounds {
			if _, err := io.WriteString(w, RenderRoundTable(report.Rounds)+"\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, RenderRuleTable(report)); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n"+RenderSummary(report))
		return err

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewReportDoc(report, withRounds))

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewReportDoc(report, withRounds)); err != nil {
			return err
		}
		return enc.Close()

	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}
