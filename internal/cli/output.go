package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	service "github.com/okian/spinematch/internal/app"
	"github.com/okian/spinematch/internal/domain/speed"
	"github.com/okian/spinematch/internal/domain/spine"
)

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

func newFormatter(opts *RootOptions, w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: w}
}

// Emit writes v as indented JSON, or calls text for the text format.
func (f *OutputFormatter) Emit(v any, text func(w io.Writer)) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(f.Writer)
	return nil
}

func writeSpineText(w io.Writer, res spine.Result) {
	fmt.Fprintf(w, "spine:   %d %s\n", res.CalculatedSpine, res.Units)
	fmt.Fprintf(w, "range:   %d-%d\n", res.Range.Minimum, res.Range.Maximum)
	fmt.Fprintf(w, "method:  %s (base %d)\n", res.Method, res.BaseSpine)
	if res.Chart != nil {
		fmt.Fprintf(w, "chart:   %s\n", res.Chart.SourceChart.ID)
	}
	for _, a := range res.Adjustments {
		fmt.Fprintf(w, "  %-18s %+7.1f  %s\n", a.Field, a.Value, a.Note)
	}
	writeNotes(w, res.Notes)
}

func writeSpeedText(w io.Writer, est speed.Estimate) {
	suffix := ""
	if est.Clamped {
		suffix = " (clamped)"
	}
	fmt.Fprintf(w, "speed:   %.1f fps%s\n", est.SpeedFPS, suffix)
	fmt.Fprintf(w, "source:  %s\n", est.Source)
	fmt.Fprintf(w, "arrow:   %.1f gr\n", est.ArrowWeight)
}

func writeSessionText(w io.Writer, s *service.TuningSession) {
	fmt.Fprintf(w, "session: %s\n", s.ID)
	writeSpineText(w, s.Spine)
	if len(s.Recommendations) == 0 {
		fmt.Fprintln(w, "no recommendations")
	}
	for i, r := range s.Recommendations {
		speedText := "n/a"
		if r.Speed != nil {
			speedText = fmt.Sprintf("%.1f fps %s", r.Speed.SpeedFPS, r.Speed.Source)
		}
		fmt.Fprintf(w, "%2d. %-28s spine %-4d %5.1f%%  %6.1f gr  %s\n",
			i+1, strings.TrimSpace(r.Product.Manufacturer+" "+r.Product.ModelName),
			r.Spec.Spine, r.MatchPercentage, r.ArrowWeight, speedText)
	}
	writeNotes(w, s.Notes)
}

func writeNotes(w io.Writer, notes []string) {
	for _, n := range notes {
		fmt.Fprintf(w, "note: %s\n", n)
	}
}
