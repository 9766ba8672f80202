package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/spinematch/internal/domain/spine"
)

type spineOptions struct {
	bow             bowFlags
	arrowLength     float64
	pointWeight     float64
	nockWeight      float64
	fletchingWeight float64
	material        string
	method          string
	chart           string
}

// NewSpineCommand creates the spine command.
func NewSpineCommand(rootOpts *RootOptions) *cobra.Command {
	o := &spineOptions{}
	cmd := &cobra.Command{
		Use:   "spine",
		Short: "Calculate the required spine for a bow setup",
		Example: `  spinectl spine --draw-weight 45 --draw-length 28 --bow-type recurve --arrow-length 29
  spinectl spine --draw-weight 60 --draw-length 29 --bow-type compound --method chart --chart easton --catalog catalog.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpine(cmd, rootOpts, o)
		},
	}
	o.bow.register(cmd)
	f := cmd.Flags()
	f.Float64Var(&o.arrowLength, "arrow-length", 0, "arrow length in inches (default 28)")
	f.Float64Var(&o.pointWeight, "point-weight", 0, "point weight in grains (default 100)")
	f.Float64Var(&o.nockWeight, "nock-weight", 0, "nock weight in grains")
	f.Float64Var(&o.fletchingWeight, "fletching-weight", 0, "total fletching weight in grains")
	f.StringVar(&o.material, "material", "", "material preference; wood species switch to pound-test units")
	f.StringVar(&o.method, "method", "", "universal, german_industry or chart")
	f.StringVar(&o.chart, "chart", "", "chart id or manufacturer for the chart method")
	return cmd
}

func runSpine(cmd *cobra.Command, rootOpts *RootOptions, o *spineOptions) error {
	ctx := cmd.Context()
	bow, err := o.bow.config()
	if err != nil {
		return err
	}
	method, err := spine.ParseMethod(o.method)
	if err != nil {
		return err
	}
	svc, err := newService(ctx, rootOpts, cmd)
	if err != nil {
		return err
	}
	res, err := svc.Calculate(ctx, spine.Request{
		Bow:                bow,
		ArrowLength:        o.arrowLength,
		PointWeight:        o.pointWeight,
		NockWeight:         o.nockWeight,
		FletchingWeight:    o.fletchingWeight,
		MaterialPreference: o.material,
		Method:             method,
		ChartSelection:     o.chart,
	})
	if err != nil {
		return err
	}
	return newFormatter(rootOpts, cmd.OutOrStdout()).Emit(res, func(w io.Writer) {
		writeSpineText(w, res)
	})
}
