package cli

import (
	"io"

	"github.com/spf13/cobra"

	service "github.com/okian/spinematch/internal/app"
	"github.com/okian/spinematch/internal/domain/model"
)

type speedOptions struct {
	bow         bowFlags
	arrowWeight float64
	arrowID     string
	measuredFPS float64
}

// NewSpeedCommand creates the speed command.
func NewSpeedCommand(rootOpts *RootOptions) *cobra.Command {
	o := &speedOptions{}
	cmd := &cobra.Command{
		Use:   "speed",
		Short: "Estimate arrow speed from a bow setup",
		Long: `Estimate arrow speed from a bow setup and a finished arrow weight.

A chronograph reading given with --measured-fps, or a verified record in the
catalog for --setup-id and --arrow-id, is returned unchanged.`,
		Example: `  spinectl speed --draw-weight 60 --draw-length 29 --bow-type compound --ibo-speed 330 --arrow-weight 400`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpeed(cmd, rootOpts, o)
		},
	}
	o.bow.register(cmd)
	f := cmd.Flags()
	f.Float64Var(&o.arrowWeight, "arrow-weight", 0, "finished arrow weight in grains")
	f.StringVar(&o.arrowID, "arrow-id", "", "catalog arrow id for the chronograph lookup")
	f.Float64Var(&o.measuredFPS, "measured-fps", 0, "chronograph reading in fps")
	_ = cmd.MarkFlagRequired("arrow-weight")
	return cmd
}

func runSpeed(cmd *cobra.Command, rootOpts *RootOptions, o *speedOptions) error {
	ctx := cmd.Context()
	bow, err := o.bow.config()
	if err != nil {
		return err
	}
	svc, err := newService(ctx, rootOpts, cmd)
	if err != nil {
		return err
	}
	req := service.SpeedRequest{Bow: bow, ArrowWeight: o.arrowWeight, ArrowID: o.arrowID}
	if o.measuredFPS > 0 {
		req.Chronograph = &model.ChronographRecord{
			SetupID:          bow.SetupID,
			ArrowID:          o.arrowID,
			MeasuredSpeedFPS: o.measuredFPS,
			ArrowWeight:      o.arrowWeight,
			Verified:         true,
		}
	}
	est, err := svc.EstimateSpeed(ctx, req)
	if err != nil {
		return err
	}
	return newFormatter(rootOpts, cmd.OutOrStdout()).Emit(est, func(w io.Writer) {
		writeSpeedText(w, est)
	})
}
