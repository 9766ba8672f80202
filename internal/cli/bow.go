package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/spinematch/internal/domain/model"
)

// bowFlags are the bow setup flags shared by spine and speed.
type bowFlags struct {
	setupID        string
	drawWeight     float64
	drawLength     float64
	bowType        string
	camType        string
	restType       string
	stringMaterial string
	iboSpeed       float64
}

func (b *bowFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&b.setupID, "setup-id", "", "bow setup id for chronograph lookups")
	f.Float64Var(&b.drawWeight, "draw-weight", 0, "draw weight in lbs")
	f.Float64Var(&b.drawLength, "draw-length", 0, "draw length in inches")
	f.StringVar(&b.bowType, "bow-type", "", "compound, recurve or traditional (longbow)")
	f.StringVar(&b.camType, "cam-type", "", "cam type (compound only)")
	f.StringVar(&b.restType, "rest-type", "", "arrow rest type")
	f.StringVar(&b.stringMaterial, "string-material", "", "fastflight, dacron, dyneema, spectra, b50 or b55")
	f.Float64Var(&b.iboSpeed, "ibo-speed", 0, "rated IBO speed in fps (compound only)")
	_ = cmd.MarkFlagRequired("draw-weight")
	_ = cmd.MarkFlagRequired("draw-length")
	_ = cmd.MarkFlagRequired("bow-type")
}

func (b *bowFlags) config() (model.BowConfiguration, error) {
	bt, err := model.ParseBowType(b.bowType)
	if err != nil {
		return model.BowConfiguration{}, err
	}
	cfg := model.BowConfiguration{
		SetupID:       b.setupID,
		DrawWeight:    b.drawWeight,
		DrawLength:    b.drawLength,
		BowType:       bt,
		CamType:       b.camType,
		ArrowRestType: b.restType,
		IBOSpeed:      b.iboSpeed,
	}
	if b.stringMaterial != "" {
		sm, err := model.ParseStringMaterial(b.stringMaterial)
		if err != nil {
			return model.BowConfiguration{}, err
		}
		cfg.StringMaterial = sm
	}
	return cfg, cfg.Validate()
}
