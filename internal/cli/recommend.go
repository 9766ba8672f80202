package cli

import (
	"fmt"
	"io"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	service "github.com/okian/spinematch/internal/app"
	"github.com/okian/spinematch/internal/domain/model"
	"github.com/okian/spinematch/internal/domain/spine"
)

type recommendOptions struct {
	profile      string
	method       string
	chart        string
	material     string
	manufacturer string
	arrowType    string
	limit        int
}

// NewRecommendCommand creates the recommend command.
func NewRecommendCommand(rootOpts *RootOptions) *cobra.Command {
	o := &recommendOptions{}
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank catalog arrows for an archer profile",
		Long: `Calculate the required spine for the archer profile in --profile and rank
the arrows of --catalog against it, with a speed for each.

The profile file is YAML with the archer profile keys at the top level:

  bow:
    draw_weight: 45
    draw_length: 28
    bow_type: recurve
  arrow_length: 29
  point_weight: 100`,
		Example: `  spinectl recommend --profile profile.yaml --catalog catalog.yaml --limit 5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, rootOpts, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.profile, "profile", "", "YAML archer profile")
	f.StringVar(&o.method, "method", "", "universal, german_industry or chart")
	f.StringVar(&o.chart, "chart", "", "chart id or manufacturer for the chart method")
	f.StringVar(&o.material, "material", "", "material preference")
	f.StringVar(&o.manufacturer, "manufacturer", "", "only arrows from this manufacturer")
	f.StringVar(&o.arrowType, "arrow-type", "", "only arrows of this type")
	f.IntVar(&o.limit, "limit", 0, "maximum number of recommendations")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

func runRecommend(cmd *cobra.Command, rootOpts *RootOptions, o *recommendOptions) error {
	ctx := cmd.Context()
	profile, err := loadProfile(o.profile)
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
	session, err := svc.Recommend(ctx, service.RecommendRequest{
		Profile:            profile,
		Method:             method,
		ChartSelection:     o.chart,
		MaterialPreference: o.material,
		Filters:            model.Filters{Manufacturer: o.manufacturer, ArrowType: o.arrowType},
		Limit:              o.limit,
	})
	if err != nil {
		return err
	}
	return newFormatter(rootOpts, cmd.OutOrStdout()).Emit(session, func(w io.Writer) {
		writeSessionText(w, session)
	})
}

// loadProfile reads an archer profile from a YAML file.
func loadProfile(path string) (model.ArcherProfile, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return model.ArcherProfile{}, fmt.Errorf("load profile %s: %w", path, err)
	}
	var p model.ArcherProfile
	if err := k.UnmarshalWithConf("", &p, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return model.ArcherProfile{}, fmt.Errorf("decode profile %s: %w", path, err)
	}
	if p.Bow.BowType != "" {
		bt, err := model.ParseBowType(string(p.Bow.BowType))
		if err != nil {
			return model.ArcherProfile{}, err
		}
		p.Bow.BowType = bt
	}
	sm, err := model.ParseStringMaterial(string(p.Bow.StringMaterial))
	if err != nil {
		return model.ArcherProfile{}, err
	}
	p.Bow.StringMaterial = sm
	return p, p.Validate()
}
