package config

import (
	_ "embed"
	"errors"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

//go:embed default_catalog.toml
var defaultCatalog []byte

// Catalog holds flags for the metric table and the seed dataset
type Catalog struct {
	path string
	seed bool
}

func (x *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "TOML catalog of metric definitions, KPI samples, targets and predefined risks (built-in sample when empty)",
			Category:    "Catalog",
			Sources:     cli.EnvVars("QABOARD_CATALOG"),
			Destination: &x.path,
		},
		&cli.BoolFlag{
			Name:        "seed",
			Usage:       "Seed empty datasets from the catalog on startup",
			Category:    "Catalog",
			Value:       true,
			Sources:     cli.EnvVars("QABOARD_SEED"),
			Destination: &x.seed,
		},
	}
}

func (x Catalog) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", x.path),
		slog.Bool("seed", x.seed),
	)
}

// Seed reports whether empty datasets should be filled on startup
func (x *Catalog) Seed() bool {
	return x.seed
}

type catalogFile struct {
	Metrics    []catalogMetric     `toml:"metric"`
	Risks      []catalogRisk       `toml:"risk"`
	Predefined []catalogPredefRisk `toml:"predefined_risk"`
}

type catalogMetric struct {
	Name        string    `toml:"name"`
	Description string    `toml:"description"`
	Direction   string    `toml:"direction"`
	Samples     []float64 `toml:"samples"`
	Target      *float64  `toml:"target"`
}

type catalogRisk struct {
	ID          string `toml:"id"`
	Description string `toml:"description"`
	Likelihood  int    `toml:"likelihood"`
	Impact      int    `toml:"impact"`
}

type catalogPredefRisk struct {
	ID          string `toml:"id"`
	Description string `toml:"description"`
}

// CatalogData is a parsed catalog
type CatalogData struct {
	Definitions model.MetricDefinitions
	Dataset     *model.Dataset
}

// Load reads the configured catalog, or the built-in one when no path is set
func (x *Catalog) Load() (*CatalogData, error) {
	if x.path == "" {
		data, err := ParseCatalog(defaultCatalog)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse built-in catalog")
		}
		return data, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	raw, err := os.ReadFile(x.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V(CatalogPathKey, x.path))
	}
	data, err := ParseCatalog(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load catalog", goerr.V(CatalogPathKey, x.path))
	}
	return data, nil
}

// ParseCatalog decodes and validates a TOML catalog
func ParseCatalog(raw []byte) (*CatalogData, error) {
	var f catalogFile
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidCatalog, err), "failed to parse TOML catalog")
	}

	data := &CatalogData{
		Dataset: &model.Dataset{
			Series:  model.KPISeries{},
			Targets: model.KPITargets{},
		},
	}

	for i, m := range f.Metrics {
		name := types.MetricName(m.Name)
		dir, err := types.ParseDirection(m.Direction)
		if err != nil {
			return nil, goerr.Wrap(errors.Join(ErrInvalidCatalog, err), "invalid metric direction",
				goerr.V("index", i), goerr.V("metric", m.Name))
		}
		data.Definitions = append(data.Definitions, model.MetricDefinition{
			Name:        name,
			Description: m.Description,
			Direction:   dir,
		})
		if len(m.Samples) > 0 {
			data.Dataset.Series[name] = append([]float64(nil), m.Samples...)
		}
		if m.Target != nil {
			data.Dataset.Targets[name] = *m.Target
		}
	}

	for _, r := range f.Risks {
		data.Dataset.Risks = append(data.Dataset.Risks, &model.Risk{
			ID:          types.RiskID(r.ID),
			Description: r.Description,
			Likelihood:  types.Likelihood(r.Likelihood),
			Impact:      types.Impact(r.Impact),
		})
	}
	for _, p := range f.Predefined {
		data.Dataset.Predefined = append(data.Dataset.Predefined, &model.PredefinedRisk{
			ID:          types.RiskID(p.ID),
			Description: p.Description,
		})
	}

	if len(data.Definitions) == 0 {
		data.Definitions = model.DefaultMetricDefinitions()
	}
	if err := data.Definitions.Validate(); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidCatalog, err), "invalid metric definitions")
	}
	if err := data.Dataset.Validate(); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidCatalog, err), "invalid catalog dataset")
	}
	return data, nil
}
