package pjnz

import (
	"fmt"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/parser"
)

// Model data output names.
const (
	ANCPrevalence    = "anc.prev"
	ANCCount         = "anc.n"
	ANCRTPrevalence  = "ancrtsite.prev"
	ANCRTCount       = "ancrtsite.n"
	HouseholdSurveys = "hhs"
	Subpopulations   = "subpops"
	Turnover         = "turnover"
	GroupColumn      = "Group"
	DurationRowLabel = "Duration"
)

// DataSeries lists the outputs produced by ModelDataService.ReadData.
var DataSeries = []string{ANCPrevalence, ANCCount, ANCRTPrevalence, ANCRTCount, HouseholdSurveys}

// SubpopSeries lists the outputs produced by ModelDataService.ReadSubpops.
var SubpopSeries = []string{Subpopulations, Turnover}

// ModelDataService parses the EPP model embedded in an archive.
type ModelDataService interface {
	// ReadData returns the surveillance series of every group.
	ReadData(path string) (*EPPData, error)
	// ReadSubpops returns the sub-population definitions of every group.
	ReadSubpops(path string) (*Subpops, error)
}

// EPPData holds per-group surveillance series. A group is a region or a
// sub-population depending on the epidemic type.
type EPPData struct {
	Groups []GroupData
}

// GroupData holds the series reported for one group, keyed by output name.
// Series the model does not define for the group are absent.
type GroupData struct {
	Name   string
	Series map[string]*models.Table
}

// Subpops holds the sub-population definitions of an archive.
type Subpops struct {
	EpidemicType string
	Groups       []SubpopGroup
}

// SubpopGroup is one sub-population. Duration is nil when the model leaves
// it undefined; HasDuration is false when the attribute is absent.
type SubpopGroup struct {
	Name        string
	Population  *models.Table
	Duration    *float64
	HasDuration bool
}

// ModelData returns the merged table for a model output. The first
// request for an output of DataSeries or SubpopSeries calls the service
// once and caches every output of that call. The result is nil when no
// group reports the output, and nil results are cached too.
func (f *File) ModelData(name string) (*models.Table, error) {
	if t, ok := f.modelCache[name]; ok {
		return t, nil
	}

	var err error
	switch {
	case contains(DataSeries, name):
		err = f.loadData()
	case contains(SubpopSeries, name):
		err = f.loadSubpops()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownModelTable, name)
	}
	if err != nil {
		return nil, err
	}
	return f.modelCache[name], nil
}

// EpidemicType returns the epidemic type reported with the sub-populations.
func (f *File) EpidemicType() (string, error) {
	if _, ok := f.modelCache[Subpopulations]; !ok {
		if err := f.loadSubpops(); err != nil {
			return "", err
		}
	}
	return f.epidemicType, nil
}

func (f *File) loadData() error {
	if f.service == nil {
		return NewExtractionError("read_epp_data", "model", ErrNoModelDataService)
	}
	data, err := f.service.ReadData(f.path)
	if err != nil {
		f.logger.Error("model data service failed", "call", "read_epp_data", "error", err)
		return NewExtractionError("read_epp_data", "model", err)
	}

	if data == nil {
		data = &EPPData{}
	}

	merged := make(map[string]*models.Table, len(DataSeries))
	for _, name := range DataSeries {
		var parts []*models.Table
		for _, g := range data.Groups {
			series, ok := g.Series[name]
			if !ok || series == nil {
				continue
			}
			part, err := parser.ConvertTable(series, parser.TypeFloat)
			if err != nil {
				f.logger.Error("cannot convert model data", "table", name, "group", g.Name, "error", err)
				return NewExtractionError(name, "convert", err)
			}
			if err := part.SetColumn(GroupColumn, models.Fill(g.Name, part.NumRows())); err != nil {
				return NewExtractionError(name, "model", err)
			}
			parts = append(parts, part)
		}
		merged[name] = models.Concat(parts...)
		if merged[name] != nil {
			merged[name].Name = name
		}
	}

	for name, t := range merged {
		f.modelCache[name] = t
	}
	return nil
}

func (f *File) loadSubpops() error {
	if f.service == nil {
		return NewExtractionError("read_epp_subpops", "model", ErrNoModelDataService)
	}
	subpops, err := f.service.ReadSubpops(f.path)
	if err != nil {
		f.logger.Error("model data service failed", "call", "read_epp_subpops", "error", err)
		return NewExtractionError("read_epp_subpops", "model", err)
	}

	if subpops == nil {
		subpops = &Subpops{}
	}

	var pops []*models.Table
	var turnover *models.Table
	for _, g := range subpops.Groups {
		if g.Population != nil {
			part := g.Population.Clone()
			if err := part.SetColumn(GroupColumn, models.Fill(g.Name, part.NumRows())); err != nil {
				return NewExtractionError(Subpopulations, "model", err)
			}
			pops = append(pops, part)
		}
		if !g.HasDuration {
			continue
		}
		if turnover == nil {
			turnover = models.NewTable()
			turnover.Name = Turnover
			turnover.AppendRow(DurationRowLabel, nil)
		}
		var duration any
		if g.Duration != nil {
			duration = *g.Duration
		}
		if err := turnover.SetColumn(g.Name, []any{duration}); err != nil {
			return NewExtractionError(Turnover, "model", err)
		}
	}

	popTable := models.Concat(pops...)
	if popTable != nil {
		popTable.Name = Subpopulations
	}
	f.epidemicType = subpops.EpidemicType
	f.modelCache[Subpopulations] = popTable
	f.modelCache[Turnover] = turnover
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
