package geo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"
)

// sampleAttempts bounds the rejection-sampling fallback per feature.
const sampleAttempts = 64

var ErrMissingColumns = errors.New("csv is missing required columns")

// Feature is a point-like input feature: a suburb or locality with its
// outer ring geometry.
type Feature struct {
	Name  string
	Type  string
	Rings []Ring
}

// RegionShape is a regional-council polygon set.
type RegionShape struct {
	Name  string
	Rings []Ring
}

// Stats summarizes one generation run.
type Stats struct {
	Processed  int `json:"processed"`
	Included   int `json:"included"`
	Skipped    int `json:"skipped"`
	Unassigned int `json:"unassigned"`
}

// Output is the emitted JSON document. The region table maps region name
// to a sorted, de-duplicated list of suburb names.
type Output struct {
	GeneratedAt      string              `json:"generatedAt"`
	Sources          []string            `json:"sources"`
	RegionsToSuburbs map[string][]string `json:"NZ_REGIONS_TO_SUBURBS"`
	Stats            Stats               `json:"stats"`
}

// Result carries the generated table plus the features that could not be
// assigned, reported by name so a reviewer can extend the override list.
type Result struct {
	RegionsToSuburbs map[string][]string
	Stats            Stats
	Unassigned       []string
}

// LoadFeaturesCSV reads point-like features from a CSV export. The header
// must contain WKT, name and type columns (case-insensitive). Rows with
// unparseable geometry or a missing name are counted and skipped, never
// fatal.
func LoadFeaturesCSV(path string) ([]Feature, int, error) {
	rows, skipped, err := loadWKTRows(path, "type_code")
	if err != nil {
		return nil, 0, err
	}
	features := make([]Feature, len(rows))
	for i, row := range rows {
		features[i] = Feature{Name: row.name, Type: row.extra, Rings: row.rings}
	}
	return features, skipped, nil
}

// LoadRegionsCSV reads regional-council polygons from a CSV export.
func LoadRegionsCSV(path string) ([]RegionShape, int, error) {
	rows, skipped, err := loadWKTRows(path, "")
	if err != nil {
		return nil, 0, err
	}
	regions := make([]RegionShape, len(rows))
	for i, row := range rows {
		regions[i] = RegionShape{Name: row.name, Rings: row.rings}
	}
	return regions, skipped, nil
}

type wktRow struct {
	name  string
	extra string
	rings []Ring
}

func loadWKTRows(path, extraColumn string) ([]wktRow, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read csv header: %w", err)
	}

	wktCol, nameCol, extraCol := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "wkt", "geometry", "shape":
			wktCol = i
		case "name", "name_ascii":
			if nameCol == -1 {
				nameCol = i
			}
		case extraColumn:
			if extraColumn != "" {
				extraCol = i
			}
		}
	}
	if wktCol == -1 || nameCol == -1 {
		return nil, 0, fmt.Errorf("%w: need wkt and name in %v", ErrMissingColumns, header)
	}

	var rows []wktRow
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read csv row: %w", err)
		}
		if wktCol >= len(record) || nameCol >= len(record) {
			skipped++
			continue
		}

		name := strings.TrimSpace(record[nameCol])
		if name == "" {
			skipped++
			continue
		}

		rings, err := ParseWKT(record[wktCol])
		if err != nil {
			skipped++
			continue
		}

		row := wktRow{name: name, rings: rings}
		if extraCol != -1 && extraCol < len(record) {
			row.extra = strings.TrimSpace(record[extraCol])
		}
		rows = append(rows, row)
	}

	return rows, skipped, nil
}

// featureSeed derives the deterministic sampling seed for a feature from
// its name and type, so re-runs are byte-identical.
func featureSeed(name, featureType string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	h.Write([]byte("|"))
	h.Write([]byte(featureType))
	return int64(h.Sum64())
}

type projectedRegion struct {
	name  string
	rings [][]XY
}

func (r projectedRegion) contains(p XY) bool {
	for _, ring := range r.rings {
		if Contains(ring, p) {
			return true
		}
	}
	return false
}

// datasetOrigin picks the projection origin as the vertex mean of all
// region geometry, so the local plane is centered on the dataset.
func datasetOrigin(regions []RegionShape) Point {
	var sum Point
	count := 0
	for _, region := range regions {
		for _, ring := range region.Rings {
			for _, pt := range ring {
				sum.Lon += pt.Lon
				sum.Lat += pt.Lat
				count++
			}
		}
	}
	if count == 0 {
		return Point{}
	}
	return Point{Lon: sum.Lon / float64(count), Lat: sum.Lat / float64(count)}
}

// assignFeature finds the region containing the feature. Centroid
// containment is tried first; concave features whose centroid falls
// outside every region fall back to seeded rejection sampling inside the
// feature's bounding box, bounded to sampleAttempts tries.
func assignFeature(f Feature, proj Projection, regions []projectedRegion) (string, bool) {
	projected := make([][]XY, len(f.Rings))
	for i, ring := range f.Rings {
		projected[i] = proj.ProjectRing(ring)
	}

	for _, ring := range projected {
		centroid := Centroid(ring)
		for _, region := range regions {
			if region.contains(centroid) {
				return region.name, true
			}
		}
	}

	rng := rand.New(rand.NewSource(featureSeed(f.Name, f.Type)))
	for _, ring := range projected {
		min, max := BoundingBox(ring)
		for attempt := 0; attempt < sampleAttempts; attempt++ {
			p := XY{
				X: min.X + rng.Float64()*(max.X-min.X),
				Y: min.Y + rng.Float64()*(max.Y-min.Y),
			}
			if !Contains(ring, p) {
				continue
			}
			for _, region := range regions {
				if region.contains(p) {
					return region.name, true
				}
			}
		}
	}

	return "", false
}

// Generate assigns every feature to a region. Overrides force-assign
// specific feature names that fail geometric assignment; they are a
// reviewed exception list, not a general policy.
func Generate(features []Feature, regions []RegionShape, overrides map[string]string) Result {
	proj := NewProjection(datasetOrigin(regions))

	projected := make([]projectedRegion, len(regions))
	for i, region := range regions {
		rings := make([][]XY, len(region.Rings))
		for j, ring := range region.Rings {
			rings[j] = proj.ProjectRing(ring)
		}
		projected[i] = projectedRegion{name: region.Name, rings: rings}
	}

	table := make(map[string]map[string]bool)
	add := func(region, suburb string) {
		if table[region] == nil {
			table[region] = make(map[string]bool)
		}
		table[region][suburb] = true
	}

	result := Result{}
	for _, f := range features {
		result.Stats.Processed++

		if region, ok := overrides[f.Name]; ok {
			add(region, f.Name)
			result.Stats.Included++
			continue
		}

		region, ok := assignFeature(f, proj, projected)
		if !ok {
			result.Stats.Unassigned++
			result.Unassigned = append(result.Unassigned, f.Name)
			continue
		}
		add(region, f.Name)
		result.Stats.Included++
	}

	result.RegionsToSuburbs = make(map[string][]string, len(table))
	for region, suburbs := range table {
		names := make([]string, 0, len(suburbs))
		for name := range suburbs {
			names = append(names, name)
		}
		sort.Strings(names)
		result.RegionsToSuburbs[region] = names
	}
	sort.Strings(result.Unassigned)

	return result
}

// BuildOutput wraps a generation result with provenance metadata.
func BuildOutput(result Result, sources []string, skipped int, now time.Time) Output {
	stats := result.Stats
	stats.Skipped = skipped
	return Output{
		GeneratedAt:      now.UTC().Format(time.RFC3339),
		Sources:          sources,
		RegionsToSuburbs: result.RegionsToSuburbs,
		Stats:            stats,
	}
}
