package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Vector is a point in the four-dimensional nutrition feature space:
// calories, protein (g), carbs (g), fats (g), in that order.
type Vector [4]float64

// Percent-of-daily-value reference amounts used by the dataset's nutrition
// column. The column encodes macros as PDV against a 2000 kcal diet; these
// constants convert them back to grams.
const (
	pdvProteinGrams = 50.0
	pdvFatGrams     = 78.0
	pdvCarbGrams    = 275.0
)

// Catalog is the process-wide meal index. It is built once at startup and
// never mutated afterwards, so it is safe to read from concurrent requests.
type Catalog struct {
	records []MealRecord
	scaler  scaler
	// features holds the normalized (zero-mean, unit-variance) vector for
	// each record, aligned by row index.
	features []Vector
	text     *TextIndex
}

// Options controls catalog loading.
type Options struct {
	// MinCalories drops rows at or below this calorie count. Zero keeps
	// everything with positive calories.
	MinCalories float64
}

// Load reads the meal dataset from a CSV file and fits the feature space.
// A missing or unparseable file yields an empty catalog, not an error: every
// downstream query on an empty catalog returns zero candidates.
func Load(path string, opts Options, log zerolog.Logger) *Catalog {
	f, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("dataset not found, starting with empty catalog")
		return &Catalog{}
	}
	defer f.Close()

	records, err := readRecords(f, opts)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("dataset unreadable, starting with empty catalog")
		return &Catalog{}
	}

	c := NewFromRecords(records)
	log.Info().Int("meals", len(records)).Str("path", path).Msg("catalog loaded")
	return c
}

// NewFromRecords builds a catalog from already-parsed records and fits the
// scaler and text index over them.
func NewFromRecords(records []MealRecord) *Catalog {
	c := &Catalog{records: records}
	if len(records) == 0 {
		return c
	}

	raw := make([]Vector, len(records))
	docs := make([]string, len(records))
	for i, r := range records {
		raw[i] = Vector{r.Calories, r.Protein, r.Carbs, r.Fats}
		docs[i] = r.SearchText
	}

	c.scaler = fitScaler(raw)
	c.features = make([]Vector, len(raw))
	for i, v := range raw {
		c.features[i] = c.scaler.transform(v)
	}
	c.text = NewTextIndex(docs, defaultMaxFeatures)
	return c
}

// Empty reports whether the catalog failed to load any usable rows.
func (c *Catalog) Empty() bool { return len(c.records) == 0 }

// Len returns the number of rows.
func (c *Catalog) Len() int { return len(c.records) }

// Record returns the record at the given row. The returned value is borrowed
// catalog state; callers must not mutate its slices.
func (c *Catalog) Record(row int) MealRecord { return c.records[row] }

// Records returns all rows in insertion order.
func (c *Catalog) Records() []MealRecord { return c.records }

// Normalize maps a raw nutrition vector into the fitted feature space.
func (c *Catalog) Normalize(v Vector) Vector { return c.scaler.transform(v) }

// Feature returns the normalized feature vector for a row.
func (c *Catalog) Feature(row int) Vector { return c.features[row] }

// Text returns the TF-IDF index over the records' search text, or nil for an
// empty catalog.
func (c *Catalog) Text() *TextIndex { return c.text }

// readRecords parses the food.com-style CSV export. Rows that fail nutrition
// parsing or have non-positive calories are dropped, not repaired.
func readRecords(r io.Reader, opts Options) ([]MealRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"id", "name", "nutrition", "tags", "ingredients", "steps"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("dataset missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []MealRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Tolerate individual malformed lines; the dataset is not
			// guaranteed to be clean.
			continue
		}

		nutrition := parseFloatList(field(row, "nutrition"))
		if len(nutrition) < 7 {
			continue
		}
		calories := nutrition[0]
		if calories <= 0 || calories <= opts.MinCalories {
			continue
		}

		id, err := strconv.ParseInt(strings.TrimSpace(field(row, "id")), 10, 64)
		if err != nil {
			continue
		}

		minutes, _ := strconv.Atoi(strings.TrimSpace(field(row, "minutes")))

		name := titleCase(field(row, "name"))
		tags := lowerAll(parseStringList(field(row, "tags")))
		ingredients := parseStringList(field(row, "ingredients"))
		steps := parseStringList(field(row, "steps"))

		rec := MealRecord{
			ID:          id,
			Name:        name,
			Minutes:     minutes,
			Calories:    calories,
			Protein:     pdvToGrams(nutrition[4], pdvProteinGrams),
			Carbs:       pdvToGrams(nutrition[6], pdvCarbGrams),
			Fats:        pdvToGrams(nutrition[1], pdvFatGrams),
			Tags:        tags,
			Ingredients: ingredients,
			Steps:       steps,
		}
		rec.SearchText = strings.ToLower(
			rec.Name + " " + strings.Join(ingredients, " ") + " " + strings.Join(tags, " "),
		)
		records = append(records, rec)
	}
	return records, nil
}

func pdvToGrams(pdv, reference float64) float64 {
	return (pdv / 100) * reference
}

func lowerAll(ss []string) []string {
	for i, s := range ss {
		ss[i] = strings.ToLower(s)
	}
	return ss
}

// scaler holds the fitted per-dimension mean and standard deviation.
type scaler struct {
	mean Vector
	std  Vector
}

func fitScaler(vs []Vector) scaler {
	var s scaler
	n := float64(len(vs))
	for _, v := range vs {
		for d := range v {
			s.mean[d] += v[d]
		}
	}
	for d := range s.mean {
		s.mean[d] /= n
	}
	for _, v := range vs {
		for d := range v {
			diff := v[d] - s.mean[d]
			s.std[d] += diff * diff
		}
	}
	for d := range s.std {
		s.std[d] = math.Sqrt(s.std[d] / n)
		if s.std[d] == 0 {
			// Constant dimension; leave values at zero offset instead of
			// dividing by zero.
			s.std[d] = 1
		}
	}
	return s
}

func (s scaler) transform(v Vector) Vector {
	var out Vector
	for d := range v {
		std := s.std[d]
		if std == 0 {
			// Unfitted scaler (empty catalog); pass values through.
			std = 1
		}
		out[d] = (v[d] - s.mean[d]) / std
	}
	return out
}
