// Package records persists computed chart bundles to a relational store.
//
// A bundle is written once, in a single transaction, as a person row plus
// one chart row per frame (D1 and every divisional) with its graha
// placements, the dasha trees, the ashtakavarga tables, the shadbala
// summary and the detected yogas. Rows are never updated; recomputing a
// chart stores a new person.
//
// # Usage
//
//	store, err := records.Open("sqlite", "charts.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	personID, err := store.SaveBundle(ctx, bundle)
//	chart, err := store.LoadChart(ctx, personID, "D9")
package records

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/dasha"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/pipeline"
)

// batchSize bounds rows per INSERT statement.
const batchSize = 200

// Store is a gorm-backed record store.
type Store struct {
	db *gorm.DB
}

// Open connects to driver ("sqlite" or "postgres") at dsn and migrates the
// schema.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s store", driver)
	}
	if driver == "sqlite" {
		// sqlite serializes writers; one connection avoids lock errors.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	return New(db)
}

// New wraps an existing connection and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(all...); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "migrate schema")
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying connection.
func (s *Store) DB() *gorm.DB { return s.db }

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// =============================================================================
// Writes
// =============================================================================

// SaveBundle stores b and returns the new person's ID.
func (s *Store) SaveBundle(ctx context.Context, b *pipeline.Bundle) (uuid.UUID, error) {
	if b == nil || b.Natal == nil {
		return uuid.Nil, errors.New(errors.ErrCodeInvalidInput, "bundle has no natal chart")
	}

	person := Person{
		ID:           uuid.New(),
		Name:         b.Birth.Name,
		BirthInstant: b.Birth.Instant.UTC(),
		Latitude:     b.Birth.Latitude,
		Longitude:    b.Birth.Longitude,
	}

	charts := []Chart{chartRow(person.ID, b, b.Natal)}
	for _, n := range sortedDivisions(b.Divisionals) {
		charts = append(charts, chartRow(person.ID, b, b.Divisionals[n]))
	}
	natalID := charts[0].ID

	var positions []PlanetPosition
	for i := range charts {
		positions = append(positions, charts[i].Positions...)
		charts[i].Positions = nil
	}

	var periods []DashaPeriod
	for _, tree := range []*dasha.Tree{b.Vimshottari, b.Yogini} {
		periods = append(periods, dashaRows(person.ID, tree)...)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&person).Error; err != nil {
			return err
		}
		if err := tx.Create(&charts).Error; err != nil {
			return err
		}
		if err := tx.CreateInBatches(&positions, batchSize).Error; err != nil {
			return err
		}
		if len(periods) > 0 {
			if err := tx.CreateInBatches(&periods, batchSize).Error; err != nil {
				return err
			}
		}
		if av := ashtakavargaRows(natalID, b); len(av) > 0 {
			if err := tx.CreateInBatches(&av, batchSize).Error; err != nil {
				return err
			}
		}
		if sb := shadbalaRows(natalID, b); len(sb) > 0 {
			if err := tx.Create(&sb).Error; err != nil {
				return err
			}
		}
		if ys := yogaRows(natalID, b); len(ys) > 0 {
			if err := tx.Create(&ys).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, storageError(err, "save bundle for %q", b.Birth.Name)
	}
	return person.ID, nil
}

func chartRow(personID uuid.UUID, b *pipeline.Bundle, v *astro.Variant) Chart {
	c := Chart{
		ID:              uuid.New(),
		PersonID:        personID,
		ChartType:       ChartType(v.Division),
		Ayanamsha:       b.Ayanamsha,
		AyanamshaValue:  b.AyanamshaValue,
		NodeMode:        string(b.NodeMode),
		AscendantSign:   int(v.Ascendant.Sign),
		AscendantDegree: v.Ascendant.Degree,
		JulianDay:       b.JulianDay,
		SiderealTime:    b.SiderealTime,
		Precision:       string(b.Precision),
	}
	for i, p := range v.Positions {
		c.Positions = append(c.Positions, PlanetPosition{
			ID:            uuid.New(),
			ChartID:       c.ID,
			Graha:         p.Graha.String(),
			Ordinal:       i,
			Longitude:     p.Longitude,
			Sign:          int(p.Sign),
			Degree:        p.Degree,
			Nakshatra:     int(p.Nakshatra),
			Pada:          p.Pada,
			NakshatraLord: p.Nakshatra.Lord().String(),
			House:         p.House,
			Retrograde:    p.Retrograde,
			Speed:         p.Speed,
			Dignity:       string(p.Dignity),
			Combust:       p.Combust,
		})
	}
	return c
}

// dashaRows flattens a tree. Nodes are ordered level by level, so every
// parent ID is assigned before its children reference it.
func dashaRows(personID uuid.UUID, t *dasha.Tree) []DashaPeriod {
	if t == nil {
		return nil
	}
	ids := make([]uuid.UUID, len(t.Nodes))
	rows := make([]DashaPeriod, len(t.Nodes))
	for i, p := range t.Nodes {
		ids[i] = uuid.New()
		rows[i] = DashaPeriod{
			ID:        ids[i],
			PersonID:  personID,
			System:    t.System,
			Level:     p.Level.String(),
			Lord:      p.Name,
			Graha:     p.Lord.String(),
			StartDate: p.Start.UTC(),
			EndDate:   p.End.UTC(),
		}
		if p.Parent >= 0 {
			parent := ids[p.Parent]
			rows[i].ParentID = &parent
		}
	}
	return rows
}

func ashtakavargaRows(chartID uuid.UUID, b *pipeline.Bundle) []Ashtakavarga {
	av := b.Ashtakavarga
	if av == nil {
		return nil
	}
	var rows []Ashtakavarga
	for g := range av.Bhinna {
		name := astro.Graha(g).String()
		for s, n := range av.Bhinna[g] {
			rows = append(rows, Ashtakavarga{
				ID:          uuid.New(),
				ChartID:     chartID,
				Type:        "bhinna",
				Contributor: &name,
				Sign:        s + 1,
				Points:      n,
			})
		}
	}
	for s, n := range av.Sarva {
		rows = append(rows, Ashtakavarga{
			ID:      uuid.New(),
			ChartID: chartID,
			Type:    "sarva",
			Sign:    s + 1,
			Points:  n,
		})
	}
	return rows
}

func shadbalaRows(chartID uuid.UUID, b *pipeline.Bundle) []Shadbala {
	rows := make([]Shadbala, 0, len(b.Shadbala))
	for _, s := range b.Shadbala {
		rows = append(rows, Shadbala{
			ID:         uuid.New(),
			ChartID:    chartID,
			Graha:      s.Graha.String(),
			Sthana:     s.Sthana,
			Dig:        s.Dig,
			Kala:       s.Kala,
			Chesta:     s.Chesta,
			Naisargika: s.Naisargika,
			Drik:       s.Drik,
			Total:      s.Total,
			Ratio:      s.Ratio,
		})
	}
	return rows
}

func yogaRows(chartID uuid.UUID, b *pipeline.Bundle) []Yoga {
	rows := make([]Yoga, 0, len(b.Yogas))
	for _, y := range b.Yogas {
		grahas := make([]string, len(y.Grahas))
		for i, g := range y.Grahas {
			grahas[i] = g.String()
		}
		houses := make([]string, len(y.Houses))
		for i, h := range y.Houses {
			houses[i] = strconv.Itoa(h)
		}
		rows = append(rows, Yoga{
			ID:        uuid.New(),
			ChartID:   chartID,
			Name:      y.Name,
			Category:  string(y.Category),
			Grahas:    strings.Join(grahas, ","),
			Houses:    strings.Join(houses, ","),
			Strength:  string(y.Strength),
			Rationale: y.Rationale,
		})
	}
	return rows
}

// =============================================================================
// Reads
// =============================================================================

// GetPerson loads a person by ID.
func (s *Store) GetPerson(ctx context.Context, id uuid.UUID) (*Person, error) {
	var p Person
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, storageError(err, "person %s", id)
	}
	return &p, nil
}

// LoadChart loads one chart frame of a person with its placements in graha
// order.
func (s *Store) LoadChart(ctx context.Context, personID uuid.UUID, chartType string) (*Chart, error) {
	var c Chart
	err := s.db.WithContext(ctx).
		Preload("Positions", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal ASC") }).
		Where("person_id = ? AND chart_type = ?", personID, chartType).
		First(&c).Error
	if err != nil {
		return nil, storageError(err, "chart %s of person %s", chartType, personID)
	}
	return &c, nil
}

// ListDasha returns the periods of one system at one level, in time order.
func (s *Store) ListDasha(ctx context.Context, personID uuid.UUID, system string, level dasha.Level) ([]DashaPeriod, error) {
	var out []DashaPeriod
	err := s.db.WithContext(ctx).
		Where("person_id = ? AND system = ? AND level = ?", personID, system, level.String()).
		Order("start_date ASC").
		Find(&out).Error
	if err != nil {
		return nil, storageError(err, "dasha periods of person %s", personID)
	}
	return out, nil
}

// ListShadbala returns the strength rows of a chart.
func (s *Store) ListShadbala(ctx context.Context, chartID uuid.UUID) ([]Shadbala, error) {
	var out []Shadbala
	if err := s.db.WithContext(ctx).Where("chart_id = ?", chartID).Order("total DESC").Find(&out).Error; err != nil {
		return nil, storageError(err, "shadbala of chart %s", chartID)
	}
	return out, nil
}

// ListYogas returns the yogas stored for a chart, ordered by name.
func (s *Store) ListYogas(ctx context.Context, chartID uuid.UUID) ([]Yoga, error) {
	var out []Yoga
	if err := s.db.WithContext(ctx).Where("chart_id = ?", chartID).Order("name ASC").Find(&out).Error; err != nil {
		return nil, storageError(err, "yogas of chart %s", chartID)
	}
	return out, nil
}

// =============================================================================
// Helpers
// =============================================================================

// ChartType names the chart row of division n: "D1", "D9", ...
func ChartType(n int) string { return fmt.Sprintf("D%d", n) }

func sortedDivisions(m map[int]*astro.Variant) []int {
	out := make([]int, 0, len(m))
	for n := range m {
		if n != 1 {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

func storageError(err error, format string, args ...any) error {
	if errors.As(err, new(*errors.Error)) {
		return err
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New(errors.ErrCodeNotFound, format+" not found", args...)
	}
	return errors.Wrap(errors.ErrCodeStorage, err, format, args...)
}
