package records

import (
	"time"

	"github.com/google/uuid"
)

// Person is one birth record.
type Person struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	BirthInstant time.Time `gorm:"not null;index" json:"birth_instant"`
	Latitude     float64   `gorm:"not null" json:"latitude"`
	Longitude    float64   `gorm:"not null" json:"longitude"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Person) TableName() string { return "persons" }

// Chart is one chart frame of a person: the natal chart ("D1") or a
// divisional chart ("D9", ...).
type Chart struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PersonID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chart_person_type" json:"person_id"`
	ChartType       string    `gorm:"not null;uniqueIndex:idx_chart_person_type" json:"chart_type"`
	Ayanamsha       string    `gorm:"not null" json:"ayanamsha"`
	AyanamshaValue  float64   `gorm:"not null" json:"ayanamsha_value"`
	NodeMode        string    `gorm:"not null" json:"node_mode"`
	AscendantSign   int       `gorm:"not null" json:"ascendant_sign"`
	AscendantDegree float64   `gorm:"not null" json:"ascendant_degree"`
	JulianDay       float64   `gorm:"not null" json:"julian_day"`
	SiderealTime    float64   `gorm:"not null" json:"sidereal_time"`
	Precision       string    `json:"precision"`
	CreatedAt       time.Time `json:"created_at"`

	Positions []PlanetPosition `gorm:"foreignKey:ChartID" json:"positions,omitempty"`
}

// PlanetPosition is one graha placement within a chart.
type PlanetPosition struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChartID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_position_chart_graha" json:"chart_id"`
	Graha         string    `gorm:"not null;uniqueIndex:idx_position_chart_graha" json:"graha"`
	Ordinal       int       `gorm:"not null" json:"-"`
	Longitude     float64   `gorm:"not null" json:"longitude"`
	Sign          int       `gorm:"not null" json:"sign"`
	Degree        float64   `gorm:"not null" json:"degree"`
	Nakshatra     int       `gorm:"not null" json:"nakshatra"`
	Pada          int       `gorm:"not null" json:"pada"`
	NakshatraLord string    `gorm:"not null" json:"nakshatra_lord"`
	House         int       `gorm:"not null" json:"house"`
	Retrograde    bool      `gorm:"not null;default:false" json:"retrograde"`
	Speed         float64   `json:"speed"`
	Dignity       string    `json:"dignity"`
	Combust       bool      `gorm:"not null;default:false" json:"combust"`
}

// DashaPeriod is one node of a dasha tree. Lord holds the period name: the
// graha for Vimshottari, the yogini for Yogini.
type DashaPeriod struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PersonID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_dasha_key" json:"person_id"`
	System    string     `gorm:"not null;uniqueIndex:idx_dasha_key" json:"system"`
	Level     string     `gorm:"not null;uniqueIndex:idx_dasha_key" json:"level"`
	Lord      string     `gorm:"not null;uniqueIndex:idx_dasha_key" json:"lord"`
	Graha     string     `gorm:"not null" json:"graha"`
	StartDate time.Time  `gorm:"not null;uniqueIndex:idx_dasha_key" json:"start_date"`
	EndDate   time.Time  `gorm:"not null" json:"end_date"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
}

// Ashtakavarga is one bindu count. Contributor is nil for sarva rows.
type Ashtakavarga struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChartID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_av_key" json:"chart_id"`
	Type        string    `gorm:"not null;uniqueIndex:idx_av_key" json:"type"`
	Contributor *string   `gorm:"uniqueIndex:idx_av_key" json:"contributor,omitempty"`
	Sign        int       `gorm:"not null;uniqueIndex:idx_av_key" json:"sign"`
	Points      int       `gorm:"not null" json:"points"`
}

func (Ashtakavarga) TableName() string { return "ashtakavarga" }

// Shadbala is the strength summary of one graha.
type Shadbala struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shadbala_chart_graha" json:"chart_id"`
	Graha      string    `gorm:"not null;uniqueIndex:idx_shadbala_chart_graha" json:"graha"`
	Sthana     float64   `gorm:"not null" json:"sthana"`
	Dig        float64   `gorm:"not null" json:"dig"`
	Kala       float64   `gorm:"not null" json:"kala"`
	Chesta     float64   `gorm:"not null" json:"chesta"`
	Naisargika float64   `gorm:"not null" json:"naisargika"`
	Drik       float64   `gorm:"not null" json:"drik"`
	Total      float64   `gorm:"not null" json:"total"`
	Ratio      float64   `gorm:"not null" json:"ratio"`
}

func (Shadbala) TableName() string { return "shadbala" }

// Yoga is one detected combination. Grahas and Houses are comma-separated.
type Yoga struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChartID   uuid.UUID `gorm:"type:uuid;not null;index" json:"chart_id"`
	Name      string    `gorm:"not null" json:"name"`
	Category  string    `gorm:"not null" json:"category"`
	Grahas    string    `gorm:"not null" json:"grahas"`
	Houses    string    `gorm:"not null" json:"houses"`
	Strength  string    `json:"strength"`
	Rationale string    `gorm:"not null" json:"rationale"`
}

// all lists every model for migration.
var all = []any{
	&Person{},
	&Chart{},
	&PlanetPosition{},
	&DashaPeriod{},
	&Ashtakavarga{},
	&Shadbala{},
	&Yoga{},
}
