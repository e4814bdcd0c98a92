package interfaces

// Stage represents the lifecycle stage of an organization
type Stage string

// Lifecycle stages, ordered from earliest to latest
const (
	StageIdea     Stage = "idea"
	StageSeed     Stage = "seed"
	StageSeriesA  Stage = "series-a"
	StageSeriesB  Stage = "series-b"
	StageSeriesC  Stage = "series-c"
	StageSeriesD  Stage = "series-d"
	StageGrowth   Stage = "growth"
	StageIPO      Stage = "ipo"
	StageAcquired Stage = "acquired"
)

// Stages lists all valid lifecycle stages in escalation order
var Stages = []Stage{
	StageIdea,
	StageSeed,
	StageSeriesA,
	StageSeriesB,
	StageSeriesC,
	StageSeriesD,
	StageGrowth,
	StageIPO,
	StageAcquired,
}

// Valid reports whether s is a member of the stage enumeration
func (s Stage) Valid() bool {
	for _, stage := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// RelationType represents the type of a relationship between two entities
type RelationType string

const (
	RelationCoFounded RelationType = "co-founded"
	RelationWorksAt   RelationType = "works-at"
	RelationInvestsIn RelationType = "invests-in"
)

// RelationTypes lists all valid relationship types
var RelationTypes = []RelationType{
	RelationCoFounded,
	RelationWorksAt,
	RelationInvestsIn,
}

// Valid reports whether t is a member of the relationship type enumeration
func (t RelationType) Valid() bool {
	for _, rt := range RelationTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// Organization represents a startup or company in the canonical dataset
type Organization struct {
	ID          string   `json:"id" yaml:"id" validate:"required"`
	Name        string   `json:"name" yaml:"name" validate:"required"`
	Domains     []string `json:"domains" yaml:"domains"`
	Stage       Stage    `json:"stage" yaml:"stage" validate:"required,oneof=idea seed series-a series-b series-c series-d growth ipo acquired"`
	FoundedYear int      `json:"foundedYear" yaml:"foundedYear" validate:"required,gte=1900,lte=2100"`
	Location    string   `json:"location" yaml:"location"`
	Description string   `json:"description" yaml:"description"`
}

// Person represents an individual in the canonical dataset
type Person struct {
	ID       string   `json:"id" yaml:"id" validate:"required"`
	Name     string   `json:"name" yaml:"name" validate:"required"`
	Roles    []string `json:"roles" yaml:"roles"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Bio      string   `json:"bio" yaml:"bio"`
}

// Relationship represents a directed edge between two entities
type Relationship struct {
	SourceID  string       `json:"source" yaml:"source" validate:"required"`
	TargetID  string       `json:"target" yaml:"target" validate:"required"`
	Type      RelationType `json:"type" yaml:"type" validate:"required,oneof=co-founded works-at invests-in"`
	SinceYear int          `json:"sinceYear,omitempty" yaml:"sinceYear,omitempty" validate:"omitempty,gte=1900,lte=2100"`
}

// Dataset is the canonical dataset exchanged between ingestion and caching.
// Organization and person IDs share one namespace: no ID may appear twice
// across the union of both lists.
type Dataset struct {
	Organizations []Organization `json:"organizations" yaml:"organizations" validate:"dive"`
	People        []Person       `json:"people" yaml:"people" validate:"dive"`
	Relationships []Relationship `json:"relationships" yaml:"relationships" validate:"dive"`
}

// EntityKind discriminates the two entity variants
type EntityKind string

const (
	KindOrganization EntityKind = "organization"
	KindPerson       EntityKind = "person"
)

// Entity is the tagged union over organizations and people. It is sealed:
// only *Organization and *Person implement it.
type Entity interface {
	EntityID() string
	EntityName() string
	EntityKind() EntityKind
}

// EntityID implements Entity
func (o *Organization) EntityID() string { return o.ID }

// EntityName implements Entity
func (o *Organization) EntityName() string { return o.Name }

// EntityKind implements Entity
func (o *Organization) EntityKind() EntityKind { return KindOrganization }

// EntityID implements Entity
func (p *Person) EntityID() string { return p.ID }

// EntityName implements Entity
func (p *Person) EntityName() string { return p.Name }

// EntityKind implements Entity
func (p *Person) EntityKind() EntityKind { return KindPerson }
