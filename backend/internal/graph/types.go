package graph

// ============================================================================
// Temple Graph Types
// ============================================================================

// Label is a node label in the temple graph
type Label string

const (
	LabelTemple             Label = "Temple"
	LabelRegion             Label = "Region"
	LabelDeity              Label = "Deity"
	LabelScripture          Label = "Scripture"
	LabelArchitecturalStyle Label = "ArchitecturalStyle"
	LabelFestival           Label = "Festival"
)

// Labels lists every node label, Temple first
var Labels = []Label{
	LabelTemple,
	LabelRegion,
	LabelDeity,
	LabelScripture,
	LabelArchitecturalStyle,
	LabelFestival,
}

// RelType is a relationship type from a Temple to an entity
type RelType string

const (
	RelLocatedIn   RelType = "LOCATED_IN"
	RelDedicatedTo RelType = "DEDICATED_TO"
	RelMentionedIn RelType = "MENTIONED_IN"
	RelHasStyle    RelType = "HAS_STYLE"
	RelCelebrates  RelType = "CELEBRATES"
)

// EntityKind pairs an entity label with the relationship a Temple uses to reach it
type EntityKind struct {
	Label Label
	Rel   RelType
}

var (
	KindRegion    = EntityKind{Label: LabelRegion, Rel: RelLocatedIn}
	KindDeity     = EntityKind{Label: LabelDeity, Rel: RelDedicatedTo}
	KindScripture = EntityKind{Label: LabelScripture, Rel: RelMentionedIn}
	KindStyle     = EntityKind{Label: LabelArchitecturalStyle, Rel: RelHasStyle}
	KindFestival  = EntityKind{Label: LabelFestival, Rel: RelCelebrates}
)

// Temple holds the properties stored on a Temple node
type Temple struct {
	Name              string `json:"name" yaml:"name"`
	State             string `json:"state" yaml:"state"`
	Info              string `json:"info" yaml:"info"`
	Story             string `json:"story" yaml:"story"`
	VisitingGuide     string `json:"visiting_guide" yaml:"visiting_guide"`
	Architecture      string `json:"architecture" yaml:"architecture"`
	ScriptureMentions string `json:"scripture_mentions" yaml:"scripture_mentions"`
	RunID             string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

// EntityLink is one entity node to merge plus the edge from the temple to it
type EntityLink struct {
	Kind EntityKind
	Name string
}

// TempleGraph is everything written for one input record
type TempleGraph struct {
	Temple Temple
	Links  []EntityLink
}

// LinkNames returns the names linked through the given kind, in link order
func (g TempleGraph) LinkNames(kind EntityKind) []string {
	names := []string{}
	for _, l := range g.Links {
		if l.Kind == kind {
			names = append(names, l.Name)
		}
	}
	return names
}

// Stats holds node counts per label and the total relationship count
type Stats struct {
	Temples             int64 `json:"temples" yaml:"temples"`
	Regions             int64 `json:"regions" yaml:"regions"`
	Deities             int64 `json:"deities" yaml:"deities"`
	Scriptures          int64 `json:"scriptures" yaml:"scriptures"`
	ArchitecturalStyles int64 `json:"architectural_styles" yaml:"architectural_styles"`
	Festivals           int64 `json:"festivals" yaml:"festivals"`
	Relationships       int64 `json:"relationships" yaml:"relationships"`
}

// Set stores the count for label
func (s *Stats) Set(label Label, count int64) {
	switch label {
	case LabelTemple:
		s.Temples = count
	case LabelRegion:
		s.Regions = count
	case LabelDeity:
		s.Deities = count
	case LabelScripture:
		s.Scriptures = count
	case LabelArchitecturalStyle:
		s.ArchitecturalStyles = count
	case LabelFestival:
		s.Festivals = count
	}
}

// TempleLink is a temple name paired with the name of a linked entity
type TempleLink struct {
	Temple string `json:"temple" yaml:"temple"`
	Entity string `json:"entity" yaml:"entity"`
}

// TempleDetail is a temple with the names of every entity it links to
type TempleDetail struct {
	Temple     Temple   `json:"temple" yaml:"temple"`
	Region     string   `json:"region,omitempty" yaml:"region,omitempty"`
	Deities    []string `json:"deities" yaml:"deities"`
	Scriptures []string `json:"scriptures" yaml:"scriptures"`
	Styles     []string `json:"styles" yaml:"styles"`
	Festivals  []string `json:"festivals" yaml:"festivals"`
}
