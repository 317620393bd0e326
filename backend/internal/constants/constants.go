package constants

// Input constants
const (
	// DefaultDataFile is the temple document loaded when no path is given
	DefaultDataFile = "data/hindu_temples.json"
)

// Sample query constants
const (
	// SampleStyle is the architectural style listed by the sample queries
	SampleStyle = "Dravidian"

	// SampleScriptureFragment matches scripture names in the sample queries
	SampleScriptureFragment = "Purana"

	// SampleRegion is the region whose temples the sample queries list
	SampleRegion = "Andhra Pradesh"
)

// SampleDeitySubstrings match deity names in the sample queries
var SampleDeitySubstrings = []string{"Vishnu", "Venkateswara"}

// ConnectionHint is logged when the store cannot be reached or a load fails
const ConnectionHint = "make sure Neo4j is running at %s with the configured credentials (default neo4j/password)"
