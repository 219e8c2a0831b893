package cache

// Key type labels, reported to cache hooks.
const (
	KeyTypeDiagram  = "diagram"
	KeyTypeArtifact = "artifact"
)

// Keyer derives cache keys for pipeline outputs.
type Keyer interface {
	// DiagramKey identifies the diagram generated from text with a given
	// vocabulary. vocabHash is empty for the built-in vocabulary.
	DiagramKey(text, vocabHash string) string

	// ArtifactKey identifies one exported encoding of a diagram.
	ArtifactKey(diagramHash, format string) string
}

// DefaultKeyer hashes all key inputs so keys have a fixed length regardless
// of the description size.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DiagramKey implements [Keyer].
func (DefaultKeyer) DiagramKey(text, vocabHash string) string {
	return hashKey(KeyTypeDiagram, text, vocabHash)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(diagramHash, format string) string {
	return hashKey(KeyTypeArtifact, diagramHash, format)
}
