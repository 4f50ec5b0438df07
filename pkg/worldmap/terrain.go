package worldmap

// Terrain is the immutable ground kind at a cell. Terrain never changes once
// a map finishes generating; only the transient overlays on top of it do.
type Terrain int

const (
	Field Terrain = iota
	Lake
	Swamp
	ForestDeciduous
	ForestEvergreen
)

// Damage inflicted purely by entering or colliding with this terrain.
const (
	LakeDamage   = 100
	ForestDamage = 10
)

// Walkable reports whether a tank may move onto this terrain at all. Forest
// of either kind blocks movement outright; lake and swamp are walkable but
// carry entry penalties.
func (t Terrain) Walkable() bool {
	switch t {
	case Field, Lake, Swamp:
		return true
	default:
		return false
	}
}

// Glyph is the single-rune rendering of this terrain for a display sink.
func (t Terrain) Glyph() rune {
	switch t {
	case Field:
		return '.'
	case Lake:
		return '~'
	case Swamp:
		return '%'
	case ForestDeciduous:
		return 'T'
	case ForestEvergreen:
		return '^'
	default:
		return '?'
	}
}

// String renders a short terrain name, mainly for logging.
func (t Terrain) String() string {
	switch t {
	case Field:
		return "field"
	case Lake:
		return "lake"
	case Swamp:
		return "swamp"
	case ForestDeciduous:
		return "forest(deciduous)"
	case ForestEvergreen:
		return "forest(evergreen)"
	default:
		return "unknown"
	}
}
