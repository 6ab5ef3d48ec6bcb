package phase

// Session lists the blocks of a storage session in the order they are read.
type Session struct {
	Name   string
	Blocks []Block
}

// Manifest lists the sessions read by a set of scripts in the order they are
// opened. Bundles must be authored to match it.
type Manifest []Session

// ManifestOf collects the sessions and blocks read by scripts.
func ManifestOf(scripts ...*Script) Manifest {
	var m Manifest
	cur := -1
	for _, s := range scripts {
		for _, step := range s.Steps() {
			switch step.Op {
			case OpOpen:
				m = append(m, Session{Name: step.Session})
				cur = len(m) - 1
			case OpRead:
				if cur >= 0 {
					m[cur].Blocks = append(m[cur].Blocks, step.Blocks...)
				}
			case OpClose:
				cur = -1
			}
		}
	}
	return m
}

// DefaultManifest returns the manifest of the game's bundles.
func DefaultManifest() Manifest {
	return ManifestOf(scripts[:]...)
}

// Lookup returns the session named name.
func (m Manifest) Lookup(name string) (Session, bool) {
	for _, s := range m {
		if s.Name == name {
			return s, true
		}
	}
	return Session{}, false
}
