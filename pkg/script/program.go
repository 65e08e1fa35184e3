package script

// Program is one fully resolved script: the flat command sequence, the
// label table mapping names to command indices, and the asset manifest
// collected during parsing. Programs are built once by the parser and never
// mutated afterwards.
type Program struct {
	Commands []Command
	Labels   map[string]int
	Manifest Manifest
}

// Manifest lists the asset paths a script references, in first-mention
// order with duplicates removed. The runtime feeds it to prefetching and
// garbage collection.
type Manifest struct {
	Images []string
	Sounds []string
	Videos []string
}

func appendUnique(list []string, path string) []string {
	if path == "" {
		return list
	}
	for _, p := range list {
		if p == path {
			return list
		}
	}
	return append(list, path)
}

// AddImage records an image path.
func (m *Manifest) AddImage(path string) { m.Images = appendUnique(m.Images, path) }

// AddSound records a sound path.
func (m *Manifest) AddSound(path string) { m.Sounds = appendUnique(m.Sounds, path) }

// AddVideo records a video path.
func (m *Manifest) AddVideo(path string) { m.Videos = appendUnique(m.Videos, path) }

// Merge folds another manifest into this one, preserving order.
func (m *Manifest) Merge(o Manifest) {
	for _, p := range o.Images {
		m.AddImage(p)
	}
	for _, p := range o.Sounds {
		m.AddSound(p)
	}
	for _, p := range o.Videos {
		m.AddVideo(p)
	}
}
