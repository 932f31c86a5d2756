package levels

import "fmt"

// FindByName returns the level with the given name, or nil.
// An empty name is never found.
func FindByName(levels []*Level, name string) *Level {
	if name == "" {
		return nil
	}
	for _, l := range levels {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// FindNextByName returns the level that follows name in catalog order, whatever
// its state. It returns nil if name is the last level or is not found.
func FindNextByName(levels []*Level, name string) *Level {
	for i, l := range levels {
		if name == "" || l.Name != name {
			continue
		}
		if i == len(levels)-1 {
			return nil
		}
		return levels[i+1]
	}
	return nil
}

// FindByContentPath returns the level whose content path matches path.
func FindByContentPath(levels []*Level, path string) (*Level, error) {
	if path == "" {
		return nil, fmt.Errorf("content path is empty")
	}
	for _, l := range levels {
		if l.ContentPath == path {
			return l, nil
		}
	}
	return nil, fmt.Errorf("no level with content path %q", path)
}
