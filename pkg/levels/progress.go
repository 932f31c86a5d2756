package levels

// ProgressEntry is one saved level result.
type ProgressEntry struct {
	Name   string `json:"name"`
	Result Result `json:"result"`
}

// SavedProgress maps level names to results, remembering the order in which
// names were first saved. The last entry is the most recently reached level.
// The zero value is an empty progress.
type SavedProgress struct {
	Entries []ProgressEntry `json:"entries"`
}

func NewSavedProgress(entries ...ProgressEntry) *SavedProgress {
	p := &SavedProgress{}
	for _, e := range entries {
		p.Set(e.Name, e.Result)
	}
	return p
}

func (p *SavedProgress) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Entries)
}

// Get returns the saved result for name.
func (p *SavedProgress) Get(name string) (Result, bool) {
	if p == nil {
		return ResultNotPassed, false
	}
	for _, e := range p.Entries {
		if e.Name == name {
			return e.Result, true
		}
	}
	return ResultNotPassed, false
}

// Set overwrites the result for name in place, or appends it if absent.
func (p *SavedProgress) Set(name string, result Result) {
	for i := range p.Entries {
		if p.Entries[i].Name == name {
			p.Entries[i].Result = result
			return
		}
	}
	p.Entries = append(p.Entries, ProgressEntry{Name: name, Result: result})
}

// Last returns the most recently inserted entry.
func (p *SavedProgress) Last() (ProgressEntry, bool) {
	if p.Len() == 0 {
		return ProgressEntry{}, false
	}
	return p.Entries[len(p.Entries)-1], true
}

func (p *SavedProgress) Names() []string {
	names := make([]string, 0, p.Len())
	if p == nil {
		return names
	}
	for _, e := range p.Entries {
		names = append(names, e.Name)
	}
	return names
}

func (p *SavedProgress) Copy() *SavedProgress {
	c := &SavedProgress{}
	if p == nil {
		return c
	}
	c.Entries = append(c.Entries, p.Entries...)
	return c
}
