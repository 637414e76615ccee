package catalog

// Option is one entry in a selection widget.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Selector models one of the category/brand selection widgets. The edit
// form and the filter bar each hold their own Selector over the same
// reference list, so a catalog refresh repopulates both independently.
type Selector struct {
	options  []Option
	selected string
}

func NewSelector() *Selector {
	return &Selector{}
}

// Repopulate replaces the option list, skipping entries missing an
// identifier or a name, and keeps the previously selected value if it is
// still present in the new list.
func (s *Selector) Repopulate(options []Option) {
	s.options = s.options[:0]
	stillPresent := false
	for _, o := range options {
		if o.ID == "" || o.Name == "" {
			continue
		}
		s.options = append(s.options, o)
		if o.ID == s.selected {
			stillPresent = true
		}
	}
	if !stillPresent && s.selected != FilterAll {
		s.selected = ""
	}
}

// Select picks a value: FilterAll, empty, or an option present in the
// list. Unknown values are rejected.
func (s *Selector) Select(id string) bool {
	if id == "" || id == FilterAll {
		s.selected = id
		return true
	}
	for _, o := range s.options {
		if o.ID == id {
			s.selected = id
			return true
		}
	}
	return false
}

func (s *Selector) Selected() string {
	return s.selected
}

func (s *Selector) Options() []Option {
	out := make([]Option, len(s.options))
	copy(out, s.options)
	return out
}
