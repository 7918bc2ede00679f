package upstream

// Context carries what is already known about the project when an
// extractor runs. Extractors receive it by value and treat it as
// read-only.
type Context struct {
	Name       string `json:"name,omitempty"`
	Homepage   string `json:"homepage,omitempty"`
	Repository VCS    `json:"repository,omitzero"`
}

// HasRepository reports whether a repository location is known.
func (c Context) HasRepository() bool { return !c.Repository.Empty() }

// Refine returns c updated with the values chosen in rec. Values present
// in rec win over the seed; absent ones keep the seed.
func (c Context) Refine(rec *Record) Context {
	if s := rec.Text(Name); s != "" {
		c.Name = s
	}
	if s := rec.Text(Homepage); s != "" {
		c.Homepage = s
	}
	if v, ok := rec.Value(Repository).(VCS); ok && !v.Empty() {
		c.Repository = v
	}
	return c
}
