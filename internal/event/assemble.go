package event

import (
	"time"

	"quickcal/internal/model"
)

const (
	DefaultTitle       = "New Calendar Event"
	DefaultDescription = "Powered by quickcal"
)

// Defaults are the title and description used when the client omits them.
type Defaults struct {
	Title       string
	Description string
}

// Assembler builds a model.Draft from submitted fields.
type Assembler struct {
	resolver *Resolver
	defaults Defaults
}

// NewAssembler returns an Assembler. Empty defaults fall back to
// DefaultTitle and DefaultDescription.
func NewAssembler(r *Resolver, d Defaults) *Assembler {
	if r == nil {
		r = NewResolver(Options{})
	}
	if d.Title == "" {
		d.Title = DefaultTitle
	}
	if d.Description == "" {
		d.Description = DefaultDescription
	}
	return &Assembler{resolver: r, defaults: d}
}

// Assemble resolves the event interval and copies the text fields. A title
// or description key that is present is used verbatim, even when empty;
// location is set whenever its key is present.
func (a *Assembler) Assemble(f model.Fields, now time.Time) (model.Draft, error) {
	iv, err := a.resolver.Resolve(InputFromFields(f), now)
	if err != nil {
		return model.Draft{}, err
	}

	d := model.Draft{
		Title:       a.defaults.Title,
		Description: a.defaults.Description,
		Interval:    iv,
	}
	if v, ok := f.Lookup(model.FieldTitle); ok {
		d.Title = v
	}
	if v, ok := f.Lookup(model.FieldDescription); ok {
		d.Description = v
	}
	if v, ok := f.Lookup(model.FieldLocation); ok {
		d.Location = &v
	}
	return d, nil
}
