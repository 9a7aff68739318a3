package metadata

import "sort"

// EntityType defines the category of the entity.
type EntityType string

const (
	// TypeView is a view-model normalized from one backend record.
	TypeView EntityType = "view"
	// TypeDerived is a view-model aggregated from several collections.
	TypeDerived EntityType = "derived"
)

// FieldType defines the data type of a field.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeInteger   FieldType = "integer"
	TypeNumber    FieldType = "number"
	TypeBoolean   FieldType = "boolean"
	TypeDate      FieldType = "date"
	TypeReference FieldType = "reference"
	TypeEnum      FieldType = "enum"
	TypeMoney     FieldType = "money"
)

// EntityDef describes a view-model.
type EntityDef struct {
	Name    string     `json:"name"`
	Label   string     `json:"label,omitempty"`
	Type    EntityType `json:"type"`
	Sources []string   `json:"sources,omitempty"` // backend models it is built from
	Fields  []FieldDef `json:"fields"`
	Parts   []PartDef  `json:"parts,omitempty"`
}

// PartDef describes a nested collection (e.g. attribute values).
type PartDef struct {
	Name    string     `json:"name"`
	Label   string     `json:"label,omitempty"`
	Columns []FieldDef `json:"columns"`
}

// FieldDef describes a field.
type FieldDef struct {
	Name          string    `json:"name"`
	Label         string    `json:"label,omitempty"`
	Type          FieldType `json:"type"`
	ReferenceType string    `json:"referenceType,omitempty"`
	Scale         int       `json:"scale,omitempty"` // For numbers
	Options       []string  `json:"options,omitempty"`
	Placeholder   string    `json:"placeholder,omitempty"`
}

// Field returns a pointer to the named field so callers can refine it.
func (d *EntityDef) Field(name string) *FieldDef {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// SetOptions turns a field into an enum with the given options.
// Unknown field names are ignored.
func (d *EntityDef) SetOptions(field string, options []string) {
	if f := d.Field(field); f != nil {
		f.Type = TypeEnum
		f.Options = options
	}
}

// Registry stores entity definitions.
// It is filled once at startup and read-only afterwards.
type Registry struct {
	entities map[string]EntityDef
}

func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]EntityDef),
	}
}

func (r *Registry) Register(def EntityDef) {
	r.entities[def.Name] = def
}

func (r *Registry) Get(name string) (EntityDef, bool) {
	d, ok := r.entities[name]
	return d, ok
}

// List returns every definition sorted by name.
func (r *Registry) List() []EntityDef {
	list := make([]EntityDef, 0, len(r.entities))
	for _, def := range r.entities {
		list = append(list, def)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
