package odoo

// FormatMany2One resolves a relational value to its display label.
//
//	[id, label, ...]           -> label
//	[x]                        -> x
//	{name|display_name: label} -> label
//	null / false / []          -> ""
//	scalar                     -> scalar as string
func FormatMany2One(v any) string {
	switch t := v.(type) {
	case []any:
		switch {
		case len(t) >= 2:
			return Stringify(t[1])
		case len(t) == 1:
			return Stringify(t[0])
		}
		return ""
	case map[string]any:
		return labelOf(Record(t))
	case Record:
		return labelOf(t)
	}
	if IsAbsent(v) {
		return ""
	}
	return Stringify(v)
}

// Many2OneID resolves a relational value to its id.
//
//	[id, ...]  -> id
//	{id: x}    -> x
//	null/false -> ""
//	scalar     -> scalar as string
func Many2OneID(v any) string {
	switch t := v.(type) {
	case []any:
		if len(t) == 0 || IsAbsent(t[0]) {
			return ""
		}
		return Stringify(t[0])
	case map[string]any:
		return Record(t).String("id")
	case Record:
		return t.String("id")
	}
	if IsAbsent(v) {
		return ""
	}
	return Stringify(v)
}

func labelOf(r Record) string {
	if v, ok := r.First("name", "display_name"); ok {
		return Stringify(v)
	}
	return ""
}

// Many2ManyIDs returns ids of a x2many field given as ids, tuples or objects.
// Entries that resolve to no id are dropped.
func Many2ManyIDs(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(list))
	for _, item := range list {
		if id := Many2OneID(item); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
