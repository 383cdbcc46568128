package tool

// Schema is a JSON Schema fragment. A map keeps the encoding compact and
// lets encoding/json sort keys deterministically.
type Schema map[string]any

// InputSchema renders the tool's parameters as a JSON Schema object.
func (t *Tool) InputSchema() Schema {
	props := make(map[string]any, len(t.Params))
	required := make([]string, 0, 1)
	for _, p := range t.Params {
		props[p.Name] = p.schema()
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return Schema{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func (p Param) schema() Schema {
	s := Schema{}
	if p.Description != "" {
		s["description"] = p.Description
	}
	switch p.Type {
	case TypeSeries:
		s["type"] = "array"
		s["items"] = Schema{"type": "number"}
		s["minItems"] = 1
	case TypeInteger:
		s["type"] = "integer"
	case TypeNumber:
		s["type"] = "number"
	}
	if p.Default != nil {
		s["default"] = p.Default
	}
	if p.Minimum != nil {
		s["minimum"] = *p.Minimum
	}
	return s
}
