package payments

import "reflect"

// Metadata is an immutable bag of caller-supplied attributes. It is never nil inside the domain.
type Metadata struct {
	props map[string]any
}

func NewMetadata(props map[string]any) Metadata {
	return Metadata{props: copyMap(props)}
}

// Props returns a copy of the underlying mapping.
func (m Metadata) Props() map[string]any { return copyMap(m.props) }

func (m Metadata) Len() int      { return len(m.props) }
func (m Metadata) IsEmpty() bool { return len(m.props) == 0 }

func (m Metadata) Get(key string) (any, bool) {
	v, ok := m.props[key]
	return copyValue(v), ok
}

func (m Metadata) Equal(other Metadata) bool {
	if m.IsEmpty() && other.IsEmpty() {
		return true
	}
	return reflect.DeepEqual(m.props, other.props)
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = copyValue(t[i])
		}
		return out
	default:
		return v
	}
}
