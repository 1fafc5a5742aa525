package registry

import "context"

// Settings is a frozen set of entries. It is safe for concurrent use.
type Settings struct {
	values map[string]Value
	order  []string
}

// Lookup returns the value defined for name.
func (s *Settings) Lookup(name string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	v, ok := s.values[name]
	return v, ok
}

// Defined reports whether name is present.
func (s *Settings) Defined(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// String returns the string entry name. ok is false when the entry is
// missing or holds another kind.
func (s *Settings) String(name string) (value string, ok bool) {
	v, found := s.Lookup(name)
	if !found {
		return "", false
	}
	return v.AsString()
}

// Bool returns the boolean entry name.
func (s *Settings) Bool(name string) (value bool, ok bool) {
	v, found := s.Lookup(name)
	if !found {
		return false, false
	}
	return v.AsBool()
}

// Int returns the integer entry name.
func (s *Settings) Int(name string) (value int64, ok bool) {
	v, found := s.Lookup(name)
	if !found {
		return 0, false
	}
	return v.AsInt()
}

// Names returns entry names in definition order.
func (s *Settings) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of entries.
func (s *Settings) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Each calls fn for every entry in definition order until fn returns false.
func (s *Settings) Each(fn func(name string, value Value) bool) {
	if s == nil {
		return
	}
	for _, name := range s.order {
		if !fn(name, s.values[name]) {
			return
		}
	}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Settings) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the Settings stored in ctx, if any.
func FromContext(ctx context.Context) (*Settings, bool) {
	s, ok := ctx.Value(contextKey{}).(*Settings)
	return s, ok && s != nil
}
