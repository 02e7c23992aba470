package engine

// Resolver supplies variables to the evaluator. Top-level variables are the
// properties of the root resolver. Implementations must be safe for
// concurrent reads when interpolations run in parallel.
type Resolver interface {
	Property(name string) (Value, bool)
	Index(i int) (Value, bool)
}

// NoResolver is the empty context.
type NoResolver struct{}

func (NoResolver) Property(string) (Value, bool) { return Value{}, false }
func (NoResolver) Index(int) (Value, bool)       { return Value{}, false }

// MapResolver exposes string parameters, as used when substituting
// values into included files.
type MapResolver map[string]string

func (m MapResolver) Property(name string) (Value, bool) {
	s, ok := m[name]
	if !ok {
		return Value{}, false
	}
	return String(s), true
}

func (MapResolver) Index(int) (Value, bool) { return Value{}, false }

// Overlay consults Override before Base. When Namespace is set, that name
// resolves to Base itself so overridden properties stay reachable.
type Overlay struct {
	Namespace string
	Base      Resolver
	Override  Resolver
}

func (o Overlay) Property(name string) (Value, bool) {
	if o.Namespace != "" && name == o.Namespace {
		return Object(o.Base), true
	}
	if o.Override != nil {
		if v, ok := o.Override.Property(name); ok {
			return v, true
		}
	}
	if o.Base != nil {
		return o.Base.Property(name)
	}
	return Value{}, false
}

func (o Overlay) Index(i int) (Value, bool) {
	if o.Override != nil {
		if v, ok := o.Override.Index(i); ok {
			return v, true
		}
	}
	if o.Base != nil {
		return o.Base.Index(i)
	}
	return Value{}, false
}
