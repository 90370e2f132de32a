package expr

// Map associates values with expressions, using the expression hash code
// for bucketing and Equal for collision resolution.
type Map map[uint64][]mapEntry

type mapEntry struct {
	e Expression
	v interface{}
}

func (m Map) Find(e Expression) (interface{}, bool) {
	s, ok := m[e.HashCode()]
	if !ok {
		return nil, false
	}
	for _, x := range s {
		if x.e.Equal(e) {
			return x.v, true
		}
	}
	return nil, false
}

func (m Map) Set(e Expression, v interface{}) {
	h := e.HashCode()
	s := m[h]
	for i := range s {
		if s[i].e.Equal(e) {
			s[i].v = v
			return
		}
	}
	m[h] = append(s, mapEntry{
		e: e,
		v: v,
	})
}
