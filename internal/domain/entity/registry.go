package entity

// Registry is the insertion ordered, in-memory list of cities of one session.
// Duplicates are allowed and identity is the *City pointer. It is not safe for
// concurrent use; the shell event loop owns it.
type Registry struct {
	cities []*City
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends city at the end.
func (r *Registry) Add(city *City) {
	r.cities = append(r.cities, city)
}

// Remove deletes city by identity and reports whether it was present.
func (r *Registry) Remove(city *City) bool {
	for i, c := range r.cities {
		if c == city {
			r.cities = append(r.cities[:i], r.cities[i+1:]...)
			return true
		}
	}
	return false
}

// ForEach visits cities in insertion order.
func (r *Registry) ForEach(fn func(index int, city *City)) {
	for i, c := range r.cities {
		fn(i, c)
	}
}

func (r *Registry) Len() int {
	return len(r.cities)
}

// Cities returns a snapshot of the registry.
func (r *Registry) Cities() []*City {
	snapshot := make([]*City, len(r.cities))
	copy(snapshot, r.cities)
	return snapshot
}
