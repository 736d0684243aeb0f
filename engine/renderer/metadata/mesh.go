package metadata

// Mesh is the model attached to an entity: one or more geometries, each
// paired with its own material.
type Mesh struct {
	Generation uint8
	Geometries []*Geometry
}

func NewMesh(geometries ...*Geometry) *Mesh {
	return &Mesh{Geometries: geometries}
}

// Materials returns the material of every geometry, in order.
func (m *Mesh) Materials() []*Material {
	out := make([]*Material, 0, len(m.Geometries))
	for _, g := range m.Geometries {
		out = append(out, g.Material)
	}
	return out
}
