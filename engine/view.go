package engine

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns analyzer data. It reads through this interface.
//
// Implementations:
//   DomainView[T]  — reads typed records via accessor functions (zero-copy)
//   SubView        — filtered subset (indices into parent, zero-copy)
//
// Analyzers register accessors once; the engine reads them in tight loops.
// ============================================================================

// RecordView provides indexed access to a dataset.
// Measure returns NaN when the cell holds no value.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	DimensionKeys() []string
	MeasureKeys() []string
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent — no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return nan
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// Index maps a position in the sub view back to the parent position.
func (v *SubView) Index(i int) int { return v.indices[i] }

// ============================================================================
// DOMAIN ADAPTER — Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[dataset.LiteracyRecord]().
//	    Dimension("state", func(r dataset.LiteracyRecord) string { return r.State }).
//	    Measure("literacy", func(r dataset.LiteracyRecord) float64 { return r.LiteracyRate })
//
//	view := adapter.Bind(records)
//	groups := engine.GroupAndAggregate(view, []string{"state"}, "literacy", engine.AggAvg, engine.SortValueDesc, 0)
//
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) float64),
	}
}

// Dimension registers a dimension accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.dimOrder = append(a.dimOrder, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers a measure accessor.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) float64) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.mesOrder = append(a.mesOrder, key)
	}
	a.meas[key] = fn
	return a
}

// Bind creates a RecordView from a data slice. Zero-copy — holds reference.
func (a *DomainAdapter[T]) Bind(data []T) *DomainView[T] {
	return &DomainView[T]{
		data:     data,
		dims:     a.dims,
		meas:     a.meas,
		dimKeys:  a.dimOrder,
		measKeys: a.mesOrder,
	}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data     []T
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
	dimKeys  []string
	measKeys []string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.data) {
		return ""
	}
	if fn, ok := v.dims[key]; ok {
		return fn(v.data[i])
	}
	return ""
}

func (v *DomainView[T]) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.data) {
		return nan
	}
	if fn, ok := v.meas[key]; ok {
		return fn(v.data[i])
	}
	return nan
}

func (v *DomainView[T]) DimensionKeys() []string { return v.dimKeys }
func (v *DomainView[T]) MeasureKeys() []string   { return v.measKeys }

// Collect materializes the records a view (or sub view) of v points at, in view order.
// Views not derived from v return nil.
func (v *DomainView[T]) Collect(view RecordView) []T {
	switch sv := view.(type) {
	case *DomainView[T]:
		if sv != v {
			return nil
		}
		out := make([]T, len(v.data))
		copy(out, v.data)
		return out
	case *SubView:
		out := make([]T, 0, sv.Len())
		for i := 0; i < sv.Len(); i++ {
			out = append(out, v.resolve(sv.parent, sv.Index(i))...)
		}
		return out
	}
	return nil
}

func (v *DomainView[T]) resolve(parent RecordView, i int) []T {
	switch p := parent.(type) {
	case *DomainView[T]:
		if p == v {
			return []T{v.data[i]}
		}
	case *SubView:
		return v.resolve(p.parent, p.Index(i))
	}
	return nil
}
