package models

import "strings"

// Registry is an immutable, ordered catalog of models. Iteration order is the
// order descriptors were supplied in, which the alternative ranker relies on
// to break cost ties deterministically.
type Registry struct {
	models []ModelDescriptor
	index  map[string]int
}

// NewRegistry validates the descriptors and builds a registry.
// All descriptors are checked; the first problem found is returned.
func NewRegistry(descriptors []ModelDescriptor) (*Registry, error) {
	r := &Registry{
		models: make([]ModelDescriptor, 0, len(descriptors)),
		index:  make(map[string]int, len(descriptors)),
	}

	for _, d := range descriptors {
		if err := validateDescriptor(&d); err != nil {
			return nil, err
		}
		if _, exists := r.index[d.ID]; exists {
			return nil, &DuplicateModelError{ModelID: d.ID}
		}

		d.Strengths = cloneStrings(d.Strengths)
		d.Weaknesses = cloneStrings(d.Weaknesses)

		r.index[d.ID] = len(r.models)
		r.models = append(r.models, d)
	}

	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error.
// Intended for package-level fixtures and tests.
func MustNewRegistry(descriptors []ModelDescriptor) *Registry {
	r, err := NewRegistry(descriptors)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the descriptor with the given ID.
func (r *Registry) Get(id string) (ModelDescriptor, bool) {
	i, ok := r.index[id]
	if !ok {
		return ModelDescriptor{}, false
	}
	return r.models[i], true
}

// Has reports whether a model with the given ID is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// List returns all descriptors in registry order.
// The returned slice is a copy and may be modified by the caller.
func (r *Registry) List() []ModelDescriptor {
	out := make([]ModelDescriptor, len(r.models))
	copy(out, r.models)
	return out
}

// IDs returns the registered model IDs in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.models))
	for i, m := range r.models {
		ids[i] = m.ID
	}
	return ids
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	return len(r.models)
}

// ByProvider returns the models served by the given provider, in registry order.
func (r *Registry) ByProvider(provider string) []ModelDescriptor {
	var out []ModelDescriptor
	for _, m := range r.models {
		if strings.EqualFold(m.Provider, provider) {
			out = append(out, m)
		}
	}
	return out
}

func validateDescriptor(d *ModelDescriptor) error {
	switch {
	case strings.TrimSpace(d.ID) == "":
		return &InvalidModelError{ModelID: d.ID, Field: "id", Reason: "is required"}
	case d.Provider == "":
		return &InvalidModelError{ModelID: d.ID, Field: "provider", Reason: "is required"}
	case d.CostPer1KInput < 0:
		return &InvalidModelError{ModelID: d.ID, Field: "cost_per_1k_input", Reason: "must be non-negative"}
	case d.CostPer1KOutput < 0:
		return &InvalidModelError{ModelID: d.ID, Field: "cost_per_1k_output", Reason: "must be non-negative"}
	case d.MaxTokens < 0:
		return &InvalidModelError{ModelID: d.ID, Field: "max_tokens", Reason: "must be non-negative"}
	}

	switch d.Output {
	case "", OutputText, OutputImage, OutputTranscript:
	default:
		return &InvalidModelError{ModelID: d.ID, Field: "output", Reason: "must be one of text, image, transcript"}
	}

	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
