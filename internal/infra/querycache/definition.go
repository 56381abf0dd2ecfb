// Package querycache caches backend query results and invalidates them by tag.
package querycache

import (
	"slices"

	"pricing/internal/domain/entity"

	"github.com/pkg/errors"
)

// QueryDef declares a cached read and the tags its results provide.
type QueryDef struct {
	Name     string
	Provides []entity.CacheTag
}

// MutationDef declares a write and the tags it invalidates on success.
type MutationDef struct {
	Name        string
	Invalidates []entity.CacheTag
}

// NewQuery validates a query declaration. Unknown tags are rejected.
func NewQuery(name string, provides ...entity.CacheTag) (QueryDef, error) {
	if err := validateDeclaration(name, provides); err != nil {
		return QueryDef{}, err
	}

	return QueryDef{Name: name, Provides: slices.Clone(provides)}, nil
}

// NewMutation validates a mutation declaration. Unknown tags are rejected.
func NewMutation(name string, invalidates ...entity.CacheTag) (MutationDef, error) {
	if err := validateDeclaration(name, invalidates); err != nil {
		return MutationDef{}, err
	}

	return MutationDef{Name: name, Invalidates: slices.Clone(invalidates)}, nil
}

// MustQuery is NewQuery for package-level declarations.
func MustQuery(name string, provides ...entity.CacheTag) QueryDef {
	def, err := NewQuery(name, provides...)
	if err != nil {
		panic(err)
	}

	return def
}

// MustMutation is NewMutation for package-level declarations.
func MustMutation(name string, invalidates ...entity.CacheTag) MutationDef {
	def, err := NewMutation(name, invalidates...)
	if err != nil {
		panic(err)
	}

	return def
}

// Affects reports whether a successful run of m makes results of q stale.
func (m MutationDef) Affects(q QueryDef) bool {
	return intersects(m.Invalidates, q.Provides)
}

func validateDeclaration(name string, tags []entity.CacheTag) error {
	if name == "" {
		return errors.New("operation name is required")
	}

	for _, tag := range tags {
		if !tag.IsValid() {
			return errors.Errorf("operation %s: unknown cache tag %q", name, tag)
		}
	}

	return nil
}

func intersects(a, b []entity.CacheTag) bool {
	for _, tag := range a {
		if slices.Contains(b, tag) {
			return true
		}
	}

	return false
}
