package connector

import (
	"fmt"

	"penneo-esign/internal/domain/entity"
)

type resourceKey struct {
	kind   entity.Kind
	parent entity.Kind
}

// Resources maps entity kinds, optionally narrowed by the parent kind, to REST paths.
// The table is built once and never modified.
type Resources struct {
	segments map[entity.Kind]string
	nested   map[resourceKey]string
}

func NewResources() *Resources {
	return &Resources{
		segments: map[entity.Kind]string{
			entity.KindCaseFile:       entity.ResourceCaseFiles,
			entity.KindDocument:       entity.ResourceDocuments,
			entity.KindSigner:         entity.ResourceSigners,
			entity.KindSignatureLine:  entity.ResourceSignatureLines,
			entity.KindSigningRequest: entity.ResourceSigningRequests,
		},
		nested: map[resourceKey]string{
			{entity.KindDocument, entity.KindCaseFile}:      entity.ResourceDocuments,
			{entity.KindSigner, entity.KindCaseFile}:        entity.ResourceSigners,
			{entity.KindSignatureLine, entity.KindDocument}: entity.ResourceSignatureLines,
			{entity.KindSigningRequest, entity.KindSigner}:  entity.ResourceSigningRequests,
			{entity.KindSignatureLine, entity.KindSigner}:   entity.ResourceSignatureLines,
		},
	}
}

// Segment returns the top-level path segment of kind
func (r *Resources) Segment(kind entity.Kind) (string, error) {
	segment, ok := r.segments[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnmappedResource, kind)
	}
	return segment, nil
}

// Resource returns the path of kind's collection. When the (kind, parent kind)
// pair is registered the path is nested below the parent entity.
func (r *Resources) Resource(kind entity.Kind, parent entity.Entity) (string, error) {
	segment, err := r.Segment(kind)
	if err != nil {
		return "", err
	}
	if parent == nil {
		return segment, nil
	}

	nested, ok := r.nested[resourceKey{kind: kind, parent: parent.Kind()}]
	if !ok {
		return segment, nil
	}
	base, err := entityURL(parent)
	if err != nil {
		return "", err
	}
	return base + "/" + nested, nil
}

// NestedResource returns parent/{id}/{segment of kind}.
func (r *Resources) NestedResource(parent entity.Entity, kind entity.Kind) (string, error) {
	segment, err := r.Segment(kind)
	if err != nil {
		return "", err
	}
	base, err := entityURL(parent)
	if err != nil {
		return "", err
	}
	return base + "/" + segment, nil
}

// entityURL is the URL of a persisted entity: {relative url}/{id}
func entityURL(e entity.Entity) (string, error) {
	if e == nil || e.IsNew() {
		kind := entity.Kind("")
		if e != nil {
			kind = e.Kind()
		}
		return "", fmt.Errorf("%w: %s", ErrNotPersisted, kind)
	}
	return e.RelativeURL() + "/" + entity.IDString(e), nil
}
