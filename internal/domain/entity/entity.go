package entity

import (
	"errors"
	"strconv"

	"github.com/google/uuid"
)

// Kind identifies the remote resource type of an entity
type Kind string

const (
	KindCaseFile       Kind = "casefile"
	KindDocument       Kind = "document"
	KindSigner         Kind = "signer"
	KindSignatureLine  Kind = "signatureline"
	KindSigningRequest Kind = "signingrequest"
)

// REST path segments
const (
	ResourceCaseFiles       = "casefiles"
	ResourceDocuments       = "documents"
	ResourceSigners         = "signers"
	ResourceSignatureLines  = "signaturelines"
	ResourceSigningRequests = "signingrequests"
)

// ErrNoRequestData is returned by RequestData when an entity cannot be serialized for writing
var ErrNoRequestData = errors.New("unable to get request data")

// Entity is a client-side representation of a remote resource
type Entity interface {
	Kind() Kind
	// ID returns the remote identifier, nil until the entity has been created
	ID() *int
	SetID(id int)
	IsNew() bool
	// Token is the process-local key used before and after a remote identifier exists
	Token() uuid.UUID
	// RelativeURL is the collection URL of the entity, relative to the endpoint
	RelativeURL() string
	// RequestData returns the payload sent on create and update
	RequestData() (map[string]any, error)
}

// Child is implemented by entities that live below a parent resource
type Child interface {
	SetParent(parent Entity)
}

// Base carries identity shared by all entities
type Base struct {
	RemoteID *int `json:"id,omitempty"`

	token uuid.UUID
}

func (b *Base) ID() *int {
	return b.RemoteID
}

func (b *Base) SetID(id int) {
	b.RemoteID = &id
}

func (b *Base) IsNew() bool {
	return b.RemoteID == nil
}

// Token lazily assigns the local identifier, so decoded entities get one too.
// Entities are not safe for concurrent mutation.
func (b *Base) Token() uuid.UUID {
	if b.token == uuid.Nil {
		b.token = uuid.New()
	}
	return b.token
}

// IDString formats an entity identifier for URLs, empty when unset
func IDString(e Entity) string {
	if e == nil || e.ID() == nil {
		return ""
	}
	return strconv.Itoa(*e.ID())
}

// IntPtr is a small helper for optional identifiers and page numbers
func IntPtr(v int) *int {
	return &v
}
