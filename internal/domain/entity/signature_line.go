package entity

import "fmt"

// SignatureLine is a place on a document that a signer signs in a given role
type SignatureLine struct {
	Base
	Role       string    `json:"role"`
	Conditions string    `json:"conditions,omitempty"`
	SignOrder  int       `json:"signOrder"`
	SignedDate Timestamp `json:"signedDate,omitzero"`

	document *Document
	signer   *Signer
}

func NewSignatureLine(document *Document, role string) *SignatureLine {
	return &SignatureLine{Role: role, document: document}
}

func (l *SignatureLine) Document() *Document { return l.document }

// Signer returns the signer linked through SetSigner, if any
func (l *SignatureLine) Signer() *Signer { return l.signer }

// AssignSigner records a successful link locally
func (l *SignatureLine) AssignSigner(s *Signer) { l.signer = s }

func (l *SignatureLine) SetParent(parent Entity) {
	if d, ok := parent.(*Document); ok {
		l.document = d
	}
}

func (l *SignatureLine) Kind() Kind { return KindSignatureLine }

func (l *SignatureLine) RelativeURL() string {
	if l.document == nil || l.document.IsNew() {
		return ResourceSignatureLines
	}
	return fmt.Sprintf("%s/%s/%s", l.document.RelativeURL(), IDString(l.document), ResourceSignatureLines)
}

func (l *SignatureLine) RequestData() (map[string]any, error) {
	if l.document == nil || l.document.IsNew() {
		return nil, fmt.Errorf("%w: signature line has no persisted document", ErrNoRequestData)
	}
	data := map[string]any{
		"role":      l.Role,
		"signOrder": l.SignOrder,
	}
	if l.Conditions != "" {
		data["conditions"] = l.Conditions
	}
	return data, nil
}
