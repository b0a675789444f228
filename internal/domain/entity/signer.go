package entity

import "fmt"

// Signer is a person that signs documents in a case file
type Signer struct {
	Base
	Name                 string `json:"name"`
	SocialSecurityNumber string `json:"socialSecurityNumberPlain,omitempty"`
	VATIN                string `json:"vatin,omitempty"`
	OnBehalfOf           string `json:"onBehalfOf,omitempty"`

	caseFile *CaseFile
}

func NewSigner(caseFile *CaseFile, name string) *Signer {
	return &Signer{Name: name, caseFile: caseFile}
}

func (s *Signer) CaseFile() *CaseFile { return s.caseFile }

func (s *Signer) SetParent(parent Entity) {
	if cf, ok := parent.(*CaseFile); ok {
		s.caseFile = cf
	}
}

func (s *Signer) Kind() Kind { return KindSigner }

func (s *Signer) RelativeURL() string {
	if s.caseFile == nil || s.caseFile.IsNew() {
		return ResourceSigners
	}
	return fmt.Sprintf("%s/%s/%s", s.caseFile.RelativeURL(), IDString(s.caseFile), ResourceSigners)
}

func (s *Signer) RequestData() (map[string]any, error) {
	if s.caseFile == nil || s.caseFile.IsNew() {
		return nil, fmt.Errorf("%w: signer has no persisted case file", ErrNoRequestData)
	}
	data := map[string]any{
		"name": s.Name,
	}
	if s.SocialSecurityNumber != "" {
		data["socialSecurityNumber"] = s.SocialSecurityNumber
	}
	if s.VATIN != "" {
		data["vatin"] = s.VATIN
	}
	if s.OnBehalfOf != "" {
		data["onBehalfOf"] = s.OnBehalfOf
	}
	return data, nil
}
