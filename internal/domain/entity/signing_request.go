package entity

// SigningRequestStatus is the delivery state of a signing request
type SigningRequestStatus int

const (
	SigningRequestStatusNew SigningRequestStatus = iota
	SigningRequestStatusPending
	SigningRequestStatusRejected
	SigningRequestStatusDeleted
	SigningRequestStatusSigned
	SigningRequestStatusUndeliverable
)

// SigningRequest is created by the service for each signer and controls how
// the signer is invited and where the signer lands afterwards
type SigningRequest struct {
	Base
	Email            string               `json:"email,omitempty"`
	EmailSubject     string               `json:"emailSubject,omitempty"`
	EmailText        string               `json:"emailText,omitempty"`
	Status           SigningRequestStatus `json:"status"`
	SuccessURL       string               `json:"successUrl,omitempty"`
	FailURL          string               `json:"failUrl,omitempty"`
	ReminderInterval int                  `json:"reminderInterval,omitempty"`
	AccessControl    bool                 `json:"accessControl"`

	signer *Signer
}

func (r *SigningRequest) Signer() *Signer { return r.signer }

func (r *SigningRequest) SetParent(parent Entity) {
	if s, ok := parent.(*Signer); ok {
		r.signer = s
	}
}

func (r *SigningRequest) Kind() Kind { return KindSigningRequest }

func (r *SigningRequest) RelativeURL() string { return ResourceSigningRequests }

func (r *SigningRequest) RequestData() (map[string]any, error) {
	data := map[string]any{
		"accessControl": r.AccessControl,
	}
	if r.Email != "" {
		data["email"] = r.Email
	}
	if r.EmailSubject != "" {
		data["emailSubject"] = r.EmailSubject
	}
	if r.EmailText != "" {
		data["emailText"] = r.EmailText
	}
	if r.SuccessURL != "" {
		data["successUrl"] = r.SuccessURL
	}
	if r.FailURL != "" {
		data["failUrl"] = r.FailURL
	}
	if r.ReminderInterval > 0 {
		data["reminderInterval"] = r.ReminderInterval
	}
	return data, nil
}
