package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Callback outcomes, the last path segment of the signer redirect
const (
	CallbackSuccess = "success"
	CallbackFailure = "failure"
)

// SigningCaseRequest is the incoming request to create and send a complete signing case
type SigningCaseRequest struct {
	Title         string              `json:"title"`
	Reference     string              `json:"reference,omitempty"`
	DocumentName  string              `json:"document_name"` // file in the ready folder
	DocumentTitle string              `json:"document_title,omitempty"`
	Signers       []SigningCaseSigner `json:"signers"`
	Send          *bool               `json:"send,omitempty"` // defaults to true
	ExpireAt      *time.Time          `json:"expire_at,omitempty"`
}

// SigningCaseSigner is one signer of a signing case request
type SigningCaseSigner struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role,omitempty"`
	SignOrder    int    `json:"sign_order,omitempty"`
	OnBehalfOf   string `json:"on_behalf_of,omitempty"`
	EmailSubject string `json:"email_subject,omitempty"`
	EmailText    string `json:"email_text,omitempty"`
}

// ShouldSend reports whether the case file is sent after it has been built
func (r *SigningCaseRequest) ShouldSend() bool {
	return r.Send == nil || *r.Send
}

// Validate checks the request before anything is created remotely
func (r SigningCaseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.DocumentName, validation.Required),
		validation.Field(&r.Signers, validation.Required),
	)
}

func (s SigningCaseSigner) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Email, validation.Required, is.EmailFormat),
		validation.Field(&s.SignOrder, validation.Min(0)),
	)
}

// SigningCaseResult is returned after a signing case was built
type SigningCaseResult struct {
	CaseFileID int               `json:"case_file_id"`
	DocumentID int               `json:"document_id"`
	Status     string            `json:"status"`
	Sent       bool              `json:"sent"`
	Signers    []SigningCaseLink `json:"signers"`
}

// SigningCaseLink carries the signing portal link of one signer
type SigningCaseLink struct {
	SignerID         int    `json:"signer_id"`
	SigningRequestID int    `json:"signing_request_id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Link             string `json:"link"`
	CallbackToken    string `json:"callback_token"`
}

// CallbackMapping routes a signer redirect back to its case file
type CallbackMapping struct {
	Token            string    `json:"token"`
	CaseFileID       int       `json:"case_file_id"`
	DocumentID       int       `json:"document_id"`
	SignerID         int       `json:"signer_id"`
	SigningRequestID int       `json:"signing_request_id"`
	Email            string    `json:"email"`
	DocumentName     string    `json:"document_name"`
	CreatedAt        time.Time `json:"created_at"`
}

// CallbackResult describes what a signer redirect changed
type CallbackResult struct {
	Token          string `json:"token"`
	Outcome        string `json:"outcome"`
	CaseFileID     int    `json:"case_file_id"`
	CaseFileStatus string `json:"case_file_status"`
	SignedPDFSaved bool   `json:"signed_pdf_saved"`
	SignedPDFPath  string `json:"signed_pdf_path,omitempty"`
}

// CaseFileSummary is a case file with its nested resources for the HTTP API
type CaseFileSummary struct {
	CaseFile  *CaseFile     `json:"case_file"`
	Status    string        `json:"status"`
	Documents []*Document   `json:"documents"`
	Signers   []*Signer     `json:"signers"`
	Errors    []string      `json:"errors,omitempty"`
	Result    *ServerResult `json:"last_result,omitempty"`
}
