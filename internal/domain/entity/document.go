package entity

import (
	"encoding/base64"
	"fmt"
)

// Document types
const (
	DocumentTypeSignable   = "signable"
	DocumentTypeAttachment = "attachment"
)

// DocumentStatus is the lifecycle state of a document
type DocumentStatus int

const (
	DocumentStatusNew DocumentStatus = iota
	DocumentStatusPending
	DocumentStatusRejected
	DocumentStatusDeleted
	DocumentStatusSigned
	DocumentStatusCompleted
)

// Document is a PDF inside a case file
type Document struct {
	Base
	DocumentID string         `json:"documentId,omitempty"`
	Title      string         `json:"title"`
	MetaData   string         `json:"metaData,omitempty"`
	Options    string         `json:"options,omitempty"`
	Type       string         `json:"type,omitempty"`
	Status     DocumentStatus `json:"status"`
	Created    Timestamp      `json:"created,omitzero"`
	Modified   Timestamp      `json:"modified,omitzero"`
	Completed  Timestamp      `json:"completed,omitzero"`

	// PDFFile is the base64 encoded upload, only sent on create
	PDFFile string `json:"-"`

	caseFile *CaseFile
}

func NewDocument(caseFile *CaseFile, title string, pdf []byte) *Document {
	d := &Document{
		Title:    title,
		Type:     DocumentTypeAttachment,
		caseFile: caseFile,
	}
	if len(pdf) > 0 {
		d.PDFFile = base64.StdEncoding.EncodeToString(pdf)
	}
	return d
}

// MakeSignable marks the document as one that signature lines can be placed on
func (d *Document) MakeSignable() {
	d.Type = DocumentTypeSignable
}

func (d *Document) IsSignable() bool {
	return d.Type == DocumentTypeSignable
}

func (d *Document) CaseFile() *CaseFile { return d.caseFile }

func (d *Document) SetParent(parent Entity) {
	if cf, ok := parent.(*CaseFile); ok {
		d.caseFile = cf
	}
}

func (d *Document) Kind() Kind { return KindDocument }

func (d *Document) RelativeURL() string { return ResourceDocuments }

func (d *Document) RequestData() (map[string]any, error) {
	data := map[string]any{
		"title": d.Title,
	}
	if d.MetaData != "" {
		data["metaData"] = d.MetaData
	}
	if d.Options != "" {
		data["options"] = d.Options
	}
	if !d.IsNew() {
		return data, nil
	}

	if d.caseFile == nil || d.caseFile.IsNew() {
		return nil, fmt.Errorf("%w: document has no persisted case file", ErrNoRequestData)
	}
	if d.PDFFile == "" {
		return nil, fmt.Errorf("%w: document has no pdf content", ErrNoRequestData)
	}
	data["caseFileId"] = *d.caseFile.ID()
	data["pdfFile"] = d.PDFFile
	if d.Type != "" {
		data["type"] = d.Type
	}
	return data, nil
}
