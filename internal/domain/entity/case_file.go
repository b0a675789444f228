package entity

// CaseFileStatus is the lifecycle state of a case file
type CaseFileStatus int

const (
	CaseFileStatusNew CaseFileStatus = iota
	CaseFileStatusPending
	CaseFileStatusRejected
	CaseFileStatusDeleted
	CaseFileStatusSigned
	CaseFileStatusCompleted
)

func (s CaseFileStatus) String() string {
	switch s {
	case CaseFileStatusNew:
		return "new"
	case CaseFileStatusPending:
		return "pending"
	case CaseFileStatusRejected:
		return "rejected"
	case CaseFileStatusDeleted:
		return "deleted"
	case CaseFileStatusSigned:
		return "signed"
	case CaseFileStatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// CaseFile groups the documents and signers of one signing process
type CaseFile struct {
	Base
	Title         string         `json:"title"`
	MetaData      string         `json:"metaData,omitempty"`
	Reference     string         `json:"reference,omitempty"`
	Status        CaseFileStatus `json:"status"`
	SignIteration int            `json:"signIteration,omitempty"`
	Created       Timestamp      `json:"created,omitzero"`
	SendAt        Timestamp      `json:"sendAt,omitzero"`
	ExpireAt      Timestamp      `json:"expireAt,omitzero"`
}

// CaseFileType is the template a case file was created from
type CaseFileType struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

func NewCaseFile(title string) *CaseFile {
	return &CaseFile{Title: title}
}

func (c *CaseFile) Kind() Kind { return KindCaseFile }

func (c *CaseFile) RelativeURL() string { return ResourceCaseFiles }

func (c *CaseFile) RequestData() (map[string]any, error) {
	data := map[string]any{
		"title": c.Title,
	}
	if c.MetaData != "" {
		data["metaData"] = c.MetaData
	}
	if c.Reference != "" {
		data["reference"] = c.Reference
	}
	if !c.SendAt.IsZero() {
		data["sendAt"] = c.SendAt
	}
	if !c.ExpireAt.IsZero() {
		data["expireAt"] = c.ExpireAt
	}
	return data, nil
}
