package docflow

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a document.
type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusSentToUser Status = "SENT_TO_USER"
	StatusViewed     Status = "VIEWED"
	StatusSigned     Status = "SIGNED"
	StatusRejected   Status = "REJECTED"
	StatusDeleted    Status = "DELETED"
)

var allStatuses = []Status{
	StatusCreated, StatusSentToUser, StatusViewed, StatusSigned, StatusRejected, StatusDeleted,
}

// ParseStatus converts a case-insensitive name into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown document status %q", ErrBadInput, s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }

// ActorType is the role on behalf of which an action is taken.
type ActorType string

const (
	ActorClient  ActorType = "CLIENT"
	ActorManager ActorType = "MANAGER"
	ActorSystem  ActorType = "SYSTEM"
)

// ParseActorType accepts CLIENT, MANAGER (or its alias BUILDER) and SYSTEM.
func ParseActorType(s string) (ActorType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CLIENT":
		return ActorClient, nil
	case "MANAGER", "BUILDER":
		return ActorManager, nil
	case "SYSTEM":
		return ActorSystem, nil
	default:
		return "", fmt.Errorf("%w: unknown actor type %q", ErrBadInput, s)
	}
}

// CanSign reports whether signatures may be recorded on behalf of this actor type.
func (a ActorType) CanSign() bool {
	return a == ActorClient || a == ActorManager
}

func (a ActorType) String() string { return string(a) }

// SignatureType is the signing method. Only SIMPLE is implemented.
type SignatureType string

const SignatureSimple SignatureType = "SIMPLE"

func (t SignatureType) String() string { return string(t) }

// AuditAction enumerates every action recorded in the audit ledger.
type AuditAction string

const (
	ActionCreated        AuditAction = "CREATED"
	ActionSent           AuditAction = "SENT"
	ActionViewed         AuditAction = "VIEWED"
	ActionSigned         AuditAction = "SIGNED"
	ActionRejected       AuditAction = "REJECTED"
	ActionVersionUpdated AuditAction = "VERSION_UPDATED"
	ActionCommentAdded   AuditAction = "COMMENT_ADDED"
	ActionManualUploaded AuditAction = "MANUAL_UPLOADED"
	ActionDeleted        AuditAction = "DELETED"
)

// GroupType classifies a document group within a project.
type GroupType string

const (
	GroupMainContract        GroupType = "MAIN_CONTRACT"
	GroupAdditionalAgreement GroupType = "ADDITIONAL_AGREEMENT"
	GroupActs                GroupType = "ACTS"
	GroupPhotoReports        GroupType = "PHOTO_REPORTS"
	GroupOther               GroupType = "OTHER"
)

var groupTitles = map[GroupType]string{
	GroupMainContract:        "Main contract",
	GroupAdditionalAgreement: "Additional agreements",
	GroupActs:                "Acts",
	GroupPhotoReports:        "Photo reports",
	GroupOther:               "Other documents",
}

// ParseGroupType converts a case-insensitive name into a GroupType.
func ParseGroupType(s string) (GroupType, error) {
	gt := GroupType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := groupTitles[gt]; !ok {
		return "", fmt.Errorf("%w: unknown group type %q", ErrBadInput, s)
	}
	return gt, nil
}

// DefaultTitle is the title given to a lazily created group of this type.
func (g GroupType) DefaultTitle() string {
	return groupTitles[g]
}

func (g GroupType) String() string { return string(g) }

// Document is the mutable record whose status the engine advances.
type Document struct {
	ID            string
	ProjectID     string
	RecipientID   string
	StageCode     string
	Status        Status
	Version       int
	CurrentBlobID string
	GroupID       string // empty when the document is not grouped
	TemplateID    string // empty for uploaded documents
	Title         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	SentAt        *time.Time
	ViewedAt      *time.Time
	SignedAt      *time.Time
	RejectedAt    *time.Time
	DeletedAt     *time.Time
}

// Version is one immutable row of a document's version ledger.
type Version struct {
	DocumentID    string
	Version       int
	BlobID        string
	CreatedByType ActorType
	CreatedByID   string
	CreatedAt     time.Time
}

// Signature binds a signer to the hash of the blob that was current when they signed.
type Signature struct {
	ID         string
	DocumentID string
	SignerID   string
	SignerType ActorType
	Type       SignatureType
	FileHash   string
	Payload    json.RawMessage
	SignedAt   time.Time
}

// Comment is free text attached to a document.
type Comment struct {
	Seq        int64
	DocumentID string
	AuthorType ActorType
	AuthorID   string
	Text       string
	CreatedAt  time.Time
}

// AuditEntry is one row of the append-only audit ledger.
type AuditEntry struct {
	Seq        int64
	DocumentID string
	ActorType  ActorType
	ActorID    string
	Action     AuditAction
	Payload    json.RawMessage
	CreatedAt  time.Time
}

// Group is a lazily materialized grouping of documents within a project.
type Group struct {
	ID             string
	ProjectID      string
	Type           GroupType
	Title          string
	RootDocumentID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Details is the full read-only projection of one document.
type Details struct {
	Document   *Document
	Group      *Group
	Versions   []*Version // newest first
	Comments   []*Comment
	Signatures []*Signature
	Audit      []*AuditEntry
}

// ListFilter narrows project listings. Zero values match everything except
// DELETED documents, which are only returned when Status asks for them.
type ListFilter struct {
	Status    Status
	Stage     string
	GroupType GroupType
}

// DocumentQuery is the store-level form of a listing request.
type DocumentQuery struct {
	ProjectID   string
	RecipientID string
	GroupID     string
	ListFilter
}
