package docflow

import (
	"context"
	"encoding/json"
	"fmt"
)

// AuditPayload is the closed set of typed payloads recorded with audit
// entries. Each payload type belongs to exactly one AuditAction.
type AuditPayload interface {
	Action() AuditAction
	auditPayload()
}

// CreatedPayload records a document created for a project stage.
type CreatedPayload struct {
	Stage     string    `json:"stage"`
	GroupType GroupType `json:"groupType,omitempty"`
}

// ManualUploadedPayload records a document uploaded by a provider.
type ManualUploadedPayload struct {
	Title string `json:"title"`
}

// SentPayload records why a document was (re)sent to its recipient.
type SentPayload struct {
	Reason string `json:"reason"`
}

// ViewedPayload records the first view by the recipient.
type ViewedPayload struct{}

// SignedPayload records one signature.
type SignedPayload struct {
	SignatureType SignatureType `json:"signatureType"`
	SignerType    ActorType     `json:"signerType"`
	FileHash      string        `json:"fileHash"`
	Completed     bool          `json:"completed"`
}

// RejectedPayload records a rejection.
type RejectedPayload struct{}

// VersionUpdatedPayload records a new version upload.
type VersionUpdatedPayload struct {
	Version int `json:"version"`
}

// CommentAddedPayload records a comment attached alongside another action.
type CommentAddedPayload struct {
	Text string `json:"text"`
}

// DeletedPayload records a soft delete.
type DeletedPayload struct{}

func (CreatedPayload) Action() AuditAction        { return ActionCreated }
func (ManualUploadedPayload) Action() AuditAction { return ActionManualUploaded }
func (SentPayload) Action() AuditAction           { return ActionSent }
func (ViewedPayload) Action() AuditAction         { return ActionViewed }
func (SignedPayload) Action() AuditAction         { return ActionSigned }
func (RejectedPayload) Action() AuditAction       { return ActionRejected }
func (VersionUpdatedPayload) Action() AuditAction { return ActionVersionUpdated }
func (CommentAddedPayload) Action() AuditAction   { return ActionCommentAdded }
func (DeletedPayload) Action() AuditAction        { return ActionDeleted }

func (CreatedPayload) auditPayload()        {}
func (ManualUploadedPayload) auditPayload() {}
func (SentPayload) auditPayload()           {}
func (ViewedPayload) auditPayload()         {}
func (SignedPayload) auditPayload()         {}
func (RejectedPayload) auditPayload()       {}
func (VersionUpdatedPayload) auditPayload() {}
func (CommentAddedPayload) auditPayload()   {}
func (DeletedPayload) auditPayload()        {}

// Send reasons.
const (
	reasonManualUpload = "manual-upload"
	reasonStageUpload  = "stage-upload"
	reasonNewVersion   = "new-version-uploaded"
)

// actor identifies who performed an action.
type actor struct {
	Type ActorType
	ID   string
}

// audit appends one entry to the audit ledger inside tx.
func (e *Engine) audit(ctx context.Context, tx Tx, doc *Document, who actor, payload AuditPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s audit payload: %w", payload.Action(), err)
	}
	entry := &AuditEntry{
		DocumentID: doc.ID,
		ActorType:  who.Type,
		ActorID:    who.ID,
		Action:     payload.Action(),
		Payload:    data,
		CreatedAt:  e.clock.Now(),
	}
	if err := tx.InsertAudit(ctx, entry); err != nil {
		return fmt.Errorf("writing %s audit entry: %w", payload.Action(), err)
	}
	return nil
}

// DecodePayload decodes the payload of an audit entry into its typed form.
// The result holds a value of the payload type, such as SignedPayload,
// matching what the engine records.
func (a *AuditEntry) DecodePayload() (AuditPayload, error) {
	switch a.Action {
	case ActionCreated:
		return decodeAs[CreatedPayload](a)
	case ActionManualUploaded:
		return decodeAs[ManualUploadedPayload](a)
	case ActionSent:
		return decodeAs[SentPayload](a)
	case ActionViewed:
		return decodeAs[ViewedPayload](a)
	case ActionSigned:
		return decodeAs[SignedPayload](a)
	case ActionRejected:
		return decodeAs[RejectedPayload](a)
	case ActionVersionUpdated:
		return decodeAs[VersionUpdatedPayload](a)
	case ActionCommentAdded:
		return decodeAs[CommentAddedPayload](a)
	case ActionDeleted:
		return decodeAs[DeletedPayload](a)
	default:
		return nil, fmt.Errorf("unknown audit action %q", a.Action)
	}
}

func decodeAs[T AuditPayload](a *AuditEntry) (AuditPayload, error) {
	var p T
	if len(a.Payload) > 0 {
		if err := json.Unmarshal(a.Payload, &p); err != nil {
			return nil, fmt.Errorf("decoding %s payload: %w", a.Action, err)
		}
	}
	return p, nil
}
