package docflow

import (
	"context"
	"fmt"
)

// NewVersionRequest describes a replacement file for an existing document.
type NewVersionRequest struct {
	DocumentID   string
	UploaderID   string
	UploaderType ActorType // defaults to MANAGER
	File         Upload
	Comment      string
}

// UploadNewVersion appends a version to the document and reopens it for
// review: SIGNED and REJECTED documents go back to SENT_TO_USER like any
// other. DELETED is the one exception and fails with ErrBadState, because a
// deleted document never changes status again; this overrides the otherwise
// unconditional reopen.
func (e *Engine) UploadNewVersion(ctx context.Context, req NewVersionRequest) (*Document, error) {
	if req.File.empty() {
		return nil, fmt.Errorf("%w: file is required", ErrBadInput)
	}
	uploaderType := req.UploaderType
	if uploaderType == "" {
		uploaderType = ActorManager
	}
	who := actor{Type: uploaderType, ID: req.UploaderID}

	var doc *Document
	err := e.inTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		doc, err = tx.LockDocument(ctx, req.DocumentID)
		if err != nil {
			return err
		}
		if doc.Status == StatusDeleted {
			return fmt.Errorf("%w: document %s is deleted", ErrBadState, doc.ID)
		}

		next := doc.Version + 1
		blobID, err := e.saveBlob(ctx, tx, req.File)
		if err != nil {
			return err
		}

		now := e.clock.Now()
		if err := tx.InsertVersion(ctx, &Version{
			DocumentID:    doc.ID,
			Version:       next,
			BlobID:        blobID,
			CreatedByType: who.Type,
			CreatedByID:   who.ID,
			CreatedAt:     now,
		}); err != nil {
			return fmt.Errorf("recording version %d: %w", next, err)
		}

		previous := doc.Status
		doc.Version = next
		doc.CurrentBlobID = blobID
		doc.Status = StatusSentToUser
		doc.SentAt = &now
		doc.UpdatedAt = now
		if err := tx.UpdateDocument(ctx, doc); err != nil {
			return fmt.Errorf("updating document: %w", err)
		}

		if err := e.addComment(ctx, tx, doc, who, req.Comment); err != nil {
			return err
		}
		if err := e.audit(ctx, tx, doc, who, VersionUpdatedPayload{Version: next}); err != nil {
			return err
		}
		if err := e.audit(ctx, tx, doc, who, SentPayload{Reason: reasonNewVersion}); err != nil {
			return err
		}

		e.logger.Info("document version uploaded", "document", doc.ID, "version", next, "previous_status", previous)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
