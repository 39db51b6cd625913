package docflow

import (
	"context"
	"fmt"
	"io"
)

// LoadFileRequest identifies who reads a document file and whether the
// read counts as the recipient viewing it.
type LoadFileRequest struct {
	DocumentID string
	MarkViewed bool
	ActorType  ActorType
	ActorID    string
}

// LoadFile opens the current blob of a document. When the recipient client
// reads a SENT_TO_USER document with MarkViewed set, the document moves to
// VIEWED in the same transaction. Other reads never change state.
func (e *Engine) LoadFile(ctx context.Context, req LoadFileRequest) (io.ReadCloser, error) {
	var rc io.ReadCloser
	err := e.inTx(ctx, func(ctx context.Context, tx Tx) error {
		doc, err := tx.LockDocument(ctx, req.DocumentID)
		if err != nil {
			return err
		}
		if doc.Status == StatusDeleted {
			return fmt.Errorf("%w: document %s", ErrNotFound, doc.ID)
		}

		rc, err = e.blobs.Load(ctx, e.bucket, doc.CurrentBlobID)
		if err != nil {
			return fmt.Errorf("%w: file not found in storage: %s: %w", ErrNotFound, doc.CurrentBlobID, err)
		}

		if !e.marksViewed(doc, req) {
			return nil
		}
		doc.Status = StatusViewed
		doc.ViewedAt = e.stamp()
		doc.UpdatedAt = *doc.ViewedAt
		if err := tx.UpdateDocument(ctx, doc); err != nil {
			return fmt.Errorf("marking document viewed: %w", err)
		}
		if err := e.audit(ctx, tx, doc, actor{Type: req.ActorType, ID: req.ActorID}, ViewedPayload{}); err != nil {
			return err
		}
		e.logger.Info("document viewed", "document", doc.ID, "actor", req.ActorID)
		return nil
	})
	if err != nil {
		if rc != nil {
			rc.Close()
		}
		return nil, err
	}
	return rc, nil
}

func (e *Engine) marksViewed(doc *Document, req LoadFileRequest) bool {
	return req.MarkViewed &&
		req.ActorType == ActorClient &&
		req.ActorID == doc.RecipientID &&
		doc.Status == StatusSentToUser
}
