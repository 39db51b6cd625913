package docflow

import (
	"context"
	"fmt"
)

// DeleteRequest describes a soft delete.
type DeleteRequest struct {
	DocumentID string
	ActorID    string
	ActorType  ActorType // defaults to MANAGER
	Comment    string
}

// SoftDelete marks a document DELETED from any status, SIGNED and REJECTED
// included. Deleting an already deleted document returns it unchanged and
// records nothing.
func (e *Engine) SoftDelete(ctx context.Context, req DeleteRequest) (*Document, error) {
	actorType := req.ActorType
	if actorType == "" {
		actorType = ActorManager
	}
	who := actor{Type: actorType, ID: req.ActorID}

	var doc *Document
	err := e.inTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		doc, err = tx.LockDocument(ctx, req.DocumentID)
		if err != nil {
			return err
		}
		if doc.Status == StatusDeleted {
			return nil
		}
		if !doc.Status.CanTransitionTo(StatusDeleted) {
			return fmt.Errorf("%w: document %s cannot be deleted in status %s", ErrBadState, doc.ID, doc.Status)
		}

		doc.Status = StatusDeleted
		doc.DeletedAt = e.stamp()
		doc.UpdatedAt = *doc.DeletedAt
		if err := tx.UpdateDocument(ctx, doc); err != nil {
			return fmt.Errorf("deleting document: %w", err)
		}
		if err := e.addComment(ctx, tx, doc, who, req.Comment); err != nil {
			return err
		}
		if err := e.audit(ctx, tx, doc, who, DeletedPayload{}); err != nil {
			return err
		}

		e.logger.Info("document deleted", "document", doc.ID, "actor", req.ActorID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
