package docflow

import (
	"context"
	"fmt"
)

// RejectRequest describes a party declining a document.
type RejectRequest struct {
	DocumentID string
	UserID     string
	ActorType  ActorType // defaults to CLIENT
	Comment    string
}

// Reject moves a document awaiting a decision to REJECTED.
func (e *Engine) Reject(ctx context.Context, req RejectRequest) (*Document, error) {
	actorType := req.ActorType
	if actorType == "" {
		actorType = ActorClient
	}
	who := actor{Type: actorType, ID: req.UserID}

	var doc *Document
	err := e.inTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		doc, err = tx.LockDocument(ctx, req.DocumentID)
		if err != nil {
			return err
		}
		if !doc.Status.CanTransitionTo(StatusRejected) {
			return fmt.Errorf("%w: document %s cannot be rejected in status %s", ErrBadState, doc.ID, doc.Status)
		}

		doc.Status = StatusRejected
		doc.RejectedAt = e.stamp()
		doc.UpdatedAt = *doc.RejectedAt
		if err := tx.UpdateDocument(ctx, doc); err != nil {
			return fmt.Errorf("rejecting document: %w", err)
		}
		if err := e.addComment(ctx, tx, doc, who, req.Comment); err != nil {
			return err
		}
		if err := e.audit(ctx, tx, doc, who, RejectedPayload{}); err != nil {
			return err
		}

		onCommit(tx, e.metrics.DocumentRejected)
		e.logger.Info("document rejected", "document", doc.ID, "actor", req.UserID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
