package docflow

import (
	"context"
	"fmt"
)

// CreateRequest describes a new document uploaded by a provider.
type CreateRequest struct {
	ProjectID    string
	UploaderID   string
	UploaderType ActorType // defaults to MANAGER
	StageCode    string
	GroupID      string    // optional, must belong to ProjectID
	GroupType    GroupType // optional, group is created on first use
	RecipientID  string
	File         Upload
	Title        string
	TemplateID   string
}

// ManualUpload creates a document from a provider upload and sends it to
// the recipient. The stored blob is deleted again if the enclosing
// transaction rolls back.
func (e *Engine) ManualUpload(ctx context.Context, req CreateRequest) (*Document, error) {
	return e.create(ctx, req, func(doc *Document, g *Group) (AuditPayload, string) {
		return ManualUploadedPayload{Title: req.Title}, reasonManualUpload
	})
}

// StageUpload creates a document attached to a project stage, resolving the
// group by type instead of by ID.
func (e *Engine) StageUpload(ctx context.Context, req CreateRequest) (*Document, error) {
	return e.create(ctx, req, func(doc *Document, g *Group) (AuditPayload, string) {
		p := CreatedPayload{Stage: doc.StageCode}
		if g != nil {
			p.GroupType = g.Type
		}
		return p, reasonStageUpload
	})
}

func (e *Engine) create(ctx context.Context, req CreateRequest, describe func(*Document, *Group) (AuditPayload, string)) (*Document, error) {
	if req.File.empty() {
		return nil, fmt.Errorf("%w: file is required", ErrBadInput)
	}
	if req.ProjectID == "" || req.RecipientID == "" || req.StageCode == "" {
		return nil, fmt.Errorf("%w: project, recipient and stage are required", ErrBadInput)
	}
	uploaderType := req.UploaderType
	if uploaderType == "" {
		uploaderType = ActorManager
	}
	who := actor{Type: uploaderType, ID: req.UploaderID}

	var doc *Document
	err := e.inTx(ctx, func(ctx context.Context, tx Tx) error {
		group, err := e.resolveGroup(ctx, tx, req)
		if err != nil {
			return err
		}

		blobID, err := e.saveBlob(ctx, tx, req.File)
		if err != nil {
			return err
		}

		now := e.clock.Now()
		doc = &Document{
			ID:            e.idgen.New(),
			ProjectID:     req.ProjectID,
			RecipientID:   req.RecipientID,
			StageCode:     req.StageCode,
			Status:        StatusSentToUser,
			Version:       1,
			CurrentBlobID: blobID,
			TemplateID:    req.TemplateID,
			Title:         req.Title,
			CreatedAt:     now,
			UpdatedAt:     now,
			SentAt:        &now,
		}
		if group != nil {
			doc.GroupID = group.ID
		}
		if err := tx.InsertDocument(ctx, doc); err != nil {
			return fmt.Errorf("creating document: %w", err)
		}

		if err := tx.InsertVersion(ctx, &Version{
			DocumentID:    doc.ID,
			Version:       1,
			BlobID:        blobID,
			CreatedByType: who.Type,
			CreatedByID:   who.ID,
			CreatedAt:     now,
		}); err != nil {
			return fmt.Errorf("recording version 1: %w", err)
		}

		if group != nil && group.Type == GroupMainContract && group.RootDocumentID == "" {
			if err := tx.SetGroupRootDocument(ctx, group.ID, doc.ID, now); err != nil {
				return fmt.Errorf("setting group root document: %w", err)
			}
		}

		created, reason := describe(doc, group)
		if err := e.audit(ctx, tx, doc, who, created); err != nil {
			return err
		}
		if err := e.audit(ctx, tx, doc, who, SentPayload{Reason: reason}); err != nil {
			return err
		}

		onCommit(tx, e.metrics.DocumentCreated)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("document created", "document", doc.ID, "project", doc.ProjectID, "blob", doc.CurrentBlobID)
	return doc, nil
}

// resolveGroup finds the group referenced by req, if any. A group ID wins
// over a group type.
func (e *Engine) resolveGroup(ctx context.Context, tx Tx, req CreateRequest) (*Group, error) {
	switch {
	case req.GroupID != "":
		g, err := tx.GetGroup(ctx, req.GroupID)
		if err != nil {
			return nil, err
		}
		if g.ProjectID != req.ProjectID {
			return nil, fmt.Errorf("%w: group %s does not belong to project %s", ErrForbidden, g.ID, req.ProjectID)
		}
		return g, nil
	case req.GroupType != "":
		now := e.clock.Now()
		g, err := tx.GetOrCreateGroup(ctx, &Group{
			ID:        e.idgen.New(),
			ProjectID: req.ProjectID,
			Type:      req.GroupType,
			Title:     req.GroupType.DefaultTitle(),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("resolving %s group: %w", req.GroupType, err)
		}
		if g.ProjectID != req.ProjectID {
			return nil, fmt.Errorf("%w: group %s does not belong to project %s", ErrForbidden, g.ID, req.ProjectID)
		}
		return g, nil
	default:
		return nil, nil
	}
}
