package docflow

import (
	"context"
	"fmt"
	"time"
)

// GetDocument loads one document, including deleted ones.
func (e *Engine) GetDocument(ctx context.Context, id string) (*Document, error) {
	var doc *Document
	err := e.inTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		doc, err = tx.GetDocument(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListByProject lists the documents of a project, oldest first.
func (e *Engine) ListByProject(ctx context.Context, projectID string, f ListFilter) ([]*Document, error) {
	return e.list(ctx, DocumentQuery{ProjectID: projectID, ListFilter: f})
}

// ListByProjectAndUser lists the documents of a project addressed to userID.
func (e *Engine) ListByProjectAndUser(ctx context.Context, projectID, userID string, f ListFilter) ([]*Document, error) {
	return e.list(ctx, DocumentQuery{ProjectID: projectID, RecipientID: userID, ListFilter: f})
}

// ListByGroup lists the non-deleted documents of a group.
func (e *Engine) ListByGroup(ctx context.Context, groupID string) ([]*Document, error) {
	var docs []*Document
	err := e.inTx(ctx, func(ctx context.Context, tx Tx) error {
		g, err := tx.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}
		docs, err = tx.ListDocuments(ctx, DocumentQuery{ProjectID: g.ProjectID, GroupID: g.ID})
		if err != nil {
			return fmt.Errorf("listing group documents: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (e *Engine) list(ctx context.Context, q DocumentQuery) ([]*Document, error) {
	if q.ProjectID == "" {
		return nil, fmt.Errorf("%w: project is required", ErrBadInput)
	}
	var docs []*Document
	err := e.inTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		docs, err = tx.ListDocuments(ctx, q)
		if err != nil {
			return fmt.Errorf("listing documents: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Debug("documents listed", "project", q.ProjectID, "count", len(docs))
	return docs, nil
}

// GetDetails loads a document together with its group and ledgers.
func (e *Engine) GetDetails(ctx context.Context, id string) (*Details, error) {
	d := &Details{}
	err := e.inTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		if d.Document, err = tx.GetDocument(ctx, id); err != nil {
			return err
		}
		if d.Document.GroupID != "" {
			if d.Group, err = tx.GetGroup(ctx, d.Document.GroupID); err != nil {
				return fmt.Errorf("loading group: %w", err)
			}
		}
		if d.Versions, err = tx.ListVersions(ctx, id); err != nil {
			return fmt.Errorf("loading versions: %w", err)
		}
		if d.Comments, err = tx.ListComments(ctx, id); err != nil {
			return fmt.Errorf("loading comments: %w", err)
		}
		if d.Signatures, err = tx.ListSignatures(ctx, id); err != nil {
			return fmt.Errorf("loading signatures: %w", err)
		}
		if d.Audit, err = tx.ListAudit(ctx, id); err != nil {
			return fmt.Errorf("loading audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListGroups lists the groups materialized for a project.
func (e *Engine) ListGroups(ctx context.Context, projectID string) ([]*Group, error) {
	var groups []*Group
	err := e.inTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		groups, err = tx.ListGroups(ctx, projectID)
		if err != nil {
			return fmt.Errorf("listing groups: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// Readiness reports whether every document of a project stage is signed.
type Readiness struct {
	ProjectID string
	StageCode string
	Documents []*Document // documents that gate the stage
	Unsigned  []*Document
	Ready     bool
}

// StageReadiness checks the documents of a stage. Photo reports never
// gate a stage, and a stage without documents is ready.
func (e *Engine) StageReadiness(ctx context.Context, projectID, stageCode string) (*Readiness, error) {
	if projectID == "" || stageCode == "" {
		return nil, fmt.Errorf("%w: project and stage are required", ErrBadInput)
	}
	r := &Readiness{ProjectID: projectID, StageCode: stageCode}
	err := e.inTx(ctx, func(ctx context.Context, tx Tx) error {
		groups, err := tx.ListGroups(ctx, projectID)
		if err != nil {
			return fmt.Errorf("listing groups: %w", err)
		}
		photo := make(map[string]bool)
		for _, g := range groups {
			if g.Type == GroupPhotoReports {
				photo[g.ID] = true
			}
		}

		docs, err := tx.ListDocuments(ctx, DocumentQuery{
			ProjectID:  projectID,
			ListFilter: ListFilter{Stage: stageCode},
		})
		if err != nil {
			return fmt.Errorf("listing stage documents: %w", err)
		}
		for _, d := range docs {
			if photo[d.GroupID] {
				continue
			}
			r.Documents = append(r.Documents, d)
			if d.Status != StatusSigned {
				r.Unsigned = append(r.Unsigned, d)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.Ready = len(r.Unsigned) == 0
	return r, nil
}

// FileURL returns a time-limited download URL for the current file of a
// document. Only blob stores implementing URLPresigner support this.
func (e *Engine) FileURL(ctx context.Context, id string, ttl time.Duration) (string, error) {
	presigner, ok := e.blobs.(URLPresigner)
	if !ok {
		return "", fmt.Errorf("%w: blob store does not support presigned URLs", ErrBadInput)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("%w: ttl must be positive", ErrBadInput)
	}

	var url string
	err := e.inTx(ctx, func(ctx context.Context, tx Tx) error {
		doc, err := tx.GetDocument(ctx, id)
		if err != nil {
			return err
		}
		if doc.Status == StatusDeleted {
			return fmt.Errorf("%w: document %s", ErrNotFound, doc.ID)
		}
		url, err = presigner.PresignGet(ctx, e.bucket, doc.CurrentBlobID, ttl)
		if err != nil {
			return fmt.Errorf("presigning %s: %w", doc.CurrentBlobID, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return url, nil
}
