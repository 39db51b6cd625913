package docflow_test

import (
	"context"
	"errors"
	"testing"

	"docflow/internal/docflow"
	"docflow/internal/testutil"
)

func TestEngine_ManualUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("creates version 1 sent to the recipient", func(t *testing.T) {
		f := newFixture(t)
		now := f.clock.Now()

		doc, err := f.engine.ManualUpload(ctx, createRequest("contract v1"))
		if err != nil {
			t.Fatalf("ManualUpload() error = %v", err)
		}

		if doc.Status != docflow.StatusSentToUser {
			t.Errorf("Status = %s, want SENT_TO_USER", doc.Status)
		}
		if doc.Version != 1 {
			t.Errorf("Version = %d, want 1", doc.Version)
		}
		if doc.SentAt == nil || !doc.SentAt.Equal(now) {
			t.Errorf("SentAt = %v, want %v", doc.SentAt, now)
		}
		if !f.blobs.Has(docflow.DefaultBucket, doc.CurrentBlobID) {
			t.Errorf("blob %s not stored", doc.CurrentBlobID)
		}

		stored := f.get(t, doc.ID)
		if stored.Status != docflow.StatusSentToUser || stored.Version != 1 || stored.CurrentBlobID != doc.CurrentBlobID {
			t.Errorf("stored document = %+v, want SENT_TO_USER v1 with blob %s", stored, doc.CurrentBlobID)
		}
		if stored.Title != "Contract" {
			t.Errorf("Title = %q, want Contract", stored.Title)
		}

		d := f.details(t, doc.ID)
		if len(d.Versions) != 1 {
			t.Fatalf("len(Versions) = %d, want 1", len(d.Versions))
		}
		v := d.Versions[0]
		if v.Version != 1 || v.BlobID != doc.CurrentBlobID || v.CreatedByType != docflow.ActorManager || v.CreatedByID != testManager {
			t.Errorf("version 1 = %+v", v)
		}

		want := []docflow.AuditAction{docflow.ActionManualUploaded, docflow.ActionSent}
		if got := f.auditActions(t, doc.ID); !equalActions(got, want) {
			t.Errorf("audit = %v, want %v", got, want)
		}
		p, err := d.Audit[1].DecodePayload()
		if err != nil {
			t.Fatalf("DecodePayload() error = %v", err)
		}
		if sent := p.(docflow.SentPayload); sent.Reason != "manual-upload" {
			t.Errorf("SENT reason = %q, want manual-upload", sent.Reason)
		}

		if f.metrics.Created() != 1 {
			t.Errorf("created counter = %d, want 1", f.metrics.Created())
		}
	})

	t.Run("rejects an empty file", func(t *testing.T) {
		f := newFixture(t)
		req := createRequest("")

		_, err := f.engine.ManualUpload(ctx, req)
		if !errors.Is(err, docflow.ErrBadInput) {
			t.Fatalf("ManualUpload() error = %v, want ErrBadInput", err)
		}
		if f.blobs.Len() != 0 {
			t.Errorf("blobs stored = %d, want 0", f.blobs.Len())
		}
	})

	t.Run("requires project recipient and stage", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*docflow.CreateRequest)
		}{
			{name: "project", mutate: func(r *docflow.CreateRequest) { r.ProjectID = "" }},
			{name: "recipient", mutate: func(r *docflow.CreateRequest) { r.RecipientID = "" }},
			{name: "stage", mutate: func(r *docflow.CreateRequest) { r.StageCode = "" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				req := createRequest("contract")
				tt.mutate(&req)
				if _, err := f.engine.ManualUpload(ctx, req); !errors.Is(err, docflow.ErrBadInput) {
					t.Errorf("ManualUpload() error = %v, want ErrBadInput", err)
				}
			})
		}
	})

	t.Run("unknown group is not found", func(t *testing.T) {
		f := newFixture(t)
		req := createRequest("contract")
		req.GroupID = "missing-group"

		_, err := f.engine.ManualUpload(ctx, req)
		if !errors.Is(err, docflow.ErrNotFound) {
			t.Fatalf("ManualUpload() error = %v, want ErrNotFound", err)
		}
		if f.blobs.Len() != 0 {
			t.Errorf("blobs stored = %d, want 0", f.blobs.Len())
		}
	})

	t.Run("group of another project is forbidden", func(t *testing.T) {
		f := newFixture(t)
		other := createRequest("other project contract")
		other.ProjectID = "project-2"
		other.GroupType = docflow.GroupActs
		otherDoc, err := f.engine.StageUpload(ctx, other)
		if err != nil {
			t.Fatalf("StageUpload() error = %v", err)
		}

		req := createRequest("contract")
		req.GroupID = otherDoc.GroupID
		_, err = f.engine.ManualUpload(ctx, req)
		if !errors.Is(err, docflow.ErrForbidden) {
			t.Fatalf("ManualUpload() error = %v, want ErrForbidden", err)
		}
		if f.blobs.Len() != 1 {
			t.Errorf("blobs stored = %d, want 1", f.blobs.Len())
		}
	})

	t.Run("attaches to an existing group", func(t *testing.T) {
		f := newFixture(t)
		first := createRequest("act 1")
		first.GroupType = docflow.GroupActs
		firstDoc, err := f.engine.StageUpload(ctx, first)
		if err != nil {
			t.Fatalf("StageUpload() error = %v", err)
		}

		req := createRequest("act 2")
		req.GroupID = firstDoc.GroupID
		doc, err := f.engine.ManualUpload(ctx, req)
		if err != nil {
			t.Fatalf("ManualUpload() error = %v", err)
		}
		if doc.GroupID != firstDoc.GroupID {
			t.Errorf("GroupID = %q, want %q", doc.GroupID, firstDoc.GroupID)
		}
	})

	t.Run("storage failure aborts creation", func(t *testing.T) {
		f := newFixture(t)
		f.blobs.FailSave(true)

		_, err := f.engine.ManualUpload(ctx, createRequest("contract"))
		if !errors.Is(err, docflow.ErrBadInput) {
			t.Fatalf("ManualUpload() error = %v, want ErrBadInput", err)
		}
		if !errors.Is(err, testutil.ErrInjected) {
			t.Errorf("ManualUpload() error = %v, want it to wrap the storage error", err)
		}

		docs, err := f.engine.ListByProject(ctx, testProject, docflow.ListFilter{})
		if err != nil {
			t.Fatalf("ListByProject() error = %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("documents = %d, want 0", len(docs))
		}
		if f.metrics.Created() != 0 {
			t.Errorf("created counter = %d, want 0", f.metrics.Created())
		}
	})
}

func TestEngine_StageUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("records CREATED with stage and group type", func(t *testing.T) {
		f := newFixture(t)
		req := createRequest("act")
		req.GroupType = docflow.GroupActs

		doc, err := f.engine.StageUpload(ctx, req)
		if err != nil {
			t.Fatalf("StageUpload() error = %v", err)
		}

		d := f.details(t, doc.ID)
		want := []docflow.AuditAction{docflow.ActionCreated, docflow.ActionSent}
		if got := f.auditActions(t, doc.ID); !equalActions(got, want) {
			t.Fatalf("audit = %v, want %v", got, want)
		}
		p, err := d.Audit[0].DecodePayload()
		if err != nil {
			t.Fatalf("DecodePayload() error = %v", err)
		}
		created := p.(docflow.CreatedPayload)
		if created.Stage != testStage || created.GroupType != docflow.GroupActs {
			t.Errorf("CREATED payload = %+v", created)
		}
		if d.Group == nil || d.Group.Type != docflow.GroupActs || d.Group.Title != "Acts" {
			t.Errorf("Group = %+v, want lazily created ACTS group", d.Group)
		}
		if d.Group.RootDocumentID != "" {
			t.Errorf("RootDocumentID = %q, want empty for ACTS", d.Group.RootDocumentID)
		}
	})

	t.Run("first main contract becomes the group root", func(t *testing.T) {
		f := newFixture(t)
		req := createRequest("main contract")
		req.GroupType = docflow.GroupMainContract

		first, err := f.engine.StageUpload(ctx, req)
		if err != nil {
			t.Fatalf("first StageUpload() error = %v", err)
		}
		req.File = testutil.Upload("contract-2.pdf", []byte("main contract, second copy"))
		second, err := f.engine.StageUpload(ctx, req)
		if err != nil {
			t.Fatalf("second StageUpload() error = %v", err)
		}

		if first.GroupID == "" || first.GroupID != second.GroupID {
			t.Fatalf("group ids = %q, %q, want one shared group", first.GroupID, second.GroupID)
		}
		groups, err := f.engine.ListGroups(ctx, testProject)
		if err != nil {
			t.Fatalf("ListGroups() error = %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("len(groups) = %d, want 1", len(groups))
		}
		if groups[0].RootDocumentID != first.ID {
			t.Errorf("RootDocumentID = %q, want %q", groups[0].RootDocumentID, first.ID)
		}
		if !groups[0].UpdatedAt.Equal(first.CreatedAt) {
			t.Errorf("group UpdatedAt = %v, want the engine clock time %v", groups[0].UpdatedAt, first.CreatedAt)
		}
		if f.metrics.Created() != 2 {
			t.Errorf("created counter = %d, want 2", f.metrics.Created())
		}
	})

	t.Run("without a group the document is ungrouped", func(t *testing.T) {
		f := newFixture(t)
		doc, err := f.engine.StageUpload(ctx, createRequest("loose"))
		if err != nil {
			t.Fatalf("StageUpload() error = %v", err)
		}
		if doc.GroupID != "" {
			t.Errorf("GroupID = %q, want empty", doc.GroupID)
		}
		groups, _ := f.engine.ListGroups(ctx, testProject)
		if len(groups) != 0 {
			t.Errorf("len(groups) = %d, want 0", len(groups))
		}
	})
}
