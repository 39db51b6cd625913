package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"docflow/internal/docflow"
)

// newTestDB creates an in-memory SQLite database with migrations applied.
func newTestDB(t *testing.T) *SQLDatabase {
	t.Helper()

	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		t.Fatalf("failed to migrate database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, newTestDB)
}

// runStoreTests exercises the docflow.Store contract against a backend.
func runStoreTests(t *testing.T, open func(t *testing.T) *SQLDatabase) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	newDoc := func(projectID string) *docflow.Document {
		return &docflow.Document{
			ID:            uuid.NewString(),
			ProjectID:     projectID,
			RecipientID:   "client-1",
			StageCode:     "FOUNDATION",
			Status:        docflow.StatusSentToUser,
			Version:       1,
			CurrentBlobID: "blob-1",
			Title:         "Contract",
			CreatedAt:     now,
			UpdatedAt:     now,
			SentAt:        &now,
		}
	}
	insert := func(t *testing.T, db *SQLDatabase, docs ...*docflow.Document) {
		t.Helper()
		err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			for _, d := range docs {
				if err := tx.InsertDocument(ctx, d); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("InsertDocument() error = %v", err)
		}
	}

	t.Run("document round trip", func(t *testing.T) {
		db := open(t)
		doc := newDoc(uuid.NewString())
		insert(t, db, doc)

		var got *docflow.Document
		err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			var err error
			got, err = tx.LockDocument(ctx, doc.ID)
			return err
		})
		if err != nil {
			t.Fatalf("LockDocument() error = %v", err)
		}
		if got.Status != docflow.StatusSentToUser || got.Version != 1 || got.CurrentBlobID != "blob-1" {
			t.Errorf("LockDocument() = %+v", got)
		}
		if got.SentAt == nil || !got.SentAt.Equal(now) {
			t.Errorf("SentAt = %v, want %v", got.SentAt, now)
		}
		if got.ViewedAt != nil || got.GroupID != "" {
			t.Errorf("ViewedAt = %v, GroupID = %q, want unset", got.ViewedAt, got.GroupID)
		}
	})

	t.Run("update persists lifecycle fields", func(t *testing.T) {
		db := open(t)
		doc := newDoc(uuid.NewString())
		insert(t, db, doc)

		later := now.Add(time.Hour)
		doc.Status = docflow.StatusViewed
		doc.ViewedAt = &later
		doc.UpdatedAt = later
		err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			return tx.UpdateDocument(ctx, doc)
		})
		if err != nil {
			t.Fatalf("UpdateDocument() error = %v", err)
		}

		var got *docflow.Document
		db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			got, err = tx.GetDocument(ctx, doc.ID)
			return err
		})
		if err != nil {
			t.Fatalf("GetDocument() error = %v", err)
		}
		if got.Status != docflow.StatusViewed || got.ViewedAt == nil || !got.ViewedAt.Equal(later) {
			t.Errorf("GetDocument() = %+v, want VIEWED at %v", got, later)
		}
	})

	t.Run("missing document is not found", func(t *testing.T) {
		db := open(t)
		err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			_, err := tx.LockDocument(ctx, uuid.NewString())
			return err
		})
		if !errors.Is(err, docflow.ErrNotFound) {
			t.Errorf("LockDocument() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("rollback discards writes and runs hooks with false", func(t *testing.T) {
		db := open(t)
		doc := newDoc(uuid.NewString())
		boom := errors.New("boom")

		var outcomes []bool
		err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			tx.AfterCompletion(func(committed bool) { outcomes = append(outcomes, committed) })
			if err := tx.InsertDocument(ctx, doc); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("InTx() error = %v, want boom", err)
		}
		if len(outcomes) != 1 || outcomes[0] {
			t.Errorf("hook outcomes = %v, want [false]", outcomes)
		}

		err = db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			_, err := tx.GetDocument(ctx, doc.ID)
			return err
		})
		if !errors.Is(err, docflow.ErrNotFound) {
			t.Errorf("GetDocument() after rollback error = %v, want ErrNotFound", err)
		}
	})

	t.Run("commit runs hooks once in order", func(t *testing.T) {
		db := open(t)
		var calls []string
		err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			tx.AfterCompletion(func(committed bool) {
				if committed {
					calls = append(calls, "first")
				}
			})
			tx.AfterCompletion(func(committed bool) {
				if committed {
					calls = append(calls, "second")
				}
			})
			return tx.InsertDocument(ctx, newDoc(uuid.NewString()))
		})
		if err != nil {
			t.Fatalf("InTx() error = %v", err)
		}
		if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
			t.Errorf("hook calls = %v, want [first second]", calls)
		}
	})

	t.Run("nested call joins the outer transaction", func(t *testing.T) {
		db := open(t)
		doc := newDoc(uuid.NewString())

		err := db.InTx(ctx, func(ctx context.Context, outer docflow.Tx) error {
			return db.InTx(ctx, func(ctx context.Context, inner docflow.Tx) error {
				if inner != outer {
					t.Error("nested InTx() opened a new transaction")
				}
				return inner.InsertDocument(ctx, doc)
			})
		})
		if err != nil {
			t.Fatalf("InTx() error = %v", err)
		}
	})

	t.Run("failed nested call marks rollback-only", func(t *testing.T) {
		db := open(t)
		doc := newDoc(uuid.NewString())

		var committed *bool
		err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			tx.AfterCompletion(func(c bool) { committed = &c })
			if err := tx.InsertDocument(ctx, doc); err != nil {
				return err
			}
			// The caller swallows the joined failure.
			_ = db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
				return errors.New("inner failure")
			})
			return nil
		})
		if !errors.Is(err, ErrRollbackOnly) {
			t.Fatalf("InTx() error = %v, want ErrRollbackOnly", err)
		}
		if committed == nil || *committed {
			t.Errorf("hook committed = %v, want false", committed)
		}
	})

	t.Run("panic rolls back and propagates", func(t *testing.T) {
		db := open(t)
		var rolledBack bool
		func() {
			defer func() {
				if recover() == nil {
					t.Error("InTx() swallowed the panic")
				}
			}()
			db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
				tx.AfterCompletion(func(c bool) { rolledBack = !c })
				panic("boom")
			})
		}()
		if !rolledBack {
			t.Error("hook did not observe rollback")
		}
		// The connection must be usable again.
		if err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			return tx.InsertDocument(ctx, newDoc(uuid.NewString()))
		}); err != nil {
			t.Errorf("InTx() after panic error = %v", err)
		}
	})

	t.Run("ledgers fill sequence numbers and keep order", func(t *testing.T) {
		db := open(t)
		doc := newDoc(uuid.NewString())
		insert(t, db, doc)

		err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			for i := 1; i <= 3; i++ {
				if err := tx.InsertVersion(ctx, &docflow.Version{
					DocumentID: doc.ID, Version: i, BlobID: "b", CreatedByType: docflow.ActorManager, CreatedByID: "m", CreatedAt: now,
				}); err != nil {
					return err
				}
			}
			first := &docflow.AuditEntry{DocumentID: doc.ID, ActorType: docflow.ActorManager, ActorID: "m", Action: docflow.ActionCreated, Payload: []byte(`{}`), CreatedAt: now}
			second := &docflow.AuditEntry{DocumentID: doc.ID, ActorType: docflow.ActorManager, ActorID: "m", Action: docflow.ActionSent, Payload: []byte(`{"reason":"x"}`), CreatedAt: now}
			if err := tx.InsertAudit(ctx, first); err != nil {
				return err
			}
			if err := tx.InsertAudit(ctx, second); err != nil {
				return err
			}
			if first.Seq == 0 || second.Seq <= first.Seq {
				t.Errorf("audit seqs = %d, %d, want increasing", first.Seq, second.Seq)
			}
			c := &docflow.Comment{DocumentID: doc.ID, AuthorType: docflow.ActorClient, AuthorID: "c", Text: "hi", CreatedAt: now}
			if err := tx.InsertComment(ctx, c); err != nil {
				return err
			}
			if c.Seq == 0 {
				t.Error("comment seq not filled")
			}

			versions, err := tx.ListVersions(ctx, doc.ID)
			if err != nil {
				return err
			}
			if len(versions) != 3 || versions[0].Version != 3 || versions[2].Version != 1 {
				t.Errorf("ListVersions() = %d rows, want newest first", len(versions))
			}
			audit, err := tx.ListAudit(ctx, doc.ID)
			if err != nil {
				return err
			}
			if len(audit) != 2 || audit[0].Action != docflow.ActionCreated || audit[1].Action != docflow.ActionSent {
				t.Errorf("ListAudit() = %+v, want CREATED then SENT", audit)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("ledger writes error = %v", err)
		}
	})

	t.Run("duplicate version is rejected", func(t *testing.T) {
		db := open(t)
		doc := newDoc(uuid.NewString())
		insert(t, db, doc)

		v := &docflow.Version{DocumentID: doc.ID, Version: 1, BlobID: "b", CreatedByType: docflow.ActorManager, CreatedByID: "m", CreatedAt: now}
		err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			if err := tx.InsertVersion(ctx, v); err != nil {
				return err
			}
			return tx.InsertVersion(ctx, v)
		})
		if err == nil {
			t.Error("second InsertVersion() succeeded, want unique violation")
		}
	})

	t.Run("signatures by signer type", func(t *testing.T) {
		db := open(t)
		doc := newDoc(uuid.NewString())
		insert(t, db, doc)

		err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			if err := tx.InsertSignature(ctx, &docflow.Signature{
				ID: uuid.NewString(), DocumentID: doc.ID, SignerID: "c", SignerType: docflow.ActorClient,
				Type: docflow.SignatureSimple, FileHash: "abc", Payload: []byte(`{"ip":"127.0.0.1"}`), SignedAt: now,
			}); err != nil {
				return err
			}
			client, err := tx.HasSignature(ctx, doc.ID, docflow.ActorClient)
			if err != nil {
				return err
			}
			manager, err := tx.HasSignature(ctx, doc.ID, docflow.ActorManager)
			if err != nil {
				return err
			}
			if !client || manager {
				t.Errorf("HasSignature() client=%v manager=%v, want true/false", client, manager)
			}
			sigs, err := tx.ListSignatures(ctx, doc.ID)
			if err != nil {
				return err
			}
			if len(sigs) != 1 || sigs[0].FileHash != "abc" || string(sigs[0].Payload) != `{"ip":"127.0.0.1"}` {
				t.Errorf("ListSignatures() = %+v", sigs)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("signature ledger error = %v", err)
		}
	})

	t.Run("group get-or-create converges", func(t *testing.T) {
		db := open(t)
		projectID := uuid.NewString()

		var first, second *docflow.Group
		err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			var err error
			first, err = tx.GetOrCreateGroup(ctx, &docflow.Group{
				ID: uuid.NewString(), ProjectID: projectID, Type: docflow.GroupActs, Title: "Acts", CreatedAt: now, UpdatedAt: now,
			})
			if err != nil {
				return err
			}
			second, err = tx.GetOrCreateGroup(ctx, &docflow.Group{
				ID: uuid.NewString(), ProjectID: projectID, Type: docflow.GroupActs, Title: "Acts", CreatedAt: now, UpdatedAt: now,
			})
			return err
		})
		if err != nil {
			t.Fatalf("GetOrCreateGroup() error = %v", err)
		}
		if first.ID != second.ID {
			t.Errorf("GetOrCreateGroup() ids = %s, %s, want the same group", first.ID, second.ID)
		}
	})

	t.Run("group root document is set once", func(t *testing.T) {
		db := open(t)
		projectID := uuid.NewString()
		var group *docflow.Group
		err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			var err error
			group, err = tx.GetOrCreateGroup(ctx, &docflow.Group{
				ID: uuid.NewString(), ProjectID: projectID, Type: docflow.GroupMainContract, Title: "Main contract", CreatedAt: now, UpdatedAt: now,
			})
			if err != nil {
				return err
			}
			if err := tx.SetGroupRootDocument(ctx, group.ID, "doc-a", now.Add(time.Hour)); err != nil {
				return err
			}
			if err := tx.SetGroupRootDocument(ctx, group.ID, "doc-b", now.Add(2*time.Hour)); err != nil {
				return err
			}
			group, err = tx.GetGroup(ctx, group.ID)
			return err
		})
		if err != nil {
			t.Fatalf("group root error = %v", err)
		}
		if group.RootDocumentID != "doc-a" {
			t.Errorf("RootDocumentID = %q, want doc-a", group.RootDocumentID)
		}
		if want := now.Add(time.Hour); !group.UpdatedAt.Equal(want) {
			t.Errorf("UpdatedAt = %v, want %v", group.UpdatedAt, want)
		}
	})

	t.Run("list filters", func(t *testing.T) {
		db := open(t)
		projectID := uuid.NewString()

		var acts *docflow.Group
		err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
			var err error
			acts, err = tx.GetOrCreateGroup(ctx, &docflow.Group{
				ID: uuid.NewString(), ProjectID: projectID, Type: docflow.GroupActs, Title: "Acts", CreatedAt: now, UpdatedAt: now,
			})
			return err
		})
		if err != nil {
			t.Fatalf("GetOrCreateGroup() error = %v", err)
		}

		plain := newDoc(projectID)
		grouped := newDoc(projectID)
		grouped.GroupID = acts.ID
		grouped.StageCode = "ROOF"
		grouped.CreatedAt = now.Add(time.Minute)
		other := newDoc(projectID)
		other.RecipientID = "client-2"
		other.CreatedAt = now.Add(2 * time.Minute)
		deleted := newDoc(projectID)
		deleted.Status = docflow.StatusDeleted
		deleted.CreatedAt = now.Add(3 * time.Minute)
		insert(t, db, plain, grouped, other, deleted, newDoc(uuid.NewString()))

		tests := []struct {
			name string
			q    docflow.DocumentQuery
			want []string
		}{
			{name: "project hides deleted", q: docflow.DocumentQuery{ProjectID: projectID}, want: []string{plain.ID, grouped.ID, other.ID}},
			{name: "recipient", q: docflow.DocumentQuery{ProjectID: projectID, RecipientID: "client-2"}, want: []string{other.ID}},
			{name: "stage", q: docflow.DocumentQuery{ProjectID: projectID, ListFilter: docflow.ListFilter{Stage: "ROOF"}}, want: []string{grouped.ID}},
			{name: "group", q: docflow.DocumentQuery{ProjectID: projectID, GroupID: acts.ID}, want: []string{grouped.ID}},
			{name: "group type", q: docflow.DocumentQuery{ProjectID: projectID, ListFilter: docflow.ListFilter{GroupType: docflow.GroupActs}}, want: []string{grouped.ID}},
			{name: "explicit deleted", q: docflow.DocumentQuery{ProjectID: projectID, ListFilter: docflow.ListFilter{Status: docflow.StatusDeleted}}, want: []string{deleted.ID}},
			{name: "status", q: docflow.DocumentQuery{ProjectID: projectID, ListFilter: docflow.ListFilter{Status: docflow.StatusSigned}}, want: nil},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var docs []*docflow.Document
				err := db.InTx(ctx, func(ctx context.Context, tx docflow.Tx) error {
					var err error
					docs, err = tx.ListDocuments(ctx, tt.q)
					return err
				})
				if err != nil {
					t.Fatalf("ListDocuments() error = %v", err)
				}
				if len(docs) != len(tt.want) {
					t.Fatalf("ListDocuments() returned %d documents, want %d", len(docs), len(tt.want))
				}
				for i, d := range docs {
					if d.ID != tt.want[i] {
						t.Errorf("docs[%d] = %s, want %s", i, d.ID, tt.want[i])
					}
				}
			})
		}
	})
}
