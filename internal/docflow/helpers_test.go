package docflow_test

import (
	"context"
	"io"
	"testing"
	"time"

	"docflow/internal/database"
	"docflow/internal/docflow"
	"docflow/internal/testutil"
)

const (
	testProject   = "project-1"
	testRecipient = "client-1"
	testManager   = "manager-1"
	testStage     = "FOUNDATION"
)

type fixture struct {
	engine  *docflow.Engine
	db      *database.SQLDatabase
	blobs   *testutil.FaultyBlobStore
	metrics *testutil.CountingMetrics
	clock   *testutil.StubClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:      testutil.NewTestDatabase(t),
		blobs:   testutil.NewFaultyBlobStore(),
		metrics: &testutil.CountingMetrics{},
		clock:   testutil.FixedClock(),
	}
	f.engine = docflow.NewEngine(f.db, f.blobs, f.metrics, docflow.NewNopLogger(), f.clock, testutil.NewStubIDGenerator(), "")
	return f
}

func createRequest(content string) docflow.CreateRequest {
	return docflow.CreateRequest{
		ProjectID:   testProject,
		UploaderID:  testManager,
		StageCode:   testStage,
		RecipientID: testRecipient,
		File:        testutil.Upload("contract.pdf", []byte(content)),
		Title:       "Contract",
	}
}

// upload creates a document through ManualUpload and advances the clock so
// documents created later sort after it.
func (f *fixture) upload(t *testing.T, content string) *docflow.Document {
	t.Helper()
	doc, err := f.engine.ManualUpload(context.Background(), createRequest(content))
	if err != nil {
		t.Fatalf("ManualUpload() error = %v", err)
	}
	f.clock.Advance(time.Second)
	return doc
}

func (f *fixture) get(t *testing.T, id string) *docflow.Document {
	t.Helper()
	doc, err := f.engine.GetDocument(context.Background(), id)
	if err != nil {
		t.Fatalf("GetDocument(%s) error = %v", id, err)
	}
	return doc
}

func (f *fixture) details(t *testing.T, id string) *docflow.Details {
	t.Helper()
	d, err := f.engine.GetDetails(context.Background(), id)
	if err != nil {
		t.Fatalf("GetDetails(%s) error = %v", id, err)
	}
	return d
}

func (f *fixture) auditActions(t *testing.T, id string) []docflow.AuditAction {
	t.Helper()
	var actions []docflow.AuditAction
	for _, e := range f.details(t, id).Audit {
		actions = append(actions, e.Action)
	}
	return actions
}

func (f *fixture) sign(t *testing.T, id string, signer docflow.ActorType) *docflow.Signature {
	t.Helper()
	sig, err := f.engine.Sign(context.Background(), signRequest(id, signer))
	if err != nil {
		t.Fatalf("Sign(%s) error = %v", signer, err)
	}
	return sig
}

func signRequest(id string, signer docflow.ActorType) docflow.SignRequest {
	signerID := testRecipient
	if signer == docflow.ActorManager {
		signerID = testManager
	}
	return docflow.SignRequest{
		DocumentID:       id,
		SignerID:         signerID,
		SignerType:       signer,
		SignatureType:    docflow.SignatureSimple,
		ConfirmationCode: "123456",
		IP:               "10.0.0.7",
		UserAgent:        "docflow-test",
	}
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	return string(data)
}

func equalActions(got, want []docflow.AuditAction) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
