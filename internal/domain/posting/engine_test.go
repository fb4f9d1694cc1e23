package posting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
	"mercatus/internal/core/security"
)

// Mock objects

type registerCall struct {
	registratorID id.ID
	rows          int
}

type mockRegisterWriter struct {
	replaceCalls []registerCall
	deleteCalls  []id.ID
	replaceErr   error
	deleteErr    error
}

func (m *mockRegisterWriter) ReplaceRows(ctx context.Context, registratorID id.ID, rows []entity.SalesRegisterEntry) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaceCalls = append(m.replaceCalls, registerCall{registratorID, len(rows)})
	return nil
}

func (m *mockRegisterWriter) DeleteByRegistrator(ctx context.Context, registratorID id.ID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleteCalls = append(m.deleteCalls, registratorID)
	return nil
}

type mockDataWriter struct {
	replaceCalls []registerCall
	deleteCalls  []id.ID
	replaceErr   error
}

func (m *mockDataWriter) ReplaceRows(ctx context.Context, registratorID id.ID, rows []entity.SalesDataEntry) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaceCalls = append(m.replaceCalls, registerCall{registratorID, len(rows)})
	return nil
}

func (m *mockDataWriter) DeleteByRegistrator(ctx context.Context, registratorID id.ID) error {
	m.deleteCalls = append(m.deleteCalls, registratorID)
	return nil
}

// testDoc implements Postable over the base document.
type testDoc struct {
	entity.Document
	docType string
	set     *ProjectionSet
	genErr  error
}

func (d *testDoc) GetDocumentType() string { return d.docType }

func (d *testDoc) GenerateProjections(ctx context.Context) (*ProjectionSet, error) {
	if d.genErr != nil {
		return nil, d.genErr
	}
	return d.set, nil
}

func newTestDoc(docType string, registerRows, dataRows int) *testDoc {
	doc := &testDoc{
		Document: entity.NewDocument(),
		docType:  docType,
		set:      NewProjectionSet(),
	}
	doc.Number = "TEST-001"
	for i := 0; i < registerRows; i++ {
		doc.set.AddSalesRegister(entity.SalesRegisterEntry{
			ProjectionBase: entity.NewProjectionBase(doc.ID, docType, 1, "line-1"),
		})
	}
	for i := 0; i < dataRows; i++ {
		doc.set.AddSalesData(entity.SalesDataEntry{
			ProjectionBase: entity.NewProjectionBase(doc.ID, docType, 1, "line-1"),
		})
	}
	return doc
}

func newTestEngine() (*Engine, *mockRegisterWriter, *mockDataWriter) {
	register := &mockRegisterWriter{}
	data := &mockDataWriter{}
	engine := NewEngine(&stubTx{}, register, data)
	engine.RegisterDocumentType("TestSale", TargetSalesRegister, TargetSalesData)
	engine.RegisterDocumentType("TestFinalizeOnly")
	return engine, register, data
}

// stubTx runs the callback inline.
type stubTx struct{}

func (s *stubTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestEngine_Post_WritesAllTargets(t *testing.T) {
	engine, register, data := newTestEngine()
	doc := newTestDoc("TestSale", 2, 1)
	ctx := context.Background()

	saved := 0
	err := engine.Post(ctx, doc, Steps{
		Save: func(ctx context.Context) error { saved++; return nil },
	})
	require.NoError(t, err)

	assert.True(t, doc.Posted)
	assert.Equal(t, 1, doc.PostedVersion)
	assert.Equal(t, 1, saved)

	require.Len(t, register.replaceCalls, 1)
	assert.Equal(t, doc.ID, register.replaceCalls[0].registratorID)
	assert.Equal(t, 2, register.replaceCalls[0].rows)

	require.Len(t, data.replaceCalls, 1)
	assert.Equal(t, 1, data.replaceCalls[0].rows)
}

func TestEngine_Post_RepostReplacesEveryTarget(t *testing.T) {
	engine, register, data := newTestEngine()
	doc := newTestDoc("TestSale", 1, 1)
	ctx := context.Background()

	save := func(ctx context.Context) error { return nil }

	require.NoError(t, engine.Post(ctx, doc, Steps{Save: save}))

	// Second posting produces no sales data rows; the target is still
	// replaced so stale rows cannot survive.
	doc.set = NewProjectionSet()
	doc.set.AddSalesRegister(entity.SalesRegisterEntry{
		ProjectionBase: entity.NewProjectionBase(doc.ID, doc.docType, 2, "line-1"),
	})
	require.NoError(t, engine.Post(ctx, doc, Steps{Save: save}))

	assert.Equal(t, 2, doc.PostedVersion)
	require.Len(t, register.replaceCalls, 2)
	require.Len(t, data.replaceCalls, 2)
	assert.Equal(t, 0, data.replaceCalls[1].rows)
}

func TestEngine_Post_GenerateFailureAborts(t *testing.T) {
	engine, register, data := newTestEngine()
	doc := newTestDoc("TestSale", 1, 0)
	doc.genErr = errors.New("unresolved required reference")
	ctx := context.Background()

	saved := 0
	err := engine.Post(ctx, doc, Steps{
		Save: func(ctx context.Context) error { saved++; return nil },
	})
	require.Error(t, err)

	assert.False(t, doc.Posted)
	assert.Equal(t, 0, doc.PostedVersion)
	assert.Equal(t, 0, saved)
	assert.Empty(t, register.replaceCalls)
	assert.Empty(t, data.replaceCalls)
}

func TestEngine_Post_WriterFailurePropagates(t *testing.T) {
	engine, register, _ := newTestEngine()
	register.replaceErr = errors.New("constraint violation")
	doc := newTestDoc("TestSale", 1, 0)

	err := engine.Post(context.Background(), doc, Steps{
		Save: func(ctx context.Context) error { return nil },
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constraint violation")
}

func TestEngine_Post_UnregisteredType(t *testing.T) {
	engine, _, _ := newTestEngine()
	doc := newTestDoc("UnknownType", 0, 0)

	err := engine.Post(context.Background(), doc, Steps{
		Save: func(ctx context.Context) error { return nil },
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestEngine_Post_DeletedDocument(t *testing.T) {
	engine, _, _ := newTestEngine()
	doc := newTestDoc("TestSale", 1, 0)
	doc.MarkDeleted()

	err := engine.Post(context.Background(), doc, Steps{
		Save: func(ctx context.Context) error { return nil },
	})
	require.Error(t, err)
}

func TestEngine_Post_NoTargets(t *testing.T) {
	engine, register, data := newTestEngine()
	doc := newTestDoc("TestFinalizeOnly", 0, 0)

	err := engine.Post(context.Background(), doc, Steps{
		Save: func(ctx context.Context) error { return nil },
	})
	require.NoError(t, err)

	assert.True(t, doc.Posted)
	assert.Empty(t, register.replaceCalls)
	assert.Empty(t, data.replaceCalls)
}

func TestEngine_Unpost_DeletesExactlyRegisteredTargets(t *testing.T) {
	engine, register, data := newTestEngine()
	doc := newTestDoc("TestSale", 1, 1)
	ctx := context.Background()

	save := func(ctx context.Context) error { return nil }
	require.NoError(t, engine.Post(ctx, doc, Steps{Save: save}))

	cleared := false
	err := engine.Unpost(ctx, doc, Steps{
		Save:             save,
		ClearDerivedRefs: func() { cleared = true },
	})
	require.NoError(t, err)

	assert.False(t, doc.Posted)
	assert.True(t, cleared)
	require.Len(t, register.deleteCalls, 1)
	assert.Equal(t, doc.ID, register.deleteCalls[0])
	require.Len(t, data.deleteCalls, 1)
}

func TestEngine_Unpost_DraftStillCleansProjections(t *testing.T) {
	engine, register, data := newTestEngine()
	doc := newTestDoc("TestSale", 0, 0)

	saved := 0
	err := engine.Unpost(context.Background(), doc, Steps{
		Save: func(ctx context.Context) error { saved++; return nil },
	})
	require.NoError(t, err)

	// Draft: document untouched, projection cleanup still runs.
	assert.Equal(t, 0, saved)
	assert.Len(t, register.deleteCalls, 1)
	assert.Len(t, data.deleteCalls, 1)
}

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func TestEngine_PostAndUnpostEmitEvents(t *testing.T) {
	engine, _, _ := newTestEngine()
	pub := &recordingPublisher{}
	engine.SetEventPublisher(pub)

	doc := newTestDoc("TestSale", 1, 1)
	ctx := context.Background()
	save := func(ctx context.Context) error { return nil }

	require.NoError(t, engine.Post(ctx, doc, Steps{Save: save}))
	require.NoError(t, engine.Unpost(ctx, doc, Steps{Save: save}))

	require.Len(t, pub.events, 2)
	assert.Equal(t, EventDocumentPosted, pub.events[0].EventType)
	assert.Equal(t, doc.ID, pub.events[0].AggregateID)
	assert.Equal(t, "TestSale", pub.events[0].AggregateType)
	assert.Equal(t, EventDocumentUnposted, pub.events[1].EventType)
}

func TestEngine_UnpostDraftEmitsNoEvent(t *testing.T) {
	engine, _, _ := newTestEngine()
	pub := &recordingPublisher{}
	engine.SetEventPublisher(pub)

	doc := newTestDoc("TestSale", 0, 0)
	require.NoError(t, engine.Unpost(context.Background(), doc, Steps{}))
	assert.Empty(t, pub.events)
}

func TestEngine_PublishFailureAbortsPost(t *testing.T) {
	engine, _, _ := newTestEngine()
	pub := &recordingPublisher{err: errors.New("outbox down")}
	engine.SetEventPublisher(pub)

	doc := newTestDoc("TestSale", 1, 0)
	err := engine.Post(context.Background(), doc, Steps{
		Save: func(ctx context.Context) error { return nil },
	})
	require.Error(t, err)
}

func TestEngine_ClosedPeriodRejectsPostAndUnpost(t *testing.T) {
	engine, register, data := newTestEngine()
	doc := newTestDoc("TestSale", 1, 1)
	ctx := context.Background()
	save := func(ctx context.Context) error { return nil }

	require.NoError(t, engine.Post(ctx, doc, Steps{Save: save}))

	// Close the period after the document date: both post and unpost
	// must now be refused without touching the projections.
	engine.SetPolicy(security.NewStrictPolicy(doc.Date.Add(24 * time.Hour)))

	err := engine.Post(ctx, doc, Steps{Save: save})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period")

	err = engine.Unpost(ctx, doc, Steps{Save: save})
	require.Error(t, err)
	assert.True(t, doc.Posted)
	assert.Empty(t, register.deleteCalls)
	assert.Empty(t, data.deleteCalls)

	// Reopening restores normal behavior.
	engine.SetPolicy(security.OpenPolicy{})
	require.NoError(t, engine.Unpost(ctx, doc, Steps{Save: save}))
	assert.False(t, doc.Posted)
}

func TestEngine_Targets(t *testing.T) {
	engine, _, _ := newTestEngine()

	assert.Equal(t, []Target{TargetSalesRegister, TargetSalesData}, engine.Targets("TestSale"))
	assert.Empty(t, engine.Targets("TestFinalizeOnly"))
	assert.Nil(t, engine.Targets("Missing"))
}
