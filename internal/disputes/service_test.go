package disputes

import (
	"context"
	"errors"
	"testing"
	"time"

	"cleanlyBack/internal/models"
)

type testLogger struct{}

func (testLogger) Infof(string, ...interface{})  {}
func (testLogger) Errorf(string, ...interface{}) {}

type fakeStore struct {
	nextID        int
	disputes      map[int]*models.Dispute
	paymentStatus string
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, disputes: map[int]*models.Dispute{}}
}

func (f *fakeStore) Create(ctx context.Context, d models.Dispute, audit models.AuditEntry) (models.Dispute, error) {
	d.ID = f.nextID
	f.nextID++
	d.Audit = append(d.Audit, audit)
	stored := d
	f.disputes[d.ID] = &stored
	return d, nil
}

func (f *fakeStore) Get(ctx context.Context, id int) (models.Dispute, error) {
	d, ok := f.disputes[id]
	if !ok {
		return models.Dispute{}, models.ErrDisputeNotFound
	}
	return *d, nil
}

func (f *fakeStore) FindActiveByJob(ctx context.Context, jobID int) (*models.Dispute, error) {
	for _, d := range f.disputes {
		if d.JobID == jobID && models.DisputeIsPending(d.Status) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) AppendEvidence(ctx context.Context, disputeID int, item models.EvidenceItem, markUnderReview bool, audit []models.AuditEntry) error {
	d, ok := f.disputes[disputeID]
	if !ok {
		return models.ErrDisputeNotFound
	}
	if item.FromPro {
		d.ProResponses = append(d.ProResponses, item)
	} else {
		d.Evidence = append(d.Evidence, item)
	}
	if markUnderReview {
		d.Status = models.DisputeStatusUnderReview
	}
	d.Audit = append(d.Audit, audit...)
	return nil
}

func (f *fakeStore) ResolveCommit(ctx context.Context, res Resolution) error {
	d, ok := f.disputes[res.DisputeID]
	if !ok {
		return models.ErrDisputeNotFound
	}
	if !models.DisputeIsPending(d.Status) {
		return models.ErrFailedPrecondition
	}
	d.Status = res.Status
	awarded := res.AwardedAmount
	d.AwardedAmount = &awarded
	resolvedAt := res.ResolvedAt
	d.ResolvedAt = &resolvedAt
	d.Audit = append(d.Audit, res.Audit)
	f.paymentStatus = res.PaymentStatus
	return nil
}

type fakeJobs struct{ jobs map[int]models.Job }

func (f fakeJobs) Get(ctx context.Context, id int) (models.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return models.Job{}, models.ErrJobNotFound
	}
	return j, nil
}

type fakePayments struct{ payments map[int]models.Payment }

func (f fakePayments) Get(ctx context.Context, id int) (models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return models.Payment{}, models.ErrPaymentNotFound
	}
	return p, nil
}

type fakeGateway struct {
	calls int
	err   error
}

func (f *fakeGateway) CreateRefund(ctx context.Context, paymentRef string, amountMinor int64, reason string, meta map[string]string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "re_test_1", nil
}

type fakeAdmins struct{ admins map[int]bool }

func (f fakeAdmins) IsAdmin(ctx context.Context, userID int) (bool, error) {
	return f.admins[userID], nil
}

var (
	captureTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	customerID  = 100
	proID       = 200
	adminID     = 900
)

type fixture struct {
	svc     *Service
	store   *fakeStore
	gateway *fakeGateway
	now     time.Time
}

func newFixture() *fixture {
	f := &fixture{
		store:   newFakeStore(),
		gateway: &fakeGateway{},
		now:     captureTime.Add(time.Hour),
	}
	f.svc = &Service{
		Disputes: f.store,
		Jobs: fakeJobs{jobs: map[int]models.Job{
			1: {ID: 1, CustomerID: customerID, Status: models.JobStatusCompleted},
		}},
		Payments: fakePayments{payments: map[int]models.Payment{
			10: {ID: 10, JobID: 1, CustomerID: customerID, ProID: proID, Amount: 120, Status: models.PaymentStatusCaptured, ProviderRef: "pi_1", CapturedAt: &captureTime},
		}},
		Gateway: f.gateway,
		Admins:  fakeAdmins{admins: map[int]bool{adminID: true}},
		Logger:  testLogger{},
		Now:     func() time.Time { return f.now },
	}
	return f
}

func (f *fixture) open(t *testing.T) models.Dispute {
	t.Helper()
	d, err := f.svc.Open(context.Background(), customerID, 1, 10, "quality", "floors untouched", 60)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return d
}

func TestOpenSetsDeadlines(t *testing.T) {
	f := newFixture()
	d := f.open(t)

	if d.Status != models.DisputeStatusOpen {
		t.Fatalf("expected open status, got %s", d.Status)
	}
	if !d.ProDeadline.Equal(f.now.Add(24 * time.Hour)) {
		t.Fatalf("wrong pro deadline: %v", d.ProDeadline)
	}
	if !d.DecisionDeadline.Equal(f.now.Add(48 * time.Hour)) {
		t.Fatalf("wrong decision deadline: %v", d.DecisionDeadline)
	}
	if len(d.Audit) != 1 || d.Audit[0].Action != "opened" {
		t.Fatalf("expected opened audit entry, got %v", d.Audit)
	}
}

func TestOpenWindowBoundary(t *testing.T) {
	f := newFixture()
	f.now = captureTime.Add(24*time.Hour - time.Second)
	f.open(t)

	f2 := newFixture()
	f2.now = captureTime.Add(24*time.Hour + time.Second)
	_, err := f2.svc.Open(context.Background(), customerID, 1, 10, "quality", "", 60)
	if !errors.Is(err, models.ErrDeadlineExceeded) {
		t.Fatalf("expected ErrDeadlineExceeded, got %v", err)
	}
}

func TestOpenSingleActiveInvariant(t *testing.T) {
	f := newFixture()
	f.open(t)

	_, err := f.svc.Open(context.Background(), customerID, 1, 10, "quality", "", 40)
	if !errors.Is(err, models.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// resolving the first one frees the job for a new dispute
	if _, err := f.svc.Resolve(context.Background(), adminID, 1, models.DecisionNoRefund, 0, "ok"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := f.svc.Open(context.Background(), customerID, 1, 10, "quality", "", 40); err != nil {
		t.Fatalf("expected second open to succeed, got %v", err)
	}
}

func TestOpenRejectsWrongActor(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Open(context.Background(), proID, 1, 10, "quality", "", 60)
	if !errors.Is(err, models.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestAddEvidenceProTransition(t *testing.T) {
	f := newFixture()
	d := f.open(t)

	d, err := f.svc.AddEvidence(context.Background(), proID, d.ID, models.EvidenceText, "I cleaned everything", "")
	if err != nil {
		t.Fatalf("AddEvidence: %v", err)
	}
	if d.Status != models.DisputeStatusUnderReview {
		t.Fatalf("first pro evidence must move to under_review, got %s", d.Status)
	}
	if len(d.ProResponses) != 1 {
		t.Fatalf("expected 1 pro response, got %d", len(d.ProResponses))
	}

	transitionEntries := 0
	for _, a := range d.Audit {
		if a.Action == "status_changed" {
			transitionEntries++
		}
	}
	if transitionEntries != 1 {
		t.Fatalf("expected 1 transition audit entry, got %d", transitionEntries)
	}

	// second submission appends but does not re-transition
	d, err = f.svc.AddEvidence(context.Background(), proID, d.ID, models.EvidenceImage, "", "https://files.example/p.jpg")
	if err != nil {
		t.Fatalf("AddEvidence second: %v", err)
	}
	transitionEntries = 0
	for _, a := range d.Audit {
		if a.Action == "status_changed" {
			transitionEntries++
		}
	}
	if transitionEntries != 1 {
		t.Fatalf("transition audit entry duplicated: %d", transitionEntries)
	}
}

func TestAddEvidenceCustomerKeepsStatus(t *testing.T) {
	f := newFixture()
	d := f.open(t)

	d, err := f.svc.AddEvidence(context.Background(), customerID, d.ID, models.EvidenceText, "photos attached", "")
	if err != nil {
		t.Fatalf("AddEvidence: %v", err)
	}
	if d.Status != models.DisputeStatusOpen {
		t.Fatalf("customer evidence must not change status, got %s", d.Status)
	}
	if len(d.Evidence) != 1 {
		t.Fatalf("expected 1 evidence item, got %d", len(d.Evidence))
	}
}

func TestAddEvidenceRejections(t *testing.T) {
	f := newFixture()
	d := f.open(t)

	if _, err := f.svc.AddEvidence(context.Background(), 555, d.ID, models.EvidenceText, "hi", ""); !errors.Is(err, models.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for stranger, got %v", err)
	}
	if _, err := f.svc.AddEvidence(context.Background(), customerID, d.ID, "video", "x", ""); !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for bad kind, got %v", err)
	}

	if _, err := f.svc.Resolve(context.Background(), adminID, d.ID, models.DecisionCancelled, 0, ""); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := f.svc.AddEvidence(context.Background(), customerID, d.ID, models.EvidenceText, "late", ""); !errors.Is(err, models.ErrFailedPrecondition) {
		t.Fatalf("expected ErrFailedPrecondition on terminal dispute, got %v", err)
	}
}

func TestResolveFullRefund(t *testing.T) {
	f := newFixture()
	d := f.open(t)

	d, err := f.svc.Resolve(context.Background(), adminID, d.ID, models.DecisionRefundFull, 0, "valid claim")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if d.Status != models.DisputeStatusRefundFull {
		t.Fatalf("expected resolved_refund_full, got %s", d.Status)
	}
	if d.AwardedAmount == nil || *d.AwardedAmount != 120 {
		t.Fatalf("expected awarded 120, got %v", d.AwardedAmount)
	}
	if f.gateway.calls != 1 {
		t.Fatalf("expected 1 refund call, got %d", f.gateway.calls)
	}
	if d.ResolvedAt == nil {
		t.Fatalf("resolvedAt not set")
	}
	if f.store.paymentStatus != models.PaymentStatusRefunded {
		t.Fatalf("expected payment status refunded, got %q", f.store.paymentStatus)
	}
}

func TestResolvePartialRefundPaymentStatus(t *testing.T) {
	f := newFixture()
	d := f.open(t)

	d, err := f.svc.Resolve(context.Background(), adminID, d.ID, models.DecisionRefundPartial, 50, "split")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if d.Status != models.DisputeStatusRefundPartial {
		t.Fatalf("expected resolved_refund_partial, got %s", d.Status)
	}
	if f.store.paymentStatus != models.PaymentStatusPartiallyRefunded {
		t.Fatalf("expected payment status partially_refunded, got %q", f.store.paymentStatus)
	}

	// a partial award covering the whole gross empties the payment the
	// same way a full refund does
	f = newFixture()
	d = f.open(t)

	d, err = f.svc.Resolve(context.Background(), adminID, d.ID, models.DecisionRefundPartial, 120, "full via partial")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if d.Status != models.DisputeStatusRefundPartial {
		t.Fatalf("expected resolved_refund_partial, got %s", d.Status)
	}
	if f.store.paymentStatus != models.PaymentStatusRefunded {
		t.Fatalf("expected payment status refunded, got %q", f.store.paymentStatus)
	}
}

func TestResolvePartialValidation(t *testing.T) {
	f := newFixture()
	d := f.open(t)

	if _, err := f.svc.Resolve(context.Background(), adminID, d.ID, models.DecisionRefundPartial, 150, ""); !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for amount over gross, got %v", err)
	}
	if _, err := f.svc.Resolve(context.Background(), adminID, d.ID, models.DecisionRefundPartial, 0, ""); !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for zero amount, got %v", err)
	}

	d, err := f.svc.Resolve(context.Background(), adminID, d.ID, models.DecisionRefundPartial, 50, "split")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if d.Status != models.DisputeStatusRefundPartial {
		t.Fatalf("expected resolved_refund_partial, got %s", d.Status)
	}
}

func TestResolveGatewayFailureLeavesPending(t *testing.T) {
	f := newFixture()
	d := f.open(t)
	f.gateway.err = errors.New("provider 503")

	_, err := f.svc.Resolve(context.Background(), adminID, d.ID, models.DecisionRefundFull, 0, "")
	if !errors.Is(err, models.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}

	got, _ := f.store.Get(context.Background(), d.ID)
	if got.Status != models.DisputeStatusOpen {
		t.Fatalf("dispute must stay pending after gateway failure, got %s", got.Status)
	}
	if got.AwardedAmount != nil || got.ResolvedAt != nil {
		t.Fatalf("dispute fields mutated despite failed refund")
	}

	// retry succeeds once the provider recovers
	f.gateway.err = nil
	if _, err := f.svc.Resolve(context.Background(), adminID, d.ID, models.DecisionRefundFull, 0, ""); err != nil {
		t.Fatalf("retry Resolve: %v", err)
	}
}

func TestResolveRequiresAdmin(t *testing.T) {
	f := newFixture()
	d := f.open(t)

	if _, err := f.svc.Resolve(context.Background(), customerID, d.ID, models.DecisionNoRefund, 0, ""); !errors.Is(err, models.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if f.gateway.calls != 0 {
		t.Fatalf("gateway must not be called for denied actor")
	}
}

func TestResolveNoRefundSkipsGateway(t *testing.T) {
	f := newFixture()
	d := f.open(t)

	d, err := f.svc.Resolve(context.Background(), adminID, d.ID, models.DecisionNoRefund, 0, "unfounded")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if d.Status != models.DisputeStatusNoRefund {
		t.Fatalf("expected resolved_no_refund, got %s", d.Status)
	}
	if d.AwardedAmount == nil || *d.AwardedAmount != 0 {
		t.Fatalf("expected awarded 0, got %v", d.AwardedAmount)
	}
	if f.gateway.calls != 0 {
		t.Fatalf("gateway called for zero refund")
	}
}
