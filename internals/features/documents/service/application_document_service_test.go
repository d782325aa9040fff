package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"desaku_backend/internals/features/documents/model"
	"desaku_backend/internals/features/documents/repository"
	notif "desaku_backend/internals/features/notifications/service"
	"desaku_backend/internals/helpers/apperror"
	helperAuth "desaku_backend/internals/helpers/auth"

	"github.com/google/uuid"
)

/* =========================================================
   Fakes
========================================================= */

type fakeRepo struct {
	mu      sync.Mutex
	masters map[uuid.UUID]model.MasterDocumentModel
	apps    map[uuid.UUID]model.ApplicationDocumentModel
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		masters: map[uuid.UUID]model.MasterDocumentModel{},
		apps:    map[uuid.UUID]model.ApplicationDocumentModel{},
	}
}

func (r *fakeRepo) InTx(_ context.Context, fn func(tx repository.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[uuid.UUID]model.ApplicationDocumentModel, len(r.apps))
	for k, v := range r.apps {
		snap[k] = v
	}
	if err := fn(fakeTx{r}); err != nil {
		r.apps = snap
		return err
	}
	return nil
}

func (r *fakeRepo) FindMaster(_ context.Context, id uuid.UUID) (model.MasterDocumentModel, error) {
	m, ok := r.masters[id]
	if !ok {
		return m, apperror.NotFound("Jenis dokumen")
	}
	return m, nil
}

func (r *fakeRepo) FindApplication(_ context.Context, id uuid.UUID) (model.ApplicationDocumentModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fakeTx{r}.LockApplication(id)
}

func (r *fakeRepo) CreateApplication(_ context.Context, m *model.ApplicationDocumentModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ApplicationDocumentID = uuid.New()
	r.apps[m.ApplicationDocumentID] = *m
	return nil
}

type fakeTx struct{ r *fakeRepo }

func (t fakeTx) LockApplication(id uuid.UUID) (model.ApplicationDocumentModel, error) {
	a, ok := t.r.apps[id]
	if !ok {
		return a, apperror.NotFound("Pengajuan dokumen")
	}
	return a, nil
}

func (t fakeTx) UpdateApplication(id uuid.UUID, from string, fields map[string]any) error {
	a, ok := t.r.apps[id]
	if !ok || a.ApplicationDocumentStatus != from {
		return apperror.Conflict("status berubah")
	}
	for k, v := range fields {
		switch k {
		case "application_document_status":
			a.ApplicationDocumentStatus = v.(string)
		case "application_document_admin_note":
			s := v.(string)
			a.ApplicationDocumentAdminNote = &s
		case "application_document_file":
			s := v.(string)
			a.ApplicationDocumentFile = &s
		case "application_document_processed_by":
			u := v.(uuid.UUID)
			a.ApplicationDocumentProcessedBy = &u
		case "application_document_processed_at":
			tm := v.(time.Time)
			a.ApplicationDocumentProcessedAt = &tm
		case "application_document_finished_at":
			tm := v.(time.Time)
			a.ApplicationDocumentFinishedAt = &tm
		}
	}
	t.r.apps[id] = a
	return nil
}

type recNotifier struct {
	mu     sync.Mutex
	events []notif.Event
}

func (n *recNotifier) Dispatch(_ context.Context, ev notif.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

/* =========================================================
   Fixture
========================================================= */

var (
	operator = helperAuth.Actor{UserID: uuid.New(), Role: "operator"}
	citizen  = helperAuth.Actor{UserID: uuid.New(), Role: "citizen"}
)

type fixture struct {
	svc      *DocumentService
	repo     *fakeRepo
	notifier *recNotifier
	master   uuid.UUID
}

func newFixture(notes NotePolicy) *fixture {
	repo := newFakeRepo()
	n := &recNotifier{}
	master := model.MasterDocumentModel{
		MasterDocumentID:       uuid.New(),
		MasterDocumentName:     "Surat Keterangan Domisili",
		MasterDocumentIsActive: true,
	}
	repo.masters[master.MasterDocumentID] = master

	svc := NewDocumentService(repo, n, notes, nil)
	svc.Now = func() time.Time { return time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC) }
	return &fixture{svc: svc, repo: repo, notifier: n, master: master.MasterDocumentID}
}

func strp(s string) *string { return &s }

func (f *fixture) submit(t *testing.T) model.ApplicationDocumentModel {
	t.Helper()
	doc, err := f.svc.Submit(context.Background(), citizen, SubmitInput{
		MasterDocumentID: f.master,
		NIK:              "3201010101010001",
		Name:             "Siti Aminah",
		Email:            strp("siti@example.com"),
		Reason:           "Syarat melamar kerja",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if doc.ApplicationDocumentStatus != model.ApplicationPending {
		t.Fatalf("status = %q, want pending", doc.ApplicationDocumentStatus)
	}
	return doc
}

func (f *fixture) stored(t *testing.T, id uuid.UUID) model.ApplicationDocumentModel {
	t.Helper()
	doc, err := f.repo.FindApplication(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

/* =========================================================
   Tests
========================================================= */

func TestRejectPendingWithNoteBuildsPayload(t *testing.T) {
	f := newFixture(NotePolicy{OnReject: true, OnComplete: true})
	ctx := context.Background()
	doc := f.submit(t)

	got, err := f.svc.Reject(ctx, operator, doc.ApplicationDocumentID, strp("incomplete"))
	if err != nil {
		t.Fatal(err)
	}
	if got.ApplicationDocumentStatus != model.ApplicationRejected {
		t.Fatalf("status = %q", got.ApplicationDocumentStatus)
	}
	if s := f.stored(t, doc.ApplicationDocumentID); s.ApplicationDocumentFile != nil || s.ApplicationDocumentFinishedAt == nil {
		t.Fatalf("stored row: file=%v finished=%v", s.ApplicationDocumentFile, s.ApplicationDocumentFinishedAt)
	}

	if len(f.notifier.events) != 1 {
		t.Fatalf("events = %d, want 1", len(f.notifier.events))
	}
	p, ok := notif.Decide(f.notifier.events[0])
	if !ok {
		t.Fatal("rejection must produce a notification")
	}
	if p.TemplateKey != notif.TemplateDocumentRejected || p.Recipient != "siti@example.com" {
		t.Fatalf("payload = %+v", p)
	}
	if p.Variables[notif.MetaAdminNote] != "incomplete" || p.Variables["old_status"] != model.ApplicationPending {
		t.Fatalf("variables = %v", p.Variables)
	}
	if p.Variables["document_name"] != "Surat Keterangan Domisili" {
		t.Fatalf("document_name = %q", p.Variables["document_name"])
	}
}

func TestCompleteWithoutFileRejected(t *testing.T) {
	f := newFixture(NotePolicy{})
	ctx := context.Background()
	doc := f.submit(t)
	if _, err := f.svc.Process(ctx, operator, doc.ApplicationDocumentID); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.Complete(ctx, operator, doc.ApplicationDocumentID, "  ", strp("sudah jadi"))
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if s := f.stored(t, doc.ApplicationDocumentID); s.ApplicationDocumentStatus != model.ApplicationOnProccess {
		t.Fatalf("status changed to %q", s.ApplicationDocumentStatus)
	}
	if len(f.notifier.events) != 0 {
		t.Fatalf("no notification expected, got %d", len(f.notifier.events))
	}
}

func TestCompleteAttachesFileAndNotifies(t *testing.T) {
	f := newFixture(NotePolicy{OnComplete: true})
	ctx := context.Background()
	doc := f.submit(t)
	if _, err := f.svc.Process(ctx, operator, doc.ApplicationDocumentID); err != nil {
		t.Fatal(err)
	}

	const file = "/uploads/documents/results/skd.pdf"
	got, err := f.svc.Complete(ctx, operator, doc.ApplicationDocumentID, file, strp("ambil di kantor desa"))
	if err != nil {
		t.Fatal(err)
	}
	if got.ApplicationDocumentFile == nil || *got.ApplicationDocumentFile != file {
		t.Fatalf("file = %v", got.ApplicationDocumentFile)
	}
	s := f.stored(t, doc.ApplicationDocumentID)
	if s.ApplicationDocumentStatus != model.ApplicationCompleted || s.ApplicationDocumentFile == nil {
		t.Fatalf("stored = %+v", s)
	}

	p, ok := notif.Decide(f.notifier.events[len(f.notifier.events)-1])
	if !ok || p.TemplateKey != notif.TemplateDocumentCompleted {
		t.Fatalf("payload = %+v ok=%v", p, ok)
	}
	if p.Variables["file"] != file || p.Variables[notif.MetaAdminNote] != "ambil di kantor desa" {
		t.Fatalf("variables = %v", p.Variables)
	}
}

func TestAdminNoteFollowsPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("required", func(t *testing.T) {
		f := newFixture(NotePolicy{OnReject: true, OnComplete: true})
		doc := f.submit(t)
		if _, err := f.svc.Reject(ctx, operator, doc.ApplicationDocumentID, strp("   ")); !errors.Is(err, apperror.ErrValidation) {
			t.Fatalf("reject without note: %v", err)
		}
		if _, err := f.svc.Process(ctx, operator, doc.ApplicationDocumentID); err != nil {
			t.Fatal(err)
		}
		if _, err := f.svc.Complete(ctx, operator, doc.ApplicationDocumentID, "f.pdf", nil); !errors.Is(err, apperror.ErrValidation) {
			t.Fatalf("complete without note: %v", err)
		}
	})

	t.Run("optional", func(t *testing.T) {
		f := newFixture(NotePolicy{})
		doc := f.submit(t)
		got, err := f.svc.Reject(ctx, operator, doc.ApplicationDocumentID, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got.ApplicationDocumentAdminNote != nil {
			t.Fatalf("note = %v", *got.ApplicationDocumentAdminNote)
		}
		p, ok := notif.Decide(f.notifier.events[0])
		if !ok || p.Variables[notif.MetaAdminNote] != "" {
			t.Fatalf("payload = %+v ok=%v", p, ok)
		}
	})
}

func TestApplicationInvalidTransitions(t *testing.T) {
	f := newFixture(NotePolicy{})
	ctx := context.Background()

	pending := f.submit(t)
	if _, err := f.svc.Complete(ctx, operator, pending.ApplicationDocumentID, "f.pdf", nil); !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Fatalf("pending → completed: %v", err)
	}

	done := f.submit(t)
	if _, err := f.svc.Process(ctx, operator, done.ApplicationDocumentID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Process(ctx, operator, done.ApplicationDocumentID); !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Fatalf("on_proccess → on_proccess: %v", err)
	}
	if _, err := f.svc.Complete(ctx, operator, done.ApplicationDocumentID, "f.pdf", nil); err != nil {
		t.Fatal(err)
	}
	for name, call := range map[string]func() error{
		"reject":   func() error { _, err := f.svc.Reject(ctx, operator, done.ApplicationDocumentID, nil); return err },
		"process":  func() error { _, err := f.svc.Process(ctx, operator, done.ApplicationDocumentID); return err },
		"complete": func() error { _, err := f.svc.Complete(ctx, operator, done.ApplicationDocumentID, "g.pdf", nil); return err },
	} {
		if err := call(); !errors.Is(err, apperror.ErrInvalidTransition) {
			t.Errorf("completed → %s: %v", name, err)
		}
	}
	if s := f.stored(t, done.ApplicationDocumentID); *s.ApplicationDocumentFile != "f.pdf" {
		t.Fatalf("terminal row mutated: %+v", s)
	}
}

func TestApplicationTransitionsRequireStaff(t *testing.T) {
	f := newFixture(NotePolicy{})
	ctx := context.Background()
	doc := f.submit(t)

	if _, err := f.svc.Process(ctx, citizen, doc.ApplicationDocumentID); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("citizen process: %v", err)
	}
	if _, err := f.svc.Reject(ctx, helperAuth.Actor{}, doc.ApplicationDocumentID, strp("x")); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("anonymous reject: %v", err)
	}
	if s := f.stored(t, doc.ApplicationDocumentID); s.ApplicationDocumentStatus != model.ApplicationPending {
		t.Fatalf("status = %q", s.ApplicationDocumentStatus)
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(NotePolicy{})
	ctx := context.Background()

	inactive := model.MasterDocumentModel{MasterDocumentID: uuid.New(), MasterDocumentName: "Lama"}
	f.repo.masters[inactive.MasterDocumentID] = inactive

	base := SubmitInput{MasterDocumentID: f.master, NIK: "3201010101010001", Name: "Budi", Reason: "Keperluan"}
	cases := map[string]func(in *SubmitInput){
		"short nik":    func(in *SubmitInput) { in.NIK = "320101" },
		"letters nik":  func(in *SubmitInput) { in.NIK = strings.Repeat("a", 16) },
		"no name":      func(in *SubmitInput) { in.Name = " " },
		"no reason":    func(in *SubmitInput) { in.Reason = "" },
		"inactive doc": func(in *SubmitInput) { in.MasterDocumentID = inactive.MasterDocumentID },
	}
	for name, mutate := range cases {
		in := base
		mutate(&in)
		if _, err := f.svc.Submit(ctx, citizen, in); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("%s: want validation error, got %v", name, err)
		}
	}

	in := base
	in.MasterDocumentID = uuid.New()
	if _, err := f.svc.Submit(ctx, citizen, in); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown master: %v", err)
	}
	if len(f.repo.apps) != 0 {
		t.Fatalf("rows created: %d", len(f.repo.apps))
	}
}
