package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"desaku_backend/internals/features/social_aids/model"
	"desaku_backend/internals/helpers/apperror"
	helperAuth "desaku_backend/internals/helpers/auth"

	"github.com/google/uuid"
)

type fakeRepo struct {
	programs   map[uuid.UUID]model.SocialAidProgramModel
	recipients map[uuid.UUID]model.SocialAidRecipientModel
	targets    map[uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		programs:   map[uuid.UUID]model.SocialAidProgramModel{},
		recipients: map[uuid.UUID]model.SocialAidRecipientModel{},
		targets:    map[uuid.UUID]bool{},
	}
}

func (r *fakeRepo) FindProgram(_ context.Context, id uuid.UUID) (model.SocialAidProgramModel, error) {
	p, ok := r.programs[id]
	if !ok {
		return p, apperror.NotFound("Program bantuan")
	}
	return p, nil
}

func (r *fakeRepo) FindRecipient(_ context.Context, id uuid.UUID) (model.SocialAidRecipientModel, error) {
	m, ok := r.recipients[id]
	if !ok {
		return m, apperror.NotFound("Penerima bantuan")
	}
	return m, nil
}

func (r *fakeRepo) TargetExists(_ context.Context, citizenID, familyID *uuid.UUID) (bool, error) {
	switch {
	case citizenID != nil:
		return r.targets[*citizenID], nil
	case familyID != nil:
		return r.targets[*familyID], nil
	}
	return true, nil
}

func (r *fakeRepo) Registered(_ context.Context, programID uuid.UUID, citizenID, familyID *uuid.UUID) (bool, error) {
	for _, m := range r.recipients {
		if m.SocialAidRecipientProgramID != programID {
			continue
		}
		if citizenID != nil && m.SocialAidRecipientCitizenID != nil && *m.SocialAidRecipientCitizenID == *citizenID {
			return true, nil
		}
		if familyID != nil && m.SocialAidRecipientFamilyID != nil && *m.SocialAidRecipientFamilyID == *familyID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) CreateRecipient(_ context.Context, m *model.SocialAidRecipientModel) error {
	m.SocialAidRecipientID = uuid.New()
	r.recipients[m.SocialAidRecipientID] = *m
	return nil
}

func (r *fakeRepo) SaveStatus(_ context.Context, id uuid.UUID, fn func(*model.SocialAidRecipientModel) error) (model.SocialAidRecipientModel, error) {
	m, ok := r.recipients[id]
	if !ok {
		return m, apperror.NotFound("Penerima bantuan")
	}
	if err := fn(&m); err != nil {
		return model.SocialAidRecipientModel{}, err
	}
	r.recipients[id] = m
	return m, nil
}

var officer = helperAuth.Actor{UserID: uuid.New(), Role: "operator"}

func idp(id uuid.UUID) *uuid.UUID { return &id }

func TestCheckTarget(t *testing.T) {
	c, f := idp(uuid.New()), idp(uuid.New())
	nilID := idp(uuid.Nil)
	cases := []struct {
		name     string
		typ      string
		cit, fam *uuid.UUID
		ok       bool
	}{
		{"individual citizen", model.ProgramIndividual, c, nil, true},
		{"individual family", model.ProgramIndividual, nil, f, false},
		{"individual both", model.ProgramIndividual, c, f, false},
		{"individual none", model.ProgramIndividual, nil, nil, false},
		{"household family", model.ProgramHousehold, nil, f, true},
		{"household citizen", model.ProgramHousehold, c, nil, false},
		{"household nil uuid", model.ProgramHousehold, nil, nilID, false},
		{"public none", model.ProgramPublic, nil, nil, true},
		{"public nil uuid", model.ProgramPublic, nilID, nil, true},
		{"public citizen", model.ProgramPublic, c, nil, false},
		{"unknown type", "lainnya", c, nil, false},
	}
	for _, tc := range cases {
		err := CheckTarget(tc.typ, tc.cit, tc.fam)
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("%s: want validation error, got %v", tc.name, err)
		}
	}
}

func setup(typ string) (*RecipientService, *fakeRepo, uuid.UUID) {
	repo := newFakeRepo()
	prog := model.SocialAidProgramModel{SocialAidProgramID: uuid.New(), SocialAidProgramName: "BLT Dana Desa", SocialAidProgramType: typ}
	repo.programs[prog.SocialAidProgramID] = prog
	svc := NewRecipientService(repo)
	svc.Now = func() time.Time { return time.Date(2025, 4, 10, 8, 0, 0, 0, time.UTC) }
	return svc, repo, prog.SocialAidProgramID
}

func TestAddRecipient(t *testing.T) {
	ctx := context.Background()
	svc, repo, prog := setup(model.ProgramIndividual)
	citizen := uuid.New()
	repo.targets[citizen] = true

	r, err := svc.Add(ctx, officer, prog, AddInput{CitizenID: &citizen})
	if err != nil {
		t.Fatal(err)
	}
	if r.SocialAidRecipientStatus != model.RecipientNotCollected || r.SocialAidRecipientCollectedAt != nil {
		t.Fatalf("initial state = %+v", r)
	}
	if _, err := svc.Add(ctx, officer, prog, AddInput{CitizenID: &citizen}); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("duplicate: %v", err)
	}
	ghost := uuid.New()
	if _, err := svc.Add(ctx, officer, prog, AddInput{CitizenID: &ghost}); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("unknown citizen: %v", err)
	}
	if _, err := svc.Add(ctx, helperAuth.Actor{}, prog, AddInput{CitizenID: &citizen}); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("anonymous: %v", err)
	}
}

func TestCollectedAtFollowsStatus(t *testing.T) {
	ctx := context.Background()
	svc, repo, prog := setup(model.ProgramHousehold)
	fam := uuid.New()
	repo.targets[fam] = true
	r, err := svc.Add(ctx, officer, prog, AddInput{FamilyID: &fam})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.MarkCollected(ctx, officer, r.SocialAidRecipientID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.SocialAidRecipientStatus != model.RecipientCollected || got.SocialAidRecipientCollectedAt == nil {
		t.Fatalf("collected = %+v", got)
	}
	if got.SocialAidRecipientPerformedBy == nil || *got.SocialAidRecipientPerformedBy != officer.UserID {
		t.Fatalf("performed_by = %v", got.SocialAidRecipientPerformedBy)
	}
	first := *got.SocialAidRecipientCollectedAt

	svc.Now = func() time.Time { return first.Add(time.Hour) }
	again, err := svc.MarkCollected(ctx, officer, r.SocialAidRecipientID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !again.SocialAidRecipientCollectedAt.Equal(first) {
		t.Fatalf("re-marking moved collected_at to %v", again.SocialAidRecipientCollectedAt)
	}

	undo, err := svc.MarkNotCollected(ctx, officer, r.SocialAidRecipientID, strp("salah input"))
	if err != nil {
		t.Fatal(err)
	}
	if undo.SocialAidRecipientStatus != model.RecipientNotCollected || undo.SocialAidRecipientCollectedAt != nil {
		t.Fatalf("not collected = %+v", undo)
	}
	if undo.SocialAidRecipientNote == nil || *undo.SocialAidRecipientNote != "salah input" {
		t.Fatalf("note = %v", undo.SocialAidRecipientNote)
	}

	if _, err := svc.MarkCollected(ctx, officer, uuid.New(), nil); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("unknown recipient: %v", err)
	}
}

func strp(s string) *string { return &s }
