package dto

import (
	"errors"
	"testing"

	helper "desaku_backend/internals/helpers"
	"desaku_backend/internals/helpers/apperror"

	"github.com/google/uuid"
)

func TestCleanRequirements(t *testing.T) {
	got := CleanRequirements([]string{" Fotokopi KTP ", "", "fotokopi ktp", "Surat pengantar RT", "  "})
	want := []string{"Fotokopi KTP", "Surat pengantar RT"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if CleanRequirements(nil) == nil {
		t.Fatal("nil input must give empty array for NOT NULL column")
	}
}

func TestMasterDocumentApply(t *testing.T) {
	m := CreateMasterDocumentRequest{Name: " SKTM "}.ToModel()
	if m.MasterDocumentName != "SKTM" || !m.MasterDocumentIsActive {
		t.Fatalf("ToModel = %+v", m)
	}

	same := "SKTM"
	if (UpdateMasterDocumentRequest{Name: &same}).Apply(&m) {
		t.Fatal("unchanged name reported as rename")
	}
	off := false
	renamed := UpdateMasterDocumentRequest{
		Name:         strp("Surat Keterangan Tidak Mampu"),
		Requirements: &[]string{"KK"},
		IsActive:     &off,
	}.Apply(&m)
	if !renamed || m.MasterDocumentIsActive || len(m.MasterDocumentRequirements) != 1 {
		t.Fatalf("Apply = %+v renamed=%v", m, renamed)
	}
}

func strp(s string) *string { return &s }

func TestSubmitApplicationValidation(t *testing.T) {
	ok := SubmitApplicationRequest{MasterDocumentID: uuid.New(), Reason: "Beasiswa"}
	if err := helper.ValidateStruct(ok); err != nil {
		t.Fatalf("NIK is optional for account holders: %v", err)
	}
	bad := ok
	bad.NIK = "12345"
	if err := helper.ValidateStruct(bad); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("short NIK: %v", err)
	}
	bad = ok
	bad.Email = strp("bukan-email")
	if err := helper.ValidateStruct(bad); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("bad email: %v", err)
	}
}
