package dto

import (
	"errors"
	"testing"

	"desaku_backend/internals/features/population/model"
	helper "desaku_backend/internals/helpers"
	"desaku_backend/internals/helpers/apperror"

	"github.com/google/uuid"
)

func strp(s string) *string { return &s }

func TestCreateCitizenValidation(t *testing.T) {
	ok := CreateCitizenRequest{NIK: "3201010101010001", Name: "Budi", Gender: model.GenderMale}
	if err := helper.ValidateStruct(ok); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := []CreateCitizenRequest{
		{NIK: "320101", Name: "Budi", Gender: model.GenderMale},
		{NIK: "3201010101010001", Name: "Budi", Gender: "x"},
		{NIK: "3201010101010001", Name: "B", Gender: model.GenderFemale},
		{NIK: "3201010101010001", Name: "Budi", Gender: model.GenderMale, Email: strp("bukan-email")},
	}
	for i, r := range bad {
		if err := helper.ValidateStruct(r); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("case %d: want validation error, got %v", i, err)
		}
	}
}

func TestCreateCitizenToModelParsesBirthDate(t *testing.T) {
	r := CreateCitizenRequest{NIK: " 3201010101010001 ", Name: " Siti ", Gender: model.GenderFemale, BirthDate: strp("1990-05-17")}
	m, err := r.ToModel()
	if err != nil {
		t.Fatal(err)
	}
	if m.CitizenNIK != "3201010101010001" || m.CitizenName != "Siti" {
		t.Fatalf("not trimmed: %+v", m)
	}
	if m.CitizenBirthDate == nil || m.CitizenBirthDate.Year() != 1990 {
		t.Fatalf("birth date = %v", m.CitizenBirthDate)
	}

	r.BirthDate = strp("17/05/1990")
	if _, err := r.ToModel(); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("bad date: %v", err)
	}
}

func TestUpdateCitizenApply(t *testing.T) {
	fid := uuid.New()
	m := model.CitizenModel{CitizenName: "Lama", CitizenFamilyID: &fid}

	if err := (UpdateCitizenRequest{Name: strp("Baru")}).Apply(&m); err != nil {
		t.Fatal(err)
	}
	if m.CitizenName != "Baru" || m.CitizenFamilyID == nil {
		t.Fatalf("patch touched other fields: %+v", m)
	}

	nilID := uuid.Nil
	if err := (UpdateCitizenRequest{FamilyID: &nilID}).Apply(&m); err != nil {
		t.Fatal(err)
	}
	if m.CitizenFamilyID != nil {
		t.Fatal("nil uuid should detach family")
	}
}

func TestFamilyValidation(t *testing.T) {
	if err := helper.ValidateStruct(CreateFamilyRequest{NoKK: "3201010101010002", HeadNIK: "3201010101010001", Address: "Dusun I"}); err != nil {
		t.Fatalf("valid family rejected: %v", err)
	}
	if err := helper.ValidateStruct(CreateFamilyRequest{NoKK: "12", HeadNIK: "3201010101010001", Address: "x"}); err == nil {
		t.Fatal("short no_kk accepted")
	}
	if err := helper.ValidateStruct(CreateFamilyRequest{NoKK: "3201010101010002", HeadNIK: "3201010101010001", Address: "x", RT: strp("ab")}); err == nil {
		t.Fatal("non-numeric RT accepted")
	}
}
