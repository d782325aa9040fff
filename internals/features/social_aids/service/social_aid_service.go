package service

import (
	"context"
	"strings"
	"time"

	"desaku_backend/internals/features/social_aids/model"
	"desaku_backend/internals/features/social_aids/repository"
	"desaku_backend/internals/helpers/apperror"
	helperAuth "desaku_backend/internals/helpers/auth"
	"desaku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

type RecipientService struct {
	Repo repository.Repository
	Now  func() time.Time
}

func NewRecipientService(repo repository.Repository) *RecipientService {
	return &RecipientService{Repo: repo, Now: dbtime.Now}
}

// CheckTarget: individual → citizen saja, household → family saja, public → keduanya kosong.
func CheckTarget(programType string, citizenID, familyID *uuid.UUID) error {
	hasCitizen := citizenID != nil && *citizenID != uuid.Nil
	hasFamily := familyID != nil && *familyID != uuid.Nil
	switch programType {
	case model.ProgramIndividual:
		if !hasCitizen || hasFamily {
			return apperror.ValidationField("social_aid_recipient_citizen_id", "program perorangan wajib menunjuk satu warga")
		}
	case model.ProgramHousehold:
		if !hasFamily || hasCitizen {
			return apperror.ValidationField("social_aid_recipient_family_id", "program rumah tangga wajib menunjuk satu KK")
		}
	case model.ProgramPublic:
		if hasCitizen || hasFamily {
			return apperror.ValidationField("social_aid_recipient_citizen_id", "program umum tidak memiliki penerima perorangan")
		}
	default:
		return apperror.ValidationField("social_aid_program_type", "jenis program tidak dikenal")
	}
	return nil
}

type AddInput struct {
	CitizenID *uuid.UUID
	FamilyID  *uuid.UUID
	Note      *string
}

// Add mendaftarkan penerima dengan status awal not_collected.
func (s *RecipientService) Add(ctx context.Context, actor helperAuth.Actor, programID uuid.UUID, in AddInput) (model.SocialAidRecipientModel, error) {
	if actor.IsZero() {
		return model.SocialAidRecipientModel{}, apperror.Forbidden("petugas tidak dikenal")
	}
	prog, err := s.Repo.FindProgram(ctx, programID)
	if err != nil {
		return model.SocialAidRecipientModel{}, err
	}
	if err := CheckTarget(prog.SocialAidProgramType, in.CitizenID, in.FamilyID); err != nil {
		return model.SocialAidRecipientModel{}, err
	}
	ok, err := s.Repo.TargetExists(ctx, in.CitizenID, in.FamilyID)
	if err != nil {
		return model.SocialAidRecipientModel{}, err
	}
	if !ok {
		return model.SocialAidRecipientModel{}, apperror.NotFound("Penerima (warga/KK)")
	}
	dup, err := s.Repo.Registered(ctx, programID, in.CitizenID, in.FamilyID)
	if err != nil {
		return model.SocialAidRecipientModel{}, err
	}
	if dup {
		return model.SocialAidRecipientModel{}, apperror.Validation("penerima sudah terdaftar di program ini")
	}

	by := actor.UserID
	m := model.SocialAidRecipientModel{
		SocialAidRecipientProgramID:   programID,
		SocialAidRecipientCitizenID:   in.CitizenID,
		SocialAidRecipientFamilyID:    in.FamilyID,
		SocialAidRecipientStatus:      model.RecipientNotCollected,
		SocialAidRecipientNote:        trimNote(in.Note),
		SocialAidRecipientPerformedBy: &by,
	}
	if err := s.Repo.CreateRecipient(ctx, &m); err != nil {
		return model.SocialAidRecipientModel{}, err
	}
	return m, nil
}

func (s *RecipientService) MarkCollected(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, note *string) (model.SocialAidRecipientModel, error) {
	return s.mark(ctx, actor, id, model.RecipientCollected, note)
}

func (s *RecipientService) MarkNotCollected(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, note *string) (model.SocialAidRecipientModel, error) {
	return s.mark(ctx, actor, id, model.RecipientNotCollected, note)
}

// mark: kedua arah diperbolehkan (koreksi petugas). collected_at ikut status.
func (s *RecipientService) mark(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, status string, note *string) (model.SocialAidRecipientModel, error) {
	if actor.IsZero() {
		return model.SocialAidRecipientModel{}, apperror.Forbidden("petugas tidak dikenal")
	}
	now := s.Now()
	return s.Repo.SaveStatus(ctx, id, func(r *model.SocialAidRecipientModel) error {
		by := actor.UserID
		r.SocialAidRecipientStatus = status
		r.SocialAidRecipientPerformedBy = &by
		if n := trimNote(note); n != nil {
			r.SocialAidRecipientNote = n
		}
		if status == model.RecipientCollected {
			if r.SocialAidRecipientCollectedAt == nil {
				r.SocialAidRecipientCollectedAt = &now
			}
		} else {
			r.SocialAidRecipientCollectedAt = nil
		}
		return nil
	})
}

func trimNote(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}
