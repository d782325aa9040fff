package service

import (
	"context"
	"strings"
	"time"

	"desaku_backend/internals/constants"
	"desaku_backend/internals/features/documents/model"
	"desaku_backend/internals/features/documents/repository"
	notif "desaku_backend/internals/features/notifications/service"
	helper "desaku_backend/internals/helpers"
	"desaku_backend/internals/helpers/apperror"
	helperAuth "desaku_backend/internals/helpers/auth"
	"desaku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotePolicy: kapan admin_note wajib diisi. Diambil dari DOCUMENT_REQUIRE_NOTE_ON_*.
type NotePolicy struct {
	OnReject   bool
	OnComplete bool
}

// DocumentService: mesin status pengajuan surat.
type DocumentService struct {
	Repo   repository.Repository
	Notify notif.Notifier
	Notes  NotePolicy
	Log    *zap.Logger
	Now    func() time.Time
}

func NewDocumentService(repo repository.Repository, notify notif.Notifier, notes NotePolicy, log *zap.Logger) *DocumentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DocumentService{Repo: repo, Notify: notify, Notes: notes, Log: log.Named("application_document"), Now: dbtime.Now}
}

type SubmitInput struct {
	MasterDocumentID uuid.UUID
	NIK              string
	Name             string
	Email            *string
	Reason           string
	CitizenNote      *string
}

// Submit membuat pengajuan berstatus pending.
func (s *DocumentService) Submit(ctx context.Context, actor helperAuth.Actor, in SubmitInput) (model.ApplicationDocumentModel, error) {
	if actor.IsZero() {
		return model.ApplicationDocumentModel{}, apperror.Forbidden("pemohon tidak dikenal")
	}
	in.NIK = strings.TrimSpace(in.NIK)
	in.Name = strings.TrimSpace(in.Name)
	in.Reason = strings.TrimSpace(in.Reason)
	if !helper.IsNIK(in.NIK) {
		return model.ApplicationDocumentModel{}, apperror.ValidationField("application_document_applicant_nik", "NIK harus 16 digit angka")
	}
	if in.Name == "" {
		return model.ApplicationDocumentModel{}, apperror.ValidationField("application_document_applicant_name", "nama pemohon wajib diisi")
	}
	if in.Reason == "" {
		return model.ApplicationDocumentModel{}, apperror.ValidationField("application_document_reason", "keperluan wajib diisi")
	}
	if in.Email != nil {
		e := strings.TrimSpace(*in.Email)
		if e == "" {
			in.Email = nil
		} else {
			in.Email = &e
		}
	}

	master, err := s.Repo.FindMaster(ctx, in.MasterDocumentID)
	if err != nil {
		return model.ApplicationDocumentModel{}, err
	}
	if !master.MasterDocumentIsActive {
		return model.ApplicationDocumentModel{}, apperror.ValidationField("application_document_master_document_id", "jenis dokumen tidak aktif")
	}

	by := actor.UserID
	m := model.ApplicationDocumentModel{
		ApplicationDocumentMasterDocumentID: master.MasterDocumentID,
		ApplicationDocumentApplicantNIK:     in.NIK,
		ApplicationDocumentApplicantName:    in.Name,
		ApplicationDocumentApplicantEmail:   in.Email,
		ApplicationDocumentStatus:           model.ApplicationPending,
		ApplicationDocumentReason:           in.Reason,
		ApplicationDocumentCitizenNote:      in.CitizenNote,
		ApplicationDocumentSubmittedBy:      &by,
	}
	if err := s.Repo.CreateApplication(ctx, &m); err != nil {
		return model.ApplicationDocumentModel{}, err
	}
	return m, nil
}

// Process: pending → on_proccess. Hanya admin/perangkat desa.
func (s *DocumentService) Process(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) (model.ApplicationDocumentModel, error) {
	if err := requireStaff(actor); err != nil {
		return model.ApplicationDocumentModel{}, err
	}
	doc, _, err := s.move(ctx, actor, id, model.ApplicationOnProccess, nil, nil)
	return doc, err
}

// Complete: on_proccess → completed. File hasil wajib ada di operasi yang sama.
func (s *DocumentService) Complete(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, file string, adminNote *string) (model.ApplicationDocumentModel, error) {
	if err := requireStaff(actor); err != nil {
		return model.ApplicationDocumentModel{}, err
	}
	file = strings.TrimSpace(file)
	if file == "" {
		return model.ApplicationDocumentModel{}, apperror.ValidationField("application_document_file", "file dokumen wajib dilampirkan")
	}
	note, err := normalizeNote(adminNote, s.Notes.OnComplete)
	if err != nil {
		return model.ApplicationDocumentModel{}, err
	}

	doc, from, err := s.move(ctx, actor, id, model.ApplicationCompleted, note, map[string]any{
		"application_document_file": file,
	})
	if err != nil {
		return model.ApplicationDocumentModel{}, err
	}
	doc.ApplicationDocumentFile = &file
	s.notify(ctx, doc, from)
	return doc, nil
}

// Reject: pending | on_proccess → rejected.
func (s *DocumentService) Reject(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, adminNote *string) (model.ApplicationDocumentModel, error) {
	if err := requireStaff(actor); err != nil {
		return model.ApplicationDocumentModel{}, err
	}
	note, err := normalizeNote(adminNote, s.Notes.OnReject)
	if err != nil {
		return model.ApplicationDocumentModel{}, err
	}

	doc, from, err := s.move(ctx, actor, id, model.ApplicationRejected, note, nil)
	if err != nil {
		return model.ApplicationDocumentModel{}, err
	}
	s.notify(ctx, doc, from)
	return doc, nil
}

// move mengunci pengajuan, memeriksa tabel transisi, lalu menulis status baru.
// Mengembalikan status asal untuk keperluan notifikasi.
func (s *DocumentService) move(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, to string, note *string, extra map[string]any) (model.ApplicationDocumentModel, string, error) {
	now := s.Now()
	var (
		doc  model.ApplicationDocumentModel
		from string
	)
	err := s.Repo.InTx(ctx, func(tx repository.Tx) error {
		var err error
		if doc, err = tx.LockApplication(id); err != nil {
			return err
		}
		from = doc.ApplicationDocumentStatus
		if !model.CanTransition(from, to) {
			return apperror.InvalidTransition(from, to)
		}

		by := actor.UserID
		fields := map[string]any{
			"application_document_status":       to,
			"application_document_processed_by": by,
		}
		for k, v := range extra {
			fields[k] = v
		}
		if note != nil {
			fields["application_document_admin_note"] = *note
			doc.ApplicationDocumentAdminNote = note
		}
		if to == model.ApplicationOnProccess {
			fields["application_document_processed_at"] = now
			doc.ApplicationDocumentProcessedAt = &now
		}
		if model.IsTerminal(to) {
			fields["application_document_finished_at"] = now
			doc.ApplicationDocumentFinishedAt = &now
		}
		if err := tx.UpdateApplication(doc.ApplicationDocumentID, from, fields); err != nil {
			return err
		}
		doc.ApplicationDocumentStatus = to
		doc.ApplicationDocumentProcessedBy = &by
		return nil
	})
	if err != nil {
		return model.ApplicationDocumentModel{}, "", err
	}
	return doc, from, nil
}

func requireStaff(actor helperAuth.Actor) error {
	if actor.IsZero() {
		return apperror.Forbidden("petugas tidak dikenal")
	}
	for _, r := range constants.StaffRoles {
		if actor.Role == r {
			return nil
		}
	}
	return apperror.Forbidden("%s", constants.RoleErrorStaff("pengajuan dokumen"))
}

// normalizeNote: catatan kosong dianggap tidak ada.
func normalizeNote(note *string, required bool) (*string, error) {
	if note != nil {
		n := strings.TrimSpace(*note)
		if n != "" {
			return &n, nil
		}
	}
	if required {
		return nil, apperror.ValidationField("application_document_admin_note", "catatan admin wajib diisi")
	}
	return nil, nil
}

// Event untuk Dispatcher; nama dokumen diambil dari master bila masih ada.
func (s *DocumentService) Event(ctx context.Context, doc model.ApplicationDocumentModel, from string) notif.Event {
	meta := map[string]string{
		notif.MetaRecipientName: doc.ApplicationDocumentApplicantName,
		"applicant_nik":         doc.ApplicationDocumentApplicantNIK,
	}
	if doc.ApplicationDocumentApplicantEmail != nil {
		meta[notif.MetaRecipientEmail] = *doc.ApplicationDocumentApplicantEmail
	}
	if doc.ApplicationDocumentAdminNote != nil {
		meta[notif.MetaAdminNote] = *doc.ApplicationDocumentAdminNote
	}
	if doc.ApplicationDocumentFile != nil {
		meta["file"] = *doc.ApplicationDocumentFile
	}
	if m, err := s.Repo.FindMaster(ctx, doc.ApplicationDocumentMasterDocumentID); err == nil {
		meta["document_name"] = m.MasterDocumentName
	} else {
		s.Log.Warn("master document lookup", zap.String("application", doc.ApplicationDocumentID.String()), zap.Error(err))
	}
	return notif.Event{
		EntityType: notif.EntityApplicationDocument,
		EntityID:   doc.ApplicationDocumentID.String(),
		OldStatus:  from,
		NewStatus:  doc.ApplicationDocumentStatus,
		Metadata:   meta,
	}
}

// notify dipanggil setelah commit; kegagalan kirim tidak membatalkan transisi.
func (s *DocumentService) notify(ctx context.Context, doc model.ApplicationDocumentModel, from string) {
	if s.Notify == nil {
		return
	}
	s.Notify.Dispatch(ctx, s.Event(ctx, doc, from))
}
