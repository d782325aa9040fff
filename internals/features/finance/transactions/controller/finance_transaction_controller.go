package controller

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"desaku_backend/internals/features/finance/transactions/dto"
	"desaku_backend/internals/features/finance/transactions/repository"
	"desaku_backend/internals/features/finance/transactions/service"
	helper "desaku_backend/internals/helpers"
	"desaku_backend/internals/helpers/apperror"
	helperAuth "desaku_backend/internals/helpers/auth"
	"desaku_backend/internals/helpers/dbtime"
	"desaku_backend/internals/helpers/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const proofDir = "finance/proofs"

type FinanceController struct {
	DB    *gorm.DB
	Svc   *service.LedgerService
	Store storage.FileStore
}

func NewFinanceController(db *gorm.DB, svc *service.LedgerService, store storage.FileStore) *FinanceController {
	return &FinanceController{DB: db, Svc: svc, Store: store}
}

/* ===================== helpers ===================== */

func ledgerParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("ledger_id")))
	if err != nil {
		return uuid.Nil, apperror.ValidationField("ledger_id", "ledger_id tidak valid")
	}
	return id, nil
}

func txParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Params("id")), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationField("id", "id transaksi tidak valid")
	}
	return id, nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(string(c.Request().Header.ContentType())), fiber.MIMEMultipartForm)
}

func optForm(c *fiber.Ctx, key string) *string {
	v := strings.TrimSpace(c.FormValue(key))
	if v == "" {
		return nil
	}
	return &v
}

// bodyError: error Amount.UnmarshalJSON tetap 422, selain itu 400.
func bodyError(c *fiber.Ctx, err error) error {
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return helper.FromError(c, ae)
	}
	return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
}

// storeProof menyimpan proof_image bila ada. nil berarti tidak ada file.
func (fc *FinanceController) storeProof(c *fiber.Ctx) (*string, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile("finance_transaction_proof_image")
	if err != nil || fh == nil {
		return nil, nil
	}
	ref, err := fc.Store.Store(c.UserContext(), proofDir, fh)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (fc *FinanceController) discard(c *fiber.Ctx, ref *string) {
	if ref == nil {
		return
	}
	if err := fc.Store.Delete(c.UserContext(), *ref); err != nil {
		zap.L().Warn("hapus bukti gagal", zap.String("ref", *ref), zap.Error(err))
	}
}

/* ===================== ledgers ===================== */

// GET /api/a/finance/ledgers
func (fc *FinanceController) ListLedgers(c *fiber.Ctx) error {
	rows, err := repository.ListLedgers(c.UserContext(), fc.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Daftar buku kas", rows)
}

// POST /api/a/finance/ledgers
func (fc *FinanceController) CreateLedger(c *fiber.Ctx) error {
	var req dto.CreateLedgerRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	l, err := repository.CreateLedger(c.UserContext(), fc.DB, strings.TrimSpace(req.FinanceLedgerName))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Buku kas dibuat", l)
}

// GET /api/a/finance/ledgers/:ledger_id/balance
func (fc *FinanceController) Balance(c *fiber.Ctx) error {
	id, err := ledgerParam(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	l, err := repository.FindLedger(c.UserContext(), fc.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	bal, err := fc.Svc.CurrentBalance(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Saldo buku kas", fiber.Map{
		"finance_ledger_id":      l.FinanceLedgerID,
		"finance_ledger_name":    l.FinanceLedgerName,
		"finance_ledger_version": l.FinanceLedgerVersion,
		"balance":                bal,
	})
}

// GET /api/a/finance/ledgers/:ledger_id/verify
func (fc *FinanceController) Verify(c *fiber.Ctx) error {
	id, err := ledgerParam(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	rep, err := fc.Svc.Verify(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Audit saldo", rep)
}

// GET /api/a/finance/ledgers/:ledger_id/summary?year=2025
func (fc *FinanceController) Summary(c *fiber.Ctx) error {
	id, err := ledgerParam(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	year := dbtime.Now().Year()
	if y := strings.TrimSpace(c.Query("year")); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil || v < 2000 || v > 2100 {
			return helper.FromError(c, apperror.ValidationField("year", "year tidak valid"))
		}
		year = v
	}

	from, _ := dbtime.MonthRange(year, time.January)
	to := from.AddDate(1, 0, 0)
	totals, err := repository.MonthlyTotals(c.UserContext(), fc.DB, id, from, to)
	if err != nil {
		return helper.FromError(c, err)
	}
	bal, err := fc.Svc.CurrentBalance(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Ringkasan keuangan", service.BuildYearSummary(id, year, totals, bal))
}

/* ===================== transactions ===================== */

// GET /api/a/finance/ledgers/:ledger_id/transactions?type=&from=&to=&page=&per_page=
func (fc *FinanceController) ListTransactions(c *fiber.Ctx) error {
	id, err := ledgerParam(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 200)
	f := repository.TransactionFilter{LedgerID: id, Offset: p.Offset, Limit: p.Limit}

	if t := strings.TrimSpace(c.Query("type")); t != "" {
		f.Type = t
	}
	for key, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
		if s := strings.TrimSpace(c.Query(key)); s != "" {
			d, err := dbtime.ParseDate(s)
			if err != nil {
				return helper.FromError(c, apperror.ValidationField(key, "format tanggal YYYY-MM-DD"))
			}
			*dst = &d
		}
	}

	rows, total, err := repository.ListTransactions(c.UserContext(), fc.DB, f)
	if err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "Daftar transaksi", dto.ToTransactionResponses(rows), &pg)
}

func (fc *FinanceController) parseCreate(c *fiber.Ctx) (dto.CreateTransactionRequest, error) {
	var req dto.CreateTransactionRequest
	if isMultipart(c) {
		req.Date = strings.TrimSpace(c.FormValue("finance_transaction_date"))
		req.Type = strings.TrimSpace(c.FormValue("finance_transaction_type"))
		req.Note = optForm(c, "finance_transaction_note")
		amt, err := dto.ParseAmount(c.FormValue("finance_transaction_amount"))
		if err != nil {
			return req, err
		}
		req.Amount = amt
	} else if err := c.BodyParser(&req); err != nil {
		return req, err
	}
	return req, helper.ValidateStruct(req)
}

// POST /api/a/finance/ledgers/:ledger_id/transactions  (JSON atau multipart + proof_image)
func (fc *FinanceController) CreateTransaction(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	ledgerID, err := ledgerParam(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	req, err := fc.parseCreate(c)
	if err != nil {
		return bodyError(c, err)
	}
	date, err := req.ParsedDate()
	if err != nil {
		return helper.FromError(c, err)
	}

	proof, err := fc.storeProof(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := fc.Svc.Append(c.UserContext(), actor, ledgerID, service.AppendInput{
		Date:       date,
		Type:       req.Type,
		Amount:     int64(req.Amount),
		Note:       req.Note,
		ProofImage: proof,
	})
	if err != nil {
		fc.discard(c, proof)
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Transaksi dicatat", dto.ToTransactionResponse(m))
}

func (fc *FinanceController) parseUpdate(c *fiber.Ctx) (dto.UpdateTransactionRequest, error) {
	var req dto.UpdateTransactionRequest
	if isMultipart(c) {
		req.Date = optForm(c, "finance_transaction_date")
		req.Type = optForm(c, "finance_transaction_type")
		req.Note = optForm(c, "finance_transaction_note")
		if s := optForm(c, "finance_transaction_amount"); s != nil {
			amt, err := dto.ParseAmount(*s)
			if err != nil {
				return req, err
			}
			req.Amount = &amt
		}
		if s := optForm(c, "finance_ledger_version"); s != nil {
			v, err := strconv.ParseInt(*s, 10, 64)
			if err != nil {
				return req, apperror.ValidationField("finance_ledger_version", "versi tidak valid")
			}
			req.ExpectedVersion = &v
		}
	} else if err := c.BodyParser(&req); err != nil {
		return req, err
	}
	return req, helper.ValidateStruct(req)
}

// PATCH /api/a/finance/transactions/:id
func (fc *FinanceController) UpdateTransaction(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := txParam(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	req, err := fc.parseUpdate(c)
	if err != nil {
		return bodyError(c, err)
	}
	date, err := req.ParsedDate()
	if err != nil {
		return helper.FromError(c, err)
	}

	before, err := fc.Svc.Repo.FindTransaction(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	proof, err := fc.storeProof(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	patch := service.EditPatch{
		Date:            date,
		Type:            req.Type,
		Note:            req.Note,
		ProofImage:      proof,
		ExpectedVersion: req.ExpectedVersion,
	}
	if req.Amount != nil {
		v := int64(*req.Amount)
		patch.Amount = &v
	}

	m, err := fc.Svc.Edit(c.UserContext(), actor, id, patch)
	if err != nil {
		fc.discard(c, proof)
		return helper.FromError(c, err)
	}
	if proof != nil {
		fc.discard(c, before.FinanceTransactionProof)
	}
	return helper.JsonUpdated(c, "Transaksi diperbarui", dto.ToTransactionResponse(m))
}

// DELETE /api/a/finance/transactions/:id?version=
func (fc *FinanceController) DeleteTransaction(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := txParam(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var expected *int64
	if s := strings.TrimSpace(c.Query("version")); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return helper.FromError(c, apperror.ValidationField("version", "versi tidak valid"))
		}
		expected = &v
	}

	before, err := fc.Svc.Repo.FindTransaction(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := fc.Svc.Delete(c.UserContext(), actor, id, expected); err != nil {
		return helper.FromError(c, err)
	}
	fc.discard(c, before.FinanceTransactionProof)
	return helper.JsonDeleted(c, "Transaksi dihapus", fiber.Map{"finance_transaction_id": id})
}
