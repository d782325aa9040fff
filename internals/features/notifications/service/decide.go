package service

import (
	"strings"
)

const (
	EntityAssetLoan           = "asset_loan"
	EntityApplicationDocument = "application_document"
)

const (
	TemplateAssetLoanApproved = "asset_loan_approved"
	TemplateAssetLoanRejected = "asset_loan_rejected"
	TemplateAssetLoanOverdue  = "asset_loan_overdue"
	TemplateDocumentRejected  = "document_rejected"
	TemplateDocumentCompleted = "document_completed"
)

// StatusOverdue bukan status tersimpan; dipakai job pengingat peminjaman yang lewat tenggat.
const StatusOverdue = "overdue"

// Metadata yang dikenali Decide.
const (
	MetaRecipientEmail = "recipient_email"
	MetaRecipientName  = "recipient_name"
	MetaAdminNote      = "admin_note"
)

// Event: satu perubahan status entitas.
type Event struct {
	EntityType string
	EntityID   string
	OldStatus  string
	NewStatus  string
	Metadata   map[string]string
}

// Payload siap diserahkan ke Mailer.
type Payload struct {
	Recipient   string            `json:"recipient"`
	TemplateKey string            `json:"template_key"`
	Variables   map[string]string `json:"variables"`
}

type transition struct{ from, to string }

// "*" pada from berarti status asal apa pun.
var notifyTable = map[string]map[transition]string{
	EntityAssetLoan: {
		{"waiting_approval", "on_loan"}:  TemplateAssetLoanApproved,
		{"waiting_approval", "rejected"}: TemplateAssetLoanRejected,
		{"on_loan", StatusOverdue}:       TemplateAssetLoanOverdue,
	},
	EntityApplicationDocument: {
		{"*", "rejected"}:            TemplateDocumentRejected,
		{"on_proccess", "completed"}: TemplateDocumentCompleted,
	},
}

// Decide: fungsi murni. false bila transisi tidak perlu notifikasi atau penerima tidak diketahui.
func Decide(ev Event) (Payload, bool) {
	table, ok := notifyTable[ev.EntityType]
	if !ok {
		return Payload{}, false
	}
	key, ok := table[transition{ev.OldStatus, ev.NewStatus}]
	if !ok {
		key, ok = table[transition{"*", ev.NewStatus}]
	}
	if !ok {
		return Payload{}, false
	}

	recipient := strings.TrimSpace(ev.Metadata[MetaRecipientEmail])
	if recipient == "" {
		return Payload{}, false
	}

	vars := make(map[string]string, len(ev.Metadata)+3)
	for k, v := range ev.Metadata {
		if k == MetaRecipientEmail {
			continue
		}
		vars[k] = v
	}
	vars["entity_id"] = ev.EntityID
	vars["old_status"] = ev.OldStatus
	vars["new_status"] = ev.NewStatus
	if _, ok := vars[MetaAdminNote]; !ok {
		vars[MetaAdminNote] = ""
	}

	return Payload{Recipient: recipient, TemplateKey: key, Variables: vars}, true
}
