package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
)

type mailTemplate struct {
	subject *texttemplate.Template
	body    *template.Template
}

const layoutHead = `<p>Yth. {{if .recipient_name}}{{.recipient_name}}{{else}}Warga{{end}},</p>`
const layoutFoot = `<p>Salam,<br>Pemerintah Desa</p>`

var rawTemplates = map[string][2]string{
	TemplateAssetLoanApproved: {
		`Peminjaman {{.asset_name}} disetujui`,
		`<p>Peminjaman <b>{{.asset_name}}</b> telah disetujui.</p>
<p>Mohon dikembalikan paling lambat {{.expected_return_date}}.</p>
{{if .admin_note}}<p>Catatan: {{.admin_note}}</p>{{end}}`,
	},
	TemplateAssetLoanRejected: {
		`Peminjaman {{.asset_name}} ditolak`,
		`<p>Mohon maaf, pengajuan peminjaman <b>{{.asset_name}}</b> ditolak.</p>
{{if .admin_note}}<p>Alasan: {{.admin_note}}</p>{{end}}`,
	},
	TemplateAssetLoanOverdue: {
		`Pengingat pengembalian {{.asset_name}}`,
		`<p>Peminjaman <b>{{.asset_name}}</b> telah melewati tanggal pengembalian {{.expected_return_date}}.</p>
<p>Mohon segera dikembalikan ke kantor desa.</p>`,
	},
	TemplateDocumentRejected: {
		`Pengajuan {{.document_name}} ditolak`,
		`<p>Pengajuan dokumen <b>{{.document_name}}</b> untuk NIK {{.applicant_nik}} ditolak.</p>
{{if .admin_note}}<p>Alasan: {{.admin_note}}</p>{{end}}`,
	},
	TemplateDocumentCompleted: {
		`Dokumen {{.document_name}} selesai`,
		`<p>Dokumen <b>{{.document_name}}</b> untuk NIK {{.applicant_nik}} sudah selesai.</p>
{{if .file}}<p>Unduh: <a href="{{.file}}">{{.file}}</a></p>{{end}}
{{if .admin_note}}<p>Catatan: {{.admin_note}}</p>{{end}}`,
	},
}

var templates = mustParseTemplates()

func mustParseTemplates() map[string]mailTemplate {
	out := make(map[string]mailTemplate, len(rawTemplates))
	for key, raw := range rawTemplates {
		out[key] = mailTemplate{
			subject: texttemplate.Must(texttemplate.New(key + ".subject").Option("missingkey=zero").Parse(raw[0])),
			body:    template.Must(template.New(key + ".body").Option("missingkey=zero").Parse(layoutHead + raw[1] + layoutFoot)),
		}
	}
	return out
}

// Render menghasilkan subject (plain) dan body HTML untuk satu payload.
func Render(p Payload) (subject, body string, err error) {
	t, ok := templates[p.TemplateKey]
	if !ok {
		return "", "", fmt.Errorf("template %q tidak dikenal", p.TemplateKey)
	}
	var sb, bb bytes.Buffer
	if err := t.subject.Execute(&sb, p.Variables); err != nil {
		return "", "", err
	}
	if err := t.body.Execute(&bb, p.Variables); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(sb.String()), bb.String(), nil
}
