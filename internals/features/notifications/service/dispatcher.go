package service

import (
	"context"
	"sync"
	"time"

	"desaku_backend/internals/features/notifications/model"
	"desaku_backend/internals/features/notifications/repository"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Notifier: yang dibutuhkan service domain dari Dispatcher.
type Notifier interface {
	Dispatch(ctx context.Context, ev Event)
}

// Dispatcher memutuskan secara sinkron, lalu mengirim di goroutine terpisah.
// Kegagalan hanya dicatat: tidak di-retry dan tidak membatalkan transisi.
type Dispatcher struct {
	Store       repository.LogStore
	Mailer      Mailer
	Log         *zap.Logger
	SendTimeout time.Duration
	Now         func() time.Time

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(store repository.LogStore, mailer Mailer, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		Store:       store,
		Mailer:      mailer,
		Log:         log.Named("notify"),
		SendTimeout: 30 * time.Second,
		Now:         time.Now,
	}
}

// Dispatch aman dipanggil setelah commit. ctx request hanya dipakai untuk menulis log antrean.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	p, ok := Decide(ev)
	if !ok {
		return
	}

	vars, err := sonic.Marshal(p.Variables)
	if err != nil {
		d.Log.Error("encode variables", zap.Error(err))
		return
	}
	row := &model.NotificationLogModel{
		NotificationLogEntityType:  ev.EntityType,
		NotificationLogEntityID:    ev.EntityID,
		NotificationLogOldStatus:   ev.OldStatus,
		NotificationLogNewStatus:   ev.NewStatus,
		NotificationLogRecipient:   p.Recipient,
		NotificationLogTemplateKey: p.TemplateKey,
		NotificationLogVariables:   datatypes.JSON(vars),
		NotificationLogStatus:      model.NotificationQueued,
	}
	if err := d.Store.Create(context.WithoutCancel(ctx), row); err != nil {
		// tetap kirim walau log gagal ditulis
		d.Log.Warn("notification log insert", zap.Error(err), zap.String("template", p.TemplateKey))
	}

	// wg.Add di bawah mu: Close tidak pernah menunggu bersamaan dengan Add baru.
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.Log.Warn("dispatcher closed, notification dropped", zap.String("template", p.TemplateKey))
		msg := "dispatcher closed"
		d.mark(context.WithoutCancel(ctx), row, model.NotificationFailed, &msg)
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()
	go func() {
		defer d.wg.Done()
		d.deliver(row, p)
	}()
}

func (d *Dispatcher) deliver(row *model.NotificationLogModel, p Payload) {
	ctx, cancel := context.WithTimeout(context.Background(), d.SendTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.Log.Error("notification panic", zap.Any("panic", r), zap.String("template", p.TemplateKey))
			msg := "panic"
			d.mark(ctx, row, model.NotificationFailed, &msg)
		}
	}()

	subject, body, err := Render(p)
	if err == nil {
		err = d.Mailer.Send(ctx, Message{To: p.Recipient, Subject: subject, HTML: body})
	}
	if err != nil {
		d.Log.Warn("notification failed",
			zap.String("template", p.TemplateKey),
			zap.String("to", p.Recipient),
			zap.Error(err),
		)
		msg := err.Error()
		d.mark(ctx, row, model.NotificationFailed, &msg)
		return
	}
	d.Log.Info("notification sent", zap.String("template", p.TemplateKey), zap.String("to", p.Recipient))
	d.mark(ctx, row, model.NotificationSent, nil)
}

func (d *Dispatcher) mark(ctx context.Context, row *model.NotificationLogModel, status string, errMsg *string) {
	if row.NotificationLogID == uuid.Nil {
		return
	}
	if err := d.Store.MarkResult(ctx, row.NotificationLogID, status, errMsg, d.Now()); err != nil {
		d.Log.Warn("notification log update", zap.Error(err))
	}
}

// Wait menunggu semua pengiriman yang sedang berjalan. Dispatch tetap diterima.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Close menolak Dispatch berikutnya lalu menunggu kiriman yang sudah berjalan.
// Dipanggil saat shutdown setelah server HTTP dan cron berhenti.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}
