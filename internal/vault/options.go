package vault

import (
	"context"
	"log/slog"
)

// Option configures a Vault at construction.
type Option func(*Vault)

// WithBudget sets the memory ceiling in bytes. Non-positive values keep the
// default.
func WithBudget(bytes int64) Option {
	return func(v *Vault) {
		if bytes > 0 {
			v.budget = bytes
		}
	}
}

// WithOffloader runs pixel work on o instead of a pool owned by the vault.
// The caller remains responsible for shutting o down.
func WithOffloader(o Offloader) Option {
	return func(v *Vault) {
		if o != nil {
			v.offload = o
		}
	}
}

// WithWorkers sizes the pool the vault creates for itself. Ignored when
// WithOffloader is also given.
func WithWorkers(n int) Option {
	return func(v *Vault) {
		v.workers = n
	}
}

// WithLogger sets the logger for cache events. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(v *Vault) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithJPEGQuality sets the quality used when Bytes encodes JPEG (1-100).
func WithJPEGQuality(q int) Option {
	return func(v *Vault) {
		if q >= 1 && q <= 100 {
			v.jpegQuality = q
		}
	}
}

// nopHandler discards every record without formatting it.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }
