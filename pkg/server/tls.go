package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// certReloader serves the current key pair and swaps it when the files on
// disk are rewritten, so certificate rotation needs no restart.
type certReloader struct {
	mu       sync.RWMutex
	cert     *tls.Certificate
	certPath string
	keyPath  string
}

func newCertReloader(certPath, keyPath string) *certReloader {
	return &certReloader{certPath: certPath, keyPath: keyPath}
}

// Reload reads the key pair. On failure the previous certificate stays.
func (r *certReloader) Reload() error {
	cert, err := tls.LoadX509KeyPair(r.certPath, r.keyPath)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}
	r.mu.Lock()
	r.cert = &cert
	r.mu.Unlock()
	return nil
}

func (r *certReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cert == nil {
		return nil, errors.New("no TLS certificate loaded")
	}
	return r.cert, nil
}

func (r *certReloader) TLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:     tls.VersionTLS12,
		GetCertificate: r.GetCertificate,
	}
}

// Watch reloads on write, create or rename of either file until ctx ends.
func (r *certReloader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, p := range []string{r.certPath, r.keyPath} {
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := r.Reload(); err != nil {
				zap.L().Error("failed to reload TLS certificate", zap.String("file", event.Name), zap.Error(err))
				continue
			}
			zap.L().Info("TLS certificate reloaded", zap.String("file", event.Name))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			zap.L().Error("certificate watcher error", zap.Error(err))
		}
	}
}
