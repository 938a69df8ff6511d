package service

import (
	"context"
	"errors"

	"github.com/hariomtransport/books/config"
	"github.com/sirupsen/logrus"
)

// WatchChanges rebuilds the ledgers named in change events published by
// other instances. It blocks until ctx is done.
func (s *BookService) WatchChanges(ctx context.Context) error {
	events, err := s.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	for e := range events {
		if e.Origin == s.origin || e.OwnerID == "" {
			continue
		}
		o := owner{kind: e.OwnerKind, id: e.OwnerID}
		if _, _, err := s.rebuildLocked(ctx, o); err != nil {
			if errors.Is(err, ErrPartyNotFound) || errors.Is(err, ErrSupplierNotFound) || ctx.Err() != nil {
				continue
			}
			config.LogError(s.logger, moduleName, "WatchChanges", "rebuild after remote change", e, err)
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"module":     moduleName,
			"origin":     e.Origin,
			"collection": e.Collection,
			"ledger":     o.key(),
		}).Debug("ledger rebuilt after remote change")
	}
	return ctx.Err()
}
