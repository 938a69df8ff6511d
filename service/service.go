// Package service applies writes to the books. Every write that touches a
// bill, memo or bank entry holds the owner's lock, stores the record and
// rebuilds the owner's ledger before the lock is released.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hariomtransport/books/config"
	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/lock"
	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/notify"
	"github.com/hariomtransport/books/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const moduleName = "service"

type Options struct {
	Locker lock.Locker
	Bus    notify.Bus
	Logger *logrus.Logger
	// Origin identifies this instance on the change feed.
	Origin         string
	CommissionRate decimal.Decimal
	// Mirror is a second copy of the books that RepairConsistency pushes
	// missing records to. Optional.
	Mirror *repository.Store
	NewID  func() string
	Now    func() time.Time
}

type BookService struct {
	store          *repository.Store
	mirror         *repository.Store
	locker         lock.Locker
	bus            notify.Bus
	logger         *logrus.Logger
	origin         string
	commissionRate decimal.Decimal
	newID          func() string
	now            func() time.Time
	validate       *validator.Validate
}

func NewBookService(store *repository.Store, opts Options) *BookService {
	s := &BookService{
		store:          store,
		mirror:         opts.Mirror,
		locker:         opts.Locker,
		bus:            opts.Bus,
		logger:         opts.Logger,
		origin:         opts.Origin,
		commissionRate: opts.CommissionRate,
		newID:          opts.NewID,
		now:            opts.Now,
		validate:       newValidator(),
	}
	if s.locker == nil {
		s.locker = lock.NewLocalLocker()
	}
	if s.bus == nil {
		s.bus = notify.NewLocalBus()
	}
	if s.logger == nil {
		s.logger = logrus.New()
		s.logger.SetOutput(io.Discard)
	}
	if s.origin == "" {
		s.origin = uuid.NewString()
	}
	if s.commissionRate.IsZero() {
		s.commissionRate = decimal.NewFromInt(ledger.DefaultCommissionRate)
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func (s *BookService) Origin() string { return s.origin }

func (s *BookService) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return &ValidationError{Fields: ProcessValidationErrors(err)}
	}
	return nil
}

func nonNegative(fields map[string]decimal.Decimal) error {
	bad := map[string]string{}
	for name, v := range fields {
		if v.IsNegative() {
			bad[name] = "gte=0"
		}
	}
	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

type owner struct {
	kind models.OwnerKind
	id   string
}

func (o owner) key() string { return lock.OwnerKey(o.kind, o.id) }

// withOwners runs fn holding the locks of every listed owner. Locks are
// taken in key order so two writers never wait on each other.
func (s *BookService) withOwners(ctx context.Context, owners []owner, fn func() error) error {
	keys := map[string]bool{}
	for _, o := range owners {
		if o.id != "" {
			keys[o.key()] = true
		}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	var leases []lock.Lease
	defer func() {
		for i := len(leases) - 1; i >= 0; i-- {
			if err := leases[i].Release(context.WithoutCancel(ctx)); err != nil {
				config.LogError(s.logger, moduleName, "withOwners", "release lock", sorted[i], err)
			}
		}
	}()
	for _, key := range sorted {
		lease, err := s.locker.Obtain(ctx, key)
		if err != nil {
			if errors.Is(err, lock.ErrNotObtained) {
				return fmt.Errorf("%s: %w", key, ErrLockNotObtained)
			}
			return err
		}
		leases = append(leases, lease)
	}
	return fn()
}

func (s *BookService) publish(ctx context.Context, collection string, action notify.Action, recordID string, owners ...owner) {
	if len(owners) == 0 {
		owners = []owner{{}}
	}
	seen := map[owner]bool{}
	for _, o := range owners {
		if seen[o] {
			continue
		}
		seen[o] = true
		e := notify.Event{
			Origin:     s.origin,
			Collection: collection,
			Action:     action,
			RecordID:   recordID,
			OwnerKind:  o.kind,
			OwnerID:    o.id,
			At:         s.now(),
		}
		if err := s.bus.Publish(ctx, e); err != nil {
			config.LogError(s.logger, moduleName, "publish", "publish change", e, err)
		}
	}
}

func (s *BookService) nowPtr() *time.Time {
	now := s.now()
	return &now
}
