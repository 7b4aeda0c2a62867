package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/domain"
	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/draft"
	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

type IdentityClient interface {
	GetMe(ctx context.Context, userID uuid.UUID) (IdentityUser, error)
}

type IdentityUser struct {
	ID       uuid.UUID
	FullName string
}

// DraftListener observes accepted and rejected draft mutations, keyed by
// session. The websocket hub is the one implementation in this binary.
type DraftListener interface {
	DraftChanged(sessionKey string, event domain.DraftEvent)
}

// session pairs one draft store with the goroutine that keeps its linked
// saved schedule in sync.
type session struct {
	mu     sync.Mutex
	userID uuid.UUID
	store  *draft.Store
	syncer *draft.Syncer
	cancel context.CancelFunc
}

// owner is read from the sync goroutine, so access is guarded.
func (sess *session) owner() uuid.UUID {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.userID
}

func (sess *session) setOwner(userID uuid.UUID) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.userID = userID
}

// PlannerService owns a registry of per-session drafts and the collaborator
// clients: the section catalog (cached), durable schedule storage, and the
// identity service. All draft mutations go through the session's store,
// which serializes them.
type PlannerService struct {
	txManager repository.TxManager
	identity  IdentityClient
	logger    *log.Logger

	catalogCache *cache.Cache

	mu       sync.Mutex
	sessions map[string]*session
	listener DraftListener

	baseCtx    context.Context
	cancelBase context.CancelFunc
}

func NewPlannerService(txManager repository.TxManager, identity IdentityClient, logger *log.Logger) *PlannerService {
	ctx, cancel := context.WithCancel(context.Background())
	return &PlannerService{
		txManager:    txManager,
		identity:     identity,
		logger:       logger,
		catalogCache: cache.New(5*time.Minute, 10*time.Minute),
		sessions:     make(map[string]*session),
		baseCtx:      ctx,
		cancelBase:   cancel,
	}
}

// SetListener registers the single draft-event observer. Call before the
// service starts taking traffic.
func (s *PlannerService) SetListener(listener DraftListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = listener
}

// Close stops every session's sync goroutine.
func (s *PlannerService) Close() {
	s.cancelBase()
}

// Sections returns the catalog sections for one course, consulting a TTL
// cache before the database. The cache holds full result slices; sections
// are immutable so sharing them is safe.
func (s *PlannerService) Sections(ctx context.Context, department, code string) ([]domain.Section, error) {
	department = strings.ToUpper(strings.TrimSpace(department))
	code = strings.TrimSpace(code)
	if department == "" || code == "" {
		return nil, ErrInvalidInput
	}

	cacheKey := department + " " + code
	if cached, ok := s.catalogCache.Get(cacheKey); ok {
		return cached.([]domain.Section), nil
	}

	var sections []domain.Section
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		sections, err = repos.Catalog.ListByCourse(ctx, department, code)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch sections: %w", err)
	}

	s.catalogCache.Set(cacheKey, sections, cache.DefaultExpiration)
	return sections, nil
}

// AddToDraft offers a candidate section to the session's draft and reports
// the resolver's verdict.
func (s *PlannerService) AddToDraft(sessionKey string, candidate domain.Section) draft.Outcome {
	sess := s.session(sessionKey)
	outcome := sess.store.AddSection(candidate)
	s.emit(sessionKey, sess, "add_section", outcome)
	return outcome
}

// RemoveFromDraft removes by position; out of range is a no-op.
func (s *PlannerService) RemoveFromDraft(sessionKey string, index int) {
	sess := s.session(sessionKey)
	sess.store.RemoveSection(index)
	s.emit(sessionKey, sess, "remove_section", draft.Outcome{})
}

// RemoveFromDraftByID removes by section id; absent ids are a no-op.
func (s *PlannerService) RemoveFromDraftByID(sessionKey string, id uuid.UUID) {
	sess := s.session(sessionKey)
	sess.store.RemoveSectionByID(id)
	s.emit(sessionKey, sess, "remove_section", draft.Outcome{})
}

// ClearDraft empties the session's draft.
func (s *PlannerService) ClearDraft(sessionKey string) {
	sess := s.session(sessionKey)
	sess.store.Clear()
	s.emit(sessionKey, sess, "clear", draft.Outcome{})
}

// DraftSnapshot returns a copy of the session's draft state. A key with
// no session reads as an empty draft without allocating one, so polling
// with arbitrary keys cannot grow the session registry.
func (s *PlannerService) DraftSnapshot(sessionKey string) draft.Snapshot {
	sess, ok := s.lookup(sessionKey)
	if !ok {
		return draft.Snapshot{}
	}
	return sess.store.Snapshot()
}

// DraftState returns the draft lifecycle state for the session.
func (s *PlannerService) DraftState(sessionKey string) string {
	sess, ok := s.lookup(sessionKey)
	if !ok {
		return draft.StateEmpty
	}
	return sess.store.State()
}

// EndSession drops the session's draft entirely. Called on logout.
func (s *PlannerService) EndSession(sessionKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionKey]; ok {
		sess.cancel()
		delete(s.sessions, sessionKey)
	}
}

// SaveDraft persists the session's draft under the given name and term.
// An anonymous caller gets ErrUnauthorized and an empty name
// ErrInvalidInput; both leave the draft untouched, as does any storage
// failure. On success the draft is linked to the durable id and flips to
// editing mode.
func (s *PlannerService) SaveDraft(ctx context.Context, sessionKey string, userID uuid.UUID, name, term string, year int) (uuid.UUID, error) {
	if strings.TrimSpace(name) == "" {
		return uuid.Nil, ErrInvalidInput
	}
	if userID == uuid.Nil {
		return uuid.Nil, ErrUnauthorized
	}

	user, err := s.identity.GetMe(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
			return uuid.Nil, ErrUnauthorized
		}
		return uuid.Nil, fmt.Errorf("resolve identity: %w", err)
	}

	// Stage name and term into the record only; the draft is updated after
	// the write sticks, so a storage failure leaves it as it was.
	sess := s.session(sessionKey)
	snap := sess.store.Snapshot()

	sched := domain.SavedSchedule{
		ID:       snap.ExistingID,
		UserID:   user.ID,
		Name:     name,
		Term:     term,
		Year:     year,
		Sections: snap.Sections,
	}

	var savedID uuid.UUID
	err = s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		savedID, err = repos.Schedules.Save(ctx, sched)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("persist schedule: %w", err)
	}

	sess.setOwner(user.ID)
	sess.store.SetName(name)
	sess.store.SetTerm(term, year)
	sess.store.LinkSaved(savedID)
	return savedID, nil
}

// LoadSchedule hydrates the session's draft from a saved schedule. Loading
// someone else's schedule reports not-found rather than leaking that the id
// exists.
func (s *PlannerService) LoadSchedule(ctx context.Context, sessionKey string, userID uuid.UUID, scheduleID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}

	var saved domain.SavedSchedule
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		saved, err = repos.Schedules.GetByID(ctx, scheduleID)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("fetch schedule: %w", err)
	}
	if saved.UserID != userID {
		return ErrNotFound
	}

	sess := s.session(sessionKey)
	sess.setOwner(userID)
	sess.store.LoadExisting(saved)
	s.emit(sessionKey, sess, "load", draft.Outcome{})
	return nil
}

// ListSchedules returns the caller's saved schedules with their sections.
func (s *PlannerService) ListSchedules(ctx context.Context, userID uuid.UUID) ([]domain.SavedSchedule, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	var schedules []domain.SavedSchedule
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		schedules, err = repos.Schedules.ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// DeleteSchedule removes a saved schedule. A draft currently editing that
// schedule is cleared with it.
func (s *PlannerService) DeleteSchedule(ctx context.Context, sessionKey string, userID uuid.UUID, scheduleID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}

	var deleted bool
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		deleted, err = repos.Schedules.Delete(ctx, scheduleID, userID)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	if sess, ok := s.lookup(sessionKey); ok {
		if snap := sess.store.Snapshot(); snap.ExistingID == scheduleID {
			sess.store.Clear()
			s.emit(sessionKey, sess, "clear", draft.Outcome{})
		}
	}
	return nil
}

// lookup returns the session for the key without creating one.
func (s *PlannerService) lookup(sessionKey string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionKey]
	return sess, ok
}

// session returns the existing session for the key or creates one with an
// empty draft and a running sync loop. Only mutating operations call this;
// read paths go through lookup.
func (s *PlannerService) session(sessionKey string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionKey]; ok {
		return sess
	}

	sess := &session{}
	ctx, cancel := context.WithCancel(s.baseCtx)
	sess.cancel = cancel
	sess.syncer = draft.NewSyncer(s.persistForSession(sess), s.logger)
	sess.store = draft.NewStore(sess.syncer)
	go sess.syncer.Run(ctx)

	s.sessions[sessionKey] = sess
	return sess
}

// persistForSession builds the sync loop's write function: a full
// replace-all save of the linked schedule. The syncer only hands over
// snapshots that carry a durable id; unsaved and anonymous drafts stay
// local.
func (s *PlannerService) persistForSession(sess *session) draft.PersistFunc {
	return func(ctx context.Context, snap draft.Snapshot) error {
		owner := sess.owner()
		if owner == uuid.Nil {
			return nil
		}
		sched := domain.SavedSchedule{
			ID:       snap.ExistingID,
			UserID:   owner,
			Name:     snap.Name,
			Term:     snap.Term,
			Year:     snap.Year,
			Sections: snap.Sections,
		}
		return s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
			_, err := repos.Schedules.Save(ctx, sched)
			return err
		})
	}
}

func (s *PlannerService) emit(sessionKey string, sess *session, kind string, outcome draft.Outcome) {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return
	}

	snap := sess.store.Snapshot()
	event := domain.DraftEvent{
		Kind:         kind,
		SectionCount: len(snap.Sections),
		Sequence:     snap.Sequence,
	}
	if kind == "add_section" {
		event.Classification = outcome.Classification.Kind.String()
		event.Message = outcome.Message()
	}
	listener.DraftChanged(sessionKey, event)
}
