package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/checklist"
	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/export"
	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/report"
	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/repository"
	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/scoring"
	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/template"
	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"

	"github.com/firebase/genkit/go/genkit"
)

// Notification texts.
const (
	msgSaved      = "تم الحفظ محلياً بنجاح"
	msgSaveFailed = "فشل الحفظ (الذاكرة ممتلئة؟)"
	msgRestored   = "تم استرجاع البيانات المحفوظة"
	msgRestoreBad = "تعذر استرجاع البيانات المحفوظة"
	msgCleared    = "تم المسح!"
	msgIncomplete = "عفواً: يرجى إكمال بند \"%s\" في قسم \"%s\" أولاً"
	msgInvalid    = "عفواً: قيمة \"%s\" غير صحيحة"
)

// lockFile is the lock file name inside the data directory.
const lockFile = ".lock"

// Deps are the collaborators a session is built from.
type Deps struct {
	Template *schema.Template
	Scorer   *scoring.Scorer
	Store    repository.Store
	Genkit   *genkit.Genkit
	Logger   Logger
	Notifier checklist.Notifier
	Clock    func() time.Time
}

// Session owns one live inspection: the form, its header and damage
// markers, the pending event log and the store they persist to. Calls are
// serialised.
type Session struct {
	mu sync.Mutex

	cfg      *Config
	logger   Logger
	notifier checklist.Notifier
	store    repository.Store
	lock     *repository.FileLock
	form     *checklist.Form
	exporter *export.Exporter
	clock    func() time.Time

	inspectionID string
	header       schema.InspectionHeader
	pending      []schema.InspectionEvent
}

// NewSession wires a session from deps. It does not touch the store.
func NewSession(ctx context.Context, cfg *Config, deps Deps) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if deps.Logger == nil {
		deps.Logger = NewLogger(cfg.LogLevel)
	}
	if deps.Notifier == nil {
		deps.Notifier = NewLogNotifier(deps.Logger)
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Template == nil {
		tpl, err := template.Default()
		if err != nil {
			return nil, err
		}
		deps.Template = tpl
	}
	if deps.Scorer == nil {
		sc, err := scoring.Default()
		if err != nil {
			return nil, err
		}
		deps.Scorer = sc
	}
	if deps.Genkit == nil {
		deps.Genkit = genkit.Init(ctx)
	}

	form, err := checklist.New(deps.Template, deps.Scorer, deps.Notifier)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:          cfg,
		logger:       deps.Logger,
		notifier:     deps.Notifier,
		store:        deps.Store,
		form:         form,
		clock:        deps.Clock,
		inspectionID: schema.NewInspectionID(),
		header:       schema.NewInspectionHeader(deps.Clock()),
	}
	form.OnChange(s.record)
	s.exporter = export.New(deps.Genkit, s, s.clock)
	return s, nil
}

// Open takes the data directory lock on behalf of holder, opens the
// configured store and restores any saved inspection.
func Open(ctx context.Context, cfg *Config, holder string, logger Logger, notifier checklist.Notifier) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tpl, err := template.LoadOrDefault(cfg.TemplatePath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, &PersistenceError{Operation: "create data dir", Err: err}
	}
	lock := repository.NewFileLock(filepath.Join(cfg.DataDir, lockFile), holder)
	if err := lock.Acquire(); err != nil {
		return nil, &LockError{Operation: "acquire", Message: err.Error(), Err: err}
	}

	store, err := repository.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		_ = lock.Release()
		return nil, &PersistenceError{Operation: "open store", Err: err}
	}

	s, err := NewSession(ctx, cfg, Deps{Template: tpl, Store: store, Logger: logger, Notifier: notifier})
	if err != nil {
		_ = store.Close()
		_ = lock.Release()
		return nil, err
	}
	s.lock = lock

	// An unreadable saved state leaves a fresh form; clear or the next save
	// replaces it.
	if _, err := s.Restore(); err != nil {
		var perr *PersistenceError
		if !errors.As(err, &perr) {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Close releases the lock and the store. Unsaved events are dropped.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	if s.lock != nil {
		if err := s.lock.Release(); err != nil {
			errs = append(errs, &LockError{Operation: "release", Message: err.Error(), Err: err})
		}
		s.lock = nil
	}
	return errors.Join(errs...)
}

// Form exposes the live checklist for reads.
func (s *Session) Form() *checklist.Form { return s.form }

// InspectionID returns the ID of the current inspection.
func (s *Session) InspectionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inspectionID
}

// Header returns the current inspection header.
func (s *Session) Header() schema.InspectionHeader {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.header
}

// Pending returns the number of events not yet persisted.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// SetChoice records an evaluation choice and auto-saves.
func (s *Session) SetChoice(id schema.ItemID, view schema.ViewKind, value string) (checklist.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change, err := s.form.SetChoice(id, view, value)
	if err != nil {
		return change, err
	}
	s.logger.Debug("choice set", "item", id.String(), "view", string(view), "choice", change.NewChoice, "state", string(change.NewState))
	s.autoSave()
	return change, nil
}

// TogglePass sets the pass control of a checkbox-only item.
func (s *Session) TogglePass(id schema.ItemID, view schema.ViewKind, checked bool) (checklist.Change, error) {
	return s.toggle(id, view, checked, s.form.TogglePass)
}

// ToggleFail sets the fail control of a checkbox-only item.
func (s *Session) ToggleFail(id schema.ItemID, view schema.ViewKind, checked bool) (checklist.Change, error) {
	return s.toggle(id, view, checked, s.form.ToggleFail)
}

func (s *Session) toggle(id schema.ItemID, view schema.ViewKind, checked bool, fn func(schema.ItemID, schema.ViewKind, bool) (checklist.Change, error)) (checklist.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change, err := fn(id, view, checked)
	if err != nil {
		return change, err
	}
	s.logger.Debug("control toggled", "item", id.String(), "view", string(view), "state", string(change.NewState))
	s.autoSave()
	return change, nil
}

// SetHeader merges the non-empty fields of update into the header. Numeric
// fields accept Arabic-Indic digits.
func (s *Session) SetHeader(update schema.InspectionHeader) (schema.InspectionHeader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	update = update.NormalizeDigits()
	next := s.header.Merge(update)
	if update.SeatCount != "" {
		if err := checkSeatCount(next); err != nil {
			s.notifier.Notify(schema.Notification{Message: fmt.Sprintf(msgInvalid, schema.HeaderLabel("SeatCount")), Severity: schema.SeverityError})
			return s.header, err
		}
	}
	if next == s.header {
		return s.header, nil
	}

	event, err := newEvent(func(id string, at time.Time) schema.InspectionEvent {
		return &schema.HeaderUpdated{EventID_: id, OldHeader: s.header, NewHeader: next, Timestamp_: at}
	}, s.clock)
	if err != nil {
		return s.header, err
	}

	s.header = next
	s.pending = append(s.pending, event)
	s.logger.Debug("header updated", "plate", next.PlateNumber)
	s.autoSave()
	return s.header, nil
}

// AddMarker places a damage marker on the bus diagram.
func (s *Session) AddMarker(x, y float64) (schema.DamageMarker, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, added, err := s.form.AddMarker(x, y)
	if err != nil || !added {
		return m, added, err
	}
	if err := s.appendEvent(func(id string, at time.Time) schema.InspectionEvent {
		return &schema.MarkerAdded{EventID_: id, Marker: m, Timestamp_: at}
	}); err != nil {
		return m, added, err
	}
	s.logger.Debug("marker added", "marker", m.String())
	s.autoSave()
	return m, true, nil
}

// RemoveMarker takes a damage marker off the bus diagram.
func (s *Session) RemoveMarker(x, y float64) (schema.DamageMarker, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, removed, err := s.form.RemoveMarker(x, y)
	if err != nil || !removed {
		return m, removed, err
	}
	if err := s.appendEvent(func(id string, at time.Time) schema.InspectionEvent {
		return &schema.MarkerRemoved{EventID_: id, Marker: m, Timestamp_: at}
	}); err != nil {
		return m, removed, err
	}
	s.logger.Debug("marker removed", "marker", m.String())
	s.autoSave()
	return m, true, nil
}

// Validate checks the header, then every choice item in form order. The
// first gap is reported to the inspector and returned.
func (s *Session) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validate()
}

func (s *Session) validate() error {
	if field, missing := schema.FirstMissingHeaderField(&s.header); missing {
		return s.incomplete(schema.HeaderSectionName, schema.HeaderLabel(field))
	}
	if err := schema.ValidateHeader(&s.header); err != nil {
		var herr *schema.HeaderError
		if errors.As(err, &herr) {
			s.notifier.Notify(schema.Notification{Message: fmt.Sprintf(msgInvalid, herr.Label), Severity: schema.SeverityError})
			return &ValidationError{Field: herr.Field, Message: herr.Message, Err: err}
		}
		return err
	}
	if it, ok := s.form.FirstIncomplete(); ok {
		return s.incomplete(it.SectionName, it.Name)
	}
	return nil
}

func (s *Session) incomplete(section, item string) error {
	s.notifier.Notify(schema.Notification{
		Message:  fmt.Sprintf(msgIncomplete, item, section),
		Severity: schema.SeverityError,
	})
	return &IncompleteInputError{Section: section, Item: item}
}

// Save validates the form and persists it, reporting the outcome.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validate(); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		s.logger.Error("save failed", "key", s.cfg.StorageKey, "error", err)
		s.notifier.Notify(schema.Notification{Message: msgSaveFailed, Severity: schema.SeverityError})
		return err
	}
	s.logger.Info("inspection saved", "key", s.cfg.StorageKey, "inspection_id", s.inspectionID)
	s.notifier.Notify(schema.Notification{Message: msgSaved, Severity: schema.SeveritySuccess})
	return nil
}

// Restore loads the saved inspection, if any, and recomputes every section.
// It reports whether anything was restored. A saved state that cannot be
// read is reported to the inspector and returned as a *PersistenceError; the
// form is left untouched.
func (s *Session) Restore() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.LoadState(s.cfg.StorageKey)
	if errors.Is(err, repository.ErrStateNotFound) {
		return false, nil
	}
	if err != nil {
		s.logger.Error("restore failed", "key", s.cfg.StorageKey, "error", err)
		s.notifier.Notify(schema.Notification{Message: msgRestoreBad, Severity: schema.SeverityError})
		return false, &PersistenceError{Operation: "load", Err: err}
	}

	skipped, err := s.form.Restore(state.Items, state.Markers)
	if err != nil {
		return false, err
	}
	for _, rec := range skipped.Items {
		s.logger.Warn("saved item does not match template", "item", rec.ID.String(), "name", rec.Name)
	}
	for _, m := range skipped.Markers {
		s.logger.Warn("saved marker outside the diagram", "marker", m.String())
	}

	if state.InspectionID != "" {
		s.inspectionID = state.InspectionID
	}
	s.header = s.header.Merge(state.Header)
	s.pending = nil

	s.logger.Info("inspection restored", "key", s.cfg.StorageKey, "inspection_id", s.inspectionID, "items", len(state.Items))
	s.notifier.Notify(schema.Notification{Message: msgRestored, Severity: schema.SeverityInfo})
	return true, nil
}

// Clear wipes the form, the header and the stored inspection, and starts a
// new inspection.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(s.cfg.StorageKey); err != nil {
		s.logger.Error("clear failed", "key", s.cfg.StorageKey, "error", err)
		return &PersistenceError{Operation: "clear", Err: err}
	}
	if err := s.form.Clear(); err != nil {
		return err
	}

	s.inspectionID = schema.NewInspectionID()
	s.header = schema.NewInspectionHeader(s.clock())
	s.pending = nil
	if err := s.appendEvent(func(id string, at time.Time) schema.InspectionEvent {
		return &schema.FormCleared{EventID_: id, NewInspectionID: s.inspectionID, Timestamp_: at}
	}); err != nil {
		return err
	}

	s.logger.Info("inspection cleared", "inspection_id", s.inspectionID)
	s.notifier.Notify(schema.Notification{Message: msgCleared, Severity: schema.SeverityInfo})
	s.autoSave()
	return nil
}

// Snapshot returns a converged view of the form for reporting. It never
// mutates the session.
func (s *Session) Snapshot(ctx context.Context) (report.Input, error) {
	if err := ctx.Err(); err != nil {
		return report.Input{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() (report.Input, error) {
	if s.form.Busy() {
		return report.Input{}, checklist.ErrReentrantUpdate
	}
	return report.Input{
		InspectionID: s.inspectionID,
		Header:       s.header,
		Sections:     s.form.Sections(),
		Markers:      s.form.Markers(),
		Progress:     s.form.Progress(),
	}, nil
}

// Report validates the form and runs the export flow.
func (s *Session) Report(ctx context.Context, format export.Format) (*export.Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	res, err := s.exporter.Export(ctx, export.Request{Format: format})
	if err != nil {
		s.logger.Error("report failed", "format", string(format), "error", err)
		return nil, err
	}
	s.logger.Info("report generated", "report_id", res.Report.ID, "overall", res.Report.Overall)
	return res, nil
}

// record turns a converged form change into a pending event.
func (s *Session) record(c checklist.Change) {
	err := s.appendEvent(func(id string, at time.Time) schema.InspectionEvent {
		if c.Kind == schema.KindCheckbox {
			passed, failed := c.NewState.Flags()
			return &schema.CheckboxToggled{
				EventID_: id, ItemID: c.ItemID, ItemName: c.ItemName, View: c.View,
				Passed: passed, Failed: failed, Timestamp_: at,
			}
		}
		return &schema.ChoiceChanged{
			EventID_: id, ItemID: c.ItemID, ItemName: c.ItemName, View: c.View,
			OldChoice: c.OldChoice, NewChoice: c.NewChoice, State: c.NewState, Timestamp_: at,
		}
	})
	if err != nil {
		s.logger.Error("dropping change event", "item", c.ItemID.String(), "error", err)
	}
}

func (s *Session) appendEvent(build func(id string, at time.Time) schema.InspectionEvent) error {
	event, err := newEvent(build, s.clock)
	if err != nil {
		return err
	}
	s.pending = append(s.pending, event)
	return nil
}

func newEvent(build func(id string, at time.Time) schema.InspectionEvent, clock func() time.Time) (schema.InspectionEvent, error) {
	id, err := schema.NewEventID()
	if err != nil {
		return nil, fmt.Errorf("generate event id: %w", err)
	}
	return build(id, clock()), nil
}

// autoSave persists silently when enabled. Failures are logged only.
func (s *Session) autoSave() {
	if !s.cfg.AutoSave {
		return
	}
	if err := s.persist(); err != nil {
		s.logger.Error("auto-save failed", "key", s.cfg.StorageKey, "error", err)
	}
}

// persist appends pending events, then writes the state they lead to.
func (s *Session) persist() error {
	if len(s.pending) > 0 {
		if err := s.store.AppendEvents(s.cfg.StorageKey, s.pending); err != nil {
			return &PersistenceError{Operation: "append events", Err: err}
		}
		s.pending = nil
	}

	state := schema.NewSavedState(s.cfg.StorageKey, s.inspectionID)
	state.SavedAt = s.clock()
	state.Header = s.header
	state.Items = s.form.Records()
	state.Markers = s.form.Markers()
	if err := s.store.SaveState(state); err != nil {
		return &PersistenceError{Operation: "save state", Err: err}
	}
	return nil
}

func checkSeatCount(h schema.InspectionHeader) error {
	if err := schema.ValidateSeatCount(h.SeatCount); err != nil {
		var herr *schema.HeaderError
		if errors.As(err, &herr) {
			return &ValidationError{Field: herr.Field, Message: herr.Message, Err: err}
		}
		return err
	}
	return nil
}
