package service

import (
	"context"
	"movie_curator/model"
	"movie_curator/pkg/debounce"
	"movie_curator/pkg/logger"
	"movie_curator/pkg/metrics"
	"sync"
	"time"
)

// Session is the server-side state of one user: the canonical record set fed by
// the collection watcher plus the transient state of the search and analysis flows.
type Session struct {
	UserId string

	mux           sync.RWMutex
	records       []model.MovieRecord
	synced        chan struct{}
	syncedOnce    sync.Once
	done          chan struct{}
	watchErr      error
	activeTab     model.Tab
	searchQuery   string
	searchResults []model.SearchResult
	searching     bool
	feedback      *model.Feedback
	analysis      *model.TasteAnalysisResult
	analyzing     bool
	lastError     string
	listeners     map[uint64]chan struct{}
	nextListener  uint64

	// inserts not yet seen in a snapshot, by movie id
	addMux         sync.Mutex
	pendingInserts map[string]pendingInsert

	searchDebouncer   *debounce.Debouncer
	feedbackDebouncer *debounce.Debouncer
	lingerDebouncer   *debounce.Debouncer
	cancel            context.CancelFunc
	refs              int
}

type pendingInsert struct {
	record     model.MovieRecord
	insertedAt time.Time
}

// pendingInsertTtl bounds how long an insert is trusted without showing up in a snapshot.
const pendingInsertTtl = time.Minute

// SessionState is a copy of a session taken under its lock.
type SessionState struct {
	Records       []model.MovieRecord
	ActiveTab     model.Tab
	SearchQuery   string
	SearchResults []model.SearchResult
	Searching     bool
	Feedback      *model.Feedback
	Analysis      *model.TasteAnalysisResult
	Analyzing     bool
	LastError     string
}

func newSession(userId string, searchDebounce time.Duration, feedbackDuration time.Duration, linger time.Duration) *Session {
	return &Session{
		UserId:            userId,
		synced:            make(chan struct{}),
		done:              make(chan struct{}),
		activeTab:         model.TabSearch,
		listeners:         make(map[uint64]chan struct{}),
		pendingInserts:    make(map[string]pendingInsert),
		searchDebouncer:   debounce.New(searchDebounce),
		feedbackDebouncer: debounce.New(feedbackDuration),
		lingerDebouncer:   debounce.New(linger),
	}
}

//------------------------------------------
//------------------------------------------

func (s *Session) State() SessionState {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return SessionState{
		Records:       append([]model.MovieRecord(nil), s.records...),
		ActiveTab:     s.activeTab,
		SearchQuery:   s.searchQuery,
		SearchResults: append([]model.SearchResult(nil), s.searchResults...),
		Searching:     s.searching,
		Feedback:      s.feedback,
		Analysis:      s.analysis,
		Analyzing:     s.analyzing,
		LastError:     s.lastError,
	}
}

func (s *Session) Records() []model.MovieRecord {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return append([]model.MovieRecord(nil), s.records...)
}

func (s *Session) Analysis() *model.TasteAnalysisResult {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.analysis
}

// WaitSynced blocks until the first snapshot arrived.
func (s *Session) WaitSynced(ctx context.Context) error {
	select {
	case <-s.synced:
		return nil
	default:
	}
	select {
	case <-s.synced:
		return nil
	case <-s.done:
		return model.NewTransportError(model.ErrStoreNotSynced.Message, s.watchError())
	case <-ctx.Done():
		return model.ErrStoreNotSynced
	}
}

// Done is closed when the live subscription of the session ended.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Subscribe returns a channel signalled after every state change. Signals are
// coalesced, a listener only learns that it should re-read the state.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	s.mux.Lock()
	defer s.mux.Unlock()
	id := s.nextListener
	s.nextListener++
	ch := make(chan struct{}, 1)
	s.listeners[id] = ch
	return ch, func() {
		s.mux.Lock()
		defer s.mux.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) Notify() {
	s.mux.RLock()
	defer s.mux.RUnlock()
	for _, ch := range s.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

//------------------------------------------
//------------------------------------------

func (s *Session) SetTab(tab model.Tab) {
	s.mux.Lock()
	s.activeTab = tab
	s.mux.Unlock()
	s.Notify()
}

func (s *Session) applySnapshot(records []model.MovieRecord) {
	s.mux.Lock()
	s.records = records
	for id := range s.pendingInserts {
		if FindById(records, id) != nil {
			delete(s.pendingInserts, id)
		}
	}
	s.mux.Unlock()
	s.syncedOnce.Do(func() { close(s.synced) })
	s.Notify()
}

// findByTitle looks a title up in the last snapshot, then in the inserts the
// snapshot does not show yet. It returns a copy.
func (s *Session) findByTitle(title string) *model.MovieRecord {
	s.mux.Lock()
	defer s.mux.Unlock()
	if record := FindByTitle(s.records, title); record != nil {
		found := *record
		return &found
	}
	for id, p := range s.pendingInserts {
		if time.Since(p.insertedAt) > pendingInsertTtl {
			delete(s.pendingInserts, id)
			continue
		}
		if p.record.SameTitle(title) {
			found := p.record
			return &found
		}
	}
	return nil
}

func (s *Session) rememberInsert(record model.MovieRecord) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if FindById(s.records, record.Id) != nil {
		return
	}
	s.pendingInserts[record.Id] = pendingInsert{record: record, insertedAt: time.Now()}
}

// applyToPendingInsert keeps a pending insert in step with a mutation written to it.
func (s *Session) applyToPendingInsert(movieId string, mutation model.Mutation) {
	s.mux.Lock()
	defer s.mux.Unlock()
	p, ok := s.pendingInserts[movieId]
	if !ok {
		return
	}
	switch mutation.Kind {
	case model.MutationDelete:
		delete(s.pendingInserts, movieId)
	case model.MutationUpdate:
		if v, ok := mutation.Fields["watched"].(bool); ok {
			p.record.Watched = v
		}
		if v, ok := mutation.Fields["onWatchlist"].(bool); ok {
			p.record.OnWatchlist = v
		}
		s.pendingInserts[movieId] = p
	}
}

func (s *Session) setFeedback(feedback *model.Feedback) {
	s.mux.Lock()
	s.feedback = feedback
	s.mux.Unlock()
	s.Notify()

	// a newer feedback restarts the window
	s.feedbackDebouncer.Trigger(func() {
		s.mux.Lock()
		if s.feedback == feedback {
			s.feedback = nil
		}
		s.mux.Unlock()
		s.Notify()
	})
}

func (s *Session) setSearchQuery(query string) {
	s.mux.Lock()
	s.searchQuery = query
	s.mux.Unlock()
}

func (s *Session) setSearching(query string, searching bool) bool {
	s.mux.Lock()
	if s.searchQuery != query {
		s.mux.Unlock()
		return false
	}
	s.searching = searching
	s.mux.Unlock()
	s.Notify()
	return true
}

// setSearchResults stores results only if they answer the latest query.
func (s *Session) setSearchResults(query string, results []model.SearchResult, errMessage string) bool {
	s.mux.Lock()
	if s.searchQuery != query {
		s.mux.Unlock()
		return false
	}
	s.searchResults = results
	s.searching = false
	s.lastError = errMessage
	s.mux.Unlock()
	s.Notify()
	return true
}

func (s *Session) setError(message string) {
	s.mux.Lock()
	s.lastError = message
	s.mux.Unlock()
	s.Notify()
}

func (s *Session) beginAnalysis() bool {
	s.mux.Lock()
	if s.analyzing {
		s.mux.Unlock()
		return false
	}
	s.analyzing = true
	s.lastError = ""
	s.mux.Unlock()
	s.Notify()
	return true
}

// endAnalysis publishes result in one step; a nil result keeps the previous one.
func (s *Session) endAnalysis(result *model.TasteAnalysisResult, errMessage string) {
	s.mux.Lock()
	s.analyzing = false
	if result != nil {
		s.analysis = result
	}
	s.lastError = errMessage
	s.mux.Unlock()
	s.Notify()
}

func (s *Session) closeWatch(err error) {
	s.mux.Lock()
	s.watchErr = err
	s.mux.Unlock()
	close(s.done)
	s.searchDebouncer.Cancel()
	s.feedbackDebouncer.Cancel()
	s.Notify()
}

func (s *Session) watchError() error {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.watchErr
}

//------------------------------------------
//------------------------------------------

type ISessionManager interface {
	Acquire(userId string) *Session
	Release(s *Session)
}

// SessionManager keeps one live subscription per user, shared by every request
// and websocket of that user. A session is torn down once its last holder
// released it and the linger period passed without a new acquire.
type SessionManager struct {
	watcher          ICollectionWatcher
	searchDebounce   time.Duration
	feedbackDuration time.Duration
	linger           time.Duration

	mux      sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager(watcher ICollectionWatcher, searchDebounce time.Duration, feedbackDuration time.Duration, linger time.Duration) *SessionManager {
	return &SessionManager{
		watcher:          watcher,
		searchDebounce:   searchDebounce,
		feedbackDuration: feedbackDuration,
		linger:           linger,
		sessions:         make(map[string]*Session),
	}
}

func (m *SessionManager) Acquire(userId string) *Session {
	m.mux.Lock()
	defer m.mux.Unlock()

	if s, ok := m.sessions[userId]; ok {
		s.refs++
		s.lingerDebouncer.Cancel()
		return s
	}

	s := newSession(userId, m.searchDebounce, m.feedbackDuration, m.linger)
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.refs = 1
	m.sessions[userId] = s
	metrics.ActiveSessions.Inc()

	go func() {
		err := m.watcher.Watch(ctx, userId, s.applySnapshot)
		if err != nil {
			logger.Warn().Err(err).Str("userId", userId).Msg("collection subscription ended")
		}
		m.remove(s)
		cancel()
		s.closeWatch(err)
	}()
	return s
}

func (m *SessionManager) Release(s *Session) {
	m.mux.Lock()
	s.refs--
	refs := s.refs
	m.mux.Unlock()
	if refs > 0 {
		return
	}

	if m.linger <= 0 {
		m.teardown(s)
		return
	}
	s.lingerDebouncer.Trigger(func() {
		m.teardown(s)
	})
}

// Notify wakes the listeners of a user's session, if one is live.
func (m *SessionManager) Notify(userId string) {
	m.mux.Lock()
	s, ok := m.sessions[userId]
	m.mux.Unlock()
	if ok {
		s.Notify()
	}
}

func (m *SessionManager) Count() int {
	m.mux.Lock()
	defer m.mux.Unlock()
	return len(m.sessions)
}

// Close cancels every live subscription.
func (m *SessionManager) Close() {
	m.mux.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mux.Unlock()

	for _, s := range sessions {
		s.lingerDebouncer.Cancel()
		m.remove(s)
		s.cancel()
	}
}

//------------------------------------------
//------------------------------------------

func (m *SessionManager) teardown(s *Session) {
	m.mux.Lock()
	if s.refs > 0 {
		m.mux.Unlock()
		return
	}
	m.removeLocked(s)
	m.mux.Unlock()
	s.cancel()
}

func (m *SessionManager) remove(s *Session) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.removeLocked(s)
}

func (m *SessionManager) removeLocked(s *Session) {
	if m.sessions[s.UserId] == s {
		delete(m.sessions, s.UserId)
		metrics.ActiveSessions.Dec()
	}
}
