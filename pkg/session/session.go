package session

import (
	"sync"
	"time"

	"github.com/karbar/resumeforge/pkg/record"
	"github.com/karbar/resumeforge/pkg/schema"
	"github.com/looplab/fsm"
)

// Conversation states.
const (
	StateMenu            = "menu"
	StateCollecting      = "collecting"
	StateAwaitingVacancy = "awaiting_vacancy"
	StateEditingSections = "editing_sections"
	StateFeedback        = "collecting_feedback"
)

// Conversation events.
const (
	EventBegin             = "begin"
	EventQuestionsDone     = "questions_done"
	EventVacancyReceived   = "vacancy_received"
	EventFinalize          = "finalize"
	EventFeedbackRequested = "feedback_requested"
	EventFeedbackDone      = "feedback_done"
	EventReset             = "reset"
)

// HistoryEntry is one answered step, recorded for back-navigation. Skips are
// deliberately not recorded.
type HistoryEntry struct {
	Section     schema.SectionKey
	QuestionIdx int
	Value       string
}

// ResumeMeta describes one generated resume for the "my resumes" listing.
type ResumeMeta struct {
	Name      string
	Template  string
	CreatedAt time.Time
}

// Session is the per-user conversation state plus the record being built.
// Callers must hold Mu across any read-modify cycle; the controller locks it
// per incoming event so one user's operations are strictly sequential.
type Session struct {
	Mu sync.Mutex

	UserID       string
	Username     string
	RegisteredAt time.Time

	State  *fsm.FSM
	Record *record.Record

	Section     schema.SectionKey
	QuestionIdx int
	Item        record.Item
	History     []HistoryEntry

	// AwaitingMore is set between committing a repeatable item and the
	// user's add-another / continue decision.
	AwaitingMore bool

	EditingMode      bool
	EditingSectionID string
	EditingItemIndex int

	FeedbackIdx      int
	Feedback         record.Feedback
	CommentRequested bool

	// Pending is set while an extract/compile for this session is in
	// flight; new input is answered with a wait notice until it clears.
	Pending bool

	Resumes []ResumeMeta
}

// New creates a session in the menu state.
func New(userID string) (s *Session) {
	s = &Session{
		UserID:           userID,
		RegisteredAt:     time.Now(),
		Record:           &record.Record{},
		Item:             record.Item{},
		EditingItemIndex: -1,
		State:            newConversationFSM(),
	}
	return s
}

func newConversationFSM() (machine *fsm.FSM) {
	machine = fsm.NewFSM(
		StateMenu,
		fsm.Events{
			{Name: EventBegin, Src: []string{StateMenu, StateFeedback}, Dst: StateCollecting},
			{Name: EventQuestionsDone, Src: []string{StateCollecting}, Dst: StateAwaitingVacancy},
			{Name: EventVacancyReceived, Src: []string{StateAwaitingVacancy}, Dst: StateEditingSections},
			{Name: EventFinalize, Src: []string{StateEditingSections}, Dst: StateFeedback},
			{Name: EventFeedbackRequested, Src: []string{StateMenu}, Dst: StateFeedback},
			{Name: EventFeedbackDone, Src: []string{StateFeedback}, Dst: StateMenu},
			{Name: EventReset, Src: []string{StateCollecting, StateAwaitingVacancy, StateEditingSections, StateFeedback}, Dst: StateMenu},
		},
		fsm.Callbacks{},
	)
	return machine
}

// ResetCollection rewinds the questionnaire to the first question of the
// first section and drops navigation state, keeping the record.
func (s *Session) ResetCollection() {
	s.Section = schema.First()
	s.QuestionIdx = 0
	s.Item = record.Item{}
	s.History = nil
	s.AwaitingMore = false
	s.EditingMode = false
	s.EditingSectionID = ""
	s.EditingItemIndex = -1
}

// PushHistory records an answered step for back-navigation.
func (s *Session) PushHistory(section schema.SectionKey, questionIdx int, value string) {
	s.History = append(s.History, HistoryEntry{Section: section, QuestionIdx: questionIdx, Value: value})
}

// PopHistory removes and returns the most recent answered step. ok is false
// when the history is empty.
func (s *Session) PopHistory() (entry HistoryEntry, ok bool) {
	if len(s.History) == 0 {
		return entry, ok
	}
	entry = s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	ok = true
	return entry, ok
}

// Store is the in-memory session table keyed by user identifier. Distinct
// users are independent; the table itself supports concurrent insertion.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() (store *Store) {
	store = &Store{sessions: make(map[string]*Session)}
	return store
}

// Get returns the session for a user, creating it on first interaction.
func (st *Store) Get(userID string) (s *Session) {
	st.mu.RLock()
	s, ok := st.sessions[userID]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	// Re-check: another goroutine may have inserted between the locks.
	s, ok = st.sessions[userID]
	if !ok {
		s = New(userID)
		st.sessions[userID] = s
	}
	return s
}

// Len reports the number of live sessions.
func (st *Store) Len() (n int) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	n = len(st.sessions)
	return n
}
