package repository

import (
	"context"
	"sync"

	"goatmeter-be/internal/domain"
)

// MemoryStore is an in-memory TxStore used by service and handler
// tests. RunInTx runs fn against a deep copy of the state and swaps it
// in only when fn succeeds, mirroring the all-or-nothing commit of the
// real store. FailOp/FailErr inject a failure into one named operation
// to exercise rollback paths.
type MemoryStore struct {
	mu    sync.Mutex
	state *memState

	FailOp  string
	FailErr error
}

type memState struct {
	profiles map[string]*domain.Profile
	votes    map[string]*domain.Vote
	locks    map[string]*domain.DeviceLock
	warzones map[string]*domain.WarzoneStats
	summary  *domain.GlobalSummary
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemState()}
}

func newMemState() *memState {
	return &memState{
		profiles: map[string]*domain.Profile{},
		votes:    map[string]*domain.Vote{},
		locks:    map[string]*domain.DeviceLock{},
		warzones: map[string]*domain.WarzoneStats{},
	}
}

func (st *memState) clone() *memState {
	out := newMemState()
	for k, v := range st.profiles {
		p := *v
		p.CurrentReasons = append([]string(nil), v.CurrentReasons...)
		out.profiles[k] = &p
	}
	for k, v := range st.votes {
		vc := *v
		vc.Reasons = append([]string(nil), v.Reasons...)
		out.votes[k] = &vc
	}
	for k, v := range st.locks {
		l := *v
		out.locks[k] = &l
	}
	for k, v := range st.warzones {
		w := *v
		w.StanceCounts = make(map[domain.Stance]int, len(v.StanceCounts))
		for s, n := range v.StanceCounts {
			w.StanceCounts[s] = n
		}
		out.warzones[k] = &w
	}
	if st.summary != nil {
		out.summary = st.summary.Clone()
	}
	return out
}

func (s *MemoryStore) fail(op string) error {
	if s.FailOp == op && s.FailErr != nil {
		return s.FailErr
	}
	return nil
}

// RunInTx clones the state, runs fn against the clone, and commits the
// clone on success.
func (s *MemoryStore) RunInTx(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	tx := &MemoryStore{state: snapshot, FailOp: s.FailOp, FailErr: s.FailErr}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = snapshot
	return nil
}

// ---- Profiles ----

func (s *MemoryStore) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if err := s.fail("GetProfile"); err != nil {
		return nil, err
	}
	p, ok := s.state.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.CurrentReasons = append([]string(nil), p.CurrentReasons...)
	return &cp, nil
}

func (s *MemoryStore) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	if err := s.fail("UpsertProfile"); err != nil {
		return err
	}
	existing, ok := s.state.profiles[profile.UserID]
	cp := *profile
	cp.HasProfile = true
	if ok {
		cp.HasVoted = existing.HasVoted
		cp.CurrentStance = existing.CurrentStance
		cp.CurrentReasons = append([]string(nil), existing.CurrentReasons...)
		cp.CurrentVoteID = existing.CurrentVoteID
		cp.CreatedAt = existing.CreatedAt
	}
	s.state.profiles[profile.UserID] = &cp
	return nil
}

func (s *MemoryStore) MarkProfileVoted(ctx context.Context, userID string, stance domain.Stance, reasons []string, voteID string) error {
	if err := s.fail("MarkProfileVoted"); err != nil {
		return err
	}
	p, ok := s.state.profiles[userID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.HasVoted = true
	p.CurrentStance = stance
	p.CurrentReasons = append([]string(nil), reasons...)
	p.CurrentVoteID = voteID
	return nil
}

func (s *MemoryStore) ClearProfileVote(ctx context.Context, userID string, resetProfile bool) error {
	if err := s.fail("ClearProfileVote"); err != nil {
		return err
	}
	p, ok := s.state.profiles[userID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.HasVoted = false
	p.CurrentStance = ""
	p.CurrentReasons = nil
	p.CurrentVoteID = ""
	if resetProfile {
		p.AgeGroup = ""
		p.Gender = ""
		p.WarzoneID = ""
		p.Country = ""
		p.City = ""
		p.HasProfile = false
	}
	return nil
}

func (s *MemoryStore) DeleteProfile(ctx context.Context, userID string) (bool, error) {
	if err := s.fail("DeleteProfile"); err != nil {
		return false, err
	}
	_, ok := s.state.profiles[userID]
	delete(s.state.profiles, userID)
	return ok, nil
}

// ---- Votes ----

func (s *MemoryStore) GetVote(ctx context.Context, voteID string) (*domain.Vote, error) {
	if err := s.fail("GetVote"); err != nil {
		return nil, err
	}
	v, ok := s.state.votes[voteID]
	if !ok {
		return nil, nil
	}
	cp := *v
	cp.Reasons = append([]string(nil), v.Reasons...)
	return &cp, nil
}

func (s *MemoryStore) CreateVote(ctx context.Context, vote *domain.Vote) error {
	if err := s.fail("CreateVote"); err != nil {
		return err
	}
	cp := *vote
	cp.Reasons = append([]string(nil), vote.Reasons...)
	s.state.votes[vote.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteVote(ctx context.Context, voteID string) error {
	if err := s.fail("DeleteVote"); err != nil {
		return err
	}
	delete(s.state.votes, voteID)
	return nil
}

func (s *MemoryStore) ListVoteIDsByUser(ctx context.Context, userID string, limit int) ([]string, error) {
	if err := s.fail("ListVoteIDsByUser"); err != nil {
		return nil, err
	}
	var ids []string
	for id, v := range s.state.votes {
		if v.UserID == userID {
			ids = append(ids, id)
			if len(ids) >= limit {
				break
			}
		}
	}
	return ids, nil
}

// ---- Device locks ----

func (s *MemoryStore) GetDeviceLock(ctx context.Context, deviceID string) (*domain.DeviceLock, error) {
	if err := s.fail("GetDeviceLock"); err != nil {
		return nil, err
	}
	l, ok := s.state.locks[deviceID]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (s *MemoryStore) PutDeviceLock(ctx context.Context, lock *domain.DeviceLock) error {
	if err := s.fail("PutDeviceLock"); err != nil {
		return err
	}
	cp := *lock
	s.state.locks[lock.DeviceID] = &cp
	return nil
}

func (s *MemoryStore) DeleteDeviceLock(ctx context.Context, deviceID string) error {
	if err := s.fail("DeleteDeviceLock"); err != nil {
		return err
	}
	delete(s.state.locks, deviceID)
	return nil
}

// ---- Warzone rollups ----

func (s *MemoryStore) GetWarzoneStats(ctx context.Context, warzoneID string) (*domain.WarzoneStats, error) {
	if err := s.fail("GetWarzoneStats"); err != nil {
		return nil, err
	}
	w, ok := s.state.warzones[warzoneID]
	if !ok {
		return nil, nil
	}
	cp := *w
	cp.StanceCounts = make(map[domain.Stance]int, len(w.StanceCounts))
	for st, n := range w.StanceCounts {
		cp.StanceCounts[st] = n
	}
	return &cp, nil
}

func (s *MemoryStore) IncrementWarzoneStats(ctx context.Context, warzoneID string, stance domain.Stance) error {
	if err := s.fail("IncrementWarzoneStats"); err != nil {
		return err
	}
	w, ok := s.state.warzones[warzoneID]
	if !ok {
		w = &domain.WarzoneStats{
			WarzoneID:    warzoneID,
			StanceCounts: map[domain.Stance]int{},
		}
		s.state.warzones[warzoneID] = w
	}
	w.TotalVotes++
	w.StanceCounts[stance]++
	return nil
}

func (s *MemoryStore) ApplyWarzoneDeltas(ctx context.Context, deltas map[string]domain.WarzoneDelta) error {
	if err := s.fail("ApplyWarzoneDeltas"); err != nil {
		return err
	}
	for warzoneID, delta := range deltas {
		w, ok := s.state.warzones[warzoneID]
		if !ok {
			w = &domain.WarzoneStats{
				WarzoneID:    warzoneID,
				StanceCounts: map[domain.Stance]int{},
			}
			s.state.warzones[warzoneID] = w
		}
		w.TotalVotes += delta.TotalVotes
		if w.TotalVotes < 0 {
			w.TotalVotes = 0
		}
		for st, n := range delta.StanceCounts {
			w.StanceCounts[st] += n
			if w.StanceCounts[st] < 0 {
				w.StanceCounts[st] = 0
			}
		}
	}
	return nil
}

// ---- Global summary ----

func (s *MemoryStore) GetGlobalSummary(ctx context.Context) (*domain.GlobalSummary, error) {
	if err := s.fail("GetGlobalSummary"); err != nil {
		return nil, err
	}
	if s.state.summary == nil {
		return nil, nil
	}
	return s.state.summary.Clone(), nil
}

func (s *MemoryStore) PutGlobalSummary(ctx context.Context, summary *domain.GlobalSummary) error {
	if err := s.fail("PutGlobalSummary"); err != nil {
		return err
	}
	s.state.summary = summary.Clone()
	return nil
}
