package app

import (
	"context"
	"sort"
	"sync"

	"quizmaster/internal/domain"
)

// ResultLog abstracts the append-only result table. The file log implements
// it directly; the Redis cache wraps it for reads.
type ResultLog interface {
	Append(ctx context.Context, row domain.ResultRow) error
	ReadAll(ctx context.Context) ([]domain.ResultRow, error)
}

// LeaderboardService ranks the result log and notifies subscribers whenever
// a new result is recorded.
type LeaderboardService struct {
	log ResultLog

	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewLeaderboardService(log ResultLog) *LeaderboardService {
	return &LeaderboardService{
		log:         log,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// Rank sorts rows by score descending, ties keeping append order, and
// assigns ranks 1..N. The input is never dropped or duplicated.
func Rank(rows []domain.ResultRow) domain.Leaderboard {
	sorted := make([]domain.ResultRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	ranked := make([]domain.RankedRow, len(sorted))
	for i, row := range sorted {
		ranked[i] = domain.RankedRow{Rank: i + 1, ResultRow: row}
	}
	return domain.Leaderboard{Rows: ranked}
}

// Board returns the current ranked leaderboard.
func (s *LeaderboardService) Board(ctx context.Context) (domain.Leaderboard, error) {
	rows, err := s.log.ReadAll(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return Rank(rows), nil
}

// Record appends one result row and broadcasts the re-ranked board.
func (s *LeaderboardService) Record(ctx context.Context, row domain.ResultRow) (domain.Leaderboard, error) {
	if err := s.log.Append(ctx, row); err != nil {
		return domain.Leaderboard{}, err
	}
	board, err := s.Board(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	s.broadcast(board)
	return board, nil
}

// Subscribe returns a channel receiving board snapshots, primed with the
// current board. The caller must invoke cancel to avoid leaks.
func (s *LeaderboardService) Subscribe(ctx context.Context) (<-chan domain.Leaderboard, func(), error) {
	initial, err := s.Board(ctx)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan domain.Leaderboard, 8)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel, nil
}

func (s *LeaderboardService) broadcast(board domain.Leaderboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- board:
		default:
			// Drop the stale snapshot so a slow subscriber never blocks the writer.
			select {
			case <-ch:
			default:
			}
			ch <- board
		}
	}
}
