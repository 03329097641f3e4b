package pagination

import (
	"errors"
	"testing"
)

func TestNewState(t *testing.T) {
	s := NewState()

	if s.CurrentPage() != 1 {
		t.Errorf("CurrentPage() = %d, want 1", s.CurrentPage())
	}
	if s.PageSize() != DefaultPageSize {
		t.Errorf("PageSize() = %d, want %d", s.PageSize(), DefaultPageSize)
	}
	if s.TotalItems() != 0 {
		t.Errorf("TotalItems() = %d, want 0", s.TotalItems())
	}
	if q := s.Query(); q != (Query{Offset: 0, Limit: 5}) {
		t.Errorf("Query() = %+v, want {0 5}", q)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total    int
		pageSize int
		want     int
	}{
		{0, 5, 0},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{47, 5, 10},
		{194, 30, 7},
		{10, 0, 0},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.pageSize); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
		}
	}
}

func TestState_SetPageSize(t *testing.T) {
	s := NewState()
	if _, err := s.ApplyFetchResult(100); err != nil {
		t.Fatalf("ApplyFetchResult() error = %v", err)
	}
	s.GoToPage(3)

	changed, err := s.SetPageSize(10)
	if err != nil {
		t.Fatalf("SetPageSize(10) error = %v", err)
	}
	if !changed {
		t.Error("SetPageSize(10) from page 3 should change the query")
	}
	if s.CurrentPage() != 1 || s.Offset() != 0 || s.Limit() != 10 {
		t.Errorf("after SetPageSize(10): page=%d offset=%d limit=%d, want 1/0/10",
			s.CurrentPage(), s.Offset(), s.Limit())
	}
}

func TestState_SetPageSize_Idempotent(t *testing.T) {
	s := NewState()

	changed, err := s.SetPageSize(DefaultPageSize)
	if err != nil {
		t.Fatalf("SetPageSize() error = %v", err)
	}
	if changed {
		t.Error("SetPageSize with the current size on page 1 should not change the query")
	}
	if s.CurrentPage() != 1 || s.Offset() != 0 {
		t.Errorf("page=%d offset=%d, want 1/0", s.CurrentPage(), s.Offset())
	}
}

func TestState_SetPageSize_Invalid(t *testing.T) {
	for _, size := range []int{0, -5, 7, 15, 100} {
		s := NewState()
		s.ApplyFetchResult(50)
		s.GoToPage(4)

		_, err := s.SetPageSize(size)
		if !errors.Is(err, ErrInvalidPageSize) {
			t.Errorf("SetPageSize(%d) error = %v, want ErrInvalidPageSize", size, err)
		}
		if s.PageSize() != DefaultPageSize || s.CurrentPage() != 4 {
			t.Errorf("SetPageSize(%d) mutated state: size=%d page=%d", size, s.PageSize(), s.CurrentPage())
		}
	}
}

func TestNewStateWithPageSize(t *testing.T) {
	s, err := NewStateWithPageSize(20)
	if err != nil {
		t.Fatalf("NewStateWithPageSize(20) error = %v", err)
	}
	if s.PageSize() != 20 {
		t.Errorf("PageSize() = %d, want 20", s.PageSize())
	}

	if _, err := NewStateWithPageSize(3); !errors.Is(err, ErrInvalidPageSize) {
		t.Errorf("NewStateWithPageSize(3) error = %v, want ErrInvalidPageSize", err)
	}
}

func TestState_GoToPage(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		target      int
		wantPage    int
		wantOffset  int
		wantChanged bool
	}{
		{"middle page", 47, 4, 4, 15, true},
		{"last page", 47, 10, 10, 45, true},
		{"above range clamps to last", 47, 99, 10, 45, true},
		{"zero clamps to first", 47, 0, 1, 0, false},
		{"negative clamps to first", 47, -3, 1, 0, false},
		{"no items stays on first", 0, 5, 1, 0, false},
		{"same page", 47, 1, 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.ApplyFetchResult(tt.total)

			changed := s.GoToPage(tt.target)
			if changed != tt.wantChanged {
				t.Errorf("GoToPage(%d) changed = %v, want %v", tt.target, changed, tt.wantChanged)
			}
			if s.CurrentPage() != tt.wantPage {
				t.Errorf("CurrentPage() = %d, want %d", s.CurrentPage(), tt.wantPage)
			}
			if s.Offset() != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", s.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestState_ApplyFetchResult_ReclampsShrunkTotal(t *testing.T) {
	s := NewState()
	s.ApplyFetchResult(47)
	s.GoToPage(10)

	changed, err := s.ApplyFetchResult(12)
	if err != nil {
		t.Fatalf("ApplyFetchResult() error = %v", err)
	}
	if !changed {
		t.Error("shrinking total below the current page should report a query change")
	}
	if s.CurrentPage() != 3 {
		t.Errorf("CurrentPage() = %d, want 3", s.CurrentPage())
	}

	changed, _ = s.ApplyFetchResult(0)
	if !changed || s.CurrentPage() != 1 {
		t.Errorf("ApplyFetchResult(0): changed=%v page=%d, want true/1", changed, s.CurrentPage())
	}
}

func TestState_ApplyFetchResult_KeepsPage(t *testing.T) {
	s := NewState()
	s.ApplyFetchResult(47)
	s.GoToPage(2)

	changed, err := s.ApplyFetchResult(100)
	if err != nil {
		t.Fatalf("ApplyFetchResult() error = %v", err)
	}
	if changed || s.CurrentPage() != 2 {
		t.Errorf("changed=%v page=%d, want false/2", changed, s.CurrentPage())
	}
}

func TestState_ApplyFetchResult_Negative(t *testing.T) {
	s := NewState()
	s.ApplyFetchResult(20)

	if _, err := s.ApplyFetchResult(-1); !errors.Is(err, ErrInvalidTotal) {
		t.Errorf("ApplyFetchResult(-1) error = %v, want ErrInvalidTotal", err)
	}
	if s.TotalItems() != 20 {
		t.Errorf("TotalItems() = %d, want 20", s.TotalItems())
	}
}

func TestState_NavigationFlags(t *testing.T) {
	s := NewState()
	if s.HasPrevious() || s.HasNext() {
		t.Error("empty catalog should disable both Previous and Next")
	}

	s.ApplyFetchResult(47)
	if s.HasPrevious() || !s.HasNext() {
		t.Error("page 1 of 10: Previous disabled, Next enabled")
	}

	s.GoToPage(10)
	if !s.HasPrevious() || s.HasNext() {
		t.Error("page 10 of 10: Previous enabled, Next disabled")
	}
}

// TestState_InvariantHolds drives a deterministic sequence of transitions and
// checks the page bound after each one.
func TestState_InvariantHolds(t *testing.T) {
	s := NewState()
	sizes := AllowedPageSizes
	totals := []int{0, 1, 47, 194, 3, 0, 60}

	for i := 0; i < 200; i++ {
		switch i % 3 {
		case 0:
			s.SetPageSize(sizes[i%len(sizes)])
		case 1:
			s.GoToPage((i*7)%25 - 5)
		case 2:
			s.ApplyFetchResult(totals[i%len(totals)])
		}

		if s.CurrentPage() < 1 || s.CurrentPage() > s.LastPage() {
			t.Fatalf("step %d: page %d outside [1, %d]", i, s.CurrentPage(), s.LastPage())
		}
		if s.Offset() < 0 {
			t.Fatalf("step %d: negative offset %d", i, s.Offset())
		}
	}
}

func TestPageSizeOptions(t *testing.T) {
	opts := PageSizeOptions()
	opts[0] = 999

	if AllowedPageSizes[0] != 5 {
		t.Error("PageSizeOptions must return a copy")
	}
	if !IsAllowedPageSize(30) || IsAllowedPageSize(25) {
		t.Error("IsAllowedPageSize mismatch")
	}
}
