package ui

import "testing"

func TestComputeLayout_ListOnly(t *testing.T) {
	l := ComputeLayout(100, 30, false, 40)
	if l.List != (Rect{Width: 100, Height: 29}) {
		t.Errorf("unexpected list rect %+v", l.List)
	}
	if !l.Detail.Empty() {
		t.Errorf("detail should be hidden, got %+v", l.Detail)
	}
	if l.Footer != (Rect{Y: 29, Width: 100, Height: 1}) {
		t.Errorf("unexpected footer rect %+v", l.Footer)
	}
}

func TestComputeLayout_DualPane(t *testing.T) {
	l := ComputeLayout(100, 30, true, 40)
	if l.List.Width != 40 || l.Detail.X != 40 || l.Detail.Width != 60 {
		t.Errorf("unexpected split: list %+v detail %+v", l.List, l.Detail)
	}
	if !l.Resizable() {
		t.Error("expected resizable layout")
	}
}

func TestComputeLayout_NarrowShowsDetailOnly(t *testing.T) {
	l := ComputeLayout(MinDualPaneWidth-1, 20, true, 40)
	if !l.List.Empty() {
		t.Errorf("list should be hidden on narrow terminals, got %+v", l.List)
	}
	if l.Detail.Width != MinDualPaneWidth-1 {
		t.Errorf("detail should take full width, got %+v", l.Detail)
	}
	if l.Resizable() {
		t.Error("single pane should not be resizable")
	}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 5, Width: 3, Height: 2}
	tests := []struct {
		x, y int
		want bool
	}{
		{10, 5, true},
		{12, 6, true},
		{13, 5, false},
		{9, 5, false},
		{10, 7, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if (Rect{}).Contains(0, 0) {
		t.Error("empty rect contains nothing")
	}
}

func TestOnSplitHandle(t *testing.T) {
	l := ComputeLayout(100, 30, true, 40)
	if !l.OnSplitHandle(39, 10) || !l.OnSplitHandle(40, 10) {
		t.Error("expected both border columns to be the handle")
	}
	if l.OnSplitHandle(38, 10) || l.OnSplitHandle(41, 10) {
		t.Error("columns beside the border are not the handle")
	}
	if l.OnSplitHandle(39, 29) {
		t.Error("footer row is not part of the handle")
	}
	if ComputeLayout(100, 30, false, 40).OnSplitHandle(39, 10) {
		t.Error("no handle without a detail pane")
	}
}

func TestSplitFromMouseX(t *testing.T) {
	l := ComputeLayout(100, 30, true, 40)
	tests := []struct {
		x    int
		want int
	}{
		{49, 50},
		{59, 60},
		{0, 20},
		{-5, 20},
		{99, 80},
		{500, 80},
	}
	for _, tt := range tests {
		got, ok := l.SplitFromMouseX(tt.x)
		if !ok || got != tt.want {
			t.Errorf("SplitFromMouseX(%d) = %d,%v want %d", tt.x, got, ok, tt.want)
		}
	}
	if _, ok := ComputeLayout(100, 30, false, 40).SplitFromMouseX(50); ok {
		t.Error("expected no split without both panes")
	}
}

func TestAdjustSplit(t *testing.T) {
	if got := AdjustSplit(40, SplitStep); got != 45 {
		t.Errorf("expected 45, got %d", got)
	}
	if got := AdjustSplit(20, -SplitStep); got != 20 {
		t.Errorf("expected clamp at 20, got %d", got)
	}
	if got := AdjustSplit(80, SplitStep); got != 80 {
		t.Errorf("expected clamp at 80, got %d", got)
	}
}

func TestFocusToggle(t *testing.T) {
	if FocusList.Toggle() != FocusDetail || FocusDetail.Toggle() != FocusList {
		t.Error("Toggle should swap panes")
	}
}
