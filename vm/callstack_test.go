package vm

import "testing"

func TestCallStackBound(t *testing.T) {
	s := NewCallStack(2)
	if !s.Push(Frame{Return: 1}) || !s.Push(Frame{Return: 2}) {
		t.Fatal("Push failed below the bound")
	}
	if s.Push(Frame{Return: 3}) {
		t.Error("Push succeeded past the bound")
	}
	if s.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", s.Depth())
	}
}

func TestCallStackPopOrder(t *testing.T) {
	s := NewCallStack(0)
	if s.Max() != DefaultMaxCallDepth {
		t.Errorf("Max() = %d, want %d", s.Max(), DefaultMaxCallDepth)
	}
	s.Push(Frame{Return: 4, Function: "outer"})
	s.Push(Frame{Return: 9, Function: "inner"})

	for _, want := range []int{9, 4} {
		f, ok := s.Pop()
		if !ok || f.Return != want {
			t.Errorf("Pop() = %+v, %v; want return %d", f, ok, want)
		}
	}
	if _, ok := s.Pop(); ok {
		t.Error("Pop() on empty stack reported a frame")
	}
}
