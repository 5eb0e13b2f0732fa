package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Errorf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", s.Get(5, 5))
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' {
		t.Errorf("Out of bounds Get should return space")
	}
}

func TestScreenCellColours(t *testing.T) {
	s := NewScreen(4, 2)

	s.SetCell(1, 1, Cell{Rune: '●', FG: ColorRed, Bold: true})
	c := s.GetCell(1, 1)
	if c.Rune != '●' || c.FG != ColorRed || !c.Bold {
		t.Errorf("GetCell(1, 1) = %+v", c)
	}

	// Plain Set resets the colour
	s.Set(1, 1, 'x')
	if c := s.GetCell(1, 1); c.FG != ColorDefault || c.Bold {
		t.Errorf("Set should write an uncoloured cell, got %+v", c)
	}

	if c := s.GetCell(9, 9); c.Rune != ' ' || c.FG != ColorDefault {
		t.Errorf("Out of bounds GetCell = %+v, expected blank", c)
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(5, 5)
	s.FillRect(NewRect(0, 0, 5, 5), Cell{Rune: '#', FG: ColorTeal})
	s.Clear()

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.FG != ColorDefault {
				t.Errorf("After Clear, expected blank at (%d, %d), got %+v", x, y, c)
			}
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextColor(2, 1, "Drops 3", ColorAccent)

	if got := s.Row(1); !strings.HasPrefix(got, "  Drops 3") {
		t.Errorf("Row(1) = %q", got)
	}
	if s.GetCell(4, 1).FG != ColorAccent {
		t.Errorf("expected accent colour on drawn text")
	}

	// Clipping: text running off the right edge must not panic
	s.DrawText(18, 0, "abcdef")
	if s.Get(19, 0) != 'b' {
		t.Errorf("Get(19, 0) = %q, expected 'b'", s.Get(19, 0))
	}
}

func TestScreenDrawTextCenteredCountsRunes(t *testing.T) {
	s := NewScreen(11, 1)
	s.DrawTextCentered(0, "●●●", ColorRed)

	if got := s.Row(0); got != "    ●●●    " {
		t.Errorf("Row(0) = %q", got)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(5, 4)
	s.DrawBox(NewRect(0, 0, 5, 4), ColorFrame)

	expected := []string{
		"╭───╮",
		"│   │",
		"│   │",
		"╰───╯",
	}
	for y, want := range expected {
		if got := s.Row(y); got != want {
			t.Errorf("Row(%d) = %q, expected %q", y, got, want)
		}
	}
	if s.GetCell(0, 0).FG != ColorFrame {
		t.Errorf("box should use the frame colour")
	}
}

func TestScreenDrawBoxTooSmall(t *testing.T) {
	s := NewScreen(3, 3)
	s.DrawBox(NewRect(0, 0, 1, 3), ColorFrame)
	if s.String() != "   \n   \n   " {
		t.Errorf("degenerate box should draw nothing, got %q", s.String())
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(4, 4)
	s.Set(1, 1, 'X')
	s.Resize(6, 3)

	if s.Width() != 6 || s.Height() != 3 {
		t.Errorf("Resize() = %dx%d, expected 6x3", s.Width(), s.Height())
	}
	if s.Get(1, 1) != ' ' {
		t.Errorf("Resize should clear content")
	}
}

func TestScreenRowOutOfBounds(t *testing.T) {
	s := NewScreen(3, 1)
	if got := s.Row(5); got != "   " {
		t.Errorf("Row(5) = %q, expected spaces", got)
	}
}

func TestChargeColor(t *testing.T) {
	tests := []struct {
		charge   int
		expected Color
	}{
		{0, ColorDim},
		{1, ColorTeal},
		{2, ColorOrange},
		{3, ColorRed},
		{4, ColorRed},
	}
	for _, tc := range tests {
		if got := ChargeColor(tc.charge); got != tc.expected {
			t.Errorf("ChargeColor(%d) = %v, expected %v", tc.charge, got, tc.expected)
		}
	}
}
