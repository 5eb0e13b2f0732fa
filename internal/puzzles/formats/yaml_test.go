package formats

import "testing"

func TestParseYAML(t *testing.T) {
	data := []byte(`
id: t1
placements: 4
powerups:
  bomb: 1
board:
  - "013"
  - ".20"
`)
	pz, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if pz.Name != "t1" {
		t.Errorf("name should default to id, got %q", pz.Name)
	}
	if pz.Placements != 4 || pz.Powerups["bomb"] != 1 {
		t.Errorf("unexpected puzzle %+v", pz)
	}
	want := [][]int{{0, 1, 3}, {0, 2, 0}}
	for r := range want {
		for c := range want[r] {
			if pz.Board[r][c] != want[r][c] {
				t.Errorf("board[%d][%d] = %d, expected %d", r, c, pz.Board[r][c], want[r][c])
			}
		}
	}
}

func TestParseYAMLRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing id", "placements: 1\nboard: [\"1\"]\n"},
		{"negative placements", "id: x\nplacements: -1\nboard: [\"1\"]\n"},
		{"charge too high", "id: x\nplacements: 1\nboard: [\"14\"]\n"},
		{"letters", "id: x\nplacements: 1\nboard: [\"1a\"]\n"},
		{"ragged", "id: x\nplacements: 1\nboard: [\"12\", \"1\"]\n"},
		{"no board", "id: x\nplacements: 1\n"},
		{"bad yaml", "id: [x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseYAML([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
