package models

import "testing"

func TestDocID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"leave.txt", "leave"},
		{"/uploads/leave.txt", "leave"},
		{"report.v2.pdf", "report.v2"},
		{"noext", "noext"},
		{"休暇規定.md", "休暇規定"},
	}
	for _, tt := range tests {
		if got := DocID(tt.in); got != tt.want {
			t.Errorf("DocID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestChunkID(t *testing.T) {
	if got := ChunkID("leave", 0); got != "leave_chunk_0" {
		t.Errorf("ChunkID = %q", got)
	}
	if got := ChunkID("leave", 12); got != "leave_chunk_12" {
		t.Errorf("ChunkID = %q", got)
	}
}
