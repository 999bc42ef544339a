package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_SingleRenameInPlace(t *testing.T) {
	plan := Classify("notes2.txt", []string{"notes.txt"}, false)

	assert.Equal(t, RenameInPlace, plan.Kind)
	assert.Equal(t, []Pair{{From: "notes.txt", To: "notes2.txt"}}, plan.Pairs)
}

func TestClassify_SingleWithSeparatorIsMove(t *testing.T) {
	for _, moveMode := range []bool{false, true} {
		plan := Classify("archive/notes.txt", []string{"notes.txt"}, moveMode)

		assert.Equal(t, Move, plan.Kind, "moveMode=%v", moveMode)
		assert.Equal(t, []Pair{{From: "notes.txt", To: "archive/notes.txt"}}, plan.Pairs)
	}
}

func TestClassify_SingleMoveModeWithoutSeparator(t *testing.T) {
	plan := Classify("notes2.txt", []string{"notes.txt"}, true)

	assert.Equal(t, Move, plan.Kind)
	assert.Equal(t, []Pair{{From: "notes.txt", To: "notes2.txt"}}, plan.Pairs)
}

func TestClassify_MoveBatch(t *testing.T) {
	plan := Classify("backups/", []string{"a.txt", "b.txt", "world"}, true)

	assert.Equal(t, MoveBatch, plan.Kind)
	assert.Equal(t, []Pair{
		{From: "a.txt", To: "backups/a.txt"},
		{From: "b.txt", To: "backups/b.txt"},
		{From: "world", To: "backups/world"},
	}, plan.Pairs)
}

func TestClassify_RenameBatchFlatTargetsSameName(t *testing.T) {
	plan := Classify("same.txt", []string{"a.txt", "b.txt"}, false)

	assert.Equal(t, RenameBatchFlat, plan.Kind)
	assert.Equal(t, []Pair{
		{From: "a.txt", To: "same.txt"},
		{From: "b.txt", To: "same.txt"},
	}, plan.Pairs)
}

func TestClassify_Idempotent(t *testing.T) {
	selected := []string{"a", "b"}
	first := Classify("dir", selected, true)
	second := Classify("dir", selected, true)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a", "b"}, selected)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a/b/c", Join("a/b", "c"))
	assert.Equal(t, "a/b/c", Join("a/b/", "c"))
	assert.Equal(t, "a/b/c", Join("a//b", "/c"))
	assert.Equal(t, "c", Join("", "c"))
	assert.Equal(t, "/plugins/b", Join("/plugins/a/..", "./b"))
	assert.Equal(t, "backups", Join("backups/", ""))
	assert.Equal(t, "../x", Join("a", "../../x"))
}

func TestDisplayPath(t *testing.T) {
	tests := []struct {
		dir, target, want string
	}{
		{"/", "../../x", "/home/container/x"},
		{"plugins", "../../x", "/home/container/x"},
		{"/plugins", "sub/a.txt", "/home/container/plugins/sub/a.txt"},
		{"/plugins", "./a.txt", "/home/container/plugins/a.txt"},
		{"/", "", "/home/container/"},
		{"", "..", "/home/container/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayPath(DefaultRootLabel, tt.dir, tt.target), "dir=%q target=%q", tt.dir, tt.target)
	}
}

func TestDisplayPath_RootLabelTrailingSlash(t *testing.T) {
	assert.Equal(t, "/srv/x", DisplayPath("/srv/", "/", "x"))
}

func TestCleanDirectory(t *testing.T) {
	assert.Equal(t, "/", CleanDirectory(""))
	assert.Equal(t, "/a/b", CleanDirectory("//a///b"))
	assert.Equal(t, "/", CleanDirectory("//"))
}

func TestChild(t *testing.T) {
	assert.Equal(t, "/plugins", Child("/", "plugins"))
	assert.Equal(t, "/plugins/x", Child("/plugins", "x"))
}
