package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.lsp.dev/uri"
	"go.uber.org/goleak"
)

func TestSessionStateString(t *testing.T) {
	tests := []struct {
		state    SessionState
		expected string
	}{
		{StateUnstarted, "unstarted"},
		{StateStarting, "starting"},
		{StateReady, "ready"},
		{StateStopped, "stopped"},
		{SessionState(99), "unstarted"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.state.String())
	}
}

func TestHasDocument(t *testing.T) {
	s := &Session{
		Documents: []uri.URI{
			"file:///work/App/Program.cs",
			"file:///work/Lib/Helper.cs",
		},
	}

	assert.True(t, s.HasDocument("file:///work/App/Program.cs"))
	assert.False(t, s.HasDocument("file:///work/App/Other.cs"))

	empty := &Session{}
	assert.False(t, empty.HasDocument("file:///work/App/Program.cs"))
}

func TestSolutionRoot(t *testing.T) {
	root := SolutionRoot("/work/sample/Sample.sln")
	assert.Equal(t, RootKindSolution, root.Kind)
	assert.Equal(t, "/work/sample/Sample.sln", root.Solution)
	assert.Equal(t, "/work/sample", root.Directory)
	assert.False(t, root.IsZero())
}

func TestProjectSetRoot(t *testing.T) {
	root := ProjectSetRoot("/work/sample", []string{"/work/sample/App/App.csproj"})
	assert.Equal(t, RootKindProjectSet, root.Kind)
	assert.Equal(t, "/work/sample", root.Directory)
	assert.Equal(t, []string{"/work/sample/App/App.csproj"}, root.Projects)
	assert.False(t, root.IsZero())
}

func TestWorkspaceRootKey(t *testing.T) {
	t.Run("zero root", func(t *testing.T) {
		root := WorkspaceRoot{}
		assert.True(t, root.IsZero())
		assert.Empty(t, root.Key())
	})

	t.Run("solution key is the solution path", func(t *testing.T) {
		root := SolutionRoot("/work/sample/Sample.sln")
		assert.Equal(t, "/work/sample/Sample.sln", root.Key())
	})

	t.Run("project set key covers directory and projects", func(t *testing.T) {
		a := ProjectSetRoot("/work/sample", []string{"/work/sample/App/App.csproj"})
		b := ProjectSetRoot("/work/sample", []string{"/work/sample/Lib/Lib.csproj"})
		assert.NotEqual(t, a.Key(), b.Key())
	})
}

func TestWorkspaceRootEqual(t *testing.T) {
	solution := SolutionRoot("/work/sample/Sample.sln")
	assert.True(t, solution.Equal(SolutionRoot("/work/sample/Sample.sln")))
	assert.False(t, solution.Equal(SolutionRoot("/work/other/Other.sln")))
	assert.False(t, solution.Equal(ProjectSetRoot("/work/sample", nil)))
	assert.False(t, solution.Equal(WorkspaceRoot{}))
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
