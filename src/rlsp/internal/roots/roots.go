// Package roots resolves the workspace target for a C# document: the solution that
// owns it, or failing that the set of nearby project files.
package roots

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	rlsperrors "github.com/drzbida/roslyn-lsp/src/rlsp/internal/errors"
	"go.lsp.dev/uri"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Resolution is the outcome of resolving a document to a workspace root. When more
// than one candidate remains the choice is deferred to the editor.
type Resolution struct {
	Root       entity.WorkspaceRoot
	Candidates []entity.WorkspaceRoot
}

// Ambiguous reports whether the resolution requires the user to pick a candidate.
func (r Resolution) Ambiguous() bool {
	return len(r.Candidates) > 1
}

// Selector resolves documents to workspace roots.
type Selector interface {
	Resolve(doc uri.URI) (Resolution, error)
}

type selector struct{}

// New creates a Selector backed by filesystem discovery.
func New() Selector {
	return &selector{}
}

// _solutionProjectPattern extracts the referenced project path from a solution
// Project entry, e.g. Project("{GUID}") = "Name", "src\Name\Name.csproj", "{GUID}".
var _solutionProjectPattern = regexp.MustCompile(`^Project\(".*"\)\s*=\s*".*",\s*"(.*?)"`)

func (s *selector) Resolve(doc uri.URI) (Resolution, error) {
	docPath := doc.Filename()

	solutions, err := findSolutionsAbove(filepath.Dir(docPath))
	if err != nil {
		return Resolution{}, err
	}

	var scanErr error
	candidates := make([]entity.WorkspaceRoot, 0, len(solutions))
	for _, sln := range solutions {
		owns, err := solutionOwnsDocument(sln, docPath)
		if err != nil {
			scanErr = multierr.Append(scanErr, err)
			continue
		}
		if owns {
			candidates = append(candidates, entity.SolutionRoot(sln))
		}
	}

	switch len(candidates) {
	case 1:
		return Resolution{Root: candidates[0]}, nil
	case 0:
		root, err := projectSetFor(docPath)
		if err != nil {
			return Resolution{}, multierr.Append(err, scanErr)
		}
		return Resolution{Root: root}, nil
	default:
		return Resolution{Candidates: candidates}, nil
	}
}

// findSolutionsAbove collects every .sln and .slnf file in the directories from dir up
// to the filesystem root, nearest first.
func findSolutionsAbove(dir string) ([]string, error) {
	found := make([]string, 0)
	for {
		entries, err := os.ReadDir(dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".sln", ".slnf":
				found = append(found, filepath.Join(dir, e.Name()))
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return found, nil
		}
		dir = parent
	}
}

// solutionOwnsDocument reports whether any project referenced by the solution sits in
// a directory containing the document.
func solutionOwnsDocument(solutionPath, docPath string) (bool, error) {
	f, err := os.Open(solutionPath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	slnDir := filepath.Dir(solutionPath)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := _solutionProjectPattern.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m == nil {
			continue
		}
		projPath := filepath.Join(slnDir, filepath.FromSlash(strings.ReplaceAll(m[1], `\`, "/")))
		if !strings.EqualFold(filepath.Ext(projPath), ".csproj") {
			continue
		}
		projDir := filepath.Dir(projPath)
		if rel, err := filepath.Rel(projDir, docPath); err == nil && !strings.HasPrefix(rel, "..") {
			return true, nil
		}
	}
	return false, scanner.Err()
}

// projectSetFor falls back to the nearest directory above the document that contains
// project files and returns all of them as one target.
func projectSetFor(docPath string) (entity.WorkspaceRoot, error) {
	dir := filepath.Dir(docPath)
	for {
		entries, err := os.ReadDir(dir)
		if err != nil && !os.IsNotExist(err) {
			return entity.WorkspaceRoot{}, err
		}
		projects := make([]string, 0)
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".csproj") {
				projects = append(projects, filepath.Join(dir, e.Name()))
			}
		}
		if len(projects) > 0 {
			sort.Strings(projects)
			return entity.ProjectSetRoot(dir, projects), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return entity.WorkspaceRoot{}, rlsperrors.NoRootResolvedError
		}
		dir = parent
	}
}
