// Package entity contains the domain logic for the rlsp-daemon service.
package entity

import (
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

type keyType string

// SessionContextKey indicates the key to be used to identify the session UUID in the context.
const SessionContextKey keyType = "SessionUUID"

// SessionState tracks the lifecycle of a session's language server connection.
type SessionState int

const (
	// StateUnstarted indicates that no server connection has been requested for this session.
	StateUnstarted SessionState = iota
	// StateStarting indicates that a server connection has been requested but initialization has not yet completed.
	StateStarting
	// StateReady indicates that the server connection is initialized and the workspace target has been opened.
	StateReady
	// StateStopped indicates that the server connection has exited or been stopped.
	StateStopped
)

// String implements fmt.Stringer.
func (s SessionState) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateStopped:
		return "stopped"
	default:
		return "unstarted"
	}
}

// Session entity representing a single editor session.
type Session struct {
	UUID             uuid.UUID                  `json:"uuid" zap:"uuid"`
	InitializeParams *protocol.InitializeParams `json:"-" zap:"-"`
	Conn             *jsonrpc2.Conn             `json:"-" zap:"-"`
	Root             WorkspaceRoot              `json:"root" zap:"root"`
	State            SessionState               `json:"state" zap:"state"`
	Documents        []uri.URI                  `json:"documents" zap:"documents"`
}

// HasDocument reports whether the given document is currently bound to this session.
func (s *Session) HasDocument(doc uri.URI) bool {
	for _, d := range s.Documents {
		if d == doc {
			return true
		}
	}
	return false
}

// RootKind distinguishes the two forms of workspace target that a session may open.
type RootKind int

const (
	// RootKindNone indicates that no workspace target has been resolved yet.
	RootKindNone RootKind = iota
	// RootKindSolution indicates a single solution file.
	RootKindSolution
	// RootKindProjectSet indicates a directory with an ordered set of project files.
	RootKindProjectSet
)

// WorkspaceRoot is the resolved workspace target for a session.
// It is immutable once chosen: either a solution file, or an ordered set of project files within a directory.
type WorkspaceRoot struct {
	Kind      RootKind `json:"kind"`
	Solution  string   `json:"solution,omitempty"`
	Directory string   `json:"directory,omitempty"`
	Projects  []string `json:"projects,omitempty"`
}

// SolutionRoot returns a WorkspaceRoot for a single solution file.
func SolutionRoot(path string) WorkspaceRoot {
	return WorkspaceRoot{
		Kind:      RootKindSolution,
		Solution:  path,
		Directory: filepath.Dir(path),
	}
}

// ProjectSetRoot returns a WorkspaceRoot for an ordered set of project files.
func ProjectSetRoot(dir string, projects []string) WorkspaceRoot {
	return WorkspaceRoot{
		Kind:      RootKindProjectSet,
		Directory: dir,
		Projects:  projects,
	}
}

// IsZero reports whether no workspace target has been resolved.
func (r WorkspaceRoot) IsZero() bool {
	return r.Kind == RootKindNone
}

// Key returns a stable identity for this root, used for session lookup and the selected root marker.
func (r WorkspaceRoot) Key() string {
	switch r.Kind {
	case RootKindSolution:
		return r.Solution
	case RootKindProjectSet:
		return r.Directory + "|" + strings.Join(r.Projects, "|")
	default:
		return ""
	}
}

// Equal reports whether two roots identify the same workspace target.
func (r WorkspaceRoot) Equal(other WorkspaceRoot) bool {
	return r.Kind == other.Kind && r.Key() == other.Key()
}

// FileWatchingMode controls how workspace/didChangeWatchedFiles registrations from the server are honored.
type FileWatchingMode string

const (
	// FileWatchingAuto forwards watcher registrations to the editor unchanged.
	FileWatchingAuto FileWatchingMode = "auto"
	// FileWatchingOff strips watcher entries from registrations before any handler sees them.
	FileWatchingOff FileWatchingMode = "off"
	// FileWatchingDaemon registers watchers with the daemon's own file watcher and
	// reports changes to the server directly.
	FileWatchingDaemon FileWatchingMode = "daemon"
)

// ServerConfig carries the configuration used to establish a server connection for a session.
// The capability level of the host is resolved into these flags once at session construction.
type ServerConfig struct {
	// Address of the running language server's JSON-RPC endpoint.
	Address string `yaml:"address"`
	// FileWatching selects the watcher registration behavior for the session.
	FileWatching FileWatchingMode `yaml:"fileWatching"`
}
