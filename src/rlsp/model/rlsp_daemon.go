package model

import (
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// Session is the repository layer model for an individual editor session.
type Session struct {
	UUID             uuid.UUID
	InitializeParams *protocol.InitializeParams
	Conn             *jsonrpc2.Conn
	RootKind         int
	Solution         string
	Directory        string
	Projects         []string
	State            int
	Documents        []uri.URI
}
