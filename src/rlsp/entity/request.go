package entity

import (
	"context"
	"encoding/json"
)

// ResponseHandler observes the raw result of an asynchronous outgoing request.
// Exactly one of result and err is meaningful.
type ResponseHandler func(result json.RawMessage, err error)

// Requester issues an outgoing request to the language server without blocking the
// caller. The handler, which may be nil, runs once the response arrives. Wrappers
// around a Requester must preserve this contract.
type Requester func(ctx context.Context, method string, params interface{}, handler ResponseHandler) error
