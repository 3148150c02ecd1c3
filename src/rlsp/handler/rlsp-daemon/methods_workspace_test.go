package rlspdaemon

import (
	"context"
	"errors"
	"testing"

	rlspdaemonmock "github.com/drzbida/roslyn-lsp/src/rlsp/controller/rlsp-daemon/rlspdaemonmock"
	"github.com/drzbida/roslyn-lsp/src/rlsp/factory"
	"github.com/stretchr/testify/assert"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/mock/gomock"
)

func TestSelectTarget(t *testing.T) {
	root := factory.SolutionRoot(1)

	t.Run("valid target", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ctx := context.Background()
		replier := newMockReplier()

		c := rlspdaemonmock.NewMockController(ctrl)
		c.EXPECT().SelectTarget(gomock.Any(), root).Return(nil)

		r := jsonRPCRouter{rlspdaemon: c}
		req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), MethodSelectTarget, root)
		assert.NoError(t, r.HandleReq(ctx, replier, req))
	})

	t.Run("controller error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ctx := context.Background()
		replier := newMockReplier()

		c := rlspdaemonmock.NewMockController(ctrl)
		c.EXPECT().SelectTarget(gomock.Any(), root).Return(errors.New("err"))

		r := jsonRPCRouter{rlspdaemon: c}
		req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), MethodSelectTarget, root)
		assert.Error(t, r.HandleReq(ctx, replier, req))
	})

	t.Run("invalid params", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ctx := context.Background()
		replier := newMockReplier()

		c := rlspdaemonmock.NewMockController(ctrl)

		r := jsonRPCRouter{rlspdaemon: c}
		req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), MethodSelectTarget, 5)
		assert.Error(t, r.HandleReq(ctx, replier, req))
	})
}
