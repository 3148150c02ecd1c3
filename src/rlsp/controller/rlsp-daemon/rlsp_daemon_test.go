package rlspdaemon

import (
	"context"
	"testing"
	"time"

	"github.com/drzbida/roslyn-lsp/src/rlsp/entity"
	sessionhandlers "github.com/drzbida/roslyn-lsp/src/rlsp/entity/session-handlers"
	"github.com/drzbida/roslyn-lsp/src/rlsp/factory"
	notifier "github.com/drzbida/roslyn-lsp/src/rlsp/gateway/editor-client"
	serverclient "github.com/drzbida/roslyn-lsp/src/rlsp/gateway/server-client"
	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/fxmock"
	"github.com/drzbida/roslyn-lsp/src/rlsp/repository/session"
	"github.com/drzbida/roslyn-lsp/src/rlsp/repository/session/repositorymock"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type sampleConfig map[string]interface{}

// newBareController builds a controller with the minimum state needed for a test,
// with the idle timer already running so lifecycle methods can refresh it.
func newBareController(sessions session.Repository, editors notifier.Gateway) *controller {
	return &controller{
		logger:             zap.NewNop().Sugar(),
		sessions:           sessions,
		editors:            editors,
		idleTimer:          time.NewTimer(time.Hour),
		idleTimeoutMinutes: time.Hour,
		handles:            map[uuid.UUID]serverclient.Handle{},
		handlers:           map[uuid.UUID]*sessionhandlers.Methods{},
		pendingOpens:       map[uuid.UUID][]*protocol.DidOpenTextDocumentParams{},
	}
}

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockShutdowner := fxmock.NewMockShutdowner(ctrl)

	s := &entity.Session{
		UUID: factory.UUID(),
	}
	ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

	sessionRepository := repositorymock.NewMockRepository(ctrl)
	sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil).AnyTimes()

	mockParams := Params{
		Shutdowner: mockShutdowner,
		Logger:     zap.NewNop().Sugar(),
		Sessions:   sessionRepository,
	}

	t.Run("config includes timeout", func(t *testing.T) {
		mockConfig, _ := config.NewStaticProvider(sampleConfig{
			_idleTimeoutMinutesKey: 5,
			_serverKey: map[string]interface{}{
				"address": "127.0.0.1:8800",
			},
		})
		mockParams.Config = mockConfig

		assert.NotPanics(t, func() {
			mockShutdowner.EXPECT().Shutdown().Return(nil)
			c, _ := New(mockParams)
			c.RequestFullShutdown(ctx)
			c.Exit(ctx)

			// Small delay to allow shutdown goroutine to complete.
			time.Sleep(100 * time.Millisecond)
		})
	})

	t.Run("file watching defaults to auto", func(t *testing.T) {
		mockConfig, _ := config.NewStaticProvider(sampleConfig{
			_idleTimeoutMinutesKey: 5,
			_serverKey: map[string]interface{}{
				"address": "127.0.0.1:8800",
			},
		})
		mockParams.Config = mockConfig

		mockShutdowner.EXPECT().Shutdown().Return(nil)
		c, err := New(mockParams)
		assert.NoError(t, err)
		assert.Equal(t, entity.FileWatchingAuto, c.(*controller).serverCfg.FileWatching)

		c.RequestFullShutdown(ctx)
		c.Exit(ctx)
		time.Sleep(100 * time.Millisecond)
	})

	t.Run("explicit file watching mode", func(t *testing.T) {
		mockConfig, _ := config.NewStaticProvider(sampleConfig{
			_idleTimeoutMinutesKey: 5,
			_serverKey: map[string]interface{}{
				"address":      "127.0.0.1:8800",
				"fileWatching": "daemon",
			},
		})
		mockParams.Config = mockConfig

		mockShutdowner.EXPECT().Shutdown().Return(nil)
		c, err := New(mockParams)
		assert.NoError(t, err)
		assert.Equal(t, entity.FileWatchingDaemon, c.(*controller).serverCfg.FileWatching)

		c.RequestFullShutdown(ctx)
		c.Exit(ctx)
		time.Sleep(100 * time.Millisecond)
	})

	t.Run("config missing timeout", func(t *testing.T) {
		mockConfig, _ := config.NewStaticProvider(sampleConfig{})
		mockParams.Config = mockConfig

		_, err := New(mockParams)
		assert.Error(t, err)
	})
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
