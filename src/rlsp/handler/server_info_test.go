package handler

import (
	"errors"
	"testing"

	"github.com/drzbida/roslyn-lsp/src/rlsp/internal/serverinfofile/serverinfofilemock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/config"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestOutputServerConnectionInfo(t *testing.T) {
	tests := []struct {
		name       string
		cfg        interface{}
		setupMocks func(infofile *serverinfofilemock.MockServerInfoFile)
		wantErr    bool
	}{
		{
			name: "valid config",
			cfg: map[string]interface{}{
				"address": "localhost:9500",
			},
			setupMocks: func(infofile *serverinfofilemock.MockServerInfoFile) {
				infofile.EXPECT().UpdateField(_serverAddressKey, "localhost:9500").Return(nil)
			},
			wantErr: false,
		},
		{
			name: "missing address",
			cfg: map[string]interface{}{
				"fileWatching": "auto",
			},
			setupMocks: func(infofile *serverinfofilemock.MockServerInfoFile) {},
			wantErr:    true,
		},
		{
			name: "invalid address",
			cfg: map[string]interface{}{
				"address": map[interface{}]interface{}{},
			},
			setupMocks: func(infofile *serverinfofilemock.MockServerInfoFile) {},
			wantErr:    true,
		},
		{
			name: "file update error",
			cfg: map[string]interface{}{
				"address": "localhost:9500",
			},
			setupMocks: func(infofile *serverinfofilemock.MockServerInfoFile) {
				infofile.EXPECT().UpdateField(_serverAddressKey, "localhost:9500").Return(errors.New("sample"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			infofile := serverinfofilemock.NewMockServerInfoFile(ctrl)
			tt.setupMocks(infofile)

			cfg, err := config.NewStaticProvider(map[string]interface{}{_configKeyServer: tt.cfg})
			require.NoError(t, err)

			err = outputServerConnectionInfo(cfg, infofile)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
